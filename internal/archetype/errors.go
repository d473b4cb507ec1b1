// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package archetype

import (
	"github.com/samber/oops"
)

// Error codes for archetype failures.
const (
	// CodeConfiguration marks a missing or invalid archetype row. Fatal at startup.
	CodeConfiguration = "CONFIGURATION_ERROR"
	// CodeInvalidArchetype marks a value outside the closed tag set.
	CodeInvalidArchetype = "INVALID_ARCHETYPE"
)

// ErrInvalidArchetype creates an error for a value outside the closed tag set.
func ErrInvalidArchetype(value any) error {
	return oops.Code(CodeInvalidArchetype).
		With("value", value).
		Errorf("invalid archetype: %v", value)
}

// ErrConfiguration creates an error for an unusable archetype table.
func ErrConfiguration(field, message string) error {
	return oops.Code(CodeConfiguration).
		With("field", field).
		Errorf("archetype configuration: %s: %s", field, message)
}

// wrapConfiguration wraps a lower-level failure as a configuration error.
func wrapConfiguration(operation string, err error) error {
	return oops.Code(CodeConfiguration).
		With("operation", operation).
		Wrap(err)
}
