// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package scenario

import "github.com/samber/oops"

// Error codes for scenario failures.
const (
	// CodeScenarioInvalid marks a scenario file or order line that cannot be used.
	CodeScenarioInvalid = "SCENARIO_INVALID"
	// CodeScriptFailed marks a Lua controller that failed to load or run.
	CodeScriptFailed = "SCRIPT_FAILED"
)

// ErrScenarioInvalid creates an error for an unusable scenario field.
func ErrScenarioInvalid(field, message string) error {
	return oops.Code(CodeScenarioInvalid).
		With("field", field).
		Errorf("scenario: %s: %s", field, message)
}

// ErrOrderSyntax wraps a parse failure of one order line.
func ErrOrderSyntax(line string, err error) error {
	return oops.Code(CodeScenarioInvalid).
		With("line", line).
		Wrapf(err, "order %q", line)
}

// ErrScriptFailed wraps a controller failure.
func ErrScriptFailed(operation string, tick uint64, err error) error {
	return oops.Code(CodeScriptFailed).
		With("operation", operation).
		With("tick", tick).
		Wrapf(err, "controller %s", operation)
}
