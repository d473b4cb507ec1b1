// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import "github.com/samber/oops"

// CodeInvalidConfig marks settings that cannot be loaded or used.
const CodeInvalidConfig = "INVALID_CONFIG"

// ErrConfigFile creates an error for a config file that cannot be read.
func ErrConfigFile(path string, err error) error {
	return oops.Code(CodeInvalidConfig).With("path", path).Wrapf(err, "read config file")
}

// ErrInvalidValue creates an error for a setting outside its allowed values.
func ErrInvalidValue(key, value, message string) error {
	return oops.Code(CodeInvalidConfig).
		With("key", key).
		With("value", value).
		Errorf("%s: %s", key, message)
}
