// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim

import "github.com/samber/oops"

// CodeStepAborted marks a tick that was never started.
const CodeStepAborted = "STEP_ABORTED"

// ErrStepAborted creates an error for a tick refused because its context
// had already ended. No state changed.
func ErrStepAborted(tick uint64, err error) error {
	return oops.Code(CodeStepAborted).With("tick", tick).Wrapf(err, "tick %d aborted", tick)
}
