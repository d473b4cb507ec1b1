// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package combat implements the per-unit combat state machine.
package combat

// State is a unit's combat state. Dead is terminal.
type State uint8

const (
	Idle State = iota
	Moving
	Attacking
	Stunned
	Dead
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Attacking:
		return "attacking"
	case Stunned:
		return "stunned"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition can leave s.
func (s State) Terminal() bool {
	return s == Dead
}
