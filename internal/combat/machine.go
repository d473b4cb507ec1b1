// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package combat

// Edge names the transition taken by Next.
type Edge uint8

const (
	// EdgeNone leaves the state unchanged.
	EdgeNone Edge = iota
	EdgeDeath
	EdgeStun
	EdgeStunElapsed
	EdgeWindupElapsed
	EdgeAttack
	EdgeMove
	EdgeArrive
	EdgeStop
)

func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeDeath:
		return "death"
	case EdgeStun:
		return "stun"
	case EdgeStunElapsed:
		return "stun_elapsed"
	case EdgeWindupElapsed:
		return "windup_elapsed"
	case EdgeAttack:
		return "attack"
	case EdgeMove:
		return "move"
	case EdgeArrive:
		return "arrive"
	case EdgeStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Triggers are the conditions observed for one unit in one tick.
type Triggers struct {
	HealthZero    bool
	Stun          bool
	StunElapsed   bool
	WindupElapsed bool
	// AttackIntent is an attack order the unit can satisfy this tick
	// (target known and within reach).
	AttackIntent bool
	CooldownZero bool
	MoveIntent   bool
	Arrived      bool
	StopIntent   bool
}

// Next evaluates exactly one transition from s.
//
// Priority: death pre-empts everything, then stun, then the edges local to
// the current state. From Idle and Moving an attack beats movement.
func Next(s State, t Triggers) (State, Edge) {
	if s == Dead {
		return Dead, EdgeNone
	}
	if t.HealthZero {
		return Dead, EdgeDeath
	}
	if t.Stun {
		return Stunned, EdgeStun
	}

	switch s {
	case Idle:
		if t.AttackIntent && t.CooldownZero {
			return Attacking, EdgeAttack
		}
		if t.MoveIntent {
			return Moving, EdgeMove
		}
	case Moving:
		if t.AttackIntent && t.CooldownZero {
			return Attacking, EdgeAttack
		}
		if t.StopIntent {
			return Idle, EdgeStop
		}
		if t.Arrived {
			return Idle, EdgeArrive
		}
	case Attacking:
		if t.WindupElapsed {
			return Idle, EdgeWindupElapsed
		}
	case Stunned:
		if t.StunElapsed {
			return Idle, EdgeStunElapsed
		}
	case Dead:
	}
	return s, EdgeNone
}
