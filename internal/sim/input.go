// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim

import (
	"github.com/oklog/ulid/v2"

	"github.com/holomush/warband/internal/behavior"
)

// EffectKind identifies an external effect.
type EffectKind uint8

const (
	// EffectStun queues a stun of Amount ticks on Target.
	EffectStun EffectKind = iota + 1
	// EffectDamage deals Amount damage to Target.
	EffectDamage
)

func (k EffectKind) String() string {
	switch k {
	case EffectStun:
		return "stun"
	case EffectDamage:
		return "damage"
	default:
		return "unknown"
	}
}

// Effect is applied to an instance from outside its combat, at commit time
// after all strikes of the tick.
type Effect struct {
	Kind   EffectKind
	Target ulid.ULID
	Amount int
}

// TickInput is everything a tick reads besides the live set.
type TickInput struct {
	Intents []behavior.Intent
	Effects []Effect
	// Malformed counts orders that could not be read. Each is reported as a
	// dropped intent with no actor.
	Malformed int
}
