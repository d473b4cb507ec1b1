// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package unit holds the mutable runtime record of a spawned unit.
package unit

import (
	"github.com/oklog/ulid/v2"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/combat"
	"github.com/holomush/warband/internal/core"
)

// Strike is an attack locked in when its windup started.
type Strike struct {
	Target ulid.ULID
	Aim    Vec2 // target position at windup start
}

// Instance is the runtime state of one unit. It refers to its archetype by
// tag only; static stats are looked up in the catalog.
//
// Instance holds no pointers, so assigning it copies it completely.
type Instance struct {
	ID                ulid.ULID
	tag               archetype.Tag
	Health            int
	Position          Vec2
	State             combat.State
	CooldownRemaining int

	// Destination is meaningful while State is Moving.
	Destination Vec2
	// Strike and WindupRemaining are meaningful while State is Attacking.
	Strike          Strike
	WindupRemaining int
	// StunRemaining is meaningful while State is Stunned.
	StunRemaining int
	// PendingStun is a stun committed during the previous tick, consumed as
	// the next tick's stun trigger.
	PendingStun int
	// DeadTicks counts ticks spent Dead, for reaping.
	DeadTicks int
}

// Spawn creates an instance of tag at pos with full health, Idle and no cooldown.
func Spawn(catalog *archetype.Catalog, id ulid.ULID, tag archetype.Tag, pos Vec2) (*Instance, error) {
	if !tag.Valid() {
		return nil, archetype.ErrInvalidArchetype(tag.Wire())
	}
	return &Instance{
		ID:       id,
		tag:      tag,
		Health:   catalog.Describe(tag).MaxHealth,
		Position: pos,
		State:    combat.Idle,
	}, nil
}

// Type returns the instance's archetype tag. It never changes.
func (i *Instance) Type() archetype.Tag {
	return i.tag
}

// Alive reports whether the instance is not Dead.
func (i *Instance) Alive() bool {
	return i.State != combat.Dead
}

// ApplyDamage lowers health by amount, floored at zero. Negative amounts are
// treated as zero. When health reaches zero the instance becomes Dead and a
// single death event is emitted, naming by as the source and carrying the
// health actually lost.
//
// Damage to a Dead instance is ignored. ApplyDamage reports whether this call
// killed the instance.
func (i *Instance) ApplyDamage(amount int, by ulid.ULID, emit core.Emitter) bool {
	if i.State == combat.Dead {
		return false
	}
	lost := min(max(amount, 0), i.Health)
	i.Health -= lost
	if i.Health > 0 {
		return false
	}

	i.die()
	emit.Emit(core.Event{
		Type:   core.EventTypeDeath,
		Actor:  i.ID,
		Target: by,
		Amount: lost,
		X:      i.Position.X,
		Y:      i.Position.Y,
	})
	return true
}

// ApplyStun queues a stun of ticks for the next tick. Longer stuns win.
func (i *Instance) ApplyStun(ticks int) {
	if i.State == combat.Dead || ticks <= 0 {
		return
	}
	i.PendingStun = max(i.PendingStun, ticks)
}

// TickCooldown decrements the attack cooldown, floored at zero.
func (i *Instance) TickCooldown() {
	if i.CooldownRemaining > 0 {
		i.CooldownRemaining--
	}
}

func (i *Instance) die() {
	i.State = combat.Dead
	i.Destination = Vec2{}
	i.Strike = Strike{}
	i.WindupRemaining = 0
	i.StunRemaining = 0
	i.PendingStun = 0
	i.CooldownRemaining = 0
}
