// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package behavior decides what each unit does in a tick. A decision reads
// only the pre-tick snapshot and the unit's own copy; effects on other units
// are returned, not applied.
package behavior

import (
	"github.com/oklog/ulid/v2"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/combat"
	"github.com/holomush/warband/internal/core"
	"github.com/holomush/warband/internal/unit"
)

// Hit is damage and stun owed to one unit by a resolved strike.
type Hit struct {
	Target ulid.ULID
	Damage int
	Stun   int
}

// Drop is an intent that could not be honored.
type Drop struct {
	Target ulid.ULID
	Reason core.DropReason
}

// Decision is the outcome of one unit's tick.
type Decision struct {
	// Self is the unit's state after its transition.
	Self unit.Instance
	Edge combat.Edge
	// Hits are applied by the caller during commit, in order.
	Hits    []Hit
	Dropped []Drop
	// Resolved is the unit's single ActionResolved event, unstamped.
	Resolved core.Event
}

// Dispatcher selects behavior by archetype tag.
type Dispatcher struct {
	catalog *archetype.Catalog
}

// NewDispatcher creates a dispatcher reading stats from catalog.
func NewDispatcher(catalog *archetype.Catalog) *Dispatcher {
	return &Dispatcher{catalog: catalog}
}

// Decide runs one tick of self's behavior against snap. self is a copy and
// is returned updated in the decision; snap is never modified.
func (d *Dispatcher) Decide(snap *Snapshot, self unit.Instance, orders Orders) Decision {
	desc := d.catalog.Describe(self.Type())
	dec := Decision{}

	var (
		attackable bool
		outcome    core.Outcome
		target     unit.Instance
	)
	if orders.Attack {
		t, reason := d.checkTarget(snap, self.ID, orders.Target)
		switch {
		case reason != "":
			dec.Dropped = append(dec.Dropped, Drop{Target: orders.Target, Reason: reason})
		case self.Position.Dist(t.Position) > Reach(self.Type(), desc):
			outcome = core.OutcomeOutOfReach
		default:
			attackable = true
			target = t
		}
	}

	destination := self.Destination
	if orders.Move {
		destination = orders.Destination
	}

	next, edge := combat.Next(self.State, combat.Triggers{
		HealthZero:    self.Health <= 0,
		Stun:          self.PendingStun > 0,
		StunElapsed:   self.StunRemaining <= 1,
		WindupElapsed: self.WindupRemaining <= 1,
		AttackIntent:  attackable,
		CooldownZero:  self.CooldownRemaining == 0,
		MoveIntent:    orders.Move,
		Arrived:       self.Position == destination,
		StopIntent:    orders.Stop,
	})
	prev := self.State
	self.State = next
	dec.Edge = edge

	ev := core.Event{
		Type:   core.EventTypeActionResolved,
		Actor:  self.ID,
		Action: core.ActionNone,
	}
	// Order outcomes only describe units free to act on the order.
	if (prev == combat.Idle || prev == combat.Moving) && edge != combat.EdgeStun {
		ev.Outcome = outcome
		if attackable && self.CooldownRemaining > 0 && edge != combat.EdgeAttack {
			ev.Outcome = core.OutcomeCooldown
		}
	}

	switch edge {
	case combat.EdgeDeath:
		ev.Outcome = core.OutcomeNoop
	case combat.EdgeStun:
		self.StunRemaining = self.PendingStun
		self.PendingStun = 0
		self.Strike = unit.Strike{}
		self.WindupRemaining = 0
		self.Destination = unit.Vec2{}
		ev.Action = core.ActionStunned
		ev.Amount = self.StunRemaining
	case combat.EdgeStunElapsed:
		self.StunRemaining = 0
		ev.Action = core.ActionRecover
	case combat.EdgeWindupElapsed:
		ev.Target = self.Strike.Target
		ev.Action = core.ActionStrike
		dec.Hits = d.resolve(snap, self, desc)
		ev.Outcome = core.OutcomeMiss
		for _, h := range dec.Hits {
			ev.Amount += h.Damage
			ev.Outcome = core.OutcomeHit
		}
		self.Strike = unit.Strike{}
		self.WindupRemaining = 0
		self.CooldownRemaining = desc.AttackCooldownTicks
	case combat.EdgeAttack:
		self.Strike = unit.Strike{Target: target.ID, Aim: target.Position}
		self.WindupRemaining = WindupTicks(self.Type(), desc)
		self.Destination = unit.Vec2{}
		ev.Target = target.ID
		ev.Action = core.ActionWindup
		ev.Outcome = core.OutcomeNone
	case combat.EdgeMove:
		self.Destination = destination
		self.Position, _ = self.Position.Toward(destination, desc.MoveSpeed)
		ev.Action = core.ActionMove
	case combat.EdgeArrive:
		self.Destination = unit.Vec2{}
		ev.Action = core.ActionStop
		ev.Outcome = core.OutcomeArrived
	case combat.EdgeStop:
		self.Destination = unit.Vec2{}
		ev.Action = core.ActionStop
	case combat.EdgeNone:
		switch self.State {
		case combat.Idle:
			ev.Action = core.ActionIdle
		case combat.Moving:
			self.Destination = destination
			self.Position, _ = self.Position.Toward(destination, desc.MoveSpeed)
			ev.Action = core.ActionMove
		case combat.Attacking:
			self.WindupRemaining--
			ev.Target = self.Strike.Target
			ev.Action = core.ActionWindup
		case combat.Stunned:
			self.StunRemaining--
			ev.Action = core.ActionStunned
			ev.Amount = self.StunRemaining
		case combat.Dead:
			ev.Outcome = core.OutcomeNoop
		}
	}

	ev.X, ev.Y = self.Position.X, self.Position.Y
	dec.Self = self
	dec.Resolved = ev
	return dec
}

func (d *Dispatcher) checkTarget(snap *Snapshot, self, id ulid.ULID) (unit.Instance, core.DropReason) {
	if id == self {
		return unit.Instance{}, core.DropSelfTarget
	}
	t, ok := snap.Lookup(id)
	if !ok {
		return unit.Instance{}, core.DropUnknownTarget
	}
	if !t.Alive() {
		return unit.Instance{}, core.DropDeadTarget
	}
	return t, ""
}

// resolve computes the hits of self's locked strike. Positions are read from
// the snapshot, so a target that moved out of reach this tick still counts
// where it stood at the start of the tick.
func (d *Dispatcher) resolve(snap *Snapshot, self unit.Instance, desc archetype.Descriptor) []Hit {
	hit := func(id ulid.ULID) Hit {
		return Hit{Target: id, Damage: desc.BaseDamage, Stun: desc.StunTicks}
	}

	switch ShapeOf(self.Type()) {
	case ShapeArea:
		var hits []Hit
		for i := range snap.Len() {
			u := snap.At(i)
			if u.ID == self.ID || !u.Alive() {
				continue
			}
			if u.Position.Dist(self.Strike.Aim) <= desc.AreaRadius {
				hits = append(hits, hit(u.ID))
			}
		}
		return hits
	case ShapeRanged, ShapeMelee:
		t, ok := snap.Lookup(self.Strike.Target)
		if !ok || !t.Alive() || self.Position.Dist(t.Position) > Reach(self.Type(), desc) {
			return nil
		}
		return []Hit{hit(t.ID)}
	default:
		return nil
	}
}
