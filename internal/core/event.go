// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package core contains the simulation's event model, per-tick event log,
// id generation and event distribution.
package core

import (
	"github.com/oklog/ulid/v2"
)

// EventType identifies the kind of event.
type EventType string

const (
	EventTypeDeath          EventType = "death"
	EventTypeActionResolved EventType = "action_resolved"
	EventTypeDroppedIntent  EventType = "dropped_intent"
	EventTypeSpawned        EventType = "spawned"
	EventTypeReaped         EventType = "reaped"
)

// Action names the behavior a unit executed in a tick.
type Action string

const (
	ActionNone    Action = "none"
	ActionIdle    Action = "idle"
	ActionMove    Action = "move"
	ActionStop    Action = "stop"
	ActionWindup  Action = "windup"
	ActionStrike  Action = "strike"
	ActionStunned Action = "stunned"
	ActionRecover Action = "recover"
)

// Outcome qualifies an ActionResolved event.
type Outcome string

const (
	OutcomeNone       Outcome = ""
	OutcomeHit        Outcome = "hit"
	OutcomeMiss       Outcome = "miss"
	OutcomeArrived    Outcome = "arrived"
	OutcomeOutOfReach Outcome = "out_of_reach"
	OutcomeCooldown   Outcome = "cooldown"
	OutcomeNoop       Outcome = "noop"
)

// DropReason explains why an intent was dropped.
type DropReason string

const (
	DropUnknownActor  DropReason = "unknown_actor"
	DropUnknownTarget DropReason = "unknown_target"
	DropSelfTarget    DropReason = "self_target"
	DropDeadTarget    DropReason = "dead_target"
	DropInvalidOrder  DropReason = "invalid_order"
)

// StreamTick carries events that have no live actor.
const StreamTick = "tick"

// StreamForUnit returns the stream name for events about one unit.
func StreamForUnit(id ulid.ULID) string {
	return "unit:" + id.String()
}

// Event is one entry of a tick's event log. Events carry no wall-clock or
// random data: identical inputs produce identical logs.
type Event struct {
	Tick    uint64
	Seq     int // position within the tick
	Stream  string
	Type    EventType
	Actor   ulid.ULID // zero when no unit caused the event
	Target  ulid.ULID // zero when the event has no target
	Action  Action
	Outcome Outcome
	Amount  int     // damage dealt or stun ticks, depending on Type
	X, Y    float64 // actor position after the event
	Reason  DropReason
}

// Emitter receives events.
type Emitter interface {
	Emit(Event)
}

// EventLog is the ordered, append-only event log of a single tick.
// It is not safe for concurrent use.
type EventLog struct {
	tick   uint64
	events []Event
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Begin clears the log for a new tick.
func (l *EventLog) Begin(tick uint64) {
	l.tick = tick
	l.events = l.events[:0]
}

// Tick returns the tick the log is collecting.
func (l *EventLog) Tick() uint64 {
	return l.tick
}

// Emit appends e, stamping tick, sequence and a default stream.
func (l *EventLog) Emit(e Event) {
	e.Tick = l.tick
	e.Seq = len(l.events)
	if e.Stream == "" {
		if e.Actor.IsZero() {
			e.Stream = StreamTick
		} else {
			e.Stream = StreamForUnit(e.Actor)
		}
	}
	l.events = append(l.events, e)
}

// Len returns the number of events in the log.
func (l *EventLog) Len() int {
	return len(l.events)
}

// Events returns a copy of the log.
func (l *EventLog) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}
