// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package behavior

import (
	"github.com/oklog/ulid/v2"

	"github.com/holomush/warband/internal/unit"
)

// IntentKind identifies what an intent asks for.
type IntentKind uint8

const (
	IntentMove IntentKind = iota + 1
	IntentStop
	IntentAttack
)

func (k IntentKind) String() string {
	switch k {
	case IntentMove:
		return "move"
	case IntentStop:
		return "stop"
	case IntentAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// Intent is one request for one unit in one tick.
type Intent struct {
	Actor       ulid.ULID
	Kind        IntentKind
	Target      ulid.ULID // IntentAttack
	Destination unit.Vec2 // IntentMove
}

// Orders are a unit's intents for a tick, collapsed to at most one attack
// and one movement order.
type Orders struct {
	Attack      bool
	Target      ulid.ULID
	Move        bool
	Destination unit.Vec2
	Stop        bool
}

// Collapse folds one unit's intents, in arrival order, into Orders. The
// last attack wins; the last move or stop wins. Unknown kinds are ignored.
func Collapse(intents []Intent) Orders {
	var o Orders
	for _, in := range intents {
		switch in.Kind {
		case IntentAttack:
			o.Attack = true
			o.Target = in.Target
		case IntentMove:
			o.Move, o.Stop = true, false
			o.Destination = in.Destination
		case IntentStop:
			o.Move, o.Stop = false, true
		}
	}
	return o
}
