// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package scenario

import (
	"fmt"
	"slices"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/oklog/ulid/v2"

	"github.com/holomush/warband/internal/behavior"
	"github.com/holomush/warband/internal/sim"
	"github.com/holomush/warband/internal/unit"
)

// orderLexer keeps "->" as one token so names cannot swallow it.
var orderLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Arrow", Pattern: `->`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "whitespace", Pattern: `\s+`},
})

// Order is one parsed order line. Exactly one branch is set.
//
// Grammar:
//
//	attack <name> -> <name>
//	move <name> to <x> <y>
//	stop <name>
//	stun <name> for <ticks>
//	damage <name> <amount>
type Order struct {
	Pos    lexer.Position `parser:""`
	Attack *AttackOrder   `parser:"  'attack' @@"`
	Move   *MoveOrder     `parser:"| 'move' @@"`
	Stop   *StopOrder     `parser:"| 'stop' @@"`
	Stun   *StunOrder     `parser:"| 'stun' @@"`
	Damage *DamageOrder   `parser:"| 'damage' @@"`
}

// AttackOrder targets another unit.
type AttackOrder struct {
	Actor  string `parser:"@Ident"`
	Target string `parser:"'->' @Ident"`
}

// MoveOrder sends a unit to a point.
type MoveOrder struct {
	Actor string  `parser:"@Ident 'to'"`
	X     float64 `parser:"@Number"`
	Y     float64 `parser:"@Number"`
}

// StopOrder halts a moving unit.
type StopOrder struct {
	Actor string `parser:"@Ident"`
}

// StunOrder is an external stun effect.
type StunOrder struct {
	Target string `parser:"@Ident 'for'"`
	Ticks  int    `parser:"@Number"`
}

// DamageOrder is an external damage effect.
type DamageOrder struct {
	Target string `parser:"@Ident"`
	Amount int    `parser:"@Number"`
}

// keywords cannot be used as unit names.
var keywords = []string{"attack", "move", "stop", "stun", "damage", "to", "for"}

var orderParser = participle.MustBuild[Order](participle.Lexer(orderLexer))

// ParseOrder parses a single order line.
func ParseOrder(line string) (*Order, error) {
	o, err := orderParser.ParseString("", line)
	if err != nil {
		return nil, ErrOrderSyntax(line, err)
	}
	return o, nil
}

// parseOrderRaw returns the bare parser error, for callers that attach
// their own code.
func parseOrderRaw(line string) (*Order, error) {
	return orderParser.ParseString("", line) //nolint:wrapcheck // caller wraps
}

// Names returns every unit name the order mentions.
func (o *Order) Names() []string {
	switch {
	case o.Attack != nil:
		return []string{o.Attack.Actor, o.Attack.Target}
	case o.Move != nil:
		return []string{o.Move.Actor}
	case o.Stop != nil:
		return []string{o.Stop.Actor}
	case o.Stun != nil:
		return []string{o.Stun.Target}
	case o.Damage != nil:
		return []string{o.Damage.Target}
	}
	return nil
}

// Resolver maps a unit name to its instance id.
type Resolver func(name string) ulid.ULID

// Apply appends the order to in as an intent or an effect.
func (o *Order) Apply(resolve Resolver, in *sim.TickInput) {
	switch {
	case o.Attack != nil:
		in.Intents = append(in.Intents, behavior.Intent{
			Actor:  resolve(o.Attack.Actor),
			Kind:   behavior.IntentAttack,
			Target: resolve(o.Attack.Target),
		})
	case o.Move != nil:
		in.Intents = append(in.Intents, behavior.Intent{
			Actor:       resolve(o.Move.Actor),
			Kind:        behavior.IntentMove,
			Destination: unit.Vec2{X: o.Move.X, Y: o.Move.Y},
		})
	case o.Stop != nil:
		in.Intents = append(in.Intents, behavior.Intent{
			Actor: resolve(o.Stop.Actor),
			Kind:  behavior.IntentStop,
		})
	case o.Stun != nil:
		in.Effects = append(in.Effects, sim.Effect{
			Kind:   sim.EffectStun,
			Target: resolve(o.Stun.Target),
			Amount: o.Stun.Ticks,
		})
	case o.Damage != nil:
		in.Effects = append(in.Effects, sim.Effect{
			Kind:   sim.EffectDamage,
			Target: resolve(o.Damage.Target),
			Amount: o.Damage.Amount,
		})
	}
}

// String renders the order back in DSL form.
func (o *Order) String() string {
	switch {
	case o.Attack != nil:
		return fmt.Sprintf("attack %s -> %s", o.Attack.Actor, o.Attack.Target)
	case o.Move != nil:
		return fmt.Sprintf("move %s to %g %g", o.Move.Actor, o.Move.X, o.Move.Y)
	case o.Stop != nil:
		return "stop " + o.Stop.Actor
	case o.Stun != nil:
		return fmt.Sprintf("stun %s for %d", o.Stun.Target, o.Stun.Ticks)
	case o.Damage != nil:
		return fmt.Sprintf("damage %s %d", o.Damage.Target, o.Damage.Amount)
	}
	return ""
}

func isKeyword(name string) bool {
	return slices.Contains(keywords, name)
}
