// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package archetype

import "fmt"

// Catalog maps every Tag to its Descriptor. It has no mutation API and is
// safe to share between goroutines once built.
type Catalog struct {
	giant      Descriptor
	daemon     Descriptor
	ratWarrior Descriptor
}

// NewCatalog builds a catalog from one descriptor per tag. Taking each row as
// its own parameter means a catalog cannot be built with a tag unmapped.
// The rat warrior must attack at least as often as either other archetype.
func NewCatalog(giant, daemon, ratWarrior Descriptor) (*Catalog, error) {
	c := &Catalog{giant: giant, daemon: daemon, ratWarrior: ratWarrior}
	for _, t := range All() {
		if err := c.Describe(t).Validate(t.String()); err != nil {
			return nil, err
		}
	}
	rat := ratWarrior.AttackCooldownTicks
	if slowest := min(giant.AttackCooldownTicks, daemon.AttackCooldownTicks); rat > slowest {
		return nil, ErrConfiguration("rat_warrior.attack_cooldown_ticks",
			fmt.Sprintf("must not exceed giant or daemon cooldown (%d), got %d", slowest, rat))
	}
	return c, nil
}

// Describe returns the descriptor for t.
//
// Passing a value outside the closed set is a programming error and panics.
// Values from outside the process must go through TagFromWire or ParseTag.
func (c *Catalog) Describe(t Tag) Descriptor {
	switch t {
	case Giant:
		return c.giant
	case Daemon:
		return c.daemon
	case RatWarrior:
		return c.ratWarrior
	}
	panic(ErrInvalidArchetype(uint8(t)))
}
