// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package behavior

import (
	"github.com/holomush/warband/internal/archetype"
)

// MeleeReach is the longest distance a melee strike can cover.
const MeleeReach = 1.5

// Shape is the form an archetype's attack takes.
type Shape uint8

const (
	// ShapeArea hits every unit near a point locked at windup start.
	ShapeArea Shape = iota
	// ShapeRanged hits one unit at the descriptor's attack range, when the
	// archetype has a special ability. Otherwise it is limited to melee reach.
	ShapeRanged
	// ShapeMelee hits one adjacent unit.
	ShapeMelee
)

func (s Shape) String() string {
	switch s {
	case ShapeArea:
		return "area"
	case ShapeRanged:
		return "ranged"
	case ShapeMelee:
		return "melee"
	default:
		return "unknown"
	}
}

// ShapeOf returns the attack shape of t.
func ShapeOf(t archetype.Tag) Shape {
	switch t {
	case archetype.Giant:
		return ShapeArea
	case archetype.Daemon:
		return ShapeRanged
	case archetype.RatWarrior:
		return ShapeMelee
	}
	panic(archetype.ErrInvalidArchetype(t.Wire()))
}

// Reach returns how far a unit of tag t with descriptor d can attack.
func Reach(t archetype.Tag, d archetype.Descriptor) float64 {
	switch ShapeOf(t) {
	case ShapeArea:
		return d.AttackRange
	case ShapeRanged:
		if !d.SpecialAbilityID.None() {
			return d.AttackRange
		}
		return min(d.AttackRange, MeleeReach)
	case ShapeMelee:
		return min(d.AttackRange, MeleeReach)
	default:
		return 0
	}
}

// WindupTicks returns how many ticks an attack of t spends in Attacking
// before it resolves. Only area attacks scale with the cooldown.
func WindupTicks(t archetype.Tag, d archetype.Descriptor) int {
	switch ShapeOf(t) {
	case ShapeArea:
		return max(d.AttackCooldownTicks, 1)
	case ShapeRanged, ShapeMelee:
		return 1
	default:
		return 1
	}
}
