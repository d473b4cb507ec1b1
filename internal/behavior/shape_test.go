// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holomush/warband/internal/archetype"
)

func TestShapeOf(t *testing.T) {
	assert.Equal(t, ShapeArea, ShapeOf(archetype.Giant))
	assert.Equal(t, ShapeRanged, ShapeOf(archetype.Daemon))
	assert.Equal(t, ShapeMelee, ShapeOf(archetype.RatWarrior))
}

func TestShapeOf_PanicsOutsideClosedSet(t *testing.T) {
	assert.Panics(t, func() { ShapeOf(archetype.Tag(9)) })
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "area", ShapeArea.String())
	assert.Equal(t, "ranged", ShapeRanged.String())
	assert.Equal(t, "melee", ShapeMelee.String())
	assert.Equal(t, "unknown", Shape(7).String())
}

func TestReach(t *testing.T) {
	tests := []struct {
		name string
		tag  archetype.Tag
		desc archetype.Descriptor
		want float64
	}{
		{"giant uses attack range", archetype.Giant, archetype.Descriptor{AttackRange: 2}, 2},
		{"daemon with ability is ranged", archetype.Daemon, archetype.Descriptor{AttackRange: 6, SpecialAbilityID: "bolt"}, 6},
		{"daemon without ability falls back to melee", archetype.Daemon, archetype.Descriptor{AttackRange: 6}, MeleeReach},
		{"rat capped at melee reach", archetype.RatWarrior, archetype.Descriptor{AttackRange: 4}, MeleeReach},
		{"rat below melee reach", archetype.RatWarrior, archetype.Descriptor{AttackRange: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Reach(tt.tag, tt.desc), 1e-9)
		})
	}
}

func TestWindupTicks(t *testing.T) {
	assert.Equal(t, 3, WindupTicks(archetype.Giant, archetype.Descriptor{AttackCooldownTicks: 3}))
	assert.Equal(t, 1, WindupTicks(archetype.Giant, archetype.Descriptor{AttackCooldownTicks: 0}))
	assert.Equal(t, 1, WindupTicks(archetype.Daemon, archetype.Descriptor{AttackCooldownTicks: 4}))
	assert.Equal(t, 1, WindupTicks(archetype.RatWarrior, archetype.Descriptor{AttackCooldownTicks: 1}))
}
