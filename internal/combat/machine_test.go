// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name      string
		from      State
		triggers  Triggers
		wantState State
		wantEdge  Edge
	}{
		{"idle stays idle", Idle, Triggers{}, Idle, EdgeNone},
		{"idle moves", Idle, Triggers{MoveIntent: true}, Moving, EdgeMove},
		{"idle attacks", Idle, Triggers{AttackIntent: true, CooldownZero: true}, Attacking, EdgeAttack},
		{"idle attack on cooldown falls back to move", Idle, Triggers{AttackIntent: true, MoveIntent: true}, Moving, EdgeMove},
		{"idle attack on cooldown without move", Idle, Triggers{AttackIntent: true}, Idle, EdgeNone},
		{"attack beats move", Idle, Triggers{AttackIntent: true, CooldownZero: true, MoveIntent: true}, Attacking, EdgeAttack},
		{"moving attacks", Moving, Triggers{AttackIntent: true, CooldownZero: true}, Attacking, EdgeAttack},
		{"moving arrives", Moving, Triggers{Arrived: true}, Idle, EdgeArrive},
		{"moving stops", Moving, Triggers{StopIntent: true}, Idle, EdgeStop},
		{"moving keeps moving", Moving, Triggers{MoveIntent: true}, Moving, EdgeNone},
		{"attacking holds during windup", Attacking, Triggers{MoveIntent: true}, Attacking, EdgeNone},
		{"attacking resolves", Attacking, Triggers{WindupElapsed: true}, Idle, EdgeWindupElapsed},
		{"stun interrupts windup", Attacking, Triggers{Stun: true, WindupElapsed: true}, Stunned, EdgeStun},
		{"stun beats attack", Idle, Triggers{Stun: true, AttackIntent: true, CooldownZero: true}, Stunned, EdgeStun},
		{"stun refreshes", Stunned, Triggers{Stun: true}, Stunned, EdgeStun},
		{"stunned ignores orders", Stunned, Triggers{AttackIntent: true, CooldownZero: true, MoveIntent: true}, Stunned, EdgeNone},
		{"stun elapses", Stunned, Triggers{StunElapsed: true}, Idle, EdgeStunElapsed},
		{"death pre-empts stun", Moving, Triggers{HealthZero: true, Stun: true}, Dead, EdgeDeath},
		{"death pre-empts windup", Attacking, Triggers{HealthZero: true, WindupElapsed: true}, Dead, EdgeDeath},
		{"dead is terminal", Dead, Triggers{MoveIntent: true, AttackIntent: true, CooldownZero: true, Stun: true}, Dead, EdgeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotState, gotEdge := Next(tt.from, tt.triggers)
			assert.Equal(t, tt.wantState, gotState)
			assert.Equal(t, tt.wantEdge, gotEdge)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "moving", Moving.String())
	assert.Equal(t, "attacking", Attacking.String())
	assert.Equal(t, "stunned", Stunned.String())
	assert.Equal(t, "dead", Dead.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestState_Terminal(t *testing.T) {
	for _, s := range []State{Idle, Moving, Attacking, Stunned} {
		assert.False(t, s.Terminal(), s.String())
	}
	assert.True(t, Dead.Terminal())
}
