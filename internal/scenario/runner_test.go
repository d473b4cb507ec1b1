// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package scenario

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/core"
	"github.com/holomush/warband/internal/sim"
	"github.com/holomush/warband/pkg/errutil"
)

func newRunner(t *testing.T, doc string, opts ...sim.Option) *Runner {
	t.Helper()
	sc, err := Parse([]byte(doc))
	require.NoError(t, err)
	catalog, err := archetype.Default()
	require.NoError(t, err)
	r, err := NewRunner(context.Background(), sc, catalog, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func findUnit(t *testing.T, r *Runner, res Result, name string) (health int, found bool) {
	t.Helper()
	id := r.Resolve(name)
	for _, in := range res.Final {
		if in.ID == id {
			return in.Health, true
		}
	}
	return 0, false
}

func TestRunner_ScheduledStrike(t *testing.T) {
	r := newRunner(t, `
seed: 1
ticks: 4
spawns:
  - {name: ogre, type: giant, position: {x: 0, y: 0}}
  - {name: grunt, type: rat_warrior, position: {x: 1, y: 0}}
orders:
  1: ["attack ogre -> grunt"]
`)

	res, err := r.Run(context.Background())

	require.NoError(t, err)
	hp, ok := findUnit(t, r, res, "grunt")
	require.True(t, ok)
	assert.Equal(t, 5, hp)
	assert.Equal(t, uint64(4), r.Simulation().Tick())

	var spawned int
	for _, e := range res.Events {
		if e.Type == core.EventTypeSpawned {
			spawned++
			assert.Equal(t, uint64(1), e.Tick)
		}
		assert.NotEqual(t, core.EventTypeDeath, e.Type)
	}
	assert.Equal(t, 2, spawned)
}

func TestRunner_UnknownNameIsDropped(t *testing.T) {
	r := newRunner(t, `
ticks: 1
spawns:
  - {name: grunt, type: rat_warrior}
orders:
  1: ["attack ghost -> grunt", "damage nobody 5"]
`)

	res, err := r.Run(context.Background())

	require.NoError(t, err)
	var reasons []core.DropReason
	for _, e := range res.Events {
		if e.Type == core.EventTypeDroppedIntent {
			reasons = append(reasons, e.Reason)
		}
	}
	assert.ElementsMatch(t, []core.DropReason{core.DropUnknownActor, core.DropUnknownTarget}, reasons)
	hp, _ := findUnit(t, r, res, "grunt")
	assert.Equal(t, 20, hp)
}

func TestRunner_ResolveAndName(t *testing.T) {
	r := newRunner(t, "ticks: 1\nspawns:\n  - {name: grunt, type: rat_warrior}\n")

	id := r.Resolve("grunt")
	assert.Equal(t, "grunt", r.Name(id))

	ghost := r.Resolve("ghost")
	assert.Equal(t, ghost, r.Resolve("ghost"))
	assert.NotEqual(t, ghost, r.Resolve("phantom"))
	assert.NotEqual(t, id, ghost)
	_, live := r.Simulation().Instance(ghost)
	assert.False(t, live)
	assert.Equal(t, ghost.String(), r.Name(ghost))
}

func TestRunner_ControllerDrivesUnits(t *testing.T) {
	r := newRunner(t, `
ticks: 3
spawns:
  - {name: grunt, type: rat_warrior, position: {x: 0, y: 0}}
controller: |
  function orders(tick, units)
    if tick == 1 then return { "move grunt to 3 0" } end
    return nil
  end
`)

	res, err := r.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, res.Final, 1)
	assert.InDelta(t, 3.0, res.Final[0].Position.X, 1e-9)
}

func TestRunner_ControllerBadLineIsDropped(t *testing.T) {
	r := newRunner(t, `
ticks: 2
spawns:
  - {name: grunt, type: rat_warrior}
controller: |
  function orders(tick, units)
    if tick == 1 then return { "move grunt to 3 0", "attack grunt -> " } end
    return nil
  end
`)

	res, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, uint64(2), r.Simulation().Tick())

	var dropped []core.Event
	for _, e := range res.Events {
		if e.Type == core.EventTypeDroppedIntent {
			dropped = append(dropped, e)
		}
	}
	require.Len(t, dropped, 1)
	assert.Equal(t, uint64(1), dropped[0].Tick)
	assert.Equal(t, core.DropInvalidOrder, dropped[0].Reason)
	assert.Equal(t, core.StreamTick, dropped[0].Stream)

	require.Len(t, res.Final, 1)
	assert.InDelta(t, 3.0, res.Final[0].Position.X, 1e-9, "the valid line in the same reply still applies")
}

func TestRunner_ControllerNonStringEntryIsDropped(t *testing.T) {
	r := newRunner(t, `
ticks: 1
spawns:
  - {name: grunt, type: rat_warrior}
controller: |
  function orders(tick, units) return { 42, "stop grunt" } end
`)

	res, err := r.Run(context.Background())

	require.NoError(t, err)
	var reasons []core.DropReason
	for _, e := range res.Events {
		if e.Type == core.EventTypeDroppedIntent {
			reasons = append(reasons, e.Reason)
		}
	}
	assert.Equal(t, []core.DropReason{core.DropInvalidOrder}, reasons)
}

func TestRunner_ControllerCallFailureStopsRun(t *testing.T) {
	r := newRunner(t, `
ticks: 3
spawns:
  - {name: grunt, type: rat_warrior}
controller: |
  function orders(tick, units) return 7 end
`)

	res, err := r.Run(context.Background())

	errutil.AssertErrorCode(t, err, CodeScriptFailed)
	errutil.AssertErrorContext(t, err, "operation", "call")
	assert.Empty(t, res.Events)
	assert.Zero(t, r.Simulation().Tick())
}

func TestRunner_SameSeedSameLog(t *testing.T) {
	path := filepath.Join("testdata", "skirmish.yaml")
	run := func(workers int) []core.Event {
		sc, err := Load(path)
		require.NoError(t, err)
		catalog, err := archetype.Default()
		require.NoError(t, err)
		cfg := sim.DefaultConfig()
		cfg.Workers = workers
		r, err := NewRunner(context.Background(), sc, catalog, sim.WithConfig(cfg))
		require.NoError(t, err)
		defer r.Close()
		res, err := r.Run(context.Background())
		require.NoError(t, err)
		return res.Events
	}

	first := run(1)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, run(4))
}

func TestNewRunner_ControllerLoadFails(t *testing.T) {
	sc, err := Parse([]byte("ticks: 1\nspawns:\n  - {name: a, type: giant}\ncontroller: \"x = \"\n"))
	require.NoError(t, err)
	catalog, err := archetype.Default()
	require.NoError(t, err)

	_, err = NewRunner(context.Background(), sc, catalog)

	errutil.AssertErrorCode(t, err, CodeScriptFailed)
}
