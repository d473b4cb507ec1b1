// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package scenario

import (
	"context"
	"crypto/sha256"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/core"
	"github.com/holomush/warband/internal/sim"
	"github.com/holomush/warband/internal/unit"
)

// Result is what a finished run produced.
type Result struct {
	Events []core.Event
	Final  []unit.Instance
}

// Runner steps a simulation through a scenario.
type Runner struct {
	sc         *Scenario
	sim        *sim.Simulation
	ids        map[string]ulid.ULID
	names      map[ulid.ULID]string
	controller *Controller
}

// NewRunner builds the simulation and spawns every unit. Ids come from a
// source seeded with the scenario seed, overriding any WithIDSource in opts.
func NewRunner(ctx context.Context, sc *Scenario, catalog *archetype.Catalog, opts ...sim.Option) (*Runner, error) {
	opts = append(opts, sim.WithIDSource(core.NewSeededIDSource(sc.Seed)))
	s, err := sim.New(catalog, opts...)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		sc:    sc,
		sim:   s,
		ids:   make(map[string]ulid.ULID, len(sc.Spawns)),
		names: make(map[ulid.ULID]string, len(sc.Spawns)),
	}
	for _, sp := range sc.Spawns {
		id, err := s.Spawn(sp.Type, sp.Position)
		if err != nil {
			return nil, oops.With("spawn", sp.Name).Wrap(err)
		}
		r.ids[sp.Name] = id
		r.names[id] = sp.Name
	}

	if sc.Controller != "" {
		c, err := NewController(ctx, sc.Controller)
		if err != nil {
			return nil, err
		}
		r.controller = c
	}
	return r, nil
}

// Simulation exposes the underlying simulation.
func (r *Runner) Simulation() *sim.Simulation {
	return r.sim
}

// Resolve maps a unit name to its id. A name that was never spawned maps to
// a stable id that is never issued, so orders naming it surface as dropped
// intents instead of failing the run.
func (r *Runner) Resolve(name string) ulid.ULID {
	if id, ok := r.ids[name]; ok {
		return id
	}
	return unknownID(name)
}

// Name returns the scenario name of id, or its string form.
func (r *Runner) Name(id ulid.ULID) string {
	if n, ok := r.names[id]; ok {
		return n
	}
	return id.String()
}

// Run steps every tick of the scenario. On failure the events committed so
// far are still returned.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	var res Result
	for range r.sc.Ticks {
		events, err := r.Step(ctx)
		res.Events = append(res.Events, events...)
		if err != nil {
			res.Final = r.sim.Snapshot()
			return res, err
		}
	}
	res.Final = r.sim.Snapshot()
	return res, nil
}

// Step runs the next tick with the scheduled orders plus whatever the
// controller returns. Controller lines that do not parse are dropped as
// invalid orders; only a failing script stops the tick.
func (r *Runner) Step(ctx context.Context) ([]core.Event, error) {
	tick := r.sim.Tick() + 1

	var in sim.TickInput
	for _, o := range r.sc.OrdersAt(tick) {
		o.Apply(r.Resolve, &in)
	}

	if r.controller != nil {
		reply, err := r.controller.Orders(ctx, tick, r.views())
		if err != nil {
			return nil, err
		}
		in.Malformed = reply.Rejected
		for _, line := range reply.Lines {
			o, err := parseOrderRaw(line)
			if err != nil {
				slog.WarnContext(ctx, "controller order dropped", "tick", tick, "line", line, "error", err)
				in.Malformed++
				continue
			}
			slog.DebugContext(ctx, "controller order", "tick", tick, "order", o.String())
			o.Apply(r.Resolve, &in)
		}
	}

	return r.sim.Step(ctx, in)
}

// Close releases the controller.
func (r *Runner) Close() {
	if r.controller != nil {
		r.controller.Close()
	}
}

func (r *Runner) views() []UnitView {
	snap := r.sim.Snapshot()
	views := make([]UnitView, 0, len(snap))
	for _, in := range snap {
		views = append(views, UnitView{
			Name:     r.Name(in.ID),
			Type:     in.Type().String(),
			State:    in.State.String(),
			Health:   in.Health,
			X:        in.Position.X,
			Y:        in.Position.Y,
			Alive:    in.Alive(),
			Cooldown: in.CooldownRemaining,
		})
	}
	return views
}

// unknownID derives an id for an unspawned name. Its timestamp is the ULID
// maximum, which a seeded source never issues.
func unknownID(name string) ulid.ULID {
	sum := sha256.Sum256([]byte(name))
	var id ulid.ULID
	copy(id[:], sum[:16])
	for i := range 6 {
		id[i] = 0xff
	}
	return id
}
