// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package sim runs the discrete-tick simulation. Each tick decides every
// live instance against one pre-tick snapshot, then commits all damage and
// stun in ascending attacker id order.
package sim

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/behavior"
	"github.com/holomush/warband/internal/core"
	"github.com/holomush/warband/internal/logging"
	"github.com/holomush/warband/internal/unit"
)

var tracer = otel.Tracer("warband/sim")

// Simulation owns the live set of instances. Methods are safe for
// concurrent use; ticks are serialized.
type Simulation struct {
	catalog    *archetype.Catalog
	dispatcher *behavior.Dispatcher
	cfg        Config
	ids        core.IDSource
	recorder   Recorder  // optional
	publisher  Publisher // optional
	store      core.EventStore
	runID      string

	mu      sync.Mutex
	tick    uint64
	units   map[ulid.ULID]*unit.Instance
	order   []ulid.ULID // ascending
	log     *core.EventLog
	spawned []core.Event // emitted at the start of the next tick
}

// New creates an empty simulation over catalog.
func New(catalog *archetype.Catalog, opts ...Option) (*Simulation, error) {
	if catalog == nil {
		return nil, archetype.ErrConfiguration("catalog", "is required")
	}
	s := &Simulation{
		catalog:    catalog,
		dispatcher: behavior.NewDispatcher(catalog),
		cfg:        DefaultConfig(),
		units:      make(map[ulid.ULID]*unit.Instance),
		log:        core.NewEventLog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if s.ids == nil {
		s.ids = core.NewSeededIDSource(0)
	}
	return s, nil
}

// Spawn adds an Idle instance of tag at pos with full health. It joins the
// live set immediately; its spawned event is emitted with the next tick.
func (s *Simulation) Spawn(tag archetype.Tag, pos unit.Vec2) (ulid.ULID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.NewID()
	inst, err := unit.Spawn(s.catalog, id, tag, pos)
	if err != nil {
		return ulid.ULID{}, err
	}
	if _, dup := s.units[id]; dup {
		return ulid.ULID{}, archetype.ErrConfiguration("id_source", "issued a duplicate id "+id.String())
	}

	s.units[id] = inst
	i, _ := slices.BinarySearchFunc(s.order, id, ulid.ULID.Compare)
	s.order = slices.Insert(s.order, i, id)
	s.spawned = append(s.spawned, core.Event{
		Type:   core.EventTypeSpawned,
		Actor:  id,
		Amount: inst.Health,
		X:      pos.X,
		Y:      pos.Y,
	})
	return id, nil
}

// Tick returns the number of the last committed tick.
func (s *Simulation) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Instance returns a copy of the live instance with id.
func (s *Simulation) Instance(id ulid.ULID) (unit.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.units[id]
	if !ok {
		return unit.Instance{}, false
	}
	return *inst, true
}

// Snapshot returns copies of every instance in the live set, ascending by id.
func (s *Simulation) Snapshot() []unit.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Simulation) snapshotLocked() []unit.Instance {
	out := make([]unit.Instance, len(s.order))
	for i, id := range s.order {
		out[i] = *s.units[id]
	}
	return out
}

// Step runs one tick and returns its event log.
//
// The tick is committed even when persisting it fails; the error reports
// the failed append only.
func (s *Simulation) Step(ctx context.Context, in TickInput) (events []core.Event, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, ErrStepAborted(s.tick+1, err)
	}

	start := time.Now()
	s.tick++
	ctx = logging.WithTick(ctx, s.tick)
	ctx, span := tracer.Start(ctx, "sim.step", trace.WithAttributes(
		attribute.Int64("sim.tick", int64(s.tick)), //nolint:gosec // ticks stay far below MaxInt64
		attribute.Int("sim.instances", len(s.order)),
		attribute.Int("sim.intents", len(in.Intents)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	s.log.Begin(s.tick)
	for _, e := range s.spawned {
		s.log.Emit(e)
	}
	s.spawned = s.spawned[:0]

	for range in.Malformed {
		s.drop(ctx, ulid.ULID{}, ulid.ULID{}, core.DropInvalidOrder)
	}
	orders := s.collectOrders(ctx, in.Intents)
	wasDead := make([]bool, len(s.order))
	for i, id := range s.order {
		wasDead[i] = !s.units[id].Alive()
	}

	decisions := s.decide(orders, wasDead)
	s.commit(ctx, decisions, wasDead, in.Effects)
	s.reap(wasDead)

	events = s.log.Events()
	span.SetAttributes(attribute.Int("sim.events", len(events)))
	s.report(time.Since(start), events)

	if s.publisher != nil {
		s.publisher.Publish(events)
	}
	if s.store != nil {
		if err := s.store.AppendTick(ctx, s.runID, s.tick, events); err != nil {
			return events, err //nolint:wrapcheck // store errors carry their own oops code
		}
	}

	slog.DebugContext(ctx, "tick committed", "events", len(events), "instances", len(s.order))
	return events, nil
}

// collectOrders groups intents by actor, dropping those whose actor is not
// in the live set. Intents of Dead actors are discarded silently.
func (s *Simulation) collectOrders(ctx context.Context, intents []behavior.Intent) map[ulid.ULID]behavior.Orders {
	byActor := make(map[ulid.ULID][]behavior.Intent)
	for _, in := range intents {
		actor, ok := s.units[in.Actor]
		switch {
		case !ok:
			s.drop(ctx, in.Actor, in.Target, core.DropUnknownActor)
		case !actor.Alive():
		case in.Kind < behavior.IntentMove || in.Kind > behavior.IntentAttack:
			s.drop(ctx, in.Actor, in.Target, core.DropInvalidOrder)
		default:
			byActor[in.Actor] = append(byActor[in.Actor], in)
		}
	}

	orders := make(map[ulid.ULID]behavior.Orders, len(byActor))
	for id, list := range byActor {
		orders[id] = behavior.Collapse(list)
	}
	return orders
}

// decide runs the dispatcher for every live, non-Dead instance against a
// shared snapshot. Each worker writes only its own slot, so the result does
// not depend on Workers.
func (s *Simulation) decide(orders map[ulid.ULID]behavior.Orders, wasDead []bool) []behavior.Decision {
	snap := behavior.NewSnapshot(s.snapshotLocked())
	decisions := make([]behavior.Decision, len(s.order))

	one := func(i int) {
		self := snap.At(i)
		self.TickCooldown()
		decisions[i] = s.dispatcher.Decide(snap, self, orders[self.ID])
	}

	if s.cfg.Workers <= 1 {
		for i := range s.order {
			if !wasDead[i] {
				one(i)
			}
		}
		return decisions
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i := range s.order {
		if wasDead[i] {
			continue
		}
		g.Go(func() error {
			one(i)
			return nil
		})
	}
	_ = g.Wait() // workers never fail
	return decisions
}

// commit writes every decision back in ascending id order, then applies
// strikes in the same order, then external effects.
func (s *Simulation) commit(ctx context.Context, decisions []behavior.Decision, wasDead []bool, effects []Effect) {
	for i, id := range s.order {
		if wasDead[i] {
			continue
		}
		dec := decisions[i]
		for _, d := range dec.Dropped {
			s.drop(ctx, id, d.Target, d.Reason)
		}
		*s.units[id] = dec.Self
		s.log.Emit(dec.Resolved)
	}

	for i, id := range s.order {
		if wasDead[i] {
			continue
		}
		for _, h := range decisions[i].Hits {
			s.hit(id, h)
		}
	}

	for _, e := range effects {
		s.applyEffect(ctx, e)
	}
}

func (s *Simulation) hit(attacker ulid.ULID, h behavior.Hit) {
	target, ok := s.units[h.Target]
	if !ok {
		return
	}
	if target.ApplyDamage(h.Damage, attacker, s.log) {
		return
	}
	target.ApplyStun(h.Stun)
}

func (s *Simulation) applyEffect(ctx context.Context, e Effect) {
	target, ok := s.units[e.Target]
	switch {
	case !ok:
		s.drop(ctx, ulid.ULID{}, e.Target, core.DropUnknownTarget)
	case !target.Alive():
		s.drop(ctx, ulid.ULID{}, e.Target, core.DropDeadTarget)
	case e.Amount <= 0:
		s.drop(ctx, ulid.ULID{}, e.Target, core.DropInvalidOrder)
	case e.Kind == EffectStun:
		target.ApplyStun(e.Amount)
	case e.Kind == EffectDamage:
		target.ApplyDamage(e.Amount, ulid.ULID{}, s.log)
	default:
		s.drop(ctx, ulid.ULID{}, e.Target, core.DropInvalidOrder)
	}
}

// reap counts ticks spent Dead and removes instances Dead for longer than
// ReapAfterTicks.
func (s *Simulation) reap(wasDead []bool) {
	kept := s.order[:0]
	for i, id := range s.order {
		inst := s.units[id]
		if inst.Alive() {
			kept = append(kept, id)
			continue
		}
		if wasDead[i] {
			inst.DeadTicks++
		}
		if inst.DeadTicks < s.cfg.ReapAfterTicks {
			kept = append(kept, id)
			continue
		}
		delete(s.units, id)
		s.log.Emit(core.Event{
			Type:   core.EventTypeReaped,
			Actor:  id,
			Amount: inst.DeadTicks,
			X:      inst.Position.X,
			Y:      inst.Position.Y,
		})
	}
	clear(s.order[len(kept):])
	s.order = kept
}

func (s *Simulation) drop(ctx context.Context, actor, target ulid.ULID, reason core.DropReason) {
	e := core.Event{
		Type:   core.EventTypeDroppedIntent,
		Actor:  actor,
		Target: target,
		Reason: reason,
	}
	if _, live := s.units[actor]; !live {
		e.Stream = core.StreamTick
	}
	s.log.Emit(e)
	slog.DebugContext(ctx, "intent dropped", "actor", actor.String(), "target", target.String(), "reason", string(reason))
}

func (s *Simulation) report(elapsed time.Duration, events []core.Event) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordTick(elapsed, events)
	live := make(map[archetype.Tag]int, len(archetype.All()))
	for _, id := range s.order {
		if inst := s.units[id]; inst.Alive() {
			live[inst.Type()]++
		}
	}
	for _, tag := range archetype.All() {
		s.recorder.SetLiveInstances(tag, live[tag])
	}
}
