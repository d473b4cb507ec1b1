// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim_test

import (
	"context"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/behavior"
	"github.com/holomush/warband/internal/combat"
	"github.com/holomush/warband/internal/core"
	"github.com/holomush/warband/internal/sim"
	"github.com/holomush/warband/internal/unit"
)

func countType(events []core.Event, typ core.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

var _ = Describe("Simulation", func() {
	var (
		ctx     context.Context
		catalog *archetype.Catalog
		s       *sim.Simulation
		history []core.Event
	)

	step := func(in sim.TickInput) []core.Event {
		events, err := s.Step(ctx, in)
		Expect(err).NotTo(HaveOccurred())
		history = append(history, events...)
		return events
	}

	spawn := func(tag archetype.Tag, x, y float64) ulid.ULID {
		id, err := s.Spawn(tag, unit.Vec2{X: x, Y: y})
		Expect(err).NotTo(HaveOccurred())
		return id
	}

	health := func(id ulid.ULID) int {
		inst, ok := s.Instance(id)
		Expect(ok).To(BeTrue())
		return inst.Health
	}

	BeforeEach(func() {
		ctx = context.Background()
		history = nil

		var err error
		catalog, err = archetype.Default()
		Expect(err).NotTo(HaveOccurred())
		s, err = sim.New(catalog, sim.WithIDSource(core.NewSeededIDSource(1)))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("a Giant attacking a RatWarrior", func() {
		var giant, rat ulid.ULID

		BeforeEach(func() {
			giant = spawn(archetype.Giant, 0, 0)
			rat = spawn(archetype.RatWarrior, 1, 0)
		})

		It("lands its damage only when the windup elapses", func() {
			windup := catalog.Describe(archetype.Giant).AttackCooldownTicks
			Expect(windup).To(Equal(3))

			attack := behavior.Intent{Actor: giant, Kind: behavior.IntentAttack, Target: rat}
			for range windup {
				step(sim.TickInput{Intents: []behavior.Intent{attack}})
				Expect(health(rat)).To(Equal(20))
			}

			events := step(sim.TickInput{})

			Expect(health(rat)).To(Equal(5))
			Expect(countType(history, core.EventTypeDeath)).To(BeZero())

			var strike core.Event
			for _, e := range events {
				if e.Actor == giant && e.Type == core.EventTypeActionResolved {
					strike = e
				}
			}
			Expect(strike.Action).To(Equal(core.ActionStrike))
			Expect(strike.Outcome).To(Equal(core.OutcomeHit))
			Expect(strike.Target).To(Equal(rat))
			Expect(strike.Amount).To(Equal(15))
		})

		It("stuns the rat on the tick after the strike", func() {
			attack := behavior.Intent{Actor: giant, Kind: behavior.IntentAttack, Target: rat}
			step(sim.TickInput{Intents: []behavior.Intent{attack}})
			for range 3 {
				step(sim.TickInput{})
			}
			inst, _ := s.Instance(rat)
			Expect(inst.State).To(Equal(combat.Idle))

			step(sim.TickInput{})
			inst, _ = s.Instance(rat)
			Expect(inst.State).To(Equal(combat.Stunned))
		})

		It("puts the giant on cooldown after the strike", func() {
			attack := behavior.Intent{Actor: giant, Kind: behavior.IntentAttack, Target: rat}
			for range 4 {
				step(sim.TickInput{Intents: []behavior.Intent{attack}})
			}
			inst, _ := s.Instance(giant)
			Expect(inst.State).To(Equal(combat.Idle))
			Expect(inst.CooldownRemaining).To(Equal(3))

			events := step(sim.TickInput{Intents: []behavior.Intent{attack}})
			for _, e := range events {
				if e.Actor == giant && e.Type == core.EventTypeActionResolved {
					Expect(e.Outcome).To(Equal(core.OutcomeCooldown))
				}
			}
		})
	})

	Describe("damage totalling 25 on a RatWarrior", func() {
		It("kills it exactly once", func() {
			rat := spawn(archetype.RatWarrior, 0, 0)

			step(sim.TickInput{Effects: []sim.Effect{
				{Kind: sim.EffectDamage, Target: rat, Amount: 10},
				{Kind: sim.EffectDamage, Target: rat, Amount: 15},
			}})

			inst, ok := s.Instance(rat)
			Expect(ok).To(BeTrue())
			Expect(inst.Health).To(Equal(0))
			Expect(inst.State).To(Equal(combat.Dead))

			step(sim.TickInput{Effects: []sim.Effect{{Kind: sim.EffectDamage, Target: rat, Amount: 5}}})
			Expect(countType(history, core.EventTypeDeath)).To(Equal(1))
		})
	})

	Describe("an attack on an id that is not live", func() {
		It("emits one DroppedIntent and changes no health", func() {
			giant := spawn(archetype.Giant, 0, 0)
			rat := spawn(archetype.RatWarrior, 1, 0)
			missing := ulid.MustNew(ulid.Now(), nil)

			events := step(sim.TickInput{Intents: []behavior.Intent{
				{Actor: giant, Kind: behavior.IntentAttack, Target: missing},
			}})

			Expect(countType(events, core.EventTypeDroppedIntent)).To(Equal(1))
			for _, e := range events {
				if e.Type == core.EventTypeDroppedIntent {
					Expect(e.Reason).To(Equal(core.DropUnknownTarget))
					Expect(e.Target).To(Equal(missing))
				}
			}
			Expect(health(giant)).To(Equal(80))
			Expect(health(rat)).To(Equal(20))
		})
	})

	Describe("movement", func() {
		It("walks to the destination and then arrives", func() {
			rat := spawn(archetype.RatWarrior, 0, 0)

			step(sim.TickInput{Intents: []behavior.Intent{
				{Actor: rat, Kind: behavior.IntentMove, Destination: unit.Vec2{X: 3}},
			}})
			step(sim.TickInput{})

			inst, _ := s.Instance(rat)
			Expect(inst.Position).To(Equal(unit.Vec2{X: 3}))
			Expect(inst.State).To(Equal(combat.Moving))

			events := step(sim.TickInput{})
			inst, _ = s.Instance(rat)
			Expect(inst.State).To(Equal(combat.Idle))
			Expect(events).To(ContainElement(HaveField("Outcome", core.OutcomeArrived)))
		})
	})

	Describe("a Daemon", func() {
		It("strikes at range while its ability is configured", func() {
			daemon := spawn(archetype.Daemon, 0, 0)
			giant := spawn(archetype.Giant, 5, 0)

			attack := behavior.Intent{Actor: daemon, Kind: behavior.IntentAttack, Target: giant}
			step(sim.TickInput{Intents: []behavior.Intent{attack}})
			step(sim.TickInput{})

			Expect(health(giant)).To(Equal(80 - 9))
		})
	})
})
