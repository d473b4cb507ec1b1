// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/behavior"
	"github.com/holomush/warband/internal/core"
	"github.com/holomush/warband/internal/sim"
	"github.com/holomush/warband/internal/store"
	"github.com/holomush/warband/internal/unit"
)

var _ = Describe("PostgresEventStore", Ordered, func() {
	var (
		ctx        context.Context
		container  *postgres.PostgresContainer
		pool       *pgxpool.Pool
		eventStore *store.PostgresEventStore
	)

	BeforeAll(func() {
		ctx = context.Background()

		var err error
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("warband_test"),
			postgres.WithUsername("warband"),
			postgres.WithPassword("warband"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		Expect(err).NotTo(HaveOccurred())

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())

		migrator, err := store.NewMigrator(dsn)
		Expect(err).NotTo(HaveOccurred())
		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Close()).To(Succeed())

		pool, err = store.Connect(ctx, dsn, store.ConnectOptions{Attempts: 5})
		Expect(err).NotTo(HaveOccurred())
		eventStore = store.NewPostgresEventStore(pool)
	})

	AfterAll(func() {
		if eventStore != nil {
			eventStore.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	})

	It("reports an empty run", func() {
		_, err := eventStore.LastTick(ctx, "never-ran")
		Expect(err).To(MatchError(core.ErrRunEmpty))
	})

	It("replays exactly what a simulation committed", func() {
		catalog, err := archetype.Default()
		Expect(err).NotTo(HaveOccurred())
		s, err := sim.New(catalog, sim.WithEventStore(eventStore, "skirmish"))
		Expect(err).NotTo(HaveOccurred())

		giant, err := s.Spawn(archetype.Giant, unit.Vec2{})
		Expect(err).NotTo(HaveOccurred())
		rat, err := s.Spawn(archetype.RatWarrior, unit.Vec2{X: 1})
		Expect(err).NotTo(HaveOccurred())

		var committed []core.Event
		for range 5 {
			events, err := s.Step(ctx, sim.TickInput{Intents: []behavior.Intent{
				{Actor: giant, Kind: behavior.IntentAttack, Target: rat},
			}})
			Expect(err).NotTo(HaveOccurred())
			committed = append(committed, events...)
		}

		replayed, err := eventStore.Replay(ctx, "skirmish", 0, 1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(replayed).To(Equal(committed))

		last, err := eventStore.LastTick(ctx, "skirmish")
		Expect(err).NotTo(HaveOccurred())
		Expect(last).To(Equal(uint64(5)))

		tail, err := eventStore.Replay(ctx, "skirmish", 4, 1000)
		Expect(err).NotTo(HaveOccurred())
		for _, e := range tail {
			Expect(e.Tick).To(Equal(uint64(5)))
		}
	})

	It("stores amounts beyond 32 bits", func() {
		big := core.Event{
			Type:   core.EventTypeActionResolved,
			Stream: core.StreamTick,
			Action: core.ActionStunned,
			Amount: 3_000_000_000,
			Tick:   1,
		}
		Expect(eventStore.AppendTick(ctx, "wide", 1, []core.Event{big})).To(Succeed())

		replayed, err := eventStore.Replay(ctx, "wide", 0, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(replayed).To(HaveLen(1))
		Expect(replayed[0].Amount).To(Equal(3_000_000_000))
	})

	It("rejects a tick appended twice", func() {
		Expect(eventStore.AppendTick(ctx, "dup", 1, nil)).To(Succeed())

		err := eventStore.AppendTick(ctx, "dup", 1, []core.Event{{Type: core.EventTypeDeath, Stream: core.StreamTick}})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("already stored"))
	})
})
