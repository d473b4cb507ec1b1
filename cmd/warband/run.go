// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/holomush/warband/internal/core"
	"github.com/holomush/warband/internal/scenario"
	"github.com/holomush/warband/internal/sim"
	"github.com/holomush/warband/pkg/errutil"
)

const shutdownTimeout = 5 * time.Second

type runOptions struct {
	runID  string
	stream string
	quiet  bool
}

func (a *app) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario and print its event log",
		Long: `Run every tick of a scenario file, printing events whose stream
matches --stream. When a database URL is configured each tick is stored
under --run-id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.runID, "run-id", "", "id the run is stored under (default: a new ULID)")
	cmd.Flags().StringVar(&opts.stream, "stream", "**", "glob of event streams to print (unit:*, tick)")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "print only the final roster")

	return cmd
}

func (a *app) run(ctx context.Context, out io.Writer, path string, opts *runOptions) error {
	catalog, err := a.deps.CatalogLoader(a.cfg.Archetypes)
	if err != nil {
		return err
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	broadcaster := core.NewBroadcaster()
	simOpts := []sim.Option{
		sim.WithConfig(a.cfg.Sim),
		sim.WithPublisher(broadcaster),
	}

	if a.cfg.Database.URL != "" {
		eventStore, err := a.deps.StoreConnector(ctx, a.cfg.Database.URL, a.cfg.Database.ConnectAttempts)
		if err != nil {
			return err
		}
		defer eventStore.Close()
		if opts.runID == "" {
			opts.runID = core.NewULID().String()
		}
		simOpts = append(simOpts, sim.WithEventStore(eventStore, opts.runID))
		slog.InfoContext(ctx, "persisting run", "run_id", opts.runID)
	}

	var ready atomic.Bool
	if a.cfg.MetricsAddr != "" {
		obs := a.deps.ObservabilityServerFactory(a.cfg.MetricsAddr, ready.Load)
		if _, err := obs.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := obs.Stop(shutdownCtx); err != nil {
				errutil.LogError(slog.Default(), "stopping observability server", err)
			}
		}()
		simOpts = append(simOpts, sim.WithRecorder(obs.Recorder()))
	}

	runner, err := scenario.NewRunner(ctx, sc, catalog, simOpts...)
	if err != nil {
		return err
	}
	defer runner.Close()

	drain := func() {}
	if !opts.quiet {
		events, err := broadcaster.Subscribe(opts.stream)
		if err != nil {
			return err
		}
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range events {
				_, _ = fmt.Fprintln(out, formatEvent(e, runner.Name))
			}
		}()
		var once sync.Once
		drain = func() {
			once.Do(func() {
				broadcaster.Unsubscribe(events)
				wg.Wait()
			})
		}
		defer drain()
	}

	ready.Store(true)
	slog.InfoContext(ctx, "scenario started", "path", path, "seed", sc.Seed, "ticks", sc.Ticks, "units", len(sc.Spawns))
	res, err := runner.Run(ctx)
	drain()
	if err != nil {
		return err
	}

	printRoster(out, res, runner.Name)
	slog.InfoContext(ctx, "scenario finished", "events", len(res.Events), "survivors", len(res.Final))
	return nil
}
