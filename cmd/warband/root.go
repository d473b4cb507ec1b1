// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/holomush/warband/internal/config"
	"github.com/holomush/warband/internal/logging"
)

const serviceName = "warband"

// app carries state shared by the subcommands of one invocation.
type app struct {
	configFile string
	cfg        config.Config
	deps       *Deps
}

// NewRootCmd creates the root command. deps may be nil.
func NewRootCmd(deps *Deps) *cobra.Command {
	a := &app{deps: deps.withDefaults()}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "warband",
		Short: "warband - a deterministic tick-based combat simulator",
		Long: `warband runs tick-based battles between Giants, Daemons and
Rat Warriors. Every tick is deterministic and can be persisted as an
event log for replay.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			slog.SetDefault(logging.Setup(serviceName, cmd.Root().Version, cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr()))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/warband/config.yaml)")
	flags.String("log-format", defaults.LogFormat, "log format (json or text)")
	flags.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	flags.String("archetypes", defaults.Archetypes, "archetype table path (default: embedded table)")
	flags.String("metrics-addr", defaults.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("database-url", defaults.Database.URL, "PostgreSQL URL for the event store (empty = no persistence)")
	flags.Int("workers", defaults.Sim.Workers, "goroutines used to decide units each tick")
	flags.Int("reap-after", defaults.Sim.ReapAfterTicks, "ticks a dead unit stays in the live set")

	cmd.AddCommand(a.newRunCmd())
	cmd.AddCommand(a.newValidateCmd())
	cmd.AddCommand(a.newMigrateCmd())
	cmd.AddCommand(a.newReplayCmd())

	return cmd
}
