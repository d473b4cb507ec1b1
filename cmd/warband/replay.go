// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holomush/warband/internal/config"
	"github.com/holomush/warband/internal/core"
)

type replayOptions struct {
	after uint64
	limit int
}

func (a *app) newReplayCmd() *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Print a stored run's event log",
		Long:  `Print the events stored for a run, oldest first, starting after --after.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Database.URL == "" {
				return config.ErrInvalidValue("database.url", "", "required for replay")
			}
			ctx := cmd.Context()
			eventStore, err := a.deps.StoreConnector(ctx, a.cfg.Database.URL, a.cfg.Database.ConnectAttempts)
			if err != nil {
				return err
			}
			defer eventStore.Close()

			runID := args[0]
			last, err := eventStore.LastTick(ctx, runID)
			if errors.Is(err, core.ErrRunEmpty) {
				cmd.Printf("run %s has no stored ticks\n", runID)
				return nil
			}
			if err != nil {
				return err
			}

			events, err := eventStore.Replay(ctx, runID, opts.after, opts.limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range events {
				_, _ = fmt.Fprintln(out, formatEvent(e, idName))
			}
			cmd.Printf("run %s: %d events shown, last tick %d\n", runID, len(events), last)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&opts.after, "after", 0, "show events of ticks after this one")
	cmd.Flags().IntVar(&opts.limit, "limit", 1000, "maximum number of events")

	return cmd
}
