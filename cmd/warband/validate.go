// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/warband/internal/scenario"
)

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario.yaml...]",
		Short: "Validate the archetype table and scenario files",
		Long: `Load the configured archetype table (or the embedded one) and
check each scenario file without running it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.deps.CatalogLoader(a.cfg.Archetypes); err != nil {
				return err
			}
			table := a.cfg.Archetypes
			if table == "" {
				table = "embedded table"
			}
			cmd.Printf("archetypes: %s ok\n", table)

			for _, path := range args {
				sc, err := scenario.Load(path)
				if err != nil {
					return err
				}
				cmd.Printf("%s: ok (%d units, %d ticks)\n", path, len(sc.Spawns), sc.Ticks)
			}
			return nil
		},
	}
}
