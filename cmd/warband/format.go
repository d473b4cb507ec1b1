// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/warband/internal/core"
	"github.com/holomush/warband/internal/scenario"
)

// formatEvent renders one event as a logfmt-style line. name maps ids to
// display names.
func formatEvent(e core.Event, name func(ulid.ULID) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tick=%d seq=%d type=%s", e.Tick, e.Seq, e.Type)
	if !e.Actor.IsZero() {
		fmt.Fprintf(&b, " actor=%s", name(e.Actor))
	}
	if !e.Target.IsZero() {
		fmt.Fprintf(&b, " target=%s", name(e.Target))
	}
	switch e.Type {
	case core.EventTypeActionResolved:
		fmt.Fprintf(&b, " action=%s", e.Action)
		if e.Outcome != core.OutcomeNone {
			fmt.Fprintf(&b, " outcome=%s", e.Outcome)
		}
		if e.Amount != 0 {
			fmt.Fprintf(&b, " amount=%d", e.Amount)
		}
		fmt.Fprintf(&b, " pos=%g,%g", e.X, e.Y)
	case core.EventTypeDroppedIntent:
		fmt.Fprintf(&b, " reason=%s", e.Reason)
	case core.EventTypeSpawned:
		fmt.Fprintf(&b, " health=%d pos=%g,%g", e.Amount, e.X, e.Y)
	}
	return b.String()
}

// printRoster writes the final state of every unit still in the live set.
func printRoster(w io.Writer, res scenario.Result, name func(ulid.ULID) string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tTYPE\tSTATE\tHEALTH\tPOSITION")
	for _, in := range res.Final {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%g,%g\n",
			name(in.ID), in.Type(), in.State, in.Health, in.Position.X, in.Position.Y)
	}
	_ = tw.Flush()
}

// idName is the name function for runs with no scenario at hand.
func idName(id ulid.ULID) string {
	return id.String()
}
