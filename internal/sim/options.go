// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sim

import (
	"time"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/core"
)

// Config tunes a simulation.
type Config struct {
	// ReapAfterTicks is how many ticks a Dead instance stays in the live set
	// after the tick it died in. Zero reaps it at the end of that tick.
	ReapAfterTicks int `koanf:"reap_after_ticks"`
	// Workers bounds the parallel decide pass. Zero or one decides serially.
	Workers int `koanf:"workers"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{ReapAfterTicks: 3, Workers: 1}
}

// Validate checks c for impossible values.
func (c Config) Validate() error {
	if c.ReapAfterTicks < 0 {
		return archetype.ErrConfiguration("reap_after_ticks", "must be >= 0")
	}
	if c.Workers < 0 {
		return archetype.ErrConfiguration("workers", "must be >= 0")
	}
	return nil
}

// Recorder receives per-tick measurements.
type Recorder interface {
	RecordTick(elapsed time.Duration, events []core.Event)
	SetLiveInstances(tag archetype.Tag, n int)
}

// Publisher distributes committed events to subscribers.
type Publisher interface {
	Publish(events []core.Event)
}

// Option configures a Simulation during construction.
type Option func(*Simulation)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(s *Simulation) {
		s.cfg = cfg
	}
}

// WithIDSource sets where instance ids come from. The default is a seeded
// source with seed 0.
func WithIDSource(ids core.IDSource) Option {
	return func(s *Simulation) {
		s.ids = ids
	}
}

// WithRecorder reports tick metrics to r.
func WithRecorder(r Recorder) Option {
	return func(s *Simulation) {
		s.recorder = r
	}
}

// WithPublisher publishes every committed tick to p.
func WithPublisher(p Publisher) Option {
	return func(s *Simulation) {
		s.publisher = p
	}
}

// WithEventStore appends every committed tick to store under runID.
func WithEventStore(store core.EventStore, runID string) Option {
	return func(s *Simulation) {
		s.store = store
		s.runID = runID
	}
}
