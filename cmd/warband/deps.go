// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/core"
	"github.com/holomush/warband/internal/observability"
	"github.com/holomush/warband/internal/sim"
	"github.com/holomush/warband/internal/store"
)

// Deps contains injectable dependencies for every subcommand.
// Fields left nil use their default implementations.
type Deps struct {
	// CatalogLoader builds the archetype catalog. An empty path means the
	// embedded table.
	// Default: archetype.Load, or archetype.Default for an empty path
	CatalogLoader func(path string) (*archetype.Catalog, error)

	// StoreConnector opens the event store.
	// Default: store.Connect wrapped in store.NewPostgresEventStore
	StoreConnector func(ctx context.Context, url string, attempts uint64) (EventStore, error)

	// MigratorFactory creates a schema migrator.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)

	// ObservabilityServerFactory creates the metrics and health server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, isReady observability.ReadinessChecker) ObservabilityServer
}

// EventStore wraps the methods used from store.PostgresEventStore.
type EventStore interface {
	core.EventStore
	Close()
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	Close() error
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Recorder() sim.Recorder
}

// observabilityServer adapts *observability.Server to ObservabilityServer.
type observabilityServer struct {
	*observability.Server
}

func (s observabilityServer) Recorder() sim.Recorder {
	return s.Metrics()
}

func (d *Deps) withDefaults() *Deps {
	out := Deps{}
	if d != nil {
		out = *d
	}
	if out.CatalogLoader == nil {
		out.CatalogLoader = func(path string) (*archetype.Catalog, error) {
			if path == "" {
				return archetype.Default()
			}
			return archetype.Load(path)
		}
	}
	if out.StoreConnector == nil {
		out.StoreConnector = func(ctx context.Context, url string, attempts uint64) (EventStore, error) {
			pool, err := store.Connect(ctx, url, store.ConnectOptions{Attempts: attempts})
			if err != nil {
				return nil, err
			}
			return store.NewPostgresEventStore(pool), nil
		}
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(url string) (Migrator, error) {
			return store.NewMigrator(url)
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, isReady observability.ReadinessChecker) ObservabilityServer {
			return observabilityServer{observability.NewServer(addr, isReady)}
		}
	}
	return &out
}
