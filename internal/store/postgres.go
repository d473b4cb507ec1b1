// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package store persists simulation event logs in PostgreSQL.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/holomush/warband/internal/core"
)

// poolIface is the subset of pgxpool.Pool the store uses, so tests can
// substitute pgxmock.
type poolIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// ConnectOptions controls how Connect waits for the database.
type ConnectOptions struct {
	// Attempts is the number of pings tried after the first. Zero pings once.
	Attempts uint64
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
}

// Connect opens a pool for dsn and pings it until it answers or the
// attempts run out.
func Connect(ctx context.Context, dsn string, opts ConnectOptions) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	b := retry.WithMaxRetries(opts.Attempts, retry.NewExponential(backoff))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("operation", "ping").
			With("attempts", opts.Attempts+1).
			Wrap(err)
	}
	return pool, nil
}

// PostgresEventStore implements core.EventStore using PostgreSQL.
type PostgresEventStore struct {
	pool poolIface
}

var _ core.EventStore = (*PostgresEventStore)(nil)

// NewPostgresEventStore creates a store over pool.
func NewPostgresEventStore(pool poolIface) *PostgresEventStore {
	return &PostgresEventStore{pool: pool}
}

// Close closes the underlying pool.
func (s *PostgresEventStore) Close() {
	s.pool.Close()
}

// AppendTick stores one tick's events atomically. Appending a tick twice
// fails with DUPLICATE_TICK and stores nothing.
func (s *PostgresEventStore) AppendTick(ctx context.Context, runID string, tick uint64, events []core.Event) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return oops.Code("STORE_TX_BEGIN_FAILED").With("run_id", runID).With("tick", tick).Wrap(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx) //nolint:errcheck // the append error takes precedence
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO sim_ticks (run_id, tick, event_count) VALUES ($1, $2, $3)`,
		runID, int64(tick), len(events)) //nolint:gosec // ticks stay far below MaxInt64
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return core.ErrDuplicateTick(runID, tick)
		}
		return oops.Code("STORE_APPEND_FAILED").With("run_id", runID).With("tick", tick).Wrap(err)
	}

	for _, e := range events {
		_, err = tx.Exec(ctx,
			`INSERT INTO sim_events (run_id, tick, seq, stream, type, actor, target, action, outcome, amount, x, y, reason)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			runID, int64(tick), e.Seq, e.Stream, string(e.Type), //nolint:gosec // see above
			nullableID(e.Actor), nullableID(e.Target),
			string(e.Action), string(e.Outcome), e.Amount, e.X, e.Y, string(e.Reason))
		if err != nil {
			return oops.Code("STORE_APPEND_FAILED").
				With("run_id", runID).
				With("tick", tick).
				With("seq", e.Seq).
				Wrap(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return oops.Code("STORE_TX_COMMIT_FAILED").With("run_id", runID).With("tick", tick).Wrap(err)
	}
	return nil
}

// Replay returns up to limit events of runID from ticks after afterTick,
// ordered by tick then sequence.
func (s *PostgresEventStore) Replay(ctx context.Context, runID string, afterTick uint64, limit int) ([]core.Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT tick, seq, stream, type, actor, target, action, outcome, amount, x, y, reason
		 FROM sim_events WHERE run_id = $1 AND tick > $2
		 ORDER BY tick, seq LIMIT $3`,
		runID, int64(afterTick), limit) //nolint:gosec // see AppendTick
	if err != nil {
		return nil, oops.Code("STORE_REPLAY_FAILED").With("run_id", runID).Wrap(err)
	}
	defer rows.Close()

	var events []core.Event
	for rows.Next() {
		var (
			e             core.Event
			tick          int64
			typ, action   string
			outcome, why  string
			actor, target *string
		)
		if err := rows.Scan(&tick, &e.Seq, &e.Stream, &typ, &actor, &target,
			&action, &outcome, &e.Amount, &e.X, &e.Y, &why); err != nil {
			return nil, oops.Code("STORE_REPLAY_FAILED").With("run_id", runID).Wrap(err)
		}
		if e.Actor, err = parseNullableID(actor); err != nil {
			return nil, oops.Code("STORE_CORRUPT_EVENT").With("run_id", runID).With("tick", tick).Wrap(err)
		}
		if e.Target, err = parseNullableID(target); err != nil {
			return nil, oops.Code("STORE_CORRUPT_EVENT").With("run_id", runID).With("tick", tick).Wrap(err)
		}
		e.Tick = uint64(tick) //nolint:gosec // stored from a uint64
		e.Type = core.EventType(typ)
		e.Action = core.Action(action)
		e.Outcome = core.Outcome(outcome)
		e.Reason = core.DropReason(why)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("STORE_REPLAY_FAILED").With("run_id", runID).Wrap(err)
	}
	return events, nil
}

// LastTick returns the most recent stored tick of runID, or core.ErrRunEmpty.
func (s *PostgresEventStore) LastTick(ctx context.Context, runID string) (uint64, error) {
	var tick int64
	err := s.pool.QueryRow(ctx,
		`SELECT tick FROM sim_ticks WHERE run_id = $1 ORDER BY tick DESC LIMIT 1`,
		runID).Scan(&tick)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, core.ErrRunEmpty
	}
	if err != nil {
		return 0, oops.Code("STORE_QUERY_FAILED").With("run_id", runID).Wrap(err)
	}
	return uint64(tick), nil //nolint:gosec // stored from a uint64
}

func nullableID(id ulid.ULID) *string {
	if id.IsZero() {
		return nil
	}
	s := id.String()
	return &s
}

func parseNullableID(s *string) (ulid.ULID, error) {
	if s == nil {
		return ulid.ULID{}, nil
	}
	id, err := ulid.Parse(*s)
	if err != nil {
		return ulid.ULID{}, oops.With("id", *s).Wrap(err)
	}
	return id, nil
}
