// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package core

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/samber/oops"
)

// ErrRunEmpty is returned when a run has no stored ticks.
var ErrRunEmpty = errors.New("run has no events")

// CodeDuplicateTick marks a second append for a tick already stored.
const CodeDuplicateTick = "DUPLICATE_TICK"

// ErrDuplicateTick creates an error for a tick appended twice.
func ErrDuplicateTick(runID string, tick uint64) error {
	return oops.Code(CodeDuplicateTick).
		With("run_id", runID).
		With("tick", tick).
		Errorf("tick %d already stored for run %s", tick, runID)
}

// EventStore persists per-tick event logs.
type EventStore interface {
	// AppendTick stores the complete log of one tick. A tick is stored at most once.
	AppendTick(ctx context.Context, runID string, tick uint64, events []Event) error

	// Replay returns up to limit events of a run from ticks after afterTick,
	// in (tick, seq) order.
	Replay(ctx context.Context, runID string, afterTick uint64, limit int) ([]Event, error)

	// LastTick returns the most recent stored tick of a run.
	LastTick(ctx context.Context, runID string) (uint64, error)
}

// MemoryEventStore is an in-memory EventStore.
type MemoryEventStore struct {
	mu   sync.RWMutex
	runs map[string]map[uint64][]Event
}

// NewMemoryEventStore creates a new in-memory event store.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		runs: make(map[string]map[uint64][]Event),
	}
}

// AppendTick stores a copy of a tick's events.
func (s *MemoryEventStore) AppendTick(_ context.Context, runID string, tick uint64, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticks, ok := s.runs[runID]
	if !ok {
		ticks = make(map[uint64][]Event)
		s.runs[runID] = ticks
	}
	if _, exists := ticks[tick]; exists {
		return ErrDuplicateTick(runID, tick)
	}
	stored := make([]Event, len(events))
	copy(stored, events)
	ticks[tick] = stored
	return nil
}

// Replay returns events from ticks after afterTick.
func (s *MemoryEventStore) Replay(_ context.Context, runID string, afterTick uint64, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticks := s.runs[runID]
	keys := make([]uint64, 0, len(ticks))
	for tick := range ticks {
		if tick > afterTick {
			keys = append(keys, tick)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var result []Event
	for _, tick := range keys {
		for _, e := range ticks[tick] {
			if len(result) >= limit {
				return result, nil
			}
			result = append(result, e)
		}
	}
	return result, nil
}

// LastTick returns the highest stored tick of a run.
func (s *MemoryEventStore) LastTick(_ context.Context, runID string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticks := s.runs[runID]
	if len(ticks) == 0 {
		return 0, ErrRunEmpty
	}
	var last uint64
	for tick := range ticks {
		last = max(last, tick)
	}
	return last, nil
}
