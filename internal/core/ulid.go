// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package core

import (
	"crypto/rand"
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewULID generates a new random ULID. Use it for identifiers that do not
// take part in simulation state, such as run ids.
func NewULID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// ParseULID parses a ULID string.
func ParseULID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("invalid ULID %q: %w", s, err)
	}
	return id, nil
}

// IDSource issues unit ids.
type IDSource interface {
	NewID() ulid.ULID
}

// seededEpoch is the fixed timestamp of every seeded id. Ordering comes from
// the monotonic entropy alone.
var seededEpoch = ulid.Timestamp(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))

// SeededIDSource issues strictly ascending ids from a seed. Two sources with
// the same seed issue the same sequence.
type SeededIDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewSeededIDSource creates an id source for seed.
func NewSeededIDSource(seed int64) *SeededIDSource {
	//nolint:gosec // ids must be reproducible, not unpredictable
	rng := mathrand.New(mathrand.NewSource(seed))
	return &SeededIDSource{entropy: ulid.Monotonic(rng, 0)}
}

// NewID returns the next id in the sequence.
func (s *SeededIDSource) NewID() ulid.ULID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(seededEpoch, s.entropy)
}
