// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package behavior

import (
	"sort"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/warband/internal/unit"
)

// Snapshot is a read-only view of every unit at the start of a tick. All
// decisions in a tick read the same snapshot.
type Snapshot struct {
	units []unit.Instance
	index map[ulid.ULID]int
}

// NewSnapshot copies units into a snapshot ordered by ascending id.
func NewSnapshot(units []unit.Instance) *Snapshot {
	sorted := make([]unit.Instance, len(units))
	copy(sorted, units)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID.Compare(sorted[j].ID) < 0 })

	index := make(map[ulid.ULID]int, len(sorted))
	for i, u := range sorted {
		index[u.ID] = i
	}
	return &Snapshot{units: sorted, index: index}
}

// Lookup returns a copy of the unit with id.
func (s *Snapshot) Lookup(id ulid.ULID) (unit.Instance, bool) {
	i, ok := s.index[id]
	if !ok {
		return unit.Instance{}, false
	}
	return s.units[i], true
}

// Len returns the number of units in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.units)
}

// At returns a copy of the i-th unit in ascending id order.
func (s *Snapshot) At(i int) unit.Instance {
	return s.units[i]
}
