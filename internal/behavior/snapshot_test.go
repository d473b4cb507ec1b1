// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package behavior

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/warband/internal/unit"
)

func TestSnapshot_OrdersByID(t *testing.T) {
	a := unit.Instance{ID: ulid.MustNew(3, nil)}
	b := unit.Instance{ID: ulid.MustNew(1, nil)}
	c := unit.Instance{ID: ulid.MustNew(2, nil)}
	in := []unit.Instance{a, b, c}

	snap := NewSnapshot(in)

	require.Equal(t, 3, snap.Len())
	assert.Equal(t, b.ID, snap.At(0).ID)
	assert.Equal(t, c.ID, snap.At(1).ID)
	assert.Equal(t, a.ID, snap.At(2).ID)
	assert.Equal(t, a.ID, in[0].ID, "input slice is not reordered")
}

func TestSnapshot_Lookup(t *testing.T) {
	a := unit.Instance{ID: ulid.MustNew(1, nil), Health: 7}
	snap := NewSnapshot([]unit.Instance{a})

	got, ok := snap.Lookup(a.ID)
	require.True(t, ok)
	assert.Equal(t, 7, got.Health)

	_, ok = snap.Lookup(ulid.MustNew(2, nil))
	assert.False(t, ok)
}
