// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package archetype

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/warband/pkg/errutil"
)

func TestTag_WireValuesAreStable(t *testing.T) {
	// These values are persisted and sent over the network.
	assert.Equal(t, uint8(0), Giant.Wire())
	assert.Equal(t, uint8(1), Daemon.Wire())
	assert.Equal(t, uint8(2), RatWarrior.Wire())
}

func TestTag_String(t *testing.T) {
	tests := []struct {
		name     string
		input    Tag
		expected string
	}{
		{"giant", Giant, "giant"},
		{"daemon", Daemon, "daemon"},
		{"rat warrior", RatWarrior, "rat_warrior"},
		{"unknown", Tag(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.String())
		})
	}
}

func TestTagFromWire(t *testing.T) {
	for _, tag := range All() {
		got, err := TagFromWire(tag.Wire())
		require.NoError(t, err)
		assert.Equal(t, tag, got)
	}

	_, err := TagFromWire(3)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodeInvalidArchetype)
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		input   string
		want    Tag
		wantErr bool
	}{
		{"giant", Giant, false},
		{"GIANT", Giant, false},
		{" daemon ", Daemon, false},
		{"rat_warrior", RatWarrior, false},
		{"rat-warrior", RatWarrior, false},
		{"goblin", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTag(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, CodeInvalidArchetype)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTag_TextRoundTripThroughJSON(t *testing.T) {
	type row struct {
		Type Tag `json:"type"`
	}

	data, err := json.Marshal(row{Type: RatWarrior})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"rat_warrior"}`, string(data))

	var decoded row
	require.NoError(t, json.Unmarshal([]byte(`{"type":"daemon"}`), &decoded))
	assert.Equal(t, Daemon, decoded.Type)

	err = json.Unmarshal([]byte(`{"type":"dragon"}`), &decoded)
	assert.Error(t, err)
}

func TestTag_MarshalTextRejectsOutOfSet(t *testing.T) {
	_, err := Tag(9).MarshalText()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodeInvalidArchetype)
}
