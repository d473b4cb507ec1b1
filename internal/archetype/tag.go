// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package archetype defines the closed set of unit archetypes and the
// immutable catalog of their static descriptors.
package archetype

import (
	"strings"
)

// Tag identifies the archetype of a unit. The set is closed: Giant, Daemon
// and RatWarrior are the only values.
//
// Wire values are part of the persistence and network format. New tags are
// appended; existing values never change.
type Tag uint8

const (
	Giant      Tag = 0
	Daemon     Tag = 1
	RatWarrior Tag = 2
)

// tagCount is the number of tags in the closed set.
const tagCount = 3

// Text names used by configuration files, scenarios and logs.
const (
	nameGiant      = "giant"
	nameDaemon     = "daemon"
	nameRatWarrior = "rat_warrior"
)

// All returns every tag in wire order.
func All() [tagCount]Tag {
	return [tagCount]Tag{Giant, Daemon, RatWarrior}
}

// Valid reports whether t is one of the closed set.
func (t Tag) Valid() bool {
	switch t {
	case Giant, Daemon, RatWarrior:
		return true
	default:
		return false
	}
}

func (t Tag) String() string {
	switch t {
	case Giant:
		return nameGiant
	case Daemon:
		return nameDaemon
	case RatWarrior:
		return nameRatWarrior
	default:
		return "unknown"
	}
}

// Wire returns the stable integer identifier for t.
func (t Tag) Wire() uint8 {
	return uint8(t)
}

// TagFromWire converts a stable integer identifier back into a Tag.
func TagFromWire(v uint8) (Tag, error) {
	t := Tag(v)
	if !t.Valid() {
		return 0, ErrInvalidArchetype(v)
	}
	return t, nil
}

// ParseTag converts a text name into a Tag. Matching is case-insensitive and
// accepts "-" in place of "_".
func ParseTag(s string) (Tag, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch norm {
	case nameGiant:
		return Giant, nil
	case nameDaemon:
		return Daemon, nil
	case nameRatWarrior:
		return RatWarrior, nil
	default:
		return 0, ErrInvalidArchetype(s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidArchetype(uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(data []byte) error {
	parsed, err := ParseTag(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
