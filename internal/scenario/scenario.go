// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package scenario drives a simulation from a YAML file: named spawns, order
// lines keyed by tick, and an optional Lua controller.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/unit"
)

// Scenario is a scripted battle.
type Scenario struct {
	Seed   int64               `yaml:"seed"`
	Ticks  int                 `yaml:"ticks"`
	Spawns []Spawn             `yaml:"spawns"`
	Orders map[uint64][]string `yaml:"orders,omitempty"`
	// Controller is Lua source defining orders(tick, units).
	Controller string `yaml:"controller,omitempty"`

	parsed map[uint64][]*Order
}

// Spawn places one named unit before the first tick.
type Spawn struct {
	Name     string        `yaml:"name"`
	Type     archetype.Tag `yaml:"type"`
	Position unit.Vec2     `yaml:"position"`
}

var namePattern = regexp.MustCompile(`^[a-zA-Z_]\w*$`)

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, oops.Code(CodeScenarioInvalid).With("path", path).Wrap(err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, oops.Code(CodeScenarioInvalid).With("operation", "decode").Wrap(err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if sc.Ticks <= 0 {
		return ErrScenarioInvalid("ticks", "must be positive")
	}
	if len(sc.Spawns) == 0 {
		return ErrScenarioInvalid("spawns", "at least one unit is required")
	}

	seen := make(map[string]bool, len(sc.Spawns))
	for i, s := range sc.Spawns {
		field := fmt.Sprintf("spawns[%d].name", i)
		switch {
		case !namePattern.MatchString(s.Name):
			return ErrScenarioInvalid(field, fmt.Sprintf("%q is not a valid name", s.Name))
		case isKeyword(s.Name):
			return ErrScenarioInvalid(field, fmt.Sprintf("%q is a reserved word", s.Name))
		case seen[s.Name]:
			return ErrScenarioInvalid(field, fmt.Sprintf("%q is spawned twice", s.Name))
		}
		seen[s.Name] = true
	}

	sc.parsed = make(map[uint64][]*Order, len(sc.Orders))
	for tick, lines := range sc.Orders {
		if tick == 0 || tick > uint64(sc.Ticks) { //nolint:gosec // Ticks is positive
			return ErrScenarioInvalid(fmt.Sprintf("orders[%d]", tick), fmt.Sprintf("tick must be between 1 and %d", sc.Ticks))
		}
		for _, line := range lines {
			o, err := ParseOrder(line)
			if err != nil {
				return oops.With("tick", tick).Wrap(err)
			}
			sc.parsed[tick] = append(sc.parsed[tick], o)
		}
	}
	return nil
}

// OrdersAt returns the parsed orders scheduled for tick, in file order.
func (sc *Scenario) OrdersAt(tick uint64) []*Order {
	return sc.parsed[tick]
}

// OrderTicks returns the ticks that carry orders, ascending.
func (sc *Scenario) OrderTicks() []uint64 {
	ticks := make([]uint64, 0, len(sc.parsed))
	for t := range sc.parsed {
		ticks = append(ticks, t)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })
	return ticks
}
