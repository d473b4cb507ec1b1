// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package archetype

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the semver constraint an archetype table's version
// field must satisfy.
const SupportedVersions = "^1"

//go:embed default_archetypes.yaml
var defaultTable []byte

// Table is the on-disk shape of the archetype configuration: one row per tag.
type Table struct {
	Version    string `yaml:"version" json:"version"`
	Archetypes Rows   `yaml:"archetypes" json:"archetypes"`
}

// Rows holds one descriptor per tag. A nil row is a missing row.
type Rows struct {
	Giant      *Descriptor `yaml:"giant" json:"giant"`
	Daemon     *Descriptor `yaml:"daemon" json:"daemon"`
	RatWarrior *Descriptor `yaml:"rat_warrior" json:"rat_warrior"`
}

// row returns the configured descriptor for t, or nil when the row is missing.
func (r Rows) row(t Tag) *Descriptor {
	switch t {
	case Giant:
		return r.Giant
	case Daemon:
		return r.Daemon
	case RatWarrior:
		return r.RatWarrior
	default:
		return nil
	}
}

// Load reads and parses an archetype table from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, wrapConfiguration("read archetype table", err)
	}
	return Parse(data)
}

// Default returns the catalog built from the table embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultTable)
}

// DefaultTable returns a copy of the embedded table's YAML source.
func DefaultTable() []byte {
	out := make([]byte, len(defaultTable))
	copy(out, defaultTable)
	return out
}

// Parse validates an archetype table against its JSON Schema, checks the
// version gate and row invariants, and builds the catalog.
// Every failure is a CONFIGURATION_ERROR.
func Parse(data []byte) (*Catalog, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, wrapConfiguration("validate archetype schema", err)
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, wrapConfiguration("decode archetype table", err)
	}
	if err := checkVersion(table.Version); err != nil {
		return nil, err
	}

	var rows [tagCount]Descriptor
	for i, t := range All() {
		row := table.Archetypes.row(t)
		if row == nil {
			return nil, ErrConfiguration("archetypes."+t.String(), "row is missing")
		}
		rows[i] = *row
	}
	return NewCatalog(rows[Giant], rows[Daemon], rows[RatWarrior])
}

func checkVersion(raw string) error {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return ErrConfiguration("version", fmt.Sprintf("%q is not a semantic version", raw))
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return wrapConfiguration("parse version constraint", err)
	}
	if !constraint.Check(v) {
		return ErrConfiguration("version", fmt.Sprintf("%s does not satisfy %s", v, SupportedVersions))
	}
	return nil
}
