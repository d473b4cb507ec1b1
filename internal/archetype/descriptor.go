// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package archetype

import (
	"fmt"
	"regexp"
)

// AbilityID names a special ability. The zero value means "no ability".
type AbilityID string

// None reports whether the ability id is unset.
func (a AbilityID) None() bool {
	return a == ""
}

// abilityPattern matches ability identifiers: lowercase words joined by
// underscores or hyphens.
var abilityPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Descriptor holds the static stats shared by every unit of one archetype.
// Descriptors are values; the catalog hands out copies.
type Descriptor struct {
	MaxHealth           int       `yaml:"max_health" json:"max_health" jsonschema:"minimum=1"`
	BaseDamage          int       `yaml:"base_damage" json:"base_damage" jsonschema:"minimum=0"`
	MoveSpeed           float64   `yaml:"move_speed" json:"move_speed" jsonschema:"exclusiveMinimum=0"`
	AttackCooldownTicks int       `yaml:"attack_cooldown_ticks" json:"attack_cooldown_ticks" jsonschema:"minimum=0"`
	SpecialAbilityID    AbilityID `yaml:"special_ability_id,omitempty" json:"special_ability_id,omitempty"`
	AttackRange         float64   `yaml:"attack_range" json:"attack_range" jsonschema:"exclusiveMinimum=0"`
	AreaRadius          float64   `yaml:"area_radius,omitempty" json:"area_radius,omitempty" jsonschema:"minimum=0"`
	StunTicks           int       `yaml:"stun_ticks,omitempty" json:"stun_ticks,omitempty" jsonschema:"minimum=0"`
}

// Validate checks descriptor invariants. field prefixes error fields so the
// caller can point at the offending row.
func (d Descriptor) Validate(field string) error {
	switch {
	case d.MaxHealth <= 0:
		return ErrConfiguration(field+".max_health", fmt.Sprintf("must be > 0, got %d", d.MaxHealth))
	case d.BaseDamage < 0:
		return ErrConfiguration(field+".base_damage", fmt.Sprintf("must be >= 0, got %d", d.BaseDamage))
	case d.MoveSpeed <= 0:
		return ErrConfiguration(field+".move_speed", fmt.Sprintf("must be > 0, got %g", d.MoveSpeed))
	case d.AttackCooldownTicks < 0:
		return ErrConfiguration(field+".attack_cooldown_ticks", fmt.Sprintf("must be >= 0, got %d", d.AttackCooldownTicks))
	case d.AttackRange <= 0:
		return ErrConfiguration(field+".attack_range", fmt.Sprintf("must be > 0, got %g", d.AttackRange))
	case d.AreaRadius < 0:
		return ErrConfiguration(field+".area_radius", fmt.Sprintf("must be >= 0, got %g", d.AreaRadius))
	case d.StunTicks < 0:
		return ErrConfiguration(field+".stun_ticks", fmt.Sprintf("must be >= 0, got %d", d.StunTicks))
	}
	if !d.SpecialAbilityID.None() && !abilityPattern.MatchString(string(d.SpecialAbilityID)) {
		return ErrConfiguration(field+".special_ability_id",
			fmt.Sprintf("%q must start with a-z and contain only a-z, 0-9, '_' or '-'", d.SpecialAbilityID))
	}
	return nil
}
