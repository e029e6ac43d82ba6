// go-lfrfid
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-lfrfid.
//
// go-lfrfid is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-lfrfid is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-lfrfid; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package config loads timing profiles from YAML files.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	lfrfid "github.com/ZaparooProject/go-lfrfid"
	"gopkg.in/yaml.v3"
)

// Units accepted for profile durations.
const (
	UnitFieldClocks  = "field_clocks"
	UnitMicroseconds = "microseconds"
)

// Config is the root of a profile file.
type Config struct {
	Profiles []ProfileConfig `yaml:"profiles"`
}

// ProfileConfig is one tag family's timing table.
type ProfileConfig struct {
	Family   string `yaml:"family"`
	Unit     string `yaml:"unit"`
	WaitTime uint32 `yaml:"wait_time"`
	StartGap uint32 `yaml:"start_gap"`
	WriteGap uint32 `yaml:"write_gap"`
	Data0    uint32 `yaml:"data_0"`
	Data1    uint32 `yaml:"data_1"`
	Program  uint32 `yaml:"program"`
}

// Load reads, normalizes and validates a profile file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	return Parse(data)
}

// Parse decodes, normalizes and validates profile YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize lower-cases family names and fills in the default unit.
func Normalize(cfg *Config) {
	for i := range cfg.Profiles {
		p := &cfg.Profiles[i]
		p.Family = strings.ToLower(strings.TrimSpace(p.Family))
		p.Unit = strings.ToLower(strings.TrimSpace(p.Unit))
		if p.Unit == "" {
			p.Unit = UnitFieldClocks
		}
	}
}

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) error {
	if len(cfg.Profiles) == 0 {
		return fmt.Errorf("%w: no profiles defined", lfrfid.ErrInvalidProfile)
	}
	seen := make(map[string]bool)
	for i, p := range cfg.Profiles {
		if p.Family == "" {
			return fmt.Errorf("%w: profile %d has no family", lfrfid.ErrInvalidProfile, i)
		}
		if seen[p.Family] {
			return fmt.Errorf("%w: family %q defined twice", lfrfid.ErrInvalidProfile, p.Family)
		}
		seen[p.Family] = true

		if p.Unit != UnitFieldClocks && p.Unit != UnitMicroseconds {
			return fmt.Errorf("%w: family %q: unknown unit %q", lfrfid.ErrInvalidProfile, p.Family, p.Unit)
		}
		if err := p.checkRange(); err != nil {
			return err
		}
		profile := p.Profile()
		if err := profile.Validate(); err != nil {
			return fmt.Errorf("family %q: %w", p.Family, err)
		}
	}
	return nil
}

// maxFieldClocks is the largest field-clock count that fits a uint32 once
// converted to microseconds.
const maxFieldClocks = math.MaxUint32 / lfrfid.FieldClock

// checkRange rejects field-clock values that overflow in microseconds.
func (p ProfileConfig) checkRange() error {
	if p.Unit != UnitFieldClocks {
		return nil
	}
	fields := []struct {
		name  string
		value uint32
	}{
		{"wait_time", p.WaitTime},
		{"start_gap", p.StartGap},
		{"write_gap", p.WriteGap},
		{"data_0", p.Data0},
		{"data_1", p.Data1},
		{"program", p.Program},
	}
	for _, f := range fields {
		if f.value > maxFieldClocks {
			return fmt.Errorf("%w: family %q: %s of %d field clocks exceeds %d",
				lfrfid.ErrInvalidProfile, p.Family, f.name, f.value, uint32(maxFieldClocks))
		}
	}
	return nil
}

// Profile converts the entry to a TimingProfile in microseconds.
func (p ProfileConfig) Profile() lfrfid.TimingProfile {
	family := lfrfid.Family(p.Family)
	if p.Unit == UnitMicroseconds {
		return lfrfid.TimingProfile{
			Family:   family,
			WaitTime: p.WaitTime,
			StartGap: p.StartGap,
			WriteGap: p.WriteGap,
			Data0:    p.Data0,
			Data1:    p.Data1,
			Program:  p.Program,
		}
	}
	return lfrfid.NewProfileFromFieldClocks(family, p.WaitTime, p.StartGap, p.WriteGap, p.Data0, p.Data1, p.Program)
}

// Lookup returns the profile for family.
func (c *Config) Lookup(family lfrfid.Family) (lfrfid.TimingProfile, error) {
	name := strings.ToLower(string(family))
	for _, p := range c.Profiles {
		if p.Family == name {
			return p.Profile(), nil
		}
	}
	return lfrfid.TimingProfile{}, fmt.Errorf("%w: %q", lfrfid.ErrUnknownFamily, family)
}
