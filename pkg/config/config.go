// Package config loads the scheduler's declarative configuration: pairing
// rules that bind two shift templates into an atomically-staffed pair, and
// engine defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PairingRule declares that, at one location, templates tagged FirstTag and
// SecondTag must always be staffed together by a single worker.
type PairingRule struct {
	LocationID string `yaml:"location_id"`
	FirstTag   string `yaml:"first_tag"`
	SecondTag  string `yaml:"second_tag"`
}

// Matches reports whether the rule covers a template tag.
func (r PairingRule) Matches(tag string) bool {
	return tag != "" && (tag == r.FirstTag || tag == r.SecondTag)
}

// PartnerTag returns the tag of the other half of the pair.
func (r PairingRule) PartnerTag(tag string) (string, bool) {
	switch tag {
	case r.FirstTag:
		return r.SecondTag, true
	case r.SecondTag:
		return r.FirstTag, true
	}
	return "", false
}

// Settings is the full scheduler configuration.
type Settings struct {
	Pairings             []PairingRule `yaml:"pairings"`
	DefaultMorningCutoff string        `yaml:"default_morning_cutoff"`
}

// Default returns settings with no pairings and a noon cutoff.
func Default() *Settings {
	return &Settings{DefaultMorningCutoff: "12:00"}
}

// Load reads settings from a YAML file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if s.DefaultMorningCutoff == "" {
		s.DefaultMorningCutoff = "12:00"
	}
	return s, nil
}

// LoadFromEnv loads the file named by SCHEDULER_CONFIG, falling back to
// defaults when the variable is unset. A set-but-unreadable path is an error.
func LoadFromEnv() (*Settings, error) {
	path := os.Getenv("SCHEDULER_CONFIG")
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// PairingsFor returns the pairing rules declared for a location.
func (s *Settings) PairingsFor(locationID string) []PairingRule {
	var out []PairingRule
	for _, r := range s.Pairings {
		if r.LocationID == locationID {
			out = append(out, r)
		}
	}
	return out
}

// PairingForTag finds the rule, if any, covering a template tag at a location.
func (s *Settings) PairingForTag(locationID, tag string) (PairingRule, bool) {
	for _, r := range s.Pairings {
		if r.LocationID == locationID && r.Matches(tag) {
			return r, true
		}
	}
	return PairingRule{}, false
}
