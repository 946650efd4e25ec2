package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Bundle is every data file a simulation needs.
type Bundle struct {
	Effects    *EffectsConfig
	Abilities  *AbilitiesConfig
	Characters *CharactersConfig
	Cards      *CardsConfig
	Scenario   *ScenarioConfig
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decodeYAML(b, out)
}

func decodeYAML(b []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadScenario reads a single scenario file.
func LoadScenario(path string) (*ScenarioConfig, error) {
	var sc ScenarioConfig
	if err := loadYAML(path, &sc); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return &sc, nil
}

// LoadAll reads effects, abilities, characters, cards and scenario from dir.
// cards.yaml is optional.
func LoadAll(dir string) (*Bundle, error) {
	var ec EffectsConfig
	var ac AbilitiesConfig
	var cc CharactersConfig
	var kc CardsConfig
	if err := loadYAML(filepath.Join(dir, "effects.yaml"), &ec); err != nil {
		return nil, fmt.Errorf("load effects: %w", err)
	}
	if err := loadYAML(filepath.Join(dir, "abilities.yaml"), &ac); err != nil {
		return nil, fmt.Errorf("load abilities: %w", err)
	}
	if err := loadYAML(filepath.Join(dir, "characters.yaml"), &cc); err != nil {
		return nil, fmt.Errorf("load characters: %w", err)
	}
	if err := loadYAML(filepath.Join(dir, "cards.yaml"), &kc); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	sc, err := LoadScenario(filepath.Join(dir, "scenario.yaml"))
	if err != nil {
		return nil, err
	}
	return &Bundle{Effects: &ec, Abilities: &ac, Characters: &cc, Cards: &kc, Scenario: sc}, nil
}
