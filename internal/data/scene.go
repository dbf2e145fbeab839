package data

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/spellgo/engine/internal/world"
)

// Scene is a named list of top-level entity configurations.
type Scene struct {
	Name     string               `yaml:"name"`
	Entities []world.EntityConfig `yaml:"entities"`
}

// LoadScene loads <dir>/<name>.yaml.
func LoadScene(dir, name string) (*Scene, error) {
	path := filepath.Join(dir, name+".yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", name, err)
	}
	s, err := ParseScene(raw)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	if s.Name == "" {
		s.Name = name
	}
	return s, nil
}

// ParseScene decodes a YAML scene document.
func ParseScene(raw []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &s, nil
}

// MarshalScene encodes a scene as YAML.
func MarshalScene(s *Scene) ([]byte, error) {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal scene %s: %w", s.Name, err)
	}
	return raw, nil
}
