package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spellgo/engine/internal/component"
)

type componentFile struct {
	Components []component.Schema `yaml:"components"`
}

// LoadComponentSchemas loads the component type definitions of a library.
// Schemas are validated; the first invalid one aborts the load.
func LoadComponentSchemas(path string) ([]component.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read component schemas: %w", err)
	}
	var f componentFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse component schemas: %w", err)
	}
	for i := range f.Components {
		if err := f.Components[i].Validate(); err != nil {
			return nil, fmt.Errorf("component schema %d: %w", i, err)
		}
	}
	return f.Components, nil
}
