package world

import "github.com/spellgo/engine/internal/core/ecs"

// Template is a reusable entity configuration.
type Template struct {
	ID       string              `yaml:"id"`
	Config   ecs.ComponentConfig `yaml:"config"`
	Children []EntityConfig      `yaml:"children"`
}

// TemplateResolver looks up entity templates.
type TemplateResolver interface {
	Template(id string) (*Template, bool)
	IsAvailable(ids ...string) bool
}

// AssetResolver looks up assets referenced by asset-id attributes.
type AssetResolver interface {
	Asset(id string) (any, bool)
}

// TemplateMap is an in-memory TemplateResolver.
type TemplateMap map[string]*Template

func (m TemplateMap) Template(id string) (*Template, bool) {
	t, ok := m[id]
	return t, ok
}

func (m TemplateMap) IsAvailable(ids ...string) bool {
	for _, id := range ids {
		if _, ok := m[id]; !ok {
			return false
		}
	}
	return true
}

// AssetMap is an in-memory AssetResolver.
type AssetMap map[string]any

func (m AssetMap) Asset(id string) (any, bool) {
	a, ok := m[id]
	return a, ok
}

// ChainAssets asks each resolver in turn.
type ChainAssets []AssetResolver

func (c ChainAssets) Asset(id string) (any, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if a, ok := r.Asset(id); ok {
			return a, true
		}
	}
	return nil, false
}
