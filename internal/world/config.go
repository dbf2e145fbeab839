package world

import (
	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
)

// EntityConfig describes an entity to create. Name and EntityTemplateID end
// up in the entity's metadata component; Children are created below it.
type EntityConfig struct {
	ID               string              `yaml:"id,omitempty"`
	Name             string              `yaml:"name,omitempty"`
	EntityTemplateID string              `yaml:"entityTemplateId,omitempty"`
	ParentID         ecs.EntityID        `yaml:"parentId,omitempty"`
	Config           ecs.ComponentConfig `yaml:"config,omitempty"`
	Children         []EntityConfig      `yaml:"children,omitempty"`
}

// Clone returns a deep copy of the configuration.
func (c EntityConfig) Clone() EntityConfig {
	out := c
	out.Config = c.Config.Clone()
	out.Children = cloneConfigs(c.Children)
	return out
}

func cloneConfigs(in []EntityConfig) []EntityConfig {
	if in == nil {
		return nil
	}
	out := make([]EntityConfig, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// ambiguousSiblingName returns the first name shared by two children of any
// entity in the configuration tree. Unnamed children never collide.
func ambiguousSiblingName(cfg *EntityConfig) (string, bool) {
	seen := make(map[string]struct{}, len(cfg.Children))
	for i := range cfg.Children {
		name := component.NormalizeName(cfg.Children[i].Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return name, true
		}
		seen[name] = struct{}{}
	}
	for i := range cfg.Children {
		if name, ok := ambiguousSiblingName(&cfg.Children[i]); ok {
			return name, true
		}
	}
	return "", false
}

// mergeChildren overlays override children onto template children. A named
// override patches the template child with the same name (component config
// merged, id replaced when given, grandchildren merged the same way); every
// other override child is appended.
func mergeChildren(tmpl, overrides []EntityConfig) []EntityConfig {
	out := cloneConfigs(tmpl)
	for _, o := range overrides {
		idx := -1
		if name := component.NormalizeName(o.Name); name != "" {
			for i := range out {
				if component.NormalizeName(out[i].Name) == name {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			out = append(out, o.Clone())
			continue
		}
		t := &out[idx]
		t.Config = t.Config.Merge(o.Config.Clone())
		if o.ID != "" {
			t.ID = o.ID
		}
		if o.EntityTemplateID != "" {
			t.EntityTemplateID = o.EntityTemplateID
		}
		t.Children = mergeChildren(t.Children, o.Children)
	}
	return out
}
