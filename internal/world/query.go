package world

import (
	"slices"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
)

// EntityIDsByName returns the ids of entities named name. A non-zero scope
// limits the search to the scope entity's subtree, in pre-order; otherwise
// all entities are searched in id order.
func (m *Manager) EntityIDsByName(name string, scope ecs.EntityID) []ecs.EntityID {
	name = component.NormalizeName(name)
	var candidates []ecs.EntityID
	if !scope.IsZero() {
		candidates = m.CollectSubtreeIDs(scope)
	} else {
		candidates = m.metadata.IDs()
		slices.Sort(candidates)
	}
	var out []ecs.EntityID
	for _, id := range candidates {
		if md, ok := m.metadata.Get(id); ok && md.Name == name {
			out = append(out, id)
		}
	}
	return out
}

// ComponentsByName returns the typeID components of the entities named name,
// keyed by entity id. scope works as in EntityIDsByName.
func (m *Manager) ComponentsByName(typeID ecs.TypeID, name string, scope ecs.EntityID) map[ecs.EntityID]ecs.Component {
	out := make(map[ecs.EntityID]ecs.Component)
	for _, id := range m.EntityIDsByName(name, scope) {
		if c, ok := m.Component(id, typeID); ok {
			out[id] = c
		}
	}
	return out
}

// ExportScene returns the configurations of the root's subtree, suitable for
// CreateEntities on an empty world. Ids are kept; the metadata component
// carries names and template links so templates are not expanded again.
func (m *Manager) ExportScene() []EntityConfig {
	root, ok := m.composites.Get(ecs.RootEntityID)
	if !ok {
		return nil
	}
	out := make([]EntityConfig, 0, len(root.ChildrenIDs))
	for _, child := range root.ChildrenIDs {
		out = append(out, m.exportEntity(child))
	}
	return out
}

func (m *Manager) exportEntity(id ecs.EntityID) EntityConfig {
	cfg := EntityConfig{
		ID:     string(id),
		Config: make(ecs.ComponentConfig),
	}
	for typeID, c := range m.Components(id) {
		if typeID == component.CompositeType {
			continue
		}
		cfg.Config[typeID] = c.Attributes()
	}
	if comp, ok := m.composites.Get(id); ok {
		for _, child := range comp.ChildrenIDs {
			cfg.Children = append(cfg.Children, m.exportEntity(child))
		}
	}
	return cfg
}
