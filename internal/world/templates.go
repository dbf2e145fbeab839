package world

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
)

// UpdateEntityTemplate re-creates every entity instantiated from templateID
// so it picks up the template's current definition. Each entity keeps its
// id, parent and name. It returns the number of entities re-created.
func (m *Manager) UpdateEntityTemplate(templateID string) (int, error) {
	var ids []ecs.EntityID
	m.metadata.Each(func(id ecs.EntityID, md *component.Metadata) {
		if md.EntityTemplateID == templateID {
			ids = append(ids, id)
		}
	})
	slices.Sort(ids)

	n := 0
	for _, id := range ids {
		// removed together with an ancestor re-created earlier in this loop
		comp, ok := m.composites.Get(id)
		if !ok {
			continue
		}
		cfg := EntityConfig{
			ID:               string(id),
			EntityTemplateID: templateID,
			ParentID:         comp.ParentID,
		}
		if md, ok := m.metadata.Get(id); ok {
			cfg.Name = md.Name
		}
		m.RemoveEntity(id)
		if _, err := m.CreateEntity(cfg); err != nil {
			return n, fmt.Errorf("re-create entity %q from template %q: %w", id, templateID, err)
		}
		n++
	}
	m.log.Info("entity template updated",
		zap.String("template", templateID),
		zap.Int("entities", n),
	)
	return n, nil
}
