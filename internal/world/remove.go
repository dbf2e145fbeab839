package world

import (
	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/core/event"
)

// RemoveEntity removes the entity and its whole subtree. Children go first,
// always the first remaining one; then every other component, then the
// composite. It reports false when id has no composite.
func (m *Manager) RemoveEntity(id ecs.EntityID) bool {
	comp, ok := m.composites.Get(id)
	if !ok {
		return false
	}
	for len(comp.ChildrenIDs) > 0 {
		child := comp.ChildrenIDs[0]
		m.RemoveEntity(child)
		// a dangling child id would never unlink itself
		if len(comp.ChildrenIDs) > 0 && comp.ChildrenIDs[0] == child {
			m.unlink(child, id)
		}
	}
	for _, store := range m.world.Registry().Stores() {
		if store.TypeID() == component.CompositeType {
			continue
		}
		m.detach(id, store.TypeID())
	}
	m.detach(id, component.CompositeType)
	event.Publish(m.bus, event.EntityRemoved{EntityID: id})
	m.log.Debug("entity removed", zap.String("entity", string(id)))
	return true
}

// QueueRemoval schedules the entity for removal at the next FlushRemovals.
// Use it while iterating stores.
func (m *Manager) QueueRemoval(id ecs.EntityID) {
	m.world.MarkForRemoval(id)
}

// PendingRemovals returns the number of queued removals.
func (m *Manager) PendingRemovals() int {
	return m.world.PendingRemovals()
}

// FlushRemovals removes every queued entity and returns how many existed.
func (m *Manager) FlushRemovals() int {
	n := 0
	m.world.FlushRemovalQueue(func(id ecs.EntityID) {
		if m.RemoveEntity(id) {
			n++
		}
	})
	return n
}
