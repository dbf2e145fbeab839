package world

import (
	"slices"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
)

// link appends id to the parent's child list. Missing parents are ignored.
func (m *Manager) link(id, parent ecs.EntityID) {
	if parent.IsZero() {
		return
	}
	pc, ok := m.composites.Get(parent)
	if !ok {
		return
	}
	pc.ChildrenIDs = append(pc.ChildrenIDs, id)
}

// unlink removes the first occurrence of id from the parent's child list.
// Ids are normalized on the way in, so plain equality is id equality.
func (m *Manager) unlink(id, parent ecs.EntityID) {
	if parent.IsZero() {
		return
	}
	pc, ok := m.composites.Get(parent)
	if !ok {
		return
	}
	if i := slices.Index(pc.ChildrenIDs, id); i >= 0 {
		pc.ChildrenIDs = slices.Delete(pc.ChildrenIDs, i, i+1)
	}
}

// ChangeParent moves the entity under newParent, appending it to the new
// parent's children. Moving an entity below itself is refused.
func (m *Manager) ChangeParent(id, newParent ecs.EntityID) bool {
	return m.updateComposite(id, ecs.Attributes{"parentId": string(newParent)})
}

// Parent returns the entity's parent id.
func (m *Manager) Parent(id ecs.EntityID) (ecs.EntityID, bool) {
	c, ok := m.composites.Get(id)
	if !ok || c.ParentID.IsZero() {
		return ecs.InvalidEntityID, false
	}
	return c.ParentID, true
}

// Children returns a copy of the entity's child ids.
func (m *Manager) Children(id ecs.EntityID) []ecs.EntityID {
	c, ok := m.composites.Get(id)
	if !ok {
		return nil
	}
	return c.Children()
}

// CollectSubtreeIDs returns id followed by its descendants in pre-order.
func (m *Manager) CollectSubtreeIDs(id ecs.EntityID) []ecs.EntityID {
	if !m.composites.Has(id) {
		return nil
	}
	var out []ecs.EntityID
	var walk func(ecs.EntityID)
	walk = func(cur ecs.EntityID) {
		out = append(out, cur)
		c, ok := m.composites.Get(cur)
		if !ok {
			return
		}
		for _, child := range c.ChildrenIDs {
			walk(child)
		}
	}
	walk(id)
	return out
}

// isDescendant reports whether candidate lies in the subtree below ancestor.
func (m *Manager) isDescendant(candidate, ancestor ecs.EntityID) bool {
	cur := candidate
	for steps := m.composites.Len(); steps >= 0; steps-- {
		c, ok := m.composites.Get(cur)
		if !ok || c.ParentID.IsZero() {
			return false
		}
		if c.ParentID == ancestor {
			return true
		}
		cur = c.ParentID
	}
	return false
}

// nearestAncestor walks up the composite tree from id (exclusive) and returns
// the first ancestor holding a component in store.
func nearestAncestor[T ecs.Component](composites *ecs.Store[*component.Composite], store *ecs.Store[T], id ecs.EntityID) (ecs.EntityID, T, bool) {
	var zero T
	cur := id
	for steps := composites.Len(); steps >= 0; steps-- {
		c, ok := composites.Get(cur)
		if !ok || c.ParentID.IsZero() {
			return ecs.InvalidEntityID, zero, false
		}
		cur = c.ParentID
		if v, ok := store.Get(cur); ok {
			return cur, v, true
		}
	}
	return ecs.InvalidEntityID, zero, false
}
