package world

import (
	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/mathx"
)

// UpdateWorldTransform recomputes the world matrix of id and of every
// transform below it. Entities without a transform pass their nearest
// ancestor's world matrix through to their children.
func (m *Manager) UpdateWorldTransform(id ecs.EntityID) {
	var parent *mathx.Mat3
	if _, t, ok := nearestAncestor(m.composites, m.transforms, id); ok {
		w := t.WorldMatrix
		parent = &w
	}
	m.propagateTransform(id, parent)
}

func (m *Manager) propagateTransform(id ecs.EntityID, parentWorld *mathx.Mat3) {
	if t, ok := m.transforms.Get(id); ok {
		t.RebuildLocal()
		if parentWorld != nil {
			t.WorldMatrix = mathx.Multiply(*parentWorld, t.LocalMatrix)
		} else {
			t.WorldMatrix = t.LocalMatrix
		}
		t.WorldTranslation = t.WorldMatrix.Translation()
		w := t.WorldMatrix
		parentWorld = &w
	}
	c, ok := m.composites.Get(id)
	if !ok {
		return
	}
	for _, child := range c.Children() {
		m.propagateTransform(child, parentWorld)
	}
}

// visualAccum carries the opacity product and layer sum of the visual
// objects above the entity being updated.
type visualAccum struct {
	opacity float64
	layer   int
}

// UpdateVisualObject recomputes world opacity and world layer of id and of
// every visual object below it.
func (m *Manager) UpdateVisualObject(id ecs.EntityID) {
	acc := visualAccum{opacity: 1}
	if _, v, ok := nearestAncestor(m.composites, m.visuals, id); ok {
		acc = visualAccum{opacity: v.WorldOpacity, layer: v.WorldLayer}
	}
	m.propagateVisual(id, acc)
}

func (m *Manager) propagateVisual(id ecs.EntityID, acc visualAccum) {
	if v, ok := m.visuals.Get(id); ok {
		v.WorldOpacity = acc.opacity * v.Opacity
		v.WorldLayer = acc.layer + v.Layer
		acc = visualAccum{opacity: v.WorldOpacity, layer: v.WorldLayer}
	}
	c, ok := m.composites.Get(id)
	if !ok {
		return
	}
	for _, child := range c.Children() {
		m.propagateVisual(child, acc)
	}
}

// EachVisual calls fn for every entity holding both a transform and a
// visual object. Iteration order is unspecified.
func (m *Manager) EachVisual(fn func(id ecs.EntityID, t *component.Transform, v *component.VisualObject)) {
	ecs.Each2(m.transforms, m.visuals, fn)
}
