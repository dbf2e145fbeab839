package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/core/event"
)

type pendingComponent struct {
	typeID ecs.TypeID
	c      ecs.Component
}

// plan is a fully validated entity subtree waiting to be attached. Building
// a plan touches nothing but the id allocator, so a failed creation leaves
// no entity behind.
type plan struct {
	id         ecs.EntityID
	parentID   ecs.EntityID
	name       string
	components []pendingComponent
	children   []*plan
}

// CreateEntity creates an entity (and its configured children) below
// cfg.ParentID, or below the root when no parent is given.
func (m *Manager) CreateEntity(cfg EntityConfig) (ecs.EntityID, error) {
	parent := ecs.ParseEntityID(string(cfg.ParentID))
	if parent.IsZero() {
		parent = ecs.RootEntityID
	}
	p, err := m.plan(cfg, parent, make(map[ecs.EntityID]struct{}))
	if err != nil {
		return ecs.InvalidEntityID, err
	}
	if m.siblingNameTaken(p.parentID, p.id, p.name) {
		return ecs.InvalidEntityID, &AmbiguousSiblingNameError{Name: p.name, ParentID: p.parentID}
	}
	if err := m.commit(p); err != nil {
		if m.composites.Has(p.id) {
			m.RemoveEntity(p.id)
		}
		return ecs.InvalidEntityID, err
	}
	m.log.Debug("entity created",
		zap.String("entity", string(p.id)),
		zap.String("parent", string(p.parentID)),
		zap.String("name", p.name),
	)
	return p.id, nil
}

// CreateEntities creates each configuration in order and stops at the first
// failure. Ids of the entities created before the failure are returned.
func (m *Manager) CreateEntities(cfgs []EntityConfig) ([]ecs.EntityID, error) {
	ids := make([]ecs.EntityID, 0, len(cfgs))
	for i := range cfgs {
		id, err := m.CreateEntity(cfgs[i])
		if err != nil {
			return ids, fmt.Errorf("entity %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CloneEntity creates a sibling of id carrying copies of its component
// values. Children, the name and the template link are not copied.
func (m *Manager) CloneEntity(id ecs.EntityID) (ecs.EntityID, error) {
	comp, ok := m.composites.Get(id)
	if !ok {
		return ecs.InvalidEntityID, fmt.Errorf("clone %q: %w", id, ErrUnknownEntity)
	}
	cfg := EntityConfig{
		ParentID: comp.ParentID,
		Config:   make(ecs.ComponentConfig),
	}
	for typeID, c := range m.Components(id) {
		if typeID == component.CompositeType || typeID == component.MetadataType {
			continue
		}
		cfg.Config[typeID] = c.Attributes()
	}
	if cfg.ParentID.IsZero() {
		cfg.ParentID = ecs.RootEntityID
	}
	return m.CreateEntity(cfg)
}

// normalize resolves the template of cfg and validates sibling names.
func (m *Manager) normalize(cfg EntityConfig) (EntityConfig, error) {
	n := cfg.Clone()
	if name, dup := ambiguousSiblingName(&n); dup {
		return n, &AmbiguousSiblingNameError{Name: name}
	}
	if n.EntityTemplateID == "" {
		return n, nil
	}
	if m.templates == nil {
		return n, &UnknownTemplateError{TemplateID: n.EntityTemplateID}
	}
	tmpl, ok := m.templates.Template(n.EntityTemplateID)
	if !ok {
		return n, &UnknownTemplateError{TemplateID: n.EntityTemplateID}
	}
	n.Config = tmpl.Config.Clone().Merge(n.Config)
	n.Children = mergeChildren(tmpl.Children, n.Children)
	if name, dup := ambiguousSiblingName(&n); dup {
		return n, &AmbiguousSiblingNameError{Name: name}
	}
	return n, nil
}

func (m *Manager) plan(cfg EntityConfig, parent ecs.EntityID, reserved map[ecs.EntityID]struct{}) (*plan, error) {
	n, err := m.normalize(cfg)
	if err != nil {
		return nil, err
	}
	if _, ok := n.Config[component.CompositeType]; ok {
		return nil, fmt.Errorf("composite is managed by the world: %w",
			&ecs.DuplicateComponentError{EntityID: ecs.ParseEntityID(n.ID), TypeID: component.CompositeType})
	}

	id := m.world.IDs().Allocate(n.ID)
	if _, taken := reserved[id]; taken || m.world.Exists(id) {
		return nil, &ecs.DuplicateComponentError{EntityID: id, TypeID: component.CompositeType}
	}
	reserved[id] = struct{}{}

	meta := &component.Metadata{}
	metaAttrs := ecs.Attributes{"name": n.Name, "entityTemplateId": n.EntityTemplateID}
	if extra, ok := n.Config[component.MetadataType]; ok {
		metaAttrs = ecs.Patch(metaAttrs, extra)
	}
	if err := meta.Patch(metaAttrs); err != nil {
		return nil, err
	}

	p := &plan{
		id:       id,
		parentID: parent,
		name:     meta.Name,
		components: []pendingComponent{
			{typeID: component.CompositeType, c: &component.Composite{ParentID: parent}},
			{typeID: component.MetadataType, c: meta},
		},
	}

	for typeID := range n.Config {
		if _, ok := m.schemas[typeID]; !ok {
			return nil, &UnknownComponentTypeError{TypeID: typeID}
		}
	}
	// registry order keeps attachment deterministic
	for _, store := range m.world.Registry().Stores() {
		typeID := store.TypeID()
		attrs, ok := n.Config[typeID]
		if !ok || typeID == component.MetadataType {
			continue
		}
		c, err := m.buildComponent(typeID, attrs)
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", id, err)
		}
		p.components = append(p.components, pendingComponent{typeID: typeID, c: c})
	}

	for i := range n.Children {
		child, err := m.plan(n.Children[i], id, reserved)
		if err != nil {
			return nil, err
		}
		p.children = append(p.children, child)
	}
	return p, nil
}

// commit attaches a plan depth-first. After each subtree is attached its
// name is checked against its live siblings once more.
func (m *Manager) commit(p *plan) error {
	for _, pc := range p.components {
		if err := m.attach(p.id, pc.typeID, pc.c); err != nil {
			return err
		}
	}
	for _, child := range p.children {
		if err := m.commit(child); err != nil {
			return err
		}
	}
	if m.siblingNameTaken(p.parentID, p.id, p.name) {
		m.RemoveEntity(p.id)
		return &AmbiguousSiblingNameError{Name: p.name, ParentID: p.parentID}
	}
	event.Publish(m.bus, event.EntityCreated{
		EntityID:   p.id,
		Components: m.world.Registry().Components(p.id),
	})
	return nil
}

// siblingNameTaken reports whether another child of parent is named name.
func (m *Manager) siblingNameTaken(parent, self ecs.EntityID, name string) bool {
	if name == "" {
		return false
	}
	pc, ok := m.composites.Get(parent)
	if !ok {
		return false
	}
	for _, sibling := range pc.ChildrenIDs {
		if sibling == self {
			continue
		}
		if md, ok := m.metadata.Get(sibling); ok && md.Name == name {
			return true
		}
	}
	return false
}
