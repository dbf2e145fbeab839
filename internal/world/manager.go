package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/core/event"
)

// Manager owns the entity world: component stores, the composite tree, the
// transform and visual propagation, entity lifecycle and event routing.
// Accessed only from the frame loop goroutine.
type Manager struct {
	world     *ecs.World
	bus       *event.Bus
	templates TemplateResolver
	assets    AssetResolver
	log       *zap.Logger

	schemas map[ecs.TypeID]*component.Schema

	composites *ecs.Store[*component.Composite]
	metadata   *ecs.Store[*component.Metadata]
	transforms *ecs.Store[*component.Transform]
	visuals    *ecs.Store[*component.VisualObject]
	handlers   *ecs.Store[*component.EventHandlers]
	textures   *ecs.Store[*component.TextureMatrix]

	deferred []*DeferredEvent
}

// NewManager creates a manager with the reserved component types registered.
// templates and assets may be nil when the world never references them.
func NewManager(bus *event.Bus, templates TemplateResolver, assets AssetResolver, log *zap.Logger) *Manager {
	if bus == nil {
		bus = event.NewBus()
	}
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		world:     ecs.NewWorld(),
		bus:       bus,
		templates: templates,
		assets:    assets,
		log:       log,
		schemas:   make(map[ecs.TypeID]*component.Schema),

		composites: ecs.NewStore[*component.Composite](component.CompositeType),
		metadata:   ecs.NewStore[*component.Metadata](component.MetadataType),
		transforms: ecs.NewStore[*component.Transform](component.TransformType),
		visuals:    ecs.NewStore[*component.VisualObject](component.VisualObjectType),
		handlers:   ecs.NewStore[*component.EventHandlers](component.EventHandlersType),
		textures:   ecs.NewStore[*component.TextureMatrix](component.TextureMatrixType),
	}
	reg := m.world.Registry()
	reg.Register(m.composites)
	reg.Register(m.metadata)
	reg.Register(m.transforms)
	reg.Register(m.visuals)
	reg.Register(m.handlers)
	reg.Register(m.textures)
	for _, s := range component.BuiltinSchemas() {
		s := s
		m.schemas[s.ID] = &s
	}
	return m
}

// Bus returns the bus lifecycle notifications are published on.
func (m *Manager) Bus() *event.Bus { return m.bus }

// World exposes the underlying stores.
func (m *Manager) World() *ecs.World { return m.world }

// Log returns the manager's logger.
func (m *Manager) Log() *zap.Logger { return m.log }

// Init creates the root entity.
func (m *Manager) Init() error {
	if m.composites.Has(ecs.RootEntityID) {
		return nil
	}
	p := &plan{
		id: ecs.RootEntityID,
		components: []pendingComponent{
			{typeID: component.CompositeType, c: &component.Composite{}},
			{typeID: component.MetadataType, c: &component.Metadata{}},
		},
	}
	if err := m.commit(p); err != nil {
		return fmt.Errorf("create root entity: %w", err)
	}
	m.log.Debug("world initialised")
	return nil
}

// Destroy removes the root subtree and drops all deferred events.
func (m *Manager) Destroy() {
	m.RemoveEntity(ecs.RootEntityID)
	m.deferred = nil
	m.log.Debug("world destroyed")
}

// RegisterType registers a component type. Registering an id again replaces
// its schema; existing instances are kept.
func (m *Manager) RegisterType(schema component.Schema) error {
	if err := schema.Validate(); err != nil {
		return err
	}
	s := schema
	_, replaced := m.schemas[s.ID]
	m.schemas[s.ID] = &s
	if _, ok := m.world.Registry().Store(s.ID); !ok {
		m.world.Registry().Register(ecs.NewStore[*component.Record](s.ID))
	}
	m.log.Debug("component type registered",
		zap.String("type", string(s.ID)),
		zap.Int("attributes", len(s.Attributes)),
		zap.Bool("replaced", replaced),
	)
	return nil
}

// Schema returns the registered schema of a component type.
func (m *Manager) Schema(typeID ecs.TypeID) (*component.Schema, bool) {
	s, ok := m.schemas[typeID]
	return s, ok
}

// Exists reports whether the entity has any component.
func (m *Manager) Exists(id ecs.EntityID) bool {
	return m.world.Exists(id)
}

// HasComponent reports whether the entity has a component of typeID.
func (m *Manager) HasComponent(id ecs.EntityID, typeID ecs.TypeID) bool {
	store, ok := m.world.Registry().Store(typeID)
	return ok && store.Has(id)
}

// Component returns the entity's component of typeID.
func (m *Manager) Component(id ecs.EntityID, typeID ecs.TypeID) (ecs.Component, bool) {
	store, ok := m.world.Registry().Store(typeID)
	if !ok {
		return nil, false
	}
	return store.Lookup(id)
}

// Components returns every component the entity has, keyed by type.
func (m *Manager) Components(id ecs.EntityID) map[ecs.TypeID]ecs.Component {
	return m.world.Registry().Components(id)
}

func (m *Manager) Composite(id ecs.EntityID) (*component.Composite, bool) {
	return m.composites.Get(id)
}

func (m *Manager) Metadata(id ecs.EntityID) (*component.Metadata, bool) {
	return m.metadata.Get(id)
}

func (m *Manager) Transform(id ecs.EntityID) (*component.Transform, bool) {
	return m.transforms.Get(id)
}

func (m *Manager) VisualObject(id ecs.EntityID) (*component.VisualObject, bool) {
	return m.visuals.Get(id)
}

func (m *Manager) EventHandlers(id ecs.EntityID) (*component.EventHandlers, bool) {
	return m.handlers.Get(id)
}

func (m *Manager) TextureMatrix(id ecs.EntityID) (*component.TextureMatrix, bool) {
	return m.textures.Get(id)
}

// AttachComponent creates a component of typeID from the schema defaults
// patched with attrs and attaches it to the entity.
func (m *Manager) AttachComponent(id ecs.EntityID, typeID ecs.TypeID, attrs ecs.Attributes) error {
	if m.HasComponent(id, typeID) {
		return &ecs.DuplicateComponentError{EntityID: id, TypeID: typeID}
	}
	c, err := m.buildComponent(typeID, attrs)
	if err != nil {
		return err
	}
	return m.attach(id, typeID, c)
}

// DetachComponent removes the entity's component of typeID and returns it.
func (m *Manager) DetachComponent(id ecs.EntityID, typeID ecs.TypeID) (ecs.Component, bool) {
	c, ok := m.detach(id, typeID)
	if ok && !m.Exists(id) {
		event.Publish(m.bus, event.EntityRemoved{EntityID: id})
	}
	return c, ok
}

// UpdateComponent patches the entity's component of typeID with attrs. It
// reports false when the component does not exist or attrs were rejected.
// Changing composite.parentId moves the entity in the tree.
func (m *Manager) UpdateComponent(id ecs.EntityID, typeID ecs.TypeID, attrs ecs.Attributes) bool {
	if typeID == component.CompositeType {
		return m.updateComposite(id, attrs)
	}
	c, ok := m.Component(id, typeID)
	if !ok {
		return false
	}
	bindings, err := m.resolveAssetAttributes(typeID, attrs)
	if err != nil {
		m.log.Warn("component update rejected",
			zap.String("entity", string(id)),
			zap.String("type", string(typeID)),
			zap.Error(err),
		)
		return false
	}
	if err := c.Patch(attrs); err != nil {
		m.log.Warn("component update rejected",
			zap.String("entity", string(id)),
			zap.String("type", string(typeID)),
			zap.Error(err),
		)
		return false
	}
	bindAssets(c, bindings)

	switch typeID {
	case component.TransformType:
		if component.TouchesLocal(attrs) {
			m.UpdateWorldTransform(id)
		}
	case component.VisualObjectType:
		m.UpdateVisualObject(id)
	case component.TextureMatrixType:
		c.(*component.TextureMatrix).Rebuild()
	}
	event.Publish(m.bus, event.ComponentUpdated{EntityID: id, TypeID: typeID, Component: c})
	return true
}

// UpdateComponentAttribute sets one attribute the component already has.
func (m *Manager) UpdateComponentAttribute(id ecs.EntityID, typeID ecs.TypeID, attr string, value any) bool {
	c, ok := m.Component(id, typeID)
	if !ok || !c.Attributes().Has(attr) {
		return false
	}
	return m.UpdateComponent(id, typeID, ecs.Attributes{attr: value})
}

func (m *Manager) updateComposite(id ecs.EntityID, attrs ecs.Attributes) bool {
	comp, ok := m.composites.Get(id)
	if !ok {
		return false
	}
	rest := attrs
	newParent, reparent := comp.ParentID, false
	if v, has := attrs["parentId"]; has {
		probe := &component.Composite{}
		if err := probe.Patch(ecs.Attributes{"parentId": v}); err != nil {
			m.log.Warn("composite update rejected", zap.String("entity", string(id)), zap.Error(err))
			return false
		}
		newParent, reparent = probe.ParentID, true
		if newParent == id || (!newParent.IsZero() && m.isDescendant(newParent, id)) {
			m.log.Warn("reparent would create a cycle",
				zap.String("entity", string(id)),
				zap.String("parent", string(newParent)),
			)
			return false
		}
		rest = make(ecs.Attributes, len(attrs)-1)
		for k, val := range attrs {
			if k != "parentId" {
				rest[k] = val
			}
		}
	}
	if err := comp.Patch(rest); err != nil {
		m.log.Warn("composite update rejected", zap.String("entity", string(id)), zap.Error(err))
		return false
	}
	if reparent {
		m.unlink(id, comp.ParentID)
		comp.ParentID = newParent
		m.link(id, newParent)
		m.UpdateWorldTransform(id)
		m.UpdateVisualObject(id)
	}
	event.Publish(m.bus, event.ComponentUpdated{EntityID: id, TypeID: component.CompositeType, Component: comp})
	return true
}

// buildComponent instantiates a component of typeID with attrs applied and
// its asset references resolved.
func (m *Manager) buildComponent(typeID ecs.TypeID, attrs ecs.Attributes) (ecs.Component, error) {
	schema, ok := m.schemas[typeID]
	if !ok {
		return nil, &UnknownComponentTypeError{TypeID: typeID}
	}
	c, err := component.New(schema)
	if err != nil {
		return nil, err
	}
	if err := c.Patch(attrs); err != nil {
		return nil, err
	}
	bindings, err := m.resolveAssetAttributes(typeID, c.Attributes())
	if err != nil {
		return nil, err
	}
	bindAssets(c, bindings)
	return c, nil
}

// attach inserts c and applies the structural side effects of its type.
func (m *Manager) attach(id ecs.EntityID, typeID ecs.TypeID, c ecs.Component) error {
	store, ok := m.world.Registry().Store(typeID)
	if !ok {
		return &UnknownComponentTypeError{TypeID: typeID}
	}
	if err := store.Insert(id, c); err != nil {
		return err
	}
	switch v := c.(type) {
	case *component.Composite:
		v.ChildrenIDs = nil
		m.link(id, v.ParentID)
	case *component.TextureMatrix:
		v.Rebuild()
	case *component.Transform:
		m.UpdateWorldTransform(id)
	case *component.VisualObject:
		m.UpdateVisualObject(id)
	}
	event.Publish(m.bus, event.ComponentCreated{EntityID: id, TypeID: typeID, Component: c})
	return nil
}

// detach removes the component and undoes the structural side effects of
// its type.
func (m *Manager) detach(id ecs.EntityID, typeID ecs.TypeID) (ecs.Component, bool) {
	store, ok := m.world.Registry().Store(typeID)
	if !ok {
		return nil, false
	}
	c, ok := store.Remove(id)
	if !ok {
		return nil, false
	}
	switch v := c.(type) {
	case *component.Composite:
		m.unlink(id, v.ParentID)
	case *component.Transform:
		m.UpdateWorldTransform(id)
	case *component.VisualObject:
		m.UpdateVisualObject(id)
	}
	event.Publish(m.bus, event.ComponentRemoved{EntityID: id, TypeID: typeID})
	return c, true
}
