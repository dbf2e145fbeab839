package ecs

// TypeID names a component type.
type TypeID string

// Component is a typed bundle of attributes attached to one entity.
type Component interface {
	// Patch applies attribute values on top of the current state. It either
	// applies every value or none.
	Patch(attrs Attributes) error
	// Attributes returns a deep copy of the configurable attributes.
	Attributes() Attributes
}

// AnyStore is implemented by all component stores so the Registry can work
// with an entity's data across every store.
type AnyStore interface {
	TypeID() TypeID
	Has(id EntityID) bool
	Lookup(id EntityID) (Component, bool)
	Insert(id EntityID, c Component) error
	Remove(id EntityID) (Component, bool)
	Len() int
	IDs() []EntityID
}

// Store is a generic typed map store for components.
type Store[T Component] struct {
	typeID TypeID
	data   map[EntityID]T
}

func NewStore[T Component](typeID TypeID) *Store[T] {
	return &Store[T]{
		typeID: typeID,
		data:   make(map[EntityID]T, 256),
	}
}

func (s *Store[T]) TypeID() TypeID { return s.typeID }

func (s *Store[T]) Get(id EntityID) (T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

func (s *Store[T]) Each(fn func(EntityID, T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

func (s *Store[T]) IDs() []EntityID {
	ids := make([]EntityID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store[T]) Lookup(id EntityID) (Component, bool) {
	c, ok := s.data[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// Insert stores c under id. It fails when id already has a component of this
// type or when c is not of the store's element type.
func (s *Store[T]) Insert(id EntityID, c Component) error {
	if _, ok := s.data[id]; ok {
		return &DuplicateComponentError{EntityID: id, TypeID: s.typeID}
	}
	typed, ok := c.(T)
	if !ok {
		return &ComponentTypeError{TypeID: s.typeID, Got: c}
	}
	s.data[id] = typed
	return nil
}

func (s *Store[T]) Remove(id EntityID) (Component, bool) {
	c, ok := s.data[id]
	if !ok {
		return nil, false
	}
	delete(s.data, id)
	return c, true
}
