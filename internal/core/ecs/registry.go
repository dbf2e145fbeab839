package ecs

// Registry tracks all component stores in registration order and supports
// whole-entity lookups across them.
type Registry struct {
	stores []AnyStore
	index  map[TypeID]int
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]AnyStore, 0, 16),
		index:  make(map[TypeID]int, 16),
	}
}

// Register adds a component store. A store already registered under the same
// type id is kept, and the existing store is returned.
func (r *Registry) Register(store AnyStore) AnyStore {
	if i, ok := r.index[store.TypeID()]; ok {
		return r.stores[i]
	}
	r.index[store.TypeID()] = len(r.stores)
	r.stores = append(r.stores, store)
	return store
}

// Store returns the store registered for typeID.
func (r *Registry) Store(typeID TypeID) (AnyStore, bool) {
	i, ok := r.index[typeID]
	if !ok {
		return nil, false
	}
	return r.stores[i], true
}

// Stores returns the registered stores in registration order.
func (r *Registry) Stores() []AnyStore {
	return r.stores
}

// Has reports whether any store holds a component for id.
func (r *Registry) Has(id EntityID) bool {
	for _, s := range r.stores {
		if s.Has(id) {
			return true
		}
	}
	return false
}

// Components returns every component held by id, keyed by type.
func (r *Registry) Components(id EntityID) map[TypeID]Component {
	out := make(map[TypeID]Component, 4)
	for _, s := range r.stores {
		if c, ok := s.Lookup(id); ok {
			out[s.TypeID()] = c
		}
	}
	return out
}


