package ecs

// World is the top-level store container. It owns the id allocator, the
// component registry, and a deferred removal queue flushed by the cleanup
// system each frame.
type World struct {
	ids         *IDAllocator
	registry    *Registry
	removeQueue []EntityID
}

func NewWorld() *World {
	return &World{
		ids:         NewIDAllocator(),
		registry:    NewRegistry(),
		removeQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) IDs() *IDAllocator   { return w.ids }
func (w *World) Registry() *Registry { return w.registry }

// Exists reports whether any store holds a component for id.
func (w *World) Exists(id EntityID) bool {
	return w.registry.Has(id)
}

// MarkForRemoval queues an entity for end-of-frame removal.
func (w *World) MarkForRemoval(id EntityID) {
	for _, queued := range w.removeQueue {
		if queued == id {
			return
		}
	}
	w.removeQueue = append(w.removeQueue, id)
}

// PendingRemovals returns the number of queued removals.
func (w *World) PendingRemovals() int {
	return len(w.removeQueue)
}

// FlushRemovalQueue hands every queued id to remove and clears the queue.
// Ids queued by remove itself are handled in the same flush.
func (w *World) FlushRemovalQueue(remove func(EntityID)) {
	for i := 0; i < len(w.removeQueue); i++ {
		remove(w.removeQueue[i])
	}
	w.removeQueue = w.removeQueue[:0]
}
