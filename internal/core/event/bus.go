package event

import (
	"reflect"
	"sync"
)

// Subscription identifies a registered handler so it can be removed again.
type Subscription struct {
	t  reflect.Type
	id uint64
}

type queued struct {
	t  reflect.Type
	ev any
}

type handlerEntry struct {
	id uint64
	fn func(any)
}

// Bus delivers typed events. Publish delivers synchronously to the current
// subscribers. Emit is double-buffered: events emitted in frame N are
// delivered in frame N+1, after SwapBuffers and DispatchAll, in emission
// order across all types.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    []queued
	back     []queued
	handlers map[reflect.Type][]handlerEntry
	nextID   uint64
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]handlerEntry),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeOf[T]()
	b.nextID++
	b.handlers[t] = append(b.handlers[t], handlerEntry{
		id: b.nextID,
		fn: func(ev any) { fn(ev.(T)) },
	})
	return Subscription{t: t, id: b.nextID}
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	hs := b.handlers[s.t]
	for i, h := range hs {
		if h.id == s.id {
			// copy so a dispatch in progress keeps its own slice intact
			next := make([]handlerEntry, 0, len(hs)-1)
			next = append(next, hs[:i]...)
			b.handlers[s.t] = append(next, hs[i+1:]...)
			return
		}
	}
}

// Publish delivers event to every subscriber of T before returning.
func Publish[T any](b *Bus, event T) {
	b.deliver(typeOf[T](), event)
}

// Emit queues an event into the back buffer (will be readable next frame).
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, queued{t: typeOf[T](), ev: event})
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at frame start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	clear(b.back)
	b.back = b.back[:0]
}

// DispatchAll delivers all front-buffer events to their subscribed handlers.
func (b *Bus) DispatchAll() {
	for _, q := range b.front {
		b.deliver(q.t, q.ev)
	}
}

// Pending returns the number of events waiting in the back buffer.
func (b *Bus) Pending() int {
	return len(b.back)
}

func (b *Bus) deliver(t reflect.Type, ev any) {
	b.mu.Lock()
	hs := b.handlers[t]
	b.mu.Unlock()
	for _, h := range hs {
		h.fn(ev)
	}
}
