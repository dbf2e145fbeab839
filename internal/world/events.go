package world

import (
	"time"

	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/core/ecs"
)

// Handler reacts to an event routed to the entity that owns the handler.
type Handler func(m *Manager, id ecs.EntityID, args ...any)

// EventScript is the capability an eventHandlers asset must provide for
// events to be dispatched to it.
type EventScript interface {
	Handler(eventID string) (Handler, bool)
}

// HandlerMap is an EventScript backed by Go functions.
type HandlerMap map[string]Handler

func (h HandlerMap) Handler(eventID string) (Handler, bool) {
	fn, ok := h[eventID]
	return fn, ok
}

// DeferredEvent is an event waiting for its delay to run out. While Gate
// reports false the remaining delay does not decrease.
type DeferredEvent struct {
	EntityID  ecs.EntityID
	EventID   string
	Args      []any
	Remaining time.Duration
	Gate      func() bool
}

// advance counts dt against the delay and reports whether the event is due.
func (e *DeferredEvent) advance(dt time.Duration) bool {
	if e.Gate != nil && !e.Gate() {
		return false
	}
	e.Remaining -= dt
	return e.Remaining <= 0
}

// TriggerEvent delivers eventID to the nearest handler at or above id. The
// handler is invoked with the id of the entity that owns it. It reports
// whether a handler ran; unhandled events are dropped.
func (m *Manager) TriggerEvent(id ecs.EntityID, eventID string, args ...any) bool {
	cur := id
	for steps := m.composites.Len() + 1; steps >= 0; steps-- {
		if h, ok := m.handlers.Get(cur); ok {
			if script, ok := h.Asset.(EventScript); ok {
				if fn, ok := script.Handler(eventID); ok {
					fn(m, cur, args...)
					return true
				}
			}
		}
		next, _, ok := nearestAncestor(m.composites, m.handlers, cur)
		if !ok {
			break
		}
		cur = next
	}
	m.log.Debug("event not handled",
		zap.String("entity", string(id)),
		zap.String("event", eventID),
	)
	return false
}

// TriggerEventAfter queues eventID for delivery once delay has elapsed in
// frames where gate (if non-nil) reports true. A zero delay dispatches
// immediately and ignores gate; a negative delay fires on the next drain.
// Queued events outlive their target; a missing entity drops them on dispatch.
func (m *Manager) TriggerEventAfter(id ecs.EntityID, eventID string, delay time.Duration, gate func() bool, args ...any) {
	if delay == 0 {
		m.TriggerEvent(id, eventID, args...)
		return
	}
	m.deferred = append(m.deferred, &DeferredEvent{
		EntityID:  id,
		EventID:   eventID,
		Args:      args,
		Remaining: delay,
		Gate:      gate,
	})
}

// PendingEvents returns the number of queued deferred events.
func (m *Manager) PendingEvents() int {
	return len(m.deferred)
}

// DrainDeferredEvents advances every queued event by dt and triggers the due
// ones in queue order. Events queued by handlers during the drain wait for
// the next call. It returns the number of events triggered.
func (m *Manager) DrainDeferredEvents(dt time.Duration) int {
	if len(m.deferred) == 0 {
		return 0
	}
	queued := m.deferred

	var due []*DeferredEvent
	kept := make([]*DeferredEvent, 0, len(queued))
	for _, e := range queued {
		if e.advance(dt) {
			due = append(due, e)
		} else {
			kept = append(kept, e)
		}
	}
	// events queued by the handlers below land after the kept ones
	m.deferred = kept

	for _, e := range due {
		m.TriggerEvent(e.EntityID, e.EventID, e.Args...)
	}
	return len(due)
}
