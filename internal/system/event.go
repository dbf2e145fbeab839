package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/core/event"
	coresys "github.com/spellgo/engine/internal/core/system"
	"github.com/spellgo/engine/internal/world"
)

// EventSystem delivers the bus events emitted during the previous frame,
// then fires due deferred events. Phase 1 (Events).
type EventSystem struct {
	mgr *world.Manager
	bus *event.Bus
	log *zap.Logger
}

func NewEventSystem(mgr *world.Manager, log *zap.Logger) *EventSystem {
	return &EventSystem{mgr: mgr, bus: mgr.Bus(), log: log}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(dt time.Duration) {
	if n := s.bus.Pending(); n > 0 {
		s.log.Debug("delivering buffered events", zap.Int("count", n))
	}
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
	if n := s.mgr.DrainDeferredEvents(dt); n > 0 {
		s.log.Debug("deferred events fired", zap.Int("count", n), zap.Int("pending", s.mgr.PendingEvents()))
	}
}
