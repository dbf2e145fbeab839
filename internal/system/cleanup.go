package system

import (
	"time"

	coresys "github.com/spellgo/engine/internal/core/system"
	"github.com/spellgo/engine/internal/world"
)

// CleanupSystem flushes the queued entity removals at frame end.
// Phase 5 (Cleanup).
type CleanupSystem struct {
	mgr *world.Manager
}

func NewCleanupSystem(mgr *world.Manager) *CleanupSystem {
	return &CleanupSystem{mgr: mgr}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.mgr.FlushRemovals()
}
