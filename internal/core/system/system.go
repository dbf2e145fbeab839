package system

import "time"

// Phase defines execution ordering within a single frame.
// PhaseUpdate and PhasePostUpdate carry no engine system; they order the
// systems a host registers (scene logic, physics or render sync) between
// event delivery and persistence.
type Phase int

const (
	PhaseInput      Phase = iota // 0: external requests (template reload)
	PhaseEvents                  // 1: deferred events, buffered bus delivery
	PhaseUpdate                  // 2: host scene logic
	PhasePostUpdate              // 3: host physics/render sync
	PhasePersist                 // 4: scene snapshots
	PhaseCleanup                 // 5: flush queued entity removals
)

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
