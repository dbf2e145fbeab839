package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/spellgo/engine/internal/core/system"
	"github.com/spellgo/engine/internal/data"
	"github.com/spellgo/engine/internal/world"
)

// TemplateReloadSystem re-reads the template file when asked and re-creates
// the instances of every changed template. Requests may come from any
// goroutine; the reload itself runs on the frame loop. Phase 0 (Input).
type TemplateReloadSystem struct {
	mgr      *world.Manager
	table    *data.TemplateTable
	path     string
	log      *zap.Logger
	requests chan struct{}
}

func NewTemplateReloadSystem(mgr *world.Manager, table *data.TemplateTable, path string, log *zap.Logger) *TemplateReloadSystem {
	return &TemplateReloadSystem{
		mgr:      mgr,
		table:    table,
		path:     path,
		log:      log,
		requests: make(chan struct{}, 1),
	}
}

func (s *TemplateReloadSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Request schedules a reload for the next frame. Repeated requests before
// that frame collapse into one.
func (s *TemplateReloadSystem) Request() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

func (s *TemplateReloadSystem) Update(_ time.Duration) {
	select {
	case <-s.requests:
	default:
		return
	}
	changed, err := s.table.Reload(s.path)
	if err != nil {
		s.log.Error("template reload failed", zap.String("path", s.path), zap.Error(err))
		return
	}
	total := 0
	for _, id := range changed {
		n, err := s.mgr.UpdateEntityTemplate(id)
		total += n
		if err != nil {
			s.log.Error("re-create template instances failed", zap.String("template", id), zap.Error(err))
		}
	}
	s.log.Info("templates reloaded",
		zap.Strings("changed", changed),
		zap.Int("entities", total),
	)
}
