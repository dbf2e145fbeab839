package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/core/event"
	coresys "github.com/spellgo/engine/internal/core/system"
	"github.com/spellgo/engine/internal/data"
	"github.com/spellgo/engine/internal/persist"
	"github.com/spellgo/engine/internal/world"
)

// SnapshotStore persists scene snapshots. Save reports whether anything was
// written; stores skip snapshots identical to the newest one.
type SnapshotStore interface {
	Save(ctx context.Context, snap *persist.Snapshot) (bool, error)
	Latest(ctx context.Context, scene string) (*persist.Snapshot, error)
}

// SnapshotSystem periodically saves the scene when lifecycle events marked
// it dirty. Phase 4 (Persist).
type SnapshotSystem struct {
	mgr      *world.Manager
	store    SnapshotStore
	scene    string
	log      *zap.Logger
	interval int // check every N frames
	tick     int
	frame    uint64
	dirty    bool
	subs     []event.Subscription
}

func NewSnapshotSystem(mgr *world.Manager, store SnapshotStore, scene string, log *zap.Logger, intervalFrames int) *SnapshotSystem {
	s := &SnapshotSystem{
		mgr:      mgr,
		store:    store,
		scene:    scene,
		log:      log,
		interval: intervalFrames,
	}
	bus := mgr.Bus()
	s.subs = append(s.subs,
		event.Subscribe(bus, func(event.EntityCreated) { s.dirty = true }),
		event.Subscribe(bus, func(event.EntityRemoved) { s.dirty = true }),
		event.Subscribe(bus, func(event.ComponentCreated) { s.dirty = true }),
		event.Subscribe(bus, func(event.ComponentUpdated) { s.dirty = true }),
		event.Subscribe(bus, func(event.ComponentRemoved) { s.dirty = true }),
	)
	return s
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *SnapshotSystem) Update(_ time.Duration) {
	s.frame++
	s.tick++
	if s.tick < s.interval {
		return
	}
	s.tick = 0
	if !s.dirty {
		return
	}
	if err := s.SaveNow(); err != nil {
		s.log.Error("scene snapshot failed", zap.String("scene", s.scene), zap.Error(err))
	}
}

// Dirty reports whether the scene changed since the last saved snapshot.
func (s *SnapshotSystem) Dirty() bool { return s.dirty }

// SaveNow writes a snapshot immediately, ignoring the dirty flag.
// Called for graceful shutdown.
func (s *SnapshotSystem) SaveNow() error {
	raw, err := data.MarshalScene(&data.Scene{Name: s.scene, Entities: s.mgr.ExportScene()})
	if err != nil {
		return err
	}
	snap := persist.NewSnapshot(s.scene, s.frame, raw)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	wrote, err := s.store.Save(ctx, snap)
	if err != nil {
		return err
	}
	s.dirty = false
	if wrote {
		s.log.Info("scene snapshot saved",
			zap.String("scene", s.scene),
			zap.Uint64("frame", s.frame),
			zap.Int("bytes", len(raw)),
			zap.String("checksum", snap.Checksum[:12]),
		)
	}
	return nil
}

// Close unsubscribes from the bus.
func (s *SnapshotSystem) Close() {
	for _, sub := range s.subs {
		s.mgr.Bus().Unsubscribe(sub)
	}
	s.subs = nil
}

// LoadLatestScene returns the newest stored snapshot of scene decoded as a
// scene, or nil when the store has none.
func LoadLatestScene(ctx context.Context, store SnapshotStore, scene string) (*data.Scene, error) {
	snap, err := store.Latest(ctx, scene)
	if err != nil || snap == nil {
		return nil, err
	}
	if !snap.Verify() {
		return nil, &persist.ChecksumError{Scene: scene, Checksum: snap.Checksum}
	}
	return data.ParseScene(snap.Data)
}
