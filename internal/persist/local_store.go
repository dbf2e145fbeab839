package persist

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

const (
	propData     = "data"
	propChecksum = "checksum"
	propFrame    = "frame"
	propTime     = "created_at"
)

// LocalStore keeps the newest snapshot of each scene in the per-user
// application data directory. Used when no database is configured.
type LocalStore struct {
	data *gdata.Manager
	log  *zap.Logger
}

func NewLocalStore(appName string, log *zap.Logger) (*LocalStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open local storage %q: %w", appName, err)
	}
	return &LocalStore{data: m, log: log}, nil
}

func sceneObject(scene string) string {
	return "scene_" + scene
}

// Save writes snap unless the stored snapshot of the scene has the same
// checksum. It reports whether anything was written.
func (s *LocalStore) Save(_ context.Context, snap *Snapshot) (bool, error) {
	obj := sceneObject(snap.Scene)
	if s.data.ObjectPropExists(obj, propChecksum) {
		last, err := s.data.LoadObjectProp(obj, propChecksum)
		if err == nil && string(last) == snap.Checksum {
			return false, nil
		}
	}
	props := []struct {
		key  string
		data []byte
	}{
		// the checksum goes last so a torn write never looks current
		{propData, snap.Data},
		{propFrame, []byte(strconv.FormatUint(snap.Frame, 10))},
		{propTime, []byte(snap.CreatedAt.UTC().Format(time.RFC3339Nano))},
		{propChecksum, []byte(snap.Checksum)},
	}
	for _, p := range props {
		if err := s.data.SaveObjectProp(obj, p.key, p.data); err != nil {
			return false, fmt.Errorf("save %s/%s: %w", obj, p.key, err)
		}
	}
	return true, nil
}

// Latest returns the stored snapshot of scene, or nil if there is none.
func (s *LocalStore) Latest(_ context.Context, scene string) (*Snapshot, error) {
	obj := sceneObject(scene)
	if !s.data.ObjectPropExists(obj, propChecksum) {
		return nil, nil
	}
	snap := &Snapshot{Scene: scene}
	data, err := s.data.LoadObjectProp(obj, propData)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", obj, propData, err)
	}
	snap.Data = data
	sum, err := s.data.LoadObjectProp(obj, propChecksum)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", obj, propChecksum, err)
	}
	snap.Checksum = string(sum)
	if raw, err := s.data.LoadObjectProp(obj, propFrame); err == nil {
		snap.Frame, _ = strconv.ParseUint(string(raw), 10, 64)
	}
	if raw, err := s.data.LoadObjectProp(obj, propTime); err == nil {
		snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, string(raw))
	}
	if !snap.Verify() {
		s.log.Warn("local snapshot checksum mismatch", zap.String("scene", scene))
	}
	return snap, nil
}
