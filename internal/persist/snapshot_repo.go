package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SnapshotRepo stores scene snapshots in Postgres, keeping the newest
// keep rows per scene.
type SnapshotRepo struct {
	db   *DB
	keep int
}

func NewSnapshotRepo(db *DB, keep int) *SnapshotRepo {
	if keep < 1 {
		keep = 1
	}
	return &SnapshotRepo{db: db, keep: keep}
}

// Save writes snap unless the newest stored snapshot of the scene has the
// same checksum. It reports whether a row was written.
func (r *SnapshotRepo) Save(ctx context.Context, snap *Snapshot) (bool, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var last string
	err = tx.QueryRow(ctx,
		`SELECT checksum FROM scene_snapshots WHERE scene = $1 ORDER BY id DESC LIMIT 1`,
		snap.Scene,
	).Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("snapshot latest checksum: %w", err)
	}
	if last == snap.Checksum {
		return false, nil
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO scene_snapshots (scene, frame, checksum, data, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		snap.Scene, int64(snap.Frame), snap.Checksum, snap.Data, snap.CreatedAt,
	); err != nil {
		return false, fmt.Errorf("snapshot insert: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM scene_snapshots
		 WHERE scene = $1 AND id NOT IN (
		     SELECT id FROM scene_snapshots WHERE scene = $1 ORDER BY id DESC LIMIT $2
		 )`,
		snap.Scene, r.keep,
	)
	if err != nil {
		return false, fmt.Errorf("snapshot prune: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("snapshot commit: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		r.db.log.Debug("pruned scene snapshots", zap.String("scene", snap.Scene), zap.Int64("rows", n))
	}
	return true, nil
}

// Latest returns the newest snapshot of scene, or nil if there is none.
func (r *SnapshotRepo) Latest(ctx context.Context, scene string) (*Snapshot, error) {
	snap := &Snapshot{Scene: scene}
	var frame int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT frame, checksum, data, created_at
		 FROM scene_snapshots WHERE scene = $1 ORDER BY id DESC LIMIT 1`, scene,
	).Scan(&frame, &snap.Checksum, &snap.Data, &snap.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	snap.Frame = uint64(frame)
	return snap, nil
}
