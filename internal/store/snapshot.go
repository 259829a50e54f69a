package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/taxon/internal/taxonomy"
)

// ErrNotFound is returned when a requested snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one persisted classification run.
type Snapshot struct {
	ID          string               `json:"id"`
	Seq         int64                `json:"seq"`
	Label       string               `json:"label,omitempty"`
	Fingerprint string               `json:"fingerprint"`
	TableHash   string               `json:"table_hash"`
	ItemCount   int                  `json:"item_count"`
	Placements  []taxonomy.Placement `json:"placements,omitempty"`
}

// SaveSnapshot stores placements as a new snapshot and returns it.
//
// ID and Seq are assigned here; values set by the caller are ignored. When
// the latest snapshot has the same fingerprint and table hash, nothing is
// written and that snapshot is returned with created=false.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) (saved Snapshot, created bool, err error) {
	latest, err := s.LatestSnapshot(ctx)
	switch {
	case err == nil:
		if latest.Fingerprint == snap.Fingerprint && latest.TableHash == snap.TableHash {
			return latest, false, nil
		}
	case errors.Is(err, ErrNotFound):
	default:
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots`).Scan(&seq); err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: next seq: %w", err)
	}

	snap.ID = s.ids.Generate()
	snap.Seq = seq
	snap.ItemCount = len(snap.Placements)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, seq, fingerprint, table_hash, label, item_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Seq, snap.Fingerprint, snap.TableHash, snap.Label, snap.ItemCount)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: insert: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO placements (snapshot_id, position, group_slug, item_slug, item_title, via, trigger_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: prepare: %w", err)
	}
	defer stmt.Close()

	for i, p := range snap.Placements {
		if _, err := stmt.ExecContext(ctx, snap.ID, i, p.Group, p.Item.Slug, p.Item.Title, string(p.Via), p.Trigger); err != nil {
			return Snapshot{}, false, fmt.Errorf("save snapshot: placement %q: %w", p.Item.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: commit: %w", err)
	}
	return snap, true, nil
}

// LatestSnapshot returns the snapshot with the highest seq, placements
// included. Returns ErrNotFound on an empty store.
func (s *Store) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, fingerprint, table_hash, label, item_count
		FROM snapshots
		ORDER BY seq DESC
		LIMIT 1
	`)
	snap, err := scanSnapshot(row)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Placements, err = s.readPlacements(ctx, snap.ID)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ReadSnapshot returns the snapshot with the given id, placements included.
func (s *Store) ReadSnapshot(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, fingerprint, table_hash, label, item_count
		FROM snapshots
		WHERE id = ?
	`, id)
	snap, err := scanSnapshot(row)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Placements, err = s.readPlacements(ctx, snap.ID)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ListSnapshots returns every snapshot without placements, oldest first.
// Returns an empty slice (not nil) on an empty store.
func (s *Store) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, fingerprint, table_hash, label, item_count
		FROM snapshots
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

func (s *Store) readPlacements(ctx context.Context, snapshotID string) ([]taxonomy.Placement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_slug, item_slug, item_title, via, trigger_text
		FROM placements
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query placements: %w", err)
	}
	defer rows.Close()

	placements := []taxonomy.Placement{}
	for rows.Next() {
		var p taxonomy.Placement
		var via string
		if err := rows.Scan(&p.Group, &p.Item.Slug, &p.Item.Title, &via, &p.Trigger); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		p.Via = taxonomy.Via(via)
		placements = append(placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate placements: %w", err)
	}
	return placements, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.Seq, &snap.Fingerprint, &snap.TableHash, &snap.Label, &snap.ItemCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	return snap, nil
}
