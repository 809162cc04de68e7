/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gofloorplan/internal/plan"
)

// Snapshot labels written by this package.
const (
	LabelAutosave = "autosave"
	LabelManual   = "manual"
	LabelRebuild  = "rebuild"
)

// tsLayout is fixed-width so that text order is time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNoSnapshot is returned when the index holds no snapshot for the request.
var ErrNoSnapshot = errors.New("no snapshot")

// Snapshot is one stored plan state.
type Snapshot struct {
	ID    int64
	TS    time.Time
	Label string
	Walls int
	Plan  []byte
}

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(ts, plan_blob, label, walls) VALUES (?, ?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT id, ts, label, walls, plan_blob FROM snapshots ORDER BY ts DESC, id DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT id, ts, label, walls, plan_blob FROM snapshots ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE id NOT IN (
	SELECT id FROM snapshots ORDER BY ts DESC, id DESC LIMIT ?
)`

// SaveSnapshot validates and persists a serialized plan with a label and timestamp.
func SaveSnapshot(ctx context.Context, ph *ProjectHandle, label string, planJSON []byte, ts time.Time) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	d, err := plan.Unmarshal(planJSON)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertSnapshotSQL, ts.UTC().Format(tsLayout), planJSON, label, len(d.Walls))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	logger("snapshot").Debug("snapshot saved", slog.String("label", label), slog.Int("walls", len(d.Walls)))
	return nil
}

// GetLatestSnapshot returns the newest snapshot or ErrNoSnapshot.
func GetLatestSnapshot(ctx context.Context, ph *ProjectHandle) (Snapshot, error) {
	if ph == nil {
		return Snapshot{}, errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = db.Close() }()
	s, err := scanSnapshot(db.QueryRowContext(ctx, selectLatestSnapshotSQL))
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	return s, err
}

// ListSnapshots returns up to limit most recent snapshots, newest first.
func ListSnapshots(ctx context.Context, ph *ProjectHandle, limit int) ([]Snapshot, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PruneOldSnapshots keeps at most keepLast snapshots and deletes older ones.
func PruneOldSnapshots(ctx context.Context, ph *ProjectHandle, keepLast int) (int64, error) {
	if ph == nil {
		return 0, errors.New("nil ProjectHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RestoreLatestSnapshot loads the newest snapshot into ph.Doc. The manifest is not written.
func RestoreLatestSnapshot(ctx context.Context, ph *ProjectHandle) (Snapshot, error) {
	s, err := GetLatestSnapshot(ctx, ph)
	if err != nil {
		return Snapshot{}, err
	}
	if ph.Doc == nil {
		ph.Doc = plan.New()
	}
	if err := ph.Doc.LoadJSON(s.Plan); err != nil {
		return Snapshot{}, fmt.Errorf("restore snapshot %d: %w", s.ID, err)
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(r rowScanner) (Snapshot, error) {
	var s Snapshot
	var tsStr string
	if err := r.Scan(&s.ID, &tsStr, &s.Label, &s.Walls, &s.Plan); err != nil {
		return Snapshot{}, err
	}
	// keep the blob even if the timestamp is unreadable
	s.TS, _ = time.Parse(tsLayout, tsStr)
	return s, nil
}
