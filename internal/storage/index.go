/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "gofloorplan/internal/log"
	"gofloorplan/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-project ephemeral/index data under the project root.
	IndexDirName  = ".gfp"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at .gfp/index.sqlite,
// opens the database, enables WAL mode, and ensures the version and snapshot tables exist.
// The returned *sql.DB is ready for use. Callers may close it when no longer needed.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .gfp dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .gfp dir: %w", err)
	}

	path := IndexPath(projectRoot)
	// SQLite URIs want forward slashes
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("index ready", slog.String("path", path))
	return db, nil
}

// ensureVersion records the schema and the writing app version in a single-row table.
func ensureVersion(ctx context.Context, db *sql.DB) error {
	const ddl = `CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// a fresh DB starts at the current schema
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// keep the stored schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// never downgrade
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			// v2 labels snapshots (autosave, manual, rebuild, ...) and records entity counts
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			var stmts []string
			for _, col := range []string{"label TEXT NOT NULL DEFAULT ''", "walls INTEGER NOT NULL DEFAULT 0"} {
				name := strings.Fields(col)[0]
				has, err := hasColumn(ctx, tx, "snapshots", name)
				if err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d: %w", next, err)
				}
				if !has {
					stmts = append(stmts, "ALTER TABLE snapshots ADD COLUMN "+col+";")
				}
			}
			stmts = append(stmts, `CREATE INDEX IF NOT EXISTS idx_snapshots_label ON snapshots(label);`)
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
		}
		cur = next
	}
	return nil
}

func hasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// ensureIndexSchema creates the snapshot tables if they do not exist.
// Tables created here already carry every column of schemaVersion; older files are upgraded by runMigrations.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	var exists int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='snapshots'`).Scan(&exists); err != nil {
		return fmt.Errorf("ensure index schema: %w", err)
	}
	var ddl []string
	if exists == 0 {
		ddl = append(ddl,
			`CREATE TABLE snapshots (
				id        INTEGER PRIMARY KEY,
				ts        TEXT    NOT NULL,
				plan_blob BLOB    NOT NULL,
				label     TEXT    NOT NULL DEFAULT '',
				walls     INTEGER NOT NULL DEFAULT 0
			);`,
			`CREATE INDEX IF NOT EXISTS idx_snapshots_label ON snapshots(label);`,
		)
	}
	ddl = append(ddl, `CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts);`)
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	return nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds the index if needed.
// A rebuilt index starts with one snapshot of the project's current plan.
// It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, ph *ProjectHandle) (bool, error) {
	if ph == nil {
		return false, errors.New("nil ProjectHandle")
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "index_check")
	path := IndexPath(ph.Root)
	db, err := InitOrOpenIndex(ph.Root)
	if err == nil {
		healthy := true
		var chk string
		if qerr := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); qerr != nil || !strings.Contains(strings.ToLower(chk), "ok") {
			healthy = false
		}
		if healthy {
			if _, qerr := db.ExecContext(ctx, `SELECT 1 FROM snapshots LIMIT 1;`); qerr != nil {
				healthy = false
			}
		}
		_ = db.Close()
		if healthy {
			return false, nil
		}
	}
	l.Warn("index unusable, rebuilding", slog.String("path", path), slog.Any("open_err", err))
	backupIndexFile(path)
	removeIndexFiles(path)
	if err := rebuildIndex(ctx, ph); err != nil {
		return false, fmt.Errorf("rebuild index: %w", err)
	}
	return true, nil
}

func rebuildIndex(ctx context.Context, ph *ProjectHandle) error {
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	_ = db.Close()
	if ph.Doc == nil {
		return nil
	}
	blob, err := ph.Doc.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	return SaveSnapshot(ctx, ph, LabelRebuild, blob, time.Now())
}

// backupIndexFile copies the current index file into a timestamped backup in .gfp/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

func removeIndexFiles(indexPath string) {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		_ = os.Remove(indexPath + suffix)
	}
}
