/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package backend stores named plans in a shared Postgres archive.
// Every push bumps the plan's version and keeps the previous states in plan_versions.
package backend

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	applog "gofloorplan/internal/log"
	"gofloorplan/internal/plan"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrPlanNotFound is returned when no plan (or plan version) exists under the requested name.
var ErrPlanNotFound = errors.New("plan not found")

// Store is a handle on the archive database.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// PlanInfo describes the head version of an archived plan.
type PlanInfo struct {
	Name      string
	Version   int64
	Walls     int
	UpdatedAt time.Time
}

// Open connects to dsn, applies pending migrations and returns the store.
// A non-empty password overrides the one in the DSN.
func Open(ctx context.Context, dsn, password string) (*Store, error) {
	l := applog.WithComponent("backend")
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if password != "" {
		cfg.Password = password
	}
	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := applyMigrations(ctx, db, l); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	l.Debug("backend ready", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return &Store{db: db, log: l}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// dialect=PostgreSQL
const upsertPlanSQL = `INSERT INTO plans(name, version, walls, plan, updated_at)
VALUES ($1, 1, $2, $3::jsonb, now())
ON CONFLICT (name) DO UPDATE
SET version = plans.version + 1, walls = EXCLUDED.walls, plan = EXCLUDED.plan, updated_at = now()
RETURNING version`

// dialect=PostgreSQL
const insertVersionSQL = `INSERT INTO plan_versions(name, version, plan) VALUES ($1, $2, $3::jsonb)`

// PutPlan validates planJSON and stores it as the next version of name.
func (s *Store) PutPlan(ctx context.Context, name string, planJSON []byte) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("plan name is required")
	}
	d, err := plan.Unmarshal(planJSON)
	if err != nil {
		return 0, fmt.Errorf("put %s: %w", name, err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	var ver int64
	if err := tx.QueryRowContext(ctx, upsertPlanSQL, name, len(d.Walls), string(planJSON)).Scan(&ver); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("upsert plan: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertVersionSQL, name, ver, string(planJSON)); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	applog.WithPlan(s.log, name).Info("plan pushed", slog.Int64("version", ver), slog.Int("walls", len(d.Walls)))
	return ver, nil
}

// GetPlan returns the head version of name.
func (s *Store) GetPlan(ctx context.Context, name string) ([]byte, int64, error) {
	var raw string
	var ver int64
	err := s.db.QueryRowContext(ctx, `SELECT plan::text, version FROM plans WHERE name=$1`, name).Scan(&raw, &ver)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("%s: %w", name, ErrPlanNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("get plan: %w", err)
	}
	return []byte(raw), ver, nil
}

// GetPlanVersion returns one stored version of name.
func (s *Store) GetPlanVersion(ctx context.Context, name string, version int64) ([]byte, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT plan::text FROM plan_versions WHERE name=$1 AND version=$2`, name, version).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s@%d: %w", name, version, ErrPlanNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan version: %w", err)
	}
	return []byte(raw), nil
}

// ListPlans returns all archived plans ordered by name.
func (s *Store) ListPlans(ctx context.Context) ([]PlanInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, version, walls, updated_at FROM plans ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []PlanInfo
	for rows.Next() {
		var p PlanInfo
		if err := rows.Scan(&p.Name, &p.Version, &p.Walls, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// applyMigrations applies embedded SQL migrations in filename order and records each one.
func applyMigrations(ctx context.Context, db *sql.DB, l *slog.Logger) error {
	files, err := migrationFiles()
	if err != nil {
		return err
	}

	// dialect=PostgreSQL
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied := map[int64]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("select schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return err
		}
		applied[v] = true
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, fname := range files {
		version, err := parseVersion(fname)
		if err != nil {
			return err
		}
		if applied[version] {
			continue
		}
		b, err := migrationsFS.ReadFile(path.Join("migrations", fname))
		if err != nil {
			return err
		}
		l.Info("applying migration", slog.String("file", fname))
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(b)) != "" {
			if _, err := tx.ExecContext(ctx, string(b)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("apply %s: %w", fname, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version, name) VALUES($1, $2)`, version, fname); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", fname, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", fname, err)
		}
	}
	return nil
}

func migrationFiles() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := e.Name(); strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

func parseVersion(name string) (int64, error) {
	base := path.Base(name)
	parts := strings.SplitN(base, "_", 2)
	if len(parts) < 2 {
		return 0, errors.New("invalid migration filename: " + name)
	}
	v, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse version from %s: %w", name, err)
	}
	return v, nil
}
