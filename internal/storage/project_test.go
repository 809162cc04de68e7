/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gofloorplan/internal/geom"
	"gofloorplan/internal/plan"
)

// addWall submits one straight wall with two fresh vertices.
func addWall(t *testing.T, doc *plan.Document, ax, ay, bx, by float64) plan.Wall {
	t.Helper()
	a := plan.Vertex{ID: plan.NewID(), Position: geom.V(ax, ay)}
	b := plan.Vertex{ID: plan.NewID(), Position: geom.V(bx, by)}
	w := plan.DefaultWall(a.ID, b.ID)
	if !doc.Submit(plan.Macro("Add Wall", plan.AddOrUpdateVertex(a), plan.AddOrUpdateVertex(b), plan.AddOrUpdateWall(w))) {
		t.Fatalf("seed wall rejected")
	}
	return w
}

func readManifest(t *testing.T, path string) manifest {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	return m
}

func TestInitProjectCreatesStructureAndManifest(t *testing.T) {
	root := t.TempDir()

	ph, err := InitProject(root, "Test Plan")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	if ph == nil || ph.Doc == nil {
		t.Fatalf("InitProject returned incomplete handle: %+v", ph)
	}
	if ph.ManifestPath != filepath.Join(root, ManifestFileName) {
		t.Fatalf("ManifestPath = %q", ph.ManifestPath)
	}
	m := readManifest(t, ph.ManifestPath)
	if m.Name != "Test Plan" {
		t.Fatalf("manifest name mismatch: got %q", m.Name)
	}
	if m.CreatedAt.IsZero() {
		t.Fatalf("created_at not set")
	}
	if _, err := plan.Unmarshal(m.Plan); err != nil {
		t.Fatalf("embedded plan invalid: %v", err)
	}

	for _, d := range []string{ExportsDirName, BackupsDirName, IndexDirName} {
		p := filepath.Join(root, d)
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			t.Fatalf("expected directory %s to exist", p)
		}
	}
	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index missing: %v", err)
	}
	if _, err := InitProject("  ", "x"); err == nil {
		t.Fatalf("expected error for blank root")
	}
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Round Trip")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	w := addWall(t, ph.Doc, 0, 0, 300, 0)
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	opened, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if opened.Name != "Round Trip" || !opened.CreatedAt.Equal(ph.CreatedAt) {
		t.Fatalf("envelope mismatch: %q %v", opened.Name, opened.CreatedAt)
	}
	got, ok := opened.Doc.Data().Walls[w.ID]
	if !ok {
		t.Fatalf("wall %s missing after reopen", w.ID)
	}
	if got.ThicknessCm != w.ThicknessCm {
		t.Fatalf("thickness = %v, want %v", got.ThicknessCm, w.ThicknessCm)
	}
	if opened.Doc.CanUndo() {
		t.Fatalf("a freshly opened plan has no history")
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Backup Test")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}

	addWall(t, ph.Doc, 0, 0, 100, 0)
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	backups, err := listBackups(root)
	if err != nil {
		t.Fatalf("listBackups: %v", err)
	}
	if len(backups) == 0 {
		t.Fatalf("expected at least one backup file, found 0")
	}
	for _, b := range backups {
		name := filepath.Base(b)
		if !strings.HasPrefix(name, ManifestFileName+".") || !strings.HasSuffix(name, ".bak") {
			t.Fatalf("unexpected backup name %q", name)
		}
	}
}

func TestOpenFallsBackToLatestBackupOnCorruption(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Open From Backup")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}

	// the second save backs up the first manifest
	addWall(t, ph.Doc, 0, 0, 100, 0)
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if err := os.WriteFile(ph.ManifestPath, []byte("{ this is not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}

	opened, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if opened.Name != "Open From Backup" {
		t.Fatalf("opened project name mismatch: got %q", opened.Name)
	}
}

func TestOpenRejectsSchemaViolationWithoutBackup(t *testing.T) {
	root := t.TempDir()
	bad := `{"name": "x", "created_at": "2025-01-01T00:00:00Z", "plan": {"version": 1, "vertices": {}, "walls": {"nope": {}}}}`
	if err := os.WriteFile(filepath.Join(root, ManifestFileName), []byte(bad), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := Open(root); err == nil {
		t.Fatalf("expected error for invalid plan without backups")
	}
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Crash Snapshot")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	addWall(t, ph.Doc, 0, 0, 50, 50)
	before, _ := os.ReadFile(ph.ManifestPath)

	path, err := AutosaveCrashSnapshot(ph)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(root, BackupsDirName) {
		t.Fatalf("snapshot written to %s", path)
	}
	m := readManifest(t, path)
	if m.Name != "Crash Snapshot" {
		t.Fatalf("snapshot content mismatch: got %q", m.Name)
	}
	d, err := plan.Unmarshal(m.Plan)
	if err != nil || len(d.Walls) != 1 {
		t.Fatalf("snapshot plan: walls=%v err=%v", d, err)
	}
	after, _ := os.ReadFile(ph.ManifestPath)
	if string(before) != string(after) {
		t.Fatalf("crash snapshot must not touch the manifest")
	}
	if _, err := AutosaveCrashSnapshot(nil); err == nil {
		t.Fatalf("expected error for nil handle")
	}
}
