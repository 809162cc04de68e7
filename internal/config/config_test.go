/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
)

func init() {
	// never touch the real OS keychain from tests
	keyring.MockInit()
}

func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, path)
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	isolate(t)
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor != Defaults().Editor {
		t.Fatalf("editor = %#v, want defaults", cfg.Editor)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := isolate(t)
	if err := os.WriteFile(path, []byte("editor: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Editor.SnapRadiusCm = 35
	cfg.Editor.Ortho = true
	cfg.Backend.DSN = "postgres://plans@db.internal/plans"
	if err := Save(cfg, "s3cret"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, pw, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Editor.SnapRadiusCm != 35 || !got.Editor.Ortho {
		t.Fatalf("editor not persisted: %#v", got.Editor)
	}
	if got.Backend.DSN != cfg.Backend.DSN {
		t.Fatalf("Backend.DSN = %q, want %q", got.Backend.DSN, cfg.Backend.DSN)
	}
	if pw != "s3cret" {
		t.Fatalf("password = %q, want keyring value", pw)
	}
	if err := ClearBackendPassword(); err != nil {
		t.Fatalf("ClearBackendPassword() error: %v", err)
	}
	if _, err := BackendPassword(); err != ErrNoSecret {
		t.Fatalf("BackendPassword() after clear = %v, want ErrNoSecret", err)
	}
}

func TestPasswordEnvWinsOverKeyring(t *testing.T) {
	isolate(t)
	if err := SetBackendPassword("from-keyring"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ClearBackendPassword() })
	t.Setenv(EnvBackendPassword, "from-env")
	_, pw, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if pw != "from-env" {
		t.Fatalf("password = %q, want from-env", pw)
	}
}

func TestEnvOverridesEditor(t *testing.T) {
	isolate(t)
	t.Setenv(EnvSnapRadius, "42.5")
	t.Setenv(EnvGrid, "0")
	t.Setenv(EnvOrtho, "yes")
	t.Setenv(EnvUndoMaxDepth, "-3")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.SnapRadiusCm != 42.5 || cfg.Editor.GridCm != 0 || !cfg.Editor.Ortho {
		t.Fatalf("env overrides not applied: %#v", cfg.Editor)
	}
	if cfg.Editor.UndoMaxDepth != 50 {
		t.Fatalf("invalid undo depth override applied: %d", cfg.Editor.UndoMaxDepth)
	}
	if env, ok := EnvOverrideFor("editor.ortho"); !ok || env != EnvOrtho {
		t.Fatalf("EnvOverrideFor(editor.ortho) = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("export.format"); ok {
		t.Fatalf("export.format reported as overridden")
	}
}

func TestMergeKeepsDefaultsForZeroValues(t *testing.T) {
	dst := Defaults()
	var src AppConfig
	src.Editor.WallHeightCm = 260
	mergeInto(&dst, &src)
	if dst.Editor.WallHeightCm != 260 {
		t.Fatalf("WallHeightCm = %v, want 260", dst.Editor.WallHeightCm)
	}
	if dst.Editor.SnapRadiusCm != 20 || dst.Storage.SnapshotKeepLast != 50 || dst.Export.Format != "pdf" {
		t.Fatalf("zero values overwrote defaults: %#v", dst)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/gfp.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/gfp.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/gfp.log")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/gfp.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEffectiveDurations(t *testing.T) {
	if got := (BackendConfig{}).EffectiveTimeout(); got != 15*time.Second {
		t.Fatalf("EffectiveTimeout() = %v", got)
	}
	if got := (StorageConfig{AutosaveMinIntMs: 250}).AutosaveMinInterval(); got != 250*time.Millisecond {
		t.Fatalf("AutosaveMinInterval() = %v", got)
	}
}
