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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

// EditorConfig holds the drawing and editing parameters.
type EditorConfig struct {
	UndoMaxDepth    int     `yaml:"undo_max_depth"`
	SnapRadiusCm    float64 `yaml:"snap_radius_cm"`
	GridCm          float64 `yaml:"grid_cm"`
	DragThresholdPx float64 `yaml:"drag_threshold_px"`
	HitToleranceCm  float64 `yaml:"hit_tolerance_cm"`
	FencePaddingCm  float64 `yaml:"fence_padding_cm"`
	WallThicknessCm float64 `yaml:"wall_thickness_cm"`
	WallHeightCm    float64 `yaml:"wall_height_cm"`
	Ortho           bool    `yaml:"ortho"`
}

type StorageConfig struct {
	SnapshotKeepLast int `yaml:"snapshot_keep_last"`
	AutosaveMinIntMs int `yaml:"autosave_min_interval_ms"`
	BackupKeepLast   int `yaml:"backup_keep_last"`
}

type ExportConfig struct {
	Format     string  `yaml:"format"`    // pdf | svg | png
	PxPerCm    float64 `yaml:"px_per_cm"` // raster and vector scale
	MarginPx   float64 `yaml:"margin_px"`
	Dimensions bool    `yaml:"dimensions"` // draw wall length labels
}

type BackendConfig struct {
	DSN       string `yaml:"dsn"`
	TimeoutMs int    `yaml:"timeout_ms"`
	// The password is not stored on disk; it lives in the OS keychain.
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Storage       StorageConfig `yaml:"storage"`
	Export        ExportConfig  `yaml:"export"`
	Backend       BackendConfig `yaml:"backend"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor: EditorConfig{
			UndoMaxDepth:    50,
			SnapRadiusCm:    20,
			GridCm:          10,
			DragThresholdPx: 5,
			HitToleranceCm:  20,
			FencePaddingCm:  10,
			WallThicknessCm: 20,
			WallHeightCm:    300,
		},
		Storage: StorageConfig{SnapshotKeepLast: 50, AutosaveMinIntMs: 2000, BackupKeepLast: 10},
		Export:  ExportConfig{Format: "pdf", PxPerCm: 1, MarginPx: 40, Dimensions: true},
		Backend: BackendConfig{DSN: "", TimeoutMs: 15000},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath       = "GFP_CONFIG"
	EnvUndoMaxDepth     = "GFP_UNDO_MAX_DEPTH"
	EnvSnapRadius       = "GFP_SNAP_RADIUS_CM"
	EnvGrid             = "GFP_GRID_CM"
	EnvOrtho            = "GFP_ORTHO"
	EnvExportFormat     = "GFP_EXPORT_FORMAT"
	EnvBackendDSN       = "GFP_PG_DSN"
	EnvBackendTimeoutMs = "GFP_PG_TIMEOUT_MS"
	EnvBackendPassword  = "GFP_PG_PASSWORD"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GFP_LOG_LEVEL"
	EnvLogFormat = "GFP_LOG_FORMAT"
	EnvLogSource = "GFP_LOG_SOURCE"
	EnvLogFile   = "GFP_LOG_FILE"
)

// ConfigPath returns the per-user config file path. GFP_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoFloorplan")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoFloorplan")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "gofloorplan")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// The backend password comes from GFP_PG_PASSWORD or the keyring and is returned separately.
func Load() (AppConfig, string, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), "", err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path. A missing file yields the defaults;
// a malformed one is reported.
func LoadFrom(path string) (AppConfig, string, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, "", fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, "", fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	pw := os.Getenv(EnvBackendPassword)
	if pw == "" {
		pw, _ = BackendPassword()
	}
	return cfg, pw, nil
}

// Save writes the user config YAML and persists the password into the OS keyring (if non-empty).
func Save(cfg AppConfig, password string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg, password)
}

// SaveTo is Save with an explicit file path.
func SaveTo(path string, cfg AppConfig, password string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if password != "" {
		if err := SetBackendPassword(password); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// editor: zero means "not set" for numbers
	e, s := &dst.Editor, &src.Editor
	if s.UndoMaxDepth > 0 {
		e.UndoMaxDepth = s.UndoMaxDepth
	}
	setPositive(&e.SnapRadiusCm, s.SnapRadiusCm)
	setPositive(&e.GridCm, s.GridCm)
	setPositive(&e.DragThresholdPx, s.DragThresholdPx)
	setPositive(&e.HitToleranceCm, s.HitToleranceCm)
	setPositive(&e.FencePaddingCm, s.FencePaddingCm)
	setPositive(&e.WallThicknessCm, s.WallThicknessCm)
	setPositive(&e.WallHeightCm, s.WallHeightCm)
	// booleans: copy directly from src (file) so user preferences persist
	e.Ortho = s.Ortho
	// storage
	if src.Storage.SnapshotKeepLast > 0 {
		dst.Storage.SnapshotKeepLast = src.Storage.SnapshotKeepLast
	}
	if src.Storage.AutosaveMinIntMs > 0 {
		dst.Storage.AutosaveMinIntMs = src.Storage.AutosaveMinIntMs
	}
	if src.Storage.BackupKeepLast > 0 {
		dst.Storage.BackupKeepLast = src.Storage.BackupKeepLast
	}
	// export
	if f := strings.ToLower(strings.TrimSpace(src.Export.Format)); f != "" {
		dst.Export.Format = f
	}
	setPositive(&dst.Export.PxPerCm, src.Export.PxPerCm)
	setPositive(&dst.Export.MarginPx, src.Export.MarginPx)
	dst.Export.Dimensions = src.Export.Dimensions
	// backend
	if strings.TrimSpace(src.Backend.DSN) != "" {
		dst.Backend.DSN = strings.TrimSpace(src.Backend.DSN)
	}
	if src.Backend.TimeoutMs != 0 {
		dst.Backend.TimeoutMs = src.Backend.TimeoutMs
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func setPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvUndoMaxDepth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.UndoMaxDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapRadius)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			setPositive(&cfg.Editor.SnapRadiusCm, f)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvGrid)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Editor.GridCm = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvOrtho)); v != "" {
		cfg.Editor.Ortho = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportFormat)); v != "" {
		cfg.Export.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendDSN)); v != "" {
		cfg.Backend.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TimeoutMs = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"editor.undo_max_depth": EnvUndoMaxDepth,
		"editor.snap_radius_cm": EnvSnapRadius,
		"editor.grid_cm":        EnvGrid,
		"editor.ortho":          EnvOrtho,
		"export.format":         EnvExportFormat,
		"backend.dsn":           EnvBackendDSN,
		"backend.timeout_ms":    EnvBackendTimeoutMs,
		"logging.level":         EnvLogLevel,
		"logging.format":        EnvLogFormat,
		"logging.source":        EnvLogSource,
		"logging.file":          EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// EffectiveTimeout returns the backend timeout, falling back to the default for non-positive values.
func (b BackendConfig) EffectiveTimeout() time.Duration {
	if b.TimeoutMs <= 0 {
		return time.Duration(Defaults().Backend.TimeoutMs) * time.Millisecond
	}
	return time.Duration(b.TimeoutMs) * time.Millisecond
}

// AutosaveMinInterval is the coalescing window for autosave snapshots.
func (s StorageConfig) AutosaveMinInterval() time.Duration {
	if s.AutosaveMinIntMs <= 0 {
		return time.Duration(Defaults().Storage.AutosaveMinIntMs) * time.Millisecond
	}
	return time.Duration(s.AutosaveMinIntMs) * time.Millisecond
}
