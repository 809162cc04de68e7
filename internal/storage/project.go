/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	applog "gofloorplan/internal/log"
	"gofloorplan/internal/plan"
)

const (
	ManifestFileName = "plan.json"
	BackupsDirName   = "backups"
	ExportsDirName   = "exports"

	backupStamp = "20060102-150405.000"
)

var standardSubDirs = []string{
	ExportsDirName,
	BackupsDirName,
}

//go:embed manifest.schema.json
var manifestSchemaJSON []byte

var (
	manifestSchemaOnce sync.Once
	manifestSchema     *gojsonschema.Schema
	manifestSchemaErr  error
)

// ManifestSchemaJSON returns the JSON schema of the manifest envelope.
func ManifestSchemaJSON() []byte { return manifestSchemaJSON }

// manifest is the on-disk envelope around the serialized plan.
type manifest struct {
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Plan      json.RawMessage `json:"plan"`
}

// ProjectHandle keeps track of the project state loaded/saved from disk.
// Root is the project directory containing plan.json and subfolders.
// Doc is the live plan document; its current data is what Save writes.
type ProjectHandle struct {
	Root         string
	ManifestPath string
	Name         string
	CreatedAt    time.Time
	Doc          *plan.Document
}

func logger(op string) *slog.Logger {
	return applog.WithOperation(applog.WithComponent("storage"), op)
}

// InitProject creates a new project directory at root (creating it if it doesn't exist),
// scaffolds the standard subfolders, writes an empty plan transactionally and initializes the index.
func InitProject(root, name string, opts ...plan.Option) (*ProjectHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := scaffold(root); err != nil {
		return nil, err
	}
	ph := &ProjectHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Name:         strings.TrimSpace(name),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
		Doc:          plan.New(opts...),
	}
	if err := Save(ph); err != nil {
		return nil, err
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		return nil, err
	}
	_ = db.Close()
	applog.WithPlan(logger("init"), ph.Name).Info("project created", slog.String("root", root))
	return ph, nil
}

// Open loads an existing project from the given root directory.
// If the current manifest cannot be read, parsed or validated, the latest backup is used instead.
func Open(root string, opts ...plan.Option) (*ProjectHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	ph := &ProjectHandle{Root: root, ManifestPath: mpath}
	b, err := os.ReadFile(mpath)
	if err == nil {
		err = decodeInto(ph, b, opts)
	}
	if err != nil {
		logger("open").Warn("manifest unusable, trying backups", slog.String("root", root), slog.Any("err", err))
		if berr := openFromLatestBackup(ph, opts); berr != nil {
			return nil, fmt.Errorf("open manifest: %w; backup attempt: %v", err, berr)
		}
	}
	return ph, nil
}

// Save writes the handle's plan to disk with transactional semantics
// and a timestamped backup of the previous manifest (if present).
func Save(ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if ph.Root == "" || ph.ManifestPath == "" {
		return errors.New("invalid ProjectHandle: missing paths")
	}
	data, err := encode(ph)
	if err != nil {
		return err
	}

	bdir := filepath.Join(ph.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	if _, statErr := os.Stat(ph.ManifestPath); statErr == nil {
		bname := fmt.Sprintf("%s.%s.bak", ManifestFileName, time.Now().Format(backupStamp))
		if cerr := copyFile(ph.ManifestPath, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current manifest: %w", cerr)
		}
	}

	// write to a temp file in the same directory, then rename over the target
	dir := filepath.Dir(ph.ManifestPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp manifest: %w", werr)
	}
	// Windows cannot rename over an existing file
	if _, err := os.Stat(ph.ManifestPath); err == nil {
		_ = os.Remove(ph.ManifestPath)
	}
	if rerr := os.Rename(temp, ph.ManifestPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace manifest: %w", rerr)
	}
	logger("save").Debug("manifest written", slog.String("path", ph.ManifestPath), slog.Int("bytes", len(data)))
	return nil
}

// SaveAs writes the manifest to a new root folder, scaffolding structure if needed, and updates the handle.
func SaveAs(ph *ProjectHandle, newRoot string) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := scaffold(newRoot); err != nil {
		return err
	}
	ph.Root = newRoot
	ph.ManifestPath = filepath.Join(newRoot, ManifestFileName)
	return Save(ph)
}

// AutosaveCrashSnapshot writes the current plan next to the backups without touching the manifest.
// It returns the path of the written file.
func AutosaveCrashSnapshot(ph *ProjectHandle) (string, error) {
	if ph == nil || ph.Root == "" {
		return "", errors.New("invalid ProjectHandle")
	}
	data, err := encode(ph)
	if err != nil {
		return "", err
	}
	bdir := filepath.Join(ph.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	path := filepath.Join(bdir, fmt.Sprintf("%s.crash-%s.autosave", ManifestFileName, time.Now().Format(backupStamp)))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return path, nil
}

// ExportsDir is where exported drawings of the project go.
func ExportsDir(ph *ProjectHandle) string { return filepath.Join(ph.Root, ExportsDirName) }

// PruneBackups keeps the newest keepLast manifest backups and removes the rest.
func PruneBackups(root string, keepLast int) (int, error) {
	if keepLast <= 0 {
		return 0, nil
	}
	candidates, err := listBackups(root)
	if err != nil {
		return 0, err
	}
	if len(candidates) <= keepLast {
		return 0, nil
	}
	n := 0
	for _, p := range candidates[:len(candidates)-keepLast] {
		if err := os.Remove(p); err != nil {
			return n, fmt.Errorf("remove backup: %w", err)
		}
		n++
	}
	return n, nil
}

// ValidateManifest checks b against the manifest envelope schema and the plan schema.
func ValidateManifest(b []byte) error {
	manifestSchemaOnce.Do(func() {
		manifestSchema, manifestSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(manifestSchemaJSON))
	})
	if manifestSchemaErr != nil {
		return fmt.Errorf("compile manifest schema: %w", manifestSchemaErr)
	}
	res, err := manifestSchema.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return fmt.Errorf("%w: %v", plan.ErrInvalidPlan, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", plan.ErrInvalidPlan, strings.Join(msgs, "; "))
	}
	return nil
}

func scaffold(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	return nil
}

func encode(ph *ProjectHandle) ([]byte, error) {
	if ph.Doc == nil {
		ph.Doc = plan.New()
	}
	pj, err := ph.Doc.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	data, err := json.MarshalIndent(manifest{Name: ph.Name, CreatedAt: ph.CreatedAt, Plan: pj}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// decodeInto validates b and loads it into ph; ph is left unchanged on error.
func decodeInto(ph *ProjectHandle, b []byte, opts []plan.Option) error {
	if err := ValidateManifest(b); err != nil {
		return err
	}
	var m manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	doc := plan.New(opts...)
	if err := doc.LoadJSON(m.Plan); err != nil {
		return err
	}
	ph.Name, ph.CreatedAt, ph.Doc = m.Name, m.CreatedAt, doc
	return nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

// listBackups returns the manifest backups oldest first.
func listBackups(root string) ([]string, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var out []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(bdir, name))
		}
	}
	sort.Strings(out) // timestamp in name yields lexicographic order
	return out, nil
}

// openFromLatestBackup loads the newest backup that still decodes.
func openFromLatestBackup(ph *ProjectHandle, opts []plan.Option) error {
	candidates, err := listBackups(ph.Root)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return errors.New("no backups found")
	}
	var lastErr error
	for i := len(candidates) - 1; i >= 0; i-- {
		b, err := os.ReadFile(candidates[i])
		if err != nil {
			lastErr = fmt.Errorf("read backup: %w", err)
			continue
		}
		if err := decodeInto(ph, b, opts); err != nil {
			lastErr = fmt.Errorf("parse backup %s: %w", filepath.Base(candidates[i]), err)
			continue
		}
		logger("open").Info("restored from backup", slog.String("backup", candidates[i]))
		return nil
	}
	return lastErr
}
