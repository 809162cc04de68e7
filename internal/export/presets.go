/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gofloorplan/internal/plan"
	"gofloorplan/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across formats.
//
// Path semantics:
//   - If OutDir is empty or relative, it is created under <project>/exports/<preset>/.
//   - Each format writes <name>.<format> into OutDir, where name is the project name or "plan".
type BatchOptions struct {
	Preset  PresetName
	Formats []string // pdf, svg, png; empty means preset defaults
	// Options overrides the preset's drawing options when PxPerCm is set.
	Options Options
	OutDir  string
}

// ExportFile writes d to path in the format named by the path's extension.
func ExportFile(d *plan.Data, path string, opt Options) error {
	switch f := FormatOf(path); f {
	case "pdf":
		return ExportPDF(d, path, opt)
	case "png":
		return ExportPNG(d, path, opt)
	case "svg":
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("ensure out dir: %w", err)
			}
		}
		fh, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create svg: %w", err)
		}
		if err := ExportSVG(d, fh, opt); err != nil {
			_ = fh.Close()
			return err
		}
		return fh.Close()
	default:
		return fmt.Errorf("unknown format: %q", f)
	}
}

// FormatOf returns the lower-case extension of path without the dot.
func FormatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// BatchExport runs exports according to the given preset and returns the written paths.
func BatchExport(ph *storage.ProjectHandle, opt BatchOptions) ([]string, error) {
	if ph == nil || ph.Doc == nil {
		return nil, fmt.Errorf("project handle is nil")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	drawOpt := presetOptions(opt.Preset)
	if opt.Options.PxPerCm > 0 {
		drawOpt = opt.Options
	}
	if drawOpt.Title == "" {
		drawOpt.Title = ph.Name
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(storage.ExportsDir(ph), baseOut)
	}
	name := fileStem(ph.Name)

	var written []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		out := filepath.Join(baseOut, name+"."+f)
		if err := ExportFile(ph.Doc.Data(), out, drawOpt); err != nil {
			return written, fmt.Errorf("%s export: %w", f, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"svg", "png"}
	case PresetPrint:
		return []string{"pdf"}
	default:
		return []string{"pdf"}
	}
}

func presetOptions(p PresetName) Options {
	o := DefaultOptions()
	switch p {
	case PresetWeb:
		o.PxPerCm = 2
		o.Dimensions = false
	case PresetPrint:
		// 1 cm on the plan is 1 pt on paper
		o.PxPerCm = 1
		o.Dimensions = true
	}
	return o
}

// fileStem turns a project name into a safe file name.
func fileStem(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "plan"
	}
	return b.String()
}
