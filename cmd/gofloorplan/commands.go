/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gofloorplan/internal/backend"
	"gofloorplan/internal/export"
	"gofloorplan/internal/geom"
	applog "gofloorplan/internal/log"
	"gofloorplan/internal/plan"
	"gofloorplan/internal/storage"
	"gofloorplan/internal/tools"
	"gofloorplan/internal/trim"
	"gofloorplan/internal/version"
)

type command struct {
	minArgs int
	argHelp string
	fn      func(a *app, args []string) error
}

var commands = map[string]command{
	"version":   {0, "", cmdVersion},
	"--version": {0, "", cmdVersion},
	"-v":        {0, "", cmdVersion},
	"init":      {2, "<dir> and <name>", cmdInit},
	"open":      {1, "<dir>", cmdOpen},
	"validate":  {1, "<dir>", cmdValidate},
	"check":     {1, "<dir>", cmdCheck},
	"wall":      {5, "<dir> and at least two points", cmdWall},
	"trim":      {3, "<dir> <x> <y>", cmdTrim},
	"fence":     {5, "<dir> x1 y1 x2 y2", cmdFence},
	"arc":       {7, "<dir> and three points", cmdArc},
	"opening":   {4, "<dir> <door|window> <x> <y>", cmdOpening},
	"place":     {4, "<dir> <product> <x> <y>", cmdPlace},
	"run":       {6, "<dir> <product> x1 y1 x2 y2", cmdRun},
	"delete":    {3, "<dir> <x> <y>", cmdDelete},
	"export":    {2, "<dir> and <out>", cmdExport},
	"batch":     {2, "<dir> and <web|print>", cmdBatch},
	"snapshot":  {1, "<dir>", cmdSnapshot},
	"snapshots": {1, "<dir>", cmdSnapshots},
	"restore":   {1, "<dir>", cmdRestore},
	"push":      {1, "<dir>", cmdPush},
	"pull":      {2, "<dir> and <name>", cmdPull},
}

func cmdVersion(a *app, _ []string) error {
	fmt.Fprintln(a.out, "GoFloorplan")
	fmt.Fprintln(a.out, version.String())
	return nil
}

func cmdInit(a *app, args []string) error {
	abs, _ := filepath.Abs(args[0])
	a.log.Info("init project", slog.String("root", abs), slog.String("name", args[1]))
	h, err := storage.InitProject(abs, args[1], a.planOptions()...)
	if err != nil {
		return err
	}
	a.ph = h
	fmt.Fprintln(a.out, "Created project at", abs)
	return nil
}

func cmdOpen(a *app, args []string) error {
	h, err := a.open(args[0])
	if err != nil {
		return err
	}
	c := h.Doc.Data().Counts()
	fmt.Fprintf(a.out, "Opened project: %s\n", h.Name)
	fmt.Fprintf(a.out, "Vertices: %d  Walls: %d  Openings: %d  Objects: %d  Runs: %d\n", c.Vertices, c.Walls, c.Openings, c.Objects, c.Runs)
	fmt.Fprintln(a.out, "Root:", h.Root)
	return nil
}

func cmdValidate(a *app, args []string) error {
	abs, _ := filepath.Abs(args[0])
	b, err := os.ReadFile(filepath.Join(abs, storage.ManifestFileName))
	if err != nil {
		return err
	}
	if err := storage.ValidateManifest(b); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "plan.json is valid")
	return nil
}

func cmdCheck(a *app, args []string) error {
	h, err := a.open(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Backend.EffectiveTimeout())
	defer cancel()
	rebuilt, err := storage.DetectAndRebuildIndex(ctx, h)
	if err != nil {
		return err
	}
	removed, err := storage.PruneBackups(h.Root, a.cfg.Storage.BackupKeepLast)
	if err != nil {
		return err
	}
	if rebuilt {
		fmt.Fprintln(a.out, "Index was damaged and has been rebuilt")
	} else {
		fmt.Fprintln(a.out, "Index OK")
	}
	fmt.Fprintf(a.out, "Pruned %d old backups\n", removed)
	return nil
}

func cmdWall(a *app, args []string) error {
	pts, err := parsePoints(args[1:])
	if err != nil {
		return err
	}
	if len(pts) < 2 {
		return errors.New("wall needs at least two points")
	}
	return a.edit(args[0], tools.NewLineTool(), func(m *tools.Manager) error {
		before := len(m.Document().Data().Walls)
		for _, p := range pts {
			m.Dispatch(tools.PointerEvent{Action: tools.ActionDown, Screen: p, World: p})
		}
		m.Dispatch(tools.PointerEvent{Action: tools.ActionConfirm})
		added := len(m.Document().Data().Walls) - before
		fmt.Fprintf(a.out, "Added %d walls\n", added)
		return nil
	})
}

func cmdTrim(a *app, args []string) error {
	pts, err := parsePoints(args[1:3])
	if err != nil {
		return err
	}
	p := pts[0]
	return a.edit(args[0], trim.NewTool(), func(m *tools.Manager) error {
		depth := m.Document().UndoDepth()
		click(m, p)
		if m.Document().UndoDepth() == depth {
			return fmt.Errorf("nothing to trim at %v", p)
		}
		fmt.Fprintln(a.out, "Trimmed wall at", p)
		return nil
	})
}

func cmdFence(a *app, args []string) error {
	pts, err := parsePoints(args[1:5])
	if err != nil {
		return err
	}
	start, end := pts[0], pts[1]
	return a.edit(args[0], trim.NewTool(), func(m *tools.Manager) error {
		before := m.Document().UndoDepth()
		m.Dispatch(tools.PointerEvent{Action: tools.ActionDown, Screen: start, World: start})
		m.Dispatch(tools.PointerEvent{Action: tools.ActionMove, Screen: end, World: end})
		m.Dispatch(tools.PointerEvent{Action: tools.ActionUp, Screen: end, World: end})
		fmt.Fprintf(a.out, "Trimmed %d walls\n", m.Document().UndoDepth()-before)
		return nil
	})
}

func cmdArc(a *app, args []string) error {
	pts, err := parsePoints(args[1:7])
	if err != nil {
		return err
	}
	return a.edit(args[0], tools.NewArcTool(), func(m *tools.Manager) error {
		before := len(m.Document().Data().Walls)
		for _, p := range pts {
			m.Dispatch(tools.PointerEvent{Action: tools.ActionDown, Screen: p, World: p})
		}
		if len(m.Document().Data().Walls) == before {
			return errors.New("points do not form an arc")
		}
		fmt.Fprintln(a.out, "Added arc wall")
		return nil
	})
}

func cmdOpening(a *app, args []string) error {
	kind := plan.OpeningKind(args[1])
	if kind != plan.OpeningDoor && kind != plan.OpeningWindow {
		return fmt.Errorf("unknown opening kind %q", args[1])
	}
	pts, err := parsePoints(args[2:4])
	if err != nil {
		return err
	}
	ot := tools.NewOpeningTool()
	ot.SetKind(kind)
	if len(args) > 4 {
		width, err := strconv.ParseFloat(args[4], 64)
		if err != nil {
			return fmt.Errorf("width: %w", err)
		}
		ot.SetSize(width, 0)
	}
	return a.edit(args[0], ot, func(m *tools.Manager) error {
		click(m, pts[0])
		if ot.Last() == plan.NilID {
			return fmt.Errorf("no room for a %s at %v", kind, pts[0])
		}
		o := m.Document().Data().Openings[ot.Last()]
		fmt.Fprintf(a.out, "Added %s at offset %.1f cm\n", kind, o.OffsetCm)
		return nil
	})
}

func cmdPlace(a *app, args []string) error {
	pts, err := parsePoints(args[2:4])
	if err != nil {
		return err
	}
	pt := tools.NewPlaceTool()
	pt.SetProduct(args[1])
	if len(args) > 4 {
		deg, err := strconv.ParseFloat(args[4], 64)
		if err != nil {
			return fmt.Errorf("rotation: %w", err)
		}
		pt.SetRotation(deg)
	}
	return a.edit(args[0], pt, func(m *tools.Manager) error {
		click(m, pts[0])
		if pt.Last() == plan.NilID {
			return fmt.Errorf("could not place %s", args[1])
		}
		o := m.Document().Data().Objects[pt.Last()]
		loc := o.Transform.Location
		fmt.Fprintf(a.out, "Placed %s at (%.1f, %.1f)\n", o.ProductTypeID, loc.X, loc.Y)
		return nil
	})
}

func cmdRun(a *app, args []string) error {
	pts, err := parsePoints(args[2:6])
	if err != nil {
		return err
	}
	rt := tools.NewRunTool()
	rt.SetProduct(args[1])
	return a.edit(args[0], rt, func(m *tools.Manager) error {
		click(m, pts[0])
		click(m, pts[1])
		if rt.Last() == plan.NilID {
			return errors.New("both points must lie on the same wall")
		}
		r := m.Document().Data().Runs[rt.Last()]
		fmt.Fprintf(a.out, "Added cabinet run %.1f-%.1f cm\n", r.StartOffsetCm, r.EndOffsetCm)
		return nil
	})
}

func cmdDelete(a *app, args []string) error {
	pts, err := parsePoints(args[1:3])
	if err != nil {
		return err
	}
	st := tools.NewSelectTool()
	return a.edit(args[0], st, func(m *tools.Manager) error {
		click(m, pts[0])
		if !st.DeleteSelection() {
			return fmt.Errorf("nothing to delete at %v", pts[0])
		}
		fmt.Fprintln(a.out, "Deleted selection")
		return nil
	})
}

func click(m *tools.Manager, p geom.Vec2) {
	m.Dispatch(tools.PointerEvent{Action: tools.ActionDown, Screen: p, World: p})
	m.Dispatch(tools.PointerEvent{Action: tools.ActionUp, Screen: p, World: p})
}

func cmdExport(a *app, args []string) error {
	h, err := a.open(args[0])
	if err != nil {
		return err
	}
	opt := export.OptionsFromConfig(a.cfg.Export)
	opt.Title = h.Name
	out, _ := filepath.Abs(args[1])
	if export.FormatOf(out) == "" {
		out += "." + a.cfg.Export.Format
	}
	if err := export.ExportFile(h.Doc.Data(), out, opt); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Exported", out)
	return nil
}

func cmdBatch(a *app, args []string) error {
	h, err := a.open(args[0])
	if err != nil {
		return err
	}
	written, err := export.BatchExport(h, export.BatchOptions{Preset: export.PresetName(args[1])})
	for _, p := range written {
		fmt.Fprintln(a.out, "Exported", p)
	}
	return err
}

func cmdSnapshot(a *app, args []string) error {
	h, err := a.open(args[0])
	if err != nil {
		return err
	}
	blob, err := h.Doc.ToJSON()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := storage.SaveSnapshot(ctx, h, storage.LabelManual, blob, time.Now()); err != nil {
		return err
	}
	if _, err := storage.PruneOldSnapshots(ctx, h, a.cfg.Storage.SnapshotKeepLast); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Snapshot stored")
	return nil
}

func cmdSnapshots(a *app, args []string) error {
	h, err := a.open(args[0])
	if err != nil {
		return err
	}
	list, err := storage.ListSnapshots(context.Background(), h, a.cfg.Storage.SnapshotKeepLast)
	if err != nil {
		return err
	}
	for _, s := range list {
		fmt.Fprintf(a.out, "%d\t%s\t%s\twalls=%d\n", s.ID, s.TS.Format("2006-01-02 15:04:05"), s.Label, s.Walls)
	}
	return nil
}

func cmdRestore(a *app, args []string) error {
	h, err := a.open(args[0])
	if err != nil {
		return err
	}
	s, err := storage.RestoreLatestSnapshot(context.Background(), h)
	if err != nil {
		return err
	}
	if err := storage.Save(h); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Restored snapshot %d (%s, %d walls)\n", s.ID, s.Label, s.Walls)
	return nil
}

func cmdPush(a *app, args []string) error {
	h, err := a.open(args[0])
	if err != nil {
		return err
	}
	blob, err := h.Doc.ToJSON()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Backend.EffectiveTimeout())
	defer cancel()
	st, err := a.store(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	ver, err := st.PutPlan(ctx, h.Name, blob)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pushed %s as version %d\n", h.Name, ver)
	return nil
}

func cmdPull(a *app, args []string) error {
	h, err := a.open(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Backend.EffectiveTimeout())
	defer cancel()
	st, err := a.store(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	blob, ver, err := st.GetPlan(ctx, args[1])
	if err != nil {
		return err
	}
	if err := h.Doc.LoadJSON(blob); err != nil {
		return err
	}
	if err := storage.Save(h); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pulled %s version %d\n", args[1], ver)
	return nil
}

func (a *app) planOptions() []plan.Option {
	return []plan.Option{plan.WithMaxUndo(a.cfg.Editor.UndoMaxDepth)}
}

func (a *app) open(dir string) (*storage.ProjectHandle, error) {
	abs, _ := filepath.Abs(dir)
	a.log.Info("open project", slog.String("root", abs))
	h, err := storage.Open(abs, a.planOptions()...)
	if err != nil {
		return nil, err
	}
	a.ph = h
	return h, nil
}

func (a *app) store(ctx context.Context) (*backend.Store, error) {
	if a.cfg.Backend.DSN == "" {
		return nil, errors.New("no backend configured (set backend.dsn or GFP_PG_DSN)")
	}
	return backend.Open(ctx, a.cfg.Backend.DSN, a.password)
}

// edit opens the project, runs fn with tool active and saves the result.
// Changes made by fn are autosaved into the snapshot index as they happen.
func (a *app) edit(dir string, tool tools.Tool, fn func(m *tools.Manager) error) error {
	h, err := a.open(dir)
	if err != nil {
		return err
	}
	as := storage.NewAutosaver(h, a.cfg.Storage.AutosaveMinInterval(), a.cfg.Storage.SnapshotKeepLast)
	as.Start()
	defer as.Stop()

	m := tools.NewManager(h.Doc, tools.SettingsFromConfig(a.cfg.Editor))
	defer m.Close()
	m.Register(tool)
	if err := m.Activate(tool.Name()); err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	if err := as.Flush(context.Background()); err != nil {
		applog.WithPlan(a.log, h.Name).Warn("autosave flush failed", slog.Any("err", err))
	}
	return storage.Save(h)
}

func parsePoints(args []string) ([]geom.Vec2, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("coordinates come in x y pairs, got %d values", len(args))
	}
	pts := make([]geom.Vec2, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("x: %w", err)
		}
		y, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("y: %w", err)
		}
		pts = append(pts, geom.V(x, y))
	}
	return pts, nil
}
