/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tools

import (
	"log/slog"
	"sort"

	"gofloorplan/internal/geom"
	"gofloorplan/internal/plan"
)

// SelectTool picks walls and openings. A click selects the opening under the cursor,
// or failing that the wall; a drag selects everything inside the rectangle.
// Shift adds to the selection and Alt removes from it; without modifiers the selection
// is replaced, and clicking empty space clears it.
type SelectTool struct {
	env  *Env
	drag ClickDrag

	walls    map[plan.ID]struct{}
	openings map[plan.ID]struct{}

	// OnChange, when set, is called after every selection change.
	OnChange func()
}

func NewSelectTool() *SelectTool {
	return &SelectTool{walls: map[plan.ID]struct{}{}, openings: map[plan.ID]struct{}{}}
}

func (t *SelectTool) Name() string { return "select" }

func (t *SelectTool) Enter(env *Env) {
	t.env = env
	t.drag = ClickDrag{Threshold: env.Settings.DragThresholdPx}
}

// Exit keeps the selection so it can still be edited or deleted.
func (t *SelectTool) Exit() { t.drag.Reset() }

// Marquee returns the rectangle being dragged, if any.
func (t *SelectTool) Marquee() (lo, hi geom.Vec2, ok bool) {
	if !t.drag.Dragging() {
		return geom.Vec2{}, geom.Vec2{}, false
	}
	r := geom.RectFromPoints(t.drag.Marquee())
	return r.Min, r.Max, true
}

func (t *SelectTool) OnPointer(ev PointerEvent) {
	if t.env == nil {
		return
	}
	g := t.drag.Handle(ev)
	switch g.Kind {
	case GestureClick:
		t.clickSelect(g.End, g.Shift, g.Alt)
	case GestureMarquee:
		t.rectSelect(g.Start, g.End, g.Shift, g.Alt)
	}
}

func (t *SelectTool) clickSelect(p geom.Vec2, add, remove bool) {
	tol := t.env.Settings.HitToleranceCm
	if id, ok := t.env.Index.HitTestOpening(p, tol); ok {
		t.apply(nil, []plan.ID{id}, add, remove)
		return
	}
	if id, ok := t.env.Index.HitTestWall(p, tol); ok {
		t.apply([]plan.ID{id}, nil, add, remove)
		return
	}
	if !add && !remove {
		t.ClearSelection()
	}
}

func (t *SelectTool) rectSelect(a, b geom.Vec2, add, remove bool) {
	r := geom.RectFromPoints(a, b)
	walls := t.env.Index.HitTestWallsInRect(r.Min, r.Max)
	openings := t.env.Index.HitTestOpeningsInRect(r.Min, r.Max)
	t.env.Log.Debug("marquee selection", slog.Int("walls", len(walls)), slog.Int("openings", len(openings)))
	t.apply(walls, openings, add, remove)
}

func (t *SelectTool) apply(walls, openings []plan.ID, add, remove bool) {
	switch {
	case remove:
		for _, id := range walls {
			delete(t.walls, id)
		}
		for _, id := range openings {
			delete(t.openings, id)
		}
	case add:
	default:
		clear(t.walls)
		clear(t.openings)
	}
	if !remove {
		for _, id := range walls {
			t.walls[id] = struct{}{}
		}
		for _, id := range openings {
			t.openings[id] = struct{}{}
		}
	}
	t.changed()
}

func (t *SelectTool) changed() {
	if t.OnChange != nil {
		t.OnChange()
	}
}

// HasSelection reports whether anything is selected.
func (t *SelectTool) HasSelection() bool { return len(t.walls)+len(t.openings) > 0 }

// ClearSelection empties the selection.
func (t *SelectTool) ClearSelection() {
	if !t.HasSelection() {
		return
	}
	clear(t.walls)
	clear(t.openings)
	t.changed()
}

// SelectedWalls returns the selected wall IDs in a stable order.
func (t *SelectTool) SelectedWalls() []plan.ID { return sortedIDs(t.walls) }

// SelectedOpenings returns the selected opening IDs in a stable order.
func (t *SelectTool) SelectedOpenings() []plan.ID { return sortedIDs(t.openings) }

// DeleteSelection removes the selected openings and walls in one undoable step.
// Openings and cabinet runs hosted by a deleted wall go with it, and so do the instances
// generated from those runs. Entities that no longer exist are skipped.
func (t *SelectTool) DeleteSelection() bool {
	if t.env == nil || !t.HasSelection() {
		return false
	}
	d := t.env.Doc.Data()
	doomed := map[plan.ID]struct{}{}
	for id := range t.openings {
		if _, ok := d.Openings[id]; ok {
			doomed[id] = struct{}{}
		}
	}
	var walls []plan.ID
	var runs []plan.CabinetRun
	for _, id := range sortedIDs(t.walls) {
		if _, ok := d.Walls[id]; !ok {
			continue
		}
		walls = append(walls, id)
		for _, o := range d.OpeningsOnWall(id) {
			doomed[o.ID] = struct{}{}
		}
		runs = append(runs, d.RunsOnWall(id)...)
	}
	m := plan.Macro("Delete Selection")
	for _, id := range sortedIDs(doomed) {
		m.Add(plan.DeleteOpening(id))
	}
	for _, r := range runs {
		m.Add(plan.DeleteRunWithObjects(d, r.ID))
	}
	for _, id := range walls {
		m.Add(plan.DeleteWall(id))
	}
	if len(m.Children()) == 0 {
		t.ClearSelection()
		return false
	}
	if !t.env.Doc.Submit(m) {
		return false
	}
	t.env.Log.Info("selection deleted", slog.Int("walls", len(walls)), slog.Int("openings", len(doomed)),
		slog.Int("runs", len(runs)))
	t.ClearSelection()
	return true
}

func sortedIDs(set map[plan.ID]struct{}) []plan.ID {
	out := make([]plan.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
