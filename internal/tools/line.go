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

	"gofloorplan/internal/geom"
	"gofloorplan/internal/plan"
	"gofloorplan/internal/spatial"
)

// minSegmentCm is the shortest wall a drawing tool will commit.
const minSegmentCm = 0.1

type lineState int

const (
	lineWaitingStart lineState = iota
	lineWaitingEnd
)

// LineTool draws chained straight walls. Each press after the first commits a wall and
// starts the next one at its end; Confirm or Cancel ends the chain.
// Holding Shift (or Settings.Ortho) locks the segment to the dominant axis.
type LineTool struct {
	env   *Env
	state lineState

	start       geom.Vec2
	startVertex plan.ID // existing vertex under start, or NilID
	cursor      geom.Vec2
}

func NewLineTool() *LineTool { return &LineTool{} }

func (t *LineTool) Name() string { return "line" }

func (t *LineTool) Enter(env *Env) {
	t.env = env
	t.state = lineWaitingStart
	env.Log.Debug("line tool entered")
}

func (t *LineTool) Exit() { t.state = lineWaitingStart }

// Preview returns the rubber band segment while a chain is open.
func (t *LineTool) Preview() (start, end geom.Vec2, ok bool) {
	return t.start, t.cursor, t.state == lineWaitingEnd
}

func (t *LineTool) OnPointer(ev PointerEvent) {
	if t.env == nil {
		return
	}
	switch ev.Action {
	case ActionCancel, ActionConfirm:
		t.state = lineWaitingStart
		return
	case ActionDown, ActionMove:
	default:
		return
	}
	p, snap := t.env.Snap(ev.World)
	if t.state == lineWaitingEnd && (ev.Shift || t.env.Settings.Ortho) {
		p = ortho(t.start, p)
		snap = spatial.SnapResult{}
	}
	t.cursor = p
	if ev.Action != ActionDown {
		return
	}
	switch t.state {
	case lineWaitingStart:
		t.start = p
		t.startVertex = t.existingVertex(p, snap)
		t.state = lineWaitingEnd
	case lineWaitingEnd:
		t.commit(p, t.existingVertex(p, snap))
	}
}

// CommitLength ends the current segment at exactly length centimeters along the
// direction toward the cursor (or +X when the cursor sits on the start point).
func (t *LineTool) CommitLength(length float64) bool {
	if t.state != lineWaitingEnd || length <= minSegmentCm {
		return false
	}
	dir := t.cursor.Sub(t.start).Normalize()
	if dir.LenSq() == 0 {
		dir = geom.V(1, 0)
	}
	return t.commit(t.start.Add(dir.Scale(length)), plan.NilID)
}

func (t *LineTool) existingVertex(p geom.Vec2, snap spatial.SnapResult) plan.ID {
	if !snap.Valid || snap.Kind != spatial.SnapEndpoint {
		return plan.NilID
	}
	id, _ := t.env.vertexAt(p)
	return id
}

func (t *LineTool) commit(end geom.Vec2, endVertex plan.ID) bool {
	if t.start.NearlyEqual(end, minSegmentCm) {
		return false
	}
	m := plan.Macro("Add Wall")
	a := vertexFor(m, t.startVertex, t.start)
	if endVertex == a {
		endVertex = plan.NilID
	}
	b := vertexFor(m, endVertex, end)
	w := plan.DefaultWall(a, b)
	w.ThicknessCm = t.env.Settings.WallThicknessCm
	w.HeightCm = t.env.Settings.WallHeightCm
	m.Add(plan.AddOrUpdateWall(w))
	if !t.env.Doc.Submit(m) {
		return false
	}
	t.env.Log.Info("wall added", slog.String("wall", w.ID.String()), slog.Float64("length", t.start.Dist(end)))
	t.start, t.startVertex = end, b
	return true
}
