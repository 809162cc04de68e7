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

type arcState int

const (
	arcWaitingStart arcState = iota
	arcWaitingSecond
	arcWaitingEnd
)

// ArcTool draws a circular wall from three presses: start, a point on the arc, end.
// Events with Alt or Ctrl held are ignored.
type ArcTool struct {
	env   *Env
	state arcState

	start, second geom.Vec2
	startVertex   plan.ID
	cursor        geom.Vec2
}

func NewArcTool() *ArcTool { return &ArcTool{} }

func (t *ArcTool) Name() string { return "arc" }

func (t *ArcTool) Enter(env *Env) {
	t.env = env
	t.state = arcWaitingStart
}

func (t *ArcTool) Exit() { t.state = arcWaitingStart }

// Preview returns the arc through the picked points and the cursor once two points are set.
func (t *ArcTool) Preview() (geom.Arc, bool) {
	if t.state != arcWaitingEnd {
		return geom.Arc{}, false
	}
	a := geom.ArcFrom3Points(t.start, t.second, t.cursor)
	return a, a.Valid
}

func (t *ArcTool) OnPointer(ev PointerEvent) {
	if t.env == nil || ev.Alt || ev.Ctrl {
		return
	}
	switch ev.Action {
	case ActionCancel:
		t.state = arcWaitingStart
		return
	case ActionDown, ActionMove:
	default:
		return
	}
	p, snap := t.env.Snap(ev.World)
	t.cursor = p
	if ev.Action != ActionDown {
		return
	}
	switch t.state {
	case arcWaitingStart:
		t.start = p
		t.startVertex = plan.NilID
		if snap.Valid && snap.Kind == spatial.SnapEndpoint {
			t.startVertex, _ = t.env.vertexAt(p)
		}
		t.state = arcWaitingSecond
	case arcWaitingSecond:
		if p.NearlyEqual(t.start, minSegmentCm) {
			return
		}
		t.second = p
		t.state = arcWaitingEnd
	case arcWaitingEnd:
		var endVertex plan.ID
		if snap.Valid && snap.Kind == spatial.SnapEndpoint {
			endVertex, _ = t.env.vertexAt(p)
		}
		if t.commit(p, endVertex) {
			t.state = arcWaitingStart
		}
	}
}

func (t *ArcTool) commit(end geom.Vec2, endVertex plan.ID) bool {
	arc := geom.ArcFrom3Points(t.start, t.second, end)
	if !arc.Valid || end.NearlyEqual(t.start, minSegmentCm) {
		t.env.Log.Debug("arc rejected: degenerate points")
		return false
	}
	m := plan.Macro("Add Arc Wall")
	a := vertexFor(m, t.startVertex, t.start)
	if endVertex == a {
		endVertex = plan.NilID
	}
	b := vertexFor(m, endVertex, end)
	w := plan.DefaultWall(a, b)
	w.ThicknessCm = t.env.Settings.WallThicknessCm
	w.HeightCm = t.env.Settings.WallHeightCm
	w.IsArc = true
	w.ArcCenter = arc.Center
	w.ArcSweepDeg = arc.SweepDeg
	m.Add(plan.AddOrUpdateWall(w))
	if !t.env.Doc.Submit(m) {
		return false
	}
	t.env.Log.Info("arc wall added", slog.String("wall", w.ID.String()),
		slog.Float64("radius", arc.Radius), slog.Float64("sweep", arc.SweepDeg))
	return true
}
