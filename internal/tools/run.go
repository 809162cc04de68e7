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
	"math"

	"gofloorplan/internal/geom"
	"gofloorplan/internal/plan"
)

// Cabinet run defaults in centimeters.
const (
	RunDepthCm  = 60
	RunHeightCm = 90
)

// RunTool lays out a cabinet run along a wall with two clicks on the same wall.
// The run only records the span; generating the cabinets is left to a solver.
// Cancel drops a pending first click.
type RunTool struct {
	env  *Env
	drag ClickDrag

	product  string
	depthCm  float64
	heightCm float64

	wall    plan.ID
	startCm float64
	pending bool
	last    plan.ID
}

func NewRunTool() *RunTool {
	return &RunTool{depthCm: RunDepthCm, heightCm: RunHeightCm}
}

func (t *RunTool) Name() string { return "run" }

func (t *RunTool) Enter(env *Env) {
	t.env = env
	t.drag = ClickDrag{Threshold: env.Settings.DragThresholdPx}
	t.pending = false
}

func (t *RunTool) Exit() {
	t.drag.Reset()
	t.pending = false
}

// SetProduct sets the product family the run is solved with.
func (t *RunTool) SetProduct(id string) { t.product = id }

// SetSize overrides depth and height; non-positive values keep the current ones.
func (t *RunTool) SetSize(depthCm, heightCm float64) {
	if depthCm > 0 {
		t.depthCm = depthCm
	}
	if heightCm > 0 {
		t.heightCm = heightCm
	}
}

// Pending reports whether the first end of a run has been picked.
func (t *RunTool) Pending() bool { return t.pending }

// Last returns the ID of the most recently added run, or NilID.
func (t *RunTool) Last() plan.ID { return t.last }

func (t *RunTool) OnPointer(ev PointerEvent) {
	if t.env == nil {
		return
	}
	if ev.Action == ActionCancel {
		t.pending = false
	}
	if g := t.drag.Handle(ev); g.Kind == GestureClick {
		t.click(g.End)
	}
}

func (t *RunTool) click(p geom.Vec2) {
	wallID, ok := t.env.Index.HitTestWall(p, t.env.Settings.HitToleranceCm)
	if !ok {
		return
	}
	d := t.env.Doc.Data()
	at, ok := d.DistanceAlongWall(d.Walls[wallID], p)
	if !ok {
		return
	}
	if !t.pending || wallID != t.wall {
		t.wall, t.startCm, t.pending = wallID, at, true
		return
	}
	if math.Abs(at-t.startCm) < minSegmentCm {
		return
	}
	r := plan.CabinetRun{
		ID:            plan.NewID(),
		HostWallID:    wallID,
		StartOffsetCm: math.Min(t.startCm, at),
		EndOffsetCm:   math.Max(t.startCm, at),
		DepthCm:       t.depthCm,
		HeightCm:      t.heightCm,
		ProductTypeID: t.product,
	}
	if !t.env.Doc.Submit(plan.AddOrUpdateRun(r)) {
		return
	}
	t.pending = false
	t.last = r.ID
	t.env.Log.Info("cabinet run added", slog.String("wall", wallID.String()),
		slog.Float64("start", r.StartOffsetCm), slog.Float64("end", r.EndOffsetCm))
}
