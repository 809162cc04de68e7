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
)

// Opening defaults in centimeters.
const (
	DoorWidthCm    = 90
	DoorHeightCm   = 210
	WindowWidthCm  = 120
	WindowHeightCm = 120
	WindowSillCm   = 90
)

// OpeningTool cuts doors and windows into walls. A click on a wall centers a new opening
// on the clicked point, pushed inward so it stays on the wall. Clicks that miss every wall,
// land on a wall too short for the opening or overlap an existing opening are ignored.
type OpeningTool struct {
	env  *Env
	drag ClickDrag

	spec plan.Opening
	last plan.ID
}

func NewOpeningTool() *OpeningTool {
	t := &OpeningTool{}
	t.SetKind(plan.OpeningDoor)
	return t
}

func (t *OpeningTool) Name() string { return "opening" }

func (t *OpeningTool) Enter(env *Env) {
	t.env = env
	t.drag = ClickDrag{Threshold: env.Settings.DragThresholdPx}
}

func (t *OpeningTool) Exit() { t.drag.Reset() }

// SetKind switches to kind and resets the size to that kind's defaults.
func (t *OpeningTool) SetKind(kind plan.OpeningKind) {
	switch kind {
	case plan.OpeningWindow:
		t.spec = plan.Opening{Kind: kind, WidthCm: WindowWidthCm, HeightCm: WindowHeightCm, SillHeightCm: WindowSillCm}
	default:
		t.spec = plan.Opening{Kind: plan.OpeningDoor, WidthCm: DoorWidthCm, HeightCm: DoorHeightCm}
	}
}

// SetSize overrides the width and height; non-positive values keep the current ones.
func (t *OpeningTool) SetSize(widthCm, heightCm float64) {
	if widthCm > 0 {
		t.spec.WidthCm = widthCm
	}
	if heightCm > 0 {
		t.spec.HeightCm = heightCm
	}
}

// Template returns the opening that the next click would create, without wall or offset.
func (t *OpeningTool) Template() plan.Opening { return t.spec }

// Last returns the ID of the most recently added opening, or NilID.
func (t *OpeningTool) Last() plan.ID { return t.last }

func (t *OpeningTool) OnPointer(ev PointerEvent) {
	if t.env == nil {
		return
	}
	if g := t.drag.Handle(ev); g.Kind == GestureClick {
		t.place(g.End)
	}
}

func (t *OpeningTool) place(p geom.Vec2) bool {
	wallID, ok := t.env.Index.HitTestWall(p, t.env.Settings.HitToleranceCm)
	if !ok {
		return false
	}
	d := t.env.Doc.Data()
	w := d.Walls[wallID]
	at, ok := d.DistanceAlongWall(w, p)
	if !ok {
		return false
	}
	length, _ := d.WallLength(w)
	span, ok := geom.CenteredSpan(length, at, t.spec.WidthCm)
	if !ok {
		t.env.Log.Debug("opening does not fit", slog.Float64("wall", length), slog.Float64("width", t.spec.WidthCm))
		return false
	}
	for _, o := range d.OpeningsOnWall(wallID) {
		iv := o.Interval()
		if span.Start < iv.End && iv.Start < span.End {
			t.env.Log.Debug("opening overlaps", slog.String("other", o.ID.String()))
			return false
		}
	}
	o := t.spec
	o.ID = plan.NewID()
	o.WallID = wallID
	o.OffsetCm = span.Start
	if !t.env.Doc.Submit(plan.AddOrUpdateOpening(o)) {
		return false
	}
	t.last = o.ID
	t.env.Log.Info("opening added", slog.String("kind", string(o.Kind)), slog.String("wall", wallID.String()),
		slog.Float64("offset", o.OffsetCm))
	return true
}
