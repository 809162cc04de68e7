/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package trim

import (
	"gofloorplan/internal/geom"
	"gofloorplan/internal/tools"
)

// State is the interaction phase of the trim tool.
type State int

const (
	StateIdle State = iota
	StatePotentialDrag
	StateMarqueeDragging
)

// Tool is the interactive trim mode: press and release trims the wall under the
// cursor, press and drag draws a fence that trims every wall it crosses.
type Tool struct {
	env  *tools.Env
	drag tools.ClickDrag
}

func NewTool() *Tool { return &Tool{} }

func (t *Tool) Name() string { return "trim" }

func (t *Tool) Enter(env *tools.Env) {
	t.env = env
	th := env.Settings.DragThresholdPx
	if th <= 0 {
		th = DragThresholdPx
	}
	t.drag = tools.ClickDrag{Threshold: th}
	env.Log.Debug("trim tool entered")
}

func (t *Tool) Exit() { t.drag.Reset() }

// State reports the current interaction phase.
func (t *Tool) State() State {
	switch {
	case t.drag.Dragging():
		return StateMarqueeDragging
	case t.drag.Pending():
		return StatePotentialDrag
	}
	return StateIdle
}

// Fence returns the fence line while it is being dragged.
func (t *Tool) Fence() (start, end geom.Vec2, ok bool) {
	if !t.drag.Dragging() {
		return geom.Vec2{}, geom.Vec2{}, false
	}
	start, end = t.drag.Marquee()
	return start, end, true
}

func (t *Tool) OnPointer(ev tools.PointerEvent) {
	if t.env == nil {
		return
	}
	g := t.drag.Handle(ev)
	switch g.Kind {
	case tools.GestureClick:
		t.clickTrim(g.End)
	case tools.GestureMarquee:
		pad := t.env.Settings.FencePaddingCm
		if pad <= 0 {
			pad = FencePaddingCm
		}
		fenceTrim(t.env.Doc, t.env.Index, g.Start, g.End, pad)
	}
}

func (t *Tool) clickTrim(p geom.Vec2) {
	tol := t.env.Settings.HitToleranceCm
	if tol <= 0 {
		tol = HitToleranceCm
	}
	if id, ok := t.env.Index.HitTestWall(p, tol); ok {
		TrimWallAtPoint(t.env.Doc, id, p)
	}
}
