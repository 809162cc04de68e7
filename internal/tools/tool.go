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
	"gofloorplan/internal/spatial"
)

// Tool is an interactive editing mode. Tools only change the plan by submitting commands.
type Tool interface {
	Name() string
	// Enter is called when the tool becomes active; it resets any pending interaction.
	Enter(env *Env)
	Exit()
	OnPointer(ev PointerEvent)
}

// Env is what a tool works against. The index is kept current by the Manager.
type Env struct {
	Doc      *plan.Document
	Index    *spatial.Index
	Settings Settings
	Log      *slog.Logger
}

// Snap resolves a cursor position: a snap point or segment projection wins outright;
// otherwise each axis aligns to a guide when one is in range and falls back to the grid.
func (e *Env) Snap(p geom.Vec2) (geom.Vec2, spatial.SnapResult) {
	r := e.Settings.SnapRadiusCm
	if e.Index != nil {
		if s := e.Index.QuerySnap(p, r); s.Valid {
			return s.Location, s
		}
	}
	out := geom.V(roundTo(p.X, e.Settings.GridCm), roundTo(p.Y, e.Settings.GridCm))
	if e.Index != nil {
		aligned, ar := e.Index.QueryAlignment(p, r)
		if ar.X {
			out.X = aligned.X
		}
		if ar.Y {
			out.Y = aligned.Y
		}
	}
	return out, spatial.SnapResult{}
}

func roundTo(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// vertexAt returns the ID of a vertex sitting exactly at p, if any.
func (e *Env) vertexAt(p geom.Vec2) (plan.ID, bool) {
	for id, v := range e.Doc.Data().Vertices {
		if v.Position.NearlyEqual(p, 1e-6) {
			return id, true
		}
	}
	return plan.NilID, false
}

// vertexFor returns id when set; otherwise it queues a new vertex at p on m and returns its ID.
func vertexFor(m *plan.Command, id plan.ID, p geom.Vec2) plan.ID {
	if id != plan.NilID {
		return id
	}
	v := plan.Vertex{ID: plan.NewID(), Position: p}
	m.Add(plan.AddOrUpdateVertex(v))
	return v.ID
}

// ortho keeps the dominant axis of end-start and flattens the other.
func ortho(start, end geom.Vec2) geom.Vec2 {
	d := end.Sub(start)
	if math.Abs(d.X) > math.Abs(d.Y) {
		return geom.V(end.X, start.Y)
	}
	return geom.V(start.X, end.Y)
}
