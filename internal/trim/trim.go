/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package trim

import (
	"log/slog"

	"gofloorplan/internal/geom"
	"gofloorplan/internal/plan"
	"gofloorplan/internal/spatial"
)

// TrimWallAtPoint removes the span of wallID that contains click, bounded by the nearest
// intersections with other walls (or the wall's ends). The change is submitted as one
// "Trim Wall" macro. It returns false and leaves doc untouched when the wall or its
// vertices are missing or the click is ambiguous.
func TrimWallAtPoint(doc *plan.Document, wallID plan.ID, click geom.Vec2) bool {
	if doc == nil {
		return false
	}
	d := doc.Data()
	g, ok := resolve(d, wallID)
	if !ok {
		return false
	}
	l := logger().With(slog.String("wall", wallID.String()))

	t := g.paramOf(click)
	lo, hi := bracket(intersections(d, g), t)
	if nearly(lo, hi) {
		l.Warn("trim span collapsed; aborting", slog.Float64("t", t))
		return false
	}
	l.Debug("trim span", slog.Float64("start", lo), slog.Float64("end", hi), slog.Bool("arc", g.wall.IsArc))

	m := plan.Macro("Trim Wall")
	switch {
	case nearly(lo, 0) && nearly(hi, 1):
		m.Add(plan.DeleteWall(wallID))
	case nearly(lo, 0):
		v := plan.Vertex{ID: plan.NewID(), Position: g.pointAt(hi)}
		w := g.wall
		w.VertexA = v.ID
		scaleArc(&w, 1-hi)
		m.Add(plan.AddOrUpdateVertex(v))
		m.Add(plan.AddOrUpdateWall(w))
	case nearly(hi, 1):
		v := plan.Vertex{ID: plan.NewID(), Position: g.pointAt(lo)}
		w := g.wall
		w.VertexB = v.ID
		scaleArc(&w, lo)
		m.Add(plan.AddOrUpdateVertex(v))
		m.Add(plan.AddOrUpdateWall(w))
	default:
		v1 := plan.Vertex{ID: plan.NewID(), Position: g.pointAt(lo)}
		v2 := plan.Vertex{ID: plan.NewID(), Position: g.pointAt(hi)}
		head := g.wall
		head.VertexB = v1.ID
		scaleArc(&head, lo)
		tail := g.wall
		tail.ID = plan.NewID()
		tail.VertexA = v2.ID
		scaleArc(&tail, 1-hi)
		m.Add(plan.AddOrUpdateVertex(v1))
		m.Add(plan.AddOrUpdateVertex(v2))
		m.Add(plan.AddOrUpdateWall(head))
		m.Add(plan.AddOrUpdateWall(tail))
	}
	if !doc.Submit(m) {
		l.Warn("trim rejected by document")
		return false
	}
	l.Info("wall trimmed", slog.Int("steps", len(m.Children())))
	return true
}

// scaleArc keeps the fraction f of an arc wall's sweep; the tessellation is re-derived.
func scaleArc(w *plan.Wall, f float64) {
	if !w.IsArc {
		return
	}
	w.ArcSweepDeg *= f
	w.ArcNumSegments = 0
}

// FenceTrim trims every wall whose chord the fence line start-end crosses and returns
// how many walls were trimmed. Candidates come from the index, which must be current.
func FenceTrim(doc *plan.Document, idx *spatial.Index, start, end geom.Vec2) int {
	return fenceTrim(doc, idx, start, end, FencePaddingCm)
}

func fenceTrim(doc *plan.Document, idx *spatial.Index, start, end geom.Vec2, pad float64) int {
	if doc == nil || idx == nil {
		return 0
	}
	box := geom.RectFromPoints(start, end).Expand(pad)
	n := 0
	for _, id := range idx.HitTestWallsInRect(box.Min, box.Max) {
		// earlier trims may have moved or removed this wall
		d := doc.Data()
		w, ok := d.Walls[id]
		if !ok {
			continue
		}
		a, b, ok := d.WallEndpoints(w)
		if !ok {
			continue
		}
		p, ok := geom.SegmentIntersection(start, end, a, b)
		if !ok {
			continue
		}
		if TrimWallAtPoint(doc, id, p) {
			n++
		}
	}
	if n > 0 {
		logger().Info("fence trim completed", slog.Int("walls", n))
	}
	return n
}
