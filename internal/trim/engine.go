/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package trim removes the piece of a wall between its neighbouring intersections.
// A click trims the wall under the cursor; dragging a fence line trims every wall it crosses.
package trim

import (
	"log/slog"
	"math"
	"sort"

	"gofloorplan/internal/geom"
	applog "gofloorplan/internal/log"
	"gofloorplan/internal/plan"
)

// Interaction defaults.
const (
	DragThresholdPx = 5
	HitToleranceCm  = 20
	FencePaddingCm  = 10
)

// eps is the parametric tolerance for interior intersections and bracket matching.
const eps = geom.Epsilon

func logger() *slog.Logger { return applog.WithComponent("trim") }

// wallGeom is the resolved geometry of one wall.
type wallGeom struct {
	wall     plan.Wall
	a, b     geom.Vec2
	radius   float64
	startDeg float64
}

func resolve(d *plan.Data, id plan.ID) (wallGeom, bool) {
	w, ok := d.Walls[id]
	if !ok {
		return wallGeom{}, false
	}
	a, b, ok := d.WallEndpoints(w)
	if !ok {
		return wallGeom{}, false
	}
	g := wallGeom{wall: w, a: a, b: b}
	if w.IsArc {
		g.radius = plan.ArcRadius(w, a)
		g.startDeg = plan.ArcStartDeg(w, a)
	}
	return g, true
}

// pointAt returns the point at parameter t: chord fraction for straight walls,
// sweep fraction for arcs.
func (g wallGeom) pointAt(t float64) geom.Vec2 {
	if g.wall.IsArc {
		return geom.PointFromPolar(g.wall.ArcCenter, g.radius, g.startDeg+g.wall.ArcSweepDeg*t)
	}
	return g.a.Lerp(g.b, t)
}

// paramOf maps p onto the wall's [0,1] parameter.
func (g wallGeom) paramOf(p geom.Vec2) float64 {
	if g.wall.IsArc {
		f := geom.SweepFraction(g.wall.ArcCenter, g.startDeg, g.wall.ArcSweepDeg, p)
		if f >= 0 && f <= 1 {
			return f
		}
		// off the span: pick the nearer end
		if p.Dist(g.a) <= p.Dist(g.b) {
			return 0
		}
		return 1
	}
	t, ok := geom.ProjectT(p, g.a, g.b)
	if !ok {
		return 0.5
	}
	return t
}

// onArcSpan reports whether p's angle lies strictly inside the arc's sweep.
func (g wallGeom) onArcSpan(p geom.Vec2) (float64, bool) {
	f := geom.SweepFraction(g.wall.ArcCenter, g.startDeg, g.wall.ArcSweepDeg, p)
	return f, f > eps && f < 1-eps
}

// intersections returns {0, 1} plus every interior parameter where another wall
// crosses wallID, sorted ascending.
func intersections(d *plan.Data, target wallGeom) []float64 {
	out := []float64{0, 1}
	for _, oid := range d.SortedWallIDs() {
		if oid == target.wall.ID {
			continue
		}
		other, ok := resolve(d, oid)
		if !ok {
			continue
		}
		out = append(out, crossings(target, other)...)
	}
	sort.Float64s(out)
	return out
}

func crossings(target, other wallGeom) []float64 {
	var ts []float64
	switch {
	case !target.wall.IsArc && !other.wall.IsArc:
		p, ok := geom.SegmentIntersection(target.a, target.b, other.a, other.b)
		if !ok {
			return nil
		}
		if t, ok := geom.ProjectT(p, target.a, target.b); ok && t > eps && t < 1-eps {
			ts = append(ts, t)
		}
	case !target.wall.IsArc:
		// straight target against a curved neighbour: intersect the chord line with its circle
		for _, u := range geom.LineCircleIntersections(target.a, target.b, other.wall.ArcCenter, other.radius) {
			if u <= eps || u >= 1-eps {
				continue
			}
			if _, on := other.onArcSpanInclusive(target.a.Lerp(target.b, u)); on {
				ts = append(ts, u)
			}
		}
	default:
		// arc target: every other wall is treated as its chord against the target circle
		for _, u := range geom.LineCircleIntersections(other.a, other.b, target.wall.ArcCenter, target.radius) {
			if f, ok := target.onArcSpan(other.a.Lerp(other.b, u)); ok {
				ts = append(ts, f)
			}
		}
	}
	return ts
}

// onArcSpanInclusive accepts points anywhere on the closed sweep, ends included.
func (g wallGeom) onArcSpanInclusive(p geom.Vec2) (float64, bool) {
	f := geom.SweepFraction(g.wall.ArcCenter, g.startDeg, g.wall.ArcSweepDeg, p)
	return f, f >= -eps && f <= 1+eps
}

// bracket finds the pair of consecutive intersections around t. The first match wins.
func bracket(ts []float64, t float64) (lo, hi float64) {
	lo, hi = 0, 1
	for i := 0; i+1 < len(ts); i++ {
		if t >= ts[i]-eps && t <= ts[i+1]+eps {
			return ts[i], ts[i+1]
		}
	}
	return lo, hi
}

func nearly(a, b float64) bool { return math.Abs(a-b) <= eps }
