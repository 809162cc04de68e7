/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package plan

import (
	"sort"

	"github.com/golang/geo/r1"

	"gofloorplan/internal/geom"
)

var unit = r1.Interval{Lo: 0, Hi: 1}

// Lookups resolve weak references. A missing vertex or wall is reported through ok=false
// and callers skip the entity.

// WallEndpoints returns the positions of the wall's two vertices.
func (d *Data) WallEndpoints(w Wall) (a, b geom.Vec2, ok bool) {
	va, okA := d.Vertices[w.VertexA]
	vb, okB := d.Vertices[w.VertexB]
	if !okA || !okB {
		return geom.Vec2{}, geom.Vec2{}, false
	}
	return va.Position, vb.Position, true
}

// ArcRadius is the distance from the arc center to vertex A.
func ArcRadius(w Wall, a geom.Vec2) float64 { return w.ArcCenter.Dist(a) }

// ArcStartDeg is the angle from the arc center to vertex A.
func ArcStartDeg(w Wall, a geom.Vec2) float64 { return geom.AngleDegrees(w.ArcCenter, a) }

// WallLength is the chord length for straight walls and the arc length for arc walls.
func (d *Data) WallLength(w Wall) (float64, bool) {
	a, b, ok := d.WallEndpoints(w)
	if !ok {
		return 0, false
	}
	if w.IsArc {
		return geom.ArcLength(ArcRadius(w, a), w.ArcSweepDeg), true
	}
	return a.Dist(b), true
}

// PointAlongWall returns the point at distance s from vertex A, following the arc for arc walls.
func (d *Data) PointAlongWall(w Wall, s float64) (geom.Vec2, bool) {
	a, b, ok := d.WallEndpoints(w)
	if !ok {
		return geom.Vec2{}, false
	}
	length, _ := d.WallLength(w)
	if length < geom.SmallNumber {
		return a, true
	}
	f := s / length
	if w.IsArc {
		return geom.PointFromPolar(w.ArcCenter, ArcRadius(w, a), ArcStartDeg(w, a)+w.ArcSweepDeg*f), true
	}
	return a.Lerp(b, f), true
}

// DistanceAlongWall projects p onto the wall and returns its distance from vertex A,
// clamped to the wall. Points off an arc's sweep go to the nearer end.
func (d *Data) DistanceAlongWall(w Wall, p geom.Vec2) (float64, bool) {
	a, b, ok := d.WallEndpoints(w)
	if !ok {
		return 0, false
	}
	length, _ := d.WallLength(w)
	var f float64
	if w.IsArc {
		f = geom.SweepFraction(w.ArcCenter, ArcStartDeg(w, a), w.ArcSweepDeg, p)
		if f < 0 || f > 1 {
			f = 0
			if p.Dist(b) < p.Dist(a) {
				f = 1
			}
		}
	} else if t, ok := geom.ProjectT(p, a, b); ok {
		f = t
	}
	return unit.ClampPoint(f) * length, true
}

// WallMidpoint is the chord midpoint for straight walls and the point half way along the sweep for arcs.
func (d *Data) WallMidpoint(w Wall) (geom.Vec2, bool) {
	a, b, ok := d.WallEndpoints(w)
	if !ok {
		return geom.Vec2{}, false
	}
	if w.IsArc {
		return geom.ArcMidpoint(w.ArcCenter, ArcRadius(w, a), ArcStartDeg(w, a), w.ArcSweepDeg), true
	}
	return a.Lerp(b, 0.5), true
}

// WallPolyline returns the wall's centerline: two points for straight walls, a tessellation
// with ArcSegmentCount segments for arcs.
func (d *Data) WallPolyline(w Wall) ([]geom.Vec2, bool) {
	a, b, ok := d.WallEndpoints(w)
	if !ok {
		return nil, false
	}
	if !w.IsArc {
		return []geom.Vec2{a, b}, true
	}
	n := w.ArcNumSegments
	if n <= 0 {
		n = geom.ArcSegmentCount(w.ArcSweepDeg)
	}
	pts := geom.ArcPoints(w.ArcCenter, ArcRadius(w, a), ArcStartDeg(w, a), w.ArcSweepDeg, n)
	// pin the ends to the stored vertices
	pts[0] = a
	pts[len(pts)-1] = b
	return pts, true
}

// OpeningCenter is the point on the host wall at OffsetCm + WidthCm/2.
func (d *Data) OpeningCenter(o Opening) (geom.Vec2, bool) {
	w, ok := d.Walls[o.WallID]
	if !ok {
		return geom.Vec2{}, false
	}
	return d.PointAlongWall(w, o.OffsetCm+o.WidthCm/2)
}

// OpeningsOnWall returns the openings hosted by wallID ordered by offset.
func (d *Data) OpeningsOnWall(wallID ID) []Opening {
	var out []Opening
	for _, o := range d.Openings {
		if o.WallID == wallID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OffsetCm != out[j].OffsetCm {
			return out[i].OffsetCm < out[j].OffsetCm
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// RunsOnWall returns the cabinet runs hosted by wallID ordered by start offset.
func (d *Data) RunsOnWall(wallID ID) []CabinetRun {
	var out []CabinetRun
	for _, r := range d.Runs {
		if r.HostWallID == wallID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartOffsetCm != out[j].StartOffsetCm {
			return out[i].StartOffsetCm < out[j].StartOffsetCm
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// SolidIntervals returns the parts of the wall not covered by its openings.
func (d *Data) SolidIntervals(w Wall) ([]geom.Interval, bool) {
	length, ok := d.WallLength(w)
	if !ok {
		return nil, false
	}
	ops := d.OpeningsOnWall(w.ID)
	holes := make([]geom.Interval, 0, len(ops))
	for _, o := range ops {
		holes = append(holes, o.Interval())
	}
	return geom.SolidIntervals(length, holes), true
}

// ObjectsGeneratedBy lists object instances tagged with runID, ordered by ID.
func (d *Data) ObjectsGeneratedBy(runID ID) []ID {
	var out []ID
	for id, o := range d.Objects {
		if o.GeneratedByRunID != nil && *o.GeneratedByRunID == runID {
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

// SortedWallIDs returns wall IDs in a stable order.
func (d *Data) SortedWallIDs() []ID {
	out := make([]ID, 0, len(d.Walls))
	for id := range d.Walls {
		out = append(out, id)
	}
	sortIDs(out)
	return out
}

func sortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
