/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package spatial caches the snap and hit-test geometry of a plan. The index is a
// snapshot: callers rebuild it after every document change and never query a stale one.
package spatial

import (
	"log/slog"
	"math"
	"sort"

	"github.com/asim/quadtree"

	"gofloorplan/internal/geom"
	applog "gofloorplan/internal/log"
	"gofloorplan/internal/plan"
)

// SnapKind tags what a snap result landed on.
type SnapKind string

const (
	SnapEndpoint    SnapKind = "Endpoint"
	SnapMidpoint    SnapKind = "Midpoint"
	SnapArcMidpoint SnapKind = "Arc Midpoint"
	SnapProjection  SnapKind = "Projection"
)

// treeMargin pads the quadtree bounds so points on the data extents are never dropped.
const treeMargin = 100

type snapPoint struct {
	pos    geom.Vec2
	kind   SnapKind
	wallID plan.ID // zero for vertices
}

type segment struct {
	a, b   geom.Vec2
	wallID plan.ID
}

type openingCenter struct {
	id  plan.ID
	pos geom.Vec2
}

// SnapResult is the outcome of QuerySnap. Valid is false when nothing was in range.
type SnapResult struct {
	Valid    bool
	Location geom.Vec2
	Distance float64
	Kind     SnapKind
	WallID   plan.ID
}

// AlignResult reports which axes QueryAlignment snapped.
type AlignResult struct {
	X, Y bool
}

// Stats summarizes the cached items.
type Stats struct {
	Points   int
	Segments int
	UniqueX  int
	UniqueY  int
	Openings int
}

// Index holds the cached geometry. The zero value is an empty index.
type Index struct {
	points   []snapPoint
	tree     *quadtree.QuadTree
	segments []segment
	xs, ys   []float64
	openings []openingCenter
}

// New returns an empty index.
func New() *Index { return &Index{} }

// Build discards everything cached and repopulates from d in one pass.
// Walls or openings with dangling references are skipped.
func (ix *Index) Build(d *plan.Data) {
	ix.points = ix.points[:0]
	ix.segments = ix.segments[:0]
	ix.openings = ix.openings[:0]
	ix.tree = nil
	xs := map[float64]struct{}{}
	ys := map[float64]struct{}{}
	if d == nil {
		ix.xs, ix.ys = nil, nil
		return
	}

	vids := make([]plan.ID, 0, len(d.Vertices))
	for id := range d.Vertices {
		vids = append(vids, id)
	}
	sort.Slice(vids, func(i, j int) bool { return vids[i].String() < vids[j].String() })
	for _, id := range vids {
		p := d.Vertices[id].Position
		ix.points = append(ix.points, snapPoint{pos: p, kind: SnapEndpoint})
		xs[p.X] = struct{}{}
		ys[p.Y] = struct{}{}
	}

	for _, wid := range d.SortedWallIDs() {
		w := d.Walls[wid]
		a, b, ok := d.WallEndpoints(w)
		if !ok {
			continue
		}
		if w.IsArc {
			mid, _ := d.WallMidpoint(w)
			ix.points = append(ix.points, snapPoint{pos: mid, kind: SnapArcMidpoint, wallID: wid})
			poly, _ := d.WallPolyline(w)
			for i := 0; i+1 < len(poly); i++ {
				ix.segments = append(ix.segments, segment{a: poly[i], b: poly[i+1], wallID: wid})
			}
			continue
		}
		mid := a.Lerp(b, 0.5)
		ix.points = append(ix.points, snapPoint{pos: mid, kind: SnapMidpoint, wallID: wid})
		ix.segments = append(ix.segments, segment{a: a, b: b, wallID: wid})
		xs[mid.X] = struct{}{}
		ys[mid.Y] = struct{}{}
	}

	oids := make([]plan.ID, 0, len(d.Openings))
	for id := range d.Openings {
		oids = append(oids, id)
	}
	sort.Slice(oids, func(i, j int) bool { return oids[i].String() < oids[j].String() })
	for _, id := range oids {
		c, ok := d.OpeningCenter(d.Openings[id])
		if !ok {
			continue
		}
		ix.openings = append(ix.openings, openingCenter{id: id, pos: c})
	}

	ix.xs = sortedKeys(xs)
	ix.ys = sortedKeys(ys)
	ix.buildTree()

	s := ix.Stats()
	applog.WithComponent("spatial").Debug("index built",
		slog.Int("points", s.Points), slog.Int("segments", s.Segments), slog.Int("openings", s.Openings))
}

// buildTree inserts one quadtree point per distinct location; its data lists the
// indices of the snap points sharing that location.
func (ix *Index) buildTree() {
	pts := make([]geom.Vec2, len(ix.points))
	for i, p := range ix.points {
		pts[i] = p.pos
	}
	bounds, ok := geom.BoundsOf(pts...)
	if !ok {
		return
	}
	bounds = bounds.Expand(treeMargin)
	c := bounds.Center()
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(c.X, c.Y, nil),
		quadtree.NewPoint(bounds.Width()/2, bounds.Height()/2, nil))
	ix.tree = quadtree.New(aabb, 0, nil)

	byPos := map[geom.Vec2][]int{}
	order := make([]geom.Vec2, 0, len(ix.points))
	for i, p := range ix.points {
		if _, seen := byPos[p.pos]; !seen {
			order = append(order, p.pos)
		}
		byPos[p.pos] = append(byPos[p.pos], i)
	}
	for _, pos := range order {
		ix.tree.Insert(quadtree.NewPoint(pos.X, pos.Y, byPos[pos]))
	}
}

func sortedKeys(m map[float64]struct{}) []float64 {
	out := make([]float64, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// Stats reports the number of cached items.
func (ix *Index) Stats() Stats {
	return Stats{
		Points:   len(ix.points),
		Segments: len(ix.segments),
		UniqueX:  len(ix.xs),
		UniqueY:  len(ix.ys),
		Openings: len(ix.openings),
	}
}

// QuerySnap returns the best snap strictly within radius of cursor. Snap points beat
// segment projections regardless of distance; within each group the nearest wins.
func (ix *Index) QuerySnap(cursor geom.Vec2, radius float64) SnapResult {
	if radius <= 0 {
		return SnapResult{}
	}
	if r, ok := ix.nearestPoint(cursor, radius); ok {
		return r
	}
	best := SnapResult{Distance: radius}
	for _, s := range ix.segments {
		p := geom.ClosestPointOnSegment(cursor, s.a, s.b)
		if d := cursor.Dist(p); d < best.Distance {
			best = SnapResult{Valid: true, Location: p, Distance: d, Kind: SnapProjection, WallID: s.wallID}
		}
	}
	if !best.Valid {
		return SnapResult{}
	}
	return best
}

func (ix *Index) nearestPoint(cursor geom.Vec2, radius float64) (SnapResult, bool) {
	if ix.tree == nil {
		return SnapResult{}, false
	}
	box := quadtree.NewAABB(
		quadtree.NewPoint(cursor.X, cursor.Y, nil),
		quadtree.NewPoint(radius, radius, nil))
	bestIdx := -1
	bestDist := radius
	for _, qp := range ix.tree.Search(box) {
		for _, i := range qp.Data().([]int) {
			d := cursor.Dist(ix.points[i].pos)
			if d < bestDist || (d == bestDist && bestIdx >= 0 && i < bestIdx) {
				bestIdx, bestDist = i, d
			}
		}
	}
	if bestIdx < 0 {
		return SnapResult{}, false
	}
	p := ix.points[bestIdx]
	return SnapResult{Valid: true, Location: p.pos, Distance: bestDist, Kind: p.kind, WallID: p.wallID}, true
}

// QueryAlignment snaps each axis of cursor independently to the nearest cached X or Y
// coordinate strictly within radius.
func (ix *Index) QueryAlignment(cursor geom.Vec2, radius float64) (geom.Vec2, AlignResult) {
	out := cursor
	var res AlignResult
	if x, ok := nearestValue(ix.xs, cursor.X, radius); ok {
		out.X, res.X = x, true
	}
	if y, ok := nearestValue(ix.ys, cursor.Y, radius); ok {
		out.Y, res.Y = y, true
	}
	return out, res
}

func nearestValue(vals []float64, v, radius float64) (float64, bool) {
	best, bestDist := 0.0, radius
	found := false
	for _, c := range vals {
		if d := math.Abs(c - v); d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

// HitTestWall returns the wall whose nearest segment is within tol of p.
func (ix *Index) HitTestWall(p geom.Vec2, tol float64) (plan.ID, bool) {
	var best plan.ID
	bestDist := math.Inf(1)
	for _, s := range ix.segments {
		if d := geom.DistancePointToSegment(p, s.a, s.b); d <= tol && d < bestDist {
			best, bestDist = s.wallID, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// HitTestWallsInRect returns the walls with a segment that has an endpoint inside the
// rectangle or crosses one of its edges. Each wall appears once, in index order.
func (ix *Index) HitTestWallsInRect(lo, hi geom.Vec2) []plan.ID {
	r := geom.RectFromPoints(lo, hi)
	seen := map[plan.ID]struct{}{}
	var out []plan.ID
	for _, s := range ix.segments {
		if _, dup := seen[s.wallID]; dup {
			continue
		}
		if geom.SegmentTouchesRect(s.a, s.b, r) {
			seen[s.wallID] = struct{}{}
			out = append(out, s.wallID)
		}
	}
	return out
}

// HitTestOpening returns the opening whose center is nearest p within tol.
// Only the center is tested, not the opening's extent along the wall.
func (ix *Index) HitTestOpening(p geom.Vec2, tol float64) (plan.ID, bool) {
	var best plan.ID
	bestDist := math.Inf(1)
	for _, o := range ix.openings {
		if d := p.Dist(o.pos); d <= tol && d < bestDist {
			best, bestDist = o.id, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// HitTestOpeningsInRect returns the openings whose center lies inside the rectangle.
func (ix *Index) HitTestOpeningsInRect(lo, hi geom.Vec2) []plan.ID {
	r := geom.RectFromPoints(lo, hi)
	var out []plan.ID
	for _, o := range ix.openings {
		if r.Contains(o.pos) {
			out = append(out, o.id)
		}
	}
	return out
}
