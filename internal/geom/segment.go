/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// ProjectT returns the parameter of p's orthogonal projection onto ab, clamped to [0,1].
// ok is false when ab is degenerate.
func ProjectT(p, a, b Vec2) (t float64, ok bool) {
	ab := b.Sub(a)
	lsq := ab.LenSq()
	if lsq < SmallNumber {
		return 0, false
	}
	t = p.Sub(a).Dot(ab) / lsq
	return math.Max(0, math.Min(1, t)), true
}

// ClosestPointOnSegment projects p onto segment ab. A degenerate segment yields a.
func ClosestPointOnSegment(p, a, b Vec2) Vec2 {
	t, ok := ProjectT(p, a, b)
	if !ok {
		return a
	}
	return a.Lerp(b, t)
}

// DistancePointToSegment is the distance from p to its clamped projection on ab.
func DistancePointToSegment(p, a, b Vec2) float64 {
	return p.Dist(ClosestPointOnSegment(p, a, b))
}

// WallNormals returns the unit perpendiculars of a->b: left is counter-clockwise, right clockwise.
func WallNormals(a, b Vec2) (left, right Vec2) {
	d := b.Sub(a).Normalize()
	return Vec2{-d.Y, d.X}, Vec2{d.Y, -d.X}
}

// SegmentIntersection intersects a1b1 with a2b2. Both parameters must lie strictly
// inside (0,1); touching at an endpoint is not an intersection.
func SegmentIntersection(a1, b1, a2, b2 Vec2) (Vec2, bool) {
	d1 := b1.Sub(a1)
	d2 := b2.Sub(a2)
	det := d1.Cross(d2)
	if math.Abs(det) < SmallNumber {
		return Vec2{}, false
	}
	w := a2.Sub(a1)
	t := w.Cross(d2) / det
	u := w.Cross(d1) / det
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return Vec2{}, false
	}
	return a1.Add(d1.Scale(t)), true
}

// LineCircleIntersections returns the parameters u in [0,1] along ab where the segment
// meets the circle (center, r), in ascending order.
func LineCircleIntersections(a, b, center Vec2, r float64) []float64 {
	d := b.Sub(a)
	f := a.Sub(center)
	qa := d.LenSq()
	if qa < SmallNumber || r <= 0 {
		return nil
	}
	qb := 2 * f.Dot(d)
	qc := f.LenSq() - r*r
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	u1 := (-qb - sq) / (2 * qa)
	u2 := (-qb + sq) / (2 * qa)
	var out []float64
	if u1 >= 0 && u1 <= 1 {
		out = append(out, u1)
	}
	if u2 >= 0 && u2 <= 1 && math.Abs(u2-u1) > SmallNumber {
		out = append(out, u2)
	}
	return out
}
