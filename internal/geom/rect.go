/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Min Vec2
	Max Vec2
}

// RectFromPoints returns the rectangle spanned by two arbitrary corners.
func RectFromPoints(a, b Vec2) Rect {
	return Rect{
		Min: Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// BoundsOf returns the bounding rectangle of pts. ok is false for an empty slice.
func BoundsOf(pts ...Vec2) (r Rect, ok bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	r = Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r = r.Union(Rect{Min: p, Max: p})
	}
	return r, true
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Vec2    { return r.Min.Lerp(r.Max, 0.5) }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X <= r.Max.X && p.Y <= r.Max.Y
}

// Expand grows r by d on all sides (negative shrinks).
func (r Rect) Expand(d float64) Rect {
	return Rect{Min: Vec2{r.Min.X - d, r.Min.Y - d}, Max: Vec2{r.Max.X + d, r.Max.Y + d}}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Vec2{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Intersects reports whether the two rectangles overlap (touching counts).
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X && r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Edges returns the four edges counter-clockwise starting at Min.
func (r Rect) Edges() [4][2]Vec2 {
	bl := r.Min
	br := Vec2{r.Max.X, r.Min.Y}
	tr := r.Max
	tl := Vec2{r.Min.X, r.Max.Y}
	return [4][2]Vec2{{bl, br}, {br, tr}, {tr, tl}, {tl, bl}}
}

// SegmentTouchesRect reports whether a or b lies inside r or ab crosses one of r's edges.
func SegmentTouchesRect(a, b Vec2, r Rect) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	for _, e := range r.Edges() {
		if _, ok := SegmentIntersection(a, b, e[0], e[1]); ok {
			return true
		}
	}
	return false
}
