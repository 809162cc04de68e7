/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export draws a plan as a 2D floor drawing: PDF, SVG and PNG.
// All formats share one outline: wall bands split at their openings, opening gaps and
// optional length labels, mapped from plan centimeters (Y up) to page units (Y down).
package export

import (
	"fmt"
	"math"

	"gofloorplan/internal/config"
	"gofloorplan/internal/geom"
	"gofloorplan/internal/plan"
)

// Options controls the mapping from plan space to output units.
type Options struct {
	// PxPerCm scales plan centimeters to output units (pixels or points).
	PxPerCm float64
	// MarginPx pads the drawing on every side.
	MarginPx float64
	// Dimensions draws a length label on every wall.
	Dimensions bool
	Title      string
}

func DefaultOptions() Options { return OptionsFromConfig(config.Defaults().Export) }

func OptionsFromConfig(c config.ExportConfig) Options {
	return Options{PxPerCm: c.PxPerCm, MarginPx: c.MarginPx, Dimensions: c.Dimensions}
}

func (o Options) normalized() Options {
	if o.PxPerCm <= 0 {
		o.PxPerCm = 1
	}
	if o.MarginPx < 0 {
		o.MarginPx = 0
	}
	return o
}

// Piece is one solid stretch of a wall band as a closed polygon in plan space.
type Piece struct {
	WallID plan.ID
	Poly   []geom.Vec2
}

// Gap is the centerline span of an opening.
type Gap struct {
	OpeningID plan.ID
	Kind      plan.OpeningKind
	A, B      geom.Vec2
}

// Label is a wall length annotation anchored at the wall midpoint.
type Label struct {
	WallID plan.ID
	Pos    geom.Vec2
	Text   string
}

// Outline is the drawable content of a plan.
type Outline struct {
	Pieces []Piece
	Gaps   []Gap
	Labels []Label
	Bounds geom.Rect
	Empty  bool
}

// BuildOutline collects the drawing of every wall with resolvable vertices, in wall ID order.
func BuildOutline(d *plan.Data) Outline {
	out := Outline{Empty: true}
	var pts []geom.Vec2
	for _, id := range d.SortedWallIDs() {
		w := d.Walls[id]
		length, ok := d.WallLength(w)
		if !ok || length < geom.SmallNumber {
			continue
		}
		solid, _ := d.SolidIntervals(w)
		for _, iv := range solid {
			poly := band(d, w, length, iv)
			if len(poly) < 3 {
				continue
			}
			out.Pieces = append(out.Pieces, Piece{WallID: id, Poly: poly})
			pts = append(pts, poly...)
		}
		for _, o := range d.OpeningsOnWall(id) {
			s := math.Max(0, o.OffsetCm)
			e := math.Min(length, o.OffsetCm+o.WidthCm)
			if e <= s {
				continue
			}
			a, _ := d.PointAlongWall(w, s)
			b, _ := d.PointAlongWall(w, e)
			out.Gaps = append(out.Gaps, Gap{OpeningID: o.ID, Kind: o.Kind, A: a, B: b})
		}
		if mid, ok := d.WallMidpoint(w); ok {
			out.Labels = append(out.Labels, Label{WallID: id, Pos: mid, Text: FormatLength(length)})
		}
	}
	if r, ok := geom.BoundsOf(pts...); ok {
		out.Bounds, out.Empty = r, false
	}
	return out
}

// FormatLength renders a length in centimeters for labels.
func FormatLength(cm float64) string {
	if cm >= 100 {
		return fmt.Sprintf("%.2f m", cm/100)
	}
	return fmt.Sprintf("%.0f cm", cm)
}

// band returns the polygon of the wall between distances iv.Start and iv.End from vertex A:
// the left edge forward, then the right edge backward.
func band(d *plan.Data, w plan.Wall, length float64, iv geom.Interval) []geom.Vec2 {
	n := 1
	if w.IsArc {
		segs := w.ArcNumSegments
		if segs <= 0 {
			segs = geom.ArcSegmentCount(w.ArcSweepDeg)
		}
		n = int(math.Ceil(float64(segs) * iv.Len() / length))
		if n < 1 {
			n = 1
		}
	}
	a, b, _ := d.WallEndpoints(w)
	half := w.ThicknessCm / 2
	left := make([]geom.Vec2, 0, n+1)
	right := make([]geom.Vec2, 0, n+1)
	for i := 0; i <= n; i++ {
		p, _ := d.PointAlongWall(w, iv.Start+iv.Len()*float64(i)/float64(n))
		nl := leftNormal(w, a, b, p)
		left = append(left, p.Add(nl.Scale(half)))
		right = append(right, p.Sub(nl.Scale(half)))
	}
	poly := left
	for i := len(right) - 1; i >= 0; i-- {
		poly = append(poly, right[i])
	}
	return poly
}

func leftNormal(w plan.Wall, a, b, p geom.Vec2) geom.Vec2 {
	if !w.IsArc {
		l, _ := geom.WallNormals(a, b)
		return l
	}
	radial := p.Sub(w.ArcCenter).Normalize()
	if w.ArcSweepDeg > 0 {
		// counter-clockwise travel turns left toward the center
		return radial.Scale(-1)
	}
	return radial
}

// view maps plan space onto an output canvas with Y pointing down.
type view struct {
	scale, margin float64
	minX, maxY    float64
	width, height float64
}

func newView(o Outline, opt Options) view {
	v := view{scale: opt.PxPerCm, margin: opt.MarginPx}
	if !o.Empty {
		v.minX, v.maxY = o.Bounds.Min.X, o.Bounds.Max.Y
		v.width = o.Bounds.Width() * v.scale
		v.height = o.Bounds.Height() * v.scale
	}
	v.width = math.Max(1, v.width+2*v.margin)
	v.height = math.Max(1, v.height+2*v.margin)
	return v
}

func (v view) at(p geom.Vec2) (x, y float64) {
	return (p.X-v.minX)*v.scale + v.margin, (v.maxY-p.Y)*v.scale + v.margin
}
