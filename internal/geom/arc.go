/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"

	"github.com/golang/geo/s1"
)

// MaxSweepDeg bounds arc sweeps so a wall can never close into a full circle.
const MaxSweepDeg = 359.9

// arcDirectionEps is the angular slack (radians) when testing whether the
// through-point lies on the counter-clockwise span.
const arcDirectionEps = 0.001

// Arc is a circular arc through three picked points. SweepDeg is signed, CCW positive,
// and starts at the angle from Center to the first point.
type Arc struct {
	Center   Vec2
	Radius   float64
	SweepDeg float64
	Valid    bool
}

// ArcFrom3Points returns the arc that starts at p1, passes through p2 and ends at p3.
// Collinear input yields an invalid arc with zero radius.
func ArcFrom3Points(p1, p2, p3 Vec2) Arc {
	center, ok := circumcenter(p1, p2, p3)
	if !ok {
		return Arc{}
	}
	a1 := NormalizeAngle(math.Atan2(p1.Y-center.Y, p1.X-center.X))
	a2 := NormalizeAngle(math.Atan2(p2.Y-center.Y, p2.X-center.X))
	a3 := NormalizeAngle(math.Atan2(p3.Y-center.Y, p3.X-center.X))

	sweepCCW := a3 - a1
	if sweepCCW < 0 {
		sweepCCW += 2 * math.Pi
	}
	a2FromA1 := a2 - a1
	if a2FromA1 < 0 {
		a2FromA1 += 2 * math.Pi
	}
	sweep := sweepCCW
	if a2FromA1 > sweepCCW+arcDirectionEps {
		sweep = sweepCCW - 2*math.Pi
	}
	deg := ClampSweep(s1.Angle(sweep).Degrees())
	return Arc{Center: center, Radius: center.Dist(p1), SweepDeg: deg, Valid: true}
}

// circumcenter intersects the perpendicular bisectors of p1p2 and p2p3.
func circumcenter(p1, p2, p3 Vec2) (Vec2, bool) {
	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	if math.Abs(d) < SmallNumber {
		return Vec2{}, false
	}
	q1 := p1.LenSq()
	q2 := p2.LenSq()
	q3 := p3.LenSq()
	return Vec2{
		X: (q1*(p2.Y-p3.Y) + q2*(p3.Y-p1.Y) + q3*(p1.Y-p2.Y)) / d,
		Y: (q1*(p3.X-p2.X) + q2*(p1.X-p3.X) + q3*(p2.X-p1.X)) / d,
	}, true
}

// ClampSweep limits a sweep angle to ±MaxSweepDeg.
func ClampSweep(deg float64) float64 {
	return math.Max(-MaxSweepDeg, math.Min(MaxSweepDeg, deg))
}

// NormalizeAngle maps radians into [0, 2π).
func NormalizeAngle(rad float64) float64 {
	a := s1.Angle(rad).Normalized()
	if a < 0 {
		a += 2 * math.Pi
	}
	return a.Radians()
}

// AngleDegrees is the angle of p seen from center, in (-180, 180].
func AngleDegrees(center, p Vec2) float64 {
	return s1.Angle(math.Atan2(p.Y-center.Y, p.X-center.X)).Degrees()
}

// PointFromPolar returns center + r*(cos deg, sin deg).
func PointFromPolar(center Vec2, r, deg float64) Vec2 {
	rad := (s1.Angle(deg) * s1.Degree).Radians()
	return Vec2{center.X + r*math.Cos(rad), center.Y + r*math.Sin(rad)}
}

// ArcSegmentCount is the tessellation density for an arc: one segment per 15°, at least 8.
func ArcSegmentCount(sweepDeg float64) int {
	n := int(math.Ceil(math.Abs(sweepDeg) / 15))
	if n < 8 {
		n = 8
	}
	return n
}

// ArcPoints tessellates an arc into n segments and returns n+1 points, both ends included.
func ArcPoints(center Vec2, r, startDeg, sweepDeg float64, n int) []Vec2 {
	if n <= 0 {
		return nil
	}
	out := make([]Vec2, 0, n+1)
	step := sweepDeg / float64(n)
	for i := 0; i <= n; i++ {
		out = append(out, PointFromPolar(center, r, startDeg+step*float64(i)))
	}
	return out
}

// ArcMidpoint is the point halfway along the sweep.
func ArcMidpoint(center Vec2, r, startDeg, sweepDeg float64) Vec2 {
	return PointFromPolar(center, r, startDeg+sweepDeg/2)
}

// SweepFraction maps p's angle around center onto the sweep that starts at startDeg:
// 0 is the start, 1 the end. Angles outside the span give values outside [0,1].
func SweepFraction(center Vec2, startDeg, sweepDeg float64, p Vec2) float64 {
	if math.Abs(sweepDeg) < SmallNumber {
		return 0
	}
	delta := AngleDegrees(center, p) - startDeg
	if sweepDeg > 0 {
		delta = math.Mod(delta, 360)
		if delta < 0 {
			delta += 360
		}
	} else {
		delta = math.Mod(delta, 360)
		if delta > 0 {
			delta -= 360
		}
	}
	return delta / sweepDeg
}

// ArcLength is |sweep| * r in the same unit as r.
func ArcLength(r, sweepDeg float64) float64 {
	return (s1.Angle(math.Abs(sweepDeg)) * s1.Degree).Radians() * r
}
