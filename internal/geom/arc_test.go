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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArcMinorSweep(t *testing.T) {
	s := math.Sqrt2 / 2 * 100
	arc := ArcFrom3Points(V(100, 0), V(s, s), V(0, 100))
	require.True(t, arc.Valid)
	assert.True(t, arc.Center.NearlyEqual(V(0, 0), 1e-6), "center=%v", arc.Center)
	assert.InDelta(t, 100, arc.Radius, tol)
	assert.InDelta(t, 90, arc.SweepDeg, tol)
}

func TestArcOppositeSideFlipsSweep(t *testing.T) {
	s := math.Sqrt2 / 2 * 100
	arc := ArcFrom3Points(V(100, 0), V(-s, -s), V(0, 100))
	require.True(t, arc.Valid)
	assert.InDelta(t, -270, arc.SweepDeg, tol)
}

func TestArcClockwiseMinor(t *testing.T) {
	s := math.Sqrt2 / 2 * 100
	arc := ArcFrom3Points(V(0, 100), V(s, s), V(100, 0))
	assert.InDelta(t, -90, arc.SweepDeg, tol)
}

func TestArcCollinearInvalid(t *testing.T) {
	arc := ArcFrom3Points(V(0, 0), V(50, 0), V(100, 0))
	assert.False(t, arc.Valid)
	assert.Zero(t, arc.Radius)
}

func TestArcClampedBelowFullCircle(t *testing.T) {
	// start and end coincide: any other through-point asks for a full turn
	arc := ArcFrom3Points(V(100, 0), V(-100, 0), V(100, 0))
	if arc.Valid {
		assert.LessOrEqual(t, math.Abs(arc.SweepDeg), MaxSweepDeg)
	}
}

func TestArcTessellation(t *testing.T) {
	assert.Equal(t, 8, ArcSegmentCount(90))
	assert.Equal(t, 18, ArcSegmentCount(-270))
	pts := ArcPoints(V(0, 0), 100, 0, 90, 8)
	require.Len(t, pts, 9)
	assert.True(t, pts[0].NearlyEqual(V(100, 0), 1e-9), "first=%v", pts[0])
	assert.True(t, pts[8].NearlyEqual(V(0, 100), 1e-9), "last=%v", pts[8])
}

func TestSweepFraction(t *testing.T) {
	c := V(0, 0)
	assert.InDelta(t, 1, SweepFraction(c, 0, 90, V(0, 100)), tol)
	assert.InDelta(t, 0.5, SweepFraction(c, 0, 90, PointFromPolar(c, 100, 45)), tol)
	assert.InDelta(t, 1, SweepFraction(c, 0, -90, V(0, -100)), tol)
	assert.Greater(t, SweepFraction(c, 0, 90, V(0, -100)), 1.0, "outside the span")
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{2 * math.Pi, 0},
		{5 * math.Pi, math.Pi},
		{-3 * math.Pi / 2, math.Pi / 2},
	}
	for _, c := range cases {
		got := NormalizeAngle(c.in)
		assert.InDelta(t, c.want, got, 1e-9, "in=%v", c.in)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 2*math.Pi)
	}
}

func TestDegreeConversions(t *testing.T) {
	assert.InDelta(t, 90, AngleDegrees(V(0, 0), V(0, 5)), tol)
	assert.InDelta(t, -90, AngleDegrees(V(0, 0), V(0, -5)), tol)
	assert.True(t, PointFromPolar(V(10, 10), 100, 180).NearlyEqual(V(-90, 10), 1e-9))
	assert.InDelta(t, math.Pi*100, ArcLength(100, -180), tol)
}
