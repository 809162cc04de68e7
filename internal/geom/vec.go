/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom holds the stateless 2D math used by the plan kernel.
// All lengths are centimeters and angles are degrees unless a name says otherwise.
package geom

import "math"

const (
	// Epsilon is the tolerance used for parametric comparisons (trim brackets, interior tests).
	Epsilon = 1e-4
	// SmallNumber guards squared lengths and determinants against division by zero.
	SmallNumber = 1e-8
)

// Vec2 is a 2D point or direction in plan space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Cross(b Vec2) float64 { return a.X*b.Y - a.Y*b.X }
func (a Vec2) LenSq() float64       { return a.X*a.X + a.Y*a.Y }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }
func (a Vec2) Dist(b Vec2) float64  { return b.Sub(a).Len() }

// Lerp interpolates from a (t=0) to b (t=1).
func (a Vec2) Lerp(b Vec2, t float64) Vec2 { return a.Add(b.Sub(a).Scale(t)) }

// Normalize returns the unit vector of a, or the zero vector for a degenerate input.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l < SmallNumber {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// NearlyEqual compares component-wise within tol.
func (a Vec2) NearlyEqual(b Vec2, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// NearlyEqual reports whether |a-b| <= Epsilon.
func NearlyEqual(a, b float64) bool { return math.Abs(a-b) <= Epsilon }

// Round rounds v to n decimal places deterministically.
func Round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
