/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"sort"

	"github.com/golang/geo/r1"
)

// Interval is a closed range [Start, End] along a wall's length axis.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Len returns End-Start.
func (iv Interval) Len() float64 { return iv.End - iv.Start }

// SolidIntervals returns the parts of [0, length] not covered by any hole, ascending.
// Holes are clamped to the wall; holes that collapse after clamping are ignored.
// Touching or overlapping holes merge.
func SolidIntervals(length float64, holes []Interval) []Interval {
	if length <= 0 {
		return nil
	}
	wall := r1.Interval{Lo: 0, Hi: length}
	clamped := make([]r1.Interval, 0, len(holes))
	for _, h := range holes {
		iv := wall.Intersection(r1.Interval{Lo: h.Start, Hi: h.End})
		if iv.Length() <= 0 {
			continue
		}
		clamped = append(clamped, iv)
	}
	sort.Slice(clamped, func(i, j int) bool { return clamped[i].Lo < clamped[j].Lo })

	var merged []r1.Interval
	for _, h := range clamped {
		if n := len(merged); n > 0 && h.Lo <= merged[n-1].Hi {
			merged[n-1] = merged[n-1].Union(h)
			continue
		}
		merged = append(merged, h)
	}

	var solid []Interval
	cur := 0.0
	for _, h := range merged {
		if h.Lo > cur {
			solid = append(solid, Interval{Start: cur, End: h.Lo})
		}
		if h.Hi > cur {
			cur = h.Hi
		}
	}
	if cur < length {
		solid = append(solid, Interval{Start: cur, End: length})
	}
	return solid
}

// CenteredSpan returns a span of width centered on at, shifted as needed to stay within
// [0, length]. It fails when width is not positive or does not fit.
func CenteredSpan(length, at, width float64) (Interval, bool) {
	if width <= 0 || width > length {
		return Interval{}, false
	}
	start := r1.Interval{Lo: 0, Hi: length - width}.ClampPoint(at - width/2)
	return Interval{Start: start, End: start + width}, true
}
