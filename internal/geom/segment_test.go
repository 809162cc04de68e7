/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

func TestDistanceAndClosestPoint(t *testing.T) {
	a, b := V(0, 0), V(100, 0)
	assert.InDelta(t, 50, DistancePointToSegment(V(50, 50), a, b), tol)
	assert.True(t, ClosestPointOnSegment(V(50, 50), a, b).NearlyEqual(V(50, 0), 1e-9))
	// clamped beyond the end
	assert.True(t, ClosestPointOnSegment(V(150, 10), a, b).NearlyEqual(b, 1e-9))
	// degenerate segment returns a
	assert.Equal(t, V(1, 1), ClosestPointOnSegment(V(5, 5), V(1, 1), V(1, 1)))
}

func TestWallNormals(t *testing.T) {
	l, r := WallNormals(V(0, 0), V(100, 0))
	assert.True(t, l.NearlyEqual(V(0, 1), 1e-9), "left=%v", l)
	assert.True(t, r.NearlyEqual(V(0, -1), 1e-9), "right=%v", r)
}

func TestSegmentIntersection(t *testing.T) {
	p, ok := SegmentIntersection(V(0, 0), V(100, 0), V(50, -50), V(50, 50))
	require.True(t, ok)
	assert.True(t, p.NearlyEqual(V(50, 0), 1e-9), "p=%v", p)

	_, ok = SegmentIntersection(V(0, 0), V(100, 0), V(0, 10), V(100, 10))
	assert.False(t, ok, "parallel")
	// touching at a shared endpoint does not count
	_, ok = SegmentIntersection(V(0, 0), V(100, 0), V(100, 0), V(100, 100))
	assert.False(t, ok, "endpoint touch")
	_, ok = SegmentIntersection(V(0, 0), V(10, 0), V(50, -50), V(50, 50))
	assert.False(t, ok, "disjoint")
}

func TestLineCircleIntersections(t *testing.T) {
	us := LineCircleIntersections(V(-200, 0), V(200, 0), V(0, 0), 100)
	require.Len(t, us, 2)
	assert.InDelta(t, 0.25, us[0], tol)
	assert.InDelta(t, 0.75, us[1], tol)
	assert.Empty(t, LineCircleIntersections(V(-200, 500), V(200, 500), V(0, 0), 100))
}

func TestRectSegmentTouch(t *testing.T) {
	r := RectFromPoints(V(10, 10), V(0, 0))
	assert.True(t, SegmentTouchesRect(V(5, 5), V(50, 50), r), "endpoint inside")
	assert.True(t, SegmentTouchesRect(V(-10, 5), V(20, 5), r), "crossing")
	assert.False(t, SegmentTouchesRect(V(20, 20), V(30, 30), r), "far")
	assert.True(t, r.Expand(5).Contains(V(-4, -4)))
}
