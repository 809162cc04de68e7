/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofloorplan/internal/geom"
	"gofloorplan/internal/plan"
)

func wallEnds(t *testing.T, d *plan.Data) [][2]geom.Vec2 {
	t.Helper()
	var out [][2]geom.Vec2
	for _, id := range d.SortedWallIDs() {
		a, b, ok := d.WallEndpoints(d.Walls[id])
		require.True(t, ok)
		out = append(out, [2]geom.Vec2{a, b})
	}
	return out
}

func TestLineToolChainsWalls(t *testing.T) {
	lt := NewLineTool()
	m, doc := newTestManager(t, lt)
	require.NoError(t, m.Activate("line"))

	m.Dispatch(ev(ActionDown, 0, 0))
	m.Dispatch(ev(ActionDown, 100, 0))
	m.Dispatch(ev(ActionDown, 100, 100))
	m.Dispatch(ev(ActionConfirm, 0, 0))

	d := doc.Data()
	assert.Len(t, d.Walls, 2)
	assert.Len(t, d.Vertices, 3, "the chain shares its joint vertex")
	for _, w := range d.Walls {
		assert.Equal(t, 20.0, w.ThicknessCm)
		assert.Equal(t, 300.0, w.HeightCm)
	}
	assert.Equal(t, "Add Wall", doc.UndoDescription())
	_, _, open := lt.Preview()
	assert.False(t, open)

	require.True(t, doc.Undo())
	assert.Len(t, d.Walls, 1)
	assert.Len(t, d.Vertices, 2)
}

func TestLineToolClosesOntoExistingVertex(t *testing.T) {
	m, doc := newTestManager(t, NewLineTool())
	require.NoError(t, m.Activate("line"))
	m.Dispatch(ev(ActionDown, 0, 0))
	m.Dispatch(ev(ActionDown, 100, 0))
	m.Dispatch(ev(ActionDown, 100, 100))
	m.Dispatch(ev(ActionDown, 3, 2))
	m.Dispatch(ev(ActionCancel, 0, 0))

	assert.Len(t, doc.Data().Walls, 3)
	assert.Len(t, doc.Data().Vertices, 3)
}

func TestLineToolOrthoAndShortSegments(t *testing.T) {
	m, doc := newTestManager(t, NewLineTool())
	require.NoError(t, m.Activate("line"))

	m.Dispatch(ev(ActionDown, 0, 0))
	m.Dispatch(ev(ActionDown, 2, 1))
	assert.Empty(t, doc.Data().Walls, "zero-length segment must not be committed")

	e := ev(ActionDown, 97, 13)
	e.Shift = true
	m.Dispatch(e)
	require.Len(t, doc.Data().Walls, 1)
	assert.Equal(t, [][2]geom.Vec2{{geom.V(0, 0), geom.V(100, 0)}}, wallEnds(t, doc.Data()))
}

func TestLineToolCommitLength(t *testing.T) {
	lt := NewLineTool()
	m, doc := newTestManager(t, lt)
	require.NoError(t, m.Activate("line"))
	assert.False(t, lt.CommitLength(100), "no open segment")

	m.Dispatch(ev(ActionDown, 0, 0))
	m.Dispatch(ev(ActionMove, 0, 50))
	require.True(t, lt.CommitLength(250))
	ends := wallEnds(t, doc.Data())
	require.Len(t, ends, 1)
	assert.InDelta(t, 250, ends[0][1].Y, 1e-9)
	assert.InDelta(t, 0, ends[0][1].X, 1e-9)
}
