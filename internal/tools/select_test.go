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

	"gofloorplan/internal/plan"
)

func TestSelectToolClickModifiers(t *testing.T) {
	st := NewSelectTool()
	m, doc := newTestManager(t, st)
	w1 := seedWall(t, doc, 0, 0, 200, 0)
	w2 := seedWall(t, doc, 0, 100, 200, 100)
	require.NoError(t, m.Activate("select"))
	changes := 0
	st.OnChange = func() { changes++ }

	click(m, 60, 5)
	assert.Equal(t, []plan.ID{w1.ID}, st.SelectedWalls())

	e := ev(ActionDown, 60, 95)
	e.Shift = true
	m.Dispatch(e)
	m.Dispatch(ev(ActionUp, 60, 95))
	assert.ElementsMatch(t, []plan.ID{w1.ID, w2.ID}, st.SelectedWalls())

	e = ev(ActionDown, 60, 5)
	e.Alt = true
	m.Dispatch(e)
	m.Dispatch(ev(ActionUp, 60, 5))
	assert.Equal(t, []plan.ID{w2.ID}, st.SelectedWalls())

	click(m, 60, 5)
	assert.Equal(t, []plan.ID{w1.ID}, st.SelectedWalls(), "plain click replaces")

	click(m, 500, 500)
	assert.False(t, st.HasSelection())
	assert.Equal(t, 5, changes)
}

func TestSelectToolOpeningsWinOverWalls(t *testing.T) {
	st := NewSelectTool()
	m, doc := newTestManager(t, st)
	w := seedWall(t, doc, 0, 0, 200, 0)
	o := plan.Opening{ID: plan.NewID(), WallID: w.ID, OffsetCm: 50, WidthCm: 100}
	require.True(t, doc.Submit(plan.AddOrUpdateOpening(o)))
	require.NoError(t, m.Activate("select"))

	click(m, 100, 2)
	assert.Equal(t, []plan.ID{o.ID}, st.SelectedOpenings())
	assert.Empty(t, st.SelectedWalls())
}

func TestSelectToolMarqueeAndDelete(t *testing.T) {
	st := NewSelectTool()
	m, doc := newTestManager(t, st)
	w1 := seedWall(t, doc, 0, 0, 200, 0)
	w2 := seedWall(t, doc, 0, 100, 200, 100)
	far := seedWall(t, doc, 1000, 1000, 1200, 1000)
	o := plan.Opening{ID: plan.NewID(), WallID: w1.ID, OffsetCm: 10, WidthCm: 40}
	require.True(t, doc.Submit(plan.AddOrUpdateOpening(o)))
	require.NoError(t, m.Activate("select"))

	m.Dispatch(ev(ActionDown, -10, -10))
	m.Dispatch(ev(ActionMove, 100, 50))
	lo, hi, ok := st.Marquee()
	require.True(t, ok)
	assert.Equal(t, -10.0, lo.X)
	assert.Equal(t, 50.0, hi.Y)
	m.Dispatch(ev(ActionMove, 250, 150))
	m.Dispatch(ev(ActionUp, 250, 150))
	assert.ElementsMatch(t, []plan.ID{w1.ID, w2.ID}, st.SelectedWalls())
	assert.Equal(t, []plan.ID{o.ID}, st.SelectedOpenings())

	before := doc.Snapshot()
	require.True(t, st.DeleteSelection())
	d := doc.Data()
	assert.Len(t, d.Walls, 1)
	assert.Contains(t, d.Walls, far.ID)
	assert.Empty(t, d.Openings)
	assert.False(t, st.HasSelection())
	assert.Equal(t, "Delete Selection", doc.UndoDescription())

	require.True(t, doc.Undo())
	assert.Equal(t, before, doc.Data())
	assert.False(t, st.DeleteSelection(), "nothing selected")
}

func TestSelectToolDeleteSkipsVanishedEntities(t *testing.T) {
	st := NewSelectTool()
	m, doc := newTestManager(t, st)
	w := seedWall(t, doc, 0, 0, 200, 0)
	require.NoError(t, m.Activate("select"))
	click(m, 50, 0)
	require.True(t, doc.Submit(plan.DeleteWall(w.ID)))
	assert.False(t, st.DeleteSelection())
	assert.False(t, st.HasSelection())
}
