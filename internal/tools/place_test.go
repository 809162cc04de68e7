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

func TestPlaceToolNeedsProduct(t *testing.T) {
	pt := NewPlaceTool()
	m, doc := newTestManager(t, pt)
	require.NoError(t, m.Activate("place"))

	click(m, 100, 100)
	assert.Empty(t, doc.Data().Objects)
	_, ok := pt.Preview()
	assert.False(t, ok)
}

func TestPlaceToolPlacesOnFloor(t *testing.T) {
	pt := NewPlaceTool()
	m, doc := newTestManager(t, pt)
	require.NoError(t, m.Activate("place"))
	pt.SetProduct("chair")
	pt.SetRotation(90)

	m.Dispatch(ev(ActionMove, 123, 47))
	p, ok := pt.Preview()
	require.True(t, ok)
	assert.Equal(t, geom.V(120, 50), p)

	click(m, 123, 47)
	objs := doc.Data().Objects
	require.Len(t, objs, 1)
	o, ok := objs[pt.Last()]
	require.True(t, ok)
	assert.Equal(t, "chair", o.ProductTypeID)
	assert.Equal(t, plan.HostFloor, o.HostType)
	assert.Nil(t, o.HostID)
	assert.Equal(t, plan.Transform{Location: geom.V(120, 50), RotationDeg: 90, Scale: 1}, o.Transform)
	assert.Equal(t, "Place Object", doc.UndoDescription())

	// a press alone places nothing
	m.Dispatch(ev(ActionDown, 300, 300))
	assert.Len(t, doc.Data().Objects, 1)
	require.True(t, doc.Undo())
	assert.Empty(t, doc.Data().Objects)
}

func TestOpeningToolCentersOnClick(t *testing.T) {
	ot := NewOpeningTool()
	m, doc := newTestManager(t, ot)
	w := seedWall(t, doc, 0, 0, 400, 0)
	require.NoError(t, m.Activate("opening"))

	click(m, 200, 5)
	door, ok := doc.Data().Openings[ot.Last()]
	require.True(t, ok)
	assert.Equal(t, w.ID, door.WallID)
	assert.Equal(t, plan.OpeningDoor, door.Kind)
	assert.InDelta(t, 155, door.OffsetCm, 1e-6)
	assert.Equal(t, float64(DoorWidthCm), door.WidthCm)
	assert.Equal(t, float64(DoorHeightCm), door.HeightCm)
	assert.Equal(t, "Add Opening", doc.UndoDescription())

	// overlapping the door
	click(m, 230, 0)
	assert.Len(t, doc.Data().Openings, 1)

	// near the start the opening is pushed onto the wall
	click(m, 10, 0)
	first := doc.Data().Openings[ot.Last()]
	assert.Zero(t, first.OffsetCm)

	ot.SetKind(plan.OpeningWindow)
	click(m, 350, 0)
	win := doc.Data().Openings[ot.Last()]
	assert.Equal(t, plan.OpeningWindow, win.Kind)
	assert.InDelta(t, 280, win.OffsetCm, 1e-6)
	assert.Equal(t, float64(WindowSillCm), win.SillHeightCm)
	assert.Len(t, doc.Data().Openings, 3)

	solid, ok := doc.Data().SolidIntervals(w)
	require.True(t, ok)
	assert.Equal(t, []geom.Interval{{Start: 90, End: 155}, {Start: 245, End: 280}}, solid)
}

func TestOpeningToolRejectsMissesAndShortWalls(t *testing.T) {
	ot := NewOpeningTool()
	m, doc := newTestManager(t, ot)
	seedWall(t, doc, 0, 300, 50, 300)
	require.NoError(t, m.Activate("opening"))

	click(m, 200, 100)
	click(m, 25, 300)
	assert.Empty(t, doc.Data().Openings)

	ot.SetSize(40, 0)
	click(m, 25, 300)
	o := doc.Data().Openings[ot.Last()]
	assert.Equal(t, 40.0, o.WidthCm)
	assert.Equal(t, float64(DoorHeightCm), o.HeightCm)
	assert.InDelta(t, 5, o.OffsetCm, 1e-6)
}

func TestOpeningToolOnArcWall(t *testing.T) {
	ot := NewOpeningTool()
	m, doc := newTestManager(t, ot)
	a := plan.Vertex{ID: plan.NewID(), Position: geom.V(100, 0)}
	b := plan.Vertex{ID: plan.NewID(), Position: geom.V(-100, 0)}
	w := plan.DefaultWall(a.ID, b.ID)
	w.IsArc = true
	w.ArcSweepDeg = 180
	require.True(t, doc.Submit(plan.Macro("seed", plan.AddOrUpdateVertex(a), plan.AddOrUpdateVertex(b), plan.AddOrUpdateWall(w))))
	require.NoError(t, m.Activate("opening"))

	click(m, 0, 100)
	o, ok := doc.Data().Openings[ot.Last()]
	require.True(t, ok)
	center, ok := doc.Data().OpeningCenter(o)
	require.True(t, ok)
	assert.True(t, center.NearlyEqual(geom.V(0, 100), 1e-6), "center=%v", center)
}

func TestRunToolTwoClicksOnOneWall(t *testing.T) {
	rt := NewRunTool()
	m, doc := newTestManager(t, rt)
	w := seedWall(t, doc, 0, 0, 400, 0)
	other := seedWall(t, doc, 0, 200, 400, 200)
	require.NoError(t, m.Activate("run"))
	rt.SetProduct("base-600")

	click(m, 250, 5)
	assert.True(t, rt.Pending())
	// switching walls restarts the run there
	click(m, 100, 200)
	click(m, 50, 0)
	click(m, 250, 0)
	assert.False(t, rt.Pending())

	runs := doc.Data().Runs
	require.Len(t, runs, 1)
	r := runs[rt.Last()]
	assert.Equal(t, w.ID, r.HostWallID)
	assert.InDelta(t, 50, r.StartOffsetCm, 1e-6)
	assert.InDelta(t, 250, r.EndOffsetCm, 1e-6)
	assert.Equal(t, float64(RunDepthCm), r.DepthCm)
	assert.Equal(t, float64(RunHeightCm), r.HeightCm)
	assert.Equal(t, "base-600", r.ProductTypeID)
	assert.Equal(t, "Add Cabinet Run", doc.UndoDescription())

	// clicking backwards still yields an ascending span
	rt.SetSize(35, 0)
	click(m, 300, 200)
	click(m, 120, 200)
	r = doc.Data().Runs[rt.Last()]
	assert.Equal(t, other.ID, r.HostWallID)
	assert.InDelta(t, 120, r.StartOffsetCm, 1e-6)
	assert.InDelta(t, 300, r.EndOffsetCm, 1e-6)
	assert.Equal(t, 35.0, r.DepthCm)

	click(m, 10, 0)
	m.Dispatch(ev(ActionCancel, 0, 0))
	assert.False(t, rt.Pending())
}

func TestDeleteSelectionTakesRunsAndGeneratedObjects(t *testing.T) {
	st := NewSelectTool()
	m, doc := newTestManager(t, st)
	w := seedWall(t, doc, 0, 0, 400, 0)
	run := plan.CabinetRun{ID: plan.NewID(), HostWallID: w.ID, StartOffsetCm: 0, EndOffsetCm: 120, DepthCm: 60, HeightCm: 90}
	gen := plan.ObjectInstance{ID: plan.NewID(), ProductTypeID: "base-600", HostType: plan.HostFloor, GeneratedByRunID: &run.ID}
	loose := plan.ObjectInstance{ID: plan.NewID(), ProductTypeID: "chair", HostType: plan.HostFloor}
	require.True(t, doc.Submit(plan.Macro("seed",
		plan.AddOrUpdateRun(run), plan.AddOrUpdateObject(gen), plan.AddOrUpdateObject(loose))))
	require.NoError(t, m.Activate("select"))

	click(m, 200, 0)
	before := doc.Snapshot()
	require.True(t, st.DeleteSelection())
	d := doc.Data()
	assert.Empty(t, d.Walls)
	assert.Empty(t, d.Runs)
	assert.Equal(t, []plan.ID{loose.ID}, keys(d.Objects))

	require.True(t, doc.Undo())
	assert.Equal(t, before, doc.Data())
}

func keys[V any](m map[plan.ID]V) []plan.ID {
	out := make([]plan.ID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
