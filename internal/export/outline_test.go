/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"math"
	"testing"

	"gofloorplan/internal/geom"
	"gofloorplan/internal/plan"
)

// samplePlan is a 4 m wall along +X with a 90 cm door starting at 1 m.
func samplePlan(t *testing.T) (*plan.Data, plan.Wall, plan.Opening) {
	t.Helper()
	doc := plan.New()
	a := plan.Vertex{ID: plan.NewID(), Position: geom.V(0, 0)}
	b := plan.Vertex{ID: plan.NewID(), Position: geom.V(400, 0)}
	w := plan.DefaultWall(a.ID, b.ID)
	w.ThicknessCm = 20
	door := plan.Opening{ID: plan.NewID(), WallID: w.ID, OffsetCm: 100, WidthCm: 90, HeightCm: 210, Kind: plan.OpeningDoor}
	if !doc.Submit(plan.Macro("seed",
		plan.AddOrUpdateVertex(a), plan.AddOrUpdateVertex(b), plan.AddOrUpdateWall(w), plan.AddOrUpdateOpening(door))) {
		t.Fatalf("seed plan rejected")
	}
	return doc.Data(), w, door
}

func near(t *testing.T, want, got geom.Vec2) {
	t.Helper()
	if !want.NearlyEqual(got, 1e-6) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func nearf(t *testing.T, want, got float64, what string) {
	t.Helper()
	if math.Abs(want-got) > 1e-6 {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
}

func TestBuildOutlineSplitsAtOpenings(t *testing.T) {
	d, w, door := samplePlan(t)
	o := BuildOutline(d)
	if o.Empty || len(o.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d (empty=%v)", len(o.Pieces), o.Empty)
	}
	first := o.Pieces[0].Poly
	if len(first) != 4 {
		t.Fatalf("straight piece should be a quad, got %d points", len(first))
	}
	near(t, geom.V(0, 10), first[0])
	near(t, geom.V(100, 10), first[1])
	near(t, geom.V(100, -10), first[2])
	near(t, geom.V(0, -10), first[3])
	near(t, geom.V(190, 10), o.Pieces[1].Poly[0])
	if o.Pieces[1].WallID != w.ID {
		t.Fatalf("piece wall = %v, want %v", o.Pieces[1].WallID, w.ID)
	}

	if len(o.Gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(o.Gaps))
	}
	if g := o.Gaps[0]; g.OpeningID != door.ID || g.Kind != plan.OpeningDoor {
		t.Fatalf("unexpected gap %+v", g)
	}
	near(t, geom.V(100, 0), o.Gaps[0].A)
	near(t, geom.V(190, 0), o.Gaps[0].B)

	if len(o.Labels) != 1 || o.Labels[0].Text != "4.00 m" {
		t.Fatalf("unexpected labels %+v", o.Labels)
	}
	near(t, geom.V(200, 0), o.Labels[0].Pos)
	near(t, geom.V(0, -10), o.Bounds.Min)
	near(t, geom.V(400, 10), o.Bounds.Max)
}

func TestBuildOutlineArcBand(t *testing.T) {
	doc := plan.New()
	a := plan.Vertex{ID: plan.NewID(), Position: geom.V(100, 0)}
	b := plan.Vertex{ID: plan.NewID(), Position: geom.V(-100, 0)}
	w := plan.DefaultWall(a.ID, b.ID)
	w.ThicknessCm = 20
	w.IsArc = true
	w.ArcSweepDeg = 180
	if !doc.Submit(plan.Macro("seed", plan.AddOrUpdateVertex(a), plan.AddOrUpdateVertex(b), plan.AddOrUpdateWall(w))) {
		t.Fatalf("seed plan rejected")
	}

	o := BuildOutline(doc.Data())
	if len(o.Pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(o.Pieces))
	}
	n := geom.ArcSegmentCount(180)
	poly := o.Pieces[0].Poly
	if len(poly) != 2*(n+1) {
		t.Fatalf("band has %d points, want %d", len(poly), 2*(n+1))
	}
	for i, p := range poly {
		want := 90.0
		if i > n {
			want = 110
		}
		if math.Abs(p.Len()-want) > 1e-6 {
			t.Fatalf("point %d radius = %v, want %v", i, p.Len(), want)
		}
	}
}

func TestBuildOutlineSkipsDanglingAndEmpty(t *testing.T) {
	o := BuildOutline(plan.NewData())
	if !o.Empty || len(o.Pieces) != 0 {
		t.Fatalf("empty plan should give an empty outline: %+v", o)
	}

	d, w, _ := samplePlan(t)
	delete(d.Vertices, w.VertexB)
	o = BuildOutline(d)
	if !o.Empty || len(o.Gaps) != 0 {
		t.Fatalf("dangling wall should be skipped: %+v", o)
	}
}

func TestFormatLength(t *testing.T) {
	if got := FormatLength(350); got != "3.50 m" {
		t.Fatalf("FormatLength(350) = %q", got)
	}
	if got := FormatLength(45); got != "45 cm" {
		t.Fatalf("FormatLength(45) = %q", got)
	}
}

func TestViewFlipsY(t *testing.T) {
	d, _, _ := samplePlan(t)
	v := newView(BuildOutline(d), Options{PxPerCm: 1, MarginPx: 40})
	nearf(t, 480, v.width, "width")
	nearf(t, 100, v.height, "height")
	x, y := v.at(geom.V(0, 10))
	nearf(t, 40, x, "x")
	nearf(t, 40, y, "y")
	x, y = v.at(geom.V(400, -10))
	nearf(t, 440, x, "x")
	nearf(t, 60, y, "y")

	empty := newView(BuildOutline(plan.NewData()), Options{PxPerCm: 1})
	if empty.width != 1 {
		t.Fatalf("empty view width = %v, want 1", empty.width)
	}
}
