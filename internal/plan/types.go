/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package plan

// This file defines the plan data model. Every entity is keyed by a client-generated
// UUID; references between entities are plain IDs that consumers resolve through Data
// and skip when missing.

import (
	"github.com/google/uuid"

	"gofloorplan/internal/geom"
)

// FormatVersion is written into every serialized plan.
const FormatVersion = 1

// ID identifies an entity. It serializes as the canonical UUID string.
type ID = uuid.UUID

// NilID is the zero ID; it never names an entity.
var NilID = uuid.Nil

// NewID returns a fresh random ID.
func NewID() ID { return uuid.New() }

// ParseID parses the canonical string form.
func ParseID(s string) (ID, error) { return uuid.Parse(s) }

// Vertex is a named 2D point anchoring wall endpoints.
type Vertex struct {
	ID       ID        `json:"id"`
	Position geom.Vec2 `json:"position"`
}

// Wall is a straight or circular-arc partition between two vertices.
// For arcs the curve is centered at ArcCenter and sweeps ArcSweepDeg (CCW positive)
// starting at the angle from the center to VertexA.
type Wall struct {
	ID             ID           `json:"id"`
	VertexA        ID           `json:"vertexA"`
	VertexB        ID           `json:"vertexB"`
	ThicknessCm    float64      `json:"thicknessCm"`
	HeightCm       float64      `json:"heightCm"`
	BaseZCm        float64      `json:"baseZCm"`
	IsArc          bool         `json:"isArc,omitempty"`
	ArcCenter      geom.Vec2    `json:"arcCenter"`
	ArcSweepDeg    float64      `json:"arcSweepDeg,omitempty"`
	ArcNumSegments int          `json:"arcNumSegments,omitempty"`
	Finishes       WallFinishes `json:"finishes"`
	Skirting       Skirting     `json:"skirting"`
}

// WallFinishes holds opaque catalog IDs per wall face; empty means default finish.
type WallFinishes struct {
	Left             string `json:"left,omitempty"`
	Right            string `json:"right,omitempty"`
	Top              string `json:"top,omitempty"`
	LeftCap          string `json:"leftCap,omitempty"`
	RightCap         string `json:"rightCap,omitempty"`
	LeftSkirting     string `json:"leftSkirting,omitempty"`
	RightSkirting    string `json:"rightSkirting,omitempty"`
	LeftSkirtingTop  string `json:"leftSkirtingTop,omitempty"`
	RightSkirtingTop string `json:"rightSkirtingTop,omitempty"`
	LeftSkirtingCap  string `json:"leftSkirtingCap,omitempty"`
	RightSkirtingCap string `json:"rightSkirtingCap,omitempty"`
}

// Skirting describes the baseboards along a wall.
type Skirting struct {
	HasLeft       bool    `json:"hasLeft,omitempty"`
	HasRight      bool    `json:"hasRight,omitempty"`
	HasCap        bool    `json:"hasCap,omitempty"`
	LeftHeightCm  float64 `json:"leftHeightCm"`
	RightHeightCm float64 `json:"rightHeightCm"`
	CapHeightCm   float64 `json:"capHeightCm"`
	ThicknessCm   float64 `json:"thicknessCm"`
}

// Default wall dimensions used by drawing tools.
const (
	DefaultWallThicknessCm = 20
	DefaultWallHeightCm    = 300
)

// DefaultWall returns a straight wall between a and b with default dimensions and a fresh ID.
func DefaultWall(a, b ID) Wall {
	return Wall{
		ID:          NewID(),
		VertexA:     a,
		VertexB:     b,
		ThicknessCm: DefaultWallThicknessCm,
		HeightCm:    DefaultWallHeightCm,
		Skirting:    Skirting{LeftHeightCm: 10, RightHeightCm: 10, CapHeightCm: 10, ThicknessCm: 1.5},
	}
}

// OpeningKind distinguishes doors from windows; the kernel treats both alike.
type OpeningKind string

const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// Opening is a void cut into a wall. OffsetCm is measured from VertexA along the wall.
type Opening struct {
	ID           ID          `json:"id"`
	WallID       ID          `json:"wallId"`
	OffsetCm     float64     `json:"offsetCm"`
	WidthCm      float64     `json:"widthCm"`
	HeightCm     float64     `json:"heightCm"`
	SillHeightCm float64     `json:"sillHeightCm"`
	Kind         OpeningKind `json:"kind,omitempty"`
}

// Interval returns the opening's extent along its wall.
func (o Opening) Interval() geom.Interval {
	return geom.Interval{Start: o.OffsetCm, End: o.OffsetCm + o.WidthCm}
}

// HostType names the surface an object instance is attached to.
type HostType string

const (
	HostFloor   HostType = "floor"
	HostWall    HostType = "wall"
	HostCeiling HostType = "ceiling"
)

// Transform places an object instance in plan space.
type Transform struct {
	Location    geom.Vec2 `json:"location"`
	ZCm         float64   `json:"zCm"`
	RotationDeg float64   `json:"rotationDeg"`
	Scale       float64   `json:"scale"`
}

// ObjectInstance is a placed catalog product. ProductTypeID is opaque to the kernel.
// GeneratedByRunID marks instances produced from a cabinet run; those may be
// regenerated or deleted together with the run.
type ObjectInstance struct {
	ID               ID        `json:"id"`
	ProductTypeID    string    `json:"productTypeId"`
	Transform        Transform `json:"transform"`
	HostType         HostType  `json:"hostType"`
	HostID           *ID       `json:"hostId,omitempty"`
	GeneratedByRunID *ID       `json:"generatedByRunId,omitempty"`
}

// CabinetRun is a declarative run of cabinets along a wall, solved outside the kernel.
type CabinetRun struct {
	ID            ID      `json:"id"`
	HostWallID    ID      `json:"hostWallId"`
	StartOffsetCm float64 `json:"startOffsetCm"`
	EndOffsetCm   float64 `json:"endOffsetCm"`
	DepthCm       float64 `json:"depthCm"`
	HeightCm      float64 `json:"heightCm"`
	ProductTypeID string  `json:"productTypeId,omitempty"`
}

// Data is the aggregate root: one ID-keyed mapping per entity kind.
type Data struct {
	Version  int                   `json:"version"`
	Vertices map[ID]Vertex         `json:"vertices"`
	Walls    map[ID]Wall           `json:"walls"`
	Openings map[ID]Opening        `json:"openings"`
	Objects  map[ID]ObjectInstance `json:"objects"`
	Runs     map[ID]CabinetRun     `json:"runs"`
}

// NewData returns an empty plan with all mappings allocated.
func NewData() *Data {
	d := &Data{Version: FormatVersion}
	d.normalize()
	return d
}

func (d *Data) normalize() {
	if d.Version == 0 {
		d.Version = FormatVersion
	}
	if d.Vertices == nil {
		d.Vertices = map[ID]Vertex{}
	}
	if d.Walls == nil {
		d.Walls = map[ID]Wall{}
	}
	if d.Openings == nil {
		d.Openings = map[ID]Opening{}
	}
	if d.Objects == nil {
		d.Objects = map[ID]ObjectInstance{}
	}
	if d.Runs == nil {
		d.Runs = map[ID]CabinetRun{}
	}
}

// Clone returns a deep copy.
func (d *Data) Clone() *Data {
	c := &Data{
		Version:  d.Version,
		Vertices: make(map[ID]Vertex, len(d.Vertices)),
		Walls:    make(map[ID]Wall, len(d.Walls)),
		Openings: make(map[ID]Opening, len(d.Openings)),
		Objects:  make(map[ID]ObjectInstance, len(d.Objects)),
		Runs:     make(map[ID]CabinetRun, len(d.Runs)),
	}
	for k, v := range d.Vertices {
		c.Vertices[k] = v
	}
	for k, v := range d.Walls {
		c.Walls[k] = v
	}
	for k, v := range d.Openings {
		c.Openings[k] = v
	}
	for k, v := range d.Objects {
		v.HostID = cloneID(v.HostID)
		v.GeneratedByRunID = cloneID(v.GeneratedByRunID)
		c.Objects[k] = v
	}
	for k, v := range d.Runs {
		c.Runs[k] = v
	}
	return c
}

func cloneID(p *ID) *ID {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Counts summarizes the plan for logs and CLI output.
type Counts struct {
	Vertices, Walls, Openings, Objects, Runs int
}

func (d *Data) Counts() Counts {
	return Counts{len(d.Vertices), len(d.Walls), len(d.Openings), len(d.Objects), len(d.Runs)}
}
