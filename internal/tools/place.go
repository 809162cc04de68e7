/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tools

import (
	"log/slog"

	"gofloorplan/internal/geom"
	"gofloorplan/internal/plan"
)

// PlaceTool drops catalog products on the floor. Each release places one instance of the
// current product at the grid-rounded cursor; nothing happens until a product is set.
type PlaceTool struct {
	env         *Env
	product     string
	rotationDeg float64

	cursor geom.Vec2
	last   plan.ID
}

func NewPlaceTool() *PlaceTool { return &PlaceTool{} }

func (t *PlaceTool) Name() string { return "place" }

func (t *PlaceTool) Enter(env *Env) { t.env = env }

func (t *PlaceTool) Exit() {}

// SetProduct selects the catalog product to place. An empty ID disables placing.
func (t *PlaceTool) SetProduct(id string) { t.product = id }

func (t *PlaceTool) Product() string { return t.product }

// SetRotation sets the yaw given to subsequently placed instances.
func (t *PlaceTool) SetRotation(deg float64) { t.rotationDeg = deg }

// Preview is where the next instance would land.
func (t *PlaceTool) Preview() (geom.Vec2, bool) { return t.cursor, t.product != "" }

// Last returns the ID of the most recently placed instance, or NilID.
func (t *PlaceTool) Last() plan.ID { return t.last }

func (t *PlaceTool) OnPointer(ev PointerEvent) {
	if t.env == nil {
		return
	}
	switch ev.Action {
	case ActionMove, ActionDown, ActionUp:
	default:
		return
	}
	g := t.env.Settings.GridCm
	t.cursor = geom.V(roundTo(ev.World.X, g), roundTo(ev.World.Y, g))
	if ev.Action != ActionUp || t.product == "" {
		return
	}
	obj := plan.ObjectInstance{
		ID:            plan.NewID(),
		ProductTypeID: t.product,
		Transform:     plan.Transform{Location: t.cursor, RotationDeg: t.rotationDeg, Scale: 1},
		HostType:      plan.HostFloor,
	}
	if !t.env.Doc.Submit(plan.AddOrUpdateObject(obj)) {
		return
	}
	t.last = obj.ID
	t.env.Log.Info("object placed", slog.String("product", t.product), slog.String("object", obj.ID.String()))
}
