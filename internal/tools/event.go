/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tools turns pointer input into plan commands. A Manager owns the spatial
// index, rebuilds it after every document change and forwards events to the active tool.
package tools

import "gofloorplan/internal/geom"

// PointerAction is the kind of a pointer event.
type PointerAction int

const (
	ActionNone PointerAction = iota
	ActionDown
	ActionUp
	ActionMove
	ActionCancel
	ActionConfirm
)

func (a PointerAction) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionUp:
		return "up"
	case ActionMove:
		return "move"
	case ActionCancel:
		return "cancel"
	case ActionConfirm:
		return "confirm"
	default:
		return "none"
	}
}

// PointerEvent is one input sample. Screen is in pixels and drives drag detection;
// World is the ground-plane position in centimeters.
type PointerEvent struct {
	Action PointerAction
	Screen geom.Vec2
	World  geom.Vec2
	Shift  bool
	Alt    bool
	Ctrl   bool
}
