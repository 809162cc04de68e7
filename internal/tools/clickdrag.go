/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tools

import "gofloorplan/internal/geom"

// GestureKind is what a ClickDrag recognized.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureClick
	GestureMarquee
	GestureCancelled
)

// Gesture is a completed click or marquee. For a click Start is the press position and
// End the release position; for a marquee they span the dragged rectangle or fence line.
// The modifier flags are sampled at press time.
type Gesture struct {
	Kind       GestureKind
	Start, End geom.Vec2
	Shift, Alt bool
}

type dragPhase int

const (
	phaseIdle dragPhase = iota
	phasePending
	phaseMarquee
)

// ClickDrag tells clicks from drags: a press becomes a marquee once the pointer moves
// more than Threshold screen pixels away from where it went down.
type ClickDrag struct {
	Threshold float64

	phase      dragPhase
	downScreen geom.Vec2
	start, end geom.Vec2
	shift, alt bool
}

// Reset abandons any pending interaction.
func (c *ClickDrag) Reset() { c.phase = phaseIdle }

// Dragging reports whether a marquee is in progress.
func (c *ClickDrag) Dragging() bool { return c.phase == phaseMarquee }

// Pending reports whether a press has not been resolved yet.
func (c *ClickDrag) Pending() bool { return c.phase == phasePending }

// Marquee returns the current drag span.
func (c *ClickDrag) Marquee() (start, end geom.Vec2) { return c.start, c.end }

// Handle advances the state machine and returns a gesture when one completes.
func (c *ClickDrag) Handle(ev PointerEvent) Gesture {
	switch c.phase {
	case phaseIdle:
		if ev.Action == ActionDown {
			c.phase = phasePending
			c.downScreen = ev.Screen
			c.start, c.end = ev.World, ev.World
			c.shift, c.alt = ev.Shift, ev.Alt
		}
	case phasePending:
		switch ev.Action {
		case ActionMove:
			if c.downScreen.Dist(ev.Screen) > c.Threshold {
				c.phase = phaseMarquee
			}
			c.end = ev.World
		case ActionUp:
			c.phase = phaseIdle
			return Gesture{Kind: GestureClick, Start: c.start, End: ev.World, Shift: c.shift, Alt: c.alt}
		case ActionCancel:
			c.phase = phaseIdle
			return Gesture{Kind: GestureCancelled}
		}
	case phaseMarquee:
		switch ev.Action {
		case ActionMove:
			c.end = ev.World
		case ActionUp:
			c.end = ev.World
			c.phase = phaseIdle
			return Gesture{Kind: GestureMarquee, Start: c.start, End: c.end, Shift: c.shift, Alt: c.alt}
		case ActionCancel:
			c.phase = phaseIdle
			return Gesture{Kind: GestureCancelled}
		}
	}
	return Gesture{}
}
