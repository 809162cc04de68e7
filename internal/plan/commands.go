/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package plan

// Commands are the only way plan data changes. The command set is closed: a Command is a
// tagged value whose Kind selects the branch taken by execute and undo.

// Kind discriminates the command variants.
type Kind int

const (
	KindVertex Kind = iota + 1
	KindWall
	KindOpening
	KindObject
	KindRun
	KindDeleteVertex
	KindDeleteWall
	KindDeleteOpening
	KindDeleteObject
	KindDeleteRun
	KindMacro
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindWall:
		return "wall"
	case KindOpening:
		return "opening"
	case KindObject:
		return "object"
	case KindRun:
		return "run"
	case KindDeleteVertex:
		return "delete_vertex"
	case KindDeleteWall:
		return "delete_wall"
	case KindDeleteOpening:
		return "delete_opening"
	case KindDeleteObject:
		return "delete_object"
	case KindDeleteRun:
		return "delete_run"
	case KindMacro:
		return "macro"
	default:
		return "unknown"
	}
}

// entities carries one value per entity kind; only the slot matching Kind is used.
type entities struct {
	vertex  Vertex
	wall    Wall
	opening Opening
	object  ObjectInstance
	run     CabinetRun
}

// Command is a reversible mutation of plan data.
// execute captures whatever undo needs; calling undo without a prior successful
// execute is not supported.
type Command struct {
	kind     Kind
	desc     string
	target   ID       // delete variants
	next     entities // value written by add-or-update variants
	prev     entities // value replaced or removed, restored by undo
	existed  bool     // add-or-update hit an existing ID
	children []*Command
}

// AddOrUpdateVertex inserts v or overwrites the vertex with the same ID.
func AddOrUpdateVertex(v Vertex) *Command {
	return &Command{kind: KindVertex, next: entities{vertex: v}}
}

// AddOrUpdateWall inserts w or overwrites the wall with the same ID.
func AddOrUpdateWall(w Wall) *Command {
	return &Command{kind: KindWall, next: entities{wall: w}}
}

// AddOrUpdateOpening inserts o or overwrites the opening with the same ID.
func AddOrUpdateOpening(o Opening) *Command {
	return &Command{kind: KindOpening, next: entities{opening: o}}
}

// AddOrUpdateObject inserts o or overwrites the object instance with the same ID.
func AddOrUpdateObject(o ObjectInstance) *Command {
	return &Command{kind: KindObject, next: entities{object: o}}
}

// AddOrUpdateRun inserts r or overwrites the cabinet run with the same ID.
func AddOrUpdateRun(r CabinetRun) *Command {
	return &Command{kind: KindRun, next: entities{run: r}}
}

// DeleteVertex removes a vertex; it fails when the ID is absent.
func DeleteVertex(id ID) *Command { return &Command{kind: KindDeleteVertex, target: id} }

// DeleteWall removes a wall; it fails when the ID is absent.
func DeleteWall(id ID) *Command { return &Command{kind: KindDeleteWall, target: id} }

// DeleteOpening removes an opening; it fails when the ID is absent.
func DeleteOpening(id ID) *Command { return &Command{kind: KindDeleteOpening, target: id} }

// DeleteObject removes an object instance; it fails when the ID is absent.
func DeleteObject(id ID) *Command { return &Command{kind: KindDeleteObject, target: id} }

// DeleteRun removes a cabinet run; it fails when the ID is absent.
func DeleteRun(id ID) *Command { return &Command{kind: KindDeleteRun, target: id} }

// Macro groups commands that execute in order and undo in reverse.
// An empty description defaults to "Macro Command".
func Macro(desc string, cmds ...*Command) *Command {
	c := &Command{kind: KindMacro, desc: desc}
	for _, sub := range cmds {
		if sub != nil {
			c.children = append(c.children, sub)
		}
	}
	return c
}

// Add appends a sub-command to a macro. It is a no-op for other kinds.
func (c *Command) Add(sub *Command) {
	if c.kind == KindMacro && sub != nil {
		c.children = append(c.children, sub)
	}
}

// DeleteRunWithObjects removes a cabinet run together with every instance it generated.
func DeleteRunWithObjects(d *Data, runID ID) *Command {
	m := Macro("Delete Cabinet Run")
	for _, id := range d.ObjectsGeneratedBy(runID) {
		m.Add(DeleteObject(id))
	}
	m.Add(DeleteRun(runID))
	return m
}

func (c *Command) Kind() Kind { return c.kind }

// Children returns the sub-commands of a macro.
func (c *Command) Children() []*Command { return c.children }

// Description is the human-readable label shown in undo/redo menus.
func (c *Command) Description() string {
	switch c.kind {
	case KindVertex:
		return pick(c.existed, "Move Vertex", "Add Vertex")
	case KindWall:
		return pick(c.existed, "Edit Wall", "Add Wall")
	case KindOpening:
		return pick(c.existed, "Edit Opening", "Add Opening")
	case KindObject:
		return pick(c.existed, "Edit Object", "Place Object")
	case KindRun:
		return pick(c.existed, "Edit Cabinet Run", "Add Cabinet Run")
	case KindDeleteVertex:
		return "Delete Vertex"
	case KindDeleteWall:
		return "Delete Wall"
	case KindDeleteOpening:
		return "Delete Opening"
	case KindDeleteObject:
		return "Delete Object"
	case KindDeleteRun:
		return "Delete Cabinet Run"
	case KindMacro:
		if c.desc == "" {
			return "Macro Command"
		}
		return c.desc
	}
	return ""
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

// execute applies the command to d and reports success. A failed command leaves d unchanged.
func (c *Command) execute(d *Data) bool {
	switch c.kind {
	case KindVertex:
		c.prev.vertex, c.existed = upsert(d.Vertices, c.next.vertex.ID, c.next.vertex)
	case KindWall:
		c.prev.wall, c.existed = upsert(d.Walls, c.next.wall.ID, c.next.wall)
	case KindOpening:
		c.prev.opening, c.existed = upsert(d.Openings, c.next.opening.ID, c.next.opening)
	case KindObject:
		c.prev.object, c.existed = upsert(d.Objects, c.next.object.ID, c.next.object)
	case KindRun:
		c.prev.run, c.existed = upsert(d.Runs, c.next.run.ID, c.next.run)
	case KindDeleteVertex:
		v, ok := remove(d.Vertices, c.target)
		if !ok {
			return false
		}
		c.prev.vertex = v
	case KindDeleteWall:
		v, ok := remove(d.Walls, c.target)
		if !ok {
			return false
		}
		c.prev.wall = v
	case KindDeleteOpening:
		v, ok := remove(d.Openings, c.target)
		if !ok {
			return false
		}
		c.prev.opening = v
	case KindDeleteObject:
		v, ok := remove(d.Objects, c.target)
		if !ok {
			return false
		}
		c.prev.object = v
	case KindDeleteRun:
		v, ok := remove(d.Runs, c.target)
		if !ok {
			return false
		}
		c.prev.run = v
	case KindMacro:
		// all or nothing: roll back the executed prefix on failure
		for i, sub := range c.children {
			if !sub.execute(d) {
				for j := i - 1; j >= 0; j-- {
					c.children[j].undo(d)
				}
				return false
			}
		}
	default:
		return false
	}
	return true
}

// undo reverses the last successful execute.
func (c *Command) undo(d *Data) {
	switch c.kind {
	case KindVertex:
		restore(d.Vertices, c.next.vertex.ID, c.prev.vertex, c.existed)
	case KindWall:
		restore(d.Walls, c.next.wall.ID, c.prev.wall, c.existed)
	case KindOpening:
		restore(d.Openings, c.next.opening.ID, c.prev.opening, c.existed)
	case KindObject:
		restore(d.Objects, c.next.object.ID, c.prev.object, c.existed)
	case KindRun:
		restore(d.Runs, c.next.run.ID, c.prev.run, c.existed)
	case KindDeleteVertex:
		d.Vertices[c.target] = c.prev.vertex
	case KindDeleteWall:
		d.Walls[c.target] = c.prev.wall
	case KindDeleteOpening:
		d.Openings[c.target] = c.prev.opening
	case KindDeleteObject:
		d.Objects[c.target] = c.prev.object
	case KindDeleteRun:
		d.Runs[c.target] = c.prev.run
	case KindMacro:
		for i := len(c.children) - 1; i >= 0; i-- {
			c.children[i].undo(d)
		}
	}
}

func upsert[T any](m map[ID]T, id ID, v T) (prev T, existed bool) {
	prev, existed = m[id]
	m[id] = v
	return prev, existed
}

func restore[T any](m map[ID]T, id ID, prev T, existed bool) {
	if existed {
		m[id] = prev
		return
	}
	delete(m, id)
}

func remove[T any](m map[ID]T, id ID) (T, bool) {
	v, ok := m[id]
	if !ok {
		return v, false
	}
	delete(m, id)
	return v, true
}
