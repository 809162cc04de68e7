/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package plan

import (
	"log/slog"

	applog "gofloorplan/internal/log"
	"gofloorplan/internal/undo"
)

// Document owns one plan and its bounded undo/redo history. It is used from a single
// goroutine; observers are called synchronously before the mutating call returns.
// Observers must not submit commands from inside a notification.
type Document struct {
	data      *Data
	history   *undo.History[*Command]
	observers []observer
	nextObs   int
	log       *slog.Logger
}

type observer struct {
	id int
	fn func()
}

// Option configures a Document.
type Option func(*Document)

// WithMaxUndo sets the undo depth (default 50).
func WithMaxUndo(n int) Option {
	return func(d *Document) { d.history = undo.New[*Command](undo.Config{MaxDepth: n}) }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l
		}
	}
}

// New returns an empty document.
func New(opts ...Option) *Document {
	d := &Document{data: NewData()}
	for _, o := range opts {
		o(d)
	}
	if d.history == nil {
		d.history = undo.New[*Command](undo.Config{})
	}
	if d.log == nil {
		d.log = applog.WithComponent("plan")
	}
	return d
}

// Data exposes the current plan for reading. Callers must not mutate it;
// all changes go through Submit.
func (d *Document) Data() *Data { return d.data }

// Snapshot returns a deep copy of the current plan.
func (d *Document) Snapshot() *Data { return d.data.Clone() }

// Submit executes cmd. On success it is recorded for undo, redo is cleared and
// observers are notified. A failed command is discarded.
func (d *Document) Submit(cmd *Command) bool {
	if cmd == nil {
		return false
	}
	if !cmd.execute(d.data) {
		d.log.Debug("command rejected", slog.String("cmd", cmd.Description()), slog.String("kind", cmd.Kind().String()))
		return false
	}
	d.history.Push(cmd)
	d.log.Debug("command applied", slog.String("cmd", cmd.Description()))
	d.notify()
	return true
}

// Undo reverses the most recent command. It is a no-op when nothing can be undone.
func (d *Document) Undo() bool {
	cmd, ok := d.history.PopUndo()
	if !ok {
		return false
	}
	cmd.undo(d.data)
	d.history.PushRedo(cmd)
	d.notify()
	return true
}

// Redo re-executes the most recently undone command. If re-execution fails the
// command is dropped and the document is left as is.
func (d *Document) Redo() bool {
	cmd, ok := d.history.PopRedo()
	if !ok {
		return false
	}
	if !cmd.execute(d.data) {
		d.log.Warn("redo failed; command dropped", slog.String("cmd", cmd.Description()))
		return false
	}
	d.history.Restore(cmd)
	d.notify()
	return true
}

func (d *Document) CanUndo() bool {
	_, ok := d.history.PeekUndo()
	return ok
}

func (d *Document) CanRedo() bool {
	_, ok := d.history.PeekRedo()
	return ok
}

// UndoDescription labels the command Undo would reverse, or "" if none.
func (d *Document) UndoDescription() string {
	if c, ok := d.history.PeekUndo(); ok {
		return c.Description()
	}
	return ""
}

// RedoDescription labels the command Redo would re-apply, or "" if none.
func (d *Document) RedoDescription() string {
	if c, ok := d.history.PeekRedo(); ok {
		return c.Description()
	}
	return ""
}

// UndoDepth is the number of commands that can currently be undone.
func (d *Document) UndoDepth() int {
	n, _, _ := d.history.Stats()
	return n
}

// Subscribe registers fn for change notifications and returns its unsubscribe function.
// The order between observers is unspecified.
func (d *Document) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	d.nextObs++
	id := d.nextObs
	d.observers = append(d.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range d.observers {
			if o.id == id {
				d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) notify() {
	obs := append([]observer(nil), d.observers...)
	for _, o := range obs {
		o.fn()
	}
}

// ToJSON serializes the current plan.
func (d *Document) ToJSON() ([]byte, error) { return Marshal(d.data) }

// FromJSON replaces the plan with the decoded text. Both history stacks are cleared and
// observers notified. On any error the document is unchanged and false is returned.
func (d *Document) FromJSON(b []byte) bool { return d.LoadJSON(b) == nil }

// LoadJSON is FromJSON with the failure reason.
func (d *Document) LoadJSON(b []byte) error {
	nd, err := Unmarshal(b)
	if err != nil {
		d.log.Warn("load rejected", slog.Any("err", err))
		return err
	}
	d.data = nd
	d.history.Clear()
	c := nd.Counts()
	d.log.Info("plan loaded", slog.Int("vertices", c.Vertices), slog.Int("walls", c.Walls), slog.Int("openings", c.Openings))
	d.notify()
	return nil
}
