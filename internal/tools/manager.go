/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tools

import (
	"fmt"
	"log/slog"
	"sort"

	"gofloorplan/internal/geom"
	applog "gofloorplan/internal/log"
	"gofloorplan/internal/plan"
	"gofloorplan/internal/spatial"
)

// Manager wires a document, its spatial index and a set of tools together.
type Manager struct {
	env         *Env
	tools       map[string]Tool
	active      Tool
	unsubscribe func()
	log         *slog.Logger
}

// NewManager builds the index for doc and keeps it current until Close.
func NewManager(doc *plan.Document, s Settings) *Manager {
	l := applog.WithComponent("tools")
	m := &Manager{
		env:   &Env{Doc: doc, Index: spatial.New(), Settings: s, Log: l},
		tools: map[string]Tool{},
		log:   l,
	}
	m.rebuild()
	m.unsubscribe = doc.Subscribe(m.rebuild)
	return m
}

func (m *Manager) rebuild() { m.env.Index.Build(m.env.Doc.Data()) }

// Close stops tracking the document and exits the active tool.
func (m *Manager) Close() {
	if m.active != nil {
		m.active.Exit()
		m.active = nil
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Manager) Env() *Env                { return m.env }
func (m *Manager) Index() *spatial.Index    { return m.env.Index }
func (m *Manager) Document() *plan.Document { return m.env.Doc }

// Register adds t under its name, replacing any tool with the same name.
func (m *Manager) Register(t Tool) {
	if t == nil {
		return
	}
	m.tools[t.Name()] = t
}

// Names lists the registered tools alphabetically.
func (m *Manager) Names() []string {
	out := make([]string, 0, len(m.tools))
	for n := range m.tools {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Activate exits the current tool and enters the named one.
func (m *Manager) Activate(name string) error {
	t, ok := m.tools[name]
	if !ok {
		return fmt.Errorf("unknown tool %q", name)
	}
	if m.active != nil {
		m.active.Exit()
	}
	m.active = t
	t.Enter(m.env)
	m.log.Debug("tool activated", slog.String("tool", name))
	return nil
}

// Active returns the current tool or nil.
func (m *Manager) Active() Tool { return m.active }

// Dispatch forwards ev to the active tool.
func (m *Manager) Dispatch(ev PointerEvent) {
	if m.active == nil {
		return
	}
	m.active.OnPointer(ev)
}

// Snap is Env.Snap without the snap details.
func (m *Manager) Snap(p geom.Vec2) geom.Vec2 {
	out, _ := m.env.Snap(p)
	return out
}
