/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package undo provides the bounded two-stack history used by the plan document.
package undo

import "sync"

// DefaultMaxDepth is the number of undo entries kept when Config.MaxDepth is unset.
const DefaultMaxDepth = 50

// Config controls the depth cap.
type Config struct {
	// MaxDepth limits the undo stack; the oldest entries are dropped silently on overflow.
	MaxDepth int
}

// History keeps executed entries for undo and undone entries for redo.
// Entries are opaque to the history. It is safe for concurrent use.
type History[T any] struct {
	cfg  Config
	mu   sync.Mutex
	undo []T
	redo []T
	// accounting
	dropped int
}

func New[T any](cfg Config) *History[T] {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &History[T]{cfg: cfg}
}

// Push records a newly executed entry. Any new change invalidates redo.
func (h *History[T]) Push(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = append(h.undo, v)
	h.redo = nil
	h.enforceCapLocked()
}

// PopUndo removes the most recent entry from the undo stack.
func (h *History[T]) PopUndo() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var zero T
	if len(h.undo) == 0 {
		return zero, false
	}
	v := h.undo[len(h.undo)-1]
	h.undo[len(h.undo)-1] = zero
	h.undo = h.undo[:len(h.undo)-1]
	return v, true
}

// PushRedo stores an entry that was just undone.
func (h *History[T]) PushRedo(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.redo = append(h.redo, v)
}

// PopRedo removes the most recently undone entry.
func (h *History[T]) PopRedo() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var zero T
	if len(h.redo) == 0 {
		return zero, false
	}
	v := h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = zero
	h.redo = h.redo[:len(h.redo)-1]
	return v, true
}

// Restore puts a redone entry back on the undo stack without touching redo.
func (h *History[T]) Restore(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = append(h.undo, v)
	h.enforceCapLocked()
}

// PeekUndo returns the entry Undo would act on.
func (h *History[T]) PeekUndo() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		var zero T
		return zero, false
	}
	return h.undo[len(h.undo)-1], true
}

// PeekRedo returns the entry Redo would act on.
func (h *History[T]) PeekRedo() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		var zero T
		return zero, false
	}
	return h.redo[len(h.redo)-1], true
}

// Clear drops both stacks.
func (h *History[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
}

// Stats returns current sizes for diagnostics. dropped counts entries lost to the depth cap.
func (h *History[T]) Stats() (undoLen, redoLen, dropped int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo), len(h.redo), h.dropped
}

func (h *History[T]) enforceCapLocked() {
	if len(h.undo) <= h.cfg.MaxDepth {
		return
	}
	// drop the oldest extras
	toDrop := len(h.undo) - h.cfg.MaxDepth
	h.dropped += toDrop
	h.undo = append([]T(nil), h.undo[toDrop:]...)
}
