/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Autosaver writes plan snapshots as the document changes. Changes arriving within
// MinInterval of the last write are coalesced and written by the next change after the
// interval or by Flush. Writes happen on the goroutine that submitted the change.
type Autosaver struct {
	MinInterval time.Duration
	// KeepLast prunes older snapshots after each write; zero keeps everything.
	KeepLast int

	ph          *ProjectHandle
	now         func() time.Time
	mu          sync.Mutex
	last        time.Time
	pending     bool
	written     int
	unsubscribe func()
	log         *slog.Logger
}

func NewAutosaver(ph *ProjectHandle, minInterval time.Duration, keepLast int) *Autosaver {
	return &Autosaver{
		MinInterval: minInterval,
		KeepLast:    keepLast,
		ph:          ph,
		now:         time.Now,
		log:         logger("autosave"),
	}
}

// Start subscribes to the project's document. Calling Start twice is a no-op.
func (a *Autosaver) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unsubscribe != nil || a.ph == nil || a.ph.Doc == nil {
		return
	}
	a.unsubscribe = a.ph.Doc.Subscribe(a.onChange)
}

// Stop unsubscribes; a pending change stays pending until Flush.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Pending reports whether a change has not been written yet.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Written is the number of snapshots this autosaver has stored.
func (a *Autosaver) Written() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.written
}

// Flush writes the pending change, if any.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.pending {
		return nil
	}
	return a.writeLocked(ctx)
}

func (a *Autosaver) onChange() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = true
	if !a.last.IsZero() && a.now().Sub(a.last) < a.MinInterval {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.writeLocked(ctx); err != nil {
		a.log.Error("autosave failed", slog.Any("err", err))
	}
}

func (a *Autosaver) writeLocked(ctx context.Context) error {
	blob, err := a.ph.Doc.ToJSON()
	if err != nil {
		return err
	}
	ts := a.now()
	if err := SaveSnapshot(ctx, a.ph, LabelAutosave, blob, ts); err != nil {
		return err
	}
	a.last, a.pending = ts, false
	a.written++
	if a.KeepLast > 0 {
		if n, err := PruneOldSnapshots(ctx, a.ph, a.KeepLast); err != nil {
			a.log.Warn("prune snapshots failed", slog.Any("err", err))
		} else if n > 0 {
			a.log.Debug("pruned snapshots", slog.Int64("removed", n))
		}
	}
	return nil
}
