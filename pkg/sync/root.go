// Copyright 2025 Stencila
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package sync implements the three bi-directional bindings between a
// document's node tree and an external representation (spec §4.5): an
// object view with RFC-6902-style patches, a textual format buffer
// reconciled through lift-edits, and a fork-and-merge CRDT store. All
// three are built on Root, the single-writer holder of the tree each
// adapter watches and proposes changes to.
package sync

import (
	"sync"

	"github.com/stencila/engine/pkg/schema"
)

// Change is published to every Root subscriber when the tree is replaced.
type Change struct {
	Version int
	Before  schema.Node
	After   schema.Node
}

// Root holds a document's current tree plus a monotonic version counter.
// Updates go through a single mutex (spec §4.5's "single-writer over the
// root"); readers call Snapshot and treat the result as immutable rather
// than taking a lock of their own.
type Root struct {
	mu      sync.Mutex
	node    schema.Node
	version int

	subMu sync.Mutex
	subs  []chan Change
}

// NewRoot returns a Root seeded with initial at version 1.
func NewRoot(initial schema.Node) *Root {
	return &Root{node: initial, version: 1}
}

// Snapshot returns the current tree and its version.
func (r *Root) Snapshot() (schema.Node, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.node, r.version
}

// Update runs fn against the current tree under the write lock, installs
// its result as the new tree, bumps the version, and notifies every
// subscriber. fn's error is returned without changing the root.
func (r *Root) Update(fn func(current schema.Node) (schema.Node, error)) error {
	r.mu.Lock()
	before := r.node
	next, err := fn(before)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.version++
	version := r.version
	r.node = next
	r.mu.Unlock()

	r.publish(Change{Version: version, Before: before, After: next})
	return nil
}

// Subscribe returns a channel of future Changes. The channel has a small
// buffer; a subscriber that falls behind has changes dropped rather than
// blocking Update, since every adapter can recover via a full reset.
func (r *Root) Subscribe() chan Change {
	ch := make(chan Change, 8)
	r.subMu.Lock()
	r.subs = append(r.subs, ch)
	r.subMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe. It is a
// no-op if ch was already unsubscribed.
func (r *Root) Unsubscribe(ch chan Change) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for i, s := range r.subs {
		if s == ch {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

func (r *Root) publish(c Change) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
