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

package sync

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/stencila/engine/pkg/docstore"
	"github.com/stencila/engine/pkg/schema"
)

// CRDTSync persists a Root into a docstore.Store fork and merges inbound
// snapshots from other writers against that fork's base (spec §4.5.3). It
// is "CRDT-style" only insofar as cord.Merge (§4.3) and the structural
// three-way merge (§4.4) reconcile independent edits automatically;
// genuinely conflicting edits fall back to docstore.Merge's fork-wins
// policy rather than a general conflict-free merge.
type CRDTSync struct {
	root   *Root
	store  *docstore.Store
	docID  string
	forkID string
	logger *slog.Logger

	inbound chan schema.Node
}

// NewCRDTSync returns an adapter that persists root under docID/forkID in
// store. docID must already have a current snapshot in store.
func NewCRDTSync(root *Root, store *docstore.Store, docID, forkID string, logger *slog.Logger) *CRDTSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &CRDTSync{root: root, store: store, docID: docID, forkID: forkID, logger: logger, inbound: make(chan schema.Node, 4)}
}

// Inbound accepts a remote writer's snapshot of docID to merge in.
func (s *CRDTSync) Inbound() chan<- schema.Node { return s.inbound }

// Run opens (or reuses) the fork, then starts the watch-and-diff
// (root change -> Save) and receive-and-apply (inbound snapshot -> Merge)
// tasks, blocking until ctx is cancelled or either errors.
func (s *CRDTSync) Run(ctx context.Context) error {
	metricsSync.init()
	if !s.store.HasFork(s.docID, s.forkID) {
		if err := s.store.Fork(s.docID, s.forkID); err != nil {
			return fmt.Errorf("sync: open crdt fork %s/%s: %w", s.docID, s.forkID, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.watchAndDiff(gctx) })
	g.Go(func() error { return s.receiveAndApply(gctx) })
	return g.Wait()
}

func (s *CRDTSync) watchAndDiff(ctx context.Context) error {
	sub := s.root.Subscribe()
	defer s.root.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-sub:
			if !ok {
				return nil
			}
			if err := s.store.Save(s.docID, change.After); err != nil {
				s.logger.Warn("sync.crdt.save_failed", "doc_id", s.docID, "error", err)
			}
		}
	}
}

func (s *CRDTSync) receiveAndApply(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case remote, ok := <-s.inbound:
			if !ok {
				return nil
			}
			if err := s.mergeRemote(remote); err != nil {
				s.logger.Warn("sync.crdt.merge_failed", "doc_id", s.docID, "fork_id", s.forkID, "error", err)
			}
		}
	}
}

// mergeRemote reconciles remote against the root's current tree, both
// diffed from the fork's base, then advances the fork's base to the
// merged result so the next inbound snapshot diffs from there.
func (s *CRDTSync) mergeRemote(remote schema.Node) error {
	base, err := s.store.ForkBase(s.docID, s.forkID)
	if err != nil {
		return fmt.Errorf("sync: load fork base: %w", err)
	}

	if err := s.root.Update(func(current schema.Node) (schema.Node, error) {
		return docstore.Merge(base, current, remote)
	}); err != nil {
		return fmt.Errorf("sync: merge remote snapshot: %w", err)
	}

	merged, _ := s.root.Snapshot()
	if err := s.store.Save(s.docID, merged); err != nil {
		return fmt.Errorf("sync: save after merge: %w", err)
	}
	metricsSync.crdtMerges.Inc()
	return s.store.Fork(s.docID, s.forkID)
}
