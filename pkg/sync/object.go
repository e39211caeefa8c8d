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

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/patch"
	"github.com/stencila/engine/pkg/schema"
)

// ObjectPatch is the wire message of the object-sync adapter: either a
// versioned run of operations against the client's current copy, or a
// Reset carrying the whole tree as a single Replace at the empty address.
type ObjectPatch struct {
	Version int               `json:"version"`
	Reset   bool              `json:"reset,omitempty"`
	Ops     []patch.Operation `json:"ops,omitempty"`
	// NodeMap accompanies a Reset: the id -> address map for every node in
	// the tree it carries, so a client can resolve addresses to ids (and
	// back) without re-walking the tree itself.
	NodeMap address.Map `json:"nodeMap,omitempty"`
}

// ObjectSync serializes a Root as JSON-view patches (spec §4.5.1). The
// initial message on Run is always a reset at version 1; afterwards every
// Root change produces a minimal diff against the previous tree.
type ObjectSync struct {
	root   *Root
	logger *slog.Logger

	inbound  chan ObjectPatch
	outbound chan ObjectPatch
}

// NewObjectSync returns an adapter over root. Callers send inbound patches
// on Inbound() and read outbound patches from Outbound() until Run returns.
func NewObjectSync(root *Root, logger *slog.Logger) *ObjectSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &ObjectSync{
		root:     root,
		logger:   logger,
		inbound:  make(chan ObjectPatch, 16),
		outbound: make(chan ObjectPatch, 16),
	}
}

// Inbound is where client patches are sent.
func (s *ObjectSync) Inbound() chan<- ObjectPatch { return s.inbound }

// Outbound is where server patches are read from.
func (s *ObjectSync) Outbound() <-chan ObjectPatch { return s.outbound }

// Run starts the watch-and-diff and receive-and-apply tasks (spec §4.5's
// concurrency contract) and blocks until ctx is cancelled or either task
// returns an error.
func (s *ObjectSync) Run(ctx context.Context) error {
	metricsSync.init()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.watchAndDiff(gctx) })
	g.Go(func() error { return s.receiveAndApply(gctx) })
	return g.Wait()
}

func (s *ObjectSync) watchAndDiff(ctx context.Context) error {
	defer close(s.outbound)

	sub := s.root.Subscribe()
	defer s.root.Unsubscribe(sub)

	initial, version := s.root.Snapshot()
	if err := s.emit(ctx, resetPatch(version, initial)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-sub:
			if !ok {
				return nil
			}
			ops := patch.Diff(change.Before, change.After)
			metricsSync.objectPatchesEmitted.Inc()
			if err := s.emit(ctx, ObjectPatch{Version: change.Version, Ops: ops}); err != nil {
				return err
			}
		}
	}
}

func resetPatch(version int, root schema.Node) ObjectPatch {
	return ObjectPatch{
		Version: version,
		Reset:   true,
		Ops:     []patch.Operation{{Type: patch.OpReplace, Address: address.Empty(), Value: root}},
		NodeMap: schema.BuildMap(root),
	}
}

func (s *ObjectSync) emit(ctx context.Context, p ObjectPatch) error {
	select {
	case s.outbound <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ObjectSync) receiveAndApply(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case in, ok := <-s.inbound:
			if !ok {
				return nil
			}
			if err := s.applyInbound(in); err != nil {
				s.logger.Warn("sync.object.reset", "reason", err.Error())
				metricsSync.objectResets.Inc()
				node, version := s.root.Snapshot()
				if err := s.emit(ctx, resetPatch(version, node)); err != nil {
					return err
				}
			}
		}
	}
}

// applyInbound applies a client patch, reporting an error (which the
// caller turns into a reset) when the client's version is stale or 0 —
// the two cases spec §4.4's reconciliation rule names explicitly.
func (s *ObjectSync) applyInbound(in ObjectPatch) error {
	_, version := s.root.Snapshot()
	if in.Version == 0 || in.Version != version {
		return fmt.Errorf("stale patch version %d (current %d)", in.Version, version)
	}
	return s.root.Update(func(current schema.Node) (schema.Node, error) {
		result, err := patch.Apply(current, in.Ops)
		if err != nil {
			return nil, err
		}
		return result.(schema.Node), nil
	})
}
