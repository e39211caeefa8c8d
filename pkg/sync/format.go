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
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/stencila/engine/pkg/codec/liftedits"
	"github.com/stencila/engine/pkg/schema"
)

// Codec is the subset of the codec framework (spec §4.6) the format
// adapter needs. A full Codec additionally reports supported formats and
// loss levels; the adapter only ever needs to turn a tree into its source
// text and back.
type Codec interface {
	Encode(root schema.Node) (string, error)
	Decode(source string) (schema.Node, error)
}

// FormatSync mirrors a Root into a textual source file through a Codec
// (spec §4.5.2). Internal changes are encoded straight to path; external
// edits to path are reconciled against the tree with lift-edits (§4.7) so
// content the codec can't round-trip survives the user's edit.
type FormatSync struct {
	root   *Root
	codec  Codec
	path   string
	logger *slog.Logger

	debounce time.Duration

	mu       sync.Mutex
	original string // last source text known to back the current tree
}

// NewFormatSync returns an adapter that mirrors root's tree to path using
// codec. path need not exist yet; its parent directory must.
func NewFormatSync(root *Root, codec Codec, path string, logger *slog.Logger) *FormatSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormatSync{root: root, codec: codec, path: path, logger: logger, debounce: 100 * time.Millisecond}
}

// Run starts the watch-and-diff (internal change -> file write) and
// receive-and-apply (external file edit -> lift-edits -> Root.Update)
// tasks, and blocks until ctx is cancelled or either task errors.
func (s *FormatSync) Run(ctx context.Context) error {
	metricsSync.init()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.watchAndDiff(gctx) })
	g.Go(func() error { return s.receiveAndApply(gctx) })
	return g.Wait()
}

func (s *FormatSync) watchAndDiff(ctx context.Context) error {
	sub := s.root.Subscribe()
	defer s.root.Unsubscribe(sub)

	if err := s.writeCurrent(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-sub:
			if !ok {
				return nil
			}
			if err := s.writeCurrent(); err != nil {
				s.logger.Warn("sync.format.encode_failed", "path", s.path, "error", err)
			}
		}
	}
}

// writeCurrent encodes the tree and writes it to path, recording the
// result as the source text the tree currently backs onto.
func (s *FormatSync) writeCurrent() error {
	node, _ := s.root.Snapshot()
	unedited, err := s.codec.Encode(node)
	if err != nil {
		return fmt.Errorf("sync: encode %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.original = unedited
	s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(unedited), 0o644); err != nil {
		return fmt.Errorf("sync: write %s: %w", s.path, err)
	}
	return nil
}

func (s *FormatSync) receiveAndApply(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("sync: new watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("sync: watch %s: %w", filepath.Dir(s.path), err)
	}

	ticker := time.NewTicker(s.debounce)
	defer ticker.Stop()

	var pending bool
	var lastEvent time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = true
			lastEvent = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("sync.format.watch_error", "path", s.path, "error", err)
		case <-ticker.C:
			if pending && time.Since(lastEvent) >= s.debounce {
				pending = false
				if err := s.applyExternalEdit(); err != nil {
					s.logger.Warn("sync.format.apply_failed", "path", s.path, "error", err)
				}
			}
		}
	}
}

func (s *FormatSync) applyExternalEdit() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("sync: read %s: %w", s.path, err)
	}
	return s.reconcile(string(data))
}

// reconcile applies an externally-edited source string edited against the
// tree's current encoding, re-parsing the lift-edits result into Root.
// Split out from applyExternalEdit so it can be exercised without the
// filesystem watcher.
func (s *FormatSync) reconcile(edited string) error {
	node, _ := s.root.Snapshot()
	unedited, err := s.codec.Encode(node)
	if err != nil {
		return fmt.Errorf("sync: encode %s: %w", s.path, err)
	}

	if edited == unedited {
		return nil
	}

	s.mu.Lock()
	original := s.original
	s.mu.Unlock()
	if original == "" {
		original = unedited
	}

	liftedOriginal := liftedits.Lift(original, unedited, edited)
	reparsed, err := s.codec.Decode(liftedOriginal)
	if err != nil {
		return fmt.Errorf("sync: decode %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.original = liftedOriginal
	s.mu.Unlock()

	metricsSync.formatReparses.Inc()
	return s.root.Update(func(schema.Node) (schema.Node, error) {
		return reparsed, nil
	})
}
