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

// Package docstore persists document node trees as JSON snapshots on disk
// and reconciles diverging copies with a three-way merge (spec §6 "Store").
// A document lives at <root>/<docID>.json; forks taken for execution or
// sync each get their own base snapshot under <root>/forks/ so Merge can
// later diff both branches against the point they split from.
package docstore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stencila/engine/pkg/schema"
)

// Store is a directory of document snapshots, mirroring the
// <workspace>/.cie/data/<project> layout the teacher's bootstrap package
// creates, but rooted at .stencila/store instead.
type Store struct {
	dir    string
	logger *slog.Logger
}

// Open returns a Store rooted at dir, creating dir and its forks/
// subdirectory if they don't already exist. Open is idempotent.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Join(dir, "forks"), 0o755); err != nil {
		return nil, fmt.Errorf("docstore: create store dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) path(docID string) string {
	return filepath.Join(s.dir, docID+".json")
}

func (s *Store) forkPath(docID, forkID string) string {
	return filepath.Join(s.dir, "forks", docID+"."+forkID+".json")
}

// Save writes root as the current snapshot for docID, replacing any
// existing snapshot atomically (write to a temp file, then rename).
func (s *Store) Save(docID string, root schema.Node) error {
	return s.writeSnapshot(s.path(docID), root)
}

func (s *Store) writeSnapshot(path string, root schema.Node) error {
	data, err := schema.MarshalNode(root)
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("docstore: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("docstore: rename into place %s: %w", path, err)
	}
	return nil
}

// Load reads docID's current snapshot.
func (s *Store) Load(docID string) (schema.Node, error) {
	return s.readSnapshot(s.path(docID))
}

func (s *Store) readSnapshot(path string) (schema.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docstore: read %s: %w", path, err)
	}
	n, err := schema.UnmarshalNode(data)
	if err != nil {
		return nil, fmt.Errorf("docstore: decode %s: %w", path, err)
	}
	return n, nil
}

// Exists reports whether docID has a current snapshot.
func (s *Store) Exists(docID string) bool {
	_, err := os.Stat(s.path(docID))
	return err == nil
}

// Fork records forkID's base snapshot (a copy of docID's current state) so
// a later Merge can diff both the main and fork branches against the point
// they diverged from. It does not itself duplicate node ids; callers that
// need execution-isolated ids should run schema.Duplicate before saving
// fork-local edits under a different document id.
func (s *Store) Fork(docID, forkID string) error {
	root, err := s.Load(docID)
	if err != nil {
		return err
	}
	s.logger.Info("docstore.fork", "doc_id", docID, "fork_id", forkID)
	return s.writeSnapshot(s.forkPath(docID, forkID), root)
}

// ForkBase returns the snapshot docID had at the moment Fork(docID, forkID)
// was called.
func (s *Store) ForkBase(docID, forkID string) (schema.Node, error) {
	return s.readSnapshot(s.forkPath(docID, forkID))
}

// HasFork reports whether docID has an open fork named forkID.
func (s *Store) HasFork(docID, forkID string) bool {
	_, err := os.Stat(s.forkPath(docID, forkID))
	return err == nil
}

// DiscardFork removes forkID's recorded base snapshot without touching
// docID's current snapshot.
func (s *Store) DiscardFork(docID, forkID string) error {
	if err := os.Remove(s.forkPath(docID, forkID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("docstore: discard fork %s/%s: %w", docID, forkID, err)
	}
	return nil
}

// list is a small helper that enumerates persisted document ids.
func (s *Store) list() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", s.dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, e.Name()[:len(e.Name())-len(".json")])
	}
	return ids, nil
}
