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

// Package graphstore projects a document tree into a node-table-per-variant
// plus relationship-table schema over CozoDB (spec §4.13): one row per node
// per variant, with derived docId/nodeId/nodePath/nodeAncestors/position
// columns, FTS over text content, and an HNSW index over embeddings.
package graphstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	cozo "github.com/stencila/engine/pkg/cozodb"
)

// Config configures a Store.
type Config struct {
	// DataDir is where CozoDB persists its data. Defaults to
	// ~/.stencila/graph/<ProjectID>.
	DataDir string

	// Engine is the CozoDB storage engine: "rocksdb", "sqlite", or "mem".
	// Defaults to "rocksdb".
	Engine string

	// ProjectID namespaces DataDir when set.
	ProjectID string
}

// Store is the graph store adapter: a CozoDB-backed projection of document
// trees, kept in sync by patch application (see sync.go).
type Store struct {
	db     cozo.DB
	mu     sync.RWMutex
	closed bool
}

// Open opens (creating if necessary) the graph store's backing database and
// ensures its schema and indices exist.
func Open(config Config) (*Store, error) {
	if config.Engine == "" {
		config.Engine = "rocksdb"
	}
	if config.DataDir == "" && config.Engine != "mem" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("graphstore: home dir: %w", err)
		}
		config.DataDir = filepath.Join(home, ".stencila", "graph")
		if config.ProjectID != "" {
			config.DataDir = filepath.Join(config.DataDir, config.ProjectID)
		}
	}
	if config.DataDir != "" {
		if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("graphstore: create data dir: %w", err)
		}
	}

	db, err := cozo.Open(config.Engine, config.DataDir, nil)
	if err != nil {
		return nil, fmt.Errorf("graphstore: open cozodb: %w", err)
	}

	s := &Store{db: db}
	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.CreateIndices(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Query runs a read-only Datalog query.
func (s *Store) Query(ctx context.Context, script string, params map[string]any) (cozo.NamedRows, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return cozo.NamedRows{}, fmt.Errorf("graphstore: store is closed")
	}
	select {
	case <-ctx.Done():
		return cozo.NamedRows{}, ctx.Err()
	default:
	}
	return s.db.RunReadOnly(script, params)
}

// Execute runs a Datalog mutation.
func (s *Store) Execute(ctx context.Context, script string, params map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("graphstore: store is closed")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	_, err := s.db.Run(script, params)
	return err
}

// Close releases the store's resources.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.db.Close()
	return nil
}
