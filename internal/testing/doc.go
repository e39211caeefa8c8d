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

// Package testing provides test helpers for graph store integration tests.
//
// This package wraps pkg/graphstore with data-seeding utilities for the
// document node schema, the same role the teacher's own testing package
// played for its code-entity schema.
//
// # Quick Start
//
// Use SetupTestStore to create an in-memory graph store with schema:
//
//	func TestMyFeature(t *testing.T) {
//	    store := testing.SetupTestStore(t)
//
//	    // Store is ready with the document node schema initialized
//	    testing.InsertTestParagraph(t, store, "p1", "doc1", "0.0", "hello")
//
//	    // Query and verify
//	    paragraphs := testing.QueryParagraphs(t, store)
//	    require.Len(t, paragraphs.Rows, 1)
//	}
//
// # Seeding Test Data
//
// The package provides helpers for inserting common test nodes:
//   - InsertTestArticle: add an article node
//   - InsertTestParagraph: add a paragraph node
//   - InsertTestCodeChunk: add a code chunk node
//   - InsertTestOwns: link a parent node to a child node
//
// # Querying Test Data
//
// Helper functions for common queries:
//   - QueryArticles: get every article node
//   - QueryParagraphs: get every paragraph node
//   - QueryCodeChunks: get every code chunk node
package testing
