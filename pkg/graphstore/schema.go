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

package graphstore

import "fmt"

// EmbeddingDimensions is the vector width graph store embeddings are
// stored at; the DocsQL similarity operators assume this width
// everywhere it's used.
const EmbeddingDimensions = 384

// nodeTables lists, for every node variant projected into the graph, its
// relation name and the columns specific to that variant beyond the common
// ones every node table shares (docId, nodeId, nodePath, nodeAncestors,
// position). This plays the role the teacher's cie_function / cie_type /
// cie_import relations play for code entities, kept to the same
// one-relation-per-kind shape, but re-keyed onto Stencila's document node
// kinds. It mirrors, in flattened Datalog-relation form, the struct-per-kind
// tables a Kuzu-backed store would declare with CREATE NODE TABLE.
var nodeTables = map[string][]string{
	"article":    {"title: String?", "content_text: String?"},
	"heading":    {"level: Int", "content_text: String?"},
	"paragraph":  {"content_text: String?"},
	"list":       {"ordered: Bool"},
	"list_item":  {"content_text: String?"},
	"code_chunk": {"code: String", "language: String?", "output_text: String?"},
	"math_block": {"code: String", "language: String?"},
	"quote_block": {"content_text: String?"},
	"section":    {"section_type: String?"},
	"if_block":   {},
	"for_block":  {"variable: String", "code: String", "language: String?"},
	"chat":       {"prompt: String?"},
	"table":      {},
	"figure":     {"caption_text: String?"},
}

// relationships lists every owning or referencing edge between node
// tables: "owns" for parent/child structural containment (the edge a
// nodePath/nodeAncestors pair already encodes redundantly, kept as its own
// relation so Datalog joins don't need to unpack nodePath strings), and the
// named reference edges DocsQL's subquery callables traverse (spec §4.14:
// _authors, _references, _codeChunks...).

// relationshipTable is a named edge relation between two node tables.
type relationshipTable struct {
	name, from, to string
}

var relationships = []relationshipTable{
	{name: "owns", from: "*", to: "*"},
	{name: "cites", from: "cite", to: "reference"},
	{name: "authored_by", from: "article", to: "person"},
	{name: "includes", from: "include_block", to: "article"},
	{name: "calls", from: "call_block", to: "article"},
	{name: "affiliated_with", from: "person", to: "organization"},
}

// EnsureSchema creates every node table and relationship table the graph
// store needs. Relations that `::relations` already lists are skipped, so
// re-running EnsureSchema against an already populated store is a no-op
// rather than an error. Indices are created separately, by CreateIndices.
func (s *Store) EnsureSchema() error {
	res, err := s.db.Run("::relations", nil)
	if err != nil {
		return fmt.Errorf("graphstore: list relations: %w", err)
	}
	existing := map[string]bool{}
	for _, row := range res.Rows {
		if name, ok := row[0].(string); ok {
			existing[name] = true
		}
	}
	for kind, cols := range nodeTables {
		if existing[kind] {
			continue
		}
		script := buildNodeTableScript(kind, cols)
		if _, err := s.db.Run(script, nil); err != nil {
			return fmt.Errorf("graphstore: create %s table: %w", kind, err)
		}
	}
	for _, rel := range relationships {
		if existing[rel.name] {
			continue
		}
		script := fmt.Sprintf(
			`:create %s {from_node_id: String, to_node_id: String => position: Int default 0}`,
			rel.name,
		)
		if _, err := s.db.Run(script, nil); err != nil {
			return fmt.Errorf("graphstore: create %s relation: %w", rel.name, err)
		}
	}
	return nil
}

// buildNodeTableScript renders the CozoScript :create statement for one
// node table. Every table shares the same key/derived-column prefix
// (nodeId is the key; docId, nodePath, nodeAncestors and position are
// always present) so DocsQL queries can join across node kinds without
// per-kind special-casing.
func buildNodeTableScript(kind string, cols []string) string {
	script := ":create " + kind + " {\n\tnodeId: String\n\t=>\n"
	script += "\tdocId: String,\n"
	script += "\tnodePath: String,\n"
	script += "\tnodeAncestors: [String],\n"
	script += "\tposition: Int default 0,\n"
	for _, col := range cols {
		script += "\t" + col + ",\n"
	}
	script += fmt.Sprintf("\tembedding: <F32; %d>?\n}", EmbeddingDimensions)
	return script
}

// CreateIndices builds the full-text search and HNSW vector indices the
// graph store's search and similarity operators need. CreateHNSWIndex is
// kept as its own exported method, as the teacher's storage layer does,
// since callers sometimes need to (re)build just the vector index after a
// bulk embedding backfill without touching FTS.
func (s *Store) CreateIndices() error {
	for kind, cols := range nodeTables {
		if !hasContentColumn(cols) {
			continue
		}
		script := fmt.Sprintf(
			`::fts create %s:content_idx {extractor: content_text, tokenizer: Simple}`,
			kind,
		)
		if _, err := s.db.Run(script, nil); err != nil {
			return fmt.Errorf("graphstore: create fts index on %s: %w", kind, err)
		}
	}
	return s.CreateHNSWIndex()
}

// CreateHNSWIndex builds (or rebuilds) the HNSW vector index over every
// node table's embedding column.
func (s *Store) CreateHNSWIndex() error {
	for kind := range nodeTables {
		script := fmt.Sprintf(
			`::hnsw create %s:embedding_idx {fields: [embedding], dim: %d, dtype: F32, distance: Cosine, m: 16, ef_construction: 200}`,
			kind, EmbeddingDimensions,
		)
		if _, err := s.db.Run(script, nil); err != nil {
			return fmt.Errorf("graphstore: create hnsw index on %s: %w", kind, err)
		}
	}
	return nil
}

func hasContentColumn(cols []string) bool {
	for _, col := range cols {
		if len(col) >= len("content_text") && col[:len("content_text")] == "content_text" {
			return true
		}
	}
	return false
}
