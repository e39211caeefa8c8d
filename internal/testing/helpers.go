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

package testing

import (
	"context"
	"testing"

	cozo "github.com/stencila/engine/pkg/cozodb"
	"github.com/stencila/engine/pkg/graphstore"
)

// SetupTestStore creates an in-memory graph store for testing. The store is
// automatically closed when the test finishes.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    store := testing.SetupTestStore(t)
//
//	    // Store is ready with the document node schema initialized
//	    testing.InsertTestParagraph(t, store, "p1", "doc1", "0.0", "hello")
//
//	    // Run your tests...
//	}
func SetupTestStore(t *testing.T) *graphstore.Store {
	t.Helper()

	store, err := graphstore.Open(graphstore.Config{Engine: "mem"})
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// InsertTestArticle adds a test article node to the graph store.
//
// Example:
//
//	store := testing.SetupTestStore(t)
//	testing.InsertTestArticle(t, store, "a1", "doc1", "Report")
func InsertTestArticle(t *testing.T, store *graphstore.Store, nodeID, docID, title string) {
	t.Helper()

	query := `?[nodeId, docId, nodePath, nodeAncestors, position, title, content_text] <- [[
		$nodeId, $docId, "", [], 0, $title, null
	]]
	:put article { nodeId, docId, nodePath, nodeAncestors, position, title, content_text }`

	err := store.Execute(context.Background(), query, map[string]any{
		"nodeId": nodeID,
		"docId":  docID,
		"title":  title,
	})
	if err != nil {
		t.Fatalf("failed to insert test article: %v", err)
	}
}

// InsertTestParagraph adds a test paragraph node to the graph store.
//
// Example:
//
//	testing.InsertTestParagraph(t, store, "p1", "doc1", "0.0", "hello world")
func InsertTestParagraph(t *testing.T, store *graphstore.Store, nodeID, docID, nodePath, contentText string) {
	t.Helper()

	query := `?[nodeId, docId, nodePath, nodeAncestors, position, content_text] <- [[
		$nodeId, $docId, $nodePath, [], 0, $contentText
	]]
	:put paragraph { nodeId, docId, nodePath, nodeAncestors, position, content_text }`

	err := store.Execute(context.Background(), query, map[string]any{
		"nodeId":      nodeID,
		"docId":       docID,
		"nodePath":    nodePath,
		"contentText": contentText,
	})
	if err != nil {
		t.Fatalf("failed to insert test paragraph: %v", err)
	}
}

// InsertTestCodeChunk adds a test code chunk node to the graph store.
//
// Example:
//
//	testing.InsertTestCodeChunk(t, store, "c1", "doc1", "0.1", "1 + 1", "python")
func InsertTestCodeChunk(t *testing.T, store *graphstore.Store, nodeID, docID, nodePath, code, language string) {
	t.Helper()

	query := `?[nodeId, docId, nodePath, nodeAncestors, position, code, language, output_text] <- [[
		$nodeId, $docId, $nodePath, [], 0, $code, $language, null
	]]
	:put code_chunk { nodeId, docId, nodePath, nodeAncestors, position, code, language, output_text }`

	err := store.Execute(context.Background(), query, map[string]any{
		"nodeId":   nodeID,
		"docId":    docID,
		"nodePath": nodePath,
		"code":     code,
		"language": language,
	})
	if err != nil {
		t.Fatalf("failed to insert test code chunk: %v", err)
	}
}

// InsertTestOwns adds an "owns" structural-containment edge between two
// nodes to the graph store.
//
// Example:
//
//	testing.InsertTestOwns(t, store, "a1", "p1")
func InsertTestOwns(t *testing.T, store *graphstore.Store, fromNodeID, toNodeID string) {
	t.Helper()

	query := `?[from_node_id, to_node_id, position] <- [[
		$fromNodeId, $toNodeId, 0
	]]
	:put owns { from_node_id, to_node_id, position }`

	err := store.Execute(context.Background(), query, map[string]any{
		"fromNodeId": fromNodeID,
		"toNodeId":   toNodeID,
	})
	if err != nil {
		t.Fatalf("failed to insert owns edge: %v", err)
	}
}

// QueryArticles is a helper to query every article node from the graph
// store. Returns rows with [nodeId, title] columns.
//
// Example:
//
//	result := testing.QueryArticles(t, store)
//	require.Len(t, result.Rows, 1)
func QueryArticles(t *testing.T, store *graphstore.Store) cozo.NamedRows {
	t.Helper()

	result, err := store.Query(context.Background(), "?[nodeId, title] := *article { nodeId, title }", nil)
	if err != nil {
		t.Fatalf("failed to query articles: %v", err)
	}
	return result
}

// QueryParagraphs is a helper to query every paragraph node from the graph
// store. Returns rows with [nodeId, content_text] columns.
//
// Example:
//
//	result := testing.QueryParagraphs(t, store)
//	require.Len(t, result.Rows, 1)
func QueryParagraphs(t *testing.T, store *graphstore.Store) cozo.NamedRows {
	t.Helper()

	result, err := store.Query(context.Background(), "?[nodeId, content_text] := *paragraph { nodeId, content_text }", nil)
	if err != nil {
		t.Fatalf("failed to query paragraphs: %v", err)
	}
	return result
}

// QueryCodeChunks is a helper to query every code chunk node from the graph
// store. Returns rows with [nodeId, code, language] columns.
//
// Example:
//
//	result := testing.QueryCodeChunks(t, store)
//	require.Len(t, result.Rows, 1)
func QueryCodeChunks(t *testing.T, store *graphstore.Store) cozo.NamedRows {
	t.Helper()

	result, err := store.Query(context.Background(), "?[nodeId, code, language] := *code_chunk { nodeId, code, language }", nil)
	if err != nil {
		t.Fatalf("failed to query code chunks: %v", err)
	}
	return result
}
