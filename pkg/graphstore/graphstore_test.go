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

//go:build cgo

package graphstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Engine: "mem"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.EnsureSchema())
	require.NoError(t, s.EnsureSchema())
}

func TestSyncProjectsArticleTree(t *testing.T) {
	s := openTestStore(t)

	article := schema.Article{
		Base: schema.Base{ID: "art_1"},
		Content: schema.Blocks{
			schema.Heading{
				Base:    schema.Base{ID: "hdg_1"},
				Level:   1,
				Content: schema.Inlines{schema.Text{Base: schema.Base{ID: "txt_1"}, Value: schema.NewCord("Title")}},
			},
			schema.Paragraph{
				Base:    schema.Base{ID: "par_1"},
				Content: schema.Inlines{schema.Text{Base: schema.Base{ID: "txt_2"}, Value: schema.NewCord("Body text")}},
			},
		},
	}

	err := s.Sync(context.Background(), "doc_1", article)
	require.NoError(t, err)

	result, err := s.Query(context.Background(), `?[nodeId, content_text] := *paragraph{nodeId, content_text}`, nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Equal(t, "Body text", result.Rows[0][1])
}

func TestSyncDeletesOrphanedNodes(t *testing.T) {
	s := openTestStore(t)

	withParagraph := schema.Article{
		Base: schema.Base{ID: "art_2"},
		Content: schema.Blocks{
			schema.Paragraph{
				Base:    schema.Base{ID: "par_2"},
				Content: schema.Inlines{schema.Text{Base: schema.Base{ID: "txt_3"}, Value: schema.NewCord("Gone soon")}},
			},
		},
	}
	require.NoError(t, s.Sync(context.Background(), "doc_2", withParagraph))

	withoutParagraph := schema.Article{Base: schema.Base{ID: "art_2"}}
	require.NoError(t, s.Sync(context.Background(), "doc_2", withoutParagraph))

	result, err := s.Query(context.Background(), `?[nodeId] := *paragraph{nodeId, docId}, docId = "doc_2"`, nil)
	require.NoError(t, err)
	require.Empty(t, result.Rows)
}

func TestQueryRejectsMutationOnReadOnlyPath(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Query(context.Background(), `?[x] <- [[1]] :put article {nodeId: "x" => docId: "d"}`, nil)
	require.Error(t, err)
}

// TestSyncKeysRowsByNodeIdNotNodePath guards against two different
// documents colliding in the shared per-kind table when a node in each
// happens to sit at the same tree-relative address: nodePath is only
// unique within one document, so the primary key must be the node's own
// stable id instead.
func TestSyncKeysRowsByNodeIdNotNodePath(t *testing.T) {
	s := openTestStore(t)

	first := schema.Article{
		Base: schema.Base{ID: "art_a"},
		Content: schema.Blocks{
			schema.Paragraph{
				Base:    schema.Base{ID: "par_a"},
				Content: schema.Inlines{schema.Text{Base: schema.Base{ID: "txt_a"}, Value: schema.NewCord("from doc a")}},
			},
		},
	}
	second := schema.Article{
		Base: schema.Base{ID: "art_b"},
		Content: schema.Blocks{
			schema.Paragraph{
				Base:    schema.Base{ID: "par_b"},
				Content: schema.Inlines{schema.Text{Base: schema.Base{ID: "txt_b"}, Value: schema.NewCord("from doc b")}},
			},
		},
	}

	require.NoError(t, s.Sync(context.Background(), "doc_a", first))
	require.NoError(t, s.Sync(context.Background(), "doc_b", second))

	result, err := s.Query(context.Background(), `?[nodeId, docId, content_text] := *paragraph{nodeId, docId, content_text}`, nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2, "both documents' paragraphs at the same relative address must coexist")
}
