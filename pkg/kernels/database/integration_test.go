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

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	stenciltesting "github.com/stencila/engine/internal/testing"
	"github.com/stencila/engine/pkg/docstore"
	"github.com/stencila/engine/pkg/graphstore"
	"github.com/stencila/engine/pkg/schema"
)

// fakeResolver resolves every alias it knows about to a fixed store/docs
// pair, standing in for the workspace-wired Resolver a real kernel runner
// supplies.
type fakeResolver map[string]struct {
	store *graphstore.Store
	docs  *docstore.Store
}

func (r fakeResolver) Resolve(alias string) (*graphstore.Store, *docstore.Store, error) {
	entry, ok := r[alias]
	if !ok {
		return nil, nil, &unknownAliasError{alias}
	}
	return entry.store, entry.docs, nil
}

type unknownAliasError struct{ alias string }

func (e *unknownAliasError) Error() string { return "unknown database alias: " + e.alias }

// TestExecuteDereferencesGraphStoreRowsToExcerpts seeds a real graph store
// and document store the way a workspace does, runs a query through the
// database kernel, and checks the (docId, nodePath) rows it returns get
// dereferenced into an Excerpt wrapping the actual paragraph they were
// projected from.
func TestExecuteDereferencesGraphStoreRowsToExcerpts(t *testing.T) {
	store := stenciltesting.SetupTestStore(t)
	stenciltesting.InsertTestParagraph(t, store, "p1", "doc1", "Content.0", "hello world")

	docs, err := docstore.Open(t.TempDir(), nil)
	require.NoError(t, err)

	article := schema.Article{
		Base: schema.Base{ID: "doc1"},
		Content: schema.Blocks{
			schema.Paragraph{
				Base: schema.Base{ID: schema.NewID(schema.KindParagraph)},
				Content: schema.Inlines{
					schema.Text{
						Base:  schema.Base{ID: schema.NewID(schema.KindText)},
						Value: schema.NewCord("hello world"),
					},
				},
			},
		},
	}
	require.NoError(t, docs.Save("doc1", article))

	resolver := fakeResolver{
		"current": {store: store, docs: docs},
	}
	k := Kernel{Resolver: resolver}
	inst, err := k.CreateInstance(schema.BoundsMain)
	require.NoError(t, err)

	query := `?[docId, nodePath] := *paragraph { nodeId: "p1", docId, nodePath }`
	outputs, messages, err := inst.Execute(context.Background(), query)
	require.NoError(t, err)
	require.Empty(t, messages)
	require.Len(t, outputs, 1)

	excerpt, ok := outputs[0].(schema.Excerpt)
	require.True(t, ok, "expected an Excerpt, got %T", outputs[0])
	require.Equal(t, "doc1", excerpt.Source)
	require.Equal(t, "Content.0", excerpt.NodePath)
	require.Len(t, excerpt.Content, 1)

	para, ok := excerpt.Content[0].(schema.Paragraph)
	require.True(t, ok, "expected the excerpt to wrap a Paragraph, got %T", excerpt.Content[0])
	require.Equal(t, "hello world", para.Content[0].(schema.Text).Value.String())
}

// TestExecuteRebindsOnDirectiveChange confirms a "// db" directive switches
// the instance to a different resolved store and clears its document
// cache, so a stale document from the previous alias can't leak through.
func TestExecuteRebindsOnDirectiveChange(t *testing.T) {
	storeA := stenciltesting.SetupTestStore(t)
	stenciltesting.InsertTestParagraph(t, storeA, "pa", "docA", "Content.0", "from a")
	docsA, err := docstore.Open(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, docsA.Save("docA", schema.Article{
		Base: schema.Base{ID: "docA"},
		Content: schema.Blocks{
			schema.Paragraph{
				Base:    schema.Base{ID: schema.NewID(schema.KindParagraph)},
				Content: schema.Inlines{schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord("from a")}},
			},
		},
	}))

	storeB := stenciltesting.SetupTestStore(t)
	stenciltesting.InsertTestParagraph(t, storeB, "pb", "docB", "Content.0", "from b")
	docsB, err := docstore.Open(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, docsB.Save("docB", schema.Article{
		Base: schema.Base{ID: "docB"},
		Content: schema.Blocks{
			schema.Paragraph{
				Base:    schema.Base{ID: schema.NewID(schema.KindParagraph)},
				Content: schema.Inlines{schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord("from b")}},
			},
		},
	}))

	resolver := fakeResolver{
		"a": {store: storeA, docs: docsA},
		"b": {store: storeB, docs: docsB},
	}
	k := Kernel{Resolver: resolver}
	inst, err := k.CreateInstance(schema.BoundsMain)
	require.NoError(t, err)

	outputs, messages, err := inst.Execute(context.Background(), "// db a\n?[docId, nodePath] := *paragraph { nodeId: \"pa\", docId, nodePath }")
	require.NoError(t, err)
	require.Empty(t, messages)
	require.Len(t, outputs, 1)
	require.Equal(t, "docA", outputs[0].(schema.Excerpt).Source)

	outputs, messages, err = inst.Execute(context.Background(), "// db b\n?[docId, nodePath] := *paragraph { nodeId: \"pb\", docId, nodePath }")
	require.NoError(t, err)
	require.Empty(t, messages)
	require.Len(t, outputs, 1)
	require.Equal(t, "docB", outputs[0].(schema.Excerpt).Source)
}
