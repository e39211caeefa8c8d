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

package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/schema"
)

func mkArticle(text string) schema.Article {
	return schema.Article{
		Base: schema.Base{ID: "art_1"},
		Content: []schema.Block{
			schema.Paragraph{
				Base:    schema.Base{ID: "par_1"},
				Content: []schema.Inline{schema.Text{Base: schema.Base{ID: "txt_1"}, Value: schema.NewCord(text)}},
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir(), nil)
	require.NoError(t, err)

	art := mkArticle("hello world")
	require.NoError(t, store.Save("doc1", art))
	assert.True(t, store.Exists("doc1"))

	got, err := store.Load("doc1")
	require.NoError(t, err)
	loaded := got.(schema.Article)
	assert.Equal(t, "art_1", loaded.ID)
	para := loaded.Content[0].(schema.Paragraph)
	txt := para.Content[0].(schema.Text)
	assert.Equal(t, "hello world", txt.Value.String())
}

func TestForkAndForkBase(t *testing.T) {
	store, err := Open(t.TempDir(), nil)
	require.NoError(t, err)

	art := mkArticle("hello world")
	require.NoError(t, store.Save("doc1", art))
	require.NoError(t, store.Fork("doc1", "execfork"))
	assert.True(t, store.HasFork("doc1", "execfork"))

	base, err := store.ForkBase("doc1", "execfork")
	require.NoError(t, err)
	assert.Equal(t, "hello world", base.(schema.Article).Content[0].(schema.Paragraph).Content[0].(schema.Text).Value.String())

	require.NoError(t, store.DiscardFork("doc1", "execfork"))
	assert.False(t, store.HasFork("doc1", "execfork"))
}

func TestMergeNonOverlappingCordEdits(t *testing.T) {
	base := mkArticle("hello world")
	main := mkArticle("hello there world")
	fork := mkArticle("hello world, truly")

	merged, err := Merge(base, main, fork)
	require.NoError(t, err)
	text := merged.(schema.Article).Content[0].(schema.Paragraph).Content[0].(schema.Text).Value.String()
	assert.Contains(t, text, "there")
	assert.Contains(t, text, "truly")
}

func TestMergeIndependentFieldEdits(t *testing.T) {
	base := mkArticle("hello")
	main := mkArticle("hello")
	main.Title = []schema.Inline{schema.Text{Base: schema.Base{ID: "txt_title"}, Value: schema.NewCord("Main Title")}}
	fork := mkArticle("hello")
	fork.Authors = []string{"Ada Lovelace"}

	merged, err := Merge(base, main, fork)
	require.NoError(t, err)
	result := merged.(schema.Article)
	require.Len(t, result.Title, 1)
	assert.Equal(t, "Main Title", result.Title[0].(schema.Text).Value.String())
	assert.Equal(t, []string{"Ada Lovelace"}, result.Authors)
}

func TestMergeConflictingScalarFieldForkWins(t *testing.T) {
	base := schema.Heading{Base: schema.Base{ID: "hdg_1"}, Level: 1}
	main := schema.Heading{Base: schema.Base{ID: "hdg_1"}, Level: 2}
	fork := schema.Heading{Base: schema.Base{ID: "hdg_1"}, Level: 3}

	merged, err := Merge(base, main, fork)
	require.NoError(t, err)
	assert.Equal(t, 3, merged.(schema.Heading).Level)
}
