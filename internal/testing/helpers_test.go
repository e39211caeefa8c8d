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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSetupTestStore verifies the test store is created correctly.
func TestSetupTestStore(t *testing.T) {
	store := SetupTestStore(t)

	require.NotNil(t, store)

	result := QueryArticles(t, store)
	require.NotNil(t, result)
	assert.Empty(t, result.Rows, "should start with no articles")
}

// TestInsertTestArticle verifies article insertion.
func TestInsertTestArticle(t *testing.T) {
	store := SetupTestStore(t)

	InsertTestArticle(t, store, "a1", "doc1", "Quarterly Report")

	result := QueryArticles(t, store)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "a1", result.Rows[0][0])
	assert.Equal(t, "Quarterly Report", result.Rows[0][1])
}

// TestInsertTestParagraph verifies paragraph insertion.
func TestInsertTestParagraph(t *testing.T) {
	store := SetupTestStore(t)

	InsertTestParagraph(t, store, "p1", "doc1", "0.0", "hello world")

	result := QueryParagraphs(t, store)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "p1", result.Rows[0][0])
	assert.Equal(t, "hello world", result.Rows[0][1])
}

// TestInsertTestCodeChunk verifies code chunk insertion.
func TestInsertTestCodeChunk(t *testing.T) {
	store := SetupTestStore(t)

	InsertTestCodeChunk(t, store, "c1", "doc1", "0.1", "1 + 1", "python")

	result := QueryCodeChunks(t, store)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "c1", result.Rows[0][0])
	assert.Equal(t, "1 + 1", result.Rows[0][1])
	assert.Equal(t, "python", result.Rows[0][2])
}

// TestMultipleInserts verifies multiple nodes can be inserted.
func TestMultipleInserts(t *testing.T) {
	store := SetupTestStore(t)

	InsertTestParagraph(t, store, "p1", "doc1", "0.0", "first")
	InsertTestParagraph(t, store, "p2", "doc1", "0.1", "second")
	InsertTestParagraph(t, store, "p3", "doc1", "0.2", "third")

	result := QueryParagraphs(t, store)
	require.Len(t, result.Rows, 3)
}

// TestEdgeInsertion verifies owns edges can be inserted.
func TestEdgeInsertion(t *testing.T) {
	store := SetupTestStore(t)

	InsertTestArticle(t, store, "a1", "doc1", "Report")
	InsertTestParagraph(t, store, "p1", "doc1", "0.0", "intro")
	InsertTestParagraph(t, store, "p2", "doc1", "0.1", "body")

	InsertTestOwns(t, store, "a1", "p1")
	InsertTestOwns(t, store, "a1", "p2")
}

// TestStoreIsolation verifies each test gets an isolated store.
func TestStoreIsolation(t *testing.T) {
	store1 := SetupTestStore(t)
	InsertTestParagraph(t, store1, "p1", "doc1", "0.0", "first")

	store2 := SetupTestStore(t)
	result := QueryParagraphs(t, store2)
	assert.Empty(t, result.Rows, "second store should be isolated from first")

	result1 := QueryParagraphs(t, store1)
	assert.Len(t, result1.Rows, 1)
}
