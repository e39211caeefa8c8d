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

package docsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownSubquery(t *testing.T) {
	_, err := New("nonexistent")
	require.Error(t, err)
}

func TestCallAppliesKeywordFilters(t *testing.T) {
	sq, err := New("references")
	require.NoError(t, err)

	sq, err = sq.Call(nil, map[string]any{"year__gte": 2020})
	require.NoError(t, err)

	generated := sq.Generate("d")
	assert.Contains(t, generated, "EXISTS {")
	assert.Contains(t, generated, "r.year >= 2020")
}

func TestMethodChainsExtendPattern(t *testing.T) {
	sq, err := New("authors")
	require.NoError(t, err)

	sq, err = sq.Method("organizations", nil)
	require.NoError(t, err)

	generated := sq.Generate("d")
	assert.Contains(t, generated, "-[:authored_by]->(p:person)")
	assert.Contains(t, generated, "(o:organization)")
}

func TestCountFilterProducesCountWrapper(t *testing.T) {
	sq, err := New("codeChunks")
	require.NoError(t, err)

	sq, err = sq.Call(nil, map[string]any{"count__gte": 2})
	require.NoError(t, err)

	generated := sq.Generate("d")
	assert.Contains(t, generated, "COUNT {")
	assert.Contains(t, generated, "} >= 2")
}

func TestOnlyOneCountFilterAllowed(t *testing.T) {
	sq, err := New("codeChunks")
	require.NoError(t, err)

	sq, err = sq.Call(nil, map[string]any{"count__gte": 2})
	require.NoError(t, err)

	_, err = sq.Call(nil, map[string]any{"count__lte": 5})
	require.Error(t, err)
}

func TestNestedQueryIsRecordedForIDExtraction(t *testing.T) {
	inner, err := New("authors")
	require.NoError(t, err)

	outer, err := New("references")
	require.NoError(t, err)
	outer, err = outer.Call(inner, nil)
	require.NoError(t, err)

	require.Len(t, outer.queryObjects, 1)
}

func TestRawFiltersPreservesOriginalValues(t *testing.T) {
	sq, err := New("references")
	require.NoError(t, err)

	sq, err = sq.Call(nil, map[string]any{"year__gte": 2020})
	require.NoError(t, err)

	raw := sq.RawFilters()
	require.Len(t, raw, 1)
	assert.Equal(t, "year", raw[0].Property)
	assert.Equal(t, "gte", raw[0].Operator)
	assert.Equal(t, 2020, raw[0].Value)
}
