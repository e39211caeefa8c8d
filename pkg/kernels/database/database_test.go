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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/schema"
)

func TestSplitDirectiveExtractsAlias(t *testing.T) {
	alias, rest := splitDirective("// db workspace\n?[x] := x = 1")
	require.Equal(t, "workspace", alias)
	require.Equal(t, "?[x] := x = 1", rest)
}

func TestSplitDirectiveDefaultsToCurrent(t *testing.T) {
	alias, rest := splitDirective("?[x] := x = 1")
	require.Equal(t, "current", alias)
	require.Equal(t, "?[x] := x = 1", rest)
}

func TestDocumentCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := newDocumentCache(2)
	c.put("a", schema.Article{Base: schema.Base{ID: "art_a"}})
	c.put("b", schema.Article{Base: schema.Base{ID: "art_b"}})

	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", schema.Article{Base: schema.Base{ID: "art_c"}})

	_, ok = c.get("b")
	require.False(t, ok, "b should have been evicted as least recently used")

	_, ok = c.get("a")
	require.True(t, ok)
	_, ok = c.get("c")
	require.True(t, ok)
}

func TestDocumentCacheClear(t *testing.T) {
	c := newDocumentCache(2)
	c.put("a", schema.Article{Base: schema.Base{ID: "art_a"}})
	c.clear()
	_, ok := c.get("a")
	require.False(t, ok)
}
