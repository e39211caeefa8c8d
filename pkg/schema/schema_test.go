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

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/address"
)

func sampleArticle() Article {
	return Article{
		Base: Base{ID: NewID(KindArticle)},
		Content: []Block{
			Paragraph{
				Base:    Base{ID: NewID(KindParagraph)},
				Content: []Inline{Text{Base: Base{ID: NewID(KindText)}, Value: NewCord("hello")}},
			},
		},
	}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	art := sampleArticle()
	var kinds []Kind
	Walk(art, func(addr address.Address, n Node) bool {
		kinds = append(kinds, n.NodeType())
		return true
	})
	assert.Equal(t, []Kind{KindArticle, KindParagraph, KindText}, kinds)
}

func TestFindByID(t *testing.T) {
	art := sampleArticle()
	textID := art.Content[0].(Paragraph).Content[0].(Text).ID

	n, addr, ok := Find(art, textID)
	require.True(t, ok)
	assert.Equal(t, KindText, n.NodeType())
	assert.Equal(t, "content.0.content.0", addr.String())
}

func TestReplicatePreservesIDs(t *testing.T) {
	art := sampleArticle()
	copied := Replicate(art).(Article)
	assert.Equal(t, art.ID, copied.ID)
	assert.Equal(t, art.Content[0].NodeID(), copied.Content[0].NodeID())

	// But it's a deep copy: mutating the copy's slice doesn't touch the original.
	copiedPara := copied.Content[0].(Paragraph)
	copiedPara.Content = nil
	assert.Len(t, art.Content[0].(Paragraph).Content, 1)
}

func TestDuplicateMintsFreshIDs(t *testing.T) {
	art := sampleArticle()
	dup := Duplicate(art).(Article)
	assert.NotEqual(t, art.ID, dup.ID)
	assert.NotEqual(t, art.Content[0].NodeID(), dup.Content[0].NodeID())
	assert.Equal(t, art.NodeType(), dup.NodeType())
}
