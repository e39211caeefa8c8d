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

package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

func TestDiffApplyRoundTripScalarField(t *testing.T) {
	old := schema.Heading{Base: schema.Base{ID: "hdg_1"}, Level: 1}
	new := schema.Heading{Base: schema.Base{ID: "hdg_1"}, Level: 2}

	ops := Diff(old, new)
	require.Len(t, ops, 1)
	assert.Equal(t, OpSet, ops[0].Type)
	assert.Equal(t, "level", ops[0].Address.String())

	got, err := Apply(old, ops)
	require.NoError(t, err)
	assert.Equal(t, new, got.(schema.Heading))
}

func TestDiffApplyRoundTripCordField(t *testing.T) {
	old := schema.Text{Base: schema.Base{ID: "txt_1"}, Value: schema.NewCord("hello")}
	new := schema.Text{Base: schema.Base{ID: "txt_1"}, Value: schema.NewCord("hello world")}

	ops := Diff(old, new)
	require.Len(t, ops, 1)
	assert.Equal(t, "value", ops[0].Address.String())

	got, err := Apply(old, ops)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got.(schema.Text).Value.String())
}

func TestDiffSliceAddRemove(t *testing.T) {
	mkPara := func(id, text string) schema.Paragraph {
		return schema.Paragraph{
			Base:    schema.Base{ID: id},
			Content: []schema.Inline{schema.Text{Base: schema.Base{ID: id + "_t"}, Value: schema.NewCord(text)}},
		}
	}
	old := schema.Article{
		Base:    schema.Base{ID: "art_1"},
		Content: []schema.Block{mkPara("par_1", "first"), mkPara("par_2", "second")},
	}
	new := schema.Article{
		Base:    schema.Base{ID: "art_1"},
		Content: []schema.Block{mkPara("par_2", "second"), mkPara("par_3", "third")},
	}

	ops := Diff(old, new)

	var sawRemove, sawAdd bool
	for _, op := range ops {
		if op.Type == OpRemove {
			sawRemove = true
		}
		if op.Type == OpAdd {
			sawAdd = true
		}
	}
	assert.True(t, sawRemove, "expected a Remove for par_1")
	assert.True(t, sawAdd, "expected an Add for par_3")

	got, err := Apply(old, ops)
	require.NoError(t, err)
	result := got.(schema.Article)
	require.Len(t, result.Content, 2)
	assert.Equal(t, "par_2", result.Content[0].NodeID())
	assert.Equal(t, "par_3", result.Content[1].NodeID())
}

func TestApplyAddToSlice(t *testing.T) {
	root := schema.Paragraph{
		Base:    schema.Base{ID: "par_1"},
		Content: []schema.Inline{schema.Text{Base: schema.Base{ID: "txt_1"}, Value: schema.NewCord("a")}},
	}
	newText := schema.Text{Base: schema.Base{ID: "txt_2"}, Value: schema.NewCord("b")}

	ops := Patch{{Type: OpAdd, Address: address.Empty().PushName("content").PushIndex(1), Value: schema.Inline(newText)}}
	got, err := Apply(root, ops)
	require.NoError(t, err)
	result := got.(schema.Paragraph)
	require.Len(t, result.Content, 2)
	assert.Equal(t, "txt_2", result.Content[1].NodeID())
}
