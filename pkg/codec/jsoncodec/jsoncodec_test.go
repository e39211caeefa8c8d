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

package jsoncodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/codec"
	"github.com/stencila/engine/pkg/schema"
)

func TestRoundTrip(t *testing.T) {
	c := Codec{}
	article := schema.Article{
		Base: schema.Base{ID: "art_1"},
		Content: []schema.Block{
			schema.Paragraph{
				Base:    schema.Base{ID: "par_1"},
				Content: []schema.Inline{schema.Text{Base: schema.Base{ID: "txt_1"}, Value: schema.NewCord("hello")}},
			},
		},
	}

	data, _, err := c.Encode(article, codec.EncodeOptions{Compact: true})
	require.NoError(t, err)

	decoded, _, err := c.Decode(string(data), codec.DecodeOptions{})
	require.NoError(t, err)

	got := decoded.(schema.Article)
	assert.Equal(t, "art_1", got.ID)
	assert.Equal(t, "hello", got.Content[0].(schema.Paragraph).Content[0].(schema.Text).Value.String())
}

func TestSupportsFromType(t *testing.T) {
	c := Codec{}
	assert.Equal(t, codec.NoLoss, c.SupportsFromType(schema.KindArticle))
	assert.Equal(t, codec.NoLoss, c.SupportsToType(schema.KindArticle))
}
