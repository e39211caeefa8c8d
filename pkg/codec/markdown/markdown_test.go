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

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/codec"
	"github.com/stencila/engine/pkg/schema"
)

func decodeArticle(t *testing.T, src string) schema.Article {
	t.Helper()
	c := Codec{}
	n, _, err := c.Decode(src, codec.DecodeOptions{})
	require.NoError(t, err)
	a, ok := n.(schema.Article)
	require.True(t, ok)
	return a
}

func TestDecodeHeadingAndParagraph(t *testing.T) {
	a := decodeArticle(t, "## Title\n\nSome text here.\n")
	require.Len(t, a.Content, 2)

	h, ok := a.Content[0].(schema.Heading)
	require.True(t, ok)
	assert.Equal(t, 2, h.Level)
	assert.Equal(t, "Title", h.Content[0].(schema.Text).Value.String())

	p, ok := a.Content[1].(schema.Paragraph)
	require.True(t, ok)
	assert.Equal(t, "Some text here.", p.Content[0].(schema.Text).Value.String())
}

func TestDecodeEmphasisAndStrong(t *testing.T) {
	a := decodeArticle(t, "a **bold** and *italic* word\n")
	p := a.Content[0].(schema.Paragraph)
	require.Len(t, p.Content, 5)
	assert.Equal(t, "a ", p.Content[0].(schema.Text).Value.String())
	assert.Equal(t, "bold", p.Content[1].(schema.Strong).Content[0].(schema.Text).Value.String())
	assert.Equal(t, " and ", p.Content[2].(schema.Text).Value.String())
	assert.Equal(t, "italic", p.Content[3].(schema.Emphasis).Content[0].(schema.Text).Value.String())
	assert.Equal(t, " word", p.Content[4].(schema.Text).Value.String())
}

func TestDecodeCodeChunkWithExec(t *testing.T) {
	a := decodeArticle(t, "```python exec\nprint(1)\n```\n")
	c, ok := a.Content[0].(schema.CodeChunk)
	require.True(t, ok)
	assert.Equal(t, "python", c.ProgrammingLanguage)
	assert.Equal(t, "print(1)", c.Code.String())
}

func TestDecodeMathBlock(t *testing.T) {
	a := decodeArticle(t, "$$\nx = y + 1\n$$\n")
	m, ok := a.Content[0].(schema.MathBlock)
	require.True(t, ok)
	assert.Equal(t, "x = y + 1", m.Code.String())
}

func TestDecodeUnorderedList(t *testing.T) {
	a := decodeArticle(t, "- one\n- two\n- three\n")
	l, ok := a.Content[0].(schema.List)
	require.True(t, ok)
	assert.Equal(t, "Unordered", l.Order)
	require.Len(t, l.Items, 3)
	para := l.Items[1].Content[0].(schema.Paragraph)
	assert.Equal(t, "two", para.Content[0].(schema.Text).Value.String())
}

func TestDecodeOrderedList(t *testing.T) {
	a := decodeArticle(t, "1. first\n2. second\n")
	l, ok := a.Content[0].(schema.List)
	require.True(t, ok)
	assert.Equal(t, "Ascending", l.Order)
	require.Len(t, l.Items, 2)
}

func TestDecodeQuoteBlock(t *testing.T) {
	a := decodeArticle(t, "> quoted line one\n> quoted line two\n")
	q, ok := a.Content[0].(schema.QuoteBlock)
	require.True(t, ok)
	require.Len(t, q.Content, 1)
	p := q.Content[0].(schema.Paragraph)
	assert.Equal(t, "quoted line one quoted line two", p.Content[0].(schema.Text).Value.String())
}

func TestDecodeThematicBreak(t *testing.T) {
	a := decodeArticle(t, "before\n\n---\n\nafter\n")
	require.Len(t, a.Content, 3)
	_, ok := a.Content[1].(schema.ThematicBreak)
	assert.True(t, ok)
}

func TestDecodeLink(t *testing.T) {
	a := decodeArticle(t, "see [the docs](https://example.com/docs) for more\n")
	p := a.Content[0].(schema.Paragraph)
	var link schema.Link
	for _, in := range p.Content {
		if l, ok := in.(schema.Link); ok {
			link = l
		}
	}
	assert.Equal(t, "https://example.com/docs", link.Target)
	assert.Equal(t, "the docs", link.Content[0].(schema.Text).Value.String())
}

func TestEncodeRoundTripParagraphAndHeading(t *testing.T) {
	c := Codec{}
	article := schema.Article{
		Base: schema.Base{ID: schema.NewID(schema.KindArticle)},
		Content: schema.Blocks{
			schema.Heading{
				Base:    schema.Base{ID: schema.NewID(schema.KindHeading)},
				Level:   1,
				Content: schema.Inlines{schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord("Hello")}},
			},
			schema.Paragraph{
				Base: schema.Base{ID: schema.NewID(schema.KindParagraph)},
				Content: schema.Inlines{
					schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord("plain and ")},
					schema.Strong{
						Base:    schema.Base{ID: schema.NewID(schema.KindStrong)},
						Content: schema.Inlines{schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord("bold")}},
					},
				},
			},
		},
	}

	out, info, err := c.Encode(article, codec.EncodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, info.Losses)
	assert.NotEmpty(t, info.Mapping)

	decoded := decodeArticle(t, string(out))
	require.Len(t, decoded.Content, 2)
	h := decoded.Content[0].(schema.Heading)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "Hello", h.Content[0].(schema.Text).Value.String())

	p := decoded.Content[1].(schema.Paragraph)
	assert.Equal(t, "plain and ", p.Content[0].(schema.Text).Value.String())
	assert.Equal(t, "bold", p.Content[1].(schema.Strong).Content[0].(schema.Text).Value.String())
}

func TestEncodeUnsupportedNodeIsCountedAsLoss(t *testing.T) {
	c := Codec{}
	article := schema.Article{
		Base: schema.Base{ID: schema.NewID(schema.KindArticle)},
		Content: schema.Blocks{
			schema.Figure{Base: schema.Base{ID: schema.NewID(schema.KindFigure)}},
		},
	}
	_, info, err := c.Encode(article, codec.EncodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, info.Losses["Figure"])
}

func TestSupportForTypeReflectsImplementedSet(t *testing.T) {
	c := Codec{}
	assert.Equal(t, codec.NoLoss, c.SupportsToType(schema.KindParagraph))
	assert.Equal(t, codec.HighLoss, c.SupportsToType(schema.KindFigure))
}
