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

package latex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/codec"
	"github.com/stencila/engine/pkg/schema"
)

func TestDecodeUnsupported(t *testing.T) {
	c := Codec{}
	_, _, err := c.Decode("\\section{x}", codec.DecodeOptions{})
	assert.Error(t, err)
}

func TestEncodeHeadingAndParagraph(t *testing.T) {
	c := Codec{}
	article := schema.Article{
		Base: schema.Base{ID: schema.NewID(schema.KindArticle)},
		Content: schema.Blocks{
			schema.Heading{
				Base:    schema.Base{ID: schema.NewID(schema.KindHeading)},
				Level:   1,
				Content: schema.Inlines{schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord("Intro")}},
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
	assert.Contains(t, string(out), "\\section{Intro}")
	assert.Contains(t, string(out), "plain and \\textbf{bold}")
}

func TestEncodeList(t *testing.T) {
	c := Codec{}
	article := schema.Article{
		Base: schema.Base{ID: schema.NewID(schema.KindArticle)},
		Content: schema.Blocks{
			schema.List{
				Base:  schema.Base{ID: schema.NewID(schema.KindList)},
				Order: "Ascending",
				Items: []schema.ListItem{
					{
						Base: schema.Base{ID: schema.NewID(schema.KindListItem)},
						Content: schema.Blocks{schema.Paragraph{
							Base:    schema.Base{ID: schema.NewID(schema.KindParagraph)},
							Content: schema.Inlines{schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord("first")}},
						}},
					},
				},
			},
		},
	}

	out, _, err := c.Encode(article, codec.EncodeOptions{})
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.Contains(s, "\\begin{enumerate}"))
	assert.True(t, strings.Contains(s, "\\item first"))
	assert.True(t, strings.Contains(s, "\\end{enumerate}"))
}

func TestEncodeMathAndCodeChunk(t *testing.T) {
	c := Codec{}
	article := schema.Article{
		Base: schema.Base{ID: schema.NewID(schema.KindArticle)},
		Content: schema.Blocks{
			schema.MathBlock{Base: schema.Base{ID: schema.NewID(schema.KindMathBlock)}, Code: schema.NewCord("x = y")},
			schema.CodeChunk{Base: schema.Base{ID: schema.NewID(schema.KindCodeChunk)}, Code: schema.NewCord("print(1)")},
		},
	}

	out, _, err := c.Encode(article, codec.EncodeOptions{})
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "\\[\nx = y\n\\]")
	assert.Contains(t, s, "\\begin{verbatim}\nprint(1)\n\\end{verbatim}")
}

func TestEncodeEscapesSpecialCharacters(t *testing.T) {
	c := Codec{}
	article := schema.Article{
		Base: schema.Base{ID: schema.NewID(schema.KindArticle)},
		Content: schema.Blocks{
			schema.Paragraph{
				Base:    schema.Base{ID: schema.NewID(schema.KindParagraph)},
				Content: schema.Inlines{schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord("50% & more_stuff")}},
			},
		},
	}

	out, _, err := c.Encode(article, codec.EncodeOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "50\\% \\& more\\_stuff")
}

func TestEncodeStandaloneWrapsDocument(t *testing.T) {
	c := Codec{}
	article := schema.Article{Base: schema.Base{ID: schema.NewID(schema.KindArticle)}}
	out, _, err := c.Encode(article, codec.EncodeOptions{Standalone: true})
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, "\\documentclass{article}"))
	assert.True(t, strings.HasSuffix(s, "\\end{document}\n"))
}

func TestEncodeUnsupportedNodeIsLoss(t *testing.T) {
	c := Codec{}
	article := schema.Article{
		Base:    schema.Base{ID: schema.NewID(schema.KindArticle)},
		Content: schema.Blocks{schema.Figure{Base: schema.Base{ID: schema.NewID(schema.KindFigure)}}},
	}
	_, info, err := c.Encode(article, codec.EncodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, info.Losses["Figure"])
}
