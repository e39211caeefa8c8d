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

// Package markdown implements the Markdown codec (spec §4.6), including
// Stencila's executable-block extensions: fenced code chunks tagged
// `exec`, `$$...$$` math blocks, and `$...$` inline math. It is a
// hand-written recursive-descent parser rather than a wrapper around a
// general Markdown library (see DESIGN.md) because those libraries don't
// expose the per-node character-range mapping and loss accounting this
// codec has to produce.
package markdown

import (
	"github.com/stencila/engine/pkg/codec"
	"github.com/stencila/engine/pkg/schema"
)

// Codec implements codec.Codec for the "markdown" format.
type Codec struct{}

func (Codec) Formats() []string { return []string{"markdown", "md"} }

func (Codec) SupportsFromString() bool { return true }
func (Codec) SupportsFromPath() bool   { return true }
func (Codec) SupportsToString() bool   { return true }
func (Codec) SupportsToPath() bool     { return true }

func (Codec) SupportsFromType(k schema.Kind) codec.Loss { return supportForType(k) }
func (Codec) SupportsToType(k schema.Kind) codec.Loss   { return supportForType(k) }

func supportForType(k schema.Kind) codec.Loss {
	switch k {
	case schema.KindArticle, schema.KindParagraph, schema.KindHeading, schema.KindList,
		schema.KindListItem, schema.KindQuoteBlock, schema.KindThematicBreak,
		schema.KindCodeChunk, schema.KindMathBlock,
		schema.KindText, schema.KindStrong, schema.KindEmphasis, schema.KindCodeInline,
		schema.KindMathInline, schema.KindLink:
		return codec.NoLoss
	default:
		// Everything else is either dropped (executable blocks this codec
		// doesn't special-case) or, for inlines, counted as a loss by
		// encodeInline's fallback branch and left out of the output.
		return codec.HighLoss
	}
}

func (c Codec) Decode(input string, _ codec.DecodeOptions) (schema.Node, codec.DecodeInfo, error) {
	d := &decoder{src: input, losses: codec.Losses{}}
	article := d.decodeArticle()
	return article, codec.DecodeInfo{Losses: d.losses}, nil
}

func (c Codec) Encode(root schema.Node, opts codec.EncodeOptions) ([]byte, codec.EncodeInfo, error) {
	e := &encoder{losses: codec.Losses{}}
	e.encodeNode(root)
	return []byte(e.buf.String()), codec.EncodeInfo{Losses: e.losses, Mapping: e.mapping}, nil
}
