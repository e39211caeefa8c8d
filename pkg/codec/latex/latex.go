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

// Package latex implements an encode-only LaTeX codec (spec §4.6 describes
// this codec as "illustrative of the pattern" rather than a full
// round-trip target; there is deliberately no LaTeX decoder here).
package latex

import (
	"fmt"

	"github.com/stencila/engine/pkg/codec"
	"github.com/stencila/engine/pkg/schema"
)

// Codec implements codec.Codec for the "latex" format, encode direction only.
type Codec struct{}

func (Codec) Formats() []string { return []string{"latex", "tex"} }

func (Codec) SupportsFromString() bool { return false }
func (Codec) SupportsFromPath() bool   { return false }
func (Codec) SupportsToString() bool   { return true }
func (Codec) SupportsToPath() bool     { return true }

func (Codec) SupportsFromType(schema.Kind) codec.Loss { return codec.None }
func (Codec) SupportsToType(k schema.Kind) codec.Loss { return supportForType(k) }

func supportForType(k schema.Kind) codec.Loss {
	switch k {
	case schema.KindArticle, schema.KindParagraph, schema.KindHeading, schema.KindList,
		schema.KindListItem, schema.KindQuoteBlock, schema.KindThematicBreak,
		schema.KindCodeChunk, schema.KindMathBlock,
		schema.KindText, schema.KindStrong, schema.KindEmphasis, schema.KindCodeInline,
		schema.KindMathInline, schema.KindLink:
		return codec.NoLoss
	default:
		return codec.HighLoss
	}
}

func (Codec) Decode(string, codec.DecodeOptions) (schema.Node, codec.DecodeInfo, error) {
	return nil, codec.DecodeInfo{}, fmt.Errorf("latex: decode not supported")
}

func (c Codec) Encode(root schema.Node, opts codec.EncodeOptions) ([]byte, codec.EncodeInfo, error) {
	e := &encoder{losses: codec.Losses{}}
	if opts.Standalone {
		e.push("\\documentclass{article}\n\\usepackage{amsmath}\n\\begin{document}\n\n")
	}
	e.encodeNode(root)
	if opts.Standalone {
		e.push("\\end{document}\n")
	}
	return []byte(e.buf.String()), codec.EncodeInfo{Losses: e.losses, Mapping: e.mapping}, nil
}
