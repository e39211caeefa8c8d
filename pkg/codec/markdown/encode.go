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
	"fmt"
	"strconv"
	"strings"

	"github.com/stencila/engine/pkg/codec"
	"github.com/stencila/engine/pkg/schema"
)

// encoder accumulates Markdown text for a tree, recording a mapping entry
// for every node it enters so a caller can translate a character range in
// the output back to the node (and property) that produced it. This
// enter/exit-producing-a-range shape is the same one the LaTeX encoder
// uses (spec §4.6's "illustrative" pattern).
type encoder struct {
	buf     strings.Builder
	mapping []codec.MappingEntry
	losses  codec.Losses
}

// enter records buf's current length as the start of a node's range;
// the caller calls exit with the returned index once the node's
// content has been written.
func (e *encoder) enter(n schema.Node, property string) int {
	e.mapping = append(e.mapping, codec.MappingEntry{
		Start:    e.buf.Len(),
		NodeType: string(n.NodeType()),
		NodeID:   n.NodeID(),
		Property: property,
	})
	return len(e.mapping) - 1
}

func (e *encoder) exit(idx int) {
	e.mapping[idx].End = e.buf.Len()
}

func (e *encoder) push(s string) { e.buf.WriteString(s) }

func (e *encoder) encodeNode(n schema.Node) {
	switch v := n.(type) {
	case schema.Article:
		e.encodeBlocks(v.Content)
	case schema.Paragraph:
		idx := e.enter(v, "content")
		e.encodeInlines(v.Content)
		e.exit(idx)
		e.push("\n\n")
	case schema.Heading:
		idx := e.enter(v, "content")
		e.push(strings.Repeat("#", clampLevel(v.Level)) + " ")
		e.encodeInlines(v.Content)
		e.exit(idx)
		e.push("\n\n")
	case schema.List:
		idx := e.enter(v, "items")
		for i, item := range v.Items {
			marker := "- "
			if v.Order == "Ascending" {
				marker = strconv.Itoa(i+1) + ". "
			}
			e.push(marker)
			e.encodeBlocksInline(item.Content)
			e.push("\n")
		}
		e.exit(idx)
		e.push("\n")
	case schema.QuoteBlock:
		idx := e.enter(v, "content")
		inner := &encoder{losses: e.losses}
		inner.encodeBlocks(v.Content)
		for _, line := range strings.Split(strings.TrimRight(inner.buf.String(), "\n"), "\n") {
			e.push("> " + line + "\n")
		}
		e.exit(idx)
		e.push("\n")
	case schema.ThematicBreak:
		idx := e.enter(v, "")
		e.push("---")
		e.exit(idx)
		e.push("\n\n")
	case schema.CodeChunk:
		idx := e.enter(v, "code")
		fence := "```"
		lang := v.ProgrammingLanguage
		e.push(fence + lang + " exec\n")
		e.push(v.Code.String())
		e.push("\n" + fence + "\n\n")
		e.exit(idx)
	case schema.MathBlock:
		idx := e.enter(v, "code")
		e.push("$$\n")
		e.push(v.Code.String())
		e.push("\n$$\n\n")
		e.exit(idx)
	default:
		e.losses.Add(string(n.NodeType()), 1)
	}
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

func (e *encoder) encodeBlocks(blocks schema.Blocks) {
	for _, b := range blocks {
		e.encodeNode(b)
	}
}

// encodeBlocksInline renders a list item's block content onto the current
// line, joining paragraphs with a space rather than a blank line since
// they share the item's marker.
func (e *encoder) encodeBlocksInline(blocks schema.Blocks) {
	for i, b := range blocks {
		if i > 0 {
			e.push(" ")
		}
		if p, ok := b.(schema.Paragraph); ok {
			e.encodeInlines(p.Content)
			continue
		}
		e.encodeNode(b)
	}
}

func (e *encoder) encodeInlines(inlines schema.Inlines) {
	for _, in := range inlines {
		e.encodeInline(in)
	}
}

func (e *encoder) encodeInline(n schema.Inline) {
	switch v := n.(type) {
	case schema.Text:
		idx := e.enter(v, "value")
		e.push(escapeText(v.Value.String()))
		e.exit(idx)
	case schema.Strong:
		idx := e.enter(v, "content")
		e.push("**")
		e.encodeInlines(v.Content)
		e.push("**")
		e.exit(idx)
	case schema.Emphasis:
		idx := e.enter(v, "content")
		e.push("*")
		e.encodeInlines(v.Content)
		e.push("*")
		e.exit(idx)
	case schema.CodeInline:
		idx := e.enter(v, "code")
		e.push("`" + v.Code.String() + "`")
		e.exit(idx)
	case schema.MathInline:
		idx := e.enter(v, "code")
		e.push("$" + v.Code.String() + "$")
		e.exit(idx)
	case schema.Link:
		idx := e.enter(v, "content")
		e.push("[")
		e.encodeInlines(v.Content)
		e.push(fmt.Sprintf("](%s)", v.Target))
		e.exit(idx)
	default:
		e.losses.Add(string(n.NodeType()), 1)
	}
}

// escapeText backslash-escapes the handful of characters that would
// otherwise be read back as Markdown syntax.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
		"$", "\\$",
		"[", "\\[",
	)
	return r.Replace(s)
}
