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

	"github.com/stencila/engine/pkg/codec"
	"github.com/stencila/engine/pkg/kernels/programming"
	"github.com/stencila/engine/pkg/schema"
)

// encoder mirrors the markdown codec's enter/exit mapping idiom, plus the
// handful of LaTeX-specific helpers (environments, commands, indent depth
// for nested lists) that the pattern's illustrative source carries.
type encoder struct {
	buf     strings.Builder
	mapping []codec.MappingEntry
	losses  codec.Losses
	depth   int
}

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

// push writes value, indenting four spaces per depth level at the start of
// a line, for content nested inside list/quote environments.
func (e *encoder) push(value string) {
	if e.depth > 0 {
		s := e.buf.String()
		if s == "" || strings.HasSuffix(s, "\n") {
			e.buf.WriteString(strings.Repeat("    ", e.depth))
		}
	}
	e.buf.WriteString(value)
}

func (e *encoder) environBegin(name string) {
	e.push("\\begin{" + name + "}\n")
}

func (e *encoder) environEnd(name string) {
	e.push("\\end{" + name + "}\n")
}

func (e *encoder) commandEnter(name string) { e.push("\\" + name + "{") }
func (e *encoder) commandExit()             { e.buf.WriteString("}") }

func (e *encoder) encodeNode(n schema.Node) {
	switch v := n.(type) {
	case schema.Article:
		e.encodeBlocks(v.Content)
	case schema.Paragraph:
		idx := e.enter(v, "content")
		e.encodeInlines(v.Content)
		e.push("\n\n")
		e.exit(idx)
	case schema.Heading:
		idx := e.enter(v, "content")
		e.commandEnter(headingCommand(v.Level))
		e.encodeInlines(v.Content)
		e.commandExit()
		e.push("\n\n")
		e.exit(idx)
	case schema.List:
		idx := e.enter(v, "items")
		env := "itemize"
		if v.Order == "Ascending" {
			env = "enumerate"
		}
		e.environBegin(env)
		e.depth++
		for _, item := range v.Items {
			e.push("\\item ")
			e.encodeBlocksInline(item.Content)
			e.push("\n")
		}
		e.depth--
		e.environEnd(env)
		e.push("\n")
		e.exit(idx)
	case schema.QuoteBlock:
		idx := e.enter(v, "content")
		e.environBegin("quote")
		e.depth++
		e.encodeBlocks(v.Content)
		e.depth--
		e.environEnd("quote")
		e.push("\n")
		e.exit(idx)
	case schema.ThematicBreak:
		idx := e.enter(v, "")
		e.push("\\noindent\\rule{\\textwidth}{0.4pt}\n\n")
		e.exit(idx)
	case schema.CodeChunk:
		idx := e.enter(v, "code")
		if programming.HasSyntaxErrors(v.ProgrammingLanguage, v.Code.String()) {
			e.losses.Add("CodeChunkSyntaxError", 1)
		}
		e.environBegin("verbatim")
		e.push(v.Code.String())
		e.push("\n")
		e.environEnd("verbatim")
		e.push("\n")
		e.exit(idx)
	case schema.MathBlock:
		idx := e.enter(v, "code")
		e.push("\\[\n")
		e.push(v.Code.String())
		e.push("\n\\]\n\n")
		e.exit(idx)
	default:
		e.losses.Add(string(n.NodeType()), 1)
	}
}

func headingCommand(level int) string {
	switch {
	case level <= 1:
		return "section"
	case level == 2:
		return "subsection"
	case level == 3:
		return "subsubsection"
	default:
		return "paragraph"
	}
}

func (e *encoder) encodeBlocks(blocks schema.Blocks) {
	for _, b := range blocks {
		e.encodeNode(b)
	}
}

// encodeBlocksInline renders a list item's blocks onto the current \item
// line, the same convention the markdown encoder uses.
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
		e.commandEnter("textbf")
		e.encodeInlines(v.Content)
		e.commandExit()
		e.exit(idx)
	case schema.Emphasis:
		idx := e.enter(v, "content")
		e.commandEnter("emph")
		e.encodeInlines(v.Content)
		e.commandExit()
		e.exit(idx)
	case schema.CodeInline:
		idx := e.enter(v, "code")
		e.push("\\texttt{" + escapeText(v.Code.String()) + "}")
		e.exit(idx)
	case schema.MathInline:
		idx := e.enter(v, "code")
		e.push("$" + v.Code.String() + "$")
		e.exit(idx)
	case schema.Link:
		idx := e.enter(v, "content")
		e.push("\\href{" + v.Target + "}{")
		e.encodeInlines(v.Content)
		e.commandExit()
		e.exit(idx)
	default:
		e.losses.Add(string(n.NodeType()), 1)
	}
}

// escapeText escapes LaTeX's special characters in plain text.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\textbackslash{}",
		"&", "\\&",
		"%", "\\%",
		"$", "\\$",
		"#", "\\#",
		"_", "\\_",
		"{", "\\{",
		"}", "\\}",
		"~", "\\textasciitilde{}",
		"^", "\\textasciicircum{}",
	)
	return r.Replace(s)
}
