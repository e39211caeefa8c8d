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
	"strings"

	"github.com/stencila/engine/pkg/codec"
	"github.com/stencila/engine/pkg/kernels/programming"
	"github.com/stencila/engine/pkg/schema"
)

// decoder turns Markdown source into a tree by line-based block splitting
// followed by a small recursive-descent scan over each block's inline
// text.
type decoder struct {
	src    string
	losses codec.Losses
}

func (d *decoder) decodeArticle() schema.Article {
	blocks := d.decodeBlocks(strings.Split(d.src, "\n"))
	return schema.Article{Base: schema.Base{ID: schema.NewID(schema.KindArticle)}, Content: blocks}
}

func (d *decoder) decodeBlocks(lines []string) schema.Blocks {
	var out schema.Blocks
	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		switch {
		case trimmed == "":
			i++

		case strings.HasPrefix(trimmed, "```"):
			lang := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(trimmed, "```"), " exec"))
			exec := strings.HasSuffix(strings.TrimPrefix(trimmed, "```"), " exec")
			var code []string
			j := i + 1
			for j < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[j]), "```") {
				code = append(code, lines[j])
				j++
			}
			if j < len(lines) {
				j++
			}
			if !exec {
				d.losses.Add("CodeBlock", 1)
			}
			codeText := strings.Join(code, "\n")
			if programming.HasSyntaxErrors(lang, codeText) {
				d.losses.Add("CodeChunkSyntaxError", 1)
			}
			out = append(out, schema.CodeChunk{
				Base:                schema.Base{ID: schema.NewID(schema.KindCodeChunk)},
				Code:                schema.NewCord(codeText),
				ProgrammingLanguage: lang,
			})
			i = j

		case trimmed == "$$":
			var code []string
			j := i + 1
			for j < len(lines) && strings.TrimSpace(lines[j]) != "$$" {
				code = append(code, lines[j])
				j++
			}
			if j < len(lines) {
				j++
			}
			out = append(out, schema.MathBlock{
				Base: schema.Base{ID: schema.NewID(schema.KindMathBlock)},
				Code: schema.NewCord(strings.Join(code, "\n")),
			})
			i = j

		case strings.HasPrefix(trimmed, "#"):
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' {
				level++
			}
			text := strings.TrimSpace(trimmed[level:])
			out = append(out, schema.Heading{
				Base:    schema.Base{ID: schema.NewID(schema.KindHeading)},
				Level:   level,
				Content: d.parseInlines(text),
			})
			i++

		case trimmed == "---":
			out = append(out, schema.ThematicBreak{Base: schema.Base{ID: schema.NewID(schema.KindThematicBreak)}})
			i++

		case strings.HasPrefix(trimmed, ">"):
			var quoted []string
			j := i
			for j < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[j]), ">") {
				q := strings.TrimPrefix(strings.TrimSpace(lines[j]), ">")
				quoted = append(quoted, strings.TrimPrefix(q, " "))
				j++
			}
			out = append(out, schema.QuoteBlock{
				Base:    schema.Base{ID: schema.NewID(schema.KindQuoteBlock)},
				Content: d.decodeBlocks(quoted),
			})
			i = j

		case isListLine(trimmed):
			var order string
			var items []schema.ListItem
			j := i
			for j < len(lines) {
				t := strings.TrimSpace(lines[j])
				if t == "" || !isListLine(t) {
					break
				}
				ord, content := parseListMarker(t)
				if j == i {
					order = ord
				}
				items = append(items, schema.ListItem{
					Base: schema.Base{ID: schema.NewID(schema.KindListItem)},
					Content: schema.Blocks{schema.Paragraph{
						Base:    schema.Base{ID: schema.NewID(schema.KindParagraph)},
						Content: d.parseInlines(content),
					}},
				})
				j++
			}
			out = append(out, schema.List{Base: schema.Base{ID: schema.NewID(schema.KindList)}, Order: order, Items: items})
			i = j

		default:
			var para []string
			j := i
			for j < len(lines) {
				t := strings.TrimSpace(lines[j])
				if t == "" || isBlockStart(t) {
					break
				}
				para = append(para, t)
				j++
			}
			out = append(out, schema.Paragraph{
				Base:    schema.Base{ID: schema.NewID(schema.KindParagraph)},
				Content: d.parseInlines(strings.Join(para, " ")),
			})
			i = j
		}
	}
	return out
}

func isListLine(t string) bool {
	if strings.HasPrefix(t, "- ") {
		return true
	}
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	return i > 0 && strings.HasPrefix(t[i:], ". ")
}

func parseListMarker(t string) (order, content string) {
	if strings.HasPrefix(t, "- ") {
		return "Unordered", strings.TrimPrefix(t, "- ")
	}
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	return "Ascending", strings.TrimPrefix(t[i:], ". ")
}

func isBlockStart(t string) bool {
	return strings.HasPrefix(t, "```") || t == "$$" || strings.HasPrefix(t, "#") ||
		t == "---" || strings.HasPrefix(t, ">") || isListLine(t)
}

// parseInlines scans text for Markdown inline syntax (**strong**,
// *emphasis*, `code`, $math$, [text](target)), with backslash escapes
// taking precedence, falling back to Text runs everywhere else.
func (d *decoder) parseInlines(text string) schema.Inlines {
	var out schema.Inlines
	runes := []rune(text)
	var textBuf strings.Builder
	flush := func() {
		if textBuf.Len() > 0 {
			out = append(out, schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord(textBuf.String())})
			textBuf.Reset()
		}
	}

	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '\\' && i+1 < len(runes):
			textBuf.WriteRune(runes[i+1])
			i += 2

		case c == '*' && i+1 < len(runes) && runes[i+1] == '*':
			end := indexOfString(runes, i+2, "**")
			if end == -1 {
				textBuf.WriteString("**")
				i += 2
				continue
			}
			flush()
			out = append(out, schema.Strong{Base: schema.Base{ID: schema.NewID(schema.KindStrong)}, Content: d.parseInlines(string(runes[i+2 : end]))})
			i = end + 2

		case c == '*':
			end := indexOfRune(runes, i+1, '*')
			if end == -1 {
				textBuf.WriteRune('*')
				i++
				continue
			}
			flush()
			out = append(out, schema.Emphasis{Base: schema.Base{ID: schema.NewID(schema.KindEmphasis)}, Content: d.parseInlines(string(runes[i+1 : end]))})
			i = end + 1

		case c == '`':
			end := indexOfRune(runes, i+1, '`')
			if end == -1 {
				textBuf.WriteRune('`')
				i++
				continue
			}
			flush()
			out = append(out, schema.CodeInline{Base: schema.Base{ID: schema.NewID(schema.KindCodeInline)}, Code: schema.NewCord(string(runes[i+1 : end]))})
			i = end + 1

		case c == '$':
			end := indexOfRune(runes, i+1, '$')
			if end == -1 {
				textBuf.WriteRune('$')
				i++
				continue
			}
			flush()
			out = append(out, schema.MathInline{Base: schema.Base{ID: schema.NewID(schema.KindMathInline)}, Code: schema.NewCord(string(runes[i+1 : end]))})
			i = end + 1

		case c == '[':
			closeBracket := indexOfRune(runes, i+1, ']')
			if closeBracket == -1 || closeBracket+1 >= len(runes) || runes[closeBracket+1] != '(' {
				textBuf.WriteRune('[')
				i++
				continue
			}
			closeParen := indexOfRune(runes, closeBracket+2, ')')
			if closeParen == -1 {
				textBuf.WriteRune('[')
				i++
				continue
			}
			flush()
			linkText := string(runes[i+1 : closeBracket])
			target := string(runes[closeBracket+2 : closeParen])
			out = append(out, schema.Link{Base: schema.Base{ID: schema.NewID(schema.KindLink)}, Target: target, Content: d.parseInlines(linkText)})
			i = closeParen + 1

		default:
			textBuf.WriteRune(c)
			i++
		}
	}
	flush()
	return out
}

func indexOfRune(runes []rune, start int, target rune) int {
	for i := start; i < len(runes); i++ {
		if runes[i] == target {
			return i
		}
	}
	return -1
}

func indexOfString(runes []rune, start int, target string) int {
	t := []rune(target)
	for i := start; i+len(t) <= len(runes); i++ {
		match := true
		for j, r := range t {
			if runes[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
