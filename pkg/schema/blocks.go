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

// Paragraph is a run of inline content forming one paragraph.
type Paragraph struct {
	Base
	Content Inlines `json:"content"`
}

func (Paragraph) NodeType() Kind { return KindParagraph }
func (Paragraph) block()        {}

// Heading is a titled section break at a given level (1-6).
type Heading struct {
	Base
	Level   int      `json:"level"`
	Content Inlines `json:"content"`
}

func (Heading) NodeType() Kind { return KindHeading }
func (Heading) block()        {}

// List is an ordered or unordered sequence of list items.
type List struct {
	Base
	Order string     `json:"order"` // "Ascending" or "Unordered"
	Items []ListItem `json:"items"`
}

func (List) NodeType() Kind { return KindList }
func (List) block()        {}

// ListItem is one entry in a List.
type ListItem struct {
	Base
	Content  Blocks `json:"content"`
	IsChecked *bool  `json:"isChecked,omitempty"`
}

func (ListItem) NodeType() Kind { return KindListItem }
func (ListItem) block()        {}

// CodeChunk is an executable block of code whose outputs are rendered
// inline with the document.
type CodeChunk struct {
	Base
	Executable
	Code            Cord    `json:"code"`
	ProgrammingLanguage string `json:"programmingLanguage,omitempty"`
	LabelType       string  `json:"labelType,omitempty"`
	Label           string  `json:"label,omitempty"`
	Caption         Blocks `json:"caption,omitempty"`
	Outputs         []Node  `json:"outputs,omitempty"`
}

func (CodeChunk) NodeType() Kind { return KindCodeChunk }
func (CodeChunk) block()        {}

// MathBlock is a display-mode math expression, optionally with a rendered
// MathML/image representation produced by a math kernel.
type MathBlock struct {
	Base
	Executable
	Code            Cord   `json:"code"`
	MathLanguage    string `json:"mathLanguage,omitempty"`
	Mathml          string `json:"mathml,omitempty"`
}

func (MathBlock) NodeType() Kind { return KindMathBlock }
func (MathBlock) block()        {}

// IfBlockClause is one branch of an IfBlock: a condition expression plus the
// content to execute when it is truthy.
type IfBlockClause struct {
	Base
	Executable
	Code                Cord   `json:"code"`
	ProgrammingLanguage string `json:"programmingLanguage,omitempty"`
	IsElse              bool   `json:"isElse,omitempty"`
	// IsActive marks the one clause (the first truthy one, or an IsElse
	// clause reached with none truthy before it) whose content ran.
	IsActive bool   `json:"isActive,omitempty"`
	Content  Blocks `json:"content"`
}

func (IfBlockClause) NodeType() Kind { return KindIfBlockClause }
func (IfBlockClause) block()        {}

// IfBlock is a chain of conditional clauses, at most one of which executes.
type IfBlock struct {
	Base
	Executable
	Clauses []IfBlockClause `json:"clauses"`
}

func (IfBlock) NodeType() Kind { return KindIfBlock }
func (IfBlock) block()        {}

// ForBlock iterates content once per item yielded by evaluating its
// expression, re-executing the content for each iteration.
type ForBlock struct {
	Base
	Executable
	Variable            string  `json:"variable"`
	Code                Cord    `json:"code"`
	ProgrammingLanguage string  `json:"programmingLanguage,omitempty"`
	Content             Blocks `json:"content"`
	Otherwise           Blocks `json:"otherwise,omitempty"`
	Iterations          []Node  `json:"iterations,omitempty"`
}

func (ForBlock) NodeType() Kind { return KindForBlock }
func (ForBlock) block()        {}

// ChatMessage is one turn in a Chat.
type ChatMessage struct {
	Base
	Role    string   `json:"role"` // "User", "Model", "System"
	Content Inlines `json:"content"`
}

func (ChatMessage) NodeType() Kind { return "ChatMessage" }
func (ChatMessage) block()        {}

// Chat is a conversational exchange with a model, driven by a prompt.
type Chat struct {
	Base
	Executable
	PromptID string        `json:"promptId,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

func (Chat) NodeType() Kind { return KindChat }
func (Chat) block()        {}

// PromptBlock renders a named prompt template against the surrounding
// document context.
type PromptBlock struct {
	Base
	Executable
	Target  string  `json:"target"`
	Content Blocks `json:"content,omitempty"`
}

func (PromptBlock) NodeType() Kind { return KindPromptBlock }
func (PromptBlock) block()        {}

// QuoteBlock is a block quotation.
type QuoteBlock struct {
	Base
	Content Blocks `json:"content"`
}

func (QuoteBlock) NodeType() Kind { return KindQuoteBlock }
func (QuoteBlock) block()        {}

// Section is a generic grouping of block content, optionally typed (e.g.
// "Introduction", "Methods").
type Section struct {
	Base
	SectionType string  `json:"sectionType,omitempty"`
	Content     Blocks `json:"content"`
}

func (Section) NodeType() Kind { return KindSection }
func (Section) block()        {}

// ThematicBreak is a horizontal rule separating unrelated content.
type ThematicBreak struct {
	Base
}

func (ThematicBreak) NodeType() Kind { return KindThematicBreak }
func (ThematicBreak) block()        {}

// IncludeBlock transcludes the rendered content of another document.
type IncludeBlock struct {
	Base
	Executable
	Source  string  `json:"source"`
	Select  string  `json:"select,omitempty"`
	Content Blocks `json:"content,omitempty"`
}

func (IncludeBlock) NodeType() Kind { return KindIncludeBlock }
func (IncludeBlock) block()        {}

// CallArgument binds one parameter of a CallBlock's target document.
type CallArgument struct {
	Base
	Name string `json:"name"`
	Code Cord   `json:"code"`
}

func (CallArgument) NodeType() Kind { return "CallArgument" }

// CallBlock transcludes another document's rendered content, parameterized
// by Arguments.
type CallBlock struct {
	Base
	Executable
	Source    string         `json:"source"`
	Arguments []CallArgument `json:"arguments,omitempty"`
	Content   Blocks        `json:"content,omitempty"`
}

func (CallBlock) NodeType() Kind { return KindCallBlock }
func (CallBlock) block()        {}

// StyledBlock applies inline styling (e.g. a CSS-like class list) to a run
// of block content.
type StyledBlock struct {
	Base
	Code            Cord    `json:"code"`
	StyleLanguage   string  `json:"styleLanguage,omitempty"`
	Content         Blocks `json:"content"`
}

func (StyledBlock) NodeType() Kind { return KindStyledBlock }
func (StyledBlock) block()        {}

// Excerpt reproduces a subtree of another document, keeping a back-reference
// to where it came from so the reproduction can be refreshed or attributed.
// The database kernel constructs these when it dereferences a
// (docId, nodePath) pair found by a query (spec §4.9).
type Excerpt struct {
	Base
	Source   string `json:"source"`
	NodePath string `json:"nodePath"`
	Content  Blocks `json:"content"`
}

func (Excerpt) NodeType() Kind { return KindExcerpt }
func (Excerpt) block()        {}
