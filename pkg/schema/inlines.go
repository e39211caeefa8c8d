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

import "encoding/json"

// Text is a run of plain, mergeable text (spec §4.3 "Cord").
type Text struct {
	Base
	Value Cord `json:"value"`
}

func (Text) NodeType() Kind { return KindText }
func (Text) inline()        {}

// Emphasis is italicized inline content.
type Emphasis struct {
	Base
	Content Inlines `json:"content"`
}

func (Emphasis) NodeType() Kind { return KindEmphasis }
func (Emphasis) inline()        {}

// Strong is bolded inline content.
type Strong struct {
	Base
	Content Inlines `json:"content"`
}

func (Strong) NodeType() Kind { return KindStrong }
func (Strong) inline()        {}

// Link is a hyperlink wrapping inline content.
type Link struct {
	Base
	Target  string   `json:"target"`
	Title   string   `json:"title,omitempty"`
	Content Inlines `json:"content"`
}

func (Link) NodeType() Kind { return KindLink }
func (Link) inline()        {}

// ImageObject is an embedded or referenced image.
type ImageObject struct {
	Base
	ContentURL string `json:"contentUrl"`
	Caption    string `json:"caption,omitempty"`
}

func (ImageObject) NodeType() Kind { return KindImageObject }
func (ImageObject) inline()        {}

// MathInline is an inline-mode math expression.
type MathInline struct {
	Base
	Executable
	Code         Cord   `json:"code"`
	MathLanguage string `json:"mathLanguage,omitempty"`
	Mathml       string `json:"mathml,omitempty"`
}

func (MathInline) NodeType() Kind { return KindMathInline }
func (MathInline) inline()        {}

// CodeExpression is an executable inline expression whose output replaces
// it when rendered.
type CodeExpression struct {
	Base
	Executable
	Code                Cord   `json:"code"`
	ProgrammingLanguage string `json:"programmingLanguage,omitempty"`
	Output              Node   `json:"output,omitempty"`
}

func (CodeExpression) NodeType() Kind { return KindCodeExpr }
func (CodeExpression) inline()        {}

// codeExpressionWire mirrors CodeExpression with Output left as raw JSON,
// since Output holds whatever node type the expression last evaluated to.
type codeExpressionWire struct {
	Base
	Executable
	Code                Cord            `json:"code"`
	ProgrammingLanguage string          `json:"programmingLanguage,omitempty"`
	Output              json.RawMessage `json:"output,omitempty"`
}

func (c CodeExpression) MarshalJSON() ([]byte, error) {
	w := codeExpressionWire{Base: c.Base, Executable: c.Executable, Code: c.Code, ProgrammingLanguage: c.ProgrammingLanguage}
	if c.Output != nil {
		enc, err := MarshalNode(c.Output)
		if err != nil {
			return nil, err
		}
		w.Output = enc
	}
	return json.Marshal(w)
}

func (c *CodeExpression) UnmarshalJSON(data []byte) error {
	var w codeExpressionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.Base, c.Executable, c.Code, c.ProgrammingLanguage = w.Base, w.Executable, w.Code, w.ProgrammingLanguage
	if len(w.Output) > 0 {
		n, err := UnmarshalNode(w.Output)
		if err != nil {
			return err
		}
		c.Output = n
	}
	return nil
}

// CodeInline is a non-executable inline code span.
type CodeInline struct {
	Base
	Code                Cord   `json:"code"`
	ProgrammingLanguage string `json:"programmingLanguage,omitempty"`
}

func (CodeInline) NodeType() Kind { return KindCodeInline }
func (CodeInline) inline()        {}

// Cite is an inline citation of a reference elsewhere in the document.
type Cite struct {
	Base
	Target    string `json:"target"`
	CitationMode string `json:"citationMode,omitempty"`
}

func (Cite) NodeType() Kind { return KindCite }
func (Cite) inline()        {}
