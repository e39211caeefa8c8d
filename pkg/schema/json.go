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

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// typeRegistry maps a Kind's wire name to the concrete Go type that
// implements it, so a polymorphic Node/Block/Inline/Validator field can be
// unmarshaled back into the right struct.
var typeRegistry = map[Kind]reflect.Type{}

func registerType(k Kind, zero Node) {
	typeRegistry[k] = reflect.TypeOf(zero)
}

func init() {
	registerType(KindArticle, Article{})
	registerType(KindFigure, Figure{})
	registerType(KindTable, Table{})
	registerType(KindTableRow, TableRow{})
	registerType(KindTableCell, TableCell{})
	registerType(KindDatatable, Datatable{})
	registerType(KindMediaObject, MediaObject{})
	registerType(KindParagraph, Paragraph{})
	registerType(KindHeading, Heading{})
	registerType(KindList, List{})
	registerType(KindListItem, ListItem{})
	registerType(KindCodeChunk, CodeChunk{})
	registerType(KindMathBlock, MathBlock{})
	registerType(KindIfBlock, IfBlock{})
	registerType(KindIfBlockClause, IfBlockClause{})
	registerType(KindForBlock, ForBlock{})
	registerType(KindChat, Chat{})
	registerType(KindPromptBlock, PromptBlock{})
	registerType(KindQuoteBlock, QuoteBlock{})
	registerType(KindSection, Section{})
	registerType(KindThematicBreak, ThematicBreak{})
	registerType(KindIncludeBlock, IncludeBlock{})
	registerType(KindCallBlock, CallBlock{})
	registerType(KindStyledBlock, StyledBlock{})
	registerType(KindExcerpt, Excerpt{})
	registerType(KindText, Text{})
	registerType(KindEmphasis, Emphasis{})
	registerType(KindStrong, Strong{})
	registerType(KindLink, Link{})
	registerType(KindImageObject, ImageObject{})
	registerType(KindMathInline, MathInline{})
	registerType(KindCodeExpr, CodeExpression{})
	registerType(KindCodeInline, CodeInline{})
	registerType(KindCite, Cite{})
	registerType(KindArrayValidator, ArrayValidator{})
	registerType(KindBooleanValidator, BooleanValidator{})
	registerType(KindConstantValidator, ConstantValidator{})
	registerType(KindDateTimeValidator, DateTimeValidator{})
	registerType(KindDateValidator, DateValidator{})
	registerType(KindDurationValidator, DurationValidator{})
	registerType(KindEnumValidator, EnumValidator{})
	registerType(KindIntegerValidator, IntegerValidator{})
	registerType(KindNumberValidator, NumberValidator{})
	registerType(KindStringValidator, StringValidator{})
	registerType(KindTupleValidator, TupleValidator{})
}

// MarshalNode encodes n as JSON with a "type" discriminator field carrying
// its Kind, so UnmarshalNode can later recover the concrete type.
func MarshalNode(n Node) ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	body, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal %s: %w", n.NodeType(), err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("schema: marshal %s: %w", n.NodeType(), err)
	}
	typeTag, err := json.Marshal(n.NodeType())
	if err != nil {
		return nil, err
	}
	fields["type"] = typeTag
	return json.Marshal(fields)
}

// UnmarshalNode decodes data's "type" discriminator and reconstructs the
// concrete node it names. It is the inverse of MarshalNode.
func UnmarshalNode(data []byte) (Node, error) {
	if string(data) == "null" {
		return nil, nil
	}
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("schema: unmarshal node: %w", err)
	}
	t, ok := typeRegistry[head.Type]
	if !ok {
		return nil, fmt.Errorf("schema: unknown node type %q", head.Type)
	}
	ptr := reflect.New(t)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("schema: unmarshal %s: %w", head.Type, err)
	}
	n, ok := ptr.Elem().Interface().(Node)
	if !ok {
		return nil, fmt.Errorf("schema: registered type for %q does not implement Node", head.Type)
	}
	return n, nil
}

// Blocks is a slice of Block that round-trips through JSON using each
// element's "type" tag, the way a document's content array is stored on
// disk (spec §6 store snapshot).
type Blocks []Block

func (bs Blocks) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, len(bs))
	for i, b := range bs {
		enc, err := MarshalNode(b)
		if err != nil {
			return nil, err
		}
		raw[i] = enc
	}
	return json.Marshal(raw)
}

func (bs *Blocks) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Blocks, len(raw))
	for i, r := range raw {
		n, err := UnmarshalNode(r)
		if err != nil {
			return err
		}
		b, ok := n.(Block)
		if !ok {
			return fmt.Errorf("schema: %s is not a Block", n.NodeType())
		}
		out[i] = b
	}
	*bs = out
	return nil
}

// Inlines is the Inline analogue of Blocks.
type Inlines []Inline

func (is Inlines) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, len(is))
	for i, v := range is {
		enc, err := MarshalNode(v)
		if err != nil {
			return nil, err
		}
		raw[i] = enc
	}
	return json.Marshal(raw)
}

func (is *Inlines) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Inlines, len(raw))
	for i, r := range raw {
		n, err := UnmarshalNode(r)
		if err != nil {
			return err
		}
		v, ok := n.(Inline)
		if !ok {
			return fmt.Errorf("schema: %s is not an Inline", n.NodeType())
		}
		out[i] = v
	}
	*is = out
	return nil
}

// Validators is the Validator analogue of Blocks, used for tuple/array item
// validator lists.
type Validators []Validator

func (vs Validators) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, len(vs))
	for i, v := range vs {
		enc, err := MarshalNode(v)
		if err != nil {
			return nil, err
		}
		raw[i] = enc
	}
	return json.Marshal(raw)
}

func (vs *Validators) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Validators, len(raw))
	for i, r := range raw {
		n, err := UnmarshalNode(r)
		if err != nil {
			return err
		}
		v, ok := n.(Validator)
		if !ok {
			return fmt.Errorf("schema: %s is not a Validator", n.NodeType())
		}
		out[i] = v
	}
	*vs = out
	return nil
}
