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

// Kind constants for every node type in the tree. Grouped by the family the
// spec's glossary uses: creative works, block content, inline content and
// validators. Primitives (Null, Boolean, Integer, ...) are not node kinds;
// they never carry an id.
const (
	KindArticle     Kind = "Article"
	KindFigure      Kind = "Figure"
	KindTable       Kind = "Table"
	KindTableRow    Kind = "TableRow"
	KindTableCell   Kind = "TableCell"
	KindDatatable   Kind = "Datatable"
	KindMediaObject Kind = "MediaObject"

	KindParagraph     Kind = "Paragraph"
	KindHeading       Kind = "Heading"
	KindList          Kind = "List"
	KindListItem      Kind = "ListItem"
	KindCodeChunk     Kind = "CodeChunk"
	KindMathBlock     Kind = "MathBlock"
	KindIfBlock       Kind = "IfBlock"
	KindIfBlockClause Kind = "IfBlockClause"
	KindForBlock      Kind = "ForBlock"
	KindChat          Kind = "Chat"
	KindPromptBlock   Kind = "PromptBlock"
	KindQuoteBlock    Kind = "QuoteBlock"
	KindSection       Kind = "Section"
	KindThematicBreak Kind = "ThematicBreak"
	KindIncludeBlock  Kind = "IncludeBlock"
	KindCallBlock     Kind = "CallBlock"
	KindStyledBlock   Kind = "StyledBlock"
	KindExcerpt       Kind = "Excerpt"

	KindText       Kind = "Text"
	KindEmphasis   Kind = "Emphasis"
	KindStrong     Kind = "Strong"
	KindLink       Kind = "Link"
	KindImageObject Kind = "ImageObject"
	KindMathInline Kind = "MathInline"
	KindCodeExpr   Kind = "CodeExpression"
	KindCodeInline Kind = "CodeInline"
	KindCite       Kind = "Cite"

	KindArrayValidator    Kind = "ArrayValidator"
	KindBooleanValidator  Kind = "BooleanValidator"
	KindConstantValidator Kind = "ConstantValidator"
	KindDateTimeValidator Kind = "DateTimeValidator"
	KindDateValidator     Kind = "DateValidator"
	KindDurationValidator Kind = "DurationValidator"
	KindEnumValidator     Kind = "EnumValidator"
	KindIntegerValidator  Kind = "IntegerValidator"
	KindNumberValidator   Kind = "NumberValidator"
	KindStringValidator   Kind = "StringValidator"
	KindTupleValidator    Kind = "TupleValidator"
)
