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

// Package schema defines the closed set of node types that make up a
// Stencila document tree (spec §4.1): creative works, block content, inline
// content, validators and primitives. Every node type exposes a stable kind
// name and a globally unique id so that patches, addresses and the graph
// store can all refer to the same node without holding a pointer to it.
package schema

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Kind names a node's variant. Wire representations use this value in a
// "type" discriminator field.
type Kind string

// Node is implemented by every type in the document tree.
type Node interface {
	NodeType() Kind
	NodeID() string
}

// Primitive is implemented by the scalar and collection value types that
// are not part of the node-id space (null, booleans, numbers, strings,
// cords, arrays, objects). Primitives participate in patches and addresses
// but are never assigned an id of their own.
type Primitive interface {
	primitive()
}

// idPrefixes maps each node Kind to the short prefix used when minting ids,
// mirroring the node-type registry in the original schema (e.g. a Chat node
// gets ids like "cht_3xK9mN").
var idPrefixes = map[Kind]string{
	KindArticle:       "art",
	KindFigure:        "fig",
	KindTable:         "tbl",
	KindTableRow:      "trw",
	KindTableCell:     "tcl",
	KindDatatable:     "dtb",
	KindMediaObject:   "med",
	KindParagraph:     "par",
	KindHeading:       "hdg",
	KindList:          "lst",
	KindListItem:      "lsi",
	KindCodeChunk:     "chc",
	KindMathBlock:     "mtb",
	KindIfBlock:       "ifb",
	KindIfBlockClause: "ifc",
	KindForBlock:      "fob",
	KindChat:          "cht",
	KindPromptBlock:   "prb",
	KindQuoteBlock:    "qtb",
	KindSection:       "sec",
	KindThematicBreak: "thb",
	KindIncludeBlock:  "inb",
	KindCallBlock:     "clb",
	KindStyledBlock:   "stb",
	KindExcerpt:       "exc",
	KindText:          "txt",
	KindEmphasis:      "emp",
	KindStrong:        "str",
	KindLink:          "lnk",
	KindImageObject:   "img",
	KindMathInline:    "mti",
	KindCodeExpr:      "cex",
	KindCodeInline:    "cin",
	KindCite:          "cit",
}

var idCounter uint64

// NewID mints a fresh id for kind: a short type prefix, an underscore, the
// first eight characters of a random UUID and a process-wide counter taken
// modulo 1000. The random part comes first, so ids do not sort in creation
// order.
func NewID(kind Kind) string {
	prefix, ok := idPrefixes[kind]
	if !ok {
		prefix = "nod"
	}
	n := atomic.AddUint64(&idCounter, 1)
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%s%d", prefix, suffix, n%1000)
}
