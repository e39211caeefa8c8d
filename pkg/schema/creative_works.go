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
)

// Article is the top-level creative work most documents are rooted at.
type Article struct {
	Base
	Title   Inlines `json:"title,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Content Blocks  `json:"content"`
}

func (Article) NodeType() Kind { return KindArticle }

// Figure is a captioned, labelled block of content (usually an image).
type Figure struct {
	Base
	Label   string  `json:"label,omitempty"`
	Caption Blocks `json:"caption,omitempty"`
	Content Blocks `json:"content"`
}

func (Figure) NodeType() Kind { return KindFigure }
func (Figure) block()        {}

// TableCell is one cell of a TableRow.
type TableCell struct {
	Base
	CellType string  `json:"cellType,omitempty"` // "Header" or "Data"
	Content  Blocks `json:"content"`
}

func (TableCell) NodeType() Kind { return KindTableCell }

// TableRow is one row of a Table.
type TableRow struct {
	Base
	RowType string      `json:"rowType,omitempty"` // "Header", "Footer" or ""
	Cells   []TableCell `json:"cells"`
}

func (TableRow) NodeType() Kind { return KindTableRow }

// Table is a labelled, captioned grid of cells.
type Table struct {
	Base
	Label   string     `json:"label,omitempty"`
	Caption Blocks    `json:"caption,omitempty"`
	Rows    []TableRow `json:"rows"`
}

func (Table) NodeType() Kind { return KindTable }
func (Table) block()        {}

// DatatableColumn is one column of a Datatable: a name plus a validator
// constraining the values it may hold.
type DatatableColumn struct {
	Base
	Name      string    `json:"name"`
	Validator Validator `json:"validator,omitempty"`
	Values    Array     `json:"values"`
}

func (DatatableColumn) NodeType() Kind { return "DatatableColumn" }

type datatableColumnWire struct {
	Base
	Name      string          `json:"name"`
	Validator json.RawMessage `json:"validator,omitempty"`
	Values    Array           `json:"values"`
}

func (c DatatableColumn) MarshalJSON() ([]byte, error) {
	w := datatableColumnWire{Base: c.Base, Name: c.Name, Values: c.Values}
	if c.Validator != nil {
		enc, err := MarshalNode(c.Validator)
		if err != nil {
			return nil, err
		}
		w.Validator = enc
	}
	return json.Marshal(w)
}

func (c *DatatableColumn) UnmarshalJSON(data []byte) error {
	var w datatableColumnWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.Base, c.Name, c.Values = w.Base, w.Name, w.Values
	if len(w.Validator) > 0 {
		n, err := UnmarshalNode(w.Validator)
		if err != nil {
			return err
		}
		v, ok := n.(Validator)
		if !ok {
			return fmt.Errorf("schema: %s is not a Validator", n.NodeType())
		}
		c.Validator = v
	}
	return nil
}

// Datatable is tabular data held as typed columns rather than rendered
// rows, the way a dataframe or CSV import would be represented.
type Datatable struct {
	Base
	Columns []DatatableColumn `json:"columns"`
}

func (Datatable) NodeType() Kind { return KindDatatable }
func (Datatable) block()        {}

// MediaObject is embedded non-image media (audio, video, or a generic
// downloadable file).
type MediaObject struct {
	Base
	ContentURL string `json:"contentUrl"`
	MediaType  string `json:"mediaType,omitempty"`
}

func (MediaObject) NodeType() Kind { return KindMediaObject }
func (MediaObject) block()        {}
func (MediaObject) inline()        {}
