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

package kernel

// Variable is a named value a kernel instance exposes to other kernels and
// to the prompt sandbox, carrying a lightweight Hint rather than the full
// value so large datatables don't have to be serialized just to describe
// their shape.
type Variable struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Hint       *Hint  `json:"hint,omitempty"`
	NativeType string `json:"nativeType,omitempty"`
	NativeHint string `json:"nativeHint,omitempty"`
}

// HintKind discriminates the shape of Hint's value.
type HintKind string

const (
	HintBoolean         HintKind = "Boolean"
	HintInteger         HintKind = "Integer"
	HintNumber          HintKind = "Number"
	HintString          HintKind = "String"
	HintArray           HintKind = "Array"
	HintObject          HintKind = "Object"
	HintDatatable       HintKind = "Datatable"
	HintDatatableColumn HintKind = "DatatableColumn"
	HintFunction        HintKind = "Function"
	HintUnknown         HintKind = "Unknown"
)

// Hint is a compact description of a variable's value, enough for a prompt
// or template to decide how to reference it without materializing it.
type Hint struct {
	Kind HintKind `json:"kind"`

	Boolean bool    `json:"boolean,omitempty"`
	Integer int64   `json:"integer,omitempty"`
	Number  float64 `json:"number,omitempty"`

	// String
	Length int `json:"length,omitempty"`

	// Array
	ItemTypes []string `json:"itemTypes,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	Nulls     *int     `json:"nulls,omitempty"`

	// Object
	Keys   []string `json:"keys,omitempty"`
	Values []Hint   `json:"values,omitempty"`

	// Datatable
	Rows    int    `json:"rows,omitempty"`
	Columns []Hint `json:"columns,omitempty"`

	// DatatableColumn
	ColumnName string `json:"columnName,omitempty"`
	ColumnType string `json:"columnType,omitempty"`
}
