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

// Package patch implements the operation calculus used to describe,
// diff and apply changes to a node tree (spec §4.5). A Patch is an ordered
// list of Operations, each addressed relative to the root of the tree it
// will be applied to.
package patch

import (
	"fmt"
	"reflect"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

// OpType discriminates the kind of change an Operation describes.
type OpType string

const (
	OpAdd       OpType = "Add"
	OpRemove    OpType = "Remove"
	OpReplace   OpType = "Replace"
	OpMove      OpType = "Move"
	OpPush      OpType = "Push"
	OpAppend    OpType = "Append"
	OpPrepend   OpType = "Prepend"
	OpSet       OpType = "Set"
	OpNone      OpType = "None"
	OpTransform OpType = "Transform"
)

// Operation is one change in a Patch. Which fields are meaningful depends
// on Type:
//
//	Add       Address, Value      insert Value at a list index or set a field
//	Remove    Address             delete the item/field at Address
//	Replace   Address, Value      overwrite the item/field at Address
//	Move      Address, To         move a list item from Address to To
//	Push      Address, Value      append Value to the list at Address
//	Append    Address, Values     append a run of items to the list at Address
//	Prepend   Address, Values     prepend a run of items to the list at Address
//	Set       Address, Value      overwrite a scalar field at Address (no type change)
//	None                          a no-op, used as a diff placeholder
//	Transform Address, From, ToType change a node's variant in place (e.g. Paragraph -> QuoteBlock)
type Operation struct {
	Type   OpType          `json:"type"`
	Address address.Address `json:"address,omitempty"`
	Value   any            `json:"value,omitempty"`
	Values  []any          `json:"values,omitempty"`
	To      address.Address `json:"to,omitempty"`
	From    string         `json:"from,omitempty"`
	ToType  string         `json:"toType,omitempty"`
	Length  int            `json:"length,omitempty"`
}

// Patch is an ordered sequence of Operations; applying it in order to a
// tree produces the diffed-against target tree.
type Patch []Operation

// step descends one slot into v, returning the addressable field, slice
// element or map value the slot names.
func step(v reflect.Value, slot address.Slot) (reflect.Value, error) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		if !slot.IsName() {
			return reflect.Value{}, fmt.Errorf("patch: expected name slot on struct %s", v.Type())
		}
		field := fieldByAddressName(v, slot.Name)
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("patch: no field %q on %s", slot.Name, v.Type())
		}
		return field, nil
	case reflect.Slice, reflect.Array:
		if !slot.IsIndex() {
			return reflect.Value{}, fmt.Errorf("patch: expected index slot on %s", v.Type())
		}
		if slot.Index < 0 || slot.Index >= v.Len() {
			return reflect.Value{}, fmt.Errorf("patch: index %d out of range (len %d)", slot.Index, v.Len())
		}
		return v.Index(slot.Index), nil
	case reflect.Map:
		if !slot.IsName() {
			return reflect.Value{}, fmt.Errorf("patch: expected name slot on map %s", v.Type())
		}
		return v.MapIndex(reflect.ValueOf(slot.Name)), nil
	default:
		return reflect.Value{}, fmt.Errorf("patch: cannot step into %s", v.Kind())
	}
}

// fieldByAddressName finds the struct field whose flattened address name
// matches name, the same way schema.Walk addresses node fields.
func fieldByAddressName(v reflect.Value, name string) reflect.Value {
	return schema.FieldByAddressName(v, name)
}
