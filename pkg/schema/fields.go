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
	"reflect"

	"github.com/stencila/engine/internal/strcase"
)

// VisibleField is one addressable field of a node struct, after flattening
// anonymous embeds (Base, Executable) the same way encoding/json promotes
// them on the wire: Article.ID is addressed as "id", not "base.id".
type VisibleField struct {
	Name  string // snake_case address slot name
	Index []int  // reflect.Value.FieldByIndex path from the containing struct
}

// VisibleFields returns the flattened, addressable fields of struct type t
// in declaration order, with anonymous embedded structs expanded in place.
func VisibleFields(t reflect.Type) []VisibleField {
	return visibleFields(t, nil)
}

func visibleFields(t reflect.Type, prefix []int) []VisibleField {
	var out []VisibleField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := append(append([]int{}, prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			out = append(out, visibleFields(f.Type, idx)...)
			continue
		}
		out = append(out, VisibleField{Name: strcase.ToSnake(f.Name), Index: idx})
	}
	return out
}

// FieldByAddressName returns the field of struct value v whose flattened
// address name matches name, or the zero Value if there is none.
func FieldByAddressName(v reflect.Value, name string) reflect.Value {
	for _, f := range VisibleFields(v.Type()) {
		if f.Name == name {
			return v.FieldByIndex(f.Index)
		}
	}
	return reflect.Value{}
}
