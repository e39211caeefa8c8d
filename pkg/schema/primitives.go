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

import "github.com/stencila/engine/pkg/cord"

// Null is the absence of a value.
type Null struct{}

func (Null) primitive() {}

// Boolean is a true/false primitive.
type Boolean bool

func (Boolean) primitive() {}

// Integer is a signed whole number primitive.
type Integer int64

func (Integer) primitive() {}

// UnsignedInteger is a non-negative whole number primitive.
type UnsignedInteger uint64

func (UnsignedInteger) primitive() {}

// Number is a double-precision floating point primitive.
type Number float64

func (Number) primitive() {}

// String is a plain (non-mergeable) text primitive.
type String string

func (String) primitive() {}

// Cord is a mergeable text primitive, used wherever prose content needs to
// survive concurrent edits (spec §4.3).
type Cord struct {
	cord.Cord
}

func (Cord) primitive() {}

// NewCord wraps s as a Cord primitive.
func NewCord(s string) Cord {
	return Cord{Cord: cord.New(s)}
}

// Array is an ordered, heterogeneous collection of primitives or nodes.
type Array []any

func (Array) primitive() {}

// Object is a string-keyed collection of primitives or nodes.
type Object map[string]any

func (Object) primitive() {}
