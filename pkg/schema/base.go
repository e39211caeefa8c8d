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

// Base is embedded in every node type and carries the id every node gets on
// creation. NodeType() is implemented per type (it's a one-liner returning
// a constant, so embedding it generically isn't worth the indirection).
type Base struct {
	ID string `json:"id"`
}

// NodeID satisfies Node.
func (b Base) NodeID() string { return b.ID }

// Block is implemented by every node type allowed in block content
// position (spec §4.1 glossary: "Block").
type Block interface {
	Node
	block()
}

// Inline is implemented by every node type allowed in inline content
// position (spec §4.1 glossary: "Inline").
type Inline interface {
	Node
	inline()
}

// Validator is implemented by every node type that constrains a Parameter
// or CodeExpression's accepted values.
type Validator interface {
	Node
	validator()
}
