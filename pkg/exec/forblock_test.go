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

package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

func TestForBlockIteratesOverArray(t *testing.T) {
	items := schema.Array{schema.Integer(1), schema.Integer(2), schema.Integer(3)}
	inst := newFakeInstance("js1", fakeResult{value: items})
	set := NewSet()
	set.Register(context.Background(), "javascript", inst)

	forBlock := schema.ForBlock{
		Base:                schema.Base{ID: schema.NewID(schema.KindForBlock)},
		Executable:          schema.Executable{ExecutionRequired: schema.ExecutionRequiredNeverExecuted},
		Variable:            "item",
		Code:                schema.NewCord("items"),
		ProgrammingLanguage: "javascript",
		Content:             schema.Blocks{paraWith("body")},
	}

	e := New(set, nil, nil)
	got := e.executeForBlock(context.Background(), address.Empty(), forBlock)

	assert.Equal(t, schema.ExecutionStatusSucceeded, got.ExecutionStatus)
	require.Len(t, got.Iterations, 3)
	for _, it := range got.Iterations {
		section := it.(schema.Section)
		assert.Equal(t, "Iteration", section.SectionType)
		require.Len(t, section.Content, 1)
	}
}

func TestForBlockEmptyIterableRunsOtherwise(t *testing.T) {
	inst := newFakeInstance("js1", fakeResult{value: schema.Array{}})
	set := NewSet()
	set.Register(context.Background(), "javascript", inst)

	forBlock := schema.ForBlock{
		Executable:          schema.Executable{ExecutionRequired: schema.ExecutionRequiredNeverExecuted},
		Variable:            "item",
		Code:                schema.NewCord("items"),
		ProgrammingLanguage: "javascript",
		Content:             schema.Blocks{paraWith("body")},
		Otherwise:           schema.Blocks{paraWith("otherwise")},
	}

	e := New(set, nil, nil)
	got := e.executeForBlock(context.Background(), address.Empty(), forBlock)

	assert.Empty(t, got.Iterations)
	assert.Equal(t, schema.ExecutionStatusSucceeded, got.ExecutionStatus)
}

func TestGoLiteralRendersPrimitives(t *testing.T) {
	assert.Equal(t, "true", goLiteral(schema.Boolean(true)))
	assert.Equal(t, "3", goLiteral(schema.Integer(3)))
	assert.Equal(t, `"x"`, goLiteral(schema.String("x")))
	assert.Equal(t, "nil", goLiteral(nil))
}
