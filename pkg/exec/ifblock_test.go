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

func paraWith(text string) schema.Paragraph {
	return schema.Paragraph{
		Base:    schema.Base{ID: schema.NewID(schema.KindParagraph)},
		Content: schema.Inlines{schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord(text)}},
	}
}

func TestIfBlockRunsFirstTruthyClause(t *testing.T) {
	inst := newFakeInstance("js1",
		fakeResult{value: schema.Boolean(false)},
		fakeResult{value: schema.Boolean(true)},
	)
	set := NewSet()
	set.Register(context.Background(), "javascript", inst)

	ifBlock := schema.IfBlock{
		Base:       schema.Base{ID: schema.NewID(schema.KindIfBlock)},
		Executable: schema.Executable{ExecutionRequired: schema.ExecutionRequiredNeverExecuted},
		Clauses: []schema.IfBlockClause{
			{
				Base:                schema.Base{ID: schema.NewID(schema.KindIfBlockClause)},
				Code:                schema.NewCord("false"),
				ProgrammingLanguage: "javascript",
				Content:             schema.Blocks{paraWith("first")},
			},
			{
				Base:                schema.Base{ID: schema.NewID(schema.KindIfBlockClause)},
				Code:                schema.NewCord("true"),
				ProgrammingLanguage: "javascript",
				Content:             schema.Blocks{paraWith("second")},
			},
			{
				Base:    schema.Base{ID: schema.NewID(schema.KindIfBlockClause)},
				IsElse:  true,
				Content: schema.Blocks{paraWith("else")},
			},
		},
	}

	e := New(set, nil, nil)
	got := e.executeIfBlock(context.Background(), address.Empty(), ifBlock)

	assert.Equal(t, schema.ExecutionStatusSucceeded, got.ExecutionStatus)
	require.Len(t, inst.calls, 2) // third clause's empty code is never evaluated
	assert.Equal(t, "second", got.Clauses[1].Content[0].(schema.Paragraph).Content[0].(schema.Text).Value.String())

	assert.False(t, got.Clauses[0].IsActive)
	assert.Equal(t, schema.ExecutionStatusSucceeded, got.Clauses[0].ExecutionStatus)
	assert.True(t, got.Clauses[1].IsActive)
	assert.Equal(t, schema.ExecutionStatusSucceeded, got.Clauses[1].ExecutionStatus)
	assert.False(t, got.Clauses[2].IsActive)
	assert.Equal(t, schema.ExecutionStatus(""), got.Clauses[2].ExecutionStatus, "never-reached else clause is left unevaluated")
}

func TestIfBlockFallsThroughToElse(t *testing.T) {
	inst := newFakeInstance("js1", fakeResult{value: schema.Boolean(false)})
	set := NewSet()
	set.Register(context.Background(), "javascript", inst)

	ifBlock := schema.IfBlock{
		Base:       schema.Base{ID: schema.NewID(schema.KindIfBlock)},
		Executable: schema.Executable{ExecutionRequired: schema.ExecutionRequiredNeverExecuted},
		Clauses: []schema.IfBlockClause{
			{
				Code:                schema.NewCord("false"),
				ProgrammingLanguage: "javascript",
				Content:             schema.Blocks{paraWith("first")},
			},
			{
				IsElse:  true,
				Content: schema.Blocks{paraWith("else")},
			},
		},
	}

	e := New(set, nil, nil)
	got := e.executeIfBlock(context.Background(), address.Empty(), ifBlock)

	require.Len(t, inst.calls, 1)
	assert.Equal(t, schema.ExecutionStatusSucceeded, got.ExecutionStatus)

	assert.False(t, got.Clauses[0].IsActive)
	assert.True(t, got.Clauses[1].IsActive)
	assert.Equal(t, schema.ExecutionStatusEmpty, got.Clauses[1].ExecutionStatus, "the else clause taken with no code of its own is Empty")
}

func TestIfBlockClauseErrorStatusIsPersistedOnTheClause(t *testing.T) {
	inst := newFakeInstance("js1", fakeResult{
		value:    schema.Boolean(true),
		messages: []schema.ExecutionMessage{{Level: "Error", Message: "condition blew up"}},
	})
	set := NewSet()
	set.Register(context.Background(), "javascript", inst)

	ifBlock := schema.IfBlock{
		Executable: schema.Executable{ExecutionRequired: schema.ExecutionRequiredNeverExecuted},
		Clauses: []schema.IfBlockClause{
			{Code: schema.NewCord("true"), ProgrammingLanguage: "javascript", Content: schema.Blocks{paraWith("a")}},
		},
	}

	e := New(set, nil, nil)
	got := e.executeIfBlock(context.Background(), address.Empty(), ifBlock)

	assert.Equal(t, schema.ExecutionStatusErrors, got.ExecutionStatus)
	assert.True(t, got.Clauses[0].IsActive)
	assert.Equal(t, schema.ExecutionStatusErrors, got.Clauses[0].ExecutionStatus)
}

func TestIfBlockRollsUpClauseWarnings(t *testing.T) {
	inst := newFakeInstance("js1", fakeResult{value: schema.Boolean(true), messages: []schema.ExecutionMessage{{Level: "Warning", Message: "heads up"}}})
	set := NewSet()
	set.Register(context.Background(), "javascript", inst)

	ifBlock := schema.IfBlock{
		Executable: schema.Executable{ExecutionRequired: schema.ExecutionRequiredNeverExecuted},
		Clauses: []schema.IfBlockClause{
			{Code: schema.NewCord("true"), ProgrammingLanguage: "javascript", Content: schema.Blocks{paraWith("a")}},
		},
	}

	e := New(set, nil, nil)
	got := e.executeIfBlock(context.Background(), address.Empty(), ifBlock)

	assert.Equal(t, schema.ExecutionStatusWarnings, got.ExecutionStatus)
	require.Len(t, got.ExecutionMessages, 1)
	assert.Equal(t, "heads up", got.ExecutionMessages[0].Message)
}

func TestIfBlockSkippedWhenNotRequired(t *testing.T) {
	inst := newFakeInstance("js1")
	set := NewSet()
	set.Register(context.Background(), "javascript", inst)

	ifBlock := schema.IfBlock{
		Clauses: []schema.IfBlockClause{
			{Code: schema.NewCord("true"), ProgrammingLanguage: "javascript", Content: schema.Blocks{paraWith("a")}},
		},
	}

	e := New(set, nil, nil)
	got := e.executeIfBlock(context.Background(), address.Empty(), ifBlock)

	assert.Empty(t, inst.calls)
	assert.Equal(t, schema.ExecutionStatus(""), got.ExecutionStatus)
}
