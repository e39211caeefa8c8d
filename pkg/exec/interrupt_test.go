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

	"github.com/stencila/engine/pkg/schema"
)

func TestInterruptDescendsIntoIfBlockClauses(t *testing.T) {
	inst := newFakeInstance("python1")
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	chunk := schema.CodeChunk{
		Base:                schema.Base{ID: schema.NewID(schema.KindCodeChunk)},
		ProgrammingLanguage: "python",
		Executable:          schema.Executable{ExecutionStatus: schema.ExecutionStatusRunning},
	}
	ifBlock := schema.IfBlock{
		Base: schema.Base{ID: schema.NewID(schema.KindIfBlock)},
		Clauses: []schema.IfBlockClause{
			{
				Base:    schema.Base{ID: schema.NewID(schema.KindIfBlockClause)},
				IsElse:  true,
				Content: schema.Blocks{chunk},
			},
		},
	}
	article := &schema.Article{Content: schema.Blocks{ifBlock}}

	e := New(set, nil, nil)
	e.Interrupt(context.Background(), article)

	got := article.Content[0].(schema.IfBlock)
	ranChunk := got.Clauses[0].Content[0].(schema.CodeChunk)
	assert.Equal(t, schema.ExecutionStatusCancelled, ranChunk.ExecutionStatus)
	assert.True(t, inst.interrupted)
}

func TestInterruptDescendsIntoForBlockContentAndOtherwise(t *testing.T) {
	running := func() schema.CodeChunk {
		return schema.CodeChunk{
			Base:                schema.Base{ID: schema.NewID(schema.KindCodeChunk)},
			ProgrammingLanguage: "python",
			Executable:          schema.Executable{ExecutionStatus: schema.ExecutionStatusRunning},
		}
	}
	inst := newFakeInstance("python1")
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	forBlock := schema.ForBlock{
		Base:      schema.Base{ID: schema.NewID(schema.KindForBlock)},
		Content:   schema.Blocks{running()},
		Otherwise: schema.Blocks{running()},
	}
	article := &schema.Article{Content: schema.Blocks{forBlock}}

	e := New(set, nil, nil)
	e.Interrupt(context.Background(), article)

	got := article.Content[0].(schema.ForBlock)
	require.Len(t, got.Content, 1)
	require.Len(t, got.Otherwise, 1)
	assert.Equal(t, schema.ExecutionStatusCancelled, got.Content[0].(schema.CodeChunk).ExecutionStatus)
	assert.Equal(t, schema.ExecutionStatusCancelled, got.Otherwise[0].(schema.CodeChunk).ExecutionStatus)
}

func TestInterruptDescendsIntoChatMessages(t *testing.T) {
	running := schema.CodeExpression{
		Base:                schema.Base{ID: schema.NewID(schema.KindCodeExpr)},
		ProgrammingLanguage: "python",
		Executable:          schema.Executable{ExecutionStatus: schema.ExecutionStatusRunning},
	}
	inst := newFakeInstance("python1")
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	chat := schema.Chat{
		Base: schema.Base{ID: schema.NewID(schema.KindChat)},
		Messages: []schema.ChatMessage{
			{Role: "Model", Content: schema.Inlines{running}},
		},
	}
	article := &schema.Article{Content: schema.Blocks{chat}}

	e := New(set, nil, nil)
	e.Interrupt(context.Background(), article)

	got := article.Content[0].(schema.Chat)
	assert.Equal(t, schema.ExecutionStatusCancelled, got.Messages[0].Content[0].(schema.CodeExpression).ExecutionStatus)
}

func TestInterruptIgnoresNodesOutsideNodeIDsFilter(t *testing.T) {
	inst := newFakeInstance("python1")
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	chunk := schema.CodeChunk{
		Base:                schema.Base{ID: "target"},
		ProgrammingLanguage: "python",
		Executable:          schema.Executable{ExecutionStatus: schema.ExecutionStatusRunning},
	}
	other := schema.CodeChunk{
		Base:                schema.Base{ID: "other"},
		ProgrammingLanguage: "python",
		Executable:          schema.Executable{ExecutionStatus: schema.ExecutionStatusRunning},
	}
	article := &schema.Article{Content: schema.Blocks{chunk, other}}

	e := New(set, nil, []string{"target"})
	e.Interrupt(context.Background(), article)

	assert.Equal(t, schema.ExecutionStatusCancelled, article.Content[0].(schema.CodeChunk).ExecutionStatus)
	assert.Equal(t, schema.ExecutionStatusRunning, article.Content[1].(schema.CodeChunk).ExecutionStatus)
}
