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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/llm"
	"github.com/stencila/engine/pkg/schema"
)

// fakeProvider is a minimal llm.Provider double for executeChat's
// provider-backed path.
type fakeProvider struct {
	reply string
	err   error
}

func (p fakeProvider) Name() string { return "fake" }
func (p fakeProvider) Models(ctx context.Context) ([]string, error) {
	return []string{"fake-model"}, nil
}
func (p fakeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return &llm.GenerateResponse{Text: p.reply}, p.err
}
func (p fakeProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.ChatResponse{Message: llm.Message{Role: "assistant", Content: p.reply}}, nil
}

func TestExecuteChatAppendsModelMessage(t *testing.T) {
	chat := schema.Chat{
		Base:       schema.Base{ID: schema.NewID(schema.KindChat)},
		Executable: schema.Executable{ExecutionRequired: schema.ExecutionRequiredNeverExecuted},
		PromptID:   "test-prompt",
		Messages: []schema.ChatMessage{
			{Base: schema.Base{ID: schema.NewID(schema.Kind("ChatMessage"))}, Role: "User", Content: schema.Inlines{}},
		},
	}

	e := New(nil, nil, nil)
	got := e.executeChat(context.Background(), address.Empty(), chat)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Model", got.Messages[1].Role)
	require.Len(t, got.Messages[1].Content, 1)
	assert.NotEmpty(t, got.Messages[1].Content[0].(schema.Text).Value.String())
	assert.Equal(t, schema.ExecutionStatusSucceeded, got.ExecutionStatus)
	assert.Equal(t, 1, got.ExecutionCount)
}

func TestExecuteChatUsesConfiguredProvider(t *testing.T) {
	chat := schema.Chat{
		Executable: schema.Executable{ExecutionRequired: schema.ExecutionRequiredNeverExecuted},
		Messages: []schema.ChatMessage{
			{Role: "User", Content: schema.Inlines{schema.Text{Value: schema.NewCord("hi")}}},
		},
	}

	e := New(nil, nil, nil)
	e.LLM = fakeProvider{reply: "generated reply"}
	got := e.executeChat(context.Background(), address.Empty(), chat)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "generated reply", got.Messages[1].Content[0].(schema.Text).Value.String())
	assert.Equal(t, schema.ExecutionStatusSucceeded, got.ExecutionStatus)
}

func TestExecuteChatFallsBackToPlaceholderOnProviderError(t *testing.T) {
	chat := schema.Chat{
		Executable: schema.Executable{ExecutionRequired: schema.ExecutionRequiredNeverExecuted},
		Messages: []schema.ChatMessage{
			{Role: "User", Content: schema.Inlines{}},
		},
	}

	e := New(nil, nil, nil)
	e.LLM = fakeProvider{err: errors.New("connection refused")}
	got := e.executeChat(context.Background(), address.Empty(), chat)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Placeholder response.", got.Messages[1].Content[0].(schema.Text).Value.String())
	assert.Equal(t, schema.ExecutionStatusWarnings, got.ExecutionStatus)
}

func TestExecuteChatSkippedWhenNotRequired(t *testing.T) {
	chat := schema.Chat{
		Messages: []schema.ChatMessage{
			{Role: "User"},
		},
	}

	e := New(nil, nil, nil)
	got := e.executeChat(context.Background(), address.Empty(), chat)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, 0, got.ExecutionCount)
}
