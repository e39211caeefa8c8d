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
	"time"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/llm"
	"github.com/stencila/engine/pkg/patch"
	"github.com/stencila/engine/pkg/schema"
)

// executeChat appends a new model message to the chat, generated by
// e.LLM when one is configured. Real generation is otherwise outside this
// package's scope (spec's generation boundary sits in the prompt
// kernel/model layer, not the execution engine) and falls back to
// placeholder content; what matters here is that the engine's own
// bookkeeping around that call — appending the message, marking it
// running then succeeded, rolling the chat's own status forward — happens
// the same way regardless of which path produced the reply text.
func (e *Executor) executeChat(ctx context.Context, addr address.Address, v schema.Chat) schema.Chat {
	if !shouldRun(v.Executable) {
		return v
	}

	var started time.Time
	v.Executable, started = e.beginRun(addr, v.Executable)

	text, messages := e.generateChatReply(ctx, v)

	messagesAddr := addr.PushName("Messages")
	reply := schema.ChatMessage{
		Base: schema.Base{ID: schema.NewID(schema.Kind("ChatMessage"))},
		Role: "Model",
		Content: schema.Inlines{
			schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord(text)},
		},
	}
	v.Messages = append(v.Messages, reply)
	e.send(messagesAddr, patch.Operation{Type: patch.OpPush, Value: reply})

	v.Executable = e.finishRun(addr, v.Executable, started, messages)
	return v
}

// generateChatReply dispatches the chat's message history to e.LLM. With no
// provider configured it returns placeholder text and no messages; when the
// provider call fails it returns placeholder text with a warning message.
func (e *Executor) generateChatReply(ctx context.Context, v schema.Chat) (string, []schema.ExecutionMessage) {
	if e.LLM == nil {
		return "Placeholder response.", nil
	}

	req := llm.ChatRequest{Messages: make([]llm.Message, 0, len(v.Messages))}
	for _, m := range v.Messages {
		req.Messages = append(req.Messages, llm.Message{Role: chatRole(m.Role), Content: inlinesText(m.Content)})
	}

	resp, err := e.LLM.Chat(ctx, req)
	if err != nil {
		return "Placeholder response.", []schema.ExecutionMessage{
			{Level: "Warning", Message: "model provider unavailable, using placeholder: " + err.Error()},
		}
	}
	return resp.Message.Content, nil
}

// chatRole maps a Stencila chat message role onto the role vocabulary
// llm.Message expects.
func chatRole(role string) string {
	switch role {
	case "Model":
		return "assistant"
	case "System":
		return "system"
	default:
		return "user"
	}
}

// inlinesText flattens a run of inline content into plain text for the
// prompt sent to a provider; only Text nodes contribute.
func inlinesText(inlines schema.Inlines) string {
	var s string
	for _, n := range inlines {
		if t, ok := n.(schema.Text); ok {
			s += t.Value.String()
		}
	}
	return s
}
