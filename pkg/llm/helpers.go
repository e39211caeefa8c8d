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

package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// DefaultProvider creates a provider from environment variables.
// Checks in order: OLLAMA_HOST, OPENAI_API_KEY, ANTHROPIC_API_KEY
// Falls back to mock if nothing is configured.
func DefaultProvider() (Provider, error) {
	// Check for Ollama first (local, free)
	if os.Getenv("OLLAMA_HOST") != "" || os.Getenv("OLLAMA_BASE_URL") != "" || os.Getenv("OLLAMA_MODEL") != "" {
		return NewProvider(ProviderConfig{Type: "ollama"})
	}

	// Check for OpenAI
	if os.Getenv("OPENAI_API_KEY") != "" {
		return NewProvider(ProviderConfig{Type: "openai"})
	}

	// Check for Anthropic
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return NewProvider(ProviderConfig{Type: "anthropic"})
	}

	// Default to mock for development
	return NewProvider(ProviderConfig{Type: "mock"})
}

// ProviderFromEnv creates a provider from a specific environment variable.
// Example: LLM_PROVIDER=ollama will use Ollama.
func ProviderFromEnv(envVar string) (Provider, error) {
	providerType := os.Getenv(envVar)
	if providerType == "" {
		return DefaultProvider()
	}
	return NewProvider(ProviderConfig{Type: providerType})
}

// QuickGenerate is a convenience function for simple text generation.
func QuickGenerate(ctx context.Context, prompt string) (string, error) {
	provider, err := DefaultProvider()
	if err != nil {
		return "", err
	}
	resp, err := provider.Generate(ctx, GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// QuickChat is a convenience function for simple chat.
func QuickChat(ctx context.Context, messages ...string) (string, error) {
	provider, err := DefaultProvider()
	if err != nil {
		return "", err
	}

	msgs := make([]Message, len(messages))
	for i, m := range messages {
		if i%2 == 0 {
			msgs[i] = Message{Role: "user", Content: m}
		} else {
			msgs[i] = Message{Role: "assistant", Content: m}
		}
	}

	resp, err := provider.Chat(ctx, ChatRequest{Messages: msgs})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// InstructionPrompt helps build prompts for a prompt block's instruction
// target: the free-text string a document author writes (optionally
// "?"-suffixed to request re-inference) that the prompt kernel resolves
// against the surrounding document content.
type InstructionPrompt struct {
	Task        string
	Format      string
	Content     string
	Context     string
	Constraints []string
}

// Build generates a formatted prompt for a document instruction.
func (ip InstructionPrompt) Build() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Task: %s\n\n", ip.Task))

	if ip.Format != "" {
		sb.WriteString(fmt.Sprintf("Format: %s\n\n", ip.Format))
	}

	if ip.Context != "" {
		sb.WriteString(fmt.Sprintf("Context:\n%s\n\n", ip.Context))
	}

	if ip.Content != "" {
		sb.WriteString(fmt.Sprintf("Content:\n```%s\n%s\n```\n\n", ip.Format, ip.Content))
	}

	if len(ip.Constraints) > 0 {
		sb.WriteString("Constraints:\n")
		for _, c := range ip.Constraints {
			sb.WriteString(fmt.Sprintf("- %s\n", c))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// SystemPrompts contains common system prompts for document instructions,
// one per instruction target a prompt block's Target commonly names.
var SystemPrompts = struct {
	Describe  string
	Edit      string
	Insert    string
	Fix       string
	Summarize string
	Translate string
}{
	Describe: `You are a technical writer. Describe the provided document content clearly
and concisely for a reader unfamiliar with it. Identify its structure and
purpose before going into detail.`,

	Edit: `You are an editor. Revise the provided document content according to the
instruction while preserving its structure, tone, and any node markup.
Change only what the instruction asks for.`,

	Insert: `You are a writing assistant. Generate new document content that fits the
surrounding context and matches its tone, heading level, and format.
Return only the content to insert.`,

	Fix: `You are a careful editor. Find and correct the specific problem the
instruction describes in the provided content (a broken reference, an
inconsistent value, a factual error) without rewriting unrelated parts.`,

	Summarize: `You are a technical writer. Produce a concise summary of the provided
document content, preserving its key claims and any figures or values it
cites.`,

	Translate: `You are a translator. Render the provided document content in the
requested language, preserving markup, code, and math unchanged.`,
}

// BuildChatMessages creates a chat message array with system prompt.
func BuildChatMessages(systemPrompt, userPrompt string, history ...Message) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: userPrompt})
	return messages
}
