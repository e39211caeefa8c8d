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

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

// interruptLanguage extracts the kernel language a running executable was
// dispatched to, so Interrupt can forward to the right instance.
func interruptLanguage(n schema.Node) (string, bool) {
	switch v := n.(type) {
	case schema.CodeChunk:
		return v.ProgrammingLanguage, true
	case schema.MathBlock:
		return v.MathLanguage, true
	case schema.CodeExpression:
		return v.ProgrammingLanguage, true
	case schema.MathInline:
		return v.MathLanguage, true
	case schema.ForBlock:
		return v.ProgrammingLanguage, true
	default:
		return "", false
	}
}

// interruptBlocks walks every node under blocks, unlike compile/prepare/
// execute it always descends into every container (including if-block
// clauses, for-block content and chat messages) since any of them could
// be mid-run when an interrupt arrives.
func (e *Executor) interruptBlocks(ctx context.Context, addr address.Address, blocks schema.Blocks) schema.Blocks {
	for i, child := range blocks {
		blocks[i] = e.interruptOne(ctx, addr.PushIndex(i), child)
	}
	return blocks
}

func (e *Executor) interruptOne(ctx context.Context, addr address.Address, n schema.Node) schema.Node {
	if e.included(n.NodeID()) {
		if exec, ok := getExecutable(n); ok && exec.ExecutionStatus == schema.ExecutionStatusRunning {
			exec.ExecutionStatus = schema.ExecutionStatusCancelled
			n = withExecutable(n, exec)
			e.send(addr, setOp("ExecutionStatus", schema.ExecutionStatusCancelled))

			if language, ok := interruptLanguage(n); ok {
				if inst, ok := e.Kernels.Get(language); ok {
					_ = inst.Interrupt(ctx)
				}
			}
		}
	}

	switch v := n.(type) {
	case schema.Paragraph:
		v.Content = e.interruptInlines(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Heading:
		v.Content = e.interruptInlines(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Section:
		v.Content = e.interruptBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.QuoteBlock:
		v.Content = e.interruptBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.StyledBlock:
		v.Content = e.interruptBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Figure:
		v.Caption = e.interruptBlocks(ctx, addr.PushName("Caption"), v.Caption)
		v.Content = e.interruptBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Excerpt:
		v.Content = e.interruptBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.List:
		itemsAddr := addr.PushName("Items")
		for i, item := range v.Items {
			item.Content = e.interruptBlocks(ctx, itemsAddr.PushIndex(i).PushName("Content"), item.Content)
			v.Items[i] = item
		}
		return v
	case schema.IfBlock:
		clausesAddr := addr.PushName("Clauses")
		for i, clause := range v.Clauses {
			updated := e.interruptOne(ctx, clausesAddr.PushIndex(i), clause)
			v.Clauses[i] = updated.(schema.IfBlockClause)
		}
		return v
	case schema.IfBlockClause:
		v.Content = e.interruptBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.ForBlock:
		v.Content = e.interruptBlocks(ctx, addr.PushName("Content"), v.Content)
		v.Otherwise = e.interruptBlocks(ctx, addr.PushName("Otherwise"), v.Otherwise)
		return v
	case schema.Chat:
		messagesAddr := addr.PushName("Messages")
		for i, msg := range v.Messages {
			msg.Content = e.interruptInlines(ctx, messagesAddr.PushIndex(i).PushName("Content"), msg.Content)
			v.Messages[i] = msg
		}
		return v
	case schema.PromptBlock:
		v.Content = e.interruptBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.IncludeBlock:
		v.Content = e.interruptBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.CallBlock:
		v.Content = e.interruptBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	default:
		return n
	}
}

func (e *Executor) interruptInlines(ctx context.Context, addr address.Address, inlines schema.Inlines) schema.Inlines {
	for i, child := range inlines {
		inlines[i] = e.interruptInlineOne(ctx, addr.PushIndex(i), child)
	}
	return inlines
}

func (e *Executor) interruptInlineOne(ctx context.Context, addr address.Address, n schema.Node) schema.Node {
	if e.included(n.NodeID()) {
		if exec, ok := getExecutable(n); ok && exec.ExecutionStatus == schema.ExecutionStatusRunning {
			exec.ExecutionStatus = schema.ExecutionStatusCancelled
			n = withExecutable(n, exec)
			e.send(addr, setOp("ExecutionStatus", schema.ExecutionStatusCancelled))

			if language, ok := interruptLanguage(n); ok {
				if inst, ok := e.Kernels.Get(language); ok {
					_ = inst.Interrupt(ctx)
				}
			}
		}
	}

	switch v := n.(type) {
	case schema.Emphasis:
		v.Content = e.interruptInlines(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Strong:
		v.Content = e.interruptInlines(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Link:
		v.Content = e.interruptInlines(ctx, addr.PushName("Content"), v.Content)
		return v
	default:
		return n
	}
}
