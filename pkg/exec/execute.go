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
	"strings"
	"time"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

// executePass runs the execute phase (spec §4.10 step 3): executables are
// visited in document appearance order; a code chunk inside a for-block is
// run by the for-block handler, not by this generic walk, so for-block and
// if-block content is never recursed into here directly.
func (e *Executor) executePass(ctx context.Context, root *schema.Article) {
	root.Content = e.executeBlocks(ctx, address.Empty().PushName("Content"), root.Content)
}

func (e *Executor) executeBlocks(ctx context.Context, addr address.Address, blocks schema.Blocks) schema.Blocks {
	for i, child := range blocks {
		blocks[i] = e.executeOne(ctx, addr.PushIndex(i), child)
	}
	return blocks
}

func (e *Executor) executeOne(ctx context.Context, addr address.Address, n schema.Node) schema.Node {
	switch v := n.(type) {
	case schema.CodeChunk:
		return e.executeCodeChunk(ctx, addr, v)
	case schema.MathBlock:
		return e.executeMathBlock(ctx, addr, v)
	case schema.IfBlock:
		return e.executeIfBlock(ctx, addr, v)
	case schema.ForBlock:
		return e.executeForBlock(ctx, addr, v)
	case schema.Chat:
		return e.executeChat(ctx, addr, v)
	case schema.PromptBlock:
		return e.executePromptBlock(ctx, addr, v)
	case schema.Paragraph:
		v.Content = e.executeInlines(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Heading:
		v.Content = e.executeInlines(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Section:
		v.Content = e.executeBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.QuoteBlock:
		v.Content = e.executeBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.StyledBlock:
		v.Content = e.executeBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Figure:
		v.Caption = e.executeBlocks(ctx, addr.PushName("Caption"), v.Caption)
		v.Content = e.executeBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Excerpt:
		v.Content = e.executeBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.List:
		itemsAddr := addr.PushName("Items")
		for i, item := range v.Items {
			item.Content = e.executeBlocks(ctx, itemsAddr.PushIndex(i).PushName("Content"), item.Content)
			v.Items[i] = item
		}
		return v
	case schema.IncludeBlock:
		v.Content = e.executeBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.CallBlock:
		v.Content = e.executeBlocks(ctx, addr.PushName("Content"), v.Content)
		return v
	default:
		return n
	}
}

func (e *Executor) executeInlines(ctx context.Context, addr address.Address, inlines schema.Inlines) schema.Inlines {
	for i, child := range inlines {
		inlines[i] = e.executeInlineOne(ctx, addr.PushIndex(i), child)
	}
	return inlines
}

func (e *Executor) executeInlineOne(ctx context.Context, addr address.Address, n schema.Node) schema.Node {
	switch v := n.(type) {
	case schema.CodeExpression:
		return e.executeCodeExpression(ctx, addr, v)
	case schema.MathInline:
		return e.executeMathInline(ctx, addr, v)
	case schema.Emphasis:
		v.Content = e.executeInlines(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Strong:
		v.Content = e.executeInlines(ctx, addr.PushName("Content"), v.Content)
		return v
	case schema.Link:
		v.Content = e.executeInlines(ctx, addr.PushName("Content"), v.Content)
		return v
	default:
		return n
	}
}

// shouldRun reports whether an executable's prepare-phase bookkeeping says
// it is due to run.
func shouldRun(exec schema.Executable) bool {
	return exec.ExecutionRequired != "" && exec.ExecutionRequired != schema.ExecutionRequiredNo
}

// beginRun transitions exec to Running, clears its messages, and patches
// both changes, returning the start time for duration accounting.
func (e *Executor) beginRun(addr address.Address, exec schema.Executable) (schema.Executable, time.Time) {
	exec.ExecutionStatus = schema.ExecutionStatusRunning
	exec.ExecutionMessages = nil
	e.send(addr, setOp("ExecutionStatus", schema.ExecutionStatusRunning), setOp("ExecutionMessages", nil))
	return exec, time.Now()
}

// isBlank reports whether code has no executable content, ignoring
// surrounding whitespace.
func isBlank(code string) bool {
	return strings.TrimSpace(code) == ""
}

// finishEmptyRun marks exec as Empty (spec: "Empty if no code") without
// invoking a kernel at all, the same bookkeeping finishRun performs for a
// real run but skipping the messages/duration a kernel call would produce.
func (e *Executor) finishEmptyRun(addr address.Address, exec schema.Executable, started time.Time) schema.Executable {
	ended := time.Now()

	exec.ExecutionStatus = schema.ExecutionStatusEmpty
	exec.ExecutionMessages = nil
	exec.ExecutionDuration = ended.Sub(started).Seconds()
	exec.ExecutionEnded = ended.UTC().Format(time.RFC3339Nano)
	exec.ExecutionCount++
	exec.ExecutionDigest = exec.CompilationDigest
	exec.ExecutionRequired = schema.ExecutionRequiredNo

	e.send(addr,
		setOp("ExecutionStatus", exec.ExecutionStatus),
		setOp("ExecutionMessages", nil),
		setOp("ExecutionDuration", exec.ExecutionDuration),
		setOp("ExecutionEnded", exec.ExecutionEnded),
		setOp("ExecutionCount", exec.ExecutionCount),
		setOp("ExecutionRequired", exec.ExecutionRequired),
		setOp("ExecutionDigest", exec.ExecutionDigest),
	)
	return exec
}

// finishRun folds messages/outputs bookkeeping into exec after an
// evaluation completes and patches the result (spec §4.10 step 3c/d).
func (e *Executor) finishRun(addr address.Address, exec schema.Executable, started time.Time, messages []schema.ExecutionMessage) schema.Executable {
	status := statusFromMessages(messages)
	ended := time.Now()

	exec.ExecutionStatus = status
	exec.ExecutionMessages = messages
	exec.ExecutionDuration = ended.Sub(started).Seconds()
	exec.ExecutionEnded = ended.UTC().Format(time.RFC3339Nano)
	exec.ExecutionCount++
	exec.ExecutionDigest = exec.CompilationDigest
	if status == schema.ExecutionStatusErrors {
		exec.ExecutionRequired = schema.ExecutionRequiredExecutionFailed
	} else {
		exec.ExecutionRequired = schema.ExecutionRequiredNo
	}

	e.send(addr,
		setOp("ExecutionStatus", status),
		setOp("ExecutionMessages", messages),
		setOp("ExecutionDuration", exec.ExecutionDuration),
		setOp("ExecutionEnded", exec.ExecutionEnded),
		setOp("ExecutionCount", exec.ExecutionCount),
		setOp("ExecutionRequired", exec.ExecutionRequired),
		setOp("ExecutionDigest", exec.ExecutionDigest),
	)
	return exec
}

func (e *Executor) executeCodeChunk(ctx context.Context, addr address.Address, v schema.CodeChunk) schema.CodeChunk {
	if !shouldRun(v.Executable) {
		return v
	}
	var started time.Time
	v.Executable, started = e.beginRun(addr, v.Executable)
	if isBlank(v.Code.String()) {
		v.Outputs = nil
		v.Executable = e.finishEmptyRun(addr, v.Executable, started)
		return v
	}
	outputs, messages, err := e.Kernels.Execute(ctx, v.ProgrammingLanguage, v.Code.String())
	if err != nil {
		messages = append(messages, schema.ExecutionMessage{Level: "Error", Message: err.Error()})
	}
	v.Outputs = make([]schema.Node, len(outputs))
	for i, o := range outputs {
		v.Outputs[i] = o
	}
	v.Executable = e.finishRun(addr, v.Executable, started, messages)
	return v
}

func (e *Executor) executeMathBlock(ctx context.Context, addr address.Address, v schema.MathBlock) schema.MathBlock {
	if !shouldRun(v.Executable) {
		return v
	}
	var started time.Time
	v.Executable, started = e.beginRun(addr, v.Executable)
	if isBlank(v.Code.String()) {
		v.Mathml = ""
		v.Executable = e.finishEmptyRun(addr, v.Executable, started)
		return v
	}
	outputs, messages, err := e.Kernels.Execute(ctx, v.MathLanguage, v.Code.String())
	if err != nil {
		messages = append(messages, schema.ExecutionMessage{Level: "Error", Message: err.Error()})
	}
	if len(outputs) > 0 {
		if text, ok := outputs[0].(schema.Text); ok {
			v.Mathml = text.Value.String()
		}
	}
	v.Executable = e.finishRun(addr, v.Executable, started, messages)
	return v
}

func (e *Executor) executeCodeExpression(ctx context.Context, addr address.Address, v schema.CodeExpression) schema.CodeExpression {
	if !shouldRun(v.Executable) {
		return v
	}
	var started time.Time
	v.Executable, started = e.beginRun(addr, v.Executable)
	if isBlank(v.Code.String()) {
		v.Output = nil
		v.Executable = e.finishEmptyRun(addr, v.Executable, started)
		return v
	}
	outputs, messages, err := e.Kernels.Execute(ctx, v.ProgrammingLanguage, v.Code.String())
	if err != nil {
		messages = append(messages, schema.ExecutionMessage{Level: "Error", Message: err.Error()})
	}
	if len(outputs) > 0 {
		v.Output = outputs[0]
	}
	v.Executable = e.finishRun(addr, v.Executable, started, messages)
	return v
}

func (e *Executor) executeMathInline(ctx context.Context, addr address.Address, v schema.MathInline) schema.MathInline {
	if !shouldRun(v.Executable) {
		return v
	}
	var started time.Time
	v.Executable, started = e.beginRun(addr, v.Executable)
	if isBlank(v.Code.String()) {
		v.Mathml = ""
		v.Executable = e.finishEmptyRun(addr, v.Executable, started)
		return v
	}
	outputs, messages, err := e.Kernels.Execute(ctx, v.MathLanguage, v.Code.String())
	if err != nil {
		messages = append(messages, schema.ExecutionMessage{Level: "Error", Message: err.Error()})
	}
	if len(outputs) > 0 {
		if text, ok := outputs[0].(schema.Text); ok {
			v.Mathml = text.Value.String()
		}
	}
	v.Executable = e.finishRun(addr, v.Executable, started, messages)
	return v
}
