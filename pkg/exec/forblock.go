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
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

// maxForBlockConcurrency bounds how many iterations of one for-block run at
// once, regardless of how many items the iterable yields.
const maxForBlockConcurrency = 4

// iteration is the outcome of running one replica of a for-block's content
// template against one bound value of its loop variable.
type iteration struct {
	content  schema.Blocks
	messages []schema.ExecutionMessage
}

// executeForBlock evaluates the iterable expression, then for each item
// replicates the content template into a fresh-id copy, binds the loop
// variable in a forked kernel instance (or the shared instance, serialized,
// when the kernel can't fork), and executes that copy. Iterations run with
// bounded concurrency since forked kernels don't share mutable state. An
// empty iterable runs otherwise instead, and leaves Iterations empty.
func (e *Executor) executeForBlock(ctx context.Context, addr address.Address, v schema.ForBlock) schema.ForBlock {
	if !shouldRun(v.Executable) {
		return v
	}

	var started time.Time
	v.Executable, started = e.beginRun(addr, v.Executable)

	iterable, messages, err := e.Kernels.Evaluate(ctx, v.ProgrammingLanguage, v.Code.String())
	if err != nil {
		messages = append(messages, schema.ExecutionMessage{Level: "Error", Message: err.Error()})
	}
	items, ok := iterable.(schema.Array)
	if !ok {
		items = nil
	}

	if len(items) == 0 {
		v.Otherwise = e.executeBlocks(ctx, addr.PushName("Otherwise"), v.Otherwise)
		v.Iterations = nil
		v.Executable = e.finishRun(addr, v.Executable, started, messages)
		return v
	}

	results := make([]iteration, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxForBlockConcurrency)

	itemsAddr := addr.PushName("Content")
	var sharedMu sync.Mutex
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			results[i] = e.runForIteration(gctx, itemsAddr, v, item, &sharedMu)
			return nil
		})
	}
	_ = g.Wait() // runForIteration never returns an error; failures surface as messages

	v.Iterations = make([]schema.Node, len(items))
	for i, r := range results {
		messages = append(messages, r.messages...)
		section := schema.Section{
			Base:        schema.Base{ID: schema.NewID(schema.KindSection)},
			SectionType: "Iteration",
			Content:     r.content,
		}
		v.Iterations[i] = section
	}

	v.Executable = e.finishRun(addr, v.Executable, started, messages)
	return v
}

// runForIteration binds item to variable in its own kernel replica and
// executes a fresh-id copy of content against it. When the kernel can't
// fork, the iteration runs on the shared instance while holding shared.
func (e *Executor) runForIteration(ctx context.Context, contentAddr address.Address, v schema.ForBlock, item any, shared *sync.Mutex) iteration {
	inst, ok := e.Kernels.Get(v.ProgrammingLanguage)
	if !ok {
		return iteration{messages: []schema.ExecutionMessage{
			{Level: "Error", Message: fmt.Sprintf("no kernel registered for language %q", v.ProgrammingLanguage)},
		}}
	}

	replica, err := inst.Replicate(ctx, schema.BoundsFork)
	if err != nil {
		shared.Lock()
		defer shared.Unlock()
		replica = inst
	}

	var messages []schema.ExecutionMessage
	if _, bindMessages, bindErr := replica.Execute(ctx, bindingCode(v.Variable, item)); bindErr != nil {
		messages = append(messages, schema.ExecutionMessage{Level: "Error", Message: bindErr.Error()})
	} else {
		messages = append(messages, bindMessages...)
	}

	childSet := NewSet()
	childSet.Register(ctx, v.ProgrammingLanguage, replica)
	child := &Executor{Kernels: childSet, Patches: e.Patches, NodeIDs: e.NodeIDs}

	// The duplicated content was never visited by the document-level
	// prepare pass (executeForBlock's own content is skipped there, same
	// as if-block clauses), so it still needs a prepare pass of its own
	// to mark its executables dirty before this iteration's execute pass
	// will actually run them.
	content := duplicateBlocks(v.Content)
	content = child.compileBlocks(contentAddr, content)
	content = child.prepareBlocks(contentAddr, content)
	content = child.executeBlocks(ctx, contentAddr, content)

	return iteration{content: content, messages: messages}
}

// duplicateBlocks deep-copies blocks with fresh node ids, so each for-block
// iteration's materialized content doesn't collide with the template's.
func duplicateBlocks(blocks schema.Blocks) schema.Blocks {
	out := make(schema.Blocks, len(blocks))
	for i, b := range blocks {
		out[i] = schema.Duplicate(b).(schema.Block)
	}
	return out
}

// bindingCode renders a loop variable assignment in the kernel's own
// surface syntax, good enough for the primitive and composite shapes a
// for-block iterable commonly yields.
func bindingCode(variable string, item any) string {
	return fmt.Sprintf("%s := %s", variable, goLiteral(item))
}

func goLiteral(n any) string {
	switch v := n.(type) {
	case schema.Boolean:
		return fmt.Sprintf("%v", bool(v))
	case schema.Integer:
		return fmt.Sprintf("%d", int64(v))
	case schema.UnsignedInteger:
		return fmt.Sprintf("%d", uint64(v))
	case schema.Number:
		return fmt.Sprintf("%v", float64(v))
	case schema.String:
		return fmt.Sprintf("%q", string(v))
	case schema.Text:
		return fmt.Sprintf("%q", v.Value.String())
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%q", fmt.Sprintf("%v", v))
	}
}
