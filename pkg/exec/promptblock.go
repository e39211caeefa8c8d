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
	"time"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/kernels/prompt"
	"github.com/stencila/engine/pkg/schema"
)

// contextSetter is implemented by the prompt kernel instance; not part of
// kernel.Instance itself, so the engine type-asserts for it the same way it
// type-asserts for kernel.Responder's LookupVariable.
type contextSetter interface {
	SetContext(c prompt.Context) error
}

// executePromptBlock always runs (a prompt block has no content of its own
// to mark dirty ahead of time): it spins up a fresh prompt-kernel instance
// bound to the block's instruction/target, and runs a sub-Executor's
// compile/prepare/execute passes over the block's own replicated content,
// so any code chunks or expressions the prompt carries run sandboxed from
// the document's own kernels.
func (e *Executor) executePromptBlock(ctx context.Context, addr address.Address, v schema.PromptBlock) schema.PromptBlock {
	v.Executable.ExecutionStatus = schema.ExecutionStatusRunning
	e.send(addr, setOp("ExecutionStatus", schema.ExecutionStatusRunning))
	started := time.Now()

	var messages []schema.ExecutionMessage

	inst, err := (prompt.Kernel{}).CreateInstance(schema.BoundsBox)
	if err != nil {
		messages = append(messages, schema.ExecutionMessage{Level: "Error", Message: fmt.Sprintf("creating prompt kernel: %s", err)})
	} else {
		if setter, ok := inst.(contextSetter); ok {
			if err := setter.SetContext(prompt.Context{Instruction: v.Target}); err != nil {
				messages = append(messages, schema.ExecutionMessage{Level: "Error", Message: err.Error()})
			}
		}

		childSet := NewSet()
		childSet.Register(ctx, "javascript", inst)
		child := &Executor{Kernels: childSet, Patches: e.Patches, NodeIDs: e.NodeIDs, LLM: e.LLM, isLast: e.isLast}

		contentAddr := addr.PushName("Content")
		v.Content = child.compileBlocks(contentAddr, v.Content)
		v.Content = child.prepareBlocks(contentAddr, v.Content)
		v.Content = child.executeBlocks(ctx, contentAddr, v.Content)
	}

	v.Executable = e.finishRun(addr, v.Executable, started, messages)
	return v
}
