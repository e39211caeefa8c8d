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

// Package exec implements the execution engine (spec §4.10): a three-walk
// compile/prepare/execute cycle over a document tree, plus a separate
// interrupt walk. The engine owns a Kernels Set, an optional patch sender,
// and an optional list of target node ids restricting which nodes run.
package exec

import (
	"context"
	"reflect"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/llm"
	"github.com/stencila/engine/pkg/patch"
	"github.com/stencila/engine/pkg/schema"
)

// Executor walks a document tree through the compile/prepare/execute/
// interrupt phases, evaluating executable nodes against a Set of kernel
// instances and optionally streaming a Patch per state transition.
type Executor struct {
	Kernels *Set
	Patches chan<- patch.Patch
	NodeIDs []string

	// LLM generates chat replies when set.
	// A nil LLM (the default) falls back to placeholder text, standing in
	// for the model call the same way a chat's own generation step would
	// be stubbed before a provider is configured.
	LLM llm.Provider

	isLast bool
}

// New builds an Executor. patches may be nil to run without streaming
// state-change patches (e.g. in tests); nodeIDs may be nil to run the
// whole tree.
func New(kernels *Set, patches chan<- patch.Patch, nodeIDs []string) *Executor {
	return &Executor{Kernels: kernels, Patches: patches, NodeIDs: nodeIDs}
}

func (e *Executor) included(id string) bool {
	if e.NodeIDs == nil {
		return true
	}
	for _, want := range e.NodeIDs {
		if want == id {
			return true
		}
	}
	return false
}

// send streams ops as one Patch addressed at addr, a no-op when no patch
// channel was configured.
func (e *Executor) send(addr address.Address, ops ...patch.Operation) {
	if e.Patches == nil {
		return
	}
	full := make(patch.Patch, len(ops))
	for i, op := range ops {
		op.Address = addr.Concat(op.Address)
		full[i] = op
	}
	e.Patches <- full
}

func setOp(field string, value any) patch.Operation {
	return patch.Operation{Type: patch.OpSet, Address: address.Empty().PushName(field), Value: value}
}

// Run drives root through all three phases in order.
func (e *Executor) Run(ctx context.Context, root *schema.Article) {
	e.compilePass(root)
	e.preparePass(root)
	e.executePass(ctx, root)
}

// Interrupt transitions every Running executable under root to Cancelled
// and forwards Interrupt to the kernel instance it was running in.
func (e *Executor) Interrupt(ctx context.Context, root *schema.Article) {
	e.interruptBlocks(ctx, address.Empty().PushName("Content"), root.Content)
}

// getExecutable reads the embedded schema.Executable bookkeeping struct off
// any node that has one, via the field name every executable node type
// shares — generic so the bookkeeping (digest/status/count fields) doesn't
// have to be hand-copied into every per-kind handler below.
func getExecutable(n schema.Node) (schema.Executable, bool) {
	v := reflect.ValueOf(n)
	f := v.FieldByName("Executable")
	if !f.IsValid() {
		return schema.Executable{}, false
	}
	return f.Interface().(schema.Executable), true
}

// withExecutable returns a copy of n with its embedded Executable struct
// replaced by e, the set-side counterpart to getExecutable.
func withExecutable(n schema.Node, e schema.Executable) schema.Node {
	v := reflect.ValueOf(n)
	out := reflect.New(v.Type()).Elem()
	out.Set(v)
	f := out.FieldByName("Executable")
	f.Set(reflect.ValueOf(e))
	return out.Interface().(schema.Node)
}
