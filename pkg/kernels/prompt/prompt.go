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

// Package prompt implements the prompt kernel kind (spec §4.9): a JS
// sandbox, via goja, that exposes the instruction, document and kernel
// contexts a PromptBlock's replicated content executes against as plain
// JS objects. Variables are exposed through their Hint rather than their
// full value, so a large datatable doesn't have to be marshaled into the
// sandbox just to be referenced by name or shape.
package prompt

import (
	"context"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/stencila/engine/pkg/kernel"
	"github.com/stencila/engine/pkg/schema"
)

// Context is the instruction/document/kernels snapshot the execution
// engine builds before spawning a sub-executor over a PromptBlock's
// replicated content (spec §4.10).
type Context struct {
	Instruction string
	Document    map[string]any
	Variables   []kernel.Variable
}

// Kernel is the kernel.Kernel factory for the prompt kind.
type Kernel struct{}

func (Kernel) Name() string                 { return "prompt" }
func (Kernel) Type() kernel.Type             { return kernel.TypePrompt }
func (Kernel) Provider() kernel.Provider     { return kernel.ProviderBuiltin }
func (Kernel) SupportsLanguages() []string   { return []string{"javascript"} }
func (Kernel) SupportsForks() bool           { return false }
func (Kernel) SupportsInterrupt() bool       { return true }
func (Kernel) SupportsTerminate() bool       { return true }
func (Kernel) SupportsKill() bool            { return true }
func (Kernel) SupportsVariableRequests() bool { return true }
func (Kernel) SupportedBounds() []schema.ExecutionBounds {
	return []schema.ExecutionBounds{schema.BoundsMain, schema.BoundsBox}
}

func (Kernel) CreateInstance(bounds schema.ExecutionBounds) (kernel.Instance, error) {
	return &instance{id: newInstanceID(), bounds: bounds, vm: goja.New()}, nil
}

var (
	instanceSeqMu sync.Mutex
	instanceSeq   int
)

func newInstanceID() string {
	instanceSeqMu.Lock()
	defer instanceSeqMu.Unlock()
	instanceSeq++
	return fmt.Sprintf("prompt-kernel-%d", instanceSeq)
}

type instance struct {
	mu     sync.Mutex
	id     string
	bounds schema.ExecutionBounds
	vm     *goja.Runtime
	varCh  kernel.VariableChannel
	killed bool
}

func (i *instance) ID() string { return i.id }

func (i *instance) Start(ctx context.Context, directory string) error { return nil }

func (i *instance) Info() kernel.SoftwareApplication {
	return kernel.SoftwareApplication{Name: "goja"}
}

func (i *instance) SetVariableChannel(ch kernel.VariableChannel) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.varCh = ch
}

// SetContext installs the instruction/document/kernels globals a
// PromptBlock's replicated content executes against. Not part of
// kernel.Instance: the execution engine type-asserts for it the same way
// it type-asserts for kernel.Responder's LookupVariable.
func (i *instance) SetContext(c Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.vm.Set("instruction", c.Instruction); err != nil {
		return fmt.Errorf("prompt: set instruction global: %w", err)
	}
	if err := i.vm.Set("document", c.Document); err != nil {
		return fmt.Errorf("prompt: set document global: %w", err)
	}

	kernels := make([]map[string]any, 0, len(c.Variables))
	for _, v := range c.Variables {
		kernels = append(kernels, variableToJS(v))
	}
	if err := i.vm.Set("kernels", kernels); err != nil {
		return fmt.Errorf("prompt: set kernels global: %w", err)
	}
	return nil
}

// variableToJS renders a kernel.Variable as the plain map goja exposes
// to sandboxed script: {name, type, hint}, hint following Hint's shape.
func variableToJS(v kernel.Variable) map[string]any {
	m := map[string]any{"name": v.Name, "type": v.Type}
	if v.Hint != nil {
		m["hint"] = hintToJS(*v.Hint)
	}
	return m
}

func hintToJS(h kernel.Hint) map[string]any {
	m := map[string]any{"kind": string(h.Kind)}
	switch h.Kind {
	case kernel.HintBoolean:
		m["boolean"] = h.Boolean
	case kernel.HintInteger:
		m["integer"] = h.Integer
	case kernel.HintNumber:
		m["number"] = h.Number
	case kernel.HintString:
		m["length"] = h.Length
	case kernel.HintArray:
		m["itemTypes"] = h.ItemTypes
		m["minimum"] = h.Minimum
		m["maximum"] = h.Maximum
		m["nulls"] = h.Nulls
	case kernel.HintObject:
		m["keys"] = h.Keys
		values := make([]map[string]any, 0, len(h.Values))
		for _, v := range h.Values {
			values = append(values, hintToJS(v))
		}
		m["values"] = values
	case kernel.HintDatatable:
		m["rows"] = h.Rows
		columns := make([]map[string]any, 0, len(h.Columns))
		for _, col := range h.Columns {
			columns = append(columns, hintToJS(col))
		}
		m["columns"] = columns
	case kernel.HintDatatableColumn:
		m["columnName"] = h.ColumnName
		m["columnType"] = h.ColumnType
	}
	return m
}

func (i *instance) Execute(ctx context.Context, code string) ([]schema.Node, []schema.ExecutionMessage, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.killed {
		return nil, []schema.ExecutionMessage{{Level: "Error", Message: "kernel instance has been killed"}}, nil
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			i.vm.Interrupt("context canceled")
		case <-done:
		}
	}()

	v, err := i.vm.RunString(code)
	if err != nil {
		return nil, []schema.ExecutionMessage{{Level: "Error", Message: err.Error()}}, nil
	}

	if node := valueToNode(v); node != nil {
		return []schema.Node{node}, nil, nil
	}
	return nil, nil, nil
}

func (i *instance) Evaluate(ctx context.Context, code string) (any, []schema.ExecutionMessage, error) {
	outputs, messages, err := i.Execute(ctx, code)
	if err != nil || len(messages) > 0 || len(outputs) == 0 {
		return nil, messages, err
	}
	return outputs[0], nil, nil
}

// valueToNode converts a goja result into a schema node. Only values that
// export to a scalar are represented as Text; anything else (undefined,
// objects, functions) produces no visible output.
func valueToNode(v goja.Value) schema.Node {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	exported := v.Export()
	switch val := exported.(type) {
	case string:
		if val == "" {
			return nil
		}
		return schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord(val)}
	case bool, int64, float64:
		return schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord(fmt.Sprint(val))}
	default:
		return nil
	}
}

func (i *instance) Replicate(ctx context.Context, bounds schema.ExecutionBounds) (kernel.Instance, error) {
	return nil, fmt.Errorf("prompt: kernel does not support replication")
}

func (i *instance) Stop(ctx context.Context) error { return nil }

func (i *instance) Interrupt(ctx context.Context) error {
	i.vm.Interrupt("interrupted")
	return nil
}

func (i *instance) Kill() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.killed = true
	i.vm.Interrupt("killed")
	return nil
}
