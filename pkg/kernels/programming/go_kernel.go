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

// Package programming implements the programming-language kernel kind
// (spec §4.9) for Go, interpreting code with yaegi rather than shelling
// out to `go run` so that variable state can persist across successive
// Execute calls within one kernel instance, the same motivation the
// teacher's own Yaegi executor documents (avoiding per-call compile
// latency and dependency-resolution failures).
package programming

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/stencila/engine/pkg/kernel"
	"github.com/stencila/engine/pkg/schema"
)

// GoKernel is the kernel.Kernel factory for Go code chunks and
// expressions.
type GoKernel struct{}

func (GoKernel) Name() string                       { return "go" }
func (GoKernel) Type() kernel.Type                   { return kernel.TypeProgramming }
func (GoKernel) Provider() kernel.Provider           { return kernel.ProviderBuiltin }
func (GoKernel) SupportsLanguages() []string         { return []string{"go", "golang"} }
func (GoKernel) SupportsForks() bool                 { return true }
func (GoKernel) SupportsInterrupt() bool             { return true }
func (GoKernel) SupportsTerminate() bool             { return true }
func (GoKernel) SupportsKill() bool                  { return true }
func (GoKernel) SupportsVariableRequests() bool      { return true }
func (GoKernel) SupportedBounds() []schema.ExecutionBounds {
	return []schema.ExecutionBounds{schema.BoundsMain, schema.BoundsFork, schema.BoundsBox}
}

func (GoKernel) CreateInstance(bounds schema.ExecutionBounds) (kernel.Instance, error) {
	return newInstance(bounds), nil
}

// instance is one running Go interpreter. log accumulates every statement
// block that has been successfully evaluated so Replicate can rebuild an
// independent interpreter with the same state (yaegi has no built-in fork).
type instance struct {
	mu      sync.Mutex
	id      string
	bounds  schema.ExecutionBounds
	interp  *interp.Interpreter
	log     []string
	killed  bool
	varCh   kernel.VariableChannel
}

var instanceSeq int

func newInstance(bounds schema.ExecutionBounds) *instance {
	instanceSeq++
	i := &instance{
		id:     fmt.Sprintf("go-kernel-%d", instanceSeq),
		bounds: bounds,
	}
	i.reset()
	return i
}

func (i *instance) reset() {
	i.interp = interp.New(interp.Options{})
	_ = i.interp.Use(stdlib.Symbols)
}

func (i *instance) ID() string { return i.id }

func (i *instance) Start(ctx context.Context, directory string) error {
	return nil
}

func (i *instance) Info() kernel.SoftwareApplication {
	return kernel.SoftwareApplication{Name: "yaegi"}
}

func (i *instance) SetVariableChannel(ch kernel.VariableChannel) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.varCh = ch
}

// LookupVariable implements kernel.Responder, answering other instances'
// variable requests out of this interpreter's globals.
func (i *instance) LookupVariable(name string) (kernel.VariableResponse, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	v, err := i.interp.Eval(name)
	if err != nil || !v.IsValid() {
		return kernel.VariableResponse{}, false
	}
	node := valueToNode(v.Interface())
	if node == nil {
		return kernel.VariableResponse{}, false
	}
	return kernel.VariableResponse{Name: name, Value: node, Found: true}, true
}

// evalRaw runs code and hands back the interpreted Go value itself,
// shared by Execute (which renders it into a document Node) and Evaluate
// (which preserves its shape for conditions and for-block iterables).
func (i *instance) evalRaw(ctx context.Context, code string) (any, []schema.ExecutionMessage, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.killed {
		return nil, []schema.ExecutionMessage{{Level: "Error", Message: "kernel instance has been killed"}}, nil
	}
	if i.bounds == schema.BoundsBox {
		if containsFilesystemOrNetwork(code) {
			return nil, []schema.ExecutionMessage{{Level: "Error", Message: "filesystem and network access are not permitted in Box bounds"}}, nil
		}
	}

	v, err := i.interp.EvalWithContext(ctx, code)
	if err != nil {
		return nil, []schema.ExecutionMessage{{Level: "Error", Message: err.Error()}}, nil
	}
	i.log = append(i.log, code)

	if v.IsValid() && v.CanInterface() {
		return v.Interface(), nil, nil
	}
	return nil, nil, nil
}

func (i *instance) Execute(ctx context.Context, code string) ([]schema.Node, []schema.ExecutionMessage, error) {
	raw, messages, err := i.evalRaw(ctx, code)
	if err != nil || len(messages) > 0 {
		return nil, messages, err
	}
	var outputs []schema.Node
	if node := valueToNode(raw); node != nil {
		outputs = append(outputs, node)
	}
	return outputs, nil, nil
}

// Evaluate keeps the interpreted value in its own shape (bool, number,
// string, slice) rather than flattening it to Text the way Execute's
// document outputs do, since a condition or for-block iterable needs to
// be tested or ranged over as what it actually is.
func (i *instance) Evaluate(ctx context.Context, code string) (any, []schema.ExecutionMessage, error) {
	raw, messages, err := i.evalRaw(ctx, code)
	if err != nil || len(messages) > 0 {
		return nil, messages, err
	}
	return valueToPrimitive(raw), nil, nil
}

func (i *instance) Replicate(ctx context.Context, bounds schema.ExecutionBounds) (kernel.Instance, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	r := newInstance(bounds)
	for _, stmt := range i.log {
		if _, err := r.interp.EvalWithContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("programming: replaying state into replica: %w", err)
		}
	}
	r.log = append([]string(nil), i.log...)
	return r, nil
}

func (i *instance) Stop(ctx context.Context) error {
	return nil
}

func (i *instance) Interrupt(ctx context.Context) error {
	return nil
}

func (i *instance) Kill() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.killed = true
	return nil
}

// containsFilesystemOrNetwork is a conservative textual check used to
// reject obviously Box-violating imports before handing code to yaegi;
// it is not a sandboxing guarantee on its own.
func containsFilesystemOrNetwork(code string) bool {
	for _, pkg := range []string{`"os"`, `"os/exec"`, `"net"`, `"net/http"`, `"syscall"`} {
		if strings.Contains(code, pkg) {
			return true
		}
	}
	return false
}

// valueToNode converts a Go value returned from interpreted code into a
// schema node. Only scalar results are represented; anything else is
// dropped (execution still succeeds, it just produces no visible output).
func valueToNode(v any) schema.Node {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord(val)}
	case fmt.Stringer:
		return schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord(val.String())}
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord(fmt.Sprint(val))}
	default:
		return nil
	}
}

// valueToPrimitive converts an interpreted Go value into the primitive or
// Array shape Evaluate's callers expect, recursing into slices and arrays
// so a for-block can range over a host-language collection.
func valueToPrimitive(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		return schema.Boolean(val)
	case string:
		return schema.String(val)
	case int:
		return schema.Integer(val)
	case int8:
		return schema.Integer(val)
	case int16:
		return schema.Integer(val)
	case int32:
		return schema.Integer(val)
	case int64:
		return schema.Integer(val)
	case uint:
		return schema.UnsignedInteger(val)
	case uint8:
		return schema.UnsignedInteger(val)
	case uint16:
		return schema.UnsignedInteger(val)
	case uint32:
		return schema.UnsignedInteger(val)
	case uint64:
		return schema.UnsignedInteger(val)
	case float32:
		return schema.Number(val)
	case float64:
		return schema.Number(val)
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make(schema.Array, rv.Len())
		for i := range out {
			out[i] = valueToPrimitive(rv.Index(i).Interface())
		}
		return out
	default:
		return nil
	}
}
