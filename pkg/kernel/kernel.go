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

// Package kernel defines the contract every executable-code backend
// implements (spec §4.8): a Kernel factory that creates KernelInstances,
// and the instance contract itself (execute/evaluate/replicate/variable
// channel). Concrete kernels live under pkg/kernels/...
package kernel

import (
	"context"

	"github.com/stencila/engine/pkg/schema"
)

// Type classifies what a kernel is for.
type Type string

const (
	TypeProgramming Type = "Programming"
	TypeDatabase    Type = "Database"
	TypeTemplate    Type = "Template"
	TypePrompt      Type = "Prompt"
)

// Provider reports where a kernel's implementation comes from.
type Provider string

const (
	ProviderBuiltin     Provider = "Builtin"
	ProviderEnvironment Provider = "Environment"
	ProviderPlugin      Provider = "Plugin"
)

// SoftwareApplication describes the runtime backing a kernel instance.
type SoftwareApplication struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Kernel is an instance factory: it advertises capabilities and produces
// KernelInstances bound to execution bounds.
type Kernel interface {
	Name() string
	Type() Type
	Provider() Provider
	SupportsLanguages() []string
	SupportsForks() bool
	SupportsInterrupt() bool
	SupportsTerminate() bool
	SupportsKill() bool
	SupportedBounds() []schema.ExecutionBounds
	SupportsVariableRequests() bool
	CreateInstance(bounds schema.ExecutionBounds) (Instance, error)
}

// VariableRequest asks for a variable by name, sent on a requester channel.
type VariableRequest struct {
	Name string
}

// VariableResponse answers a VariableRequest. Found is false when no kernel
// in the document owns a variable by that name.
type VariableResponse struct {
	Name  string
	Value schema.Node
	Found bool
}

// VariableChannel is the asynchronous request/response pair an instance is
// given at startup for resolving variables it does not itself own (spec
// §4.11).
type VariableChannel struct {
	Requester chan<- VariableRequest
	Responder <-chan VariableResponse
}

// Instance is a running kernel instance contract (spec §4.8).
type Instance interface {
	ID() string
	Start(ctx context.Context, directory string) error
	Execute(ctx context.Context, code string) ([]schema.Node, []schema.ExecutionMessage, error)
	// Evaluate returns a single value in its own shape rather than
	// rendering it into a document Node: a primitive (schema.Boolean,
	// schema.Array, ...) for conditions and for-block iterables, or a
	// schema.Node when the expression names an existing document node.
	Evaluate(ctx context.Context, code string) (any, []schema.ExecutionMessage, error)
	Info() SoftwareApplication
	SetVariableChannel(ch VariableChannel)
	Replicate(ctx context.Context, bounds schema.ExecutionBounds) (Instance, error)
	Stop(ctx context.Context) error
	Interrupt(ctx context.Context) error
	Kill() error
}
