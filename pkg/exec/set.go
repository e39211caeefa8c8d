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

	"github.com/stencila/engine/pkg/kernel"
	"github.com/stencila/engine/pkg/schema"
)

// Set is the running collection of kernel instances an Executor dispatches
// code to, keyed by the programming/math language a node names (spec §4.10:
// "the engine owns ... a Kernels set"). One instance is started per
// language the document actually uses.
type Set struct {
	mu        sync.Mutex
	instances map[string]kernel.Instance
	order     []string
	router    *kernel.Router
}

// NewSet builds an empty Set. Variable requests a registered instance can't
// answer itself are routed to every registered instance in registration
// order (spec §4.11).
func NewSet() *Set {
	return &Set{instances: map[string]kernel.Instance{}}
}

// Register installs inst as the instance that serves language, wiring its
// variable channel through a Router over every instance registered so far
// (including inst itself, so it can be asked about later-registered peers).
func (s *Set) Register(ctx context.Context, language string, inst kernel.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.instances[language]; !exists {
		s.order = append(s.order, language)
	}
	s.instances[language] = inst

	responders := make([]kernel.Responder, 0, len(s.instances))
	for _, lang := range s.order {
		if r, ok := s.instances[lang].(kernel.Responder); ok {
			responders = append(responders, r)
		}
	}
	s.router = kernel.NewRouter(0, responders...)

	requester := make(chan kernel.VariableRequest)
	responder := make(chan kernel.VariableResponse)
	inst.SetVariableChannel(kernel.VariableChannel{Requester: requester, Responder: responder})
	go s.router.Serve(ctx, requester, responder)
}

// Get returns the instance registered for language, if any.
func (s *Set) Get(language string) (kernel.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[language]
	return inst, ok
}

// All returns every registered instance, for Interrupt/Kill fan-out.
func (s *Set) All() []kernel.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]kernel.Instance, 0, len(s.instances))
	for _, i := range s.instances {
		out = append(out, i)
	}
	return out
}

// Execute evaluates code against the instance registered for language,
// reporting a single Error-level message (rather than failing the whole
// phase) when no such kernel is registered, matching how a missing kernel
// surfaces through every other handler's ExecutionMessages.
func (s *Set) Execute(ctx context.Context, language, code string) ([]schema.Node, []schema.ExecutionMessage, error) {
	inst, ok := s.Get(language)
	if !ok {
		return nil, []schema.ExecutionMessage{{Level: "Error", Message: fmt.Sprintf("no kernel registered for language %q", language)}}, nil
	}
	return inst.Execute(ctx, code)
}

// Evaluate is Execute's single-value counterpart, used where a node needs
// one expression's value rather than a sequence of outputs (if-block
// conditions, for-block iterables).
func (s *Set) Evaluate(ctx context.Context, language, code string) (any, []schema.ExecutionMessage, error) {
	inst, ok := s.Get(language)
	if !ok {
		return nil, []schema.ExecutionMessage{{Level: "Error", Message: fmt.Sprintf("no kernel registered for language %q", language)}}, nil
	}
	return inst.Evaluate(ctx, code)
}
