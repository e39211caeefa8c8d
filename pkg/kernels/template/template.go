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

// Package template implements the template kernel kind (spec §4.9): a
// Jinja-style expression engine with a closed vocabulary of helpers and
// the DocsQL sub-query callables (pkg/docsql). Plain `{{ }}`/`{% %}`
// template text is rendered with pongo2, the Go ecosystem's Jinja2
// dialect; DocsQL's chained, keyword-argument call syntax is not
// something pongo2's template grammar expresses directly, so it is parsed
// by a small dedicated recursive-descent parser (parse.go) and evaluated
// against pkg/docsql's Subquery builder.
package template

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2"

	"github.com/stencila/engine/pkg/docsql"
	"github.com/stencila/engine/pkg/kernel"
	"github.com/stencila/engine/pkg/schema"
)

// Kernel is the kernel.Kernel factory for the template kind.
type Kernel struct{}

func (Kernel) Name() string                 { return "template" }
func (Kernel) Type() kernel.Type             { return kernel.TypeTemplate }
func (Kernel) Provider() kernel.Provider     { return kernel.ProviderBuiltin }
func (Kernel) SupportsLanguages() []string   { return []string{"jinja", "docsql"} }
func (Kernel) SupportsForks() bool           { return false }
func (Kernel) SupportsInterrupt() bool       { return false }
func (Kernel) SupportsTerminate() bool       { return true }
func (Kernel) SupportsKill() bool            { return true }
func (Kernel) SupportsVariableRequests() bool { return true }
func (Kernel) SupportedBounds() []schema.ExecutionBounds {
	return []schema.ExecutionBounds{schema.BoundsMain}
}

func (Kernel) CreateInstance(bounds schema.ExecutionBounds) (kernel.Instance, error) {
	return &instance{id: newInstanceID(), vars: map[string]any{}}, nil
}

var (
	instanceSeqMu sync.Mutex
	instanceSeq   int
)

func newInstanceID() string {
	instanceSeqMu.Lock()
	defer instanceSeqMu.Unlock()
	instanceSeq++
	return fmt.Sprintf("template-kernel-%d", instanceSeq)
}

type instance struct {
	mu   sync.Mutex
	id   string
	vars map[string]any
}

func (i *instance) ID() string { return i.id }

func (i *instance) Start(ctx context.Context, directory string) error { return nil }

func (i *instance) Info() kernel.SoftwareApplication {
	return kernel.SoftwareApplication{Name: "pongo2+docsql"}
}

func (i *instance) SetVariableChannel(ch kernel.VariableChannel) {}

// LookupVariable implements kernel.Responder so other kernels can resolve
// names this instance's Jinja context has bound.
func (i *instance) LookupVariable(name string) (kernel.VariableResponse, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	v, ok := i.vars[name]
	if !ok {
		return kernel.VariableResponse{}, false
	}
	if node, ok := v.(schema.Node); ok {
		return kernel.VariableResponse{Name: name, Value: node, Found: true}, true
	}
	return kernel.VariableResponse{}, false
}

func (i *instance) Execute(ctx context.Context, code string) ([]schema.Node, []schema.ExecutionMessage, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	trimmed := strings.TrimSpace(code)

	if strings.HasPrefix(trimmed, "_") {
		text, err := i.evaluateDocsQL(trimmed)
		if err != nil {
			return nil, []schema.ExecutionMessage{{Level: "Error", Message: err.Error()}}, nil
		}
		return []schema.Node{text}, nil, nil
	}

	rendered, err := i.renderTemplate(trimmed)
	if err != nil {
		return nil, []schema.ExecutionMessage{{Level: "Error", Message: err.Error()}}, nil
	}
	return []schema.Node{schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord(rendered)}}, nil, nil
}

func (i *instance) Evaluate(ctx context.Context, code string) (any, []schema.ExecutionMessage, error) {
	outputs, messages, err := i.Execute(ctx, code)
	if err != nil || len(messages) > 0 || len(outputs) == 0 {
		return nil, messages, err
	}
	return outputs[0], nil, nil
}

// evaluateDocsQL parses and evaluates a `_name(...).method(...)` chain and
// returns the generated Cypher fragment wrapped in a Text node (the form
// a CallBlock's source filter or a template's `{% if %}` condition
// consumes).
func (i *instance) evaluateDocsQL(code string) (schema.Text, error) {
	chain, err := parseDocsQL(code)
	if err != nil {
		return schema.Text{}, err
	}
	if len(chain) == 0 {
		return schema.Text{}, fmt.Errorf("template: empty docsql expression")
	}

	sq, err := docsql.New(chain[0].name)
	if err != nil {
		return schema.Text{}, err
	}

	var nested *docsql.Subquery
	if chain[0].nested != nil {
		nestedChain := []call{*chain[0].nested}
		nestedSq, err := evaluateChain(nestedChain)
		if err != nil {
			return schema.Text{}, err
		}
		nested = nestedSq
	}

	sq, err = sq.Call(nested, chain[0].kwargs)
	if err != nil {
		return schema.Text{}, err
	}

	for _, step := range chain[1:] {
		sq, err = sq.Method(step.name, step.kwargs)
		if err != nil {
			return schema.Text{}, err
		}
	}

	return schema.Text{
		Base:  schema.Base{ID: schema.NewID(schema.KindText)},
		Value: schema.NewCord(sq.Generate("d")),
	}, nil
}

func evaluateChain(chain []call) (*docsql.Subquery, error) {
	sq, err := docsql.New(chain[0].name)
	if err != nil {
		return nil, err
	}
	sq, err = sq.Call(nil, chain[0].kwargs)
	if err != nil {
		return nil, err
	}
	for _, step := range chain[1:] {
		sq, err = sq.Method(step.name, step.kwargs)
		if err != nil {
			return nil, err
		}
	}
	return sq, nil
}

// renderTemplate renders code as a pongo2 template against this instance's
// accumulated variables.
func (i *instance) renderTemplate(code string) (string, error) {
	tpl, err := pongo2.FromString(code)
	if err != nil {
		return "", fmt.Errorf("template: parse: %w", err)
	}
	out, err := tpl.Execute(pongo2.Context(i.vars))
	if err != nil {
		return "", fmt.Errorf("template: render: %w", err)
	}
	return out, nil
}

func (i *instance) Replicate(ctx context.Context, bounds schema.ExecutionBounds) (kernel.Instance, error) {
	return nil, fmt.Errorf("template: kernel does not support replication")
}

func (i *instance) Stop(ctx context.Context) error { return nil }

func (i *instance) Interrupt(ctx context.Context) error {
	return fmt.Errorf("template: kernel does not support interrupt")
}

func (i *instance) Kill() error { return nil }
