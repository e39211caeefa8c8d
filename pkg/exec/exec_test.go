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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/kernel"
	"github.com/stencila/engine/pkg/schema"
)

// fakeInstance is a minimal kernel.Instance double: Execute/Evaluate return
// whatever was queued for the next call, in order, so tests can script a
// sequence of results without a real language runtime.
type fakeInstance struct {
	mu      sync.Mutex
	id      string
	results []fakeResult
	calls   []string

	forkErr     error
	interrupted bool
}

type fakeResult struct {
	value    any
	outputs  []schema.Node
	messages []schema.ExecutionMessage
	err      error
}

// textOutput builds the kind of single-output result a real kernel
// produces for a scalar expression: a Text node wrapping its string form.
func textOutput(s string) schema.Node {
	return schema.Text{Base: schema.Base{ID: schema.NewID(schema.KindText)}, Value: schema.NewCord(s)}
}

func newFakeInstance(id string, results ...fakeResult) *fakeInstance {
	return &fakeInstance{id: id, results: results}
}

func (f *fakeInstance) ID() string                                        { return f.id }
func (f *fakeInstance) Start(ctx context.Context, directory string) error { return nil }
func (f *fakeInstance) Info() kernel.SoftwareApplication                  { return kernel.SoftwareApplication{Name: "fake"} }
func (f *fakeInstance) SetVariableChannel(ch kernel.VariableChannel)      {}
func (f *fakeInstance) Stop(ctx context.Context) error                   { return nil }
func (f *fakeInstance) Kill() error                                       { return nil }

func (f *fakeInstance) Interrupt(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interrupted = true
	return nil
}

func (f *fakeInstance) Replicate(ctx context.Context, bounds schema.ExecutionBounds) (kernel.Instance, error) {
	if f.forkErr != nil {
		return nil, f.forkErr
	}
	return f, nil
}

func (f *fakeInstance) next(code string) (fakeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, code)
	if len(f.results) == 0 {
		return fakeResult{}, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r, r.err
}

func (f *fakeInstance) Execute(ctx context.Context, code string) ([]schema.Node, []schema.ExecutionMessage, error) {
	r, err := f.next(code)
	return r.outputs, r.messages, err
}

func (f *fakeInstance) Evaluate(ctx context.Context, code string) (any, []schema.ExecutionMessage, error) {
	r, err := f.next(code)
	return r.value, r.messages, err
}

func TestCodeChunkCompilePrepareExecute(t *testing.T) {
	output := textOutput("42")
	inst := newFakeInstance("py1", fakeResult{outputs: []schema.Node{output}})
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	chunk := schema.CodeChunk{
		Base:                schema.Base{ID: schema.NewID(schema.KindCodeChunk)},
		Code:                schema.NewCord("1 + 1"),
		ProgrammingLanguage: "python",
	}
	article := &schema.Article{
		Base:    schema.Base{ID: schema.NewID(schema.KindArticle)},
		Content: schema.Blocks{chunk},
	}

	e := New(set, nil, nil)
	e.Run(context.Background(), article)

	got := article.Content[0].(schema.CodeChunk)
	assert.Equal(t, schema.ExecutionStatusSucceeded, got.ExecutionStatus)
	assert.Equal(t, schema.ExecutionRequiredNo, got.ExecutionRequired)
	assert.Equal(t, 1, got.ExecutionCount)
	assert.Equal(t, []schema.Node{output}, got.Outputs)
	require.Len(t, inst.calls, 1)
	assert.Equal(t, "1 + 1", inst.calls[0])
}

func TestCodeChunkSkippedWhenModeSkip(t *testing.T) {
	inst := newFakeInstance("py1")
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	chunk := schema.CodeChunk{
		Base:                schema.Base{ID: schema.NewID(schema.KindCodeChunk)},
		Code:                schema.NewCord("1 + 1"),
		ProgrammingLanguage: "python",
		Executable:          schema.Executable{ExecutionMode: schema.ExecutionModeSkip},
	}
	article := &schema.Article{Content: schema.Blocks{chunk}}

	e := New(set, nil, nil)
	e.Run(context.Background(), article)

	got := article.Content[0].(schema.CodeChunk)
	assert.Equal(t, schema.ExecutionRequiredNo, got.ExecutionRequired)
	assert.Equal(t, 0, got.ExecutionCount)
	assert.Empty(t, inst.calls)
}

func TestCodeChunkWithNoCodeMarkedEmpty(t *testing.T) {
	inst := newFakeInstance("py1")
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	chunk := schema.CodeChunk{
		Base:                schema.Base{ID: schema.NewID(schema.KindCodeChunk)},
		Code:                schema.NewCord("   "),
		ProgrammingLanguage: "python",
	}
	article := &schema.Article{Content: schema.Blocks{chunk}}

	e := New(set, nil, nil)
	e.Run(context.Background(), article)

	got := article.Content[0].(schema.CodeChunk)
	assert.Equal(t, schema.ExecutionStatusEmpty, got.ExecutionStatus)
	assert.Equal(t, schema.ExecutionRequiredNo, got.ExecutionRequired)
	assert.Equal(t, 1, got.ExecutionCount)
	assert.Empty(t, got.Outputs)
	assert.Empty(t, inst.calls, "a kernel should never be invoked for blank code")
}

func TestCodeChunkErrorMessageFailsExecution(t *testing.T) {
	inst := newFakeInstance("py1", fakeResult{err: fmt.Errorf("boom")})
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	chunk := schema.CodeChunk{
		Base:                schema.Base{ID: schema.NewID(schema.KindCodeChunk)},
		Code:                schema.NewCord("raise"),
		ProgrammingLanguage: "python",
	}
	article := &schema.Article{Content: schema.Blocks{chunk}}

	e := New(set, nil, nil)
	e.Run(context.Background(), article)

	got := article.Content[0].(schema.CodeChunk)
	assert.Equal(t, schema.ExecutionStatusErrors, got.ExecutionStatus)
	assert.Equal(t, schema.ExecutionRequiredExecutionFailed, got.ExecutionRequired)
	require.Len(t, got.ExecutionMessages, 1)
	assert.Equal(t, "boom", got.ExecutionMessages[0].Message)
}

func TestExecuteTargetsSpecificNodeIDs(t *testing.T) {
	inst := newFakeInstance("py1", fakeResult{outputs: []schema.Node{textOutput("1")}})
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	wanted := schema.CodeChunk{
		Base:                schema.Base{ID: "wanted"},
		Code:                schema.NewCord("1"),
		ProgrammingLanguage: "python",
	}
	skipped := schema.CodeChunk{
		Base:                schema.Base{ID: "skipped"},
		Code:                schema.NewCord("2"),
		ProgrammingLanguage: "python",
	}
	article := &schema.Article{Content: schema.Blocks{wanted, skipped}}

	e := New(set, nil, []string{"wanted"})
	e.Run(context.Background(), article)

	got0 := article.Content[0].(schema.CodeChunk)
	got1 := article.Content[1].(schema.CodeChunk)
	assert.Equal(t, 1, got0.ExecutionCount)
	assert.Equal(t, 0, got1.ExecutionCount)
}

func TestInterruptCancelsRunningNode(t *testing.T) {
	inst := newFakeInstance("py1")
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	chunk := schema.CodeChunk{
		Base:                schema.Base{ID: schema.NewID(schema.KindCodeChunk)},
		Code:                schema.NewCord("1"),
		ProgrammingLanguage: "python",
		Executable:          schema.Executable{ExecutionStatus: schema.ExecutionStatusRunning},
	}
	article := &schema.Article{Content: schema.Blocks{chunk}}

	e := New(set, nil, nil)
	e.Interrupt(context.Background(), article)

	got := article.Content[0].(schema.CodeChunk)
	assert.Equal(t, schema.ExecutionStatusCancelled, got.ExecutionStatus)
	assert.True(t, inst.interrupted)
}

func TestInterruptLeavesNonRunningNodeAlone(t *testing.T) {
	inst := newFakeInstance("py1")
	set := NewSet()
	set.Register(context.Background(), "python", inst)

	chunk := schema.CodeChunk{
		Base:                schema.Base{ID: schema.NewID(schema.KindCodeChunk)},
		Code:                schema.NewCord("1"),
		ProgrammingLanguage: "python",
		Executable:          schema.Executable{ExecutionStatus: schema.ExecutionStatusSucceeded},
	}
	article := &schema.Article{Content: schema.Blocks{chunk}}

	e := New(set, nil, nil)
	e.Interrupt(context.Background(), article)

	got := article.Content[0].(schema.CodeChunk)
	assert.Equal(t, schema.ExecutionStatusSucceeded, got.ExecutionStatus)
	assert.False(t, inst.interrupted)
}
