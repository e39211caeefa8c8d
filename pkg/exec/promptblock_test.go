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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

func TestExecutePromptBlockRunsContentAgainstItsOwnTarget(t *testing.T) {
	chunk := schema.CodeChunk{
		Base:                schema.Base{ID: schema.NewID(schema.KindCodeChunk)},
		Code:                schema.NewCord("instruction"),
		ProgrammingLanguage: "javascript",
	}
	block := schema.PromptBlock{
		Base:    schema.Base{ID: schema.NewID(schema.KindPromptBlock)},
		Target:  "summarize this section",
		Content: schema.Blocks{chunk},
	}

	e := New(NewSet(), nil, nil)
	got := e.executePromptBlock(context.Background(), address.Empty(), block)

	assert.Equal(t, schema.ExecutionStatusSucceeded, got.ExecutionStatus)
	require.Len(t, got.Content, 1)
	ran := got.Content[0].(schema.CodeChunk)
	assert.Equal(t, schema.ExecutionStatusSucceeded, ran.ExecutionStatus)
	require.Len(t, ran.Outputs, 1)
	assert.Equal(t, "summarize this section", ran.Outputs[0].(schema.Text).Value.String())
}

func TestExecutePromptBlockAlwaysRunsRegardlessOfExecutionRequired(t *testing.T) {
	block := schema.PromptBlock{
		Target:     "anything",
		Executable: schema.Executable{ExecutionRequired: schema.ExecutionRequiredNo},
	}

	e := New(NewSet(), nil, nil)
	got := e.executePromptBlock(context.Background(), address.Empty(), block)

	assert.Equal(t, schema.ExecutionStatusSucceeded, got.ExecutionStatus)
	assert.Equal(t, 1, got.ExecutionCount)
}
