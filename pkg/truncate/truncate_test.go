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

package truncate

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputWithinLimitIsUnchanged(t *testing.T) {
	assert.Equal(t, "hello", Output("hello", 10, HeadTail))
	assert.Equal(t, "hello", Output("hello", 5, Tail))
}

func TestOutputHeadTailSplitsEvenly(t *testing.T) {
	s := strings.Repeat("a", 30_000) + strings.Repeat("b", 30_000)
	got := Output(s, 30_000, HeadTail)

	assert.True(t, strings.HasPrefix(got, strings.Repeat("a", 15_000)))
	assert.True(t, strings.HasSuffix(got, strings.Repeat("b", 15_000)))
	assert.Contains(t, got, "30000 characters were removed from the middle")
}

func TestOutputTailKeepsOnlyEnd(t *testing.T) {
	s := strings.Repeat("x", 100)
	got := Output(s, 40, Tail)

	assert.True(t, strings.HasSuffix(got, strings.Repeat("x", 40)))
	assert.Contains(t, got, "First 60 characters were removed")
}

func TestOutputZeroMaxCharsReturnsOnlyMarker(t *testing.T) {
	got := Output("abcdef", 0, HeadTail)
	assert.Contains(t, got, "WARNING")
	assert.False(t, strings.Contains(got, "abcdef"))
}

func TestOutputCountsRunesNotBytes(t *testing.T) {
	s := strings.Repeat("😀", 10)
	assert.Equal(t, s, Output(s, 10, HeadTail))
	got := Output(s, 4, HeadTail)
	assert.Contains(t, got, "6 characters were removed")
}

func TestLinesWithinLimitIsUnchanged(t *testing.T) {
	s := "a\nb\nc"
	assert.Equal(t, s, Lines(s, 5))
}

func TestLinesHeadTailOmitsMiddle(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, "line"+strconv.Itoa(i))
	}
	got := Lines(strings.Join(lines, "\n"), 4)

	assert.True(t, strings.HasPrefix(got, "line0\nline1"))
	assert.Contains(t, got, "6 lines omitted")
	assert.True(t, strings.HasSuffix(got, "line8\nline9"))
}

func TestToolOutputRunsCharThenLinePass(t *testing.T) {
	lines := make([]string, 400)
	for i := range lines {
		lines[i] = "line"
	}
	output := strings.Join(lines, "\n")

	got := ToolOutput(output, "shell", Config{})

	assert.Contains(t, got, "lines omitted")
}

func TestToolOutputUnknownToolUsesFallback(t *testing.T) {
	s := strings.Repeat("z", 40_000)
	got := ToolOutput(s, "some_future_tool", Config{})

	assert.Contains(t, got, "10000 characters were removed from the middle")
}

func TestToolOutputHonorsSessionOverrides(t *testing.T) {
	s := strings.Repeat("z", 100)
	cfg := Config{ToolOutputLimits: map[string]int{"write_file": 100}}

	got := ToolOutput(s, "write_file", cfg)
	assert.Equal(t, s, got)
}

func TestToolOutputLineOverrideAppliesEvenWithoutDefaultLineLimit(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "l"
	}
	output := strings.Join(lines, "\n")
	cfg := Config{ToolLineLimits: map[string]int{"edit_file": 4}}

	got := ToolOutput(output, "edit_file", cfg)
	assert.Contains(t, got, "16 lines omitted")
}

func TestDefaultPoliciesCoverDocumentedTools(t *testing.T) {
	for _, tool := range []string{
		"read_file", "shell", "grep", "glob",
		"edit_file", "apply_patch", "write_file", "spawn_agent",
	} {
		_, ok := DefaultPolicies[tool]
		require.True(t, ok, "missing policy for %s", tool)
	}
}
