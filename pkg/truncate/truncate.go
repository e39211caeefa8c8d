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

// Package truncate shapes tool/command output before it is handed to a
// kernel or model context (spec §4.12). Every external tool result is
// truncated by a per-tool policy — char limit, mode, optional line limit —
// looked up by tool name, with session overrides and a generous fallback.
// The full untruncated output remains available wherever the engine logs
// execution messages; this package only shapes what gets embedded inline.
package truncate

import (
	"strconv"
	"strings"
)

// Mode selects which part of an over-limit output is kept.
type Mode int

const (
	// HeadTail keeps the beginning and end, removing the middle.
	HeadTail Mode = iota
	// Tail keeps only the end, removing the beginning.
	Tail
)

// Policy is the truncation policy for a single tool: a character limit, a
// mode, and an optional line limit applied as a second pass.
type Policy struct {
	MaxChars int
	Mode     Mode
	// MaxLines is nil when no line limit applies.
	MaxLines *int
}

func intPtr(n int) *int { return &n }

// DefaultPolicies is the built-in per-tool policy table (spec §4.12/§5.2-5.3
// combined). One entry per tool: adding or changing a tool only touches one
// place here.
var DefaultPolicies = map[string]Policy{
	"read_file":   {MaxChars: 50_000, Mode: HeadTail, MaxLines: nil},
	"shell":       {MaxChars: 30_000, Mode: HeadTail, MaxLines: intPtr(256)},
	"grep":        {MaxChars: 20_000, Mode: Tail, MaxLines: intPtr(200)},
	"glob":        {MaxChars: 20_000, Mode: Tail, MaxLines: intPtr(500)},
	"edit_file":   {MaxChars: 10_000, Mode: Tail, MaxLines: nil},
	"apply_patch": {MaxChars: 10_000, Mode: Tail, MaxLines: nil},
	"write_file":  {MaxChars: 1_000, Mode: Tail, MaxLines: nil},
	"spawn_agent": {MaxChars: 20_000, Mode: HeadTail, MaxLines: nil},
}

// FallbackPolicy applies to any tool name absent from DefaultPolicies.
var FallbackPolicy = Policy{MaxChars: 30_000, Mode: HeadTail, MaxLines: nil}

// Config carries per-session overrides for tool output limits. A nil or
// zero-value Config means "use the defaults in DefaultPolicies".
type Config struct {
	ToolOutputLimits map[string]int
	ToolLineLimits   map[string]int
}

// Output truncates s to at most maxChars Unicode scalar values (runes, not
// bytes) using mode. Returns s unchanged when it is already within the
// limit. A maxChars of 0 returns only the warning marker.
func Output(s string, maxChars int, mode Mode) string {
	runes := []rune(s)
	count := len(runes)
	if count <= maxChars {
		return s
	}
	removed := count - maxChars

	switch mode {
	case Tail:
		tail := string(runes[removed:])
		return "[WARNING: Tool output was truncated. First " +
			strconv.Itoa(removed) +
			" characters were removed. The full output is available in the event stream.]\n\n" +
			tail
	default: // HeadTail
		tailHalf := maxChars / 2
		headHalf := maxChars - tailHalf
		head := string(runes[:headHalf])
		tail := string(runes[count-tailHalf:])
		return head +
			"\n\n[WARNING: Tool output was truncated. " +
			strconv.Itoa(removed) +
			" characters were removed from the middle. The full output is available in the event stream. If you need to see specific parts, re-run the tool with more targeted parameters.]\n\n" +
			tail
	}
}

// Lines truncates s to at most maxLines lines using a head/tail split, with
// an omission marker naming how many lines were dropped. Returns s unchanged
// when it is already within the limit. A maxLines of 0 returns only the
// marker.
func Lines(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	headCount := maxLines / 2
	tailCount := maxLines - headCount
	omitted := len(lines) - headCount - tailCount

	head := strings.Join(lines[:headCount], "\n")
	tail := strings.Join(lines[len(lines)-tailCount:], "\n")

	return head + "\n[... " + strconv.Itoa(omitted) + " lines omitted ...]\n" + tail
}

// ToolOutput applies the full two-stage pipeline for tool's output: char
// truncation first, then line truncation if a line limit applies. config
// overrides take precedence over DefaultPolicies; an unrecognized tool name
// falls back to FallbackPolicy.
func ToolOutput(output, tool string, config Config) string {
	policy, ok := DefaultPolicies[tool]
	if !ok {
		policy = FallbackPolicy
	}

	maxChars := policy.MaxChars
	if n, ok := config.ToolOutputLimits[tool]; ok {
		maxChars = n
	}
	result := Output(output, maxChars, policy.Mode)

	maxLines := policy.MaxLines
	if n, ok := config.ToolLineLimits[tool]; ok {
		maxLines = intPtr(n)
	}
	if maxLines == nil {
		return result
	}
	return Lines(result, *maxLines)
}

