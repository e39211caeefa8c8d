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
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/stencila/engine/pkg/kernels/programming"
	"github.com/stencila/engine/pkg/schema"
)

// contentDigest hashes an executable node's own code/content: the parts are
// joined with NUL separators, hashed with sha256 and hex-encoded.
func contentDigest(parts ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

// requiredStatus decides execution_required for a node given its mode, its
// freshly computed compilation digest, and the digest recorded the last
// time it actually ran (spec §6.3).
func requiredStatus(mode schema.ExecutionMode, compilation, lastExecution schema.ExecutionDigest, everExecuted bool) schema.ExecutionRequired {
	switch mode {
	case schema.ExecutionModeSkip, schema.ExecutionModeLock:
		return schema.ExecutionRequiredNo
	case schema.ExecutionModeAlways:
		return schema.ExecutionRequiredSemanticsChanged
	default:
		if !everExecuted {
			return schema.ExecutionRequiredNeverExecuted
		}
		if !compilation.Equal(lastExecution) {
			return schema.ExecutionRequiredSemanticsChanged
		}
		return schema.ExecutionRequiredNo
	}
}

// statusFromMessages derives an ExecutionStatus from the messages an
// evaluation produced: any Error-level message fails the node, any
// Warning-level message (with no errors) leaves it merely noted, and no
// messages at all means it ran clean.
func statusFromMessages(messages []schema.ExecutionMessage) schema.ExecutionStatus {
	warned := false
	for _, m := range messages {
		switch m.Level {
		case "Error", "Exception":
			return schema.ExecutionStatusErrors
		case "Warning":
			warned = true
		}
	}
	if warned {
		return schema.ExecutionStatusWarnings
	}
	return schema.ExecutionStatusSucceeded
}

// compileKey extracts the text an executable node's compilation digest is
// computed from: code and language for code-bearing nodes, the defining
// reference (target, source, prompt id) for nodes without their own code.
func compileKey(n schema.Node) (key string, ok bool) {
	switch v := n.(type) {
	case schema.CodeChunk:
		return contentDigest(v.Code.String(), v.ProgrammingLanguage), true
	case schema.MathBlock:
		return contentDigest(v.Code.String(), v.MathLanguage), true
	case schema.CodeExpression:
		return contentDigest(v.Code.String(), v.ProgrammingLanguage), true
	case schema.MathInline:
		return contentDigest(v.Code.String(), v.MathLanguage), true
	case schema.ForBlock:
		return contentDigest(v.Code.String(), v.Variable, v.ProgrammingLanguage), true
	case schema.IfBlock:
		parts := make([]string, len(v.Clauses))
		for i, c := range v.Clauses {
			parts[i] = c.Code.String()
		}
		return contentDigest(parts...), true
	case schema.Chat:
		return contentDigest(v.PromptID), true
	case schema.PromptBlock:
		return contentDigest(v.Target), true
	case schema.IncludeBlock:
		return contentDigest(v.Source, v.Select), true
	case schema.CallBlock:
		parts := make([]string, 0, len(v.Arguments)+1)
		parts = append(parts, v.Source)
		for _, a := range v.Arguments {
			parts = append(parts, a.Name, a.Code.String())
		}
		return contentDigest(parts...), true
	default:
		return "", false
	}
}

// dependenciesKey extracts the identifiers a code-bearing node reads, so
// its execution digest changes when an upstream variable's value changes
// even though the node's own source text (compileKey's input) didn't.
// Only nodes with a programming language are covered: math and template
// nodes have no notion of variable reference tracking here.
func dependenciesKey(n schema.Node) (key string, ok bool) {
	switch v := n.(type) {
	case schema.CodeChunk:
		return referencesDigest(v.ProgrammingLanguage, v.Code.String()), true
	case schema.CodeExpression:
		return referencesDigest(v.ProgrammingLanguage, v.Code.String()), true
	case schema.ForBlock:
		return referencesDigest(v.ProgrammingLanguage, v.Code.String()), true
	default:
		return "", false
	}
}

func referencesDigest(language, code string) string {
	return contentDigest(programming.ExtractReferences(language, code)...)
}

// truthy implements spec §4.10's If-block truthiness rules.
func truthy(n any) bool {
	switch v := n.(type) {
	case nil:
		return false
	case schema.Null:
		return false
	case schema.Boolean:
		return bool(v)
	case schema.Integer:
		return v > 0
	case schema.UnsignedInteger:
		return v > 0
	case schema.Number:
		return v > 0
	case schema.String:
		return v != ""
	case schema.Text:
		return v.Value.String() != ""
	case schema.Array:
		return len(v) > 0
	case schema.Object:
		return len(v) > 0
	default:
		return true
	}
}
