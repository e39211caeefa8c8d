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

package programming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReferencesGo(t *testing.T) {
	refs := ExtractReferences("go", `fmt.Println(x + y)`)
	assert.Contains(t, refs, "x")
	assert.Contains(t, refs, "y")
	assert.Contains(t, refs, "fmt")
}

func TestExtractReferencesPython(t *testing.T) {
	refs := ExtractReferences("python", `print(a + b)`)
	assert.Contains(t, refs, "a")
	assert.Contains(t, refs, "b")
}

func TestExtractReferencesUnknownLanguageFallsBack(t *testing.T) {
	refs := ExtractReferences("r", `print(x + y)`)
	assert.Contains(t, refs, "x")
	assert.Contains(t, refs, "y")
	assert.Contains(t, refs, "print")
}

func TestExtractReferencesDeduplicatesAndSorts(t *testing.T) {
	refs := ExtractReferences("go", `z := x + x + y`)
	count := 0
	for _, r := range refs {
		if r == "x" {
			count++
		}
	}
	assert.Equal(t, 1, count, "x should appear once despite two reads")
}

func TestHasSyntaxErrorsGo(t *testing.T) {
	assert.False(t, HasSyntaxErrors("go", `x := 1 + 1`))
	assert.True(t, HasSyntaxErrors("go", `x := (1 + `))
}

func TestHasSyntaxErrorsUnknownLanguage(t *testing.T) {
	// No grammar registered, nothing to validate.
	assert.False(t, HasSyntaxErrors("bash", `echo "$(("`))
}
