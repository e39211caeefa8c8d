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
	"context"
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

// languageGrammar resolves a code chunk's declared language to a
// Tree-sitter grammar. Languages without a grammar here (R, Bash, and
// anything kernel-provided rather than builtin) fall back to a
// conservative identifier scan in ExtractReferences.
func languageGrammar(language string) *sitter.Language {
	switch language {
	case "go", "golang":
		return golang.GetLanguage()
	case "python", "py":
		return python.GetLanguage()
	case "javascript", "js":
		return javascript.GetLanguage()
	default:
		return nil
	}
}

var parserPool sync.Map // language string -> *sync.Pool of *sitter.Parser

func parserFor(language string, grammar *sitter.Language) *sitter.Parser {
	poolAny, _ := parserPool.LoadOrStore(language, &sync.Pool{
		New: func() any {
			p := sitter.NewParser()
			p.SetLanguage(grammar)
			return p
		},
	})
	return poolAny.(*sync.Pool).Get().(*sitter.Parser)
}

func releaseParser(language string, p *sitter.Parser) {
	if poolAny, ok := parserPool.Load(language); ok {
		poolAny.(*sync.Pool).Put(p)
	}
}

// ExtractReferences returns the distinct identifiers a code chunk or
// expression reads, sorted. The execution engine folds this list
// into a node's dependencies digest (pkg/exec's compilation phase) so a
// chunk re-runs when an upstream variable it references changes, even if
// its own source text didn't.
//
// Languages without a Tree-sitter grammar registered here fall back to a
// plain identifier scan, which over-reports (it can't tell a variable read
// from a keyword or a field name) but never under-reports.
func ExtractReferences(language, code string) []string {
	grammar := languageGrammar(language)
	if grammar == nil {
		return scanIdentifiers(code)
	}

	parser := parserFor(language, grammar)
	defer releaseParser(language, parser)

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(code))
	if err != nil {
		return scanIdentifiers(code)
	}
	defer tree.Close()

	src := []byte(code)
	seen := make(map[string]bool)
	var refs []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "identifier" {
			name := string(src[n.StartByte():n.EndByte()])
			if !seen[name] {
				seen[name] = true
				refs = append(refs, name)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())

	sort.Strings(refs)
	return refs
}

// HasSyntaxErrors reports whether code fails to parse cleanly under its
// language's Tree-sitter grammar. Used by the Markdown and LaTeX codecs to
// flag fenced code blocks that won't actually run, and returns false for
// languages without a registered grammar (nothing to check).
func HasSyntaxErrors(language, code string) bool {
	grammar := languageGrammar(language)
	if grammar == nil {
		return false
	}

	parser := parserFor(language, grammar)
	defer releaseParser(language, parser)

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(code))
	if err != nil {
		return true
	}
	defer tree.Close()

	return tree.RootNode().HasError()
}

// scanIdentifiers is the grammar-less fallback: a conservative textual
// scan for identifier-shaped tokens, used for languages with no Tree-sitter
// grammar wired in (R, Bash, kernel-provided languages).
func scanIdentifiers(code string) []string {
	seen := make(map[string]bool)
	var refs []string
	var cur []rune
	flush := func() {
		if len(cur) == 0 {
			return
		}
		name := string(cur)
		cur = cur[:0]
		if !seen[name] {
			seen[name] = true
			refs = append(refs, name)
		}
	}
	for _, r := range code {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			cur = append(cur, r)
		case r >= '0' && r <= '9' && len(cur) > 0:
			cur = append(cur, r)
		default:
			flush()
		}
	}
	flush()
	sort.Strings(refs)
	return refs
}
