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
	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

// compilePass runs the compile phase (spec §4.10 step 1): every executable
// node gets a fresh CompilationDigest, without crossing into Chat or
// PromptBlock content — those get their own sub-Executor once the prompt
// they belong to is actually resolved and replicated, at execute time.
func (e *Executor) compilePass(root *schema.Article) {
	root.Content = e.compileBlocks(address.Empty().PushName("Content"), root.Content)
}

func (e *Executor) compileBlocks(addr address.Address, blocks schema.Blocks) schema.Blocks {
	for i, child := range blocks {
		blocks[i] = e.compileOne(addr.PushIndex(i), child)
	}
	return blocks
}

func (e *Executor) compileOne(addr address.Address, n schema.Node) schema.Node {
	if e.included(n.NodeID()) {
		if key, ok := compileKey(n); ok {
			if exec, ok := getExecutable(n); ok {
				digest := schema.ExecutionDigest{StateDigest: key}
				if depKey, ok := dependenciesKey(n); ok {
					digest.DependenciesDigest = depKey
				}
				if !digest.Equal(exec.CompilationDigest) {
					exec.CompilationDigest = digest
					n = withExecutable(n, exec)
					e.send(addr, setOp("CompilationDigest", digest))
				}
			}
		}
	}

	switch v := n.(type) {
	case schema.Paragraph:
		v.Content = e.compileInlines(addr.PushName("Content"), v.Content)
		return v
	case schema.Heading:
		v.Content = e.compileInlines(addr.PushName("Content"), v.Content)
		return v
	case schema.Section:
		v.Content = e.compileBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.QuoteBlock:
		v.Content = e.compileBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.StyledBlock:
		v.Content = e.compileBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.Figure:
		v.Caption = e.compileBlocks(addr.PushName("Caption"), v.Caption)
		v.Content = e.compileBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.Excerpt:
		v.Content = e.compileBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.List:
		itemsAddr := addr.PushName("Items")
		for i, item := range v.Items {
			item.Content = e.compileBlocks(itemsAddr.PushIndex(i).PushName("Content"), item.Content)
			v.Items[i] = item
		}
		return v
	case schema.IfBlock:
		clausesAddr := addr.PushName("Clauses")
		for i, clause := range v.Clauses {
			updated := e.compileOne(clausesAddr.PushIndex(i), clause)
			v.Clauses[i] = updated.(schema.IfBlockClause)
		}
		return v
	case schema.IfBlockClause:
		v.Content = e.compileBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.ForBlock:
		v.Content = e.compileBlocks(addr.PushName("Content"), v.Content)
		v.Otherwise = e.compileBlocks(addr.PushName("Otherwise"), v.Otherwise)
		return v
	case schema.IncludeBlock:
		v.Content = e.compileBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.CallBlock:
		v.Content = e.compileBlocks(addr.PushName("Content"), v.Content)
		return v
	default:
		return n
	}
}

func (e *Executor) compileInlines(addr address.Address, inlines schema.Inlines) schema.Inlines {
	for i, child := range inlines {
		inlines[i] = e.compileInlineOne(addr.PushIndex(i), child)
	}
	return inlines
}

func (e *Executor) compileInlineOne(addr address.Address, n schema.Node) schema.Node {
	if e.included(n.NodeID()) {
		if key, ok := compileKey(n); ok {
			if exec, ok := getExecutable(n); ok {
				digest := schema.ExecutionDigest{StateDigest: key}
				if depKey, ok := dependenciesKey(n); ok {
					digest.DependenciesDigest = depKey
				}
				if !digest.Equal(exec.CompilationDigest) {
					exec.CompilationDigest = digest
					n = withExecutable(n, exec)
					e.send(addr, setOp("CompilationDigest", digest))
				}
			}
		}
	}

	switch v := n.(type) {
	case schema.Emphasis:
		v.Content = e.compileInlines(addr.PushName("Content"), v.Content)
		return v
	case schema.Strong:
		v.Content = e.compileInlines(addr.PushName("Content"), v.Content)
		return v
	case schema.Link:
		v.Content = e.compileInlines(addr.PushName("Content"), v.Content)
		return v
	default:
		return n
	}
}
