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

// preparePass runs the prepare phase (spec §4.10 step 2): every executable
// whose mode/digest comparison says it will run is marked Pending, so
// clients see the pending set before execution starts.
//
// If-block, for-block, chat and prompt-block containers are marked
// themselves but their content is not recursed into here: which of their
// children actually run depends on runtime conditions the execute phase
// decides (which if-clause is truthy, how many for-block iterations there
// are), so marking content Pending in advance would be a lie the execute
// phase would have to immediately retract.
func (e *Executor) preparePass(root *schema.Article) {
	root.Content = e.prepareBlocks(address.Empty().PushName("Content"), root.Content)
}

func (e *Executor) prepareBlocks(addr address.Address, blocks schema.Blocks) schema.Blocks {
	for i, child := range blocks {
		blocks[i] = e.prepareOne(addr.PushIndex(i), child)
	}
	return blocks
}

func (e *Executor) prepareOne(addr address.Address, n schema.Node) schema.Node {
	if e.included(n.NodeID()) {
		if _, ok := compileKey(n); ok {
			if exec, ok := getExecutable(n); ok {
				everExecuted := exec.ExecutionCount > 0
				required := requiredStatus(exec.ExecutionMode, exec.CompilationDigest, exec.ExecutionDigest, everExecuted)
				status := exec.ExecutionStatus
				if required != schema.ExecutionRequiredNo {
					status = schema.ExecutionStatusPending
				}
				if required != exec.ExecutionRequired || status != exec.ExecutionStatus {
					exec.ExecutionRequired = required
					exec.ExecutionStatus = status
					n = withExecutable(n, exec)
					e.send(addr, setOp("ExecutionRequired", required), setOp("ExecutionStatus", status))
				}
			}
		}
	}

	switch v := n.(type) {
	case schema.Paragraph:
		v.Content = e.prepareInlines(addr.PushName("Content"), v.Content)
		return v
	case schema.Heading:
		v.Content = e.prepareInlines(addr.PushName("Content"), v.Content)
		return v
	case schema.Section:
		v.Content = e.prepareBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.QuoteBlock:
		v.Content = e.prepareBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.StyledBlock:
		v.Content = e.prepareBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.Figure:
		v.Caption = e.prepareBlocks(addr.PushName("Caption"), v.Caption)
		v.Content = e.prepareBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.Excerpt:
		v.Content = e.prepareBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.List:
		itemsAddr := addr.PushName("Items")
		for i, item := range v.Items {
			item.Content = e.prepareBlocks(itemsAddr.PushIndex(i).PushName("Content"), item.Content)
			v.Items[i] = item
		}
		return v
	case schema.IncludeBlock:
		v.Content = e.prepareBlocks(addr.PushName("Content"), v.Content)
		return v
	case schema.CallBlock:
		v.Content = e.prepareBlocks(addr.PushName("Content"), v.Content)
		return v
	default:
		// IfBlock, ForBlock, Chat, PromptBlock: container marked above,
		// content left alone (see preparePass doc comment).
		return n
	}
}

func (e *Executor) prepareInlines(addr address.Address, inlines schema.Inlines) schema.Inlines {
	for i, child := range inlines {
		inlines[i] = e.prepareInlineOne(addr.PushIndex(i), child)
	}
	return inlines
}

func (e *Executor) prepareInlineOne(addr address.Address, n schema.Node) schema.Node {
	if e.included(n.NodeID()) {
		if _, ok := compileKey(n); ok {
			if exec, ok := getExecutable(n); ok {
				everExecuted := exec.ExecutionCount > 0
				required := requiredStatus(exec.ExecutionMode, exec.CompilationDigest, exec.ExecutionDigest, everExecuted)
				status := exec.ExecutionStatus
				if required != schema.ExecutionRequiredNo {
					status = schema.ExecutionStatusPending
				}
				if required != exec.ExecutionRequired || status != exec.ExecutionStatus {
					exec.ExecutionRequired = required
					exec.ExecutionStatus = status
					n = withExecutable(n, exec)
					e.send(addr, setOp("ExecutionRequired", required), setOp("ExecutionStatus", status))
				}
			}
		}
	}

	switch v := n.(type) {
	case schema.Emphasis:
		v.Content = e.prepareInlines(addr.PushName("Content"), v.Content)
		return v
	case schema.Strong:
		v.Content = e.prepareInlines(addr.PushName("Content"), v.Content)
		return v
	case schema.Link:
		v.Content = e.prepareInlines(addr.PushName("Content"), v.Content)
		return v
	default:
		return n
	}
}
