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
	"time"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

// executeIfBlock evaluates each clause's code in order, stopping at the
// first truthy one and executing only its content (spec §4.10: "first
// truthy is_active = true, the rest false"). A clause with empty code that
// is also the last clause is treated as an unconditional else branch; an
// empty, non-last clause is simply skipped. Every clause that is actually
// evaluated (or taken as the else branch) gets its own is_active flag and
// execution_status patched before the block's own status is rolled up from
// the combined message stream of every clause that ran.
func (e *Executor) executeIfBlock(ctx context.Context, addr address.Address, v schema.IfBlock) schema.IfBlock {
	if !shouldRun(v.Executable) {
		return v
	}

	var started time.Time
	v.Executable, started = e.beginRun(addr, v.Executable)

	clausesAddr := addr.PushName("Clauses")
	var messages []schema.ExecutionMessage

	wasLast := e.isLast
	for i := range v.Clauses {
		clause := v.Clauses[i]
		clauseAddr := clausesAddr.PushIndex(i)
		isLastClause := i == len(v.Clauses)-1
		active := false
		var status schema.ExecutionStatus

		code := clause.Code.String()
		switch {
		case code != "":
			output, clauseMessages, err := e.Kernels.Evaluate(ctx, clause.ProgrammingLanguage, code)
			if err != nil {
				clauseMessages = append(clauseMessages, schema.ExecutionMessage{Level: "Error", Message: err.Error()})
			}
			active = truthy(output)
			status = statusFromMessages(clauseMessages)
			messages = append(messages, clauseMessages...)
		case isLastClause:
			active = true
			status = schema.ExecutionStatusEmpty
		}

		clause.IsActive = active
		if status != "" {
			clause.ExecutionStatus = status
			e.send(clauseAddr, setOp("IsActive", active), setOp("ExecutionStatus", status))
		} else {
			e.send(clauseAddr, setOp("IsActive", active))
		}

		if active {
			e.isLast = wasLast && isLastClause
			clause.Content = e.executeBlocks(ctx, clauseAddr.PushName("Content"), clause.Content)
			e.isLast = wasLast
			v.Clauses[i] = clause
			break
		}
		v.Clauses[i] = clause
	}

	v.Executable = e.finishRun(addr, v.Executable, started, messages)
	return v
}
