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

package docstore

import (
	"fmt"

	"github.com/stencila/engine/pkg/cord"
	"github.com/stencila/engine/pkg/patch"
	"github.com/stencila/engine/pkg/schema"
)

// Merge reconciles main and fork, both descendants of base, into a single
// tree. It is not a general CRDT merge: it works by diffing each branch
// against base with patch.Diff, then combining the two resulting patches
// address by address.
//
//   - An address touched by only one branch keeps that branch's operation.
//   - An address touched by both branches with the same resulting value is
//     a no-op conflict; either side's operation is applied.
//   - A Cord field (spec §4.3) edited by both branches is reconciled with
//     cord.Merge against its base text, so both sides' edits survive
//     wherever they don't overlap.
//   - An address where the two operations are not both Sets resolves to a
//     Remove when either branch removed it, and to fork's operation
//     otherwise.
//   - Any other field edited differently by both branches is resolved in
//     favor of fork: fork is the branch being merged in, so it is treated
//     as the more recent intent.
func Merge(base, main, fork schema.Node) (schema.Node, error) {
	mainOps := patch.Diff(base, main)
	forkOps := patch.Diff(base, fork)

	forkByAddr := map[string]patch.Operation{}
	for _, op := range forkOps {
		forkByAddr[op.Address.String()] = op
	}

	merged := make(patch.Patch, 0, len(mainOps)+len(forkOps))
	handled := map[string]bool{}

	for _, mainOp := range mainOps {
		key := mainOp.Address.String()
		handled[key] = true
		forkOp, conflicted := forkByAddr[key]
		if !conflicted {
			merged = append(merged, mainOp)
			continue
		}
		resolved, err := resolve(base, mainOp, forkOp)
		if err != nil {
			return nil, fmt.Errorf("docstore: merge conflict at %q: %w", key, err)
		}
		merged = append(merged, resolved)
	}
	for _, forkOp := range forkOps {
		if !handled[forkOp.Address.String()] {
			merged = append(merged, forkOp)
		}
	}

	result, err := patch.Apply(base, merged)
	if err != nil {
		return nil, fmt.Errorf("docstore: apply merged patch: %w", err)
	}
	return result.(schema.Node), nil
}

// resolve decides the single operation a conflicting address produces.
func resolve(base schema.Node, mainOp, forkOp patch.Operation) (patch.Operation, error) {
	if mainOp.Type != patch.OpSet || forkOp.Type != patch.OpSet {
		// A Remove racing a Set/Add means the node is gone in one branch;
		// treat that as authoritative rather than trying to resurrect it.
		if mainOp.Type == patch.OpRemove || forkOp.Type == patch.OpRemove {
			return patch.Operation{Type: patch.OpRemove, Address: mainOp.Address}, nil
		}
		return forkOp, nil
	}

	mainCord, mainIsCord := mainOp.Value.(schema.Cord)
	forkCord, forkIsCord := forkOp.Value.(schema.Cord)
	if !mainIsCord || !forkIsCord {
		return forkOp, nil
	}

	baseVal, err := patch.ValueAt(base, mainOp.Address)
	if err != nil {
		return patch.Operation{}, err
	}
	baseCord, _ := baseVal.(schema.Cord)

	mergedText := cord.Merge(baseCord.String(), mainCord.String(), forkCord.String())
	return patch.Operation{Type: patch.OpSet, Address: mainOp.Address, Value: schema.NewCord(mergedText)}, nil
}
