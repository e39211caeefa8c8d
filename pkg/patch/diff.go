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

package patch

import (
	"reflect"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

var cordType = reflect.TypeOf(schema.Cord{})

// Diff computes the Patch that transforms old into new. Both must be the
// same concrete type. Struct fields are compared by name. Slices of nodes
// are matched by id: unmatched old nodes are Removed, unmatched new nodes
// are Added and matched pairs are diffed in place; when matched nodes change
// relative order the whole slice is replaced with one Set, and no Move
// operations are produced. Slices of non-node values are compared by value
// and replaced with one Set when they differ. A changed Cord field is
// replaced with one Set of its new text; no character-level diff is made.
func Diff(old, new any) Patch {
	var p Patch
	diffValue(address.Empty(), reflect.ValueOf(old), reflect.ValueOf(new), &p)
	return p
}

func diffValue(addr address.Address, oldV, newV reflect.Value, p *Patch) {
	for oldV.Kind() == reflect.Pointer || oldV.Kind() == reflect.Interface {
		if oldV.IsNil() {
			oldV = reflect.Value{}
			break
		}
		oldV = oldV.Elem()
	}
	for newV.Kind() == reflect.Pointer || newV.Kind() == reflect.Interface {
		if newV.IsNil() {
			newV = reflect.Value{}
			break
		}
		newV = newV.Elem()
	}

	if !oldV.IsValid() && !newV.IsValid() {
		return
	}
	if !oldV.IsValid() || !newV.IsValid() || oldV.Type() != newV.Type() {
		if newV.IsValid() {
			*p = append(*p, Operation{Type: OpReplace, Address: addr.Clone(), Value: newV.Interface()})
		} else {
			*p = append(*p, Operation{Type: OpRemove, Address: addr.Clone()})
		}
		return
	}

	switch oldV.Kind() {
	case reflect.Struct:
		if isCord(oldV.Type()) {
			diffCord(addr, oldV, newV, p)
			return
		}
		for _, f := range schema.VisibleFields(oldV.Type()) {
			diffValue(addr.PushName(f.Name), oldV.FieldByIndex(f.Index), newV.FieldByIndex(f.Index), p)
		}
	case reflect.Slice:
		diffSlice(addr, oldV, newV, p)
	default:
		if !reflect.DeepEqual(oldV.Interface(), newV.Interface()) {
			*p = append(*p, Operation{Type: OpSet, Address: addr.Clone(), Value: newV.Interface()})
		}
	}
}

func isCord(t reflect.Type) bool {
	return t == cordType
}

// diffCord emits a Set carrying the new text. The character-level merge
// machinery in pkg/cord is exercised when two Patches built this way are
// reconciled against a shared base (see pkg/sync), not at diff time.
func diffCord(addr address.Address, oldV, newV reflect.Value, p *Patch) {
	oldCord := oldV.Interface().(schema.Cord)
	newCord := newV.Interface().(schema.Cord)
	if oldCord.String() == newCord.String() {
		return
	}
	*p = append(*p, Operation{Type: OpSet, Address: addr.Clone(), Value: newCord})
}

// nodeID extracts an id from v if it (or the value it holds) implements
// NodeID() string.
func nodeID(v reflect.Value) (string, bool) {
	if !v.IsValid() {
		return "", false
	}
	if idder, ok := v.Interface().(interface{ NodeID() string }); ok {
		return idder.NodeID(), true
	}
	return "", false
}

// diffSlice aligns old and new by node id where possible, emitting
// Remove/Add operations, then recurses into matched pairs to diff their
// contents. A change in the relative order of matched nodes is emitted as
// one Set of the whole new slice instead.
func diffSlice(addr address.Address, oldV, newV reflect.Value, p *Patch) {
	oldIDs := make([]string, oldV.Len())
	newIDs := make([]string, newV.Len())
	keyed := true
	for i := 0; i < oldV.Len(); i++ {
		id, ok := nodeID(oldV.Index(i))
		if !ok {
			keyed = false
			break
		}
		oldIDs[i] = id
	}
	if keyed {
		for i := 0; i < newV.Len(); i++ {
			id, ok := nodeID(newV.Index(i))
			if !ok {
				keyed = false
				break
			}
			newIDs[i] = id
		}
	}

	if !keyed {
		diffSlicePositional(addr, oldV, newV, p)
		return
	}

	oldPos := map[string]int{}
	for i, id := range oldIDs {
		oldPos[id] = i
	}
	newPos := map[string]int{}
	for i, id := range newIDs {
		newPos[id] = i
	}

	// Matched nodes out of their old relative order can't be expressed by
	// the Remove/Add script below, so the whole slice is replaced instead.
	prev := -1
	for _, id := range newIDs {
		if oi, ok := oldPos[id]; ok {
			if oi < prev {
				*p = append(*p, Operation{Type: OpSet, Address: addr.Clone(), Value: newV.Interface()})
				return
			}
			prev = oi
		}
	}

	// Removals: ids present in old but absent from new, highest index first
	// so earlier removals don't shift later indices out from under us.
	for i := len(oldIDs) - 1; i >= 0; i-- {
		if _, ok := newPos[oldIDs[i]]; !ok {
			*p = append(*p, Operation{Type: OpRemove, Address: addr.PushIndex(i)})
		}
	}

	// Additions: ids present in new but absent from old.
	for i, id := range newIDs {
		if _, ok := oldPos[id]; !ok {
			*p = append(*p, Operation{Type: OpAdd, Address: addr.PushIndex(i), Value: newV.Index(i).Interface()})
		}
	}

	// Matched pairs: diff contents at their new position.
	for i, id := range newIDs {
		if oi, ok := oldPos[id]; ok {
			diffValue(addr.PushIndex(i), oldV.Index(oi), newV.Index(i), p)
		}
	}
}

// diffSlicePositional handles slices whose elements don't carry a node id
// (e.g. []string, []int). These are small, unordered-content lists in
// practice (authors, enum values), so a value-equality check followed by a
// wholesale replace is simpler than an LCS script and just as cheap to
// apply.
func diffSlicePositional(addr address.Address, oldV, newV reflect.Value, p *Patch) {
	if oldV.Len() == newV.Len() {
		equal := true
		for i := 0; i < oldV.Len(); i++ {
			if !reflect.DeepEqual(oldV.Index(i).Interface(), newV.Index(i).Interface()) {
				equal = false
				break
			}
		}
		if equal {
			return
		}
	}
	*p = append(*p, Operation{Type: OpSet, Address: addr.Clone(), Value: newV.Interface()})
}
