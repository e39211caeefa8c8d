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
	"fmt"
	"reflect"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/schema"
)

// Apply applies patch to root in order and returns the resulting tree. A
// node root is deep-copied with schema.Replicate first, so it is never
// mutated and callers can keep using their original value; any other root
// is copied shallowly, so maps and slices it shares with the caller can be
// modified.
func Apply(root any, p Patch) (any, error) {
	if n, ok := root.(schema.Node); ok && reflect.ValueOf(root).Kind() == reflect.Struct {
		root = schema.Replicate(n)
	}
	orig := reflect.ValueOf(root)
	ptr := reflect.New(orig.Type())
	ptr.Elem().Set(orig)

	for i, op := range p {
		if err := applyOne(ptr.Elem(), op); err != nil {
			return nil, fmt.Errorf("patch: operation %d (%s %s): %w", i, op.Type, op.Address, err)
		}
	}
	return ptr.Elem().Interface(), nil
}

func applyOne(rootVal reflect.Value, op Operation) error {
	switch op.Type {
	case OpNone:
		return nil
	case OpAdd:
		return applyAdd(rootVal, op)
	case OpPush:
		return applyPush(rootVal, op.Address, op.Value)
	case OpAppend:
		return applyAppend(rootVal, op.Address, op.Values, false)
	case OpPrepend:
		return applyAppend(rootVal, op.Address, op.Values, true)
	case OpRemove:
		return applyRemove(rootVal, op.Address)
	case OpReplace, OpSet:
		return applySet(rootVal, op.Address, op.Value)
	case OpMove:
		return applyMove(rootVal, op.Address, op.To)
	case OpTransform:
		return fmt.Errorf("transform operations require a schema-specific constructor; not supported generically")
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
}

// ValueAt returns the value addressed by addr within root, the same way
// Apply locates an operation's target. It's used by three-way merge to read
// a field's pre-image from a shared base before deciding how to reconcile
// two diverging edits to it.
func ValueAt(root any, addr address.Address) (any, error) {
	v, err := container(reflect.ValueOf(root), addr)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

func container(rootVal reflect.Value, addr address.Address) (reflect.Value, error) {
	v := rootVal
	for _, slot := range addr {
		next, err := step(v, slot)
		if err != nil {
			return reflect.Value{}, err
		}
		v = next
		for v.Kind() == reflect.Pointer && !v.IsNil() {
			v = v.Elem()
		}
	}
	return v, nil
}

func applyAdd(rootVal reflect.Value, op Operation) error {
	if op.Address.IsEmpty() {
		return fmt.Errorf("add requires a non-empty address")
	}
	parentAddr := op.Address[:len(op.Address)-1]
	last := op.Address[len(op.Address)-1]

	parent, err := container(rootVal, parentAddr)
	if err != nil {
		return err
	}

	switch parent.Kind() {
	case reflect.Slice:
		if !last.IsIndex() {
			return fmt.Errorf("add into a slice requires an index slot")
		}
		idx := last.Index
		if idx < 0 || idx > parent.Len() {
			return fmt.Errorf("add index %d out of range (len %d)", idx, parent.Len())
		}
		elemType := parent.Type().Elem()
		val := coerce(op.Value, elemType)
		grown := reflect.Append(parent, reflect.Zero(elemType))
		reflect.Copy(grown.Slice(idx+1, grown.Len()), grown.Slice(idx, grown.Len()-1))
		grown.Index(idx).Set(val)
		parent.Set(grown)
		return nil
	case reflect.Struct:
		field := fieldByAddressName(parent, last.Name)
		if !field.IsValid() {
			return fmt.Errorf("no field %q on %s", last.Name, parent.Type())
		}
		field.Set(coerce(op.Value, field.Type()))
		return nil
	default:
		return fmt.Errorf("cannot add into %s", parent.Kind())
	}
}

func applyPush(rootVal reflect.Value, addr address.Address, value any) error {
	target, err := container(rootVal, addr)
	if err != nil {
		return err
	}
	if target.Kind() != reflect.Slice {
		return fmt.Errorf("push target is not a slice: %s", target.Kind())
	}
	target.Set(reflect.Append(target, coerce(value, target.Type().Elem())))
	return nil
}

func applyAppend(rootVal reflect.Value, addr address.Address, values []any, prepend bool) error {
	target, err := container(rootVal, addr)
	if err != nil {
		return err
	}
	if target.Kind() != reflect.Slice {
		return fmt.Errorf("append target is not a slice: %s", target.Kind())
	}
	elemType := target.Type().Elem()
	add := reflect.MakeSlice(target.Type(), 0, len(values))
	for _, v := range values {
		add = reflect.Append(add, coerce(v, elemType))
	}
	if prepend {
		target.Set(reflect.AppendSlice(add, target))
	} else {
		target.Set(reflect.AppendSlice(target, add))
	}
	return nil
}

func applyRemove(rootVal reflect.Value, addr address.Address) error {
	if addr.IsEmpty() {
		return fmt.Errorf("remove requires a non-empty address")
	}
	parentAddr := addr[:len(addr)-1]
	last := addr[len(addr)-1]

	parent, err := container(rootVal, parentAddr)
	if err != nil {
		return err
	}
	switch parent.Kind() {
	case reflect.Slice:
		if !last.IsIndex() {
			return fmt.Errorf("remove from a slice requires an index slot")
		}
		idx := last.Index
		if idx < 0 || idx >= parent.Len() {
			return fmt.Errorf("remove index %d out of range (len %d)", idx, parent.Len())
		}
		reflect.Copy(parent.Slice(idx, parent.Len()-1), parent.Slice(idx+1, parent.Len()))
		parent.SetLen(parent.Len() - 1)
		return nil
	case reflect.Struct:
		field := fieldByAddressName(parent, last.Name)
		if !field.IsValid() {
			return fmt.Errorf("no field %q on %s", last.Name, parent.Type())
		}
		field.Set(reflect.Zero(field.Type()))
		return nil
	default:
		return fmt.Errorf("cannot remove from %s", parent.Kind())
	}
}

func applySet(rootVal reflect.Value, addr address.Address, value any) error {
	if addr.IsEmpty() {
		rootVal.Set(coerce(value, rootVal.Type()))
		return nil
	}
	parentAddr := addr[:len(addr)-1]
	last := addr[len(addr)-1]

	parent, err := container(rootVal, parentAddr)
	if err != nil {
		return err
	}
	switch parent.Kind() {
	case reflect.Slice:
		if !last.IsIndex() || last.Index < 0 || last.Index >= parent.Len() {
			return fmt.Errorf("set index out of range")
		}
		parent.Index(last.Index).Set(coerce(value, parent.Type().Elem()))
		return nil
	case reflect.Struct:
		field := fieldByAddressName(parent, last.Name)
		if !field.IsValid() {
			return fmt.Errorf("no field %q on %s", last.Name, parent.Type())
		}
		field.Set(coerce(value, field.Type()))
		return nil
	default:
		return fmt.Errorf("cannot set on %s", parent.Kind())
	}
}

func applyMove(rootVal reflect.Value, from, to address.Address) error {
	if from.IsEmpty() || to.IsEmpty() {
		return fmt.Errorf("move requires non-empty from/to addresses")
	}
	fromParentAddr := from[:len(from)-1]
	fromLast := from[len(from)-1]
	toParentAddr := to[:len(to)-1]
	toLast := to[len(to)-1]

	fromParent, err := container(rootVal, fromParentAddr)
	if err != nil {
		return err
	}
	if fromParent.Kind() != reflect.Slice || !fromLast.IsIndex() {
		return fmt.Errorf("move source must be a slice index")
	}
	item := fromParent.Index(fromLast.Index).Interface()

	if err := applyRemove(rootVal, from); err != nil {
		return err
	}

	toParent, err := container(rootVal, toParentAddr)
	if err != nil {
		return err
	}
	if toParent.Kind() != reflect.Slice || !toLast.IsIndex() {
		return fmt.Errorf("move destination must be a slice index")
	}
	return applyAdd(rootVal, Operation{Address: to, Value: item, Type: OpAdd})
}

// coerce converts value to target's type when value already satisfies it,
// or wraps it in the target interface/type as needed. Values produced by a
// Diff already carry the right concrete type, so this is mostly a
// pass-through guarded by a runtime assertion.
func coerce(value any, target reflect.Type) reflect.Value {
	if value == nil {
		return reflect.Zero(target)
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(target) {
		return v
	}
	if v.Type().ConvertibleTo(target) {
		return v.Convert(target)
	}
	panic(fmt.Sprintf("patch: value of type %s is not assignable to %s", v.Type(), target))
}
