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

package schema

import (
	"reflect"

	"github.com/stencila/engine/pkg/address"
)

// VisitFunc is called once per node encountered by Walk, with the address
// of that node relative to the root it was called on. Returning false
// prunes the subtree rooted at the current node.
type VisitFunc func(addr address.Address, n Node) bool

// Walk performs a pre-order traversal of root's node tree, descending into
// every struct field and slice element that holds a Node. Traversal order
// follows struct field declaration order, which matches document order for
// every type in this package.
func Walk(root Node, fn VisitFunc) {
	walk(address.Empty(), root, fn)
}

func walk(addr address.Address, n Node, fn VisitFunc) {
	if n == nil || !fn(addr, n) {
		return
	}

	v := reflect.ValueOf(n)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	for _, f := range VisibleFields(v.Type()) {
		walkField(addr.PushName(f.Name), v.FieldByIndex(f.Index), fn)
	}
}

func walkField(addr address.Address, v reflect.Value, fn VisitFunc) {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return
		}
		if n, ok := v.Interface().(Node); ok {
			walk(addr, n, fn)
			return
		}
		walkField(addr, v.Elem(), fn)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			elemAddr := addr.PushIndex(i)
			elem := v.Index(i)
			if n, ok := elem.Interface().(Node); ok {
				walk(elemAddr, n, fn)
				continue
			}
			walkField(elemAddr, elem, fn)
		}
	case reflect.Struct:
		if n, ok := v.Interface().(Node); ok {
			walk(addr, n, fn)
		}
	}
}

// Find returns the first node under root whose id equals id, along with its
// address, or (nil, Empty, false) if there is no such node.
func Find(root Node, id string) (Node, address.Address, bool) {
	var found Node
	var foundAddr address.Address
	Walk(root, func(addr address.Address, n Node) bool {
		if found != nil {
			return false
		}
		if n.NodeID() == id {
			found, foundAddr = n, addr.Clone()
			return false
		}
		return true
	})
	return found, foundAddr, found != nil
}

// BuildMap walks root and returns an address.Map from every node's id to
// its address. Later nodes win if two nodes share an id, since Walk visits
// in document order and a root replacement should reflect the current tree.
func BuildMap(root Node) address.Map {
	m := address.NewMap()
	Walk(root, func(addr address.Address, n Node) bool {
		m.Set(n.NodeID(), addr.Clone())
		return true
	})
	return m
}

// Replicate deep-copies root, preserving every node's existing id. Used
// when forking a document for Fork-bounded execution or CRDT sync, where
// the copy must still answer to the same addresses as the original.
func Replicate(root Node) Node {
	return deepCopy(root, false)
}

// Duplicate deep-copies root, minting a fresh id for every node. Used when
// a document fragment is copied into a new context (e.g. a call block
// result) and must not collide with the ids of the nodes it came from.
func Duplicate(root Node) Node {
	return deepCopy(root, true)
}

func deepCopy(n Node, freshIDs bool) Node {
	if n == nil {
		return nil
	}
	v := reflect.ValueOf(n)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	out := reflect.New(v.Type()).Elem()
	copyValue(out, v, freshIDs)

	if freshIDs {
		if idField := out.FieldByName("ID"); idField.IsValid() && idField.CanSet() && idField.Kind() == reflect.String {
			idField.SetString(NewID(n.NodeType()))
		}
	}

	return out.Interface().(Node)
}

func copyValue(dst, src reflect.Value, freshIDs bool) {
	switch src.Kind() {
	case reflect.Struct:
		// Copy the whole struct first so unexported fields (e.g. a Cord's
		// text) are kept; exported fields are then deep-copied over it.
		dst.Set(src)
		for i := 0; i < src.NumField(); i++ {
			sf := src.Field(i)
			df := dst.Field(i)
			if !df.CanSet() {
				continue
			}
			copyValue(df, sf, freshIDs)
		}
	case reflect.Slice:
		if src.IsNil() {
			return
		}
		dst.Set(reflect.MakeSlice(src.Type(), src.Len(), src.Len()))
		for i := 0; i < src.Len(); i++ {
			copyValue(dst.Index(i), src.Index(i), freshIDs)
		}
	case reflect.Pointer:
		if src.IsNil() {
			return
		}
		dst.Set(reflect.New(src.Type().Elem()))
		copyValue(dst.Elem(), src.Elem(), freshIDs)
	case reflect.Interface:
		if src.IsNil() {
			return
		}
		elem := src.Elem()
		if n, ok := elem.Interface().(Node); ok && freshIDs {
			dst.Set(reflect.ValueOf(deepCopy(n, true)))
			return
		}
		newElem := reflect.New(elem.Type()).Elem()
		copyValue(newElem, elem, freshIDs)
		dst.Set(newElem)
	case reflect.Map:
		if src.IsNil() {
			return
		}
		dst.Set(reflect.MakeMapWithSize(src.Type(), src.Len()))
		iter := src.MapRange()
		for iter.Next() {
			v := reflect.New(iter.Value().Type()).Elem()
			copyValue(v, iter.Value(), freshIDs)
			dst.SetMapIndex(iter.Key(), v)
		}
	default:
		dst.Set(src)
	}
}
