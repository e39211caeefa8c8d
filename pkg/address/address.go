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

// Package address implements the path-to-a-node addressing scheme used by
// the patch calculus, the node map, and the sync adapters.
//
// An Address is a sequence of Slots from a designated root to a value
// inside a Node tree. A Slot identifies either a named struct field /
// map key (Name) or a list index (Index). Slots are preferred over JSON
// Pointer strings because walking them against a typed tree can be done
// without string splitting or re-parsing at each level.
package address

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stencila/engine/internal/strcase"
)

// SlotKind distinguishes the two Slot variants.
type SlotKind int

const (
	// SlotName addresses a struct field or map key.
	SlotName SlotKind = iota
	// SlotIndex addresses a position in a list or string.
	SlotIndex
)

// Slot is one step in an Address: either a field Name or a list Index.
type Slot struct {
	Kind  SlotKind
	Name  string
	Index int
}

// Name constructs a named Slot.
func Name(name string) Slot { return Slot{Kind: SlotName, Name: name} }

// Index constructs an indexed Slot.
func Index(index int) Slot { return Slot{Kind: SlotIndex, Index: index} }

// IsName reports whether the slot is a Name slot.
func (s Slot) IsName() bool { return s.Kind == SlotName }

// IsIndex reports whether the slot is an Index slot.
func (s Slot) IsIndex() bool { return s.Kind == SlotIndex }

// String renders the slot as it appears in Address.String().
func (s Slot) String() string {
	if s.Kind == SlotName {
		return s.Name
	}
	return itoa(s.Index)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// Address is an ordered list of Slots locating a value within a Node tree.
//
// Addresses usually carry fewer than half a dozen slots, so a plain slice
// is preferred over a persistent data structure.
type Address []Slot

// Empty returns a new, empty Address.
func Empty() Address { return Address{} }

// IsEmpty reports whether the address has no slots.
func (a Address) IsEmpty() bool { return len(a) == 0 }

// Clone returns a copy of the address so callers can mutate it (e.g. via
// PopFront) without aliasing the caller's slice.
func (a Address) Clone() Address {
	out := make(Address, len(a))
	copy(out, a)
	return out
}

// PopFront removes and returns the first slot, reporting ok=false if the
// address was empty.
func (a *Address) PopFront() (Slot, bool) {
	if len(*a) == 0 {
		return Slot{}, false
	}
	s := (*a)[0]
	*a = (*a)[1:]
	return s, true
}

// PushName returns a new address with a Name slot appended.
func (a Address) PushName(name string) Address {
	out := make(Address, len(a), len(a)+1)
	copy(out, a)
	return append(out, Name(name))
}

// PushIndex returns a new address with an Index slot appended.
func (a Address) PushIndex(index int) Address {
	out := make(Address, len(a), len(a)+1)
	copy(out, a)
	return append(out, Index(index))
}

// Prepend returns other ++ a (other's slots come first).
func (a Address) Prepend(other Address) Address {
	return other.Concat(a)
}

// Concat returns a ++ other.
func (a Address) Concat(other Address) Address {
	out := make(Address, 0, len(a)+len(other))
	out = append(out, a...)
	out = append(out, other...)
	return out
}

// String renders the address dot-separated, e.g. "content.0.text".
func (a Address) String() string {
	parts := make([]string, len(a))
	for i, slot := range a {
		parts[i] = slot.String()
	}
	return strings.Join(parts, ".")
}

// Parse is the inverse of String: it splits a dot-separated address string
// back into Slots, treating any all-digit component as an Index slot and
// everything else as a Name slot. The graph store's stored nodePath column
// round-trips through String/Parse so a database-kernel query result can
// be dereferenced back to the node it was projected from.
func Parse(s string) (Address, error) {
	if s == "" {
		return Empty(), nil
	}
	parts := strings.Split(s, ".")
	addr := make(Address, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("address: empty slot in %q", s)
		}
		if isAllDigits(part) {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("address: invalid index slot %q: %w", part, err)
			}
			addr = append(addr, Index(n))
			continue
		}
		addr = append(addr, Name(part))
	}
	return addr, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// WireSlot is the JSON-wire representation of a Slot: a bare number for
// Index, a camelCase string for Name.
type WireSlot struct {
	IsName bool
	Name   string
	Index  int
}

// ToWire converts the address to its wire form: Name slots are rendered
// camelCase (to match the web/JSON convention), Index slots are left
// untouched. Internal (Go-side) slot names stay snake_case.
func (a Address) ToWire() []WireSlot {
	out := make([]WireSlot, len(a))
	for i, slot := range a {
		if slot.IsName() {
			out[i] = WireSlot{IsName: true, Name: strcase.ToCamel(slot.Name)}
		} else {
			out[i] = WireSlot{Index: slot.Index}
		}
	}
	return out
}

// FromWire converts wire slots (camelCase names) back into an internal
// Address (snake_case names).
func FromWire(wire []WireSlot) Address {
	out := make(Address, len(wire))
	for i, w := range wire {
		if w.IsName {
			out[i] = Name(strcase.ToSnake(w.Name))
		} else {
			out[i] = Index(w.Index)
		}
	}
	return out
}

// Map is a bijection from node id to the Address at which that node
// currently lives in the tree. A deterministic ordering isn't required by
// callers (ids are opaque keys) so a plain Go map suffices; callers that
// need deterministic iteration should sort the keys themselves.
type Map map[string]Address

// NewMap returns an empty node map.
func NewMap() Map { return make(Map) }

// Set records the address for a node id, overwriting any previous entry.
func (m Map) Set(id string, addr Address) { m[id] = addr }

// Get returns the address for a node id.
func (m Map) Get(id string) (Address, bool) {
	a, ok := m[id]
	return a, ok
}

// Delete removes a node id from the map.
func (m Map) Delete(id string) { delete(m, id) }

// RebaseUnder rewrites every address in m to be prefixed with base. Used
// when a subtree that owns its own previously-built map is spliced into a
// larger tree at address base.
func (m Map) RebaseUnder(base Address) Map {
	out := make(Map, len(m))
	for id, addr := range m {
		out[id] = base.Concat(addr)
	}
	return out
}
