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

package address

import "fmt"

// InvalidAddressError reports that an address could not be walked against
// a particular node type (spec §4.2).
type InvalidAddressError struct {
	TypeName string
	Details  string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address for node of type `%s`: %s", e.TypeName, e.Details)
}

// InvalidSlotVariantError reports that a Name slot was used where an Index
// was required, or vice versa.
type InvalidSlotVariantError struct {
	Variant  string
	TypeName string
}

func (e *InvalidSlotVariantError) Error() string {
	return fmt.Sprintf("invalid slot type `%s` for node of type `%s`", e.Variant, e.TypeName)
}

// InvalidSlotNameError reports a Name slot whose name isn't a field/key on
// the addressed type.
type InvalidSlotNameError struct {
	Name     string
	TypeName string
}

func (e *InvalidSlotNameError) Error() string {
	return fmt.Sprintf("invalid address slot name `%s` for node of type `%s`", e.Name, e.TypeName)
}

// InvalidSlotIndexError reports an Index slot out of range for the
// addressed list.
type InvalidSlotIndexError struct {
	Index    int
	TypeName string
}

func (e *InvalidSlotIndexError) Error() string {
	return fmt.Sprintf("invalid address slot index `%d` for node of type `%s`", e.Index, e.TypeName)
}

// InvalidAddress constructs an InvalidAddressError.
func InvalidAddress(typeName, details string) error {
	return &InvalidAddressError{TypeName: typeName, Details: details}
}

// InvalidSlotVariant constructs an InvalidSlotVariantError for slot.
func InvalidSlotVariant(typeName string, slot Slot) error {
	variant := "Index"
	if slot.IsName() {
		variant = "Name"
	}
	return &InvalidSlotVariantError{Variant: variant, TypeName: typeName}
}

// InvalidSlotName constructs an InvalidSlotNameError.
func InvalidSlotName(typeName, name string) error {
	return &InvalidSlotNameError{Name: name, TypeName: typeName}
}

// InvalidSlotIndex constructs an InvalidSlotIndexError.
func InvalidSlotIndex(typeName string, index int) error {
	return &InvalidSlotIndexError{Index: index, TypeName: typeName}
}
