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
	"encoding/json"
	"fmt"
)

// ArrayValidator constrains a value to be an array, optionally validating
// each item against ItemValidator and bounding its length.
type ArrayValidator struct {
	Base
	ItemValidator Validator `json:"itemsValidator,omitempty"`
	MinItems      *int      `json:"minItems,omitempty"`
	MaxItems      *int      `json:"maxItems,omitempty"`
	UniqueItems   bool      `json:"uniqueItems,omitempty"`
}

func (ArrayValidator) NodeType() Kind { return KindArrayValidator }
func (ArrayValidator) validator()    {}

type arrayValidatorWire struct {
	Base
	ItemValidator json.RawMessage `json:"itemsValidator,omitempty"`
	MinItems      *int            `json:"minItems,omitempty"`
	MaxItems      *int            `json:"maxItems,omitempty"`
	UniqueItems   bool            `json:"uniqueItems,omitempty"`
}

func (a ArrayValidator) MarshalJSON() ([]byte, error) {
	w := arrayValidatorWire{Base: a.Base, MinItems: a.MinItems, MaxItems: a.MaxItems, UniqueItems: a.UniqueItems}
	if a.ItemValidator != nil {
		enc, err := MarshalNode(a.ItemValidator)
		if err != nil {
			return nil, err
		}
		w.ItemValidator = enc
	}
	return json.Marshal(w)
}

func (a *ArrayValidator) UnmarshalJSON(data []byte) error {
	var w arrayValidatorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	a.Base, a.MinItems, a.MaxItems, a.UniqueItems = w.Base, w.MinItems, w.MaxItems, w.UniqueItems
	if len(w.ItemValidator) > 0 {
		n, err := UnmarshalNode(w.ItemValidator)
		if err != nil {
			return err
		}
		v, ok := n.(Validator)
		if !ok {
			return fmt.Errorf("schema: %s is not a Validator", n.NodeType())
		}
		a.ItemValidator = v
	}
	return nil
}

// BooleanValidator constrains a value to be a Boolean.
type BooleanValidator struct {
	Base
}

func (BooleanValidator) NodeType() Kind { return KindBooleanValidator }
func (BooleanValidator) validator()    {}

// ConstantValidator constrains a value to equal exactly one literal.
type ConstantValidator struct {
	Base
	Value any `json:"value"`
}

func (ConstantValidator) NodeType() Kind { return KindConstantValidator }
func (ConstantValidator) validator()    {}

// DateTimeValidator constrains a value to an ISO 8601 date-time, optionally
// bounded to a min/max range.
type DateTimeValidator struct {
	Base
	Minimum string `json:"minimum,omitempty"`
	Maximum string `json:"maximum,omitempty"`
}

func (DateTimeValidator) NodeType() Kind { return KindDateTimeValidator }
func (DateTimeValidator) validator()    {}

// DateValidator constrains a value to an ISO 8601 date.
type DateValidator struct {
	Base
	Minimum string `json:"minimum,omitempty"`
	Maximum string `json:"maximum,omitempty"`
}

func (DateValidator) NodeType() Kind { return KindDateValidator }
func (DateValidator) validator()    {}

// DurationValidator constrains a value to an ISO 8601 duration.
type DurationValidator struct {
	Base
	TimeUnit string `json:"timeUnit,omitempty"`
}

func (DurationValidator) NodeType() Kind { return KindDurationValidator }
func (DurationValidator) validator()    {}

// EnumValidator constrains a value to one of a fixed set of values.
type EnumValidator struct {
	Base
	Values Array `json:"values"`
}

func (EnumValidator) NodeType() Kind { return KindEnumValidator }
func (EnumValidator) validator()    {}

// IntegerValidator constrains a value to a whole number, optionally bounded
// and/or a multiple of a given step.
type IntegerValidator struct {
	Base
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
}

func (IntegerValidator) NodeType() Kind { return KindIntegerValidator }
func (IntegerValidator) validator()    {}

// NumberValidator constrains a value to any real number, optionally
// bounded and/or a multiple of a given step.
type NumberValidator struct {
	Base
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
}

func (NumberValidator) NodeType() Kind { return KindNumberValidator }
func (NumberValidator) validator()    {}

// StringValidator constrains a value to text matching length bounds and/or
// a regular expression pattern.
type StringValidator struct {
	Base
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

func (StringValidator) NodeType() Kind { return KindStringValidator }
func (StringValidator) validator()    {}

// TupleValidator constrains a value to an array whose items each satisfy
// the validator at the corresponding position.
type TupleValidator struct {
	Base
	ItemValidators Validators `json:"items,omitempty"`
}

func (TupleValidator) NodeType() Kind { return KindTupleValidator }
func (TupleValidator) validator()    {}
