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

// Package jsoncodec implements the JSON codec (spec §4.6): a thin wrapper
// over schema.MarshalNode/UnmarshalNode, the only codec that round-trips
// every node type without loss.
package jsoncodec

import (
	"bytes"
	"encoding/json"

	"github.com/stencila/engine/pkg/codec"
	"github.com/stencila/engine/pkg/schema"
)

// Codec implements codec.Codec for the "json" format.
type Codec struct{}

func (Codec) Formats() []string { return []string{"json"} }

func (Codec) SupportsFromString() bool { return true }
func (Codec) SupportsFromPath() bool   { return true }
func (Codec) SupportsToString() bool   { return true }
func (Codec) SupportsToPath() bool     { return true }

func (Codec) SupportsFromType(schema.Kind) codec.Loss { return codec.NoLoss }
func (Codec) SupportsToType(schema.Kind) codec.Loss   { return codec.NoLoss }

func (Codec) Decode(input string, _ codec.DecodeOptions) (schema.Node, codec.DecodeInfo, error) {
	n, err := schema.UnmarshalNode([]byte(input))
	if err != nil {
		return nil, codec.DecodeInfo{}, err
	}
	return n, codec.DecodeInfo{Losses: codec.Losses{}}, nil
}

func (Codec) Encode(root schema.Node, opts codec.EncodeOptions) ([]byte, codec.EncodeInfo, error) {
	data, err := schema.MarshalNode(root)
	if err != nil {
		return nil, codec.EncodeInfo{}, err
	}
	if !opts.Compact {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, data, "", "  "); err != nil {
			return nil, codec.EncodeInfo{}, err
		}
		data = pretty.Bytes()
	}
	return data, codec.EncodeInfo{Losses: codec.Losses{}}, nil
}
