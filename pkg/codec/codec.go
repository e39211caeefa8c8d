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

// Package codec defines the common interface every format binding (JSON,
// Markdown, LaTeX, and so on) implements (spec §4.6), plus a registry
// adapters can use to look a codec up by format name.
package codec

import (
	"fmt"

	"github.com/stencila/engine/pkg/schema"
)

// Loss describes how faithfully a codec can round-trip a given node type.
type Loss int

const (
	// NoLoss: the type round-trips exactly.
	NoLoss Loss = iota
	// LowLoss: minor formatting details may not survive a round trip.
	LowLoss
	// HighLoss: the type is encoded in a degraded form (e.g. as plain text).
	HighLoss
	// None: the type cannot be represented at all; it is dropped.
	None
)

func (l Loss) String() string {
	switch l {
	case NoLoss:
		return "NoLoss"
	case LowLoss:
		return "LowLoss"
	case HighLoss:
		return "HighLoss"
	default:
		return "None"
	}
}

// Losses tallies, by label (typically "<Type>.<property>" or a bare
// "<Type>"), how many times content of that kind was degraded or dropped
// during a decode or encode.
type Losses map[string]int

// Add increments label's count by n.
func (l Losses) Add(label string, n int) {
	l[label] += n
}

// Merge folds other's counts into l.
func (l Losses) Merge(other Losses) {
	for k, v := range other {
		l[k] += v
	}
}

// MappingEntry records that the half-open character range [Start, End) of
// an encoded string corresponds to one property of one node.
type MappingEntry struct {
	Start    int
	End      int
	NodeType string
	NodeID   string
	Property string
}

// DecodeOptions configures a Decode call. Most codecs only ever decode one
// format, so Format is only consulted by codecs that handle several.
type DecodeOptions struct {
	Format string
}

// EncodeOptions configures an Encode call.
type EncodeOptions struct {
	Format     string
	Compact    bool
	Standalone bool
}

// DecodeInfo is returned alongside a decoded Node: what was lost in
// translation, and where each node/property landed in the source text.
type DecodeInfo struct {
	Losses  Losses
	Mapping []MappingEntry
}

// EncodeInfo is returned alongside encoded bytes, mirroring DecodeInfo for
// the opposite direction.
type EncodeInfo struct {
	Losses  Losses
	Mapping []MappingEntry
}

// Codec is implemented by every format binding.
type Codec interface {
	// Formats returns every format name (and alias) this codec answers to.
	Formats() []string

	// SupportsFromString/SupportsFromPath/SupportsToString/SupportsToPath
	// report which directions and media this codec supports; a codec that
	// only handles binary containers (e.g. DOCX) typically answers false
	// to the *String variants.
	SupportsFromString() bool
	SupportsFromPath() bool
	SupportsToString() bool
	SupportsToPath() bool

	// SupportsFromType reports how faithfully this codec's decoder can
	// reconstruct nodeType; SupportsToType reports the same for its
	// encoder.
	SupportsFromType(nodeType schema.Kind) Loss
	SupportsToType(nodeType schema.Kind) Loss

	// Decode parses input into a Node, reporting what was lost and how
	// source positions map onto the result.
	Decode(input string, opts DecodeOptions) (schema.Node, DecodeInfo, error)

	// Encode serializes root, reporting what was lost and how the result's
	// character positions map onto root's nodes.
	Encode(root schema.Node, opts EncodeOptions) ([]byte, EncodeInfo, error)
}

// Registry looks codecs up by the format names they declare.
type Registry struct {
	byFormat map[string]Codec
}

// NewRegistry returns a Registry seeded with codecs.
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{byFormat: make(map[string]Codec)}
	for _, c := range codecs {
		r.Register(c)
	}
	return r
}

// Register adds c under every format name it declares, overwriting any
// codec already registered for that name.
func (r *Registry) Register(c Codec) {
	for _, f := range c.Formats() {
		r.byFormat[f] = c
	}
}

// Lookup returns the codec registered for format, if any.
func (r *Registry) Lookup(format string) (Codec, bool) {
	c, ok := r.byFormat[format]
	return c, ok
}

// Decode looks format up and decodes input with it.
func (r *Registry) Decode(format, input string, opts DecodeOptions) (schema.Node, DecodeInfo, error) {
	c, ok := r.Lookup(format)
	if !ok {
		return nil, DecodeInfo{}, fmt.Errorf("codec: no codec registered for format %q", format)
	}
	return c.Decode(input, opts)
}

// Encode looks format up and encodes root with it.
func (r *Registry) Encode(format string, root schema.Node, opts EncodeOptions) ([]byte, EncodeInfo, error) {
	c, ok := r.Lookup(format)
	if !ok {
		return nil, EncodeInfo{}, fmt.Errorf("codec: no codec registered for format %q", format)
	}
	return c.Encode(root, opts)
}
