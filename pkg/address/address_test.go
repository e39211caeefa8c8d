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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressString(t *testing.T) {
	a := Empty().PushName("content").PushIndex(2).PushName("text")
	assert.Equal(t, "content.2.text", a.String())
}

func TestPopFront(t *testing.T) {
	a := Empty().PushName("a").PushIndex(1)
	s, ok := a.PopFront()
	require.True(t, ok)
	assert.True(t, s.IsName())
	assert.Equal(t, "a", s.Name)
	assert.Equal(t, Address{Index(1)}, a)

	s, ok = a.PopFront()
	require.True(t, ok)
	assert.True(t, s.IsIndex())
	assert.Equal(t, 1, s.Index)

	_, ok = a.PopFront()
	assert.False(t, ok)
}

func TestConcatPrepend(t *testing.T) {
	a := Empty().PushName("x")
	b := Empty().PushName("y")
	assert.Equal(t, "x.y", a.Concat(b).String())
	assert.Equal(t, "y.x", a.Prepend(b).String())
}

func TestWireRoundTrip(t *testing.T) {
	a := Empty().PushName("execution_count").PushIndex(0)
	wire := a.ToWire()
	require.Len(t, wire, 2)
	assert.Equal(t, "executionCount", wire[0].Name)

	back := FromWire(wire)
	assert.Equal(t, a, back)
}

func TestMapRebaseUnder(t *testing.T) {
	m := NewMap()
	m.Set("blk_1", Empty().PushName("content").PushIndex(0))
	rebased := m.RebaseUnder(Empty().PushName("clauses").PushIndex(1))
	addr, ok := rebased.Get("blk_1")
	require.True(t, ok)
	assert.Equal(t, "clauses.1.content.0", addr.String())
}
