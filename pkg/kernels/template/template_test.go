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

package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencila/engine/pkg/schema"
)

func TestParseDocsQLSimpleCall(t *testing.T) {
	chain, err := parseDocsQL(`_references(year__gte=2020)`)
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, "references", chain[0].name)
	assert.Equal(t, 2020, chain[0].kwargs["year__gte"])
}

func TestParseDocsQLChainedMethod(t *testing.T) {
	chain, err := parseDocsQL(`_authors().organizations(name__contains="Acme")`)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "authors", chain[0].name)
	assert.Equal(t, "organizations", chain[1].name)
	assert.Equal(t, "Acme", chain[1].kwargs["name__contains"])
}

func TestExecuteDocsQLExpression(t *testing.T) {
	k := Kernel{}
	inst, err := k.CreateInstance(schema.BoundsMain)
	require.NoError(t, err)

	outputs, msgs, err := inst.Execute(context.Background(), `_references(year__gte=2020)`)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	require.Len(t, outputs, 1)
	text := outputs[0].(schema.Text).Value.String()
	assert.Contains(t, text, "EXISTS {")
	assert.Contains(t, text, "r.year >= 2020")
}

func TestExecuteRendersPongo2Template(t *testing.T) {
	k := Kernel{}
	inst, err := k.CreateInstance(schema.BoundsMain)
	require.NoError(t, err)

	outputs, msgs, err := inst.Execute(context.Background(), `Hello {{ name }}`)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	require.Len(t, outputs, 1)
	assert.Equal(t, "Hello ", outputs[0].(schema.Text).Value.String())
}
