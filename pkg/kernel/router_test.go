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

package kernel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stencila/engine/pkg/schema"
)

type mapResponder map[string]schema.Node

func (m mapResponder) LookupVariable(name string) (VariableResponse, bool) {
	v, ok := m[name]
	if !ok {
		return VariableResponse{}, false
	}
	return VariableResponse{Name: name, Value: v, Found: true}, true
}

func TestRouterResolvesFirstOwner(t *testing.T) {
	first := mapResponder{}
	second := mapResponder{"x": schema.Text{Value: schema.NewCord("hello")}}
	r := NewRouter(time.Second, first, second)

	resp := r.Resolve(context.Background(), VariableRequest{Name: "x"})
	assert.True(t, resp.Found)
	assert.Equal(t, "hello", resp.Value.(schema.Text).Value.String())
}

func TestRouterUnresolvedReturnsNotFound(t *testing.T) {
	r := NewRouter(50*time.Millisecond, mapResponder{})
	resp := r.Resolve(context.Background(), VariableRequest{Name: "missing"})
	assert.False(t, resp.Found)
}

func TestRouterServeRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRouter(time.Second, mapResponder{"y": schema.Text{Value: schema.NewCord("v")}})
	requester := make(chan VariableRequest)
	responder := make(chan VariableResponse)

	go r.Serve(ctx, requester, responder)

	requester <- VariableRequest{Name: "y"}
	resp := <-responder
	assert.True(t, resp.Found)
	assert.Equal(t, "v", resp.Value.(schema.Text).Value.String())
}
