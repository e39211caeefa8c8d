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

// Package database implements the database kernel kind (spec §4.9): it
// parses a `// db <alias>` directive on the first line of a query to
// rebind the graph store/document directory a kernel instance talks to,
// runs the remainder against the graph store, and dereferences any
// (docId, nodePath) pairs the query returns into Excerpt nodes pulled from
// a bounded per-instance document cache.
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/stencila/engine/pkg/address"
	"github.com/stencila/engine/pkg/docstore"
	"github.com/stencila/engine/pkg/graphstore"
	"github.com/stencila/engine/pkg/kernel"
	"github.com/stencila/engine/pkg/schema"
)

// cacheCapacity is the per-instance document-LRU bound (spec §5: "bounded
// capacity 10").
const cacheCapacity = 10

// Resolver looks up the graph store and document store that a named
// database alias refers to. A workspace wires one in at startup; "current"
// resolves to whichever document the kernel instance was started against.
type Resolver interface {
	Resolve(alias string) (*graphstore.Store, *docstore.Store, error)
}

// Kernel is the kernel.Kernel factory for the database kind.
type Kernel struct {
	Resolver Resolver
}

func (Kernel) Name() string                            { return "database" }
func (Kernel) Type() kernel.Type                        { return kernel.TypeDatabase }
func (Kernel) Provider() kernel.Provider                { return kernel.ProviderBuiltin }
func (Kernel) SupportsLanguages() []string              { return []string{"cypher"} }
func (Kernel) SupportsForks() bool                      { return false }
func (Kernel) SupportsInterrupt() bool                  { return false }
func (Kernel) SupportsTerminate() bool                  { return true }
func (Kernel) SupportsKill() bool                       { return true }
func (Kernel) SupportsVariableRequests() bool           { return false }
func (Kernel) SupportedBounds() []schema.ExecutionBounds {
	return []schema.ExecutionBounds{schema.BoundsMain}
}

func (k Kernel) CreateInstance(bounds schema.ExecutionBounds) (kernel.Instance, error) {
	return &instance{id: newInstanceID(), resolver: k.Resolver, cache: newDocumentCache(cacheCapacity)}, nil
}

var instanceSeq int

func newInstanceID() string {
	instanceSeq++
	return fmt.Sprintf("database-kernel-%d", instanceSeq)
}

type instance struct {
	id       string
	resolver Resolver
	alias    string
	store    *graphstore.Store
	docs     *docstore.Store
	cache    *documentCache
}

func (i *instance) ID() string { return i.id }

func (i *instance) Start(ctx context.Context, directory string) error {
	return nil
}

func (i *instance) Info() kernel.SoftwareApplication {
	return kernel.SoftwareApplication{Name: "database-kernel"}
}

func (i *instance) SetVariableChannel(ch kernel.VariableChannel) {}

// rebind switches the instance to the store and document directory named
// by alias, clearing the document cache: stale cached documents from a
// previous store would otherwise leak across the rebind (spec §5:
// "cleared on store rebinding").
func (i *instance) rebind(alias string) error {
	if alias == i.alias && i.store != nil {
		return nil
	}
	store, docs, err := i.resolver.Resolve(alias)
	if err != nil {
		return fmt.Errorf("database: resolve alias %q: %w", alias, err)
	}
	i.alias = alias
	i.store = store
	i.docs = docs
	i.cache.clear()
	return nil
}

// splitDirective pulls a leading "// db <alias>" line off query, returning
// the alias (or "current" when absent) and the remaining query text.
func splitDirective(query string) (alias, rest string) {
	lines := strings.SplitN(query, "\n", 2)
	first := strings.TrimSpace(lines[0])
	if strings.HasPrefix(first, "// db ") {
		alias = strings.TrimSpace(strings.TrimPrefix(first, "// db "))
		if len(lines) > 1 {
			rest = lines[1]
		}
		return alias, rest
	}
	return "current", query
}

func (i *instance) Execute(ctx context.Context, code string) ([]schema.Node, []schema.ExecutionMessage, error) {
	alias, query := splitDirective(code)
	if err := i.rebind(alias); err != nil {
		return nil, []schema.ExecutionMessage{{Level: "Error", Message: err.Error()}}, nil
	}

	result, err := i.store.Query(ctx, query, nil)
	if err != nil {
		return nil, []schema.ExecutionMessage{{Level: "Error", Message: err.Error()}}, nil
	}

	docIDCol, pathCol := -1, -1
	for idx, h := range result.Headers {
		switch h {
		case "docId":
			docIDCol = idx
		case "nodePath":
			pathCol = idx
		}
	}
	if docIDCol < 0 || pathCol < 0 {
		return nil, nil, nil
	}

	var outputs []schema.Node
	for _, row := range result.Rows {
		docID, _ := row[docIDCol].(string)
		nodePath, _ := row[pathCol].(string)
		excerpt, err := i.excerpt(docID, nodePath)
		if err != nil {
			return outputs, []schema.ExecutionMessage{{Level: "Warning", Message: err.Error()}}, nil
		}
		outputs = append(outputs, excerpt)
	}
	return outputs, nil, nil
}

func (i *instance) Evaluate(ctx context.Context, code string) (any, []schema.ExecutionMessage, error) {
	outputs, messages, err := i.Execute(ctx, code)
	if err != nil || len(messages) > 0 || len(outputs) == 0 {
		return nil, messages, err
	}
	return outputs[0], nil, nil
}

// excerpt dereferences (docId, nodePath) against the cached document,
// loading it from the document store on a cache miss, and builds an
// Excerpt node wrapping the addressed subtree.
func (i *instance) excerpt(docID, nodePath string) (schema.Excerpt, error) {
	root, ok := i.cache.get(docID)
	if !ok {
		loaded, err := i.docs.Load(docID)
		if err != nil {
			return schema.Excerpt{}, fmt.Errorf("database: load document %s: %w", docID, err)
		}
		root = loaded
		i.cache.put(docID, root)
	}

	addr, err := address.Parse(nodePath)
	if err != nil {
		return schema.Excerpt{}, fmt.Errorf("database: parse node path %q: %w", nodePath, err)
	}

	node, err := lookup(root, addr)
	if err != nil {
		return schema.Excerpt{}, err
	}

	var content schema.Blocks
	if block, ok := node.(schema.Block); ok {
		content = schema.Blocks{block}
	}

	return schema.Excerpt{
		Base:     schema.Base{ID: schema.NewID(schema.KindExcerpt)},
		Source:   docID,
		NodePath: nodePath,
		Content:  content,
	}, nil
}

// lookup walks root following addr's slots to the addressed node, using
// the same traversal schema.Walk drives, so graph-store-derived node
// paths resolve to the exact node they were projected from.
func lookup(root schema.Node, addr address.Address) (schema.Node, error) {
	var found schema.Node
	schema.Walk(root, func(a address.Address, n schema.Node) bool {
		if found != nil {
			return false
		}
		if a.String() == addr.String() {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("database: node path %s not found", addr.String())
	}
	return found, nil
}

func (i *instance) Replicate(ctx context.Context, bounds schema.ExecutionBounds) (kernel.Instance, error) {
	return nil, fmt.Errorf("database: kernel does not support replication")
}

func (i *instance) Stop(ctx context.Context) error { return nil }

func (i *instance) Interrupt(ctx context.Context) error {
	return fmt.Errorf("database: kernel does not support interrupt")
}

func (i *instance) Kill() error { return nil }
