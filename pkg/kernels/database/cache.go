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

package database

import (
	"container/list"
	"sync"

	"github.com/stencila/engine/pkg/schema"
)

// documentCache is a fixed-capacity, least-recently-used cache of loaded
// document roots keyed by docId (spec §5: "bounded (capacity 10) and
// cleared on store rebinding"). No pack library provides a generic LRU, so
// this is built directly on container/list, the same pairing
// Go's own documentation recommends for an LRU.
type documentCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry struct {
	docID string
	root  schema.Node
}

func newDocumentCache(capacity int) *documentCache {
	return &documentCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

func (c *documentCache) get(docID string) (schema.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[docID]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).root, true
}

func (c *documentCache) put(docID string, root schema.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[docID]; ok {
		el.Value.(*cacheEntry).root = root
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheEntry{docID: docID, root: root})
	c.entries[docID] = el

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).docID)
		}
	}
}

func (c *documentCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}
