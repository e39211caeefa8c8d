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

// Package cozodb provides a Go binding for CozoDB v0.7.6+, the embedded
// Datalog database pkg/graphstore projects a document tree into (spec
// §4.13): one node table per node variant plus relationship tables, with
// FTS and HNSW vector indices.
//
// # Requirements
//
// This package requires CGO and the CozoDB C library (libcozo_c). Build
// with:
//
//	CGO_ENABLED=1 go build
//
// # Storage engines
//
//	"mem"     - in-memory, not persisted (tests)
//	"sqlite"  - single-file persistence
//	"rocksdb" - production persistence
//
// # Quick start
//
//	db, err := cozodb.Open("rocksdb", "/path/to/data", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	result, err := db.Run(`?[x] := x = 1 + 1`, nil)
//
// # Read-only queries
//
// RunReadOnly enforces read-only semantics at the database level; this is
// what the DocsQL sub-query layer (spec §4.14) uses so a malformed
// template expression can never mutate the graph.
//
//	result, err := db.RunReadOnly(`?[nodeId, content_text] := *paragraph{nodeId, content_text}`, nil)
package cozodb
