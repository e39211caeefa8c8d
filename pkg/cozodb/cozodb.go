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

package cozodb

/*
#include <stdlib.h>
#include <string.h>
#include "cozo_c.h"

#cgo LDFLAGS: -L${SRCDIR}/../../lib -lcozo_c -lstdc++ -lm
#cgo windows LDFLAGS: -lbcrypt -lwsock32 -lws2_32 -lshlwapi -lrpcrt4
#cgo darwin LDFLAGS: -framework Security
*/
import "C"

import (
	"encoding/json"
	"errors"
	"fmt"
	"unsafe"
)

// DB is an open CozoDB database instance.
type DB struct {
	id     C.int32_t
	closed bool
}

// NamedRows is the result of a query: column headers plus data rows.
type NamedRows struct {
	Headers []string
	Rows    [][]any
}

// Open opens a CozoDB database.
//
// engine is the storage backend ("mem", "sqlite", or "rocksdb"); path is
// the database directory (ignored for "mem"); options are engine-specific
// and may be nil.
func Open(engine, path string, options map[string]any) (DB, error) {
	cEngine := C.CString(engine)
	defer C.free(unsafe.Pointer(cEngine))

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	optionsJSON := "{}"
	if len(options) > 0 {
		optBytes, err := json.Marshal(options)
		if err != nil {
			return DB{}, fmt.Errorf("cozodb: marshal options: %w", err)
		}
		optionsJSON = string(optBytes)
	}
	cOptions := C.CString(optionsJSON)
	defer C.free(unsafe.Pointer(cOptions))

	var dbID C.int32_t
	errPtr := C.cozo_open_db(cEngine, cPath, cOptions, &dbID)
	if errPtr != nil {
		errMsg := C.GoString(errPtr)
		C.cozo_free_str(errPtr)
		return DB{}, errors.New(errMsg)
	}

	return DB{id: dbID}, nil
}

// Run executes a CozoScript query, allowing writes.
func (db *DB) Run(script string, params map[string]any) (NamedRows, error) {
	return db.runQuery(script, params, false)
}

// RunReadOnly executes a CozoScript query with immutable_query set, so any
// write operation in script fails rather than mutating the database. The
// graph store uses this for DocsQL sub-queries (spec §4.14).
func (db *DB) RunReadOnly(script string, params map[string]any) (NamedRows, error) {
	return db.runQuery(script, params, true)
}

func (db *DB) runQuery(script string, params map[string]any, immutable bool) (NamedRows, error) {
	if db.closed {
		return NamedRows{}, errors.New("cozodb: database is closed")
	}

	cScript := C.CString(script)
	defer C.free(unsafe.Pointer(cScript))

	paramsJSON := "{}"
	if len(params) > 0 {
		paramBytes, err := json.Marshal(params)
		if err != nil {
			return NamedRows{}, fmt.Errorf("cozodb: marshal params: %w", err)
		}
		paramsJSON = string(paramBytes)
	}
	cParams := C.CString(paramsJSON)
	defer C.free(unsafe.Pointer(cParams))

	resultPtr := C.cozo_run_query(db.id, cScript, cParams, C.bool(immutable))
	if resultPtr == nil {
		return NamedRows{}, errors.New("cozodb: cozo_run_query returned null")
	}

	resultJSON := C.GoString(resultPtr)
	C.cozo_free_str(resultPtr)

	return parseResult(resultJSON)
}

// Close closes the database connection.
func (db *DB) Close() bool {
	if db.closed {
		return false
	}
	db.closed = true
	return bool(C.cozo_close_db(db.id))
}

func parseResult(jsonStr string) (NamedRows, error) {
	var result struct {
		OK      bool     `json:"ok"`
		Headers []string `json:"headers"`
		Rows    [][]any  `json:"rows"`
		Message string   `json:"message"`
		Display string   `json:"display"`
	}

	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return NamedRows{}, fmt.Errorf("cozodb: parse result: %w", err)
	}

	if !result.OK {
		errMsg := result.Message
		if errMsg == "" {
			errMsg = result.Display
		}
		if errMsg == "" {
			errMsg = "cozodb: query failed"
		}
		return NamedRows{}, errors.New(errMsg)
	}

	return NamedRows{Headers: result.Headers, Rows: result.Rows}, nil
}

// Backup writes a backup of the database to outPath.
func (db *DB) Backup(outPath string) error {
	if db.closed {
		return errors.New("cozodb: database is closed")
	}
	cPath := C.CString(outPath)
	defer C.free(unsafe.Pointer(cPath))

	resultPtr := C.cozo_backup(db.id, cPath)
	if resultPtr == nil {
		return errors.New("cozodb: cozo_backup returned null")
	}
	return parseOKResult(resultPtr)
}

// Restore restores the database from a backup file.
func (db *DB) Restore(inPath string) error {
	if db.closed {
		return errors.New("cozodb: database is closed")
	}
	cPath := C.CString(inPath)
	defer C.free(unsafe.Pointer(cPath))

	resultPtr := C.cozo_restore(db.id, cPath)
	if resultPtr == nil {
		return errors.New("cozodb: cozo_restore returned null")
	}
	return parseOKResult(resultPtr)
}

// ImportRelations loads rows into relations from a JSON payload, used to
// seed the graph store's node/relationship tables in bulk (spec §4.13).
func (db *DB) ImportRelations(jsonPayload string) error {
	if db.closed {
		return errors.New("cozodb: database is closed")
	}
	cPayload := C.CString(jsonPayload)
	defer C.free(unsafe.Pointer(cPayload))

	resultPtr := C.cozo_import_relations(db.id, cPayload)
	if resultPtr == nil {
		return errors.New("cozodb: cozo_import_relations returned null")
	}
	return parseOKResult(resultPtr)
}

// ExportRelations exports the relations named in jsonPayload to JSON.
func (db *DB) ExportRelations(jsonPayload string) (string, error) {
	if db.closed {
		return "", errors.New("cozodb: database is closed")
	}
	cPayload := C.CString(jsonPayload)
	defer C.free(unsafe.Pointer(cPayload))

	resultPtr := C.cozo_export_relations(db.id, cPayload)
	if resultPtr == nil {
		return "", errors.New("cozodb: cozo_export_relations returned null")
	}
	resultJSON := C.GoString(resultPtr)
	C.cozo_free_str(resultPtr)
	return resultJSON, nil
}

func parseOKResult(resultPtr *C.char) error {
	resultJSON := C.GoString(resultPtr)
	C.cozo_free_str(resultPtr)

	var result struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return fmt.Errorf("cozodb: parse result: %w", err)
	}
	if !result.OK {
		return errors.New(result.Message)
	}
	return nil
}
