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

// Package docsql implements the DocsQL sub-query layer (spec §4.14): a
// small tree-query DSL of callable objects (`_authors`, `_references`,
// `_codeChunks`, `_paragraphs`, ...) that build Cypher-shaped MATCH
// patterns over the graph store, each extended by chained method calls and
// `propertyName__op` keyword filters. The template kernel evaluates
// expressions written against this vocabulary.
package docsql

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultRelation is the MATCH-pattern hop used when a subquery's edge
// isn't one of the named reference relations (spec §4.13's "owns"
// structural edge).
const DefaultRelation = "-[:owns]->"

// namedSubqueries maps a subquery function's public name (used as
// "_"+name in an expression) to the relation hop and target table it
// matches against. Mirrors the table the teacher's ingestion-adjacent
// concerns never modeled but the original source's
// add_subquery_functions registry enumerates for document queries.
var namedSubqueries = map[string]struct {
	relation string
	table    string
}{
	"authors":       {"-[:authored_by]->", "person"},
	"references":    {"-[:cites]->", "reference"},
	"cites":         {"-[:cites]->", "reference"},
	"includes":      {"-[:includes]->", "article"},
	"calls":         {"-[:calls]->", "article"},
	"organizations": {"-[:affiliated_with]->", "organization"},
	"affiliations":  {"-[:affiliated_with]->", "organization"},
	"codeChunks":    {DefaultRelation, "code_chunk"},
	"chunks":        {DefaultRelation, "code_chunk"},
	"mathBlocks":    {DefaultRelation, "math_block"},
	"paragraphs":    {DefaultRelation, "paragraph"},
	"headings":      {DefaultRelation, "heading"},
	"lists":         {DefaultRelation, "list"},
	"sections":      {DefaultRelation, "section"},
	"tables":        {DefaultRelation, "table"},
	"figures":       {DefaultRelation, "figure"},
	"quoteBlocks":   {DefaultRelation, "quote_block"},
}

// tableForMethod resolves a chained method name (e.g. `.references()`) to
// the table it matches against, the same lookup namedSubqueries serves
// for top-level `_name(...)` calls.
func tableForMethod(name string) (string, error) {
	entry, ok := namedSubqueries[name]
	if !ok {
		return "", fmt.Errorf("docsql: unknown subquery method %q", name)
	}
	return entry.table, nil
}

// relationBetweenTables picks the MATCH-pattern hop into table. Only table
// is consulted (lastTable is not used): a namedSubqueries entry whose table
// matches supplies its relation, and a table with no entry falls back to
// the structural "owns" edge. When several entries name the same table with
// different relations, which of them is returned is not defined.
func relationBetweenTables(lastTable, table string) string {
	for _, entry := range namedSubqueries {
		if entry.table == table {
			return entry.relation
		}
	}
	return DefaultRelation
}

// aliasForTable derives a short Cypher alias from a table name: its first
// rune, lowercased, which is enough to disambiguate the handful of tables
// that appear in one query.
func aliasForTable(table string) string {
	if table == "" {
		return "n"
	}
	return strings.ToLower(table[:1])
}

// decodeFilter splits a `propertyName__op` keyword-argument name into its
// property and operator parts. Operator defaults to "eq" when absent.
func decodeFilter(argName string) (property, operator string) {
	idx := strings.LastIndex(argName, "__")
	if idx < 0 {
		return argName, "eq"
	}
	return argName[:idx], argName[idx+2:]
}

// cypherOperators maps a decoded operator suffix to its Cypher symbol.
var cypherOperators = map[string]string{
	"eq":       "=",
	"ne":       "<>",
	"gt":       ">",
	"gte":      ">=",
	"lt":       "<",
	"lte":      "<=",
	"contains": "CONTAINS",
	"startswith": "STARTS WITH",
	"endswith":   "ENDS WITH",
}

// applyFilter renders one keyword filter as a Cypher WHERE predicate
// fragment, e.g. `p.year >= 2020`. The special property name "count"
// instead produces a "_COUNT "-prefixed marker the Subquery builder
// recognizes and lifts into a `COUNT { ... } <cond>` wrapper rather than
// an ordinary AND-ed predicate (spec §4.14).
func applyFilter(alias, argName string, value any) (string, error) {
	property, operator := decodeFilter(argName)
	if property == "count" {
		cond, err := renderValue(value)
		if err != nil {
			return "", err
		}
		sym, ok := cypherOperators[operator]
		if !ok {
			sym = cypherOperators["eq"]
		}
		return "_COUNT " + sym + " " + cond, nil
	}

	sym, ok := cypherOperators[operator]
	if !ok {
		return "", fmt.Errorf("docsql: unknown filter operator %q", operator)
	}
	rendered, err := renderValue(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s %s %s", alias, property, sym, rendered), nil
}

// renderValue renders a Go value as a Cypher literal.
func renderValue(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("docsql: unsupported filter value type %T", value)
	}
}
