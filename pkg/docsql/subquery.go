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

package docsql

import (
	"fmt"
	"sort"
	"strings"
)

// Subquery is a callable query object built incrementally by chained
// method calls and keyword filters, then rendered into an EXISTS{...} or
// COUNT{...} Cypher fragment (spec §4.14).
type Subquery struct {
	// pattern is the MATCH pattern hops appended by chained method calls;
	// the hop from the outer alias to firstTable is prepended at
	// Generate time, since the outer alias isn't known until then.
	pattern string

	firstRelation string
	firstTable    string
	lastTable     string

	ands []string

	// count holds the comparison text from a `count__op=n` filter, e.g.
	// "= 3" or ">= 1".
	count string

	// rawFilters preserves each keyword filter's property/operator/value
	// triple, uninterpreted, for callers translating to an API other than
	// Cypher (e.g. an external literature-search provider).
	rawFilters []RawFilter

	// queryObjects holds nested Subqueries passed as a positional
	// argument to Call. They are only recorded: the generated query does
	// not include them or filter on their node ids.
	queryObjects []*Subquery
}

// RawFilter is one undecoded keyword filter.
type RawFilter struct {
	Property string
	Operator string
	Value    any
}

// New constructs the subquery named by name (e.g. "authors", "codeChunks"),
// the entry point for a top-level `_name(...)` call in an expression.
func New(name string) (*Subquery, error) {
	entry, ok := namedSubqueries[name]
	if !ok {
		return nil, fmt.Errorf("docsql: unknown subquery %q", name)
	}
	return &Subquery{firstRelation: entry.relation, firstTable: entry.table, lastTable: entry.table}, nil
}

// clone returns a shallow copy of s so Call/Method can return a new value
// rather than mutating the receiver, matching the original's
// clone-then-extend builder style.
func (s *Subquery) clone() *Subquery {
	c := *s
	c.ands = append([]string(nil), s.ands...)
	c.rawFilters = append([]RawFilter(nil), s.rawFilters...)
	c.queryObjects = append([]*Subquery(nil), s.queryObjects...)
	return &c
}

// Call applies this subquery's own keyword filters (the arguments passed
// to the initial `_name(...)` call), and records nested, when non-nil, in
// queryObjects without applying it as a filter. kwargs keys use the
// `propertyName__op` convention; nested may be nil.
func (s *Subquery) Call(nested *Subquery, kwargs map[string]any) (*Subquery, error) {
	next := s.clone()
	if nested != nil {
		next.queryObjects = append(next.queryObjects, nested)
	}

	alias := aliasForTable(s.firstTable)
	if err := next.applyKwargs(alias, kwargs); err != nil {
		return nil, err
	}
	return next, nil
}

// Method extends the pattern with a chained call like `.references(...)`,
// matching from the subquery's current last table to the method's table.
func (s *Subquery) Method(name string, kwargs map[string]any) (*Subquery, error) {
	table, err := tableForMethod(name)
	if err != nil {
		return nil, err
	}
	next := s.clone()

	relation := relationBetweenTables(next.lastTable, table)
	alias := aliasForTable(table)
	next.pattern += fmt.Sprintf("%s(%s:%s)", relation, alias, table)
	next.lastTable = table

	if err := next.applyKwargs(alias, kwargs); err != nil {
		return nil, err
	}
	return next, nil
}

// applyKwargs renders each keyword filter against alias and files it
// either into ands or, for a "count" filter, into the count wrapper.
func (s *Subquery) applyKwargs(alias string, kwargs map[string]any) error {
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic generated Cypher for tests/golden output

	for _, argName := range keys {
		value := kwargs[argName]
		filter, err := applyFilter(alias, argName, value)
		if err != nil {
			return err
		}
		if rest, ok := strings.CutPrefix(filter, "_COUNT "); ok {
			if s.count != "" {
				return fmt.Errorf("docsql: only one count filter allowed per call")
			}
			s.count = rest
			continue
		}
		s.ands = append(s.ands, filter)
		property, operator := decodeFilter(argName)
		s.rawFilters = append(s.rawFilters, RawFilter{Property: property, Operator: operator, Value: value})
	}
	return nil
}

// Generate renders the subquery as a Cypher EXISTS{...} or COUNT{...}
// fragment, matched from outer alias.
func (s *Subquery) Generate(alias string) string {
	firstAlias := aliasForTable(s.firstTable)
	cypher := fmt.Sprintf("MATCH (%s)%s(%s:%s)%s", alias, s.firstRelation, firstAlias, s.firstTable, s.pattern)

	if len(s.ands) > 0 {
		cypher += " WHERE " + strings.Join(s.ands, " AND ")
	}

	if s.count != "" {
		return fmt.Sprintf("COUNT { %s } %s", cypher, s.count)
	}
	return fmt.Sprintf("EXISTS { %s }", cypher)
}

// RawFilters returns the undecoded filters applied anywhere in the chain,
// for callers translating this subquery to a non-Cypher API.
func (s *Subquery) RawFilters() []RawFilter {
	return s.rawFilters
}
