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

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/stencila/engine/internal/bootstrap"
	"github.com/stencila/engine/internal/contract"
	"github.com/stencila/engine/internal/errors"
	cozo "github.com/stencila/engine/pkg/cozodb"
)

func runQuery(args []string, configPath string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output JSON instead of a table")
	timeout := fs.Duration("timeout", 30*time.Second, "Query timeout")
	_ = fs.Parse(args)

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: stencila query [options] <cozoscript>")
		os.Exit(1)
	}
	script := strings.Join(rest, " ")

	if v := contract.ValidateQueryScript(script); !v.OK {
		errors.FatalError(errors.NewInputError(
			"Query script rejected",
			v.Message,
			"Break the query into smaller pieces or raise STENCILA_QUERY_SOFT_LIMIT_BYTES",
		), *jsonOutput)
	}

	cfg := loadProjectConfig(configPath, *jsonOutput)

	store, err := bootstrap.OpenProject(bootstrap.ProjectConfig{
		ProjectID: cfg.ProjectID,
		DataDir:   cfg.GraphStore.DataDir,
		Engine:    cfg.GraphStore.Engine,
	}, nil)
	if err != nil {
		errors.FatalError(errors.NewDatabaseError(
			"Cannot open the project graph store",
			err.Error(),
			"Run 'stencila init' if the project hasn't been initialized",
			err,
		), *jsonOutput)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rows, err := store.Query(ctx, script, nil)
	if err != nil {
		errors.FatalError(errors.NewDatabaseError(
			"Query failed",
			err.Error(),
			"Check the CozoScript syntax and table/column names",
			err,
		), *jsonOutput)
	}

	if *jsonOutput {
		_ = outputJSON(map[string]any{
			"headers": rows.Headers,
			"rows":    rows.Rows,
		})
		return
	}

	printQueryResult(rows)
}

func printQueryResult(rows cozo.NamedRows) {
	if len(rows.Rows) == 0 {
		fmt.Println("(no results)")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, strings.Join(rows.Headers, "\t"))
	for _, row := range rows.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
}

func formatCell(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
