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

// Package main implements a thin entrypoint binary wiring the engine's
// packages (graph store, execution engine, codecs, sync) into a handful of
// operator commands. It is not a product CLI: the engine is meant to be
// embedded as a library, and this binary exists to drive it from a
// terminal for local development and scripting.
//
// Usage:
//
//	stencila init                  Create .stencila/project.yaml
//	stencila status [--json]       Show project graph store status
//	stencila query <cozoscript>    Run a query against the graph store
//	stencila reset --yes           Delete the project's local data
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to .stencila/project.yaml (default: ./.stencila/project.yaml)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `stencila - document execution engine (entrypoint binary)

Usage:
  stencila <command> [options]

Commands:
  init      Create .stencila/project.yaml configuration
  status    Show project graph store status
  query     Execute a CozoScript query against the graph store
  reset     Delete the project's local graph store data (destructive!)

Global Options:
  --config      Path to .stencila/project.yaml
  --version     Show version and exit

Examples:
  stencila init
  stencila status --json
  stencila query "?[title] := *article { title }"
  stencila reset --yes

Data Storage:
  Data is stored locally in ~/.stencila/graph/<project_id>/

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("stencila version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "init":
		runInit(cmdArgs)
	case "status":
		runStatus(cmdArgs, *configPath)
	case "query":
		runQuery(cmdArgs, *configPath)
	case "reset":
		runReset(cmdArgs, *configPath)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
