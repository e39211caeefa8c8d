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
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/stencila/engine/internal/bootstrap"
	"github.com/stencila/engine/internal/config"
	"github.com/stencila/engine/internal/errors"
	"github.com/stencila/engine/internal/ui"
)

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	projectID := fs.String("project-id", "", "Project identifier (default: current directory name)")
	engine := fs.String("engine", "rocksdb", "Graph store engine: rocksdb, sqlite, or mem")
	force := fs.Bool("force", false, "Overwrite an existing configuration")
	jsonOutput := fs.Bool("json", false, "Output JSON instead of human-readable text")
	_ = fs.Parse(args)

	ui.InitColors(false)

	cwd, err := os.Getwd()
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Cannot determine current directory",
			err.Error(),
			"Check system permissions and try again",
			err,
		), *jsonOutput)
	}

	id := *projectID
	if id == "" {
		id = filepath.Base(cwd)
	}

	configPath := config.ConfigPath(cwd)
	if _, err := os.Stat(configPath); err == nil && !*force {
		errors.FatalError(errors.NewConfigError(
			"Project already initialized",
			fmt.Sprintf("%s already exists", configPath),
			"Pass --force to overwrite the existing configuration",
			nil,
		), *jsonOutput)
	}

	cfg := config.DefaultConfig(id)
	cfg.GraphStore.Engine = *engine

	if err := config.SaveConfig(cfg, configPath); err != nil {
		errors.FatalError(err, *jsonOutput)
	}

	spinner := newSpinner("Creating graph store", *jsonOutput)
	info, err := bootstrap.InitProject(bootstrap.ProjectConfig{
		ProjectID: cfg.ProjectID,
		DataDir:   cfg.GraphStore.DataDir,
		Engine:    cfg.GraphStore.Engine,
	}, nil)
	stopSpinner(spinner)
	if err != nil {
		errors.FatalError(errors.NewDatabaseError(
			"Cannot initialize the graph store",
			err.Error(),
			"Check that the data directory is writable",
			err,
		), *jsonOutput)
	}

	if *jsonOutput {
		_ = outputJSON(map[string]any{
			"project_id": info.ProjectID,
			"data_dir":   info.DataDir,
			"engine":     info.Engine,
			"config":     configPath,
		})
		return
	}

	ui.Success(fmt.Sprintf("Initialized project %q", info.ProjectID))
	fmt.Printf("  config:    %s\n", configPath)
	fmt.Printf("  data dir:  %s\n", info.DataDir)
	fmt.Printf("  engine:    %s\n", info.Engine)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  stencila status   Show project graph store status")
	fmt.Println("  stencila query    Run a query against the graph store")
}
