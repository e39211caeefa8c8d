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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/stencila/engine/internal/errors"
	"github.com/stencila/engine/internal/ui"
)

func runReset(args []string, configPath string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	jsonOutput := fs.Bool("json", false, "Output JSON instead of human-readable text")
	_ = fs.Parse(args)

	cfg := loadProjectConfig(configPath, *jsonOutput)

	dataDir := cfg.GraphStore.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = defaultDataDirFor(cfg.ProjectID)
		if err != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot determine the graph store data directory",
				err.Error(),
				"Set graph_store.data_dir explicitly in .stencila/project.yaml",
				err,
			), *jsonOutput)
		}
	}

	if !*yes {
		fmt.Printf("This will permanently delete all data in %s\n", dataDir)
		fmt.Print("Type the project id to confirm: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(line) != cfg.ProjectID {
			ui.Error("Confirmation did not match, aborting")
			os.Exit(1)
		}
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		if *jsonOutput {
			_ = outputJSON(map[string]any{"project_id": cfg.ProjectID, "data_dir": dataDir, "removed": false})
			return
		}
		ui.Warning(fmt.Sprintf("Nothing to reset, %s does not exist", dataDir))
		return
	}

	spinner := newSpinner("Removing graph store data", *jsonOutput)
	err := os.RemoveAll(dataDir)
	stopSpinner(spinner)
	if err != nil {
		errors.FatalError(errors.NewPermissionError(
			"Cannot remove the graph store data directory",
			err.Error(),
			"Check file permissions and try again",
			err,
		), *jsonOutput)
	}

	if *jsonOutput {
		_ = outputJSON(map[string]any{"project_id": cfg.ProjectID, "data_dir": dataDir, "removed": true})
		return
	}

	ui.Success(fmt.Sprintf("Reset project %q", cfg.ProjectID))
}

func defaultDataDirFor(projectID string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stencila", "graph", projectID), nil
}
