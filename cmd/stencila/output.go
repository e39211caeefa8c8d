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
	"github.com/stencila/engine/internal/config"
	"github.com/stencila/engine/internal/errors"
	"github.com/stencila/engine/internal/output"
)

func outputJSON(data any) error {
	return output.JSON(data)
}

// loadProjectConfig loads the project configuration from configPath, or
// discovers it by walking up from the current directory when configPath is
// empty. It exits the process on failure, reporting the error in the
// requested output format.
func loadProjectConfig(configPath string, jsonOutput bool) *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, jsonOutput)
	}
	return cfg
}
