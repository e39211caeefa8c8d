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

// Package config loads and saves a project's .stencila/project.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stencila/engine/internal/errors"
)

const (
	defaultConfigDir  = ".stencila"
	defaultConfigFile = "project.yaml"
	configVersion     = "1"
)

// Config represents the .stencila/project.yaml configuration file.
type Config struct {
	Version    string           `yaml:"version"`
	ProjectID  string           `yaml:"project_id"`
	GraphStore GraphStoreConfig `yaml:"graph_store"`
	LLM        LLMConfig        `yaml:"llm,omitempty"`
	Truncation TruncationConfig `yaml:"truncation,omitempty"`
}

// GraphStoreConfig configures the project's graph store backend.
type GraphStoreConfig struct {
	Engine  string `yaml:"engine"`            // rocksdb, sqlite, or mem
	DataDir string `yaml:"data_dir,omitempty"` // defaults to ~/.stencila/graph/<project_id>
}

// LLMConfig holds model provider settings (pkg/llm). Nothing in this module
// copies them into pkg/exec's Executor.LLM.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"` // ollama, openai, anthropic, mock
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// TruncationConfig holds per-tool output limit overrides layered on top of
// pkg/truncate's DefaultPolicies.
type TruncationConfig struct {
	ToolOutputLimits map[string]int `yaml:"tool_output_limits,omitempty"`
	ToolLineLimits   map[string]int `yaml:"tool_line_limits,omitempty"`
}

// DefaultConfig returns a config with sensible defaults for local
// development: an embedded rocksdb graph store and no model provider
// configured.
func DefaultConfig(projectID string) *Config {
	return &Config{
		Version:   configVersion,
		ProjectID: projectID,
		GraphStore: GraphStoreConfig{
			Engine: "rocksdb",
		},
	}
}

// LoadConfig loads configuration from the specified path, or finds it
// automatically by walking up from the current directory. The
// STENCILA_CONFIG_PATH environment variable overrides the search path.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv("STENCILA_CONFIG_PATH")
	}
	if configPath == "" {
		var err error
		configPath, err = findConfigFile()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path comes from user config or discovery
	if err != nil {
		return nil, errors.NewConfigError(
			"Cannot read the project configuration",
			fmt.Sprintf("Failed to read %s", configPath),
			"Check file permissions and ensure the file exists",
			err,
		)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError(
			"Invalid configuration format",
			"YAML parsing failed - the config file contains syntax errors",
			fmt.Sprintf("Edit %s to fix syntax errors, or run 'stencila init --force' to recreate", configPath),
			err,
		)
	}

	if cfg.Version != configVersion {
		return nil, errors.NewConfigError(
			"Unsupported configuration version",
			fmt.Sprintf("Config version '%s' is not supported (expected '%s')", cfg.Version, configVersion),
			"Run 'stencila init --force' to regenerate the configuration file",
			nil,
		)
	}

	cfg.applyEnvOverrides()
	return &cfg, nil
}

// SaveConfig writes the configuration to the specified path as YAML,
// creating the containing directory if necessary.
func SaveConfig(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewInternalError(
			"Cannot encode configuration",
			"YAML marshaling failed unexpectedly",
			"This is a bug. Please report it with your configuration details",
			err,
		)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.NewPermissionError(
			"Cannot create configuration directory",
			fmt.Sprintf("Permission denied creating %s", dir),
			"Check directory permissions or run with appropriate privileges",
			err,
		)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.NewPermissionError(
			"Cannot write configuration file",
			fmt.Sprintf("Permission denied writing to %s", configPath),
			"Check file permissions and ensure sufficient disk space",
			err,
		)
	}

	return nil
}

// ConfigPath returns the path to the config file in the given directory:
// <dir>/.stencila/project.yaml.
func ConfigPath(dir string) string {
	return filepath.Join(dir, defaultConfigDir, defaultConfigFile)
}

// ConfigDir returns the path to the .stencila directory in the given
// directory.
func ConfigDir(dir string) string {
	return filepath.Join(dir, defaultConfigDir)
}

// findConfigFile searches for .stencila/project.yaml in the current and
// parent directories.
func findConfigFile() (string, error) {
	if configPath := os.Getenv("STENCILA_CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
		return "", errors.NewConfigError(
			"Configuration file not found",
			fmt.Sprintf("STENCILA_CONFIG_PATH is set to '%s' but the file does not exist", configPath),
			"Fix the STENCILA_CONFIG_PATH environment variable or run 'stencila init' to create a config",
			nil,
		)
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", errors.NewInternalError(
			"Cannot access working directory",
			"Failed to determine current directory path",
			"Check system permissions and try again",
			err,
		)
	}

	for {
		configPath := ConfigPath(dir)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.NewConfigError(
		"Configuration not found",
		"No .stencila/project.yaml file found in current directory or any parent directory",
		"Run 'stencila init' to create a new configuration",
		nil,
	)
}

// applyEnvOverrides applies environment variable overrides to the
// configuration, taking precedence over file-based configuration:
//   - STENCILA_PROJECT_ID: override project identifier
//   - STENCILA_GRAPH_ENGINE: override the graph store engine
//   - STENCILA_GRAPH_DATA_DIR: override the graph store data directory
//
// OLLAMA_HOST / OPENAI_API_KEY / ANTHROPIC_API_KEY are not read here and do
// not change llm.provider; pkg/llm.DefaultProvider reads them when called.
func (c *Config) applyEnvOverrides() {
	if id := os.Getenv("STENCILA_PROJECT_ID"); id != "" {
		c.ProjectID = id
	}
	if engine := os.Getenv("STENCILA_GRAPH_ENGINE"); engine != "" {
		c.GraphStore.Engine = engine
	}
	if dir := os.Getenv("STENCILA_GRAPH_DATA_DIR"); dir != "" {
		c.GraphStore.DataDir = dir
	}
}
