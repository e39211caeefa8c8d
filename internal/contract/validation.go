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

package contract

import (
	"os"
	"strconv"
)

const (
	// DefaultSoftLimitBytes is the baseline soft limit for a query script.
	DefaultSoftLimitBytes = 64 << 20 // 64 MiB

	// RequestIDMaxBytes is the maximum length for a sync request_id field.
	RequestIDMaxBytes = 128
)

// SoftLimitBytes returns the effective soft limit for a query script's
// size, controlled via env STENCILA_QUERY_SOFT_LIMIT_BYTES and falling
// back to DefaultSoftLimitBytes.
func SoftLimitBytes() int {
	if v := os.Getenv("STENCILA_QUERY_SOFT_LIMIT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultSoftLimitBytes
}

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	OK      bool
	Message string
}

// ValidateQueryScript performs basic validation on a DocsQL/CozoScript
// query before it's sent to the graph store: just a size check.
func ValidateQueryScript(script string) *ValidationResult {
	if len(script) > SoftLimitBytes() {
		return &ValidationResult{
			OK:      false,
			Message: "query exceeds soft limit",
		}
	}
	return &ValidationResult{OK: true}
}
