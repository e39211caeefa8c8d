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

package schema

// ExecutionMode controls whether an executable node runs automatically,
// only on demand, or is skipped entirely (spec §4.1, §6.1).
type ExecutionMode string

const (
	ExecutionModeDefault ExecutionMode = "Default"
	ExecutionModeNeed    ExecutionMode = "Need"
	ExecutionModeAlways  ExecutionMode = "Always"
	ExecutionModeLock    ExecutionMode = "Lock"
	ExecutionModeSkip    ExecutionMode = "Skip"
)

// ExecutionBounds constrains how much of the surrounding document state an
// execution may observe or mutate (spec §6.2).
type ExecutionBounds string

const (
	// BoundsMain executes against the document's live kernel instances.
	BoundsMain ExecutionBounds = "Main"
	// BoundsFork executes against a forked copy of kernel state; mutations
	// are discarded after execution.
	BoundsFork ExecutionBounds = "Fork"
	// BoundsBox executes against a fresh, empty kernel instance with no
	// access to the document's variables at all.
	BoundsBox ExecutionBounds = "Box"
)

// ExecutionStatus reports the outcome of the most recent execution attempt.
type ExecutionStatus string

const (
	ExecutionStatusScheduled ExecutionStatus = "Scheduled"
	ExecutionStatusRunning   ExecutionStatus = "Running"
	ExecutionStatusSucceeded ExecutionStatus = "Succeeded"
	ExecutionStatusWarnings  ExecutionStatus = "Warnings"
	ExecutionStatusErrors    ExecutionStatus = "Errors"
	ExecutionStatusException ExecutionStatus = "Exception"
	ExecutionStatusCancelled ExecutionStatus = "Cancelled"
	ExecutionStatusRejected  ExecutionStatus = "Rejected"
	ExecutionStatusPending   ExecutionStatus = "Pending"
	// ExecutionStatusEmpty marks a node that was run with no code to
	// execute (an empty or blank code string) rather than one that ran
	// and produced nothing.
	ExecutionStatusEmpty ExecutionStatus = "Empty"
)

// ExecutionRequired records whether a node's cached output is stale with
// respect to its own code/content and its upstream dependencies.
type ExecutionRequired string

const (
	ExecutionRequiredNo               ExecutionRequired = "No"
	ExecutionRequiredNeverExecuted    ExecutionRequired = "NeverExecuted"
	ExecutionRequiredSemanticsChanged ExecutionRequired = "SemanticsChanged"
	ExecutionRequiredDependenciesChanged ExecutionRequired = "DependenciesChanged"
	ExecutionRequiredExecutionFailed  ExecutionRequired = "ExecutionFailed"
)

// ExecutionDigest is a content hash pair used to detect when a node (or one
// of its dependencies) has changed since it was last executed (spec §6.3).
// Compilation covers the node's own code/content; execution additionally
// folds in the digests of anything it read.
type ExecutionDigest struct {
	StateDigest       string `json:"stateDigest,omitempty"`
	DependenciesDigest string `json:"dependenciesDigest,omitempty"`
}

// Equal reports whether two digests match exactly.
func (d ExecutionDigest) Equal(other ExecutionDigest) bool {
	return d.StateDigest == other.StateDigest && d.DependenciesDigest == other.DependenciesDigest
}

// Executable holds the fields common to every node type that can be run by
// the execution engine (code chunks, math blocks, if/for blocks, calls,
// chats, prompts). It is embedded, not inherited, following Go's
// composition-over-inheritance idiom.
type Executable struct {
	ExecutionMode     ExecutionMode     `json:"executionMode,omitempty"`
	ExecutionBounds   ExecutionBounds   `json:"executionBounds,omitempty"`
	ExecutionStatus   ExecutionStatus   `json:"executionStatus,omitempty"`
	ExecutionRequired ExecutionRequired `json:"executionRequired,omitempty"`
	CompilationDigest ExecutionDigest   `json:"compilationDigest,omitempty"`
	ExecutionDigest   ExecutionDigest   `json:"executionDigest,omitempty"`
	ExecutionMessages []ExecutionMessage `json:"executionMessages,omitempty"`
	ExecutionDuration float64           `json:"executionDuration,omitempty"`
	ExecutionEnded    string            `json:"executionEnded,omitempty"`
	ExecutionCount    int               `json:"executionCount,omitempty"`
}

// ExecutionMessage is a diagnostic emitted during compilation or execution.
type ExecutionMessage struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Trace   string `json:"stackTrace,omitempty"`
}

// Dirty reports whether the node needs to be (re-)executed.
func (e Executable) Dirty() bool {
	return e.ExecutionRequired != "" && e.ExecutionRequired != ExecutionRequiredNo
}
