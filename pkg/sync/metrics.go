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

package sync

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsSyncT holds Prometheus metrics shared across the three adapters.
type metricsSyncT struct {
	once sync.Once

	objectPatchesEmitted prometheus.Counter
	objectResets         prometheus.Counter
	formatReparses       prometheus.Counter
	crdtMerges           prometheus.Counter
}

var metricsSync metricsSyncT

func (m *metricsSyncT) init() {
	m.once.Do(func() {
		m.objectPatchesEmitted = prometheus.NewCounter(prometheus.CounterOpts{Name: "stencila_sync_object_patches_emitted_total", Help: "Object-sync patches emitted to clients"})
		m.objectResets = prometheus.NewCounter(prometheus.CounterOpts{Name: "stencila_sync_object_resets_total", Help: "Object-sync reset patches emitted"})
		m.formatReparses = prometheus.NewCounter(prometheus.CounterOpts{Name: "stencila_sync_format_reparses_total", Help: "Format-sync reparses triggered by external edits"})
		m.crdtMerges = prometheus.NewCounter(prometheus.CounterOpts{Name: "stencila_sync_crdt_merges_total", Help: "CRDT-sync merges applied"})

		prometheus.MustRegister(
			m.objectPatchesEmitted, m.objectResets,
			m.formatReparses,
			m.crdtMerges,
		)
	})
}
