// Copyright 2014 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package metrics exposes the Batcher's ambient observability surface
// through github.com/prometheus/client_golang.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Batcher bundles the gauges and histograms the batcher package
// updates. None of the batcher's control flow depends on these values;
// they exist so the flush pipeline is observable the way a production
// driver's would be.
type Batcher struct {
	OutstandingLookups prometheus.Gauge
	BufferedOps        prometheus.Gauge
	FlushLatency       prometheus.Histogram
	OpsInFlight        prometheus.Gauge
}

// NewBatcher registers a fresh set of Batcher metrics on reg. Passing a
// nil registry returns unregistered collectors, which is convenient in
// tests that don't want to share prometheus.DefaultRegisterer.
func NewBatcher(reg prometheus.Registerer) *Batcher {
	b := &Batcher{
		OutstandingLookups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ybclient",
			Subsystem: "batcher",
			Name:      "outstanding_lookups",
			Help:      "Number of tablet lookups in flight for the current batcher.",
		}),
		BufferedOps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ybclient",
			Subsystem: "batcher",
			Name:      "buffered_ops",
			Help:      "Number of ops resolved to a tablet and awaiting dispatch.",
		}),
		FlushLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ybclient",
			Subsystem: "batcher",
			Name:      "flush_latency_seconds",
			Help:      "Time from FlushAsync to the flush callback running.",
			Buckets:   prometheus.DefBuckets,
		}),
		OpsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ybclient",
			Subsystem: "batcher",
			Name:      "ops_in_flight",
			Help:      "Number of ops admitted to a batcher and not yet terminal.",
		}),
	}
	if reg != nil {
		reg.MustRegister(b.OutstandingLookups, b.BufferedOps, b.FlushLatency, b.OpsInFlight)
	}
	return b
}
