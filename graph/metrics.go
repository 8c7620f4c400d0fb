// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus collectors for the engine's internal work:
// table rehashes, BFS frontier pops, and power-iteration steps. A nil
// *Metrics is always safe to call through; Graph.SetMetrics is the only
// way to turn instrumentation on for a given Graph. Vector is not
// instrumented.
type Metrics struct {
	rehashes   *prometheus.CounterVec
	bfsPops    prometheus.Counter
	powerIters prometheus.Counter
}

// NewMetrics builds and registers a Metrics with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		rehashes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tvgraph",
			Name:      "rehashes_total",
			Help:      "Number of bucket-table rehashes performed, by direction.",
		}, []string{"direction"}),
		bfsPops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tvgraph",
			Name:      "bfs_pops_total",
			Help:      "Number of nodes popped from a BFS frontier.",
		}),
		powerIters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tvgraph",
			Name:      "power_iterations_total",
			Help:      "Number of power-iteration steps performed.",
		}),
	}
	for _, c := range []prometheus.Collector{m.rehashes, m.bfsPops, m.powerIters} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordRehash(direction string) {
	if m == nil {
		return
	}
	m.rehashes.WithLabelValues(direction).Inc()
}

func (m *Metrics) recordBFSPop() {
	if m == nil {
		return
	}
	m.bfsPops.Inc()
}

func (m *Metrics) recordPowerIteration() {
	if m == nil {
		return
	}
	m.powerIters.Inc()
}
