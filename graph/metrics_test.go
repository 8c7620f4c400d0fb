// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewMetricsRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("NewMetrics returned a nil Metrics with no error")
	}
	// A labelled counter vector is only gathered once it has a child.
	m.recordRehash("grow")

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(families) != 3 {
		t.Fatalf("registered %d metric families, want 3", len(families))
	}
}

func TestNewMetricsRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMetrics(reg); err != nil {
		t.Fatal(err)
	}
	if _, err := NewMetrics(reg); err == nil {
		t.Fatal("second NewMetrics against the same registry should fail on duplicate collectors")
	}
}

func TestNilMetricsRecordIsSafe(t *testing.T) {
	var m *Metrics
	m.recordRehash("grow")
	m.recordBFSPop()
	m.recordPowerIteration()
}

func TestSetMetricsDrivesRehashCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	g, err := New(FlagDirected, 0)
	if err != nil {
		t.Fatal(err)
	}
	g.SetMetrics(m)
	for i := uint64(0); i < 4000; i++ {
		g.Set(i, i+1, 1)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var sawRehash bool
	for _, f := range families {
		if f.GetName() == "tvgraph_rehashes_total" {
			for _, metric := range f.GetMetric() {
				if metric.GetCounter().GetValue() > 0 {
					sawRehash = true
				}
			}
		}
	}
	if !sawRehash {
		t.Fatal("expected at least one recorded rehash after 4000 inserts")
	}
}
