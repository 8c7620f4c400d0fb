// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import (
	"math"
	"testing"
)

func TestDistanceWeightPrefersCheaperPath(t *testing.T) {
	g, err := New(FlagDirected, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Direct edge 0->2 costs 10; via 1 it costs 1+1=2.
	g.Set(0, 2, 10)
	g.Set(0, 1, 1)
	g.Set(1, 2, 1)

	w, err := g.DistanceWeight(0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if w != 2 {
		t.Fatalf("DistanceWeight(0, 2) = %v, want 2", w)
	}
}

func TestDistanceWeightUnreachableIsInfinite(t *testing.T) {
	g, err := New(FlagDirected, 0)
	if err != nil {
		t.Fatal(err)
	}
	g.Set(0, 1, 1)
	w, err := g.DistanceWeight(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(w, 1) {
		t.Fatalf("DistanceWeight to an unreachable node = %v, want +Inf", w)
	}
}

func TestAllDistancesCountRespectsMaxHops(t *testing.T) {
	g := buildTriangle(t)
	d, err := g.AllDistancesCount(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Has(0) || !d.Has(1) {
		t.Fatal("source and its direct neighbor should be within 1 hop")
	}
	if d.Has(4) {
		t.Fatal("node 4 is 3 hops away, should be excluded at maxCount=1")
	}
}

func TestAllDistancesWeightRespectsMaxWeight(t *testing.T) {
	g, err := New(FlagDirected, 0)
	if err != nil {
		t.Fatal(err)
	}
	g.Set(0, 1, 1)
	g.Set(1, 2, 1)
	g.Set(2, 3, 100)

	d, err := g.AllDistancesWeight(0, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Has(2) {
		t.Fatal("node 2 is reachable at cumulative weight 2, within budget")
	}
	if d.Has(3) {
		t.Fatal("node 3 needs cumulative weight 102, should be excluded")
	}
}

func TestAllDistancesGraphCoversEveryNode(t *testing.T) {
	g := buildTriangle(t)
	all, err := g.AllDistancesGraph(false)
	if err != nil {
		t.Fatal(err)
	}
	defer all.Free()
	if got := all.Get(0, 4); got != 3 {
		t.Fatalf("AllDistancesGraph hop count 0->4 = %v, want 3", got)
	}
}
