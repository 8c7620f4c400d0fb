// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import "testing"

func TestParetoEdgesRejectsEmptyInput(t *testing.T) {
	if _, err := ParetoEdges(nil, nil, 0); !IsKind(err, InvalidArgument) {
		t.Fatalf("ParetoEdges(nil, ...) = %v, want InvalidArgument", err)
	}
}

func TestParetoEdgesRejectsMismatchedDirected(t *testing.T) {
	a, _ := New(FlagDirected, 0)
	b, _ := New(0, 0)
	if _, err := ParetoEdges([]*Graph{a, b}, nil, 0); !IsKind(err, InvalidArgument) {
		t.Fatalf("ParetoEdges with mismatched DIRECTED = %v, want InvalidArgument", err)
	}
}

func TestParetoEdgesRanksHighMeanLowVarianceFirst(t *testing.T) {
	snapshots := make([]*Graph, 3)
	for i := range snapshots {
		g, err := New(FlagDirected, 0)
		if err != nil {
			t.Fatal(err)
		}
		snapshots[i] = g
	}
	// Edge (0,1) is stable at weight 10 across all snapshots.
	// Edge (2,3) swings between 1 and 9, same mean as a low-weight edge
	// but with high variance.
	snapshots[0].Set(0, 1, 10)
	snapshots[1].Set(0, 1, 10)
	snapshots[2].Set(0, 1, 10)
	snapshots[0].Set(2, 3, 1)
	snapshots[1].Set(2, 3, 9)
	snapshots[2].Set(2, 3, 5)

	result, err := ParetoEdges(snapshots, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	// The Pareto front sweep peels off the most dominant points (lowest
	// value2 = variance, scanned in ascending -mean order) first, at the
	// lowest weight; later, less dominant fronts accumulate higher
	// weight. The stable, zero-variance edge dominates and is swept
	// first.
	stable := result.Get(0, 1)
	volatile := result.Get(2, 3)
	if stable <= 0 || volatile <= 0 {
		t.Fatalf("expected both edges ranked, got stable=%v volatile=%v", stable, volatile)
	}
	if stable >= volatile {
		t.Fatalf("first-swept stable edge weight %v should be less than later-swept volatile edge weight %v", stable, volatile)
	}
	if result.flags&FlagPositive == 0 {
		t.Fatal("ParetoEdges result should carry FlagPositive")
	}
}

func TestParetoEdgesIdenticalCopiesSweepInOneFrontAtWeightOne(t *testing.T) {
	const k = 4
	snapshots := make([]*Graph, k)
	for i := range snapshots {
		g, err := New(FlagDirected, 0)
		if err != nil {
			t.Fatal(err)
		}
		// Every copy is bitwise the same graph, including equal weights
		// across edges, so every edge ties on both mean and variance.
		g.Set(0, 1, 3)
		g.Set(1, 2, 3)
		g.Set(2, 3, 3)
		snapshots[i] = g
	}

	result, err := ParetoEdges(snapshots, nil, 2)
	if err != nil {
		t.Fatal(err)
	}

	edges := [][2]uint64{{0, 1}, {1, 2}, {2, 3}}
	for _, e := range edges {
		w := result.Get(e[0], e[1])
		if w != 1 {
			t.Fatalf("Get(%d, %d) = %v, want 1 (every edge of k identical copies should sweep out in the first front)", e[0], e[1], w)
		}
	}
	if got := result.NumEdges(); got != len(edges) {
		t.Fatalf("NumEdges() = %d, want %d: some edge of the identical-copies graph was held back for a later sweep", got, len(edges))
	}
}

func TestParetoEdgesMultiplicativeBase(t *testing.T) {
	snapshots := []*Graph{}
	for i := 0; i < 2; i++ {
		g, _ := New(FlagDirected, 0)
		snapshots = append(snapshots, g)
	}
	snapshots[0].Set(0, 1, 10)
	snapshots[1].Set(0, 1, 10)
	snapshots[0].Set(1, 2, 1)
	snapshots[1].Set(1, 2, 1)

	result, err := ParetoEdges(snapshots, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	// Both edges are equally stable (zero variance) but (0,1) has the
	// higher mean, so it sweeps out first at w=1 while (1,2) waits for
	// the next sweep at w=1*2=2.
	if result.Get(0, 1) != 1 || result.Get(1, 2) != 2 {
		t.Fatalf("got (0,1)=%v (1,2)=%v, want 1 and 2", result.Get(0, 1), result.Get(1, 2))
	}
}
