// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import "testing"

func TestGraphGrowsUnderSustainedInserts(t *testing.T) {
	g, err := New(FlagDirected, 0)
	if err != nil {
		t.Fatal(err)
	}
	const n = 4000
	for i := uint64(0); i < n; i++ {
		if err := g.Set(i, i+1, 1); err != nil {
			t.Fatalf("Set(%d, %d): %v", i, i+1, err)
		}
	}
	if g.bitsSource+g.bitsTarget == 0 {
		t.Fatal("table never grew past its initial single bucket")
	}
	for i := uint64(0); i < n; i++ {
		if got := g.Get(i, i+1); got != 1 {
			t.Fatalf("Get(%d, %d) = %v, want 1 after growth", i, i+1, got)
		}
	}
}

func TestGraphShrinksAfterBulkDelete(t *testing.T) {
	g, err := New(FlagDirected, 0)
	if err != nil {
		t.Fatal(err)
	}
	const n = 4000
	for i := uint64(0); i < n; i++ {
		g.Set(i, i+1, 1)
	}
	grownBits := g.bitsSource + g.bitsTarget
	for i := uint64(0); i < n-4; i++ {
		if err := g.Del(i, i+1); err != nil {
			t.Fatal(err)
		}
	}
	if g.bitsSource+g.bitsTarget >= grownBits {
		t.Fatalf("table never shrank: still at %d bits after dropping almost everything", g.bitsSource+g.bitsTarget)
	}
	for i := n - 4; i < n; i++ {
		if got := g.Get(i, i+1); got != 1 {
			t.Fatalf("Get(%d, %d) = %v, want 1 after shrink", i, i+1, got)
		}
	}
}

func TestGraphResizeFailureLeavesTableUnchanged(t *testing.T) {
	g, err := New(FlagDirected, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := uint64(0); i < 300; i++ {
		g.Set(i, i+1, 1)
	}
	before := g.bitsSource + g.bitsTarget
	g.resizeFail = func() bool { return true }
	if g.growOnce() {
		t.Fatal("growOnce under simulated allocation failure reported success")
	}
	if g.bitsSource+g.bitsTarget != before {
		t.Fatal("table bit width changed despite failed grow")
	}
	for i := uint64(0); i < 300; i++ {
		if got := g.Get(i, i+1); got != 1 {
			t.Fatalf("Get(%d, %d) = %v, want 1 after rolled-back grow", i, i+1, got)
		}
	}
}
