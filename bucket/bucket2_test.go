// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package bucket

import "testing"

func TestBucket2SortKeyIsTargetThenSource(t *testing.T) {
	var b Bucket2
	type pair struct{ s, t uint64 }
	pairs := []pair{{1, 2}, {2, 1}, {1, 1}, {0, 2}}
	for _, p := range pairs {
		b.GetEntry(p.s, p.t, true)
	}
	entries := b.Entries()
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if less2(cur.Target, cur.Source, prev.Target, prev.Source) {
			t.Fatalf("entries not sorted by (target, source): %v", entries)
		}
	}
}

func TestBucket2GetEntryAndDelete(t *testing.T) {
	var b Bucket2
	e, ok := b.GetEntry(1, 2, true)
	if !ok {
		t.Fatal("GetEntry(1, 2, true) failed")
	}
	e.Weight = 4.5
	got, ok := b.GetEntry(1, 2, false)
	if !ok || got.Weight != 4.5 {
		t.Fatalf("GetEntry(1, 2, false) = %v, %v; want weight 4.5, true", got, ok)
	}
	if !b.DelEntry(1, 2) {
		t.Fatal("DelEntry(1, 2) = false, want true")
	}
	if _, ok := b.GetEntry(1, 2, false); ok {
		t.Fatal("entry still present after delete")
	}
}

func TestBucket2SplitByEitherMask(t *testing.T) {
	var a Bucket2
	for s := uint64(0); s < 4; s++ {
		for t := uint64(0); t < 4; t++ {
			a.GetEntry(s, t, true)
		}
	}
	before := len(a.Entries())
	b, ok := a.Split(1<<0, 1<<1, nil)
	if !ok {
		t.Fatal("Split failed")
	}
	for _, e := range a.Entries() {
		if e.Source&1 != 0 || e.Target&2 != 0 {
			t.Fatalf("entry %+v should have moved", e)
		}
	}
	for _, e := range b.Entries() {
		if e.Source&1 == 0 && e.Target&2 == 0 {
			t.Fatalf("entry %+v should not have moved", e)
		}
	}
	if got := len(a.Entries()) + len(b.Entries()); got != before {
		t.Fatalf("split lost entries: got %d, want %d", got, before)
	}
	if !a.Merge(b, nil) {
		t.Fatal("Merge failed")
	}
	if got := len(a.Entries()); got != before {
		t.Fatalf("after merge back: got %d entries, want %d", got, before)
	}
}

func TestBucket2MergeIteratorYieldsBothSides(t *testing.T) {
	var a, b Bucket2
	a.GetEntry(0, 0, true)
	a.GetEntry(1, 1, true)
	b.GetEntry(1, 1, true)
	b.GetEntry(2, 2, true)

	var both, aOnly, bOnly int
	Merge2(&a, &b, func(p Pair2) bool {
		switch {
		case p.A != nil && p.B != nil:
			both++
		case p.A != nil:
			aOnly++
		default:
			bOnly++
		}
		return true
	})
	if both != 1 || aOnly != 1 || bOnly != 1 {
		t.Fatalf("Merge2 counts = both:%d aOnly:%d bOnly:%d, want 1,1,1", both, aOnly, bOnly)
	}
}
