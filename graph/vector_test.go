// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import "testing"

func TestVectorSetGetHasDel(t *testing.T) {
	v, err := NewVector(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v.Has(1) {
		t.Fatal("fresh vector has index 1")
	}
	if err := v.Set(1, 4.5); err != nil {
		t.Fatal(err)
	}
	if !v.Has(1) || v.Get(1) != 4.5 {
		t.Fatalf("Get(1) = %v, Has = %v", v.Get(1), v.Has(1))
	}
	if err := v.Add(1, 0.5); err != nil {
		t.Fatal(err)
	}
	if v.Get(1) != 5 {
		t.Fatalf("Get(1) after Add = %v, want 5", v.Get(1))
	}
	if err := v.Del(1); err != nil {
		t.Fatal(err)
	}
	if v.Has(1) {
		t.Fatal("index 1 still present after Del")
	}
}

func TestVectorNonzeroCollapsesSmallWeight(t *testing.T) {
	v, err := NewVector(FlagNonzero, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Set(1, 1); err != nil {
		t.Fatal(err)
	}
	if err := v.Sub(1, 1); err != nil {
		t.Fatal(err)
	}
	if v.Has(1) {
		t.Fatal("weight collapsed to 0 but entry still present under NONZERO")
	}
}

func TestVectorPositiveCollapsesNonPositiveWeight(t *testing.T) {
	v, err := NewVector(FlagPositive, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Set(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := v.Sub(1, 5); err != nil {
		t.Fatal(err)
	}
	if v.Has(1) {
		t.Fatal("negative weight still present under POSITIVE")
	}
}

func TestVectorReadonlyRejectsMutation(t *testing.T) {
	v, err := NewVector(FlagReadonly, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Set(1, 1); !IsKind(err, ReadOnly) {
		t.Fatalf("Set on readonly vector = %v, want ReadOnly error", err)
	}
}

func TestNewVectorRejectsUnknownFlags(t *testing.T) {
	if _, err := NewVector(FlagDirected, 0); !IsKind(err, InvalidArgument) {
		t.Fatalf("NewVector(FlagDirected, 0) = %v, want InvalidArgument", err)
	}
}

func TestVectorForEachVisitsEveryEntry(t *testing.T) {
	v, err := NewVector(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := map[uint64]float32{1: 1, 2: 2, 3: 3}
	for k, w := range want {
		if err := v.Set(k, w); err != nil {
			t.Fatal(err)
		}
	}
	got := map[uint64]float32{}
	v.ForEach(func(i uint64, w float32) bool {
		got[i] = w
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("ForEach visited %d entries, want %d", len(got), len(want))
	}
	for k, w := range want {
		if got[k] != w {
			t.Fatalf("ForEach[%d] = %v, want %v", k, got[k], w)
		}
	}
}

func TestVectorRehashPreservesContents(t *testing.T) {
	v, err := NewVector(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	const n = 5000
	for i := uint64(0); i < n; i++ {
		if err := v.Set(i, float32(i)); err != nil {
			t.Fatalf("Set(%d): %v", i, err)
		}
	}
	if v.tableBits == 0 {
		t.Fatal("table never grew despite 5000 entries")
	}
	for i := uint64(0); i < n; i++ {
		if got := v.Get(i); got != float32(i) {
			t.Fatalf("Get(%d) = %v, want %v after rehash", i, got, i)
		}
	}
	for i := uint64(0); i < n-10; i++ {
		if err := v.Del(i); err != nil {
			t.Fatal(err)
		}
	}
	if v.tableBits > 1 {
		for i := n - 10; i < n; i++ {
			if got := v.Get(i); got != float32(i) {
				t.Fatalf("Get(%d) = %v, want %v after shrink", i, got, i)
			}
		}
	}
}

func TestVectorDotProductAndL2Norm(t *testing.T) {
	a, _ := NewVector(0, 0)
	b, _ := NewVector(0, 0)
	a.Set(1, 3)
	a.Set(2, 4)
	b.Set(1, 1)
	b.Set(3, 2)
	if got := DotProduct(a, b); got != 3 {
		t.Fatalf("DotProduct = %v, want 3", got)
	}
	if got, want := a.L2Norm(), 5.0; got != want {
		t.Fatalf("L2Norm = %v, want %v", got, want)
	}
}
