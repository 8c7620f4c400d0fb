// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package bucket

// Pair1 is one step of a two-bucket Bucket1 merge: exactly one or both
// of A, B is non-nil, in ascending Index order.
type Pair1 struct {
	A, B *Entry1
}

// Merge1 walks a and b in ascending Index order, invoking yield once
// per distinct index with whichever of a/b holds that index (or both).
// Iteration stops early if yield returns false.
func Merge1(a, b *Bucket1, yield func(Pair1) bool) {
	ea, eb := a.entries, b.entries
	i, j := 0, 0
	for i < len(ea) || j < len(eb) {
		switch {
		case j >= len(eb) || (i < len(ea) && ea[i].Index < eb[j].Index):
			if !yield(Pair1{A: &ea[i]}) {
				return
			}
			i++
		case i >= len(ea) || eb[j].Index < ea[i].Index:
			if !yield(Pair1{B: &eb[j]}) {
				return
			}
			j++
		default:
			if !yield(Pair1{A: &ea[i], B: &eb[j]}) {
				return
			}
			i++
			j++
		}
	}
}

// Pair2 is one step of a two-bucket Bucket2 merge: exactly one or both
// of A, B is non-nil, in (target, source) order.
type Pair2 struct {
	A, B *Entry2
}

// Merge2 walks a and b in (target, source) order, invoking yield once
// per distinct (source, target) pair with whichever of a/b holds it (or
// both). Iteration stops early if yield returns false.
func Merge2(a, b *Bucket2, yield func(Pair2) bool) {
	ea, eb := a.entries, b.entries
	i, j := 0, 0
	for i < len(ea) || j < len(eb) {
		switch {
		case j >= len(eb) || (i < len(ea) && less2(ea[i].Target, ea[i].Source, eb[j].Target, eb[j].Source)):
			if !yield(Pair2{A: &ea[i]}) {
				return
			}
			i++
		case i >= len(ea) || less2(eb[j].Target, eb[j].Source, ea[i].Target, ea[i].Source):
			if !yield(Pair2{B: &eb[j]}) {
				return
			}
			j++
		default:
			if !yield(Pair2{A: &ea[i], B: &eb[j]}) {
				return
			}
			i++
			j++
		}
	}
}

// PairGV is one step of a graph-bucket x vector-bucket merge: A holds a
// graph edge, B holds the vector entry sharing its Target/Index value,
// whichever of the two (or both) is present at that value.
type PairGV struct {
	A *Entry2
	B *Entry1
}

// MergeGraphVector walks g (sorted by (Target, Source)) and v (sorted by
// Index) together, pairing each graph edge with the vector entry for its
// target. g and v must already be partitioned on the same Target/Index
// bit mask, so every possible match between the two falls within this
// one pair of buckets. A Target shared by several graph edges (distinct
// sources) is matched against the same v entry once per edge. Iteration
// stops early if yield returns false.
func MergeGraphVector(g *Bucket2, v *Bucket1, yield func(PairGV) bool) {
	eg, ev := g.entries, v.entries
	i, j := 0, 0
	for i < len(eg) || j < len(ev) {
		switch {
		case j >= len(ev) || (i < len(eg) && eg[i].Target < ev[j].Index):
			if !yield(PairGV{A: &eg[i]}) {
				return
			}
			i++
		case i >= len(eg) || ev[j].Index < eg[i].Target:
			if !yield(PairGV{B: &ev[j]}) {
				return
			}
			j++
		default:
			if !yield(PairGV{A: &eg[i], B: &ev[j]}) {
				return
			}
			i++
		}
	}
}

// Forward1 visits b's entries in ascending Index order.
func Forward1(b *Bucket1, yield func(*Entry1) bool) {
	for i := range b.entries {
		if !yield(&b.entries[i]) {
			return
		}
	}
}

// Reverse1 visits b's entries in descending Index order.
func Reverse1(b *Bucket1, yield func(*Entry1) bool) {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if !yield(&b.entries[i]) {
			return
		}
	}
}

// Forward2 visits b's entries in ascending (target, source) order.
func Forward2(b *Bucket2, yield func(*Entry2) bool) {
	for i := range b.entries {
		if !yield(&b.entries[i]) {
			return
		}
	}
}

// Reverse2 visits b's entries in descending (target, source) order.
func Reverse2(b *Bucket2, yield func(*Entry2) bool) {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if !yield(&b.entries[i]) {
			return
		}
	}
}
