// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package bucket implements the sorted packed-array storage primitives
// that back tvgraph's Vector and Graph containers: Bucket1 holds
// (index, weight) entries for a Vector bucket, Bucket2 holds
// (source, target, weight) entries for a Graph bucket, and both expose
// hinted lookup, sorted insertion/removal, mask-based splitting and
// merging for in-place rehash, and the two-bucket merge iterators that
// back every O(n+m) arithmetic kernel.
package bucket

import "sort"

// lowWaterSlack is the minimum amount of unused capacity Compress leaves
// alone; below this slack a shrink isn't worth the copy.
const lowWaterSlack = 8

// AllocFailer lets callers (tests, chiefly) force a simulated allocation
// failure at a specific growth point, so the rollback paths spec'd for
// Split/Merge/GetEntry can be exercised without exhausting real memory.
// A nil AllocFailer never fails.
type AllocFailer func() bool

func shouldFail(f AllocFailer) bool {
	return f != nil && f()
}

// Entry1 is a single (index, weight) pair stored in a Vector bucket.
type Entry1 struct {
	Index  uint64
	Weight float32
}

// Bucket1 is a sorted-by-Index, duplicate-free array of Entry1 with a
// locality hint for the last-accessed slot.
type Bucket1 struct {
	entries []Entry1
	hint    int
}

// NumEntries returns the number of entries currently stored.
func (b *Bucket1) NumEntries() int { return len(b.entries) }

// Entries returns the bucket's entries in sorted order. The returned
// slice aliases the bucket's storage and must not be retained across
// mutations.
func (b *Bucket1) Entries() []Entry1 { return b.entries }

func growEntries1(entries []Entry1, need int, fail AllocFailer) ([]Entry1, bool) {
	if cap(entries) >= need {
		return entries, true
	}
	if shouldFail(fail) {
		return entries, false
	}
	newCap := cap(entries) * 2
	if newCap < 2 {
		newCap = 2
	}
	if newCap < need {
		newCap = need
	}
	grown := make([]Entry1, len(entries), newCap)
	copy(grown, entries)
	return grown, true
}

// find locates key, checking the hint first before falling back to a
// binary search. When key is absent, idx is the sorted insertion point.
func (b *Bucket1) find(key uint64) (idx int, found bool) {
	n := len(b.entries)
	if n == 0 {
		return 0, false
	}
	if h := b.hint; h >= 0 && h < n && b.entries[h].Index == key {
		return h, true
	}
	idx = sort.Search(n, func(i int) bool { return b.entries[i].Index >= key })
	return idx, idx < n && b.entries[idx].Index == key
}

// GetEntry returns a pointer to the entry for key. If allocate is true
// and the key is absent, a new zero-weight entry is inserted at the
// sorted position and returned. The bool result is false when the key
// is absent and allocate is false, or when growing the backing array
// failed, in which case the bucket is left unchanged.
func (b *Bucket1) GetEntry(key uint64, allocate bool) (*Entry1, bool) {
	return b.getEntry(key, allocate, nil)
}

// GetEntryFailable is GetEntry with an injectable allocation failure
// hook, used by tests that exercise the OutOfMemory rollback path.
func (b *Bucket1) GetEntryFailable(key uint64, allocate bool, fail AllocFailer) (*Entry1, bool) {
	return b.getEntry(key, allocate, fail)
}

func (b *Bucket1) getEntry(key uint64, allocate bool, fail AllocFailer) (*Entry1, bool) {
	idx, found := b.find(key)
	if found {
		b.hint = idx
		return &b.entries[idx], true
	}
	if !allocate {
		return nil, false
	}
	n := len(b.entries)
	grown, ok := growEntries1(b.entries, n+1, fail)
	if !ok {
		return nil, false
	}
	grown = grown[:n+1]
	copy(grown[idx+1:], grown[idx:n])
	grown[idx] = Entry1{Index: key}
	b.entries = grown
	b.hint = idx
	return &b.entries[idx], true
}

// DelEntry removes the entry for key, reporting whether it was present.
// Capacity is never reclaimed here; see Compress.
func (b *Bucket1) DelEntry(key uint64) bool {
	idx, found := b.find(key)
	if !found {
		return false
	}
	n := len(b.entries)
	copy(b.entries[idx:], b.entries[idx+1:])
	b.entries = b.entries[:n-1]
	switch {
	case b.hint > idx:
		b.hint--
	case b.hint >= len(b.entries):
		b.hint = len(b.entries) - 1
	}
	return true
}

// Split partitions a's entries by mask: entries whose Index has any
// masked bit set move into the returned bucket, the rest stay in a.
// Sort order is preserved in both halves. ok is false only when
// allocating the new bucket's storage failed, in which case a is left
// completely unchanged.
func (a *Bucket1) Split(mask uint64, fail AllocFailer) (b *Bucket1, ok bool) {
	var moveCount int
	for _, e := range a.entries {
		if e.Index&mask != 0 {
			moveCount++
		}
	}
	if moveCount == 0 {
		return &Bucket1{}, true
	}
	if shouldFail(fail) {
		return nil, false
	}
	moved := make([]Entry1, 0, moveCount)
	kept := make([]Entry1, 0, len(a.entries)-moveCount)
	for _, e := range a.entries {
		if e.Index&mask != 0 {
			moved = append(moved, e)
		} else {
			kept = append(kept, e)
		}
	}
	a.entries = kept
	a.hint = 0
	return &Bucket1{entries: moved}, true
}

// Merge linearly merges b's entries into a, leaving b logically
// consumed. It succeeds iff the combined capacity reservation for a
// succeeds; on failure a and b are both left unchanged.
func (a *Bucket1) Merge(b *Bucket1, fail AllocFailer) bool {
	if len(b.entries) == 0 {
		return true
	}
	need := len(a.entries) + len(b.entries)
	grown, ok := growEntries1(a.entries, need, fail)
	if !ok {
		return false
	}
	out := make([]Entry1, 0, need)
	i, j := 0, 0
	for i < len(a.entries) && j < len(b.entries) {
		if a.entries[i].Index <= b.entries[j].Index {
			out = append(out, a.entries[i])
			i++
		} else {
			out = append(out, b.entries[j])
			j++
		}
	}
	out = append(out, a.entries[i:]...)
	out = append(out, b.entries[j:]...)
	copy(grown[:need], out)
	a.entries = grown[:need]
	a.hint = 0
	return true
}

// Compress shrinks the backing array to fit NumEntries when the unused
// slack exceeds lowWaterSlack.
func (b *Bucket1) Compress() {
	n := len(b.entries)
	if cap(b.entries)-n <= lowWaterSlack {
		return
	}
	fit := make([]Entry1, n)
	copy(fit, b.entries)
	b.entries = fit
}
