// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import "github.com/aristanetworks/tvgraph/bucket"

// optimizeTable grows or shrinks a Vector's table to keep its
// entries-per-bucket ratio N/B within [16, 256), then sets the next
// countdown to the estimated number of mutations before that window is
// left again. A failed resize leaves the table as it was and schedules
// a distant retry rather than looping on the same failure.
func (v *Vector) optimizeTable() {
	n := v.NumEntries()
	b := uint64(1) << v.tableBits
	switch {
	case uint64(n) >= 256*b:
		for uint64(n) >= 64*b {
			if !v.growOnce() {
				v.optimize = 1024
				if v.log != nil {
					v.log.Error("tvgraph: vector grow failed, deferring optimize")
				}
				return
			}
			b = uint64(1) << v.tableBits
		}
	case b >= 2 && uint64(n) < 16*b:
		for b > 1 && uint64(n) < 64*b {
			if !v.shrinkOnce() {
				v.optimize = 1024
				if v.log != nil {
					v.log.Error("tvgraph: vector shrink failed, deferring optimize")
				}
				return
			}
			b = uint64(1) << v.tableBits
		}
	}
	v.optimize = nextOptimize(v.NumEntries(), int64(1)<<v.tableBits, false)
}

func (v *Vector) growOnce() bool {
	if v.tableBits >= 31 {
		return false
	}
	newBits := v.tableBits + 1
	newBuckets := make([]bucket.Bucket1, uint64(1)<<newBits)
	mask := uint64(1)<<newBits - 1
	if !redistribute1(v.buckets, newBuckets, mask, v.resizeFail) {
		return false
	}
	v.buckets = newBuckets
	v.tableBits = newBits
	return true
}

func (v *Vector) shrinkOnce() bool {
	if v.tableBits == 0 {
		return false
	}
	newBits := v.tableBits - 1
	newBuckets := make([]bucket.Bucket1, uint64(1)<<newBits)
	mask := uint64(1)<<newBits - 1
	if !redistribute1(v.buckets, newBuckets, mask, v.resizeFail) {
		return false
	}
	v.buckets = newBuckets
	v.tableBits = newBits
	return true
}

func redistribute1(from, to []bucket.Bucket1, mask uint64, fail bucket.AllocFailer) bool {
	for i := range from {
		ok := true
		bucket.Forward1(&from[i], func(e *bucket.Entry1) bool {
			idx := e.Index & mask
			ne, allocated := to[idx].GetEntryFailable(e.Index, true, fail)
			if !allocated {
				ok = false
				return false
			}
			ne.Weight = e.Weight
			return true
		})
		if !ok {
			return false
		}
	}
	return true
}

// optimizeTable is the Graph analogue of Vector.optimizeTable. It
// prefers growing the smaller of bitsSource/bitsTarget and shrinking
// the larger, matching the grow-toward-balance, shrink-away-from-excess
// policy described for the bucket table.
func (g *Graph) optimizeTable() {
	n := g.totalEntries()
	b := uint64(1) << (g.bitsSource + g.bitsTarget)
	switch {
	case uint64(n) >= 256*b:
		for uint64(n) >= 64*b {
			if !g.growOnce() {
				g.optimize = 1024
				if g.log != nil {
					g.log.Error("tvgraph: graph grow failed, deferring optimize")
				}
				return
			}
			b = uint64(1) << (g.bitsSource + g.bitsTarget)
		}
	case b >= 2 && uint64(n) < 16*b:
		for b > 1 && uint64(n) < 64*b {
			if !g.shrinkOnce() {
				g.optimize = 1024
				if g.log != nil {
					g.log.Error("tvgraph: graph shrink failed, deferring optimize")
				}
				return
			}
			b = uint64(1) << (g.bitsSource + g.bitsTarget)
		}
	}
	g.optimize = nextOptimize(g.totalEntries(), int64(1)<<(g.bitsSource+g.bitsTarget), g.undirected())
}

func nextOptimize(n int, b int64, halve bool) int64 {
	next := int64(256)
	if cand := min64(256*b-int64(n), int64(n)-16*b); cand > next {
		next = cand
	}
	if halve {
		next /= 2
	}
	return next
}

func (g *Graph) growOnce() bool {
	growSource := g.bitsSource <= g.bitsTarget
	if growSource && g.bitsSource >= 31 {
		growSource = false
	}
	if !growSource && g.bitsTarget >= 31 {
		growSource = true
	}
	if g.bitsSource >= 31 && g.bitsTarget >= 31 {
		return false
	}
	newBitsSource, newBitsTarget := g.bitsSource, g.bitsTarget
	if growSource {
		newBitsSource++
	} else {
		newBitsTarget++
	}
	if !g.rebucket(newBitsSource, newBitsTarget) {
		return false
	}
	g.recordRehash("grow")
	return true
}

func (g *Graph) shrinkOnce() bool {
	if g.bitsSource == 0 && g.bitsTarget == 0 {
		return false
	}
	shrinkSource := g.bitsSource >= g.bitsTarget
	if shrinkSource && g.bitsSource == 0 {
		shrinkSource = false
	}
	if !shrinkSource && g.bitsTarget == 0 {
		return false
	}
	newBitsSource, newBitsTarget := g.bitsSource, g.bitsTarget
	if shrinkSource {
		newBitsSource--
	} else {
		newBitsTarget--
	}
	if !g.rebucket(newBitsSource, newBitsTarget) {
		return false
	}
	g.recordRehash("shrink")
	return true
}

func (g *Graph) rebucket(newBitsSource, newBitsTarget uint) bool {
	newCount := uint64(1) << (newBitsSource + newBitsTarget)
	newBuckets := make([]bucket.Bucket2, newCount)
	maskSource := uint64(1)<<newBitsSource - 1
	maskTarget := uint64(1)<<newBitsTarget - 1
	for i := range g.buckets {
		ok := true
		bucket.Forward2(&g.buckets[i], func(e *bucket.Entry2) bool {
			idx := (e.Source & maskSource) | ((e.Target & maskTarget) << newBitsSource)
			ne, allocated := newBuckets[idx].GetEntryFailable(e.Source, e.Target, true, g.resizeFail)
			if !allocated {
				ok = false
				return false
			}
			ne.Weight = e.Weight
			return true
		})
		if !ok {
			return false
		}
	}
	g.buckets = newBuckets
	g.bitsSource = newBitsSource
	g.bitsTarget = newBitsTarget
	return true
}

func (g *Graph) recordRehash(direction string) {
	if g.metrics != nil {
		g.metrics.recordRehash(direction)
	}
}
