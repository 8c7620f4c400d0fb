// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import (
	"sync/atomic"

	"github.com/aristanetworks/tvgraph/bucket"
	"github.com/aristanetworks/tvgraph/logger"
)

// AVLNeighbors lets a Graph find its immediate neighbors in whatever
// ordered structure owns its timeline, without this package depending
// on that structure's concrete type. A snapshot created outside a
// timeline implements nothing and is simply never wired to one.
type AVLNeighbors interface {
	Predecessor() *Graph
	Successor() *Graph
}

// EdgeSink observes committed edge mutations on a Graph with
// FlagStreaming set. OnEdge fires after the mutation's NONZERO/POSITIVE
// collapse has been applied; deleted reports whether the edge ended up
// removed rather than set.
type EdgeSink interface {
	OnEdge(source, target uint64, weight float32, deleted bool)
}

// Graph is a sparse map from (source, target) pairs to float32 edge
// weights, stored as 2^(bitsSource+bitsTarget) buckets of sorted
// (source, target, weight) triples keyed by (target, source). Absent
// FlagDirected, every mutation of (s, t) with s != t is mirrored to
// (t, s) so the two always agree; this is the mirror-edge invariant
// undirected callers rely on.
type Graph struct {
	refcount   int32
	flags      Flags
	bitsSource uint
	bitsTarget uint
	eps        float32
	revision   uint64
	optimize   int64
	buckets    []bucket.Bucket2
	log        logger.Logger
	metrics    *Metrics
	sink       EdgeSink
	resizeFail bucket.AllocFailer

	// tvg, cache and cacheSlot are timeline bookkeeping: a weak
	// backpointer to the ordered structure that owns this snapshot (if
	// any), and this snapshot's membership in that timeline's bounded
	// working-set cache.
	tvg       AVLNeighbors
	cache     bool
	cacheSlot int
}

// New allocates a Graph with the given flags and epsilon. Flags outside
// validGraphFlags are rejected with InvalidArgument.
func New(flags Flags, eps float32) (*Graph, error) {
	if flags&^validGraphFlags != 0 {
		return nil, newErr("New", InvalidArgument)
	}
	if flags&FlagPositive != 0 {
		flags |= FlagNonzero
	}
	return &Graph{
		refcount: 1,
		flags:    flags,
		eps:      eps,
		buckets:  make([]bucket.Bucket2, 1),
		optimize: initialOptimize,
	}, nil
}

// Grab increments the reference count and returns g.
func (g *Graph) Grab() *Graph {
	atomic.AddInt32(&g.refcount, 1)
	return g
}

// Free decrements the reference count. At zero it panics if the graph
// is still attached to a timeline or cache list — that is a caller
// bug (Unlink was skipped), not a recoverable runtime condition.
func (g *Graph) Free() {
	if atomic.AddInt32(&g.refcount, -1) == 0 {
		if g.tvg != nil || g.cache {
			panic("tvgraph: graph freed while still attached to a timeline or cache")
		}
	}
}

// SetLogger attaches a diagnostic logger used for rehash and resize
// notices. A nil logger (the default) disables this entirely.
func (g *Graph) SetLogger(log logger.Logger) { g.log = log }

// SetMetrics attaches a Metrics collector. A nil Metrics (the default)
// disables instrumentation entirely; every recording call is nil-safe.
func (g *Graph) SetMetrics(m *Metrics) { g.metrics = m }

// SetEdgeSink attaches sink, which receives OnEdge notifications for
// every committed mutation as long as FlagStreaming is set.
func (g *Graph) SetEdgeSink(sink EdgeSink) { g.sink = sink }

// RefreshCache records this graph's position in its timeline's working
// set. It fails with InvalidArgument if the graph isn't attached to a
// timeline (tvg is nil).
func (g *Graph) RefreshCache(slot int) error {
	if g.tvg == nil {
		return newErr("RefreshCache", InvalidArgument)
	}
	g.cache = true
	g.cacheSlot = slot
	return nil
}

// AttachTimeline records tvg as the owning ordered structure, enabling
// RefreshCache and the load-hint propagation Unlink performs.
func (g *Graph) AttachTimeline(tvg AVLNeighbors) { g.tvg = tvg }

// Unlink detaches the graph from its timeline, propagating a reload
// hint to its former neighbors, drops its cache membership, and
// releases the timeline's reference.
func (g *Graph) Unlink() {
	if g.tvg != nil {
		if pred := g.tvg.Predecessor(); pred != nil {
			pred.flags |= FlagLoadNext
		}
		if succ := g.tvg.Successor(); succ != nil {
			succ.flags |= FlagLoadPrev
		}
		g.tvg = nil
	}
	g.cache = false
	g.Free()
}

func (g *Graph) sourceMask() uint64 { return uint64(1)<<g.bitsSource - 1 }
func (g *Graph) targetMask() uint64 { return uint64(1)<<g.bitsTarget - 1 }

func (g *Graph) bucketIndex(source, target uint64) int {
	return int((source & g.sourceMask()) | ((target & g.targetMask()) << g.bitsSource))
}

func (g *Graph) undirected() bool { return g.flags&FlagDirected == 0 }

// NumEdges counts logical edges: every stored entry for a directed
// graph, or each undirected pair counted once (diagonal included).
func (g *Graph) NumEdges() int {
	if !g.undirected() {
		n := 0
		for i := range g.buckets {
			n += g.buckets[i].NumEntries()
		}
		return n
	}
	n := 0
	for i := range g.buckets {
		for _, e := range g.buckets[i].Entries() {
			if e.Source <= e.Target {
				n++
			}
		}
	}
	return n
}

func (g *Graph) totalEntries() int {
	n := 0
	for i := range g.buckets {
		n += g.buckets[i].NumEntries()
	}
	return n
}

// Has reports whether edge (source, target) is stored.
func (g *Graph) Has(source, target uint64) bool {
	b := &g.buckets[g.bucketIndex(source, target)]
	_, ok := b.GetEntry(source, target, false)
	return ok
}

// Get returns the weight of edge (source, target), or 0 if absent.
func (g *Graph) Get(source, target uint64) float32 {
	b := &g.buckets[g.bucketIndex(source, target)]
	e, ok := b.GetEntry(source, target, false)
	if !ok {
		return 0
	}
	return e.Weight
}

// Set stores weight on edge (source, target), replacing any existing
// value. For an undirected graph with source != target, (target,
// source) is updated to match atomically: either both succeed or
// neither is changed.
func (g *Graph) Set(source, target uint64, weight float32) error {
	return g.mutate("Set", source, target, func(float32) float32 { return weight })
}

// Add accumulates weight into edge (source, target)'s existing value.
func (g *Graph) Add(source, target uint64, weight float32) error {
	return g.mutate("Add", source, target, func(cur float32) float32 { return cur + weight })
}

// Sub subtracts weight from edge (source, target)'s existing value.
func (g *Graph) Sub(source, target uint64, weight float32) error {
	return g.mutate("Sub", source, target, func(cur float32) float32 { return cur - weight })
}

// Del removes edge (source, target) unconditionally, mirroring the
// removal for an undirected graph.
func (g *Graph) Del(source, target uint64) error {
	if g.flags&FlagReadonly != 0 {
		return newErr("Del", ReadOnly)
	}
	b1 := &g.buckets[g.bucketIndex(source, target)]
	found := b1.DelEntry(source, target)
	if g.undirected() && source != target {
		b2 := &g.buckets[g.bucketIndex(target, source)]
		b2.DelEntry(target, source)
	}
	if found {
		g.notifySink(source, target, 0, true)
		g.bumpRevision()
		g.afterMutate()
	}
	return nil
}

func (g *Graph) mutate(op string, source, target uint64, fn func(float32) float32) error {
	if g.flags&FlagReadonly != 0 {
		return newErr(op, ReadOnly)
	}
	mirror := g.undirected() && source != target

	idx1 := g.bucketIndex(source, target)
	b1 := &g.buckets[idx1]
	_, existed1 := b1.GetEntry(source, target, false)
	e1, ok := b1.GetEntryFailable(source, target, true, g.resizeFail)
	if !ok {
		return newErr(op, OutOfMemory)
	}
	newWeight := fn(e1.Weight)

	if mirror {
		idx2 := g.bucketIndex(target, source)
		b2 := &g.buckets[idx2]
		_, ok := b2.GetEntryFailable(target, source, true, g.resizeFail)
		if !ok {
			if !existed1 {
				b1.DelEntry(source, target)
			}
			return newErr(op, OutOfMemory)
		}
		// idx1 may equal idx2, in which case b1 and b2 alias the same
		// Bucket2 and the insert above may have shifted or reallocated
		// storage, invalidating e1. Re-fetch both pointers fresh.
		e2, _ := b2.GetEntry(target, source, false)
		g.applyResult(b2, target, source, e2, newWeight)
		e1, _ = b1.GetEntry(source, target, false)
		g.applyResult(b1, source, target, e1, newWeight)
	} else {
		g.applyResult(b1, source, target, e1, newWeight)
	}
	g.bumpRevision()
	g.afterMutate()
	return nil
}

func (g *Graph) applyResult(b *bucket.Bucket2, source, target uint64, e *bucket.Entry2, newWeight float32) {
	if collapses(g.flags, g.eps, newWeight) {
		b.DelEntry(source, target)
		g.notifySink(source, target, 0, true)
		return
	}
	e.Weight = newWeight
	g.notifySink(source, target, newWeight, false)
}

func (g *Graph) notifySink(source, target uint64, weight float32, deleted bool) {
	if g.sink == nil || g.flags&FlagStreaming == 0 {
		return
	}
	g.sink.OnEdge(source, target, weight, deleted)
}

func (g *Graph) bumpRevision() { g.revision++ }

func (g *Graph) afterMutate() {
	g.optimize--
	if g.optimize <= 0 {
		g.optimizeTable()
	}
}

// ForEachDirected visits every stored (source, target, weight) entry in
// bucket order, including both mirrored copies of an undirected edge.
// Iteration stops early if yield returns false.
func (g *Graph) ForEachDirected(yield func(source, target uint64, weight float32) bool) {
	for i := range g.buckets {
		cont := true
		bucket.Forward2(&g.buckets[i], func(e *bucket.Entry2) bool {
			cont = yield(e.Source, e.Target, e.Weight)
			return cont
		})
		if !cont {
			return
		}
	}
}

// ForEachEdge visits every logical edge exactly once: every stored
// entry for a directed graph, or the (source <= target) representative
// of each undirected pair.
func (g *Graph) ForEachEdge(yield func(source, target uint64, weight float32) bool) {
	directed := !g.undirected()
	for i := range g.buckets {
		cont := true
		bucket.Forward2(&g.buckets[i], func(e *bucket.Entry2) bool {
			if !directed && e.Source > e.Target {
				return true
			}
			cont = yield(e.Source, e.Target, e.Weight)
			return cont
		})
		if !cont {
			return
		}
	}
}

// ForEachAdjacent visits (target, weight) for every outgoing edge of
// source. Since a fixed source's edges can land in any bucket row that
// shares its low source bits, this scans every such row.
func (g *Graph) ForEachAdjacent(source uint64, yield func(target uint64, weight float32) bool) {
	base := source & g.sourceMask()
	rows := uint64(1) << g.bitsTarget
	for row := uint64(0); row < rows; row++ {
		idx := base | (row << g.bitsSource)
		cont := true
		bucket.Forward2(&g.buckets[idx], func(e *bucket.Entry2) bool {
			if e.Source == source {
				cont = yield(e.Target, e.Weight)
			}
			return cont
		})
		if !cont {
			return
		}
	}
}

// Nodes returns the set of node IDs appearing as a source or target of
// any stored edge, as a plain Vector whose weights are meaningless.
func (g *Graph) Nodes() (*Vector, error) {
	nodes, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	var setErr error
	g.ForEachDirected(func(s, t uint64, _ float32) bool {
		if err := nodes.Set(s, 1); err != nil {
			setErr = err
			return false
		}
		if err := nodes.Set(t, 1); err != nil {
			setErr = err
			return false
		}
		return true
	})
	if setErr != nil {
		nodes.Free()
		return nil, setErr
	}
	return nodes, nil
}
