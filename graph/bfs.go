// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import (
	"container/heap"
	"math"
)

var inf = math.Inf(1)

// Control is a traversal callback's verdict, driving BFS's behavior for
// the node it was just handed.
type Control int

const (
	// Continue keeps the traversal going.
	Continue Control = iota
	// Stop ends the traversal successfully right away; nodes still in
	// the frontier are simply never visited.
	Stop
	// Abort ends the traversal with ErrAborted.
	Abort
)

type bfsEntry struct {
	weight float64
	hops   uint32
	from   uint64
	to     uint64
}

type bfsHeap struct {
	entries    []bfsEntry
	useWeights bool
}

func (h *bfsHeap) Len() int { return len(h.entries) }
func (h *bfsHeap) Less(i, j int) bool {
	if h.useWeights {
		return h.entries[i].weight < h.entries[j].weight
	}
	return h.entries[i].hops < h.entries[j].hops
}
func (h *bfsHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }
func (h *bfsHeap) Push(x interface{}) {
	h.entries = append(h.entries, x.(bfsEntry))
}
func (h *bfsHeap) Pop() interface{} {
	n := len(h.entries)
	e := h.entries[n-1]
	h.entries = h.entries[:n-1]
	return e
}

// NoNode is the sentinel "from" node passed to the callback for the
// traversal's starting node, which has no predecessor.
const NoNode = ^uint64(0)

// BFS traverses g from source using a min-heap frontier ordered by
// cumulative edge weight when useWeights is true, or by hop count
// otherwise. Each node is visited at most once. callback is invoked
// exactly once per visited node with the edge it was reached by (from
// is NoNode for source itself), the cumulative weight and hop count,
// and decides whether to Continue, Stop, or Abort. BFS returns true
// once the frontier is exhausted or a callback returns Stop; it
// returns false with ErrAborted if a callback returns Abort, or with
// an OutOfMemory *Error if recording a visit fails.
func (g *Graph) BFS(source uint64, useWeights bool, callback func(from, to uint64, weight float64, hops uint32) Control) (bool, error) {
	visited, err := NewVector(0, 0)
	if err != nil {
		return false, err
	}
	defer visited.Free()

	h := &bfsHeap{useWeights: useWeights}
	heap.Init(h)
	heap.Push(h, bfsEntry{to: source, from: NoNode})

	for h.Len() > 0 {
		e := heap.Pop(h).(bfsEntry)
		if g.metrics != nil {
			g.metrics.recordBFSPop()
		}
		if visited.Has(e.to) {
			continue
		}
		switch callback(e.from, e.to, e.weight, e.hops) {
		case Stop:
			return true, nil
		case Abort:
			return false, ErrAborted
		}
		if err := visited.Set(e.to, 1); err != nil {
			return false, err
		}
		g.ForEachAdjacent(e.to, func(v uint64, w float32) bool {
			if visited.Has(v) {
				return true
			}
			heap.Push(h, bfsEntry{
				weight: e.weight + float64(w),
				hops:   e.hops + 1,
				from:   e.to,
				to:     v,
			})
			return true
		})
	}
	return true, nil
}

// DistanceCount returns the minimum hop count from source to target, or
// UnreachableCount if target is never reached.
func (g *Graph) DistanceCount(source, target uint64) (uint64, error) {
	result := UnreachableCount
	_, err := g.BFS(source, false, func(_, to uint64, _ float64, hops uint32) Control {
		if to == target {
			result = uint64(hops)
			return Stop
		}
		return Continue
	})
	if err != nil {
		return UnreachableCount, err
	}
	return result, nil
}

// DistanceWeight returns the minimum cumulative edge weight from source
// to target, or +Inf if target is never reached.
func (g *Graph) DistanceWeight(source, target uint64) (float64, error) {
	result := inf
	_, err := g.BFS(source, true, func(_, to uint64, weight float64, _ uint32) Control {
		if to == target {
			result = weight
			return Stop
		}
		return Continue
	})
	if err != nil {
		return inf, err
	}
	return result, nil
}

// AllDistancesCount returns, for every node reachable from source
// within maxCount hops, its hop-count distance.
func (g *Graph) AllDistancesCount(source uint64, maxCount uint64) (*Vector, error) {
	result, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	_, err = g.BFS(source, false, func(_, to uint64, _ float64, hops uint32) Control {
		if uint64(hops) > maxCount {
			return Stop
		}
		if e := result.Set(to, float32(hops)); e != nil {
			return Abort
		}
		return Continue
	})
	if err != nil {
		result.Free()
		return nil, err
	}
	return result, nil
}

// AllDistancesWeight returns, for every node reachable from source
// within maxWeight cumulative weight, its weighted distance.
func (g *Graph) AllDistancesWeight(source uint64, maxWeight float64) (*Vector, error) {
	result, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	_, err = g.BFS(source, true, func(_, to uint64, weight float64, _ uint32) Control {
		if weight > maxWeight {
			return Stop
		}
		if e := result.Set(to, float32(weight)); e != nil {
			return Abort
		}
		return Continue
	})
	if err != nil {
		result.Free()
		return nil, err
	}
	return result, nil
}

// AllDistancesGraph runs BFS from every node in g and returns a
// directed graph of (source, reachable-node, distance) edges, using
// cumulative weight as the distance when useWeights is true or hop
// count otherwise.
func (g *Graph) AllDistancesGraph(useWeights bool) (*Graph, error) {
	nodes, err := g.Nodes()
	if err != nil {
		return nil, err
	}
	defer nodes.Free()

	result, err := New(FlagDirected, 0)
	if err != nil {
		return nil, err
	}
	var outerErr error
	nodes.ForEach(func(s uint64, _ float32) bool {
		_, err := g.BFS(s, useWeights, func(_, to uint64, weight float64, hops uint32) Control {
			if to == s {
				return Continue
			}
			metric := weight
			if !useWeights {
				metric = float64(hops)
			}
			if e := result.Set(s, to, float32(metric)); e != nil {
				outerErr = e
				return Abort
			}
			return Continue
		})
		if err != nil {
			outerErr = err
			return false
		}
		return true
	})
	if outerErr != nil {
		result.Free()
		return nil, outerErr
	}
	return result, nil
}

// ConnectedComponents labels every node of an undirected g with a
// component ID, starting at 0. It returns Unsupported for a directed
// graph, where connectivity isn't symmetric.
func (g *Graph) ConnectedComponents() (*Vector, error) {
	if !g.undirected() {
		return nil, newErr("ConnectedComponents", Unsupported)
	}
	nodes, err := g.Nodes()
	if err != nil {
		return nil, err
	}
	defer nodes.Free()

	result, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	var compID float32
	var outerErr error
	nodes.ForEach(func(n uint64, _ float32) bool {
		if result.Has(n) {
			return true
		}
		id := compID
		_, err := g.BFS(n, false, func(_, to uint64, _ float64, _ uint32) Control {
			if e := result.Set(to, id); e != nil {
				outerErr = e
				return Abort
			}
			return Continue
		})
		if err != nil {
			outerErr = err
			return false
		}
		compID++
		return true
	})
	if outerErr != nil {
		result.Free()
		return nil, outerErr
	}
	return result, nil
}
