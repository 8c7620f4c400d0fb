// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import (
	"sort"

	"github.com/aristanetworks/tvgraph/hashmap"
)

// paretoPoint is one candidate's rank on the (value1, value2) plane:
// value1 = -mean weight (so larger mean sorts first), value2 = variance
// across snapshots (so more stable sorts first among equal means).
type paretoPoint struct {
	value1, value2 float64
}

type edgeKey struct{ source, target uint64 }

func hashEdgeKey(k edgeKey) uint64 {
	h := k.source*0x9E3779B97F4A7C15 + k.target
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return h
}

func equalEdgeKey(a, b edgeKey) bool { return a == b }

func hashUint64(k uint64) uint64 { return k }

func equalUint64(a, b uint64) bool { return a == b }

// sweepFront scans sorted (already ordered by (value1, value2)) and
// picks out a rising front: the first candidate, every candidate whose
// value2 improves on the best seen so far, and every exact tie with the
// current best on both coordinates.
func sweepFront(sorted []int, point func(int) paretoPoint) (front, rest []int) {
	var best paretoPoint
	for i, idx := range sorted {
		p := point(idx)
		if i == 0 || p.value2 < best.value2 || p == best {
			front = append(front, idx)
			best = p
		} else {
			rest = append(rest, idx)
		}
	}
	return front, rest
}

func nextParetoWeight(w, base float64) float64 {
	if base == 0 {
		return w + 1
	}
	return w * base
}

// ParetoEdges ranks the edges appearing across snapshots by stability:
// edges with a high mean weight and low variance sweep out first and
// receive weight 1; each later front's weight is the previous one plus
// 1 when base is 0, or times base otherwise. All snapshots (and meanOverride, if
// given) must agree on FlagDirected. meanOverride, when non-nil,
// replaces the computed per-edge mean (e.g. to rank against a
// previously published baseline rather than this batch's own average).
// The result is a directed-matching graph flagged POSITIVE.
func ParetoEdges(snapshots []*Graph, meanOverride *Graph, base float64) (*Graph, error) {
	if len(snapshots) == 0 {
		return nil, newErr("ParetoEdges", InvalidArgument)
	}
	directed := !snapshots[0].undirected()
	for _, g := range snapshots {
		if !g.undirected() != directed {
			return nil, newErr("ParetoEdges", InvalidArgument)
		}
	}
	flags := Flags(0)
	if directed {
		flags = FlagDirected
	}

	var mean *Graph
	if meanOverride != nil {
		if !meanOverride.undirected() != directed {
			return nil, newErr("ParetoEdges", InvalidArgument)
		}
		mean = meanOverride.Grab()
	} else {
		m, err := New(flags, 0)
		if err != nil {
			return nil, err
		}
		invK := float32(1.0 / float64(len(snapshots)))
		for _, g := range snapshots {
			if err := AddGraph(m, g, invK); err != nil {
				m.Free()
				return nil, err
			}
		}
		mean = m
	}
	defer mean.Free()

	var keys []edgeKey
	points := hashmap.New[edgeKey, paretoPoint](0, hashEdgeKey, equalEdgeKey)
	mean.ForEachEdge(func(s, t uint64, mw float32) bool {
		var variance float64
		for _, g := range snapshots {
			d := float64(g.Get(s, t)) - float64(mw)
			variance += d * d
		}
		k := edgeKey{s, t}
		keys = append(keys, k)
		points.Set(k, paretoPoint{value1: -float64(mw), value2: variance})
		return true
	})

	point := func(i int) paretoPoint {
		p, _ := points.Get(keys[i])
		return p
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := points.Get(keys[i])
		b, _ := points.Get(keys[j])
		if a.value1 != b.value1 {
			return a.value1 < b.value1
		}
		return a.value2 < b.value2
	})

	result, err := New(flags|FlagPositive, 0)
	if err != nil {
		return nil, err
	}

	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	w := 1.0
	for len(idx) > 0 {
		front, rest := sweepFront(idx, point)
		for _, i := range front {
			k := keys[i]
			if e := result.Set(k.source, k.target, float32(w)); e != nil {
				result.Free()
				return nil, e
			}
		}
		w = nextParetoWeight(w, base)
		idx = rest
	}
	return result, nil
}

// ParetoVectors is ParetoEdges' single-dimension analogue, ranking
// indices across a sequence of Vector snapshots.
func ParetoVectors(snapshots []*Vector, meanOverride *Vector, base float64) (*Vector, error) {
	if len(snapshots) == 0 {
		return nil, newErr("ParetoVectors", InvalidArgument)
	}

	var mean *Vector
	if meanOverride != nil {
		mean = meanOverride.Grab()
	} else {
		m, err := NewVector(0, 0)
		if err != nil {
			return nil, err
		}
		invK := float32(1.0 / float64(len(snapshots)))
		for _, v := range snapshots {
			if err := addVectorScaled(m, v, invK); err != nil {
				m.Free()
				return nil, err
			}
		}
		mean = m
	}
	defer mean.Free()

	var keys []uint64
	points := hashmap.New[uint64, paretoPoint](0, hashUint64, equalUint64)
	mean.ForEach(func(i uint64, mw float32) bool {
		var variance float64
		for _, v := range snapshots {
			d := float64(v.Get(i)) - float64(mw)
			variance += d * d
		}
		keys = append(keys, i)
		points.Set(i, paretoPoint{value1: -float64(mw), value2: variance})
		return true
	})

	point := func(i int) paretoPoint {
		p, _ := points.Get(keys[i])
		return p
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := point(i), point(j)
		if a.value1 != b.value1 {
			return a.value1 < b.value1
		}
		return a.value2 < b.value2
	})

	result, err := NewVector(FlagPositive, 0)
	if err != nil {
		return nil, err
	}

	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	w := 1.0
	for len(idx) > 0 {
		front, rest := sweepFront(idx, point)
		for _, i := range front {
			if e := result.Set(keys[i], float32(w)); e != nil {
				result.Free()
				return nil, e
			}
		}
		w = nextParetoWeight(w, base)
		idx = rest
	}
	return result, nil
}
