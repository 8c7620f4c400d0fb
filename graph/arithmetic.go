// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import "github.com/aristanetworks/tvgraph/bucket"

// MulConst scales every stored edge weight by c in place. c == 1 is a
// no-op; a resulting weight that collapses under NONZERO/POSITIVE is
// deleted rather than stored as zero.
func (g *Graph) MulConst(c float32) error {
	if g.flags&FlagReadonly != 0 {
		return newErr("MulConst", ReadOnly)
	}
	if c == 1 {
		return nil
	}
	for i := range g.buckets {
		b := &g.buckets[i]
		for _, e := range append([]bucket.Entry2(nil), b.Entries()...) {
			ne, _ := b.GetEntry(e.Source, e.Target, false)
			g.applyResult(b, e.Source, e.Target, ne, ne.Weight*c)
		}
	}
	g.bumpRevision()
	return nil
}

// MulConst scales every stored weight by c in place.
func (v *Vector) MulConst(c float32) error {
	if v.flags&FlagReadonly != 0 {
		return newErr("MulConst", ReadOnly)
	}
	if c == 1 {
		return nil
	}
	for i := range v.buckets {
		b := &v.buckets[i]
		for _, e := range append([]bucket.Entry1(nil), b.Entries()...) {
			ne, _ := b.GetEntry(e.Index, false)
			v.applyResult(b, e.Index, ne, ne.Weight*c)
		}
	}
	v.bumpRevision()
	return nil
}

// redistributeVector1 copies entries drawn from buckets (any Bucket1
// slice, regardless of its own partitioning) into a fresh table of bits
// bit width, so it shares a partition scheme with some other table of
// the same width. This is resize.go's redistribute1, without failure
// injection, used here to align two operands onto the same buckets
// before a bucket.Merge1-driven combinator pass.
func redistributeVector1(buckets []bucket.Bucket1, bits uint) []bucket.Bucket1 {
	to := make([]bucket.Bucket1, uint64(1)<<bits)
	mask := uint64(1)<<bits - 1
	for i := range buckets {
		bucket.Forward1(&buckets[i], func(e *bucket.Entry1) bool {
			ne, _ := to[e.Index&mask].GetEntry(e.Index, true)
			ne.Weight = e.Weight
			return true
		})
	}
	return to
}

// redistributeEdges2 is redistributeVector1's Bucket2 analogue: it packs
// a flat list of edges (already deduplicated by the caller, e.g. via
// ForEachEdge) into a fresh bitsSource/bitsTarget-wide table.
func redistributeEdges2(entries []bucket.Entry2, bitsSource, bitsTarget uint) []bucket.Bucket2 {
	to := make([]bucket.Bucket2, uint64(1)<<(bitsSource+bitsTarget))
	maskSource := uint64(1)<<bitsSource - 1
	maskTarget := uint64(1)<<bitsTarget - 1
	for _, e := range entries {
		idx := (e.Source & maskSource) | ((e.Target & maskTarget) << bitsSource)
		ne, _ := to[idx].GetEntry(e.Source, e.Target, true)
		ne.Weight = e.Weight
	}
	return to
}

// AddGraph requires out and g to agree on FlagDirected, then adds
// w*weight into out for every logical edge of g. g's edges are
// redistributed onto out's current bucket partition so each of out's
// buckets can be combined against its counterpart with a single
// bucket.Merge2 pass instead of one Add call per edge.
func AddGraph(out, g *Graph, w float32) error {
	if out.undirected() != g.undirected() {
		return newErr("AddGraph", InvalidArgument)
	}
	var edges []bucket.Entry2
	g.ForEachEdge(func(s, t uint64, weight float32) bool {
		edges = append(edges, bucket.Entry2{Source: s, Target: t, Weight: weight})
		return true
	})
	aligned := redistributeEdges2(edges, out.bitsSource, out.bitsTarget)

	type update struct{ source, target uint64 }
	var updates []update
	weights := make(map[update]float32)
	for i := range out.buckets {
		bucket.Merge2(&aligned[i], &out.buckets[i], func(p bucket.Pair2) bool {
			if p.A == nil {
				return true
			}
			u := update{p.A.Source, p.A.Target}
			existing := float32(0)
			if p.B != nil {
				existing = p.B.Weight
			}
			weights[u] = existing + w*p.A.Weight
			updates = append(updates, u)
			return true
		})
	}
	for _, u := range updates {
		if err := out.Set(u.source, u.target, weights[u]); err != nil {
			return err
		}
	}
	return nil
}

// AddVector adds each stored weight of v into out at the same index.
func AddVector(out, v *Vector) error {
	return addVectorScaled(out, v, 1)
}

// addVectorScaled redistributes v onto out's current bucket partition
// and combines each pair of corresponding buckets with bucket.Merge1, so
// the whole accumulation is a single O(n+m) merge pass rather than one
// Add per entry of v.
func addVectorScaled(out, v *Vector, w float32) error {
	aligned := redistributeVector1(v.buckets, out.tableBits)

	var indices []uint64
	weights := make(map[uint64]float32)
	for i := range out.buckets {
		bucket.Merge1(&aligned[i], &out.buckets[i], func(p bucket.Pair1) bool {
			if p.A == nil {
				return true
			}
			existing := float32(0)
			if p.B != nil {
				existing = p.B.Weight
			}
			weights[p.A.Index] = existing + w*p.A.Weight
			indices = append(indices, p.A.Index)
			return true
		})
	}
	for _, idx := range indices {
		if err := out.Set(idx, weights[idx]); err != nil {
			return err
		}
	}
	return nil
}

// MulVector computes u = g * v: u[s] = sum over logical directed entries
// (s, t) of g[s,t] * v[t]. v is redistributed onto g's target-bucket
// partition once; each graph bucket is then paired against the vector
// entries sharing its target bits via bucket.MergeGraphVector, fetching
// the matching v[t] in O(1) amortized instead of one Get per edge.
func MulVector(g *Graph, v *Vector) (*Vector, error) {
	u, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	vAligned := redistributeVector1(v.buckets, g.bitsTarget)

	var setErr error
	for gi := range g.buckets {
		targetBucket := uint64(gi) >> g.bitsSource
		bucket.MergeGraphVector(&g.buckets[gi], &vAligned[targetBucket], func(p bucket.PairGV) bool {
			if p.A == nil || p.B == nil {
				return true
			}
			contribution := p.A.Weight * p.B.Weight
			if contribution == 0 {
				return true
			}
			if e := u.Add(p.A.Source, contribution); e != nil {
				setErr = e
				return false
			}
			return true
		})
		if setErr != nil {
			break
		}
	}
	if setErr != nil {
		u.Free()
		return nil, setErr
	}
	return u, nil
}

// OutDegrees returns, for every node with at least one outgoing edge,
// the number of distinct outgoing edges.
func (g *Graph) OutDegrees() (*Vector, error) {
	return g.degreeProjection(true)
}

func (g *Graph) degreeProjection(outgoing bool) (*Vector, error) {
	result, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	var setErr error
	g.ForEachDirected(func(s, t uint64, _ float32) bool {
		key := s
		if !outgoing {
			key = t
		}
		if e := result.Add(key, 1); e != nil {
			setErr = e
			return false
		}
		return true
	})
	if setErr != nil {
		result.Free()
		return nil, setErr
	}
	return result, nil
}

// InDegrees returns, for every node with at least one incoming edge,
// the number of distinct incoming edges.
func (g *Graph) InDegrees() (*Vector, error) {
	return g.degreeProjection(false)
}

func (g *Graph) weightProjection(outgoing bool) (*Vector, error) {
	result, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	var setErr error
	g.ForEachDirected(func(s, t uint64, w float32) bool {
		key := s
		if !outgoing {
			key = t
		}
		if e := result.Add(key, w); e != nil {
			setErr = e
			return false
		}
		return true
	})
	if setErr != nil {
		result.Free()
		return nil, setErr
	}
	return result, nil
}

// OutWeights returns, for every node, the sum of its outgoing edge
// weights.
func (g *Graph) OutWeights() (*Vector, error) { return g.weightProjection(true) }

// InWeights returns, for every node, the sum of its incoming edge
// weights.
func (g *Graph) InWeights() (*Vector, error) { return g.weightProjection(false) }

// DegreeAnomalies scores each node s as its own out-degree minus the
// mean out-degree of its neighbors: a node whose neighbors are
// themselves high-degree scores low, a local hub among low-degree
// neighbors scores high.
func (g *Graph) DegreeAnomalies() (*Vector, error) {
	outDeg, err := g.OutDegrees()
	if err != nil {
		return nil, err
	}
	defer outDeg.Free()

	neighborSum, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	defer neighborSum.Free()
	var setErr error
	g.ForEachDirected(func(s, t uint64, _ float32) bool {
		if e := neighborSum.Add(s, outDeg.Get(t)); e != nil {
			setErr = e
			return false
		}
		return true
	})
	if setErr != nil {
		return nil, setErr
	}

	result, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	outDeg.ForEach(func(s uint64, deg float32) bool {
		if deg == 0 {
			return true
		}
		anomaly := deg - neighborSum.Get(s)/deg
		if e := result.Set(s, anomaly); e != nil {
			setErr = e
			return false
		}
		return true
	})
	if setErr != nil {
		result.Free()
		return nil, setErr
	}
	return result, nil
}

// WeightAnomalies is DegreeAnomalies' weighted analogue, scoring each
// node by its own out-weight against the mean out-weight of its
// neighbors.
func (g *Graph) WeightAnomalies() (*Vector, error) {
	outW, err := g.OutWeights()
	if err != nil {
		return nil, err
	}
	defer outW.Free()

	neighborSum, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	defer neighborSum.Free()
	var setErr error
	g.ForEachDirected(func(s, t uint64, w float32) bool {
		if e := neighborSum.Add(s, w*outW.Get(t)); e != nil {
			setErr = e
			return false
		}
		return true
	})
	if setErr != nil {
		return nil, setErr
	}

	result, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	outW.ForEach(func(s uint64, w float32) bool {
		if w == 0 {
			return true
		}
		anomaly := w - neighborSum.Get(s)/w
		if e := result.Set(s, anomaly); e != nil {
			setErr = e
			return false
		}
		return true
	})
	if setErr != nil {
		result.Free()
		return nil, setErr
	}
	return result, nil
}

// FilterNodes returns a new graph containing exactly the edges of g
// whose source and target both appear (with any weight) in nodes.
func FilterNodes(g *Graph, nodes *Vector) (*Graph, error) {
	result, err := New(g.flags&validGraphFlags&^FlagReadonly, g.eps)
	if err != nil {
		return nil, err
	}
	var setErr error
	g.ForEachEdge(func(s, t uint64, w float32) bool {
		if !nodes.Has(s) || !nodes.Has(t) {
			return true
		}
		if e := result.Set(s, t, w); e != nil {
			setErr = e
			return false
		}
		return true
	})
	if setErr != nil {
		result.Free()
		return nil, setErr
	}
	return result, nil
}

// Normalize returns a new graph where each edge (s, t) is divided by
// the product of s's out-weight and t's in-weight (both taken as
// out-weight for an undirected graph, since in- and out-weight
// coincide there).
func Normalize(g *Graph) (*Graph, error) {
	outW, err := g.OutWeights()
	if err != nil {
		return nil, err
	}
	defer outW.Free()
	inW := outW
	if !g.undirected() {
		inW, err = g.InWeights()
		if err != nil {
			return nil, err
		}
		defer inW.Free()
	}

	result, err := New(g.flags&validGraphFlags&^FlagReadonly, g.eps)
	if err != nil {
		return nil, err
	}
	var setErr error
	g.ForEachEdge(func(s, t uint64, w float32) bool {
		denom := outW.Get(s) * inW.Get(t)
		if denom == 0 {
			return true
		}
		if e := result.Set(s, t, w/denom); e != nil {
			setErr = e
			return false
		}
		return true
	})
	if setErr != nil {
		result.Free()
		return nil, setErr
	}
	return result, nil
}

// SumWeights returns the double-precision sum of every stored directed
// entry's weight, counting each undirected edge's mirrored copies
// separately.
func (g *Graph) SumWeights() float64 {
	var sum float64
	g.ForEachDirected(func(_, _ uint64, w float32) bool {
		sum += float64(w)
		return true
	})
	return sum
}
