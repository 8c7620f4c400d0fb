// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import (
	"math"
	"sync/atomic"

	"github.com/aristanetworks/tvgraph/bucket"
	"github.com/aristanetworks/tvgraph/logger"
)

// Vector is a sparse map from a uint64 index to a float32 weight,
// stored as 2^tableBits buckets of sorted (index, weight) pairs.
// Mutation follows a fixed pipeline: reject if read-only, apply the
// bucket operation, collapse the result to a delete under
// FlagNonzero/FlagPositive, bump the revision counter, and count down
// toward the next rehash check.
type Vector struct {
	refcount   int32
	flags      Flags
	tableBits  uint
	eps        float32
	revision   uint64
	optimize   int64
	buckets    []bucket.Bucket1
	log        logger.Logger
	resizeFail bucket.AllocFailer
}

// NewVector allocates a Vector with the given flags and epsilon. Flags
// outside validVectorFlags are rejected with InvalidArgument.
func NewVector(flags Flags, eps float32) (*Vector, error) {
	if flags&^validVectorFlags != 0 {
		return nil, newErr("NewVector", InvalidArgument)
	}
	if flags&FlagPositive != 0 {
		flags |= FlagNonzero
	}
	return &Vector{
		refcount: 1,
		flags:    flags,
		eps:      eps,
		buckets:  make([]bucket.Bucket1, 1),
		optimize: initialOptimize,
	}, nil
}

// Grab increments the reference count and returns v.
func (v *Vector) Grab() *Vector {
	atomic.AddInt32(&v.refcount, 1)
	return v
}

// Free decrements the reference count.
func (v *Vector) Free() {
	atomic.AddInt32(&v.refcount, -1)
}

// SetLogger attaches a diagnostic logger used for rehash and resize
// notices. A nil logger (the default) disables this entirely.
func (v *Vector) SetLogger(log logger.Logger) { v.log = log }

func (v *Vector) bucketIndex(index uint64) int {
	mask := uint64(1)<<v.tableBits - 1
	return int(index & mask)
}

// NumEntries returns the number of stored entries.
func (v *Vector) NumEntries() int {
	n := 0
	for i := range v.buckets {
		n += v.buckets[i].NumEntries()
	}
	return n
}

// Has reports whether index has a stored weight.
func (v *Vector) Has(index uint64) bool {
	b := &v.buckets[v.bucketIndex(index)]
	_, ok := b.GetEntry(index, false)
	return ok
}

// Get returns the weight stored at index, or 0 if absent.
func (v *Vector) Get(index uint64) float32 {
	b := &v.buckets[v.bucketIndex(index)]
	e, ok := b.GetEntry(index, false)
	if !ok {
		return 0
	}
	return e.Weight
}

// Set stores weight at index, replacing any existing value.
func (v *Vector) Set(index uint64, weight float32) error {
	return v.mutate("Set", index, func(float32) float32 { return weight })
}

// Add accumulates weight into index's existing value (0 if absent).
func (v *Vector) Add(index uint64, weight float32) error {
	return v.mutate("Add", index, func(cur float32) float32 { return cur + weight })
}

// Sub subtracts weight from index's existing value (0 if absent).
func (v *Vector) Sub(index uint64, weight float32) error {
	return v.mutate("Sub", index, func(cur float32) float32 { return cur - weight })
}

// Del removes index unconditionally, regardless of its weight.
func (v *Vector) Del(index uint64) error {
	if v.flags&FlagReadonly != 0 {
		return newErr("Del", ReadOnly)
	}
	b := &v.buckets[v.bucketIndex(index)]
	if b.DelEntry(index) {
		v.bumpRevision()
		v.afterMutate()
	}
	return nil
}

func (v *Vector) mutate(op string, index uint64, fn func(float32) float32) error {
	if v.flags&FlagReadonly != 0 {
		return newErr(op, ReadOnly)
	}
	b := &v.buckets[v.bucketIndex(index)]
	e, ok := b.GetEntryFailable(index, true, v.resizeFail)
	if !ok {
		return newErr(op, OutOfMemory)
	}
	v.applyResult(b, index, e, fn(e.Weight))
	v.bumpRevision()
	v.afterMutate()
	return nil
}

func (v *Vector) applyResult(b *bucket.Bucket1, index uint64, e *bucket.Entry1, newWeight float32) {
	if collapses(v.flags, v.eps, newWeight) {
		b.DelEntry(index)
		return
	}
	e.Weight = newWeight
}

func (v *Vector) bumpRevision() { v.revision++ }

func (v *Vector) afterMutate() {
	v.optimize--
	if v.optimize <= 0 {
		v.optimizeTable()
	}
}

// ForEach visits every stored (index, weight) pair in bucket order;
// within a bucket, entries are visited in ascending index order. Not a
// total order across the whole Vector. Iteration stops early if yield
// returns false.
func (v *Vector) ForEach(yield func(index uint64, weight float32) bool) {
	for i := range v.buckets {
		cont := true
		bucket.Forward1(&v.buckets[i], func(e *bucket.Entry1) bool {
			cont = yield(e.Index, e.Weight)
			return cont
		})
		if !cont {
			return
		}
	}
}

// L2Norm returns the Euclidean norm of the stored weights.
func (v *Vector) L2Norm() float64 {
	var sum float64
	v.ForEach(func(_ uint64, w float32) bool {
		sum += float64(w) * float64(w)
		return true
	})
	return math.Sqrt(sum)
}

// DotProduct returns the inner product of a and b over the union of
// their stored indices.
func DotProduct(a, b *Vector) float64 {
	var sum float64
	a.ForEach(func(i uint64, w float32) bool {
		sum += float64(w) * float64(b.Get(i))
		return true
	})
	return sum
}

func diffL2Norm(a, b *Vector) float64 {
	seen := make(map[uint64]bool, a.NumEntries())
	var sum float64
	a.ForEach(func(i uint64, wa float32) bool {
		d := float64(wa) - float64(b.Get(i))
		sum += d * d
		seen[i] = true
		return true
	})
	b.ForEach(func(i uint64, wb float32) bool {
		if seen[i] {
			return true
		}
		sum += float64(wb) * float64(wb)
		return true
	})
	return math.Sqrt(sum)
}
