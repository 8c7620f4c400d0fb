// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package graph is tvgraph's core engine: Vector and Graph, the sparse
// bucket-hashed containers spec'd over package bucket; the arithmetic
// kernels, BFS traversal driver, power iteration, and Pareto stability
// metric built on top of them; and binary persistence for Graph.
package graph

// Flags is a bitmask of container-level behavior flags shared by
// Vector and Graph.
type Flags uint32

const (
	// FlagNonzero forbids any stored weight with |w| <= eps; a mutation
	// that would leave such a weight deletes the entry instead.
	FlagNonzero Flags = 1 << iota
	// FlagPositive forbids any stored weight <= eps, including negative
	// ones. It implies FlagNonzero.
	FlagPositive
	// FlagDirected marks a Graph as directed; its absence requires the
	// mirror-edge invariant (g[s,t] exists iff g[t,s] exists). Vector
	// never carries this flag.
	FlagDirected
	// FlagReadonly rejects every mutating operation with a ReadOnly
	// *Error.
	FlagReadonly
	// FlagStreaming enables delivery of committed edge mutations to an
	// attached EdgeSink.
	FlagStreaming
	// FlagLoadNext is a timeline-owned hint: the next snapshot needs
	// reloading. The core only propagates and clears it on Unlink.
	FlagLoadNext
	// FlagLoadPrev is the LoadNext counterpart for the previous
	// snapshot.
	FlagLoadPrev
)

// validVectorFlags is the strict set of flags alloc_vector accepts;
// anything else is InvalidArgument.
const validVectorFlags = FlagNonzero | FlagPositive | FlagReadonly | FlagStreaming

// validGraphFlags is the strict set of flags alloc_graph accepts. Per
// spec.md §9's open question about two historical alloc_graph variants
// with different flag handling, this implements the stricter contract:
// any bit outside this mask is rejected rather than silently ignored.
const validGraphFlags = FlagNonzero | FlagPositive | FlagDirected | FlagReadonly | FlagStreaming | FlagLoadNext | FlagLoadPrev

// persistFlagsMask is the subset of Graph flags written to and read
// from the binary snapshot format; transient load hints and the
// readonly bit never survive a round trip.
const persistFlagsMask = FlagNonzero | FlagPositive | FlagDirected | FlagStreaming

// initialOptimize is the rehash countdown a freshly allocated Vector or
// Graph starts with.
const initialOptimize = 256

// UnreachableCount is the sentinel DistanceCount returns for a target
// that BFS never reaches.
const UnreachableCount = ^uint64(0)

func collapses(flags Flags, eps, weight float32) bool {
	switch {
	case flags&FlagPositive != 0:
		return weight <= eps
	case flags&FlagNonzero != 0:
		return weight > -eps && weight <= eps
	default:
		return false
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
