// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package graph

import "golang.org/x/exp/rand"

// PowerIterationOptions configures Graph.PowerIteration. The zero value
// runs 100 iterations from a fresh random guess, seeded with 0, and
// skips the eigenvalue computation.
type PowerIterationOptions struct {
	// InitialGuess, where non-zero at a node, seeds that node's entry
	// instead of a random draw.
	InitialGuess *Vector
	// NumIterations caps the number of matrix-vector products. 0 means
	// 100.
	NumIterations int
	// Tolerance, if positive, stops iterating once consecutive
	// estimates' L2 distance falls to or below it.
	Tolerance float64
	// ReturnEigenvalue requests the Rayleigh quotient v * (g * v) for
	// the converged eigenvector.
	ReturnEigenvalue bool
	// Seed drives this call's private random source; PowerIteration
	// never touches the global math/rand state.
	Seed uint64
}

// PowerIteration estimates g's dominant eigenvector (and, optionally,
// its eigenvalue) via repeated normalized matrix-vector multiplication,
// seeded over the nodes with at least one incoming edge.
func (g *Graph) PowerIteration(opts PowerIterationOptions) (*Vector, float64, error) {
	numIter := opts.NumIterations
	if numIter <= 0 {
		numIter = 100
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	seeds, err := g.nodesWithIncoming()
	if err != nil {
		return nil, 0, err
	}
	defer seeds.Free()

	v, err := NewVector(0, 0)
	if err != nil {
		return nil, 0, err
	}
	var initErr error
	seeds.ForEach(func(n uint64, _ float32) bool {
		val := float32(rng.Float64())
		if opts.InitialGuess != nil {
			if guess := opts.InitialGuess.Get(n); guess != 0 {
				val = guess
			}
		}
		if e := v.Set(n, val); e != nil {
			initErr = e
			return false
		}
		return true
	})
	if initErr != nil {
		v.Free()
		return nil, 0, initErr
	}

	for i := 0; i < numIter; i++ {
		if g.metrics != nil {
			g.metrics.recordPowerIteration()
		}
		next, err := MulVector(g, v)
		if err != nil {
			v.Free()
			return nil, 0, err
		}
		if norm := next.L2Norm(); norm != 0 {
			if e := next.MulConst(float32(1 / norm)); e != nil {
				v.Free()
				next.Free()
				return nil, 0, e
			}
		}
		converged := opts.Tolerance > 0 && diffL2Norm(v, next) <= opts.Tolerance
		v.Free()
		v = next
		if converged {
			break
		}
	}

	var eigenvalue float64
	if opts.ReturnEigenvalue {
		gv, err := MulVector(g, v)
		if err != nil {
			v.Free()
			return nil, 0, err
		}
		eigenvalue = DotProduct(v, gv)
		gv.Free()
	}
	return v, eigenvalue, nil
}

func (g *Graph) nodesWithIncoming() (*Vector, error) {
	nodes, err := NewVector(0, 0)
	if err != nil {
		return nil, err
	}
	var setErr error
	g.ForEachDirected(func(_, t uint64, _ float32) bool {
		if e := nodes.Set(t, 1); e != nil {
			setErr = e
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
