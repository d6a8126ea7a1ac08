// Package testutil provides testing utilities for rmq.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic random source for generating inputs and a
// brute-force reference to check query answers against.
//
//	rng := testutil.NewRNG(seed)
//	values := rng.Ints(1000, -50, 50)
//	lo, hi := testutil.BruteMinMax(values, l, r)
package testutil
