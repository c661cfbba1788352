// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go reference backend.
//
// # Overview
//
// This package implements every Matrix operator as a host loop:
//   - Pure Go implementation (no CGO)
//   - Elementwise, scalar and activation loops split across goroutines
//   - Row-parallel i-k-j matrix multiplication
//   - Strided gather for transposes and permutations
//
// Results follow IEEE-754 float32 semantics, including NaN and Inf
// propagation and signed zeros.
//
// # Basic Usage
//
//	backend := cpu.New()
//	a, _ := tensor.FromSlice(backend, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
//	b, _ := a.T()
//	c, _ := a.MatMul(b)
//
// Deterministic single-threaded execution:
//
//	backend := cpu.NewWithConfig(cpu.SequentialConfig())
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. It holds no mutable state.
package cpu
