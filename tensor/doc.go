// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public N-dimensional float32 Matrix API.
//
// # Overview
//
// A Matrix has a shape (any rank, including 0) and row-major storage of
// exactly Shape.NumElements values. Every Matrix is bound to a Backend that
// executes its arithmetic:
//   - backend/cpu: host loops, optionally split across goroutines
//   - backend/webgpu: WGSL compute kernels (requires Initialize)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/matrix/backend/cpu"
//	    "github.com/born-ml/matrix/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    a, _ := tensor.FromSlice(backend, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
//	    b, _ := tensor.New(backend, tensor.Shape{3, 2}, tensor.FillScalar(1))
//
//	    c, _ := a.MatMul(b)          // [2, 2]
//	    d, _ := c.Apply(tensor.Sigmoid, false)
//	    e, _ := d.MulScalar(2)
//	}
//
// # Fills
//
// New takes an optional Fill:
//   - FillScalar: every element holds the same value
//   - FillRange: uniform random values in [Lo, Hi)
//   - FillSequence: explicit row-major values
//
// # Errors
//
// Failures wrap one of the sentinel errors (ErrShape, ErrShapeMismatch,
// ErrIndex, ErrAxis, ErrUnsupportedFunction, ErrUninitializedBackend) and
// can be matched with errors.Is. A failed operation never modifies its
// operands.
package tensor
