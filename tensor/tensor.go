// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/matrix/internal/tensor"
)

// Matrix is an N-dimensional float32 array bound to a Backend.
type Matrix = tensor.Matrix

// Shape lists the extent of each axis. A rank-0 shape holds one element.
type Shape = tensor.Shape

// Backend executes Matrix arithmetic on one device.
type Backend = tensor.Backend

// Device identifies where a Backend runs.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// Fill describes how New initializes storage.
type Fill = tensor.Fill

// Fill variants.
type (
	FillScalar   = tensor.FillScalar
	FillRange    = tensor.FillRange
	FillSequence = tensor.FillSequence
)

// Func is an activation or loss tag for Matrix.Apply.
type Func = tensor.Func

// Function tags.
const (
	Linear    Func = tensor.Linear
	Sigmoid   Func = tensor.Sigmoid
	Tanh      Func = tensor.Tanh
	ReLU      Func = tensor.ReLU
	LeakyReLU Func = tensor.LeakyReLU
	ELU       Func = tensor.ELU
	GELU      Func = tensor.GELU
	MSE       Func = tensor.MSE
)

// DefaultAlpha is the negative-side slope of LeakyReLU and ELU.
const DefaultAlpha = tensor.DefaultAlpha

// Sentinel errors, matched with errors.Is.
var (
	ErrShape                = tensor.ErrShape
	ErrShapeMismatch        = tensor.ErrShapeMismatch
	ErrIndex                = tensor.ErrIndex
	ErrAxis                 = tensor.ErrAxis
	ErrUnsupportedFunction  = tensor.ErrUnsupportedFunction
	ErrUninitializedBackend = tensor.ErrUninitializedBackend
)

// New creates a Matrix of the given shape bound to b. A nil fill leaves
// every element at zero.
func New(b Backend, shape Shape, fill Fill) (*Matrix, error) {
	return tensor.New(b, shape, fill)
}

// FromSlice creates a Matrix holding a copy of data in row-major order.
//
// Example:
//
//	m, err := tensor.FromSlice(cpu.New(), tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
func FromSlice(b Backend, shape Shape, data []float32) (*Matrix, error) {
	return tensor.FromSlice(b, shape, data)
}

// Uniform returns a FillRange over [lo, hi) using the global random source.
func Uniform(lo, hi float32) FillRange {
	return tensor.Uniform(lo, hi)
}

// ParseFunc resolves a function tag by name ("relu", "sigmoid", ...).
func ParseFunc(s string) (Func, error) {
	return tensor.ParseFunc(s)
}

// Funcs lists every supported function tag.
func Funcs() []Func {
	return tensor.Funcs()
}
