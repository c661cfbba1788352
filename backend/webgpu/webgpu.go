// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the accelerated backend: every Matrix operator
// runs as a WGSL compute kernel through WebGPU.
//
// The backend must be initialized with the directory holding the kernel
// sources before any arithmetic; until then every operator fails with
// tensor.ErrUninitializedBackend. An empty path uses the kernels embedded
// in the binary.
//
// Example:
//
//	gpu := webgpu.New()
//	if err := gpu.Initialize(""); err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	x, _ := tensor.New(gpu, tensor.Shape{1024, 1024}, tensor.Uniform(-1, 1))
//	y, _ := x.MatMul(x)
package webgpu

import (
	internalwebgpu "github.com/born-ml/matrix/internal/backend/webgpu"
	"github.com/born-ml/matrix/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Errors reported by Initialize.
var (
	ErrNotSupported       = internalwebgpu.ErrNotSupported
	ErrAlreadyInitialized = internalwebgpu.ErrAlreadyInitialized
)

// New creates an uninitialized WebGPU backend.
func New() *Backend {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// This function attempts to open a WebGPU adapter to verify that a
// compatible GPU and drivers are present. It's useful for graceful
// fallback to the CPU backend.
//
// Example:
//
//	var backend tensor.Backend = cpu.New()
//	if webgpu.IsAvailable() {
//	    gpu := webgpu.New()
//	    if err := gpu.Initialize(""); err == nil {
//	        backend = gpu
//	    }
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
