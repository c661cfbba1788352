// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/matrix/internal/backend/cpu"
	"github.com/born-ml/matrix/internal/parallel"
	"github.com/born-ml/matrix/tensor"
)

// Backend is the reference backend: every operator is a host loop.
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how loops are split across goroutines.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend using all available cores.
//
// Example:
//
//	import (
//	    "github.com/born-ml/matrix/backend/cpu"
//	    "github.com/born-ml/matrix/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.New(backend, tensor.Shape{2, 3}, nil)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with an explicit worker layout.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultParallelConfig uses one worker per CPU.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// SequentialConfig runs every loop on the calling goroutine.
func SequentialConfig() ParallelConfig {
	return parallel.Sequential()
}
