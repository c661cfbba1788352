// Package cpu implements the reference backend: every operator runs as a host
// loop on the calling goroutine, fanned out over worker goroutines for large
// buffers. Calls return only after dst is fully written.
package cpu

import (
	"github.com/born-ml/matrix/internal/parallel"
	"github.com/born-ml/matrix/internal/tensor"
)

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on the host.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend with the default parallel configuration.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
// Use parallel.Config{} for strictly sequential execution.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// ParallelConfig returns the fan-out configuration.
func (cpu *CPUBackend) ParallelConfig() parallel.Config {
	return cpu.parallel
}

// Add performs element-wise addition.
func (cpu *CPUBackend) Add(dst, a, b []float32) error {
	parallel.ForRange(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = a[i] + b[i]
		}
	}, cpu.parallel)
	return nil
}

// Sub performs element-wise subtraction.
func (cpu *CPUBackend) Sub(dst, a, b []float32) error {
	parallel.ForRange(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = a[i] - b[i]
		}
	}, cpu.parallel)
	return nil
}

// Mul performs element-wise multiplication.
func (cpu *CPUBackend) Mul(dst, a, b []float32) error {
	parallel.ForRange(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = a[i] * b[i]
		}
	}, cpu.parallel)
	return nil
}

// Div performs element-wise division. Zero divisors produce ±Inf or NaN.
func (cpu *CPUBackend) Div(dst, a, b []float32) error {
	parallel.ForRange(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = a[i] / b[i]
		}
	}, cpu.parallel)
	return nil
}
