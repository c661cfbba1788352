package cpu

import "github.com/born-ml/matrix/internal/parallel"

// AddScalar computes dst = x + s.
func (cpu *CPUBackend) AddScalar(dst, x []float32, s float32) error {
	cpu.mapUnary(dst, x, func(v float32) float32 { return v + s })
	return nil
}

// SubScalar computes dst = x - s.
func (cpu *CPUBackend) SubScalar(dst, x []float32, s float32) error {
	cpu.mapUnary(dst, x, func(v float32) float32 { return v - s })
	return nil
}

// MulScalar computes dst = x * s.
func (cpu *CPUBackend) MulScalar(dst, x []float32, s float32) error {
	cpu.mapUnary(dst, x, func(v float32) float32 { return v * s })
	return nil
}

// DivScalar computes dst = x / s.
func (cpu *CPUBackend) DivScalar(dst, x []float32, s float32) error {
	cpu.mapUnary(dst, x, func(v float32) float32 { return v / s })
	return nil
}

// RSubScalar computes dst = s - x.
func (cpu *CPUBackend) RSubScalar(dst, x []float32, s float32) error {
	cpu.mapUnary(dst, x, func(v float32) float32 { return s - v })
	return nil
}

// Neg computes dst = -x.
func (cpu *CPUBackend) Neg(dst, x []float32) error {
	cpu.mapUnary(dst, x, func(v float32) float32 { return -v })
	return nil
}

func (cpu *CPUBackend) mapUnary(dst, x []float32, f func(float32) float32) {
	parallel.ForRange(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = f(x[i])
		}
	}, cpu.parallel)
}
