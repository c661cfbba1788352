package cpu

import (
	"github.com/born-ml/matrix/internal/parallel"
	"github.com/born-ml/matrix/internal/tensor"
)

// Activate evaluates fn, or its derivative, at every element of x.
// The scalar forms come from the shared function table, so the CPU backend
// defines the reference values the WebGPU kernel is checked against.
func (cpu *CPUBackend) Activate(dst, x []float32, fn tensor.Func, derivative bool, cols int) error {
	form, err := fn.Lookup(derivative)
	if err != nil {
		return err
	}
	p := tensor.FuncParams{Alpha: tensor.DefaultAlpha, Cols: cols}
	parallel.ForRange(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = float32(form(float64(x[i]), p))
		}
	}, cpu.parallel)
	return nil
}
