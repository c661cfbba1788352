package cpu

import "github.com/born-ml/matrix/internal/parallel"

// MatMul performs matrix multiplication.
// (M, K) @ (K, N) -> (M, N), rows of the result are computed in parallel.
func (cpu *CPUBackend) MatMul(dst, a, b []float32, m, k, n int) error {
	// Each row touches k*n multiply-adds; scale the chunk so tiny products
	// stay on the calling goroutine.
	cfg := cpu.parallel
	if work := k * n; work > 0 && cfg.MinChunkSize > 0 {
		cfg.MinChunkSize = max(1, cfg.MinChunkSize/work)
	}
	parallel.ForRange(m, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			matmulRow(dst[i*n:(i+1)*n], a[i*k:(i+1)*k], b, n)
		}
	}, cfg)
	return nil
}

// matmulRow computes one output row: c[j] = sum_k a[k] * b[k,j].
// The k-outer loop walks b row by row for sequential memory access.
func matmulRow(c, a, b []float32, n int) {
	for j := range c {
		c[j] = 0
	}
	for kIdx, av := range a {
		row := b[kIdx*n : (kIdx+1)*n]
		for j, bv := range row {
			c[j] += av * bv
		}
	}
}
