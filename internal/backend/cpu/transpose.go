package cpu

import (
	"github.com/born-ml/matrix/internal/parallel"
	"github.com/born-ml/matrix/internal/tensor"
)

// Transpose writes src with its axes permuted into dst.
// Axis i of dst is axis axes[i] of src.
func (cpu *CPUBackend) Transpose(dst, src []float32, shape tensor.Shape, axes []int) error {
	ndim := len(shape)
	if ndim == 2 && axes[0] == 1 && axes[1] == 0 {
		cpu.transpose2D(dst, src, shape[0], shape[1])
		return nil
	}

	srcStrides := shape.ComputeStrides()
	dstStrides := shape.Permute(axes).ComputeStrides()

	// srcToDst[d] is the destination stride for source axis d.
	srcToDst := make([]int, ndim)
	for dstDim, srcDim := range axes {
		srcToDst[srcDim] = dstStrides[dstDim]
	}

	for i := range src {
		idx := i
		dstIdx := 0
		for dim := 0; dim < ndim; dim++ {
			coord := idx / srcStrides[dim]
			idx %= srcStrides[dim]
			dstIdx += coord * srcToDst[dim]
		}
		dst[dstIdx] = src[i]
	}
	return nil
}

// transpose2D is the common matrix case: dst[j,i] = src[i,j].
// Each source row scatters into its own destination column.
func (cpu *CPUBackend) transpose2D(dst, src []float32, rows, cols int) {
	parallel.For(rows, func(i int) {
		row := src[i*cols : (i+1)*cols]
		for j, v := range row {
			dst[j*rows+i] = v
		}
	}, cpu.parallel)
}
