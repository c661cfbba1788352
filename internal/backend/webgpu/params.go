package webgpu

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/born-ml/matrix/internal/tensor"
)

// workgroupSize is the number of invocations per workgroup of the 1D kernels.
const workgroupSize = 256

// matmulTile is the side of the 2D matmul workgroup.
const matmulTile = 16

// maxWorkgroupsPerDim is the WebGPU limit on dispatch extent per dimension.
const maxWorkgroupsPerDim = 65535

// Operator codes understood by binary.wgsl.
const (
	binaryAdd uint32 = iota
	binarySub
	binaryMul
	binaryDiv
)

// Operator codes understood by scalar.wgsl.
const (
	scalarAdd uint32 = iota
	scalarSub
	scalarMul
	scalarDiv
	scalarRSub
	scalarNeg
)

// uniform packs 32-bit words into a uniform buffer payload padded to 16 bytes.
func uniform(words ...uint32) []byte {
	size := (len(words)*4 + 15) &^ 15
	buf := make([]byte, size)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

func binaryParams(n int, op uint32) []byte {
	//nolint:gosec // G115: n is a non-negative element count
	return uniform(uint32(n), op)
}

func scalarParams(n int, op uint32, s float32) []byte {
	//nolint:gosec // G115: n is a non-negative element count
	return uniform(uint32(n), op, math.Float32bits(s))
}

func matmulParams(m, k, n int) []byte {
	//nolint:gosec // G115: extents are non-negative
	return uniform(uint32(m), uint32(k), uint32(n))
}

func transposeParams(n, ndim int) []byte {
	//nolint:gosec // G115: sizes are non-negative
	return uniform(uint32(n), uint32(ndim))
}

// activateParams encodes the activate.wgsl Params struct. The function id is
// the tensor.Func value itself.
func activateParams(n int, fn tensor.Func, derivative bool, cols int) []byte {
	var d uint32
	if derivative {
		d = 1
	}
	//nolint:gosec // G115: sizes and tags are non-negative
	return uniform(uint32(n), uint32(fn), d, uint32(cols), math.Float32bits(tensor.DefaultAlpha))
}

// transposeDims lays out input strides, output strides and axes for
// transpose.wgsl.
func transposeDims(shape tensor.Shape, axes []int) []uint32 {
	ndim := len(shape)
	in := shape.ComputeStrides()
	out := shape.Permute(axes).ComputeStrides()
	dims := make([]uint32, 3*ndim)
	for d := 0; d < ndim; d++ {
		//nolint:gosec // G115: strides and axes are non-negative
		dims[d], dims[ndim+d], dims[2*ndim+d] = uint32(in[d]), uint32(out[d]), uint32(axes[d])
	}
	return dims
}

// linearGroups returns the dispatch extent covering n invocations of a 1D
// kernel. Counts above the per-dimension limit spill into y; the kernels
// flatten (x, y) back into one index.
func linearGroups(n int) (x, y uint32) {
	groups := (n + workgroupSize - 1) / workgroupSize
	if groups <= maxWorkgroupsPerDim {
		//nolint:gosec // G115: bounded by maxWorkgroupsPerDim
		return uint32(groups), 1
	}
	rows := (groups + maxWorkgroupsPerDim - 1) / maxWorkgroupsPerDim
	//nolint:gosec // G115: bounded by maxWorkgroupsPerDim
	return maxWorkgroupsPerDim, uint32(rows)
}

// tileGroups returns the 2D dispatch extent for the matmul kernel.
func tileGroups(m, n int) (x, y uint32) {
	//nolint:gosec // G115: extents are non-negative
	return uint32((n + matmulTile - 1) / matmulTile), uint32((m + matmulTile - 1) / matmulTile)
}

// float32Bytes views x as its little-endian byte representation.
func float32Bytes(x []float32) []byte {
	if len(x) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy upload
	return unsafe.Slice((*byte)(unsafe.Pointer(&x[0])), len(x)*4)
}

func uint32Bytes(x []uint32) []byte {
	if len(x) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy upload
	return unsafe.Slice((*byte)(unsafe.Pointer(&x[0])), len(x)*4)
}

// copyFloat32s decodes a device readback into dst.
func copyFloat32s(dst []float32, data []byte) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
}
