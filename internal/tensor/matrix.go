// Package tensor provides the Matrix type: shape-aware float32 storage with
// elementwise, matrix and structural operators executed by a Backend.
package tensor

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Matrix is an N-dimensional float32 array stored in row-major order.
//
// A Matrix exclusively owns its storage. Operators that return a Matrix
// allocate fresh storage; in-place operators write only to the receiver.
//
// Example:
//
//	backend := cpu.New()
//	m, err := tensor.New(backend, tensor.Shape{2, 3}, tensor.FillScalar(1))
//	if err != nil {
//	    return err
//	}
//	_ = m.Set(5, 0, 1)
//	v, _ := m.At(0, 1) // 5
type Matrix struct {
	shape   Shape
	strides []int
	data    []float32
	backend Backend
}

// New creates a Matrix of the given shape bound to backend b.
// A nil fill leaves every element at zero.
func New(b Backend, shape Shape, fill Fill) (*Matrix, error) {
	if b == nil {
		return nil, errors.New("matrix: nil backend")
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	m := newMatrix(b, shape)
	if fill != nil {
		if err := fill.fill(m.data); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FromSlice creates a Matrix holding a copy of data.
func FromSlice(b Backend, shape Shape, data []float32) (*Matrix, error) {
	return New(b, shape, FillSequence(data))
}

// newMatrix allocates zeroed storage for an already validated shape.
func newMatrix(b Backend, shape Shape) *Matrix {
	return &Matrix{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    make([]float32, shape.NumElements()),
		backend: b,
	}
}

// Shape returns a copy of the matrix shape.
func (m *Matrix) Shape() Shape {
	return m.shape.Clone()
}

// Rank returns the number of axes.
func (m *Matrix) Rank() int {
	return len(m.shape)
}

// Axes returns the axis order of the storage. Transposes always materialize
// their result, so this is the identity permutation.
func (m *Matrix) Axes() []int {
	axes := make([]int, len(m.shape))
	for i := range axes {
		axes[i] = i
	}
	return axes
}

// Size returns the number of elements.
func (m *Matrix) Size() int {
	return len(m.data)
}

// Backend returns the backend executing this matrix's operators.
func (m *Matrix) Backend() Backend {
	return m.backend
}

// ToSlice returns a copy of the storage in row-major order.
func (m *Matrix) ToSlice() []float32 {
	out := make([]float32, len(m.data))
	copy(out, m.data)
	return out
}

// Clone creates a deep copy bound to the same backend.
func (m *Matrix) Clone() *Matrix {
	c := newMatrix(m.backend, m.shape)
	copy(c.data, m.data)
	return c
}

// offset resolves a flat index (one value) or a full multi-index (rank values)
// to a storage position. A rank-1 matrix reads both forms the same way.
func (m *Matrix) offset(indices []int) (int, error) {
	if len(indices) == 1 && len(m.shape) != 1 {
		i := indices[0]
		if i < 0 || i >= len(m.data) {
			return 0, errors.Wrapf(ErrIndex, "flat index %d out of range for size %d", i, len(m.data))
		}
		return i, nil
	}
	if len(indices) != len(m.shape) {
		return 0, errors.Wrapf(ErrIndex, "expected 1 or %d indices, got %d", len(m.shape), len(indices))
	}
	off := 0
	for i, idx := range indices {
		if idx < 0 || idx >= m.shape[i] {
			return 0, errors.Wrapf(ErrIndex, "index %d out of bounds for axis %d (size %d)", idx, i, m.shape[i])
		}
		off += idx * m.strides[i]
	}
	return off, nil
}

// At returns the element at a flat index or a full multi-index.
//
//	m.At(4)    // fifth element in row-major order
//	m.At(1, 2) // row 1, column 2
func (m *Matrix) At(indices ...int) (float32, error) {
	off, err := m.offset(indices)
	if err != nil {
		return 0, err
	}
	return m.data[off], nil
}

// Set writes value at a flat index or a full multi-index.
func (m *Matrix) Set(value float32, indices ...int) error {
	off, err := m.offset(indices)
	if err != nil {
		return err
	}
	m.data[off] = value
	return nil
}

// String returns a human-readable representation, e.g. Matrix[2 2]{1, 2, 3, 4}.
func (m *Matrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Matrix%v{", []int(m.shape))
	const maxShown = 16
	for i, v := range m.data {
		if i == maxShown {
			fmt.Fprintf(&sb, ", ... (%d more)", len(m.data)-maxShown)
			break
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteString("}")
	return sb.String()
}
