package tensor

import "github.com/pkg/errors"

// Shape represents the per-axis extents of a Matrix.
type Shape []int

// NumElements returns the total number of elements.
// A rank-0 shape is a scalar and holds one element; any zero extent yields zero.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that no extent is negative. Zero extents are allowed.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return errors.Wrapf(ErrShape, "dimension %d of %v is %d (must be >= 0)", i, s, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Permute returns the shape whose axis i is s[axes[i]].
// The caller validates axes with ValidatePermutation.
func (s Shape) Permute(axes []int) Shape {
	out := make(Shape, len(axes))
	for i, ax := range axes {
		out[i] = s[ax]
	}
	return out
}

// ValidatePermutation checks that axes is a bijection over [0, rank).
func ValidatePermutation(axes []int, rank int) error {
	if len(axes) != rank {
		return errors.Wrapf(ErrAxis, "permutation %v has %d axes, want %d", axes, len(axes), rank)
	}
	seen := make([]bool, rank)
	for _, ax := range axes {
		if ax < 0 || ax >= rank {
			return errors.Wrapf(ErrAxis, "axis %d out of range for rank %d", ax, rank)
		}
		if seen[ax] {
			return errors.Wrapf(ErrAxis, "duplicate axis %d in %v", ax, axes)
		}
		seen[ax] = true
	}
	return nil
}

// ReversedAxes returns the permutation [rank-1, ..., 1, 0].
func ReversedAxes(rank int) []int {
	axes := make([]int, rank)
	for i := range axes {
		axes[i] = rank - 1 - i
	}
	return axes
}
