package tensor

import "github.com/pkg/errors"

// MatMul returns the matrix product m @ other.
// For m of shape [p, q] and other of shape [q, r] the result has shape [p, r].
func (m *Matrix) MatMul(other *Matrix) (*Matrix, error) {
	if len(m.shape) != 2 || len(other.shape) != 2 {
		return nil, errors.Wrapf(ErrShapeMismatch, "matmul: rank-2 operands required, got %v @ %v", m.shape, other.shape)
	}
	p, q := m.shape[0], m.shape[1]
	qAlt, r := other.shape[0], other.shape[1]
	if q != qAlt {
		return nil, errors.Wrapf(ErrShapeMismatch, "matmul: inner extents differ: [%d,%d] @ [%d,%d]", p, q, qAlt, r)
	}

	result := newMatrix(m.backend, Shape{p, r})
	if err := m.backend.MatMul(result.data, m.data, other.data, p, q, r); err != nil {
		return nil, errors.WithMessage(err, "matmul")
	}
	return result, nil
}

// T returns the full transpose: the axis order is reversed, so
// T().At(reverse(idx)...) == At(idx...).
func (m *Matrix) T() (*Matrix, error) {
	return m.Permute(ReversedAxes(len(m.shape))...)
}

// Transpose returns a copy with axes a and b swapped.
// Swapping an axis with itself returns an unchanged copy.
func (m *Matrix) Transpose(a, b int) (*Matrix, error) {
	rank := len(m.shape)
	for _, ax := range []int{a, b} {
		if ax < 0 || ax >= rank {
			return nil, errors.Wrapf(ErrAxis, "transpose: axis %d out of range for rank %d", ax, rank)
		}
	}
	axes := m.Axes()
	axes[a], axes[b] = axes[b], axes[a]
	return m.Permute(axes...)
}

// Permute returns a copy whose axis i is the receiver's axis axes[i].
// axes must be a bijection over [0, rank).
func (m *Matrix) Permute(axes ...int) (*Matrix, error) {
	if err := ValidatePermutation(axes, len(m.shape)); err != nil {
		return nil, err
	}
	result := newMatrix(m.backend, m.shape.Permute(axes))
	if err := m.backend.Transpose(result.data, m.data, m.shape, axes); err != nil {
		return nil, errors.WithMessage(err, "transpose")
	}
	return result, nil
}
