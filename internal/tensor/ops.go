package tensor

import "github.com/pkg/errors"

type binaryKernel func(dst, a, b []float32) error

type scalarKernel func(dst, x []float32, s float32) error

func (m *Matrix) checkSameShape(op string, other *Matrix) error {
	if !m.shape.Equal(other.shape) {
		return errors.Wrapf(ErrShapeMismatch, "%s: shapes %v and %v differ", op, m.shape, other.shape)
	}
	return nil
}

// binary returns a new matrix holding kernel(m, other).
func (m *Matrix) binary(op string, other *Matrix, kernel binaryKernel) (*Matrix, error) {
	if err := m.checkSameShape(op, other); err != nil {
		return nil, err
	}
	result := newMatrix(m.backend, m.shape)
	if err := kernel(result.data, m.data, other.data); err != nil {
		return nil, errors.WithMessage(err, op)
	}
	return result, nil
}

// binaryInPlace validates, then overwrites m with kernel(m, other).
func (m *Matrix) binaryInPlace(op string, other *Matrix, kernel binaryKernel) error {
	if err := m.checkSameShape(op, other); err != nil {
		return err
	}
	return errors.WithMessage(kernel(m.data, m.data, other.data), op)
}

func (m *Matrix) scalar(op string, s float32, kernel scalarKernel) (*Matrix, error) {
	result := newMatrix(m.backend, m.shape)
	if err := kernel(result.data, m.data, s); err != nil {
		return nil, errors.WithMessage(err, op)
	}
	return result, nil
}

// Add returns m + other elementwise. Shapes must match exactly.
func (m *Matrix) Add(other *Matrix) (*Matrix, error) {
	return m.binary("add", other, m.backend.Add)
}

// Sub returns m - other elementwise.
func (m *Matrix) Sub(other *Matrix) (*Matrix, error) {
	return m.binary("sub", other, m.backend.Sub)
}

// Mul returns the elementwise (Hadamard) product m * other.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	return m.binary("mul", other, m.backend.Mul)
}

// Div returns m / other elementwise. Division by zero follows IEEE 754.
func (m *Matrix) Div(other *Matrix) (*Matrix, error) {
	return m.binary("div", other, m.backend.Div)
}

// AddScalar returns m + s.
func (m *Matrix) AddScalar(s float32) (*Matrix, error) {
	return m.scalar("add scalar", s, m.backend.AddScalar)
}

// SubScalar returns m - s.
func (m *Matrix) SubScalar(s float32) (*Matrix, error) {
	return m.scalar("sub scalar", s, m.backend.SubScalar)
}

// MulScalar returns m * s.
func (m *Matrix) MulScalar(s float32) (*Matrix, error) {
	return m.scalar("mul scalar", s, m.backend.MulScalar)
}

// DivScalar returns m / s. Dividing by zero yields ±Inf or NaN.
func (m *Matrix) DivScalar(s float32) (*Matrix, error) {
	return m.scalar("div scalar", s, m.backend.DivScalar)
}

// RAddScalar returns s + m, equal to m + s.
func (m *Matrix) RAddScalar(s float32) (*Matrix, error) {
	return m.AddScalar(s)
}

// RMulScalar returns s * m, equal to m * s.
func (m *Matrix) RMulScalar(s float32) (*Matrix, error) {
	return m.MulScalar(s)
}

// RSubScalar returns s - m, the mirror of SubScalar.
func (m *Matrix) RSubScalar(s float32) (*Matrix, error) {
	return m.scalar("rsub scalar", s, m.backend.RSubScalar)
}

// Neg returns -m.
func (m *Matrix) Neg() (*Matrix, error) {
	result := newMatrix(m.backend, m.shape)
	if err := m.backend.Neg(result.data, m.data); err != nil {
		return nil, errors.WithMessage(err, "neg")
	}
	return result, nil
}

// Pos returns +m: a copy with identical shape and values.
func (m *Matrix) Pos() *Matrix {
	return m.Clone()
}

// AddInPlace performs m += other.
func (m *Matrix) AddInPlace(other *Matrix) error {
	return m.binaryInPlace("add", other, m.backend.Add)
}

// SubInPlace performs m -= other.
func (m *Matrix) SubInPlace(other *Matrix) error {
	return m.binaryInPlace("sub", other, m.backend.Sub)
}

// MulInPlace performs m *= other elementwise.
func (m *Matrix) MulInPlace(other *Matrix) error {
	return m.binaryInPlace("mul", other, m.backend.Mul)
}

// DivInPlace performs m /= other elementwise.
func (m *Matrix) DivInPlace(other *Matrix) error {
	return m.binaryInPlace("div", other, m.backend.Div)
}

// AddScalarInPlace performs m += s.
func (m *Matrix) AddScalarInPlace(s float32) error {
	return errors.WithMessage(m.backend.AddScalar(m.data, m.data, s), "add scalar")
}

// SubScalarInPlace performs m -= s.
func (m *Matrix) SubScalarInPlace(s float32) error {
	return errors.WithMessage(m.backend.SubScalar(m.data, m.data, s), "sub scalar")
}

// MulScalarInPlace performs m *= s.
func (m *Matrix) MulScalarInPlace(s float32) error {
	return errors.WithMessage(m.backend.MulScalar(m.data, m.data, s), "mul scalar")
}

// DivScalarInPlace performs m /= s.
func (m *Matrix) DivScalarInPlace(s float32) error {
	return errors.WithMessage(m.backend.DivScalar(m.data, m.data, s), "div scalar")
}

// Apply evaluates fn elementwise and returns a new matrix of the same shape.
// With derivative set, the derivative of fn is evaluated at each element
// instead. Loss tags such as MSE expect m to hold residuals.
func (m *Matrix) Apply(fn Func, derivative bool) (*Matrix, error) {
	if _, err := fn.Lookup(derivative); err != nil {
		return nil, err
	}
	cols := 1
	if len(m.shape) > 0 {
		cols = m.shape[len(m.shape)-1]
	}
	result := newMatrix(m.backend, m.shape)
	if err := m.backend.Activate(result.data, m.data, fn, derivative, cols); err != nil {
		return nil, errors.WithMessagef(err, "apply %s", fn)
	}
	return result, nil
}
