package tensor

import "github.com/pkg/errors"

// Sentinel errors reported by Matrix operations and backends.
//
// Every message carries the "matrix: " prefix. Call sites wrap these with
// errors.Wrapf to add context (shapes, indices, axes); callers match them
// with errors.Is. No operation panics on user input.
var (
	// ErrShape is returned when a construction shape or fill is invalid
	// (negative extent, or a fill sequence whose length differs from the size).
	ErrShape = errors.New("matrix: invalid shape")

	// ErrShapeMismatch indicates incompatible operand shapes for an elementwise
	// operator or for MatMul.
	ErrShapeMismatch = errors.New("matrix: shape mismatch")

	// ErrIndex indicates an out-of-range or malformed index.
	ErrIndex = errors.New("matrix: index out of range")

	// ErrAxis indicates an invalid axis argument or a permutation that is not
	// a bijection over all axes.
	ErrAxis = errors.New("matrix: invalid axis")

	// ErrUnsupportedFunction is returned when a Function tag has no value or
	// derivative form.
	ErrUnsupportedFunction = errors.New("matrix: unsupported function")

	// ErrUninitializedBackend is returned when arithmetic runs on the
	// accelerated backend before it has been initialized.
	ErrUninitializedBackend = errors.New("matrix: backend not initialized")
)
