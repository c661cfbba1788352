package tensor

// Device represents the compute device a backend executes on.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// Backend defines the arithmetic every execution target implements.
// Matrix validates shapes, indices and axes before calling into a backend, so
// implementations can assume well-formed arguments. Every call blocks until
// dst holds the result.
//
// dst may be the same slice as an input for elementwise and scalar
// operations (in-place operators rely on this). It never aliases an input of
// MatMul, Transpose or Activate.
//
// Implementations:
//   - CPU: host loops, the reference semantics
//   - WebGPU: WGSL compute kernels, must be initialized before use
type Backend interface {
	// Element-wise binary operations on equal-length buffers.
	Add(dst, a, b []float32) error
	Sub(dst, a, b []float32) error
	Mul(dst, a, b []float32) error
	Div(dst, a, b []float32) error

	// Scalar operations: dst[i] = x[i] op s.
	AddScalar(dst, x []float32, s float32) error
	SubScalar(dst, x []float32, s float32) error
	MulScalar(dst, x []float32, s float32) error
	DivScalar(dst, x []float32, s float32) error

	// RSubScalar computes dst[i] = s - x[i].
	RSubScalar(dst, x []float32, s float32) error

	// Neg computes dst[i] = -x[i].
	Neg(dst, x []float32) error

	// MatMul computes dst[m,n] = a[m,k] @ b[k,n] in row-major order.
	MatMul(dst, a, b []float32, m, k, n int) error

	// Transpose writes src (laid out as shape) into dst with axes permuted,
	// so that dst has shape shape.Permute(axes).
	Transpose(dst, src []float32, shape Shape, axes []int) error

	// Activate applies fn (or its derivative) to every element. cols is the
	// extent of the last axis, used by loss tags that normalize per row.
	Activate(dst, x []float32, fn Func, derivative bool, cols int) error

	// Metadata
	Name() string
	Device() Device
}
