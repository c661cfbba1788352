package tensor

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively for correctness verification.
// When Err is set every operation fails with it before touching dst.
type MockBackend struct {
	Err   error
	Calls int
}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

func (m *MockBackend) elementWise(dst, a, b []float32, op func(x, y float32) float32) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	for i := range dst {
		dst[i] = op(a[i], b[i])
	}
	return nil
}

func (m *MockBackend) unary(dst, x []float32, op func(x float32) float32) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	for i := range dst {
		dst[i] = op(x[i])
	}
	return nil
}

// Add performs element-wise addition.
func (m *MockBackend) Add(dst, a, b []float32) error {
	return m.elementWise(dst, a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction.
func (m *MockBackend) Sub(dst, a, b []float32) error {
	return m.elementWise(dst, a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication.
func (m *MockBackend) Mul(dst, a, b []float32) error {
	return m.elementWise(dst, a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division.
func (m *MockBackend) Div(dst, a, b []float32) error {
	return m.elementWise(dst, a, b, func(x, y float32) float32 { return x / y })
}

// AddScalar adds s to every element.
func (m *MockBackend) AddScalar(dst, x []float32, s float32) error {
	return m.unary(dst, x, func(v float32) float32 { return v + s })
}

// SubScalar subtracts s from every element.
func (m *MockBackend) SubScalar(dst, x []float32, s float32) error {
	return m.unary(dst, x, func(v float32) float32 { return v - s })
}

// MulScalar multiplies every element by s.
func (m *MockBackend) MulScalar(dst, x []float32, s float32) error {
	return m.unary(dst, x, func(v float32) float32 { return v * s })
}

// DivScalar divides every element by s.
func (m *MockBackend) DivScalar(dst, x []float32, s float32) error {
	return m.unary(dst, x, func(v float32) float32 { return v / s })
}

// RSubScalar computes s - x.
func (m *MockBackend) RSubScalar(dst, x []float32, s float32) error {
	return m.unary(dst, x, func(v float32) float32 { return s - v })
}

// Neg negates every element.
func (m *MockBackend) Neg(dst, x []float32) error {
	return m.unary(dst, x, func(v float32) float32 { return -v })
}

// MatMul performs naive matrix multiplication.
func (m *MockBackend) MatMul(dst, a, b []float32, rows, inner, cols int) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var sum float32
			for k := 0; k < inner; k++ {
				sum += a[i*inner+k] * b[k*cols+j]
			}
			dst[i*cols+j] = sum
		}
	}
	return nil
}

// Transpose permutes axes by walking every source coordinate.
func (m *MockBackend) Transpose(dst, src []float32, shape Shape, axes []int) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	outStrides := shape.Permute(axes).ComputeStrides()
	// inverse[j] is the output axis that holds source axis j.
	inverse := make([]int, len(axes))
	for i, ax := range axes {
		inverse[ax] = i
	}
	coords := make([]int, len(shape))
	for idx := range src {
		rem := idx
		for d := len(shape) - 1; d >= 0; d-- {
			coords[d] = rem % shape[d]
			rem /= shape[d]
		}
		off := 0
		for d, c := range coords {
			off += c * outStrides[inverse[d]]
		}
		dst[off] = src[idx]
	}
	return nil
}

// Activate evaluates fn through the function table.
func (m *MockBackend) Activate(dst, x []float32, fn Func, derivative bool, cols int) error {
	form, err := fn.Lookup(derivative)
	if err != nil {
		return err
	}
	p := FuncParams{Alpha: DefaultAlpha, Cols: cols}
	return m.unary(dst, x, func(v float32) float32 { return float32(form(float64(v), p)) })
}
