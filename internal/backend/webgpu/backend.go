// Package webgpu implements the accelerated backend: every operator is a WGSL
// compute kernel dispatched through go-webgpu (github.com/go-webgpu/webgpu).
//
// A Backend starts uninitialized. Initialize loads the kernel programs from a
// resource directory, opens the GPU device and compiles one pipeline per
// program; until then every operator fails with tensor.ErrUninitializedBackend.
// Calls block until the result has been read back into dst, and submissions
// are serialized, so a Backend is safe for concurrent use.
package webgpu

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/matrix/internal/tensor"
)

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

var (
	// ErrNotSupported is returned by Initialize on platforms without a
	// WebGPU binding.
	ErrNotSupported = errors.New("webgpu: not supported on this platform")

	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("webgpu: backend already initialized")
)

// Backend implements tensor operations on GPU using WebGPU.
type Backend struct {
	mu           sync.Mutex
	dev          *device
	resourcePath string
}

// New creates an uninitialized WebGPU backend.
func New() *Backend {
	return &Backend{}
}

// Initialize loads the kernel programs from resourcePath (the embedded copies
// when empty), opens the default adapter and compiles every program.
// It is not reentrant: a second call fails with ErrAlreadyInitialized.
func (b *Backend) Initialize(resourcePath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.dev != nil {
		return ErrAlreadyInitialized
	}

	programs, err := LoadKernels(ResourceFS(resourcePath))
	if err != nil {
		return err
	}

	dev, err := openDevice(programs)
	if err != nil {
		return err
	}

	b.dev = dev
	b.resourcePath = resourcePath
	klog.V(1).Infof("webgpu: initialized %s with %d kernels from %q", dev.name(), len(programs), resourcePath)
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (b *Backend) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dev != nil
}

// ResourcePath returns the directory the kernels were loaded from.
func (b *Backend) ResourcePath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resourcePath
}

// Release frees every device resource. The backend returns to the
// uninitialized state and may be initialized again.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.dev != nil {
		b.dev.release()
		b.dev = nil
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dev != nil {
		return b.dev.name()
	}
	return "WebGPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// Add performs element-wise addition on GPU.
func (b *Backend) Add(dst, a, x []float32) error {
	return b.binary(dst, a, x, binaryAdd)
}

// Sub performs element-wise subtraction on GPU.
func (b *Backend) Sub(dst, a, x []float32) error {
	return b.binary(dst, a, x, binarySub)
}

// Mul performs element-wise multiplication on GPU.
func (b *Backend) Mul(dst, a, x []float32) error {
	return b.binary(dst, a, x, binaryMul)
}

// Div performs element-wise division on GPU.
func (b *Backend) Div(dst, a, x []float32) error {
	return b.binary(dst, a, x, binaryDiv)
}

// AddScalar computes dst = x + s on GPU.
func (b *Backend) AddScalar(dst, x []float32, s float32) error {
	return b.scalar(dst, x, s, scalarAdd)
}

// SubScalar computes dst = x - s on GPU.
func (b *Backend) SubScalar(dst, x []float32, s float32) error {
	return b.scalar(dst, x, s, scalarSub)
}

// MulScalar computes dst = x * s on GPU.
func (b *Backend) MulScalar(dst, x []float32, s float32) error {
	return b.scalar(dst, x, s, scalarMul)
}

// DivScalar computes dst = x / s on GPU.
func (b *Backend) DivScalar(dst, x []float32, s float32) error {
	return b.scalar(dst, x, s, scalarDiv)
}

// RSubScalar computes dst = s - x on GPU.
func (b *Backend) RSubScalar(dst, x []float32, s float32) error {
	return b.scalar(dst, x, s, scalarRSub)
}

// Neg computes dst = -x on GPU.
func (b *Backend) Neg(dst, x []float32) error {
	return b.scalar(dst, x, 0, scalarNeg)
}

// MatMul computes dst[m,n] = a[m,k] @ x[k,n] on GPU.
func (b *Backend) MatMul(dst, a, x []float32, m, k, n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ready(KernelMatMul); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	if k == 0 {
		clear(dst)
		return nil
	}
	gx, gy := tileGroups(m, n)
	return b.dev.run(KernelMatMul, dst, [][]byte{float32Bytes(a), float32Bytes(x)}, matmulParams(m, k, n), gx, gy)
}

// Transpose permutes the axes of src into dst on GPU.
func (b *Backend) Transpose(dst, src []float32, shape tensor.Shape, axes []int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ready(KernelTranspose); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	if len(shape) < 2 {
		copy(dst, src)
		return nil
	}
	gx, gy := linearGroups(len(dst))
	inputs := [][]byte{float32Bytes(src), uint32Bytes(transposeDims(shape, axes))}
	return b.dev.run(KernelTranspose, dst, inputs, transposeParams(len(dst), len(shape)), gx, gy)
}

// Activate applies fn, or its derivative, on GPU. Tags are validated on the
// host so the kernel only ever sees supported ids.
func (b *Backend) Activate(dst, x []float32, fn tensor.Func, derivative bool, cols int) error {
	if _, err := fn.Lookup(derivative); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ready(KernelActivate); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	gx, gy := linearGroups(len(dst))
	return b.dev.run(KernelActivate, dst, [][]byte{float32Bytes(x)}, activateParams(len(dst), fn, derivative, cols), gx, gy)
}

func (b *Backend) binary(dst, a, x []float32, op uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ready(KernelBinary); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	gx, gy := linearGroups(len(dst))
	return b.dev.run(KernelBinary, dst, [][]byte{float32Bytes(a), float32Bytes(x)}, binaryParams(len(dst), op), gx, gy)
}

func (b *Backend) scalar(dst, x []float32, s float32, op uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ready(KernelScalar); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	gx, gy := linearGroups(len(dst))
	return b.dev.run(KernelScalar, dst, [][]byte{float32Bytes(x)}, scalarParams(len(dst), op, s), gx, gy)
}

// ready must be called with b.mu held.
func (b *Backend) ready(k Kernel) error {
	if b.dev == nil {
		return errors.Wrapf(tensor.ErrUninitializedBackend, "webgpu: %s kernel called before Initialize", k)
	}
	return nil
}
