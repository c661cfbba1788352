// Package engine selects the backend Matrices run on.
//
// An Engine is built from a Config (reference host loops or accelerated
// WebGPU kernels) and creates Matrices bound to that backend. The mode is
// fixed for the Engine's lifetime. Under the accelerated mode Initialize must
// succeed before any arithmetic; earlier calls fail with
// tensor.ErrUninitializedBackend.
package engine

import (
	"math/rand"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/matrix/internal/backend/cpu"
	"github.com/born-ml/matrix/internal/backend/webgpu"
	"github.com/born-ml/matrix/internal/tensor"
)

// Engine owns one backend and creates Matrices bound to it.
type Engine struct {
	cfg     Config
	backend tensor.Backend
	gpu     *webgpu.Backend

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an Engine for cfg. The reference backend is ready
// immediately; the accelerated one waits for Initialize.
func New(cfg Config) (*Engine, error) {
	e := &Engine{cfg: cfg}
	if cfg.Seed != 0 {
		e.rng = rand.New(rand.NewSource(cfg.Seed))
	}

	switch cfg.Mode {
	case Reference:
		e.backend = cpu.NewWithConfig(cfg.Parallel)
	case Accelerated:
		e.gpu = webgpu.New()
		e.backend = e.gpu
	default:
		return nil, errors.Errorf("engine: unknown mode %d", int(cfg.Mode))
	}
	klog.V(1).Infof("engine: selected %s backend (%s)", cfg.Mode, e.backend.Name())
	return e, nil
}

// NewFromEnv creates an Engine configured by $MATRIX_BACKEND.
func NewFromEnv() (*Engine, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// Initialize prepares the backend. For the accelerated mode it loads and
// compiles the kernels found in resourcePath, falling back to
// Config.ResourcePath and then to the embedded kernels. For the reference
// mode there is nothing to prepare.
func (e *Engine) Initialize(resourcePath string) error {
	if e.gpu == nil {
		klog.V(1).Infof("engine: %s backend needs no initialization", e.cfg.Mode)
		return nil
	}
	if resourcePath == "" {
		resourcePath = e.cfg.ResourcePath
	}
	if err := e.gpu.Initialize(resourcePath); err != nil {
		return errors.WithMessage(err, "engine: initializing accelerated backend")
	}
	return nil
}

// Mode returns the selected mode.
func (e *Engine) Mode() Mode {
	return e.cfg.Mode
}

// Config returns the configuration the Engine was built from.
func (e *Engine) Config() Config {
	return e.cfg
}

// Initialized reports whether arithmetic may run.
func (e *Engine) Initialized() bool {
	if e.gpu == nil {
		return true
	}
	return e.gpu.Initialized()
}

// Backend returns the backend every Matrix of this Engine is bound to.
func (e *Engine) Backend() tensor.Backend {
	return e.backend
}

// Close releases device resources. Matrices created by the Engine keep their
// host storage but their arithmetic fails until the Engine is initialized
// again.
func (e *Engine) Close() {
	if e.gpu != nil {
		e.gpu.Release()
	}
}

// New creates a Matrix of the given shape. A nil fill yields zeros.
// A FillRange without its own source draws from the Engine's seeded source
// when Config.Seed is set.
func (e *Engine) New(shape tensor.Shape, fill tensor.Fill) (*tensor.Matrix, error) {
	if r, ok := fill.(tensor.FillRange); ok && r.Rand == nil && e.rng != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		r.Rand = e.rng
		fill = r
	}
	return tensor.New(e.backend, shape, fill)
}

// Zeros creates a zero-filled Matrix.
func (e *Engine) Zeros(shape ...int) (*tensor.Matrix, error) {
	return e.New(shape, nil)
}

// Full creates a Matrix with every element set to v.
func (e *Engine) Full(v float32, shape ...int) (*tensor.Matrix, error) {
	return e.New(shape, tensor.FillScalar(v))
}

// Uniform creates a Matrix drawn uniformly from [lo, hi).
func (e *Engine) Uniform(lo, hi float32, shape ...int) (*tensor.Matrix, error) {
	return e.New(shape, tensor.Uniform(lo, hi))
}

// FromSlice creates a Matrix holding a copy of data.
func (e *Engine) FromSlice(shape tensor.Shape, data []float32) (*tensor.Matrix, error) {
	return tensor.FromSlice(e.backend, shape, data)
}
