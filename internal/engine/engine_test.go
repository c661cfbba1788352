package engine

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matrix/internal/backend/webgpu"
	"github.com/born-ml/matrix/internal/tensor"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		in      string
		mode    Mode
		path    string
		workers int
		wantErr bool
	}{
		{in: "", mode: Reference},
		{in: "cpu", mode: Reference},
		{in: "CPU", mode: Reference},
		{in: "reference", mode: Reference},
		{in: "cpu:1", mode: Reference, workers: 1},
		{in: "cpu:4", mode: Reference, workers: 4},
		{in: "webgpu", mode: Accelerated},
		{in: "gpu", mode: Accelerated},
		{in: "webgpu:/opt/kernels", mode: Accelerated, path: "/opt/kernels"},
		{in: `webgpu:C:\kernels`, mode: Accelerated, path: `C:\kernels`},
		{in: "cuda", wantErr: true},
		{in: "cpu:zero", wantErr: true},
		{in: "cpu:0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg, err := ParseConfig(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, cfg.Mode)
			assert.Equal(t, tt.path, cfg.ResourcePath)
			if tt.workers > 0 {
				assert.Equal(t, tt.workers, cfg.Parallel.NumWorkers)
				assert.Equal(t, tt.workers > 1, cfg.Parallel.Enabled)
			}
		})
	}
}

func TestConfig_StringRoundTrip(t *testing.T) {
	for _, s := range []string{"cpu:3", "webgpu", "webgpu:/tmp/k"} {
		cfg, err := ParseConfig(s)
		require.NoError(t, err)
		assert.Equal(t, s, cfg.String())
	}
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvBackend, "webgpu:/srv/kernels")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Accelerated, cfg.Mode)
	assert.Equal(t, "/srv/kernels", cfg.ResourcePath)

	t.Setenv(EnvBackend, "tpu")
	_, err = ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvBackend)
}

func TestEngine_Reference(t *testing.T) {
	e, err := New(DefaultConfig())
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, Reference, e.Mode())
	assert.True(t, e.Initialized())
	assert.Equal(t, tensor.CPU, e.Backend().Device())
	require.NoError(t, e.Initialize("ignored"))

	a, err := e.Full(2, 2, 3)
	require.NoError(t, err)
	b, err := e.Full(1, 3, 2)
	require.NoError(t, err)
	c, err := a.MatMul(b)
	require.NoError(t, err)
	assert.Equal(t, []float32{6, 6, 6, 6}, c.ToSlice())

	z, err := e.Zeros(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, z.Size())
}

func TestEngine_SeededUniform(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	draw := func() []float32 {
		e, err := New(cfg)
		require.NoError(t, err)
		m, err := e.Uniform(-1, 1, 4, 4)
		require.NoError(t, err)
		return m.ToSlice()
	}
	first := draw()
	assert.Equal(t, first, draw())
	for _, v := range first {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestEngine_AcceleratedRequiresInitialize(t *testing.T) {
	e, err := New(Config{Mode: Accelerated})
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, Accelerated, e.Mode())
	assert.False(t, e.Initialized())
	assert.Equal(t, tensor.WebGPU, e.Backend().Device())

	m, err := e.Full(1, 2, 2)
	require.NoError(t, err)

	_, err = m.Add(m)
	assert.ErrorIs(t, err, tensor.ErrUninitializedBackend)
	_, err = m.Apply(tensor.Sigmoid, false)
	assert.ErrorIs(t, err, tensor.ErrUninitializedBackend)

	// Validation errors still win over the backend guard.
	other, err := e.Zeros(3)
	require.NoError(t, err)
	_, err = m.Add(other)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestEngine_InitializeErrors(t *testing.T) {
	e, err := New(Config{Mode: Accelerated, ResourcePath: t.TempDir()})
	require.NoError(t, err)

	err = e.Initialize("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kernel")
	assert.False(t, e.Initialized())

	if runtime.GOOS != "windows" {
		err = e.Initialize("")
		assert.Error(t, err)

		e2, err := New(Config{Mode: Accelerated})
		require.NoError(t, err)
		assert.ErrorIs(t, e2.Initialize(""), webgpu.ErrNotSupported)
	}
}

func TestEngine_UnknownMode(t *testing.T) {
	_, err := New(Config{Mode: Mode(9)})
	assert.Error(t, err)
}
