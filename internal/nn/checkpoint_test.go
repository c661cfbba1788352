package nn_test

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matrix/internal/backend/cpu"
	"github.com/born-ml/matrix/internal/nn"
	"github.com/born-ml/matrix/internal/optim"
	"github.com/born-ml/matrix/internal/serialization"
	"github.com/born-ml/matrix/internal/tensor"
)

func trainStep(t *testing.T, model *nn.Sequential, opt *optim.SGD) {
	t.Helper()
	backend := cpu.New()
	x := matrix(t, backend, tensor.Shape{2, 2}, 0, 1, 1, 0)
	y := matrix(t, backend, tensor.Shape{1, 2}, 1, 1)

	opt.ZeroGrad()
	pred, err := model.Forward(x)
	require.NoError(t, err)
	_, grad, err := nn.Loss(tensor.MSE, pred, y)
	require.NoError(t, err)
	_, err = model.Backward(grad)
	require.NoError(t, err)
	require.NoError(t, opt.Step())
}

func TestCheckpoint_SaveLoad(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "ckpt.safetensors")

	model, err := nn.NewMLP(backend, []int{2, 3, 1}, tensor.Tanh, tensor.Sigmoid, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.5, Momentum: 0.9})
	trainStep(t, model, opt)

	ckpt := &nn.Checkpoint{
		Model:     model,
		Optimizer: opt,
		Epoch:     3,
		Step:      12,
		Loss:      0.125,
		Metadata:  map[string]string{"dataset": "xor"},
	}
	require.NoError(t, ckpt.Save(path))

	restored, err := nn.NewMLP(backend, []int{2, 3, 1}, tensor.Tanh, tensor.Sigmoid, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	restoredOpt := optim.NewSGD(restored.Parameters(), optim.SGDConfig{LR: 0.5, Momentum: 0.9})

	loaded, err := nn.LoadCheckpoint(path, restored, restoredOpt)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Epoch)
	assert.Equal(t, int64(12), loaded.Step)
	assert.InDelta(t, 0.125, loaded.Loss, 1e-12)
	assert.Equal(t, "xor", loaded.Metadata["dataset"])
	assert.False(t, loaded.CreatedAt.IsZero())

	for key, m := range model.StateDict() {
		assert.Equal(t, m.ToSlice(), restored.StateDict()[key].ToSlice(), key)
	}

	// Same momentum buffers mean the next step lands on the same weights.
	trainStep(t, model, opt)
	trainStep(t, restored, restoredOpt)
	for key, m := range model.StateDict() {
		assert.InDeltaSlice(t, m.ToSlice(), restored.StateDict()[key].ToSlice(), 1e-6, key)
	}
}

func TestCheckpoint_WithoutOptimizer(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "model.safetensors")

	model, err := nn.NewMLP(backend, []int{2, 2}, tensor.Linear, tensor.Linear, nil)
	require.NoError(t, err)
	require.NoError(t, nn.SaveCheckpoint(path, model, nil, 1, 0.5))

	other, err := nn.NewMLP(backend, []int{2, 2}, tensor.Linear, tensor.Linear, nil)
	require.NoError(t, err)
	loaded, err := nn.LoadCheckpoint(path, other, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Epoch)
	assert.Equal(t, model.StateDict()["layers.0.weight"].ToSlice(), other.StateDict()["layers.0.weight"].ToSlice())
}

func TestCheckpoint_Errors(t *testing.T) {
	backend := cpu.New()
	dir := t.TempDir()

	assert.Error(t, (&nn.Checkpoint{}).Save(filepath.Join(dir, "nil.safetensors")))

	model, err := nn.NewMLP(backend, []int{2, 2}, tensor.Linear, tensor.Linear, nil)
	require.NoError(t, err)

	_, err = nn.LoadCheckpoint(filepath.Join(dir, "missing.safetensors"), model, nil)
	assert.Error(t, err)

	// A plain tensor file without the checkpoint marker is rejected.
	plain := filepath.Join(dir, "plain.safetensors")
	_, err = serialization.WriteFile(plain, model.StateDict(), serialization.WriteOptions{})
	require.NoError(t, err)
	_, err = nn.LoadCheckpoint(plain, model, nil)
	assert.ErrorContains(t, err, "not a checkpoint")

	// Architecture mismatch.
	path := filepath.Join(dir, "ckpt.safetensors")
	require.NoError(t, nn.SaveCheckpoint(path, model, nil, 0, 0))
	bigger, err := nn.NewMLP(backend, []int{2, 4}, tensor.Linear, tensor.Linear, nil)
	require.NoError(t, err)
	_, err = nn.LoadCheckpoint(path, bigger, nil)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
