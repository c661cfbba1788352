// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matrix/backend/cpu"
	"github.com/born-ml/matrix/nn"
	"github.com/born-ml/matrix/optim"
	"github.com/born-ml/matrix/tensor"
)

// TestLayerInterface verifies that concrete types implement Layer.
func TestLayerInterface(t *testing.T) {
	backend := cpu.New()
	dense, err := nn.NewDense(backend, 4, 2, tensor.ReLU, nil)
	require.NoError(t, err)
	mlp, err := nn.NewMLP(backend, []int{4, 3, 2}, tensor.Tanh, tensor.Linear, nil)
	require.NoError(t, err)

	layers := []nn.Layer{dense, mlp, nn.NewSequential(dense)}
	for _, layer := range layers {
		assert.NotEmpty(t, layer.Parameters())
	}
}

func TestTrainAndCheckpoint(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(3))
	model, err := nn.NewMLP(backend, []int{1, 4, 1}, tensor.Tanh, tensor.Linear, rng)
	require.NoError(t, err)
	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})

	x, err := tensor.FromSlice(backend, tensor.Shape{1, 4}, []float32{-1, -0.5, 0.5, 1})
	require.NoError(t, err)
	y, err := tensor.FromSlice(backend, tensor.Shape{1, 4}, []float32{-0.5, -0.25, 0.25, 0.5})
	require.NoError(t, err)

	var first, last float32
	for epoch := range 200 {
		optimizer.ZeroGrad()
		pred, err := model.Forward(x)
		require.NoError(t, err)
		loss, grad, err := nn.Loss(tensor.MSE, pred, y)
		require.NoError(t, err)
		_, err = model.Backward(grad)
		require.NoError(t, err)
		require.NoError(t, optimizer.Step())
		if epoch == 0 {
			first = loss
		}
		last = loss
	}
	assert.Less(t, last, first)

	path := filepath.Join(t.TempDir(), "line.safetensors")
	require.NoError(t, nn.SaveCheckpoint(path, model, optimizer, 200, float64(last)))

	restored, err := nn.NewMLP(backend, []int{1, 4, 1}, tensor.Tanh, tensor.Linear, nil)
	require.NoError(t, err)
	ckpt, err := nn.LoadCheckpoint(path, restored, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, ckpt.Epoch)

	want, err := model.Forward(x)
	require.NoError(t, err)
	got, err := restored.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, want.ToSlice(), got.ToSlice())
}
