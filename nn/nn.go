// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/matrix/internal/nn"
	"github.com/born-ml/matrix/tensor"
)

// Layer is the interface shared by every trainable layer.
type Layer = nn.Layer

// Parameter is a trainable Matrix with its accumulated gradient.
type Parameter = nn.Parameter

// NewParameter wraps value as a named parameter.
func NewParameter(name string, value *tensor.Matrix) *Parameter {
	return nn.NewParameter(name, value)
}

// Dense is a fully connected layer: y = f(W @ x + b).
type Dense = nn.Dense

// NewDense creates a Dense layer with Xavier weights and zero biases.
// A nil rng uses the global random source.
//
// Example:
//
//	backend := cpu.New()
//	layer, err := nn.NewDense(backend, 784, 128, tensor.ReLU, nil)
func NewDense(b tensor.Backend, inFeatures, outFeatures int, activation tensor.Func, rng *rand.Rand) (*Dense, error) {
	return nn.NewDense(b, inFeatures, outFeatures, activation, rng)
}

// Sequential chains layers, feeding each output into the next.
type Sequential = nn.Sequential

// NewSequential creates a Sequential from layers.
func NewSequential(layers ...Layer) *Sequential {
	return nn.NewSequential(layers...)
}

// NewMLP builds a Dense stack with layer widths sizes. Hidden layers use
// the hidden activation, the last layer uses output.
func NewMLP(b tensor.Backend, sizes []int, hidden, output tensor.Func, rng *rand.Rand) (*Sequential, error) {
	return nn.NewMLP(b, sizes, hidden, output, rng)
}

// Loss returns the scalar loss and its gradient with respect to predictions.
func Loss(fn tensor.Func, predictions, targets *tensor.Matrix) (float32, *tensor.Matrix, error) {
	return nn.Loss(fn, predictions, targets)
}

// Xavier returns a Matrix drawn uniformly from the Xavier/Glorot range.
func Xavier(b tensor.Backend, fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) (*tensor.Matrix, error) {
	return nn.Xavier(b, fanIn, fanOut, shape, rng)
}

// Checkpoints

// OptimizerState is implemented by optimizers whose buffers can be saved.
type OptimizerState = nn.OptimizerState

// Checkpoint is a snapshot of model parameters, optimizer buffers and
// training progress.
type Checkpoint = nn.Checkpoint

// SaveCheckpoint writes model and optimizer state to path.
//
// Example:
//
//	err := nn.SaveCheckpoint("xor.safetensors", model, optimizer, epoch, loss)
func SaveCheckpoint(path string, model *Sequential, optimizer OptimizerState, epoch int, loss float64) error {
	return nn.SaveCheckpoint(path, model, optimizer, epoch, loss)
}

// LoadCheckpoint restores a checkpoint into a model and optimizer built
// with the same architecture. The optimizer may be nil.
func LoadCheckpoint(path string, model *Sequential, optimizer OptimizerState) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path, model, optimizer)
}
