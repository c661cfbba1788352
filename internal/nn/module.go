// Package nn implements the feed-forward building blocks trained with manual
// backpropagation on top of tensor.Matrix.
//
// This package provides:
//   - Layer interface: Forward, Backward and Parameters
//   - Parameter: a trainable Matrix with an accumulated gradient
//   - Dense: fully connected layer with an activation function tag
//   - Sequential: a stack of layers, NewMLP builds one from layer sizes
//   - Loss: loss value and gradient through Matrix.Apply
//   - Checkpoints: SafeTensors snapshots of a model's parameters
//
// Samples are stored as columns: an input batch of n samples with d features
// has shape [d, n]. Biases are [out, 1] columns and are spread over the batch
// with a matrix product, so no broadcasting is needed.
package nn

import (
	"github.com/born-ml/matrix/internal/tensor"
)

// Layer is the interface every network component implements.
//
// Forward caches what Backward needs, so Backward must follow the Forward
// call whose output it differentiates:
//
//	out, err := layer.Forward(x)
//	...
//	gradIn, err := layer.Backward(gradOut)
type Layer interface {
	// Forward computes the layer output for a batch of column samples.
	Forward(x *tensor.Matrix) (*tensor.Matrix, error)

	// Backward takes the gradient of the loss with respect to the last
	// output, accumulates parameter gradients and returns the gradient with
	// respect to the last input.
	Backward(grad *tensor.Matrix) (*tensor.Matrix, error)

	// Parameters returns the trainable parameters, nil for stateless layers.
	Parameters() []*Parameter
}
