// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers built on Matrix arithmetic.
//
// # Overview
//
// This package contains:
//   - Layers: Dense (fully connected with an activation tag)
//   - Containers: Sequential, NewMLP
//   - Loss: Loss over any loss tag (MSE)
//   - Utilities: Layer interface, Parameter, Xavier initialization
//   - Checkpoints: SafeTensors snapshots of model and optimizer state
//
// Samples are stored as columns: a batch of n samples with f features is a
// [f, n] Matrix.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/matrix/backend/cpu"
//	    "github.com/born-ml/matrix/nn"
//	    "github.com/born-ml/matrix/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // 2 inputs, 8 hidden units, 1 output
//	    model, _ := nn.NewMLP(backend, []int{2, 8, 1}, tensor.Tanh, tensor.Sigmoid, nil)
//
//	    pred, _ := model.Forward(x)
//	    loss, grad, _ := nn.Loss(tensor.MSE, pred, y)
//	    model.Backward(grad)
//	}
package nn
