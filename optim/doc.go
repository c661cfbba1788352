// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.5, Momentum: 0.9})
//
//	for epoch := range epochs {
//	    optimizer.ZeroGrad()
//	    pred, _ := model.Forward(x)
//	    _, grad, _ := nn.Loss(tensor.MSE, pred, y)
//	    model.Backward(grad)
//	    optimizer.Step()
//	}
package optim
