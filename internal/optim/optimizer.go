// Package optim implements the parameter update rules used to train nn
// models.
//
// This package provides:
//   - Optimizer interface: Step, ZeroGrad and learning-rate access
//   - SGD: stochastic gradient descent with optional momentum
//
// Updates are written with the in-place Matrix operators, so a step never
// replaces a parameter's storage.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.5})
//
//	for epoch := range epochs {
//	    pred, _ := model.Forward(x)
//	    _, grad, _ := nn.Loss(tensor.MSE, pred, y)
//	    _, _ = model.Backward(grad)
//
//	    _ = optimizer.Step()
//	    optimizer.ZeroGrad()
//	}
package optim

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies the accumulated gradients to every parameter in place.
	// Parameters without a gradient are skipped.
	Step() error

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}
