package optim

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/born-ml/matrix/internal/nn"
	"github.com/born-ml/matrix/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     []*nn.Parameter
	lr         float32
	momentum   float32
	velocities map[*nn.Parameter]*tensor.Matrix
}

var _ Optimizer = (*SGD)(nil)

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter]*tensor.Matrix),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() error {
	for _, param := range s.params {
		grad := param.Grad()
		if grad == nil {
			continue
		}

		step := grad
		if s.momentum != 0 {
			velocity, err := s.velocity(param, grad)
			if err != nil {
				return errors.WithMessagef(err, "sgd: %s velocity", param.Name())
			}
			step = velocity
		}

		scaled, err := step.MulScalar(s.lr)
		if err != nil {
			return err
		}
		if err := param.Value().SubInPlace(scaled); err != nil {
			return errors.WithMessagef(err, "sgd: updating %s", param.Name())
		}
	}
	return nil
}

// velocity updates and returns velocity = momentum * velocity + grad.
func (s *SGD) velocity(param *nn.Parameter, grad *tensor.Matrix) (*tensor.Matrix, error) {
	velocity, exists := s.velocities[param]
	if !exists {
		velocity = grad.Clone()
		s.velocities[param] = velocity
		return velocity, nil
	}
	if err := velocity.MulScalarInPlace(s.momentum); err != nil {
		return nil, err
	}
	if err := velocity.AddInPlace(grad); err != nil {
		return nil, err
	}
	return velocity, nil
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float32) {
	s.lr = lr
}

// StateDict returns the momentum buffers keyed "velocity.<param index>".
// Without momentum it is empty.
func (s *SGD) StateDict() map[string]*tensor.Matrix {
	state := make(map[string]*tensor.Matrix)
	for i, param := range s.params {
		if velocity, ok := s.velocities[param]; ok {
			state[fmt.Sprintf("velocity.%d", i)] = velocity
		}
	}
	return state
}

// LoadStateDict restores momentum buffers saved by StateDict.
func (s *SGD) LoadStateDict(state map[string]*tensor.Matrix) error {
	for i, param := range s.params {
		velocity, ok := state[fmt.Sprintf("velocity.%d", i)]
		if !ok {
			continue
		}
		if !velocity.Shape().Equal(param.Value().Shape()) {
			return errors.Wrapf(tensor.ErrShapeMismatch, "velocity.%d: want %v, got %v", i, param.Value().Shape(), velocity.Shape())
		}
		restored, err := tensor.FromSlice(param.Value().Backend(), velocity.Shape(), velocity.ToSlice())
		if err != nil {
			return err
		}
		s.velocities[param] = restored
	}
	return nil
}
