package nn

import (
	"github.com/pkg/errors"

	"github.com/born-ml/matrix/internal/tensor"
)

// Parameter represents a trainable Matrix in a network.
//
// Backward passes accumulate into its gradient until ZeroGrad is called, so a
// batch can be processed sample by sample before an optimizer step.
//
// Example:
//
//	weight := nn.NewParameter("weight", w)
//	_ = weight.AccumulateGrad(dw)
//	grad := weight.Grad()
type Parameter struct {
	name  string
	value *tensor.Matrix
	grad  *tensor.Matrix
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, value *tensor.Matrix) *Parameter {
	return &Parameter{
		name:  name,
		value: value,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter matrix. Optimizers update it in place.
func (p *Parameter) Value() *tensor.Matrix {
	return p.value
}

// SetValue replaces the parameter matrix, keeping its shape.
func (p *Parameter) SetValue(m *tensor.Matrix) error {
	if !m.Shape().Equal(p.value.Shape()) {
		return errors.Wrapf(tensor.ErrShapeMismatch, "parameter %s: have %v, got %v", p.name, p.value.Shape(), m.Shape())
	}
	p.value = m
	return nil
}

// Grad returns the accumulated gradient, nil before the first backward pass.
func (p *Parameter) Grad() *tensor.Matrix {
	return p.grad
}

// AccumulateGrad adds g to the gradient. The first call takes ownership of g.
func (p *Parameter) AccumulateGrad(g *tensor.Matrix) error {
	if p.grad == nil {
		if !g.Shape().Equal(p.value.Shape()) {
			return errors.Wrapf(tensor.ErrShapeMismatch, "gradient of %s: want %v, got %v", p.name, p.value.Shape(), g.Shape())
		}
		p.grad = g
		return nil
	}
	return p.grad.AddInPlace(g)
}

// ZeroGrad clears the gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
