package nn

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/born-ml/matrix/internal/tensor"
)

// Dense implements a fully connected layer.
//
// Performs the transformation: y = f(W @ x + b)
// where:
//   - x is the input batch with shape [in_features, batch]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias column with shape [out_features, 1]
//   - f is the activation tag applied with Matrix.Apply
//
// Weights are initialized with Xavier, biases with zeros.
type Dense struct {
	inFeatures  int
	outFeatures int
	activation  tensor.Func
	weight      *Parameter
	bias        *Parameter
	backend     tensor.Backend

	// Forward cache for Backward.
	input *tensor.Matrix
	pre   *tensor.Matrix
	ones  *tensor.Matrix
}

// NewDense creates a Dense layer bound to backend b.
func NewDense(b tensor.Backend, inFeatures, outFeatures int, activation tensor.Func, rng *rand.Rand) (*Dense, error) {
	if err := activation.Validate(); err != nil {
		return nil, err
	}
	if activation.IsLoss() {
		return nil, errors.Wrapf(tensor.ErrUnsupportedFunction, "%s is a loss, not an activation", activation)
	}

	w, err := Xavier(b, inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, rng)
	if err != nil {
		return nil, err
	}
	bias, err := Zeros(b, tensor.Shape{outFeatures, 1})
	if err != nil {
		return nil, err
	}

	return &Dense{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		activation:  activation,
		weight:      NewParameter("weight", w),
		bias:        NewParameter("bias", bias),
		backend:     b,
	}, nil
}

// Forward computes f(W @ x + b) for a [in_features, batch] input.
func (d *Dense) Forward(x *tensor.Matrix) (*tensor.Matrix, error) {
	shape := x.Shape()
	if len(shape) != 2 || shape[0] != d.inFeatures {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "dense: expected input [%d, batch], got %v", d.inFeatures, shape)
	}

	ones, err := Ones(d.backend, tensor.Shape{1, shape[1]})
	if err != nil {
		return nil, err
	}
	wx, err := d.weight.Value().MatMul(x)
	if err != nil {
		return nil, err
	}
	spread, err := d.bias.Value().MatMul(ones) // [out, batch]
	if err != nil {
		return nil, err
	}
	if err := wx.AddInPlace(spread); err != nil {
		return nil, err
	}
	out, err := wx.Apply(d.activation, false)
	if err != nil {
		return nil, err
	}

	d.input, d.pre, d.ones = x, wx, ones
	return out, nil
}

// Backward accumulates dW = delta @ x.T and db = delta @ 1 and returns
// W.T @ delta, where delta = grad * f'(W @ x + b).
func (d *Dense) Backward(grad *tensor.Matrix) (*tensor.Matrix, error) {
	if d.pre == nil {
		return nil, errors.New("dense: Backward called before Forward")
	}

	slope, err := d.pre.Apply(d.activation, true)
	if err != nil {
		return nil, err
	}
	delta, err := grad.Mul(slope)
	if err != nil {
		return nil, err
	}

	xT, err := d.input.T()
	if err != nil {
		return nil, err
	}
	dW, err := delta.MatMul(xT)
	if err != nil {
		return nil, err
	}
	onesT, err := d.ones.T()
	if err != nil {
		return nil, err
	}
	db, err := delta.MatMul(onesT)
	if err != nil {
		return nil, err
	}
	if err := d.weight.AccumulateGrad(dW); err != nil {
		return nil, err
	}
	if err := d.bias.AccumulateGrad(db); err != nil {
		return nil, err
	}

	wT, err := d.weight.Value().T()
	if err != nil {
		return nil, err
	}
	return wT.MatMul(delta)
}

// Parameters returns [weight, bias].
func (d *Dense) Parameters() []*Parameter {
	return []*Parameter{d.weight, d.bias}
}

// Weight returns the weight parameter.
func (d *Dense) Weight() *Parameter {
	return d.weight
}

// Bias returns the bias parameter.
func (d *Dense) Bias() *Parameter {
	return d.bias
}

// Activation returns the activation tag.
func (d *Dense) Activation() tensor.Func {
	return d.activation
}

// InFeatures returns the number of input features.
func (d *Dense) InFeatures() int {
	return d.inFeatures
}

// OutFeatures returns the number of output features.
func (d *Dense) OutFeatures() int {
	return d.outFeatures
}
