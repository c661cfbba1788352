package nn

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/born-ml/matrix/internal/tensor"
)

// Sequential is a container that chains layers together.
//
// Each layer's output becomes the next layer's input; Backward walks the
// layers in reverse.
//
// Example:
//
//	model := nn.NewSequential(hidden, output)
//	pred, err := model.Forward(x)
type Sequential struct {
	layers []Layer
}

// NewSequential creates a new Sequential container.
func NewSequential(layers ...Layer) *Sequential {
	return &Sequential{layers: layers}
}

// NewMLP builds a feed-forward network of Dense layers.
//
// sizes lists the feature count of every level, input first: {2, 4, 1} is a
// 2-input network with one hidden layer of 4 units and 1 output. Hidden
// layers use hidden, the last layer uses output.
func NewMLP(b tensor.Backend, sizes []int, hidden, output tensor.Func, rng *rand.Rand) (*Sequential, error) {
	if len(sizes) < 2 {
		return nil, errors.Errorf("nn: an MLP needs at least 2 sizes, got %v", sizes)
	}
	s := NewSequential()
	for i := 0; i+1 < len(sizes); i++ {
		act := hidden
		if i+2 == len(sizes) {
			act = output
		}
		layer, err := NewDense(b, sizes[i], sizes[i+1], act, rng)
		if err != nil {
			return nil, errors.WithMessagef(err, "layer %d", i)
		}
		s.Add(layer)
	}
	return s, nil
}

// Forward applies all layers in sequence.
func (s *Sequential) Forward(x *tensor.Matrix) (*tensor.Matrix, error) {
	out := x
	for i, layer := range s.layers {
		var err error
		if out, err = layer.Forward(out); err != nil {
			return nil, errors.WithMessagef(err, "layer %d forward", i)
		}
	}
	return out, nil
}

// Backward propagates grad through the layers in reverse order.
func (s *Sequential) Backward(grad *tensor.Matrix) (*tensor.Matrix, error) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		var err error
		if grad, err = s.layers[i].Backward(grad); err != nil {
			return nil, errors.WithMessagef(err, "layer %d backward", i)
		}
	}
	return grad, nil
}

// Parameters returns the parameters of every layer in order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range s.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// Add appends a layer to the sequence.
func (s *Sequential) Add(layer Layer) {
	s.layers = append(s.layers, layer)
}

// Layers returns the layers in order.
func (s *Sequential) Layers() []Layer {
	return s.layers
}

// Len returns the number of layers.
func (s *Sequential) Len() int {
	return len(s.layers)
}

// StateDict maps "layers.<i>.<param>" to every parameter matrix.
func (s *Sequential) StateDict() map[string]*tensor.Matrix {
	state := make(map[string]*tensor.Matrix)
	for i, layer := range s.layers {
		for _, p := range layer.Parameters() {
			state[fmt.Sprintf("layers.%d.%s", i, p.Name())] = p.Value()
		}
	}
	return state
}

// LoadStateDict replaces every parameter with its entry in state.
// Missing entries and shape mismatches fail before anything is replaced.
func (s *Sequential) LoadStateDict(state map[string]*tensor.Matrix) error {
	type update struct {
		param *Parameter
		value *tensor.Matrix
	}
	var updates []update
	for i, layer := range s.layers {
		for _, p := range layer.Parameters() {
			key := fmt.Sprintf("layers.%d.%s", i, p.Name())
			m, ok := state[key]
			if !ok {
				return errors.Errorf("nn: missing %s in state dict", key)
			}
			if !m.Shape().Equal(p.Value().Shape()) {
				return errors.Wrapf(tensor.ErrShapeMismatch, "%s: want %v, got %v", key, p.Value().Shape(), m.Shape())
			}
			updates = append(updates, update{p, m})
		}
	}
	for _, u := range updates {
		// Copies are bound to the parameter's backend, whatever the source.
		value, err := tensor.FromSlice(u.param.Value().Backend(), u.value.Shape(), u.value.ToSlice())
		if err != nil {
			return err
		}
		if err := u.param.SetValue(value); err != nil {
			return err
		}
	}
	return nil
}

// ZeroGrad clears the gradients of every parameter.
func (s *Sequential) ZeroGrad() {
	for _, p := range s.Parameters() {
		p.ZeroGrad()
	}
}
