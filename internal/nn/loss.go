package nn

import (
	"github.com/pkg/errors"

	"github.com/born-ml/matrix/internal/tensor"
)

// Loss evaluates a loss tag on predictions against targets.
//
// The residual r = predictions - targets is passed through fn in value mode
// and summed to give the loss, and in derivative mode to give the gradient
// with respect to the predictions. For MSE on a [out, batch] residual this is
// the mean over the batch of the squared error.
func Loss(fn tensor.Func, predictions, targets *tensor.Matrix) (float32, *tensor.Matrix, error) {
	if !fn.IsLoss() {
		return 0, nil, errors.Wrapf(tensor.ErrUnsupportedFunction, "%s is not a loss", fn)
	}

	residual, err := predictions.Sub(targets)
	if err != nil {
		return 0, nil, err
	}
	values, err := residual.Apply(fn, false)
	if err != nil {
		return 0, nil, err
	}
	grad, err := residual.Apply(fn, true)
	if err != nil {
		return 0, nil, err
	}

	var sum float32
	for _, v := range values.ToSlice() {
		sum += v
	}
	return sum, grad, nil
}
