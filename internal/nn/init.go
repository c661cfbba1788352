package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/matrix/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Values are drawn from U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))).
// A nil rng uses the global math/rand source.
func Xavier(b tensor.Backend, fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) (*tensor.Matrix, error) {
	bound := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	return tensor.New(b, shape, tensor.FillRange{Lo: -bound, Hi: bound, Rand: rng})
}

// Zeros creates a zero-filled matrix, used for biases.
func Zeros(b tensor.Backend, shape tensor.Shape) (*tensor.Matrix, error) {
	return tensor.New(b, shape, nil)
}

// Ones creates a matrix filled with ones.
func Ones(b tensor.Backend, shape tensor.Shape) (*tensor.Matrix, error) {
	return tensor.New(b, shape, tensor.FillScalar(1))
}
