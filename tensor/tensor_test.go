// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matrix/backend/cpu"
	"github.com/born-ml/matrix/tensor"
)

func TestPublicAPI(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice(backend, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	b, err := tensor.New(backend, tensor.Shape{3, 2}, tensor.FillScalar(1))
	require.NoError(t, err)

	c, err := a.MatMul(b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, c.Shape())
	assert.Equal(t, []float32{6, 6, 15, 15}, c.ToSlice())

	d, err := c.Apply(tensor.ReLU, true)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 1, 1}, d.ToSlice())

	_, err = a.Add(b)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	_, err = a.At(2, 0)
	assert.ErrorIs(t, err, tensor.ErrIndex)
	_, err = a.Transpose(0, 2)
	assert.ErrorIs(t, err, tensor.ErrAxis)
	_, err = tensor.New(backend, tensor.Shape{-1}, nil)
	assert.ErrorIs(t, err, tensor.ErrShape)
	_, err = a.Apply(tensor.Func(99), false)
	assert.ErrorIs(t, err, tensor.ErrUnsupportedFunction)
}

func TestParseFunc(t *testing.T) {
	for _, fn := range tensor.Funcs() {
		parsed, err := tensor.ParseFunc(fn.String())
		require.NoError(t, err)
		assert.Equal(t, fn, parsed)
	}
	fn, err := tensor.ParseFunc("leaky_relu")
	require.NoError(t, err)
	assert.Equal(t, tensor.LeakyReLU, fn)
}

func TestUniform(t *testing.T) {
	m, err := tensor.New(cpu.New(), tensor.Shape{64}, tensor.Uniform(-1, 1))
	require.NoError(t, err)
	for _, v := range m.ToSlice() {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}
