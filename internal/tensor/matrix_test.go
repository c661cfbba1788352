package tensor

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FillScalar(t *testing.T) {
	shapes := []Shape{{2, 3}, {4}, {1, 1}, {2, 3, 4}, {}}
	for _, shape := range shapes {
		m, err := New(NewMockBackend(), shape, FillScalar(2.5))
		require.NoError(t, err)
		assert.Equal(t, shape.NumElements(), m.Size(), "shape %v", shape)
		for i := 0; i < m.Size(); i++ {
			v, err := m.At(i)
			require.NoError(t, err)
			assert.Equal(t, float32(2.5), v)
		}
	}
}

func TestNew_ZeroFill(t *testing.T) {
	m, err := New(NewMockBackend(), Shape{2, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 0}, m.ToSlice())
}

func TestNew_EmptyShape(t *testing.T) {
	m, err := New(NewMockBackend(), Shape{0, 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Size())
	assert.Equal(t, Shape{0, 0}, m.Shape())
	assert.Equal(t, 2, m.Rank())

	_, err = m.At(0)
	assert.True(t, errors.Is(err, ErrIndex))
}

func TestNew_ScalarShape(t *testing.T) {
	m, err := New(NewMockBackend(), Shape{}, FillScalar(7))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Size())
	assert.Equal(t, 0, m.Rank())

	v, err := m.At()
	require.NoError(t, err)
	assert.Equal(t, float32(7), v)
}

func TestNew_NegativeExtent(t *testing.T) {
	_, err := New(NewMockBackend(), Shape{2, -1}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestNew_NilBackend(t *testing.T) {
	_, err := New(nil, Shape{2}, nil)
	assert.Error(t, err)
}

func TestNew_FillSequence(t *testing.T) {
	m, err := New(NewMockBackend(), Shape{2, 3}, FillSequence{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(4), v)

	_, err = New(NewMockBackend(), Shape{2, 3}, FillSequence{1, 2, 3})
	assert.True(t, errors.Is(err, ErrShape))
}

func TestNew_FillSequenceIsCopied(t *testing.T) {
	values := []float32{1, 2}
	m, err := FromSlice(NewMockBackend(), Shape{2}, values)
	require.NoError(t, err)

	values[0] = 100
	v, _ := m.At(0)
	assert.Equal(t, float32(1), v)
}

func TestNew_FillRange(t *testing.T) {
	fill := FillRange{Lo: 2, Hi: 3, Rand: rand.New(rand.NewSource(42))}
	m, err := New(NewMockBackend(), Shape{10, 10}, fill)
	require.NoError(t, err)
	for _, v := range m.ToSlice() {
		assert.GreaterOrEqual(t, v, float32(2))
		assert.LessOrEqual(t, v, float32(3))
	}

	// Same seed, same values.
	again, err := New(NewMockBackend(), Shape{10, 10}, FillRange{Lo: 2, Hi: 3, Rand: rand.New(rand.NewSource(42))})
	require.NoError(t, err)
	assert.Equal(t, m.ToSlice(), again.ToSlice())

	_, err = New(NewMockBackend(), Shape{2}, Uniform(3, 2))
	assert.True(t, errors.Is(err, ErrShape))
}

func TestMatrix_SetAt(t *testing.T) {
	m, err := New(NewMockBackend(), Shape{2, 3}, FillScalar(1))
	require.NoError(t, err)

	require.NoError(t, m.Set(5, 0, 1))

	v, err := m.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(5), v)

	v, err = m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(1), v)

	// Flat and multi-index address the same slot.
	v, err = m.At(1)
	require.NoError(t, err)
	assert.Equal(t, float32(5), v)
}

func TestMatrix_FlatAndMultiIndexAgree(t *testing.T) {
	m, err := New(NewMockBackend(), Shape{2, 3, 4}, nil)
	require.NoError(t, err)
	for i := 0; i < m.Size(); i++ {
		require.NoError(t, m.Set(float32(i), i))
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				v, err := m.At(i, j, k)
				require.NoError(t, err)
				assert.Equal(t, float32(i*12+j*4+k), v)
			}
		}
	}
}

func TestMatrix_IndexErrors(t *testing.T) {
	m, err := New(NewMockBackend(), Shape{2, 2}, FillScalar(1))
	require.NoError(t, err)

	tests := []struct {
		name    string
		indices []int
	}{
		{"OutOfBounds", []int{5, 5}},
		{"SecondAxis", []int{0, 2}},
		{"Negative", []int{-1, 0}},
		{"FlatTooLarge", []int{4}},
		{"FlatNegative", []int{-1}},
		{"TooManyIndices", []int{0, 0, 0}},
		{"NoIndices", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.At(tt.indices...)
			assert.True(t, errors.Is(err, ErrIndex), "got %v", err)
			err = m.Set(9, tt.indices...)
			assert.True(t, errors.Is(err, ErrIndex), "got %v", err)
		})
	}
	assert.Equal(t, []float32{1, 1, 1, 1}, m.ToSlice(), "failed Set must not write")
}

func TestMatrix_Introspection(t *testing.T) {
	m, err := New(NewMockBackend(), Shape{2, 3, 4}, nil)
	require.NoError(t, err)

	assert.Equal(t, Shape{2, 3, 4}, m.Shape())
	assert.Equal(t, 3, m.Rank())
	assert.Equal(t, []int{0, 1, 2}, m.Axes())
	assert.Equal(t, 24, m.Size())

	// Shape returns a copy.
	s := m.Shape()
	s[0] = 99
	assert.Equal(t, Shape{2, 3, 4}, m.Shape())
}

func TestMatrix_CloneIsIndependent(t *testing.T) {
	m, err := New(NewMockBackend(), Shape{2}, FillScalar(1))
	require.NoError(t, err)

	c := m.Clone()
	require.NoError(t, c.Set(3, 0))

	v, _ := m.At(0)
	assert.Equal(t, float32(1), v)
}

func TestMatrix_String(t *testing.T) {
	m, err := FromSlice(NewMockBackend(), Shape{2, 2}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, "Matrix[2 2]{1, 2, 3, 4}", m.String())

	big, err := New(NewMockBackend(), Shape{20}, nil)
	require.NoError(t, err)
	assert.Contains(t, big.String(), "(4 more)")
}
