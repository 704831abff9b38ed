package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFloatOneBasedAccess(t *testing.T) {
	f, err := FloatFrom(2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	assert.Equal(t, 2, f.Rows())
	assert.Equal(t, 3, f.Cols())

	v, err := f.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	require.NoError(t, f.Set(1, 3, 9))
	v, _ = f.At(1, 3)
	assert.Equal(t, 9.0, v)

	_, err = f.At(0, 1)
	assert.Error(t, err)
	_, err = f.At(3, 1)
	assert.Error(t, err)
}

func TestFloatClear(t *testing.T) {
	f := NewFloat(2, 2)
	assert.False(t, f.Empty())

	f.Clear()
	assert.True(t, f.Empty())
	assert.Nil(t, f.Dense())

	_, err := f.At(1, 1)
	assert.Error(t, err)

	var nilMatrix *Float
	assert.Equal(t, 0, nilMatrix.Rows())
	nilMatrix.Clear()
}

func TestFloatConstructors(t *testing.T) {
	_, err := FloatFrom(2, 2, []float64{1})
	assert.Error(t, err)

	empty, err := FloatFrom(0, 3, nil)
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	d := FromDense(mat.NewDense(1, 2, []float64{7, 8}))
	v, _ := d.At(1, 2)
	assert.Equal(t, 8.0, v)
	assert.True(t, FromDense(nil).Empty())
}

func TestStringMatrix(t *testing.T) {
	s := NewString(2, 2)
	require.NoError(t, s.Set(2, 2, "red"))

	v, err := s.At(2, 2)
	require.NoError(t, err)
	assert.Equal(t, "red", v)

	assert.Error(t, s.Set(3, 1, "x"))
	s.Clear()
	assert.True(t, s.Empty())
}

func TestVectors(t *testing.T) {
	names := NewStringVector("a", "b")
	assert.Equal(t, 2, names.Len())
	v, err := names.At(2)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	_, err = names.At(3)
	assert.Error(t, err)
	names.Clear()
	assert.Equal(t, 0, names.Len())

	idx := NewIntVector(2)
	require.NoError(t, idx.Set(1, 3))
	require.NoError(t, idx.Set(2, 4))
	assert.Equal(t, []int{3, 4}, idx.Values())
	assert.Error(t, idx.Set(3, 5))
}
