package vec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	got, err := Dot([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 32.0, got)
}

func TestDotShapeMismatch(t *testing.T) {
	_, err := Dot([]float64{1, 2}, []float64{1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidShape))

	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 2, shapeErr.Expected)
	assert.Equal(t, 1, shapeErr.Actual)
}

func TestAddLeavesDstOnMismatch(t *testing.T) {
	dst := []float64{1, 1}
	err := Add(dst, []float64{0.5})
	require.ErrorIs(t, err, ErrInvalidShape)
	assert.Equal(t, []float64{1, 1}, dst)

	require.NoError(t, Add(dst, []float64{0.5, -1}))
	assert.Equal(t, []float64{1.5, 0}, dst)
}

func TestSquaredError(t *testing.T) {
	got, err := SquaredError([]float64{1, 0.5}, []float64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.25}, got)

	_, err = SquaredError([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, ErrInvalidShape)
}

func TestNewMatrix(t *testing.T) {
	m := NewMatrix(3, 2)
	require.Len(t, m, 3)
	for _, row := range m {
		assert.Equal(t, []float64{0, 0}, row)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	v := []float64{1, 2}
	c := Copy(v)
	c[0] = 9
	assert.Equal(t, 1.0, v[0])
}
