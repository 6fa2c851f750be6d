// Package vec holds the real-valued vector and matrix helpers shared by the
// network and its drivers.
package vec

import (
	"gonum.org/v1/gonum/floats"
)

// NewVector allocates a zeroed vector of length n.
func NewVector(n int) []float64 {
	return make([]float64, n)
}

// NewMatrix allocates a zeroed m×n matrix as rows of vectors.
func NewMatrix(m, n int) [][]float64 {
	matrix := make([][]float64, m)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	return matrix
}

// Copy returns an independent copy of v.
func Copy(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// Dot returns the inner product Σ x_i·y_i.
func Dot(x, y []float64) (float64, error) {
	if err := CheckLen("dot", len(x), y); err != nil {
		return 0, err
	}
	return floats.Dot(x, y), nil
}

// Add adds s to dst elementwise, leaving dst untouched on a length mismatch.
func Add(dst, s []float64) error {
	if err := CheckLen("add", len(dst), s); err != nil {
		return err
	}
	floats.Add(dst, s)
	return nil
}

// Sub returns x - y.
func Sub(x, y []float64) ([]float64, error) {
	if err := CheckLen("sub", len(x), y); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	floats.SubTo(out, x, y)
	return out, nil
}

// SquaredError returns (actual_i - expected_i)² per dimension.
func SquaredError(actual, expected []float64) ([]float64, error) {
	diff, err := Sub(actual, expected)
	if err != nil {
		return nil, err
	}
	floats.Mul(diff, diff)
	return diff, nil
}
