package network

import (
	"gonum.org/v1/gonum/floats"

	"nnlab/vec"
)

// CostVector returns the squared error of every output dimension.
func CostVector(actual, expected []float64) ([]float64, error) {
	return vec.SquaredError(actual, expected)
}

// CostValue returns Σ (actual_i − expected_i)².
func CostValue(actual, expected []float64) (float64, error) {
	cost, err := CostVector(actual, expected)
	if err != nil {
		return 0, err
	}
	return floats.Sum(cost), nil
}
