package vec

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// NewSource returns a seeded source for the random helpers.
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

// RandomVector draws n values uniformly from [0,1). A nil src uses the
// process-wide generator.
func RandomVector(src rand.Source, n int) []float64 {
	dist := distuv.Uniform{Min: 0, Max: 1, Src: src}

	data := make([]float64, n)
	for i := range data {
		data[i] = dist.Rand()
	}
	return data
}

// RandomMatrix returns m rows of RandomVector(src, n).
func RandomMatrix(src rand.Source, m, n int) [][]float64 {
	matrix := make([][]float64, m)
	for i := range matrix {
		matrix[i] = RandomVector(src, n)
	}
	return matrix
}

// RandomBernoulliMatrix returns an m×n matrix of 0.0/1.0 values with equal
// probability.
func RandomBernoulliMatrix(src rand.Source, m, n int) [][]float64 {
	dist := distuv.Bernoulli{P: 0.5, Src: src}

	matrix := NewMatrix(m, n)
	for i := range matrix {
		for j := range matrix[i] {
			matrix[i][j] = dist.Rand()
		}
	}
	return matrix
}
