package data

import (
	"golang.org/x/exp/rand"

	"nnlab/vec"
)

// Identity returns n uniform samples of the given width whose targets are
// the inputs themselves.
func Identity(src rand.Source, n, width int) Lines {
	inputs := vec.RandomMatrix(src, n, width)
	lines := make(Lines, n)
	for i, x := range inputs {
		lines[i] = Line{Inputs: x, Targets: vec.Copy(x)}
	}
	return lines
}

// OR returns n random boolean pairs labelled with their logical or.
func OR(src rand.Source, n int) Lines {
	inputs := vec.RandomBernoulliMatrix(src, n, 2)
	lines := make(Lines, n)
	for i, x := range inputs {
		target := 0.0
		if x[0] == 1 || x[1] == 1 {
			target = 1
		}
		lines[i] = Line{Inputs: x, Targets: []float64{target}}
	}
	return lines
}
