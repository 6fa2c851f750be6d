package utils

import (
	"math"
	"strconv"
	"strings"
)

// ArrayToString renders v with every value rounded to 7 decimals.
func ArrayToString(v []float64) string {
	var b strings.Builder
	b.WriteString("[")
	for i, x := range v {
		if i > 0 {
			b.WriteString(",\t")
		}
		b.WriteString(strconv.FormatFloat(math.Round(x*1e7)/1e7, 'g', -1, 64))
	}
	b.WriteString("]")
	return b.String()
}

// FormatInOutputs lays out inputs and the matching outputs on two
// tab separated rows.
func FormatInOutputs(inputs, outputs [][]float64) string {
	var b strings.Builder
	b.WriteString("\nInputs: ")
	for _, x := range inputs {
		b.WriteString("\t")
		b.WriteString(ArrayToString(x))
	}
	b.WriteString("\nOutputs:")
	for _, y := range outputs {
		b.WriteString("\t")
		b.WriteString(ArrayToString(y))
	}
	return b.String()
}
