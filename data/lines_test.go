package data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nnlab/vec"
)

func TestGetLines(t *testing.T) {
	input := "# x1,x2,y\n0,1,1\n\n1, 1, 1\n0,0,0\n"
	lines, err := GetLines(strings.NewReader(input), 2, 1)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, []float64{1, 1}, lines[1].Inputs)
	assert.Equal(t, []float64{0}, lines[2].Targets)

	inputs, targets := lines.Batch()
	assert.Equal(t, [][]float64{{0, 1}, {1, 1}, {0, 0}}, inputs)
	assert.Equal(t, [][]float64{{1}, {1}, {0}}, targets)
}

func TestGetLinesErrors(t *testing.T) {
	_, err := GetLines(strings.NewReader("1,2,3\n1,2\n"), 2, 1)
	require.Error(t, err)
	assert.Equal(t, "at line 2, expected 3 values, got 2", err.Error())

	_, err = GetLines(strings.NewReader("1,x,3\n"), 2, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing input at line 1")

	_, err = GetLines(strings.NewReader("1,2,y\n"), 2, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing target at line 1")
}

func TestLineSplitter(t *testing.T) {
	lines := make(Lines, 5)
	for i := range lines {
		lines[i] = Line{Inputs: []float64{float64(i)}}
	}
	assert.Len(t, LineSplitter(2, 0, lines), 2)
	last := LineSplitter(2, 2, lines)
	require.Len(t, last, 1)
	assert.Equal(t, 4.0, last[0].Inputs[0])
	assert.Empty(t, LineSplitter(2, 3, lines))
}

func TestNormalizeLines(t *testing.T) {
	lines := Lines{
		{Inputs: []float64{1, 5}},
		{Inputs: []float64{3, 5}},
	}
	mean, std := MeanStdDev(lines)
	assert.InDeltaSlice(t, []float64{2, 5}, mean, 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0}, std, 1e-12)

	normalized := NormalizeLines(lines, mean, std)
	assert.InDeltaSlice(t, []float64{-1, 0}, normalized[0].Inputs, 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0}, normalized[1].Inputs, 1e-12)
	assert.Equal(t, []float64{1, 5}, lines[0].Inputs)

	mean, std = MeanStdDev(nil)
	assert.Nil(t, mean)
	assert.Nil(t, std)
}

func TestTasks(t *testing.T) {
	id := Identity(vec.NewSource(1), 10, 3)
	require.Len(t, id, 10)
	for _, line := range id {
		assert.Equal(t, line.Inputs, line.Targets)
	}
	id[0].Targets[0] = 42
	assert.NotEqual(t, 42.0, id[0].Inputs[0])

	or := OR(vec.NewSource(2), 50)
	require.Len(t, or, 50)
	for _, line := range or {
		want := 0.0
		if line.Inputs[0] == 1 || line.Inputs[1] == 1 {
			want = 1
		}
		assert.Equal(t, []float64{want}, line.Targets)
	}
}
