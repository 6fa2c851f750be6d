// Package data reads and generates (input, target) training lines.
package data

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

type Line struct {
	Inputs  []float64
	Targets []float64
}
type Lines []Line

// Batch splits lines into the parallel input and target slices taken by
// network.Train.
func (lines Lines) Batch() (inputs, targets [][]float64) {
	inputs = make([][]float64, len(lines))
	targets = make([][]float64, len(lines))
	for i, line := range lines {
		inputs[i] = line.Inputs
		targets[i] = line.Targets
	}
	return inputs, targets
}

// GetLines reads comma separated records of inputNum inputs followed by
// outputNum targets. Blank lines and lines starting with '#' are skipped.
func GetLines(reader io.Reader, inputNum, outputNum int) (Lines, error) {
	scanner := bufio.NewScanner(reader)
	var lines Lines
	var lineNum int
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		splits := strings.Split(text, ",")
		if len(splits) != inputNum+outputNum {
			return lines, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(splits),
				expected: inputNum + outputNum,
			}
		}
		inputs := make([]float64, inputNum)
		targets := make([]float64, outputNum)

		for i, split := range splits {
			num, err := strconv.ParseFloat(strings.TrimSpace(split), 64)
			if i < inputNum {
				if err != nil {
					return lines, fmt.Errorf("parsing input at line %d: %w", lineNum, err)
				}
				inputs[i] = num
			} else {
				if err != nil {
					return lines, fmt.Errorf("parsing target at line %d: %w", lineNum, err)
				}
				targets[i-inputNum] = num
			}
		}
		lines = append(lines, Line{
			Inputs:  inputs,
			Targets: targets,
		})
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

type errInvalidLine struct {
	lineNum  int
	splits   int
	expected int
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d",
		e.lineNum, e.expected, e.splits)
}

// LineSplitter returns batch number iterationNum of size batchSize, or an
// empty slice when it lies outside lines.
func LineSplitter(batchSize, iterationNum int, lines Lines) Lines {
	start := batchSize * iterationNum
	end := batchSize * (iterationNum + 1)

	if start < 0 || start >= len(lines) || end <= start {
		return Lines{}
	}

	if end > len(lines) {
		end = len(lines)
	}

	return lines[start:end]
}

// MeanStdDev returns the per-input population mean and standard deviation.
func MeanStdDev(lines Lines) (mean, std []float64) {
	if len(lines) == 0 {
		return nil, nil
	}

	numEntries := len(lines[0].Inputs)
	mean = make([]float64, numEntries)
	std = make([]float64, numEntries)
	column := make([]float64, len(lines))
	for i := 0; i < numEntries; i++ {
		for j, line := range lines {
			column[j] = line.Inputs[i]
		}
		mean[i], std[i] = stat.PopMeanStdDev(column, nil)
	}
	return mean, std
}

// NormalizeLines shifts and scales every input by mean and std. Inputs with a
// zero deviation are only shifted.
func NormalizeLines(lines Lines, mean, std []float64) Lines {
	normalizedLines := make(Lines, len(lines))
	for i, line := range lines {
		normalizedInputs := make([]float64, len(line.Inputs))
		for j, x := range line.Inputs {
			d := std[j]
			if d == 0 {
				d = 1
			}
			normalizedInputs[j] = (x - mean[j]) / d
		}

		normalizedLines[i] = Line{
			Inputs:  normalizedInputs,
			Targets: line.Targets,
		}
	}
	return normalizedLines
}
