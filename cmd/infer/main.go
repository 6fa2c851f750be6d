// nn-infer: evaluates a saved network on given inputs
//
// Usage:
//
//	nn-infer --name=or --input="0,1"
//	nn-infer --weights=identity.json --data=inputs.csv --trace
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"nnlab/data"
	"nnlab/network"
	"nnlab/persist"
	"nnlab/utils"
)

var (
	name        = flag.String("name", "", "Saved network name, loaded from <dir>/<name>.network")
	dir         = flag.String("dir", "", "Directory networks are saved in")
	weightsFile = flag.String("weights", "", "Weights JSON file, used instead of --name")
	input       = flag.String("input", "", "Comma separated input values")
	dataFile    = flag.String("data", "", "CSV file with one input vector per line")
	trace       = flag.Bool("trace", false, "Print the activations of every layer")
	topK        = flag.Int("topk", 0, "Top outputs to show per input")
	verbose     = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      nnlab Inference                         ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")

	stats := &utils.TimingStats{}
	totalStart := time.Now()

	start := time.Now()
	net, err := loadNetwork()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading network: %v\n", err)
		os.Exit(1)
	}
	stats.ModelInitTime = time.Since(start)
	fmt.Printf("Loaded network: %d inputs, layers %v, %s, trained: %v\n",
		net.NrOfInputs(), net.LayerSizes(), net.Activation(), net.Trained())

	start = time.Now()
	inputs, err := loadInputs(net.NrOfInputs())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading inputs: %v\n", err)
		os.Exit(1)
	}
	stats.DataLoadingTime = time.Since(start)

	start = time.Now()
	outputs, err := net.CalculateOutputsBatch(inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	stats.EvaluationTime = time.Since(start)
	fmt.Println(utils.FormatInOutputs(inputs, outputs))

	if *trace {
		for t, x := range inputs {
			activations, err := net.CalculateAllNeuronActivations(x)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("\nSample %d:\n", t)
			for l, a := range activations {
				fmt.Printf("  layer %d: %s\n", l, utils.ArrayToString(a))
			}
		}
	}

	if *topK > 0 {
		for t, out := range outputs {
			showResults(t, out, *topK)
		}
	}

	stats.TotalTime = time.Since(totalStart)
	utils.PrintTimingStats(stats, 0)
}

func loadNetwork() (*network.Network, error) {
	if *weightsFile != "" {
		weights, err := utils.LoadWeights(*weightsFile)
		if err != nil {
			return nil, err
		}
		return weights.Network()
	}
	if *name == "" {
		return nil, fmt.Errorf("either --name or --weights is required")
	}
	return persist.NewStore(*dir).Load(*name)
}

func loadInputs(nrOfInputs int) ([][]float64, error) {
	if *dataFile != "" {
		f, err := os.Open(*dataFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		lines, err := data.GetLines(f, nrOfInputs, 0)
		if err != nil {
			return nil, err
		}
		inputs, _ := lines.Batch()
		return inputs, nil
	}

	if *input == "" {
		return nil, fmt.Errorf("either --input or --data is required")
	}
	x, err := parseValues(*input)
	if err != nil {
		return nil, err
	}
	return [][]float64{x}, nil
}

func parseValues(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("input value %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

func showResults(sample int, outputs []float64, k int) {
	indices := topKIndices(outputs, k)

	fmt.Printf("\nSample %d, top %d outputs:\n", sample, len(indices))
	for i, idx := range indices {
		fmt.Printf("  %d. Output %d: %.4f\n", i+1, idx, outputs[idx])
	}
}

func topKIndices(vals []float64, k int) []int {
	if k > len(vals) {
		k = len(vals)
	}
	indices := make([]int, k)
	used := make(map[int]bool)
	for i := 0; i < k; i++ {
		maxIdx, maxVal := -1, math.Inf(-1)
		for j, v := range vals {
			if !used[j] && v > maxVal {
				maxVal, maxIdx = v, j
			}
		}
		indices[i] = maxIdx
		used[maxIdx] = true
	}
	return indices
}
