// nn-train: builds a network, trains it on a demo task or a CSV file and
// saves it before and after training.
//
// Usage:
//
//	nn-train --task=identity --steps=1000 --name=identity
//	nn-train --task=or --steps=5000 --rate=0.5
//	nn-train --task=csv --data=lines.csv --inputs=4 --outputs=2 --hidden="3 2"
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"nnlab/data"
	"nnlab/network"
	"nnlab/persist"
	"nnlab/utils"
	"nnlab/vec"
)

var (
	task         = flag.String("task", "identity", "Task: identity, or, csv")
	dataFile     = flag.String("data", "", "CSV file of input and target values (task csv)")
	name         = flag.String("name", "", "Network name, saved as <dir>/<name>.network (default: the task)")
	dir          = flag.String("dir", "", "Directory networks are saved to")
	inputs       = flag.Int("inputs", 0, "Number of network inputs (default: per task)")
	inputNeurons = flag.Int("input-neurons", 0, "Neurons in the first layer (default: per task)")
	hidden       = flag.String("hidden", "", "Hidden layer sizes, e.g. \"5 5\" (default: per task)")
	outputs      = flag.Int("outputs", 0, "Number of outputs (default: per task)")
	activation   = flag.String("activation", "sigmoid", "Activation: sigmoid, linear")
	steps        = flag.Int("steps", 1000, "Number of training steps")
	samples      = flag.Int("samples", 4, "Number of generated samples per batch")
	seed         = flag.Uint64("seed", 42, "Random seed")
	rate         = flag.Float64("rate", 0, "Training rate (0 adds the averaged gradient unscaled)")
	normalize    = flag.Bool("normalize", false, "Normalize CSV inputs to zero mean and unit deviation")
	verbose      = flag.Bool("verbose", true, "Verbose output")
	outputFile   = flag.String("output", "", "Output weights file (JSON)")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	config, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      nnlab Trainer                           ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Task:          %s\n", config.Task)
	fmt.Printf("  Name:          %s\n", config.Name)
	fmt.Printf("  Layers:        %d -> %d %v %d\n", config.Inputs, config.InputNeurons, config.Hidden, config.Outputs)
	fmt.Printf("  Activation:    %s\n", config.Activation)
	fmt.Printf("  Steps:         %d\n", config.Steps)
	fmt.Printf("  Training rate: %.4f\n", config.TrainingRate)
	fmt.Printf("  Seed:          %d\n", config.Seed)
	fmt.Println()

	if err := run(config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildConfig fills in the per-task defaults for every size flag left at zero.
func buildConfig() (*utils.Config, error) {
	config := &utils.Config{
		Name:         *name,
		Task:         *task,
		DataFile:     *dataFile,
		Inputs:       *inputs,
		InputNeurons: *inputNeurons,
		Outputs:      *outputs,
		Activation:   *activation,
		Steps:        *steps,
		Samples:      *samples,
		Seed:         *seed,
		Dir:          *dir,
		TrainingRate: *rate,
	}
	if config.Name == "" {
		config.Name = config.Task
	}

	arch, err := utils.ParseArchitecture(*hidden)
	if err != nil {
		return nil, fmt.Errorf("hidden: %w", err)
	}
	config.Hidden = arch

	switch config.Task {
	case "identity":
		setDefaults(config, 5, 5, []int{5}, 5)
	case "or":
		setDefaults(config, 2, 1, []int{1}, 1)
	case "csv":
		setDefaults(config, config.Inputs, config.Outputs, nil, config.Outputs)
	}

	return config, utils.ValidateConfig(config)
}

func setDefaults(config *utils.Config, in, first int, hid []int, out int) {
	if config.Inputs == 0 {
		config.Inputs = in
	}
	if config.InputNeurons == 0 {
		config.InputNeurons = first
	}
	if *hidden == "" {
		config.Hidden = hid
	}
	if config.Outputs == 0 {
		config.Outputs = out
	}
}

func run(config *utils.Config) error {
	stats := &utils.TimingStats{}
	totalStart := time.Now()

	start := time.Now()
	net, err := config.Build()
	if err != nil {
		return err
	}
	stats.ModelInitTime = time.Since(start)
	fmt.Printf("Model: %d layers %v\n", net.NumLayers(), net.LayerSizes())

	store := persist.NewStore(config.Dir)

	start = time.Now()
	if err := store.Save(net, config.Name); err != nil {
		return err
	}
	stats.SaveTime += time.Since(start)
	fmt.Printf("Saved untrained network to %s\n", store.Path(config.Name))

	start = time.Now()
	batches, err := loadData(config)
	if err != nil {
		return err
	}
	stats.DataLoadingTime = time.Since(start)

	evalIn, evalOut := batches(0).Batch()
	if err := report(net, evalIn, stats); err != nil {
		return err
	}

	fmt.Println("\nStarting training...")
	for step := 0; step < config.Steps; step++ {
		in, expected := batches(step).Batch()

		start = time.Now()
		if err := net.Train(in, expected); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		stats.TrainTime += time.Since(start)

		if utils.Verbose && (step+1)%progressEvery(config.Steps) == 0 {
			outs, err := net.CalculateOutputsBatch(evalIn)
			if err != nil {
				return err
			}
			cost, err := batchCost(outs, evalOut)
			if err != nil {
				return err
			}
			fmt.Printf("Step %d/%d | Cost: %.6f\n", step+1, config.Steps, cost)
		}
	}

	if err := report(net, evalIn, stats); err != nil {
		return err
	}

	start = time.Now()
	if err := store.Save(net, config.Name); err != nil {
		return err
	}
	stats.SaveTime += time.Since(start)
	fmt.Printf("\nSaved trained network to %s\n", store.Path(config.Name))

	if *outputFile != "" {
		start = time.Now()
		if err := utils.SaveWeights(*outputFile, utils.ExportWeights(net)); err != nil {
			return err
		}
		stats.SaveTime += time.Since(start)
		fmt.Printf("Saved weights to %s\n", *outputFile)
	}

	stats.TotalTime = time.Since(totalStart)
	utils.PrintTimingStats(stats, config.Steps)
	return nil
}

// loadData returns the batch used at every training step. Generated tasks
// draw a fresh batch per step; CSV lines are cycled through in batches of
// Samples lines, or used whole when Samples does not divide them.
func loadData(config *utils.Config) (func(step int) data.Lines, error) {
	src := vec.NewSource(config.Seed + 1)

	switch config.Task {
	case "identity":
		return func(int) data.Lines {
			return data.Identity(src, config.Samples, config.Inputs)
		}, nil
	case "or":
		return func(int) data.Lines {
			return data.OR(src, config.Samples)
		}, nil
	}

	f, err := os.Open(config.DataFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := data.GetLines(f, config.Inputs, config.Outputs)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", config.DataFile, network.ErrEmptyBatch)
	}
	fmt.Printf("Loaded %d lines from %s\n", len(lines), config.DataFile)

	if *normalize {
		mean, std := data.MeanStdDev(lines)
		lines = data.NormalizeLines(lines, mean, std)
	}

	batchSize := config.Samples
	if batchSize <= 0 || batchSize >= len(lines) || len(lines)%batchSize != 0 {
		batchSize = len(lines)
	}
	numBatches := len(lines) / batchSize
	return func(step int) data.Lines {
		return data.LineSplitter(batchSize, step%numBatches, lines)
	}, nil
}

func report(net *network.Network, in [][]float64, stats *utils.TimingStats) error {
	start := time.Now()
	outs, err := net.CalculateOutputsBatch(in)
	if err != nil {
		return err
	}
	stats.EvaluationTime += time.Since(start)
	fmt.Println(utils.FormatInOutputs(in, outs))
	return nil
}

// batchCost averages CostValue over the batch.
func batchCost(outs, expected [][]float64) (float64, error) {
	if len(outs) != len(expected) {
		return 0, fmt.Errorf("cost: %d outputs for %d targets", len(outs), len(expected))
	}
	if len(outs) == 0 {
		return 0, network.ErrEmptyBatch
	}
	total := 0.0
	for i := range outs {
		c, err := network.CostValue(outs[i], expected[i])
		if err != nil {
			return 0, fmt.Errorf("cost of sample %d: %w", i, err)
		}
		total += c
	}
	return total / float64(len(outs)), nil
}

func progressEvery(steps int) int {
	if steps < 10 {
		return 1
	}
	return steps / 10
}
