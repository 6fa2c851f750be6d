package utils

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"nnlab/network"
)

// Config holds the driver configuration
type Config struct {
	Name         string
	Task         string
	DataFile     string
	Inputs       int
	InputNeurons int
	Hidden       []int
	Outputs      int
	Activation   string
	Steps        int
	Samples      int
	Seed         uint64
	Dir          string
	TrainingRate float64
}

var tasks = map[string]bool{
	"identity": true,
	"or":       true,
	"csv":      true,
}

// ParseArchitecture parses a space or comma separated list of layer sizes
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.FieldsFunc(archStr, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		arch[i] = n
	}
	return arch, nil
}

// ValidateConfig validates the driver configuration
func ValidateConfig(config *Config) error {
	if config.Name == "" {
		return fmt.Errorf("name must not be empty")
	}

	if !tasks[config.Task] {
		return fmt.Errorf("unknown task %q", config.Task)
	}

	if config.Task == "csv" && config.DataFile == "" {
		return fmt.Errorf("task csv needs a data file")
	}

	if config.Task != "csv" && config.Samples <= 0 {
		return fmt.Errorf("samples must be positive")
	}

	if config.Inputs <= 0 || config.InputNeurons <= 0 || config.Outputs <= 0 {
		return fmt.Errorf("inputs, input neurons and outputs must be positive")
	}

	for i, h := range config.Hidden {
		if h <= 0 {
			return fmt.Errorf("hidden layer %d must have a positive size", i)
		}
	}

	if config.Steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}

	if config.TrainingRate < 0 {
		return fmt.Errorf("training rate must not be negative")
	}

	if _, err := network.ParseActivation(config.Activation); err != nil {
		return err
	}

	return nil
}

// Build creates the network described by config.
func (config *Config) Build() (*network.Network, error) {
	act, err := network.ParseActivation(config.Activation)
	if err != nil {
		return nil, err
	}
	opts := []network.Option{
		network.WithSeed(config.Seed),
		network.WithActivation(act),
	}
	if config.TrainingRate > 0 {
		opts = append(opts, network.WithTrainingRate(config.TrainingRate))
	}
	return network.New(config.Inputs, config.InputNeurons, config.Hidden, config.Outputs, opts...)
}
