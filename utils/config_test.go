package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArchitecture(t *testing.T) {
	arch, err := ParseArchitecture("5 5")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 5}, arch)

	arch, err = ParseArchitecture("4,3, 2")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2}, arch)

	arch, err = ParseArchitecture("")
	require.NoError(t, err)
	assert.Empty(t, arch)

	_, err = ParseArchitecture("5,x")
	require.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		Name:         "identity",
		Task:         "identity",
		Inputs:       5,
		InputNeurons: 5,
		Hidden:       []int{5},
		Outputs:      5,
		Activation:   "sigmoid",
		Steps:        10,
		Samples:      4,
		Seed:         1,
	}
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, ValidateConfig(validConfig()))

	cases := map[string]func(c *Config){
		"empty name":       func(c *Config) { c.Name = "" },
		"unknown task":     func(c *Config) { c.Task = "xor" },
		"csv without file": func(c *Config) { c.Task = "csv" },
		"no samples":       func(c *Config) { c.Samples = 0 },
		"no inputs":        func(c *Config) { c.Inputs = 0 },
		"bad hidden":       func(c *Config) { c.Hidden = []int{3, 0} },
		"no steps":         func(c *Config) { c.Steps = 0 },
		"negative rate":    func(c *Config) { c.TrainingRate = -1 },
		"bad activation":   func(c *Config) { c.Activation = "relu" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(c)
			require.Error(t, ValidateConfig(c))
		})
	}

	c := validConfig()
	c.Task, c.DataFile, c.Samples = "csv", "data.csv", 0
	require.NoError(t, ValidateConfig(c))
}

func TestConfigBuild(t *testing.T) {
	c := validConfig()
	c.TrainingRate = 0.5
	net, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, []int{5, 5, 5}, net.LayerSizes())
	assert.Equal(t, 0.5, net.TrainingRate())

	again, err := c.Build()
	require.NoError(t, err)
	assert.True(t, net.Equal(again))
}
