package network

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nnlab/vec"
)

func sig(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

func singleNeuron(t *testing.T, w float64, opts ...Option) *Network {
	t.Helper()
	net, err := FromLayers(1, [][]*Neuron{{NewNeuron([]float64{w}, 0)}}, opts...)
	require.NoError(t, err)
	return net
}

func TestTrainGradientSign(t *testing.T) {
	net := singleNeuron(t, 0)
	require.NoError(t, net.Train([][]float64{{1}}, [][]float64{{1}}))

	assert.Equal(t, []float64{0.25}, net.Neuron(0, 0).Weights())
	assert.Equal(t, 0.0, net.Neuron(0, 0).Bias())
	assert.True(t, net.Trained())
}

func TestTrainAveragesOverBatch(t *testing.T) {
	net := singleNeuron(t, 0)
	require.NoError(t, net.Train([][]float64{{1}, {2}}, [][]float64{{1}, {0}}))
	assert.InDeltaSlice(t, []float64{-0.125}, net.Neuron(0, 0).Weights(), 1e-12)
}

func TestTrainWithTrainingRate(t *testing.T) {
	net := singleNeuron(t, 0, WithTrainingRate(TrainingAlpha))
	require.NoError(t, net.Train([][]float64{{1}}, [][]float64{{1}}))
	assert.InDeltaSlice(t, []float64{0.0025}, net.Neuron(0, 0).Weights(), 1e-15)
}

func TestTrainHiddenLayerRule(t *testing.T) {
	build := func(opts ...Option) *Network {
		net, err := FromLayers(1, [][]*Neuron{
			{NewNeuron([]float64{0}, 0)},
			{NewNeuron([]float64{2}, 0)},
		}, opts...)
		require.NoError(t, err)
		return net
	}

	a0 := sig(0)
	a1 := sig(2 * a0)
	magnitude := -2 * (a1 - 1)

	// the first layer sees the network input directly
	wantFirst := 1 * 0.25 * (-2 * (a0 - 1))

	net := build()
	require.NoError(t, net.Train([][]float64{{1}}, [][]float64{{1}}))
	assert.InDelta(t, wantFirst, net.Neuron(0, 0).Weights()[0], 1e-12)
	dsInput := sig(2) * (1 - sig(2))
	assert.InDelta(t, 2+a0*dsInput*magnitude, net.Neuron(1, 0).Weights()[0], 1e-12)

	net = build(WithLayerInputDerivative())
	require.NoError(t, net.Train([][]float64{{1}}, [][]float64{{1}}))
	dsLayer := sig(2*a0) * (1 - sig(2*a0))
	assert.InDelta(t, 2+a0*dsLayer*magnitude, net.Neuron(1, 0).Weights()[0], 1e-12)
}

func TestTrainZeroResidualIsNoop(t *testing.T) {
	src := vec.NewSource(3)
	layer := []*Neuron{
		NewNeuron(vec.RandomVector(src, 3), 0),
		NewNeuron(vec.RandomVector(src, 3), 0),
	}
	net, err := FromLayers(3, [][]*Neuron{layer})
	require.NoError(t, err)

	inputs := vec.RandomMatrix(src, 8, 3)
	expected, err := net.CalculateOutputsBatch(inputs)
	require.NoError(t, err)

	before := snapshot(net)
	require.NoError(t, net.Train(inputs, expected))
	assert.Equal(t, before, snapshot(net))
}

func TestTrainDeterministic(t *testing.T) {
	run := func() *Network {
		src := vec.NewSource(42)
		net, err := New(5, 5, []int{5}, 5, WithSource(src))
		require.NoError(t, err)
		inputs := vec.RandomMatrix(src, 10, 5)
		for i := 0; i < 3; i++ {
			require.NoError(t, net.Train(inputs, inputs))
		}
		return net
	}
	assert.True(t, run().Equal(run()))
}

func TestTrainFailuresLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (*Network, error)
		inputs   [][]float64
		expected [][]float64
		err      error
	}{
		{
			name:     "empty batch",
			build:    func() (*Network, error) { return New(2, 2, []int{2}, 2, WithSeed(1)) },
			inputs:   [][]float64{},
			expected: [][]float64{},
			err:      ErrEmptyBatch,
		},
		{
			name:     "batch length mismatch",
			build:    func() (*Network, error) { return New(2, 2, []int{2}, 2, WithSeed(1)) },
			inputs:   [][]float64{{1, 1}},
			expected: [][]float64{},
			err:      ErrInvalidShape,
		},
		{
			name:     "input width",
			build:    func() (*Network, error) { return New(2, 2, []int{2}, 2, WithSeed(1)) },
			inputs:   [][]float64{{1, 1}, {1}},
			expected: [][]float64{{1, 1}, {1, 1}},
			err:      ErrInvalidShape,
		},
		{
			name:     "expected width",
			build:    func() (*Network, error) { return New(2, 2, []int{2}, 2, WithSeed(1)) },
			inputs:   [][]float64{{1, 1}},
			expected: [][]float64{{1}},
			err:      ErrInvalidShape,
		},
		{
			name:     "layer wider than outputs",
			build:    func() (*Network, error) { return New(2, 3, nil, 1, WithSeed(1)) },
			inputs:   [][]float64{{1, 1}},
			expected: [][]float64{{1}},
			err:      ErrInvalidShape,
		},
		{
			name:     "fan-in wider than network input",
			build:    func() (*Network, error) { return New(1, 2, nil, 2, WithSeed(1)) },
			inputs:   [][]float64{{1}},
			expected: [][]float64{{1, 1}},
			err:      ErrInvalidShape,
		},
		{
			name:     "linear activation",
			build:    func() (*Network, error) { return New(2, 2, nil, 2, WithSeed(1), WithActivation(Linear)) },
			inputs:   [][]float64{{1, 1}},
			expected: [][]float64{{1, 1}},
			err:      ErrUnsupportedActivation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := tt.build()
			require.NoError(t, err)
			before := snapshot(net)

			err = net.Train(tt.inputs, tt.expected)
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, before, snapshot(net))
			assert.False(t, net.Trained())
		})
	}
}

func TestTrainLayerInputDerivativeAllowsWideFanIn(t *testing.T) {
	net, err := New(1, 2, nil, 2, WithSeed(1), WithLayerInputDerivative())
	require.NoError(t, err)
	require.NoError(t, net.Train([][]float64{{1}}, [][]float64{{1, 0}}))
}

func TestTrainReducesCostOnIdentity(t *testing.T) {
	src := vec.NewSource(9)
	net, err := FromLayers(2, [][]*Neuron{{
		NewNeuron(vec.RandomVector(src, 2), 0),
		NewNeuron(vec.RandomVector(src, 2), 0),
	}})
	require.NoError(t, err)

	inputs := vec.RandomMatrix(src, 50, 2)
	cost := func() float64 {
		var total float64
		for _, x := range inputs {
			y, err := net.CalculateOutputs(x)
			require.NoError(t, err)
			c, err := CostValue(y, x)
			require.NoError(t, err)
			total += c
		}
		return total
	}

	before := cost()
	for i := 0; i < 50; i++ {
		require.NoError(t, net.Train(inputs, inputs))
	}
	assert.Less(t, cost(), before)
}
