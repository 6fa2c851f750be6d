// Package network implements a dense feed-forward network of neurons with a
// sigmoid or linear activation, its forward pass and a single-step gradient
// training rule.
package network

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"nnlab/vec"
)

type options struct {
	src                  rand.Source
	activation           Activation
	trainingRate         float64
	layerInputDerivative bool
	trained              bool
}

type Option func(*options)

// WithSource sets the generator used for the initial weights.
func WithSource(src rand.Source) Option {
	return func(o *options) { o.src = src }
}

func WithSeed(seed uint64) Option {
	return WithSource(vec.NewSource(seed))
}

// WithActivation selects the activation of every neuron. The default is
// Sigmoid.
func WithActivation(a Activation) Option {
	return func(o *options) { o.activation = a }
}

// WithTrainingRate scales every averaged gradient by alpha. Without it the
// averaged gradient is added unscaled.
func WithTrainingRate(alpha float64) Option {
	return func(o *options) { o.trainingRate = alpha }
}

// WithLayerInputDerivative evaluates the sigmoid derivative of a neuron on
// the activations actually feeding its layer instead of on the network input.
func WithLayerInputDerivative() Option {
	return func(o *options) { o.layerInputDerivative = true }
}

// WithTrained marks a restored network as already trained.
func WithTrained() Option {
	return func(o *options) { o.trained = true }
}

func buildOptions(opts []Option) options {
	o := options{activation: Sigmoid}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Network is a layered collection of neurons. Layer 0 reads the network
// input, every later layer reads the activations of the layer before it.
type Network struct {
	nrOfInputs           int
	activation           Activation
	layers               [][]*Neuron
	trainingRate         float64
	layerInputDerivative bool
	trained              bool
}

// New builds a network with an input-side layer of inputNeurons, one layer
// per entry of hidden and an output layer of outputs neurons. Weights are
// drawn uniformly from [0,1) and biases start at zero.
func New(nrOfInputs, inputNeurons int, hidden []int, outputs int, opts ...Option) (*Network, error) {
	o := buildOptions(opts)
	if !o.activation.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArchitecture, o.activation)
	}
	if nrOfInputs <= 0 {
		return nil, fmt.Errorf("%w: %d inputs", ErrInvalidArchitecture, nrOfInputs)
	}

	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, inputNeurons)
	sizes = append(sizes, hidden...)
	sizes = append(sizes, outputs)
	for i, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("%w: layer %d has %d neurons", ErrInvalidArchitecture, i, size)
		}
	}

	if o.src == nil {
		o.src = vec.NewSource(uint64(time.Now().UnixNano()))
	}

	net := &Network{
		nrOfInputs:           nrOfInputs,
		activation:           o.activation,
		layers:               make([][]*Neuron, len(sizes)),
		trainingRate:         o.trainingRate,
		layerInputDerivative: o.layerInputDerivative,
		trained:              o.trained,
	}
	for i, size := range sizes {
		fanIn := nrOfInputs
		if i > 0 {
			fanIn = sizes[i-1]
		}
		net.layers[i] = make([]*Neuron, size)
		for j := range net.layers[i] {
			net.layers[i][j] = &Neuron{weights: vec.RandomVector(o.src, fanIn)}
		}
	}

	return net, nil
}

// FromLayers assembles a network from existing neurons, which it takes
// ownership of. At least one layer is required.
func FromLayers(nrOfInputs int, layers [][]*Neuron, opts ...Option) (*Network, error) {
	o := buildOptions(opts)
	if !o.activation.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArchitecture, o.activation)
	}
	if nrOfInputs <= 0 {
		return nil, fmt.Errorf("%w: %d inputs", ErrInvalidArchitecture, nrOfInputs)
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidArchitecture)
	}

	net := &Network{
		nrOfInputs:           nrOfInputs,
		activation:           o.activation,
		layers:               make([][]*Neuron, len(layers)),
		trainingRate:         o.trainingRate,
		layerInputDerivative: o.layerInputDerivative,
		trained:              o.trained,
	}
	for i, layer := range layers {
		if len(layer) == 0 {
			return nil, fmt.Errorf("%w: layer %d is empty", ErrInvalidArchitecture, i)
		}
		for j, neuron := range layer {
			if neuron == nil {
				return nil, fmt.Errorf("%w: neuron %d of layer %d is nil", ErrInvalidArchitecture, j, i)
			}
		}
		net.layers[i] = append([]*Neuron(nil), layer...)
	}
	if err := net.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchitecture, err)
	}

	return net, nil
}

// validate checks that every neuron's fan-in matches the width feeding its
// layer.
func (net *Network) validate() error {
	for i, layer := range net.layers {
		want := net.fanIn(i)
		for j, neuron := range layer {
			if len(neuron.weights) != want {
				return &vec.ShapeError{
					Op:       fmt.Sprintf("neuron %d of layer %d", j, i),
					Expected: want,
					Actual:   len(neuron.weights),
				}
			}
		}
	}
	return nil
}

func (net *Network) fanIn(layer int) int {
	if layer == 0 {
		return net.nrOfInputs
	}
	return len(net.layers[layer-1])
}

func (net *Network) lastIndex() int {
	return len(net.layers) - 1
}

func (net *Network) NrOfInputs() int {
	return net.nrOfInputs
}

func (net *Network) Activation() Activation {
	return net.activation
}

// TrainingRate is zero unless WithTrainingRate was given.
func (net *Network) TrainingRate() float64 {
	return net.trainingRate
}

func (net *Network) LayerInputDerivative() bool {
	return net.layerInputDerivative
}

// Trained reports whether at least one Train call succeeded.
func (net *Network) Trained() bool {
	return net.trained
}

func (net *Network) NumLayers() int {
	return len(net.layers)
}

// LayerSizes returns the neuron count of every layer.
func (net *Network) LayerSizes() []int {
	sizes := make([]int, len(net.layers))
	for i, layer := range net.layers {
		sizes[i] = len(layer)
	}
	return sizes
}

// Layer returns the neurons of layer i. The slice is a copy; the neurons are
// shared.
func (net *Network) Layer(i int) []*Neuron {
	return append([]*Neuron(nil), net.layers[i]...)
}

func (net *Network) Neuron(layer, index int) *Neuron {
	return net.layers[layer][index]
}

// Equal compares input arity, activation and every neuron layer for layer.
func (net *Network) Equal(o *Network) bool {
	if net == nil || o == nil {
		return net == o
	}
	if net.nrOfInputs != o.nrOfInputs || net.activation != o.activation || len(net.layers) != len(o.layers) {
		return false
	}
	for i := range net.layers {
		if len(net.layers[i]) != len(o.layers[i]) {
			return false
		}
		for j := range net.layers[i] {
			if !net.layers[i][j].Equal(o.layers[i][j]) {
				return false
			}
		}
	}
	return true
}
