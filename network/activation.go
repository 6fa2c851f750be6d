package network

import (
	"fmt"
	"math"
)

// Activation selects the nonlinearity applied to every neuron of a Network.
type Activation int

const (
	Linear Activation = iota
	Sigmoid
)

var ActivationLookup = map[string]Activation{
	"linear":  Linear,
	"sigmoid": Sigmoid,
}

// ParseActivation resolves a name from ActivationLookup.
func ParseActivation(name string) (Activation, error) {
	a, ok := ActivationLookup[name]
	if !ok {
		return 0, fmt.Errorf("invalid activation: %s", name)
	}
	return a, nil
}

// Apply maps a pre-activation z to the neuron output.
func (a Activation) Apply(z float64) float64 {
	switch a {
	case Linear:
		return z
	case Sigmoid:
		return sigmoid(z)
	}
	panic(fmt.Sprintf("unknown activation %d", int(a)))
}

func (a Activation) Valid() bool {
	return a == Linear || a == Sigmoid
}

func (a Activation) String() string {
	switch a {
	case Linear:
		return "linear"
	case Sigmoid:
		return "sigmoid"
	}
	return fmt.Sprintf("activation(%d)", int(a))
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
