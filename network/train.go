package network

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"nnlab/vec"
)

// Train applies one gradient step computed from the batch of
// (inputs[t], expected[t]) pairs. Every sample is traced before any weight
// changes, and a failing call changes nothing.
//
// The delta for neuron j of layer L is
//
//	g[k] = Σ_t prev_t[k] · ds_t · (−2·(a_t[L][j] − expected[t][j])) / T
//
// where prev_t is the input of layer L and ds_t the sigmoid derivative of the
// neuron on the network input (or on prev_t with WithLayerInputDerivative).
// expected[t][j] is used for hidden layers as well, so no layer may be wider
// than the output layer.
func (net *Network) Train(inputs, expected [][]float64) error {
	if err := net.checkBatch(inputs, expected); err != nil {
		return err
	}

	tr, err := net.Trace(inputs)
	if err != nil {
		return err
	}

	deltas := make([][][]float64, len(net.layers))
	for l, layer := range net.layers {
		deltas[l] = make([][]float64, len(layer))
		for j := range layer {
			deltas[l][j] = net.costGradient(inputs, expected, tr, l, j)
		}
	}

	for l, layer := range net.layers {
		for j, neuron := range layer {
			if err := neuron.AddToWeights(deltas[l][j]); err != nil {
				return err
			}
		}
	}
	net.trained = true

	return nil
}

func (net *Network) checkBatch(inputs, expected [][]float64) error {
	if len(inputs) != len(expected) {
		return &vec.ShapeError{Op: "train batch", Expected: len(inputs), Actual: len(expected)}
	}
	if len(inputs) == 0 {
		return ErrEmptyBatch
	}
	if net.activation != Sigmoid {
		return fmt.Errorf("train: %w: %s", ErrUnsupportedActivation, net.activation)
	}
	if err := net.validate(); err != nil {
		return err
	}

	outputs := len(net.layers[net.lastIndex()])
	for t := range inputs {
		if err := vec.CheckLen(fmt.Sprintf("train input %d", t), net.nrOfInputs, inputs[t]); err != nil {
			return err
		}
		if err := vec.CheckLen(fmt.Sprintf("train expected %d", t), outputs, expected[t]); err != nil {
			return err
		}
	}

	for l, layer := range net.layers {
		if len(layer) > outputs {
			return &vec.ShapeError{Op: fmt.Sprintf("train targets for layer %d", l), Expected: outputs, Actual: len(layer)}
		}
		if !net.layerInputDerivative && net.fanIn(l) > net.nrOfInputs {
			return &vec.ShapeError{Op: fmt.Sprintf("train derivative input for layer %d", l), Expected: net.nrOfInputs, Actual: net.fanIn(l)}
		}
	}

	return nil
}

// costGradient returns the delta added to the weights of neuron j in layer l.
func (net *Network) costGradient(inputs, expected [][]float64, tr *Trace, l, j int) []float64 {
	neuron := net.layers[l][j]
	steps := len(inputs)

	// aPrev[k][t]: activation on incoming edge k at time t
	aPrev := mat.NewDense(neuron.FanIn(), steps, nil)
	ds := make([]float64, steps)
	magnitude := make([]float64, steps)
	for t := 0; t < steps; t++ {
		prev := inputs[t]
		if l > 0 {
			prev = tr.Layer(t, l-1)
		}
		aPrev.SetCol(t, prev)

		if net.layerInputDerivative {
			ds[t] = neuron.sigmoidDerivative(prev)
		} else {
			ds[t] = neuron.sigmoidDerivative(inputs[t])
		}
		magnitude[t] = -2 * (tr.At(t, l, j) - expected[t][j])
	}

	res := make([]float64, neuron.FanIn())
	for k := range res {
		row := aPrev.RawRowView(k)
		for t := range row {
			res[k] += row[t] * ds[t] * magnitude[t]
		}
		if net.trainingRate != 0 {
			res[k] *= net.trainingRate / float64(steps)
		} else {
			res[k] /= float64(steps)
		}
	}
	return res
}
