package network

import (
	"gonum.org/v1/gonum/mat"

	"nnlab/vec"
)

// Trace holds activations[time][layer][neuron] for a batch in one
// contiguous time × Σwidths matrix; offsets[l] is where layer l starts in a
// row.
type Trace struct {
	data    *mat.Dense
	offsets []int
}

// Len is the number of recorded samples.
func (tr *Trace) Len() int {
	r, _ := tr.data.Dims()
	return r
}

// Layer returns the activations of layer l at time t. The slice aliases the
// trace.
func (tr *Trace) Layer(t, l int) []float64 {
	row := tr.data.RawRowView(t)
	return row[tr.offsets[l]:tr.offsets[l+1]:tr.offsets[l+1]]
}

func (tr *Trace) At(t, l, j int) float64 {
	return tr.data.At(t, tr.offsets[l]+j)
}

func (net *Network) offsets() []int {
	off := make([]int, len(net.layers)+1)
	for i, layer := range net.layers {
		off[i+1] = off[i] + len(layer)
	}
	return off
}

// forward writes every layer's activations into row at the given offsets.
func (net *Network) forward(inputs, row []float64, off []int) error {
	current := inputs
	for i, layer := range net.layers {
		out := row[off[i]:off[i+1]:off[i+1]]
		for j, neuron := range layer {
			a, err := neuron.Activate(net.activation, current)
			if err != nil {
				return err
			}
			out[j] = a
		}
		current = out
	}
	return nil
}

// CalculateOutputs runs a forward pass and returns the output layer's
// activations.
func (net *Network) CalculateOutputs(inputs []float64) ([]float64, error) {
	if err := vec.CheckLen("calculate outputs", net.nrOfInputs, inputs); err != nil {
		return nil, err
	}
	off := net.offsets()
	row := make([]float64, off[len(off)-1])
	if err := net.forward(inputs, row, off); err != nil {
		return nil, err
	}
	return vec.Copy(row[off[net.lastIndex()]:]), nil
}

// CalculateOutputsBatch applies CalculateOutputs to every input.
func (net *Network) CalculateOutputsBatch(inputs [][]float64) ([][]float64, error) {
	outputs := make([][]float64, len(inputs))
	for t, x := range inputs {
		y, err := net.CalculateOutputs(x)
		if err != nil {
			return nil, err
		}
		outputs[t] = y
	}
	return outputs, nil
}

// CalculateAllNeuronActivations runs a forward pass and returns one row per
// layer; the last row equals CalculateOutputs(inputs).
func (net *Network) CalculateAllNeuronActivations(inputs []float64) ([][]float64, error) {
	if err := vec.CheckLen("calculate all neuron activations", net.nrOfInputs, inputs); err != nil {
		return nil, err
	}
	off := net.offsets()
	row := make([]float64, off[len(off)-1])
	if err := net.forward(inputs, row, off); err != nil {
		return nil, err
	}

	result := make([][]float64, len(net.layers))
	for i := range result {
		result[i] = row[off[i]:off[i+1]:off[i+1]]
	}
	return result, nil
}

// Trace records the activations of every sample in inputs.
func (net *Network) Trace(inputs [][]float64) (*Trace, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}
	for _, x := range inputs {
		if err := vec.CheckLen("trace", net.nrOfInputs, x); err != nil {
			return nil, err
		}
	}

	off := net.offsets()
	tr := &Trace{
		data:    mat.NewDense(len(inputs), off[len(off)-1], nil),
		offsets: off,
	}
	for t, x := range inputs {
		if err := net.forward(x, tr.data.RawRowView(t), off); err != nil {
			return nil, err
		}
	}
	return tr, nil
}
