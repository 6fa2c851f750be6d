package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"nnlab/network"
)

// WeightsVersion is written into every exported ModelWeights.
const WeightsVersion = "1.0"

// WeightData represents serializable weight data for a layer
type WeightData struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// ModelWeights represents all weights in a network
type ModelWeights struct {
	Version    string                 `json:"version"`
	NrOfInputs int                    `json:"nr_of_inputs"`
	Activation string                 `json:"activation"`
	Layers     map[string]LayerWeight `json:"layers"`
}

// LayerWeight contains weights, biases and thresholds for a layer
type LayerWeight struct {
	Weight    *WeightData `json:"weight,omitempty"`
	Bias      *WeightData `json:"bias,omitempty"`
	Threshold *WeightData `json:"threshold,omitempty"`
}

func layerKey(i int) string {
	return fmt.Sprintf("layer%d", i)
}

// SaveWeights saves model weights to a JSON file
func SaveWeights(filepath string, weights *ModelWeights) error {
	data, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadWeights loads model weights from a JSON file
func LoadWeights(filepath string) (*ModelWeights, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}
	var weights ModelWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	return &weights, nil
}

// DenseToWeightData converts a matrix to serializable weight data
func DenseToWeightData(name string, m mat.Matrix) *WeightData {
	r, c := m.Dims()
	wd := &WeightData{
		Name:  name,
		Shape: []int{r, c},
		Data:  make([]float64, 0, r*c),
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			wd.Data = append(wd.Data, m.At(i, j))
		}
	}
	return wd
}

// WeightDataToDense converts weight data back to a matrix
func WeightDataToDense(wd *WeightData) (*mat.Dense, error) {
	if len(wd.Shape) != 2 || wd.Shape[0] <= 0 || wd.Shape[1] <= 0 {
		return nil, fmt.Errorf("weight %q: bad shape %v", wd.Name, wd.Shape)
	}
	if len(wd.Data) != wd.Shape[0]*wd.Shape[1] {
		return nil, fmt.Errorf("weight %q: shape %v needs %d values, got %d",
			wd.Name, wd.Shape, wd.Shape[0]*wd.Shape[1], len(wd.Data))
	}
	return mat.NewDense(wd.Shape[0], wd.Shape[1], append([]float64{}, wd.Data...)), nil
}

// ExportWeights captures every layer of net, one weight row per neuron.
func ExportWeights(net *network.Network) *ModelWeights {
	mw := &ModelWeights{
		Version:    WeightsVersion,
		NrOfInputs: net.NrOfInputs(),
		Activation: net.Activation().String(),
		Layers:     make(map[string]LayerWeight, net.NumLayers()),
	}
	for i := 0; i < net.NumLayers(); i++ {
		layer := net.Layer(i)
		fanIn := layer[0].FanIn()
		w := mat.NewDense(len(layer), fanIn, nil)
		b := mat.NewDense(len(layer), 1, nil)
		th := mat.NewDense(len(layer), 1, nil)
		for j, neuron := range layer {
			w.SetRow(j, neuron.Weights())
			b.Set(j, 0, neuron.Bias())
			th.Set(j, 0, neuron.Threshold())
		}
		key := layerKey(i)
		mw.Layers[key] = LayerWeight{
			Weight:    DenseToWeightData(key+"_weight", w),
			Bias:      DenseToWeightData(key+"_bias", b),
			Threshold: DenseToWeightData(key+"_threshold", th),
		}
	}
	return mw
}

// Network rebuilds a network from exported weights. Layers must be
// numbered layer0, layer1, ... without gaps.
func (mw *ModelWeights) Network(opts ...network.Option) (*network.Network, error) {
	act, err := network.ParseActivation(mw.Activation)
	if err != nil {
		return nil, err
	}

	layers := make([][]*network.Neuron, len(mw.Layers))
	for i := range layers {
		lw, ok := mw.Layers[layerKey(i)]
		if !ok {
			return nil, fmt.Errorf("missing %s", layerKey(i))
		}
		if lw.Weight == nil || lw.Bias == nil {
			return nil, fmt.Errorf("%s: weight and bias are required", layerKey(i))
		}
		w, err := WeightDataToDense(lw.Weight)
		if err != nil {
			return nil, err
		}
		b, err := WeightDataToDense(lw.Bias)
		if err != nil {
			return nil, err
		}
		rows, _ := w.Dims()
		if br, bc := b.Dims(); br != rows || bc != 1 {
			return nil, fmt.Errorf("%s: bias shape %dx%d for %d neurons", layerKey(i), br, bc, rows)
		}
		var th *mat.Dense
		if lw.Threshold != nil {
			if th, err = WeightDataToDense(lw.Threshold); err != nil {
				return nil, err
			}
			if tr, tc := th.Dims(); tr != rows || tc != 1 {
				return nil, fmt.Errorf("%s: threshold shape %dx%d for %d neurons", layerKey(i), tr, tc, rows)
			}
		}

		layers[i] = make([]*network.Neuron, rows)
		for j := range layers[i] {
			n := network.NewNeuron(w.RawRowView(j), b.At(j, 0))
			if th != nil {
				n.SetThreshold(th.At(j, 0))
			}
			layers[i][j] = n
		}
	}

	return network.FromLayers(mw.NrOfInputs, layers, append([]network.Option{network.WithActivation(act)}, opts...)...)
}
