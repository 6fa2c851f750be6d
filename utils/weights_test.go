package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"nnlab/network"
)

func TestDenseToWeightData(t *testing.T) {
	m := mat.NewDense(2, 3, nil)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, float64(i*3+j)*0.5)
		}
	}

	wd := DenseToWeightData("test_weight", m)

	if wd.Name != "test_weight" {
		t.Errorf("Name = %s, want test_weight", wd.Name)
	}
	if len(wd.Shape) != 2 || wd.Shape[0] != 2 || wd.Shape[1] != 3 {
		t.Errorf("Shape = %v, want [2, 3]", wd.Shape)
	}
	for i, v := range wd.Data {
		expected := float64(i) * 0.5
		if v != expected {
			t.Errorf("Data[%d] = %f, want %f", i, v, expected)
		}
	}
}

func TestWeightDataToDense(t *testing.T) {
	wd := &WeightData{
		Name:  "test",
		Shape: []int{3, 4},
		Data:  make([]float64, 12),
	}
	for i := range wd.Data {
		wd.Data[i] = float64(i)
	}

	m, err := WeightDataToDense(wd)
	require.NoError(t, err)

	r, c := m.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 4, c)
	require.Equal(t, 5.0, m.At(1, 1))

	wd.Data = wd.Data[:11]
	_, err = WeightDataToDense(wd)
	require.Error(t, err)
}

func TestSaveLoadWeights(t *testing.T) {
	tmpDir := t.TempDir()
	weightsFile := filepath.Join(tmpDir, "test_weights.json")

	net, err := network.New(3, 2, []int{2}, 2, network.WithSeed(11))
	require.NoError(t, err)
	net.Neuron(1, 0).SetThreshold(0.75)
	net.Neuron(2, 1).SetBias(-0.5)

	require.NoError(t, SaveWeights(weightsFile, ExportWeights(net)))

	loaded, err := LoadWeights(weightsFile)
	require.NoError(t, err)
	require.Equal(t, WeightsVersion, loaded.Version)
	require.Len(t, loaded.Layers, 3)

	restored, err := loaded.Network()
	require.NoError(t, err)
	require.True(t, net.Equal(restored))
	require.Equal(t, 0.75, restored.Neuron(1, 0).Threshold())
}

func TestLoadWeightsErrors(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadWeights(bad)
	require.Error(t, err)
}

func TestModelWeightsNetworkErrors(t *testing.T) {
	net, err := network.New(2, 2, nil, 1, network.WithSeed(3))
	require.NoError(t, err)

	mw := ExportWeights(net)
	delete(mw.Layers, "layer0")
	_, err = mw.Network()
	require.Error(t, err)

	mw = ExportWeights(net)
	mw.Activation = "tanh"
	_, err = mw.Network()
	require.Error(t, err)

	mw = ExportWeights(net)
	lw := mw.Layers["layer1"]
	lw.Bias = nil
	mw.Layers["layer1"] = lw
	_, err = mw.Network()
	require.Error(t, err)
}
