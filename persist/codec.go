// Package persist saves networks to disk and loads them back.
//
// A blob starts with the 8-byte magic "NNLABNET" and a little-endian uint32
// version, followed by a fixed header, the width of every layer and, per
// layer, the weight matrix (neurons × fan-in), the bias vector and the
// threshold vector in gonum's binary matrix encoding.
package persist

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"nnlab/network"
)

const Version uint32 = 2

var magic = [8]byte{'N', 'N', 'L', 'A', 'B', 'N', 'E', 'T'}

const (
	flagTrained = 1 << iota
	flagLayerInputDerivative
)

// Bounds applied to a header before anything is allocated from it.
const (
	maxLayers  = 1 << 16
	maxWidth   = 1 << 16
	maxWeights = 1 << 24
)

// Size of gonum's per-matrix header, taken from gonum's own encoding.
var (
	denseHeaderSize = marshalledSize(mat.NewDense(1, 1, nil)) - 8
	vecHeaderSize   = marshalledSize(mat.NewVecDense(1, nil)) - 8
)

func marshalledSize(m interface{ MarshalBinary() ([]byte, error) }) int {
	b, err := m.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return len(b)
}

type header struct {
	NrOfInputs   uint32
	Activation   uint32
	Layers       uint32
	Flags        uint32
	TrainingRate float64
}

// Encode writes net to w.
func Encode(w io.Writer, net *network.Network) error {
	if net.NrOfInputs() > maxWidth || net.NumLayers() > maxLayers {
		return errors.Wrapf(ErrFormat, "%d inputs and %d layers exceed the stored limits", net.NrOfInputs(), net.NumLayers())
	}
	widths := make([]uint32, net.NumLayers())
	fanIn := net.NrOfInputs()
	for i, size := range net.LayerSizes() {
		if size > maxWidth || size*fanIn > maxWeights {
			return errors.Wrapf(ErrFormat, "layer %d of %d×%d weights exceeds the stored limits", i, size, fanIn)
		}
		widths[i] = uint32(size)
		fanIn = size
	}
	if _, err := w.Write(magic[:]); err != nil {
		return errors.Wrap(err, "writing magic")
	}
	if err := binary.Write(w, binary.LittleEndian, Version); err != nil {
		return errors.Wrap(err, "writing version")
	}

	h := header{
		NrOfInputs:   uint32(net.NrOfInputs()),
		Activation:   uint32(net.Activation()),
		Layers:       uint32(net.NumLayers()),
		TrainingRate: net.TrainingRate(),
	}
	if net.Trained() {
		h.Flags |= flagTrained
	}
	if net.LayerInputDerivative() {
		h.Flags |= flagLayerInputDerivative
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return errors.Wrap(err, "writing header")
	}

	if err := binary.Write(w, binary.LittleEndian, widths); err != nil {
		return errors.Wrap(err, "writing layer widths")
	}

	for i := 0; i < net.NumLayers(); i++ {
		layer := net.Layer(i)
		fanIn := layer[0].FanIn()

		weights := mat.NewDense(len(layer), fanIn, nil)
		biases := mat.NewVecDense(len(layer), nil)
		thresholds := mat.NewVecDense(len(layer), nil)
		for j, n := range layer {
			weights.SetRow(j, n.Weights())
			biases.SetVec(j, n.Bias())
			thresholds.SetVec(j, n.Threshold())
		}

		if _, err := weights.MarshalBinaryTo(w); err != nil {
			return errors.Wrapf(err, "marshalling weights of layer %d", i)
		}
		if _, err := biases.MarshalBinaryTo(w); err != nil {
			return errors.Wrapf(err, "marshalling biases of layer %d", i)
		}
		if _, err := thresholds.MarshalBinaryTo(w); err != nil {
			return errors.Wrapf(err, "marshalling thresholds of layer %d", i)
		}
	}

	return nil
}

// Decode reads a network written by Encode.
func Decode(r io.Reader) (*network.Network, error) {
	var got [8]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return nil, errors.Wrap(err, "reading magic")
	}
	if got != magic {
		return nil, errors.Wrapf(ErrFormat, "magic %q", got[:])
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, errors.Wrap(err, "reading version")
	}
	if version != Version {
		return nil, errors.Wrapf(ErrFormat, "version %d, want %d", version, Version)
	}

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	if h.Layers == 0 || h.Layers > maxLayers {
		return nil, errors.Wrapf(ErrFormat, "%d layers", h.Layers)
	}
	if h.NrOfInputs == 0 || h.NrOfInputs > maxWidth {
		return nil, errors.Wrapf(ErrFormat, "%d inputs", h.NrOfInputs)
	}

	widths := make([]uint32, h.Layers)
	if err := binary.Read(r, binary.LittleEndian, widths); err != nil {
		return nil, errors.Wrap(err, "reading layer widths")
	}
	fanIn := h.NrOfInputs
	for i, width := range widths {
		if width == 0 || width > maxWidth {
			return nil, errors.Wrapf(ErrFormat, "layer %d has %d neurons", i, width)
		}
		if uint64(width)*uint64(fanIn) > maxWeights {
			return nil, errors.Wrapf(ErrFormat, "layer %d has %d×%d weights", i, width, fanIn)
		}
		fanIn = width
	}

	layers := make([][]*network.Neuron, h.Layers)
	fanIn = h.NrOfInputs
	for i := range layers {
		rows, cols := int(widths[i]), int(fanIn)

		weights, err := readDense(r, rows, cols)
		if err != nil {
			return nil, errors.Wrapf(err, "weights of layer %d", i)
		}
		biases, err := readVec(r, rows)
		if err != nil {
			return nil, errors.Wrapf(err, "biases of layer %d", i)
		}
		thresholds, err := readVec(r, rows)
		if err != nil {
			return nil, errors.Wrapf(err, "thresholds of layer %d", i)
		}

		layers[i] = make([]*network.Neuron, rows)
		for j := range layers[i] {
			n := network.NewNeuron(weights.RawRowView(j), biases.AtVec(j))
			n.SetThreshold(thresholds.AtVec(j))
			layers[i][j] = n
		}
		fanIn = widths[i]
	}

	opts := []network.Option{
		network.WithActivation(network.Activation(h.Activation)),
		network.WithTrainingRate(h.TrainingRate),
	}
	if h.Flags&flagTrained != 0 {
		opts = append(opts, network.WithTrained())
	}
	if h.Flags&flagLayerInputDerivative != 0 {
		opts = append(opts, network.WithLayerInputDerivative())
	}

	net, err := network.FromLayers(int(h.NrOfInputs), layers, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "rebuilding network")
	}
	return net, nil
}

// readDense reads exactly one rows×cols gonum matrix. The byte count comes
// from the validated header, never from the matrix's own encoding.
func readDense(r io.Reader, rows, cols int) (*mat.Dense, error) {
	buf := make([]byte, denseHeaderSize+8*rows*cols)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(err, "reading matrix")
	}
	var m mat.Dense
	if err := m.UnmarshalBinary(buf); err != nil {
		return nil, errors.Wrapf(ErrFormat, "matrix: %v", err)
	}
	if gotRows, gotCols := m.Dims(); gotRows != rows || gotCols != cols {
		return nil, errors.Wrapf(ErrFormat, "matrix is %d×%d, want %d×%d", gotRows, gotCols, rows, cols)
	}
	return &m, nil
}

// readVec reads exactly one gonum vector of length n.
func readVec(r io.Reader, n int) (*mat.VecDense, error) {
	buf := make([]byte, vecHeaderSize+8*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(err, "reading vector")
	}
	var v mat.VecDense
	if err := v.UnmarshalBinary(buf); err != nil {
		return nil, errors.Wrapf(ErrFormat, "vector: %v", err)
	}
	if v.Len() != n {
		return nil, errors.Wrapf(ErrFormat, "vector has %d entries, want %d", v.Len(), n)
	}
	return &v, nil
}
