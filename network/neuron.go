package network

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"nnlab/vec"
)

const (
	// TrainingAlpha is the step size of the perceptron rule in Neuron.Train.
	// Network.Train only applies a rate when one is configured with
	// WithTrainingRate.
	TrainingAlpha = 0.01
	// MaxTrainingDeviation is the tolerance at which Neuron.Train stops.
	MaxTrainingDeviation = 0.1
)

// Neuron owns its incoming weights, a bias and an activation threshold. The
// threshold is carried as metadata and does not take part in activation.
type Neuron struct {
	weights   []float64
	bias      float64
	threshold float64
}

// NewNeuron copies weights into a new Neuron with a zero threshold.
func NewNeuron(weights []float64, bias float64) *Neuron {
	return &Neuron{
		weights: vec.Copy(weights),
		bias:    bias,
	}
}

// Weights returns a copy of the incoming weights.
func (n *Neuron) Weights() []float64 {
	return vec.Copy(n.weights)
}

func (n *Neuron) FanIn() int {
	return len(n.weights)
}

func (n *Neuron) Bias() float64 {
	return n.bias
}

func (n *Neuron) Threshold() float64 {
	return n.threshold
}

// Z returns the pre-activation w·x + b.
func (n *Neuron) Z(x []float64) (float64, error) {
	if err := vec.CheckLen("neuron z", len(n.weights), x); err != nil {
		return 0, err
	}
	return n.z(x), nil
}

// z reads only the first len(weights) entries of x; callers guarantee
// len(x) >= len(weights).
func (n *Neuron) z(x []float64) float64 {
	return floats.Dot(n.weights, x[:len(n.weights)]) + n.bias
}

// Activate applies act to Z(x).
func (n *Neuron) Activate(act Activation, x []float64) (float64, error) {
	z, err := n.Z(x)
	if err != nil {
		return 0, err
	}
	return act.Apply(z), nil
}

// SigmoidDerivative returns σ(z)·(1−σ(z)) for z = Z(x).
func (n *Neuron) SigmoidDerivative(x []float64) (float64, error) {
	if err := vec.CheckLen("neuron sigmoid derivative", len(n.weights), x); err != nil {
		return 0, err
	}
	return n.sigmoidDerivative(x), nil
}

func (n *Neuron) sigmoidDerivative(x []float64) float64 {
	s := sigmoid(n.z(x))
	return s * (1 - s)
}

// AddToWeights adds delta elementwise. On a length mismatch the weights are
// left unchanged.
func (n *Neuron) AddToWeights(delta []float64) error {
	if err := vec.CheckLen("neuron add to weights", len(n.weights), delta); err != nil {
		return err
	}
	floats.Add(n.weights, delta)
	return nil
}

// SetWeights replaces the weights, possibly with a different length. Only use
// it on a neuron that is not yet part of a Network.
func (n *Neuron) SetWeights(weights []float64) {
	n.weights = vec.Copy(weights)
}

func (n *Neuron) AddToBias(delta float64) {
	n.bias += delta
}

func (n *Neuron) SetBias(bias float64) {
	n.bias = bias
}

func (n *Neuron) AddToThreshold(delta float64) {
	n.threshold += delta
}

func (n *Neuron) SetThreshold(threshold float64) {
	n.threshold = threshold
}

// Train runs the perceptron rule w_i += TrainingAlpha·x_i·(expected−actual)
// on a single sample until the output is within MaxTrainingDeviation of
// expected. It returns the number of updates applied. When maxSteps updates
// are not enough, the weights are restored and ErrNotConverged is returned.
func (n *Neuron) Train(act Activation, inputs []float64, expected float64, maxSteps int) (int, error) {
	actual, err := n.Activate(act, inputs)
	if err != nil {
		return 0, err
	}

	saved := vec.Copy(n.weights)
	steps := 0
	for math.Abs(actual-expected) > MaxTrainingDeviation {
		if steps >= maxSteps {
			n.weights = saved
			return steps, ErrNotConverged
		}
		for i := range n.weights {
			n.weights[i] += TrainingAlpha * inputs[i] * (expected - actual)
		}
		actual = act.Apply(n.z(inputs))
		steps++
	}
	return steps, nil
}

// Equal compares weights, bias and threshold by value.
func (n *Neuron) Equal(o *Neuron) bool {
	if n == nil || o == nil {
		return n == o
	}
	return floats.Equal(n.weights, o.weights) &&
		n.bias == o.bias &&
		n.threshold == o.threshold
}

func (n *Neuron) String() string {
	var b strings.Builder
	b.WriteString("N={[")
	for i, w := range n.weights {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(w, 'g', -1, 64))
	}
	b.WriteString("];b=")
	b.WriteString(strconv.FormatFloat(n.bias, 'g', -1, 64))
	b.WriteString(";t=")
	b.WriteString(strconv.FormatFloat(n.threshold, 'g', -1, 64))
	b.WriteString("}")
	return b.String()
}
