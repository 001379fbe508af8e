package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// DefaultArtifactName is the classifier artifact filename looked up in the
// model directory.
const DefaultArtifactName = "classifier.json"

// ErrModelLoad marks a missing or unreadable classifier artifact. This is
// fatal for the whole run: classification cannot proceed at all.
var ErrModelLoad = errors.New("classifier artifact cannot be loaded")

// LinearModel is a logistic-link linear classifier loaded from a JSON
// artifact: p = sigmoid(w·x + b). Read-only after load.
type LinearModel struct {
	weights []float32
	bias    float64
}

type artifact struct {
	Kind    string    `json:"kind"`
	Weights []float32 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// LoadModel reads a classifier artifact from path.
func LoadModel(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrModelLoad, path, err)
	}
	if a.Kind != "" && a.Kind != "logistic" {
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrModelLoad, a.Kind)
	}
	if len(a.Weights) == 0 {
		return nil, fmt.Errorf("%w: artifact has no weights", ErrModelLoad)
	}
	return &LinearModel{weights: a.Weights, bias: a.Bias}, nil
}

// Dimensions returns the expected input vector length.
func (m *LinearModel) Dimensions() int { return len(m.weights) }

// Predict returns the positive-class probability for the vector.
func (m *LinearModel) Predict(vector []float32) (float64, error) {
	if len(vector) != len(m.weights) {
		return 0, fmt.Errorf("vector has %d dims, model expects %d", len(vector), len(m.weights))
	}
	z := m.bias
	for i, w := range m.weights {
		z += float64(w) * float64(vector[i])
	}
	return 1.0 / (1.0 + math.Exp(-z)), nil
}
