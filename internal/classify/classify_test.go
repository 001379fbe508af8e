package classify

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// probClassifier reads the probability directly from the first vector
// component, making scenario setups trivial.
type probClassifier struct{}

func (probClassifier) Predict(v []float32) (float64, error) {
	if len(v) == 0 {
		return 0, errors.New("empty vector")
	}
	return float64(v[0]), nil
}

func rowsFor(doc string, probs ...float64) []Row {
	rows := make([]Row, len(probs))
	for i, p := range probs {
		rows[i] = Row{Seq: i, Doc: doc, Index: i, Text: "sentence", Vector: []float32{float32(p)}}
	}
	return rows
}

// A document at [0.9, 0.3] with threshold 0.5 selects the first sentence
// unmasked.
func TestSelectTop_ScenarioA(t *testing.T) {
	results, err := SelectTop(probClassifier{}, rowsFor("d.pdf", 0.9, 0.3), 0.5)
	if err != nil {
		t.Fatalf("SelectTop: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Masked() {
		t.Fatalf("expected unmasked result, got %+v", r)
	}
	if *r.Index != 0 || *r.Text != "sentence" || r.Vector == nil {
		t.Fatalf("unexpected result: %+v", r)
	}
	if math.Abs(*r.Probability-0.9) > 1e-6 {
		t.Fatalf("unexpected probability %v", *r.Probability)
	}
}

// Same document at threshold 0.95 selects the same sentence but returns it
// fully masked, identifier only.
func TestSelectTop_ScenarioB(t *testing.T) {
	results, err := SelectTop(probClassifier{}, rowsFor("d.pdf", 0.9, 0.3), 0.95)
	if err != nil {
		t.Fatalf("SelectTop: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Doc != "d.pdf" {
		t.Fatalf("expected doc identifier retained, got %q", r.Doc)
	}
	if !r.Masked() || r.Index != nil || r.Text != nil || r.Vector != nil {
		t.Fatalf("expected fully masked result, got %+v", r)
	}
}

func TestSelectTop_ThresholdIsStrict(t *testing.T) {
	// p == threshold stays unmasked; masking requires strictly below.
	results, err := SelectTop(probClassifier{}, rowsFor("d", 0.5), 0.5)
	if err != nil {
		t.Fatalf("SelectTop: %v", err)
	}
	if results[0].Masked() {
		t.Fatalf("p == threshold must not be masked")
	}
}

func TestSelectTop_TieBreaksByLowestSeq(t *testing.T) {
	rows := []Row{
		{Seq: 7, Doc: "d", Index: 1, Text: "b", Vector: []float32{0.8}},
		{Seq: 3, Doc: "d", Index: 0, Text: "a", Vector: []float32{0.8}},
	}
	results, err := SelectTop(probClassifier{}, rows, 0.1)
	if err != nil {
		t.Fatalf("SelectTop: %v", err)
	}
	if *results[0].Index != 0 {
		t.Fatalf("expected the lower-Seq row to win the tie, got index %d", *results[0].Index)
	}
}

func TestSelectTop_OneResultPerDocument(t *testing.T) {
	rows := append(rowsFor("a", 0.2, 0.6), Row{Seq: 10, Doc: "b", Index: 0, Text: "x", Vector: []float32{0.99}})
	rows = append(rows, Row{Seq: 11, Doc: "a", Index: 2, Text: "y", Vector: []float32{0.3}})
	results, err := SelectTop(probClassifier{}, rows, 0.5)
	if err != nil {
		t.Fatalf("SelectTop: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// Order follows first appearance in input.
	if results[0].Doc != "a" || results[1].Doc != "b" {
		t.Fatalf("unexpected order: %v, %v", results[0].Doc, results[1].Doc)
	}
	if *results[0].Index != 1 || *results[1].Index != 0 {
		t.Fatalf("unexpected winners: %+v", results)
	}
}

func TestSelectTop_EmptyInput(t *testing.T) {
	results, err := SelectTop(probClassifier{}, nil, 0.5)
	if err != nil {
		t.Fatalf("SelectTop: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty output for empty input, got %v", results)
	}
}

func TestLoadModel_MissingIsModelLoadError(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
}

func TestLoadModel_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadModel(path); !errors.Is(err, ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
}

func TestLinearModel_Predict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.json")
	content := `{"kind":"logistic","weights":[1.0,-1.0],"bias":0.0}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if m.Dimensions() != 2 {
		t.Fatalf("expected 2 dims, got %d", m.Dimensions())
	}
	// w·x + b = 0 → sigmoid = 0.5.
	p, err := m.Predict([]float32{2, 2})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if p != 0.5 {
		t.Fatalf("expected 0.5, got %v", p)
	}
	if _, err := m.Predict([]float32{1}); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
	// Larger positive activation → probability above 0.5.
	hi, _ := m.Predict([]float32{5, 0})
	lo, _ := m.Predict([]float32{0, 5})
	if hi <= 0.5 || lo >= 0.5 {
		t.Fatalf("unexpected probabilities hi=%v lo=%v", hi, lo)
	}
}
