package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime configuration for the pipeline.
type Config struct {
	// Required paths.
	InputDir  string
	OutputDir string
	ModelDir  string

	// Threshold masks selections whose probability falls strictly below it.
	Threshold float64

	// Recognizer service for the OCR path.
	RecognizerURL string

	// Embedding model endpoint.
	EmbedBaseURL  string
	EmbedModel    string
	EmbedAPIKey   string
	EmbedCacheDir string

	// Workers bounds per-document and per-batch parallel work. Zero means 4.
	Workers int
	// UnitTimeout bounds one unit of dominant-cost work (a page
	// recognition, an embedding batch). Zero disables the per-unit deadline.
	UnitTimeout time.Duration

	// Markers overrides the sentence terminal markers; empty means the
	// segmenter default set.
	Markers []string

	Verbose bool
}

// DefaultThreshold is applied when the caller supplies none.
const DefaultThreshold = 0.5

// Validate checks required fields and value ranges.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input directory is required")
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if c.ModelDir == "" {
		return errors.New("model directory is required")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0,1], got %v", c.Threshold)
	}
	return nil
}

func (c Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return 4
}
