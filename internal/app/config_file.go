package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally onto the flag surface.
type FileConfig struct {
	Input     string  `yaml:"input" json:"input"`
	Output    string  `yaml:"output" json:"output"`
	Models    string  `yaml:"models" json:"models"`
	Threshold float64 `yaml:"threshold" json:"threshold"`

	Recognizer struct {
		URL string `yaml:"url" json:"url"`
	} `yaml:"recognizer" json:"recognizer"`

	Embed struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
		Cache   string `yaml:"cache" json:"cache"`
	} `yaml:"embed" json:"embed"`

	Workers int `yaml:"workers" json:"workers"`
	// UnitTimeout is a Go duration string, e.g. "90s".
	UnitTimeout string   `yaml:"unitTimeout" json:"unitTimeout"`
	Markers     []string `yaml:"markers" json:"markers"`
	Verbose     bool     `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for fields that
// are currently unset in cfg. Flags should already have been parsed, so
// explicit flags win over file values.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.InputDir == "" && fc.Input != "" {
		cfg.InputDir = fc.Input
	}
	if cfg.OutputDir == "" && fc.Output != "" {
		cfg.OutputDir = fc.Output
	}
	if cfg.ModelDir == "" && fc.Models != "" {
		cfg.ModelDir = fc.Models
	}
	if cfg.Threshold == DefaultThreshold && fc.Threshold != 0 {
		cfg.Threshold = fc.Threshold
	}
	if cfg.RecognizerURL == "" && fc.Recognizer.URL != "" {
		cfg.RecognizerURL = fc.Recognizer.URL
	}
	if cfg.EmbedBaseURL == "" && fc.Embed.BaseURL != "" {
		cfg.EmbedBaseURL = fc.Embed.BaseURL
	}
	if cfg.EmbedModel == "" && fc.Embed.Model != "" {
		cfg.EmbedModel = fc.Embed.Model
	}
	if cfg.EmbedAPIKey == "" && fc.Embed.APIKey != "" {
		cfg.EmbedAPIKey = fc.Embed.APIKey
	}
	if cfg.EmbedCacheDir == "" && fc.Embed.Cache != "" {
		cfg.EmbedCacheDir = fc.Embed.Cache
	}
	if cfg.Workers == 0 && fc.Workers != 0 {
		cfg.Workers = fc.Workers
	}
	if cfg.UnitTimeout == 0 && fc.UnitTimeout != "" {
		if d, err := time.ParseDuration(fc.UnitTimeout); err == nil {
			cfg.UnitTimeout = d
		}
	}
	if len(cfg.Markers) == 0 && len(fc.Markers) != 0 {
		cfg.Markers = fc.Markers
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
