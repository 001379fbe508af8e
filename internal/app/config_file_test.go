package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := `
input: /data/in
output: /data/out
models: /data/models
threshold: 0.8
recognizer:
  url: http://localhost:8089
embed:
  base: http://localhost:8090/v1
  model: all-minilm
  cache: /tmp/vec-cache
workers: 8
unitTimeout: 90s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if fc.Input != "/data/in" || fc.Threshold != 0.8 || fc.Recognizer.URL != "http://localhost:8089" {
		t.Fatalf("unexpected config: %+v", fc)
	}
	if fc.Embed.Model != "all-minilm" || fc.Workers != 8 || fc.UnitTimeout != "90s" {
		t.Fatalf("unexpected config: %+v", fc)
	}

	var cfg Config
	cfg.Threshold = DefaultThreshold
	ApplyFileConfig(&cfg, fc)
	if cfg.UnitTimeout != 90*time.Second {
		t.Fatalf("expected parsed unit timeout, got %v", cfg.UnitTimeout)
	}
}

func TestApplyFileConfig_FlagsWin(t *testing.T) {
	fc := FileConfig{Input: "/file/in", Output: "/file/out", Threshold: 0.9, Workers: 8}
	fc.Embed.Model = "file-model"

	cfg := Config{
		InputDir:  "/flag/in", // explicitly set: must survive
		Threshold: DefaultThreshold,
	}
	ApplyFileConfig(&cfg, fc)

	if cfg.InputDir != "/flag/in" {
		t.Fatalf("explicit flag overridden: %q", cfg.InputDir)
	}
	if cfg.OutputDir != "/file/out" {
		t.Fatalf("file value not applied: %q", cfg.OutputDir)
	}
	if cfg.Threshold != 0.9 {
		t.Fatalf("expected file threshold to replace the default, got %v", cfg.Threshold)
	}
	if cfg.EmbedModel != "file-model" || cfg.Workers != 8 {
		t.Fatalf("unexpected merge: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{InputDir: "a", OutputDir: "b", ModelDir: "c", Threshold: 0.5}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	for _, bad := range []Config{
		{OutputDir: "b", ModelDir: "c"},
		{InputDir: "a", ModelDir: "c"},
		{InputDir: "a", OutputDir: "b"},
		{InputDir: "a", OutputDir: "b", ModelDir: "c", Threshold: -0.1},
		{InputDir: "a", OutputDir: "b", ModelDir: "c", Threshold: 1.1},
	} {
		if err := bad.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", bad)
		}
	}
}
