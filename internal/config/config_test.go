package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"kvshift/internal/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestDefaultScoringConstants(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg.Scoring.BaseConfidence != 0.5 {
		t.Errorf("base confidence: got %v, want 0.5", cfg.Scoring.BaseConfidence)
	}
	if cfg.Scoring.OccurrenceWeight != 0.1 {
		t.Errorf("occurrence weight: got %v, want 0.1", cfg.Scoring.OccurrenceWeight)
	}
	if cfg.Scoring.OccurrenceCap != 0.3 {
		t.Errorf("occurrence cap: got %v, want 0.3", cfg.Scoring.OccurrenceCap)
	}
	if cfg.Scoring.ContextBonus != 0.2 {
		t.Errorf("context bonus: got %v, want 0.2", cfg.Scoring.ContextBonus)
	}
}

func TestDefaultBucketThresholds(t *testing.T) {
	b := config.DefaultConfig().Complexity.Buckets
	if b.Medium != 20 || b.High != 50 || b.VeryHigh != 80 {
		t.Errorf("bucket thresholds: got %v/%v/%v, want 20/50/80", b.Medium, b.High, b.VeryHigh)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"min confidence above one", func(c *config.Config) { c.Analysis.MinConfidence = 1.5 }},
		{"negative context window", func(c *config.Config) { c.Analysis.ContextWindow = -1 }},
		{"zero workers", func(c *config.Config) { c.Analysis.MaxWorkers = 0 }},
		{"descending buckets", func(c *config.Config) { c.Complexity.Buckets.Medium = 90 }},
		{"breakdown does not sum", func(c *config.Config) { c.Effort.Breakdown.Testing = 0.5 }},
		{"unknown format", func(c *config.Config) { c.Output.Format = "xml" }},
		{"descending base hours", func(c *config.Config) { c.Effort.BaseHours.Low = 500 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadConfigMissingPathReturnsDefault(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scoring.BaseConfidence != 0.5 {
		t.Error("expected default config when no file is present")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvshift.yml")

	cfg := config.DefaultConfig()
	cfg.ProjectName = "orders-service"
	cfg.Analysis.MinConfidence = 0.6

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ProjectName != "orders-service" {
		t.Errorf("project name: got %q", loaded.ProjectName)
	}
	if loaded.Analysis.MinConfidence != 0.6 {
		t.Errorf("min confidence: got %v", loaded.Analysis.MinConfidence)
	}
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")

	data := []byte("output:\n  format: xml\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Error("expected error for invalid config file")
	}
}
