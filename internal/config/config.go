// internal/config/config.go
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration for kvshift. Every heuristic constant
// used by the detection and assessment formulas lives here so the scoring
// logic stays tunable without code changes.
type Config struct {
	// General settings
	Version     string `yaml:"version" json:"version"`
	ProjectName string `yaml:"project_name,omitempty" json:"project_name,omitempty"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Confidence scoring constants
	Scoring ScoringConfig `yaml:"scoring" json:"scoring"`

	// Complexity assessment constants
	Complexity ComplexityConfig `yaml:"complexity" json:"complexity"`

	// Effort estimation constants
	Effort EffortConfig `yaml:"effort" json:"effort"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// File patterns
	Files FilesConfig `yaml:"files" json:"files"`
}

type AnalysisConfig struct {
	// Patterns scoring below this confidence are dropped from results
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence"`

	// Lines of context captured before and after each signature match
	ContextWindow int `yaml:"context_window" json:"context_window"`

	// Parallel analysis
	MaxWorkers int `yaml:"max_workers" json:"max_workers"`
}

// ScoringConfig holds the confidence formula constants:
// confidence = base + min(occurrences*occurrence_weight, occurrence_cap)
// + context_bonus when a required context keyword corroborates the match.
type ScoringConfig struct {
	BaseConfidence   float64 `yaml:"base_confidence" json:"base_confidence"`
	OccurrenceWeight float64 `yaml:"occurrence_weight" json:"occurrence_weight"`
	OccurrenceCap    float64 `yaml:"occurrence_cap" json:"occurrence_cap"`
	ContextBonus     float64 `yaml:"context_bonus" json:"context_bonus"`
}

type ComplexityConfig struct {
	// Per-pattern weights by rating
	SimpleWeight   float64 `yaml:"simple_weight" json:"simple_weight"`
	ModerateWeight float64 `yaml:"moderate_weight" json:"moderate_weight"`
	ComplexWeight  float64 `yaml:"complex_weight" json:"complex_weight"`

	// Added per occurrence of any detected pattern
	OccurrenceWeight float64 `yaml:"occurrence_weight" json:"occurrence_weight"`

	// total_lines / line_divisor contributes to the score, capped at line_cap
	LineDivisor float64 `yaml:"line_divisor" json:"line_divisor"`
	LineCap     float64 `yaml:"line_cap" json:"line_cap"`

	// relevant_lines / total_lines ratio is scaled by this weight
	RelevanceWeight float64 `yaml:"relevance_weight" json:"relevance_weight"`

	// Bucket cut points, inclusive on the lower bound:
	// score < medium -> low, < high -> medium, < very_high -> high, else very-high
	Buckets BucketThresholds `yaml:"buckets" json:"buckets"`
}

type BucketThresholds struct {
	Medium   float64 `yaml:"medium" json:"medium"`
	High     float64 `yaml:"high" json:"high"`
	VeryHigh float64 `yaml:"very_high" json:"very_high"`
}

type EffortConfig struct {
	// Base hours by complexity bucket
	BaseHours BaseHoursConfig `yaml:"base_hours" json:"base_hours"`

	// Hours per occurrence by pattern rating
	PatternHours PatternHoursConfig `yaml:"pattern_hours" json:"pattern_hours"`

	// Proportional split of total hours; must sum to 1.0
	Breakdown BreakdownConfig `yaml:"breakdown" json:"breakdown"`
}

type BaseHoursConfig struct {
	Low      float64 `yaml:"low" json:"low"`
	Medium   float64 `yaml:"medium" json:"medium"`
	High     float64 `yaml:"high" json:"high"`
	VeryHigh float64 `yaml:"very_high" json:"very_high"`
}

type PatternHoursConfig struct {
	Simple   float64 `yaml:"simple" json:"simple"`
	Moderate float64 `yaml:"moderate" json:"moderate"`
	Complex  float64 `yaml:"complex" json:"complex"`
}

type BreakdownConfig struct {
	Analysis      float64 `yaml:"analysis" json:"analysis"`
	Conversion    float64 `yaml:"conversion" json:"conversion"`
	Testing       float64 `yaml:"testing" json:"testing"`
	Validation    float64 `yaml:"validation" json:"validation"`
	Documentation float64 `yaml:"documentation" json:"documentation"`
}

type OutputConfig struct {
	// Default output format
	Format string `yaml:"format" json:"format"`

	// Colorized output
	Colors bool `yaml:"colors" json:"colors"`

	// Verbosity level
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Show per-occurrence detail in console reports
	ShowOccurrences bool `yaml:"show_occurrences" json:"show_occurrences"`

	// Output file path (optional)
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty"`

	// Directory for converted sources (optional)
	OutDir string `yaml:"out_dir,omitempty" json:"out_dir,omitempty"`
}

type FilesConfig struct {
	// Include patterns (doublestar globs)
	Include []string `yaml:"include" json:"include"`

	// Exclude patterns
	Exclude []string `yaml:"exclude" json:"exclude"`

	// Whether to follow symlinks
	FollowSymlinks bool `yaml:"follow_symlinks" json:"follow_symlinks"`

	// Max file size (in KB)
	MaxFileSize int `yaml:"max_file_size" json:"max_file_size"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			MinConfidence: 0.3,
			ContextWindow: 3,
			MaxWorkers:    4,
		},
		Scoring: ScoringConfig{
			BaseConfidence:   0.5,
			OccurrenceWeight: 0.1,
			OccurrenceCap:    0.3,
			ContextBonus:     0.2,
		},
		Complexity: ComplexityConfig{
			SimpleWeight:     5,
			ModerateWeight:   10,
			ComplexWeight:    20,
			OccurrenceWeight: 2,
			LineDivisor:      50,
			LineCap:          20,
			RelevanceWeight:  30,
			Buckets: BucketThresholds{
				Medium:   20,
				High:     50,
				VeryHigh: 80,
			},
		},
		Effort: EffortConfig{
			BaseHours: BaseHoursConfig{
				Low:      8,
				Medium:   24,
				High:     60,
				VeryHigh: 120,
			},
			PatternHours: PatternHoursConfig{
				Simple:   2,
				Moderate: 8,
				Complex:  16,
			},
			Breakdown: BreakdownConfig{
				Analysis:      0.20,
				Conversion:    0.40,
				Testing:       0.30,
				Validation:    0.05,
				Documentation: 0.05,
			},
		},
		Output: OutputConfig{
			Format:          "console",
			Colors:          true,
			Verbose:         false,
			ShowOccurrences: false,
		},
		Files: FilesConfig{
			Include:        []string{"**/*.js", "**/*.mjs", "**/*.cjs", "**/*.ts"},
			Exclude:        []string{"node_modules/**", ".git/**", "dist/**", "build/**"},
			FollowSymlinks: false,
			MaxFileSize:    1024, // 1MB
		},
	}
}

// LoadConfig loads configuration from file or returns default
func LoadConfig(configPath string) (*Config, error) {
	// If no config path provided, look for default config files
	if configPath == "" {
		configPath = findConfigFile()
	}

	// If still no config found, return default
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Load from file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig() // Start with defaults

	// Parse YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	possiblePaths := []string{
		".kvshift.yml",
		".kvshift.yaml",
		"kvshift.yml",
		"kvshift.yaml",
		".config/kvshift.yml",
		".config/kvshift.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Analysis.MinConfidence < 0 || c.Analysis.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be within [0,1]")
	}

	if c.Analysis.ContextWindow < 0 {
		return fmt.Errorf("context_window must not be negative")
	}

	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1")
	}

	s := c.Scoring
	if s.BaseConfidence < 0 || s.BaseConfidence > 1 {
		return fmt.Errorf("base_confidence must be within [0,1]")
	}
	if s.OccurrenceWeight < 0 || s.OccurrenceCap < 0 || s.ContextBonus < 0 {
		return fmt.Errorf("scoring weights must not be negative")
	}

	// Bucket cut points must ascend or the bucket mapping is ambiguous
	b := c.Complexity.Buckets
	if b.Medium >= b.High || b.High >= b.VeryHigh {
		return fmt.Errorf("complexity bucket thresholds must be in ascending order")
	}

	bh := c.Effort.BaseHours
	if bh.Low > bh.Medium || bh.Medium > bh.High || bh.High > bh.VeryHigh {
		return fmt.Errorf("effort base hours must be in ascending order")
	}

	bd := c.Effort.Breakdown
	sum := bd.Analysis + bd.Conversion + bd.Testing + bd.Validation + bd.Documentation
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("effort breakdown proportions must sum to 1.0, got %v", sum)
	}

	// Validate output format
	validFormats := []string{"console", "json"}
	formatValid := false
	for _, format := range validFormats {
		if c.Output.Format == format {
			formatValid = true
			break
		}
	}
	if !formatValid {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}
