// Package config loads the analysis configuration from YAML. Every field
// has a code default, so a missing or partial file still yields a working
// configuration; out-of-range values are clamped or rejected at load time
// so the analysis core never sees malformed settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soportebi/faro/pkg/faro/internalerr"
	"github.com/soportebi/faro/pkg/faro/keywords"
	"github.com/soportebi/faro/pkg/faro/rules"
)

// CategoryRule is one ordered entry of the predefined category table.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CausesConfig tunes the cause-simplification pipeline.
type CausesConfig struct {
	MaxCategories       int            `yaml:"max_categories"`
	SimilarityThreshold float64        `yaml:"similarity_threshold"`
	Stopwords           []string       `yaml:"stopwords"`
	Categories          []CategoryRule `yaml:"categories"`
}

// AdvisorsConfig tunes the advisor analysis.
type AdvisorsConfig struct {
	TargetResolutionRate  float64 `yaml:"target_resolution_rate"`
	EscalationThreshold   float64 `yaml:"escalation_threshold"`
	PerformanceWindowDays int     `yaml:"performance_window_days"`
}

// Config is the full analysis configuration.
type Config struct {
	Causes   CausesConfig   `yaml:"causes"`
	Advisors AdvisorsConfig `yaml:"advisors"`
}

// Default returns the built-in configuration: 15 categories max,
// 0.75 similarity threshold, the default stop-word list and the default
// telco category table.
func Default() Config {
	var cats []CategoryRule
	for _, c := range rules.DefaultTable() {
		cats = append(cats, CategoryRule{Name: c.Name, Keywords: c.Keywords})
	}
	return Config{
		Causes: CausesConfig{
			MaxCategories:       15,
			SimilarityThreshold: 0.75,
			Stopwords:           keywords.DefaultStopwords(),
			Categories:          cats,
		},
		Advisors: AdvisorsConfig{
			TargetResolutionRate:  0.75,
			EscalationThreshold:   0.25,
			PerformanceWindowDays: 30,
		},
	}
}

// Load reads a YAML configuration file. Fields absent from the file keep
// their defaults. A similarity threshold outside [0,1] is clamped; a
// max_categories below 2 is rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate clamps or rejects out-of-range values in place.
func (c *Config) Validate() error {
	if c.Causes.MaxCategories < 2 {
		return fmt.Errorf("%w: causes.max_categories must be at least 2, got %d",
			internalerr.ErrInvalidConfig, c.Causes.MaxCategories)
	}
	if c.Causes.SimilarityThreshold < 0 {
		c.Causes.SimilarityThreshold = 0
	}
	if c.Causes.SimilarityThreshold > 1 {
		c.Causes.SimilarityThreshold = 1
	}
	if c.Advisors.PerformanceWindowDays <= 0 {
		c.Advisors.PerformanceWindowDays = 30
	}
	return nil
}

// Table converts the configured category rules into a classifier table,
// preserving order.
func (c Config) Table() rules.Table {
	t := make(rules.Table, len(c.Causes.Categories))
	for i, cat := range c.Causes.Categories {
		t[i] = rules.Category{Name: cat.Name, Keywords: cat.Keywords}
	}
	return t
}
