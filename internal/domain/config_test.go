package domain

import (
	"errors"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"negative weight", func(c *Config) { c.Heuristic.EmptinessWeight = -0.1 }},
		{"weights above one", func(c *Config) { c.Heuristic.MonotonicityWeight = 0.7 }},
		{"zero degree", func(c *Config) { c.Heuristic.Degree = 0 }},
		{"victory not power of two", func(c *Config) { c.Heuristic.VictoryTile = 1000 }},
		{"bad shaping", func(c *Config) { c.Heuristic.Shaping.HighestTile = Shaping{Kind: ShapeSigmoid} }},
		{"zero depth", func(c *Config) { c.Search.MaxDepth = 0 }},
		{"zero size threshold", func(c *Config) { c.Search.SizeThreshold = 0 }},
		{"threshold one", func(c *Config) { c.Search.PathProbThreshold = 1 }},
		{"zero prior", func(c *Config) { c.Estimator.A = 0 }},
		{"inverted bounds", func(c *Config) { c.Estimator.Min, c.Estimator.Max = 0.9, 0.1 }},
		{"bound at one", func(c *Config) { c.Estimator.Max = 1 }},
		{"zero history", func(c *Config) { c.HistoryCapacity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
