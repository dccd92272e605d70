package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"file", func(c *Config) { c.File = "r.0.0.mca" }, false},
		{"directory", func(c *Config) { c.Directory = "world" }, false},
		{"nothing to prune", func(c *Config) {}, true},
		{"file and directory", func(c *Config) { c.File, c.Directory = "r.0.0.mca", "world" }, true},
		{"no workers", func(c *Config) { c.Directory, c.Workers = "world", 0 }, true},
		{"negative depth", func(c *Config) { c.Directory, c.MaxDepth = "world", -1 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Positive(t, cfg.Workers)
	assert.False(t, cfg.DryRun)
}
