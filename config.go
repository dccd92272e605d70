package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/OvercastCommunity/AutoPruner/log"
)

// DefaultMaxDepth bounds how many directory levels a directory prune descends.
const DefaultMaxDepth = 30

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of a prune run.
type Config struct {
	// Exactly one of File and Directory is set.
	File      string
	Directory string

	Workers  int
	MaxDepth int
	DryRun   bool
	LogLevel log.Level

	// TouchTimestamps rewrites every slot timestamp of a rewritten file to the save time.
	TouchTimestamps bool
}

func NewDefaultConfig() *Config {
	return &Config{
		Workers:  runtime.NumCPU(),
		MaxDepth: DefaultMaxDepth,
		LogLevel: log.LevelInfo,
	}
}

func (c *Config) Validate() error {
	if c.File == "" && c.Directory == "" {
		return fmt.Errorf("%w: either a file or a directory is required", ErrInvalidConfig)
	}

	if c.File != "" && c.Directory != "" {
		return fmt.Errorf("%w: a file and a directory cannot both be pruned in one run", ErrInvalidConfig)
	}

	if c.Workers <= 0 {
		return fmt.Errorf("%w: worker count must be positive", ErrInvalidConfig)
	}

	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative", ErrInvalidConfig)
	}

	return nil
}
