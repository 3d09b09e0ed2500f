package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ArchetypePath string // directory or .zip archive
	OutputDir     string

	Properties map[string]string // batch name/value pairs
	Batch      bool              // never prompt
	OnMissing  string            // substitution policy: fail | empty | keep

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ArchetypePath == "" {
		return nil, errors.New("ArchetypePath is a required configuration field and cannot be empty")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	switch cfg.OnMissing {
	case "", "fail", "empty", "keep":
		// valid
	default:
		return nil, fmt.Errorf("invalid on-missing policy %q: must be 'fail', 'empty' or 'keep'", cfg.OnMissing)
	}

	return &cfg, nil
}
