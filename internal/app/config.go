package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	KhafilePath string // khafile.hcl or a directory containing one

	Workers   int
	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.KhafilePath == "" {
		return nil, errors.New("KhafilePath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 0 {
		return nil, errors.New("Workers cannot be negative")
	}
	return &cfg, nil
}
