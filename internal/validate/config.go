package validate

import "runtime"

type Config struct {
	// Workers bounds the number of formulas evaluated concurrently.
	Workers int `json:"workers"`
	// MaxIndices caps the number of terms checked per formula; 0 checks all.
	MaxIndices int `json:"max_indices"`
}

func DefaultConfig() Config {
	return Config{
		Workers:    runtime.NumCPU(),
		MaxIndices: 0,
	}
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaxIndices < 0 {
		c.MaxIndices = 0
	}
	return c
}
