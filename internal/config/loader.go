// Package config loads and validates run configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir  = "data"
	DefaultOffsets  = "offsets"
	DefaultStripped = "stripped"
	DefaultLODA     = "formulas-loda.txt"
	DefaultOEIS     = "formulas-oeis.txt"
	DefaultSink     = "none"
)

var structValidate = validator.New()

func Default() *RunConfig {
	c := &RunConfig{}
	applyDefaults(c)
	return c
}

func LoadFromFile(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*RunConfig, error) {
	var c RunConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate fills unset fields with defaults and checks the result.
func Validate(c *RunConfig) error {
	applyDefaults(c)
	if err := structValidate.Struct(c); err != nil {
		return apperr.NewValidationWrap("invalid run config", describe(err))
	}
	return nil
}

func applyDefaults(c *RunConfig) {
	setDefault(&c.Data.Dir, DefaultDataDir)
	setDefault(&c.Data.Offsets, DefaultOffsets)
	setDefault(&c.Data.Stripped, DefaultStripped)
	setDefault(&c.Data.LODA, DefaultLODA)
	setDefault(&c.Data.OEIS, DefaultOEIS)
	setDefault(&c.Sink.Type, DefaultSink)

	if c.Validation.Workers == 0 {
		c.Validation.Workers = runtime.NumCPU()
	}
	if len(c.Validation.Sources) == 0 {
		c.Validation.Sources = []string{"loda", "oeis"}
	}
	for i, s := range c.Validation.Sources {
		c.Validation.Sources[i] = strings.ToLower(strings.TrimSpace(s))
	}
}

func setDefault(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}

// describe flattens validator output into "field: rule" pairs.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), rule))
	}
	return errors.New(strings.Join(parts, "; "))
}
