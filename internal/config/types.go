package config

import (
	"path/filepath"

	"github.com/loda-lang/formula-analyzer/internal/domain"
)

// RunConfig drives one validation run.
type RunConfig struct {
	Data       DataConfig       `yaml:"data"`
	Denylist   string           `yaml:"denylist,omitempty"`
	Validation ValidationConfig `yaml:"validation"`
	Output     OutputConfig     `yaml:"output"`
	Sink       SinkConfig       `yaml:"sink"`
}

// DataConfig names the input files. Relative file names resolve against Dir.
type DataConfig struct {
	Dir      string `yaml:"dir" validate:"required"`
	Offsets  string `yaml:"offsets" validate:"required"`
	Stripped string `yaml:"stripped" validate:"required"`
	LODA     string `yaml:"loda" validate:"required"`
	OEIS     string `yaml:"oeis" validate:"required"`
}

type ValidationConfig struct {
	Workers    int      `yaml:"workers" validate:"gte=0,lte=1024"`
	MaxTerms   int      `yaml:"max_terms" validate:"gte=0"`
	MaxIndices int      `yaml:"max_indices" validate:"gte=0"`
	Sources    []string `yaml:"sources" validate:"min=1,unique,dive,oneof=loda oeis"`
}

type OutputConfig struct {
	JSON       string `yaml:"json,omitempty"`
	Mismatches string `yaml:"mismatches,omitempty"`
}

type SinkConfig struct {
	Type string `yaml:"type" validate:"oneof=none pg es in_mem"`
}

func (d DataConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

func (d DataConfig) OffsetsPath() string  { return d.resolve(d.Offsets) }
func (d DataConfig) StrippedPath() string { return d.resolve(d.Stripped) }

func (d DataConfig) FormulasPath(source domain.Source) string {
	if source == domain.SourceOEIS {
		return d.resolve(d.OEIS)
	}
	return d.resolve(d.LODA)
}

// SourceList returns the configured sources in canonical order.
func (v ValidationConfig) SourceList() []domain.Source {
	var out []domain.Source
	for _, s := range domain.Sources {
		for _, name := range v.Sources {
			if name == string(s) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
