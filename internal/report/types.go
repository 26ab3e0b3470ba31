package report

import (
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/loda-lang/formula-analyzer/internal/validate"
)

type Report struct {
	Meta       Meta                  `json:"meta"`
	Passed     bool                  `json:"passed"`
	Sources    []SourceEntry         `json:"sources"`
	Skipped    []SkipEntry           `json:"skipped"`
	Totals     validate.Totals       `json:"totals"`
	Latency    validate.LatencyStats `json:"latency"`
	Mismatched []MismatchEntry       `json:"mismatched"`
}

type Meta struct {
	RunID       uuid.UUID       `json:"run_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Duration    time.Duration   `json:"duration"`
	Config      validate.Config `json:"config"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type SourceEntry struct {
	Source     domain.Source `json:"source"`
	Formulas   int           `json:"formulas"`
	Parsed     int           `json:"parsed"`
	Checked    int           `json:"checked"`
	Mismatched int           `json:"mismatched"`
}

type SkipEntry struct {
	Reason domain.SkipReason `json:"reason"`
	Count  int               `json:"count"`
}

type MismatchEntry struct {
	SequenceID   string             `json:"sequence_id" yaml:"sequence_id"`
	Source       domain.Source      `json:"source" yaml:"source"`
	Expression   string             `json:"expression" yaml:"expression"`
	Offset       int64              `json:"offset" yaml:"offset"`
	Checked      int                `json:"checked" yaml:"checked"`
	Mismatches   int                `json:"mismatches" yaml:"mismatches"`
	FirstFailure int                `json:"first_failure" yaml:"first_failure"`
	Failures     []validate.Failure `json:"failures" yaml:"failures"`
}
