package validate

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/loda-lang/formula-analyzer/internal/domain"
)

// maxRecordedFailures bounds Outcome.Failures; Mismatches still counts every index.
const maxRecordedFailures = 10

type FailureKind string

const (
	FailureValue          FailureKind = "value"
	FailureNonIntegral    FailureKind = "non_integral"
	FailureDivisionByZero FailureKind = "division_by_zero"
	FailureExponent       FailureKind = "invalid_exponent"
	FailureArgument       FailureKind = "invalid_argument"
	FailureUnsupported    FailureKind = "unsupported"
)

func failureKindOf(err error) FailureKind {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return FailureUnsupported
	}
	switch e.Code {
	case apperr.NonIntegralResult:
		return FailureNonIntegral
	case apperr.DivisionByZero:
		return FailureDivisionByZero
	case apperr.NegativeExponent, apperr.NonIntegerExponent:
		return FailureExponent
	case apperr.NonIntegralArgument:
		return FailureArgument
	default:
		return FailureUnsupported
	}
}

// Failure describes one index where the formula disagreed with the terms.
type Failure struct {
	Index    int         `json:"index" yaml:"index"`
	N        int64       `json:"n" yaml:"n"`
	Kind     FailureKind `json:"kind" yaml:"kind"`
	Expected string      `json:"expected" yaml:"expected"`
	Got      string      `json:"got,omitempty" yaml:"got,omitempty"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`
}

type Outcome struct {
	Formula      domain.Formula    `json:"formula"`
	State        domain.State      `json:"state"`
	SkipReason   domain.SkipReason `json:"skip_reason,omitempty"`
	Offset       int64             `json:"offset"`
	Checked      int               `json:"checked"`
	Mismatches   int               `json:"mismatches"`
	NonIntegral  int               `json:"non_integral"`
	FirstFailure int               `json:"first_failure"`
	Failures     []Failure         `json:"failures,omitempty"`
	Elapsed      time.Duration     `json:"elapsed"`
}

func (o Outcome) IsChecked() bool {
	return o.State == domain.StateValidated || o.State == domain.StateMismatched
}

// Totals are the run-wide counters.
type Totals struct {
	Formulas            int                       `json:"formulas"`
	Parsed              map[domain.Source]int     `json:"parsed"`
	Checked             int                       `json:"checked"`
	CheckedBySource     map[domain.Source]int     `json:"checked_by_source"`
	Validated           int                       `json:"validated"`
	Comparisons         int                       `json:"comparisons"`
	Mismatches          int                       `json:"mismatches"`
	MismatchedFormulas  int                       `json:"mismatched_formulas"`
	MismatchedSequences int                       `json:"mismatched_sequences"`
	NonIntegral         int                       `json:"non_integral"`
	Skipped             map[domain.SkipReason]int `json:"skipped"`
}

func (t Totals) ParsedTotal() int {
	total := 0
	for _, n := range t.Parsed {
		total += n
	}
	return total
}

func (t Totals) SkippedTotal() int {
	total := 0
	for _, n := range t.Skipped {
		total += n
	}
	return total
}

// fold accumulates outcomes in slice order.
func fold(outcomes []Outcome) Totals {
	t := Totals{
		Formulas:        len(outcomes),
		Parsed:          make(map[domain.Source]int),
		CheckedBySource: make(map[domain.Source]int),
		Skipped:         make(map[domain.SkipReason]int),
	}
	mismatchedSeqs := make(map[string]struct{})

	for _, o := range outcomes {
		if o.Formula.IsParsed() {
			t.Parsed[o.Formula.Source]++
		}
		switch o.State {
		case domain.StateSkipped:
			t.Skipped[o.SkipReason]++
			continue
		case domain.StateValidated:
			t.Validated++
		case domain.StateMismatched:
			t.MismatchedFormulas++
			mismatchedSeqs[o.Formula.SequenceID] = struct{}{}
		}
		t.Checked++
		t.CheckedBySource[o.Formula.Source]++
		t.Comparisons += o.Checked
		t.Mismatches += o.Mismatches
		t.NonIntegral += o.NonIntegral
	}
	t.MismatchedSequences = len(mismatchedSeqs)
	return t
}

type Result struct {
	RunID     uuid.UUID     `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Config    Config        `json:"config"`
	Outcomes  []Outcome     `json:"-"`
	Totals    Totals        `json:"totals"`
	Latency   LatencyStats  `json:"latency"`
}

// Passed reports whether the run met the zero-mismatch acceptance criterion.
func (r *Result) Passed() bool {
	return r.Totals.Mismatches == 0
}

// Mismatched returns the mismatched outcomes ordered by sequence id.
func (r *Result) Mismatched() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.State == domain.StateMismatched {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Formula.SequenceID < out[j].Formula.SequenceID
	})
	return out
}

// Records converts outcomes to the persisted form, one record per formula.
func (r *Result) Records() []domain.ValidationRecord {
	records := make([]domain.ValidationRecord, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		rec := domain.ValidationRecord{
			ID:         uuid.New(),
			RunID:      r.RunID,
			SequenceID: o.Formula.SequenceID,
			Source:     o.Formula.Source,
			Expression: o.Formula.Expression,
			State:      o.State,
			SkipReason: o.SkipReason,
			Offset:     o.Offset,
			Checked:    o.Checked,
			Mismatches: o.Mismatches,
			CreatedAt:  r.StartedAt,
		}
		if o.FirstFailure >= 0 {
			first := o.FirstFailure
			rec.FirstFailure = &first
		}
		records = append(records, rec)
	}
	return records
}
