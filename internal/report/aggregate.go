package report

import (
	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/loda-lang/formula-analyzer/internal/validate"
)

var skipOrder = []domain.SkipReason{
	domain.SkipDenylisted,
	domain.SkipUnparsed,
	domain.SkipNoOffset,
	domain.SkipNoTerms,
}

func Generate(res *validate.Result) *Report {
	r := &Report{
		Meta: Meta{
			RunID:       res.RunID,
			Timestamp:   res.StartedAt,
			Duration:    res.Duration,
			Config:      res.Config,
			Environment: NewEnvironmentInfo(),
		},
		Passed:  res.Passed(),
		Totals:  res.Totals,
		Latency: res.Latency,
	}

	r.Sources = aggregateSources(res)

	for _, reason := range skipOrder {
		if n := res.Totals.Skipped[reason]; n > 0 {
			r.Skipped = append(r.Skipped, SkipEntry{Reason: reason, Count: n})
		}
	}

	for _, o := range res.Mismatched() {
		r.Mismatched = append(r.Mismatched, MismatchEntry{
			SequenceID:   o.Formula.SequenceID,
			Source:       o.Formula.Source,
			Expression:   o.Formula.Expression,
			Offset:       o.Offset,
			Checked:      o.Checked,
			Mismatches:   o.Mismatches,
			FirstFailure: o.FirstFailure,
			Failures:     o.Failures,
		})
	}

	return r
}

func aggregateSources(res *validate.Result) []SourceEntry {
	bySource := make(map[domain.Source]*SourceEntry, len(domain.Sources))
	entries := make([]SourceEntry, len(domain.Sources))
	for i, s := range domain.Sources {
		entries[i].Source = s
		bySource[s] = &entries[i]
	}

	for _, o := range res.Outcomes {
		e, ok := bySource[o.Formula.Source]
		if !ok {
			continue
		}
		e.Formulas++
		if o.Formula.IsParsed() {
			e.Parsed++
		}
		if o.IsChecked() {
			e.Checked++
		}
		if o.State == domain.StateMismatched {
			e.Mismatched++
		}
	}
	return entries
}
