// Package validate checks parsed formulas against known sequence terms.
package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/loda-lang/formula-analyzer/internal/denylist"
	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/loda-lang/formula-analyzer/internal/eval"
	"github.com/loda-lang/formula-analyzer/internal/metrics"
	"github.com/loda-lang/formula-analyzer/internal/seqdata"
	"golang.org/x/sync/errgroup"
)

// Tables are the read-only lookups shared by all workers.
type Tables struct {
	Offsets  *seqdata.OffsetTable
	Terms    *seqdata.TermTable
	Denylist *denylist.Denylist
}

type Runner struct {
	config    Config
	evaluator *eval.Evaluator
}

func New(cfg Config, evaluator *eval.Evaluator) *Runner {
	if evaluator == nil {
		evaluator = eval.New(nil)
	}
	return &Runner{config: cfg.withDefaults(), evaluator: evaluator}
}

// Run validates every formula. Outcomes keep the order of formulas and the
// totals are folded after all workers finish.
func (r *Runner) Run(ctx context.Context, formulas []domain.Formula, tables Tables) (*Result, error) {
	if tables.Offsets == nil || tables.Terms == nil {
		return nil, errors.New("offset and term tables are required")
	}

	res := &Result{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
		Config:    r.config,
	}
	slog.Info("Validation started", "run_id", res.RunID, "formulas", len(formulas), "workers", r.config.Workers)

	outcomes := make([]Outcome, len(formulas))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)
	for i := range formulas {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.Check(formulas[i], tables)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("validation interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("validation interrupted: %w", err)
	}

	res.Outcomes = outcomes
	res.Totals = fold(outcomes)
	res.Duration = time.Since(res.StartedAt)

	var samples []time.Duration
	for _, o := range outcomes {
		if o.IsChecked() {
			samples = append(samples, o.Elapsed)
		}
	}
	res.Latency = ComputeLatencyStats(samples)

	slog.Info("Validation finished",
		"run_id", res.RunID,
		"checked", res.Totals.Checked,
		"comparisons", res.Totals.Comparisons,
		"mismatches", res.Totals.Mismatches,
		"duration", res.Duration,
	)
	if !res.Passed() {
		slog.Warn("Formulas disagree with known terms",
			"formulas", res.Totals.MismatchedFormulas,
			"sequences", res.Totals.MismatchedSequences,
		)
	}
	return res, nil
}

// Check validates a single formula. The denylist is consulted first, then
// the parse state, then the availability of an offset and of terms.
func (r *Runner) Check(f domain.Formula, tables Tables) Outcome {
	o := r.check(f, tables)
	metrics.ObserveValidation(string(f.Source), string(o.State), o.Checked-o.Mismatches, o.Mismatches, o.Elapsed)
	return o
}

func (r *Runner) check(f domain.Formula, tables Tables) Outcome {
	o := Outcome{Formula: f, FirstFailure: -1}

	if tables.Denylist != nil && tables.Denylist.Contains(f.Source, f.SequenceID) {
		return o.skip(domain.SkipDenylisted)
	}
	if !f.IsParsed() {
		return o.skip(domain.SkipUnparsed)
	}
	offset, ok := tables.Offsets.Get(f.SequenceID)
	if !ok {
		return o.skip(domain.SkipNoOffset)
	}
	terms, ok := tables.Terms.Get(f.SequenceID)
	if !ok || terms.Len() == 0 {
		return o.skip(domain.SkipNoTerms)
	}

	o.Offset = offset.Primary
	limit := terms.Len()
	if r.config.MaxIndices > 0 {
		limit = min(limit, r.config.MaxIndices)
	}

	start := time.Now()
	for idx := 0; idx < limit; idx++ {
		o.compare(r.evaluator, idx, terms.Terms[idx])
	}
	o.Elapsed = time.Since(start)

	o.State = domain.StateValidated
	if o.Mismatches > 0 {
		o.State = domain.StateMismatched
		slog.Debug("Formula mismatch",
			"sequence", f.SequenceID,
			"source", f.Source,
			"expression", f.Expression,
			"mismatches", o.Mismatches,
			"first_failure", o.FirstFailure,
		)
	}
	return o
}

func (o Outcome) skip(reason domain.SkipReason) Outcome {
	o.State = domain.StateSkipped
	o.SkipReason = reason
	return o
}

// compare evaluates the formula at n = offset + idx. An evaluation error is
// a mismatch at idx and does not stop the remaining indices.
func (o *Outcome) compare(evaluator *eval.Evaluator, idx int, expected *big.Int) {
	n := o.Offset + int64(idx)
	o.Checked++

	got, err := evaluator.EvaluateInt(o.Formula.Parsed, big.NewInt(n))
	if err == nil && got.Cmp(expected) == 0 {
		return
	}

	o.Mismatches++
	if o.FirstFailure < 0 {
		o.FirstFailure = idx
	}

	fail := Failure{Index: idx, N: n, Kind: FailureValue, Expected: expected.String()}
	if err != nil {
		fail.Kind = failureKindOf(err)
		fail.Error = err.Error()
		if fail.Kind == FailureNonIntegral {
			o.NonIntegral++
		}
	} else {
		fail.Got = got.String()
	}
	if len(o.Failures) < maxRecordedFailures {
		o.Failures = append(o.Failures, fail)
	}
}
