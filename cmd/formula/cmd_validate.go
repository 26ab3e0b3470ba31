package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/loda-lang/formula-analyzer/internal/config"
	"github.com/loda-lang/formula-analyzer/internal/denylist"
	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/loda-lang/formula-analyzer/internal/extract"
	"github.com/loda-lang/formula-analyzer/internal/parser"
	"github.com/loda-lang/formula-analyzer/internal/report"
	"github.com/loda-lang/formula-analyzer/internal/seqdata"
	"github.com/loda-lang/formula-analyzer/internal/storage"
	"github.com/loda-lang/formula-analyzer/internal/storage/factory"
	"github.com/loda-lang/formula-analyzer/internal/validate"
	"github.com/spf13/cobra"
)

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := validateRun(ctx, cfg)
	if err != nil {
		return err
	}

	r := report.Generate(res)
	if err := writeReport(r, cfg.Output, cmd.OutOrStdout()); err != nil {
		return err
	}
	if err := storeResult(ctx, cfg, res); err != nil {
		slog.Warn("Failed to store validation results", "error", err)
	}

	if !r.Passed {
		return errMismatches
	}
	return nil
}

// validateRun extracts candidates from every configured source, parses them
// and checks them against the sequence tables.
func validateRun(ctx context.Context, cfg *config.RunConfig) (*validate.Result, error) {
	var candidates []extract.Candidate
	for _, source := range cfg.Validation.SourceList() {
		c, _, err := extract.ScanFile(cfg.Data.FormulasPath(source), source)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c...)
	}

	tables, err := validate.LoadTables(validate.TablePaths{
		Offsets:  cfg.Data.OffsetsPath(),
		Stripped: cfg.Data.StrippedPath(),
		Denylist: cfg.Denylist,
	}, seqdata.TermOptions{
		MaxTerms: cfg.Validation.MaxTerms,
		Only:     validate.CandidateIDs(candidates),
	})
	if err != nil {
		return nil, err
	}
	logDenylist(tables.Denylist)

	formulas := validate.Prepare(candidates, parser.New(nil), tables.Denylist)
	runner := validate.New(validate.Config{
		Workers:    cfg.Validation.Workers,
		MaxIndices: cfg.Validation.MaxIndices,
	}, nil)
	return runner.Run(ctx, formulas, tables)
}

func logDenylist(d *denylist.Denylist) {
	if d == nil {
		return
	}
	slog.Info("Denylist loaded", "oeis", d.Len(domain.SourceOEIS), "loda", d.Len(domain.SourceLODA))
}

func writeReport(r *report.Report, out config.OutputConfig, w io.Writer) error {
	report.WriteTable(r, w)
	if out.JSON != "" {
		if err := report.WriteJSON(r, out.JSON); err != nil {
			return err
		}
		slog.Info("JSON report written", "path", out.JSON)
	}
	if out.Mismatches != "" && !r.Passed {
		if err := report.WriteMismatches(r, out.Mismatches); err != nil {
			return err
		}
		slog.Info("Mismatches written", "path", out.Mismatches)
	}
	report.Verdict(r, w)
	return nil
}

func storeResult(ctx context.Context, cfg *config.RunConfig, res *validate.Result) error {
	sinkCfg, err := factory.LoadEnv(storage.Type(cfg.Sink.Type))
	if err != nil {
		return err
	}
	sink, err := factory.NewSink(ctx, sinkCfg)
	if err != nil {
		return err
	}
	if sink == nil {
		return nil
	}
	defer sink.Close()

	records := res.Records()
	if err := sink.SaveBulk(ctx, records); err != nil {
		return fmt.Errorf("save %d records: %w", len(records), err)
	}
	slog.Info("Validation results stored", "sink", sinkCfg.Type, "records", len(records), "run_id", res.RunID)
	return nil
}
