package validate

import (
	"fmt"
	"log/slog"

	"github.com/loda-lang/formula-analyzer/internal/denylist"
	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/loda-lang/formula-analyzer/internal/extract"
	"github.com/loda-lang/formula-analyzer/internal/metrics"
	"github.com/loda-lang/formula-analyzer/internal/parser"
	"github.com/loda-lang/formula-analyzer/internal/seqdata"
)

// Prepare parses extracted candidates. Denylisted candidates are not parsed;
// Run reports them as skipped.
func Prepare(candidates []extract.Candidate, p *parser.Parser, deny *denylist.Denylist) []domain.Formula {
	if p == nil {
		p = parser.New(nil)
	}

	formulas := make([]domain.Formula, 0, len(candidates))
	for _, c := range candidates {
		if deny != nil && deny.Contains(c.Source, c.SequenceID) {
			formulas = append(formulas, domain.Formula{
				SequenceID: c.SequenceID,
				Source:     c.Source,
				RawText:    c.Text,
				Expression: parser.Sanitize(c.Text),
			})
			continue
		}

		f := p.ParseFormula(c.SequenceID, c.Source, c.Text)
		metrics.ObserveParse(string(c.Source), f.ParseErr)
		if f.ParseErr != nil {
			slog.Debug("Formula not parsed", "sequence", c.SequenceID, "source", c.Source, "line", c.Line, "error", f.ParseErr)
		}
		formulas = append(formulas, f)
	}
	return formulas
}

type TablePaths struct {
	Offsets  string
	Stripped string
	// Denylist is optional; the embedded list is used when empty.
	Denylist string
}

// LoadTables reads the lookup tables once, before any evaluation starts.
// A missing offsets or stripped file is an error.
func LoadTables(paths TablePaths, opts seqdata.TermOptions) (Tables, error) {
	offsets, err := seqdata.LoadOffsetsFile(paths.Offsets)
	if err != nil {
		return Tables{}, fmt.Errorf("load offsets: %w", err)
	}
	terms, err := seqdata.LoadTermsFile(paths.Stripped, opts)
	if err != nil {
		return Tables{}, fmt.Errorf("load terms: %w", err)
	}

	var deny *denylist.Denylist
	if paths.Denylist != "" {
		deny, err = denylist.LoadFromFile(paths.Denylist)
	} else {
		deny, err = denylist.Default()
	}
	if err != nil {
		return Tables{}, fmt.Errorf("load denylist: %w", err)
	}

	return Tables{Offsets: offsets, Terms: terms, Denylist: deny}, nil
}

// CandidateIDs collects the sequence ids referenced by candidates, for
// restricting which term lines are kept in memory.
func CandidateIDs(candidates []extract.Candidate) map[string]struct{} {
	ids := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		ids[c.SequenceID] = struct{}{}
	}
	return ids
}
