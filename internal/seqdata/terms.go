package seqdata

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/loda-lang/formula-analyzer/internal/domain"
)

type TermOptions struct {
	// MaxTerms keeps only the first MaxTerms terms of each sequence; 0 keeps all.
	MaxTerms int
	// Only restricts loading to these ids when non-empty.
	Only map[string]struct{}
}

type TermTable struct {
	records map[string]domain.SequenceTerms
	stats   LoadStats
}

func (t *TermTable) Get(sequenceID string) (domain.SequenceTerms, bool) {
	r, ok := t.records[sequenceID]
	return r, ok
}

func (t *TermTable) Len() int {
	return len(t.records)
}

func (t *TermTable) Stats() LoadStats {
	return t.stats
}

func NewTermTable(records ...domain.SequenceTerms) *TermTable {
	t := &TermTable{records: make(map[string]domain.SequenceTerms, len(records))}
	for _, r := range records {
		if _, dup := t.records[r.SequenceID]; dup {
			t.stats.Duplicates++
		}
		t.records[r.SequenceID] = r
		t.stats.Records++
	}
	return t
}

func LoadTermsFile(path string, opts TermOptions) (*TermTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open terms file: %w", err)
	}
	defer f.Close()

	t, err := LoadTerms(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load terms from %s: %w", path, err)
	}
	slog.Info("Terms loaded", "path", path, "records", t.Len(), "skipped", t.stats.Skipped, "duplicates", t.stats.Duplicates)
	return t, nil
}

// LoadTerms reads `SEQID ,t0,t1,...` lines. A line with a non-integer term
// among the first MaxTerms is skipped whole so that no sequence is validated
// against a partial prefix; tokens past MaxTerms are never parsed.
func LoadTerms(r io.Reader, opts TermOptions) (*TermTable, error) {
	t := &TermTable{records: make(map[string]domain.SequenceTerms)}

	err := scanLines(r, func(lineNo int, line string) {
		t.stats.Lines++
		if isBlankOrComment(line) {
			return
		}

		id, rest, err := splitTermLine(lineNo, line)
		if err != nil {
			t.stats.Skipped++
			slog.Debug("skipping malformed terms line", "error", err)
			return
		}
		if len(opts.Only) > 0 {
			if _, wanted := opts.Only[id]; !wanted {
				return
			}
		}

		terms, err := parseTerms(lineNo, rest, opts.MaxTerms)
		if err != nil {
			t.stats.Skipped++
			slog.Debug("skipping malformed terms line", "seq", id, "error", err)
			return
		}

		if _, dup := t.records[id]; dup {
			t.stats.Duplicates++
		}
		t.records[id] = domain.SequenceTerms{SequenceID: id, Terms: terms}
		t.stats.Records++
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func splitTermLine(lineNo int, line string) (string, string, error) {
	line = strings.TrimSpace(line)
	id, rest, ok := strings.Cut(line, ",")
	if !ok {
		return "", "", apperr.New(apperr.MalformedLine, lineNo, "missing ','")
	}
	id = strings.TrimSpace(id)
	if !domain.IsSequenceID(id) {
		return "", "", apperr.New(apperr.MalformedLine, lineNo, "invalid sequence id %q", id)
	}
	return id, rest, nil
}

func parseTerms(lineNo int, s string, limit int) ([]*big.Int, error) {
	parts := strings.Split(s, ",")
	terms := make([]*big.Int, 0, len(parts))
	for _, p := range parts {
		if limit > 0 && len(terms) == limit {
			break
		}
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, ok := new(big.Int).SetString(p, 10)
		if !ok {
			return nil, apperr.New(apperr.MalformedLine, lineNo, "invalid term %q", p)
		}
		terms = append(terms, v)
	}
	if len(terms) == 0 {
		return nil, apperr.New(apperr.MalformedLine, lineNo, "no terms")
	}
	return terms, nil
}
