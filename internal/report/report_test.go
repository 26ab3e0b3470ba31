package report

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/loda-lang/formula-analyzer/internal/parser"
	"github.com/loda-lang/formula-analyzer/internal/seqdata"
	"github.com/loda-lang/formula-analyzer/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFixture(t *testing.T) *validate.Result {
	t.Helper()
	p := parser.New(nil)
	formulas := []domain.Formula{
		p.ParseFormula("A000290", domain.SourceLODA, "n^2"),
		p.ParseFormula("A000290", domain.SourceOEIS, "n^2+1"),
		p.ParseFormula("A000027", domain.SourceOEIS, "n/2"),
		p.ParseFormula("A000045", domain.SourceLODA, "fibonacci(n)"),
	}

	squares := domain.SequenceTerms{SequenceID: "A000290"}
	naturals := domain.SequenceTerms{SequenceID: "A000027"}
	for i := int64(0); i < 4; i++ {
		squares.Terms = append(squares.Terms, big.NewInt(i*i))
		naturals.Terms = append(naturals.Terms, big.NewInt(i+1))
	}
	tables := validate.Tables{
		Offsets: seqdata.NewOffsetTable(
			domain.OffsetRecord{SequenceID: "A000290"},
			domain.OffsetRecord{SequenceID: "A000027", Primary: 1},
		),
		Terms: seqdata.NewTermTable(squares, naturals),
	}

	res, err := validate.New(validate.Config{Workers: 2}, nil).Run(context.Background(), formulas, tables)
	require.NoError(t, err)
	return res
}

func TestGenerate(t *testing.T) {
	r := Generate(runFixture(t))

	assert.False(t, r.Passed)
	assert.Equal(t, []SourceEntry{
		{Source: domain.SourceLODA, Formulas: 2, Parsed: 1, Checked: 1, Mismatched: 0},
		{Source: domain.SourceOEIS, Formulas: 2, Parsed: 2, Checked: 2, Mismatched: 2},
	}, r.Sources)
	assert.Equal(t, []SkipEntry{{Reason: domain.SkipUnparsed, Count: 1}}, r.Skipped)

	require.Len(t, r.Mismatched, 2)
	assert.Equal(t, "A000027", r.Mismatched[0].SequenceID)
	assert.Equal(t, "A000290", r.Mismatched[1].SequenceID)
	assert.Equal(t, 4, r.Mismatched[1].Mismatches)
	assert.Equal(t, 0, r.Mismatched[1].FirstFailure)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(Generate(runFixture(t)), &buf)

	out := buf.String()
	assert.Contains(t, out, "Formula Validation")
	assert.Contains(t, out, "Mismatched formulas")
	assert.Contains(t, out, "unparsed")
	assert.Contains(t, out, "n^2+1")
	assert.Contains(t, out, "non_integral")
}

func TestWriteJSON(t *testing.T) {
	r := Generate(runFixture(t))
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(r, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["passed"])
	assert.Contains(t, decoded, "totals")
	assert.Contains(t, decoded, "mismatched")
}

func TestWriteMismatches(t *testing.T) {
	r := Generate(runFixture(t))
	path := filepath.Join(t.TempDir(), "mismatches.yaml")
	require.NoError(t, WriteMismatches(r, path))

	mf, err := ReadMismatches(path)
	require.NoError(t, err)
	assert.Equal(t, r.Meta.RunID.String(), mf.RunID)
	require.Len(t, mf.Mismatches, 2)
	assert.Equal(t, "n/2", mf.Mismatches[0].Expression)
	assert.NotEmpty(t, mf.Mismatches[0].Failures)

	oeis, loda := DenylistCandidates(mf.Mismatches)
	assert.Equal(t, []string{"A000027", "A000290"}, oeis)
	assert.Empty(t, loda)
}

func TestVerdict(t *testing.T) {
	var buf bytes.Buffer
	Verdict(Generate(runFixture(t)), &buf)
	assert.Equal(t, "✗ FAIL: 8 mismatches in 2 formulas (2 sequences)\n", buf.String())

	passing := &Report{Passed: true, Totals: validate.Totals{Checked: 3, Comparisons: 12}}
	assert.Equal(t, "✓ PASS: 3 formulas checked, 12 comparisons, 0 mismatches", VerdictLine(passing))
}

func TestFmtDuration(t *testing.T) {
	assert.Equal(t, "-", fmtDuration(0))
	assert.Equal(t, "1.50ms", fmtDuration(1500000))
	assert.Equal(t, "2.00s", fmtDuration(2000000000))
}
