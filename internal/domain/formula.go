package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/loda-lang/formula-analyzer/internal/ast"
)

type Source string

const (
	SourceOEIS Source = "oeis"
	SourceLODA Source = "loda"
)

var Sources = []Source{SourceLODA, SourceOEIS}

func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceOEIS:
		return SourceOEIS, nil
	case SourceLODA:
		return SourceLODA, nil
	default:
		return "", fmt.Errorf("unknown formula source %q, expected one of %v", s, Sources)
	}
}

var sequenceIDPattern = regexp.MustCompile(`^A\d{6}$`)

// IsSequenceID reports whether id looks like an OEIS A-number, e.g. A000045.
func IsSequenceID(id string) bool {
	return sequenceIDPattern.MatchString(id)
}

// Formula is a candidate closed form for one sequence.
// Parsed is nil when the expression is outside the supported grammar; such a
// formula is never evaluated and never counted as a failure.
type Formula struct {
	SequenceID string   `json:"sequence_id"`
	Source     Source   `json:"source"`
	RawText    string   `json:"raw_text"`
	Expression string   `json:"expression"`
	Parsed     ast.Node `json:"-"`
	ParseErr   error    `json:"-"`
}

type FormulaKey struct {
	SequenceID string
	Source     Source
	RawText    string
}

func (f Formula) Key() FormulaKey {
	return FormulaKey{SequenceID: f.SequenceID, Source: f.Source, RawText: f.RawText}
}

func (f Formula) IsParsed() bool {
	return f.Parsed != nil
}
