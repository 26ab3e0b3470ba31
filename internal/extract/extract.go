// Package extract pulls candidate `a(n) = <expr>` expressions out of LODA and
// OEIS formula listings.
package extract

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/loda-lang/formula-analyzer/internal/domain"
)

const maxLineBytes = 4 << 20

// Candidate is an isolated expression ready for the parser. Line is 1-based.
type Candidate struct {
	SequenceID string
	Source     domain.Source
	Text       string
	Line       int
}

type Stats struct {
	Lines      int            `json:"lines"`
	Candidates int            `json:"candidates"`
	Rejected   map[string]int `json:"rejected"`
}

func (s *Stats) reject(reason string) {
	if s.Rejected == nil {
		s.Rejected = make(map[string]int)
	}
	s.Rejected[reason]++
}

func ScanFile(path string, source domain.Source) ([]Candidate, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open formulas file: %w", err)
	}
	defer f.Close()

	cands, stats, err := Scan(f, source)
	if err != nil {
		return nil, stats, fmt.Errorf("scan %s: %w", path, err)
	}
	slog.Info("Formulas extracted", "path", path, "source", source, "lines", stats.Lines, "candidates", stats.Candidates)
	return cands, stats, nil
}

func Scan(r io.Reader, source domain.Source) ([]Candidate, Stats, error) {
	switch source {
	case domain.SourceLODA:
		return LODA(r)
	case domain.SourceOEIS:
		return OEIS(r)
	default:
		return nil, Stats{}, fmt.Errorf("unknown formula source %q", source)
	}
}

// LODA reads `A000045: a(n) = <expr>` lines. Anything after the first comma
// outside parentheses is trailing metadata and is dropped.
func LODA(r io.Reader) ([]Candidate, Stats, error) {
	var (
		cands []Candidate
		stats Stats
	)
	err := eachLine(r, func(lineNo int, line string) {
		stats.Lines++
		m := lodaLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			return
		}
		c, reason := lodaCandidate(strings.ToUpper(m[1]), m[2])
		if reason != "" {
			stats.reject(reason)
			return
		}
		c.Line = lineNo
		cands = append(cands, c)
		stats.Candidates++
	})
	return cands, stats, err
}

func lodaCandidate(id, expr string) (Candidate, string) {
	if initialTermsRe.MatchString(expr) {
		return Candidate{}, rejectInitialTerms
	}
	return Candidate{
		SequenceID: id,
		Source:     domain.SourceLODA,
		Text:       strings.TrimSpace(cutTopLevelComma(expr)),
	}, ""
}

func cutTopLevelComma(expr string) string {
	depth := 0
	for i, ch := range expr {
		switch ch {
		case '(':
			depth++
		case ')':
			depth = max(depth-1, 0)
		case ',':
			if depth == 0 {
				return expr[:i]
			}
		}
	}
	return expr
}

// OEIS reads formula blocks: a header `A000045: <text>` followed by
// continuation lines indented by two spaces. Each `a(n) = ...` line is an
// independent candidate. A formula ending in "otherwise:" introduces a case
// split, so the formula right after it is not a general closed form.
func OEIS(r io.Reader) ([]Candidate, Stats, error) {
	var (
		cands     []Candidate
		stats     Stats
		currentID string
		skipNext  bool
	)

	emit := func(lineNo int, text string) {
		c, reason := OEISCandidate(currentID, text)
		if reason != "" {
			stats.reject(reason)
			return
		}
		c.Line = lineNo
		cands = append(cands, c)
		stats.Candidates++
	}

	err := eachLine(r, func(lineNo int, line string) {
		stats.Lines++
		if m := oeisHeaderRe.FindStringSubmatch(line); m != nil {
			currentID = m[1]
			skipNext = false
			emit(lineNo, strings.TrimSpace(m[2]))
			if endsWithOtherwise(m[2]) {
				skipNext = true
			}
			return
		}

		if currentID == "" || !strings.HasPrefix(line, "  ") {
			return
		}
		cont := strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(cont), "a(n) =") {
			return
		}
		if skipNext {
			skipNext = false
			stats.reject(rejectOtherwise)
			return
		}
		emit(lineNo, cont)
		if endsWithOtherwise(cont) {
			skipNext = true
		}
	})
	return cands, stats, err
}

// OEISCandidate isolates the expression after the first "a(n) =" in text, or
// returns the name of the rule that rejected it.
func OEISCandidate(id, text string) (Candidate, string) {
	loc := oeisFormulaRe.FindStringIndex(text)
	if loc == nil {
		return Candidate{}, rejectNoFormula
	}
	prefix := strings.ToLower(text[:loc[0]])
	suffix := text[loc[1]:]
	lowerSuffix := strings.ToLower(suffix)

	for _, r := range oeisRules {
		subject := text
		switch r.part {
		case partPrefix:
			subject = prefix
		case partSuffix:
			subject = lowerSuffix
		}
		if r.pattern.MatchString(subject) {
			return Candidate{}, r.name
		}
	}

	expr := strings.TrimRight(strings.TrimSpace(suffix), ".;")
	switch {
	case !oeisCharsetRe.MatchString(expr):
		return Candidate{}, rejectCharset
	case !strings.ContainsAny(expr, "nN"):
		return Candidate{}, rejectNoVariable
	case highExponentRe.MatchString(expr):
		return Candidate{}, rejectHighDegree
	case !strings.ContainsAny(expr, "+*^"):
		return Candidate{}, rejectTrivial
	}

	return Candidate{SequenceID: id, Source: domain.SourceOEIS, Text: expr}, ""
}

func endsWithOtherwise(s string) bool {
	return strings.HasSuffix(strings.TrimRight(s, " \t"), "otherwise:")
}

func eachLine(r io.Reader, fn func(lineNo int, line string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fn(lineNo, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return nil
}
