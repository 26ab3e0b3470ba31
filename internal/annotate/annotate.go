// Package annotate marks the formula lines of a LODA or OEIS listing that
// the parser accepts.
package annotate

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/loda-lang/formula-analyzer/internal/parser"
)

const Marker = " ✅"

const maxLineBytes = 4 << 20

var (
	lodaLineRe   = regexp.MustCompile(`(?i)^(A\d{6}):\s*a\(n\)\s*=\s*(.+)$`)
	oeisHeaderRe = regexp.MustCompile(`^(A\d{6}):\s*(.+)$`)
	formulaRe    = regexp.MustCompile(`(?i)a\(n\)\s*=\s*(.+)`)
)

// Stats counts formula lines seen and how many of them parsed.
type Stats struct {
	Total  int `json:"total"`
	Parsed int `json:"parsed"`
}

type Annotator struct {
	parser *parser.Parser
}

func New(p *parser.Parser) *Annotator {
	if p == nil {
		p = parser.New(nil)
	}
	return &Annotator{parser: p}
}

func (a *Annotator) AnnotateFile(in, out string, source domain.Source) (Stats, error) {
	src, err := os.Open(in)
	if err != nil {
		return Stats{}, fmt.Errorf("open formulas file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return Stats{}, fmt.Errorf("create annotated file: %w", err)
	}

	stats, err := a.Annotate(src, dst, source)
	if cerr := dst.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close annotated file: %w", cerr)
	}
	if err != nil {
		return stats, err
	}

	slog.Info("Formulas annotated", "source", source, "parsed", stats.Parsed, "total", stats.Total, "output", out)
	return stats, nil
}

// Annotate copies r to w line by line, appending Marker to every formula
// line whose expression parses. Other lines are copied unchanged.
func (a *Annotator) Annotate(r io.Reader, w io.Writer, source domain.Source) (Stats, error) {
	var classify func(line string) (id, expr string, ok bool)
	switch source {
	case domain.SourceLODA:
		classify = lodaFormula
	case domain.SourceOEIS:
		classify = oeisFormula
	default:
		return Stats{}, fmt.Errorf("unknown formula source %q", source)
	}

	var stats Stats
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	bw := bufio.NewWriter(w)

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		out := line
		if id, expr, ok := classify(line); ok {
			stats.Total++
			if f := a.parser.ParseFormula(id, source, expr); f.IsParsed() {
				stats.Parsed++
				out += Marker
			}
		}
		if _, err := bw.WriteString(out + "\n"); err != nil {
			return stats, fmt.Errorf("write annotated line: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read formulas: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("flush annotated output: %w", err)
	}
	return stats, nil
}

func lodaFormula(line string) (string, string, bool) {
	m := lodaLineRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.ToUpper(m[1]), m[2], true
}

// oeisFormula looks for "a(n) = ..." on header and continuation lines. It is
// looser than candidate extraction: every such line counts.
func oeisFormula(line string) (string, string, bool) {
	id, text := "", ""
	if m := oeisHeaderRe.FindStringSubmatch(line); m != nil {
		id, text = m[1], m[2]
	} else if strings.HasPrefix(line, "  ") && strings.TrimSpace(line) != "" {
		text = strings.TrimSpace(line)
	} else {
		return "", "", false
	}

	m := formulaRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return id, strings.TrimRight(strings.TrimSpace(m[1]), ".;"), true
}
