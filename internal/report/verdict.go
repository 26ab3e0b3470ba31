package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorPass = lipgloss.Color("#2CD7C7")
	colorFail = lipgloss.Color("#E74C3C")

	passStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPass)
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFail)
)

// Verdict prints a one-line pass/fail summary. Colors are used only when w
// is a terminal.
func Verdict(r *Report, w io.Writer) {
	line := VerdictLine(r)
	if !isTerminal(w) {
		fmt.Fprintln(w, line)
		return
	}
	style := passStyle
	if !r.Passed {
		style = failStyle
	}
	fmt.Fprintln(w, style.Render(line))
}

func VerdictLine(r *Report) string {
	t := r.Totals
	if r.Passed {
		return fmt.Sprintf("✓ PASS: %d formulas checked, %d comparisons, 0 mismatches", t.Checked, t.Comparisons)
	}
	return fmt.Sprintf("✗ FAIL: %d mismatches in %d formulas (%d sequences)", t.Mismatches, t.MismatchedFormulas, t.MismatchedSequences)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
