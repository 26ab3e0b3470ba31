package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// maxTableMismatches bounds the mismatch section; the JSON and YAML exports
// carry the full list.
const maxTableMismatches = 50

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Formula Validation ===\n\n")
	writeSourceTable(tw, r)
	writeSkipTable(tw, r)
	writeLatencyTable(tw, r)
	writeMismatchTable(tw, r)

	tw.Flush()
}

func writeHeader(tw *tabwriter.Writer, header ...string) {
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func writeSourceTable(tw *tabwriter.Writer, r *Report) {
	writeHeader(tw, "Source", "Formulas", "Parsed", "Checked", "Mismatched")
	for _, s := range r.Sources {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", s.Source, s.Formulas, s.Parsed, s.Checked, s.Mismatched)
	}
	t := r.Totals
	fmt.Fprintf(tw, "total\t%d\t%d\t%d\t%d\n", t.Formulas, t.ParsedTotal(), t.Checked, t.MismatchedFormulas)
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Comparisons:\t%d\n", t.Comparisons)
	fmt.Fprintf(tw, "Mismatches:\t%d\n", t.Mismatches)
	fmt.Fprintf(tw, "Non-integral results:\t%d\n", t.NonIntegral)
	fmt.Fprintf(tw, "Mismatched sequences:\t%d\n", t.MismatchedSequences)
	fmt.Fprintln(tw)
}

func writeSkipTable(tw *tabwriter.Writer, r *Report) {
	if len(r.Skipped) == 0 {
		return
	}
	writeHeader(tw, "Skipped", "Count")
	for _, s := range r.Skipped {
		fmt.Fprintf(tw, "%s\t%d\n", s.Reason, s.Count)
	}
	fmt.Fprintln(tw)
}

func writeLatencyTable(tw *tabwriter.Writer, r *Report) {
	s := r.Latency
	if s.IsZero() {
		return
	}
	writeHeader(tw, "Eval latency", "Min", "p50", "p90", "p99", "Max", "Mean", "Stddev", "Samples")
	fmt.Fprintf(tw, "per formula\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
		fmtDuration(s.Min),
		fmtDuration(s.Median),
		fmtDuration(s.P90()),
		fmtDuration(s.P99()),
		fmtDuration(s.Max),
		fmtDuration(s.Mean),
		fmtDuration(s.Stddev),
		s.SampleCount,
	)
	fmt.Fprintln(tw)
}

func writeMismatchTable(tw *tabwriter.Writer, r *Report) {
	if len(r.Mismatched) == 0 {
		return
	}
	fmt.Fprintf(tw, "Mismatched formulas\n\n")
	writeHeader(tw, "Sequence", "Source", "Expression", "Failed", "First n", "Kind", "Expected", "Got")

	for i, m := range r.Mismatched {
		if i == maxTableMismatches {
			fmt.Fprintf(tw, "... %d more\n", len(r.Mismatched)-maxTableMismatches)
			break
		}
		kind, expected, got, firstN := "-", "-", "-", "-"
		if len(m.Failures) > 0 {
			f := m.Failures[0]
			kind, expected, firstN = string(f.Kind), f.Expected, fmt.Sprintf("%d", f.N)
			if f.Got != "" {
				got = f.Got
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%s\t%s\t%s\t%s\n",
			m.SequenceID, m.Source, m.Expression, m.Mismatches, m.Checked, firstN, kind, expected, got)
	}
	fmt.Fprintln(tw)
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
