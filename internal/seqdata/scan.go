package seqdata

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Term lines of popular sequences run to several kilobytes.
const maxLineBytes = 4 << 20

// LoadStats counts what a loader did with its input lines.
type LoadStats struct {
	Lines      int `json:"lines"`
	Records    int `json:"records"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

func scanLines(r io.Reader, fn func(lineNo int, line string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		fn(lineNo, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return nil
}

func isBlankOrComment(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || strings.HasPrefix(s, "#")
}
