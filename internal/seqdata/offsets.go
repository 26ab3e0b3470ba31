package seqdata

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/loda-lang/formula-analyzer/internal/domain"
)

type OffsetTable struct {
	records map[string]domain.OffsetRecord
	stats   LoadStats
}

func (t *OffsetTable) Get(sequenceID string) (domain.OffsetRecord, bool) {
	r, ok := t.records[sequenceID]
	return r, ok
}

func (t *OffsetTable) Len() int {
	return len(t.records)
}

func (t *OffsetTable) Stats() LoadStats {
	return t.stats
}

// NewOffsetTable builds a table from records; later records win.
func NewOffsetTable(records ...domain.OffsetRecord) *OffsetTable {
	t := &OffsetTable{records: make(map[string]domain.OffsetRecord, len(records))}
	for _, r := range records {
		if _, dup := t.records[r.SequenceID]; dup {
			t.stats.Duplicates++
		}
		t.records[r.SequenceID] = r
		t.stats.Records++
	}
	return t
}

func LoadOffsetsFile(path string) (*OffsetTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open offsets file: %w", err)
	}
	defer f.Close()

	t, err := LoadOffsets(f)
	if err != nil {
		return nil, fmt.Errorf("load offsets from %s: %w", path, err)
	}
	slog.Info("Offsets loaded", "path", path, "records", t.Len(), "skipped", t.stats.Skipped, "duplicates", t.stats.Duplicates)
	return t, nil
}

// LoadOffsets reads `SEQID: n0[,k]` lines. Malformed lines are skipped one by
// one; a repeated SEQID replaces the earlier record.
func LoadOffsets(r io.Reader) (*OffsetTable, error) {
	t := &OffsetTable{records: make(map[string]domain.OffsetRecord)}

	err := scanLines(r, func(lineNo int, line string) {
		t.stats.Lines++
		if isBlankOrComment(line) {
			return
		}

		rec, err := parseOffsetLine(lineNo, line)
		if err != nil {
			t.stats.Skipped++
			slog.Debug("skipping malformed offset line", "error", err)
			return
		}
		if prev, dup := t.records[rec.SequenceID]; dup {
			t.stats.Duplicates++
			slog.Debug("duplicate offset, keeping last", "seq", rec.SequenceID, "previous", prev.Primary, "current", rec.Primary)
		}
		t.records[rec.SequenceID] = rec
		t.stats.Records++
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func parseOffsetLine(lineNo int, line string) (domain.OffsetRecord, error) {
	id, payload, ok := strings.Cut(line, ":")
	if !ok {
		return domain.OffsetRecord{}, apperr.New(apperr.MalformedLine, lineNo, "missing ':'")
	}
	id = strings.TrimSpace(id)
	if !domain.IsSequenceID(id) {
		return domain.OffsetRecord{}, apperr.New(apperr.MalformedLine, lineNo, "invalid sequence id %q", id)
	}

	primaryStr, secondaryStr, hasSecondary := strings.Cut(strings.TrimSpace(payload), ",")
	primary, err := strconv.ParseInt(strings.TrimSpace(primaryStr), 10, 64)
	if err != nil {
		return domain.OffsetRecord{}, apperr.New(apperr.MalformedLine, lineNo, "invalid offset %q", primaryStr)
	}

	rec := domain.OffsetRecord{SequenceID: id, Primary: primary}
	if hasSecondary {
		secondary, err := strconv.ParseInt(strings.TrimSpace(secondaryStr), 10, 64)
		if err != nil {
			return domain.OffsetRecord{}, apperr.New(apperr.MalformedLine, lineNo, "invalid secondary offset %q", secondaryStr)
		}
		rec.Secondary = &secondary
	}
	return rec, nil
}
