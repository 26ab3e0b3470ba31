package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/loda-lang/formula-analyzer/internal/domain"
	"gopkg.in/yaml.v3"
)

func WriteJSON(r *Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// MismatchFile is the YAML export used to review failing formulas and to
// seed denylist updates.
type MismatchFile struct {
	RunID      string          `yaml:"run_id"`
	Generated  time.Time       `yaml:"generated"`
	Mismatches []MismatchEntry `yaml:"mismatches"`
}

func WriteMismatches(r *Report, path string) error {
	mf := MismatchFile{
		RunID:      r.Meta.RunID.String(),
		Generated:  r.Meta.Timestamp,
		Mismatches: r.Mismatched,
	}
	if mf.Mismatches == nil {
		mf.Mismatches = []MismatchEntry{}
	}

	data, err := yaml.Marshal(&mf)
	if err != nil {
		return fmt.Errorf("marshal mismatches: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write mismatches: %w", err)
	}
	return nil
}

func ReadMismatches(path string) (*MismatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mismatches file: %w", err)
	}
	var mf MismatchFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse mismatches YAML: %w", err)
	}
	return &mf, nil
}

// DenylistCandidates returns the sorted unique sequence ids of entries per source.
func DenylistCandidates(entries []MismatchEntry) (oeis, loda []string) {
	seen := make(map[string]struct{})
	for _, e := range entries {
		key := string(e.Source) + ":" + e.SequenceID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		switch e.Source {
		case domain.SourceOEIS:
			oeis = append(oeis, e.SequenceID)
		case domain.SourceLODA:
			loda = append(loda, e.SequenceID)
		}
	}
	sort.Strings(oeis)
	sort.Strings(loda)
	return oeis, loda
}
