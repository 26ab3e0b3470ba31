package denylist

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/loda-lang/formula-analyzer/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed denylist.yaml
var embedded []byte

type file struct {
	OEIS []string `yaml:"oeis"`
	LODA []string `yaml:"loda"`
}

// Denylist holds one fixed set of excluded sequence ids per formula source.
// It is read-only after construction.
type Denylist struct {
	sets map[domain.Source]map[string]struct{}
}

// Default returns the list shipped with the binary.
func Default() (*Denylist, error) {
	return Parse(embedded)
}

func LoadFromFile(path string) (*Denylist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read denylist file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Denylist, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse denylist YAML: %w", err)
	}
	return New(f.OEIS, f.LODA)
}

func New(oeis, loda []string) (*Denylist, error) {
	d := &Denylist{sets: map[domain.Source]map[string]struct{}{
		domain.SourceOEIS: {},
		domain.SourceLODA: {},
	}}
	if err := d.add(domain.SourceOEIS, oeis); err != nil {
		return nil, err
	}
	if err := d.add(domain.SourceLODA, loda); err != nil {
		return nil, err
	}
	for id := range d.sets[domain.SourceOEIS] {
		if _, both := d.sets[domain.SourceLODA][id]; both {
			return nil, fmt.Errorf("sequence %s is listed for both oeis and loda", id)
		}
	}
	return d, nil
}

func (d *Denylist) add(source domain.Source, ids []string) error {
	for _, id := range ids {
		if !domain.IsSequenceID(id) {
			return fmt.Errorf("%s denylist: invalid sequence id %q", source, id)
		}
		if _, dup := d.sets[source][id]; dup {
			return fmt.Errorf("%s denylist: %s listed twice", source, id)
		}
		d.sets[source][id] = struct{}{}
	}
	return nil
}

func (d *Denylist) Contains(source domain.Source, sequenceID string) bool {
	_, ok := d.sets[source][sequenceID]
	return ok
}

func (d *Denylist) Len(source domain.Source) int {
	return len(d.sets[source])
}

// Encode renders lists in the denylist file format.
func Encode(oeis, loda []string) ([]byte, error) {
	f := file{OEIS: oeis, LODA: loda}
	if f.OEIS == nil {
		f.OEIS = []string{}
	}
	if f.LODA == nil {
		f.LODA = []string{}
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("marshal denylist: %w", err)
	}
	return data, nil
}

// IDs returns the sorted ids listed for source.
func (d *Denylist) IDs(source domain.Source) []string {
	ids := make([]string, 0, len(d.sets[source]))
	for id := range d.sets[source] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
