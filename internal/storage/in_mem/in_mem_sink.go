package in_mem

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/loda-lang/formula-analyzer/internal/domain"
)

type InMemSink struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID]domain.ValidationRecord
}

func NewInMemSink() *InMemSink {
	return &InMemSink{
		storage: make(map[uuid.UUID]domain.ValidationRecord),
	}
}

func (s *InMemSink) SaveBulk(_ context.Context, records []domain.ValidationRecord) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for _, r := range records {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		s.storage[r.ID] = r
	}
	slog.Debug("Saved validation records in memory", "count", len(records), "total", len(s.storage))
	return nil
}

// All returns the stored records ordered by sequence id, then source.
func (s *InMemSink) All() []domain.ValidationRecord {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	out := make([]domain.ValidationRecord, 0, len(s.storage))
	for _, r := range s.storage {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SequenceID != out[j].SequenceID {
			return out[i].SequenceID < out[j].SequenceID
		}
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Expression < out[j].Expression
	})
	return out
}

// ByRun returns the records saved for runID.
func (s *InMemSink) ByRun(runID uuid.UUID) []domain.ValidationRecord {
	var out []domain.ValidationRecord
	for _, r := range s.All() {
		if r.RunID == runID {
			out = append(out, r)
		}
	}
	return out
}

func (s *InMemSink) Close() {}
