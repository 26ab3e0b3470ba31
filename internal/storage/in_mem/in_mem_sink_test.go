package in_mem

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemSink_SaveBulk(t *testing.T) {
	s := NewInMemSink()
	run := uuid.New()
	other := uuid.New()

	err := s.SaveBulk(context.Background(), []domain.ValidationRecord{
		{RunID: run, SequenceID: "A000290", Source: domain.SourceOEIS, State: domain.StateValidated},
		{RunID: run, SequenceID: "A000027", Source: domain.SourceLODA, State: domain.StateMismatched},
		{RunID: other, SequenceID: "A000290", Source: domain.SourceLODA, State: domain.StateSkipped},
	})
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "A000027", all[0].SequenceID)
	assert.Equal(t, domain.SourceLODA, all[1].Source)
	assert.Equal(t, domain.SourceOEIS, all[2].Source)
	for _, r := range all {
		assert.NotEqual(t, uuid.Nil, r.ID)
	}

	assert.Len(t, s.ByRun(run), 2)
	assert.Len(t, s.ByRun(other), 1)
}

func TestInMemSink_Concurrent(t *testing.T) {
	s := NewInMemSink()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.SaveBulk(context.Background(), []domain.ValidationRecord{{SequenceID: "A000001"}})
		}()
	}
	wg.Wait()
	assert.Len(t, s.All(), 8)
}
