package factory

import (
	"context"
	"fmt"

	"github.com/loda-lang/formula-analyzer/internal/storage"
	"github.com/loda-lang/formula-analyzer/internal/storage/es"
	"github.com/loda-lang/formula-analyzer/internal/storage/in_mem"
	"github.com/loda-lang/formula-analyzer/internal/storage/pg"
)

// NewSink creates the sink selected by cfg. It returns nil for storage.None.
func NewSink(ctx context.Context, cfg *SinkConfig) (storage.Sink, error) {
	switch cfg.Type {
	case storage.None:
		return nil, nil

	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewSink(pool)

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		return es.NewSink(ctx, *cfg.Es)

	case storage.InMem:
		return in_mem.NewInMemSink(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedSink), cfg.Type)
	}
}
