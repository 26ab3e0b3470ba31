package storage

import (
	"context"

	"github.com/loda-lang/formula-analyzer/internal/domain"
)

// Sink persists validation records produced by one run.
type Sink interface {
	SaveBulk(ctx context.Context, records []domain.ValidationRecord) error
	Close()
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
	None  Type = "none"
)

var Types = []Type{ES, PG, InMem}

type SinkError string

const (
	ErrUnsupportedSink SinkError = "unsupported sink type: %s"
)

func (e SinkError) Error() string {
	return string(e)
}
