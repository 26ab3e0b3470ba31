package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
	"github.com/loda-lang/formula-analyzer/internal/domain"
)

type Sink struct {
	client    *elasticsearch.TypedClient
	indexName string
}

// Document is the indexed form of a validation record.
type Document struct {
	ID           string    `json:"id"`
	RunID        string    `json:"run_id"`
	SequenceID   string    `json:"sequence_id"`
	Source       string    `json:"source"`
	Expression   string    `json:"expression"`
	State        string    `json:"state"`
	SkipReason   string    `json:"skip_reason,omitempty"`
	Offset       int64     `json:"offset"`
	Checked      int       `json:"checked"`
	Mismatches   int       `json:"mismatches"`
	FirstFailure *int      `json:"first_failure,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	IndexedAt    time.Time `json:"indexed_at"`
}

func NewSink(ctx context.Context, config ClientConfig) (*Sink, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	if config.IndexName == "" {
		config.IndexName = DefaultIndexName
	}

	sink := &Sink{client: client, indexName: config.IndexName}
	if err := sink.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return sink, nil
}

func (s *Sink) SaveBulk(ctx context.Context, records []domain.ValidationRecord) error {
	if len(records) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         s.indexName,
		Client:        s.client,
		NumWorkers:    4,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	indexedAt := time.Now().UTC()

	for _, r := range records {
		doc := toDocument(r, indexedAt)
		body, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", doc.ID)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(body),
			OnSuccess: func(context.Context, esutil.BulkIndexerItem, esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Bulk indexing completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(records),
		"index", s.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d validation records", n, len(records))
	}
	return nil
}

func toDocument(r domain.ValidationRecord, indexedAt time.Time) Document {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return Document{
		ID:           r.ID.String(),
		RunID:        r.RunID.String(),
		SequenceID:   r.SequenceID,
		Source:       string(r.Source),
		Expression:   r.Expression,
		State:        string(r.State),
		SkipReason:   string(r.SkipReason),
		Offset:       r.Offset,
		Checked:      r.Checked,
		Mismatches:   r.Mismatches,
		FirstFailure: r.FirstFailure,
		CreatedAt:    r.CreatedAt,
		IndexedAt:    indexedAt,
	}
}

func (s *Sink) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", s.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":            types.NewKeywordProperty(),
			"run_id":        types.NewKeywordProperty(),
			"sequence_id":   types.NewKeywordProperty(),
			"source":        types.NewKeywordProperty(),
			"expression":    expressionProperty(),
			"state":         types.NewKeywordProperty(),
			"skip_reason":   types.NewKeywordProperty(),
			"offset":        types.NewLongNumberProperty(),
			"checked":       types.NewIntegerNumberProperty(),
			"mismatches":    types.NewIntegerNumberProperty(),
			"first_failure": types.NewIntegerNumberProperty(),
			"created_at":    types.NewDateProperty(),
			"indexed_at":    types.NewDateProperty(),
		},
	}

	res, err := s.client.Indices.Create(s.indexName).Mappings(&mappings).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

// expressionProperty indexes the formula text for search with an exact
// keyword subfield for aggregations.
func expressionProperty() types.Property {
	p := types.NewTextProperty()
	p.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return p
}

// Count returns the number of indexed records for runID.
func (s *Sink) Count(ctx context.Context, runID uuid.UUID) (int64, error) {
	if _, err := s.client.Indices.Refresh().Index(s.indexName).Do(ctx); err != nil {
		return 0, fmt.Errorf("failed to refresh index: %w", err)
	}
	res, err := s.client.Count().
		Index(s.indexName).
		Query(&types.Query{Term: map[string]types.TermQuery{"run_id": {Value: runID.String()}}}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return res.Count, nil
}

// Healthy pings the cluster.
func (s *Sink) Healthy(ctx context.Context) bool {
	ok, err := s.client.Ping().Do(ctx)
	return err == nil && ok
}

func (s *Sink) Close() {}
