package pg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loda-lang/formula-analyzer/internal/domain"
)

const tableName = "formula_validations"

var columns = []string{
	"id", "run_id", "sequence_id", "source", "expression", "state",
	"skip_reason", "offset", "checked", "mismatches", "first_failure", "created_at",
}

type Sink struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

func NewSink(pool *ConnectionPool) (*Sink, error) {
	if pool == nil {
		return nil, fmt.Errorf("connection pool is required")
	}
	return &Sink{pool: pool, db: pool.conn}, nil
}

// SaveBulk copies records into formula_validations in a single COPY.
func (s *Sink) SaveBulk(ctx context.Context, records []domain.ValidationRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]any, len(records))
	now := time.Now().UTC()
	for i, r := range records {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		rows[i] = []any{
			r.ID,
			r.RunID,
			r.SequenceID,
			string(r.Source),
			r.Expression,
			string(r.State),
			nullableReason(r.SkipReason),
			r.Offset,
			r.Checked,
			r.Mismatches,
			r.FirstFailure,
			r.CreatedAt,
		}
	}

	copied, err := s.db.CopyFrom(ctx, pgx.Identifier{tableName}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to bulk insert validation records: %w", err)
	}
	slog.Info("Validation records stored", "table", tableName, "rows", copied)
	return nil
}

// CountByState returns the number of stored records per state for runID.
func (s *Sink) CountByState(ctx context.Context, runID uuid.UUID) (map[domain.State]int, error) {
	rows, err := s.db.Query(ctx,
		`SELECT state, count(*) FROM formula_validations WHERE run_id = $1 GROUP BY state`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count validation records: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.State]int)
	for rows.Next() {
		var (
			state string
			n     int
		)
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("failed to scan state count: %w", err)
		}
		counts[domain.State(state)] = n
	}
	return counts, rows.Err()
}

func (s *Sink) Close() {
	s.pool.Close()
}

func (s *Sink) Healthy(ctx context.Context) bool {
	return NewHealthChecker(s.pool).Healthy(ctx)
}

func nullableReason(r domain.SkipReason) *string {
	if r == domain.SkipNone {
		return nil
	}
	v := string(r)
	return &v
}
