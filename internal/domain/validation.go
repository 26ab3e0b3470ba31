package domain

import (
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StateSkipped    State = "skipped"
	StateValidated  State = "validated"
	StateMismatched State = "mismatched"
)

type SkipReason string

const (
	SkipNone       SkipReason = ""
	SkipUnparsed   SkipReason = "unparsed"
	SkipDenylisted SkipReason = "denylisted"
	SkipNoOffset   SkipReason = "no_offset"
	SkipNoTerms    SkipReason = "no_terms"
)

// ValidationRecord is the persisted form of one formula's outcome.
type ValidationRecord struct {
	ID           uuid.UUID  `json:"id"`
	RunID        uuid.UUID  `json:"run_id"`
	SequenceID   string     `json:"sequence_id"`
	Source       Source     `json:"source"`
	Expression   string     `json:"expression"`
	State        State      `json:"state"`
	SkipReason   SkipReason `json:"skip_reason,omitempty"`
	Offset       int64      `json:"offset"`
	Checked      int        `json:"checked"`
	Mismatches   int        `json:"mismatches"`
	FirstFailure *int       `json:"first_failure,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
