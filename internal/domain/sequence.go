package domain

import "math/big"

// OffsetRecord holds the index of a sequence's first listed term.
// Secondary is carried from the offsets file but never used for alignment.
type OffsetRecord struct {
	SequenceID string `json:"sequence_id"`
	Primary    int64  `json:"primary"`
	Secondary  *int64 `json:"secondary,omitempty"`
}

// SequenceTerms are reference values in listed order; Terms[0] is a(Primary).
type SequenceTerms struct {
	SequenceID string     `json:"sequence_id"`
	Terms      []*big.Int `json:"terms"`
}

func (s SequenceTerms) Len() int {
	return len(s.Terms)
}
