package dto

const (
	MaxPoints = 1000
	MaxTerms  = 10000
)

type EvaluateRequest struct {
	Expression string  `json:"expression" validate:"required,max=4096" example:"binomial(n,2)+1"`
	N          []int64 `json:"n" validate:"required,min=1,max=1000" example:"0,1,2,3"`
}

// PointValue is the value at one n. Value is an exact integer or fraction;
// Error is set instead when evaluation failed at that point.
type PointValue struct {
	N     int64  `json:"n"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

type EvaluateResponse struct {
	Expression string       `json:"expression"`
	Values     []PointValue `json:"values"`
}

type ValidateRequest struct {
	SequenceID string   `json:"sequence_id,omitempty" validate:"omitempty,len=7" example:"A000290"`
	Expression string   `json:"expression" validate:"required,max=4096" example:"n^2"`
	Offset     int64    `json:"offset" example:"0"`
	Terms      []string `json:"terms" validate:"required,min=1,max=10000,dive,required" example:"0,1,4,9"`
}

type Failure struct {
	Index    int    `json:"index"`
	N        int64  `json:"n"`
	Kind     string `json:"kind"`
	Expected string `json:"expected"`
	Got      string `json:"got,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ValidateResponse struct {
	SequenceID   string    `json:"sequence_id,omitempty"`
	Expression   string    `json:"expression"`
	State        string    `json:"state"`
	Offset       int64     `json:"offset"`
	Checked      int       `json:"checked"`
	Mismatches   int       `json:"mismatches"`
	FirstFailure *int      `json:"first_failure,omitempty"`
	Failures     []Failure `json:"failures,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Pos   int    `json:"pos,omitempty"`
}
