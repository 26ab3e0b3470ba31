package apperr

// ValidationError marks a rejected request or configuration value. It maps to
// 400 Bad Request in the HTTP error handler.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidation reports an invalid input with no underlying cause.
func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NewValidationWrap reports an invalid input caused by err.
func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}
