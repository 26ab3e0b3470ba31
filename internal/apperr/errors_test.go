package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("expression is required")

	if err.Error() != "expression is required" {
		t.Errorf("expected 'expression is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("workers must be positive")
	err := apperr.NewValidationWrap("invalid config", inner)

	if err.Error() != "invalid config: workers must be positive" {
		t.Errorf("expected 'invalid config: workers must be positive', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("terms must not be empty")

	wrapped := fmt.Errorf("decode request: %w", original)
	doubleWrapped := fmt.Errorf("validate handler: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "terms must not be empty" {
		t.Errorf("expected 'terms must not be empty', got %q", ve.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}

func TestCode_Kind(t *testing.T) {
	tests := []struct {
		code apperr.Code
		want apperr.Kind
	}{
		{apperr.UnknownIdentifier, apperr.KindLex},
		{apperr.InvalidCharacter, apperr.KindLex},
		{apperr.UnexpectedToken, apperr.KindParse},
		{apperr.UnmatchedParen, apperr.KindParse},
		{apperr.ArityMismatch, apperr.KindParse},
		{apperr.EmptyExpression, apperr.KindParse},
		{apperr.DivisionByZero, apperr.KindEval},
		{apperr.NonIntegralResult, apperr.KindEval},
		{apperr.NegativeExponent, apperr.KindEval},
		{apperr.MalformedLine, apperr.KindData},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Kind())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("evaluate at n=3: %w", apperr.New(apperr.DivisionByZero, 4, "division by zero"))

	assert.True(t, errors.Is(err, apperr.Sentinel(apperr.DivisionByZero)))
	assert.False(t, errors.Is(err, apperr.Sentinel(apperr.NonIntegralResult)))
	assert.Equal(t, apperr.DivisionByZero, apperr.CodeOf(err))
	assert.Equal(t, apperr.Code(""), apperr.CodeOf(errors.New("plain")))
}

func TestError_Message(t *testing.T) {
	withPos := apperr.New(apperr.UnknownIdentifier, 2, "unknown identifier %q", "foo")
	assert.Equal(t, `UnknownIdentifier at 2: unknown identifier "foo"`, withPos.Error())

	noPos := &apperr.Error{Code: apperr.NonIntegralResult, Message: "result 7/2 is not an integer", Pos: -1}
	assert.Equal(t, "NonIntegralResult: result 7/2 is not an integer", noPos.Error())
}
