package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	UnknownIdentifier Code = "UnknownIdentifier"
	InvalidCharacter  Code = "InvalidCharacter"

	UnexpectedToken Code = "UnexpectedToken"
	UnmatchedParen  Code = "UnmatchedParen"
	ArityMismatch   Code = "ArityMismatch"
	EmptyExpression Code = "EmptyExpression"

	DivisionByZero          Code = "DivisionByZero"
	NonIntegerExponent      Code = "NonIntegerExponent"
	NegativeExponent        Code = "NegativeExponent"
	NonIntegralArgument     Code = "NonIntegralArgument"
	NonIntegralResult       Code = "NonIntegralResult"
	UnsupportedRuntimeValue Code = "UnsupportedRuntimeValue"

	MalformedLine Code = "MalformedLine"
)

type Kind string

const (
	KindLex   Kind = "lex"
	KindParse Kind = "parse"
	KindEval  Kind = "eval"
	KindData  Kind = "data"
)

// Kind reports which stage of the pipeline produces the code.
func (c Code) Kind() Kind {
	switch c {
	case UnknownIdentifier, InvalidCharacter:
		return KindLex
	case UnexpectedToken, UnmatchedParen, ArityMismatch, EmptyExpression:
		return KindParse
	case DivisionByZero, NonIntegerExponent, NegativeExponent,
		NonIntegralArgument, NonIntegralResult, UnsupportedRuntimeValue:
		return KindEval
	default:
		return KindData
	}
}

// Error is a coded failure raised by the tokenizer, parser, evaluator or data loaders.
// Pos is a rune offset into the expression, or a line number for data failures,
// and is -1 when unknown.
type Error struct {
	Code    Code
	Message string
	Pos     int
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at %d: %s", e.Code, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

func New(code Code, pos int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Sentinel returns a code-only error usable as an errors.Is target.
func Sentinel(code Code) *Error {
	return &Error{Code: code, Pos: -1}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
