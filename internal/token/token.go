package token

import "fmt"

type Type int

const (
	EOF Type = iota
	NUMBER
	VAR
	FUNC
	OPERATOR
	LPAREN
	RPAREN
	COMMA
)

func (t Type) String() string {
	switch t {
	case EOF:
		return "EOF"
	case NUMBER:
		return "NUMBER"
	case VAR:
		return "VAR"
	case FUNC:
		return "FUNC"
	case OPERATOR:
		return "OPERATOR"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case COMMA:
		return "COMMA"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token with its type, literal value and rune offset.
type Token struct {
	Type  Type
	Value string
	Pos   int
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of expression"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}

// IsOperator reports whether the token is the given operator symbol.
func (t Token) IsOperator(symbol string) bool {
	return t.Type == OPERATOR && t.Value == symbol
}
