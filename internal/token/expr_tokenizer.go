package token

import (
	"strings"
	"unicode"

	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/loda-lang/formula-analyzer/internal/grammar"
)

type ExprTokenizer struct {
	registry *grammar.Registry
}

func NewExprTokenizer(registry *grammar.Registry) *ExprTokenizer {
	if registry == nil {
		registry = grammar.Default()
	}
	return &ExprTokenizer{registry: registry}
}

// Tokenize converts the input string into a slice of Tokens ending with EOF.
// Example: Input: `floor((n-1)/2)`
//
// Identifiers must be the variable or a whitelisted function, otherwise
// tokenizing fails with UnknownIdentifier.
func (t *ExprTokenizer) Tokenize(input string) ([]Token, error) {
	s := scanner{input: []rune(input)}
	var tokens []Token

	for {
		s.skipWhitespace()
		if s.pos >= len(s.input) {
			break
		}

		ch := s.input[s.pos]
		start := s.pos
		switch {
		case ch == '(':
			tokens = append(tokens, Token{Type: LPAREN, Value: "(", Pos: start})
			s.pos++
		case ch == ')':
			tokens = append(tokens, Token{Type: RPAREN, Value: ")", Pos: start})
			s.pos++
		case ch == ',':
			tokens = append(tokens, Token{Type: COMMA, Value: ",", Pos: start})
			s.pos++
		case grammar.IsOperator(ch):
			tokens = append(tokens, Token{Type: OPERATOR, Value: string(ch), Pos: start})
			s.pos++
		case isDigit(ch):
			tokens = append(tokens, Token{Type: NUMBER, Value: s.readWhile(isDigit), Pos: start})
		case isLetter(ch):
			word := strings.ToLower(s.readWhile(isLetter))
			switch {
			case grammar.IsVariable(word):
				tokens = append(tokens, Token{Type: VAR, Value: word, Pos: start})
			case t.registry.IsFunction(word):
				tokens = append(tokens, Token{Type: FUNC, Value: word, Pos: start})
			default:
				return nil, apperr.New(apperr.UnknownIdentifier, start, "unknown identifier %q", word)
			}
		default:
			return nil, apperr.New(apperr.InvalidCharacter, start, "invalid character %q", ch)
		}
	}

	tokens = append(tokens, Token{Type: EOF, Pos: len(s.input)})
	return tokens, nil
}

type scanner struct {
	input []rune
	pos   int
}

func (s *scanner) skipWhitespace() {
	for s.pos < len(s.input) && unicode.IsSpace(s.input[s.pos]) {
		s.pos++
	}
}

func (s *scanner) readWhile(pred func(rune) bool) string {
	start := s.pos
	for s.pos < len(s.input) && pred(s.input[s.pos]) {
		s.pos++
	}
	return string(s.input[start:s.pos])
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
