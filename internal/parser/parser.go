package parser

import (
	"math/big"
	"strings"

	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/loda-lang/formula-analyzer/internal/ast"
	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/loda-lang/formula-analyzer/internal/grammar"
	"github.com/loda-lang/formula-analyzer/internal/token"
)

type Parser struct {
	tokenizer token.Tokenizer
	registry  *grammar.Registry
}

func New(registry *grammar.Registry) *Parser {
	if registry == nil {
		registry = grammar.Default()
	}
	return &Parser{
		tokenizer: token.NewExprTokenizer(registry),
		registry:  registry,
	}
}

// Parse turns an expression into a tree. Errors are *apperr.Error values of
// the lex or parse kind.
func (p *Parser) Parse(expression string) (ast.Node, error) {
	tokens, err := p.tokenizer.Tokenize(expression)
	if err != nil {
		return nil, err
	}
	return p.parseTokens(tokens)
}

// ParseFormula never fails: an expression outside the grammar yields a formula
// whose Parsed field is nil and whose ParseErr explains why.
func (p *Parser) ParseFormula(sequenceID string, source domain.Source, raw string) domain.Formula {
	f := domain.Formula{
		SequenceID: sequenceID,
		Source:     source,
		RawText:    raw,
		Expression: Sanitize(raw),
	}
	node, err := p.Parse(f.Expression)
	if err != nil {
		f.ParseErr = err
		return f
	}
	f.Parsed = node
	return f
}

// Sanitize trims surrounding whitespace and trailing sentence punctuation.
func Sanitize(expression string) string {
	s := strings.TrimSpace(expression)
	s = strings.TrimRight(s, ".;")
	return strings.TrimSpace(s)
}

func (p *Parser) parseTokens(tokens []token.Token) (ast.Node, error) {
	s := &state{tokens: tokens, registry: p.registry}
	if s.peek().Type == token.EOF {
		return nil, apperr.New(apperr.EmptyExpression, s.peek().Pos, "empty expression")
	}

	node, err := s.parseExpr(0)
	if err != nil {
		return nil, err
	}

	switch tok := s.peek(); tok.Type {
	case token.EOF:
		return node, nil
	case token.RPAREN:
		return nil, apperr.New(apperr.UnmatchedParen, tok.Pos, "unmatched ')'")
	default:
		return nil, apperr.New(apperr.UnexpectedToken, tok.Pos, "unexpected %s after complete expression", tok)
	}
}

type state struct {
	tokens   []token.Token
	pos      int
	registry *grammar.Registry
}

func (s *state) peek() token.Token {
	if s.pos >= len(s.tokens) {
		return token.Token{Type: token.EOF}
	}
	return s.tokens[s.pos]
}

func (s *state) advance() token.Token {
	tok := s.peek()
	if s.pos < len(s.tokens) {
		s.pos++
	}
	return tok
}

// parseExpr is precedence climbing over grammar.Operators: it consumes binary
// operators binding at least as tightly as minPrec.
func (s *state) parseExpr(minPrec int) (ast.Node, error) {
	lhs, err := s.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := s.peek()
		if tok.Type != token.OPERATOR {
			return lhs, nil
		}
		op, ok := grammar.Operators[tok.Value]
		if !ok || op.Precedence < minPrec {
			return lhs, nil
		}
		s.advance()

		next := op.Precedence + 1
		if op.RightAssoc {
			next = op.Precedence
		}
		rhs, err := s.parseExpr(next)
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinary(op.Op, lhs, rhs)
	}
}

func (s *state) parseUnary() (ast.Node, error) {
	tok := s.peek()
	if tok.Type != token.OPERATOR || !grammar.PrefixOperators[tok.Value] {
		return s.parseAtom()
	}
	s.advance()

	operand, err := s.parseExpr(grammar.PrecedenceUnary)
	if err != nil {
		return nil, err
	}
	if tok.Value == "-" {
		return ast.NewNegate(operand), nil
	}
	return operand, nil
}

func (s *state) parseAtom() (ast.Node, error) {
	tok := s.peek()
	switch tok.Type {
	case token.NUMBER:
		s.advance()
		v, ok := new(big.Int).SetString(tok.Value, 10)
		if !ok {
			return nil, apperr.New(apperr.UnexpectedToken, tok.Pos, "invalid number %q", tok.Value)
		}
		return ast.NewLiteral(v), nil
	case token.VAR:
		s.advance()
		return ast.NewVariable(), nil
	case token.FUNC:
		return s.parseCall()
	case token.LPAREN:
		s.advance()
		inner, err := s.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := s.expectClose(tok); err != nil {
			return nil, err
		}
		return inner, nil
	case token.EOF:
		return nil, apperr.New(apperr.UnexpectedToken, tok.Pos, "unexpected end of expression, expected an operand")
	default:
		return nil, apperr.New(apperr.UnexpectedToken, tok.Pos, "unexpected %s, expected an operand", tok)
	}
}

func (s *state) parseCall() (ast.Node, error) {
	nameTok := s.advance()
	def, ok := s.registry.Lookup(nameTok.Value)
	if !ok {
		return nil, apperr.New(apperr.UnknownIdentifier, nameTok.Pos, "unknown function %q", nameTok.Value)
	}

	open := s.peek()
	if open.Type != token.LPAREN {
		return nil, apperr.New(apperr.UnexpectedToken, open.Pos, "expected '(' after %s, got %s", def.Name, open)
	}
	s.advance()

	var args []ast.Node
	if s.peek().Type == token.RPAREN {
		s.advance()
	} else {
		for {
			arg, err := s.parseExpr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if s.peek().Type == token.COMMA {
				s.advance()
				continue
			}
			if err := s.expectClose(open); err != nil {
				return nil, err
			}
			break
		}
	}

	if !def.Accepts(len(args)) {
		return nil, apperr.New(apperr.ArityMismatch, nameTok.Pos,
			"%s expects %s argument(s), got %d", def.Name, def.ArityString(), len(args))
	}
	return ast.NewCall(def.Name, args), nil
}

func (s *state) expectClose(open token.Token) error {
	tok := s.peek()
	switch tok.Type {
	case token.RPAREN:
		s.advance()
		return nil
	case token.EOF:
		return apperr.New(apperr.UnmatchedParen, open.Pos, "unclosed '('")
	default:
		return apperr.New(apperr.UnexpectedToken, tok.Pos, "expected ')', got %s", tok)
	}
}
