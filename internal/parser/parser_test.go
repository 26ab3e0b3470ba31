package parser

import (
	"testing"

	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/loda-lang/formula-analyzer/internal/ast"
	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/loda-lang/formula-analyzer/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"literal", "42", "42"},
		{"variable", "n", "n"},
		{"uppercase variable", "N^2 + 1", "((n^2)+1)"},
		{"mul binds tighter than add", "2+3*4", "(2+(3*4))"},
		{"power is right associative", "2^3^2", "(2^(3^2))"},
		{"grouping", "(2+3)*4", "((2+3)*4)"},
		{"sub is left associative", "n-1-1", "((n-1)-1)"},
		{"div is left associative", "n/2/3", "((n/2)/3)"},
		{"negation below power", "-n^2", "(-(n^2))"},
		{"negation above mul", "-2*3", "((-2)*3)"},
		{"negation in operand", "2*-n", "(2*(-n))"},
		{"double negation", "--n", "(-(-n))"},
		{"unary plus dropped", "+n", "n"},
		{"negative exponent", "2^-1", "(2^(-1))"},
		{"call", "floor((n-1)/2)", "floor(((n-1)/2))"},
		{"call with two args", "binomial(2*n,n)/(n+1)", "(binomial((2*n),n)/(n+1))"},
		{"optional argument", "sumdigits(n, 2)", "sumdigits(n,2)"},
		{"nested calls", "gcd(floor(n/2), sqrtint(n))", "gcd(floor((n/2)),sqrtint(n))"},
		{"whitespace", "  n  *  ( n + 1 )  ", "(n*(n+1))"},
	}

	p := New(grammar.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, node.String())

			// The rendering parses back to the same tree.
			again, err := p.Parse(node.String())
			require.NoError(t, err)
			assert.Equal(t, node.String(), again.String())
		})
	}
}

func TestParser_ParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  apperr.Code
	}{
		{"empty", "", apperr.EmptyExpression},
		{"blank", "   ", apperr.EmptyExpression},
		{"unknown function", "foo(n)", apperr.UnknownIdentifier},
		{"other sequence", "a(n-1)+a(n-2)", apperr.UnknownIdentifier},
		{"relation", "n = 2", apperr.InvalidCharacter},
		{"too many args", "floor(n, 2)", apperr.ArityMismatch},
		{"too few args", "binomial(n)", apperr.ArityMismatch},
		{"no args", "floor()", apperr.ArityMismatch},
		{"optional arg overflow", "sumdigits(n,2,3)", apperr.ArityMismatch},
		{"unclosed group", "(n+1", apperr.UnmatchedParen},
		{"stray close", "n+1)", apperr.UnmatchedParen},
		{"unclosed call", "floor(n", apperr.UnmatchedParen},
		{"dangling operator", "n+", apperr.UnexpectedToken},
		{"dangling mul", "n*", apperr.UnexpectedToken},
		{"lone minus", "-", apperr.UnexpectedToken},
		{"implicit multiplication", "2n", apperr.UnexpectedToken},
		{"juxtaposition", "n n", apperr.UnexpectedToken},
		{"empty group", "()", apperr.UnexpectedToken},
		{"call without parens", "floor n", apperr.UnexpectedToken},
		{"leading comma", ",n", apperr.UnexpectedToken},
		{"trailing comma in call", "floor(n,)", apperr.UnexpectedToken},
		{"comma outside call", "n,1", apperr.UnexpectedToken},
		{"double operator", "n**2", apperr.UnexpectedToken},
	}

	p := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := p.Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, node)
			assert.Equal(t, tt.code, apperr.CodeOf(err), err.Error())
		})
	}
}

func TestParser_ParseFormula(t *testing.T) {
	p := New(nil)

	t.Run("parsed", func(t *testing.T) {
		f := p.ParseFormula("A000290", domain.SourceLODA, " n^2 + 1. ")
		require.True(t, f.IsParsed())
		assert.NoError(t, f.ParseErr)
		assert.Equal(t, "n^2 + 1", f.Expression)
		assert.Equal(t, " n^2 + 1. ", f.RawText)
		assert.Equal(t, "((n^2)+1)", f.Parsed.String())
	})

	t.Run("unparsed is a value not an error", func(t *testing.T) {
		f := p.ParseFormula("A000045", domain.SourceOEIS, "a(n-1) + a(n-2)")
		assert.False(t, f.IsParsed())
		assert.Nil(t, f.Parsed)
		assert.Equal(t, apperr.UnknownIdentifier, apperr.CodeOf(f.ParseErr))
	})

	t.Run("key identity", func(t *testing.T) {
		a := p.ParseFormula("A000027", domain.SourceLODA, "n")
		b := p.ParseFormula("A000027", domain.SourceLODA, "n")
		c := p.ParseFormula("A000027", domain.SourceOEIS, "n")
		assert.Equal(t, a.Key(), b.Key())
		assert.NotEqual(t, a.Key(), c.Key())
	})
}

func TestParser_CallNodes(t *testing.T) {
	node, err := New(nil).Parse("binomial(n,2) + floor(n/3) + floor(n/5)")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"binomial", "floor"}, ast.Functions(node))
	assert.Equal(t, 5, ast.Depth(node))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"n+1.", "n+1"},
		{"n+1;", "n+1"},
		{"  n+1 .; ", "n+1"},
		{"n+1", "n+1"},
		{"...", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Sanitize(tt.input))
	}
}
