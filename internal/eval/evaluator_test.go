package eval

import (
	"math/big"
	"sync"
	"testing"

	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/loda-lang/formula-analyzer/internal/ast"
	"github.com/loda-lang/formula-analyzer/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, expr string) ast.Node {
	t.Helper()
	node, err := parser.New(nil).Parse(expr)
	require.NoError(t, err, expr)
	return node
}

func TestEvaluateInt(t *testing.T) {
	tests := []struct {
		name string
		expr string
		n    int64
		want string
	}{
		{"precedence", "2+3*4", 0, "14"},
		{"right associative power", "2^3^2", 0, "512"},
		{"grouping", "(2+3)*4", 0, "20"},
		{"floor of true division", "floor(7/2)", 0, "3"},
		{"floor of negative fraction", "floor(-7/2)", 0, "-4"},
		{"ceil", "ceil(7/2)", 0, "4"},
		{"exact intermediate fraction", "(n/3)*3", 5, "5"},
		{"negation below power", "-n^2", 3, "-9"},
		{"negated literal power", "-2^2", 0, "-4"},
		{"parenthesized negative base", "(-2)^2", 0, "4"},
		{"negative base", "(-n)^3", 2, "-8"},
		{"zero power", "0^0", 0, "1"},
		{"variable", "n", -4, "-4"},
		{"polynomial", "n^2+n+41", 10, "151"},
		{"offset example", "floor((n-1)/2)", 7, "3"},
		{"catalan", "binomial(2*n,n)/(n+1)", 5, "42"},
		{"generalized binomial", "binomial(n,3)", -2, "-4"},
		{"sqrtint", "sqrtint(n)", 26, "5"},
		{"gcd", "gcd(n,12)", 18, "6"},
		{"sumdigits default base", "sumdigits(n)", 1999, "28"},
		{"sumdigits base 2", "sumdigits(n,2)", 255, "8"},
		{"big numbers stay exact", "2^100+1", 0, "1267650600228229401496703205377"},
		{"truncate", "truncate(-n/2)", 3, "-1"},
		{"min max", "max(n,3)-min(n,3)", 1, "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateInt(mustParse(t, tt.expr), big.NewInt(tt.n))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEvaluate_LiteralRoundTrip(t *testing.T) {
	for _, lit := range []string{"0", "7", "123456789012345678901234567890"} {
		node := mustParse(t, lit)
		for _, n := range []int64{-3, 0, 1, 1000} {
			got, err := EvaluateInt(node, big.NewInt(n))
			require.NoError(t, err)
			assert.Equal(t, lit, got.String())
		}
	}
}

func TestEvaluate_Rational(t *testing.T) {
	got, err := Evaluate(mustParse(t, "n/2 + 1/3"), big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "5/6", got.RatString())

	got, err = Evaluate(mustParse(t, "(2/3)^2"), big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, "4/9", got.RatString())
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		n    int64
		code apperr.Code
	}{
		{"division by zero literal", "1/0", 0, apperr.DivisionByZero},
		{"division by zero subexpression", "n/(n-2)", 2, apperr.DivisionByZero},
		{"division by zero inside floor", "floor(1/(n-n))", 5, apperr.DivisionByZero},
		{"non-integral result", "n/2", 3, apperr.NonIntegralResult},
		{"non-integer exponent", "2^(1/2)", 0, apperr.NonIntegerExponent},
		{"negative exponent", "2^(n-3)", 1, apperr.NegativeExponent},
		{"huge exponent", "2^(10^6)", 0, apperr.UnsupportedRuntimeValue},
		{"huge power of a power", "(2^4096)^65536", 0, apperr.UnsupportedRuntimeValue},
		{"nested maximal powers", "((2^65536)^65536)", 0, apperr.UnsupportedRuntimeValue},
		{"huge denominator power", "(1/2^4096)^65536", 0, apperr.UnsupportedRuntimeValue},
		{"fractional argument", "gcd(n/2, 4)", 3, apperr.NonIntegralArgument},
		{"negative sqrtint", "sqrtint(n)", -1, apperr.UnsupportedRuntimeValue},
		{"bad base", "sumdigits(n, 1)", 5, apperr.UnsupportedRuntimeValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvaluateInt(mustParse(t, tt.expr), big.NewInt(tt.n))
			require.Error(t, err)
			assert.Equal(t, tt.code, apperr.CodeOf(err), err.Error())
			assert.Equal(t, apperr.KindEval, apperr.CodeOf(err).Kind())
		})
	}
}

func TestEvaluate_PowerWithinBudget(t *testing.T) {
	got, err := Evaluate(mustParse(t, "2^65536"), big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, 65537, got.Num().BitLen())

	got, err = Evaluate(mustParse(t, "(-1)^65536 + 1^65536"), big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, "2", got.RatString())
}

func TestEvaluate_ArityGuard(t *testing.T) {
	// Hand-built trees bypass the parser; the evaluator must still refuse them.
	bad := ast.NewCall("floor", []ast.Node{ast.NewVariable(), ast.NewVariable()})
	_, err := Evaluate(bad, big.NewInt(1))
	assert.Equal(t, apperr.UnsupportedRuntimeValue, apperr.CodeOf(err))

	unknown := ast.NewCall("zeta", []ast.Node{ast.NewVariable()})
	_, err = Evaluate(unknown, big.NewInt(1))
	assert.Equal(t, apperr.UnsupportedRuntimeValue, apperr.CodeOf(err))
}

func TestEvaluate_DoesNotMutateTree(t *testing.T) {
	node := mustParse(t, "-(5) + 5*n")
	before := node.String()
	for i := int64(0); i < 5; i++ {
		_, err := Evaluate(node, big.NewInt(i))
		require.NoError(t, err)
	}
	assert.Equal(t, before, node.String())

	lit := ast.NewLiteral(big.NewInt(3))
	_, err := Evaluate(ast.NewNegate(lit), big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, "3", lit.Value.String())
}

func TestEvaluate_Concurrent(t *testing.T) {
	node := mustParse(t, "binomial(n,2) + floor(n/3)")
	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := EvaluateInt(node, big.NewInt(int64(i)))
			if err == nil {
				results[i] = v.String()
			}
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		n := int64(i)
		want := n*(n-1)/2 + n/3
		assert.Equal(t, big.NewInt(want).String(), got, "n=%d", i)
	}
}
