package grammar

import (
	"math/big"
	"testing"

	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rat(s string) *big.Rat {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		panic("bad rat " + s)
	}
	return r
}

func TestDefault_Whitelist(t *testing.T) {
	r := Default()
	assert.Equal(t,
		[]string{"abs", "binomial", "ceil", "floor", "gcd", "max", "min", "sign", "sqrtint", "sumdigits", "truncate"},
		r.Names())

	tests := []struct {
		name string
		min  int
		max  int
	}{
		{"floor", 1, 1},
		{"ceil", 1, 1},
		{"binomial", 2, 2},
		{"sqrtint", 1, 1},
		{"gcd", 2, 2},
		{"sumdigits", 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := r.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.min, def.MinArgs)
			assert.Equal(t, tt.max, def.MaxArgs)
		})
	}

	_, ok := r.Lookup("FLOOR")
	assert.True(t, ok, "lookup is case-insensitive")
	assert.False(t, r.IsFunction("foo"))
	assert.False(t, r.IsFunction("n"))
}

func TestRegistry_Register(t *testing.T) {
	impl := func(args []*big.Rat) (*big.Rat, error) { return args[0], nil }

	tests := []struct {
		name    string
		def     FunctionDef
		wantErr string
	}{
		{"valid", FunctionDef{Name: "Id", MinArgs: 1, MaxArgs: 1, Impl: impl}, ""},
		{"no name", FunctionDef{MinArgs: 1, MaxArgs: 1, Impl: impl}, "no name"},
		{"variable name", FunctionDef{Name: "N", MinArgs: 1, MaxArgs: 1, Impl: impl}, "collides"},
		{"zero arity", FunctionDef{Name: "z", MinArgs: 0, MaxArgs: 1, Impl: impl}, "invalid arity"},
		{"inverted arity", FunctionDef{Name: "z", MinArgs: 2, MaxArgs: 1, Impl: impl}, "invalid arity"},
		{"no impl", FunctionDef{Name: "z", MinArgs: 1, MaxArgs: 1}, "no implementation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.def)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	r := NewRegistry()
	require.NoError(t, r.Register(FunctionDef{Name: "id", MinArgs: 1, MaxArgs: 1, Impl: impl}))
	assert.Error(t, r.Register(FunctionDef{Name: "ID", MinArgs: 1, MaxArgs: 1, Impl: impl}))
}

func TestFunctionDef_Accepts(t *testing.T) {
	def, _ := Default().Lookup("sumdigits")
	assert.False(t, def.Accepts(0))
	assert.True(t, def.Accepts(1))
	assert.True(t, def.Accepts(2))
	assert.False(t, def.Accepts(3))
	assert.Equal(t, "1..2", def.ArityString())

	floor, _ := Default().Lookup("floor")
	assert.Equal(t, "1", floor.ArityString())
}

func TestFloorCeil(t *testing.T) {
	tests := []struct {
		in    string
		floor int64
		ceil  int64
	}{
		{"7/2", 3, 4},
		{"-7/2", -4, -3},
		{"3", 3, 3},
		{"-3", -3, -3},
		{"0", 0, 0},
		{"1/3", 0, 1},
		{"-1/3", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.floor, Floor(rat(tt.in)).Int64())
			assert.Equal(t, tt.ceil, Ceil(rat(tt.in)).Int64())
		})
	}
}

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k int64
		want int64
	}{
		{5, 2, 10},
		{10, 0, 1},
		{10, 10, 1},
		{4, 5, 0},
		{4, -1, 0},
		{0, 0, 1},
		{-1, 0, 1},
		{-1, 1, -1},
		{-1, 2, 1},
		{-2, 3, -4},
		{-3, 2, 6},
		{-1, -1, 1},
		{-3, -5, 6},
		{-4, -2, 0},
		{-2, -1, 0},
	}
	for _, tt := range tests {
		got, err := Binomial(big.NewInt(tt.n), big.NewInt(tt.k))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Int64(), "binomial(%d,%d)", tt.n, tt.k)
	}
}

func TestBinomial_LargeLowerIndex(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 80)
	k := new(big.Int).Lsh(big.NewInt(1), 40)
	_, err := Binomial(n, k)
	require.Error(t, err)
	assert.Equal(t, apperr.UnsupportedRuntimeValue, apperr.CodeOf(err))
}

func TestSumDigits(t *testing.T) {
	tests := []struct {
		x, base int64
		want    int64
	}{
		{0, 10, 0},
		{1234, 10, 10},
		{-1234, 10, 10},
		{7, 2, 3},
		{255, 16, 30},
	}
	for _, tt := range tests {
		got, err := SumDigits(big.NewInt(tt.x), big.NewInt(tt.base))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Int64())
	}

	_, err := SumDigits(big.NewInt(5), big.NewInt(1))
	assert.Equal(t, apperr.UnsupportedRuntimeValue, apperr.CodeOf(err))
}

func TestFunctionImpls(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		errCode apperr.Code
	}{
		{"floor", []string{"7/2"}, "3", ""},
		{"ceil", []string{"7/2"}, "4", ""},
		{"truncate", []string{"-7/2"}, "-3", ""},
		{"binomial", []string{"6", "3"}, "20", ""},
		{"binomial", []string{"5/2", "1"}, "", apperr.NonIntegralArgument},
		{"sqrtint", []string{"17"}, "4", ""},
		{"sqrtint", []string{"-1"}, "", apperr.UnsupportedRuntimeValue},
		{"sqrtint", []string{"9/2"}, "", apperr.NonIntegralArgument},
		{"gcd", []string{"-12", "18"}, "6", ""},
		{"gcd", []string{"0", "0"}, "0", ""},
		{"sumdigits", []string{"99"}, "18", ""},
		{"sumdigits", []string{"10", "2"}, "2", ""},
		{"sumdigits", []string{"10", "1"}, "", apperr.UnsupportedRuntimeValue},
		{"abs", []string{"-5/3"}, "5/3", ""},
		{"min", []string{"1/2", "1/3"}, "1/3", ""},
		{"max", []string{"1/2", "1/3"}, "1/2", ""},
		{"sign", []string{"-4"}, "-1", ""},
		{"sign", []string{"0"}, "0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := Default().Lookup(tt.name)
			require.True(t, ok)

			args := make([]*big.Rat, len(tt.args))
			for i, a := range tt.args {
				args[i] = rat(a)
			}
			got, err := def.Impl(args)
			if tt.errCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.errCode, apperr.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.RatString())
		})
	}
}

func TestOperators(t *testing.T) {
	assert.True(t, IsOperator('^'))
	assert.False(t, IsOperator('%'))
	assert.True(t, Operators["^"].RightAssoc)
	assert.False(t, Operators["-"].RightAssoc)
	assert.Less(t, Operators["*"].Precedence, PrecedenceUnary)
	assert.Less(t, PrecedenceUnary, Operators["^"].Precedence)
}
