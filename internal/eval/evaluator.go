// Package eval interprets expression trees with exact rational arithmetic.
package eval

import (
	"math/big"

	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/loda-lang/formula-analyzer/internal/ast"
	"github.com/loda-lang/formula-analyzer/internal/grammar"
)

const (
	// MaxExponent caps the exponent of '^'.
	MaxExponent = 1 << 16
	// MaxPowerBits caps the estimated size of a '^' result, numerator and
	// denominator each. Nested powers stay within it as well.
	MaxPowerBits = 1 << 20
)

// Evaluator holds no mutable state and may be shared between goroutines.
type Evaluator struct {
	registry *grammar.Registry
}

func New(registry *grammar.Registry) *Evaluator {
	if registry == nil {
		registry = grammar.Default()
	}
	return &Evaluator{registry: registry}
}

var defaultEvaluator = New(nil)

// Evaluate computes node at n with the default whitelist.
func Evaluate(node ast.Node, n *big.Int) (*big.Rat, error) {
	return defaultEvaluator.Evaluate(node, n)
}

// EvaluateInt computes node at n with the default whitelist and requires an integral result.
func EvaluateInt(node ast.Node, n *big.Int) (*big.Int, error) {
	return defaultEvaluator.EvaluateInt(node, n)
}

// EvaluateInt is the comparison contract: a fractional result is reported as
// NonIntegralResult and never truncated.
func (e *Evaluator) EvaluateInt(node ast.Node, n *big.Int) (*big.Int, error) {
	v, err := e.Evaluate(node, n)
	if err != nil {
		return nil, err
	}
	if !v.IsInt() {
		return nil, apperr.New(apperr.NonIntegralResult, -1, "result %s is not an integer", v.RatString())
	}
	return new(big.Int).Set(v.Num()), nil
}

func (e *Evaluator) Evaluate(node ast.Node, n *big.Int) (*big.Rat, error) {
	switch t := node.(type) {
	case *ast.Literal:
		return new(big.Rat).SetInt(t.Value), nil
	case *ast.Variable:
		return new(big.Rat).SetInt(n), nil
	case *ast.Unary:
		v, err := e.Evaluate(t.Operand, n)
		if err != nil {
			return nil, err
		}
		return v.Neg(v), nil
	case *ast.Binary:
		return e.binary(t, n)
	case *ast.Call:
		return e.call(t, n)
	default:
		return nil, apperr.New(apperr.UnsupportedRuntimeValue, -1, "unsupported node %T", node)
	}
}

func (e *Evaluator) binary(b *ast.Binary, n *big.Int) (*big.Rat, error) {
	left, err := e.Evaluate(b.Left, n)
	if err != nil {
		return nil, err
	}
	right, err := e.Evaluate(b.Right, n)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case ast.Add:
		return left.Add(left, right), nil
	case ast.Sub:
		return left.Sub(left, right), nil
	case ast.Mul:
		return left.Mul(left, right), nil
	case ast.Div:
		if right.Sign() == 0 {
			return nil, apperr.New(apperr.DivisionByZero, -1, "division by zero in %s", b)
		}
		return left.Quo(left, right), nil
	case ast.Pow:
		return pow(left, right)
	default:
		return nil, apperr.New(apperr.UnsupportedRuntimeValue, -1, "unsupported operator %s", b.Op)
	}
}

func pow(base, exp *big.Rat) (*big.Rat, error) {
	if !exp.IsInt() {
		return nil, apperr.New(apperr.NonIntegerExponent, -1, "exponent %s is not an integer", exp.RatString())
	}
	e := exp.Num()
	if e.Sign() < 0 {
		return nil, apperr.New(apperr.NegativeExponent, -1, "exponent %s is negative", e)
	}
	if e.Cmp(big.NewInt(MaxExponent)) > 0 {
		return nil, apperr.New(apperr.UnsupportedRuntimeValue, -1, "exponent %s exceeds %d", e, MaxExponent)
	}
	k := e.Int64()
	for _, part := range []*big.Int{base.Num(), base.Denom()} {
		if bits := int64(part.BitLen()) * k; bits > MaxPowerBits {
			return nil, apperr.New(apperr.UnsupportedRuntimeValue, -1,
				"power result of about %d bits exceeds %d", bits, MaxPowerBits)
		}
	}

	num := new(big.Int).Exp(base.Num(), e, nil)
	den := new(big.Int).Exp(base.Denom(), e, nil)
	return new(big.Rat).SetFrac(num, den), nil
}

func (e *Evaluator) call(c *ast.Call, n *big.Int) (*big.Rat, error) {
	def, ok := e.registry.Lookup(c.Name)
	if !ok {
		return nil, apperr.New(apperr.UnsupportedRuntimeValue, -1, "function %q is not whitelisted", c.Name)
	}
	if !def.Accepts(len(c.Args)) {
		return nil, apperr.New(apperr.UnsupportedRuntimeValue, -1,
			"%s called with %d argument(s), expects %s", def.Name, len(c.Args), def.ArityString())
	}

	args := make([]*big.Rat, len(c.Args))
	for i, a := range c.Args {
		v, err := e.Evaluate(a, n)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return def.Impl(args)
}
