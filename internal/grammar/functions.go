package grammar

import (
	"math/big"

	"github.com/loda-lang/formula-analyzer/internal/apperr"
)

// MaxBinomialK bounds the smaller side of a binomial coefficient so that a
// single call cannot run away with huge products.
const MaxBinomialK = 100_000

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTen  = big.NewInt(10)
)

func floorFn(args []*big.Rat) (*big.Rat, error) {
	return new(big.Rat).SetInt(Floor(args[0])), nil
}

func ceilFn(args []*big.Rat) (*big.Rat, error) {
	return new(big.Rat).SetInt(Ceil(args[0])), nil
}

func truncateFn(args []*big.Rat) (*big.Rat, error) {
	q := new(big.Int).Quo(args[0].Num(), args[0].Denom())
	return new(big.Rat).SetInt(q), nil
}

func binomialFn(args []*big.Rat) (*big.Rat, error) {
	n, err := toInt("binomial", args[0])
	if err != nil {
		return nil, err
	}
	k, err := toInt("binomial", args[1])
	if err != nil {
		return nil, err
	}
	b, err := Binomial(n, k)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).SetInt(b), nil
}

func sqrtintFn(args []*big.Rat) (*big.Rat, error) {
	x, err := toInt("sqrtint", args[0])
	if err != nil {
		return nil, err
	}
	if x.Sign() < 0 {
		return nil, apperr.New(apperr.UnsupportedRuntimeValue, -1, "sqrtint of negative value %s", x)
	}
	return new(big.Rat).SetInt(new(big.Int).Sqrt(x)), nil
}

func gcdFn(args []*big.Rat) (*big.Rat, error) {
	a, err := toInt("gcd", args[0])
	if err != nil {
		return nil, err
	}
	b, err := toInt("gcd", args[1])
	if err != nil {
		return nil, err
	}
	return new(big.Rat).SetInt(new(big.Int).GCD(nil, nil, a, b)), nil
}

func sumdigitsFn(args []*big.Rat) (*big.Rat, error) {
	x, err := toInt("sumdigits", args[0])
	if err != nil {
		return nil, err
	}
	base := bigTen
	if len(args) == 2 {
		if base, err = toInt("sumdigits", args[1]); err != nil {
			return nil, err
		}
	}
	s, err := SumDigits(x, base)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).SetInt(s), nil
}

func absFn(args []*big.Rat) (*big.Rat, error) {
	return new(big.Rat).Abs(args[0]), nil
}

func minFn(args []*big.Rat) (*big.Rat, error) {
	if args[0].Cmp(args[1]) <= 0 {
		return new(big.Rat).Set(args[0]), nil
	}
	return new(big.Rat).Set(args[1]), nil
}

func maxFn(args []*big.Rat) (*big.Rat, error) {
	if args[0].Cmp(args[1]) >= 0 {
		return new(big.Rat).Set(args[0]), nil
	}
	return new(big.Rat).Set(args[1]), nil
}

func signFn(args []*big.Rat) (*big.Rat, error) {
	return new(big.Rat).SetInt64(int64(args[0].Sign())), nil
}

// Floor returns the largest integer not greater than x.
func Floor(x *big.Rat) *big.Int {
	// Int.Div is Euclidean and the denominator of a Rat is always positive.
	return new(big.Int).Div(x.Num(), x.Denom())
}

// Ceil returns the smallest integer not less than x.
func Ceil(x *big.Rat) *big.Int {
	neg := new(big.Rat).Neg(x)
	return new(big.Int).Neg(Floor(neg))
}

// Binomial is the binomial coefficient extended to negative arguments
// (Kronenburg, "The Binomial Coefficient for Negative Arguments").
func Binomial(n, k *big.Int) (*big.Int, error) {
	n = new(big.Int).Set(n)
	k = new(big.Int).Set(k)
	negative := false

	if n.Sign() < 0 {
		switch {
		case k.Sign() >= 0:
			// C(n,k) = (-1)^k C(k-n-1, k)
			negative = k.Bit(0) == 1
			n.Sub(k, n).Sub(n, bigOne)
		case n.Cmp(k) >= 0:
			// C(n,k) = (-1)^(n-k) C(-k-1, n-k)
			diff := new(big.Int).Sub(n, k)
			negative = diff.Bit(0) == 1
			n.Neg(k).Sub(n, bigOne)
			k = diff
		default:
			return new(big.Int), nil
		}
	}

	if k.Sign() < 0 || n.Cmp(k) < 0 {
		return new(big.Int), nil
	}

	// Use the smaller of k and n-k.
	if rest := new(big.Int).Sub(n, k); rest.Cmp(k) < 0 {
		k = rest
	}
	if !k.IsInt64() || k.Int64() > MaxBinomialK {
		return nil, apperr.New(apperr.UnsupportedRuntimeValue, -1, "binomial lower index %s too large", k)
	}

	result := big.NewInt(1)
	factor := new(big.Int)
	base := new(big.Int).Sub(n, k)
	steps := k.Int64()
	for i := int64(1); i <= steps; i++ {
		factor.Add(base, big.NewInt(i))
		result.Mul(result, factor)
		result.Quo(result, big.NewInt(i))
	}

	if negative {
		result.Neg(result)
	}
	return result, nil
}

// SumDigits sums the digits of |x| written in the given base.
func SumDigits(x, base *big.Int) (*big.Int, error) {
	if base.Cmp(big.NewInt(2)) < 0 {
		return nil, apperr.New(apperr.UnsupportedRuntimeValue, -1, "sumdigits base %s must be >= 2", base)
	}
	y := new(big.Int).Abs(x)
	sum := new(big.Int)
	digit := new(big.Int)
	for y.Cmp(bigZero) > 0 {
		y.QuoRem(y, base, digit)
		sum.Add(sum, digit)
	}
	return sum, nil
}

func toInt(fn string, x *big.Rat) (*big.Int, error) {
	if !x.IsInt() {
		return nil, apperr.New(apperr.NonIntegralArgument, -1, "%s expects an integer argument, got %s", fn, x.RatString())
	}
	return new(big.Int).Set(x.Num()), nil
}
