package grammar

import "github.com/loda-lang/formula-analyzer/internal/ast"

// Binding strengths, lowest first. Unary minus sits between the
// multiplicative operators and '^', so -n^2 reads as -(n^2).
const (
	PrecedenceAdditive       = 10
	PrecedenceMultiplicative = 20
	PrecedenceUnary          = 30
	PrecedencePower          = 40
)

type Operator struct {
	Symbol     string
	Op         ast.BinaryOp
	Precedence int
	RightAssoc bool
}

var Operators = map[string]Operator{
	"+": {Symbol: "+", Op: ast.Add, Precedence: PrecedenceAdditive},
	"-": {Symbol: "-", Op: ast.Sub, Precedence: PrecedenceAdditive},
	"*": {Symbol: "*", Op: ast.Mul, Precedence: PrecedenceMultiplicative},
	"/": {Symbol: "/", Op: ast.Div, Precedence: PrecedenceMultiplicative},
	"^": {Symbol: "^", Op: ast.Pow, Precedence: PrecedencePower, RightAssoc: true},
}

// PrefixOperators may appear in front of an operand.
var PrefixOperators = map[string]bool{
	"-": true,
	"+": true,
}

func IsOperator(r rune) bool {
	_, ok := Operators[string(r)]
	return ok
}
