// Package ast defines the expression tree produced by the parser.
//
// Node is a closed set: only the types in this package implement it. Trees are
// never modified after the parser returns them, so a single tree can be
// evaluated from many goroutines.
package ast

import (
	"math/big"
	"strings"
)

type Node interface {
	String() string
	node()
}

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Pow
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Pow:
		return "^"
	default:
		return "?"
	}
}

type UnaryOp int

const (
	Negate UnaryOp = iota
)

func (op UnaryOp) String() string {
	if op == Negate {
		return "-"
	}
	return "?"
}

type Literal struct {
	Value *big.Int
}

type Variable struct{}

type Unary struct {
	Op      UnaryOp
	Operand Node
}

type Binary struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

type Call struct {
	Name string
	Args []Node
}

func (*Literal) node()  {}
func (*Variable) node() {}
func (*Unary) node()    {}
func (*Binary) node()   {}
func (*Call) node()     {}

func NewLiteral(v *big.Int) *Literal {
	return &Literal{Value: new(big.Int).Set(v)}
}

func NewVariable() *Variable {
	return &Variable{}
}

func NewNegate(operand Node) *Unary {
	return &Unary{Op: Negate, Operand: operand}
}

func NewBinary(op BinaryOp, left, right Node) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

func NewCall(name string, args []Node) *Call {
	owned := make([]Node, len(args))
	copy(owned, args)
	return &Call{Name: name, Args: owned}
}

func (l *Literal) String() string { return l.Value.String() }

func (*Variable) String() string { return "n" }

// String renders nodes fully parenthesized, so the output parses back to the same tree.
func (u *Unary) String() string {
	return "(" + u.Op.String() + u.Operand.String() + ")"
}

func (b *Binary) String() string {
	return "(" + b.Left.String() + b.Op.String() + b.Right.String() + ")"
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Name + "(" + strings.Join(args, ",") + ")"
}

// Walk visits n and its descendants depth first, parents before children.
// It stops descending into a subtree when fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch t := n.(type) {
	case *Unary:
		Walk(t.Operand, fn)
	case *Binary:
		Walk(t.Left, fn)
		Walk(t.Right, fn)
	case *Call:
		for _, a := range t.Args {
			Walk(a, fn)
		}
	}
}

// Functions returns the distinct function names called anywhere in the tree.
func Functions(n Node) []string {
	seen := make(map[string]bool)
	var names []string
	Walk(n, func(x Node) bool {
		if c, ok := x.(*Call); ok && !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
		return true
	})
	return names
}

// Depth returns the height of the tree; a leaf has depth 1.
func Depth(n Node) int {
	switch t := n.(type) {
	case *Unary:
		return 1 + Depth(t.Operand)
	case *Binary:
		return 1 + max(Depth(t.Left), Depth(t.Right))
	case *Call:
		d := 0
		for _, a := range t.Args {
			d = max(d, Depth(a))
		}
		return 1 + d
	default:
		return 1
	}
}
