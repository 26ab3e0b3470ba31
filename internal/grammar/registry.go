package grammar

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Impl computes a function over already evaluated arguments. The argument count
// is guaranteed to lie within the definition's arity bounds.
type Impl func(args []*big.Rat) (*big.Rat, error)

type FunctionDef struct {
	Name    string
	MinArgs int
	MaxArgs int
	Impl    Impl
}

func (d FunctionDef) Accepts(argc int) bool {
	return argc >= d.MinArgs && argc <= d.MaxArgs
}

// ArityString renders the accepted argument counts, e.g. "1" or "1..2".
func (d FunctionDef) ArityString() string {
	if d.MinArgs == d.MaxArgs {
		return fmt.Sprintf("%d", d.MinArgs)
	}
	return fmt.Sprintf("%d..%d", d.MinArgs, d.MaxArgs)
}

// Registry is the whitelist of callable functions. It is built once and read
// concurrently afterwards.
type Registry struct {
	functions map[string]FunctionDef
}

func NewRegistry() *Registry {
	return &Registry{functions: make(map[string]FunctionDef)}
}

func (r *Registry) Register(def FunctionDef) error {
	name := strings.ToLower(def.Name)
	if name == "" {
		return fmt.Errorf("function has no name")
	}
	if IsVariable(name) {
		return fmt.Errorf("function name %q collides with the variable", name)
	}
	if def.MinArgs < 1 || def.MaxArgs < def.MinArgs {
		return fmt.Errorf("function %q has invalid arity %d..%d", name, def.MinArgs, def.MaxArgs)
	}
	if def.Impl == nil {
		return fmt.Errorf("function %q has no implementation", name)
	}
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("function %q already registered", name)
	}
	def.Name = name
	r.functions[name] = def
	return nil
}

func (r *Registry) MustRegister(def FunctionDef) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (FunctionDef, bool) {
	def, ok := r.functions[strings.ToLower(name)]
	return def, ok
}

func (r *Registry) IsFunction(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsVariable reports whether name is the free variable n, in any case.
func IsVariable(name string) bool {
	return strings.EqualFold(name, "n")
}

var defaultRegistry = newDefault()

// Default returns the shipped whitelist.
func Default() *Registry {
	return defaultRegistry
}

func newDefault() *Registry {
	r := NewRegistry()
	r.MustRegister(FunctionDef{Name: "floor", MinArgs: 1, MaxArgs: 1, Impl: floorFn})
	r.MustRegister(FunctionDef{Name: "ceil", MinArgs: 1, MaxArgs: 1, Impl: ceilFn})
	r.MustRegister(FunctionDef{Name: "truncate", MinArgs: 1, MaxArgs: 1, Impl: truncateFn})
	r.MustRegister(FunctionDef{Name: "binomial", MinArgs: 2, MaxArgs: 2, Impl: binomialFn})
	r.MustRegister(FunctionDef{Name: "sqrtint", MinArgs: 1, MaxArgs: 1, Impl: sqrtintFn})
	r.MustRegister(FunctionDef{Name: "gcd", MinArgs: 2, MaxArgs: 2, Impl: gcdFn})
	r.MustRegister(FunctionDef{Name: "sumdigits", MinArgs: 1, MaxArgs: 2, Impl: sumdigitsFn})
	r.MustRegister(FunctionDef{Name: "abs", MinArgs: 1, MaxArgs: 1, Impl: absFn})
	r.MustRegister(FunctionDef{Name: "min", MinArgs: 2, MaxArgs: 2, Impl: minFn})
	r.MustRegister(FunctionDef{Name: "max", MinArgs: 2, MaxArgs: 2, Impl: maxFn})
	r.MustRegister(FunctionDef{Name: "sign", MinArgs: 1, MaxArgs: 1, Impl: signFn})
	return r
}
