package algebra

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/subalg/tuple"
)

// Product is A1 × … × Am for basic algebras of one signature.
// Coordinate i of an element lives in factor i.
type Product struct {
	name    string
	factors []*Basic
	ops     []Operation
}

// NewProduct builds the direct product of factors. All factors must list the
// same operation symbols in the same order.
func NewProduct(name string, factors ...*Basic) (*Product, error) {
	if len(factors) == 0 {
		return nil, fmt.Errorf("%w: product needs at least one factor", ErrSignatureMismatch)
	}
	for i, f := range factors[1:] {
		if !SameSignature(factors[0], f) {
			return nil, fmt.Errorf("%w: factor %d (%s) differs from %s",
				ErrSignatureMismatch, i+1, f.Name(), factors[0].Name())
		}
	}
	if name == "" {
		names := make([]string, len(factors))
		for i, f := range factors {
			names[i] = f.Name()
		}
		name = strings.Join(names, "×")
	}
	p := &Product{name: name, factors: append([]*Basic(nil), factors...)}
	p.ops = make([]Operation, len(factors[0].ops))
	for j := range factors[0].ops {
		p.ops[j] = &productOp{p: p, index: j}
	}

	return p, nil
}

// Name implements Algebra.
func (p *Product) Name() string { return p.name }

// Cardinalities implements Algebra.
func (p *Product) Cardinalities() []int {
	out := make([]int, len(p.factors))
	for i, f := range p.factors {
		out[i] = f.size
	}

	return out
}

// Operations implements Algebra.
func (p *Product) Operations() []Operation { return append([]Operation(nil), p.ops...) }

// Factors returns the factor algebras.
func (p *Product) Factors() []*Basic { return append([]*Basic(nil), p.factors...) }

// productOp evaluates operation index in every factor on its own coordinate.
type productOp struct {
	p     *Product
	index int
}

func (o *productOp) Symbol() Symbol { return o.p.factors[0].ops[o.index].sym }
func (o *productOp) Arity() int     { return o.Symbol().Arity }

func (o *productOp) Apply(args []tuple.Tuple) (tuple.Tuple, error) {
	sym := o.Symbol()
	if len(args) != sym.Arity {
		return tuple.Tuple{}, fmt.Errorf("%w: %s got %d arguments", ErrArityMismatch, sym, len(args))
	}
	width := len(o.p.factors)
	for j, a := range args {
		if a.Len() != width {
			return tuple.Tuple{}, fmt.Errorf("%w: %s argument %d has %d coordinates, want %d",
				ErrElementRange, sym, j, a.Len(), width)
		}
	}
	out := make([]int, width)
	for i, f := range o.p.factors {
		op := f.ops[o.index]
		h := 0
		for _, a := range args {
			v := a.At(i)
			if v >= f.size {
				return tuple.Tuple{}, fmt.Errorf("%w: coordinate %d value %d, universe size %d",
					ErrElementRange, i, v, f.size)
			}
			h = h*f.size + v
		}
		out[i] = op.table[h]
	}

	return tuple.Of(out), nil
}

// Power is B^k. It implements PowerAlgebra.
type Power struct {
	base *Basic
	k    int
	ops  []Operation
}

// NewPower builds base^k for k ≥ 1.
func NewPower(base *Basic, k int) (*Power, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: nil base algebra", ErrSignatureMismatch)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: power exponent %d must be positive", ErrElementRange, k)
	}
	p := &Power{base: base, k: k}
	p.ops = make([]Operation, len(base.ops))
	for j, op := range base.ops {
		p.ops[j] = &powerOp{op: op, k: k}
	}

	return p, nil
}

// Name implements Algebra.
func (p *Power) Name() string { return fmt.Sprintf("%s^%d", p.base.name, p.k) }

// Cardinalities implements Algebra.
func (p *Power) Cardinalities() []int {
	out := make([]int, p.k)
	for i := range out {
		out[i] = p.base.size
	}

	return out
}

// Operations implements Algebra.
func (p *Power) Operations() []Operation { return append([]Operation(nil), p.ops...) }

// Base implements PowerAlgebra.
func (p *Power) Base() *Basic { return p.base }

// Exponent implements PowerAlgebra.
func (p *Power) Exponent() int { return p.k }

// powerOp is a base TableOp constrained to tuples of length k.
type powerOp struct {
	op *TableOp
	k  int
}

func (o *powerOp) Symbol() Symbol { return o.op.sym }
func (o *powerOp) Arity() int     { return o.op.sym.Arity }

func (o *powerOp) Apply(args []tuple.Tuple) (tuple.Tuple, error) {
	if len(args) != o.op.sym.Arity {
		return tuple.Tuple{}, fmt.Errorf("%w: %s got %d arguments", ErrArityMismatch, o.op.sym, len(args))
	}

	return o.op.applyLen(args, o.k)
}
