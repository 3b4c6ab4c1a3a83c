package closure

import (
	"context"
	"fmt"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/term"
	"github.com/katalvlaran/subalg/tuple"
)

// maxCloneWidth bounds n^k in FindInClone.
const maxCloneWidth = 1 << 22

// finder matches accepted tuples against the target tuples of the
// operations being searched for.
type finder struct {
	names     []string
	byKey     map[tuple.Key][]int
	found     []bool
	remaining int
	out       map[string]term.ID
}

// newFinder computes the target tuple f(g0, …, g(k-1)) of every op and
// checks it is an element of the algebra with the given cardinalities.
func newFinder(root *algebra.Basic, ops []algebra.Operation, gens []tuple.Tuple, cards []int) (*finder, error) {
	if len(ops) == 0 {
		return nil, configErrorf(ErrBadTarget, "no operations to find")
	}
	f := &finder{
		names:     make([]string, len(ops)),
		byKey:     make(map[tuple.Key][]int, len(ops)),
		found:     make([]bool, len(ops)),
		remaining: len(ops),
		out:       make(map[string]term.ID, len(ops)),
	}
	seen := make(map[string]bool, len(ops))
	for i, op := range ops {
		if op == nil {
			return nil, configErrorf(ErrBadTarget, "operation %d is nil", i)
		}
		sym := op.Symbol()
		if seen[sym.Name] {
			return nil, configErrorf(ErrBadTarget, "operation %q listed twice", sym.Name)
		}
		seen[sym.Name] = true
		if op.Arity() != len(gens) {
			return nil, configErrorf(ErrBadTarget, "%s needs %d generators, have %d", sym, op.Arity(), len(gens))
		}
		if tb, ok := op.(*algebra.TableOp); ok && tb.Size() != root.Size() {
			return nil, configErrorf(ErrBadTarget, "%s is defined on %d elements, %s has %d",
				sym, tb.Size(), root.Name(), root.Size())
		}
		t, err := op.Apply(gens)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadTarget, sym, err)
		}
		if err := algebra.CheckElement(cards, t); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadTarget, sym, err)
		}
		f.names[i] = sym.Name
		f.byKey[t.Key()] = append(f.byKey[t.Key()], i)
	}

	return f, nil
}

// match records id for every unfound target equal to t and reports whether
// all targets are now found.
func (f *finder) match(t tuple.Tuple, id term.ID) bool {
	for _, i := range f.byKey[t.Key()] {
		if f.found[i] {
			continue
		}
		f.found[i] = true
		f.remaining--
		f.out[f.names[i]] = id
	}

	return f.remaining == 0
}

// FindInClone decides which targets lie in the clone of base, i.e. are term
// operations of base, and returns a term for each one found.
//
// All targets must share an arity k ≥ 1. The search closes the k projections
// inside base^(n^k), where coordinate i stands for the argument vector whose
// base-n digits (most significant first) are the digits of i. The target
// tuple of an operation is then its flat table, so a target is found exactly
// when it is a term operation.
//
// Result.FoundOperations lists the targets found; Status is
// StatusAllOperationsFound when every target was found and StatusClosed when
// the clone was exhausted first.
func FindInClone(ctx context.Context, base *algebra.Basic, targets []algebra.Operation, opts ...Option) (*Result, error) {
	if base == nil {
		return nil, ErrNilAlgebra
	}
	if len(targets) == 0 || targets[0] == nil {
		return nil, configErrorf(ErrBadTarget, "no operations to find")
	}
	k := targets[0].Arity()
	if k < 1 {
		return nil, configErrorf(ErrBadTarget, "%s: clone search needs arity at least 1", targets[0].Symbol())
	}
	for _, op := range targets[1:] {
		if op == nil {
			return nil, configErrorf(ErrBadTarget, "nil operation")
		}
		if op.Arity() != k {
			return nil, configErrorf(ErrBadTarget, "%s has arity %d, want %d", op.Symbol(), op.Arity(), k)
		}
	}
	n := base.Size()
	width := 1
	for j := 0; j < k; j++ {
		width *= n
		if width > maxCloneWidth {
			return nil, configErrorf(ErrBadTarget, "%d^%d coordinates exceed the limit %d", n, k, maxCloneWidth)
		}
	}
	pow, err := algebra.NewPower(base, width)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadTarget, err)
	}

	all := make([]Option, 0, len(opts)+1)
	all = append(all, WithOperationsToFind(base, targets...))
	all = append(all, opts...)

	return ClosePower(ctx, pow, Projections(n, k), all...)
}

// Projections returns the k projection tuples of length n^k: coordinate i of
// projection j is the j-th base-n digit of i, most significant first.
// It returns nil unless n and k are positive.
func Projections(n, k int) []tuple.Tuple {
	if n < 1 || k < 1 {
		return nil
	}
	width := 1
	for j := 0; j < k; j++ {
		width *= n
	}
	gens := make([]tuple.Tuple, k)
	stride := width
	for j := 0; j < k; j++ {
		stride /= n
		vals := make([]int, width)
		for i := range vals {
			vals[i] = (i / stride) % n
		}
		gens[j] = tuple.Of(vals)
	}

	return gens
}
