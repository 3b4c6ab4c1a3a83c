package algebra

import (
	"fmt"

	"github.com/katalvlaran/subalg/tuple"
)

// Basic is a finite algebra on {0..n-1} whose operations are TableOps.
// Its elements, seen through the Algebra interface, are tuples of length 1.
type Basic struct {
	name string
	size int
	ops  []*TableOp
}

// NewBasic builds a basic algebra. Every operation must be defined on a
// universe of the given size and operation names must be unique.
func NewBasic(name string, size int, ops ...*TableOp) (*Basic, error) {
	if size <= 0 {
		return nil, ErrEmptyUniverse
	}
	seen := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		if op == nil {
			return nil, fmt.Errorf("%w: nil operation in %s", ErrBadTable, name)
		}
		if op.size != size {
			return nil, fmt.Errorf("%w: %s defined on size %d, algebra %s has size %d",
				ErrBadTable, op.sym, op.size, name, size)
		}
		if _, dup := seen[op.sym.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate operation %q in %s", ErrBadTable, op.sym.Name, name)
		}
		seen[op.sym.Name] = struct{}{}
	}
	cp := make([]*TableOp, len(ops))
	copy(cp, ops)

	return &Basic{name: name, size: size, ops: cp}, nil
}

// Name implements Algebra.
func (a *Basic) Name() string { return a.name }

// Size returns the universe size.
func (a *Basic) Size() int { return a.size }

// Cardinalities implements Algebra.
func (a *Basic) Cardinalities() []int { return []int{a.size} }

// Operations implements Algebra.
func (a *Basic) Operations() []Operation {
	out := make([]Operation, len(a.ops))
	for i, op := range a.ops {
		out[i] = op
	}

	return out
}

// TableOps returns the operations with their concrete type.
func (a *Basic) TableOps() []*TableOp {
	cp := make([]*TableOp, len(a.ops))
	copy(cp, a.ops)

	return cp
}

// Op looks up an operation by name.
func (a *Basic) Op(name string) (*TableOp, bool) {
	for _, op := range a.ops {
		if op.sym.Name == name {
			return op, true
		}
	}

	return nil, false
}

// Element wraps x as a length-1 tuple.
func (a *Basic) Element(x int) (tuple.Tuple, error) {
	if x < 0 || x >= a.size {
		return tuple.Tuple{}, fmt.Errorf("%w: %d not in [0,%d)", ErrElementRange, x, a.size)
	}

	return tuple.New(x), nil
}
