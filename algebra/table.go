package algebra

import (
	"fmt"

	"github.com/katalvlaran/subalg/tuple"
)

// TableOp is an operation on {0..n-1} stored as a flat value table.
//
// The table is Horner-indexed with the first argument most significant:
//
//	index(a0, …, a(k-1)) = ((a0·n + a1)·n + …)·n + a(k-1)
//
// so a binary table lists f(0,0), f(0,1), …, f(0,n-1), f(1,0), ….
//
// As an Operation, TableOp applies pointwise to tuples of any common length;
// a nullary TableOp yields a tuple of length 1.
type TableOp struct {
	sym   Symbol
	size  int
	table []int
}

// NewTableOp validates and copies table into a TableOp of the given arity on
// a universe of the given size.
func NewTableOp(name string, arity, size int, table []int) (*TableOp, error) {
	want, err := tableLen(arity, size)
	if err != nil {
		return nil, err
	}
	if len(table) != want {
		return nil, fmt.Errorf("%w: %s has %d entries, want %d", ErrBadTable, name, len(table), want)
	}
	for i, v := range table {
		if v < 0 || v >= size {
			return nil, fmt.Errorf("%w: %s entry %d is %d, outside [0,%d)", ErrBadTable, name, i, v, size)
		}
	}
	cp := make([]int, len(table))
	copy(cp, table)

	return &TableOp{sym: Symbol{Name: name, Arity: arity}, size: size, table: cp}, nil
}

// NewOpFunc tabulates fn over every argument vector of {0..size-1}^arity.
func NewOpFunc(name string, arity, size int, fn func(args []int) int) (*TableOp, error) {
	want, err := tableLen(arity, size)
	if err != nil {
		return nil, err
	}
	table := make([]int, want)
	args := make([]int, arity)
	for idx := 0; idx < want; idx++ {
		// decode idx into args, most significant first
		rem := idx
		for j := arity - 1; j >= 0; j-- {
			args[j] = rem % size
			rem /= size
		}
		table[idx] = fn(args)
	}

	return NewTableOp(name, arity, size, table)
}

// MustOpFunc is NewOpFunc that panics on error; intended for built-ins and tests.
func MustOpFunc(name string, arity, size int, fn func(args []int) int) *TableOp {
	op, err := NewOpFunc(name, arity, size, fn)
	if err != nil {
		panic(err)
	}

	return op
}

func tableLen(arity, size int) (int, error) {
	if size <= 0 {
		return 0, ErrEmptyUniverse
	}
	if arity < 0 {
		return 0, fmt.Errorf("%w: negative arity %d", ErrBadTable, arity)
	}
	n := 1
	for i := 0; i < arity; i++ {
		n *= size
		if n > maxTableEntries {
			return 0, fmt.Errorf("%w: %d^%d entries exceeds limit", ErrBadTable, size, arity)
		}
	}

	return n, nil
}

// Symbol implements Operation.
func (o *TableOp) Symbol() Symbol { return o.sym }

// Arity implements Operation.
func (o *TableOp) Arity() int { return o.sym.Arity }

// Size returns the universe size the table is defined on.
func (o *TableOp) Size() int { return o.size }

// Value returns f(args...). Arguments are not range-checked.
func (o *TableOp) Value(args ...int) int {
	h := 0
	for _, a := range args {
		h = h*o.size + a
	}

	return o.table[h]
}

// ValueAt returns the table entry at a precomputed Horner index.
func (o *TableOp) ValueAt(index int) int { return o.table[index] }

// Table returns a copy of the flat table.
func (o *TableOp) Table() []int {
	cp := make([]int, len(o.table))
	copy(cp, o.table)

	return cp
}

// Apply implements Operation pointwise.
func (o *TableOp) Apply(args []tuple.Tuple) (tuple.Tuple, error) {
	if len(args) != o.sym.Arity {
		return tuple.Tuple{}, fmt.Errorf("%w: %s got %d arguments", ErrArityMismatch, o.sym, len(args))
	}
	if o.sym.Arity == 0 {
		return tuple.Of([]int{o.table[0]}), nil
	}

	return o.applyLen(args, args[0].Len())
}

// applyLen evaluates pointwise on tuples of length width.
func (o *TableOp) applyLen(args []tuple.Tuple, width int) (tuple.Tuple, error) {
	if o.sym.Arity == 0 {
		out := make([]int, width)
		for i := range out {
			out[i] = o.table[0]
		}

		return tuple.Of(out), nil
	}
	for j, a := range args {
		if a.Len() != width {
			return tuple.Tuple{}, fmt.Errorf("%w: %s argument %d has %d coordinates, want %d",
				ErrElementRange, o.sym, j, a.Len(), width)
		}
	}
	out := make([]int, width)
	for i := 0; i < width; i++ {
		h := 0
		for _, a := range args {
			v := a.At(i)
			if v >= o.size {
				return tuple.Tuple{}, fmt.Errorf("%w: %s argument value %d, universe size %d",
					ErrElementRange, o.sym, v, o.size)
			}
			h = h*o.size + v
		}
		out[i] = o.table[h]
	}

	return tuple.Of(out), nil
}
