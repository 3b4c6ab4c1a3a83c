package algebra

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/subalg/tuple"
)

// Sentinel errors.
var (
	// ErrBadTable indicates a malformed operation table.
	ErrBadTable = errors.New("algebra: bad operation table")

	// ErrArityMismatch indicates that the number of supplied arguments
	// disagrees with the operation's declared arity.
	ErrArityMismatch = errors.New("algebra: arity mismatch")

	// ErrElementRange indicates a coordinate outside the universe.
	ErrElementRange = errors.New("algebra: element out of range")

	// ErrBadPartition indicates malformed partition blocks.
	ErrBadPartition = errors.New("algebra: bad partition")

	// ErrSignatureMismatch indicates that algebras do not share a signature.
	ErrSignatureMismatch = errors.New("algebra: signature mismatch")

	// ErrEmptyUniverse indicates a universe of size zero.
	ErrEmptyUniverse = errors.New("algebra: universe must be non-empty")
)

// maxTableEntries bounds n^arity for table-backed operations.
const maxTableEntries = 1 << 26

// Symbol names an operation and fixes its arity.
type Symbol struct {
	Name  string
	Arity int
}

// String renders the symbol as "name/arity".
func (s Symbol) String() string { return fmt.Sprintf("%s/%d", s.Name, s.Arity) }

// Operation is a finitary operation acting pointwise on tuples.
type Operation interface {
	Symbol() Symbol
	Arity() int
	// Apply evaluates the operation on len(args) == Arity() tuples of equal
	// length and returns a fresh tuple of that length.
	Apply(args []tuple.Tuple) (tuple.Tuple, error)
}

// Algebra is the capability the closure engine consumes.
type Algebra interface {
	Name() string
	// Cardinalities returns one universe size per coordinate.
	Cardinalities() []int
	Operations() []Operation
}

// PowerAlgebra is an Algebra that is literally B^k for a basic algebra B.
type PowerAlgebra interface {
	Algebra
	Base() *Basic
	Exponent() int
}

// Signature returns the operation symbols of alg in order.
func Signature(alg Algebra) []Symbol {
	ops := alg.Operations()
	out := make([]Symbol, len(ops))
	for i, op := range ops {
		out[i] = op.Symbol()
	}

	return out
}

// SameSignature reports whether a and b list the same symbols in the same order.
func SameSignature(a, b Algebra) bool {
	sa, sb := Signature(a), Signature(b)
	if len(sa) != len(sb) {
		return false
	}
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}

	return true
}

// CheckElement validates that t has one coordinate per universe and that
// every coordinate is in range.
func CheckElement(cards []int, t tuple.Tuple) error {
	if t.Len() != len(cards) {
		return fmt.Errorf("%w: tuple %s has %d coordinates, want %d", ErrElementRange, t, t.Len(), len(cards))
	}
	for i, n := range cards {
		if v := t.At(i); v >= n {
			return fmt.Errorf("%w: coordinate %d of %s is %d, universe size %d", ErrElementRange, i, t, v, n)
		}
	}

	return nil
}
