package tuple

import (
	"encoding/binary"
	"errors"
	"strconv"
	"strings"
)

// ErrNegative is returned when a coordinate is negative.
var ErrNegative = errors.New("tuple: negative coordinate")

// Key is a comparable encoding of a Tuple. Two tuples are equal iff their
// keys are equal; the encoding is self-delimiting, so tuples of different
// lengths never collide.
type Key string

// Tuple is an immutable sequence of non-negative ints.
// The zero value is the empty tuple.
type Tuple struct {
	vals []int
	key  Key
}

// New copies vals into a fresh Tuple.
// Panics if any coordinate is negative; use Parse for untrusted input.
func New(vals ...int) Tuple {
	cp := make([]int, len(vals))
	copy(cp, vals)

	return Of(cp)
}

// Of builds a Tuple that takes ownership of vals. The caller must not
// modify vals afterwards.
func Of(vals []int) Tuple {
	for _, v := range vals {
		if v < 0 {
			panic(ErrNegative)
		}
	}

	return Tuple{vals: vals, key: Key(AppendKey(make([]byte, 0, len(vals)+2), vals))}
}

// Parse validates vals and returns a copy as a Tuple.
func Parse(vals []int) (Tuple, error) {
	for i, v := range vals {
		if v < 0 {
			return Tuple{}, &CoordinateError{Index: i, Value: v}
		}
	}

	return New(vals...), nil
}

// CoordinateError reports an invalid coordinate.
type CoordinateError struct {
	Index int
	Value int
}

func (e *CoordinateError) Error() string {
	return "tuple: coordinate " + strconv.Itoa(e.Index) + " is negative (" + strconv.Itoa(e.Value) + ")"
}

// Unwrap lets errors.Is match ErrNegative.
func (e *CoordinateError) Unwrap() error { return ErrNegative }

// AppendKey appends the key encoding of vals to dst. It allows callers to
// probe a Set with a scratch buffer before committing to a Tuple.
func AppendKey(dst []byte, vals []int) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(vals)))
	for _, v := range vals {
		dst = binary.AppendUvarint(dst, uint64(v))
	}

	return dst
}

// Len returns the number of coordinates.
func (t Tuple) Len() int { return len(t.vals) }

// At returns coordinate i.
func (t Tuple) At(i int) int { return t.vals[i] }

// Values returns a copy of the coordinates.
func (t Tuple) Values() []int {
	cp := make([]int, len(t.vals))
	copy(cp, t.vals)

	return cp
}

// AppendTo appends the coordinates to dst.
func (t Tuple) AppendTo(dst []int) []int { return append(dst, t.vals...) }

// Key returns the comparable encoding of t.
func (t Tuple) Key() Key {
	if t.key == "" {
		// zero value: encode the empty tuple lazily
		return Key(AppendKey(nil, nil))
	}

	return t.key
}

// Equal reports whether t and u have the same coordinates.
func (t Tuple) Equal(u Tuple) bool { return t.Key() == u.Key() }

// IsZero reports whether t is the zero (empty) tuple.
func (t Tuple) IsZero() bool { return len(t.vals) == 0 }

// String renders t as "(a,b,c)".
func (t Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range t.vals {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	sb.WriteByte(')')

	return sb.String()
}
