// Package tuple provides the element type of product algebras: an immutable,
// fixed-length vector of small non-negative integers with value semantics.
//
// A Tuple is used both as a set element and as a map key. Equality is
// coordinate-wise; Key returns a comparable encoding so that tuples can be
// stored in Go maps without hashing the backing slice by hand.
//
// Complexity:
//
//   - New, Of:   O(k) for a tuple of length k (builds the key once).
//   - At, Len:   O(1).
//   - Key:       O(1) (precomputed).
//   - Equal:     O(1) average (key comparison).
package tuple
