// Package algebra defines the ambient-algebra capability consumed by the
// closure engine, together with the concrete algebra kinds it ships with.
//
// An Algebra exposes exactly two things:
//
//   - its cardinality structure: one universe size per coordinate, and
//   - a finite list of Operations, each of which applies pointwise to
//     tuples and returns a tuple.
//
// The engine never needs to know which kind of algebra it received. Kinds:
//
//   - Basic:   a single universe {0..n-1} with table-backed operations.
//     Elements are tuples of length 1.
//   - Product: A1 × … × Am of basic algebras sharing one signature.
//   - Power:   B^k; additionally implements PowerAlgebra so that callers
//     can evaluate coordinate-wise on the base tables.
//
// Partition is an opaque congruence-like input used by constraints.
//
// Errors (sentinel):
//
//   - ErrBadTable          if an operation table has the wrong size or range.
//   - ErrArityMismatch     if an operation receives the wrong number of arguments.
//   - ErrElementRange      if a coordinate falls outside its universe.
//   - ErrBadPartition      if partition blocks do not cover the universe exactly once.
//   - ErrSignatureMismatch if product factors disagree on their operations.
package algebra
