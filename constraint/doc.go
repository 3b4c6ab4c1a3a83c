// Package constraint implements the pruning rules applied to every candidate
// tuple before a closure accepts it.
//
// Four independently optional rule kinds combine by logical AND:
//
//   - Blocks:     groups of coordinates that must carry equal values.
//   - Fixed:      (index, value) pairs forcing a coordinate to a value.
//   - Membership: a coordinate must take a value from a finite set.
//   - Congruence: a coordinate must lie in the block of a given element
//     under a Partition of its factor's universe.
//
// Check is pure and safe for concurrent use once the Set is built; no rule
// kind has side effects, so evaluation order is irrelevant. Validate reports
// malformed rules (indices or values out of range) before any closure work.
package constraint
