// Package closure computes the subuniverse generated by a set of tuples
// under the operations of a (possibly huge) product algebra.
//
// The engine is a frontier-based saturation loop. Every pass applies every
// operation to every argument combination that draws at least one argument
// from the tuples accepted in the previous pass; purely old combinations can
// produce nothing new and are skipped. New tuples are checked against an
// optional constraint set and accepted into an insertion-ordered set, but
// they only become arguments in the next pass, so a pass never observes its
// own output.
//
// Optional features, all selected through functional Options:
//
//   - WithTerms:            record a term for every accepted tuple.
//   - WithHomomorphism:     check that generator images extend to a homomorphism;
//     a failure yields a FailingEquation and stops the closure.
//   - WithOperationsToFind: search the clone for target operations.
//   - WithTarget:           stop as soon as a given tuple is generated.
//   - WithMaxSize, WithMaxPasses, WithTimeLimit: bound the work; hitting a
//     bound returns the partial set with a non-converged Status.
//   - WithWorkers:          enumerate argument combinations in parallel.
//
// Complexity:
//
//   - Time:  O(Σ_ops |S|^k) applications in total, where S is the result.
//   - Space: O(|S| · width) plus O(|terms|) when terms are tracked.
//
// Errors (sentinel, all configuration errors also match ErrConfiguration):
//
//   - ErrNilAlgebra, ErrNoGenerators, ErrGeneratorArity, ErrGeneratorRange,
//     ErrGeneratorRejected, ErrBadConstraint, ErrBadHomomorphism, ErrBadTarget,
//     ErrOptionViolation.
//   - ErrInternal if an operation disagrees with its own declared arity.
package closure
