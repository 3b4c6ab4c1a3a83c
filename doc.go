// Package subalg computes subuniverses of finite product algebras: given a
// few tuples, find every tuple they generate under the operations.
//
// What is subalg?
//
//	An in-memory closure engine for universal algebra that brings together:
//		• Tuples & sets: value-keyed tuples, insertion-ordered accepted sets
//		• Algebras: basic (table-driven), products and powers, YAML files
//		• Closure: frontier saturation, sequential or parallel
//		• Power path: coordinate-wise table lookups without allocation
//		• Terms: a provenance term for every generated tuple
//		• Homomorphisms: detect maps on generators that do not extend
//		• Clones: decide whether an operation is a term operation
//		• Constraints: prune by blocks, fixed values, membership, congruence
//
// The module is organized as:
//
//	tuple/       Tuple, Key, Set, ConcurrentSet
//	algebra/     Algebra & Operation interfaces, Basic, Product, Power, Partition, built-ins
//	term/        arena-backed terms, evaluation, equations, Tracker
//	constraint/  pruning rules applied to every candidate
//	progress/    pass counters, elapsed formatting, ETA, Prometheus metrics
//	closure/     Close, ClosePower, FindInClone
//	job/         YAML job files → closure runs → JSON reports
//	cmd/sgclose  command-line front end
//
// Quick example: the Boolean square ba2² is generated by (0,0) and (0,1):
//
//	(0,0) (0,1)  ──neg──▶  (1,1) (1,0)
//
//	go install github.com/katalvlaran/subalg/cmd/sgclose@latest
package subalg
