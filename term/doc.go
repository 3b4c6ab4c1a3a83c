// Package term records symbolic provenance for tuples produced by a closure.
//
// Terms form a DAG: a derived term references the terms of its arguments,
// which were recorded earlier. The DAG is stored arena-style: every node
// lives in one growable slice and is addressed by an ID, so there are no
// pointer cycles and sharing a subterm costs nothing.
//
// A Tracker maps tuples to IDs and guarantees soundness: evaluating the term
// recorded for t, with generators substituted for variables, yields t.
// Minimality of terms is not guaranteed.
package term
