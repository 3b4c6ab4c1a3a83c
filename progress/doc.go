// Package progress tracks pass and application counters for a long-running
// closure and reports throughput, elapsed time and an estimated completion
// time for the current pass.
//
// A Tracker is an explicit state object owned by one closure run; nothing in
// this package is global, so concurrent closures never interfere. The
// tracker is purely observational: removing it must not change what a
// closure computes.
package progress
