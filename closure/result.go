package closure

import (
	"github.com/katalvlaran/subalg/progress"
	"github.com/katalvlaran/subalg/term"
	"github.com/katalvlaran/subalg/tuple"
)

// Result holds the outcome of a closure run.
//
//   - Elements is the accepted set in discovery order: generators first,
//     then each pass's new tuples. Order is stable for a given input and
//     worker count but is not otherwise meaningful.
//   - Status says why the run stopped; Converged reports a true fixpoint.
//   - Terms is nil unless terms were tracked.
//   - FailingEquation is set only with StatusHomomorphismFailed.
//   - FoundOperations maps each realised target operation to its term.
type Result struct {
	Elements        []tuple.Tuple
	Status          Status
	Terms           *term.Tracker
	FailingEquation *term.Equation
	FoundOperations map[string]term.ID
	Found           bool
	Stats           progress.Stats

	index *tuple.Set
	names []string
}

// Converged reports whether the elements form a closed subuniverse.
func (r *Result) Converged() bool { return r.Status == StatusClosed }

// Len returns the number of elements.
func (r *Result) Len() int { return len(r.Elements) }

// Contains reports whether t was accepted.
func (r *Result) Contains(t tuple.Tuple) bool {
	if r.index != nil {
		return r.index.Contains(t)
	}
	for _, e := range r.Elements {
		if e.Equal(t) {
			return true
		}
	}

	return false
}

// TermFor returns the term recorded for t.
func (r *Result) TermFor(t tuple.Tuple) (term.ID, bool) {
	if r.Terms == nil {
		return term.NoTerm, false
	}

	return r.Terms.TermFor(t)
}

// TermString renders the term of t, or "" when none was recorded.
func (r *Result) TermString(t tuple.Tuple) string {
	id, ok := r.TermFor(t)
	if !ok {
		return ""
	}

	return r.Terms.Arena().String(id, r.names)
}

// EquationString renders the failing equation, or "" when there is none.
func (r *Result) EquationString() string {
	if r.FailingEquation == nil || r.Terms == nil {
		return ""
	}

	return r.FailingEquation.String(r.Terms.Arena(), r.names)
}

// OperationString renders the term found for the named target operation.
func (r *Result) OperationString(name string) string {
	id, ok := r.FoundOperations[name]
	if !ok || r.Terms == nil {
		return ""
	}

	return r.Terms.Arena().String(id, r.names)
}
