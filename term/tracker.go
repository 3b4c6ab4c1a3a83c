package term

import (
	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/tuple"
)

// Tracker maps tuples to the terms that produced them.
type Tracker struct {
	arena *Arena
	terms map[tuple.Key]ID
}

// NewTracker returns an empty tracker with its own arena.
func NewTracker() *Tracker {
	return &Tracker{arena: NewArena(), terms: make(map[tuple.Key]ID)}
}

// Arena exposes the underlying arena for rendering and evaluation.
func (t *Tracker) Arena() *Arena { return t.arena }

// RecordLeaf records generator number gen as the term of tp. If tp already
// has a term, the existing one is kept and returned.
func (t *Tracker) RecordLeaf(tp tuple.Tuple, gen int) ID {
	if id, ok := t.terms[tp.Key()]; ok {
		return id
	}
	id := t.arena.Var(gen)
	t.terms[tp.Key()] = id

	return id
}

// RecordDerived records sym(args...) as the term of tp. If tp already has a
// term, the existing one is kept and returned.
func (t *Tracker) RecordDerived(tp tuple.Tuple, sym algebra.Symbol, opIndex int, args []ID) ID {
	if id, ok := t.terms[tp.Key()]; ok {
		return id
	}
	id := t.arena.Apply(sym, opIndex, args...)
	t.terms[tp.Key()] = id

	return id
}

// TermFor returns the term recorded for tp.
func (t *Tracker) TermFor(tp tuple.Tuple) (ID, bool) {
	id, ok := t.terms[tp.Key()]
	return id, ok
}

// Len returns the number of tuples with a recorded term.
func (t *Tracker) Len() int { return len(t.terms) }
