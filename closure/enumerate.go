package closure

import "math"

// combos enumerates argument index vectors in lexicographic order (last
// position fastest). Position p ranges over [pLo, pHi), positions before p
// over [0, prevEnd) and positions after p over [0, end).
//
// With pLo, pHi = prevEnd, end this yields exactly the vectors over [0, end)
// whose first index inside the frontier [prevEnd, end) is at position p, so
// running p over 0..k-1 visits every vector touching the frontier once.
type combos struct {
	idx     []int
	lo, hi  []int
	started bool
	done    bool
}

func newCombos(idx []int, p, prevEnd, pLo, pHi, end int) *combos {
	k := len(idx)
	c := &combos{idx: idx, lo: make([]int, k), hi: make([]int, k)}
	for q := 0; q < k; q++ {
		switch {
		case q < p:
			c.hi[q] = prevEnd
		case q == p:
			c.lo[q], c.hi[q] = pLo, pHi
		default:
			c.hi[q] = end
		}
		if c.lo[q] >= c.hi[q] {
			c.done = true
		}
	}

	return c
}

// next advances idx to the next vector and reports whether there was one.
func (c *combos) next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		copy(c.idx, c.lo)
		return true
	}
	for q := len(c.idx) - 1; q >= 0; q-- {
		c.idx[q]++
		if c.idx[q] < c.hi[q] {
			return true
		}
		c.idx[q] = c.lo[q]
	}
	c.done = true

	return false
}

// count returns the number of vectors, saturating at math.MaxInt64.
func (c *combos) count() int64 {
	if c.done && !c.started {
		return 0
	}
	n := int64(1)
	for q := range c.lo {
		n = mulSat(n, int64(c.hi[q]-c.lo[q]))
	}

	return n
}

func mulSat(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}

	return a * b
}

func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}

	return a + b
}
