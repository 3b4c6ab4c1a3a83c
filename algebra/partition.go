package algebra

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Partition is a partition of {0..n-1} into disjoint blocks, typically a
// congruence computed elsewhere. It is consumed only through SameBlock and
// Representative.
type Partition struct {
	rep    []int // rep[x] = least element of x's block
	blocks int
}

// NewPartition builds a partition from explicit blocks. The blocks must be
// non-empty and cover {0..n-1} exactly once, where n is the total number of
// listed elements.
func NewPartition(blocks [][]int) (*Partition, error) {
	n := 0
	for _, b := range blocks {
		if len(b) == 0 {
			return nil, fmt.Errorf("%w: empty block", ErrBadPartition)
		}
		n += len(b)
	}
	rep := make([]int, n)
	for i := range rep {
		rep[i] = -1
	}
	for _, b := range blocks {
		least := b[0]
		for _, x := range b {
			if x < least {
				least = x
			}
		}
		for _, x := range b {
			if x < 0 || x >= n {
				return nil, fmt.Errorf("%w: element %d outside [0,%d)", ErrBadPartition, x, n)
			}
			if rep[x] != -1 {
				return nil, fmt.Errorf("%w: element %d listed twice", ErrBadPartition, x)
			}
			rep[x] = least
		}
	}

	return &Partition{rep: rep, blocks: len(blocks)}, nil
}

// Size returns the size of the underlying universe.
func (p *Partition) Size() int { return len(p.rep) }

// NumBlocks returns the number of blocks.
func (p *Partition) NumBlocks() int { return p.blocks }

// Representative returns the least element of x's block.
func (p *Partition) Representative(x int) int { return p.rep[x] }

// SameBlock reports whether x and y are related.
func (p *Partition) SameBlock(x, y int) bool { return p.rep[x] == p.rep[y] }

// Blocks returns the blocks sorted by representative.
func (p *Partition) Blocks() [][]int {
	byRep := make(map[int][]int, p.blocks)
	for x, r := range p.rep {
		byRep[r] = append(byRep[r], x)
	}
	reps := make([]int, 0, len(byRep))
	for r := range byRep {
		reps = append(reps, r)
	}
	sort.Ints(reps)
	out := make([][]int, len(reps))
	for i, r := range reps {
		out[i] = byRep[r]
	}

	return out
}

// String renders the partition as "|0,1|2|".
func (p *Partition) String() string {
	var sb strings.Builder
	sb.WriteByte('|')
	for _, b := range p.Blocks() {
		for i, x := range b {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(x))
		}
		sb.WriteByte('|')
	}

	return sb.String()
}

// IsCongruenceOf reports whether p is compatible with every operation of a.
func (p *Partition) IsCongruenceOf(a *Basic) bool {
	if p.Size() != a.size {
		return false
	}
	for _, op := range a.ops {
		if !p.compatible(op) {
			return false
		}
	}

	return true
}

// compatible checks f(x…) θ f(y…) whenever x_i θ y_i for all i, one
// argument position at a time (sufficient for compatibility).
func (p *Partition) compatible(op *TableOp) bool {
	k, n := op.sym.Arity, op.size
	if k == 0 {
		return true
	}
	args := make([]int, k)
	total := len(op.table)
	for idx := 0; idx < total; idx++ {
		rem := idx
		for j := k - 1; j >= 0; j-- {
			args[j] = rem % n
			rem /= n
		}
		v := op.table[idx]
		for j := 0; j < k; j++ {
			orig := args[j]
			for y := 0; y < n; y++ {
				if y == orig || !p.SameBlock(orig, y) {
					continue
				}
				args[j] = y
				if !p.SameBlock(v, op.Value(args...)) {
					return false
				}
			}
			args[j] = orig
		}
	}

	return true
}
