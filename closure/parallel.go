package closure

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/subalg/tuple"
)

// errTimeLimit is returned by a worker that observed the deadline.
var errTimeLimit = errors.New("closure: time limit reached")

// chunksPerWorker controls how finely the frontier is split.
const chunksPerWorker = 4

// task is one slice of a pass: operation op with its first frontier
// argument at position p restricted to [lo, hi). p is -1 for a nullary op.
type task struct {
	op, p  int
	lo, hi int
}

// candidate is a tuple produced by a worker and not yet accepted.
type candidate struct {
	t    tuple.Tuple
	op   int
	args []int // set indices, kept only when terms are tracked
}

type taskOutput struct {
	cands []candidate
	apps  int64
}

// tasks splits the pass over [prevEnd, end) into independent tasks, in the
// order the sequential pass would visit their first vectors.
func (c *closer) tasks(prevEnd, end int) []task {
	chunk := (end - prevEnd) / (c.opts.Workers * chunksPerWorker)
	if chunk < 1 {
		chunk = 1
	}
	var ts []task
	for j, op := range c.ops {
		k := op.Arity()
		if k == 0 {
			if prevEnd == 0 {
				ts = append(ts, task{op: j, p: -1})
			}
			continue
		}
		for p := 0; p < k; p++ {
			if p > 0 && prevEnd == 0 {
				break
			}
			for lo := prevEnd; lo < end; lo += chunk {
				ts = append(ts, task{op: j, p: p, lo: lo, hi: min(lo+chunk, end)})
			}
		}
	}

	return ts
}

// parallelPass evaluates the tasks of one pass concurrently against the
// frozen accepted set, then merges the candidates sequentially in task
// order. Workers never mutate the set, so a pass still cannot observe its
// own output.
func (c *closer) parallelPass(prevEnd, end int) {
	ts := c.tasks(prevEnd, end)
	outs := make([]taskOutput, len(ts))

	// Each task dedupes locally. Across tasks, a candidate is dropped only
	// when an earlier task already holds it, so the survivors merged in task
	// order do not depend on scheduling.
	seen := tuple.NewConcurrentSet()

	g, gctx := errgroup.WithContext(c.ctx)
	g.SetLimit(c.opts.Workers)
	for i := range ts {
		g.Go(func() error {
			out, err := c.runTask(gctx, ts[i], i, prevEnd, end, seen)
			outs[i] = out
			return err
		})
	}
	err := g.Wait()

	var apps int64
	for _, o := range outs {
		apps += o.apps
	}
	c.prog.RecordApplications(apps)

	switch {
	case err == nil:
	case errors.Is(err, errTimeLimit):
		c.stop(StatusTimeLimit)
		return
	case c.ctx.Err() != nil:
		c.canceled = c.ctx.Err()
		c.stop(StatusCanceled)
		return
	default:
		c.fatal = err
		return
	}

	for _, o := range outs {
		for _, cand := range o.cands {
			if c.set.Contains(cand.t) {
				continue
			}
			c.accept(cand.t, cand.op, cand.args)
			if c.halted() {
				return
			}
		}
	}
}

// runTask enumerates one task; rank is its position in merge order. It only
// reads the accepted set.
func (c *closer) runTask(ctx context.Context, t task, rank, prevEnd, end int, seen *tuple.ConcurrentSet) (taskOutput, error) {
	var out taskOutput
	local := make(map[tuple.Key]struct{})
	k := c.ops[t.op].Arity()
	idx := make([]int, k)
	args := make([]tuple.Tuple, k)
	var vals []int
	var key []byte

	try := func() error {
		for q, i := range idx {
			args[q] = c.set.At(i)
		}
		var err error
		if vals, err = c.eval.eval(t.op, args, vals); err != nil {
			return err
		}
		out.apps++
		if out.apps%checkEvery == 0 {
			if err := c.poll(ctx); err != nil {
				return err
			}
		}
		key = tuple.AppendKey(key[:0], vals)
		if _, ok := c.set.IndexKey(key); ok {
			return nil
		}
		if !c.opts.Constraints.CheckValues(vals) {
			return nil
		}
		if _, dup := local[tuple.Key(key)]; dup {
			return nil
		}
		local[tuple.Key(key)] = struct{}{}
		if !seen.Offer(tuple.Key(key), rank) {
			return nil
		}
		cand := candidate{t: tuple.New(vals...), op: t.op}
		if c.terms != nil {
			cand.args = append([]int(nil), idx...)
		}
		out.cands = append(out.cands, cand)

		return nil
	}

	if k == 0 {
		return out, try()
	}
	it := newCombos(idx, t.p, prevEnd, t.lo, t.hi, end)
	for it.next() {
		if err := try(); err != nil {
			return out, err
		}
	}

	return out, nil
}

// poll is the worker-side checkpoint.
func (c *closer) poll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.deadline.IsZero() && !c.prog.Now().Before(c.deadline) {
		return errTimeLimit
	}

	return nil
}
