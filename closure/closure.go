package closure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/progress"
	"github.com/katalvlaran/subalg/term"
	"github.com/katalvlaran/subalg/tuple"
)

// checkEvery is the number of applications between cancellation and
// time-limit checks inside a pass.
const checkEvery = 4096

// closer encapsulates the mutable state of one closure run.
type closer struct {
	ctx   context.Context
	path  string
	alg   algebra.Algebra
	ops   []algebra.Operation
	cards []int
	gens  []tuple.Tuple
	opts  Options
	eval  evaluator

	set   *tuple.Set
	terms *term.Tracker
	ids   []term.ID // term of each accepted tuple, by set index
	hom   *homomorphism
	find  *finder

	target    tuple.Key
	hasTarget bool

	prog     *progress.Tracker
	span     trace.Span
	deadline time.Time

	// pass-local bookkeeping for debug progress lines
	passStart time.Time
	passApps  int64
	passWork  int64

	status  Status
	stopped bool
	found   bool
	failing *term.Equation
	canceled error // context error, returned with the partial result
	fatal    error // internal error, no result

	sinceCheck int
	keybuf     []byte
	valbuf     []int
	argbuf     []tuple.Tuple
	idbuf      []term.ID
}

// Close computes the subuniverse of alg generated by gens.
//
// Configuration problems are reported before any work as errors matching
// ErrConfiguration. Hitting a bound (WithMaxSize, WithMaxPasses,
// WithTimeLimit) is not an error: the partial Result is returned with the
// corresponding Status. Cancellation of ctx returns the partial Result
// together with ctx.Err().
func Close(ctx context.Context, alg algebra.Algebra, gens []tuple.Tuple, opts ...Option) (*Result, error) {
	if alg == nil {
		return nil, ErrNilAlgebra
	}
	c, err := newCloser(ctx, "close", alg, gens, opts)
	if err != nil {
		return nil, err
	}
	c.eval = genericEval{ops: c.ops, cards: c.cards}

	return c.run()
}

// ClosePower is Close specialised to B^k. Operations are evaluated directly
// on the base tables, coordinate by coordinate, into a reused buffer, and a
// Tuple is allocated only for results not yet accepted. The accepted set and
// the recorded terms are identical to those of Close on the same input.
func ClosePower(ctx context.Context, alg algebra.PowerAlgebra, gens []tuple.Tuple, opts ...Option) (*Result, error) {
	if alg == nil {
		return nil, ErrNilAlgebra
	}
	c, err := newCloser(ctx, "close_power", alg, gens, opts)
	if err != nil {
		return nil, err
	}
	ev, err := newPowerEval(alg)
	if err != nil {
		return nil, err
	}
	c.eval = ev

	return c.run()
}

// newCloser applies options and validates everything that can be checked
// before the first application.
func newCloser(ctx context.Context, path string, alg algebra.Algebra, gens []tuple.Tuple, opts []Option) (*closer, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if len(gens) == 0 {
		return nil, ErrNoGenerators
	}

	cards := alg.Cardinalities()
	for i, g := range gens {
		if g.Len() != len(cards) {
			return nil, configErrorf(ErrGeneratorArity, "generator %d %s has %d coordinates, %s has %d",
				i, g, g.Len(), alg.Name(), len(cards))
		}
		if err := algebra.CheckElement(cards, g); err != nil {
			return nil, fmt.Errorf("%w: generator %d: %w", ErrGeneratorRange, i, err)
		}
	}
	if err := o.Constraints.Validate(cards); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConstraint, err)
	}
	for i, g := range gens {
		if err := o.Constraints.Violation(g); err != nil {
			return nil, fmt.Errorf("%w: generator %d %s: %w", ErrGeneratorRejected, i, g, err)
		}
	}

	c := &closer{
		ctx:   ctx,
		path:  path,
		alg:   alg,
		ops:   alg.Operations(),
		cards: cards,
		gens:  gens,
		opts:  o,
		set:   tuple.NewSet(len(gens)),
	}

	if o.ImageAlgebra != nil {
		h, err := newHomomorphism(alg, o.ImageAlgebra, o.Images, len(gens))
		if err != nil {
			return nil, err
		}
		c.hom = h
	}
	if o.Root != nil {
		f, err := newFinder(o.Root, o.FindOps, gens, cards)
		if err != nil {
			return nil, err
		}
		c.find = f
	}
	if o.HasTarget {
		if err := algebra.CheckElement(cards, o.Target); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadTarget, err)
		}
		c.target, c.hasTarget = o.Target.Key(), true
	}
	if o.Terms || c.hom != nil || c.find != nil {
		c.terms = term.NewTracker()
		c.ids = make([]term.ID, 0, len(gens))
	}

	c.prog = progress.New(
		progress.WithLogger(o.Logger),
		progress.WithReporter(o.Reporter),
		progress.WithMetrics(o.Metrics),
	)

	return c, nil
}

// run seeds the generators, saturates, and assembles the Result.
func (c *closer) run() (*Result, error) {
	began := time.Now()
	ctx, span := startCloseSpan(c.ctx, c.path, c.alg.Name(), len(c.gens), len(c.cards))
	c.ctx, c.span = ctx, span
	if c.opts.TimeLimit > 0 {
		c.deadline = c.prog.Now().Add(c.opts.TimeLimit)
	}

	c.opts.Logger.Debug("closure start",
		slog.String("path", c.path),
		slog.String("algebra", c.alg.Name()),
		slog.Int("generators", len(c.gens)),
		slog.Int("width", len(c.cards)),
		slog.Int("operations", len(c.ops)),
		slog.Int("workers", c.opts.Workers),
		slog.String("constraints", c.opts.Constraints.String()),
		slog.Bool("terms", c.terms != nil),
		slog.Bool("homomorphism", c.hom != nil),
	)

	c.seed()
	if !c.stopped {
		c.loop()
	}
	if c.fatal != nil {
		endCloseSpan(span, nil, c.fatal)
		c.opts.Logger.Error("closure failed", slog.String("path", c.path), slog.Any("error", c.fatal))
		return nil, c.fatal
	}

	res := c.result()
	recordRunMetrics(ctx, c.path, res.Status, len(res.Elements), time.Since(began))
	endCloseSpan(span, res, c.canceled)
	c.opts.Logger.Info("closure done",
		slog.String("path", c.path),
		slog.String("status", res.Status.String()),
		slog.Int("size", len(res.Elements)),
		slog.Int("passes", res.Stats.Pass),
		slog.Int64("applications", res.Stats.Applications),
		slog.String("elapsed", progress.FormatElapsed(res.Stats.Elapsed)),
	)

	return res, c.canceled
}

// seed accepts the generators in order. A repeated generator is skipped,
// unless its two images disagree, which is a failing equation x_i = x_j.
func (c *closer) seed() {
	for i, g := range c.gens {
		idx, added := c.set.Add(g)
		if !added {
			if c.hom != nil && !c.hom.images[idx].Equal(c.hom.gens[i]) {
				c.failing = &term.Equation{Left: c.ids[idx], Right: c.terms.Arena().Var(i)}
				c.stop(StatusHomomorphismFailed)
				return
			}
			continue
		}
		c.prog.RecordAcceptance()
		id := term.NoTerm
		if c.terms != nil {
			id = c.terms.RecordLeaf(g, i)
			c.ids = append(c.ids, id)
		}
		if c.hom != nil {
			c.hom.images = append(c.hom.images, c.hom.gens[i])
		}
		if c.accepted(g, id) {
			return
		}
	}
}

// loop runs passes until the frontier is empty or an exit fires.
func (c *closer) loop() {
	prevEnd, end := 0, c.set.Len()
	for !c.stopped {
		if prevEnd == end {
			c.stop(StatusClosed)
			return
		}
		if c.opts.MaxPasses > 0 && c.prog.Pass() >= c.opts.MaxPasses {
			c.stop(StatusPassLimit)
			return
		}
		if c.checkpoint() {
			return
		}

		c.prog.StartPass(end - prevEnd)
		addPassEvent(c.span, c.prog.Pass(), end-prevEnd, end)
		c.passStart, c.passApps = c.prog.Now(), c.prog.Applications()
		c.passWork = c.work(prevEnd, end)

		if c.opts.Workers > 1 && c.hom == nil {
			c.parallelPass(prevEnd, end)
		} else {
			c.sequentialPass(prevEnd, end)
		}
		if c.fatal != nil {
			return
		}
		prevEnd, end = end, c.set.Len()
	}
}

// sequentialPass applies every operation to every argument vector over
// [0, end) with at least one index in the frontier [prevEnd, end).
// Nullary operations only run in the first pass.
func (c *closer) sequentialPass(prevEnd, end int) {
	for j, op := range c.ops {
		k := op.Arity()
		if k == 0 {
			if prevEnd == 0 {
				c.consider(j, nil)
			}
			if c.halted() {
				return
			}
			continue
		}
		idx := make([]int, k)
		for p := 0; p < k; p++ {
			it := newCombos(idx, p, prevEnd, prevEnd, end, end)
			for it.next() {
				c.consider(j, idx)
				if c.halted() {
					return
				}
			}
		}
	}
}

// work returns the number of applications a pass over the frontier
// [prevEnd, end) performs.
func (c *closer) work(prevEnd, end int) int64 {
	var total int64
	for _, op := range c.ops {
		k := op.Arity()
		if k == 0 {
			if prevEnd == 0 {
				total = addSat(total, 1)
			}
			continue
		}
		idx := make([]int, k)
		for p := 0; p < k; p++ {
			total = addSat(total, newCombos(idx, p, prevEnd, prevEnd, end, end).count())
		}
	}

	return total
}

// consider evaluates operation j on the tuples at idx and accepts the
// result if it is new and allowed.
func (c *closer) consider(j int, idx []int) {
	if c.tick() {
		return
	}
	vals, err := c.eval.eval(j, c.args(idx), c.valbuf)
	if err != nil {
		c.fatal = err
		return
	}
	c.valbuf = vals
	c.prog.RecordApplication()

	c.keybuf = tuple.AppendKey(c.keybuf[:0], vals)
	if i, ok := c.set.IndexKey(c.keybuf); ok {
		if c.hom != nil {
			c.recheck(i, j, idx)
		}
		return
	}
	if !c.opts.Constraints.CheckValues(vals) {
		return
	}
	c.accept(tuple.New(vals...), j, idx)
}

// recheck compares the image of a new derivation of the tuple at index i
// with its recorded image.
func (c *closer) recheck(i, j int, idx []int) {
	img, err := c.hom.image(j, idx)
	if err != nil {
		c.fatal = err
		return
	}
	if img.Equal(c.hom.images[i]) {
		return
	}
	right := c.terms.Arena().Apply(c.ops[j].Symbol(), j, c.argTerms(idx)...)
	c.failing = &term.Equation{Left: c.ids[i], Right: right}
	c.opts.Logger.Debug("homomorphism fails",
		slog.String("tuple", c.set.At(i).String()),
		slog.String("recorded", c.hom.images[i].String()),
		slog.String("derived", img.String()),
	)
	c.stop(StatusHomomorphismFailed)
}

// accept adds t, derived as ops[j] over the tuples at idx, and runs the
// per-acceptance exit checks.
func (c *closer) accept(t tuple.Tuple, j int, idx []int) {
	var img tuple.Tuple
	if c.hom != nil {
		var err error
		if img, err = c.hom.image(j, idx); err != nil {
			c.fatal = err
			return
		}
	}
	c.set.Add(t)
	c.prog.RecordAcceptance()
	id := term.NoTerm
	if c.terms != nil {
		id = c.terms.RecordDerived(t, c.ops[j].Symbol(), j, c.argTerms(idx))
		c.ids = append(c.ids, id)
	}
	if c.hom != nil {
		c.hom.images = append(c.hom.images, img)
	}
	c.accepted(t, id)
}

// accepted runs the exit checks for a freshly accepted t and reports whether
// the closure stopped.
func (c *closer) accepted(t tuple.Tuple, id term.ID) bool {
	hit := c.hasTarget && t.Key() == c.target
	if hit {
		c.found = true
	}
	switch {
	case c.find != nil && c.find.match(t, id):
		c.stop(StatusAllOperationsFound)
	case hit:
		c.stop(StatusTargetFound)
	case c.opts.MaxSize > 0 && c.set.Len() >= c.opts.MaxSize:
		c.stop(StatusSizeLimit)
	}

	return c.stopped
}

// tick counts one application and runs checkpoint every checkEvery calls.
func (c *closer) tick() bool {
	c.sinceCheck++
	if c.sinceCheck < checkEvery {
		return c.stopped
	}
	c.sinceCheck = 0

	return c.checkpoint()
}

// checkpoint consults the context and the time limit.
func (c *closer) checkpoint() bool {
	if err := c.prog.Check(c.ctx); err != nil {
		c.canceled = err
		c.stop(StatusCanceled)
		return true
	}
	if !c.deadline.IsZero() && !c.prog.Now().Before(c.deadline) {
		c.stop(StatusTimeLimit)
		return true
	}
	if c.prog.Pass() > 0 && c.opts.Logger.Enabled(c.ctx, slog.LevelDebug) {
		done := c.prog.Applications() - c.passApps
		c.opts.Logger.Debug("closure progress",
			slog.Int("pass", c.prog.Pass()),
			slog.Int64("done", done),
			slog.Int64("total", c.passWork),
			slog.Int("size", c.set.Len()),
			slog.Duration("eta", c.prog.ETA(c.passStart, done, c.passWork)),
		)
	}

	return false
}

func (c *closer) stop(s Status) {
	c.status = s
	c.stopped = true
}

func (c *closer) halted() bool { return c.stopped || c.fatal != nil }

// args loads the tuples at idx into the shared argument buffer.
func (c *closer) args(idx []int) []tuple.Tuple {
	if cap(c.argbuf) < len(idx) {
		c.argbuf = make([]tuple.Tuple, len(idx))
	}
	args := c.argbuf[:len(idx)]
	for q, i := range idx {
		args[q] = c.set.At(i)
	}

	return args
}

// argTerms loads the terms of the tuples at idx into the shared ID buffer.
func (c *closer) argTerms(idx []int) []term.ID {
	c.idbuf = c.idbuf[:0]
	for _, i := range idx {
		c.idbuf = append(c.idbuf, c.ids[i])
	}

	return c.idbuf
}

func (c *closer) result() *Result {
	res := &Result{
		Elements:        c.set.Slice(),
		Status:          c.status,
		Terms:           c.terms,
		FailingEquation: c.failing,
		Found:           c.found,
		Stats:           c.prog.Finish(),
		index:           c.set,
		names:           c.opts.VariableNames,
	}
	if c.find != nil {
		res.FoundOperations = c.find.out
	}

	return res
}
