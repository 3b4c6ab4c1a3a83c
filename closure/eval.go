package closure

import (
	"fmt"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/tuple"
)

// evaluator computes ops[j](args) into buf and returns the filled buffer.
// Implementations must be safe for concurrent use with distinct buffers.
type evaluator interface {
	eval(j int, args []tuple.Tuple, buf []int) ([]int, error)
}

// genericEval goes through Operation.Apply and copies the result out.
// Results are checked against cards: an operation that leaves the universe
// is a broken algebra, not a new element.
type genericEval struct {
	ops   []algebra.Operation
	cards []int
}

func (e genericEval) eval(j int, args []tuple.Tuple, buf []int) ([]int, error) {
	t, err := e.ops[j].Apply(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInternal, e.ops[j].Symbol(), err)
	}
	if err := algebra.CheckElement(e.cards, t); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInternal, e.ops[j].Symbol(), err)
	}

	return t.AppendTo(buf[:0]), nil
}

// powerEval evaluates base-table operations coordinate by coordinate. The
// Horner index of coordinate i is built from args[0].At(i), … most
// significant first, matching the TableOp layout.
type powerEval struct {
	ops  []*algebra.TableOp
	size int
	k    int
}

func newPowerEval(alg algebra.PowerAlgebra) (powerEval, error) {
	base := alg.Base()
	if base == nil {
		return powerEval{}, ErrNilAlgebra
	}
	tops := base.TableOps()
	ops := alg.Operations()
	if len(tops) != len(ops) {
		return powerEval{}, fmt.Errorf("%w: %w: power has %d operations, base has %d",
			ErrInternal, algebra.ErrSignatureMismatch, len(ops), len(tops))
	}
	for j, op := range ops {
		if op.Symbol() != tops[j].Symbol() {
			return powerEval{}, fmt.Errorf("%w: %w: operation %d is %s in the power, %s in the base",
				ErrInternal, algebra.ErrSignatureMismatch, j, op.Symbol(), tops[j].Symbol())
		}
	}

	return powerEval{ops: tops, size: base.Size(), k: alg.Exponent()}, nil
}

func (e powerEval) eval(j int, args []tuple.Tuple, buf []int) ([]int, error) {
	op := e.ops[j]
	if len(args) != op.Arity() {
		return nil, fmt.Errorf("%w: %w: %s got %d arguments",
			ErrInternal, algebra.ErrArityMismatch, op.Symbol(), len(args))
	}
	buf = buf[:0]
	if len(args) == 0 {
		c := op.ValueAt(0)
		for i := 0; i < e.k; i++ {
			buf = append(buf, c)
		}

		return buf, nil
	}
	for i := 0; i < e.k; i++ {
		h := 0
		for _, a := range args {
			h = h*e.size + a.At(i)
		}
		buf = append(buf, op.ValueAt(h))
	}

	return buf, nil
}
