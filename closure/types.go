package closure

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/constraint"
	"github.com/katalvlaran/subalg/progress"
	"github.com/katalvlaran/subalg/tuple"
)

// ErrConfiguration is matched by every error reported before the first pass.
var ErrConfiguration = errors.New("closure: configuration error")

// configError marks a sentinel as a configuration error.
type configError struct{ msg string }

func (e *configError) Error() string { return e.msg }

// Is lets errors.Is(err, ErrConfiguration) match every configuration sentinel.
func (e *configError) Is(target error) bool { return target == ErrConfiguration }

func newConfigError(msg string) error { return &configError{msg: msg} }

// Sentinel errors.
var (
	// ErrNilAlgebra is returned when no algebra is supplied.
	ErrNilAlgebra = newConfigError("closure: algebra is nil")

	// ErrNoGenerators is returned for an empty generator list.
	ErrNoGenerators = newConfigError("closure: no generators")

	// ErrGeneratorArity is returned when a generator's length differs from
	// the algebra's coordinate count.
	ErrGeneratorArity = newConfigError("closure: generator length mismatch")

	// ErrGeneratorRange is returned when a generator coordinate is outside its universe.
	ErrGeneratorRange = newConfigError("closure: generator coordinate out of range")

	// ErrGeneratorRejected is returned when a generator violates a constraint.
	ErrGeneratorRejected = newConfigError("closure: generator violates constraints")

	// ErrBadConstraint is returned for a malformed constraint set.
	ErrBadConstraint = newConfigError("closure: malformed constraint")

	// ErrBadHomomorphism is returned for an inconsistent homomorphism setup.
	ErrBadHomomorphism = newConfigError("closure: malformed homomorphism")

	// ErrBadTarget is returned for a malformed target element or target operation.
	ErrBadTarget = newConfigError("closure: malformed target")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = newConfigError("closure: invalid option supplied")

	// ErrInternal is returned when an operation's declared arity disagrees
	// with the arguments it was handed. It indicates a broken Algebra.
	ErrInternal = errors.New("closure: internal consistency error")
)

// configErrorf wraps kind with context while keeping errors.Is working for
// both kind and ErrConfiguration.
func configErrorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Status says why a closure stopped.
type Status int

const (
	// StatusClosed means a fixpoint was reached: the set is closed.
	StatusClosed Status = iota
	// StatusTargetFound means the target element was generated.
	StatusTargetFound
	// StatusAllOperationsFound means every operation to find was realised.
	StatusAllOperationsFound
	// StatusHomomorphismFailed means a FailingEquation was found.
	StatusHomomorphismFailed
	// StatusSizeLimit means the accepted set reached WithMaxSize.
	StatusSizeLimit
	// StatusPassLimit means WithMaxPasses passes ran without a fixpoint.
	StatusPassLimit
	// StatusTimeLimit means WithTimeLimit elapsed.
	StatusTimeLimit
	// StatusCanceled means the context was canceled.
	StatusCanceled
)

// String returns a stable, lower-case name.
func (s Status) String() string {
	switch s {
	case StatusClosed:
		return "closed"
	case StatusTargetFound:
		return "target_found"
	case StatusAllOperationsFound:
		return "all_operations_found"
	case StatusHomomorphismFailed:
		return "homomorphism_failed"
	case StatusSizeLimit:
		return "size_limit"
	case StatusPassLimit:
		return "pass_limit"
	case StatusTimeLimit:
		return "time_limit"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Exhausted reports whether s is a resource bound rather than a logical outcome.
func (s Status) Exhausted() bool {
	return s == StatusSizeLimit || s == StatusPassLimit || s == StatusTimeLimit || s == StatusCanceled
}

// Options holds the closure configuration.
type Options struct {
	Constraints *constraint.Set

	// Terms enables term tracking. Homomorphism checking and operation
	// search turn it on implicitly.
	Terms bool

	// Image algebra and generator images for homomorphism checking.
	ImageAlgebra algebra.Algebra
	Images       []tuple.Tuple

	// Root algebra and target operations to express as terms.
	Root      *algebra.Basic
	FindOps   []algebra.Operation
	Target    tuple.Tuple
	HasTarget bool

	// MaxSize, MaxPasses: 0 disables the bound.
	MaxSize   int
	MaxPasses int
	// TimeLimit: 0 disables the bound.
	TimeLimit time.Duration

	// Workers > 1 enables parallel enumeration.
	Workers int

	Logger        *slog.Logger
	Reporter      progress.Reporter
	Metrics       *progress.Metrics
	VariableNames []string

	// internal error recorded during option parsing
	err error
}

// Option configures a closure.
type Option func(*Options)

// DefaultOptions returns the defaults: no constraints, no terms, no bounds,
// sequential enumeration, a discarding logger.
func DefaultOptions() Options {
	return Options{
		Workers: 1,
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// WithConstraints prunes candidates with cs.
func WithConstraints(cs *constraint.Set) Option {
	return func(o *Options) { o.Constraints = cs }
}

// WithTerms records a term for every accepted tuple.
func WithTerms() Option {
	return func(o *Options) { o.Terms = true }
}

// WithHomomorphism checks that sending generator i to images[i] extends to a
// homomorphism into img.
func WithHomomorphism(img algebra.Algebra, images ...tuple.Tuple) Option {
	return func(o *Options) {
		if img == nil {
			o.err = fmt.Errorf("%w: nil image algebra", ErrOptionViolation)
			return
		}
		o.ImageAlgebra = img
		o.Images = append([]tuple.Tuple(nil), images...)
	}
}

// WithOperationsToFind searches for terms realising ops, operations of root.
func WithOperationsToFind(root *algebra.Basic, ops ...algebra.Operation) Option {
	return func(o *Options) {
		if root == nil {
			o.err = fmt.Errorf("%w: nil root algebra", ErrOptionViolation)
			return
		}
		o.Root = root
		o.FindOps = append(o.FindOps, ops...)
	}
}

// WithTarget stops the closure as soon as t is generated.
func WithTarget(t tuple.Tuple) Option {
	return func(o *Options) {
		o.Target = t
		o.HasTarget = true
	}
}

// WithMaxSize bounds the number of accepted tuples.
//
//	n > 0:  stop once the set holds n tuples
//	n == 0: no bound
//	n < 0:  invalid option → ErrOptionViolation
func WithMaxSize(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxSize cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxSize = n
	}
}

// WithMaxPasses bounds the number of passes (0 = no bound).
func WithMaxPasses(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxPasses cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxPasses = n
	}
}

// WithTimeLimit bounds wall-clock time (0 = no bound).
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: TimeLimit cannot be negative (%s)", ErrOptionViolation, d)
			return
		}
		o.TimeLimit = d
	}
}

// WithWorkers sets the number of enumeration workers; values below 1 are invalid.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: Workers must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.Workers = n
	}
}

// WithLogger routes diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithReporter receives progress snapshots at pass boundaries.
func WithReporter(r progress.Reporter) Option {
	return func(o *Options) { o.Reporter = r }
}

// WithMetrics mirrors progress counters into Prometheus collectors.
func WithMetrics(m *progress.Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithVariableNames names generator variables when rendering terms.
func WithVariableNames(names ...string) Option {
	return func(o *Options) { o.VariableNames = append([]string(nil), names...) }
}
