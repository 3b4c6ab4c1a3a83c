package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/closure"
	"github.com/katalvlaran/subalg/constraint"
	"github.com/katalvlaran/subalg/tuple"
)

// Sentinel errors.
var (
	// ErrDecode is returned when the job document is not valid YAML for Config.
	ErrDecode = errors.New("job: decode")

	// ErrInvalid is returned when a field fails validation.
	ErrInvalid = errors.New("job: invalid")

	// ErrAlgebraSource is returned when an algebra section names no source, or more than one.
	ErrAlgebraSource = errors.New("job: algebra needs exactly one of file, builtin, inline")
)

// Job is a loaded, validated job ready to run.
type Job struct {
	Config Config

	// ID identifies this job's run in logs and reports.
	ID string

	// PowerPath selects closure.ClosePower when the algebra is a power.
	PowerPath bool

	dir   string
	base  *algebra.Basic
	alg   algebra.Algebra
	power *algebra.Power
	gens  []tuple.Tuple
	finds []algebra.Operation
	opts  []closure.Option
}

// Load decodes a job from r. Algebra files are resolved against the
// working directory.
func Load(r io.Reader) (*Job, error) {
	return load(r, ".")
}

// LoadFile decodes the job at path. Algebra files are resolved against the
// directory holding path.
func LoadFile(path string) (*Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	return load(f, filepath.Dir(path))
}

func load(r io.Reader, dir string) (*Job, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	j := &Job{Config: cfg, ID: uuid.NewString(), PowerPath: true, dir: dir}
	if err := j.build(); err != nil {
		return nil, err
	}

	return j, nil
}

// Algebra returns the algebra the generators live in.
func (j *Job) Algebra() algebra.Algebra { return j.alg }

// Base returns the basic algebra named by the job.
func (j *Job) Base() *algebra.Basic { return j.base }

// Generators returns the parsed generators; empty for a clone search.
func (j *Job) Generators() []tuple.Tuple { return append([]tuple.Tuple(nil), j.gens...) }

// Options returns the closure options derived from the job.
func (j *Job) Options() []closure.Option { return append([]closure.Option(nil), j.opts...) }

// Run executes the job. extra options are applied after the job's own, so
// they override it.
func (j *Job) Run(ctx context.Context, logger *slog.Logger, extra ...closure.Option) (*closure.Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(slog.String("run_id", j.ID))

	opts := make([]closure.Option, 0, len(j.opts)+len(extra)+1)
	opts = append(opts, closure.WithLogger(logger))
	opts = append(opts, j.opts...)
	opts = append(opts, extra...)

	logger.Info("job start",
		slog.String("algebra", j.alg.Name()),
		slog.Int("generators", len(j.gens)),
		slog.Int("find", len(j.finds)),
	)

	switch {
	case len(j.gens) == 0:
		return closure.FindInClone(ctx, j.base, j.finds, opts...)
	case j.power != nil && j.PowerPath:
		return closure.ClosePower(ctx, j.power, j.gens, opts...)
	default:
		return closure.Close(ctx, j.alg, j.gens, opts...)
	}
}

// build resolves algebras and converts the config into closure inputs.
func (j *Job) build() error {
	cfg := &j.Config

	base, err := resolveAlgebra(cfg.Algebra, j.dir)
	if err != nil {
		return err
	}
	j.base, j.alg = base, base
	if cfg.Power > 0 {
		p, err := algebra.NewPower(base, cfg.Power)
		if err != nil {
			return fmt.Errorf("%w: power: %w", ErrInvalid, err)
		}
		j.alg, j.power = p, p
	}

	if j.gens, err = parseTuples("generator", cfg.Generators); err != nil {
		return err
	}

	if cs, err := cfg.Constraints.build(); err != nil {
		return err
	} else if cs != nil {
		j.opts = append(j.opts, closure.WithConstraints(cs))
	}
	if cfg.Terms {
		j.opts = append(j.opts, closure.WithTerms())
	}
	if len(cfg.Target) > 0 {
		t, err := tuple.Parse(cfg.Target)
		if err != nil {
			return fmt.Errorf("%w: target: %w", ErrInvalid, err)
		}
		j.opts = append(j.opts, closure.WithTarget(t))
	}
	if h := cfg.Homomorphism; h != nil {
		img, err := resolveAlgebra(h.Image, j.dir)
		if err != nil {
			return fmt.Errorf("homomorphism image: %w", err)
		}
		var imgAlg algebra.Algebra = img
		if h.Power > 0 {
			if imgAlg, err = algebra.NewPower(img, h.Power); err != nil {
				return fmt.Errorf("%w: homomorphism power: %w", ErrInvalid, err)
			}
		}
		images, err := parseTuples("image", h.Images)
		if err != nil {
			return err
		}
		j.opts = append(j.opts, closure.WithHomomorphism(imgAlg, images...))
	}
	for _, fo := range cfg.Find {
		op, err := algebra.NewTableOp(fo.Symbol, fo.Arity, base.Size(), fo.Table)
		if err != nil {
			return fmt.Errorf("%w: find %s: %w", ErrInvalid, fo.Symbol, err)
		}
		j.finds = append(j.finds, op)
	}
	// FindInClone installs the search itself.
	if len(j.finds) > 0 && len(j.gens) > 0 {
		j.opts = append(j.opts, closure.WithOperationsToFind(base, j.finds...))
	}

	if l := cfg.Limits; l.MaxSize > 0 {
		j.opts = append(j.opts, closure.WithMaxSize(l.MaxSize))
	}
	if l := cfg.Limits; l.MaxPasses > 0 {
		j.opts = append(j.opts, closure.WithMaxPasses(l.MaxPasses))
	}
	if l := cfg.Limits; l.TimeLimit > 0 {
		j.opts = append(j.opts, closure.WithTimeLimit(l.TimeLimit))
	}
	if cfg.Workers > 0 {
		j.opts = append(j.opts, closure.WithWorkers(cfg.Workers))
	}
	if len(cfg.VariableNames) > 0 {
		j.opts = append(j.opts, closure.WithVariableNames(cfg.VariableNames...))
	}

	return nil
}

// resolveAlgebra loads the basic algebra named by src.
func resolveAlgebra(src AlgebraSpec, dir string) (*algebra.Basic, error) {
	sources := 0
	for _, set := range []bool{src.File != "", src.Builtin != "", src.Inline.Kind != 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, ErrAlgebraSource
	}

	switch {
	case src.Builtin != "":
		a, err := algebra.Builtin(src.Builtin, src.Size)
		if err != nil {
			return nil, fmt.Errorf("%w: builtin %s: %w", ErrInvalid, src.Builtin, err)
		}
		return a, nil
	case src.Inline.Kind != 0:
		a, err := algebra.DecodeYAMLNode(&src.Inline)
		if err != nil {
			return nil, fmt.Errorf("%w: inline algebra: %w", ErrInvalid, err)
		}
		return a, nil
	default:
		path := src.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		defer f.Close()
		a, err := algebra.ReadYAML(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, src.File, err)
		}
		return a, nil
	}
}

func parseTuples(what string, rows [][]int) ([]tuple.Tuple, error) {
	out := make([]tuple.Tuple, 0, len(rows))
	for i, row := range rows {
		t, err := tuple.Parse(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %d: %w", ErrInvalid, what, i, err)
		}
		out = append(out, t)
	}

	return out, nil
}

// build converts the rules into a constraint set; nil when no rule is given.
func (s ConstraintSpec) build() (*constraint.Set, error) {
	var opts []constraint.Option
	if len(s.Blocks) > 0 {
		opts = append(opts, constraint.WithBlocks(s.Blocks...))
	}
	for _, f := range s.Fixed {
		opts = append(opts, constraint.WithFixed(constraint.Fixed{Index: f.Index, Value: f.Value}))
	}
	for _, m := range s.Membership {
		opts = append(opts, constraint.WithMembership(m.Index, m.Values...))
	}
	for _, c := range s.Congruence {
		p, err := algebra.NewPartition(c.Blocks)
		if err != nil {
			return nil, fmt.Errorf("%w: congruence: %w", ErrInvalid, err)
		}
		opts = append(opts, constraint.WithCongruence(p, c.Index, c.Element))
	}
	if len(opts) == 0 {
		return nil, nil
	}

	return constraint.New(opts...), nil
}
