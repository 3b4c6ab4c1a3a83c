package constraint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/tuple"
)

// Sentinel errors.
var (
	// ErrIndexRange is returned when a rule references a coordinate that does not exist.
	ErrIndexRange = errors.New("constraint: coordinate index out of range")

	// ErrValueRange is returned when a rule references a value outside the coordinate's universe.
	ErrValueRange = errors.New("constraint: value out of range")

	// ErrEmptyRule is returned for an empty block or an empty membership set.
	ErrEmptyRule = errors.New("constraint: empty rule")

	// ErrPartitionSize is returned when a partition does not match the coordinate's universe.
	ErrPartitionSize = errors.New("constraint: partition size mismatch")

	// ErrViolation describes a tuple that breaks a rule.
	ErrViolation = errors.New("constraint: violated")
)

// Fixed forces coordinate Index to Value.
type Fixed struct {
	Index int
	Value int
}

// Membership restricts coordinate Index to Values.
type Membership struct {
	Index  int
	Values []int
	allow  map[int]struct{}
}

// Congruence restricts coordinate Index to the block of Element under Partition.
type Congruence struct {
	Partition *algebra.Partition
	Index     int
	Element   int
}

// Set is a conjunction of rules. A nil *Set accepts every tuple.
type Set struct {
	blocks      [][]int
	fixed       []Fixed
	memberships []Membership
	congruences []Congruence
}

// Option adds rules to a Set.
type Option func(*Set)

// WithBlocks adds equality blocks. Each block lists coordinate indices.
func WithBlocks(blocks ...[]int) Option {
	return func(s *Set) {
		for _, b := range blocks {
			s.blocks = append(s.blocks, append([]int(nil), b...))
		}
	}
}

// WithFixed adds fixed-value rules.
func WithFixed(fixed ...Fixed) Option {
	return func(s *Set) { s.fixed = append(s.fixed, fixed...) }
}

// WithMembership restricts coordinate index to values.
func WithMembership(index int, values ...int) Option {
	return func(s *Set) {
		m := Membership{Index: index, Values: append([]int(nil), values...), allow: make(map[int]struct{}, len(values))}
		for _, v := range values {
			m.allow[v] = struct{}{}
		}
		s.memberships = append(s.memberships, m)
	}
}

// WithCongruence restricts coordinate index to the p-block of element.
func WithCongruence(p *algebra.Partition, index, element int) Option {
	return func(s *Set) {
		s.congruences = append(s.congruences, Congruence{Partition: p, Index: index, Element: element})
	}
}

// New builds a Set from options.
func New(opts ...Option) *Set {
	s := &Set{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Empty reports whether s has no rules.
func (s *Set) Empty() bool {
	return s == nil ||
		len(s.blocks) == 0 && len(s.fixed) == 0 && len(s.memberships) == 0 && len(s.congruences) == 0
}

// Validate checks every rule against the coordinate cardinalities cards.
func (s *Set) Validate(cards []int) error {
	if s == nil {
		return nil
	}
	n := len(cards)
	index := func(kind string, i int) error {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %s index %d, tuple has %d coordinates", ErrIndexRange, kind, i, n)
		}
		return nil
	}
	for bi, b := range s.blocks {
		if len(b) == 0 {
			return fmt.Errorf("%w: block %d", ErrEmptyRule, bi)
		}
		for _, i := range b {
			if err := index("block", i); err != nil {
				return err
			}
		}
	}
	for _, f := range s.fixed {
		if err := index("fixed", f.Index); err != nil {
			return err
		}
		if f.Value < 0 || f.Value >= cards[f.Index] {
			return fmt.Errorf("%w: fixed value %d at %d, universe size %d", ErrValueRange, f.Value, f.Index, cards[f.Index])
		}
	}
	for _, m := range s.memberships {
		if err := index("membership", m.Index); err != nil {
			return err
		}
		if len(m.Values) == 0 {
			return fmt.Errorf("%w: membership at %d", ErrEmptyRule, m.Index)
		}
		for _, v := range m.Values {
			if v < 0 || v >= cards[m.Index] {
				return fmt.Errorf("%w: membership value %d at %d, universe size %d", ErrValueRange, v, m.Index, cards[m.Index])
			}
		}
	}
	for _, c := range s.congruences {
		if err := index("congruence", c.Index); err != nil {
			return err
		}
		if c.Partition == nil || c.Partition.Size() != cards[c.Index] {
			return fmt.Errorf("%w: coordinate %d has universe size %d", ErrPartitionSize, c.Index, cards[c.Index])
		}
		if c.Element < 0 || c.Element >= cards[c.Index] {
			return fmt.Errorf("%w: congruence element %d at %d", ErrValueRange, c.Element, c.Index)
		}
	}

	return nil
}

// Check reports whether t satisfies every rule. t must have passed shape
// validation against the same cardinalities as Validate.
func (s *Set) Check(t tuple.Tuple) bool { return s.check(t) }

// CheckValues is Check over raw coordinates, for callers probing a scratch
// buffer before building a Tuple.
func (s *Set) CheckValues(vals []int) bool { return s.check(values(vals)) }

// coords is what check needs from a candidate.
type coords interface{ At(i int) int }

type values []int

func (v values) At(i int) int { return v[i] }

func (s *Set) check(t coords) bool {
	if s == nil {
		return true
	}
	for _, b := range s.blocks {
		v := t.At(b[0])
		for _, i := range b[1:] {
			if t.At(i) != v {
				return false
			}
		}
	}
	for _, f := range s.fixed {
		if t.At(f.Index) != f.Value {
			return false
		}
	}
	for _, m := range s.memberships {
		if _, ok := m.allow[t.At(m.Index)]; !ok {
			return false
		}
	}
	for _, c := range s.congruences {
		if !c.Partition.SameBlock(t.At(c.Index), c.Element) {
			return false
		}
	}

	return true
}

// Violation returns nil if t satisfies every rule, or an ErrViolation
// describing the first broken rule.
func (s *Set) Violation(t tuple.Tuple) error {
	if s == nil {
		return nil
	}
	for _, b := range s.blocks {
		v := t.At(b[0])
		for _, i := range b[1:] {
			if t.At(i) != v {
				return fmt.Errorf("%w: block %v has %d at %d and %d at %d", ErrViolation, b, v, b[0], t.At(i), i)
			}
		}
	}
	for _, f := range s.fixed {
		if t.At(f.Index) != f.Value {
			return fmt.Errorf("%w: coordinate %d is %d, fixed to %d", ErrViolation, f.Index, t.At(f.Index), f.Value)
		}
	}
	for _, m := range s.memberships {
		if _, ok := m.allow[t.At(m.Index)]; !ok {
			return fmt.Errorf("%w: coordinate %d is %d, not in %v", ErrViolation, m.Index, t.At(m.Index), m.Values)
		}
	}
	for _, c := range s.congruences {
		if !c.Partition.SameBlock(t.At(c.Index), c.Element) {
			return fmt.Errorf("%w: coordinate %d is %d, not in the block of %d under %s",
				ErrViolation, c.Index, t.At(c.Index), c.Element, c.Partition)
		}
	}

	return nil
}

// String summarises the rules, e.g. "blocks=[[0 1]] fixed=[2:1]".
func (s *Set) String() string {
	if s.Empty() {
		return "none"
	}
	var parts []string
	if len(s.blocks) > 0 {
		parts = append(parts, fmt.Sprintf("blocks=%v", s.blocks))
	}
	if len(s.fixed) > 0 {
		fs := make([]string, len(s.fixed))
		for i, f := range s.fixed {
			fs[i] = fmt.Sprintf("%d:%d", f.Index, f.Value)
		}
		parts = append(parts, "fixed=["+strings.Join(fs, " ")+"]")
	}
	for _, m := range s.memberships {
		parts = append(parts, fmt.Sprintf("member[%d]=%v", m.Index, m.Values))
	}
	for _, c := range s.congruences {
		parts = append(parts, fmt.Sprintf("congruence[%d]~%d%s", c.Index, c.Element, c.Partition))
	}

	return strings.Join(parts, " ")
}
