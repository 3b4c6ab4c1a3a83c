package algebra_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/tuple"
)

// AlgebraSuite exercises table operations and the algebra kinds.
type AlgebraSuite struct {
	suite.Suite
	ba2 *algebra.Basic
}

func (s *AlgebraSuite) SetupTest() {
	s.ba2 = algebra.BA2()
}

// TestTableLayout verifies Horner indexing with the first argument most significant.
func (s *AlgebraSuite) TestTableLayout() {
	sub, err := algebra.NewOpFunc("sub", 2, 3, func(x []int) int { return (x[0] - x[1] + 3) % 3 })
	require.NoError(s.T(), err)
	require.Equal(s.T(), []int{0, 2, 1, 1, 0, 2, 2, 1, 0}, sub.Table())
	require.Equal(s.T(), 2, sub.Value(0, 1))
	require.Equal(s.T(), 1, sub.Value(1, 0))
	require.Equal(s.T(), sub.Value(2, 1), sub.ValueAt(2*3+1))
}

// TestNewTableOpErrors covers the table validation paths.
func (s *AlgebraSuite) TestNewTableOpErrors() {
	_, err := algebra.NewTableOp("f", 2, 2, []int{0, 1, 1})
	require.True(s.T(), errors.Is(err, algebra.ErrBadTable))

	_, err = algebra.NewTableOp("f", 1, 2, []int{0, 2})
	require.True(s.T(), errors.Is(err, algebra.ErrBadTable))

	_, err = algebra.NewTableOp("f", 1, 0, nil)
	require.True(s.T(), errors.Is(err, algebra.ErrEmptyUniverse))

	_, err = algebra.NewOpFunc("huge", 30, 2, func([]int) int { return 0 })
	require.True(s.T(), errors.Is(err, algebra.ErrBadTable))
}

// TestPointwiseApply checks that TableOp.Apply works coordinate-wise.
func (s *AlgebraSuite) TestPointwiseApply() {
	join, ok := s.ba2.Op("join")
	require.True(s.T(), ok)

	got, err := join.Apply([]tuple.Tuple{tuple.New(0, 0, 1), tuple.New(0, 1, 0)})
	require.NoError(s.T(), err)
	require.Equal(s.T(), tuple.New(0, 1, 1), got)

	_, err = join.Apply([]tuple.Tuple{tuple.New(0)})
	require.True(s.T(), errors.Is(err, algebra.ErrArityMismatch))

	_, err = join.Apply([]tuple.Tuple{tuple.New(0), tuple.New(0, 1)})
	require.True(s.T(), errors.Is(err, algebra.ErrElementRange))

	one, _ := s.ba2.Op("one")
	got, err = one.Apply(nil)
	require.NoError(s.T(), err)
	require.Equal(s.T(), tuple.New(1), got)
}

// TestPower checks cardinalities, naming and nullary widening.
func (s *AlgebraSuite) TestPower() {
	p, err := algebra.NewPower(s.ba2, 3)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "ba2^3", p.Name())
	require.Equal(s.T(), []int{2, 2, 2}, p.Cardinalities())
	require.Equal(s.T(), 3, p.Exponent())
	require.Same(s.T(), s.ba2, p.Base())

	var zero algebra.Operation
	for _, op := range p.Operations() {
		if op.Symbol().Name == "zero" {
			zero = op
		}
	}
	require.NotNil(s.T(), zero)
	got, err := zero.Apply(nil)
	require.NoError(s.T(), err)
	require.Equal(s.T(), tuple.New(0, 0, 0), got)

	_, err = algebra.NewPower(s.ba2, 0)
	require.Error(s.T(), err)
}

// TestProduct checks per-factor evaluation and signature checks.
func (s *AlgebraSuite) TestProduct() {
	z3, err := algebra.Cyclic(3)
	require.NoError(s.T(), err)
	z2, err := algebra.Cyclic(2)
	require.NoError(s.T(), err)

	p, err := algebra.NewProduct("", z2, z3)
	require.NoError(s.T(), err)
	require.Equal(s.T(), []int{2, 3}, p.Cardinalities())
	require.Equal(s.T(), "z2×z3", p.Name())

	plus := p.Operations()[0]
	got, err := plus.Apply([]tuple.Tuple{tuple.New(1, 2), tuple.New(1, 2)})
	require.NoError(s.T(), err)
	require.Equal(s.T(), tuple.New(0, 1), got)

	_, err = algebra.NewProduct("bad", z2, s.ba2)
	require.True(s.T(), errors.Is(err, algebra.ErrSignatureMismatch))
}

// TestPartition covers construction, queries and congruence detection.
func (s *AlgebraSuite) TestPartition() {
	p, err := algebra.NewPartition([][]int{{2, 0}, {1}, {3}})
	require.NoError(s.T(), err)
	require.Equal(s.T(), 4, p.Size())
	require.Equal(s.T(), 3, p.NumBlocks())
	require.True(s.T(), p.SameBlock(0, 2))
	require.False(s.T(), p.SameBlock(0, 1))
	require.Equal(s.T(), 0, p.Representative(2))
	require.Equal(s.T(), "|0,2|1|3|", p.String())

	_, err = algebra.NewPartition([][]int{{0, 1}, {1}})
	require.True(s.T(), errors.Is(err, algebra.ErrBadPartition))
	_, err = algebra.NewPartition([][]int{{0}, {}})
	require.True(s.T(), errors.Is(err, algebra.ErrBadPartition))

	// In Z_4 the cosets of {0,2} form a congruence; {0,1}|{2}|{3} does not.
	z4, err := algebra.Cyclic(4)
	require.NoError(s.T(), err)
	cosets, _ := algebra.NewPartition([][]int{{0, 2}, {1, 3}})
	require.True(s.T(), cosets.IsCongruenceOf(z4))
	bad, _ := algebra.NewPartition([][]int{{0, 1}, {2}, {3}})
	require.False(s.T(), bad.IsCongruenceOf(z4))
}

// TestYAMLRoundTrip reads back what WriteYAML produced.
func (s *AlgebraSuite) TestYAMLRoundTrip() {
	var buf bytes.Buffer
	require.NoError(s.T(), algebra.WriteYAML(&buf, s.ba2))

	back, err := algebra.ReadYAML(&buf)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "ba2", back.Name())
	require.True(s.T(), algebra.SameSignature(s.ba2, back))
	meet, _ := back.Op("meet")
	require.Equal(s.T(), []int{0, 0, 0, 1}, meet.Table())
}

// TestReadYAMLRejectsUnknownFields keeps the file format strict.
func (s *AlgebraSuite) TestReadYAMLRejectsUnknownFields() {
	_, err := algebra.ReadYAML(strings.NewReader("name: x\nsize: 2\ncolour: red\n"))
	require.Error(s.T(), err)

	_, err = algebra.ReadYAML(strings.NewReader("name: x\nsize: 2\noperations:\n  - {symbol: f, arity: 1, table: [0]}\n"))
	require.True(s.T(), errors.Is(err, algebra.ErrBadTable))
}

// TestBuiltin resolves every built-in name.
func (s *AlgebraSuite) TestBuiltin() {
	for _, name := range []string{"ba2", "cyclic", "semilattice", "trivial"} {
		a, err := algebra.Builtin(name, 3)
		require.NoError(s.T(), err, name)
		require.NotNil(s.T(), a)
	}
	_, err := algebra.Builtin("nope", 2)
	require.Error(s.T(), err)
}

// TestCheckElement validates shape and range.
func (s *AlgebraSuite) TestCheckElement() {
	require.NoError(s.T(), algebra.CheckElement([]int{2, 3}, tuple.New(1, 2)))
	require.True(s.T(), errors.Is(algebra.CheckElement([]int{2, 3}, tuple.New(1)), algebra.ErrElementRange))
	require.True(s.T(), errors.Is(algebra.CheckElement([]int{2, 3}, tuple.New(2, 0)), algebra.ErrElementRange))
}

func TestAlgebraSuite(t *testing.T) {
	suite.Run(t, new(AlgebraSuite))
}
