package constraint_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/constraint"
	"github.com/katalvlaran/subalg/tuple"
)

// TestNilAndEmpty verifies that a nil or empty set accepts everything.
func TestNilAndEmpty(t *testing.T) {
	var s *constraint.Set
	require.True(t, s.Empty())
	require.True(t, s.Check(tuple.New(1, 0)))
	require.NoError(t, s.Validate([]int{2, 2}))
	require.True(t, constraint.New().Empty())
	require.Equal(t, "none", constraint.New().String())
}

// TestCheck covers each rule kind in isolation and in conjunction.
func TestCheck(t *testing.T) {
	theta, err := algebra.NewPartition([][]int{{0, 2}, {1}})
	require.NoError(t, err)

	cases := []struct {
		name string
		set  *constraint.Set
		ok   []tuple.Tuple
		bad  []tuple.Tuple
	}{
		{
			name: "blocks",
			set:  constraint.New(constraint.WithBlocks([]int{0, 2})),
			ok:   []tuple.Tuple{tuple.New(1, 0, 1), tuple.New(0, 1, 0)},
			bad:  []tuple.Tuple{tuple.New(1, 1, 0)},
		},
		{
			name: "fixed",
			set:  constraint.New(constraint.WithFixed(constraint.Fixed{Index: 1, Value: 2})),
			ok:   []tuple.Tuple{tuple.New(0, 2, 0)},
			bad:  []tuple.Tuple{tuple.New(0, 1, 0)},
		},
		{
			name: "membership",
			set:  constraint.New(constraint.WithMembership(0, 0, 2)),
			ok:   []tuple.Tuple{tuple.New(0, 1, 1), tuple.New(2, 1, 1)},
			bad:  []tuple.Tuple{tuple.New(1, 1, 1)},
		},
		{
			name: "congruence",
			set:  constraint.New(constraint.WithCongruence(theta, 2, 0)),
			ok:   []tuple.Tuple{tuple.New(1, 1, 0), tuple.New(1, 1, 2)},
			bad:  []tuple.Tuple{tuple.New(1, 1, 1)},
		},
		{
			name: "conjunction",
			set: constraint.New(
				constraint.WithBlocks([]int{0, 1}),
				constraint.WithMembership(2, 1),
			),
			ok:  []tuple.Tuple{tuple.New(2, 2, 1)},
			bad: []tuple.Tuple{tuple.New(2, 2, 0), tuple.New(2, 1, 1)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.set.Validate([]int{3, 3, 3}))
			for _, tp := range tc.ok {
				require.True(t, tc.set.Check(tp), "%s should pass", tp)
				require.NoError(t, tc.set.Violation(tp))
			}
			for _, tp := range tc.bad {
				require.False(t, tc.set.Check(tp), "%s should fail", tp)
				require.True(t, errors.Is(tc.set.Violation(tp), constraint.ErrViolation))
			}
		})
	}
}

// TestValidate covers configuration errors reported before any closure work.
func TestValidate(t *testing.T) {
	theta, _ := algebra.NewPartition([][]int{{0, 1}})
	cards := []int{2, 2}

	cases := []struct {
		name string
		set  *constraint.Set
		want error
	}{
		{"block index", constraint.New(constraint.WithBlocks([]int{0, 5})), constraint.ErrIndexRange},
		{"empty block", constraint.New(constraint.WithBlocks([]int{})), constraint.ErrEmptyRule},
		{"fixed index", constraint.New(constraint.WithFixed(constraint.Fixed{Index: 2})), constraint.ErrIndexRange},
		{"fixed value", constraint.New(constraint.WithFixed(constraint.Fixed{Index: 0, Value: 2})), constraint.ErrValueRange},
		{"membership index", constraint.New(constraint.WithMembership(-1, 0)), constraint.ErrIndexRange},
		{"membership empty", constraint.New(constraint.WithMembership(0)), constraint.ErrEmptyRule},
		{"membership value", constraint.New(constraint.WithMembership(0, 3)), constraint.ErrValueRange},
		{"congruence size", constraint.New(constraint.WithCongruence(nil, 0, 0)), constraint.ErrPartitionSize},
		{"congruence element", constraint.New(constraint.WithCongruence(theta, 1, 4)), constraint.ErrValueRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.set.Validate(cards)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

// TestString gives a readable summary.
func TestString(t *testing.T) {
	s := constraint.New(
		constraint.WithBlocks([]int{0, 1}),
		constraint.WithFixed(constraint.Fixed{Index: 2, Value: 1}),
	)
	require.Equal(t, "blocks=[[0 1]] fixed=[2:1]", s.String())
}

// TestCheckValues agrees with Check on raw coordinates.
func TestCheckValues(t *testing.T) {
	s := constraint.New(constraint.WithBlocks([]int{0, 2}), constraint.WithMembership(1, 1))
	for _, vals := range [][]int{{0, 1, 0}, {0, 0, 0}, {1, 1, 0}, {1, 1, 1}} {
		require.Equal(t, s.Check(tuple.New(vals...)), s.CheckValues(vals), "%v", vals)
	}
	var nilSet *constraint.Set
	require.True(t, nilSet.CheckValues([]int{5}))
}
