package closure_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/subalg/algebra"
	"github.com/katalvlaran/subalg/closure"
	"github.com/katalvlaran/subalg/tuple"
)

// benchInput is Z_5^4 generated by three tuples: 125 elements.
func benchInput(b *testing.B) (*algebra.Power, []tuple.Tuple) {
	b.Helper()
	z5, err := algebra.Cyclic(5)
	if err != nil {
		b.Fatal(err)
	}
	p, err := algebra.NewPower(z5, 4)
	if err != nil {
		b.Fatal(err)
	}

	return p, []tuple.Tuple{tuple.New(1, 0, 0, 2), tuple.New(0, 1, 0, 3), tuple.New(0, 0, 1, 4)}
}

// BenchmarkClose measures the generic path through Operation.Apply.
func BenchmarkClose(b *testing.B) {
	alg, gens := benchInput(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = closure.Close(ctx, alg, gens)
	}
}

// BenchmarkClosePower measures the table-driven power path.
func BenchmarkClosePower(b *testing.B) {
	alg, gens := benchInput(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = closure.ClosePower(ctx, alg, gens)
	}
}

// BenchmarkClosePower_parallel runs the power path on four workers.
func BenchmarkClosePower_parallel(b *testing.B) {
	alg, gens := benchInput(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = closure.ClosePower(ctx, alg, gens, closure.WithWorkers(4))
	}
}

// BenchmarkClosePower_terms adds term tracking.
func BenchmarkClosePower_terms(b *testing.B) {
	alg, gens := benchInput(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = closure.ClosePower(ctx, alg, gens, closure.WithTerms())
	}
}
