package closure

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter. Without a configured provider both are no-ops.
var (
	tracer = otel.Tracer("subalg.closure")
	meter  = otel.Meter("subalg.closure")
)

var (
	runDuration metric.Float64Histogram
	runSize     metric.Int64Histogram
	runTotal    metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		runDuration, err = meter.Float64Histogram(
			"closure_duration_seconds",
			metric.WithDescription("Duration of closure runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		runSize, err = meter.Int64Histogram(
			"closure_result_size",
			metric.WithDescription("Number of tuples in a closure result"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		runTotal, err = meter.Int64Counter(
			"closure_runs_total",
			metric.WithDescription("Closure runs by final status"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordRunMetrics records one finished run.
func recordRunMetrics(ctx context.Context, path string, status Status, size int, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("path", path),
		attribute.String("status", status.String()),
	)
	runDuration.Record(ctx, duration.Seconds(), attrs)
	runTotal.Add(ctx, 1, attrs)
	runSize.Record(ctx, int64(size), metric.WithAttributes(attribute.String("path", path)))
}

// startCloseSpan opens the span covering one closure run.
func startCloseSpan(ctx context.Context, path, algebraName string, generators, width int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "closure."+path,
		trace.WithAttributes(
			attribute.String("closure.algebra", algebraName),
			attribute.Int("closure.generators", generators),
			attribute.Int("closure.width", width),
		),
	)
}

// addPassEvent marks the start of a pass on span.
func addPassEvent(span trace.Span, pass, frontier, size int) {
	span.AddEvent("pass", trace.WithAttributes(
		attribute.Int("closure.pass", pass),
		attribute.Int("closure.frontier", frontier),
		attribute.Int("closure.size", size),
	))
}

// endCloseSpan records the outcome and ends span.
func endCloseSpan(span trace.Span, res *Result, err error) {
	if res != nil {
		span.SetAttributes(
			attribute.String("closure.status", res.Status.String()),
			attribute.Int("closure.size", len(res.Elements)),
			attribute.Int("closure.passes", res.Stats.Pass),
			attribute.Int64("closure.applications", res.Stats.Applications),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
