package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Stats is a snapshot of the counters.
type Stats struct {
	Pass         int           `json:"pass"`
	FrontierSize int           `json:"frontier_size"`
	PassAccepted int           `json:"pass_accepted"`
	Accepted     int           `json:"accepted"`
	Applications int64         `json:"applications"`
	Elapsed      time.Duration `json:"elapsed_ns"`
}

// Reporter receives a snapshot at every pass boundary and at Finish.
type Reporter func(Stats)

// Tracker holds the counters of one closure run. It is not safe for
// concurrent use; parallel workers count locally and report through
// RecordApplications.
type Tracker struct {
	now      func() time.Time
	start    time.Time
	reporter Reporter
	logger   *slog.Logger
	metrics  *Metrics

	pass         int
	frontier     int
	passAccepted int
	accepted     int
	applications int64

	// values already pushed to metrics
	flushedApps     int64
	flushedAccepted int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithReporter registers a callback run at every pass boundary.
func WithReporter(r Reporter) Option {
	return func(t *Tracker) {
		if r != nil {
			t.reporter = r
		}
	}
}

// WithLogger logs one Info line per pass.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMetrics mirrors the counters into Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// WithClock overrides time.Now; used by tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// New starts a tracker; the clock starts now.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		now:      time.Now,
		reporter: func(Stats) {},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.start = t.now()

	return t
}

// StartPass closes the previous pass (reporting it) and opens a new one
// whose frontier holds frontierSize tuples.
func (t *Tracker) StartPass(frontierSize int) {
	if t.pass > 0 {
		t.report()
	}
	t.pass++
	t.frontier = frontierSize
	t.passAccepted = 0
	if t.metrics != nil {
		t.metrics.pass.Set(float64(t.pass))
	}
}

// RecordApplication counts one operation application.
func (t *Tracker) RecordApplication() { t.applications++ }

// RecordApplications counts n operation applications.
func (t *Tracker) RecordApplications(n int64) { t.applications += n }

// RecordAcceptance counts one newly accepted tuple.
func (t *Tracker) RecordAcceptance() {
	t.accepted++
	t.passAccepted++
}

// Pass returns the current pass number (1-based; 0 before the first pass).
func (t *Tracker) Pass() int { return t.pass }

// Applications returns the cumulative number of operation applications.
func (t *Tracker) Applications() int64 { return t.applications }

// Accepted returns the cumulative number of accepted tuples.
func (t *Tracker) Accepted() int { return t.accepted }

// PassAccepted returns the number of tuples accepted in the current pass.
func (t *Tracker) PassAccepted() int { return t.passAccepted }

// Elapsed returns the time since New.
func (t *Tracker) Elapsed() time.Duration { return t.now().Sub(t.start) }

// ElapsedFormatted returns Elapsed rendered by FormatElapsed.
func (t *Tracker) ElapsedFormatted() string { return FormatElapsed(t.Elapsed()) }

// ETA estimates the time left in the current pass given that done of total
// units of work are finished, assuming a constant rate since the pass began.
// It returns 0 when no estimate is possible.
func (t *Tracker) ETA(passStart time.Time, done, total int64) time.Duration {
	if done <= 0 || total <= done {
		return 0
	}
	spent := t.now().Sub(passStart)

	return time.Duration(float64(spent) * float64(total-done) / float64(done))
}

// Now returns the tracker's clock reading.
func (t *Tracker) Now() time.Time { return t.now() }

// Snapshot returns the current counters.
func (t *Tracker) Snapshot() Stats {
	return Stats{
		Pass:         t.pass,
		FrontierSize: t.frontier,
		PassAccepted: t.passAccepted,
		Accepted:     t.accepted,
		Applications: t.applications,
		Elapsed:      t.Elapsed(),
	}
}

// Check is the cooperative cancellation point consulted by the closure.
func (t *Tracker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Finish reports the final pass.
func (t *Tracker) Finish() Stats {
	t.report()

	return t.Snapshot()
}

func (t *Tracker) report() {
	s := t.Snapshot()
	t.flush()
	t.logger.Info("closure pass",
		slog.Int("pass", s.Pass),
		slog.Int("frontier", s.FrontierSize),
		slog.Int("new", s.PassAccepted),
		slog.Int("size", s.Accepted),
		slog.Int64("applications", s.Applications),
		slog.String("elapsed", FormatElapsed(s.Elapsed)),
	)
	t.reporter(s)
}

// flush pushes counter deltas to metrics; counters are batched per pass
// so the hot loop never touches a collector.
func (t *Tracker) flush() {
	if t.metrics == nil {
		return
	}
	t.metrics.applications.Add(float64(t.applications - t.flushedApps))
	t.metrics.accepted.Add(float64(t.accepted - t.flushedAccepted))
	t.flushedApps = t.applications
	t.flushedAccepted = t.accepted
}

// FormatElapsed renders d as "S", "M:SS" or "H:MM:SS": hours are omitted when
// zero, and minutes are omitted when hours and minutes are both zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	case m > 0:
		return fmt.Sprintf("%d:%02d", m, s)
	default:
		return fmt.Sprintf("%d", s)
	}
}
