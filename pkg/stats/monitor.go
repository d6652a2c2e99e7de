package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/itohio/gopulse/pkg/record"
)

// DefaultInterval is the default summary reporting period.
const DefaultInterval = 5 * time.Second

// Monitor collects measurements into a History and reports a Summary on every
// tick while the history is not empty.
type Monitor struct {
	history  *History
	interval time.Duration
	report   func(Summary)
}

// NewMonitor creates a monitor. A nil report logs the summary with slog.Default.
func NewMonitor(history int, interval time.Duration, report func(Summary)) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if report == nil {
		report = LogSummary(slog.Default())
	}
	return &Monitor{
		history:  NewHistory(history),
		interval: interval,
		report:   report,
	}
}

// Run consumes in until it is closed or ctx is done. A final summary is
// reported when the input closes.
func (m *Monitor) Run(ctx context.Context, in <-chan record.Measurement) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec, ok := <-in:
			if !ok {
				if m.history.Len() > 0 {
					m.report(m.history.Summary())
				}
				return nil
			}
			m.history.Add(rec)
		case <-ticker.C:
			if m.history.Len() > 0 {
				m.report(m.history.Summary())
			}
		}
	}
}

// History returns the underlying history.
func (m *Monitor) History() *History { return m.history }

// LogSummary returns a report function logging to l.
func LogSummary(l *slog.Logger) func(Summary) {
	return func(s Summary) {
		l.Info("summary",
			slog.Int("count", s.Count),
			slog.Group("frequency",
				slog.Float64("mean", s.Frequency.Mean),
				slog.Float64("std", s.Frequency.StdDev),
				slog.Float64("min", s.Frequency.Min),
				slog.Float64("max", s.Frequency.Max)),
			slog.Group("amplitude",
				slog.Float64("mean", s.Amplitude.Mean),
				slog.Float64("std", s.Amplitude.StdDev)),
			slog.Group("fwhm",
				slog.Float64("mean", s.FWHM.Mean),
				slog.Float64("std", s.FWHM.StdDev)),
		)
	}
}
