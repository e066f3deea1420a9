// Package report is the single place failures are logged, counted and,
// when the user needs to know, surfaced as an alert.
package report

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(string)

func (f AlerterFunc) Alert(message string) { f(message) }

// Metrics holds the Prometheus collectors of the dashboard.
type Metrics struct {
	errors          *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_dashboard_errors_total",
				Help: "Failures observed by the dashboard, by kind and source.",
			},
			[]string{"kind", "source"},
		),
		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_dashboard_provider_request_seconds",
				Help:    "Histogram of provider round-trip times.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.errors, m.providerLatency)
	}
	return m
}

// ObserveRequest records one provider round trip.
func (m *Metrics) ObserveRequest(endpoint string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

// Reporter classifies failures, logs them and counts them. Failures of user
// actions go through Surface, which also raises an alert for NotFound.
type Reporter struct {
	logger  *slog.Logger
	metrics *Metrics
	alerter Alerter
}

func NewReporter(logger *slog.Logger, metrics *Metrics, alerter Alerter) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger, metrics: metrics, alerter: alerter}
}

// Report logs and counts err raised by source and returns its kind. A nil
// error is ignored.
func (r *Reporter) Report(ctx context.Context, source string, err error) weather.Kind {
	if err == nil {
		return weather.KindUnknown
	}
	kind := weather.KindOf(err)

	if r.metrics != nil {
		r.metrics.errors.WithLabelValues(kind.String(), source).Inc()
	}

	level := slog.LevelWarn
	switch kind {
	case weather.KindUnsupported, weather.KindPermissionDenied:
		level = slog.LevelInfo
	case weather.KindNetworkFailure:
		level = slog.LevelError
	}
	r.logger.Log(ctx, level, "dashboard failure",
		"source", source,
		"kind", kind.String(),
		"error", err,
	)
	return kind
}

// Surface reports err like Report and, for NotFound, shows the user an alert.
func (r *Reporter) Surface(ctx context.Context, source string, err error) weather.Kind {
	kind := r.Report(ctx, source, err)
	if kind == weather.KindNotFound && r.alerter != nil {
		r.alerter.Alert(AlertMessage(err))
	}
	return kind
}

// AlertMessage is the user-facing text for a NotFound failure.
func AlertMessage(error) string {
	return "City not found. Please check the spelling and try again."
}

// Entry is one failure captured by Recorder.
type Entry struct {
	Source string
	Kind   weather.Kind
	Err    error
}

// Recorder is a Reporter stand-in that keeps every report for inspection.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	alerts  []string
}

func (r *Recorder) Report(_ context.Context, source string, err error) weather.Kind {
	if err == nil {
		return weather.KindUnknown
	}
	kind := weather.KindOf(err)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Source: source, Kind: kind, Err: err})
	return kind
}

func (r *Recorder) Surface(ctx context.Context, source string, err error) weather.Kind {
	kind := r.Report(ctx, source, err)
	if kind == weather.KindNotFound {
		r.mu.Lock()
		r.alerts = append(r.alerts, AlertMessage(err))
		r.mu.Unlock()
	}
	return kind
}

// Entries returns a copy of everything reported so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Kinds returns the kinds reported so far, in order.
func (r *Recorder) Kinds() []weather.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]weather.Kind, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Kind)
	}
	return out
}

// Alerts returns the alerts raised so far.
func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.alerts))
	copy(out, r.alerts)
	return out
}
