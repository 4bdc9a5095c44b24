// Package prometheus records chat parsing and search metrics with Prometheus.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// Ensure Metrics implements the interface.
var _ driven.Metrics = (*Metrics)(nil)

// Namespace prefixes every metric name.
const Namespace = "chatlens"

// Metrics holds the Prometheus collectors for the chat pipeline.
type Metrics struct {
	gatherer prometheus.Gatherer

	TranscriptsParsedTotal *prometheus.CounterVec
	MessagesParsedTotal    *prometheus.CounterVec
	AnomaliesTotal         *prometheus.CounterVec
	ParseSeconds           *prometheus.HistogramVec

	SearchesTotal   *prometheus.CounterVec
	FallbacksTotal  *prometheus.CounterVec
	SearchMatches   *prometheus.HistogramVec
	SearchSeconds   *prometheus.HistogramVec
	SummarizerTotal *prometheus.CounterVec
	SummarizerTime  *prometheus.HistogramVec
}

// New creates metrics registered on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates metrics registered on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		TranscriptsParsedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "transcripts_parsed_total",
				Help:      "Total transcripts parsed by format",
			},
			[]string{"format"},
		),
		MessagesParsedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "messages_parsed_total",
				Help:      "Total messages produced by the parser",
			},
			[]string{"format"},
		),
		AnomaliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "parse_anomalies_total",
				Help:      "Total recoverable parse anomalies by kind",
			},
			[]string{"kind"},
		),
		ParseSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "parse_seconds",
				Help:      "Time to normalise and parse one transcript",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"format"},
		),
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "searches_total",
				Help:      "Total searches by the mode that produced the result",
			},
			[]string{"mode"},
		),
		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "search_fallbacks_total",
				Help:      "Total searches that fell back to another mode",
			},
			[]string{"from", "to"},
		),
		SearchMatches: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "search_matches",
				Help:      "Matches per search before limiting",
				Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
			},
			[]string{"mode"},
		),
		SearchSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "search_seconds",
				Help:      "Search latency by mode",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"mode"},
		),
		SummarizerTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "summarizer_calls_total",
				Help:      "Total summarizer calls by model and status",
			},
			[]string{"model", "status"},
		),
		SummarizerTime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "summarizer_seconds",
				Help:      "Summarizer call latency",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"model"},
		),
	}
}

// ObserveParse records one parsed transcript.
func (m *Metrics) ObserveParse(format string, messages int, anomalies []domain.ParseAnomaly, elapsed time.Duration) {
	m.TranscriptsParsedTotal.WithLabelValues(format).Inc()
	m.MessagesParsedTotal.WithLabelValues(format).Add(float64(messages))
	for _, a := range anomalies {
		m.AnomaliesTotal.WithLabelValues(string(a.Kind)).Inc()
	}
	m.ParseSeconds.WithLabelValues(format).Observe(elapsed.Seconds())
}

// ObserveSearch records one search.
func (m *Metrics) ObserveSearch(mode, fallbackFrom domain.SearchMode, matches int, elapsed time.Duration) {
	m.SearchesTotal.WithLabelValues(string(mode)).Inc()
	if fallbackFrom != "" {
		m.FallbacksTotal.WithLabelValues(string(fallbackFrom), string(mode)).Inc()
	}
	m.SearchMatches.WithLabelValues(string(mode)).Observe(float64(matches))
	m.SearchSeconds.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
}

// ObserveSummarizer records one summarizer call outcome.
func (m *Metrics) ObserveSummarizer(model string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SummarizerTotal.WithLabelValues(model, status).Inc()
	m.SummarizerTime.WithLabelValues(model).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
