// Package metrics exposes Prometheus collectors for research runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sells-group/leadscore-cli/internal/model"
)

// Metrics holds the research collectors. A nil *Metrics records nothing.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	LeadScore     prometheus.Histogram
	PhaseDuration *prometheus.HistogramVec
	TokensTotal   *prometheus.CounterVec
	CostTotal     prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadscore_runs_total",
				Help: "Total number of research runs by final status",
			},
			[]string{"status"},
		),
		LeadScore: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "leadscore_score",
				Help:    "Distribution of computed lead scores",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
		),
		PhaseDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadscore_phase_duration_seconds",
				Help:    "Duration of research pipeline phases in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
		TokensTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadscore_tokens_total",
				Help: "Completion-service tokens consumed",
			},
			[]string{"direction"},
		),
		CostTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "leadscore_cost_usd_total",
				Help: "Estimated completion-service spend in USD",
			},
		),
	}
}

// ObserveRun counts a finished run.
func (m *Metrics) ObserveRun(status model.RunStatus) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(string(status)).Inc()
}

// ObservePhase records how long a phase took.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// ObserveScore records a lead score.
func (m *Metrics) ObserveScore(score int) {
	if m == nil {
		return
	}
	m.LeadScore.Observe(float64(score))
}

// ObserveTokens adds token usage and cost.
func (m *Metrics) ObserveTokens(u model.TokenUsage) {
	if m == nil {
		return
	}
	m.TokensTotal.WithLabelValues("input").Add(float64(u.InputTokens))
	m.TokensTotal.WithLabelValues("output").Add(float64(u.OutputTokens))
	if u.Cost > 0 {
		m.CostTotal.Add(u.Cost)
	}
}
