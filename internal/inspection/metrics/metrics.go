package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for inspection rounds.
type Metrics struct {
	// Rounds by result: "completed", "timeout", "error"
	Rounds *prometheus.CounterVec

	// Authority latencies by authority name, including abandoned calls
	AuthorityLatency *prometheus.HistogramVec

	// Final decisions: "inspect", "clear"
	Decisions *prometheus.CounterVec

	// Wall time of one Evaluate call, across all retries
	EvaluateLatency prometheus.Histogram
}

// New registers inspection metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Rounds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portcall_inspection_rounds_total",
			Help: "Evaluation rounds by result",
		}, []string{"result"}),

		AuthorityLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portcall_inspection_authority_duration_seconds",
			Help:    "Time taken by each authority to return a verdict",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 4, 5, 10},
		}, []string{"authority"}),

		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portcall_inspection_decisions_total",
			Help: "Inspection decisions by outcome",
		}, []string{"decision"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "portcall_inspection_evaluate_duration_seconds",
			Help:    "Duration of a full evaluation including retried rounds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
	}
}

// IncrementRound records how a round ended.
func (m *Metrics) IncrementRound(result string) {
	if m != nil {
		m.Rounds.WithLabelValues(result).Inc()
	}
}

// ObserveAuthorityLatency records how long one authority took to answer.
func (m *Metrics) ObserveAuthorityLatency(authority string, d time.Duration) {
	if m != nil {
		m.AuthorityLatency.WithLabelValues(authority).Observe(d.Seconds())
	}
}

// IncrementDecision records the final decision for a vessel.
func (m *Metrics) IncrementDecision(inspect bool) {
	if m == nil {
		return
	}
	label := "clear"
	if inspect {
		label = "inspect"
	}
	m.Decisions.WithLabelValues(label).Inc()
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
