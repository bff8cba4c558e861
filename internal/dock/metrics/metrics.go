package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AdmissionRequests *prometheus.CounterVec
	Outcomes          *prometheus.CounterVec
	Releases          prometheus.Counter
	Evictions         prometheus.Counter
	OccupiedBerths    prometheus.Gauge
	QueueLength       prometheus.Gauge
	ServiceDuration   prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AdmissionRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portcall_dock_admission_requests_total",
			Help: "Immediate capacity checks by answer",
		}, []string{"admission"}),
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portcall_dock_admission_outcomes_total",
			Help: "Completed admissions by outcome",
		}, []string{"outcome"}),
		Releases: factory.NewCounter(prometheus.CounterOpts{
			Name: "portcall_dock_releases_total",
			Help: "Berths released after service",
		}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "portcall_dock_evictions_total",
			Help: "Vessels evicted from a berth by damage events",
		}),
		OccupiedBerths: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portcall_dock_occupied_berths",
			Help: "Berths currently occupied",
		}),
		QueueLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portcall_dock_queue_length",
			Help: "Vessels waiting for a berth",
		}),
		ServiceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "portcall_dock_service_duration_seconds",
			Help:    "Computed unloading duration per serviced vessel",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
	}
}

func (m *Metrics) IncrementAdmissionRequest(admission string) {
	if m != nil {
		m.AdmissionRequests.WithLabelValues(admission).Inc()
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementReleases() {
	if m != nil {
		m.Releases.Inc()
	}
}

func (m *Metrics) IncrementEvictions() {
	if m != nil {
		m.Evictions.Inc()
	}
}

// SetOccupancy publishes the current berth and queue sizes.
func (m *Metrics) SetOccupancy(occupied, queued int) {
	if m != nil {
		m.OccupiedBerths.Set(float64(occupied))
		m.QueueLength.Set(float64(queued))
	}
}

func (m *Metrics) ObserveServiceDuration(d time.Duration) {
	if m != nil {
		m.ServiceDuration.Observe(d.Seconds())
	}
}
