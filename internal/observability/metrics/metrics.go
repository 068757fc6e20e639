package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking widget and the
// agenda lookups behind it.
type BookingMetrics struct {
	lookupsTotal  *prometheus.CounterVec
	lookupLatency *prometheus.HistogramVec
	stepsTotal    *prometheus.CounterVec
	staleTotal    prometheus.Counter
	relayTotal    *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		lookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "agenda",
			Name:      "lookups_total",
			Help:      "Agenda availability lookups by outcome",
		}, []string{"outcome"}),
		lookupLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "agenda",
			Name:      "lookup_latency_seconds",
			Help:      "Latency of agenda availability lookups",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "booking",
			Name:      "step_transitions_total",
			Help:      "Booking widget transitions by the step entered",
		}, []string{"step"}),
		staleTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "booking",
			Name:      "stale_lookups_total",
			Help:      "Agenda results discarded because a newer selection superseded them",
		}),
		relayTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "agenda",
			Name:      "relay_requests_total",
			Help:      "Agenda relay requests by response status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.lookupsTotal, m.lookupLatency, m.stepsTotal, m.staleTotal, m.relayTotal)
	return m
}

func (m *BookingMetrics) ObserveLookup(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.lookupsTotal.WithLabelValues(outcome).Inc()
	m.lookupLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *BookingMetrics) ObserveStep(step string) {
	if m == nil {
		return
	}
	m.stepsTotal.WithLabelValues(step).Inc()
}

func (m *BookingMetrics) ObserveStaleLookup() {
	if m == nil {
		return
	}
	m.staleTotal.Inc()
}

func (m *BookingMetrics) ObserveRelay(status int) {
	if m == nil {
		return
	}
	label := "ok"
	if status >= 500 {
		label = "error"
	}
	m.relayTotal.WithLabelValues(label).Inc()
}
