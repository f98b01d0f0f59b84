package checkout

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts checkout activity. A nil *Metrics records nothing.
type Metrics struct {
	Events      *prometheus.CounterVec
	Submissions *prometheus.CounterVec
	Sessions    prometheus.Gauge
}

// NewMetrics builds the checkout collectors and registers them with reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donorsite",
			Subsystem: "checkout",
			Name:      "events_total",
			Help:      "Wizard events applied to checkout sessions by outcome.",
		}, []string{"event", "outcome"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donorsite",
			Subsystem: "checkout",
			Name:      "submissions_total",
			Help:      "Checkout submissions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "donorsite",
			Subsystem: "checkout",
			Name:      "sessions_live",
			Help:      "Checkout sessions currently held in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Events, m.Submissions, m.Sessions)
	}
	return m
}

func (m *Metrics) event(name, outcome string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(name, outcome).Inc()
}

func (m *Metrics) submission(kind, outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) sessions(n int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(n))
}
