package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the conversation flow.
type ChatMetrics struct {
	turnsTotal       *prometheus.CounterVec
	completedTotal   prometheus.Counter
	leadScore        prometheus.Histogram
	finalizeFailures prometheus.Counter
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadbot",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total conversation turns processed",
		}, []string{"level", "outcome"}),
		completedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadbot",
			Subsystem: "chat",
			Name:      "conversations_completed_total",
			Help:      "Total conversations that produced a lead",
		}),
		leadScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadbot",
			Subsystem: "chat",
			Name:      "lead_score",
			Help:      "Score distribution of finalized leads",
			Buckets:   []float64{0, 45, 60, 65, 75, 85, 90, 100},
		}),
		finalizeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadbot",
			Subsystem: "chat",
			Name:      "finalize_failures_total",
			Help:      "Total finalization attempts that failed to persist a lead",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.completedTotal, m.leadScore, m.finalizeFailures)
	return m
}

func (m *ChatMetrics) ObserveTurn(level, outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(level, outcome).Inc()
}

func (m *ChatMetrics) ObserveCompleted(score int) {
	if m == nil {
		return
	}
	m.completedTotal.Inc()
	m.leadScore.Observe(float64(score))
}

func (m *ChatMetrics) ObserveFinalizeFailure() {
	if m == nil {
		return
	}
	m.finalizeFailures.Inc()
}
