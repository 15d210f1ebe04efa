package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ChatMetrics exposes counters/histograms for chat turns and collaborator calls.
type ChatMetrics struct {
	turnsTotal        *prometheus.CounterVec
	overridesTotal    *prometheus.CounterVec
	collaboratorCalls *prometheus.HistogramVec
	assistantPolls    *prometheus.HistogramVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botica",
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Chat turns handled, by the step they started in and their outcome",
		}, []string{"step", "outcome"}),
		overridesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botica",
			Subsystem: "dialogue",
			Name:      "overrides_total",
			Help:      "Global keyword overrides that reset a session",
		}, []string{"group"}),
		collaboratorCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "botica",
			Subsystem: "collaborator",
			Name:      "call_duration_seconds",
			Help:      "Latency of calendar, inventory and assistant calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collaborator", "operation", "status"}),
		assistantPolls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "botica",
			Subsystem: "assistant",
			Name:      "run_polls",
			Help:      "Status polls needed per assistant run",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.overridesTotal, m.collaboratorCalls, m.assistantPolls)
	return m
}

func (m *ChatMetrics) ObserveTurn(step, outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(step, outcome).Inc()
}

func (m *ChatMetrics) ObserveOverride(group string) {
	if m == nil {
		return
	}
	m.overridesTotal.WithLabelValues(group).Inc()
}

// ObserveCall records one collaborator call. A nil err is labelled "ok".
func (m *ChatMetrics) ObserveCall(collaborator, operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.collaboratorCalls.WithLabelValues(collaborator, operation, status).Observe(time.Since(started).Seconds())
}

func (m *ChatMetrics) ObserveAssistantPolls(status string, polls int) {
	if m == nil {
		return
	}
	m.assistantPolls.WithLabelValues(status).Observe(float64(polls))
}
