// Package metrics holds the Prometheus instruments of the client.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "smelt_client"

// Metrics groups every counter the client exposes.
type Metrics struct {
	jobsTotal        *prometheus.CounterVec
	jobDuration      *prometheus.HistogramVec
	messagesSent     *prometheus.CounterVec
	messagesReceived *prometheus.CounterVec
	malformedFrames  prometheus.Counter
	staleEvents      prometheus.Counter
	itemErrors       *prometheus.CounterVec
	connections      *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Jobs finished, by submission mode and outcome",
		}, []string{"mode", "outcome"}),

		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Time from submit to terminal state",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"mode"}),

		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Frames sent to the remote, by type",
		}, []string{"type"}),

		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Frames received from the remote, by type",
		}, []string{"type"}),

		malformedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_frames_total",
			Help:      "Inbound frames dropped because they could not be parsed",
		}),

		staleEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_events_total",
			Help:      "Connection events discarded because their job was reset",
		}),

		itemErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_errors_total",
			Help:      "Per-item errors reported by the remote, by code",
		}, []string{"code"}),

		connections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connection attempts, by result",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.jobsTotal,
			m.jobDuration,
			m.messagesSent,
			m.messagesReceived,
			m.malformedFrames,
			m.staleEvents,
			m.itemErrors,
			m.connections,
		)
	}

	return m
}

func (m *Metrics) JobFinished(mode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(mode, outcome).Inc()
	m.jobDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

func (m *Metrics) MessageSent(msgType string) {
	if m == nil {
		return
	}
	m.messagesSent.WithLabelValues(msgType).Inc()
}

func (m *Metrics) MessageReceived(msgType string) {
	if m == nil {
		return
	}
	m.messagesReceived.WithLabelValues(msgType).Inc()
}

func (m *Metrics) MalformedFrame() {
	if m == nil {
		return
	}
	m.malformedFrames.Inc()
}

func (m *Metrics) StaleEvent() {
	if m == nil {
		return
	}
	m.staleEvents.Inc()
}

func (m *Metrics) ItemError(code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "UNKNOWN"
	}
	m.itemErrors.WithLabelValues(code).Inc()
}

func (m *Metrics) ConnectionAttempt(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.connections.WithLabelValues(result).Inc()
}
