package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.MessageSent("process")
	m.MessageSent("process")
	m.MessageReceived("done")
	m.MalformedFrame()
	m.StaleEvent()
	m.ItemError("")
	m.ConnectionAttempt(false)
	m.JobFinished("bulk", "done", 3*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.messagesSent.WithLabelValues("process")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messagesReceived.WithLabelValues("done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.malformedFrames))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staleEvents))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.itemErrors.WithLabelValues("UNKNOWN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connections.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsTotal.WithLabelValues("bulk", "done")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.MessageSent("start")
		m.MessageReceived("progress")
		m.MalformedFrame()
		m.StaleEvent()
		m.ItemError("X")
		m.ConnectionAttempt(true)
		m.JobFinished("sequential", "failed", time.Second)
	})
}
