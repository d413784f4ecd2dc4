package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementVotesCast()
	m.IncrementVotesCast()
	m.IncrementVotesRejected("conflict")
	m.IncrementVotesRejected("")
	m.IncrementTransition("open")
	m.AddExpiredClosed(3)
	m.ObserveTallyDuration(10 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.VotesCast))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VotesRejected.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VotesRejected.WithLabelValues("internal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("open")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ExpiredClosed))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TallyDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncrementVotesCast()
		m.IncrementVotesRejected("conflict")
		m.IncrementTransition("closed")
		m.ObserveTallyDuration(time.Second)
		m.AddExpiredClosed(1)
	})
}
