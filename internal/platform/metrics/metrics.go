package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the election service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	VotesCast     prometheus.Counter
	VotesRejected *prometheus.CounterVec
	Transitions   *prometheus.CounterVec
	TallyDuration prometheus.Histogram
	ExpiredClosed prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VotesCast: factory.NewCounter(prometheus.CounterOpts{
			Name: "election_votes_cast_total",
			Help: "Total number of accepted votes",
		}),
		VotesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "election_votes_rejected_total",
			Help: "Total number of rejected votes by error kind",
		}, []string{"kind"}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "election_state_transitions_total",
			Help: "Total number of applied election state transitions",
		}, []string{"to"}),
		TallyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "election_tally_duration_seconds",
			Help:    "Time spent computing election results",
			Buckets: prometheus.DefBuckets,
		}),
		ExpiredClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "election_expired_closed_total",
			Help: "Total number of elections closed because their time limit elapsed",
		}),
	}
}

func (m *Metrics) IncrementVotesCast() {
	if m == nil {
		return
	}
	m.VotesCast.Inc()
}

func (m *Metrics) IncrementVotesRejected(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "internal"
	}
	m.VotesRejected.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementTransition(to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) ObserveTallyDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.TallyDuration.Observe(d.Seconds())
}

func (m *Metrics) AddExpiredClosed(n int) {
	if m == nil {
		return
	}
	m.ExpiredClosed.Add(float64(n))
}
