// Package metrics exports model generation outcomes as Prometheus metrics.
//
// A Collector implements hmm.Observer; pass it to hmm.WithObserver:
//
//	reg := prometheus.NewRegistry()
//	g := hmm.NewGenerator(hmm.WithObserver(metrics.New(reg)))
package metrics

import (
	"errors"

	"github.com/katalvlaran/pitchhmm/hmm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values of pitchhmm_generations_total.
const (
	ResultOK           = "ok"
	ResultExceeds      = "exceeds"
	ResultShort        = "short"
	ResultMalformed    = "malformed"
	ResultNotFound     = "state_not_found"
	ResultInvalidNotes = "invalid_notes"
	ResultError        = "error"
)

// Collector records one observation per Generate call. Safe for concurrent use.
type Collector struct {
	generations *prometheus.CounterVec
	states      *prometheus.HistogramVec
	edges       prometheus.Histogram
	duration    prometheus.Histogram
}

// New registers the collector's metrics with reg. A nil reg means
// prometheus.DefaultRegisterer. Panics if the metrics are already registered.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		// generations counts Generate calls by outcome.
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pitchhmm_generations_total",
			Help: "Total model generations by result",
		}, []string{"result"}),

		// states tracks states per generated model, by kind.
		states: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pitchhmm_model_states",
			Help:    "States per generated model by kind",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
		}, []string{"kind"}),

		// edges tracks edges per generated model.
		edges: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pitchhmm_model_edges",
			Help:    "Edges per generated model",
			Buckets: prometheus.ExponentialBuckets(1, 4, 9), // 1 to ~65k
		}),

		// duration tracks Generate latency, failures included.
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pitchhmm_generation_duration_seconds",
			Help:    "Model generation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}),
	}
}

// ObserveGeneration implements hmm.Observer.
func (c *Collector) ObserveGeneration(r hmm.Report) {
	c.generations.WithLabelValues(Result(r.Err)).Inc()
	c.duration.Observe(r.Duration.Seconds())
	if r.Err != nil {
		return
	}
	c.states.WithLabelValues(hmm.KindSound.String()).Observe(float64(r.Stats.SoundStates))
	c.states.WithLabelValues(hmm.KindSilence.String()).Observe(float64(r.Stats.SilenceStates))
	c.edges.Observe(float64(r.Stats.Edges))
}

// Result maps a Generate error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, hmm.ErrProbabilityExceeds):
		return ResultExceeds
	case errors.Is(err, hmm.ErrProbabilityShort):
		return ResultShort
	case errors.Is(err, hmm.ErrMalformedProbability):
		return ResultMalformed
	case errors.Is(err, hmm.ErrStateNotFound):
		return ResultNotFound
	case errors.Is(err, hmm.ErrInvalidNotes):
		return ResultInvalidNotes
	}

	return ResultError
}
