package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	callsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmgate",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total number of gateway calls by outcome",
		},
		[]string{"op", "transport", "outcome"},
	)

	callDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "llmgate",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Duration of outbound backend calls in seconds",
			// inference can take minutes
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"op", "transport"},
	)
)

func init() {
	prometheus.MustRegister(callsTotal, callDuration)
}

// observe records one finished call. err may be nil.
func observe(op, transport string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	callsTotal.WithLabelValues(op, transport, outcome).Inc()
	if !IsInvalidRequest(err) {
		callDuration.WithLabelValues(op, transport).Observe(time.Since(start).Seconds())
	}
}
