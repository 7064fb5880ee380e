package exporter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_ERROR_COUNT          = "error_count"
	METRIC_TX_SUBMITTED_COUNT   = "tx_submitted_count"
	METRIC_TX_CONFIRMED_COUNT   = "tx_confirmed_count"
	METRIC_CONFIRMATION_SECONDS = "confirmation_seconds"
)

var (
	registerOnce sync.Once

	counters = map[string]*prometheus.CounterVec{
		METRIC_ERROR_COUNT: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crowdfund",
			Subsystem: "client",
			Name:      METRIC_ERROR_COUNT,
			Help:      "Counts the number of failed operations by error kind",
		}, []string{"kind"}),
		METRIC_TX_SUBMITTED_COUNT: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crowdfund",
			Subsystem: "client",
			Name:      METRIC_TX_SUBMITTED_COUNT,
			Help:      "Counts the number of submitted transactions by operation",
		}, []string{"op"}),
		METRIC_TX_CONFIRMED_COUNT: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crowdfund",
			Subsystem: "client",
			Name:      METRIC_TX_CONFIRMED_COUNT,
			Help:      "Counts the number of mined transactions by receipt status",
		}, []string{"status"}),
	}

	confirmationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "crowdfund",
		Subsystem: "client",
		Name:      METRIC_CONFIRMATION_SECONDS,
		Help:      "Time between submitting a transaction and reading its receipt",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	})
)

// Init registers the metrics with the default registry. Counting works without
// it; registration only makes the values visible on /metrics.
func Init() {
	registerOnce.Do(func() {
		for _, counter := range counters {
			prometheus.MustRegister(counter)
		}
		prometheus.MustRegister(confirmationSeconds)
	})
}

func GetCounter(name string, label string) prometheus.Counter {
	return counters[name].WithLabelValues(label)
}

func IncErrorCount(kind string) {
	counters[METRIC_ERROR_COUNT].WithLabelValues(kind).Inc()
}

func IncSubmittedCount(op string) {
	counters[METRIC_TX_SUBMITTED_COUNT].WithLabelValues(op).Inc()
}

func IncConfirmedCount(status string) {
	counters[METRIC_TX_CONFIRMED_COUNT].WithLabelValues(status).Inc()
}

func ObserveConfirmation(seconds float64) {
	confirmationSeconds.Observe(seconds)
}
