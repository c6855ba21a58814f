package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "burnin"
)

var (
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	testsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_total",
		Help:      "Count of executed burn-in tests",
	}, []string{
		"test",
		"status",
	})

	testScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "test_score",
		Help:      "Score of the most recent execution of each test",
	}, []string{
		"test",
	})

	testDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "test_duration_seconds",
		Help:      "Duration of the most recent execution of each test",
	}, []string{
		"test",
	})

	suiteScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_score",
		Help:      "Overall score of the burn-in suite",
	}, []string{
		"run_id",
		"status",
	})

	suiteDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_duration_seconds",
		Help:      "Total duration of the burn-in suite",
	}, []string{
		"run_id",
	})
)

// RecordError increments the error counter for the given label.
func RecordError(label string) {
	errorsTotal.WithLabelValues(label).Inc()
}

// RecordTest records the outcome of a single test execution.
func RecordTest(test, status string, score int, duration time.Duration) {
	testsTotal.WithLabelValues(test, status).Inc()
	testScore.WithLabelValues(test).Set(float64(score))
	testDuration.WithLabelValues(test).Set(duration.Seconds())
}

// RecordSuite records the finalized suite outcome.
func RecordSuite(runID, status string, score int, duration time.Duration) {
	suiteScore.WithLabelValues(runID, status).Set(float64(score))
	suiteDuration.WithLabelValues(runID).Set(duration.Seconds())
}
