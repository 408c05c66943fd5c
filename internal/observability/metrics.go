package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the alert service.
type Metrics struct {
	CheckRuns     prometheus.Counter
	FarmsChecked  prometheus.Counter
	FarmFailures  prometheus.Counter
	AlertsCreated prometheus.Counter

	// Weather provider metrics.
	WeatherRequests        *prometheus.CounterVec // labels: outcome={success,error}
	WeatherRequestDuration prometheus.Histogram

	// Alert event publishing metrics.
	AlertsPublished prometheus.Counter
	PublishFailures prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer)
}

// NewMetricsForTesting creates metrics on a fresh registry so tests do not
// collide with the default registry.
func NewMetricsForTesting() *Metrics {
	return newMetrics(prometheus.NewRegistry())
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CheckRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pest_alert",
			Name:      "check_runs_total",
			Help:      "Total check sweeps executed.",
		}),
		FarmsChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pest_alert",
			Name:      "farms_checked_total",
			Help:      "Total farms evaluated across all check sweeps.",
		}),
		FarmFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pest_alert",
			Name:      "farm_check_failures_total",
			Help:      "Total per-farm failures (weather fetch or alert persistence).",
		}),
		AlertsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pest_alert",
			Name:      "alerts_created_total",
			Help:      "Total alerts persisted.",
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pest_alert",
			Name:      "weather_requests_total",
			Help:      "Weather provider requests by outcome.",
		}, []string{"outcome"}),
		WeatherRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pest_alert",
			Name:      "weather_request_duration_seconds",
			Help:      "Duration of weather provider HTTP requests.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pest_alert",
			Name:      "alerts_published_total",
			Help:      "Total alert events published to the alert topic.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pest_alert",
			Name:      "alert_publish_failures_total",
			Help:      "Total failures publishing alert events.",
		}),
	}

	reg.MustRegister(
		m.CheckRuns,
		m.FarmsChecked,
		m.FarmFailures,
		m.AlertsCreated,
		m.WeatherRequests,
		m.WeatherRequestDuration,
		m.AlertsPublished,
		m.PublishFailures,
	)
	return m
}
