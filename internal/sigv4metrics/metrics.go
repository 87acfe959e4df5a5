// Package sigv4metrics instruments sigv4.GenerateHTTPAuthorization
// calls for the sigv4sign demo server: counts, latencies, and failures
// by error kind.
package sigv4metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ethanadams/sigv4/internal/logging"
	"github.com/ethanadams/sigv4/sigv4"
)

var logger = logging.Component("sigv4metrics")

// Collector holds the Prometheus instruments for the signing demo.
type Collector struct {
	signTotal    *prometheus.CounterVec
	signDuration *prometheus.HistogramVec
	signErrors   *prometheus.CounterVec
	lastDuration *prometheus.GaugeVec
}

// NewCollector registers the signing metrics against reg and returns a
// Collector ready to record calls. A nil reg registers against
// prometheus.DefaultRegisterer, which is what "sigv4sign -serve" wants
// since it exposes prometheus.DefaultGatherer via promhttp.Handler().
// Callers that need an isolated registry (tests, or embedding sigv4sign
// metrics alongside another process's own) should pass their own.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Collector{
		signTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigv4_sign_total",
				Help: "Total number of GenerateHTTPAuthorization calls",
			},
			[]string{"service", "region", "status"},
		),
		signDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sigv4_sign_duration_seconds",
				Help:    "Duration of GenerateHTTPAuthorization calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "region"},
		),
		signErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigv4_sign_errors_total",
				Help: "Total number of failed signing calls, by error kind",
			},
			[]string{"service", "region", "kind"},
		),
		lastDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sigv4_sign_last_duration_seconds",
				Help: "Duration of the most recent signing call",
			},
			[]string{"service", "region"},
		),
	}
}

// RecordSign records the outcome of one signing call.
func (c *Collector) RecordSign(service, region string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	c.signTotal.WithLabelValues(service, region, status).Inc()
	c.signDuration.WithLabelValues(service, region).Observe(duration.Seconds())
	c.lastDuration.WithLabelValues(service, region).Set(duration.Seconds())

	if err != nil {
		kind, ok := sigv4.KindOf(err)
		label := "unknown"
		if ok {
			label = kind.String()
		}
		c.signErrors.WithLabelValues(service, region, label).Inc()
		logger.Debug("sign failed for service=%s region=%s kind=%s: %v", service, region, label, err)
	}
}
