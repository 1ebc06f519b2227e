// Package metrics records digest activity as prometheus metrics.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
)

const prometheusMetricNamespace = "kff"

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics holds the digest collectors and the registry they live in. It
// implements ports.DigestObserver.
type Metrics struct {
	registry *prometheus.Registry

	digestsTotal    *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	bytesTotal      *prometheus.CounterVec
	durationSeconds *prometheus.HistogramVec
}

// New creates the digest collectors on a private registry, so several
// instances never clash.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		digestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prometheusMetricNamespace,
				Name:      "digests_total",
				Help:      "Number of digest runs, by input source and outcome.",
			},
			[]string{"source", "outcome"},
		),

		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prometheusMetricNamespace,
				Name:      "digest_failures_total",
				Help:      "Number of failed digest runs, by error category.",
			},
			[]string{"category"},
		),

		bytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prometheusMetricNamespace,
				Name:      "digested_bytes_total",
				Help:      "Number of bytes fed to digest engines, by input source.",
			},
			[]string{"source"},
		),

		durationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: prometheusMetricNamespace,
				Name:      "digest_duration_seconds",
				Help:      "Duration of digest runs, by input source.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"source"},
		),
	}

	m.registry.MustRegister(m.digestsTotal, m.failuresTotal, m.bytesTotal, m.durationSeconds)
	return m
}

// ObserveDigest records one digest run.
func (m *Metrics) ObserveDigest(source string, size int64, elapsed time.Duration, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
		m.failuresTotal.WithLabelValues(kfferrors.CategoryOf(err).String()).Inc()
	}

	m.digestsTotal.WithLabelValues(source, outcome).Inc()
	m.bytesTotal.WithLabelValues(source).Add(float64(size))
	m.durationSeconds.WithLabelValues(source).Observe(elapsed.Seconds())
}

// Registry exposes the registry, e.g. for promhttp or testutil.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText writes every collected metric in the prometheus text
// exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}

	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}

// Summary totals the runs recorded so far.
type Summary struct {
	Succeeded uint64
	Failed    uint64
	Bytes     uint64
}

// Summarize gathers the registry and totals runs and bytes across sources.
func (m *Metrics) Summarize() (Summary, error) {
	var s Summary

	families, err := m.registry.Gather()
	if err != nil {
		return s, err
	}

	for _, family := range families {
		switch family.GetName() {
		case prometheusMetricNamespace + "_digests_total":
			for _, metric := range family.GetMetric() {
				count := uint64(metric.GetCounter().GetValue())
				if labelValue(metric, "outcome") == outcomeSuccess {
					s.Succeeded += count
				} else {
					s.Failed += count
				}
			}
		case prometheusMetricNamespace + "_digested_bytes_total":
			for _, metric := range family.GetMetric() {
				s.Bytes += uint64(metric.GetCounter().GetValue())
			}
		}
	}

	return s, nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}
