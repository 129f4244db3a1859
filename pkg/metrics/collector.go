package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"

	"github.com/xray-reporter/kube-xray-reporter/pkg/registry"
	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
)

const namespace = "xray_report"

// Collector turns finished passes into Prometheus metrics.
type Collector struct {
	highIssues   *prometheus.GaugeVec
	images       *prometheus.GaugeVec
	passes       *prometheus.CounterVec
	passDuration prometheus.Histogram
}

func NewCollector(registerer prometheus.Registerer) *Collector {
	c := &Collector{
		highIssues: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "image_high_issues",
			Help:      "Number of High severity issues reported by Xray for a container image.",
		}, []string{"namespace", "pod", "container", "image"}),
		images: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "images_total",
			Help:      "Number of containers in the last report by image resolution status.",
		}, []string{"resolution"}),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Number of report passes by result.",
		}, []string{"result"}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of report passes.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
	registerer.MustRegister(c.highIssues, c.images, c.passes, c.passDuration)
	return c
}

// ObservePass records the outcome of a pass. Per image gauges describe the
// last successful report only.
func (c *Collector) ObservePass(r report.Report, elapsed time.Duration, err error) {
	c.passDuration.Observe(elapsed.Seconds())
	if err != nil {
		c.passes.WithLabelValues("failure").Inc()
		return
	}
	c.passes.WithLabelValues("success").Inc()

	c.highIssues.Reset()
	for _, rec := range r.Records {
		if rec.IssueCount == nil {
			continue
		}
		c.highIssues.WithLabelValues(rec.Namespace, rec.Pod, rec.Container, rec.Image).Set(float64(*rec.IssueCount))
	}

	c.images.Reset()
	byStatus := lo.CountValuesBy(r.Records, func(rec report.Record) registry.Status {
		return rec.Resolution.Status
	})
	for status, count := range byStatus {
		c.images.WithLabelValues(status.String()).Set(float64(count))
	}
}
