package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics records quote-call outcomes per delivery provider.
type ProviderMetrics struct {
	latency  *prometheus.HistogramVec
	quotes   *prometheus.CounterVec
	failures *prometheus.CounterVec
	timeouts *prometheus.CounterVec
}

// NewProviderMetrics registers the provider metrics on the provided registerer.
func NewProviderMetrics(reg prometheus.Registerer) *ProviderMetrics {
	if reg == nil {
		return &ProviderMetrics{}
	}
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shipping_provider_call_seconds",
		Help:    "Latency of provider quote calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_provider_quotes_total",
		Help: "Quotes returned per provider.",
	}, []string{"provider"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_provider_failures_total",
		Help: "Failed provider quote calls.",
	}, []string{"provider"})
	timeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_provider_timeouts_total",
		Help: "Provider quote calls cut off by the per-call deadline.",
	}, []string{"provider"})
	reg.MustRegister(latency, quotes, failures, timeouts)
	return &ProviderMetrics{
		latency:  latency,
		quotes:   quotes,
		failures: failures,
		timeouts: timeouts,
	}
}

// ObserveCall records the latency for one provider call.
func (p *ProviderMetrics) ObserveCall(provider string, duration time.Duration) {
	if p == nil || p.latency == nil {
		return
	}
	p.latency.WithLabelValues(normalizeLabel(provider)).Observe(duration.Seconds())
}

// AddQuotes counts quotes returned by a provider.
func (p *ProviderMetrics) AddQuotes(provider string, count int) {
	if p == nil || p.quotes == nil || count <= 0 {
		return
	}
	p.quotes.WithLabelValues(normalizeLabel(provider)).Add(float64(count))
}

// IncFailure counts a failed provider call.
func (p *ProviderMetrics) IncFailure(provider string) {
	if p == nil || p.failures == nil {
		return
	}
	p.failures.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncTimeout counts a provider call that hit the per-call deadline.
func (p *ProviderMetrics) IncTimeout(provider string) {
	if p == nil || p.timeouts == nil {
		return
	}
	p.timeouts.WithLabelValues(normalizeLabel(provider)).Inc()
}
