package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/saiset-co/sai-pipeline/types"
	"github.com/saiset-co/sai-pipeline/utils"
)

type PrometheusMetrics struct {
	config     *types.MetricsConfig
	registry   *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	mu         sync.Mutex
}

func NewPrometheusMetrics(config *types.MetricsConfig) (*PrometheusMetrics, error) {
	if config == nil || !config.Enabled {
		return nil, types.ErrMetricsIsDisabled
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &PrometheusMetrics{
		config:     config,
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}, nil
}

func (p *PrometheusMetrics) Counter(name string, labels map[string]string) types.Counter {
	p.mu.Lock()
	vec, exists := p.counters[name]
	if !exists {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Name:        name,
			ConstLabels: prometheus.Labels(p.config.Labels),
		}, labelNames(labels))
		p.registry.MustRegister(vec)
		p.counters[name] = vec
	}
	p.mu.Unlock()

	return promCounter{counter: vec.With(prometheus.Labels(labels))}
}

func (p *PrometheusMetrics) Histogram(name string, buckets []float64, labels map[string]string) types.Histogram {
	p.mu.Lock()
	vec, exists := p.histograms[name]
	if !exists {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Name:        name,
			Buckets:     buckets,
			ConstLabels: prometheus.Labels(p.config.Labels),
		}, labelNames(labels))
		p.registry.MustRegister(vec)
		p.histograms[name] = vec
	}
	p.mu.Unlock()

	return promHistogram{histogram: vec.With(prometheus.Labels(labels))}
}

// GetMetrics renders the gathered metric families as JSON, for diagnostics
// surfaces that are not prometheus scrapers.
func (p *PrometheusMetrics) GetMetrics() ([]byte, error) {
	families, err := p.registry.Gather()
	if err != nil {
		return nil, types.WrapError(err, "failed to gather metrics")
	}

	values := make([]map[string]interface{}, 0, len(families))
	for _, family := range families {
		values = append(values, map[string]interface{}{
			"name": family.GetName(),
			"type": family.GetType().String(),
			"help": family.GetHelp(),
		})
	}

	return utils.Marshal(values)
}

// HTTPHandler exposes the scrape endpoint over fasthttp.
func (p *PrometheusMetrics) HTTPHandler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type promCounter struct {
	counter prometheus.Counter
}

func (c promCounter) Inc() {
	c.counter.Inc()
}

func (c promCounter) Add(value float64) {
	c.counter.Add(value)
}

func (c promCounter) Get() float64 {
	var m dto.Metric
	if err := c.counter.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

type promHistogram struct {
	histogram prometheus.Observer
}

func (h promHistogram) Observe(value float64) {
	h.histogram.Observe(value)
}

func (h promHistogram) ObserveDuration(start time.Time) {
	h.histogram.Observe(time.Since(start).Seconds())
}
