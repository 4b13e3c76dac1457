package metrics

import (
	"time"

	"github.com/saiset-co/sai-pipeline/types"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) Counter(name string, labels map[string]string) types.Counter {
	return noopCounter{}
}

func (n *NoopMetrics) Histogram(name string, buckets []float64, labels map[string]string) types.Histogram {
	return noopHistogram{}
}

func (n *NoopMetrics) GetMetrics() ([]byte, error) {
	return []byte("[]"), nil
}

type noopCounter struct{}

func (noopCounter) Inc()              {}
func (noopCounter) Add(value float64) {}
func (noopCounter) Get() float64      { return 0 }

type noopHistogram struct{}

func (noopHistogram) Observe(value float64)           {}
func (noopHistogram) ObserveDuration(start time.Time) {}
