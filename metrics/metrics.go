// Package metrics publishes operational counters and gauges.
// File: metrics/metrics.go
package metrics

// Recorder receives counter increments and gauge readings.
type Recorder interface {
	IncCounter(name string)
	// SetGauge records value for name, dimensioned by topic.
	SetGauge(name string, value float64, topic string)
}

// Noop discards everything; used when metrics are disabled.
type Noop struct{}

func (Noop) IncCounter(string) {}
func (Noop) SetGauge(string, float64, string) {}
