// Package metrics exports register write counters to Prometheus.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/dpu"
)

// Collector counts dispatched and rejected register writes. It implements
// dpu.Observer; install it with dpu.WithObserver.
type Collector struct {
	writes *prometheus.CounterVec
	errors *prometheus.CounterVec
}

var _ dpu.Observer = (*Collector)(nil)

// NewCollector creates the counters and registers them with reg.
// A nil reg skips registration.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpu_register_writes_total",
				Help: "Number of register writes dispatched, by block kind and write path",
			},
			[]string{"kind", "path"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpu_register_write_errors_total",
				Help: "Number of register writes rejected, by block kind and reason",
			},
			[]string{"kind", "reason"},
		),
	}
	if reg == nil {
		return c, nil
	}
	for _, cv := range []prometheus.Collector{c.writes, c.errors} {
		if err := reg.Register(cv); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveWrite implements dpu.Observer.
func (c *Collector) ObserveWrite(kind dpu.Kind, path dpu.WritePath) {
	c.writes.WithLabelValues(kind.String(), path.String()).Inc()
}

// ObserveError implements dpu.Observer.
func (c *Collector) ObserveError(kind dpu.Kind, err error) {
	c.errors.WithLabelValues(kind.String(), Reason(err)).Inc()
}

// Reason maps a dispatcher error to its metrics label.
func Reason(err error) string {
	switch {
	case errors.Is(err, dpu.ErrOffsetOutOfBlockRange):
		return "out_of_range"
	case errors.Is(err, dpu.ErrUnsupportedOnBlock):
		return "unsupported"
	case errors.Is(err, dpu.ErrNullBlock):
		return "null_block"
	case errors.Is(err, dpu.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "other"
	}
}
