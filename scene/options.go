package scene

import (
	"time"

	"github.com/gogpu/dpu"
)

// Default clear-acknowledge poll budget.
const (
	DefaultAckTimeout  = 1000 * time.Microsecond
	DefaultAckInterval = 10 * time.Microsecond
)

// Option configures a Scene during New.
type Option func(*options)

type options struct {
	target      dpu.Target
	ackTimeout  time.Duration
	ackInterval time.Duration
}

func defaultOptions() options {
	return options{
		target:      dpu.Frame(),
		ackTimeout:  DefaultAckTimeout,
		ackInterval: DefaultAckInterval,
	}
}

// WithTarget sets the write path for configuration writes.
// The default is dpu.Frame().
func WithTarget(t dpu.Target) Option {
	return func(o *options) {
		o.target = t
	}
}

// WithAckTimeout bounds the wait for the clear acknowledge in Enable.
// Non-positive values keep the default.
func WithAckTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ackTimeout = d
		}
	}
}

// WithAckInterval sets the delay between clear acknowledge reads.
func WithAckInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.ackInterval = d
		}
	}
}
