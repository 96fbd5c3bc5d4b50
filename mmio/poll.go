package mmio

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned by Poll when the condition did not hold within the budget.
var ErrTimeout = errors.New("mmio: poll timed out")

// PollSpec bounds a register poll.
type PollSpec struct {
	// Mask selects the bits compared against Want.
	Mask uint32
	// Want is the expected value of the masked bits.
	Want uint32
	// Timeout is the total budget. Zero means a single read.
	Timeout time.Duration
	// Interval is the delay between reads. Zero reads back to back.
	Interval time.Duration
}

// Poll reads offset until value&Mask == Want, the timeout elapses or ctx is done.
// It returns the last value read. On timeout the error is ErrTimeout.
func Poll(ctx context.Context, w Window, offset uint32, spec PollSpec) (uint32, error) {
	deadline := time.Now().Add(spec.Timeout)
	for {
		v := w.Read32(offset)
		if v&spec.Mask == spec.Want {
			return v, nil
		}
		if !time.Now().Before(deadline) {
			return v, ErrTimeout
		}
		if err := sleep(ctx, spec.Interval); err != nil {
			return v, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
