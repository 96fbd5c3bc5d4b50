package dpu

import "fmt"

// WritePath identifies how a register write reached, or will reach, the
// hardware.
type WritePath uint8

const (
	PathImmediate WritePath = iota
	PathFrame
	PathStripe
)

// String returns the path name used as a metrics label.
func (p WritePath) String() string {
	switch p {
	case PathImmediate:
		return "immediate"
	case PathFrame:
		return "frame"
	case PathStripe:
		return "stripe"
	default:
		return fmt.Sprintf("WritePath(%d)", uint8(p))
	}
}

// Observer receives one call per dispatched or rejected write.
// Implementations must be cheap; they run inline with register access.
type Observer interface {
	ObserveWrite(kind Kind, path WritePath)
	ObserveError(kind Kind, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveWrite(Kind, WritePath) {}
func (nopObserver) ObserveError(Kind, error)     {}
