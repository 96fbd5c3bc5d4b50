package dpu

import (
	"errors"
	"testing"

	"github.com/gogpu/dpu/mmio"
)

func newTestRegion(tb testing.TB, size uint32, opts ...RegionOption) *Region {
	tb.Helper()
	r, err := NewRegion(0x1_0000_0000, mmio.NewMemory(size), size, opts...)
	if err != nil {
		tb.Fatalf("NewRegion(%#x) = %v", size, err)
	}
	return r
}

func memOf(r *Region) *mmio.Memory {
	return r.Window().(*mmio.Memory)
}

func mustBlock(tb testing.TB, kind Kind, c Capability, r *Region, opts ...BlockOption) *Block {
	tb.Helper()
	b, err := InitBlock(kind, c, r, opts...)
	if err != nil {
		tb.Fatalf("InitBlock(%s, %+v) = %v", kind, c, err)
	}
	return b
}

// countingObserver records dispatched and rejected writes.
type countingObserver struct {
	writes map[WritePath]int
	errs   []error
}

func newCountingObserver() *countingObserver {
	return &countingObserver{writes: make(map[WritePath]int)}
}

func (o *countingObserver) ObserveWrite(_ Kind, p WritePath) { o.writes[p]++ }
func (o *countingObserver) ObserveError(_ Kind, err error)   { o.errs = append(o.errs, err) }

var errMonitor = errors.New("monitor refused")
