package dpu

import (
	"fmt"
	"math/bits"

	"github.com/gogpu/dpu/mmio"
)

// Region is the register window of one DPU. All blocks borrow it and
// none owns it; the caller keeps it alive for as long as any block exists.
type Region struct {
	base     uint64
	window   mmio.Window
	length   uint32
	observer Observer
}

// NewRegion wraps w as a region of length bytes at physical address base.
func NewRegion(base uint64, w mmio.Window, length uint32, opts ...RegionOption) (*Region, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: nil register window", ErrInvalidArgument)
	}
	if length == 0 || length > w.Len() {
		return nil, fmt.Errorf("%w: region length %#x, window length %#x",
			ErrResourceOutOfRange, length, w.Len())
	}
	if _, carry := bits.Add64(base, uint64(length), 0); carry != 0 {
		return nil, fmt.Errorf("%w: region [%#x, +%#x) wraps the address space",
			ErrResourceOutOfRange, base, length)
	}
	o := defaultRegionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Region{base: base, window: w, length: length, observer: o.observer}, nil
}

// Base returns the physical base address.
func (r *Region) Base() uint64 { return r.base }

// Len returns the region length in bytes.
func (r *Region) Len() uint32 { return r.length }

// Window returns the underlying register window.
func (r *Region) Window() mmio.Window { return r.window }
