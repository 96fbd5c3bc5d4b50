package dpu

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/dpu/wbpos"
)

// Write-back register offsets.
const (
	wbCtrl      = 0x00
	wbFormat    = 0x04
	wbAddrLo    = 0x08
	wbAddrHi    = 0x0C // wb-v2 only
	wbStride    = 0x10
	wbSize      = 0x14
	wbStripeWin = 0x18 // wb-v2 only

	wbEnableBit = 0
	wbPosShift  = 8
	wbPosBits   = 8
)

// WritebackConfig describes the memory target of a write-back engine.
type WritebackConfig struct {
	Format gputypes.TextureFormat
	Addr   uint64
	// Stride is the line pitch in bytes. Zero means tightly packed.
	Stride   uint32
	Size     image.Point
	Position wbpos.Position
}

// Writeback is the typed view of a write-back engine.
type Writeback struct {
	b   *Block
	ops writebackOps
}

// AsWriteback returns the write-back view of b.
func AsWriteback(b *Block) (*Writeback, error) {
	if b.Released() {
		return nil, ErrNullBlock
	}
	ops, ok := b.ops.(writebackOps)
	if !ok {
		return nil, errWrongKind(b, "wb")
	}
	return &Writeback{b: b, ops: ops}, nil
}

// Block returns the underlying block.
func (w *Writeback) Block() *Block { return w.b }

// Configure programs the capture target and tap position and enables the
// engine. Positions at or past wbpos.Invalid are rejected.
func (w *Writeback) Configure(t Target, cfg WritebackConfig) error {
	if err := cfg.Position.Check(); err != nil {
		return fmt.Errorf("dpu: %s: %w", w.b.name, err)
	}
	fi, err := lookupFormat(cfg.Format)
	if err != nil {
		return fmt.Errorf("dpu: %s: %w", w.b.name, err)
	}
	if !fi.writable {
		return fmt.Errorf("dpu: %s: %w: %s is fetch-only", w.b.name, ErrUnsupportedFormat, cfg.Format)
	}
	size, err := packSize(cfg.Size)
	if err != nil {
		return fmt.Errorf("dpu: %s: %w", w.b.name, err)
	}
	if cfg.Addr > math.MaxUint32 && !w.ops.stripe {
		return fmt.Errorf("%w: %s cannot write above 4 GiB (addr %#x)", ErrUnsupportedOnBlock, w.b.name, cfg.Addr)
	}
	stride := cfg.Stride
	if stride == 0 {
		stride = uint32(cfg.Size.X) * fi.bpp // #nosec G115 -- width checked by packSize
	}
	ctrl := uint32(1)<<wbEnableBit | uint32(cfg.Position)<<wbPosShift
	regs := []regWrite{
		{wbFormat, fi.code},
		{wbAddrLo, uint32(cfg.Addr)}, // #nosec G115 -- low word
	}
	if w.ops.stripe {
		regs = append(regs, regWrite{wbAddrHi, uint32(cfg.Addr >> 32)})
	}
	regs = append(regs,
		regWrite{wbStride, stride},
		regWrite{wbSize, size},
		regWrite{wbCtrl, ctrl},
	)
	return w.b.putAll(t, regs)
}

// SetPosition moves the tap point without touching the rest of the setup.
func (w *Writeback) SetPosition(t Target, p wbpos.Position) error {
	if err := p.Check(); err != nil {
		return fmt.Errorf("dpu: %s: %w", w.b.name, err)
	}
	return w.b.putBits(t, wbCtrl, uint32(p), wbPosShift, wbPosBits)
}

// SetStripeWindow limits output to the columns [x, x+width). Only the
// wb-v2 layout has the window register.
func (w *Writeback) SetStripeWindow(t Target, x, width int) error {
	if !w.ops.stripe {
		return fmt.Errorf("%w: %s has no stripe window", ErrUnsupportedOnBlock, w.b.name)
	}
	if width <= 0 {
		return fmt.Errorf("%w: %s stripe width %d", ErrInvalidArgument, w.b.name, width)
	}
	v, err := packPoint(image.Pt(x, width))
	if err != nil {
		return fmt.Errorf("dpu: %s stripe window: %w", w.b.name, err)
	}
	return w.b.put(t, wbStripeWin, v)
}

// Disable clears the enable bit.
func (w *Writeback) Disable(t Target) error {
	return w.b.putBits(t, wbCtrl, 0, wbEnableBit, 1)
}
