package dpu

import "fmt"

// Timing generator register offsets.
const (
	tgCtrl     = 0x00
	tgHActive  = 0x04
	tgHFront   = 0x08
	tgHSync    = 0x0C
	tgHBack    = 0x10
	tgVActive  = 0x14
	tgVFront   = 0x18
	tgVSync    = 0x1C
	tgVBack    = 0x20
	tgPolarity = 0x24

	tgHSyncNeg = 1 << 0
	tgVSyncNeg = 1 << 1
)

// Timing is a display mode in pixels and lines.
type Timing struct {
	HActive, HFront, HSync, HBack int
	VActive, VFront, VSync, VBack int

	HSyncNegative bool
	VSyncNegative bool
}

// HTotal returns the line length including blanking.
func (tm Timing) HTotal() int { return tm.HActive + tm.HFront + tm.HSync + tm.HBack }

// VTotal returns the frame height including blanking.
func (tm Timing) VTotal() int { return tm.VActive + tm.VFront + tm.VSync + tm.VBack }

func (tm Timing) validate() error {
	if tm.HActive <= 0 || tm.VActive <= 0 || tm.HSync <= 0 || tm.VSync <= 0 {
		return fmt.Errorf("%w: timing needs active and sync widths: %+v", ErrInvalidArgument, tm)
	}
	for _, v := range []int{tm.HActive, tm.HFront, tm.HSync, tm.HBack, tm.VActive, tm.VFront, tm.VSync, tm.VBack} {
		if v < 0 || v > 0xFFFF {
			return fmt.Errorf("%w: timing value %d outside 16 bits", ErrInvalidArgument, v)
		}
	}
	return nil
}

// TimingEngine is the typed view of an interface timing generator.
type TimingEngine struct {
	b *Block
}

// AsTimingEngine returns the timing generator view of b.
func AsTimingEngine(b *Block) (*TimingEngine, error) {
	if b.Released() {
		return nil, ErrNullBlock
	}
	if _, ok := b.ops.(timingOps); !ok {
		return nil, errWrongKind(b, "itgen")
	}
	return &TimingEngine{b: b}, nil
}

// Block returns the underlying block.
func (e *TimingEngine) Block() *Block { return e.b }

// Configure programs tm. The generator keeps its enable state.
func (e *TimingEngine) Configure(t Target, tm Timing) error {
	if err := tm.validate(); err != nil {
		return fmt.Errorf("dpu: %s: %w", e.b.name, err)
	}
	var pol uint32
	if tm.HSyncNegative {
		pol |= tgHSyncNeg
	}
	if tm.VSyncNegative {
		pol |= tgVSyncNeg
	}
	// #nosec G115 -- every field validated to 16 bits
	return e.b.putAll(t, []regWrite{
		{tgHActive, uint32(tm.HActive)},
		{tgHFront, uint32(tm.HFront)},
		{tgHSync, uint32(tm.HSync)},
		{tgHBack, uint32(tm.HBack)},
		{tgVActive, uint32(tm.VActive)},
		{tgVFront, uint32(tm.VFront)},
		{tgVSync, uint32(tm.VSync)},
		{tgVBack, uint32(tm.VBack)},
		{tgPolarity, pol},
	})
}

// Enable starts or stops the generator.
func (e *TimingEngine) Enable(t Target, on bool) error {
	return e.b.putBits(t, tgCtrl, boolBit(on), 0, 1)
}
