package dpu

import (
	"fmt"
	"image"

	"golang.org/x/image/math/fixed"
)

// Scaler register offsets.
const (
	sclCtrl     = 0x00
	sclSrcSize  = 0x04
	sclDstSize  = 0x08
	sclHStep    = 0x0C
	sclVStep    = 0x10
	sclHPhase   = 0x14 // scaler-v2 only
	sclVPhase   = 0x18 // scaler-v2 only
	sclCoefBase = 0x40

	sclCtrlEnable = 1 << 0

	// Step and phase registers hold 28-bit Q.12 values.
	sclFieldMask = 1<<28 - 1
)

// ScalerConfig describes one scaling operation. Coefficients is an opaque
// filter table loaded verbatim.
type ScalerConfig struct {
	Src          image.Point
	Dst          image.Point
	Coefficients []uint32
}

// ScaleStep returns the source advance per destination pixel, src/dst, in
// the hardware's Q.12 format.
func ScaleStep(src, dst int) (fixed.Int52_12, error) {
	if src <= 0 || dst <= 0 {
		return 0, fmt.Errorf("%w: scale %d -> %d", ErrInvalidArgument, src, dst)
	}
	step := fixed.Int52_12((int64(src) << 12) / int64(dst))
	if step <= 0 || step > sclFieldMask {
		return 0, fmt.Errorf("%w: scale ratio %d/%d outside Q.12 step range", ErrInvalidArgument, src, dst)
	}
	return step, nil
}

// InitialPhase returns the centre-aligned starting phase for step,
// (step-1)/2. It is negative when upscaling.
func InitialPhase(step fixed.Int52_12) fixed.Int52_12 {
	return (step - 1<<12) / 2
}

// encodeQ12 stores v as a 28-bit two's complement field.
func encodeQ12(v fixed.Int52_12) uint32 {
	return uint32(int64(v)) & sclFieldMask // #nosec G115 -- masked to field width
}

// Scaler is the typed view of a scaler block.
type Scaler struct {
	b   *Block
	ops scalerOps
}

// AsScaler returns the scaler view of b.
func AsScaler(b *Block) (*Scaler, error) {
	if b.Released() {
		return nil, ErrNullBlock
	}
	ops, ok := b.ops.(scalerOps)
	if !ok {
		return nil, errWrongKind(b, "scaler")
	}
	return &Scaler{b: b, ops: ops}, nil
}

// Block returns the underlying block.
func (s *Scaler) Block() *Block { return s.b }

// Configure programs sizes, steps, phases when the layout has them, and the
// coefficient table, then enables the scaler.
func (s *Scaler) Configure(t Target, cfg ScalerConfig) error {
	src, err := packSize(cfg.Src)
	if err != nil {
		return fmt.Errorf("dpu: %s source: %w", s.b.name, err)
	}
	dst, err := packSize(cfg.Dst)
	if err != nil {
		return fmt.Errorf("dpu: %s destination: %w", s.b.name, err)
	}
	hStep, err := ScaleStep(cfg.Src.X, cfg.Dst.X)
	if err != nil {
		return fmt.Errorf("dpu: %s horizontal: %w", s.b.name, err)
	}
	vStep, err := ScaleStep(cfg.Src.Y, cfg.Dst.Y)
	if err != nil {
		return fmt.Errorf("dpu: %s vertical: %w", s.b.name, err)
	}
	if end := uint64(sclCoefBase) + 4*uint64(len(cfg.Coefficients)); len(cfg.Coefficients) > 0 && end > uint64(s.b.length) {
		return &RangeError{Block: s.b.name, Offset: uint32(end - 4), Length: s.b.length} // #nosec G115 -- compared against a uint32 length
	}

	regs := []regWrite{
		{sclSrcSize, src},
		{sclDstSize, dst},
		{sclHStep, encodeQ12(hStep)},
		{sclVStep, encodeQ12(vStep)},
	}
	if s.ops.phase {
		regs = append(regs,
			regWrite{sclHPhase, encodeQ12(InitialPhase(hStep))},
			regWrite{sclVPhase, encodeQ12(InitialPhase(vStep))},
		)
	}
	for i, c := range cfg.Coefficients {
		regs = append(regs, regWrite{sclCoefBase + 4*uint32(i), c}) // #nosec G115 -- bounded by block length
	}
	regs = append(regs, regWrite{sclCtrl, sclCtrlEnable})
	return s.b.putAll(t, regs)
}

// Disable turns the scaler off.
func (s *Scaler) Disable(t Target) error {
	return s.b.putBits(t, sclCtrl, 0, 0, 1)
}
