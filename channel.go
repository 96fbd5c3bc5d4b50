package dpu

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"
)

// Channel register offsets.
const (
	chanCtrl    = 0x00
	chanFormat  = 0x04
	chanAddrLo  = 0x08
	chanAddrHi  = 0x0C // rdma-v2 only
	chanStride  = 0x10
	chanSrcSize = 0x14
	chanSrcPos  = 0x18

	chanCtrlEnable   = 1 << 0
	chanCtrlCompress = 1 << 15
)

// ChannelConfig describes one source surface fetched by a channel.
type ChannelConfig struct {
	Format gputypes.TextureFormat
	Addr   uint64
	// Stride is the line pitch in bytes. Zero means tightly packed.
	Stride uint32
	// Src is the crop rectangle inside the source surface.
	Src        image.Rectangle
	Compressed bool
}

// Channel is the typed view of a source DMA channel.
type Channel struct {
	b   *Block
	ops *channelOps
}

// AsChannel returns the channel view of b.
func AsChannel(b *Block) (*Channel, error) {
	if b.Released() {
		return nil, ErrNullBlock
	}
	ops, ok := b.ops.(*channelOps)
	if !ok {
		return nil, errWrongKind(b, "rdma")
	}
	return &Channel{b: b, ops: ops}, nil
}

// Block returns the underlying block.
func (c *Channel) Block() *Block { return c.b }

// DefaultMode returns the mode word computed when the block was created.
func (c *Channel) DefaultMode() uint32 { return c.ops.defaultMode }

// Configure programs the channel to fetch cfg and enables it.
func (c *Channel) Configure(t Target, cfg ChannelConfig) error {
	fi, err := lookupFormat(cfg.Format)
	if err != nil {
		return fmt.Errorf("dpu: %s: %w", c.b.name, err)
	}
	size, err := packSize(cfg.Src.Size())
	if err != nil {
		return fmt.Errorf("dpu: %s source: %w", c.b.name, err)
	}
	pos, err := packPoint(cfg.Src.Min)
	if err != nil {
		return fmt.Errorf("dpu: %s source: %w", c.b.name, err)
	}
	if !c.ops.extended && cfg.Addr > math.MaxUint32 {
		return fmt.Errorf("%w: %s cannot fetch above 4 GiB (addr %#x)", ErrUnsupportedOnBlock, c.b.name, cfg.Addr)
	}
	if cfg.Compressed && !c.b.features.Has(FeatureRDMACompression) {
		return fmt.Errorf("%w: %s has no compressed fetch", ErrUnsupportedOnBlock, c.b.name)
	}
	stride := cfg.Stride
	if stride == 0 {
		stride = uint32(cfg.Src.Dx()) * fi.bpp // #nosec G115 -- width checked by packSize
	}

	ctrl := c.ops.defaultMode | chanCtrlEnable
	if cfg.Compressed {
		ctrl |= chanCtrlCompress
	}
	regs := []regWrite{
		{chanFormat, fi.code},
		{chanAddrLo, uint32(cfg.Addr)}, // #nosec G115 -- low word
	}
	if c.ops.extended {
		regs = append(regs, regWrite{chanAddrHi, uint32(cfg.Addr >> 32)})
	}
	regs = append(regs,
		regWrite{chanStride, stride},
		regWrite{chanSrcSize, size},
		regWrite{chanSrcPos, pos},
		regWrite{chanCtrl, ctrl},
	)
	return c.b.putAll(t, regs)
}

// Disable clears the channel enable bit, leaving the rest of the setup.
func (c *Channel) Disable(t Target) error {
	return c.b.putBits(t, chanCtrl, 0, 0, 1)
}

// Reset restores the control word to its pre-computed default. The channel
// ends up disabled.
func (c *Channel) Reset(t Target) error {
	return c.b.put(t, chanCtrl, c.ops.defaultMode)
}

// SetSecure moves the channel in or out of the secure session through m.
// Only success or failure is reported.
func (c *Channel) SetSecure(m SecureMonitor, secure bool) error {
	if !c.b.features.Has(FeatureSecure) {
		return fmt.Errorf("%w: %s has no secure session support", ErrUnsupportedOnBlock, c.b.name)
	}
	if m == nil {
		return fmt.Errorf("%w: nil secure monitor", ErrInvalidArgument)
	}
	if err := m.SetChannelSecure(c.b.id, secure); err != nil {
		return fmt.Errorf("dpu: %s secure=%t: %w", c.b.name, secure, err)
	}
	return nil
}

// packSize encodes a width and height as w | h<<16.
func packSize(p image.Point) (uint32, error) {
	if p.X <= 0 || p.Y <= 0 {
		return 0, fmt.Errorf("%w: empty size %v", ErrInvalidArgument, p)
	}
	return packPoint(p)
}

// packPoint encodes x | y<<16 for coordinates in [0, 0xFFFF].
func packPoint(p image.Point) (uint32, error) {
	if p.X < 0 || p.Y < 0 || p.X > 0xFFFF || p.Y > 0xFFFF {
		return 0, fmt.Errorf("%w: coordinate %v outside 16 bits", ErrInvalidArgument, p)
	}
	return uint32(p.X) | uint32(p.Y)<<16, nil // #nosec G115 -- range checked
}
