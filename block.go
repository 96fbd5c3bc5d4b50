package dpu

import (
	"fmt"

	"github.com/gogpu/dpu/cmdlist"
)

// Block is the runtime object of one hardware block. It borrows its region
// and, when batching is enabled, a command-list handle.
//
// A Block is not safe for concurrent use. Distinct blocks never overlap, so
// different goroutines may drive different blocks of one region.
type Block struct {
	region   *Region
	kind     Kind
	name     string
	id       int
	offset   uint32
	length   uint32
	mirror   uint32
	features Feature
	ops      blockOps
	deferred *cmdlist.Handle
}

// InitBlock validates c against r and creates the block's runtime object.
// The register layout is chosen from kind and c.Features here and never
// changes afterwards. A capability that does not fit inside r yields an
// error matching ErrResourceOutOfRange and no block.
func InitBlock(kind Kind, c Capability, r *Region, opts ...BlockOption) (*Block, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil region for %s", ErrInvalidArgument, c.Name)
	}
	if err := checkCapability(c, r); err != nil {
		return nil, err
	}
	ops, err := selectOps(kind, c.Features)
	if err != nil {
		return nil, err
	}

	var o blockOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := &Block{
		region:   r,
		kind:     kind,
		name:     c.Name,
		id:       c.ID,
		offset:   c.Offset,
		length:   c.Length,
		mirror:   c.Mirror,
		features: c.Features,
		ops:      ops,
	}
	if b.name == "" {
		b.name = fmt.Sprintf("%s%d", kind, c.ID)
	}
	if c.Features.Has(FeatureCmdList) && o.manager != nil {
		b.deferred = cmdlist.NewHandle(o.manager, c.Offset)
	}
	ops.prewarm(b)

	Logger().Debug("dpu: block initialized",
		"block", b.name,
		"kind", kind.String(),
		"variant", ops.variant(),
		"offset", c.Offset,
		"length", c.Length,
		"deferred", b.deferred != nil)
	return b, nil
}

func checkCapability(c Capability, r *Region) error {
	fail := func(reason string) error {
		return &CapabilityError{
			Name:         c.Name,
			Base:         r.base,
			Offset:       c.Offset,
			Length:       c.Length,
			RegionLength: r.length,
			Reason:       reason,
		}
	}
	// r.base+r.length cannot wrap (NewRegion), so comparing the offsets
	// within the region is equivalent to comparing absolute addresses.
	switch {
	case c.Length == 0:
		return fail("empty block")
	case c.Offset%4 != 0 || c.Length%4 != 0:
		return fail("unaligned block")
	case uint64(c.Offset)+uint64(c.Length) > uint64(r.length):
		return fail("block ends past region")
	case c.Mirror%4 != 0 || (c.Mirror != 0 && c.Mirror >= c.Length):
		return fail("mirror instance outside block")
	}
	return nil
}

// DeinitBlock releases the block's runtime object. It touches neither the
// region nor the hardware registers; later operations on b fail with
// ErrNullBlock.
func DeinitBlock(b *Block) {
	if b == nil || b.region == nil {
		return
	}
	Logger().Debug("dpu: block released", "block", b.name)
	b.region = nil
	b.ops = nil
	b.deferred = nil
}

// Name returns the capability name.
func (b *Block) Name() string { return b.name }

// ID returns the instance number within the block's kind.
func (b *Block) ID() int { return b.id }

// Kind returns the block family.
func (b *Block) Kind() Kind { return b.kind }

// Offset returns the block's byte offset inside the region.
func (b *Block) Offset() uint32 { return b.offset }

// Length returns the block's register window length in bytes.
func (b *Block) Length() uint32 { return b.length }

// Mirror returns the distance to the secondary register instance.
func (b *Block) Mirror() uint32 { return b.mirror }

// Features returns the capability feature bits.
func (b *Block) Features() Feature { return b.features }

// Variant returns the name of the register layout bound at init.
func (b *Block) Variant() string {
	if b == nil || b.ops == nil {
		return ""
	}
	return b.ops.variant()
}

// Deferred reports whether the block can batch writes.
func (b *Block) Deferred() bool {
	return b != nil && b.deferred != nil
}

// Released reports whether the block is nil or has been deinitialized.
func (b *Block) Released() bool {
	return b == nil || b.region == nil
}

func (b *Block) String() string {
	if b == nil {
		return "<nil block>"
	}
	return fmt.Sprintf("%s(%s@%#x+%#x)", b.name, b.Variant(), b.offset, b.length)
}
