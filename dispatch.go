package dpu

import (
	"fmt"

	"github.com/gogpu/dpu/cmdlist"
	"github.com/gogpu/dpu/internal/bitfield"
)

// Mode selects when a register write takes effect.
type Mode uint8

const (
	// ModeImmediate stores the value into the register window now.
	ModeImmediate Mode = iota
	// ModeFrame queues the value in the next-frame batch. Blocks without
	// command-list support write immediately instead.
	ModeFrame
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeImmediate:
		return "immediate"
	case ModeFrame:
		return "frame"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Write stores value into the 32-bit register at offset, relative to the
// block's base.
func (b *Block) Write(offset, value uint32, mode Mode) error {
	if err := b.checkWord(offset); err != nil {
		return b.reject(err)
	}
	return b.dispatch(offset, value, mode)
}

// WriteBits replaces the length-bit field starting at bit start of the
// register at offset with the low bits of value. Immediate writes are a
// read-modify-write; deferred writes record the shifted and masked value
// and let the consumer merge it. Both end with the same register contents.
func (b *Block) WriteBits(offset, value uint32, start, length uint8, mode Mode) error {
	if err := b.checkBits(offset, start, length); err != nil {
		return b.reject(err)
	}
	return b.dispatchBits(offset, value, start, length, mode)
}

// WriteForStripe queues value for the stripe node. It fails with
// ErrUnsupportedOnBlock when the block cannot batch writes.
func (b *Block) WriteForStripe(node cmdlist.NodeID, offset, value uint32) error {
	if err := b.checkWord(offset); err != nil {
		return b.reject(err)
	}
	if err := b.checkDeferred(); err != nil {
		return b.reject(err)
	}
	b.deferred.Write(cmdlist.StripeKey(node), offset, value)
	b.region.observer.ObserveWrite(b.kind, PathStripe)
	return nil
}

// WriteBitsForStripe is the sub-field form of WriteForStripe.
func (b *Block) WriteBitsForStripe(node cmdlist.NodeID, offset, value uint32, start, length uint8) error {
	if err := b.checkBits(offset, start, length); err != nil {
		return b.reject(err)
	}
	if err := b.checkDeferred(); err != nil {
		return b.reject(err)
	}
	b.deferred.WriteBits(cmdlist.StripeKey(node), offset, value, start, length)
	b.region.observer.ObserveWrite(b.kind, PathStripe)
	return nil
}

// WriteRepeat writes value to the register at offset and then to its
// secondary instance at offset+Mirror. Both offsets are validated before
// either write. A block without a mirror behaves like Write.
func (b *Block) WriteRepeat(offset, value uint32, mode Mode) error {
	if err := b.checkWord(offset); err != nil {
		return b.reject(err)
	}
	if b.mirror == 0 {
		return b.dispatch(offset, value, mode)
	}
	if err := b.checkWord(offset + b.mirror); err != nil {
		return b.reject(err)
	}
	if err := b.dispatch(offset, value, mode); err != nil {
		return err
	}
	return b.dispatch(offset+b.mirror, value, mode)
}

// Read returns the current value of the register at offset. Queued writes
// are not visible until their batch is committed.
func (b *Block) Read(offset uint32) (uint32, error) {
	if err := b.checkWord(offset); err != nil {
		return 0, err
	}
	return b.region.window.Read32(b.offset + offset), nil
}

func (b *Block) dispatch(offset, value uint32, mode Mode) error {
	switch mode {
	case ModeImmediate:
	case ModeFrame:
		if b.deferred != nil {
			b.deferred.Write(cmdlist.FrameKey(), offset, value)
			b.region.observer.ObserveWrite(b.kind, PathFrame)
			return nil
		}
		b.demote(offset)
	default:
		return b.reject(fmt.Errorf("%w: write mode %d", ErrInvalidArgument, uint8(mode)))
	}
	b.region.window.Write32(b.offset+offset, value)
	b.region.observer.ObserveWrite(b.kind, PathImmediate)
	return nil
}

func (b *Block) dispatchBits(offset, value uint32, start, length uint8, mode Mode) error {
	switch mode {
	case ModeImmediate:
	case ModeFrame:
		if b.deferred != nil {
			b.deferred.WriteBits(cmdlist.FrameKey(), offset, value, start, length)
			b.region.observer.ObserveWrite(b.kind, PathFrame)
			return nil
		}
		b.demote(offset)
	default:
		return b.reject(fmt.Errorf("%w: write mode %d", ErrInvalidArgument, uint8(mode)))
	}
	w := b.region.window
	abs := b.offset + offset
	w.Write32(abs, bitfield.Merge(w.Read32(abs), bitfield.Place(value, start, length), start, length))
	b.region.observer.ObserveWrite(b.kind, PathImmediate)
	return nil
}

func (b *Block) demote(offset uint32) {
	Logger().Debug("dpu: frame write demoted to immediate",
		"block", b.name, "offset", offset)
}

func (b *Block) checkWord(offset uint32) error {
	if b.Released() {
		return ErrNullBlock
	}
	if offset%4 != 0 || uint64(offset)+4 > uint64(b.length) {
		return &RangeError{Block: b.name, Offset: offset, Length: b.length}
	}
	return nil
}

func (b *Block) checkBits(offset uint32, start, length uint8) error {
	if err := b.checkWord(offset); err != nil {
		return err
	}
	if !bitfield.Valid(start, length) {
		return &RangeError{Block: b.name, Offset: offset, Start: start, Span: max(length, 1), Length: b.length}
	}
	return nil
}

func (b *Block) checkDeferred() error {
	if b.deferred == nil {
		return fmt.Errorf("%w: %s has no command list", ErrUnsupportedOnBlock, b.name)
	}
	return nil
}

// reject reports err to the region observer and returns it.
func (b *Block) reject(err error) error {
	if !b.Released() {
		b.region.observer.ObserveError(b.kind, err)
	}
	return err
}

// Target selects the write path for a typed block operation.
type Target struct {
	mode   Mode
	stripe bool
	node   cmdlist.NodeID
}

// Immediate targets the register window directly.
func Immediate() Target { return Target{mode: ModeImmediate} }

// Frame targets the next-frame batch.
func Frame() Target { return Target{mode: ModeFrame} }

// Stripe targets the batch of one stripe node.
func Stripe(node cmdlist.NodeID) Target { return Target{stripe: true, node: node} }

// IsStripe reports whether t targets a stripe batch.
func (t Target) IsStripe() bool { return t.stripe }

// Node returns the stripe node; it is zero for non-stripe targets.
func (t Target) Node() cmdlist.NodeID { return t.node }

// Mode returns the write mode of a non-stripe target.
func (t Target) Mode() Mode { return t.mode }

func (t Target) String() string {
	if t.stripe {
		return cmdlist.StripeKey(t.node).String()
	}
	return t.mode.String()
}

func (b *Block) put(t Target, offset, value uint32) error {
	if t.stripe {
		return b.WriteForStripe(t.node, offset, value)
	}
	return b.Write(offset, value, t.mode)
}

func (b *Block) putBits(t Target, offset, value uint32, start, length uint8) error {
	if t.stripe {
		return b.WriteBitsForStripe(t.node, offset, value, start, length)
	}
	return b.WriteBits(offset, value, start, length, t.mode)
}

func (b *Block) putRepeat(t Target, offset, value uint32) error {
	if !t.stripe {
		return b.WriteRepeat(offset, value, t.mode)
	}
	if err := b.checkWord(offset); err != nil {
		return b.reject(err)
	}
	if b.mirror != 0 {
		if err := b.checkWord(offset + b.mirror); err != nil {
			return b.reject(err)
		}
	}
	if err := b.WriteForStripe(t.node, offset, value); err != nil {
		return err
	}
	if b.mirror == 0 {
		return nil
	}
	return b.WriteForStripe(t.node, offset+b.mirror, value)
}

type regWrite struct{ off, v uint32 }

// putAll validates every offset in regs, then writes them in order. A
// rejected offset leaves the window and the batches untouched.
func (b *Block) putAll(t Target, regs []regWrite) error {
	for _, r := range regs {
		if err := b.checkWord(r.off); err != nil {
			return b.reject(err)
		}
	}
	if t.stripe {
		if err := b.checkDeferred(); err != nil {
			return b.reject(err)
		}
	}
	for _, r := range regs {
		if err := b.put(t, r.off, r.v); err != nil {
			return err
		}
	}
	return nil
}
