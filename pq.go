package dpu

import "fmt"

// Picture-quality register offsets.
const (
	pqCtrl        = 0x00
	pqPayloadBase = 0x100

	pqEnableBit = 0
	pqBypassBit = 1
)

// PQ is the typed view of a pre- or post-mixer picture-quality stage.
// Its coefficient tables are opaque payloads.
type PQ struct {
	b *Block
}

// AsPQ returns the picture-quality view of b.
func AsPQ(b *Block) (*PQ, error) {
	if b.Released() {
		return nil, ErrNullBlock
	}
	if _, ok := b.ops.(pqOps); !ok {
		return nil, errWrongKind(b, "pq")
	}
	return &PQ{b: b}, nil
}

// Block returns the underlying block.
func (p *PQ) Block() *Block { return p.b }

// LoadPayload writes words into the payload area starting at the byte
// offset off from the payload base. The whole range is validated before the
// first write.
func (p *PQ) LoadPayload(t Target, off uint32, words []uint32) error {
	if off%4 != 0 {
		return &RangeError{Block: p.b.name, Offset: pqPayloadBase + off, Length: p.b.length}
	}
	end := uint64(pqPayloadBase) + uint64(off) + 4*uint64(len(words))
	if end > uint64(p.b.length) {
		return fmt.Errorf("dpu: %s payload of %d words at %#x: %w",
			p.b.name, len(words), off, &RangeError{Block: p.b.name, Offset: pqPayloadBase + off, Length: p.b.length})
	}
	for i, w := range words {
		if err := p.b.put(t, pqPayloadBase+off+4*uint32(i), w); err != nil { // #nosec G115 -- bounded above
			return err
		}
	}
	return nil
}

// SetEnabled turns processing on or off.
func (p *PQ) SetEnabled(t Target, on bool) error {
	return p.b.putBits(t, pqCtrl, boolBit(on), pqEnableBit, 1)
}

// SetBypass routes pixels around the stage without disabling it.
func (p *PQ) SetBypass(t Target, bypass bool) error {
	return p.b.putBits(t, pqCtrl, boolBit(bypass), pqBypassBit, 1)
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
