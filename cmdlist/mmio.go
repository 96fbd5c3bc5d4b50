package cmdlist

import "github.com/gogpu/dpu/mmio"

// MMIO is a Consumer that applies batches to a register window with CPU
// stores. It stands in for the hardware command-list engine.
type MMIO struct {
	w mmio.Window
}

// NewMMIO returns a consumer writing to w.
func NewMMIO(w mmio.Window) *MMIO {
	return &MMIO{w: w}
}

// Commit implements Consumer. Merge entries read the current word first.
func (c *MMIO) Commit(b *Batch) error {
	for _, e := range b.Entries() {
		if e.Op == OpWrite {
			c.w.Write32(e.Offset, e.Value)
			continue
		}
		c.w.Write32(e.Offset, e.Apply(c.w.Read32(e.Offset)))
	}
	return nil
}

func init() {
	Register("mmio", func(w mmio.Window) Consumer {
		return NewMMIO(w)
	})
}
