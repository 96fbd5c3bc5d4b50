package cmdlist

import "fmt"

// Consumer drains batches, typically by handing them to the hardware
// command-list engine.
type Consumer interface {
	// Commit applies every entry of b in order.
	Commit(b *Batch) error
}

// Manager owns the pending batches of one display processor.
// Batches are created on first use.
//
// Manager is not safe for concurrent use.
type Manager struct {
	frame   *Batch
	stripes map[NodeID]*Batch
	order   []NodeID
}

// NewManager returns a manager with no pending batches.
func NewManager() *Manager {
	return &Manager{stripes: make(map[NodeID]*Batch)}
}

// Frame returns the whole-frame batch, creating it if needed.
func (m *Manager) Frame() *Batch {
	if m.frame == nil {
		m.frame = newBatch(FrameKey())
	}
	return m.frame
}

// Stripe returns the batch for node, creating it if needed.
func (m *Manager) Stripe(node NodeID) *Batch {
	b, ok := m.stripes[node]
	if !ok {
		b = newBatch(StripeKey(node))
		m.stripes[node] = b
		m.order = append(m.order, node)
	}
	return b
}

// Lookup returns the pending batch for key, if any.
func (m *Manager) Lookup(key Key) (*Batch, bool) {
	if key.Scope == ScopeFrame {
		return m.frame, m.frame != nil
	}
	b, ok := m.stripes[key.Node]
	return b, ok
}

// Pending returns the pending batches: the frame batch first, then stripe
// batches in creation order.
func (m *Manager) Pending() []*Batch {
	out := make([]*Batch, 0, len(m.order)+1)
	if m.frame != nil {
		out = append(out, m.frame)
	}
	for _, node := range m.order {
		out = append(out, m.stripes[node])
	}
	return out
}

// Discard drops the whole batch for key. Individual entries cannot be removed.
func (m *Manager) Discard(key Key) {
	if key.Scope == ScopeFrame {
		m.frame = nil
		return
	}
	if _, ok := m.stripes[key.Node]; !ok {
		return
	}
	delete(m.stripes, key.Node)
	for i, node := range m.order {
		if node == key.Node {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Flush commits every pending batch to c in Pending order. Committed
// batches are removed. On error, the failed batch and every later one stay
// pending.
func (m *Manager) Flush(c Consumer) error {
	for _, b := range m.Pending() {
		if err := c.Commit(b); err != nil {
			return fmt.Errorf("cmdlist: commit %s: %w", b.Key(), err)
		}
		m.Discard(b.Key())
	}
	return nil
}

// Handle is one block's access to the manager. Offsets given to a Handle
// are relative to the block; entries record window offsets.
type Handle struct {
	mgr  *Manager
	base uint32
}

// NewHandle returns a handle that rebases offsets by base.
func NewHandle(mgr *Manager, base uint32) *Handle {
	return &Handle{mgr: mgr, base: base}
}

// Manager returns the manager behind the handle.
func (h *Handle) Manager() *Manager {
	return h.mgr
}

// Batch returns the batch for key.
func (h *Handle) Batch(key Key) *Batch {
	if key.Scope == ScopeFrame {
		return h.mgr.Frame()
	}
	return h.mgr.Stripe(key.Node)
}

// Write queues a full-word write.
func (h *Handle) Write(key Key, offset, value uint32) {
	h.Batch(key).Append(WriteEntry(h.base+offset, value))
}

// WriteBits queues a bit-span write.
func (h *Handle) WriteBits(key Key, offset, value uint32, start, length uint8) {
	h.Batch(key).Append(MergeEntry(h.base+offset, value, start, length))
}
