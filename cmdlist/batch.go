package cmdlist

import "fmt"

// NodeID identifies one stripe of a split frame.
type NodeID uint32

// Scope tells whether a batch belongs to the whole frame or to one stripe.
type Scope uint8

const (
	ScopeFrame  Scope = iota // Applied with the next frame
	ScopeStripe              // Applied with one stripe pass
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeFrame:
		return "Frame"
	case ScopeStripe:
		return "Stripe"
	default:
		return "Unknown"
	}
}

// Key identifies a batch.
type Key struct {
	Scope Scope
	Node  NodeID
}

// FrameKey returns the key of the whole-frame batch.
func FrameKey() Key {
	return Key{Scope: ScopeFrame}
}

// StripeKey returns the key of the batch for stripe node.
func StripeKey(node NodeID) Key {
	return Key{Scope: ScopeStripe, Node: node}
}

// String formats the key for logs.
func (k Key) String() string {
	if k.Scope == ScopeFrame {
		return "frame"
	}
	return fmt.Sprintf("stripe/%d", k.Node)
}

// Batch is an ordered list of pending writes for one key.
// Entries are applied in append order.
type Batch struct {
	key     Key
	entries []Entry
}

func newBatch(key Key) *Batch {
	return &Batch{key: key, entries: make([]Entry, 0, 64)}
}

// Key returns the batch key.
func (b *Batch) Key() Key {
	return b.key
}

// Append adds an entry at the end of the batch.
func (b *Batch) Append(e Entry) {
	b.entries = append(b.entries, e)
}

// Entries returns the entries in order. The slice must not be modified.
func (b *Batch) Entries() []Entry {
	return b.entries
}

// Len returns the number of entries.
func (b *Batch) Len() int {
	return len(b.entries)
}
