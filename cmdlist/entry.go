package cmdlist

import (
	"fmt"

	"github.com/gogpu/dpu/internal/bitfield"
)

// Op identifies how an entry is applied.
type Op uint8

const (
	OpWrite Op = iota // Store the full word
	OpMerge           // Merge a bit span into the current word
)

var opNames = [...]string{
	OpWrite: "Write",
	OpMerge: "Merge",
}

// String returns the string representation of an Op.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "Unknown"
}

// Entry is one deferred register write.
type Entry struct {
	// Op selects a full store or a bit-span merge.
	Op Op
	// Offset is the byte offset inside the register window.
	Offset uint32
	// Value is the full word for OpWrite, or the already shifted and
	// masked bits for OpMerge.
	Value uint32
	// Start and Length describe the span for OpMerge.
	Start, Length uint8
}

// WriteEntry returns a full-word entry.
func WriteEntry(offset, value uint32) Entry {
	return Entry{Op: OpWrite, Offset: offset, Value: value, Length: 32}
}

// MergeEntry returns a bit-span entry. value is given unshifted; it is
// placed into the span and masked here.
func MergeEntry(offset, value uint32, start, length uint8) Entry {
	return Entry{
		Op:     OpMerge,
		Offset: offset,
		Value:  bitfield.Place(value, start, length),
		Start:  start,
		Length: length,
	}
}

// Apply returns the register word after applying e to old.
func (e Entry) Apply(old uint32) uint32 {
	if e.Op == OpWrite {
		return e.Value
	}
	return bitfield.Merge(old, e.Value, e.Start, e.Length)
}

// String formats the entry for dumps.
func (e Entry) String() string {
	if e.Op == OpWrite {
		return fmt.Sprintf("%s [%#06x] = %#010x", e.Op, e.Offset, e.Value)
	}
	return fmt.Sprintf("%s [%#06x] bits %d..%d = %#010x",
		e.Op, e.Offset, e.Start, e.Start+e.Length-1, e.Value)
}
