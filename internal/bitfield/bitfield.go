// Package bitfield provides register sub-field helpers shared by the
// immediate write path and the command-list consumer.
//
// A span is described by its first bit and its width. Widths of zero or
// spans reaching past bit 31 are invalid.
package bitfield

// Valid reports whether the span [start, start+length) fits in a 32-bit word.
func Valid(start, length uint8) bool {
	return length > 0 && uint16(start)+uint16(length) <= 32
}

// Mask returns the in-place mask for the span.
// The caller must check Valid first.
func Mask(start, length uint8) uint32 {
	if length >= 32 {
		return ^uint32(0)
	}
	return ((uint32(1) << length) - 1) << start
}

// Place shifts value into the span and drops bits that do not fit.
func Place(value uint32, start, length uint8) uint32 {
	return (value << start) & Mask(start, length)
}

// Merge replaces the span of old with the already-placed bits of placed.
// Bits of placed outside the span are ignored.
func Merge(old, placed uint32, start, length uint8) uint32 {
	m := Mask(start, length)
	return (old &^ m) | (placed & m)
}

// Extract returns the span of word shifted down to bit 0.
func Extract(word uint32, start, length uint8) uint32 {
	return (word & Mask(start, length)) >> start
}
