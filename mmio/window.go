// Package mmio models the memory-mapped register space shared by every
// block of one display processor instance.
//
// A [Window] is the mapped handle the platform hands to the configuration
// engine. [Memory] is a byte-slice backed window used by tests and the
// dpucfg dry-run tool; read and write hooks let it stand in for hardware
// side effects such as acknowledge bits.
package mmio

import (
	"encoding/binary"
	"sync"
)

// Window is a mapped register space addressed by byte offset from its base.
// All accesses are 32-bit and little-endian.
type Window interface {
	// Read32 returns the register word at offset.
	Read32(offset uint32) uint32
	// Write32 stores value at offset.
	Write32(offset uint32, value uint32)
	// Len returns the size of the window in bytes.
	Len() uint32
}

// ReadHook is invoked after a read; the returned value is what the caller sees.
type ReadHook func(offset, value uint32) uint32

// WriteHook is invoked after a store has landed in memory.
type WriteHook func(offset, value uint32)

// Memory is a Window backed by a contiguous byte slice.
//
// Out-of-range reads return zero and out-of-range writes are dropped;
// both are counted in Faults.
type Memory struct {
	mu      sync.RWMutex
	data    []byte
	onRead  map[uint32]ReadHook
	onWrite map[uint32]WriteHook
	faults  int
}

// NewMemory returns a zeroed register space of size bytes.
// size is rounded down to a multiple of four.
func NewMemory(size uint32) *Memory {
	return &Memory{
		data:    make([]byte, size&^3),
		onRead:  make(map[uint32]ReadHook),
		onWrite: make(map[uint32]WriteHook),
	}
}

// Len implements Window.
func (m *Memory) Len() uint32 {
	return uint32(len(m.data)) // #nosec G115 -- size came in as uint32
}

// Read32 implements Window.
func (m *Memory) Read32(offset uint32) uint32 {
	v, ok := m.Read32WithFault(offset)
	if !ok {
		return 0
	}
	return v
}

// Read32WithFault reads a word and reports whether offset was inside the window.
func (m *Memory) Read32WithFault(offset uint32) (uint32, bool) {
	m.mu.RLock()
	if !m.inRange(offset) {
		m.mu.RUnlock()
		m.mu.Lock()
		m.faults++
		m.mu.Unlock()
		return 0, false
	}
	v := binary.LittleEndian.Uint32(m.data[offset : offset+4])
	hook := m.onRead[offset]
	m.mu.RUnlock()

	if hook != nil {
		v = hook(offset, v)
	}
	return v, true
}

// Write32 implements Window.
func (m *Memory) Write32(offset uint32, value uint32) {
	m.Write32WithFault(offset, value)
}

// Write32WithFault stores a word and reports whether offset was inside the window.
func (m *Memory) Write32WithFault(offset uint32, value uint32) bool {
	m.mu.Lock()
	if !m.inRange(offset) {
		m.faults++
		m.mu.Unlock()
		return false
	}
	binary.LittleEndian.PutUint32(m.data[offset:offset+4], value)
	hook := m.onWrite[offset]
	m.mu.Unlock()

	if hook != nil {
		hook(offset, value)
	}
	return true
}

// Poke stores value without running write hooks.
// Hooks use it to model hardware-owned status bits.
func (m *Memory) Poke(offset uint32, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inRange(offset) {
		binary.LittleEndian.PutUint32(m.data[offset:offset+4], value)
	}
}

// Peek reads a word without running read hooks.
func (m *Memory) Peek(offset uint32) uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.inRange(offset) {
		return 0
	}
	return binary.LittleEndian.Uint32(m.data[offset : offset+4])
}

// OnRead installs a read hook for the word at offset. A nil hook removes it.
func (m *Memory) OnRead(offset uint32, hook ReadHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hook == nil {
		delete(m.onRead, offset)
		return
	}
	m.onRead[offset] = hook
}

// OnWrite installs a write hook for the word at offset. A nil hook removes it.
func (m *Memory) OnWrite(offset uint32, hook WriteHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hook == nil {
		delete(m.onWrite, offset)
		return
	}
	m.onWrite[offset] = hook
}

// Faults returns the number of out-of-range accesses seen so far.
func (m *Memory) Faults() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.faults
}

// Reset zeroes the register space. Hooks are kept.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	m.faults = 0
}

// Snapshot returns a copy of every non-zero word keyed by offset.
func (m *Memory) Snapshot() map[uint32]uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uint32]uint32)
	for off := 0; off+4 <= len(m.data); off += 4 {
		if v := binary.LittleEndian.Uint32(m.data[off : off+4]); v != 0 {
			out[uint32(off)] = v // #nosec G115 -- bounded by Len
		}
	}
	return out
}

func (m *Memory) inRange(offset uint32) bool {
	return offset&3 == 0 && uint64(offset)+4 <= uint64(len(m.data))
}
