package dpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/dpu/mmio"
)

// Sentinel errors for the dpu package.
var (
	// ErrResourceOutOfRange is returned when a capability does not fit
	// inside its region.
	ErrResourceOutOfRange = errors.New("dpu: resource out of range")

	// ErrNullBlock is returned when an operation is invoked on a nil or
	// released block.
	ErrNullBlock = errors.New("dpu: null block")

	// ErrOffsetOutOfBlockRange is returned when a register access does not
	// fit inside the block, or a bit span does not fit inside a word.
	ErrOffsetOutOfBlockRange = errors.New("dpu: offset out of block range")

	// ErrUnsupportedOnBlock is returned when the block's variant cannot
	// perform the operation.
	ErrUnsupportedOnBlock = errors.New("dpu: operation unsupported on block")

	// ErrTimeout is returned when a hardware acknowledge never arrives.
	ErrTimeout = mmio.ErrTimeout

	// ErrUnsupportedFormat is returned for pixel formats the hardware
	// cannot fetch or write.
	ErrUnsupportedFormat = errors.New("dpu: unsupported pixel format")

	// ErrDuplicateBlock is returned when two capabilities share a kind and id.
	ErrDuplicateBlock = errors.New("dpu: duplicate block")

	// ErrInvalidArgument is returned for malformed caller input that is not
	// a register range problem.
	ErrInvalidArgument = errors.New("dpu: invalid argument")
)

// RangeError describes a rejected register access.
type RangeError struct {
	Block  string
	Offset uint32
	Start  uint8
	Span   uint8 // zero for whole-word accesses
	Length uint32
}

func (e *RangeError) Error() string {
	if e.Span != 0 {
		return fmt.Sprintf("dpu: %s: bits [%d,%d) at offset %#x outside block of length %#x",
			e.Block, e.Start, uint(e.Start)+uint(e.Span), e.Offset, e.Length)
	}
	return fmt.Sprintf("dpu: %s: offset %#x outside block of length %#x", e.Block, e.Offset, e.Length)
}

// Is reports whether target is ErrOffsetOutOfBlockRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrOffsetOutOfBlockRange
}

// CapabilityError describes a capability that does not fit its region.
type CapabilityError struct {
	Name         string
	Base         uint64
	Offset       uint32
	Length       uint32
	RegionLength uint32
	Reason       string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("dpu: capability %s [%#x+%#x, +%#x) exceeds region of length %#x: %s",
		e.Name, e.Base, e.Offset, e.Length, e.RegionLength, e.Reason)
}

// Is reports whether target is ErrResourceOutOfRange.
func (e *CapabilityError) Is(target error) bool {
	return target == ErrResourceOutOfRange
}
