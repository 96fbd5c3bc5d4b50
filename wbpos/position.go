// Package wbpos resolves logical write-back tap points to the numeric
// position code programmed into a write-back block.
//
// All tap families share one flat enumeration:
//
//	0..19  before/after pre-processing stage k (before = 2k, after = 2k+1)
//	20..22 after mixer 0..2
//	23..24 after post-processing stage 0..1
//	25     after reconstruction
//	26     Invalid
//
// Any code at or above Invalid is a configuration error.
package wbpos

import (
	"errors"
	"fmt"
)

// Position is a write-back position code.
type Position uint8

// Enumeration bounds.
const (
	PrePQCount   = 10
	MixerCount   = 3
	PostPQCount  = 2
	prePQCodes   = 2 * PrePQCount
	afterMixer0  = prePQCodes
	afterPostPQ0 = afterMixer0 + MixerCount
)

// Base codes of each tap family.
const (
	AfterMixerBase      Position = afterMixer0
	AfterPostPQBase     Position = afterPostPQ0
	AfterReconstruction Position = afterPostPQ0 + PostPQCount
	Invalid             Position = AfterReconstruction + 1
)

// ErrInvalidPosition is returned for codes at or above Invalid.
var ErrInvalidPosition = errors.New("wbpos: invalid write-back position")

// BeforePrePQ returns the tap in front of pre-processing stage id.
func BeforePrePQ(id int) Position {
	if id < 0 || id >= PrePQCount {
		return Invalid
	}
	return Position(id * 2)
}

// AfterPrePQ returns the tap behind pre-processing stage id.
func AfterPrePQ(id int) Position {
	if id < 0 || id >= PrePQCount {
		return Invalid
	}
	return Position(id*2 + 1)
}

// AfterMixer returns the tap behind the mixer of scene id.
func AfterMixer(scene int) Position {
	if scene < 0 || scene >= MixerCount {
		return Invalid
	}
	return AfterMixerBase + Position(scene)
}

// AfterPostPQ returns the tap behind the post-processing stage of scene id.
func AfterPostPQ(scene int) Position {
	if scene < 0 || scene >= PostPQCount {
		return Invalid
	}
	return AfterPostPQBase + Position(scene)
}

// Valid reports whether p is a usable position.
func (p Position) Valid() bool {
	return p < Invalid
}

// Check returns ErrInvalidPosition if p is not usable.
func (p Position) Check() error {
	if !p.Valid() {
		return fmt.Errorf("%w: code %d", ErrInvalidPosition, uint8(p))
	}
	return nil
}

// String formats the position as its tap point.
func (p Position) String() string {
	switch {
	case p < AfterMixerBase:
		if p%2 == 0 {
			return fmt.Sprintf("before-prepq%d", p/2)
		}
		return fmt.Sprintf("after-prepq%d", p/2)
	case p < AfterPostPQBase:
		return fmt.Sprintf("after-mixer%d", p-AfterMixerBase)
	case p < AfterReconstruction:
		return fmt.Sprintf("after-postpq%d", p-AfterPostPQBase)
	case p == AfterReconstruction:
		return "after-reconstruction"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(p))
	}
}
