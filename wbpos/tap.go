package wbpos

import "fmt"

// Tap is a family of write-back tap points.
type Tap uint8

const (
	TapBeforePrePQ Tap = iota
	TapAfterPrePQ
	TapAfterMixer
	TapAfterPostPQ
	TapAfterReconstruction
)

var tapNames = [...]string{
	TapBeforePrePQ:         "before-prepq",
	TapAfterPrePQ:          "after-prepq",
	TapAfterMixer:          "after-mixer",
	TapAfterPostPQ:         "after-postpq",
	TapAfterReconstruction: "after-reconstruction",
}

// String returns the tap family name.
func (t Tap) String() string {
	if int(t) < len(tapNames) {
		return tapNames[t]
	}
	return "unknown"
}

// ParseTap returns the tap family for name.
func ParseTap(name string) (Tap, error) {
	for i, n := range tapNames {
		if n == name {
			return Tap(i), nil // #nosec G115 -- bounded by tapNames
		}
	}
	return 0, fmt.Errorf("wbpos: unknown tap %q", name)
}

// Resolve returns the position of tap for the stage or scene id.
// id is ignored for TapAfterReconstruction.
func Resolve(tap Tap, id int) Position {
	switch tap {
	case TapBeforePrePQ:
		return BeforePrePQ(id)
	case TapAfterPrePQ:
		return AfterPrePQ(id)
	case TapAfterMixer:
		return AfterMixer(id)
	case TapAfterPostPQ:
		return AfterPostPQ(id)
	case TapAfterReconstruction:
		return AfterReconstruction
	default:
		return Invalid
	}
}
