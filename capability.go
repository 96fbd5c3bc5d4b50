package dpu

import (
	"fmt"
	"strings"
)

// Kind identifies the family of a hardware block.
type Kind uint8

const (
	KindRDMA      Kind = iota // Source DMA channel
	KindMixer                 // Layer mixer
	KindScaler                // Scaler
	KindPrePQ                 // Per-channel picture-quality stage
	KindPostPQ                // Post-mixer picture-quality stage
	KindWriteback             // Write-back engine
	KindSceneCtl              // Scene controller
	KindTiming                // Interface timing generator
	kindCount
)

var kindNames = [kindCount]string{
	KindRDMA:      "rdma",
	KindMixer:     "mixer",
	KindScaler:    "scaler",
	KindPrePQ:     "prepq",
	KindPostPQ:    "postpq",
	KindWriteback: "wb",
	KindSceneCtl:  "scene-ctl",
	KindTiming:    "itgen",
}

// String returns the short kind name used in logs and metrics labels.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind returns the kind named name.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil // #nosec G115 -- bounded by kindCount
		}
	}
	return 0, fmt.Errorf("%w: unknown block kind %q", ErrInvalidArgument, name)
}

// Kinds returns every block kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, kindCount)
	for i := range ks {
		ks[i] = Kind(i) // #nosec G115 -- bounded by kindCount
	}
	return ks
}

// Feature is a bit set of optional hardware capabilities.
type Feature uint32

const (
	// FeatureCmdList marks a block whose writes may be batched.
	FeatureCmdList Feature = 1 << iota
	// FeatureRDMAExtended selects the 64-bit address channel layout.
	FeatureRDMAExtended
	// FeatureRDMACompression allows compressed source fetch.
	FeatureRDMACompression
	// FeatureScalerPhase selects the scaler layout with phase registers.
	FeatureScalerPhase
	// FeatureWBStripe selects the write-back layout with a stripe window.
	FeatureWBStripe
	// FeatureSecure allows secure-session toggling on a channel.
	FeatureSecure
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatureCmdList, "cmdlist"},
	{FeatureRDMAExtended, "rdma-extended"},
	{FeatureRDMACompression, "rdma-compression"},
	{FeatureScalerPhase, "scaler-phase"},
	{FeatureWBStripe, "wb-stripe"},
	{FeatureSecure, "secure"},
}

// Has reports whether every bit of f2 is set in f.
func (f Feature) Has(f2 Feature) bool {
	return f&f2 == f2
}

// String lists the feature names joined by "|".
func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range featureNames {
		if f.Has(fn.f) {
			parts = append(parts, fn.name)
			f &^= fn.f
		}
	}
	if f != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(f)))
	}
	return strings.Join(parts, "|")
}

// ParseFeature returns the feature bit named name.
func ParseFeature(name string) (Feature, error) {
	for _, fn := range featureNames {
		if fn.name == name {
			return fn.f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown feature %q", ErrInvalidArgument, name)
}

// Capability is the static description of one hardware block instance.
type Capability struct {
	Name     string
	ID       int
	Offset   uint32 // byte offset of the block inside the region
	Length   uint32 // byte length of the block's register window
	Features Feature
	// Mirror is the distance from a register to its secondary instance.
	// Zero means the block has a single instance.
	Mirror uint32
}
