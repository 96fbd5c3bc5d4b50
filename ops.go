package dpu

import "fmt"

// blockOps is the register layout bound to a block. The set of variants is
// closed: every implementation lives in this file and is chosen once by
// selectOps.
type blockOps interface {
	variant() string
	prewarm(b *Block)
}

// Channel mode word fields.
const (
	chanModeBurstShift       = 4
	chanModeOutstandingShift = 8
	chanModeAddr64           = 1 << 13
	chanModeCompressOK       = 1 << 14

	burst8  = 2
	burst16 = 3
)

type channelOps struct {
	extended    bool
	defaultMode uint32
}

func (o *channelOps) variant() string {
	if o.extended {
		return "rdma-v2"
	}
	return "rdma-v1"
}

// prewarm computes the mode word written on reset, so reset never needs to
// read the hardware.
func (o *channelOps) prewarm(b *Block) {
	mode := uint32(burst8)<<chanModeBurstShift | 8<<chanModeOutstandingShift
	if o.extended {
		mode = uint32(burst16)<<chanModeBurstShift | 16<<chanModeOutstandingShift | chanModeAddr64
	}
	if b.features.Has(FeatureRDMACompression) {
		mode |= chanModeCompressOK
	}
	o.defaultMode = mode
}

type mixerOps struct{}

func (mixerOps) variant() string { return "mixer" }
func (mixerOps) prewarm(*Block)  {}

type scalerOps struct{ phase bool }

func (o scalerOps) variant() string {
	if o.phase {
		return "scaler-v2"
	}
	return "scaler-v1"
}
func (scalerOps) prewarm(*Block) {}

type pqOps struct{ post bool }

func (o pqOps) variant() string {
	if o.post {
		return "postpq"
	}
	return "prepq"
}
func (pqOps) prewarm(*Block) {}

type writebackOps struct{ stripe bool }

func (o writebackOps) variant() string {
	if o.stripe {
		return "wb-v2"
	}
	return "wb-v1"
}
func (writebackOps) prewarm(*Block) {}

type sceneCtlOps struct{}

func (sceneCtlOps) variant() string { return "scene-ctl" }
func (sceneCtlOps) prewarm(*Block)  {}

type timingOps struct{}

func (timingOps) variant() string { return "itgen" }
func (timingOps) prewarm(*Block)  {}

func selectOps(kind Kind, f Feature) (blockOps, error) {
	switch kind {
	case KindRDMA:
		return &channelOps{extended: f.Has(FeatureRDMAExtended)}, nil
	case KindMixer:
		return mixerOps{}, nil
	case KindScaler:
		return scalerOps{phase: f.Has(FeatureScalerPhase)}, nil
	case KindPrePQ:
		return pqOps{}, nil
	case KindPostPQ:
		return pqOps{post: true}, nil
	case KindWriteback:
		return writebackOps{stripe: f.Has(FeatureWBStripe)}, nil
	case KindSceneCtl:
		return sceneCtlOps{}, nil
	case KindTiming:
		return timingOps{}, nil
	default:
		return nil, fmt.Errorf("%w: block kind %s", ErrInvalidArgument, kind)
	}
}
