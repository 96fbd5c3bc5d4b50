package dpu

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/dpu/blend"
)

// Mixer register offsets. Stage registers repeat every mixStageStride bytes
// from mixStageBase.
const (
	mixOutSize     = 0x00
	mixBgColor     = 0x04
	mixStageBase   = 0x20
	mixStageStride = 0x10

	mixLayerCtrl = 0x0
	mixLayerPos  = 0x4
	mixLayerSize = 0x8

	// Layer control fields.
	mixEnableBit    = 0
	mixCodeShift    = 1
	mixCodeBits     = 5
	mixAlphaShift   = 8
	mixAlphaBits    = 2
	mixLayerAlpha   = 16
	mixChannelShift = 24
	mixChannelBits  = 4
)

// Layer describes one mixer stage.
type Layer struct {
	Stage   int
	Channel int             // source channel id feeding the stage
	Dst     image.Rectangle // placement in the mixer output
	Blend   blend.Config
}

// Mixer is the typed view of a layer mixer.
type Mixer struct {
	b *Block
}

// AsMixer returns the mixer view of b.
func AsMixer(b *Block) (*Mixer, error) {
	if b.Released() {
		return nil, ErrNullBlock
	}
	if _, ok := b.ops.(mixerOps); !ok {
		return nil, errWrongKind(b, "mixer")
	}
	return &Mixer{b: b}, nil
}

// Block returns the underlying block.
func (m *Mixer) Block() *Block { return m.b }

// Stages returns the number of stages the block's window can hold.
func (m *Mixer) Stages() int {
	if m.b.length <= mixStageBase {
		return 0
	}
	return int((m.b.length - mixStageBase) / mixStageStride)
}

// SetOutput programs the mixer output size.
func (m *Mixer) SetOutput(t Target, size image.Point) error {
	v, err := packSize(size)
	if err != nil {
		return fmt.Errorf("dpu: %s output: %w", m.b.name, err)
	}
	return m.b.put(t, mixOutSize, v)
}

// SetBackground programs the background colour as 8-bit ARGB.
func (m *Mixer) SetBackground(t Target, c color.Color) error {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	v := uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
	return m.b.put(t, mixBgColor, v)
}

// SetLayer programs and enables one stage.
func (m *Mixer) SetLayer(t Target, l Layer) error {
	base, err := m.stageBase(l.Stage)
	if err != nil {
		return err
	}
	if l.Channel < 0 || l.Channel >= 1<<mixChannelBits {
		return fmt.Errorf("%w: %s stage %d: channel %d", ErrInvalidArgument, m.b.name, l.Stage, l.Channel)
	}
	pos, err := packPoint(l.Dst.Min)
	if err != nil {
		return fmt.Errorf("dpu: %s stage %d: %w", m.b.name, l.Stage, err)
	}
	size, err := packSize(l.Dst.Size())
	if err != nil {
		return fmt.Errorf("dpu: %s stage %d: %w", m.b.name, l.Stage, err)
	}
	ctrl := uint32(1)<<mixEnableBit |
		uint32(l.Blend.Code)<<mixCodeShift |
		uint32(l.Blend.Alpha)<<mixAlphaShift |
		uint32(l.Blend.LayerAlpha)<<mixLayerAlpha |
		uint32(l.Channel)<<mixChannelShift // #nosec G115 -- range checked
	return m.b.putAll(t, []regWrite{
		{base + mixLayerPos, pos},
		{base + mixLayerSize, size},
		{base + mixLayerCtrl, ctrl},
	})
}

// SetBlend updates only the blend fields of a stage.
func (m *Mixer) SetBlend(t Target, stage int, cfg blend.Config) error {
	base, err := m.stageBase(stage)
	if err != nil {
		return err
	}
	if err := m.b.putBits(t, base+mixLayerCtrl, uint32(cfg.Code), mixCodeShift, mixCodeBits); err != nil {
		return err
	}
	if err := m.b.putBits(t, base+mixLayerCtrl, uint32(cfg.Alpha), mixAlphaShift, mixAlphaBits); err != nil {
		return err
	}
	return m.b.putBits(t, base+mixLayerCtrl, uint32(cfg.LayerAlpha), mixLayerAlpha, 8)
}

// DisableLayer clears the enable bit of a stage.
func (m *Mixer) DisableLayer(t Target, stage int) error {
	base, err := m.stageBase(stage)
	if err != nil {
		return err
	}
	return m.b.putBits(t, base+mixLayerCtrl, 0, mixEnableBit, 1)
}

func (m *Mixer) stageBase(stage int) (uint32, error) {
	if stage < 0 || stage >= m.Stages() {
		return 0, fmt.Errorf("%w: %s has %d stages, got stage %d",
			ErrOffsetOutOfBlockRange, m.b.name, m.Stages(), stage)
	}
	return mixStageBase + uint32(stage)*mixStageStride, nil // #nosec G115 -- range checked
}
