package dpu

import (
	"context"
	"fmt"

	"github.com/gogpu/dpu/mmio"
)

// Scene controller register offsets.
const (
	sceneCtrl      = 0x00
	sceneRDMAMount = 0x04
	sceneWBMount   = 0x08
	sceneTimingSel = 0x0C
	sceneMixerSel  = 0x10
	sceneCfgReady  = 0x14
	sceneClear     = 0x18
	sceneStatus    = 0x1C

	sceneEnableBit   = 0
	sceneSelValid    = 1 << 31
	sceneStatusAck   = 1 << 0
	sceneMountLimit  = 32
	sceneSelectLimit = 16
)

// SceneCtl is the typed view of a scene controller.
type SceneCtl struct {
	b *Block
}

// AsSceneCtl returns the scene controller view of b.
func AsSceneCtl(b *Block) (*SceneCtl, error) {
	if b.Released() {
		return nil, ErrNullBlock
	}
	if _, ok := b.ops.(sceneCtlOps); !ok {
		return nil, errWrongKind(b, "scene-ctl")
	}
	return &SceneCtl{b: b}, nil
}

// Block returns the underlying block.
func (c *SceneCtl) Block() *Block { return c.b }

// MountChannel adds channel id to the scene's source mask.
func (c *SceneCtl) MountChannel(t Target, id int) error {
	return c.setMount(t, sceneRDMAMount, id, true)
}

// UnmountChannel removes channel id from the scene's source mask.
func (c *SceneCtl) UnmountChannel(t Target, id int) error {
	return c.setMount(t, sceneRDMAMount, id, false)
}

// MountWriteback adds write-back engine id to the scene.
func (c *SceneCtl) MountWriteback(t Target, id int) error {
	return c.setMount(t, sceneWBMount, id, true)
}

// UnmountWriteback removes write-back engine id from the scene.
func (c *SceneCtl) UnmountWriteback(t Target, id int) error {
	return c.setMount(t, sceneWBMount, id, false)
}

func (c *SceneCtl) setMount(t Target, reg uint32, id int, on bool) error {
	if id < 0 || id >= sceneMountLimit {
		return fmt.Errorf("%w: %s mount id %d", ErrInvalidArgument, c.b.name, id)
	}
	return c.b.putBits(t, reg, boolBit(on), uint8(id), 1) // #nosec G115 -- range checked
}

// SelectTiming binds timing generator id to the scene.
func (c *SceneCtl) SelectTiming(t Target, id int) error {
	if id < 0 || id >= sceneSelectLimit {
		return fmt.Errorf("%w: %s timing id %d", ErrInvalidArgument, c.b.name, id)
	}
	return c.b.put(t, sceneTimingSel, uint32(id)|sceneSelValid) // #nosec G115 -- range checked
}

// ReleaseTiming unbinds the scene's timing generator.
func (c *SceneCtl) ReleaseTiming(t Target) error {
	return c.b.put(t, sceneTimingSel, 0)
}

// SelectMixer binds mixer id to the scene.
func (c *SceneCtl) SelectMixer(t Target, id int) error {
	if id < 0 || id >= sceneSelectLimit {
		return fmt.Errorf("%w: %s mixer id %d", ErrInvalidArgument, c.b.name, id)
	}
	return c.b.put(t, sceneMixerSel, uint32(id)|sceneSelValid) // #nosec G115 -- range checked
}

// ConfigReady latches shadow registers into the active set at the next
// frame boundary. Dual-instance controllers latch both instances.
func (c *SceneCtl) ConfigReady(t Target) error {
	return c.b.putRepeat(t, sceneCfgReady, 1)
}

// Clear starts a scene clear. It always writes immediately.
func (c *SceneCtl) Clear() error {
	return c.b.Write(sceneClear, 1, ModeImmediate)
}

// WaitClearAck polls the status register until the clear acknowledge bit is
// set or spec.Timeout elapses. Mask and Want are overridden.
func (c *SceneCtl) WaitClearAck(ctx context.Context, spec mmio.PollSpec) error {
	if c.b.Released() {
		return ErrNullBlock
	}
	spec.Mask, spec.Want = sceneStatusAck, sceneStatusAck
	if _, err := mmio.Poll(ctx, c.b.region.window, c.b.offset+sceneStatus, spec); err != nil {
		return fmt.Errorf("dpu: %s clear acknowledge: %w", c.b.name, err)
	}
	return nil
}

// SetEnabled starts or stops the scene.
func (c *SceneCtl) SetEnabled(t Target, on bool) error {
	return c.b.putBits(t, sceneCtrl, boolBit(on), sceneEnableBit, 1)
}

// Mounts returns the live channel and write-back mount masks.
func (c *SceneCtl) Mounts() (channels, writebacks uint32, err error) {
	if channels, err = c.b.Read(sceneRDMAMount); err != nil {
		return 0, 0, err
	}
	if writebacks, err = c.b.Read(sceneWBMount); err != nil {
		return 0, 0, err
	}
	return channels, writebacks, nil
}
