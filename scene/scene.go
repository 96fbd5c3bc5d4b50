package scene

import (
	"context"
	"errors"
	"fmt"
	"image"
	"maps"
	"slices"

	"github.com/gogpu/dpu"
	"github.com/gogpu/dpu/blend"
	"github.com/gogpu/dpu/cmdlist"
	"github.com/gogpu/dpu/mmio"
	"github.com/gogpu/dpu/wbpos"
)

// ErrNotMounted is returned when a layer references a channel that is not
// mounted on the scene.
var ErrNotMounted = errors.New("scene: channel not mounted")

// Scene drives one scene controller and its mixer.
// A Scene is not safe for concurrent use.
type Scene struct {
	ctl   *dpu.SceneCtl
	mixer *dpu.Mixer
	opts  options

	channels   map[int]*dpu.Channel
	writebacks map[int]*dpu.Writeback
	timing     *dpu.TimingEngine
	enabled    bool
}

// New binds mixer to ctl and returns the scene.
func New(ctl *dpu.SceneCtl, mixer *dpu.Mixer, opts ...Option) (*Scene, error) {
	if ctl == nil || mixer == nil {
		return nil, fmt.Errorf("scene: %w", dpu.ErrNullBlock)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Scene{
		ctl:        ctl,
		mixer:      mixer,
		opts:       o,
		channels:   make(map[int]*dpu.Channel),
		writebacks: make(map[int]*dpu.Writeback),
	}
	if err := ctl.SelectMixer(o.target, mixer.Block().ID()); err != nil {
		return nil, fmt.Errorf("scene: select %s: %w", mixer.Block().Name(), err)
	}
	return s, nil
}

func errNullBlock(op string) error {
	return fmt.Errorf("scene: %s: %w", op, dpu.ErrNullBlock)
}

// Target returns the write path used for configuration writes.
func (s *Scene) Target() dpu.Target { return s.opts.target }

// MountChannel attaches ch to the scene.
func (s *Scene) MountChannel(ch *dpu.Channel) error {
	if ch == nil || ch.Block().Released() {
		return errNullBlock("mount channel")
	}
	id := ch.Block().ID()
	if err := s.ctl.MountChannel(s.opts.target, id); err != nil {
		return fmt.Errorf("scene: mount %s: %w", ch.Block().Name(), err)
	}
	s.channels[id] = ch
	return nil
}

// UnmountChannel disables ch and detaches it from the scene.
func (s *Scene) UnmountChannel(ch *dpu.Channel) error {
	if ch == nil || ch.Block().Released() {
		return errNullBlock("unmount channel")
	}
	id := ch.Block().ID()
	if _, ok := s.channels[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotMounted, ch.Block().Name())
	}
	if err := ch.Disable(s.opts.target); err != nil {
		return fmt.Errorf("scene: disable %s: %w", ch.Block().Name(), err)
	}
	if err := s.ctl.UnmountChannel(s.opts.target, id); err != nil {
		return fmt.Errorf("scene: unmount %s: %w", ch.Block().Name(), err)
	}
	delete(s.channels, id)
	return nil
}

// Channels returns the ids of the mounted channels in ascending order.
func (s *Scene) Channels() []int {
	return slices.Sorted(maps.Keys(s.channels))
}

// MountWriteback attaches wb to the scene and points it at the tap
// resolved from (tap, id). It returns the resolved position.
func (s *Scene) MountWriteback(wb *dpu.Writeback, tap wbpos.Tap, id int) (wbpos.Position, error) {
	if wb == nil || wb.Block().Released() {
		return wbpos.Invalid, errNullBlock("mount writeback")
	}
	pos := wbpos.Resolve(tap, id)
	if err := pos.Check(); err != nil {
		return pos, fmt.Errorf("scene: %s %s%d: %w", wb.Block().Name(), tap, id, err)
	}
	if err := wb.SetPosition(s.opts.target, pos); err != nil {
		return pos, err
	}
	if err := s.ctl.MountWriteback(s.opts.target, wb.Block().ID()); err != nil {
		return pos, fmt.Errorf("scene: mount %s: %w", wb.Block().Name(), err)
	}
	s.writebacks[wb.Block().ID()] = wb
	return pos, nil
}

// UnmountWriteback disables wb and detaches it from the scene.
func (s *Scene) UnmountWriteback(wb *dpu.Writeback) error {
	if wb == nil || wb.Block().Released() {
		return errNullBlock("unmount writeback")
	}
	if err := wb.Disable(s.opts.target); err != nil {
		return err
	}
	if err := s.ctl.UnmountWriteback(s.opts.target, wb.Block().ID()); err != nil {
		return fmt.Errorf("scene: unmount %s: %w", wb.Block().Name(), err)
	}
	delete(s.writebacks, wb.Block().ID())
	return nil
}

// MountTiming programs tm into e, sizes the mixer output to the active
// area and binds e to the scene.
func (s *Scene) MountTiming(e *dpu.TimingEngine, tm dpu.Timing) error {
	if e == nil || e.Block().Released() {
		return errNullBlock("mount timing")
	}
	if err := e.Configure(s.opts.target, tm); err != nil {
		return err
	}
	if err := s.mixer.SetOutput(s.opts.target, image.Pt(tm.HActive, tm.VActive)); err != nil {
		return err
	}
	if err := s.ctl.SelectTiming(s.opts.target, e.Block().ID()); err != nil {
		return fmt.Errorf("scene: select %s: %w", e.Block().Name(), err)
	}
	s.timing = e
	return nil
}

// Layer is a mixer stage fed by a mounted channel.
type Layer struct {
	Stage   int
	Channel *dpu.Channel
	Dst     image.Rectangle
	Blend   blend.Intent
}

// ConfigureLayer resolves l.Blend with the whole-frame classification and
// programs the stage. It returns the hardware blend configuration used.
func (s *Scene) ConfigureLayer(l Layer) (blend.Config, error) {
	return s.configureLayer(s.opts.target, l, blend.Resolve)
}

// ConfigureStripeLayer programs the stage for one stripe node using the
// per-stripe classification. The mixer must support command lists.
func (s *Scene) ConfigureStripeLayer(node cmdlist.NodeID, l Layer) (blend.Config, error) {
	return s.configureLayer(dpu.Stripe(node), l, blend.ResolveStripe)
}

func (s *Scene) configureLayer(t dpu.Target, l Layer, resolve func(blend.Intent) blend.Config) (blend.Config, error) {
	if l.Channel == nil || l.Channel.Block().Released() {
		return blend.Config{}, fmt.Errorf("scene: stage %d: %w", l.Stage, dpu.ErrNullBlock)
	}
	id := l.Channel.Block().ID()
	if _, ok := s.channels[id]; !ok {
		return blend.Config{}, fmt.Errorf("%w: %s", ErrNotMounted, l.Channel.Block().Name())
	}
	cfg := resolve(l.Blend)
	err := s.mixer.SetLayer(t, dpu.Layer{
		Stage:   l.Stage,
		Channel: id,
		Dst:     l.Dst,
		Blend:   cfg,
	})
	if err != nil {
		return blend.Config{}, err
	}
	dpu.Logger().Debug("scene: layer configured",
		"stage", l.Stage,
		"channel", l.Channel.Block().Name(),
		"target", t.String(),
		"blend", cfg.String())
	return cfg, nil
}

// DisableLayer turns off one mixer stage.
func (s *Scene) DisableLayer(stage int) error {
	return s.mixer.DisableLayer(s.opts.target, stage)
}

// ConfigReady latches the shadow registers written so far.
func (s *Scene) ConfigReady(t dpu.Target) error {
	return s.ctl.ConfigReady(t)
}

// Flush hands every pending batch to c, the frame batch first and then the
// stripe batches.
func (s *Scene) Flush(m *cmdlist.Manager, c cmdlist.Consumer) error {
	if m == nil || c == nil {
		return fmt.Errorf("scene: flush: %w: nil manager or consumer", dpu.ErrInvalidArgument)
	}
	n := len(m.Pending())
	if err := m.Flush(c); err != nil {
		dpu.Logger().Warn("scene: flush failed", "err", err)
		return fmt.Errorf("scene: %w", err)
	}
	dpu.Logger().Debug("scene: flushed", "batches", n)
	return nil
}

// Enable pulses the scene clear, waits for the hardware acknowledge and
// starts the scene and its timing generator. A missing acknowledge returns
// an error matching dpu.ErrTimeout and leaves the scene disabled.
func (s *Scene) Enable(ctx context.Context) error {
	if err := s.ctl.Clear(); err != nil {
		return fmt.Errorf("scene: clear: %w", err)
	}
	spec := mmio.PollSpec{Timeout: s.opts.ackTimeout, Interval: s.opts.ackInterval}
	if err := s.ctl.WaitClearAck(ctx, spec); err != nil {
		if errors.Is(err, dpu.ErrTimeout) {
			dpu.Logger().Warn("scene: clear acknowledge timed out",
				"scene", s.ctl.Block().Name(), "timeout", s.opts.ackTimeout)
		}
		return fmt.Errorf("scene: enable %s: %w", s.ctl.Block().Name(), err)
	}
	if err := s.ctl.SetEnabled(dpu.Immediate(), true); err != nil {
		return fmt.Errorf("scene: enable: %w", err)
	}
	if s.timing != nil {
		if err := s.timing.Enable(dpu.Immediate(), true); err != nil {
			return fmt.Errorf("scene: start timing: %w", err)
		}
	}
	s.enabled = true
	dpu.Logger().Info("scene: enabled",
		"scene", s.ctl.Block().Name(),
		"channels", len(s.channels),
		"writebacks", len(s.writebacks))
	return nil
}

// Disable stops the timing generator and the scene.
func (s *Scene) Disable() error {
	if s.timing != nil {
		if err := s.timing.Enable(dpu.Immediate(), false); err != nil {
			return fmt.Errorf("scene: stop timing: %w", err)
		}
	}
	if err := s.ctl.SetEnabled(dpu.Immediate(), false); err != nil {
		return fmt.Errorf("scene: disable: %w", err)
	}
	s.enabled = false
	dpu.Logger().Info("scene: disabled", "scene", s.ctl.Block().Name())
	return nil
}

// Enabled reports whether Enable succeeded and Disable has not run since.
func (s *Scene) Enabled() bool { return s.enabled }
