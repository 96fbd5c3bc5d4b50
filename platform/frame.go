package platform

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/dpu"
	"github.com/gogpu/dpu/blend"
	"github.com/gogpu/dpu/cmdlist"
	"github.com/gogpu/dpu/scene"
	"github.com/gogpu/dpu/wbpos"
)

// Rect is a rectangle written as [x0, y0, x1, y1].
type Rect [4]int

// Rectangle converts r.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r[0], r[1], r[2], r[3])
}

// Frame describes one scene configuration.
type Frame struct {
	Scene int `yaml:"scene"`
	Mixer int `yaml:"mixer"`
	// Target is "frame" (default) or "immediate".
	Target     string          `yaml:"target,omitempty"`
	Background *uint32         `yaml:"background,omitempty"` // ARGB8888, unset keeps the mixer's value
	Timing     *TimingSpec     `yaml:"timing,omitempty"`
	Layers     []LayerSpec     `yaml:"layers"`
	Writebacks []WritebackSpec `yaml:"writebacks,omitempty"`
}

// TimingSpec is the YAML form of dpu.Timing plus the generator id.
type TimingSpec struct {
	ID      int `yaml:"id"`
	HActive int `yaml:"hactive"`
	HFront  int `yaml:"hfront"`
	HSync   int `yaml:"hsync"`
	HBack   int `yaml:"hback"`
	VActive int `yaml:"vactive"`
	VFront  int `yaml:"vfront"`
	VSync   int `yaml:"vsync"`
	VBack   int `yaml:"vback"`
}

func (t TimingSpec) timing() dpu.Timing {
	return dpu.Timing{
		HActive: t.HActive, HFront: t.HFront, HSync: t.HSync, HBack: t.HBack,
		VActive: t.VActive, VFront: t.VFront, VSync: t.VSync, VBack: t.VBack,
	}
}

// LayerSpec places one channel on a mixer stage.
type LayerSpec struct {
	Stage      int    `yaml:"stage"`
	Channel    int    `yaml:"channel"`
	Format     string `yaml:"format"`
	Addr       uint64 `yaml:"addr"`
	Stride     uint32 `yaml:"stride,omitempty"`
	Src        Rect   `yaml:"src"`
	Dst        Rect   `yaml:"dst"`
	Blend      string `yaml:"blend"`
	Alpha      *uint8 `yaml:"alpha,omitempty"` // layer alpha, opaque when absent
	Compressed bool   `yaml:"compressed,omitempty"`
	// Stripes lists stripe nodes that get a per-stripe blend setup too.
	Stripes []cmdlist.NodeID `yaml:"stripes,omitempty"`
}

// WritebackSpec routes one write-back engine.
type WritebackSpec struct {
	ID     int    `yaml:"id"`
	Tap    string `yaml:"tap"`
	TapID  int    `yaml:"tap_id"`
	Format string `yaml:"format"`
	Addr   uint64 `yaml:"addr"`
	Stride uint32 `yaml:"stride,omitempty"`
	Size   [2]int `yaml:"size"`
}

// LoadFrame decodes a frame description from r.
func LoadFrame(r io.Reader) (*Frame, error) {
	var f Frame
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("platform: decode frame: %w", err)
	}
	return &f, nil
}

// LoadFrameFile decodes the frame description at path.
func LoadFrameFile(path string) (*Frame, error) {
	fh, err := os.Open(path) // #nosec G304 -- path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("platform: %w", err)
	}
	defer fh.Close()
	return LoadFrame(fh)
}

func (f *Frame) target() (dpu.Target, error) {
	switch f.Target {
	case "", "frame":
		return dpu.Frame(), nil
	case "immediate":
		return dpu.Immediate(), nil
	default:
		return dpu.Target{}, fmt.Errorf("platform: unknown target %q", f.Target)
	}
}

// Apply programs f through the blocks of reg and latches it with
// ConfigReady. It does not flush or enable the scene.
func (f *Frame) Apply(reg *dpu.Registry, opts ...scene.Option) (*scene.Scene, error) {
	t, err := f.target()
	if err != nil {
		return nil, err
	}
	ctl, err := lookup(reg, dpu.KindSceneCtl, f.Scene, dpu.AsSceneCtl)
	if err != nil {
		return nil, err
	}
	mixer, err := lookup(reg, dpu.KindMixer, f.Mixer, dpu.AsMixer)
	if err != nil {
		return nil, err
	}
	s, err := scene.New(ctl, mixer, append([]scene.Option{scene.WithTarget(t)}, opts...)...)
	if err != nil {
		return nil, err
	}

	if f.Timing != nil {
		te, err := lookup(reg, dpu.KindTiming, f.Timing.ID, dpu.AsTimingEngine)
		if err != nil {
			return nil, err
		}
		if err := s.MountTiming(te, f.Timing.timing()); err != nil {
			return nil, err
		}
	}
	if f.Background != nil {
		v := *f.Background
		bg := color.NRGBA{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
		if err := mixer.SetBackground(t, bg); err != nil {
			return nil, err
		}
	}
	for i, l := range f.Layers {
		if err := applyLayer(reg, s, t, l); err != nil {
			return nil, fmt.Errorf("platform: layer %d: %w", i, err)
		}
	}
	for i, w := range f.Writebacks {
		if err := applyWriteback(reg, s, t, w); err != nil {
			return nil, fmt.Errorf("platform: writeback %d: %w", i, err)
		}
	}
	if err := s.ConfigReady(t); err != nil {
		return nil, err
	}
	return s, nil
}

func applyLayer(reg *dpu.Registry, s *scene.Scene, t dpu.Target, l LayerSpec) error {
	ch, err := lookup(reg, dpu.KindRDMA, l.Channel, dpu.AsChannel)
	if err != nil {
		return err
	}
	format, err := dpu.ParseFormat(l.Format)
	if err != nil {
		return err
	}
	mode, err := blend.ParseMode(l.Blend)
	if err != nil {
		return err
	}
	alpha := uint8(blend.OpaqueAlpha)
	if l.Alpha != nil {
		alpha = *l.Alpha
	}

	err = ch.Configure(t, dpu.ChannelConfig{
		Format:     format,
		Addr:       l.Addr,
		Stride:     l.Stride,
		Src:        l.Src.Rectangle(),
		Compressed: l.Compressed,
	})
	if err != nil {
		return err
	}
	if err := s.MountChannel(ch); err != nil {
		return err
	}
	layer := scene.Layer{
		Stage:   l.Stage,
		Channel: ch,
		Dst:     l.Dst.Rectangle(),
		Blend:   blend.Intent{Mode: mode, PixelAlpha: dpu.FormatHasAlpha(format), LayerAlpha: alpha},
	}
	if _, err := s.ConfigureLayer(layer); err != nil {
		return err
	}
	for _, node := range l.Stripes {
		if _, err := s.ConfigureStripeLayer(node, layer); err != nil {
			return err
		}
	}
	return nil
}

func applyWriteback(reg *dpu.Registry, s *scene.Scene, t dpu.Target, w WritebackSpec) error {
	wb, err := lookup(reg, dpu.KindWriteback, w.ID, dpu.AsWriteback)
	if err != nil {
		return err
	}
	tap, err := wbpos.ParseTap(w.Tap)
	if err != nil {
		return err
	}
	format, err := dpu.ParseFormat(w.Format)
	if err != nil {
		return err
	}
	err = wb.Configure(t, dpu.WritebackConfig{
		Format:   format,
		Addr:     w.Addr,
		Stride:   w.Stride,
		Size:     image.Pt(w.Size[0], w.Size[1]),
		Position: wbpos.Resolve(tap, w.TapID),
	})
	if err != nil {
		return err
	}
	_, err = s.MountWriteback(wb, tap, w.TapID)
	return err
}

func lookup[V any](reg *dpu.Registry, kind dpu.Kind, id int, as func(*dpu.Block) (V, error)) (V, error) {
	b, err := reg.Get(kind, id)
	if err != nil {
		var zero V
		return zero, err
	}
	return as(b)
}

// Enable is a convenience for callers that apply and start in one step.
func Enable(ctx context.Context, s *scene.Scene, m *cmdlist.Manager, c cmdlist.Consumer) error {
	if err := s.Flush(m, c); err != nil {
		return err
	}
	return s.Enable(ctx)
}
