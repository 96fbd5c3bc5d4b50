package platform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/dpu"
	"github.com/gogpu/dpu/blend"
	"github.com/gogpu/dpu/cmdlist"
	"github.com/gogpu/dpu/mmio"
	"github.com/gogpu/dpu/wbpos"
)

func TestLoadFile(t *testing.T) {
	p, err := LoadFile("testdata/platform.yaml")
	if err != nil {
		t.Fatalf("LoadFile() = %v", err)
	}
	if p.Name != "sim-dpu" || p.Region.Base != 0x1e000000 || p.Region.Length != 0x2000 {
		t.Errorf("header = %q %#x+%#x", p.Name, p.Region.Base, p.Region.Length)
	}
	caps, err := p.Capabilities()
	if err != nil {
		t.Fatal(err)
	}
	rdma := caps[dpu.KindRDMA]
	if len(rdma) != 2 {
		t.Fatalf("rdma caps = %d, want 2", len(rdma))
	}
	want := dpu.FeatureCmdList | dpu.FeatureRDMAExtended | dpu.FeatureRDMACompression
	if rdma[0].Features != want || rdma[0].Offset != 0x400 {
		t.Errorf("rdma0 = %+v", rdma[0])
	}
	if ctl := caps[dpu.KindSceneCtl][0]; ctl.Mirror != 0x100 {
		t.Errorf("ctl0 mirror = %#x", ctl.Mirror)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "name: x\nregion: {base: 0, length: 16}\nbogus: 1\n"},
		{"missing length", "name: x\nregion: {base: 0}\n"},
		{"not yaml", "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.doc)); err == nil {
				t.Error("Load() succeeded")
			}
		})
	}
}

func TestCapabilitiesRejectUnknownNames(t *testing.T) {
	p := &Platform{Region: RegionSpec{Length: 0x100}, Blocks: map[string][]BlockSpec{"gpu": {{Name: "g"}}}}
	if _, err := p.Capabilities(); !errors.Is(err, dpu.ErrInvalidArgument) {
		t.Errorf("unknown kind = %v", err)
	}
	p.Blocks = map[string][]BlockSpec{"rdma": {{Name: "r", Length: 0x20, Features: []string{"turbo"}}}}
	if _, err := p.Capabilities(); !errors.Is(err, dpu.ErrInvalidArgument) {
		t.Errorf("unknown feature = %v", err)
	}
}

func TestBuildOutOfRange(t *testing.T) {
	p := &Platform{
		Name:   "tiny",
		Region: RegionSpec{Length: 0x100},
		Blocks: map[string][]BlockSpec{"mixer": {{Name: "lm0", Offset: 0xC0, Length: 0x60}}},
	}
	if _, err := p.Build(mmio.NewMemory(0x100), nil); !errors.Is(err, dpu.ErrResourceOutOfRange) {
		t.Errorf("Build() = %v, want ErrResourceOutOfRange", err)
	}
}

func loadAll(t *testing.T) (*mmio.Memory, *cmdlist.Manager, *dpu.Registry, *Frame) {
	t.Helper()
	p, err := LoadFile("testdata/platform.yaml")
	if err != nil {
		t.Fatal(err)
	}
	mem := mmio.NewMemory(p.Region.Length)
	mgr := cmdlist.NewManager()
	reg, err := p.Build(mem, nil, dpu.WithCommandList(mgr))
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	f, err := LoadFrameFile("testdata/frame.yaml")
	if err != nil {
		t.Fatalf("LoadFrameFile() = %v", err)
	}
	return mem, mgr, reg, f
}

func TestApplyFrame(t *testing.T) {
	mem, mgr, reg, f := loadAll(t)
	mem.OnWrite(0x18, func(_, _ uint32) { mem.Poke(0x1C, 1) })

	s, err := f.Apply(reg)
	if err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	if n := len(mem.Snapshot()); n != 0 {
		t.Fatalf("frame target wrote %d registers before flush", n)
	}
	// Frame batch plus the two stripe nodes of layer 1.
	if n := len(mgr.Pending()); n != 3 {
		t.Errorf("pending batches = %d, want 3", n)
	}

	if err := Enable(context.Background(), s, mgr, cmdlist.NewMMIO(mem)); err != nil {
		t.Fatalf("Enable() = %v", err)
	}
	if got := mem.Peek(0x04); got != 0x3 {
		t.Errorf("channel mount mask = %#x, want 0x3", got)
	}
	if got := mem.Peek(0x08); got != 0x1 {
		t.Errorf("wb mount mask = %#x, want 0x1", got)
	}
	if mem.Peek(0x14) != 1 || mem.Peek(0x114) != 1 {
		t.Error("config ready not latched on both instances")
	}
	if got := mem.Peek(0x40C); got != 0x1 {
		t.Errorf("rdma0 high address = %#x, want 0x1", got)
	}
	if got := (mem.Peek(0xC00) >> 8) & 0xFF; got != uint32(wbpos.AfterMixer(0)) {
		t.Errorf("wb0 position = %d", got)
	}

	// Stage 1 was re-blended for stripes after the whole-frame setup, so
	// the per-stripe classification wins once everything is flushed.
	stage1 := mem.Peek(0x200 + 0x20 + 0x10)
	want := blend.ResolveStripe(blend.Intent{Mode: blend.ModePremultiplied, PixelAlpha: true, LayerAlpha: 0x80})
	if code := blend.Code((stage1 >> 1) & 0x1F); code != want.Code {
		t.Errorf("stage 1 code = %v, want %v", code, want.Code)
	}
	if !s.Enabled() {
		t.Error("scene not enabled")
	}
}

func TestApplyMissingBlock(t *testing.T) {
	_, _, reg, f := loadAll(t)
	f.Layers[0].Channel = 7
	if _, err := f.Apply(reg); !errors.Is(err, dpu.ErrNullBlock) {
		t.Errorf("Apply() = %v, want ErrNullBlock", err)
	}
}

func TestApplyBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Frame)
		wantErr error
	}{
		{"format", func(f *Frame) { f.Layers[0].Format = "Depth32Float" }, dpu.ErrUnsupportedFormat},
		{"tap", func(f *Frame) { f.Writebacks[0].TapID = 9 }, wbpos.ErrInvalidPosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, reg, f := loadAll(t)
			tt.mutate(f)
			if _, err := f.Apply(reg); !errors.Is(err, tt.wantErr) {
				t.Errorf("Apply() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	_, _, reg, f := loadAll(t)
	f.Target = "later"
	if _, err := f.Apply(reg); err == nil {
		t.Error("Apply() accepted an unknown target")
	}
	_, _, reg, f = loadAll(t)
	f.Layers[0].Blend = "multiply"
	if _, err := f.Apply(reg); err == nil {
		t.Error("Apply() accepted an unknown blend mode")
	}
}

func TestApplyBackground(t *testing.T) {
	const bgReg = 0x200 + 0x04
	black := uint32(0)
	tests := []struct {
		name string
		bg   *uint32
		want uint32
	}{
		{"unset keeps register", nil, 0x12345678},
		{"transparent black", &black, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem, _, reg, f := loadAll(t)
			f.Target = "immediate"
			f.Layers, f.Writebacks = nil, nil
			f.Background = tt.bg
			mem.Poke(bgReg, 0x12345678)
			if _, err := f.Apply(reg); err != nil {
				t.Fatalf("Apply() = %v", err)
			}
			if got := mem.Peek(bgReg); got != tt.want {
				t.Errorf("background = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestLoadFrameZeroBackground(t *testing.T) {
	f, err := LoadFrame(strings.NewReader("scene: 0\nmixer: 0\nbackground: 0\nlayers: []\n"))
	if err != nil {
		t.Fatal(err)
	}
	if f.Background == nil || *f.Background != 0 {
		t.Errorf("background = %v, want explicit zero", f.Background)
	}
}
