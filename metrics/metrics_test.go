package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gogpu/dpu"
	"github.com/gogpu/dpu/cmdlist"
	"github.com/gogpu/dpu/mmio"
)

func TestCollectorCountsWrites(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatal(err)
	}

	r, err := dpu.NewRegion(0, mmio.NewMemory(0x200), 0x200, dpu.WithObserver(c))
	if err != nil {
		t.Fatal(err)
	}
	mgr := cmdlist.NewManager()
	b, err := dpu.InitBlock(dpu.KindMixer, dpu.Capability{Length: 0x60, Features: dpu.FeatureCmdList}, r, dpu.WithCommandList(mgr))
	if err != nil {
		t.Fatal(err)
	}

	_ = b.Write(0x0, 1, dpu.ModeImmediate)
	_ = b.Write(0x4, 1, dpu.ModeFrame)
	_ = b.Write(0x8, 1, dpu.ModeFrame)
	_ = b.WriteForStripe(2, 0x0, 1)
	_ = b.Write(0x60, 1, dpu.ModeImmediate)

	tests := []struct {
		path dpu.WritePath
		want float64
	}{
		{dpu.PathImmediate, 1},
		{dpu.PathFrame, 2},
		{dpu.PathStripe, 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(c.writes.WithLabelValues("mixer", tt.path.String()))
		if got != tt.want {
			t.Errorf("writes{mixer,%s} = %v, want %v", tt.path, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(c.errors.WithLabelValues("mixer", "out_of_range")); got != 1 {
		t.Errorf("errors{mixer,out_of_range} = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.writes); n != 3 {
		t.Errorf("writes has %d series, want 3", n)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n != 4 {
		t.Errorf("GatherAndCount() = %d, %v, want 4", n, err)
	}
}

func TestNewCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewCollector(reg); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCollector(reg); err == nil {
		t.Error("second NewCollector on the same registry succeeded")
	}
	if _, err := NewCollector(nil); err != nil {
		t.Errorf("NewCollector(nil) = %v", err)
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&dpu.RangeError{Block: "x"}, "out_of_range"},
		{fmt.Errorf("wrap: %w", dpu.ErrUnsupportedOnBlock), "unsupported"},
		{dpu.ErrNullBlock, "null_block"},
		{dpu.ErrInvalidArgument, "invalid_argument"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := Reason(tt.err); got != tt.want {
			t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
