package cmdlist

import (
	"strings"
	"testing"
)

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpWrite, "Write"},
		{OpMerge, "Merge"},
		{Op(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestMergeEntryPreMasks(t *testing.T) {
	e := MergeEntry(0x10, 0xFF, 4, 4)
	if e.Value != 0xF0 {
		t.Errorf("Value = %#x, want 0xf0", e.Value)
	}
	if got := e.Apply(0x12345678); got != 0x123456F8 {
		t.Errorf("Apply = %#x, want 0x123456f8", got)
	}
}

func TestEntryString(t *testing.T) {
	if s := WriteEntry(0x20, 1).String(); !strings.Contains(s, "Write") || !strings.Contains(s, "0x0020") {
		t.Errorf("WriteEntry String() = %q", s)
	}
	if s := MergeEntry(0x20, 1, 8, 4).String(); !strings.Contains(s, "bits 8..11") {
		t.Errorf("MergeEntry String() = %q", s)
	}
}

func TestKeyString(t *testing.T) {
	if FrameKey().String() != "frame" {
		t.Errorf("FrameKey().String() = %q", FrameKey().String())
	}
	if StripeKey(9).String() != "stripe/9" {
		t.Errorf("StripeKey(9).String() = %q", StripeKey(9).String())
	}
	if ScopeStripe.String() != "Stripe" || Scope(9).String() != "Unknown" {
		t.Error("Scope.String() mismatch")
	}
}
