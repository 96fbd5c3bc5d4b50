package wbpos

import (
	"errors"
	"testing"
)

func TestAfterMixerMonotonic(t *testing.T) {
	if !(AfterMixer(0) < AfterMixer(1) && AfterMixer(1) < AfterMixer(2)) {
		t.Errorf("AfterMixer not increasing: %d %d %d", AfterMixer(0), AfterMixer(1), AfterMixer(2))
	}
	if AfterMixer(0) != AfterMixerBase {
		t.Errorf("AfterMixer(0) = %d, want %d", AfterMixer(0), AfterMixerBase)
	}
}

func TestPrePQInterleaving(t *testing.T) {
	for k := 0; k < PrePQCount; k++ {
		if got, want := AfterPrePQ(k), BeforePrePQ(k)+1; got != want {
			t.Errorf("AfterPrePQ(%d) = %d, want %d", k, got, want)
		}
		if BeforePrePQ(k) != Position(2*k) {
			t.Errorf("BeforePrePQ(%d) = %d, want %d", k, BeforePrePQ(k), 2*k)
		}
		if k > 0 {
			if BeforePrePQ(k) <= BeforePrePQ(k-1) || AfterPrePQ(k) <= AfterPrePQ(k-1) {
				t.Errorf("prepq taps not increasing at k=%d", k)
			}
		}
	}
}

func TestFamiliesDoNotOverlap(t *testing.T) {
	seen := make(map[Position]string)
	add := func(p Position, name string) {
		if !p.Valid() {
			t.Fatalf("%s resolved to invalid %d", name, p)
		}
		if prev, dup := seen[p]; dup {
			t.Errorf("%s and %s share code %d", prev, name, p)
		}
		seen[p] = name
	}
	for k := 0; k < PrePQCount; k++ {
		add(BeforePrePQ(k), BeforePrePQ(k).String())
		add(AfterPrePQ(k), AfterPrePQ(k).String())
	}
	for s := 0; s < MixerCount; s++ {
		add(AfterMixer(s), AfterMixer(s).String())
	}
	for s := 0; s < PostPQCount; s++ {
		add(AfterPostPQ(s), AfterPostPQ(s).String())
	}
	add(AfterReconstruction, AfterReconstruction.String())

	if len(seen) != int(Invalid) {
		t.Errorf("enumeration has %d codes, Invalid = %d", len(seen), Invalid)
	}
}

func TestOutOfRangeIsInvalid(t *testing.T) {
	tests := []struct {
		name string
		got  Position
	}{
		{"before-prepq -1", BeforePrePQ(-1)},
		{"before-prepq 10", BeforePrePQ(PrePQCount)},
		{"after-prepq 10", AfterPrePQ(PrePQCount)},
		{"after-mixer 3", AfterMixer(MixerCount)},
		{"after-postpq 2", AfterPostPQ(PostPQCount)},
		{"unknown tap", Resolve(Tap(77), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != Invalid {
				t.Errorf("got %d, want Invalid", tt.got)
			}
			if !errors.Is(tt.got.Check(), ErrInvalidPosition) {
				t.Errorf("Check() = %v, want ErrInvalidPosition", tt.got.Check())
			}
		})
	}
	if (Invalid + 3).Valid() {
		t.Error("code above Invalid reported valid")
	}
}

func TestResolveAndParse(t *testing.T) {
	tests := []struct {
		tap  string
		id   int
		want Position
	}{
		{"before-prepq", 3, 6},
		{"after-prepq", 3, 7},
		{"after-mixer", 1, AfterMixerBase + 1},
		{"after-postpq", 1, AfterPostPQBase + 1},
		{"after-reconstruction", 99, AfterReconstruction},
	}
	for _, tt := range tests {
		t.Run(tt.tap, func(t *testing.T) {
			tap, err := ParseTap(tt.tap)
			if err != nil {
				t.Fatalf("ParseTap(%q) error = %v", tt.tap, err)
			}
			if tap.String() != tt.tap {
				t.Errorf("Tap.String() = %q, want %q", tap.String(), tt.tap)
			}
			if got := Resolve(tap, tt.id); got != tt.want {
				t.Errorf("Resolve(%s, %d) = %d, want %d", tap, tt.id, got, tt.want)
			}
		})
	}
	if _, err := ParseTap("sideways"); err == nil {
		t.Error("ParseTap(sideways) succeeded")
	}
}

func TestPositionString(t *testing.T) {
	tests := map[Position]string{
		BeforePrePQ(2):      "before-prepq2",
		AfterPrePQ(9):       "after-prepq9",
		AfterMixer(2):       "after-mixer2",
		AfterPostPQ(0):      "after-postpq0",
		AfterReconstruction: "after-reconstruction",
		Invalid:             "invalid(26)",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Position(%d).String() = %q, want %q", p, got, want)
		}
	}
}
