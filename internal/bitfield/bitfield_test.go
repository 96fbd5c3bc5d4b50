package bitfield

import "testing"

func TestValid(t *testing.T) {
	tests := []struct {
		name          string
		start, length uint8
		want          bool
	}{
		{"zero width", 0, 0, false},
		{"full word", 0, 32, true},
		{"top bit", 31, 1, true},
		{"past top", 31, 2, false},
		{"middle", 8, 8, true},
		{"start out of word", 40, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.start, tt.length); got != tt.want {
				t.Errorf("Valid(%d, %d) = %v, want %v", tt.start, tt.length, got, tt.want)
			}
		})
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		start, length uint8
		want          uint32
	}{
		{0, 32, 0xFFFFFFFF},
		{0, 1, 0x1},
		{4, 4, 0xF0},
		{16, 8, 0x00FF0000},
		{31, 1, 0x80000000},
	}
	for _, tt := range tests {
		if got := Mask(tt.start, tt.length); got != tt.want {
			t.Errorf("Mask(%d, %d) = %#x, want %#x", tt.start, tt.length, got, tt.want)
		}
	}
}

func TestPlaceTruncates(t *testing.T) {
	if got := Place(0x1FF, 8, 8); got != 0xFF00 {
		t.Errorf("Place(0x1FF, 8, 8) = %#x, want 0xff00", got)
	}
}

func TestMergePreservesOtherBits(t *testing.T) {
	old := uint32(0xDEADBEEF)
	got := Merge(old, Place(0x5, 12, 4), 12, 4)
	if want := uint32(0xDEAD5EEF); got != want {
		t.Errorf("Merge = %#x, want %#x", got, want)
	}
	if Extract(got, 12, 4) != 0x5 {
		t.Errorf("Extract = %#x, want 0x5", Extract(got, 12, 4))
	}
}
