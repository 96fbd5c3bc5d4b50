package dpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// formatInfo is the hardware encoding of a pixel format.
type formatInfo struct {
	code     uint32
	alpha    bool
	bpp      uint32 // bytes per pixel
	writable bool   // write-back engines can emit it
}

var formats = map[gputypes.TextureFormat]formatInfo{
	gputypes.TextureFormatRGBA8Unorm:     {code: 0x00, alpha: true, bpp: 4, writable: true},
	gputypes.TextureFormatBGRA8Unorm:     {code: 0x01, alpha: true, bpp: 4, writable: true},
	gputypes.TextureFormatRGBA8UnormSrgb: {code: 0x02, alpha: true, bpp: 4},
	gputypes.TextureFormatBGRA8UnormSrgb: {code: 0x03, alpha: true, bpp: 4},
	gputypes.TextureFormatRGB10A2Unorm:   {code: 0x04, alpha: true, bpp: 4, writable: true},
	gputypes.TextureFormatRGBA16Float:    {code: 0x05, alpha: true, bpp: 8},
	gputypes.TextureFormatRG11B10Ufloat:  {code: 0x06, bpp: 4},
	gputypes.TextureFormatR8Unorm:        {code: 0x07, bpp: 1},
	gputypes.TextureFormatRG8Unorm:       {code: 0x08, bpp: 2},
}

func lookupFormat(f gputypes.TextureFormat) (formatInfo, error) {
	fi, ok := formats[f]
	if !ok {
		return formatInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return fi, nil
}

// FormatHasAlpha reports whether the hardware fetches per-pixel alpha for f.
// Unsupported formats report false.
func FormatHasAlpha(f gputypes.TextureFormat) bool {
	return formats[f].alpha
}

// FormatBytesPerPixel returns the storage size of one pixel of f, or zero
// for unsupported formats.
func FormatBytesPerPixel(f gputypes.TextureFormat) uint32 {
	return formats[f].bpp
}

// ParseFormat returns the supported format whose name matches name,
// ignoring case.
func ParseFormat(name string) (gputypes.TextureFormat, error) {
	for f := range formats {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}
