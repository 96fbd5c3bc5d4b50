package blend

import (
	"fmt"
	"strings"
)

// Mode is the abstract per-layer blend mode requested by the caller.
type Mode uint8

const (
	ModeNone          Mode = iota // No blending; the layer overwrites
	ModePremultiplied             // Color is premultiplied by pixel alpha
	ModeCoverage                  // Color is not premultiplied
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "None"
	case ModePremultiplied:
		return "Premultiplied"
	case ModeCoverage:
		return "Coverage"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode returns the mode named name, ignoring case.
func ParseMode(name string) (Mode, error) {
	for _, m := range []Mode{ModeNone, ModePremultiplied, ModeCoverage} {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("blend: unknown mode %q", name)
}

// OpaqueAlpha is the layer alpha of a fully opaque layer.
const OpaqueAlpha = 0xFF

// Intent is the caller's blend request for one layer.
type Intent struct {
	Mode Mode
	// PixelAlpha reports whether the source format carries per-pixel alpha.
	PixelAlpha bool
	// LayerAlpha is the plane-wide alpha, 0xFF for opaque.
	LayerAlpha uint8
}

// Config is the hardware-facing result of resolving an Intent.
type Config struct {
	Code       Code
	Alpha      AlphaSource
	LayerAlpha uint8
}

// String formats the config for logs.
func (c Config) String() string {
	return fmt.Sprintf("%s(alpha=%s, layer=%#02x)", c.Code, c.Alpha, c.LayerAlpha)
}

// Resolve maps intent to a hardware row using the default table.
// It is the classification used for whole-frame layer configuration.
func Resolve(intent Intent) Config {
	return defaultTable.Resolve(intent)
}

// ResolveStripe maps intent to a hardware row using the default table.
// It is the classification used for per-stripe layer configuration.
func ResolveStripe(intent Intent) Config {
	return defaultTable.ResolveStripe(intent)
}

// Resolve classifies intent by mode, then pixel alpha, then layer alpha.
//
// Premultiplied blending with pixel alpha and a zero layer alpha is defined
// to leave the destination untouched and selects RowDestination; it is not
// derived from the premultiplied equation. Unknown modes select RowSource.
func (t Table) Resolve(intent Intent) Config {
	opaque := intent.LayerAlpha == OpaqueAlpha

	var code Code
	switch intent.Mode {
	case ModePremultiplied:
		switch {
		case intent.PixelAlpha && opaque:
			code = RowSourceOver
		case intent.PixelAlpha && intent.LayerAlpha == 0:
			code = RowDestination
		case intent.PixelAlpha:
			code = RowPremultLayerPixel
		case opaque:
			code = RowPremultOpaque
		default:
			code = RowPremultLayer
		}
	case ModeCoverage:
		switch {
		case intent.PixelAlpha && opaque:
			code = RowCoveragePixel
		case intent.PixelAlpha:
			code = RowCoverageLayerPixel
		case opaque:
			code = RowCoverageOpaque
		default:
			code = RowCoverageLayer
		}
	case ModeNone:
		if intent.PixelAlpha {
			code = RowSource
		} else {
			code = RowNoneLayer
		}
	default:
		code = RowSource
	}
	return t.config(code, intent.LayerAlpha)
}

// ResolveStripe classifies intent by pixel alpha first, then mode, then
// layer alpha. Coverage and None share one branch and a zero layer alpha
// is not special-cased. Unknown modes select RowSource.
func (t Table) ResolveStripe(intent Intent) Config {
	opaque := intent.LayerAlpha == OpaqueAlpha

	var code Code
	switch {
	case !validMode(intent.Mode):
		code = RowSource
	case intent.PixelAlpha:
		switch {
		case intent.Mode == ModePremultiplied && opaque:
			code = RowSourceOver
		case intent.Mode == ModePremultiplied:
			code = RowPremultLayerPixel
		case opaque:
			code = RowCoveragePixel
		default:
			code = RowCoverageLayerPixel
		}
	default:
		switch {
		case intent.Mode == ModePremultiplied && opaque:
			code = RowPremultOpaque
		case intent.Mode == ModePremultiplied:
			code = RowPremultLayer
		case opaque:
			code = RowCoverageOpaque
		default:
			code = RowCoverageLayer
		}
	}
	return t.config(code, intent.LayerAlpha)
}

func validMode(m Mode) bool {
	return m == ModeNone || m == ModePremultiplied || m == ModeCoverage
}

// config builds the hardware config for code. Rows that read only pixel
// alpha are programmed with an opaque layer alpha.
func (t Table) config(code Code, layerAlpha uint8) Config {
	row := t.Row(code)
	if row.Alpha == AlphaPixel {
		layerAlpha = OpaqueAlpha
	}
	return Config{Code: row.Code, Alpha: row.Alpha, LayerAlpha: layerAlpha}
}
