package blend

import "testing"

// alphaClasses covers zero, partial and opaque layer alpha.
var alphaClasses = []uint8{0, 1, 0x80, 0xFE, 0xFF}

func TestResolveTotality(t *testing.T) {
	for _, mode := range []Mode{ModePremultiplied, ModeCoverage, ModeNone} {
		for _, pixel := range []bool{false, true} {
			for _, la := range alphaClasses {
				intent := Intent{Mode: mode, PixelAlpha: pixel, LayerAlpha: la}
				for name, resolve := range map[string]func(Intent) Config{
					"frame":  Resolve,
					"stripe": ResolveStripe,
				} {
					cfg := resolve(intent)
					if int(cfg.Code) >= RowCount {
						t.Errorf("%s %+v -> code %d out of table", name, intent, cfg.Code)
					}
					if cfg.Alpha != DefaultTable().Row(cfg.Code).Alpha {
						t.Errorf("%s %+v -> alpha %s disagrees with row %s", name, intent, cfg.Alpha, cfg.Code)
					}
				}
			}
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   Config
	}{
		{"premult pixel opaque", Intent{ModePremultiplied, true, 0xFF}, Config{RowSourceOver, AlphaPixel, 0xFF}},
		{"premult pixel zero", Intent{ModePremultiplied, true, 0}, Config{RowDestination, AlphaLayer, 0}},
		{"premult pixel partial", Intent{ModePremultiplied, true, 1}, Config{RowPremultLayerPixel, AlphaBoth, 1}},
		{"premult opaque", Intent{ModePremultiplied, false, 0xFF}, Config{RowPremultOpaque, AlphaLayer, 0xFF}},
		{"premult partial", Intent{ModePremultiplied, false, 0x40}, Config{RowPremultLayer, AlphaLayer, 0x40}},
		{"premult zero no pixel", Intent{ModePremultiplied, false, 0}, Config{RowPremultLayer, AlphaLayer, 0}},
		{"coverage pixel opaque", Intent{ModeCoverage, true, 0xFF}, Config{RowCoveragePixel, AlphaPixel, 0xFF}},
		{"coverage pixel partial", Intent{ModeCoverage, true, 0x80}, Config{RowCoverageLayerPixel, AlphaBoth, 0x80}},
		{"coverage opaque", Intent{ModeCoverage, false, 0xFF}, Config{RowCoverageOpaque, AlphaLayer, 0xFF}},
		{"coverage partial", Intent{ModeCoverage, false, 0x10}, Config{RowCoverageLayer, AlphaLayer, 0x10}},
		{"none pixel", Intent{ModeNone, true, 0x33}, Config{RowSource, AlphaPixel, 0xFF}},
		{"none no pixel", Intent{ModeNone, false, 0x33}, Config{RowNoneLayer, AlphaLayer, 0x33}},
		{"unknown mode", Intent{Mode(9), false, 0x33}, Config{RowSource, AlphaPixel, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.intent); got != tt.want {
				t.Errorf("Resolve(%+v) = %s, want %s", tt.intent, got, tt.want)
			}
		})
	}
}

func TestResolveZeroAlphaSpecialCase(t *testing.T) {
	zero := Resolve(Intent{ModePremultiplied, true, 0})
	one := Resolve(Intent{ModePremultiplied, true, 1})
	if zero.Code != RowDestination {
		t.Errorf("zero layer alpha -> %s, want dst", zero.Code)
	}
	if zero.Code == one.Code {
		t.Errorf("zero and one layer alpha resolve to the same row %s", zero.Code)
	}
	// The stripe classification has no zero-alpha case.
	if got := ResolveStripe(Intent{ModePremultiplied, true, 0}); got.Code == RowDestination {
		t.Errorf("ResolveStripe zero layer alpha -> %s, want a blending row", got.Code)
	}
}

func TestResolveStripe(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   Code
	}{
		{"premult pixel opaque", Intent{ModePremultiplied, true, 0xFF}, RowSourceOver},
		{"premult pixel zero has no special case", Intent{ModePremultiplied, true, 0}, RowPremultLayerPixel},
		{"premult opaque", Intent{ModePremultiplied, false, 0xFF}, RowPremultOpaque},
		{"premult partial", Intent{ModePremultiplied, false, 0x20}, RowPremultLayer},
		{"coverage pixel opaque", Intent{ModeCoverage, true, 0xFF}, RowCoveragePixel},
		{"none pixel shares coverage branch", Intent{ModeNone, true, 0xFF}, RowCoveragePixel},
		{"none pixel partial", Intent{ModeNone, true, 0x20}, RowCoverageLayerPixel},
		{"none opaque", Intent{ModeNone, false, 0xFF}, RowCoverageOpaque},
		{"none partial", Intent{ModeNone, false, 0x20}, RowCoverageLayer},
		{"unknown mode", Intent{Mode(5), true, 0x20}, RowSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveStripe(tt.intent).Code; got != tt.want {
				t.Errorf("ResolveStripe(%+v) = %s, want %s", tt.intent, got, tt.want)
			}
		})
	}
}

func TestResolveWithInjectedTable(t *testing.T) {
	table := DefaultTable()
	table[RowNoneLayer].Alpha = AlphaPixel

	got := table.Resolve(Intent{ModeNone, false, 0x10})
	if got.Alpha != AlphaPixel || got.LayerAlpha != OpaqueAlpha {
		t.Errorf("injected table ignored: %s", got)
	}
	if Resolve(Intent{ModeNone, false, 0x10}).Alpha != AlphaLayer {
		t.Error("injected table leaked into the default resolver")
	}
}

func TestModeString(t *testing.T) {
	if ModeCoverage.String() != "Coverage" || Mode(9).String() != "Mode(9)" {
		t.Errorf("Mode.String() mismatch: %q %q", ModeCoverage.String(), Mode(9).String())
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name string
		want Mode
	}{
		{"none", ModeNone},
		{"Premultiplied", ModePremultiplied},
		{"COVERAGE", ModeCoverage},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v, want %v", tt.name, got, err, tt.want)
		}
	}
	if _, err := ParseMode("multiply"); err == nil {
		t.Error("ParseMode(multiply) succeeded")
	}
}
