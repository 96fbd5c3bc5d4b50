// Package blend translates per-layer blend intent into one of the fixed
// hardware blend configurations of the display processor mixer.
//
// The mixer supports exactly [RowCount] blend rows. Each row fixes a blend
// equation and the source of the alpha it uses; the resolvers in this
// package pick a row from the caller's abstract intent. Rows are identified
// by their hardware code, which is also their index in the [Table].
//
// All alpha values are 8-bit, 0xFF meaning fully opaque.
package blend

import "github.com/gogpu/gputypes"

// Code is a hardware blend row code.
type Code uint8

// Hardware blend rows. The numeric value is the code programmed into the
// mixer layer control register.
const (
	RowClear              Code = iota // Result: 0
	RowSource                         // Result: S (copy source as-is)
	RowDestination                    // Result: D
	RowSourceOver                     // Result: S + D*(1-Sa)
	RowDestinationOver                // Result: S*(1-Da) + D
	RowSourceIn                       // Result: S*Da
	RowDestinationIn                  // Result: D*Sa
	RowSourceOut                      // Result: S*(1-Da)
	RowDestinationOut                 // Result: D*(1-Sa)
	RowSourceAtop                     // Result: S*Da + D*(1-Sa)
	RowDestinationAtop                // Result: S*(1-Da) + D*Sa
	RowXor                            // Result: S*(1-Da) + D*(1-Sa)
	RowPlus                           // Result: S + D (saturating)
	RowPremultLayerPixel              // Result: S*La + D*(1-Sa*La)
	RowPremultLayer                   // Result: S*La + D*(1-La)
	RowPremultOpaque                  // Result: S, alpha forced opaque
	RowCoveragePixel                  // Result: S*Sa + D*(1-Sa)
	RowCoverageLayerPixel             // Result: S*Sa*La + D*(1-Sa*La)
	RowCoverageLayer                  // Result: S*La + D*(1-La), non-premultiplied
	RowCoverageOpaque                 // Result: S, non-premultiplied, alpha forced opaque
	RowNoneLayer                      // Result: S*La + D*(1-La), pixel alpha ignored

	// RowCount is the number of hardware blend rows.
	RowCount = 21
)

// AlphaSource selects which alpha the mixer multiplies into a layer.
type AlphaSource uint8

const (
	AlphaLayer AlphaSource = iota // Plane-wide layer alpha only
	AlphaPixel                    // Per-pixel alpha only
	AlphaBoth                     // Pixel alpha scaled by layer alpha
)

// String returns the alpha source name.
func (a AlphaSource) String() string {
	switch a {
	case AlphaLayer:
		return "Layer"
	case AlphaPixel:
		return "Pixel"
	case AlphaBoth:
		return "Both"
	default:
		return "Unknown"
	}
}

// Row is one hardware blend configuration.
type Row struct {
	// Code is the hardware row code.
	Code Code
	// Name is a short mnemonic used in dumps.
	Name string
	// Alpha is the alpha source the row reads.
	Alpha AlphaSource
	// Equation describes the row as a GPU blend state over premultiplied
	// color. Layer alpha appears as the blend constant.
	Equation gputypes.BlendState
}

// Table is the complete set of hardware blend rows indexed by code.
// It is a value type: resolvers receive their own copy.
type Table [RowCount]Row

func eq(src, dst gputypes.BlendFactor) gputypes.BlendState {
	c := gputypes.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: gputypes.BlendOperationAdd}
	return gputypes.BlendState{Color: c, Alpha: c}
}

const (
	fZero    = gputypes.BlendFactorZero
	fOne     = gputypes.BlendFactorOne
	fSa      = gputypes.BlendFactorSrcAlpha
	fInvSa   = gputypes.BlendFactorOneMinusSrcAlpha
	fDa      = gputypes.BlendFactorDstAlpha
	fInvDa   = gputypes.BlendFactorOneMinusDstAlpha
	fConst   = gputypes.BlendFactorConstant
	fInvCnst = gputypes.BlendFactorOneMinusConstant
)

var defaultTable = Table{
	RowClear:              {RowClear, "clear", AlphaLayer, eq(fZero, fZero)},
	RowSource:             {RowSource, "src", AlphaPixel, eq(fOne, fZero)},
	RowDestination:        {RowDestination, "dst", AlphaLayer, eq(fZero, fOne)},
	RowSourceOver:         {RowSourceOver, "src-over", AlphaPixel, eq(fOne, fInvSa)},
	RowDestinationOver:    {RowDestinationOver, "dst-over", AlphaPixel, eq(fInvDa, fOne)},
	RowSourceIn:           {RowSourceIn, "src-in", AlphaPixel, eq(fDa, fZero)},
	RowDestinationIn:      {RowDestinationIn, "dst-in", AlphaPixel, eq(fZero, fSa)},
	RowSourceOut:          {RowSourceOut, "src-out", AlphaPixel, eq(fInvDa, fZero)},
	RowDestinationOut:     {RowDestinationOut, "dst-out", AlphaPixel, eq(fZero, fInvSa)},
	RowSourceAtop:         {RowSourceAtop, "src-atop", AlphaPixel, eq(fDa, fInvSa)},
	RowDestinationAtop:    {RowDestinationAtop, "dst-atop", AlphaPixel, eq(fInvDa, fSa)},
	RowXor:                {RowXor, "xor", AlphaPixel, eq(fInvDa, fInvSa)},
	RowPlus:               {RowPlus, "plus", AlphaPixel, eq(fOne, fOne)},
	RowPremultLayerPixel:  {RowPremultLayerPixel, "premult-layer-pixel", AlphaBoth, eq(fConst, fInvSa)},
	RowPremultLayer:       {RowPremultLayer, "premult-layer", AlphaLayer, eq(fConst, fInvCnst)},
	RowPremultOpaque:      {RowPremultOpaque, "premult-opaque", AlphaLayer, eq(fOne, fZero)},
	RowCoveragePixel:      {RowCoveragePixel, "coverage-pixel", AlphaPixel, eq(fSa, fInvSa)},
	RowCoverageLayerPixel: {RowCoverageLayerPixel, "coverage-layer-pixel", AlphaBoth, eq(fSa, fInvSa)},
	RowCoverageLayer:      {RowCoverageLayer, "coverage-layer", AlphaLayer, eq(fConst, fInvCnst)},
	RowCoverageOpaque:     {RowCoverageOpaque, "coverage-opaque", AlphaLayer, eq(fOne, fZero)},
	RowNoneLayer:          {RowNoneLayer, "none-layer", AlphaLayer, eq(fConst, fInvCnst)},
}

// DefaultTable returns a copy of the hardware blend table.
func DefaultTable() Table {
	return defaultTable
}

// Row returns the row for code. Unknown codes return the copy-source row.
func (t Table) Row(code Code) Row {
	if int(code) >= len(t) {
		return t[RowSource]
	}
	return t[code]
}

// String returns the row mnemonic.
func (c Code) String() string {
	if int(c) < RowCount {
		return defaultTable[c].Name
	}
	return "unknown"
}
