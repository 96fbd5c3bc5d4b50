// Package dpu configures the register blocks of a display processing unit.
//
// # Overview
//
// A DPU exposes one memory-mapped register region. The region is carved into
// hardware blocks (source DMA channels, layer mixers, scalers, picture-quality
// stages, write-back engines, scene controllers and timing generators), each
// described at start-up by a [Capability]. [InitBlock] validates a capability
// against its [Region] and binds exactly one register layout to the block.
//
// # Writes
//
// Every register write goes through the block's dispatcher:
//
//	blk.Write(0x10, 0x1, dpu.ModeImmediate)    // straight to the window
//	blk.Write(0x10, 0x1, dpu.ModeFrame)        // queued for the next frame
//	blk.WriteBits(0x00, 3, 4, 2, dpu.ModeFrame) // sub-field, merged downstream
//	blk.WriteForStripe(node, 0x10, 0x1)        // queued for one stripe node
//
// Deferred writes land in [cmdlist] batches and reach the hardware when a
// [cmdlist.Consumer] commits them. A block without a command-list handle
// demotes frame writes to immediate ones; stripe writes on such a block fail
// with [ErrUnsupportedOnBlock].
//
// # Typed views
//
// [AsChannel], [AsMixer], [AsScaler], [AsPQ], [AsWriteback], [AsSceneCtl]
// and [AsTimingEngine] wrap a block with operations named after its
// registers. Each operation takes a [Target] that selects the write path.
//
// # Logging
//
// The package is silent by default. Install a logger with [SetLogger].
package dpu
