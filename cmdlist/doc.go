// Package cmdlist implements deferred register writes ("command lists").
//
// A command list is an ordered sequence of register writes that hardware
// applies atomically at a later trigger, instead of the CPU storing each
// word as it is produced. Writes are collected into a [Batch] keyed either
// by the next frame as a whole or by one stripe node, a spatial slice of a
// frame that the hardware schedules as an independent pass.
//
// # Architecture
//
//   - Entry: one write, either a full word or a pre-shifted bit span
//   - Batch: ordered entries for one key
//   - Manager: lazily creates batches and hands them to a Consumer
//   - Handle: a block's view of the Manager, translating block-relative
//     offsets into window offsets
//   - Consumer: drains batches; MMIO applies them to a register window
//
// Bit-span entries carry only the new bits. The consumer performs the
// read-merge-write, so the final register word is identical to what an
// immediate read-modify-write would have produced.
//
// # Consumers
//
// Consumers are registered using the database/sql driver pattern:
//
//	func init() {
//	    cmdlist.Register("mmio", func(w mmio.Window) cmdlist.Consumer {
//	        return cmdlist.NewMMIO(w)
//	    })
//	}
//
// # Thread Safety
//
// Batches and the Manager assume a single writer per frame or stripe.
// Callers serialize configuration of one batch on one goroutine.
package cmdlist
