/*
Package host defines the narrow contract the RSP core needs from its
embedding program (spec.md §6): a place to drain DMA transfers into and
out of. It is intentionally the smallest interface that lets core.Machine
stay ignorant of how the host actually stores RDRAM or renders RDP
commands, the same shape as the teacher's emu/device.Device -- a handful
of verbs a collaborator implements, rather than a type the core reaches
into.
*/
package host

// DRAM is satisfied by whatever the embedding program backs RDRAM with.
// It is the same shape as emu/dma.DRAM; host re-exports it so callers
// outside emu/ never need to import the dma package directly.
type DRAM interface {
	ReadAt(addr uint32, buf []byte)
	WriteAt(addr uint32, buf []byte)
}

// RDP is the (currently inert) command-list collaborator spec.md's
// Non-goals exclude executing: core.Machine only tells it where a
// finished RSP->DRAM transfer started, never how anything is rendered.
type RDP interface {
	// Notify is called when the DMA write (RSP->DRAM) channel goes from
	// busy to idle during a Step, with the RSP-side start address of the
	// transfer that was in flight. No address range is filtered, and a
	// write that hands straight over to a queued one does not notify.
	// The RSP core never waits on it and never inspects a return value:
	// delivery is fire-and-forget.
	Notify(dmemAddr uint32)
}
