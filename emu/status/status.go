/*
Status register: the SCC-visible bits of spec.md §3 — halted, broken,
single-step, interrupt-on-break, full, semaphore, and eight software
signal bits. Shaped like the teacher's PSW bit accessors (individual
named getters/setters rather than one opaque integer), because the
core's own BREAK and halted-loop logic branch on each bit independently.
*/
package status

// Status holds the RSP's SCC-visible status bits.
type Status struct {
	halted           bool
	broken           bool
	singleStep       bool
	interruptOnBreak bool
	full             bool
	semaphore        bool
	signals          [8]bool
}

// Reset clears every bit except halted, which powers on set: the RSP
// sits idle until the host writes SP_STATUS to start it running.
func (s *Status) Reset() {
	*s = Status{}
	s.halted = true
}

// Halted reports whether the RSP is halted.
func (s *Status) Halted() bool { return s.halted }

// SetHalted sets or clears the halted bit. This is the one bit the host
// is permitted to toggle while the core is not inside Step (spec.md §5).
func (s *Status) SetHalted(v bool) { s.halted = v }

// Broken reports whether the last halt was caused by BREAK.
func (s *Status) Broken() bool { return s.broken }

// SetBroken sets or clears the broken bit.
func (s *Status) SetBroken(v bool) { s.broken = v }

// SingleStep reports the single-step bit.
func (s *Status) SingleStep() bool { return s.singleStep }

// SetSingleStep sets or clears the single-step bit.
func (s *Status) SetSingleStep(v bool) { s.singleStep = v }

// InterruptOnBreak reports whether BREAK should signal the host.
func (s *Status) InterruptOnBreak() bool { return s.interruptOnBreak }

// SetInterruptOnBreak sets or clears the interrupt-on-break bit.
func (s *Status) SetInterruptOnBreak(v bool) { s.interruptOnBreak = v }

// Full reports the DMA "full" flag.
func (s *Status) Full() bool { return s.full }

// SetFull sets or clears the DMA full flag.
func (s *Status) SetFull(v bool) { s.full = v }

// Semaphore reports the semaphore bit.
func (s *Status) Semaphore() bool { return s.semaphore }

// SetSemaphore sets or clears the semaphore bit.
func (s *Status) SetSemaphore(v bool) { s.semaphore = v }

// Signal returns software signal bit n (0..7).
func (s *Status) Signal(n int) bool { return s.signals[n&7] }

// SetSignal sets or clears software signal bit n (0..7).
func (s *Status) SetSignal(n int, v bool) { s.signals[n&7] = v }

// Break puts the RSP into the halted+broken state, as BREAK does
// (spec.md §4.5, §8 Scenario 5).
func (s *Status) Break() {
	s.halted = true
	s.broken = true
}
