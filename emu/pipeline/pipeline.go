/*
Package pipeline models the RSP's 3-cycle-per-slot issue pipeline
(spec.md §5): the scalar and vector RAW-hazard windows, load-use
stalling, and the predicate that decides whether a second instruction
may dual-issue alongside the first. It holds no machine state beyond
its own bookkeeping -- the actual register writes happen in ipu/vpu;
Pipeline only tracks who wrote what, how recently.
*/
package pipeline

import "github.com/n64rsp/rsp/emu/decode"

// stage records what one issue slot did to the register files, so a
// later Issue can detect a still-in-flight write.
type stage struct {
	load   bool
	rWrite decode.RegMask
	vWrite decode.RegMask
}

// Pipeline tracks one instruction slot's in-flight effects plus the
// two-/three-deep history needed to detect RAW hazards on the scalar
// and vector register files respectively.
type Pipeline struct {
	// Clocks accumulates the cycle cost of the current instruction.
	Clocks uint32
	// SingleIssue forces the next instruction word to issue alone,
	// set after a taken branch lands on an odd word and after End
	// observes a branch in the just-issued slot.
	SingleIssue bool

	previous [3]stage
	current  currentSlot
}

type currentSlot struct {
	stage
	store  bool
	branch bool
	rRead  decode.RegMask
	vRead  decode.RegMask
}

// Begin starts a fresh instruction: the clock counter resets, and any
// stalls this instructionincurs are counted from zero.
func (p *Pipeline) Begin() {
	p.Clocks = 0
}

// Issue folds one decoded instruction's register use/def sets into
// the current slot. It may be called twice per instruction word when
// two operations dual-issue.
func (p *Pipeline) Issue(op decode.OpInfo) {
	p.current.rRead |= op.RUse
	if !op.Flags.Has(decode.Bypass) {
		p.current.rWrite |= op.RDef &^ decode.RegMask(1)
	}
	p.current.vRead |= op.VUse
	p.current.vWrite |= op.VDef
	p.current.load = p.current.load || op.Flags.Has(decode.Load)
	p.current.store = p.current.store || op.Flags.Has(decode.Store)
	p.current.branch = p.current.branch || op.Flags.Has(decode.Branch)
}

// End retires the current slot: it stalls for any hazard the reads in
// this slot expose, performs the store-after-load wait, rotates the
// slot into history, and charges the base 3-cycle cost.
func (p *Pipeline) End() {
	p.readGPR(p.current.rRead)
	p.readVR(p.current.vRead)
	if p.current.store {
		p.waitStore()
	}
	p.SingleIssue = p.current.branch
	p.previous[2] = p.previous[1]
	p.previous[1] = p.previous[0]
	p.previous[0] = p.current.stage
	p.current = currentSlot{}
	p.Clocks += 3
}

// Stall inserts one empty cycle: it rotates a blank slot into history
// (so a hazard already accounted for isn't double-charged by the next
// check) and charges 3 cycles, same as a retired instruction.
func (p *Pipeline) Stall() {
	p.previous[2] = p.previous[1]
	p.previous[1] = p.previous[0]
	p.previous[0] = stage{}
	p.Clocks += 3
}

// readGPR stalls for the scalar RAW-hazard window: two cycles if the
// write that satisfies mask retired one instruction ago, one cycle
// if it retired two instructions ago.
func (p *Pipeline) readGPR(mask decode.RegMask) {
	if mask&p.previous[0].rWrite != 0 {
		p.Stall()
		p.Stall()
	} else if mask&p.previous[1].rWrite != 0 {
		p.Stall()
	}
}

// readVR stalls for the vector RAW-hazard window, which is one cycle
// deeper than the scalar one (three stages instead of two).
func (p *Pipeline) readVR(mask decode.RegMask) {
	if mask&p.previous[0].vWrite != 0 {
		p.Stall()
		p.Stall()
		p.Stall()
	} else if mask&p.previous[1].vWrite != 0 {
		p.Stall()
		p.Stall()
	} else if mask&p.previous[2].vWrite != 0 {
		p.Stall()
	}
}

// waitStore holds a store while the slot two back in history is a
// load; a load in the slot immediately before the store does not stall it.
func (p *Pipeline) waitStore() {
	for p.previous[1].load {
		p.Stall()
	}
}

// CanDualIssue reports whether op1 may issue in the same instruction
// word as op0: they must target different execution units (one
// scalar, one vector), op0 must not write a vector or VPU control
// register that op1 reads or writes, and op0 must not collide with
// op1 on the VNOP/MTC2/LTV fake-use quirk
// (spec.md §5.2).
func CanDualIssue(op0, op1 decode.OpInfo) bool {
	if op0.Flags.Has(decode.Vector) == op1.Flags.Has(decode.Vector) {
		return false
	}
	if op0.VDef&(op1.VUse|op1.VDef) != 0 {
		return false
	}
	if op0.VCDef&(op1.VCUse|op1.VCDef) != 0 {
		return false
	}
	if (op0.Flags|op1.Flags)&decode.VNopGroup != 0 && op0.VDef&op1.VFake != 0 {
		return false
	}
	return true
}
