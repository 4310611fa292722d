/*
Package ipu implements the RSP's scalar unit (spec.md §4.5): a
32-register, 32-bit MIPS-like integer core with the usual RR/RI
arithmetic, load/store, and branch/jump instructions, plus the SCC
scalar-transfer ops (MFC0/MTC0) and the VPU scalar-transfer ops
(MFC2/MTC2/CFC2/CTC2) that cross into vector state one element or
control register at a time.

Dispatch is a single switch keyed on decode.Op, the same shape as the
teacher's emu/cpu/cpu_standard.go RR/RX table -- one function per
opcode class rather than a table of closures, because the RSP's op
count is small enough that a switch reads better than an indirection
table.
*/
package ipu

import (
	"github.com/n64rsp/rsp/emu/branch"
	"github.com/n64rsp/rsp/emu/decode"
	"github.com/n64rsp/rsp/emu/dma"
	"github.com/n64rsp/rsp/emu/memory"
	"github.com/n64rsp/rsp/emu/status"
	"github.com/n64rsp/rsp/emu/vpu"
)

// IPU is the scalar register file. R[0] reads as zero always; SetReg
// silently drops writes to it, matching real MIPS-style hardware.
type IPU struct {
	R [32]uint32
}

// Reset clears every register, matching power-on.
func (c *IPU) Reset() { *c = IPU{} }

// Reg reads register n (wrapping mod 32).
func (c *IPU) Reg(n uint32) uint32 { return c.R[n&0x1F] }

// SetReg writes register n (wrapping mod 32); writes to r0 are no-ops.
func (c *IPU) SetReg(n uint32, v uint32) {
	if n&0x1F == 0 {
		return
	}
	c.R[n&0x1F] = v
}

// Args bundles one scalar instruction's decoded word and its own
// address (needed for jump/branch target computation).
type Args struct {
	Op  decode.Op
	Raw decode.Instruction
	PC  uint32
}

// Result summarizes what Exec did: whether a branch/jump was taken
// (Exec has already recorded the target on br, moving the FSM to Take)
// and whether BREAK halted the machine.
type Result struct {
	Branched bool
	Halted   bool
}

// Exec performs one scalar instruction. dmem is the RSP's data memory
// (for LB/SB-family ops); br is the branch FSM driven by every
// branch/jump; st is the SCC status surface MFC0/MTC0 read and write;
// vp is the vector register file MFC2/MTC2/CFC2/CTC2 cross into.
func Exec(c *IPU, dmem *memory.Bank, br *branch.Branch, st *status.Status, eng *dma.Engine, vp *vpu.VPU, a Args) Result {
	i := a.Raw
	rs, rt, rd := i.Rs(), i.Rt(), i.Rd()

	switch a.Op {
	case decode.OpADDU:
		c.SetReg(rd, c.Reg(rs)+c.Reg(rt))
	case decode.OpSUBU:
		c.SetReg(rd, c.Reg(rs)-c.Reg(rt))
	case decode.OpADDIU:
		c.SetReg(rt, c.Reg(rs)+uint32(i.SImm16()))
	case decode.OpAND:
		c.SetReg(rd, c.Reg(rs)&c.Reg(rt))
	case decode.OpOR:
		c.SetReg(rd, c.Reg(rs)|c.Reg(rt))
	case decode.OpXOR:
		c.SetReg(rd, c.Reg(rs)^c.Reg(rt))
	case decode.OpNOR:
		c.SetReg(rd, ^(c.Reg(rs) | c.Reg(rt)))
	case decode.OpANDI:
		c.SetReg(rt, c.Reg(rs)&i.Imm16())
	case decode.OpORI:
		c.SetReg(rt, c.Reg(rs)|i.Imm16())
	case decode.OpXORI:
		c.SetReg(rt, c.Reg(rs)^i.Imm16())
	case decode.OpLUI:
		c.SetReg(rt, i.Imm16()<<16)
	case decode.OpSLL:
		c.SetReg(rd, c.Reg(rt)<<i.Shamt())
	case decode.OpSRL:
		c.SetReg(rd, c.Reg(rt)>>i.Shamt())
	case decode.OpSRA:
		c.SetReg(rd, uint32(int32(c.Reg(rt))>>i.Shamt()))
	case decode.OpSLLV:
		c.SetReg(rd, c.Reg(rt)<<(c.Reg(rs)&0x1F))
	case decode.OpSRLV:
		c.SetReg(rd, c.Reg(rt)>>(c.Reg(rs)&0x1F))
	case decode.OpSRAV:
		c.SetReg(rd, uint32(int32(c.Reg(rt))>>(c.Reg(rs)&0x1F)))
	case decode.OpSLT:
		c.SetReg(rd, boolU32(int32(c.Reg(rs)) < int32(c.Reg(rt))))
	case decode.OpSLTU:
		c.SetReg(rd, boolU32(c.Reg(rs) < c.Reg(rt)))
	case decode.OpSLTI:
		c.SetReg(rt, boolU32(int32(c.Reg(rs)) < i.SImm16()))
	case decode.OpSLTIU:
		c.SetReg(rt, boolU32(c.Reg(rs) < uint32(i.SImm16())))

	case decode.OpLB:
		addr := c.Reg(rs) + uint32(i.SImm16())
		c.SetReg(rt, uint32(int32(int8(dmem.ReadUnaligned8(addr)))))
	case decode.OpLBU:
		addr := c.Reg(rs) + uint32(i.SImm16())
		c.SetReg(rt, uint32(dmem.ReadUnaligned8(addr)))
	case decode.OpLH:
		addr := c.Reg(rs) + uint32(i.SImm16())
		c.SetReg(rt, uint32(int32(int16(dmem.ReadUnaligned16(addr)))))
	case decode.OpLHU:
		addr := c.Reg(rs) + uint32(i.SImm16())
		c.SetReg(rt, uint32(dmem.ReadUnaligned16(addr)))
	case decode.OpLW, decode.OpLWU:
		addr := c.Reg(rs) + uint32(i.SImm16())
		c.SetReg(rt, uint32(dmem.ReadUnaligned32(addr)))
	case decode.OpSB:
		addr := c.Reg(rs) + uint32(i.SImm16())
		dmem.WriteUnaligned8(addr, uint64(c.Reg(rt)))
	case decode.OpSH:
		addr := c.Reg(rs) + uint32(i.SImm16())
		dmem.WriteUnaligned16(addr, uint64(c.Reg(rt)))
	case decode.OpSW:
		addr := c.Reg(rs) + uint32(i.SImm16())
		dmem.WriteUnaligned32(addr, uint64(c.Reg(rt)))

	case decode.OpBEQ:
		return branchIf(c.Reg(rs) == c.Reg(rt), a, br)
	case decode.OpBNE:
		return branchIf(c.Reg(rs) != c.Reg(rt), a, br)
	case decode.OpBLEZ:
		return branchIf(int32(c.Reg(rs)) <= 0, a, br)
	case decode.OpBGTZ:
		return branchIf(int32(c.Reg(rs)) > 0, a, br)
	case decode.OpBLTZ:
		return branchIf(int32(c.Reg(rs)) < 0, a, br)
	case decode.OpBGEZ:
		return branchIf(int32(c.Reg(rs)) >= 0, a, br)
	case decode.OpBLTZAL:
		c.SetReg(31, a.PC+8)
		return branchIf(int32(c.Reg(rs)) < 0, a, br)
	case decode.OpBGEZAL:
		c.SetReg(31, a.PC+8)
		return branchIf(int32(c.Reg(rs)) >= 0, a, br)
	case decode.OpJ:
		target := (a.PC & 0xF0000000) | (i.Target26() << 2)
		br.TakeBranch(target)
		return Result{Branched: true}
	case decode.OpJAL:
		c.SetReg(31, a.PC+8)
		target := (a.PC & 0xF0000000) | (i.Target26() << 2)
		br.TakeBranch(target)
		return Result{Branched: true}
	case decode.OpJR:
		br.TakeBranch(c.Reg(rs))
		return Result{Branched: true}
	case decode.OpJALR:
		c.SetReg(rd, a.PC+8)
		br.TakeBranch(c.Reg(rs))
		return Result{Branched: true}

	case decode.OpBREAK:
		st.Break()
		return Result{Halted: true}

	case decode.OpMFC0:
		c.SetReg(rt, readSCC(st, eng, rd))
	case decode.OpMTC0:
		writeSCC(st, eng, rd, c.Reg(rt))

	case decode.OpMFC2:
		e := int(i.CtrlElem())
		reg := &vp.R[i.CtrlVs()&0x1F]
		hi := reg.Byte(e)
		lo := reg.Byte((e + 1) & 15)
		c.SetReg(i.CtrlRt(), uint32(int32(int16(uint16(hi)<<8|uint16(lo)))))
	case decode.OpMTC2:
		e := i.CtrlElem()
		reg := &vp.R[i.CtrlVs()&0x1F]
		v := c.Reg(i.CtrlRt())
		reg.SetByte(int(e), byte(v>>8))
		if e != 15 {
			reg.SetByte(int(e)+1, byte(v))
		}
	case decode.OpCFC2:
		c.SetReg(i.CtrlRt(), cfc2(vp, i.CtrlVs()&0x3))
	case decode.OpCTC2:
		ctc2(vp, i.CtrlVs()&0x3, c.Reg(i.CtrlRt()))
	}
	return Result{}
}

func boolU32(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

func branchIf(cond bool, a Args, br *branch.Branch) Result {
	if !cond {
		return Result{}
	}
	target := uint32(int32(a.PC) + 4 + a.Raw.SImm16()<<2)
	br.TakeBranch(target)
	return Result{Branched: true}
}

// readSCC/writeSCC map the COP0 register numbers (0-7) to the DMA
// engine's address/length registers and the status word, the same
// eight-register layout real SP_* hardware registers expose.
func readSCC(st *status.Status, eng *dma.Engine, reg uint32) uint32 {
	switch reg {
	case 0:
		return eng.Current.PBusAddress
	case 1:
		return eng.Current.DRAMAddress
	case 2, 3:
		return eng.Current.Length
	case 4:
		return statusWord(st, eng)
	case 5:
		return boolU32(eng.Full.Read || eng.Full.Write)
	case 6:
		return boolU32(eng.Busy.Read || eng.Busy.Write)
	case 7:
		return boolU32(st.Semaphore())
	}
	return 0
}

func writeSCC(st *status.Status, eng *dma.Engine, reg uint32, v uint32) {
	switch reg {
	case 0:
		eng.Current.PBusAddress = v
	case 1:
		eng.Current.DRAMAddress = v
	case 2:
		eng.Current.Length = v
		eng.StartRead()
	case 3:
		eng.Current.Length = v
		eng.StartWrite()
	case 4:
		st.SetHalted(v&1 != 0)
		st.SetSingleStep(v&(1<<5) != 0)
		st.SetInterruptOnBreak(v&(1<<6) != 0)
	case 7:
		st.SetSemaphore(v&1 != 0)
	}
}

func statusWord(st *status.Status, eng *dma.Engine) uint32 {
	var w uint32
	if st.Halted() {
		w |= 1
	}
	if st.Broken() {
		w |= 1 << 1
	}
	if eng.Full.Read || eng.Full.Write {
		w |= 1 << 3
	}
	if st.SingleStep() {
		w |= 1 << 5
	}
	if st.InterruptOnBreak() {
		w |= 1 << 6
	}
	for n := 0; n < 8; n++ {
		if st.Signal(n) {
			w |= 1 << uint(10+n)
		}
	}
	return w
}

// cfc2 packs VCO/VCC/VCE into a sign-extended 16-bit value: the low 8
// bits from each register's "lo" half, the high 8 from its "hi" half
// (VCE has no "hi" half and reads as a plain 8-bit value).
func cfc2(v *vpu.VPU, ctrl uint32) uint32 {
	switch ctrl {
	case decode.CtrlVCO:
		return pack(v.VCOL, v.VCOH)
	case decode.CtrlVCC:
		return pack(v.VCCL, v.VCCH)
	case decode.CtrlVCE:
		var lo uint32
		for n := 0; n < 8; n++ {
			if v.VCE.Get(n) {
				lo |= 1 << uint(n)
			}
		}
		return uint32(int32(int8(uint8(lo))))
	}
	return 0
}

func pack(lo, hi vpu.Flags) uint32 {
	var r uint32
	for n := 0; n < 8; n++ {
		if lo.Get(n) {
			r |= 1 << uint(0+n)
		}
		if hi.Get(n) {
			r |= 1 << uint(8+n)
		}
	}
	return uint32(int32(int16(uint16(r))))
}

// ctc2 writes VCO/VCC/VCE from value. It preserves a documented
// hardware quirk: each lane's Set call is preceded by clearing the
// whole lo/hi register rather than composing bit-by-bit, so only the
// last lane processed (bit 7) actually survives.
func ctc2(v *vpu.VPU, ctrl uint32, value uint32) {
	switch ctrl {
	case decode.CtrlVCE:
		for n := 0; n < 8; n++ {
			v.VCE = 0
			v.VCE.Set(n, (value>>uint(n))&1 != 0)
		}
	case decode.CtrlVCO:
		for n := 0; n < 8; n++ {
			v.VCOL = 0
			v.VCOL.Set(n, (value>>uint(n))&1 != 0)
			v.VCOH = 0
			v.VCOH.Set(n, (value>>uint(8+n))&1 != 0)
		}
	case decode.CtrlVCC:
		for n := 0; n < 8; n++ {
			v.VCCL = 0
			v.VCCL.Set(n, (value>>uint(n))&1 != 0)
			v.VCCH = 0
			v.VCCH.Set(n, (value>>uint(8+n))&1 != 0)
		}
	}
}
