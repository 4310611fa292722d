package core

import (
	"testing"

	"github.com/n64rsp/rsp/emu/decode"
)

func encodeI(op, rs, rt, imm uint32) uint32 {
	return op<<26 | rs<<21 | rt<<16 | (imm & 0xFFFF)
}

func encodeR(op, rs, rt, rd, shamt, funct uint32) uint32 {
	return op<<26 | rs<<21 | rt<<16 | rd<<11 | shamt<<6 | funct
}

func encodeVCompute(e, vt, vs, vd, funct uint32) uint32 {
	return decode.MOpCOP2<<26 | 1<<25 | e<<21 | vt<<16 | vs<<11 | vd<<6 | funct
}

func encodeVLoadStore(op, base, vt, funct, element, offset uint32) uint32 {
	return op<<26 | base<<21 | vt<<16 | funct<<11 | element<<7 | (offset & 0x7F)
}

func newRunning() *Machine {
	return New(WithHalted(false))
}

// Scenario 1 (spec.md §8): scalar ADDIU.
func TestScenarioScalarADDIU(t *testing.T) {
	m := newRunning()
	word := encodeI(decode.MOpADDIU, 0, 8, 5)
	if word != 0x24080005 {
		t.Fatalf("encoded word = %#x, want 0x24080005", word)
	}
	m.imem.Write32(0, uint64(word))

	m.Step(3)

	if got := m.gpr.Reg(8); got != 5 {
		t.Fatalf("GPR[8] = %d, want 5", got)
	}
	if m.pc != 4 {
		t.Fatalf("PC = %d, want 4", m.pc)
	}
	if m.Cycles() != 3 {
		t.Fatalf("Cycles() = %d, want 3", m.Cycles())
	}
}

// Scenario 2 (spec.md §8): vector broadcast add.
func TestScenarioVectorBroadcastAdd(t *testing.T) {
	m := newRunning()
	for n := 0; n < 8; n++ {
		m.vpr.R[1].SetLane(n, uint16(n+1))
		m.vpr.R[2].SetLane(n, uint16((n+1)*10))
	}
	word := encodeVCompute(0, 2, 1, 3, decode.VFnVADD)
	m.imem.Write32(0, uint64(word))

	m.Step(3)

	want := [8]uint16{11, 22, 33, 44, 55, 66, 77, 88}
	for n := 0; n < 8; n++ {
		if got := m.vpr.R[3].Lane(n); got != want[n] {
			t.Fatalf("VPR[3] lane %d = %d, want %d", n, got, want[n])
		}
		if got := m.vpr.Acc.Low.Lane(n); got != want[n] {
			t.Fatalf("ACCL lane %d = %d, want %d", n, got, want[n])
		}
	}
	if m.vpr.VCOL != 0 || m.vpr.VCOH != 0 {
		t.Fatalf("VCOL=%#x VCOH=%#x, want both cleared", m.vpr.VCOL, m.vpr.VCOH)
	}
}

// Scenario 3 (spec.md §8): reciprocal.
func TestScenarioReciprocal(t *testing.T) {
	m := newRunning()
	m.vpr.R[2].SetLane(0, 0x0002)
	m.vpr.DivDP = false
	// de (the vs field) is 0, vt is 2, vd is 4.
	word := encodeVCompute(0, 2, 0, 4, decode.VFnVRCP)
	m.imem.Write32(0, uint64(word))

	m.Step(3)

	if m.vpr.DivOut != 0x3FFF {
		t.Fatalf("DivOut = %#x, want 0x3FFF", m.vpr.DivOut)
	}
	if got := m.vpr.R[4].Lane(0); got != 0xFFFF {
		t.Fatalf("VPR[4] lane 0 = %#x, want 0xFFFF", got)
	}
	if got := m.vpr.Acc.Low.Lane(0); got != 0x0002 {
		t.Fatalf("ACCL lane 0 = %#x, want 0x0002", got)
	}
	if m.vpr.DivDP {
		t.Fatal("DivDP = true, want false")
	}
}

// Scenario 4 (spec.md §8): LQV alignment, identity case.
func TestScenarioLQVIdentityLoad(t *testing.T) {
	m := newRunning()
	for i := 0; i < 16; i++ {
		m.dmem.Write8(uint32(i), uint64(i))
	}
	m.gpr.SetReg(1, 0)
	word := encodeVLoadStore(decode.MOpLWC2, 1, 5, decode.LSFnLQV, 0, 0)
	m.imem.Write32(0, uint64(word))

	m.Step(3)

	for i := 0; i < 16; i++ {
		if got := m.vpr.R[5].Byte(i); got != byte(i) {
			t.Fatalf("VPR[5] byte %d = %#x, want %#x", i, got, byte(i))
		}
	}
}

// Scenario 4 (spec.md §8): LQV alignment, mid-row start.
func TestScenarioLQVMidRowStart(t *testing.T) {
	m := newRunning()
	for i := 0; i < 16; i++ {
		m.dmem.Write8(uint32(i), uint64(i))
	}
	for i := 0; i < 16; i++ {
		m.vpr.R[5].SetByte(i, 0xAA)
	}
	m.gpr.SetReg(1, 5)
	word := encodeVLoadStore(decode.MOpLWC2, 1, 5, decode.LSFnLQV, 0, 0)
	m.imem.Write32(0, uint64(word))

	m.Step(3)

	for i := 0; i <= 10; i++ {
		want := byte(5 + i)
		if got := m.vpr.R[5].Byte(i); got != want {
			t.Fatalf("VPR[5] byte %d = %#x, want %#x", i, got, want)
		}
	}
	for i := 11; i < 16; i++ {
		if got := m.vpr.R[5].Byte(i); got != 0xAA {
			t.Fatalf("VPR[5] byte %d = %#x, want untouched 0xAA", i, got)
		}
	}
}

// Scenario 5 (spec.md §8): BREAK.
func TestScenarioBreak(t *testing.T) {
	m := newRunning()
	word := encodeR(decode.MOpSPECIAL, 0, 0, 0, 0, decode.FnBREAK)
	m.imem.Write32(0, uint64(word))

	m.Step(3)

	if !m.status.Halted() {
		t.Fatal("status.Halted() = false, want true")
	}
	if !m.status.Broken() {
		t.Fatal("status.Broken() = false, want true")
	}
	if m.pc != 4 {
		t.Fatalf("PC = %d, want 4 (no delay-slot semantics for BREAK)", m.pc)
	}
}

// Scenario 6 (spec.md §8): dual issue.
func TestScenarioDualIssue(t *testing.T) {
	m := newRunning()
	m.gpr.SetReg(1, 10)
	m.gpr.SetReg(2, 20)
	m.vpr.R[5].SetLane(0, 1)
	m.vpr.R[6].SetLane(0, 2)

	addu := encodeR(decode.MOpSPECIAL, 1, 2, 3, 0, decode.FnADDU)
	vadd := encodeVCompute(0, 6, 5, 7, decode.VFnVADD)
	m.imem.Write32(0, uint64(addu))
	m.imem.Write32(4, uint64(vadd))

	m.Step(3)

	if got := m.gpr.Reg(3); got != 30 {
		t.Fatalf("GPR[3] = %d, want 30", got)
	}
	if got := m.vpr.R[7].Lane(0); got != 3 {
		t.Fatalf("VPR[7] lane 0 = %d, want 3", got)
	}
	if m.pipeline.Clocks != 3 {
		t.Fatalf("pipeline.Clocks = %d, want 3 (both ops retire in one window)", m.pipeline.Clocks)
	}
	if m.pc != 8 {
		t.Fatalf("PC = %d, want 8 (dual issue consumes both words)", m.pc)
	}
}

// Invariant (spec.md §8): GPR[0] == 0 after every instruction boundary,
// even when an instruction's own encoding targets it as a destination.
func TestInvariantGPRZeroStaysZero(t *testing.T) {
	m := newRunning()
	word := encodeI(decode.MOpADDIU, 0, 0, 5)
	m.imem.Write32(0, uint64(word))

	m.Step(3)

	if got := m.gpr.Reg(0); got != 0 {
		t.Fatalf("GPR[0] = %d, want 0", got)
	}
}

// spec.md §7: an invalid opcode is a no-op that still advances the clock.
func TestInvalidOpcodeAdvancesClockOnly(t *testing.T) {
	m := newRunning()
	word := encodeR(decode.MOpSPECIAL, 0, 0, 0, 0, 0x3F)
	m.imem.Write32(0, uint64(word))

	m.Step(3)

	if m.Cycles() == 0 {
		t.Fatal("Cycles() = 0, want clock to have advanced past an invalid opcode")
	}
	if m.pc != 4 {
		t.Fatalf("PC = %d, want 4", m.pc)
	}
}

// spec.md §4.8/§5: a halted machine short-circuits every Step iteration
// at a fixed 128-clock cost and never touches IMEM.
func TestHaltedStepChargesFixedCost(t *testing.T) {
	m := New() // power-on default: halted
	word := encodeR(decode.MOpSPECIAL, 0, 0, 0, 0, decode.FnBREAK)
	m.imem.Write32(0, uint64(word))

	m.Step(128)

	if m.pc != 0 {
		t.Fatalf("PC = %d, want 0 (halted machine must not fetch)", m.pc)
	}
	if m.Cycles() != 128 {
		t.Fatalf("Cycles() = %d, want 128", m.Cycles())
	}
}
