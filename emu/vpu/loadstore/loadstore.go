/*
Package loadstore implements the RSP's 24 element-granular vector
load/store operations (spec.md §4.6): transfers between DMEM and one
vector register's lanes, addressed by a GPR base plus a scaled
immediate offset and a per-lane element-select start point.

Every op reads or writes through the same quadword-addressing shape
the teacher's unaligned-access helpers use in emu/cpu/cpu.go (compose
a multi-byte value from individually masked byte accesses rather than
assume alignment) -- DMEM wraps and never faults, so there is nothing
to check before touching it.
*/
package loadstore

import (
	"github.com/n64rsp/rsp/emu/decode"
	"github.com/n64rsp/rsp/emu/memory"
	"github.com/n64rsp/rsp/emu/vpu"
)

// Args bundles one load/store instruction's decoded operands. Base is
// the GPR value already read by the caller (decode never touches
// register state); Offset is the instruction's raw signed 7-bit field,
// scaled here per op by the natural size of its access.
type Args struct {
	Op      decode.Op
	VT      uint32
	Base    uint32
	Offset  int32
	Element uint32
}

// Exec performs one load/store against dmem and the vector register
// file's entry a.VT.
func Exec(v *vpu.VPU, dmem *memory.Bank, a Args) {
	vt := &v.R[a.VT&0x1F]
	e := int(a.Element) & 0xF

	switch a.Op {
	case decode.OpLBV:
		addr := a.Base + uint32(a.Offset)
		vt.SetByte(e, byte(dmem.Read8(addr)))
	case decode.OpSBV:
		addr := a.Base + uint32(a.Offset)
		dmem.Write8(addr, uint64(vt.Byte(e)))

	case decode.OpLSV:
		addr := a.Base + uint32(a.Offset)*2
		for i := 0; i < 2; i++ {
			vt.SetByte(e+i, byte(dmem.Read8(addr+uint32(i))))
		}
	case decode.OpSSV:
		addr := a.Base + uint32(a.Offset)*2
		for i := 0; i < 2; i++ {
			dmem.Write8(addr+uint32(i), uint64(vt.Byte(e+i)))
		}

	case decode.OpLLV:
		addr := a.Base + uint32(a.Offset)*4
		for i := 0; i < 4; i++ {
			vt.SetByte(e+i, byte(dmem.Read8(addr+uint32(i))))
		}
	case decode.OpSLV:
		addr := a.Base + uint32(a.Offset)*4
		for i := 0; i < 4; i++ {
			dmem.Write8(addr+uint32(i), uint64(vt.Byte(e+i)))
		}

	case decode.OpLDV:
		addr := a.Base + uint32(a.Offset)*8
		for i := 0; i < 8; i++ {
			vt.SetByte(e+i, byte(dmem.Read8(addr+uint32(i))))
		}
	case decode.OpSDV:
		addr := a.Base + uint32(a.Offset)*8
		for i := 0; i < 8; i++ {
			dmem.Write8(addr+uint32(i), uint64(vt.Byte(e+i)))
		}

	case decode.OpLQV:
		addr := a.Base + uint32(a.Offset)*16
		loadQuad(vt, dmem, addr, e)
	case decode.OpSQV:
		addr := a.Base + uint32(a.Offset)*16
		storeQuad(vt, dmem, addr, e)

	case decode.OpLRV:
		addr := a.Base + uint32(a.Offset)*16
		loadRest(vt, dmem, addr, e)
	case decode.OpSRV:
		addr := a.Base + uint32(a.Offset)*16
		storeRest(vt, dmem, addr, e)

	case decode.OpLPV:
		addr := a.Base + uint32(a.Offset)*8
		loadPacked(vt, dmem, addr, e, 8)
	case decode.OpLUV:
		addr := a.Base + uint32(a.Offset)*8
		loadPacked(vt, dmem, addr, e, 7)
	case decode.OpSPV:
		addr := a.Base + uint32(a.Offset)*8
		storePacked(vt, dmem, addr, e, 8)
	case decode.OpSUV:
		addr := a.Base + uint32(a.Offset)*8
		storePacked(vt, dmem, addr, e, 7)

	case decode.OpLHV:
		addr := a.Base + uint32(a.Offset)*16
		loadHalfPacked(vt, dmem, addr, e)
	case decode.OpSHV:
		addr := a.Base + uint32(a.Offset)*16
		storeHalfPacked(vt, dmem, addr, e)

	case decode.OpLFV:
		addr := a.Base + uint32(a.Offset)*16
		loadFourth(vt, dmem, addr, e)
	case decode.OpSFV:
		addr := a.Base + uint32(a.Offset)*16
		storeFourth(vt, dmem, addr, e)

	case decode.OpLWV:
		addr := a.Base + uint32(a.Offset)*16
		loadWrap(vt, dmem, addr, e)
	case decode.OpSWV:
		addr := a.Base + uint32(a.Offset)*16
		storeWrap(vt, dmem, addr, e)

	case decode.OpLTV:
		addr := a.Base + uint32(a.Offset)*16
		loadTranspose(v, dmem, addr, a.VT, e)
	case decode.OpSTV:
		addr := a.Base + uint32(a.Offset)*16
		storeTranspose(v, dmem, addr, a.VT, e)
	}
}

// loadQuad/storeQuad fill only the bytes of vt[e:] that fall within
// the 16-byte window starting at addr&^0xF that addr itself lands in;
// a quadword access that starts mid-row never reads past the row.
func loadQuad(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int) {
	row := addr &^ 0xF
	count := 16 - int(addr&0xF)
	for i := 0; i < count && e+i < 16; i++ {
		vt.SetByte(e+i, byte(dmem.Read8(row+addr&0xF+uint32(i))))
	}
}

func storeQuad(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int) {
	row := addr &^ 0xF
	count := 16 - int(addr&0xF)
	for i := 0; i < count && e+i < 16; i++ {
		dmem.Write8(row+addr&0xF+uint32(i), uint64(vt.Byte(e+i)))
	}
}

// loadRest/storeRest transfer the tail that a quadword access starting
// mid-row left out of loadQuad/storeQuad, picking up at the row
// boundary and continuing to fill vt from where LQV/SQV stopped.
func loadRest(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int) {
	skip := 16 - int(addr&0xF)
	row := (addr &^ 0xF) + 16
	for i := 0; e+skip+i < 16; i++ {
		vt.SetByte(e+skip+i, byte(dmem.Read8(row+uint32(i))))
	}
}

func storeRest(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int) {
	skip := 16 - int(addr&0xF)
	row := (addr &^ 0xF) + 16
	for i := 0; e+skip+i < 16; i++ {
		dmem.Write8(row+uint32(i), uint64(vt.Byte(e+skip+i)))
	}
}

// loadPacked/storePacked implement LPV/LUV and SPV/SUV: 8 consecutive
// bytes, each widened into one 16-bit lane shifted left by shift (8
// for signed fixed-point, 7 for the unsigned-coordinate variant).
func loadPacked(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int, shift uint) {
	row := addr &^ 0xF
	for n := 0; n < vpu.Lanes; n++ {
		idx := (uint32(n) + uint32(e)) & 0xF
		b := byte(dmem.Read8(row + idx))
		vt.SetLane(n, uint16(int16(int8(b)))<<shift)
	}
}

func storePacked(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int, shift uint) {
	row := addr &^ 0xF
	for n := 0; n < vpu.Lanes; n++ {
		idx := (uint32(n) + uint32(e)) & 0xF
		dmem.Write8(row+idx, uint64(byte(vt.Lane(n)>>shift)))
	}
}

// loadHalfPacked/storeHalfPacked implement LHV/SHV: like LPV but
// reading every other byte of the row, matching the 2x stride real
// ucode uses to pack texture coordinates.
func loadHalfPacked(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int) {
	row := addr &^ 0xF
	for n := 0; n < vpu.Lanes; n++ {
		idx := (uint32(n)*2 + uint32(e)) & 0xF
		b := byte(dmem.Read8(row + idx))
		vt.SetLane(n, uint16(int16(int8(b)))<<7)
	}
}

func storeHalfPacked(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int) {
	row := addr &^ 0xF
	for n := 0; n < vpu.Lanes; n++ {
		idx := (uint32(n)*2 + uint32(e)) & 0xF
		dmem.Write8(row+idx, uint64(byte(vt.Lane(n)>>7)))
	}
}

// loadFourth/storeFourth implement LFV/SFV: four lanes of vt (either
// the low or high half, chosen by e) are loaded from four bytes of the
// row spaced 4 apart; element-select values with no defined mapping
// write zero, matching the hardware's documented behavior for SFV.
func loadFourth(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int) {
	row := addr &^ 0xF
	half := 0
	if e >= 8 {
		half = 4
	}
	for i := 0; i < 4; i++ {
		b := byte(dmem.Read8(row + uint32((i*4+e)&0xF)))
		vt.SetLane(half+i, uint16(int16(int8(b)))<<7)
	}
}

func storeFourth(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int) {
	row := addr &^ 0xF
	switch e {
	case 0, 15:
		for i := 0; i < 4; i++ {
			dmem.Write8(row+uint32((i*4+e)&0xF), uint64(byte(vt.Lane(i)>>7)))
		}
	case 8:
		for i := 0; i < 4; i++ {
			dmem.Write8(row+uint32((i*4+e)&0xF), uint64(byte(vt.Lane(4+i)>>7)))
		}
	default:
		for i := 0; i < 4; i++ {
			dmem.Write8(row+uint32((i*4+e)&0xF), 0)
		}
	}
}

// loadWrap/storeWrap implement LWV/SWV: a full quadword transfer that
// wraps around the 16-byte row starting at e, rotating back to element
// 0 instead of stopping at lane 15.
func loadWrap(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int) {
	row := addr &^ 0xF
	for i := 0; i < 16; i++ {
		vt.SetByte((e+i)&0xF, byte(dmem.Read8(row+uint32(i))))
	}
}

func storeWrap(vt *vpu.Reg, dmem *memory.Bank, addr uint32, e int) {
	row := addr &^ 0xF
	for i := 0; i < 16; i++ {
		dmem.Write8(row+uint32(i), uint64(vt.Byte((e+i)&0xF)))
	}
}

// loadTranspose/storeTranspose implement LTV/STV: an 8-register
// matrix transpose against the 8 vector registers starting at vt&^7,
// one lane per register, rotating the starting element by register
// index the way the hardware's documented transpose addressing does.
func loadTranspose(v *vpu.VPU, dmem *memory.Bank, addr uint32, vtBase uint32, e int) {
	row := addr &^ 0xF
	base := vtBase &^ 7
	for i := 0; i < 8; i++ {
		reg := &v.R[(base+uint32(i))&0x1F]
		lane := (e/2 + i) & 7
		hi := byte(dmem.Read8(row + uint32(i*2)&0xF))
		lo := byte(dmem.Read8(row + uint32(i*2+1)&0xF))
		reg.SetLane(lane, uint16(hi)<<8|uint16(lo))
	}
}

func storeTranspose(v *vpu.VPU, dmem *memory.Bank, addr uint32, vtBase uint32, e int) {
	row := addr &^ 0xF
	base := vtBase &^ 7
	for i := 0; i < 8; i++ {
		reg := &v.R[(base+uint32(i))&0x1F]
		lane := (e/2 + i) & 7
		val := reg.Lane(lane)
		dmem.Write8(row+uint32(i*2)&0xF, uint64(byte(val>>8)))
		dmem.Write8(row+uint32(i*2+1)&0xF, uint64(byte(val)))
	}
}
