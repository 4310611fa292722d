/*
Package vpu models the RSP's 8-lane, 16-bit-per-lane vector unit: the
32-entry 128-bit register file, the 48-bit-per-lane accumulator, the
VCO/VCC/VCE flag registers, and the VRCP/VRSQ reciprocal-pipeline
latches (spec.md §3). It holds state only -- the compute and
load/store semantics live in the vpu/compute and vpu/loadstore
subpackages, mirroring the teacher's split between a package's state
type and the operations that act on it (emu/cpu vs emu/memory).
*/
package vpu

// Lanes is the number of 16-bit lanes in one vector register.
const Lanes = 8

// Reg is one 128-bit vector register: 8 big-endian 16-bit lanes
// addressed either by lane index (0-7) or raw byte index (0-15).
type Reg [16]byte

// Lane returns lane n (wrapping mod 8) as an unsigned value.
func (r Reg) Lane(n int) uint16 {
	i := (n & 7) * 2
	return uint16(r[i])<<8 | uint16(r[i+1])
}

// SetLane writes lane n (wrapping mod 8).
func (r *Reg) SetLane(n int, v uint16) {
	i := (n & 7) * 2
	r[i] = byte(v >> 8)
	r[i+1] = byte(v)
}

// SLane is Lane's signed view.
func (r Reg) SLane(n int) int16 { return int16(r.Lane(n)) }

// SetSLane is SetLane's signed view.
func (r *Reg) SetSLane(n int, v int16) { r.SetLane(n, uint16(v)) }

// Byte returns raw byte e (wrapping mod 16).
func (r Reg) Byte(e int) byte { return r[e&15] }

// SetByte writes raw byte e (wrapping mod 16).
func (r *Reg) SetByte(e int, v byte) { r[e&15] = v }

// Broadcast returns the element-select view of r for select code e
// (0-15): every VPU compute op applies this shuffle to its VT operand
// before combining it with VS (spec.md §4.7). Codes 0-1 pass through
// unchanged, 2-3 copy one lane of each adjacent pair (the even lane
// for 2, the odd lane for 3) across that pair, 4-7 broadcast one lane
// across each group of four lanes, and 8-15 broadcast a single lane
// across the whole register.
func (r Reg) Broadcast(e uint32) Reg {
	v := r
	switch e {
	case 0, 1:
		// unchanged
	case 2:
		v.SetLane(1, v.Lane(0))
		v.SetLane(3, v.Lane(2))
		v.SetLane(5, v.Lane(4))
		v.SetLane(7, v.Lane(6))
	case 3:
		v.SetLane(0, v.Lane(1))
		v.SetLane(2, v.Lane(3))
		v.SetLane(4, v.Lane(5))
		v.SetLane(6, v.Lane(7))
	case 4:
		x := v.Lane(0)
		v.SetLane(1, x)
		v.SetLane(2, x)
		v.SetLane(3, x)
		x = v.Lane(4)
		v.SetLane(5, x)
		v.SetLane(6, x)
		v.SetLane(7, x)
	case 5:
		x := v.Lane(1)
		v.SetLane(0, x)
		v.SetLane(2, x)
		v.SetLane(3, x)
		x = v.Lane(5)
		v.SetLane(4, x)
		v.SetLane(6, x)
		v.SetLane(7, x)
	case 6:
		x := v.Lane(2)
		v.SetLane(0, x)
		v.SetLane(1, x)
		v.SetLane(3, x)
		x = v.Lane(6)
		v.SetLane(4, x)
		v.SetLane(5, x)
		v.SetLane(7, x)
	case 7:
		x := v.Lane(3)
		v.SetLane(0, x)
		v.SetLane(1, x)
		v.SetLane(2, x)
		x = v.Lane(7)
		v.SetLane(4, x)
		v.SetLane(5, x)
		v.SetLane(6, x)
	default: // 8..15
		x := v.Lane(int(e) - 8)
		for n := 0; n < Lanes; n++ {
			v.SetLane(n, x)
		}
	}
	return v
}

// Flags is an 8-lane boolean vector: one bit per lane. VCO, VCC and
// VCE are each a pair (or single) of these, and the SISD reference
// semantics throughout vpu/compute read and write them lane-at-a-time.
type Flags uint8

// Get reports lane n (wrapping mod 8).
func (f Flags) Get(n int) bool { return f&(1<<uint(n&7)) != 0 }

// Set writes lane n (wrapping mod 8) and returns v, so callers can
// inline a flag update into the expression that also consumes it, the
// way the reference interpreter's r128::set does.
func (f *Flags) Set(n int, v bool) bool {
	bit := Flags(1) << uint(n&7)
	if v {
		*f |= bit
	} else {
		*f &^= bit
	}
	return v
}

// Accumulator is the 8-lane, 48-bit-per-lane multiply-accumulate
// register, stored as three 16-bit slices (high/mid/low).
type Accumulator struct {
	High, Mid, Low Reg
}

// Get reads accumulator lane n as a 48-bit value in the low bits of a uint64.
func (a *Accumulator) Get(n int) uint64 {
	return uint64(a.High.Lane(n))<<32 | uint64(a.Mid.Lane(n))<<16 | uint64(a.Low.Lane(n))
}

// Set writes accumulator lane n from the low 48 bits of value.
func (a *Accumulator) Set(n int, value uint64) {
	a.High.SetLane(n, uint16(value>>32))
	a.Mid.SetLane(n, uint16(value>>16))
	a.Low.SetLane(n, uint16(value))
}

// Saturate implements the VMA*/VMU* family's result clamp: if the
// accumulator's high slice shows the 48-bit value has overflowed
// 32 bits, return negative or positive; otherwise return the
// requested slice (mid when useMid, else low) unclamped.
func (a *Accumulator) Saturate(n int, useMid bool, negative, positive uint16) uint16 {
	if a.High.SLane(n) < 0 {
		if a.High.Lane(n) != 0xffff {
			return negative
		}
		if a.Mid.SLane(n) >= 0 {
			return negative
		}
	} else {
		if a.High.Lane(n) != 0x0000 {
			return positive
		}
		if a.Mid.SLane(n) < 0 {
			return positive
		}
	}
	if useMid {
		return a.Mid.Lane(n)
	}
	return a.Low.Lane(n)
}

// VPU is the vector unit's full architectural state.
type VPU struct {
	R   [32]Reg
	Acc Accumulator

	VCOH, VCOL Flags
	VCCH, VCCL Flags
	VCE        Flags

	// DivIn/DivOut/DivDP are the VRCP/VRSQ reciprocal-pipeline latches:
	// DivDP records that VRCPH/VRSQH primed a double-precision input
	// for the next VRCP/VRSQ, and DivIn holds that input's high half.
	DivIn  uint16
	DivOut uint16
	DivDP  bool
}

// Reset clears the register file, accumulator, flags and reciprocal
// latches (spec.md §4.9 power-on state).
func (v *VPU) Reset() {
	*v = VPU{}
}
