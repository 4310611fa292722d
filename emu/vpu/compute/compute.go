/*
Package compute implements the RSP's 45 vector compute operations
(spec.md §4.7): the arithmetic, logic, compare/select, integer
multiply-accumulate, and reciprocal/rsqrt families that all read VS
and a VT shuffled through the element-select broadcast, and write VD
plus the accumulator and VCO/VCC/VCE flags.

Every op is written as the direct scalar reference semantics -- eight
independent 16-bit lanes, no cross-lane dependency -- which is also
what the hardware itself guarantees. This package implements only that
reference path; see DESIGN.md for why a batched SIMD fast path is out
of scope here.
*/
package compute

import (
	"math/bits"

	"github.com/n64rsp/rsp/emu/decode"
	"github.com/n64rsp/rsp/emu/tables"
	"github.com/n64rsp/rsp/emu/vpu"
)

// Args bundles one compute instruction's decoded operands. DE is the
// destination-element index VMOV/VRCP*/VRSQ* write instead of the
// whole register; VField carries VRNDN/VRNDP's precision-select bit
// (the instruction's VS field holds a flag there, not a register).
type Args struct {
	Op         decode.Op
	VD, VS, VT uint32
	E          uint32
	DE         uint32
	VField     uint32
}

// Exec performs one compute instruction against v, the owning VPU state.
func Exec(v *vpu.VPU, a Args) {
	vd := &v.R[a.VD&0x1F]
	vs := v.R[a.VS&0x1F]
	vtRaw := v.R[a.VT&0x1F]
	vte := vtRaw.Broadcast(a.E)

	switch a.Op {
	case decode.OpVADD:
		vadd(v, vd, vs, vte)
	case decode.OpVSUB:
		vsub(v, vd, vs, vte)
	case decode.OpVADDC:
		vaddc(v, vd, vs, vte)
	case decode.OpVSUBC:
		vsubc(v, vd, vs, vte)
	case decode.OpVAND:
		vand(v, vd, vs, vte)
	case decode.OpVNAND:
		vnand(v, vd, vs, vte)
	case decode.OpVOR:
		vor(v, vd, vs, vte)
	case decode.OpVNOR:
		vnor(v, vd, vs, vte)
	case decode.OpVXOR:
		vxor(v, vd, vs, vte)
	case decode.OpVNXOR:
		vnxor(v, vd, vs, vte)
	case decode.OpVABS:
		vabs(v, vd, vs, vte)
	case decode.OpVCH:
		vch(v, vd, vs, vte)
	case decode.OpVCL:
		vcl(v, vd, vs, vte)
	case decode.OpVCR:
		vcr(v, vd, vs, vte)
	case decode.OpVEQ:
		veq(v, vd, vs, vte)
	case decode.OpVNE:
		vne(v, vd, vs, vte)
	case decode.OpVLT:
		vlt(v, vd, vs, vte)
	case decode.OpVGE:
		vge(v, vd, vs, vte)
	case decode.OpVMRG:
		vmrg(v, vd, vs, vte)
	case decode.OpVMOV:
		vmov(v, vd, a.DE, vte)
	case decode.OpVMULF:
		vmulf(v, vd, vs, vte, false)
	case decode.OpVMULU:
		vmulf(v, vd, vs, vte, true)
	case decode.OpVMACF:
		vmacf(v, vd, vs, vte, false)
	case decode.OpVMACU:
		vmacf(v, vd, vs, vte, true)
	case decode.OpVMUDH:
		vmudh(v, vd, vs, vte)
	case decode.OpVMUDL:
		vmudl(v, vd, vs, vte)
	case decode.OpVMUDM:
		vmudm(v, vd, vs, vte)
	case decode.OpVMUDN:
		vmudn(v, vd, vs, vte)
	case decode.OpVMADH:
		vmadh(v, vd, vs, vte)
	case decode.OpVMADL:
		vmadl(v, vd, vs, vte)
	case decode.OpVMADM:
		vmadm(v, vd, vs, vte)
	case decode.OpVMADN:
		vmadn(v, vd, vs, vte)
	case decode.OpVMULQ:
		vmulq(v, vd, vs, vte)
	case decode.OpVMACQ:
		vmacq(v, vd)
	case decode.OpVRCP:
		vrcp(v, vd, a.DE, vtRaw, a.E, false)
	case decode.OpVRCPL:
		vrcp(v, vd, a.DE, vtRaw, a.E, true)
	case decode.OpVRCPH:
		vrcph(v, vd, a.DE, vtRaw, a.E)
	case decode.OpVRSQ:
		vrsq(v, vd, a.DE, vtRaw, a.E, false)
	case decode.OpVRSQL:
		vrsq(v, vd, a.DE, vtRaw, a.E, true)
	case decode.OpVRSQH:
		vrcph(v, vd, a.DE, vtRaw, a.E) // VRSQH's body is identical to VRCPH's.
	case decode.OpVRNDN:
		vrnd(v, vd, a.VField, vtRaw, a.E, false)
	case decode.OpVRNDP:
		vrnd(v, vd, a.VField, vtRaw, a.E, true)
	case decode.OpVSAR:
		vsar(v, vd, a.E)
	case decode.OpVZERO:
		vzero(v, vd, vs, vte)
	case decode.OpVNOP:
		// Intentionally does nothing.
	}
}

func sclamp16(x int32) int16 {
	switch {
	case x < -32768:
		return -32768
	case x > 32767:
		return 32767
	default:
		return int16(x)
	}
}

// sclip48 truncates x to the low 48 bits and sign-extends bit 47,
// matching the reciprocal-pipeline rounding ops' wraparound (as
// opposed to sclamp16's saturation).
func sclip48(x int64) int64 {
	const width = 48
	const mask = int64(1)<<width - 1
	v := x & mask
	if v&(1<<(width-1)) != 0 {
		v -= int64(1) << width
	}
	return v
}

// signExtend48 reinterprets a 48-bit unsigned accumulator value (as
// returned by Accumulator.Get) as a signed 64-bit quantity.
func signExtend48(raw uint64) int64 {
	return int64(raw<<16) >> 16
}

func vadd(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		carry := int32(0)
		if v.VCOL.Get(n) {
			carry = 1
		}
		result := int32(vs.SLane(n)) + int32(vte.SLane(n)) + carry
		v.Acc.Low.SetSLane(n, int16(result))
		vd.SetSLane(n, sclamp16(result))
	}
	v.VCOL = 0
	v.VCOH = 0
}

func vsub(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		carry := int32(0)
		if v.VCOL.Get(n) {
			carry = 1
		}
		result := int32(vs.SLane(n)) - int32(vte.SLane(n)) - carry
		v.Acc.Low.SetSLane(n, int16(result))
		vd.SetSLane(n, sclamp16(result))
	}
	v.VCOL = 0
	v.VCOH = 0
}

func vaddc(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		result := uint32(vs.Lane(n)) + uint32(vte.Lane(n))
		v.Acc.Low.SetLane(n, uint16(result))
		v.VCOL.Set(n, result>>16 != 0)
	}
	v.VCOH = 0
	*vd = v.Acc.Low
}

func vsubc(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		result := uint32(vs.Lane(n)) - uint32(vte.Lane(n))
		v.Acc.Low.SetLane(n, uint16(result))
		v.VCOL.Set(n, result>>16 != 0)
		v.VCOH.Set(n, result != 0)
	}
	*vd = v.Acc.Low
}

func vand(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		v.Acc.Low.SetLane(n, vs.Lane(n)&vte.Lane(n))
	}
	*vd = v.Acc.Low
}

func vnand(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		v.Acc.Low.SetLane(n, ^(vs.Lane(n) & vte.Lane(n)))
	}
	*vd = v.Acc.Low
}

func vor(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		v.Acc.Low.SetLane(n, vs.Lane(n)|vte.Lane(n))
	}
	*vd = v.Acc.Low
}

func vnor(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		v.Acc.Low.SetLane(n, ^(vs.Lane(n) | vte.Lane(n)))
	}
	*vd = v.Acc.Low
}

func vxor(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		v.Acc.Low.SetLane(n, vs.Lane(n)^vte.Lane(n))
	}
	*vd = v.Acc.Low
}

func vnxor(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		v.Acc.Low.SetLane(n, ^(vs.Lane(n) ^ vte.Lane(n)))
	}
	*vd = v.Acc.Low
}

func vabs(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		switch {
		case vs.SLane(n) < 0:
			if vte.SLane(n) == -32768 {
				v.Acc.Low.SetSLane(n, -32768)
				vd.SetSLane(n, 32767)
			} else {
				v.Acc.Low.SetSLane(n, -vte.SLane(n))
				vd.SetSLane(n, -vte.SLane(n))
			}
		case vs.SLane(n) > 0:
			v.Acc.Low.SetSLane(n, vte.SLane(n))
			vd.SetSLane(n, vte.SLane(n))
		default:
			v.Acc.Low.SetSLane(n, 0)
			vd.SetSLane(n, 0)
		}
	}
}

func vch(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		if (vs.SLane(n) ^ vte.SLane(n)) < 0 {
			result := vs.SLane(n) + vte.SLane(n)
			if result <= 0 {
				v.Acc.Low.SetSLane(n, -vte.SLane(n))
			} else {
				v.Acc.Low.SetSLane(n, vs.SLane(n))
			}
			v.VCCL.Set(n, result <= 0)
			v.VCCH.Set(n, vte.SLane(n) < 0)
			v.VCOL.Set(n, true)
			v.VCOH.Set(n, result != 0 && vs.Lane(n) != (vte.Lane(n)^0xffff))
			v.VCE.Set(n, result == -1)
		} else {
			result := vs.SLane(n) - vte.SLane(n)
			if result >= 0 {
				v.Acc.Low.SetSLane(n, vte.SLane(n))
			} else {
				v.Acc.Low.SetSLane(n, vs.SLane(n))
			}
			v.VCCL.Set(n, vte.SLane(n) < 0)
			v.VCCH.Set(n, result >= 0)
			v.VCOL.Set(n, false)
			v.VCOH.Set(n, result != 0 && vs.Lane(n) != (vte.Lane(n)^0xffff))
			v.VCE.Set(n, false)
		}
	}
	*vd = v.Acc.Low
}

func vcl(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		switch {
		case v.VCOL.Get(n) && v.VCOH.Get(n):
			if v.VCCL.Get(n) {
				v.Acc.Low.SetLane(n, -vte.Lane(n))
			} else {
				v.Acc.Low.SetLane(n, vs.Lane(n))
			}
		case v.VCOL.Get(n):
			sum := vs.Lane(n) + vte.Lane(n)
			carry := (uint32(vs.Lane(n)) + uint32(vte.Lane(n))) != uint32(sum)
			var take bool
			if v.VCE.Get(n) {
				take = v.VCCL.Set(n, sum == 0 || !carry)
			} else {
				take = v.VCCL.Set(n, sum == 0 && !carry)
			}
			if take {
				v.Acc.Low.SetLane(n, -vte.Lane(n))
			} else {
				v.Acc.Low.SetLane(n, vs.Lane(n))
			}
		case v.VCOH.Get(n):
			if v.VCCH.Get(n) {
				v.Acc.Low.SetLane(n, vte.Lane(n))
			} else {
				v.Acc.Low.SetLane(n, vs.Lane(n))
			}
		default:
			take := v.VCCH.Set(n, int32(vs.Lane(n))-int32(vte.Lane(n)) >= 0)
			if take {
				v.Acc.Low.SetLane(n, vte.Lane(n))
			} else {
				v.Acc.Low.SetLane(n, vs.Lane(n))
			}
		}
	}
	v.VCOL = 0
	v.VCOH = 0
	v.VCE = 0
	*vd = v.Acc.Low
}

func vcr(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		if (vs.SLane(n) ^ vte.SLane(n)) < 0 {
			v.VCCH.Set(n, vte.SLane(n) < 0)
			take := v.VCCL.Set(n, int32(vs.SLane(n))+int32(vte.SLane(n))+1 <= 0)
			if take {
				v.Acc.Low.SetLane(n, ^vte.Lane(n))
			} else {
				v.Acc.Low.SetLane(n, vs.Lane(n))
			}
		} else {
			v.VCCL.Set(n, vte.SLane(n) < 0)
			take := v.VCCH.Set(n, int32(vs.SLane(n))-int32(vte.SLane(n)) >= 0)
			if take {
				v.Acc.Low.SetLane(n, vte.Lane(n))
			} else {
				v.Acc.Low.SetLane(n, vs.Lane(n))
			}
		}
	}
	v.VCOL = 0
	v.VCOH = 0
	v.VCE = 0
	*vd = v.Acc.Low
}

func veq(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		take := v.VCCL.Set(n, !v.VCOH.Get(n) && vs.Lane(n) == vte.Lane(n))
		if take {
			v.Acc.Low.SetLane(n, vs.Lane(n))
		} else {
			v.Acc.Low.SetLane(n, vte.Lane(n))
		}
	}
	v.VCCH = 0
	v.VCOL = 0
	v.VCOH = 0
	*vd = v.Acc.Low
}

func vne(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		take := v.VCCL.Set(n, vs.Lane(n) != vte.Lane(n) || v.VCOH.Get(n))
		if take {
			v.Acc.Low.SetLane(n, vs.Lane(n))
		} else {
			v.Acc.Low.SetLane(n, vte.Lane(n))
		}
	}
	v.VCCH = 0
	v.VCOL = 0
	v.VCOH = 0
	*vd = v.Acc.Low
}

func vlt(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		cond := vs.SLane(n) < vte.SLane(n) || (vs.SLane(n) == vte.SLane(n) && v.VCOL.Get(n) && v.VCOH.Get(n))
		take := v.VCCL.Set(n, cond)
		if take {
			v.Acc.Low.SetLane(n, vs.Lane(n))
		} else {
			v.Acc.Low.SetLane(n, vte.Lane(n))
		}
	}
	v.VCCH = 0
	v.VCOL = 0
	v.VCOH = 0
	*vd = v.Acc.Low
}

func vge(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		cond := vs.SLane(n) > vte.SLane(n) || (vs.SLane(n) == vte.SLane(n) && (!v.VCOL.Get(n) || !v.VCOH.Get(n)))
		take := v.VCCL.Set(n, cond)
		if take {
			v.Acc.Low.SetLane(n, vs.Lane(n))
		} else {
			v.Acc.Low.SetLane(n, vte.Lane(n))
		}
	}
	v.VCCH = 0
	v.VCOL = 0
	v.VCOH = 0
	*vd = v.Acc.Low
}

func vmrg(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		if v.VCCL.Get(n) {
			v.Acc.Low.SetLane(n, vs.Lane(n))
		} else {
			v.Acc.Low.SetLane(n, vte.Lane(n))
		}
	}
	v.VCOH = 0
	v.VCOL = 0
	*vd = v.Acc.Low
}

// vmov writes only lane de of vd -- the rest of the register is left
// untouched, unlike every other compute op.
func vmov(v *vpu.VPU, vd *vpu.Reg, de uint32, vte vpu.Reg) {
	lane := int(de) & 7
	vd.SetLane(lane, vte.Lane(lane))
	v.Acc.Low = vte
}

func vmulf(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg, useU bool) {
	for n := 0; n < vpu.Lanes; n++ {
		prod := int64(vs.SLane(n))*int64(vte.SLane(n))*2 + 0x8000
		v.Acc.Set(n, uint64(prod))
		if !useU {
			vd.SetLane(n, v.Acc.Saturate(n, true, 0x8000, 0x7fff))
			continue
		}
		switch {
		case v.Acc.High.SLane(n) < 0:
			vd.SetLane(n, 0x0000)
		case (v.Acc.High.SLane(n) ^ v.Acc.Mid.SLane(n)) < 0:
			vd.SetLane(n, 0xffff)
		default:
			vd.SetLane(n, v.Acc.Mid.Lane(n))
		}
	}
}

func vmacf(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg, useU bool) {
	for n := 0; n < vpu.Lanes; n++ {
		prod := int64(vs.SLane(n)) * int64(vte.SLane(n)) * 2
		v.Acc.Set(n, v.Acc.Get(n)+uint64(prod))
		if !useU {
			vd.SetLane(n, v.Acc.Saturate(n, true, 0x8000, 0x7fff))
			continue
		}
		switch {
		case v.Acc.High.SLane(n) < 0:
			vd.SetLane(n, 0x0000)
		case v.Acc.High.SLane(n) != 0 || v.Acc.Mid.SLane(n) < 0:
			vd.SetLane(n, 0xffff)
		default:
			vd.SetLane(n, v.Acc.Mid.Lane(n))
		}
	}
}

func vmudh(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		prod := int64(vs.SLane(n)) * int64(vte.SLane(n))
		v.Acc.Set(n, uint64(prod)<<16)
		vd.SetLane(n, v.Acc.Saturate(n, true, 0x8000, 0x7fff))
	}
}

func vmudl(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		val := uint16((uint32(vs.Lane(n)) * uint32(vte.Lane(n))) >> 16)
		v.Acc.Set(n, uint64(val))
	}
	*vd = v.Acc.Low
}

func vmudm(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		prod := int32(vs.SLane(n)) * int32(vte.Lane(n))
		v.Acc.Set(n, uint64(int64(prod)))
	}
	*vd = v.Acc.Mid
}

func vmudn(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		prod := int32(vs.Lane(n)) * int32(vte.SLane(n))
		v.Acc.Set(n, uint64(int64(prod)))
	}
	*vd = v.Acc.Low
}

func vmadh(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		hi := v.Acc.Get(n) >> 16
		prod := int64(vs.SLane(n)) * int64(vte.SLane(n))
		sum := hi + uint64(prod)
		result := int32(uint32(sum))
		v.Acc.High.SetLane(n, uint16(result>>16))
		v.Acc.Mid.SetLane(n, uint16(result))
		vd.SetLane(n, v.Acc.Saturate(n, true, 0x8000, 0x7fff))
	}
}

func vmadl(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		prod := uint32(vs.Lane(n)) * uint32(vte.Lane(n))
		v.Acc.Set(n, v.Acc.Get(n)+uint64(prod>>16))
		vd.SetLane(n, v.Acc.Saturate(n, false, 0x0000, 0xffff))
	}
}

func vmadm(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		prod := int32(vs.SLane(n)) * int32(vte.Lane(n))
		v.Acc.Set(n, v.Acc.Get(n)+uint64(int64(prod)))
		vd.SetLane(n, v.Acc.Saturate(n, true, 0x8000, 0x7fff))
	}
}

func vmadn(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		prod := int32(vs.Lane(n)) * int32(vte.SLane(n))
		v.Acc.Set(n, v.Acc.Get(n)+uint64(int64(prod)))
		vd.SetLane(n, v.Acc.Saturate(n, false, 0x0000, 0xffff))
	}
}

func vmulq(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		product := int32(vs.SLane(n)) * int32(vte.SLane(n))
		if product < 0 {
			product += 31
		}
		v.Acc.High.SetLane(n, uint16(product>>16))
		v.Acc.Mid.SetLane(n, uint16(product))
		v.Acc.Low.SetLane(n, 0)
		vd.SetLane(n, uint16(sclamp16(product>>1))&^0xF)
	}
}

func vmacq(v *vpu.VPU, vd *vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		product := int32(uint32(v.Acc.High.Lane(n))<<16 | uint32(v.Acc.Mid.Lane(n)))
		switch {
		case product < 0 && product&(1<<5) == 0:
			product += 32
		case product >= 32 && product&(1<<5) == 0:
			product -= 32
		}
		v.Acc.High.SetLane(n, uint16(product>>16))
		v.Acc.Mid.SetLane(n, uint16(product))
		vd.SetLane(n, uint16(sclamp16(product>>1))&^0xF)
	}
}

func vzero(v *vpu.VPU, vd *vpu.Reg, vs, vte vpu.Reg) {
	for n := 0; n < vpu.Lanes; n++ {
		result := int32(vs.SLane(n)) + int32(vte.SLane(n))
		v.Acc.Low.SetSLane(n, int16(result))
		vd.SetSLane(n, 0)
	}
}

func vsar(v *vpu.VPU, vd *vpu.Reg, e uint32) {
	switch e {
	case 0x8:
		*vd = v.Acc.High
	case 0x9:
		*vd = v.Acc.Mid
	case 0xa:
		*vd = v.Acc.Low
	default:
		*vd = vpu.Reg{}
	}
}

func vrnd(v *vpu.VPU, vd *vpu.Reg, vsField uint32, vtRaw vpu.Reg, e uint32, positive bool) {
	vte := vtRaw.Broadcast(e)
	for n := 0; n < vpu.Lanes; n++ {
		product := int32(vte.SLane(n))
		if vsField&1 != 0 {
			product <<= 16
		}
		acc := signExtend48(v.Acc.Get(n))
		switch {
		case !positive && acc < 0:
			acc = sclip48(acc + int64(product))
		case positive && acc >= 0:
			acc = sclip48(acc + int64(product))
		}
		v.Acc.High.SetLane(n, uint16(acc>>32))
		v.Acc.Mid.SetLane(n, uint16(acc>>16))
		v.Acc.Low.SetLane(n, uint16(acc))
		vd.SetSLane(n, sclamp16(int32(acc>>16)))
	}
}

// divCore is the shared reciprocal/inverse-square-root core: it takes
// the absolute value of input, finds the leading-zero count, looks up
// the table entry (with indexFn reshaping the index for the rsqrt
// table's odd/even split), and reconstructs the signed result. The
// final normalizing shift differs between the two callers (VRCP shifts
// by 31-shift, VRSQ by half that), so it's supplied as shiftFn rather
// than hardcoded here.
func divCore(input int32, table []uint16, indexFn func(idx, shift uint32) uint32, shiftFn func(shift uint32) uint32) int32 {
	mask := input >> 31
	data := input ^ mask
	if input > -32768 {
		data -= mask
	}
	switch {
	case data == 0:
		return 0x7fffffff
	case input == -32768:
		return -0x10000
	}
	shift := uint32(bits.LeadingZeros32(uint32(data)))
	idx := uint32((uint64(uint32(data))<<shift)&0x7FC00000) >> 22
	idx = indexFn(idx, shift)
	result := int32(table[idx])
	result = (0x10000 | result) << 14
	return (result >> shiftFn(shift)) ^ mask
}

func reciprocalIndex(idx, _ uint32) uint32 { return idx }

func rsqrtIndex(idx, shift uint32) uint32 { return idx&0x1fe | shift&1 }

func reciprocalShift(shift uint32) uint32 { return 31 - shift }

func rsqrtShift(shift uint32) uint32 { return (31 - shift) >> 1 }

func vrcp(v *vpu.VPU, vd *vpu.Reg, de uint32, vtRaw vpu.Reg, e uint32, double bool) {
	elem := vtRaw.Lane(int(e) & 7)
	var input int32
	if double && v.DivDP {
		input = int32(uint32(v.DivIn)<<16 | uint32(elem))
	} else {
		input = int32(int16(elem))
	}
	result := divCore(input, tables.Reciprocal[:], reciprocalIndex, reciprocalShift)
	v.DivDP = false
	v.DivOut = uint16(uint32(result) >> 16)
	v.Acc.Low = vtRaw.Broadcast(e)
	vd.SetLane(int(de), uint16(result))
}

func vrsq(v *vpu.VPU, vd *vpu.Reg, de uint32, vtRaw vpu.Reg, e uint32, double bool) {
	elem := vtRaw.Lane(int(e) & 7)
	var input int32
	if double && v.DivDP {
		input = int32(uint32(v.DivIn)<<16 | uint32(elem))
	} else {
		input = int32(int16(elem))
	}
	result := divCore(input, tables.InverseSquareRoot[:], rsqrtIndex, rsqrtShift)
	v.DivDP = false
	v.DivOut = uint16(uint32(result) >> 16)
	v.Acc.Low = vtRaw.Broadcast(e)
	vd.SetLane(int(de), uint16(result))
}

// vrcph implements both VRCPH and VRSQH: prime the reciprocal
// pipeline's double-precision input latch and return whatever the
// previous VRCP/VRSQ left in DivOut.
func vrcph(v *vpu.VPU, vd *vpu.Reg, de uint32, vtRaw vpu.Reg, e uint32) {
	v.Acc.Low = vtRaw.Broadcast(e)
	v.DivDP = true
	v.DivIn = vtRaw.Lane(int(e) & 7)
	vd.SetLane(int(de), v.DivOut)
}
