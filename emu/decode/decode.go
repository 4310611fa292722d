/*
Decode turns one instruction word into the OpInfo descriptor the
pipeline hazard model and the ipu/vpu dispatch tables consume. The
major-opcode switch below is the direct analogue of the teacher's
emu/opcodemap.go: a lookup keyed on the instruction's own classification
field. It is a switch evaluated on every call; no table is built.
*/
package decode

// Decode classifies word and fills in its register-use/def masks.
// Unrecognized encodings come back as OpInvalid. Outside COP2 vector
// compute and LWC2/SWC2 they carry no flags or masks; an unrecognized
// vector compute or load/store funct keeps the Vector (and Load/Store)
// flag and the register masks of its field layout. The core executes
// OpInvalid as a no-op.
func Decode(word Instruction) OpInfo {
	switch word.Op() {
	case MOpSPECIAL:
		return decodeSpecial(word)
	case MOpREGIMM:
		return decodeRegimm(word)
	case MOpCOP0:
		return decodeCop0(word)
	case MOpCOP2:
		if word.VectorMarker() {
			return decodeVectorCompute(word)
		}
		return decodeCop2Scalar(word)
	case MOpLWC2:
		return decodeVectorLoad(word)
	case MOpSWC2:
		return decodeVectorStore(word)

	case MOpJ:
		return OpInfo{Op: OpJ, Raw: word, Flags: Branch}
	case MOpJAL:
		return OpInfo{Op: OpJAL, Raw: word, Flags: Branch, RDef: Bit(31)}
	case MOpBEQ:
		return OpInfo{Op: OpBEQ, Raw: word, Flags: Branch, RUse: Bit(word.Rs()) | Bit(word.Rt())}
	case MOpBNE:
		return OpInfo{Op: OpBNE, Raw: word, Flags: Branch, RUse: Bit(word.Rs()) | Bit(word.Rt())}
	case MOpBLEZ:
		return OpInfo{Op: OpBLEZ, Raw: word, Flags: Branch, RUse: Bit(word.Rs())}
	case MOpBGTZ:
		return OpInfo{Op: OpBGTZ, Raw: word, Flags: Branch, RUse: Bit(word.Rs())}

	case MOpADDI, MOpADDIU:
		return OpInfo{Op: OpADDIU, Raw: word, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpSLTI:
		return OpInfo{Op: OpSLTI, Raw: word, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpSLTIU:
		return OpInfo{Op: OpSLTIU, Raw: word, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpANDI:
		return OpInfo{Op: OpANDI, Raw: word, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpORI:
		return OpInfo{Op: OpORI, Raw: word, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpXORI:
		return OpInfo{Op: OpXORI, Raw: word, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpLUI:
		return OpInfo{Op: OpLUI, Raw: word, RDef: Bit(word.Rt())}

	case MOpLB:
		return OpInfo{Op: OpLB, Raw: word, Flags: Load, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpLBU:
		return OpInfo{Op: OpLBU, Raw: word, Flags: Load, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpLH:
		return OpInfo{Op: OpLH, Raw: word, Flags: Load, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpLHU:
		return OpInfo{Op: OpLHU, Raw: word, Flags: Load, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpLW:
		return OpInfo{Op: OpLW, Raw: word, Flags: Load, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpLWU:
		return OpInfo{Op: OpLWU, Raw: word, Flags: Load, RUse: Bit(word.Rs()), RDef: Bit(word.Rt())}
	case MOpSB:
		return OpInfo{Op: OpSB, Raw: word, Flags: Store, RUse: Bit(word.Rs()) | Bit(word.Rt())}
	case MOpSH:
		return OpInfo{Op: OpSH, Raw: word, Flags: Store, RUse: Bit(word.Rs()) | Bit(word.Rt())}
	case MOpSW:
		return OpInfo{Op: OpSW, Raw: word, Flags: Store, RUse: Bit(word.Rs()) | Bit(word.Rt())}
	}
	return OpInfo{Op: OpInvalid, Raw: word}
}

func decodeSpecial(word Instruction) OpInfo {
	rs, rt, rd := word.Rs(), word.Rt(), word.Rd()
	rr := func(op Op) OpInfo { return OpInfo{Op: op, Raw: word, RUse: Bit(rs) | Bit(rt), RDef: Bit(rd)} }
	shift := func(op Op) OpInfo { return OpInfo{Op: op, Raw: word, RUse: Bit(rt), RDef: Bit(rd)} }
	shiftv := func(op Op) OpInfo { return OpInfo{Op: op, Raw: word, RUse: Bit(rs) | Bit(rt), RDef: Bit(rd)} }

	switch word.Funct() {
	case FnADDU:
		return rr(OpADDU)
	case FnSUBU:
		return rr(OpSUBU)
	case FnAND:
		return rr(OpAND)
	case FnOR:
		return rr(OpOR)
	case FnXOR:
		return rr(OpXOR)
	case FnNOR:
		return rr(OpNOR)
	case FnSLT:
		return rr(OpSLT)
	case FnSLTU:
		return rr(OpSLTU)
	case FnSLL:
		return shift(OpSLL)
	case FnSRL:
		return shift(OpSRL)
	case FnSRA:
		return shift(OpSRA)
	case FnSLLV:
		return shiftv(OpSLLV)
	case FnSRLV:
		return shiftv(OpSRLV)
	case FnSRAV:
		return shiftv(OpSRAV)
	case FnJR:
		return OpInfo{Op: OpJR, Raw: word, Flags: Branch, RUse: Bit(rs)}
	case FnJALR:
		return OpInfo{Op: OpJALR, Raw: word, Flags: Branch, RUse: Bit(rs), RDef: Bit(rd)}
	case FnBREAK:
		return OpInfo{Op: OpBREAK, Raw: word}
	}
	return OpInfo{Op: OpInvalid, Raw: word}
}

func decodeRegimm(word Instruction) OpInfo {
	rs := word.Rs()
	switch word.Rt() {
	case RtBLTZ:
		return OpInfo{Op: OpBLTZ, Raw: word, Flags: Branch, RUse: Bit(rs)}
	case RtBGEZ:
		return OpInfo{Op: OpBGEZ, Raw: word, Flags: Branch, RUse: Bit(rs)}
	case RtBLTZAL:
		return OpInfo{Op: OpBLTZAL, Raw: word, Flags: Branch, RUse: Bit(rs), RDef: Bit(31)}
	case RtBGEZAL:
		return OpInfo{Op: OpBGEZAL, Raw: word, Flags: Branch, RUse: Bit(rs), RDef: Bit(31)}
	}
	return OpInfo{Op: OpInvalid, Raw: word}
}

func decodeCop0(word Instruction) OpInfo {
	switch word.SubOp() {
	case SubMF:
		return OpInfo{Op: OpMFC0, Raw: word, RDef: Bit(word.Rt())}
	case SubMT:
		return OpInfo{Op: OpMTC0, Raw: word, RUse: Bit(word.Rt())}
	}
	return OpInfo{Op: OpInvalid, Raw: word}
}

func decodeCop2Scalar(word Instruction) OpInfo {
	rt, vs := word.CtrlRt(), word.CtrlVs()
	switch word.SubOp() {
	case SubMF:
		return OpInfo{Op: OpMFC2, Raw: word, RDef: Bit(rt), VUse: Bit(vs)}
	case SubMT:
		return OpInfo{Op: OpMTC2, Raw: word, RUse: Bit(rt), VDef: Bit(vs),
			Flags: VNopGroup, VFake: Bit(vs)}
	case SubCF:
		return OpInfo{Op: OpCFC2, Raw: word, RDef: Bit(rt), VCUse: vcMask(vs)}
	case SubCT:
		return OpInfo{Op: OpCTC2, Raw: word, RUse: Bit(rt), VCDef: vcMask(vs)}
	}
	return OpInfo{Op: OpInvalid, Raw: word}
}

func vcMask(ctrl uint32) VCMask {
	switch ctrl & 0x3 {
	case CtrlVCO:
		return VCMaskVCO
	case CtrlVCC:
		return VCMaskVCC
	case CtrlVCE:
		return VCMaskVCE
	}
	return 0
}

func decodeVectorCompute(word Instruction) OpInfo {
	vt, vs, vd := word.Vt(), word.Vs(), word.Vd()
	info := OpInfo{Raw: word, Flags: Vector, VUse: Bit(vs) | Bit(vt), VDef: Bit(vd)}

	switch word.VFunct() {
	case VFnVMULF:
		info.Op = OpVMULF
	case VFnVMULU:
		info.Op = OpVMULU
	case VFnVMUDL:
		info.Op = OpVMUDL
	case VFnVMUDM:
		info.Op = OpVMUDM
	case VFnVMUDN:
		info.Op = OpVMUDN
	case VFnVMUDH:
		info.Op = OpVMUDH
	case VFnVMACF:
		info.Op = OpVMACF
	case VFnVMACU:
		info.Op = OpVMACU
	case VFnVMADL:
		info.Op = OpVMADL
	case VFnVMADM:
		info.Op = OpVMADM
	case VFnVMADN:
		info.Op = OpVMADN
	case VFnVMADH:
		info.Op = OpVMADH
	case VFnVADD:
		info.Op = OpVADD
	case VFnVSUB:
		info.Op = OpVSUB
	case VFnVADDC:
		info.Op = OpVADDC
	case VFnVSUBC:
		info.Op = OpVSUBC
	case VFnVAND:
		info.Op = OpVAND
	case VFnVOR:
		info.Op = OpVOR
	case VFnVXOR:
		info.Op = OpVXOR
	case VFnVNAND:
		info.Op = OpVNAND
	case VFnVNOR:
		info.Op = OpVNOR
	case VFnVNXOR:
		info.Op = OpVNXOR
	case VFnVABS:
		info.Op = OpVABS
	case VFnVCH:
		info.Op = OpVCH
	case VFnVCL:
		info.Op = OpVCL
	case VFnVCR:
		info.Op = OpVCR
	case VFnVEQ:
		info.Op = OpVEQ
	case VFnVNE:
		info.Op = OpVNE
	case VFnVLT:
		info.Op = OpVLT
	case VFnVGE:
		info.Op = OpVGE
	case VFnVMRG:
		info.Op = OpVMRG
	case VFnVMOV:
		info.Op = OpVMOV
		info.VUse = Bit(vt) // vs here is the destination-element index, not a register
	case VFnVRCP:
		info.Op = OpVRCP
		info.VUse = Bit(vt)
	case VFnVRCPL:
		info.Op = OpVRCPL
		info.VUse = Bit(vt)
	case VFnVRCPH:
		info.Op = OpVRCPH
		info.VUse = Bit(vt)
	case VFnVRSQ:
		info.Op = OpVRSQ
		info.VUse = Bit(vt)
	case VFnVRSQL:
		info.Op = OpVRSQL
		info.VUse = Bit(vt)
	case VFnVRSQH:
		info.Op = OpVRSQH
		info.VUse = Bit(vt)
	case VFnVMULQ:
		info.Op = OpVMULQ
	case VFnVMACQ:
		info.Op = OpVMACQ
		info.VUse = 0 // VMACQ reads no register operand beyond the accumulator
	case VFnVRNDN:
		info.Op = OpVRNDN
		info.VUse = Bit(vt) // vs here is the precision-select flag, not a register
	case VFnVRNDP:
		info.Op = OpVRNDP
		info.VUse = Bit(vt)
	case VFnVSAR:
		info.Op = OpVSAR
		info.VUse = 0
	case VFnVZERO:
		info.Op = OpVZERO
	case VFnVNOP:
		info.Op = OpVNOP
		info.VUse, info.VDef = 0, 0
		info.Flags |= VNopGroup
		info.VFake = Bit(vd)
	default:
		info.Op = OpInvalid
	}
	return info
}

func decodeVectorLoad(word Instruction) OpInfo {
	base, vt := word.Base(), word.LSVt()
	info := OpInfo{Raw: word, Flags: Vector | Load, RUse: Bit(base), VDef: Bit(vt)}
	switch word.LSFunct() {
	case LSFnLBV:
		info.Op = OpLBV
	case LSFnLSV:
		info.Op = OpLSV
	case LSFnLLV:
		info.Op = OpLLV
	case LSFnLDV:
		info.Op = OpLDV
	case LSFnLQV:
		info.Op = OpLQV
	case LSFnLRV:
		info.Op = OpLRV
	case LSFnLPV:
		info.Op = OpLPV
	case LSFnLUV:
		info.Op = OpLUV
	case LSFnLHV:
		info.Op = OpLHV
	case LSFnLFV:
		info.Op = OpLFV
	case LSFnLTV:
		info.Op = OpLTV
		info.Flags |= VNopGroup
		info.VFake = Bit(vt)
	case LSFnLWV:
		info.Op = OpLWV
	default:
		info.Op = OpInvalid
	}
	return info
}

func decodeVectorStore(word Instruction) OpInfo {
	base, vt := word.Base(), word.LSVt()
	info := OpInfo{Raw: word, Flags: Vector | Store, RUse: Bit(base), VUse: Bit(vt)}
	switch word.LSFunct() {
	case LSFnSBV:
		info.Op = OpSBV
	case LSFnSSV:
		info.Op = OpSSV
	case LSFnSLV:
		info.Op = OpSLV
	case LSFnSDV:
		info.Op = OpSDV
	case LSFnSQV:
		info.Op = OpSQV
	case LSFnSRV:
		info.Op = OpSRV
	case LSFnSPV:
		info.Op = OpSPV
	case LSFnSUV:
		info.Op = OpSUV
	case LSFnSHV:
		info.Op = OpSHV
	case LSFnSFV:
		info.Op = OpSFV
	case LSFnSTV:
		info.Op = OpSTV
	case LSFnSWV:
		info.Op = OpSWV
	default:
		info.Op = OpInvalid
	}
	return info
}
