/*
Package decode turns a 32-bit RSP instruction word into the structured
OpInfo descriptor spec.md §4.2 requires: register-use/def masks for the
pipeline hazard model, and an Op identity the IPU/VPU dispatch tables key
off of. Decode is pure: it never touches machine state.

Wire format (this repo's own layout; spec.md fixes semantics, not bit
positions):

  IPU, standard MIPS-style fields:
    31..26 op     25..21 rs     20..16 rt     15..11 rd
    10..6  shamt  5..0   funct  (SPECIAL, op==0)
    or op..rs..rt..imm16 (I-type), op..target26 (J-type)

  COP2 scalar transfer (MFC2/MTC2/CFC2/CTC2), op==MOpCOP2, bit25==0:
    31..26 op=0x12   25 0   24..21 subop   20..16 rt
    15..11 vs/ctrl    10..7 element         6..0 unused

  COP2 vector compute, op==MOpCOP2, bit25==1:
    31..26 op=0x12   25 1   24..21 e(high nibble unused, e is 4 bits)
    20..16 vt        15..11 vs              10..6 vd            5..0 funct

  VPU load/store (op==MOpLWC2 or MOpSWC2):
    31..26 op        25..21 base(rs)        20..16 vt
    15..11 funct      10..7 element          6..0 offset (signed, scaled)
*/
package decode

// Instruction is a raw 32-bit RSP instruction word with field accessors.
type Instruction uint32

func (i Instruction) Op() uint32     { return uint32(i>>26) & 0x3F }
func (i Instruction) Rs() uint32     { return uint32(i>>21) & 0x1F }
func (i Instruction) Rt() uint32     { return uint32(i>>16) & 0x1F }
func (i Instruction) Rd() uint32     { return uint32(i>>11) & 0x1F }
func (i Instruction) Shamt() uint32  { return uint32(i>>6) & 0x1F }
func (i Instruction) Funct() uint32  { return uint32(i) & 0x3F }
func (i Instruction) Imm16() uint32  { return uint32(i) & 0xFFFF }
func (i Instruction) SImm16() int32  { return int32(int16(i & 0xFFFF)) }
func (i Instruction) Target26() uint32 { return uint32(i) & 0x03FFFFFF }

// Vector-compute field accessors (op==MOpCOP2, bit25==1).
func (i Instruction) VectorMarker() bool { return (i>>25)&1 != 0 }
func (i Instruction) E() uint32          { return uint32(i>>21) & 0xF }
func (i Instruction) Vt() uint32         { return uint32(i>>16) & 0x1F }
func (i Instruction) Vs() uint32         { return uint32(i>>11) & 0x1F }
func (i Instruction) Vd() uint32         { return uint32(i>>6) & 0x1F }
func (i Instruction) VFunct() uint32     { return uint32(i) & 0x3F }

// COP2 scalar-transfer field accessors (op==MOpCOP2, bit25==0).
func (i Instruction) SubOp() uint32    { return uint32(i>>21) & 0xF }
func (i Instruction) CtrlRt() uint32   { return uint32(i>>16) & 0x1F }
func (i Instruction) CtrlVs() uint32   { return uint32(i>>11) & 0x1F }
func (i Instruction) CtrlElem() uint32 { return uint32(i>>7) & 0xF }

// VPU load/store field accessors (op==MOpLWC2/MOpSWC2).
func (i Instruction) Base() uint32    { return uint32(i>>21) & 0x1F }
func (i Instruction) LSVt() uint32    { return uint32(i>>16) & 0x1F }
func (i Instruction) LSFunct() uint32 { return uint32(i>>11) & 0x1F }
func (i Instruction) LSElem() uint32  { return uint32(i>>7) & 0xF }
func (i Instruction) LSOffset() int32 {
	raw := int32(uint32(i) & 0x7F)
	raw <<= 25
	return raw >> 25 // sign-extend 7-bit field
}

// Major opcodes (the raw 6-bit field read by Op()). These carry an MOp
// prefix, distinct from the decoded Op identities in op.go: a single
// major opcode like MOpSPECIAL fans out into many Op values once funct
// is taken into account, so the two enumerations can't share names.
const (
	MOpSPECIAL uint32 = 0x00
	MOpREGIMM  uint32 = 0x01
	MOpJ       uint32 = 0x02
	MOpJAL     uint32 = 0x03
	MOpBEQ     uint32 = 0x04
	MOpBNE     uint32 = 0x05
	MOpBLEZ    uint32 = 0x06
	MOpBGTZ    uint32 = 0x07
	MOpADDI    uint32 = 0x08
	MOpADDIU   uint32 = 0x09
	MOpSLTI    uint32 = 0x0A
	MOpSLTIU   uint32 = 0x0B
	MOpANDI    uint32 = 0x0C
	MOpORI     uint32 = 0x0D
	MOpXORI    uint32 = 0x0E
	MOpLUI     uint32 = 0x0F
	MOpCOP0    uint32 = 0x10
	MOpCOP2    uint32 = 0x12
	MOpLB      uint32 = 0x20
	MOpLH      uint32 = 0x21
	MOpLWL     uint32 = 0x22
	MOpLW      uint32 = 0x23
	MOpLBU     uint32 = 0x24
	MOpLHU     uint32 = 0x25
	MOpLWU     uint32 = 0x27
	MOpSB      uint32 = 0x28
	MOpSH      uint32 = 0x29
	MOpSW      uint32 = 0x2B
	MOpLWC2    uint32 = 0x32
	MOpSWC2    uint32 = 0x3A
)

// SPECIAL funct codes.
const (
	FnSLL     uint32 = 0x00
	FnSRL     uint32 = 0x02
	FnSRA     uint32 = 0x03
	FnSLLV    uint32 = 0x04
	FnSRLV    uint32 = 0x06
	FnSRAV    uint32 = 0x07
	FnJR      uint32 = 0x08
	FnJALR    uint32 = 0x09
	FnBREAK   uint32 = 0x0D
	FnADDU    uint32 = 0x21
	FnSUBU    uint32 = 0x23
	FnAND     uint32 = 0x24
	FnOR      uint32 = 0x25
	FnXOR     uint32 = 0x26
	FnNOR     uint32 = 0x27
	FnSLT     uint32 = 0x2A
	FnSLTU    uint32 = 0x2B
)

// REGIMM rt-field codes.
const (
	RtBLTZ   uint32 = 0x00
	RtBGEZ   uint32 = 0x01
	RtBLTZAL uint32 = 0x10
	RtBGEZAL uint32 = 0x11
)

// COP0/COP2 scalar-transfer subop codes.
const (
	SubMF uint32 = 0x00
	SubCF uint32 = 0x02
	SubMT uint32 = 0x04
	SubCT uint32 = 0x06
)

// VPU control register indices, selected via CtrlVs for CFC2/CTC2.
const (
	CtrlVCO uint32 = 0
	CtrlVCC uint32 = 1
	CtrlVCE uint32 = 2
)

// VPU compute funct codes.
const (
	VFnVMULF uint32 = iota
	VFnVMULU
	VFnVMUDL
	VFnVMUDM
	VFnVMUDN
	VFnVMUDH
	VFnVMACF
	VFnVMACU
	VFnVMADL
	VFnVMADM
	VFnVMADN
	VFnVMADH
	VFnVADD
	VFnVSUB
	VFnVADDC
	VFnVSUBC
	VFnVAND
	VFnVOR
	VFnVXOR
	VFnVNAND
	VFnVNOR
	VFnVNXOR
	VFnVABS
	VFnVCH
	VFnVCL
	VFnVCR
	VFnVEQ
	VFnVNE
	VFnVLT
	VFnVGE
	VFnVMRG
	VFnVMOV
	VFnVRCP
	VFnVRCPL
	VFnVRCPH
	VFnVRSQ
	VFnVRSQL
	VFnVRSQH
	VFnVMULQ
	VFnVMACQ
	VFnVRNDN
	VFnVRNDP
	VFnVSAR
	VFnVZERO
	VFnVNOP
)

// VPU load/store funct codes.
const (
	LSFnLBV uint32 = iota
	LSFnSBV
	LSFnLSV
	LSFnSSV
	LSFnLLV
	LSFnSLV
	LSFnLDV
	LSFnSDV
	LSFnLQV
	LSFnSQV
	LSFnLRV
	LSFnSRV
	LSFnLPV
	LSFnLUV
	LSFnLHV
	LSFnLFV
	LSFnLTV
	LSFnSTV
	LSFnLWV
	LSFnSPV
	LSFnSUV
	LSFnSFV
	LSFnSHV
	LSFnSWV
)
