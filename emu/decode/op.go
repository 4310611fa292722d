package decode

// Flag is a bitmask over instruction classification bits (spec.md §4.2).
type Flag uint8

const (
	Load Flag = 1 << iota
	Store
	Branch
	Vector
	VNopGroup
	Bypass
)

// Has reports whether f includes all bits of test.
func (f Flag) Has(test Flag) bool { return f&test == test }

// RegMask is a bitmask over the 32 entries of a register file.
type RegMask uint32

// Bit returns the mask with only register r set. Register 0 (either
// file's hard-wired zero, for GPR) is handled by callers, not here:
// the decoder reports what an instruction's encoding says, and it is
// pipeline.Issue's job to exclude r0 from write masks.
func Bit(r uint32) RegMask { return RegMask(1) << (r & 0x1F) }

// VCMask is a bitmask over the three VPU control registers.
type VCMask uint8

const (
	VCMaskVCO VCMask = 1 << iota
	VCMaskVCC
	VCMaskVCE
)

// Op identifies the decoded operation for dispatch. It carries no
// semantics itself -- ipu/vpu packages switch on it.
type Op int

const (
	OpInvalid Op = iota

	// IPU arithmetic / logical.
	OpADDU
	OpSUBU
	OpADDIU
	OpAND
	OpOR
	OpXOR
	OpNOR
	OpANDI
	OpORI
	OpXORI
	OpSLL
	OpSRL
	OpSRA
	OpSLLV
	OpSRLV
	OpSRAV
	OpSLT
	OpSLTU
	OpSLTI
	OpSLTIU
	OpLUI

	// IPU loads/stores.
	OpLB
	OpLBU
	OpLH
	OpLHU
	OpLW
	OpLWU
	OpSB
	OpSH
	OpSW

	// IPU branches/jumps.
	OpBEQ
	OpBNE
	OpBGTZ
	OpBLEZ
	OpBLTZ
	OpBGEZ
	OpBLTZAL
	OpBGEZAL
	OpJ
	OpJAL
	OpJR
	OpJALR

	OpBREAK
	OpMFC0
	OpMTC0

	// VPU scalar-transfer.
	OpMFC2
	OpMTC2
	OpCFC2
	OpCTC2

	// VPU compute.
	OpVADD
	OpVSUB
	OpVADDC
	OpVSUBC
	OpVAND
	OpVOR
	OpVXOR
	OpVNAND
	OpVNOR
	OpVNXOR
	OpVABS
	OpVCH
	OpVCL
	OpVCR
	OpVEQ
	OpVNE
	OpVLT
	OpVGE
	OpVMRG
	OpVMOV
	OpVMULF
	OpVMULU
	OpVMACF
	OpVMACU
	OpVMUDH
	OpVMUDL
	OpVMUDM
	OpVMUDN
	OpVMADH
	OpVMADL
	OpVMADM
	OpVMADN
	OpVMULQ
	OpVMACQ
	OpVRCP
	OpVRCPL
	OpVRCPH
	OpVRSQ
	OpVRSQL
	OpVRSQH
	OpVRNDN
	OpVRNDP
	OpVSAR
	OpVZERO
	OpVNOP

	// VPU load/store.
	OpLBV
	OpSBV
	OpLSV
	OpSSV
	OpLLV
	OpSLV
	OpLDV
	OpSDV
	OpLQV
	OpSQV
	OpLRV
	OpSRV
	OpLPV
	OpLUV
	OpLHV
	OpLFV
	OpLTV
	OpSTV
	OpLWV
	OpSPV
	OpSUV
	OpSFV
	OpSHV
	OpSWV
)

// OpInfo is the decoder's output: everything the pipeline model and the
// interpreter dispatch need to know about one instruction word.
type OpInfo struct {
	Op    Op
	Raw   Instruction
	Flags Flag

	RUse, RDef   RegMask
	VUse, VDef   RegMask
	VCUse, VCDef VCMask
	VFake        RegMask
}
