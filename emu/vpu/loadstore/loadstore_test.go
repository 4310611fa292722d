package loadstore

import (
	"testing"

	"github.com/n64rsp/rsp/emu/decode"
	"github.com/n64rsp/rsp/emu/memory"
	"github.com/n64rsp/rsp/emu/vpu"
)

func TestLBVSBVRoundTrip(t *testing.T) {
	var v vpu.VPU
	var mem memory.Bank
	v.R[4].SetByte(2, 0x42)

	Exec(&v, &mem, Args{Op: decode.OpSBV, VT: 4, Base: 0x10, Element: 2})
	if got := mem.Read8(0x10); got != 0x42 {
		t.Fatalf("SBV wrote %#x to mem[0x10], want 0x42", got)
	}

	var v2 vpu.VPU
	Exec(&v2, &mem, Args{Op: decode.OpLBV, VT: 5, Base: 0x10, Element: 3})
	if got := v2.R[5].Byte(3); got != 0x42 {
		t.Fatalf("LBV lane byte = %#x, want 0x42", got)
	}
}

func TestLQVSQVRoundTripWholeRow(t *testing.T) {
	var v vpu.VPU
	var mem memory.Bank
	for i := 0; i < 16; i++ {
		v.R[1].SetByte(i, byte(i+1))
	}

	Exec(&v, &mem, Args{Op: decode.OpSQV, VT: 1, Base: 0, Element: 0})
	for i := 0; i < 16; i++ {
		if got := mem.Read8(uint32(i)); got != uint64(i+1) {
			t.Fatalf("mem[%d] = %#x, want %#x", i, got, i+1)
		}
	}

	var v2 vpu.VPU
	Exec(&v2, &mem, Args{Op: decode.OpLQV, VT: 2, Base: 0, Element: 0})
	for i := 0; i < 16; i++ {
		if got := v2.R[2].Byte(i); got != byte(i+1) {
			t.Fatalf("vt byte %d = %#x, want %#x", i, got, i+1)
		}
	}
}

func TestLQVClipsToRowBoundary(t *testing.T) {
	var v vpu.VPU
	var mem memory.Bank
	for i := uint32(0); i < 32; i++ {
		mem.Write8(i, uint64(i))
	}

	// base=8 starts mid-row (row boundary at 0 and 16): only 8 bytes
	// (addresses 8..15) should load before the row ends.
	Exec(&v, &mem, Args{Op: decode.OpLQV, VT: 3, Base: 8, Element: 0})
	for i := 0; i < 8; i++ {
		if got := v.R[3].Byte(i); got != byte(8+i) {
			t.Fatalf("byte %d = %#x, want %#x", i, got, 8+i)
		}
	}
}

func TestLPVWidensBytesIntoLanes(t *testing.T) {
	var v vpu.VPU
	var mem memory.Bank
	for i := uint32(0); i < 8; i++ {
		mem.Write8(i, uint64(i+1))
	}

	Exec(&v, &mem, Args{Op: decode.OpLPV, VT: 6, Base: 0, Element: 0})
	for n := 0; n < vpu.Lanes; n++ {
		want := uint16(n+1) << 8
		if got := v.R[6].Lane(n); got != want {
			t.Fatalf("lane %d = %#x, want %#x", n, got, want)
		}
	}
}

func TestLTVTransposesAcrossRegisters(t *testing.T) {
	var v vpu.VPU
	var mem memory.Bank
	for i := uint32(0); i < 16; i++ {
		mem.Write8(i, uint64(i))
	}

	Exec(&v, &mem, Args{Op: decode.OpLTV, VT: 0, Base: 0, Element: 0})
	// With e=0, register i takes lane i from the i-th 16-bit pair of the
	// row; this only checks that lane 0 of some register in the block
	// 0..7 received a non-zero value.
	nonZero := false
	for i := 0; i < 8; i++ {
		if v.R[i].Lane(0) != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Fatal("LTV should have written non-zero lanes into registers 0..7")
	}
}
