package dma

import (
	"testing"

	"github.com/n64rsp/rsp/emu/memory"
)

type fakeDRAM struct {
	buf [256]byte
}

func (d *fakeDRAM) ReadAt(addr uint32, buf []byte) {
	copy(buf, d.buf[addr:])
}

func (d *fakeDRAM) WriteAt(addr uint32, buf []byte) {
	copy(d.buf[addr:], buf)
}

func TestStartReadDrainsIntoMemory(t *testing.T) {
	var e Engine
	var mem memory.Bank
	dram := &fakeDRAM{}
	for i := range dram.buf {
		dram.buf[i] = byte(i)
	}

	e.Current = Regs{DRAMAddress: 0, PBusAddress: 0, Length: 7, Count: 0}
	e.StartRead()
	if !e.Busy.Read {
		t.Fatal("Busy.Read should be set after StartRead")
	}

	e.Step(1, &mem, dram)
	if e.Busy.Read {
		t.Fatal("an 8-byte transfer should complete within one Step of 8 bytes")
	}
	for i := 0; i < 8; i++ {
		if mem.Read8(uint32(i)) != uint64(i) {
			t.Fatalf("mem[%d] = %#x, want %#x", i, mem.Read8(uint32(i)), byte(i))
		}
	}
}

func TestStartWriteDrainsFromMemory(t *testing.T) {
	var e Engine
	var mem memory.Bank
	dram := &fakeDRAM{}
	for i := 0; i < 4; i++ {
		mem.Write8(uint32(i), uint64(0xA0+i))
	}

	e.Current = Regs{DRAMAddress: 16, PBusAddress: 0, Length: 3, Count: 0}
	e.StartWrite()
	e.Step(1, &mem, dram)

	for i := 0; i < 4; i++ {
		if dram.buf[16+i] != byte(0xA0+i) {
			t.Fatalf("dram[%d] = %#x, want %#x", 16+i, dram.buf[16+i], byte(0xA0+i))
		}
	}
}

func TestSecondStartReadQueuesAsPendingAndFull(t *testing.T) {
	var e Engine
	var mem memory.Bank
	dram := &fakeDRAM{}

	e.Current = Regs{Length: 63, Count: 0}
	e.StartRead()
	second := Regs{DRAMAddress: 100, Length: 1, Count: 0}
	e.Current = second
	e.StartRead()
	if !e.Full.Read {
		t.Fatal("Full.Read should be set when a read is already in flight")
	}
	if e.Pending != second {
		t.Fatalf("Pending = %+v, want %+v", e.Pending, second)
	}

	// Drain the remainder of the first transfer; the queued one should start.
	e.Step(64, &mem, dram)
	if e.Full.Read {
		t.Fatal("Full.Read should clear once the pending transfer starts")
	}
}

func TestStepIsNoOpWhenIdle(t *testing.T) {
	var e Engine
	var mem memory.Bank
	dram := &fakeDRAM{}
	e.Step(10, &mem, dram)
	if e.Busy.Any() {
		t.Fatal("Step should not start a transfer on its own")
	}
	if e.Clock != 10 {
		t.Fatalf("Clock = %d, want 10", e.Clock)
	}
}
