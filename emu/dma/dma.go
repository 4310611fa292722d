/*
Package dma implements the RSP's DMA unit: independent read (DRAM->RSP)
and write (RSP->DRAM) channels, each with one in-flight transfer and one
queued descriptor, drained a few bytes at a time so the core's main loop
can interleave DMA progress with instruction issue (spec.md §4.9).

The RSP has no DRAM of its own -- every transfer crosses into the host's
memory through the DRAM collaborator interface, the same shape as the
teacher's channel/device split in emu/sys_channel.
*/
package dma

import "github.com/n64rsp/rsp/emu/memory"

// Regs captures one pending or in-flight transfer's addressing state.
// Fields mirror the hardware's DMA_SPADDR/DMA_RAMADDR/DMA_*LEN layout:
// Length, Skip and Count are all stored minus one, as the registers
// hold them.
type Regs struct {
	PBusRegion  bool   // false: DMEM, true: IMEM
	PBusAddress uint32 // 12-bit RSP-side byte address
	DRAMAddress uint32 // 24-bit DRAM byte address
	Length      uint32 // row length in bytes, minus one
	Skip        uint32 // DRAM stride between rows, minus one
	Count       uint32 // row count, minus one
}

// Status is a pair of independent read/write activity flags.
type Status struct {
	Read  bool
	Write bool
}

// Any reports whether either direction is set.
func (s Status) Any() bool { return s.Read || s.Write }

// DRAM is the host's main-memory collaborator. Implementations back
// buf with whatever storage the embedding program uses for RDRAM.
type DRAM interface {
	ReadAt(addr uint32, buf []byte)
	WriteAt(addr uint32, buf []byte)
}

// bytesPerCycleGroup bounds how much of a transfer Step drains per
// group of cycles, so a single Step call never stalls the caller on
// an entire multi-row transfer.
const bytesPerCycleGroup = 8

// Engine is the RSP's DMA unit.
type Engine struct {
	Pending Regs
	Current Regs
	Busy    Status
	Full    Status

	Clock int64

	remaining uint32
	row       uint32
	dramAddr  uint32
	rspAddr   uint32
	toRSP     bool
}

// Reset clears all DMA state, matching power-on.
func (e *Engine) Reset() {
	*e = Engine{}
}

// StartRead begins (or queues) a DRAM->RSP transfer using Current's
// addressing fields. If a read is already in flight, the request is
// latched into Pending and reported via Full.Read until the in-flight
// transfer completes.
func (e *Engine) StartRead() {
	if e.Busy.Read {
		e.Pending = e.Current
		e.Full.Read = true
		return
	}
	e.begin(true)
}

// StartWrite is StartRead's RSP->DRAM counterpart.
func (e *Engine) StartWrite() {
	if e.Busy.Write {
		e.Pending = e.Current
		e.Full.Write = true
		return
	}
	e.begin(false)
}

func (e *Engine) begin(toRSP bool) {
	e.toRSP = toRSP
	e.dramAddr = e.Current.DRAMAddress
	e.rspAddr = e.Current.PBusAddress
	e.row = e.Current.Length + 1
	rows := e.Current.Count + 1
	e.remaining = rows * (e.Current.Length + 1)
	if toRSP {
		e.Busy.Read = true
	} else {
		e.Busy.Write = true
	}
}

// Step drains up to cycles*bytesPerCycleGroup bytes of whichever
// transfer is in flight against mem (the IMEM or DMEM bank selected by
// Current.PBusRegion), crossing into dram for the other side. It is a
// no-op when nothing is in flight.
func (e *Engine) Step(cycles uint32, mem *memory.Bank, dram DRAM) {
	e.Clock += int64(cycles)
	if !e.Busy.Read && !e.Busy.Write {
		return
	}

	budget := cycles * bytesPerCycleGroup
	var buf [1]byte
	for budget > 0 && e.remaining > 0 {
		if e.row == 0 {
			e.dramAddr += e.Current.Skip + 1
			e.row = e.Current.Length + 1
		}
		if e.toRSP {
			dram.ReadAt(e.dramAddr, buf[:])
			mem.Write8(e.rspAddr, uint64(buf[0]))
		} else {
			buf[0] = byte(mem.Read8(e.rspAddr))
			dram.WriteAt(e.dramAddr, buf[:])
		}
		e.dramAddr++
		e.rspAddr++
		e.row--
		e.remaining--
		budget--
	}

	if e.remaining == 0 {
		e.finish()
	}
}

func (e *Engine) finish() {
	if e.toRSP {
		e.Busy.Read = false
		if e.Full.Read {
			e.Full.Read = false
			e.Current = e.Pending
			e.begin(true)
		}
		return
	}
	e.Busy.Write = false
	if e.Full.Write {
		e.Full.Write = false
		e.Current = e.Pending
		e.begin(false)
	}
}
