/*
Package core owns the RSP's whole architectural state and drives the
fetch/decode/issue/execute loop of spec.md §4.8. It is the analogue of
the teacher's emu/core/core.go (which owns the S370 CPU plus its channel
subsystem and exposes Start/Stop/CycleCPU), de-goroutined to match
spec.md §5's single-threaded, single-execution-context requirement: the
teacher's own CPU loop already runs synchronously inside one goroutine
per system, so dropping the goroutine wrapper (not the loop shape) is
the only real change.
*/
package core

import (
	"log/slog"

	"github.com/n64rsp/rsp/emu/branch"
	"github.com/n64rsp/rsp/emu/decode"
	"github.com/n64rsp/rsp/emu/dma"
	"github.com/n64rsp/rsp/emu/host"
	"github.com/n64rsp/rsp/emu/ipu"
	"github.com/n64rsp/rsp/emu/memory"
	"github.com/n64rsp/rsp/emu/pipeline"
	"github.com/n64rsp/rsp/emu/status"
	"github.com/n64rsp/rsp/emu/vpu"
	"github.com/n64rsp/rsp/emu/vpu/compute"
	"github.com/n64rsp/rsp/emu/vpu/loadstore"
)

// haltedCost is the clock charge for one owed-work iteration while
// status.halted is set (spec.md §4.8/§5).
const haltedCost = 128

// Machine is the RSP's complete architectural state plus the scheduler
// that drives it. The host embeds one per RSP instance; there is no
// package-level singleton (spec.md §9 explicitly re-architects away
// from the source's global-state pattern).
type Machine struct {
	imem memory.Bank
	dmem memory.Bank

	gpr ipu.IPU
	vpr vpu.VPU

	pipeline pipeline.Pipeline
	branch   branch.Branch
	status   status.Status
	dma      dma.Engine

	pc     uint32
	clock  int64
	cycles uint64

	dram host.DRAM
	rdp  host.RDP

	log *slog.Logger
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithDRAM attaches the host's RDRAM collaborator for the DMA engine
// to cross into. Without one, DMA transfers drain into no-op storage.
func WithDRAM(d host.DRAM) Option { return func(m *Machine) { m.dram = d } }

// WithRDP attaches the host's RDP notification collaborator.
func WithRDP(r host.RDP) Option { return func(m *Machine) { m.rdp = r } }

// WithHalted starts the machine halted (the power-on default) or
// running, overriding the implicit power-on-halted reset state.
func WithHalted(halted bool) Option {
	return func(m *Machine) { m.status.SetHalted(halted) }
}

// WithLogger attaches a structured logger for BREAK/invalid-opcode/halt
// transitions. Step itself never logs anything else: spec.md §5
// forbids side effects beyond state mutation inside the interpreter.
func WithLogger(l *slog.Logger) Option { return func(m *Machine) { m.log = l } }

type nullDRAM struct{}

func (nullDRAM) ReadAt(uint32, []byte)  {}
func (nullDRAM) WriteAt(uint32, []byte) {}

type nullRDP struct{}

func (nullRDP) Notify(uint32) {}

// New allocates a Machine and resets it to power-on state (rsp_init).
// Construction is idempotent: every call returns an independent,
// freshly reset instance.
func New(opts ...Option) *Machine {
	m := &Machine{dram: nullDRAM{}, rdp: nullRDP{}, log: slog.Default()}
	m.status.Reset()
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetHalted sets or clears the halted bit, the one piece of state the
// host may toggle outside of Step (spec.md §5, §6 rsp_set_halted).
func (m *Machine) SetHalted(v bool) { m.status.SetHalted(v) }

// Cycles returns the monotonic clock consumed since reset. Unlike the
// private owed-work counter Step drives, this never rolls back: every
// cycle charged against that counter also accumulates here.
func (m *Machine) Cycles() uint32 { return uint32(m.cycles) }

// DMEM exposes the data memory bank for zero-copy host access.
// Callers must not hold or mutate it while a Step call is in flight.
func (m *Machine) DMEM() []byte { return m.dmem.Bytes() }

// IMEM exposes the instruction memory bank for zero-copy host access.
func (m *Machine) IMEM() []byte { return m.imem.Bytes() }

// GPR exposes the 32-entry scalar register file.
func (m *Machine) GPR() *[32]uint32 { return &m.gpr.R }

// VPR exposes the 32-entry vector register file in the host's pointer
// byte order: spec.md §6 defines byte b of that view as internal lane
// byte b^15 (the RSP's reversed vector-memory addressing), which is not
// the same order vpu.Reg keeps internally for Broadcast/Lane indexing.
// Producing it costs a 512-byte shuffle; unlike DMEM/IMEM this is a
// snapshot, not a live alias.
func (m *Machine) VPR() *[32][16]byte {
	var out [32][16]byte
	for i, r := range m.vpr.R {
		for b := 0; b < 16; b++ {
			out[i][b] = r[b^15]
		}
	}
	return &out
}

// Step tops the clock up with n cycles of owed work and runs the main
// loop of spec.md §4.8 until that debt is paid off. Instructions cost a
// variable number of clocks (128 per iteration while halted), so Step
// may run past exactly n on the last dispatch; the overshoot carries
// over and is settled against the next call's n.
func (m *Machine) Step(n int) {
	m.clock -= int64(n)
	for m.clock < 0 {
		pre := m.clock
		if m.status.Halted() {
			m.clock += haltedCost
		} else {
			m.stepOne()
		}
		delta := uint32(m.clock - pre)
		m.cycles += uint64(delta)

		wasWriting, finishedAddr := m.dma.Busy.Write, m.dma.Current.PBusAddress
		bank := &m.dmem
		if m.dma.Current.PBusRegion {
			bank = &m.imem
		}
		m.dma.Step(delta, bank, m.dram)
		if wasWriting && !m.dma.Busy.Write {
			m.rdp.Notify(finishedAddr)
		}
	}
}

func (m *Machine) stepOne() {
	raw0 := decode.Instruction(m.imem.Read32(m.pc))
	op0 := decode.Decode(raw0)

	m.pipeline.Begin()
	m.pipeline.Issue(op0)
	m.execute(op0, m.pc)

	if !m.pipeline.SingleIssue && !op0.Flags.Has(decode.Branch) {
		raw1 := decode.Instruction(m.imem.Read32(m.pc + 4))
		op1 := decode.Decode(raw1)
		if pipeline.CanDualIssue(op0, op1) {
			m.epilogue()
			m.pipeline.Issue(op1)
			m.execute(op1, m.pc)
			m.pipeline.End()
			m.epilogue()
			m.clock += int64(m.pipeline.Clocks)
			return
		}
	}
	m.pipeline.End()
	m.epilogue()
	m.clock += int64(m.pipeline.Clocks)
}

// execute dispatches one decoded op to its owning subpackage. Invalid
// opcodes are the documented no-op (spec.md §7): they still consume a
// pipeline slot (already issued above) but touch no other state. Every
// branch/jump side effect lands directly on m.branch inside ipu.Exec,
// so the epilogue only ever needs to consult the FSM, never a return
// value threaded back out of here.
func (m *Machine) execute(op decode.OpInfo, pc uint32) {
	switch {
	case op.Flags.Has(decode.Vector):
		m.executeVector(op)
	case op.Op == decode.OpInvalid:
		m.log.Warn("invalid opcode", "pc", pc, "word", uint32(op.Raw))
	default:
		res := ipu.Exec(&m.gpr, &m.dmem, &m.branch, &m.status, &m.dma, &m.vpr, ipu.Args{
			Op: op.Op, Raw: op.Raw, PC: pc,
		})
		if res.Halted {
			m.log.Info("BREAK", "pc", pc)
		}
	}
}

func (m *Machine) executeVector(op decode.OpInfo) {
	i := op.Raw
	switch {
	case i.VectorMarker():
		compute.Exec(&m.vpr, compute.Args{
			Op: op.Op, VD: i.Vd(), VS: i.Vs(), VT: i.Vt(),
			E: i.E(), DE: i.Vs(), VField: i.Vs(),
		})
	case op.Flags.Has(decode.Load) || op.Flags.Has(decode.Store):
		loadstore.Exec(&m.vpr, &m.dmem, loadstore.Args{
			Op: op.Op, VT: i.LSVt(), Base: m.gpr.Reg(i.Base()),
			Offset: i.LSOffset(), Element: i.LSElem(),
		})
	}
}

// epilogue advances PC through the branch FSM (spec.md §4.4) and
// relays a taken branch/jump's effect on singleIssue.
func (m *Machine) epilogue() {
	switch m.branch.State {
	case branch.Step:
		m.pc += 4
	case branch.Take:
		m.branch.Delay()
		m.pc += 4
	case branch.DelaySlot:
		target := m.branch.PC
		m.branch.Reset()
		m.pc = target
		m.pipeline.Stall()
		if target&4 != 0 {
			m.pipeline.SingleIssue = true
		}
	}
}
