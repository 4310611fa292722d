/*
Copyright (c) 2024, Richard Cornwell
Copyright (c) 2026

Permission is hereby granted, free of charge, to any person obtaining a
copy of this software and associated documentation files (the "Software"),
to deal in the Software without restriction, including without limitation
the rights to use, copy, modify, merge, publish, distribute, sublicense,
and/or sell copies of the Software, and to permit persons to whom the
Software is furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
DEALINGS IN THE SOFTWARE.
*/
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/n64rsp/rsp/core"
)

var replCommands = []string{"step", "regs", "vregs", "mem", "break", "cont", "quit"}

// runREPL drives a single-step debug shell against a live Machine. Every
// command goes through the Machine's exported accessors (Step, GPR, VPR,
// DMEM, Cycles) -- the shell never reaches into core's
// package-private state, the same boundary core.Machine's own doc
// comments hold the rest of the embedding program to.
func runREPL(m *core.Machine) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		var out []string
		for _, c := range replCommands {
			if strings.HasPrefix(c, partial) {
				out = append(out, c)
			}
		}
		return out
	})

	// breakpoint is a target cycle count rather than a PC: Machine has no
	// exported PC accessor (core.Machine's external surface is the fixed
	// Step/GPR/VPR/DMEM/IMEM/Cycles set), so "stop before cycle N" is the
	// only breakpoint shape this shell can implement without reaching
	// into core's package-private state.
	breakpoint := int64(-1)

	for {
		command, err := line.Prompt("rsp> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			fmt.Println("error reading line: " + err.Error())
			return
		}
		line.AppendHistory(command)

		fields := strings.Fields(command)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "step":
			n := 1
			if len(fields) > 1 {
				if v, err := strconv.Atoi(fields[1]); err == nil {
					n = v
				}
			}
			m.Step(n)
			fmt.Printf("cycles=%d\n", m.Cycles())

		case "regs":
			gpr := m.GPR()
			for i := 0; i < 32; i += 4 {
				fmt.Printf("r%-2d=%08x r%-2d=%08x r%-2d=%08x r%-2d=%08x\n",
					i, gpr[i], i+1, gpr[i+1], i+2, gpr[i+2], i+3, gpr[i+3])
			}

		case "vregs":
			vpr := m.VPR()
			for i := 0; i < 32; i++ {
				fmt.Printf("v%-2d=% x\n", i, vpr[i])
			}

		case "mem":
			if len(fields) < 2 {
				fmt.Println("usage: mem <addr>")
				continue
			}
			addr, err := strconv.ParseUint(fields[1], 0, 32)
			if err != nil {
				fmt.Println("bad address: " + err.Error())
				continue
			}
			dmem := m.DMEM()
			if int(addr) >= len(dmem) {
				fmt.Println("address out of range")
				continue
			}
			fmt.Printf("dmem[%#x]=%#02x\n", addr, dmem[addr])

		case "break":
			if len(fields) < 2 {
				fmt.Println("usage: break <cycle>")
				continue
			}
			target, err := strconv.ParseUint(fields[1], 0, 32)
			if err != nil {
				fmt.Println("bad cycle count: " + err.Error())
				continue
			}
			breakpoint = int64(target)
			fmt.Printf("breakpoint set at cycle %d\n", target)

		case "cont":
			const contChunk = 256
			if breakpoint < 0 {
				// No breakpoint set: advance one chunk and hand control
				// back, rather than free-running the shell away.
				m.Step(contChunk)
			} else {
				for int64(m.Cycles()) < breakpoint {
					m.Step(contChunk)
				}
			}
			fmt.Printf("cycles=%d\n", m.Cycles())

		case "quit":
			return

		default:
			fmt.Println("unknown command: " + fields[0])
		}
	}
}
