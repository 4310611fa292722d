/*
RSP - Main process.

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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/n64rsp/rsp/config"
	"github.com/n64rsp/rsp/core"
	logger "github.com/n64rsp/rsp/util/logger"
)

// stepChunk is how many owed clocks main hands the machine per iteration
// of the free-run loop, so a SIGINT/SIGTERM is never more than one
// chunk's worth of work away from being noticed.
const stepChunk = 1 << 16

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optUcode := getopt.StringLong("ucode", 'u', "", "Microcode image to load into IMEM")
	optDmem := getopt.StringLong("dmem", 'd', "", "Data image to load into DMEM")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optStep := getopt.Int64Long("step", 's', 0, "Run n owed clocks (the last instruction may run past n) then exit (0: free-run)")
	optDebug := getopt.BoolLong("debug", 0, "Drop into the interactive step debugger")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var cfg config.Config
	if *optConfig != "" {
		var err error
		cfg, err = config.Load(*optConfig)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
	}
	if *optLogFile != "" {
		cfg.Log = *optLogFile
	}
	if *optDebug {
		cfg.Debug = true
	}

	var file *os.File
	if cfg.Log != "" {
		var err error
		file, err = os.Create(cfg.Log)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	log := slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, &cfg.Debug))
	slog.SetDefault(log)

	log.Info("RSP started")

	m := core.New(
		core.WithHalted(cfg.Halted),
		core.WithLogger(log),
	)

	if *optUcode != "" {
		if err := loadImage(*optUcode, m.IMEM()); err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
	}
	if *optDmem != "" {
		if err := loadImage(*optDmem, m.DMEM()); err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
	}

	if cfg.Debug {
		runREPL(m)
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *optStep != 0 {
		m.Step(int(*optStep))
		log.Info("run complete", "cycles", m.Cycles())
		return
	}

loop:
	for {
		select {
		case <-sigChan:
			log.Info("got quit signal")
			break loop
		default:
			m.Step(stepChunk)
		}
	}

	log.Info("shutting down", "cycles", m.Cycles())
}

// loadImage copies a binary file's contents into the front of dst,
// mirroring the teacher's style of direct byte-slice device loading
// rather than a structured image format: IMEM/DMEM have no header, just
// raw bytes the RSP fetches from address 0.
func loadImage(path string, dst []byte) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	n := copy(dst, data)
	if n < len(data) {
		slog.Warn("image truncated to fit memory bank", "path", path, "size", len(data), "capacity", len(dst))
	}
	return nil
}
