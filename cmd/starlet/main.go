/*
 * Starlet - Entry point: loads config, builds the machine, runs it
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// ironic emulates the Starlet ARM9 security/I-O processor found in
// Nintendo's Wii-class consoles: the CPU/MMU interpreter plus the
// Hollywood bus and its device set (SHA-1, SDHC, OTP, GPIO/SEEPROM,
// IPC mailbox). Grounded on the teacher repo's main.go shape (getopt
// flag parsing, file-backed slog handler, signal-driven shutdown).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/techflashYT/ironic/internal/emu"
	"github.com/techflashYT/ironic/internal/hostsock"
	"github.com/techflashYT/ironic/internal/logging"
	"github.com/techflashYT/ironic/internal/startup/config"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "ironic.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optKernel := getopt.StringLong("kernel", 'k', "", "Replacement kernel ELF (overrides config)")
	optPPCHLE := getopt.BoolLong("ppc-hle", 0, "High-level-emulate the PPC bridge instead of requiring a socket peer")
	optDebug := getopt.BoolLong("debug", 0, "Enable the debug peek/poke socket")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(*optConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *optKernel != "" {
		cfg.Kernel = *optKernel
	}
	if *optPPCHLE {
		cfg.PPCHLE = true
	}

	var logFile *os.File
	if *optLogFile != "" {
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer logFile.Close()
	}
	log := logging.NewLogger(logFile, cfg.LogLevel == "debug")
	slog.SetDefault(log)

	log.Info("ironic starting", "config", *optConfig)

	machine, err := emu.Build(cfg, log)
	if err != nil {
		log.Error("failed to build machine", "err", err)
		os.Exit(1)
	}

	stopPPC := make(chan struct{})
	go machine.RunPPCBridge(stopPPC)

	if *optDebug {
		srv, err := hostsock.NewServer("ironic-debug.sock", machine, log)
		if err != nil {
			log.Error("debug socket setup failed", "err", err)
		} else {
			go func() {
				if err := srv.Serve(); err != nil {
					log.Warn("debug socket stopped", "err", err)
				}
			}()
		}
	}

	console := hostsock.NewConsole(machine)
	if err := console.Start(); err != nil {
		log.Warn("interactive console unavailable", "err", err)
	} else {
		defer console.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		machine.Run()
		close(done)
	}()

	select {
	case <-sigChan:
		log.Info("received shutdown signal")
		machine.RequestHalt()
		<-done
	case <-done:
		log.Info("cpu halted")
	}

	close(stopPPC)

	if err := machine.DumpRAM("ironic-"); err != nil {
		log.Error("ram dump failed", "err", err)
		os.Exit(1)
	}

	os.Exit(0)
}
