/*
 * Starlet - Machine: owns the CPU and bus and drives the run loop
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

package emu

import (
	"debug/elf"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/techflashYT/ironic/internal/cpu"
	"github.com/techflashYT/ironic/internal/irq"
	"github.com/techflashYT/ironic/internal/startup/config"
)

// Machine is the complete Starlet system: bus, devices, CPU, and the
// interrupt controller, guarded by the single readers-writer lock spec
// §5 describes. The emulation thread takes it exclusively for the
// per-step bus.Step() phase and for CPU-driven writes; the PPC-bridge
// and debug threads take it for their own bus accesses.
type Machine struct {
	mu sync.RWMutex

	mem *machineMemory
	ic  *irq.Controller
	cpu *cpu.CPU

	log *slog.Logger

	haltRequested bool
	ppcHLE        bool
}

// New builds a Machine around already-populated memory; it loads no
// images itself (Build reads the image files and then calls New).
func New(ic *irq.Controller, mem *machineMemory, log *slog.Logger, ppcHLE bool) *Machine {
	c := cpu.New(mem.bus, ic)
	return &Machine{mem: mem, ic: ic, cpu: c, log: log, ppcHLE: ppcHLE}
}

// Build constructs a Machine from a config.Config: reads the on-disk
// images spec §6 names, wires the bus and device set, and loads a
// replacement kernel ELF if configured.
func Build(cfg *config.Config, log *slog.Logger) (*Machine, error) {
	boot0, err := readOptional(cfg.Boot0)
	if err != nil {
		return nil, fmt.Errorf("emu: boot0: %w", err)
	}
	otpImage, err := readOptional(cfg.OTP)
	if err != nil {
		return nil, fmt.Errorf("emu: otp: %w", err)
	}
	if len(otpImage) == 0 {
		otpImage = make([]byte, 128)
	}
	seepromImage, err := readOptional(cfg.SEEPROM)
	if err != nil {
		return nil, fmt.Errorf("emu: seeprom: %w", err)
	}
	if len(seepromImage) == 0 {
		seepromImage = make([]byte, 256)
	}
	sdImage, err := readOptional(cfg.SD)
	if err != nil {
		return nil, fmt.Errorf("emu: sd: %w", err)
	}

	ic := irq.New()
	mem := buildMemoryMap(ic, memMapConfig{
		boot0:            boot0,
		otp:              otpImage,
		seeprom:          seepromImage,
		sd:               sdImage,
		strictClockOrder: cfg.StrictClockOrder,
		log:              log,
	})

	m := New(ic, mem, log, cfg.PPCHLE)

	if cfg.Kernel != "" {
		if err := m.loadKernelELF(cfg.Kernel); err != nil {
			return nil, fmt.Errorf("emu: kernel: %w", err)
		}
	}

	return m, nil
}

func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}

// loadKernelELF loads a big-endian 32-bit ARM ELF's PT_LOAD segments
// into physical memory per spec §6, disabling the ROM mapping and
// enabling the SRAM mirror first so the entry point at 0xFFFF_0000
// resolves to writable SRAM rather than the (likely absent) mask ROM.
func (m *Machine) loadKernelELF(path string) error {
	f, err := elf.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if f.ByteOrder.String() != "BigEndian" {
		return fmt.Errorf("kernel ELF is not big-endian")
	}
	if f.Machine != elf.EM_ARM || f.Type != elf.ET_EXEC {
		return fmt.Errorf("kernel ELF is not an ARM executable")
	}
	if f.Entry != 0xFFFF0000 {
		return fmt.Errorf("kernel ELF entry 0x%08x != 0xFFFF0000", f.Entry)
	}

	m.mem.remap.SetROMDisabled(true)
	m.mem.remap.SetMirrorEnabled(true)

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD || prog.Filesz == 0 {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil {
			return fmt.Errorf("reading segment at 0x%08x: %w", prog.Paddr, err)
		}
		if err := m.mem.bus.DMAWrite(uint32(prog.Paddr), data); err != nil {
			return fmt.Errorf("writing segment at 0x%08x: %w", prog.Paddr, err)
		}
	}
	return nil
}

// Step runs one CPU instruction under the bus lock, advances the bus
// one cycle, and reports the outcome. Callers (the emulation thread)
// loop this until it halts or fatals.
func (m *Machine) Step() cpu.StepResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := m.cpu.Step()
	m.mem.bus.Step()
	return res
}

// Run drives the emulation thread's main loop until the CPU halts, a
// fatal error occurs, or an external halt is requested.
func (m *Machine) Run() {
	for {
		m.mu.RLock()
		halted := m.haltRequested
		m.mu.RUnlock()
		if halted {
			return
		}

		res := m.Step()
		switch res.Kind {
		case cpu.StepHalt:
			return
		case cpu.StepFatal:
			if m.log != nil {
				m.log.Error("emulation halted on fatal error", "reason", res.Reason)
			}
			return
		case cpu.StepSemihosting:
			m.handleSemihosting()
		}
	}
}

// RequestHalt is safe to call from any thread (e.g. a signal handler
// or the debug command thread).
func (m *Machine) RequestHalt() {
	m.mu.Lock()
	m.haltRequested = true
	m.mu.Unlock()
}

// handleSemihosting services the SVC 0xAB escape: the only operation
// this core implements is SYS_WRITEC-style single-character output via
// R1, keeping parity with the teacher repo's instrumentation-over-
// hardware-emulation philosophy for host/guest collaboration points.
func (m *Machine) handleSemihosting() {
	m.mu.Lock()
	defer m.mu.Unlock()
	r1 := m.cpu.R(1)
	b, err := m.cpu.Read8(r1)
	if err == nil {
		fmt.Fprintf(os.Stderr, "%c", b)
	}
}

// DumpRAM writes MEM1, MEM2, and both SRAM banks to files named
// prefix+suffix, per spec §6's "dump the four RAMs to files on exit".
func (m *Machine) DumpRAM(prefix string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	banks := []struct {
		suffix string
		data   []byte
	}{
		{"mem1.bin", m.mem.mem1.Bytes()},
		{"mem2.bin", m.mem.mem2.Bytes()},
		{"sram-a.bin", m.mem.sramA.Bytes()},
		{"sram-b.bin", m.mem.sramB.Bytes()},
	}
	for _, b := range banks {
		if err := os.WriteFile(prefix+b.suffix, b.data, 0o644); err != nil {
			return fmt.Errorf("emu: dumping %s: %w", b.suffix, err)
		}
	}
	return nil
}

// CPU exposes the core for the debug thread's register inspection
// commands.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// Lock/Unlock/RLock/RUnlock let the PPC bridge and debug backend share
// the Machine's bus lock directly for multi-step sequences (e.g. a
// peek that reads several bytes atomically).
func (m *Machine) Lock()    { m.mu.Lock() }
func (m *Machine) Unlock()  { m.mu.Unlock() }
func (m *Machine) RLock()   { m.mu.RLock() }
func (m *Machine) RUnlock() { m.mu.RUnlock() }
