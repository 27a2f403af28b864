/*
 * Starlet - CPU fetch/decode/execute step loop
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

package cpu

import (
	"fmt"

	"github.com/techflashYT/ironic/internal/armdecode"
	"github.com/techflashYT/ironic/internal/armdispatch"
)

// Bus is the subset of the physical bus the CPU core needs: checked,
// width-specific accesses that already resolved a physical address to
// a device or memory region. The concrete implementation lives in
// internal/bus; defining the interface here keeps this package free of
// a dependency on it.
type Bus interface {
	Read8(pa uint32) (uint8, error)
	Read16(pa uint32) (uint16, error)
	Read32(pa uint32) (uint32, error)
	Write8(pa uint32, v uint8) error
	Write16(pa uint32, v uint16) error
	Write32(pa uint32, v uint32) error
}

// IRQLine reports whether the bus's aggregated ARM-side interrupt line
// is currently asserted.
type IRQLine interface {
	ARMIRQAsserted() bool
}

// CPU is the ARMv5-family interpreter core.
type CPU struct {
	regs regFile
	cpsr uint32

	spsrFIQ, spsrIRQ, spsrSVC, spsrABT, spsrUND uint32

	fetchPC uint32 // address the next instruction will be fetched from

	// thumbBLScratch holds pc + (sign_extend(imm11)<<12) written by a
	// Thumb BL/BLX prefix halfword; the matching suffix halfword reads
	// it to compute the final branch target. A dedicated scratch word,
	// not a generator -- per the spec's coroutine-free design note.
	thumbBLScratch uint32

	// bkptImmed is the last BKPT immediate, surfaced to the host loop.
	bkptImmed uint16

	cp15 CP15

	bus Bus
	irq IRQLine

	armTable   [armdispatch.ARMTableSize]famHandler
	thumbTable [armdispatch.ThumbTableSize]famHandler

	halted bool
}

// New builds a CPU at the ROM reset vector in Supervisor mode, per
// spec §3's lifecycle note, and builds the dispatch tables once.
func New(bus Bus, irq IRQLine) *CPU {
	c := &CPU{bus: bus, irq: irq}
	c.regs.init(ModeSupervisor)
	c.cpsr = uint32(ModeSupervisor) | (1 << cpsrIDis) | (1 << cpsrFDis)
	c.fetchPC = 0xFFFF0000
	c.buildDispatchTables()
	return c
}

func (c *CPU) buildDispatchTables() {
	for i := 0; i < armdispatch.ARMTableSize; i++ {
		op := armdispatch.ARMRepresentative(i)
		kind := armdecode.DecodeARM(op)
		c.armTable[i] = handlerForKind(kind)
	}
	for i := 0; i < armdispatch.ThumbTableSize; i++ {
		op := armdispatch.ThumbRepresentative(i)
		kind := armdecode.DecodeThumb(op)
		c.thumbTable[i] = handlerForKind(kind)
	}
}

// CPSR returns the live status register view.
func (c *CPU) CPSR() CPSR { return CPSR(c.cpsr) }

// CP15 exposes the system control coprocessor for host tooling (e.g. to
// seed an MMU test fixture).
func (c *CPU) CP15() *CP15 { return &c.cp15 }

// R reads general register n (0-15); R15 yields the architectural
// execution PC (fetch PC + 8 ARM / +4 Thumb), not the fetch PC itself.
func (c *CPU) R(n uint8) uint32 {
	if n == 15 {
		return c.ExecPC()
	}
	return c.regs.r[n]
}

// SetR writes general register n. Writing R15 is a branch: see
// WriteExecPC for the semantics instruction handlers should use instead
// of calling this directly for PC.
func (c *CPU) SetR(n uint8, v uint32) {
	if n == 15 {
		c.WriteExecPC(v)
		return
	}
	c.regs.r[n] = v
}

// ReadFetchPC returns the architectural PC value used for instruction
// fetch (not the +8/+4 execution-time value R15 exposes).
func (c *CPU) ReadFetchPC() uint32 { return c.fetchPC }

// ExecPC returns the value an instruction observes as R15 during
// execution: fetch PC + 8 in ARM mode, + 4 in Thumb mode.
func (c *CPU) ExecPC() uint32 {
	if c.CPSR().Thumb() {
		return c.fetchPC + 4
	}
	return c.fetchPC + 8
}

// WriteExecPC sets the next fetch PC, as branches do.
func (c *CPU) WriteExecPC(v uint32) { c.fetchPC = v }

// IncrementPC advances the fetch PC by the current instruction's width
// unless the handler already retired a branch.
func (c *CPU) IncrementPC() {
	if c.CPSR().Thumb() {
		c.fetchPC += 2
	} else {
		c.fetchPC += 4
	}
}

func (c *CPU) vector(info excInfo) uint32 {
	if c.cp15.highVectors() {
		return info.vecHigh
	}
	return info.vecLow
}

func (c *CPU) spsrSlot(m Mode) *uint32 {
	switch bankFor(m) {
	case ModeFIQ:
		return &c.spsrFIQ
	case ModeIRQ:
		return &c.spsrIRQ
	case ModeSupervisor:
		return &c.spsrSVC
	case ModeAbort:
		return &c.spsrABT
	case ModeUndefined:
		return &c.spsrUND
	}
	return nil // User/System have no SPSR
}

// GenerateException switches mode, banks SPSR, computes and stores the
// return address, masks interrupts per the kind, and sets fetch PC to
// the kind's vector.
func (c *CPU) GenerateException(kind ExceptionKind) {
	info := excTable[kind]
	retAddr := c.fetchPC + info.pcDelta

	newMode := info.mode
	c.regs.switchMode(newMode)
	if slot := c.spsrSlot(newMode); slot != nil {
		*slot = c.cpsr
	}
	c.regs.r[14] = retAddr

	c.cpsr = setBit(c.cpsr, cpsrThumb, false)
	c.cpsr = setBit(c.cpsr, cpsrIDis, true)
	if info.setFIQDisable {
		c.cpsr = setBit(c.cpsr, cpsrFDis, true)
	}
	c.cpsr = (c.cpsr &^ cpsrModeMask) | uint32(newMode)

	c.fetchPC = c.vector(info)
}

// ExceptionReturn restores CPSR from the current mode's SPSR (rebanking
// registers), sets fetch PC to newPC & ~1, and takes the Thumb bit from
// newPC's low bit. Used by LDM...^ and MOVS pc,lr-style returns.
func (c *CPU) ExceptionReturn(newPC uint32) {
	if slot := c.spsrSlot(c.regs.mode); slot != nil {
		saved := *slot
		c.regs.switchMode(Mode(saved & cpsrModeMask))
		c.cpsr = saved
	}
	c.fetchPC = newPC &^ 1
	c.cpsr = setBit(c.cpsr, cpsrThumb, newPC&1 != 0)
}

// Read8/16/32 and Write8/16/32 always go through translate() then the
// bus, per spec §4.5.
func (c *CPU) Read8(vaddr uint32) (uint8, error) {
	pa, err := c.translate(TranslateRequest{VAddr: vaddr, Kind: AccessRead})
	if err != nil {
		return 0, err
	}
	return c.bus.Read8(pa)
}

func (c *CPU) Read16(vaddr uint32) (uint16, error) {
	pa, err := c.translate(TranslateRequest{VAddr: vaddr, Kind: AccessRead})
	if err != nil {
		return 0, err
	}
	return c.bus.Read16(pa)
}

func (c *CPU) Read32(vaddr uint32) (uint32, error) {
	pa, err := c.translate(TranslateRequest{VAddr: vaddr, Kind: AccessRead})
	if err != nil {
		return 0, err
	}
	return c.bus.Read32(pa)
}

func (c *CPU) Write8(vaddr uint32, v uint8) error {
	pa, err := c.translate(TranslateRequest{VAddr: vaddr, Kind: AccessWrite})
	if err != nil {
		return err
	}
	return c.bus.Write8(pa, v)
}

func (c *CPU) Write16(vaddr uint32, v uint16) error {
	pa, err := c.translate(TranslateRequest{VAddr: vaddr, Kind: AccessWrite})
	if err != nil {
		return err
	}
	return c.bus.Write16(pa, v)
}

func (c *CPU) Write32(vaddr uint32, v uint32) error {
	pa, err := c.translate(TranslateRequest{VAddr: vaddr, Kind: AccessWrite})
	if err != nil {
		return err
	}
	return c.bus.Write32(pa, v)
}

// Halted reports whether the CPU has stopped. No instruction sets the
// flag: BKPT only records its immediate, so Halted stays false.
func (c *CPU) Halted() bool { return c.halted }

// Step runs exactly one spec §2 CPU step: sample IRQ, possibly take an
// exception, else fetch/decode/dispatch one instruction and advance PC.
// The caller runs one bus.Step() after it in the same cycle (see
// emu.Machine.Step).
func (c *CPU) Step() StepResult {
	if c.halted {
		return StepResult{Kind: StepHalt}
	}

	if c.irq != nil && !c.CPSR().IRQDisabled() && c.irq.ARMIRQAsserted() {
		c.GenerateException(ExcIrq)
		return StepResult{Kind: StepException, Exc: ExcIrq}
	}

	if c.CPSR().Thumb() {
		return c.stepThumb()
	}
	return c.stepARM()
}

func (c *CPU) stepARM() StepResult {
	op, err := c.Read32(c.fetchPC)
	if err != nil {
		return StepResult{Kind: StepFatal, Reason: fmt.Sprintf("fetch: %v", err)}
	}

	cond := uint8(op >> 28)
	var res DispatchRes
	if cond == 0xF {
		res = hBranchLinkExchangeImm(c, op)
	} else if !condPass(c.CPSR(), cond) {
		res = CondFailed
	} else {
		idx := armdispatch.ARMIndex(op)
		res = c.armTable[idx](c, op)
	}

	return c.finishStep(res)
}

func (c *CPU) stepThumb() StepResult {
	op16, err := c.Read16(c.fetchPC)
	if err != nil {
		return StepResult{Kind: StepFatal, Reason: fmt.Sprintf("fetch: %v", err)}
	}
	idx := armdispatch.ThumbIndex(op16)
	res := c.thumbTable[idx](c, uint32(op16))
	return c.finishStep(res)
}

func (c *CPU) finishStep(res DispatchRes) StepResult {
	switch res {
	case RetireOk, CondFailed:
		c.IncrementPC()
		return StepResult{Kind: StepOk}
	case RetireBranch:
		return StepResult{Kind: StepBranch}
	case ResBreakpoint:
		c.IncrementPC()
		return StepResult{Kind: StepOk, Immed: c.bkptImmed}
	case ResSemihosting:
		c.IncrementPC()
		return StepResult{Kind: StepSemihosting}
	case ResException:
		return StepResult{Kind: StepException}
	default:
		return StepResult{Kind: StepFatal, Reason: "handler returned fatal error"}
	}
}

// condPass evaluates an ARM condition code against the live flags.
func condPass(p CPSR, cond uint8) bool {
	n, z, c2, v := p.N(), p.Z(), p.C(), p.V()
	switch cond {
	case 0x0:
		return z // EQ
	case 0x1:
		return !z // NE
	case 0x2:
		return c2 // CS/HS
	case 0x3:
		return !c2 // CC/LO
	case 0x4:
		return n // MI
	case 0x5:
		return !n // PL
	case 0x6:
		return v // VS
	case 0x7:
		return !v // VC
	case 0x8:
		return c2 && !z // HI
	case 0x9:
		return !c2 || z // LS
	case 0xA:
		return n == v // GE
	case 0xB:
		return n != v // LT
	case 0xC:
		return !z && n == v // GT
	case 0xD:
		return z || n != v // LE
	case 0xE:
		return true // AL
	default:
		return false // 0xF reserved/unconditional, handled by the caller
	}
}
