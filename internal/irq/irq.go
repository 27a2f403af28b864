/*
 * Starlet - Hollywood interrupt aggregator: per-side status/enable registers and a free-running alarm timer
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

// Package irq implements the Hollywood interrupt aggregator (separate
// status/enable per side, write-1-to-clear) and its 128-cycle alarm
// timer, per spec §4.8. Grounded on the teacher repo's emu/sys_channel
// IRQ aggregation idiom, generalized from the S/370's single interrupt
// pending flag to a masked multi-source bitmask.
package irq

// Source bit positions shared by the ARM and PPC status/enable words.
// These pin the real Hollywood MMIO layout (not a dense enumeration):
// gaps at 0x200, 0x1000-0x1FFFF and 0x80000-0x3FFFFFFF are reserved on
// actual hardware and left unused here too, so a guest enabling e.g.
// ArmIpc (bit31) can't be confused with a neighboring source.
const (
	Timer   = 0x0000_0001
	Nand    = 0x0000_0002
	Aes     = 0x0000_0004
	Sha     = 0x0000_0008
	Ehci    = 0x0000_0010
	Ohci0   = 0x0000_0020
	Ohci1   = 0x0000_0040
	Sdhc    = 0x0000_0080
	Wifi    = 0x0000_0100
	PpcGpio = 0x0000_0400
	ArmGpio = 0x0000_0800
	RstBtn  = 0x0002_0000
	Di      = 0x0004_0000
	PpcIpc  = 0x4000_0000
	ArmIpc  = 0x8000_0000
)

const timerPeriodCycles = 128

// Controller holds the two-sided status/enable registers and the free
// running alarm timer. Assert sets status bits gated by the matching
// enable register; status bits clear only on an explicit write-1.
type Controller struct {
	armStatus, armEnable uint32
	fiqEnable            uint32
	ppcStatus, ppcEnable uint32

	armOut, ppcOut bool

	cycleCount uint32
	timerCount uint32
	alarm      uint32
}

// New builds a Controller with both sides masked off.
func New() *Controller { return &Controller{} }

// Assert raises src on the named side only if the matching enable bit
// is set there (on the ARM side, in either the IRQ or the FIQ enable
// register), then recomputes that side's aggregated output line. A
// source asserted while masked is dropped outright, not latched: the
// original leaves WriteARMEnable/WritePPCEnable with no retroactive
// effect on status bits set before the mask changed.
func (c *Controller) Assert(side Side, src uint32) {
	switch side {
	case SideARM:
		if (c.armEnable|c.fiqEnable)&src != 0 {
			c.armStatus |= src
			c.recomputeARM()
		}
	case SidePPC:
		if c.ppcEnable&src != 0 {
			c.ppcStatus |= src
			c.recomputePPC()
		}
	}
}

// Side distinguishes the ARM and PPC aggregation halves.
type Side int

const (
	SideARM Side = iota
	SidePPC
)

func (c *Controller) recomputeARM() { c.armOut = c.armStatus&c.armEnable != 0 }
func (c *Controller) recomputePPC() { c.ppcOut = c.ppcStatus&c.ppcEnable != 0 }

// ARMIRQAsserted implements cpu.IRQLine.
func (c *Controller) ARMIRQAsserted() bool { return c.armOut }

// ARMFIQAsserted reports the FIQ-gated aggregation (a distinct enable
// mask over the same status bits).
func (c *Controller) ARMFIQAsserted() bool { return c.armStatus&c.fiqEnable != 0 }

func (c *Controller) PPCIRQAsserted() bool { return c.ppcOut }

// ReadStatus/WriteStatus and ReadEnable/WriteEnable back the ARM/PPC
// IRQ MMIO registers; WriteStatus is write-1-to-clear.
func (c *Controller) ReadARMStatus() uint32  { return c.armStatus }
func (c *Controller) WriteARMStatus(v uint32) {
	c.armStatus &^= v
	c.recomputeARM()
}
func (c *Controller) ReadARMEnable() uint32    { return c.armEnable }
func (c *Controller) WriteARMEnable(v uint32) { c.armEnable = v; c.recomputeARM() }

func (c *Controller) ReadARMFIQEnable() uint32  { return c.fiqEnable }
func (c *Controller) WriteARMFIQEnable(v uint32) { c.fiqEnable = v }

func (c *Controller) ReadPPCStatus() uint32 { return c.ppcStatus }
func (c *Controller) WritePPCStatus(v uint32) {
	c.ppcStatus &^= v
	c.recomputePPC()
}
func (c *Controller) ReadPPCEnable() uint32    { return c.ppcEnable }
func (c *Controller) WritePPCEnable(v uint32) { c.ppcEnable = v; c.recomputePPC() }

// SetAlarm programs the timer compare register.
func (c *Controller) SetAlarm(v uint32) { c.alarm = v }
func (c *Controller) ReadTimer() uint32 { return c.timerCount }
func (c *Controller) ReadAlarm() uint32 { return c.alarm }

// Step advances the bus-cycle counter and, every 128 cycles, the
// timer; asserts the Timer source on both sides when it reaches the
// alarm value.
func (c *Controller) Step() {
	c.cycleCount++
	if c.cycleCount < timerPeriodCycles {
		return
	}
	c.cycleCount = 0
	c.timerCount++
	if c.timerCount == c.alarm {
		c.Assert(SideARM, Timer)
		c.Assert(SidePPC, Timer)
	}
}
