/*
 * Starlet - Hollywood control block: clock sequencing and ROM/mirror remap latches
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

// Package hwctl models the Hollywood control block's core registers:
// the FX/DSPLL-reset/SPEED clock sequence, the ROM-disable and SRAM-
// mirror-enable latches (which schedule deferred bus remaps), and the
// ARM debug-interrupt-enable register that real hardware silently
// ignores. Grounded on the teacher repo's device write-handler idiom,
// generalized to also resolve spec's two flagged ambiguous behaviors
// (clock-register write order, HW_DBGINTEN) via an explicit Config.
package hwctl

import (
	"log/slog"

	"github.com/techflashYT/ironic/internal/devices/regio"
)

const (
	regFX          = 0x00
	regDSPLLReset  = 0x04
	regSpeed       = 0x08
	regRomDisable  = 0x10
	regMirrorEnable = 0x14
	regDBGINTEN    = 0x2C
)

// step tags where in the FX -> DSPLL-reset -> SPEED sequence the
// controller currently is.
type step int

const (
	stepNone step = iota
	stepFX
	stepDSPLL
	stepSpeed
)

// RemapSink is notified when rom_disabled/mirror_enabled flip, so the
// bus can schedule the deferred remap task spec §4.7 describes.
type RemapSink interface {
	SetROMDisabled(bool)
	SetMirrorEnabled(bool)
}

// Scheduler defers a remap flip to the bus's next Step drain phase
// instead of applying it inline in the register write, per spec §3/§5.
type Scheduler interface {
	ScheduleNextStep(cb func())
}

// Controller is the Hollywood control block's core register file.
type Controller struct {
	regs [0x30]byte

	strictClockOrder bool
	seq              step

	remap RemapSink
	log   *slog.Logger
	sched Scheduler
}

func New(strictClockOrder bool, remap RemapSink, log *slog.Logger, sched Scheduler) *Controller {
	return &Controller{strictClockOrder: strictClockOrder, remap: remap, log: log, sched: sched}
}

func (c *Controller) Read8(off uint32) (uint8, error)  { return regio.Get8(c.regs[:], off) }
func (c *Controller) Read16(off uint32) (uint16, error) { return regio.Get16(c.regs[:], off) }
func (c *Controller) Read32(off uint32) (uint32, error) { return regio.Get32(c.regs[:], off) }

func (c *Controller) Write8(off uint32, v uint8) error { return regio.Put8(c.regs[:], off, v) }
func (c *Controller) Write16(off uint32, v uint16) error { return regio.Put16(c.regs[:], off, v) }

func (c *Controller) Write32(off uint32, v uint32) error {
	switch off {
	case regDBGINTEN:
		// REDESIGN: the source ignores this write outright; keep that
		// behavior but make it observable via logging instead of silent.
		if c.log != nil {
			c.log.Debug("hwctl: HW_DBGINTEN write ignored", "value", v)
		}
		return nil

	case regFX:
		c.checkClockOrder(stepFX)
		c.seq = stepFX
	case regDSPLLReset:
		c.checkClockOrder(stepDSPLL)
		c.seq = stepDSPLL
	case regSpeed:
		c.checkClockOrder(stepSpeed)
		c.seq = stepNone

	case regRomDisable:
		if c.remap != nil {
			bit := v&1 != 0
			if c.sched != nil {
				c.sched.ScheduleNextStep(func() { c.remap.SetROMDisabled(bit) })
			} else {
				c.remap.SetROMDisabled(bit)
			}
		}
	case regMirrorEnable:
		if c.remap != nil {
			bit := v&1 != 0
			if c.sched != nil {
				c.sched.ScheduleNextStep(func() { c.remap.SetMirrorEnabled(bit) })
			} else {
				c.remap.SetMirrorEnabled(bit)
			}
		}
	}
	return regio.Put32(c.regs[:], off, v)
}

// checkClockOrder logs a warning when a clock register is written out
// of FX -> DSPLL-reset -> SPEED order. It does not reject or hold back
// the write in either mode: the write is always stored, and
// strictClockOrder only appears as a field of the warning.
func (c *Controller) checkClockOrder(want step) {
	expected := map[step]step{stepFX: stepNone, stepDSPLL: stepFX, stepSpeed: stepDSPLL}
	if c.seq != expected[want] {
		if c.log != nil {
			c.log.Warn("hwctl: clock register written out of FX/DSPLL/SPEED order", "strict", c.strictClockOrder)
		}
	}
}
