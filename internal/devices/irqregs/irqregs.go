/*
 * Starlet - MMIO register views over the interrupt aggregator, one per CPU side
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

// Package irqregs exposes internal/irq's two-sided controller as a pair
// of MMIO register blocks (the ARM view and the PPC view each get their
// own bus region, matching Hollywood's split address windows). Grounded
// on the teacher repo's device register-accessor idiom; kept separate
// from package irq itself so irq stays free of a bus dependency.
package irqregs

import (
	"github.com/techflashYT/ironic/internal/devices/regio"
	"github.com/techflashYT/ironic/internal/irq"
)

const (
	regStatus    = 0x00
	regEnable    = 0x04
	regFIQEnable = 0x08 // ARM block only
	regTimer     = 0x0C
	regAlarm     = 0x10
)

// ARMBlock backs the ARM-side status/enable/FIQ-enable/timer/alarm
// registers.
type ARMBlock struct {
	ic *irq.Controller
}

func NewARMBlock(ic *irq.Controller) *ARMBlock { return &ARMBlock{ic: ic} }

func (b *ARMBlock) Read8(off uint32) (uint8, error) {
	v, err := b.Read32(off &^ 3)
	return byte(v >> ((3 - off&3) * 8)), err
}
func (b *ARMBlock) Read16(off uint32) (uint16, error) {
	v, err := b.Read32(off &^ 3)
	if off&3 == 0 {
		return uint16(v >> 16), err
	}
	return uint16(v), err
}

func (b *ARMBlock) Read32(off uint32) (uint32, error) {
	switch off {
	case regStatus:
		return b.ic.ReadARMStatus(), nil
	case regEnable:
		return b.ic.ReadARMEnable(), nil
	case regFIQEnable:
		return b.ic.ReadARMFIQEnable(), nil
	case regTimer:
		return b.ic.ReadTimer(), nil
	case regAlarm:
		return b.ic.ReadAlarm(), nil
	}
	return 0, &regio.RangeError{Offset: off, Width: 4, Size: 0x14}
}

func (b *ARMBlock) Write8(off uint32, v uint8) error  { return b.Write32(off&^3, uint32(v)) }
func (b *ARMBlock) Write16(off uint32, v uint16) error { return b.Write32(off&^3, uint32(v)) }

func (b *ARMBlock) Write32(off uint32, v uint32) error {
	switch off {
	case regStatus:
		b.ic.WriteARMStatus(v)
	case regEnable:
		b.ic.WriteARMEnable(v)
	case regFIQEnable:
		b.ic.WriteARMFIQEnable(v)
	case regAlarm:
		b.ic.SetAlarm(v)
	default:
		return &regio.RangeError{Offset: off, Width: 4, Size: 0x14}
	}
	return nil
}

// PPCBlock backs the PPC-side status/enable registers.
type PPCBlock struct {
	ic *irq.Controller
}

func NewPPCBlock(ic *irq.Controller) *PPCBlock { return &PPCBlock{ic: ic} }

func (b *PPCBlock) Read8(off uint32) (uint8, error) {
	v, err := b.Read32(off &^ 3)
	return byte(v >> ((3 - off&3) * 8)), err
}
func (b *PPCBlock) Read16(off uint32) (uint16, error) {
	v, err := b.Read32(off &^ 3)
	if off&3 == 0 {
		return uint16(v >> 16), err
	}
	return uint16(v), err
}

func (b *PPCBlock) Read32(off uint32) (uint32, error) {
	switch off {
	case regStatus:
		return b.ic.ReadPPCStatus(), nil
	case regEnable:
		return b.ic.ReadPPCEnable(), nil
	}
	return 0, &regio.RangeError{Offset: off, Width: 4, Size: 0x08}
}

func (b *PPCBlock) Write8(off uint32, v uint8) error  { return b.Write32(off&^3, uint32(v)) }
func (b *PPCBlock) Write16(off uint32, v uint16) error { return b.Write32(off&^3, uint32(v)) }

func (b *PPCBlock) Write32(off uint32, v uint32) error {
	switch off {
	case regStatus:
		b.ic.WritePPCStatus(v)
	case regEnable:
		b.ic.WritePPCEnable(v)
	default:
		return &regio.RangeError{Offset: off, Width: 4, Size: 0x08}
	}
	return nil
}
