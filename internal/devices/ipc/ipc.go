/*
 * Starlet - ARM<->PPC mailbox: message registers and request/ack control flags
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

// Package ipc models the ARM<->PPC mailbox: two message words and four
// control flags (ppc_req, ppc_ack, arm_req, arm_ack), wired so either
// side raising its "req" flag asserts the other side's IPC interrupt.
// Grounded on the teacher repo's device control-flag idiom.
package ipc

import (
	"github.com/techflashYT/ironic/internal/devices/regio"
	"github.com/techflashYT/ironic/internal/irq"
)

const (
	regArmMsg  = 0x00 // ARM -> PPC message
	regArmCtrl = 0x04 // bit0 = arm_req (ARM writes to signal PPC), bit1 = arm_ack
	regPpcMsg  = 0x08 // PPC -> ARM message
	regPpcCtrl = 0x0C // bit0 = ppc_req, bit1 = ppc_ack

	flagReq = 1 << 0
	flagAck = 1 << 1
)

// Mailbox is the IPC device's register file.
type Mailbox struct {
	regs [0x10]byte
	irq  *irq.Controller
}

func New(ic *irq.Controller) *Mailbox { return &Mailbox{irq: ic} }

func (m *Mailbox) Read8(off uint32) (uint8, error)  { return regio.Get8(m.regs[:], off) }
func (m *Mailbox) Read16(off uint32) (uint16, error) { return regio.Get16(m.regs[:], off) }
func (m *Mailbox) Read32(off uint32) (uint32, error) { return regio.Get32(m.regs[:], off) }

func (m *Mailbox) Write8(off uint32, v uint8) error { return regio.Put8(m.regs[:], off, v) }
func (m *Mailbox) Write16(off uint32, v uint16) error { return regio.Put16(m.regs[:], off, v) }

func (m *Mailbox) Write32(off uint32, v uint32) error {
	if err := regio.Put32(m.regs[:], off, v); err != nil {
		return err
	}
	switch off {
	case regArmCtrl:
		if v&flagReq != 0 && m.irq != nil {
			m.irq.Assert(irq.SidePPC, irq.PpcIpc)
		}
	case regPpcCtrl:
		if v&flagReq != 0 && m.irq != nil {
			m.irq.Assert(irq.SideARM, irq.ArmIpc)
		}
	}
	return nil
}

// ReadARMMessage/WriteARMMessage let the PPC-bridge goroutine drive the
// mailbox directly (it runs on the host side of the simulated PPC, not
// through the ARM CPU's bus accessors).
func (m *Mailbox) ReadARMMessage() uint32  { v, _ := regio.Get32(m.regs[:], regArmMsg); return v }
func (m *Mailbox) WritePPCMessage(v uint32) { _ = regio.Put32(m.regs[:], regPpcMsg, v) }
