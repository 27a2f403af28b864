/*
 * Starlet - SHA-1 engine: a command register that streams and hashes message blocks into a 5-word digest
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

// Package sha models the Starlet's SHA-1 engine: a command register
// that triggers a DMA read of ((cmd&0xFFF)+1)*64 bytes from a source
// pointer, hashed in 512-bit blocks into a 5-word digest, with an
// optional completion IRQ. Grounded on the teacher repo's device
// command-register idiom (cpu/cpudefs.go's SIO-style command
// dispatch) adapted to a streaming crypto engine.
package sha

import (
	"encoding/binary"

	"github.com/techflashYT/ironic/internal/devices/regio"
	"github.com/techflashYT/ironic/internal/irq"
)

const (
	regCtrl   = 0x00 // command register: bit31 = execute, bits[11:0] = block count - 1
	regSrc    = 0x04
	regH0     = 0x08
	regH1     = 0x0C
	regH2     = 0x10
	regH3     = 0x14
	regH4     = 0x18

	cmdExecute = 1 << 31
)

// DMASource lets the engine stream bytes out of the bus without the
// device package importing internal/bus (keeps the dependency graph a
// DAG: bus depends on nothing device-specific, devices depend on bus's
// exported interfaces only where unavoidable).
type DMASource interface {
	DMARead(pa uint32, dst []byte) error
}

// Scheduler defers a side effect to the bus's next Step drain phase
// instead of running it inline in the register write, per spec §3/§5:
// a bus task, not a synchronous side effect of the write handler.
type Scheduler interface {
	ScheduleNextStep(cb func())
}

// Engine is the SHA-1 device's register file and live digest.
type Engine struct {
	regs   [0x1C]byte
	digest [5]uint32

	bus   DMASource
	irq   *irq.Controller
	sched Scheduler
}

func New(bus DMASource, ic *irq.Controller, sched Scheduler) *Engine {
	e := &Engine{bus: bus, irq: ic, sched: sched}
	e.resetDigest()
	return e
}

func (e *Engine) resetDigest() {
	e.digest = [5]uint32{0x67452301, 0xEFCDAB89, 0x98BADCFE, 0x10325476, 0xC3D2E1F0}
	e.syncDigestRegs()
}

func (e *Engine) syncDigestRegs() {
	_ = regio.Put32(e.regs[:], regH0, e.digest[0])
	_ = regio.Put32(e.regs[:], regH1, e.digest[1])
	_ = regio.Put32(e.regs[:], regH2, e.digest[2])
	_ = regio.Put32(e.regs[:], regH3, e.digest[3])
	_ = regio.Put32(e.regs[:], regH4, e.digest[4])
}

func (e *Engine) Read8(off uint32) (uint8, error)  { return regio.Get8(e.regs[:], off) }
func (e *Engine) Read16(off uint32) (uint16, error) { return regio.Get16(e.regs[:], off) }
func (e *Engine) Read32(off uint32) (uint32, error) { return regio.Get32(e.regs[:], off) }

func (e *Engine) Write8(off uint32, v uint8) error { return regio.Put8(e.regs[:], off, v) }
func (e *Engine) Write16(off uint32, v uint16) error { return regio.Put16(e.regs[:], off, v) }

func (e *Engine) Write32(off uint32, v uint32) error {
	if off != regCtrl {
		return regio.Put32(e.regs[:], off, v)
	}
	if v&cmdExecute == 0 {
		return regio.Put32(e.regs[:], off, v)
	}
	src, err := regio.Get32(e.regs[:], regSrc)
	if err != nil {
		return err
	}
	blocks := (v & 0xFFF) + 1
	// Leave the execute bit set (busy) until the deferred task below
	// clears it, so a guest polling HW_SHA_CTRL sees the engine busy
	// across the write, not done inline.
	if err := regio.Put32(e.regs[:], off, v); err != nil {
		return err
	}
	task := func() {
		e.run(src, int(blocks))
		_ = regio.Put32(e.regs[:], regSrc, src+blocks*64)
		_ = regio.Put32(e.regs[:], regCtrl, v&^cmdExecute)
		if e.irq != nil {
			e.irq.Assert(irq.SideARM, irq.Sha)
		}
	}
	if e.sched != nil {
		e.sched.ScheduleNextStep(task)
	} else {
		task()
	}
	return nil
}

func (e *Engine) run(src uint32, blocks int) {
	buf := make([]byte, 64)
	for i := 0; i < blocks; i++ {
		if e.bus == nil {
			break
		}
		if err := e.bus.DMARead(src+uint32(i)*64, buf); err != nil {
			break
		}
		e.processBlock(buf)
	}
	e.syncDigestRegs()
}

// processBlock is the standard FIPS 180-1 SHA-1 compression function.
func (e *Engine) processBlock(block []byte) {
	var w [80]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4:])
	}
	for i := 16; i < 80; i++ {
		w[i] = rol(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
	}

	a, b, c, d, f := e.digest[0], e.digest[1], e.digest[2], e.digest[3], e.digest[4]

	for i := 0; i < 80; i++ {
		var fn, k uint32
		switch {
		case i < 20:
			fn = (b & c) | (^b & d)
			k = 0x5A827999
		case i < 40:
			fn = b ^ c ^ d
			k = 0x6ED9EBA1
		case i < 60:
			fn = (b & c) | (b & d) | (c & d)
			k = 0x8F1BBCDC
		default:
			fn = b ^ c ^ d
			k = 0xCA62C1D6
		}
		temp := rol(a, 5) + fn + f + k + w[i]
		f, d, c, b, a = d, c, rol(b, 30), a, temp
	}

	e.digest[0] += a
	e.digest[1] += b
	e.digest[2] += c
	e.digest[3] += d
	e.digest[4] += f
}

func rol(v uint32, n uint) uint32 { return (v << n) | (v >> (32 - n)) }

// Digest returns a copy of the current 5-word digest, for tests. (The
// OTP device's boot1-hash check uses crypto/sha1, not this engine.)
func (e *Engine) Digest() [5]uint32 { return e.digest }
