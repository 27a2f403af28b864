/*
 * Starlet - Register-latch MMIO stub for peripherals this core doesn't model behaviorally
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

// Package stub implements the register-latch MMIO stub used for every
// Starlet peripheral this core doesn't model behaviorally (SI, VI, DSP,
// AI, the legacy Flipper-compatible blocks, EHCI/OHCI, AES, NAND,
// MI/DDR): reads return whatever was last written,
// zero-initialized, per spec §3's "zero-initialized then patched with
// hardware-initial values" device lifecycle. Grounded on the teacher
// repo's pattern of a flat register-file byte buffer per device.
package stub

import "github.com/techflashYT/ironic/internal/devices/regio"

// Latch is a passive register block: every device/offset pair just
// remembers its last write.
type Latch struct {
	name string
	regs []byte
}

// New builds a latch of the given byte size; each offset in initial is
// pre-seeded with its 32-bit value (e.g. a revision/version ID).
// initial may be nil.
func New(name string, size uint32, initial map[uint32]uint32) *Latch {
	l := &Latch{name: name, regs: make([]byte, size)}
	for off, v := range initial {
		_ = regio.Put32(l.regs, off, v)
	}
	return l
}

func (l *Latch) Name() string { return l.name }

func (l *Latch) Read8(off uint32) (uint8, error)  { return regio.Get8(l.regs, off) }
func (l *Latch) Read16(off uint32) (uint16, error) { return regio.Get16(l.regs, off) }
func (l *Latch) Read32(off uint32) (uint32, error) { return regio.Get32(l.regs, off) }

func (l *Latch) Write8(off uint32, v uint8) error  { return regio.Put8(l.regs, off, v) }
func (l *Latch) Write16(off uint32, v uint16) error { return regio.Put16(l.regs, off, v) }
func (l *Latch) Write32(off uint32, v uint32) error { return regio.Put32(l.regs, off, v) }
