/*
 * Starlet - GPIO block: PPC and ARM output/direction/input/interrupt registers
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

// Package gpio models the Starlet's GPIO block (PPC and ARM
// sub-blocks: output/direction/input/interrupt-level/flag/mask/straps/
// owner) and the bit-banged SEEPROM state machine driven off the ARM
// output register's SEEPROM pin group. Grounded on the teacher repo's
// device register-diff idiom (compare old vs new bytes, dispatch to a
// per-bit effect routine) generalized to a GPIO pin interface.
package gpio

import (
	"log/slog"

	"github.com/techflashYT/ironic/internal/devices/regio"
)

// SEEPROM pin assignment within the ARM GPIO output register.
const (
	pinSEEPROMClk = 1 << 0
	pinSEEPROMCS  = 1 << 1
	pinSEEPROMMOSI = 1 << 2
	pinSEEPROMMISO = 1 << 3
)

const (
	regOutPPC = 0x00
	regDirPPC = 0x04
	regInPPC  = 0x08
	regOutARM = 0x0C
	regDirARM = 0x10
	regInARM  = 0x14
	regIntLvl = 0x18
	regIntFlag = 0x1C
	regIntMask = 0x20
	regStraps = 0x24
	regOwner  = 0x28
)

type seepromOp int

const (
	opNone seepromOp = iota
	opRead
	opWrite
	opErase
	opExtended
)

// seeprom is the bit-banged 256-byte, 16-bit-word serial EEPROM state
// machine described in spec §4.10.
type seeprom struct {
	store [256]byte // 128 words, 2 bytes each

	csActive  bool
	bitCount  int
	shiftIn   uint32
	op        seepromOp
	addr      uint8
	writeEnable bool

	readShift uint16
	misoBit   bool
}

func newSEEPROM(image []byte) *seeprom {
	s := &seeprom{}
	copy(s.store[:], image)
	return s
}

func (s *seeprom) wordAt(addr uint8) uint16 {
	i := int(addr) * 2
	if i+2 > len(s.store) {
		return 0
	}
	return uint16(s.store[i])<<8 | uint16(s.store[i+1])
}

func (s *seeprom) setWordAt(addr uint8, v uint16) {
	i := int(addr) * 2
	if i+2 > len(s.store) {
		return
	}
	s.store[i] = uint8(v >> 8)
	s.store[i+1] = uint8(v)
}

// step runs one rising clock edge while CS is held high.
func (s *seeprom) step(mosi bool) {
	if !s.csActive {
		return
	}
	s.shiftIn = (s.shiftIn << 1)
	if mosi {
		s.shiftIn |= 1
	}
	s.bitCount++

	switch s.bitCount {
	case 3:
		switch s.shiftIn & 0x3 {
		case 0x0:
			s.op = opExtended
		case 0x1:
			s.op = opWrite
		case 0x2:
			s.op = opRead
		case 0x3:
			s.op = opErase
		}
	case 5:
		if s.op == opExtended {
			switch s.shiftIn & 0x3 {
			case 0x0:
				s.writeEnable = false // EWDS
			case 0x3:
				s.writeEnable = true // EWEN
			}
		}
	case 11:
		s.addr = uint8(s.shiftIn & 0xFF)
		if s.op == opRead {
			s.readShift = s.wordAt(s.addr)
		}
	case 27:
		if s.op == opWrite {
			data := uint16(s.shiftIn & 0xFFFF)
			if s.writeEnable {
				s.setWordAt(s.addr, data)
			}
		}
	}

	if s.op == opRead && s.bitCount > 11 && s.bitCount <= 27 {
		s.misoBit = s.readShift&(1<<15) != 0
		s.readShift <<= 1
	}
}

func (s *seeprom) setCS(active bool) {
	if !active {
		s.bitCount = 0
		s.shiftIn = 0
		s.op = opNone
	}
	s.csActive = active
}

// Block is the GPIO device: both register sub-blocks plus the attached
// SEEPROM.
type Block struct {
	regs [0x2C]byte
	see  *seeprom
	log  *slog.Logger

	lastARMOut uint32
}

func New(seepromImage []byte, log *slog.Logger) *Block {
	return &Block{see: newSEEPROM(seepromImage), log: log}
}

func (b *Block) Read8(off uint32) (uint8, error)  { return regio.Get8(b.regs[:], off) }
func (b *Block) Read16(off uint32) (uint16, error) { return regio.Get16(b.regs[:], off) }

func (b *Block) Read32(off uint32) (uint32, error) {
	if off == regInARM {
		v, err := regio.Get32(b.regs[:], regInARM)
		if err != nil {
			return 0, err
		}
		if b.see.misoBit {
			v |= pinSEEPROMMISO
		} else {
			v &^= pinSEEPROMMISO
		}
		return v, nil
	}
	return regio.Get32(b.regs[:], off)
}

func (b *Block) Write8(off uint32, v uint8) error { return regio.Put8(b.regs[:], off, v) }
func (b *Block) Write16(off uint32, v uint16) error { return regio.Put16(b.regs[:], off, v) }

func (b *Block) Write32(off uint32, v uint32) error {
	if off != regOutARM {
		return regio.Put32(b.regs[:], off, v)
	}

	old := b.lastARMOut
	if err := regio.Put32(b.regs[:], regOutARM, v); err != nil {
		return err
	}
	b.lastARMOut = v

	changedSEEPROM := (old ^ v) & (pinSEEPROMClk | pinSEEPROMCS | pinSEEPROMMOSI)
	if changedSEEPROM&pinSEEPROMCS != 0 {
		b.see.setCS(v&pinSEEPROMCS != 0)
	}
	if changedSEEPROM&pinSEEPROMClk != 0 && v&pinSEEPROMClk != 0 {
		b.see.step(v&pinSEEPROMMOSI != 0)
	}

	if other := (old ^ v) &^ (pinSEEPROMClk | pinSEEPROMCS | pinSEEPROMMOSI); other != 0 && b.log != nil {
		b.log.Debug("gpio arm output change", "bits", other, "value", v)
	}
	return nil
}
