/*
 * Starlet - Tests for the GPIO block
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

package gpio

import "testing"

// clockBits drives one rising edge per bit, MSB first, while CS stays
// high, mirroring the protocol description in spec §4.10.
func clockBits(s *seeprom, bits ...int) {
	for _, b := range bits {
		s.step(b != 0)
	}
}

func TestSEEPROMWriteThenRead(t *testing.T) {
	s := newSEEPROM(nil)
	s.setCS(true)

	// EWEN: start(1) + ext-family(00) + sub-opcode(11)
	clockBits(s, 1, 0, 0, 1, 1)
	s.setCS(false)
	if !s.writeEnable {
		t.Fatal("EWEN should have set writeEnable")
	}

	// WRITE addr 0x05 = 0000_0101, data 0xBEEF
	s.setCS(true)
	addr := []int{0, 0, 0, 0, 0, 1, 0, 1}
	data := []int{1, 0, 1, 1, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 1} // 0xBEEF
	clockBits(s, 1, 0, 1) // start + write-family(01)
	clockBits(s, addr...)
	clockBits(s, data...)
	s.setCS(false)

	if got := s.wordAt(0x05); got != 0xBEEF {
		t.Fatalf("stored word = 0x%04x, want 0xBEEF", got)
	}

	// READ addr 0x05 and recover the word bit-by-bit from MISO.
	s.setCS(true)
	clockBits(s, 1, 1, 0) // start + read-family(10)
	clockBits(s, addr...)
	var recovered uint16
	for i := 0; i < 16; i++ {
		s.step(false) // MOSI irrelevant once in the data phase
		recovered <<= 1
		if s.misoBit {
			recovered |= 1
		}
	}
	s.setCS(false)

	if recovered != 0xBEEF {
		t.Errorf("recovered word = 0x%04x, want 0xBEEF", recovered)
	}
}

func TestSEEPROMWriteBlockedWithoutEWEN(t *testing.T) {
	s := newSEEPROM(nil)
	s.setCS(true)
	clockBits(s, 1, 0, 1) // write-family, no prior EWEN
	clockBits(s, 0, 0, 0, 0, 0, 0, 0, 1)
	clockBits(s, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)
	s.setCS(false)

	if got := s.wordAt(0x01); got != 0 {
		t.Errorf("write without EWEN should be ignored, got 0x%04x", got)
	}
}

func TestCSDeassertResetsStateMachine(t *testing.T) {
	s := newSEEPROM(nil)
	s.setCS(true)
	clockBits(s, 1, 0, 1, 1, 0)
	s.setCS(false)

	if s.bitCount != 0 || s.op != opNone {
		t.Errorf("deasserting CS should reset bitCount/op, got bitCount=%d op=%d", s.bitCount, s.op)
	}
}

func TestBlockARMOutputSteersSEEPROM(t *testing.T) {
	b := New(nil, nil)

	// Raise CS, then pulse CLK once with MOSI high (the start bit;
	// opcode bits are irrelevant to this smoke test) and confirm the
	// underlying seeprom's bit counter advances only on rising clock
	// edges while CS is asserted.
	_ = b.Write32(regOutARM, pinSEEPROMCS)
	if !b.see.csActive {
		t.Fatal("CS bit should have asserted the SEEPROM's chip-select")
	}

	_ = b.Write32(regOutARM, pinSEEPROMCS|pinSEEPROMMOSI) // MOSI change alone, no clock edge
	if b.see.bitCount != 0 {
		t.Fatalf("bitCount advanced without a clock edge: %d", b.see.bitCount)
	}

	_ = b.Write32(regOutARM, pinSEEPROMCS|pinSEEPROMMOSI|pinSEEPROMClk) // rising CLK edge
	if b.see.bitCount != 1 {
		t.Fatalf("bitCount = %d after one clock edge, want 1", b.see.bitCount)
	}
}
