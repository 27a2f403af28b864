/*
 * Starlet - Tests for the flat memory buffer
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

package armmem

import "testing"

func TestReadWriteWord(t *testing.T) {
	m := New(16)
	if err := m.Write32(0, 0x12345678); err != nil {
		t.Fatalf("write32: %v", err)
	}
	v, err := m.Read32(0)
	if err != nil {
		t.Fatalf("read32: %v", err)
	}
	if v != 0x12345678 {
		t.Errorf("got 0x%x, want 0x12345678", v)
	}
	b, err := m.Read8(0)
	if err != nil {
		t.Fatalf("read8: %v", err)
	}
	if b != 0x12 {
		t.Errorf("big-endian byte 0: got 0x%x, want 0x12", b)
	}
}

func TestReadWriteHalf(t *testing.T) {
	m := New(4)
	if err := m.Write16(2, 0xABCD); err != nil {
		t.Fatalf("write16: %v", err)
	}
	v, err := m.Read16(2)
	if err != nil {
		t.Fatalf("read16: %v", err)
	}
	if v != 0xABCD {
		t.Errorf("got 0x%x, want 0xABCD", v)
	}
}

func TestBoundsChecked(t *testing.T) {
	m := New(4)
	if _, err := m.Read32(1); err == nil {
		t.Errorf("expected out-of-range error for offset 1 width 4 on size 4")
	}
	if _, err := m.Read8(4); err == nil {
		t.Errorf("expected out-of-range error for offset 4 width 1 on size 4")
	}
	if err := m.Write32(4, 0); err == nil {
		t.Errorf("expected out-of-range error on write past end")
	}
}

func TestCopyInOut(t *testing.T) {
	m := New(8)
	if err := m.CopyIn(2, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("copyin: %v", err)
	}
	dst := make([]byte, 4)
	if err := m.CopyOut(2, dst); err != nil {
		t.Fatalf("copyout: %v", err)
	}
	for i, b := range dst {
		if b != byte(i+1) {
			t.Errorf("dst[%d] = %d, want %d", i, b, i+1)
		}
	}
}

func TestMemset(t *testing.T) {
	m := New(8)
	if err := m.Memset(0, 0xFF, 8); err != nil {
		t.Fatalf("memset: %v", err)
	}
	for i := uint32(0); i < 8; i++ {
		b, _ := m.Read8(i)
		if b != 0xFF {
			t.Errorf("byte %d = 0x%x, want 0xff", i, b)
		}
	}
}
