/*
 * Starlet - Bounds-checked big-endian accessors over a flat register-file byte slice
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

// Package regio provides bounds-checked big-endian accessors over a
// flat register-file byte slice, shared by the simple MMIO devices
// under internal/devices. Hollywood's register bus is big-endian, like
// the memory object in internal/armmem.
package regio

import "fmt"

// RangeError reports an access outside a register file's backing slice.
type RangeError struct {
	Offset uint32
	Width  int
	Size   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("regio: offset 0x%x width %d exceeds register file size %d", e.Offset, e.Width, e.Size)
}

func Get8(buf []byte, off uint32) (uint8, error) {
	if int(off) >= len(buf) {
		return 0, &RangeError{off, 1, len(buf)}
	}
	return buf[off], nil
}

func Put8(buf []byte, off uint32, v uint8) error {
	if int(off) >= len(buf) {
		return &RangeError{off, 1, len(buf)}
	}
	buf[off] = v
	return nil
}

func Get16(buf []byte, off uint32) (uint16, error) {
	if int(off)+2 > len(buf) {
		return 0, &RangeError{off, 2, len(buf)}
	}
	return uint16(buf[off])<<8 | uint16(buf[off+1]), nil
}

func Put16(buf []byte, off uint32, v uint16) error {
	if int(off)+2 > len(buf) {
		return &RangeError{off, 2, len(buf)}
	}
	buf[off] = uint8(v >> 8)
	buf[off+1] = uint8(v)
	return nil
}

func Get32(buf []byte, off uint32) (uint32, error) {
	if int(off)+4 > len(buf) {
		return 0, &RangeError{off, 4, len(buf)}
	}
	return uint32(buf[off])<<24 | uint32(buf[off+1])<<16 | uint32(buf[off+2])<<8 | uint32(buf[off+3]), nil
}

func Put32(buf []byte, off uint32, v uint32) error {
	if int(off)+4 > len(buf) {
		return &RangeError{off, 4, len(buf)}
	}
	buf[off] = uint8(v >> 24)
	buf[off+1] = uint8(v >> 16)
	buf[off+2] = uint8(v >> 8)
	buf[off+3] = uint8(v)
	return nil
}
