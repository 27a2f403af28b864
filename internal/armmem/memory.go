/*
 * Starlet - Flat big-endian byte buffer with checked accesses
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

// Package armmem is the lowest layer of the emulator: a bounded,
// big-endian-backed byte buffer with checked 1/2/4-byte accesses, bulk
// copy, and memset. Grounded on the teacher repo's emu/memory package,
// generalized from a single global bank to an instance per physical
// region (MEM1, MEM2, SRAM x2, mask ROM) since the bus owns several.
package armmem

import "fmt"

// OutOfRangeError reports an access whose offset+width exceeds the
// memory's length. It is the armmem half of spec.md's BusOutOfRange
// error taxonomy entry.
type OutOfRangeError struct {
	Offset uint32
	Width  int
	Size   uint32
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("armmem: offset 0x%x width %d exceeds size 0x%x", e.Offset, e.Width, e.Size)
}

// Memory is a flat, big-endian byte buffer.
type Memory struct {
	buf []byte
}

// New allocates a zero-filled Memory of the given size in bytes.
func New(size uint32) *Memory {
	return &Memory{buf: make([]byte, size)}
}

// NewFromBytes wraps existing contents (e.g. a loaded ROM image) without
// copying; len(data) becomes the memory's size.
func NewFromBytes(data []byte) *Memory {
	return &Memory{buf: data}
}

// Len reports the memory's size in bytes.
func (m *Memory) Len() uint32 { return uint32(len(m.buf)) }

// Bytes exposes the backing slice for bulk host-side access (e.g.
// dumping RAM to a file on exit). Callers must not retain it across a
// resize.
func (m *Memory) Bytes() []byte { return m.buf }

func (m *Memory) bound(offset uint32, width int) error {
	if uint64(offset)+uint64(width) > uint64(len(m.buf)) {
		return &OutOfRangeError{Offset: offset, Width: width, Size: uint32(len(m.buf))}
	}
	return nil
}

// Read8 reads a single byte.
func (m *Memory) Read8(offset uint32) (uint8, error) {
	if err := m.bound(offset, 1); err != nil {
		return 0, err
	}
	return m.buf[offset], nil
}

// Read16 reads a big-endian half-word.
func (m *Memory) Read16(offset uint32) (uint16, error) {
	if err := m.bound(offset, 2); err != nil {
		return 0, err
	}
	return uint16(m.buf[offset])<<8 | uint16(m.buf[offset+1]), nil
}

// Read32 reads a big-endian word.
func (m *Memory) Read32(offset uint32) (uint32, error) {
	if err := m.bound(offset, 4); err != nil {
		return 0, err
	}
	return uint32(m.buf[offset])<<24 | uint32(m.buf[offset+1])<<16 |
		uint32(m.buf[offset+2])<<8 | uint32(m.buf[offset+3]), nil
}

// Write8 writes a single byte.
func (m *Memory) Write8(offset uint32, v uint8) error {
	if err := m.bound(offset, 1); err != nil {
		return err
	}
	m.buf[offset] = v
	return nil
}

// Write16 writes a big-endian half-word.
func (m *Memory) Write16(offset uint32, v uint16) error {
	if err := m.bound(offset, 2); err != nil {
		return err
	}
	m.buf[offset] = byte(v >> 8)
	m.buf[offset+1] = byte(v)
	return nil
}

// Write32 writes a big-endian word.
func (m *Memory) Write32(offset uint32, v uint32) error {
	if err := m.bound(offset, 4); err != nil {
		return err
	}
	m.buf[offset] = byte(v >> 24)
	m.buf[offset+1] = byte(v >> 16)
	m.buf[offset+2] = byte(v >> 8)
	m.buf[offset+3] = byte(v)
	return nil
}

// CopyIn copies src into the memory starting at offset.
func (m *Memory) CopyIn(offset uint32, src []byte) error {
	if err := m.bound(offset, len(src)); err != nil {
		return err
	}
	copy(m.buf[offset:], src)
	return nil
}

// CopyOut copies len(dst) bytes starting at offset into dst.
func (m *Memory) CopyOut(offset uint32, dst []byte) error {
	if err := m.bound(offset, len(dst)); err != nil {
		return err
	}
	copy(dst, m.buf[offset:])
	return nil
}

// Memset fills length bytes starting at offset with value.
func (m *Memory) Memset(offset uint32, value byte, length uint32) error {
	if err := m.bound(offset, int(length)); err != nil {
		return err
	}
	end := offset + length
	for i := offset; i < end; i++ {
		m.buf[i] = value
	}
	return nil
}
