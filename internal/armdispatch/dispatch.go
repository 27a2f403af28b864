/*
 * Starlet - Builds the CPU dispatch tables from the decoders
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

// Package armdispatch computes the indices and representative opcodes
// used to build the CPU's ARM and Thumb dispatch tables once at startup.
// It stays independent of the CPU's handler function type: the CPU
// package walks every index, builds a representative opcode with
// ARMRepresentative/ThumbRepresentative, decodes it once via armdecode,
// and stores the handler for the resulting Kind in its own table.
package armdispatch

const (
	// ARMTableSize is the number of slots in the ARM dispatch table,
	// indexed by a 12-bit slice of the opcode (bits[27:20] and [7:4]),
	// the same slice real ARM decoders use because it alone
	// distinguishes every instruction class except the cond==0b1111
	// unconditional-space instructions, which the CPU special-cases
	// before consulting the table.
	ARMTableSize = 1 << 12

	// ThumbTableSize is the number of slots in the Thumb dispatch table,
	// indexed by the top 10 bits (bits[15:6]) of the opcode.
	ThumbTableSize = 1 << 10
)

// ARMIndex computes the 12-bit dispatch index of a real ARM opcode.
func ARMIndex(op uint32) int {
	return int(((op >> 16) & 0xFF0) | ((op >> 4) & 0xF))
}

// ARMRepresentative reconstructs a representative opcode for table slot
// i: the condition nibble is fixed to 0xE (AL) since no classifying
// check other than the cond==0xF unconditional-space test depends on
// it, and that test is handled by the CPU ahead of the table lookup.
func ARMRepresentative(i int) uint32 {
	i &= ARMTableSize - 1
	return (0xE << 28) | (uint32(i&0xFF0) << 16) | (uint32(i&0xF) << 4)
}

// ThumbIndex computes the 10-bit dispatch index of a real Thumb opcode.
func ThumbIndex(op uint16) int {
	return int(op >> 6)
}

// ThumbRepresentative reconstructs a representative opcode for table
// slot i.
func ThumbRepresentative(i int) uint16 {
	i &= ThumbTableSize - 1
	return uint16(i) << 6
}
