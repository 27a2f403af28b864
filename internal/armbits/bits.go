/*
 * Starlet - Typed views over raw ARM and Thumb opcode words
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

// Package armbits provides zero-cost typed views over raw ARM and Thumb
// opcodes. Each view is a distinct defined type over the underlying
// integer; its methods are named field accessors (condition, registers,
// shift type, immediate, P/U/W flags, register-list bitmap, ...). No view
// is ever copied into a richer struct — decoder, executor, and
// disassembler all read directly through the wrapper.
package armbits

// field extracts bits [hi:lo] (inclusive, lo <= hi) from a 32-bit word.
func field(w uint32, hi, lo uint) uint32 {
	n := hi - lo + 1
	mask := uint32(1)<<n - 1
	return (w >> lo) & mask
}

func field16(w uint16, hi, lo uint) uint16 {
	n := hi - lo + 1
	mask := uint16(1)<<n - 1
	return (w >> lo) & mask
}

func bit(w uint32, n uint) bool  { return (w>>n)&1 != 0 }
func bit16(w uint16, n uint) bool { return (w>>n)&1 != 0 }

// SignExtend sign-extends the low `bits` bits of v to a full int32.
func SignExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}
