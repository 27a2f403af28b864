/*
 * Starlet - Decodes a 16-bit Thumb opcode into an InstructionKind
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

package armdecode

// DecodeThumb maps a 16-bit Thumb opcode to its Kind. Masks are matched
// most-specific first; Undefined is returned if nothing matches. The
// BlPrefix/BlImmSuffix/BlxImmSuffix pseudo-kinds cover the two-halfword
// BL/BLX sequence: the CPU core stitches them together via a scratch
// register rather than a generator, per the spec's coroutine-free design
// note.
func DecodeThumb(op uint16) Kind {
	top5 := (op >> 11) & 0x1F
	top6 := (op >> 10) & 0x3F
	top4 := (op >> 12) & 0xF

	switch {
	case (op>>13)&0x7 == 0b000 && (op>>11)&0x3 != 0b11:
		return ShiftImm
	case (op>>11)&0x1F == 0b00011:
		return AddSub
	case (op>>13)&0x7 == 0b001:
		return MovCmpAddSubImm
	case top6 == 0b010000:
		return ALUOp
	case top6 == 0b010001:
		return HiRegOp
	case top5 == 0b01001:
		return PCRelLoad
	case top4 == 0b0101:
		if (op>>9)&1 == 0 {
			return LoadStoreReg
		}
		return LoadStoreSext
	case (op>>13)&0x7 == 0b011:
		return LoadStoreImm
	case top4 == 0b1000:
		return LoadStoreHalf
	case top4 == 0b1001:
		return SPRelLoad
	case top4 == 0b1010:
		return LoadAddress
	case (op>>8)&0xFF == 0b10110000:
		return AddOffsetSP
	case top4 == 0b1011 && (op>>9)&0x3 == 0b10:
		return PushPop
	case top4 == 0b1100:
		return MultipleLoadStore
	case top4 == 0b1101:
		switch (op >> 8) & 0xF {
		case 0xF:
			return SoftwareInterruptT
		case 0xE:
			return Undefined // permanently-undefined Thumb trap (UND)
		default:
			return CondBranch
		}
	case top5 == 0b11100:
		return UncondBranch
	case top5 == 0b11101:
		return BlxImmSuffix
	case top5 == 0b11110:
		return BlPrefix
	case top5 == 0b11111:
		return BlImmSuffix
	default:
		return Undefined
	}
}
