/*
 * Starlet - Decodes a 32-bit ARM opcode into an InstructionKind
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

// DecodeARM maps a 32-bit ARM opcode to its Kind. Masks are matched
// most-specific first; Undefined is returned if nothing matches.
func DecodeARM(op uint32) Kind {
	cond := (op >> 28) & 0xF
	b2725 := (op >> 25) & 0x7
	b76 := (op >> 26) & 0x3 // bits[27:26]

	// Unconditional space: only BLX(immediate) is recognized.
	if cond == 0xF {
		if b2725 == 0b101 {
			return BranchLinkExchangeImm
		}
		return Undefined
	}

	// BKPT: cond 0001 0010 imm12 0111 imm4
	if (op&0x0FF000F0) == 0x01200070 && ((op>>20)&0xFF) == 0x12 {
		return Breakpoint
	}

	// BX / BLX(register): cond 0001 0010 1111 1111 1111 000L Rm
	if (op&0x0FF000D0) == 0x01200010 {
		return BranchExchange
	}

	// MRS: cond 0001 0 R 00 1111 Rd 0000 0000 0000
	if (op & 0x0FB000F0) == 0x01000000 {
		return MRS
	}

	// MSR register: cond 0001 0 R 10 1001 1111 00000000 Rm
	if (op & 0x0FB000F0) == 0x01200000 {
		return MSR
	}
	// MSR immediate: cond 0011 0 R 10 mask 1111 rotate_imm8
	if (op & 0x0FB00000) == 0x03200000 {
		return MSR
	}

	// SWP/SWPB: cond 0001 0 B 00 Rn Rd 0000 1001 Rm
	if (op & 0x0FB00FF0) == 0x01000090 {
		return SingleDataSwap
	}

	// Multiply / multiply-long: cond 000 opc S Rd/RdHi Rn/RdLo Rs 1001 Rm
	if b2725 == 0b000 && (op&0xF0) == 0x90 {
		b2423 := (op >> 23) & 0x3
		switch b2423 {
		case 0b00:
			return Multiply
		case 0b01:
			return MultiplyLong
		}
		// 10/11 sub-space is DSP half-word multiply family handled below
		// only when bit7/4 pattern differs; fall through to halfword
		// multiply check.
	}

	// Half-word/signed DSP multiplies: cond 00010 op 0 Rd Rn Rs 1 y x 0 Rm
	if b2725 == 0b000 && ((op>>20)&0x1) == 0 && ((op>>7)&0x1) == 1 && ((op>>4)&0x1) == 0 {
		b2423 := (op >> 23) & 0x3
		if b2423 == 0b10 {
			return HalfwordMultiply
		}
	}

	// Halfword/signed load-store: cond 000 P U I W L Rn Rd ... 1 S H 1 ...
	if b2725 == 0b000 && (op&0x90) == 0x90 && ((op>>5)&0x3) != 0 {
		return LoadStoreHalfword
	}

	// Data-processing: bits[27:26] == 00 (immediate or register/shifted).
	if b76 == 0b00 {
		return DataProc
	}

	// Single data transfer (LDR/STR): bits[27:26] == 01. The
	// register-offset form (bit25 set) with bit4 also set collides with
	// the reserved "undefined instruction" space of classic ARMv4/v5.
	if b76 == 0b01 {
		if (op>>25)&1 == 1 && (op>>4)&1 == 1 {
			return Undefined
		}
		return LoadStoreSingle
	}

	// Block data transfer (LDM/STM): bits[27:25] == 100.
	if b2725 == 0b100 {
		return LoadStoreMulti
	}

	// Branch / branch-with-link: bits[27:25] == 101.
	if b2725 == 0b101 {
		return Branch
	}

	// Coprocessor load/store (classed with CoprocMaintenance, whose
	// handler raises Undefined): 110.
	if b2725 == 0b110 {
		return CoprocMaintenance
	}

	// Coprocessor data-processing / register transfer: bits[27:24] == 1110.
	if (op>>24)&0xF == 0b1110 {
		if (op>>4)&0x1 == 1 {
			return CoprocReg
		}
		return CoprocMaintenance
	}

	// Software interrupt: bits[27:24] == 1111.
	if (op>>24)&0xF == 0b1111 {
		return SoftwareInterrupt
	}

	return Undefined
}
