/*
 * Starlet - Data-processing (ALU) instruction handlers
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

package cpu

import "github.com/techflashYT/ironic/internal/armbits"

// shifterOperand evaluates ARM operand-2 (immediate or shifted register)
// and returns the resulting value plus the carry-out a following
// data-processing op should fold into C when SBit is set.
func shifterOperand(c *CPU, w armbits.DataProc) (uint32, bool) {
	if w.IBit() {
		imm := uint32(w.Imm8())
		rot := uint(w.RotateImm()) * 2
		if rot == 0 {
			return imm, c.CPSR().C()
		}
		v := ror32(imm, rot)
		return v, v&(1<<31) != 0
	}

	rm := c.R(w.Rm())
	shiftType := w.ShiftType()
	var amount uint
	if w.RegShift() {
		amount = uint(c.R(w.Rs()) & 0xFF)
		if w.Rm() == 15 {
			rm += 4 // register-specified shifts read R15 as exec-PC+4 more
		}
	} else {
		amount = uint(w.ShiftAmount())
	}
	return applyShift(shiftType, rm, amount, w.RegShift(), c.CPSR().C())
}

func ror32(v uint32, n uint) uint32 {
	n %= 32
	if n == 0 {
		return v
	}
	return (v >> n) | (v << (32 - n))
}

// applyShift implements the four ARM shift types, including the
// immediate-shift-by-0 special cases (LSR/ASR #32, ROR#0 == RRX).
func applyShift(kind uint8, v uint32, amount uint, fromReg bool, carryIn bool) (uint32, bool) {
	switch kind {
	case 0: // LSL
		if amount == 0 {
			return v, carryIn
		}
		if amount >= 32 {
			if amount == 32 {
				return 0, v&1 != 0
			}
			return 0, false
		}
		return v << amount, (v>>(32-amount))&1 != 0

	case 1: // LSR
		if amount == 0 {
			if fromReg {
				return v, carryIn
			}
			amount = 32 // LSR #0 means LSR #32 in the immediate encoding
		}
		if amount >= 32 {
			if amount == 32 {
				return 0, v&(1<<31) != 0
			}
			return 0, false
		}
		return v >> amount, (v>>(amount-1))&1 != 0

	case 2: // ASR
		if amount == 0 {
			if fromReg {
				return v, carryIn
			}
			amount = 32
		}
		if amount >= 32 {
			if v&(1<<31) != 0 {
				return 0xFFFFFFFF, true
			}
			return 0, false
		}
		return uint32(int32(v) >> amount), (v>>(amount-1))&1 != 0

	case 3: // ROR / RRX
		if amount == 0 {
			if fromReg {
				return v, carryIn
			}
			// RRX: rotate right through carry by one.
			out := (v >> 1)
			if carryIn {
				out |= 1 << 31
			}
			return out, v&1 != 0
		}
		amount %= 32
		if amount == 0 {
			return v, v&(1<<31) != 0
		}
		return ror32(v, amount), (v>>(amount-1))&1 != 0
	}
	return v, carryIn
}

func addWithCarry(a, b uint32, carryIn bool) (result uint32, carryOut, overflow bool) {
	var cin uint64
	if carryIn {
		cin = 1
	}
	sum := uint64(a) + uint64(b) + cin
	result = uint32(sum)
	carryOut = sum > 0xFFFFFFFF
	signA, signB, signR := a&(1<<31) != 0, b&(1<<31) != 0, result&(1<<31) != 0
	overflow = signA == signB && signR != signA
	return
}

func hDataProc(c *CPU, op uint32) DispatchRes {
	w := armbits.DataProc(op)
	opVal, shiftCarry := shifterOperand(c, w)
	rn := c.R(w.Rn())
	rdNum := w.Rd()

	var result uint32
	var carry, overflow bool
	haveLogical := false // true for ops whose flags come from shiftCarry, not ALU carry/overflow

	switch w.Opcode() {
	case 0x0: // AND
		result = rn & opVal
		carry, haveLogical = shiftCarry, true
	case 0x1: // EOR
		result = rn ^ opVal
		carry, haveLogical = shiftCarry, true
	case 0x2: // SUB
		result, carry, overflow = addWithCarry(rn, ^opVal, true)
	case 0x3: // RSB
		result, carry, overflow = addWithCarry(opVal, ^rn, true)
	case 0x4: // ADD
		result, carry, overflow = addWithCarry(rn, opVal, false)
	case 0x5: // ADC
		result, carry, overflow = addWithCarry(rn, opVal, c.CPSR().C())
	case 0x6: // SBC
		result, carry, overflow = addWithCarry(rn, ^opVal, c.CPSR().C())
	case 0x7: // RSC
		result, carry, overflow = addWithCarry(opVal, ^rn, c.CPSR().C())
	case 0x8: // TST
		result = rn & opVal
		carry, haveLogical = shiftCarry, true
	case 0x9: // TEQ
		result = rn ^ opVal
		carry, haveLogical = shiftCarry, true
	case 0xA: // CMP
		result, carry, overflow = addWithCarry(rn, ^opVal, true)
	case 0xB: // CMN
		result, carry, overflow = addWithCarry(rn, opVal, false)
	case 0xC: // ORR
		result = rn | opVal
		carry, haveLogical = shiftCarry, true
	case 0xD: // MOV
		result = opVal
		carry, haveLogical = shiftCarry, true
	case 0xE: // BIC
		result = rn &^ opVal
		carry, haveLogical = shiftCarry, true
	case 0xF: // MVN
		result = ^opVal
		carry, haveLogical = shiftCarry, true
	}
	_ = haveLogical

	isTestOnly := w.Opcode() >= 0x8 && w.Opcode() <= 0xB
	if !isTestOnly {
		c.SetR(rdNum, result)
	}

	if w.SBit() {
		if rdNum == 15 && !isTestOnly {
			// MOVS/ADDS pc,... style exception return.
			c.ExceptionReturn(result)
			return RetireBranch
		}
		c.cpsr = withNZCV(c.cpsr, result&(1<<31) != 0, result == 0, carry, overflow)
	}

	if rdNum == 15 && !isTestOnly {
		return RetireBranch
	}
	return RetireOk
}

func hMRS(c *CPU, op uint32) DispatchRes {
	w := armbits.StatusReg(op)
	var v uint32
	if w.RBit() {
		if slot := c.spsrSlot(c.regs.mode); slot != nil {
			v = *slot
		}
	} else {
		v = c.cpsr
	}
	c.SetR(w.Rd(), v)
	return RetireOk
}

// msrFieldMask turns the 4-bit field mask into a byte-lane write mask;
// the flags (bits[31:24]) are writable in every mode, and the status,
// extension and control bytes (bits[23:0]) only in privileged modes.
func msrFieldMask(mask uint8, privileged bool) uint32 {
	var m uint32
	if mask&0x8 != 0 {
		m |= 0xFF000000 // flags (f)
	}
	if privileged {
		if mask&0x1 != 0 {
			m |= 0x000000FF // control (c)
		}
		if mask&0x2 != 0 {
			m |= 0x0000FF00 // extension (x)
		}
		if mask&0x4 != 0 {
			m |= 0x00FF0000 // status (s)
		}
	}
	return m
}

func hMSR(c *CPU, op uint32) DispatchRes {
	w := armbits.StatusReg(op)

	var operand uint32
	if w.IBit() {
		operand = ror32(uint32(w.Imm8()), uint(w.RotateImm())*2)
	} else {
		operand = c.R(w.Rm())
	}

	privileged := c.regs.mode != ModeUser
	mask := msrFieldMask(w.FieldMask(), privileged)

	if w.RBit() {
		if slot := c.spsrSlot(c.regs.mode); slot != nil {
			*slot = (*slot &^ mask) | (operand & mask)
		}
		return RetireOk
	}

	newMode := Mode(operand & cpsrModeMask)
	c.cpsr = (c.cpsr &^ mask) | (operand & mask)
	if mask&cpsrModeMask != 0 && privileged && newMode.valid() {
		c.regs.switchMode(newMode)
	}
	return RetireOk
}
