/*
 * Starlet - Thumb-mode instruction handlers
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

func setLogicalFlags(c *CPU, result uint32, carry bool) {
	c.cpsr = withNZCV(c.cpsr, result&(1<<31) != 0, result == 0, carry, c.CPSR().V())
}

func setArithFlags(c *CPU, result uint32, carry, overflow bool) {
	c.cpsr = withNZCV(c.cpsr, result&(1<<31) != 0, result == 0, carry, overflow)
}

func hThumbShiftImm(c *CPU, op uint32) DispatchRes {
	w := armbits.ShiftImm(uint16(op))
	v := c.R(w.Rs())
	result, carry := applyShift(w.Op(), v, uint(w.Offset5()), false, c.CPSR().C())
	c.SetR(w.Rd(), result)
	setLogicalFlags(c, result, carry)
	return RetireOk
}

func hThumbAddSub(c *CPU, op uint32) DispatchRes {
	w := armbits.AddSub(uint16(op))
	rs := c.R(w.Rs())
	var operand uint32
	if w.IBit() {
		operand = uint32(w.RnImm())
	} else {
		operand = c.R(w.RnImm())
	}

	var result uint32
	var carry, overflow bool
	if w.SubBit() {
		result, carry, overflow = addWithCarry(rs, ^operand, true)
	} else {
		result, carry, overflow = addWithCarry(rs, operand, false)
	}
	c.SetR(w.Rd(), result)
	setArithFlags(c, result, carry, overflow)
	return RetireOk
}

func hThumbMovCmpAddSubImm(c *CPU, op uint32) DispatchRes {
	w := armbits.MovCmpAddSubImm(uint16(op))
	imm := uint32(w.Imm8())
	rd := c.R(w.Rd())

	switch w.Op() {
	case 0x0: // MOV
		c.SetR(w.Rd(), imm)
		setLogicalFlags(c, imm, c.CPSR().C())
	case 0x1: // CMP
		result, carry, overflow := addWithCarry(rd, ^imm, true)
		setArithFlags(c, result, carry, overflow)
	case 0x2: // ADD
		result, carry, overflow := addWithCarry(rd, imm, false)
		c.SetR(w.Rd(), result)
		setArithFlags(c, result, carry, overflow)
	case 0x3: // SUB
		result, carry, overflow := addWithCarry(rd, ^imm, true)
		c.SetR(w.Rd(), result)
		setArithFlags(c, result, carry, overflow)
	}
	return RetireOk
}

func hThumbALUOp(c *CPU, op uint32) DispatchRes {
	w := armbits.ALUOp(uint16(op))
	rd := c.R(w.Rd())
	rs := c.R(w.Rs())

	var result uint32
	var carry, overflow bool
	writesResult := true

	switch w.Op() {
	case 0x0: // AND
		result, carry = rd&rs, c.CPSR().C()
	case 0x1: // EOR
		result, carry = rd^rs, c.CPSR().C()
	case 0x2: // LSL
		result, carry = applyShift(0, rd, uint(rs&0xFF), true, c.CPSR().C())
	case 0x3: // LSR
		result, carry = applyShift(1, rd, uint(rs&0xFF), true, c.CPSR().C())
	case 0x4: // ASR
		result, carry = applyShift(2, rd, uint(rs&0xFF), true, c.CPSR().C())
	case 0x5: // ADC
		result, carry, overflow = addWithCarry(rd, rs, c.CPSR().C())
	case 0x6: // SBC
		result, carry, overflow = addWithCarry(rd, ^rs, c.CPSR().C())
	case 0x7: // ROR
		result, carry = applyShift(3, rd, uint(rs&0xFF), true, c.CPSR().C())
	case 0x8: // TST
		result, carry, writesResult = rd&rs, c.CPSR().C(), false
	case 0x9: // NEG
		result, carry, overflow = addWithCarry(0, ^rs, true)
	case 0xA: // CMP
		result, carry, overflow = addWithCarry(rd, ^rs, true)
		writesResult = false
	case 0xB: // CMN
		result, carry, overflow = addWithCarry(rd, rs, false)
		writesResult = false
	case 0xC: // ORR
		result, carry = rd|rs, c.CPSR().C()
	case 0xD: // MUL
		result, carry = rd*rs, c.CPSR().C()
	case 0xE: // BIC
		result, carry = rd&^rs, c.CPSR().C()
	case 0xF: // MVN
		result, carry = ^rs, c.CPSR().C()
	}

	if writesResult {
		c.SetR(w.Rd(), result)
	}
	switch w.Op() {
	case 0x2, 0x3, 0x4, 0x7, 0x0, 0x1, 0xC, 0xD, 0xE, 0xF, 0x8:
		setLogicalFlags(c, result, carry)
	default:
		setArithFlags(c, result, carry, overflow)
	}
	return RetireOk
}

func hThumbHiRegOp(c *CPU, op uint32) DispatchRes {
	w := armbits.HiRegOp(uint16(op))
	rs := w.RsRm()
	rd := w.RdRn()
	if w.H1() {
		rd += 8
	}
	if w.H2() {
		rs += 8
	}

	switch w.Op() {
	case 0x0: // ADD
		result := c.R(rd) + c.R(rs)
		c.SetR(rd, result)
	case 0x1: // CMP
		result, carry, overflow := addWithCarry(c.R(rd), ^c.R(rs), true)
		setArithFlags(c, result, carry, overflow)
	case 0x2: // MOV
		c.SetR(rd, c.R(rs))
	case 0x3: // BX/BLX
		target := c.R(rs)
		if w.H1() {
			c.regs.r[14] = c.fetchPC + 2
		}
		c.cpsr = setBit(c.cpsr, cpsrThumb, target&1 != 0)
		c.WriteExecPC(target &^ 1)
		return RetireBranch
	}
	if rd == 15 {
		return RetireBranch
	}
	return RetireOk
}

func hThumbPCRelLoad(c *CPU, op uint32) DispatchRes {
	w := armbits.PCRelLoad(uint16(op))
	base := (c.ExecPC() &^ 0x3) + uint32(w.Word8())*4
	val, err := c.Read32(base)
	if err != nil {
		c.GenerateException(ExcDataAbort)
		return ResException
	}
	c.SetR(w.Rd(), val)
	return RetireOk
}

func hThumbLoadStoreReg(c *CPU, op uint32) DispatchRes {
	w := armbits.LoadStoreReg(uint16(op))
	addr := c.R(w.Rb()) + c.R(w.Ro())

	if w.LBit() {
		var val uint32
		var err error
		if w.BBit() {
			var b uint8
			b, err = c.Read8(addr)
			val = uint32(b)
		} else {
			val, err = c.Read32(addr)
		}
		if err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		c.SetR(w.Rd(), val)
		return RetireOk
	}

	var err error
	if w.BBit() {
		err = c.Write8(addr, uint8(c.R(w.Rd())))
	} else {
		err = c.Write32(addr, c.R(w.Rd()))
	}
	if err != nil {
		c.GenerateException(ExcDataAbort)
		return ResException
	}
	return RetireOk
}

func hThumbLoadStoreSext(c *CPU, op uint32) DispatchRes {
	w := armbits.LoadStoreSext(uint16(op))
	addr := c.R(w.Rb()) + c.R(w.Ro())

	var val uint32
	var err error
	switch {
	case !w.SBit() && !w.HBit(): // STRH
		err = c.Write16(addr, uint16(c.R(w.Rd())))
		if err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		return RetireOk
	case !w.SBit() && w.HBit(): // LDRH
		var h uint16
		h, err = c.Read16(addr)
		val = uint32(h)
	case w.SBit() && !w.HBit(): // LDRSB
		var b uint8
		b, err = c.Read8(addr)
		val = uint32(int32(int8(b)))
	default: // LDRSH
		var h uint16
		h, err = c.Read16(addr)
		val = uint32(int32(int16(h)))
	}
	if err != nil {
		c.GenerateException(ExcDataAbort)
		return ResException
	}
	c.SetR(w.Rd(), val)
	return RetireOk
}

func hThumbLoadStoreImm(c *CPU, op uint32) DispatchRes {
	w := armbits.LoadStoreImm(uint16(op))
	var addr uint32
	if w.BBit() {
		addr = c.R(w.Rb()) + uint32(w.Offset5())
	} else {
		addr = c.R(w.Rb()) + uint32(w.Offset5())*4
	}

	if w.LBit() {
		var val uint32
		var err error
		if w.BBit() {
			var b uint8
			b, err = c.Read8(addr)
			val = uint32(b)
		} else {
			val, err = c.Read32(addr)
		}
		if err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		c.SetR(w.Rd(), val)
		return RetireOk
	}

	var err error
	if w.BBit() {
		err = c.Write8(addr, uint8(c.R(w.Rd())))
	} else {
		err = c.Write32(addr, c.R(w.Rd()))
	}
	if err != nil {
		c.GenerateException(ExcDataAbort)
		return ResException
	}
	return RetireOk
}

func hThumbLoadStoreHalf(c *CPU, op uint32) DispatchRes {
	w := armbits.LoadStoreHalf(uint16(op))
	addr := c.R(w.Rb()) + uint32(w.Offset5())*2

	if w.LBit() {
		h, err := c.Read16(addr)
		if err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		c.SetR(w.Rd(), uint32(h))
		return RetireOk
	}
	if err := c.Write16(addr, uint16(c.R(w.Rd()))); err != nil {
		c.GenerateException(ExcDataAbort)
		return ResException
	}
	return RetireOk
}

func hThumbSPRelLoad(c *CPU, op uint32) DispatchRes {
	w := armbits.SPRelLoad(uint16(op))
	addr := c.R(13) + uint32(w.Word8())*4

	if w.LBit() {
		val, err := c.Read32(addr)
		if err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		c.SetR(w.Rd(), val)
		return RetireOk
	}
	if err := c.Write32(addr, c.R(w.Rd())); err != nil {
		c.GenerateException(ExcDataAbort)
		return ResException
	}
	return RetireOk
}

func hThumbLoadAddress(c *CPU, op uint32) DispatchRes {
	w := armbits.LoadAddress(uint16(op))
	var base uint32
	if w.SPBit() {
		base = c.R(13)
	} else {
		base = c.ExecPC() &^ 0x3
	}
	c.SetR(w.Rd(), base+uint32(w.Word8())*4)
	return RetireOk
}

func hThumbAddOffsetSP(c *CPU, op uint32) DispatchRes {
	w := armbits.AddOffsetSP(uint16(op))
	delta := uint32(w.Imm7()) * 4
	if w.SBit() {
		c.SetR(13, c.R(13)-delta)
	} else {
		c.SetR(13, c.R(13)+delta)
	}
	return RetireOk
}

func hThumbPushPop(c *CPU, op uint32) DispatchRes {
	w := armbits.PushPop(uint16(op))
	list := w.RegisterList()

	if w.LBit() { // POP
		addr := c.R(13)
		for i := 0; i < 8; i++ {
			if list&(1<<uint(i)) == 0 {
				continue
			}
			val, err := c.Read32(addr)
			if err != nil {
				c.GenerateException(ExcDataAbort)
				return ResException
			}
			c.SetR(uint8(i), val)
			addr += 4
		}
		if w.RBit() {
			val, err := c.Read32(addr)
			if err != nil {
				c.GenerateException(ExcDataAbort)
				return ResException
			}
			c.SetR(13, addr+4)
			c.WriteExecPC(val &^ 1)
			return RetireBranch
		}
		c.SetR(13, addr)
		return RetireOk
	}

	// PUSH
	count := 0
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) != 0 {
			count++
		}
	}
	if w.RBit() {
		count++
	}
	addr := c.R(13) - uint32(count)*4
	startAddr := addr
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		if err := c.Write32(addr, c.R(uint8(i))); err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		addr += 4
	}
	if w.RBit() {
		if err := c.Write32(addr, c.regs.r[14]); err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
	}
	c.SetR(13, startAddr)
	return RetireOk
}

func hThumbMultipleLoadStore(c *CPU, op uint32) DispatchRes {
	w := armbits.MultipleLoadStore(uint16(op))
	list := w.RegisterList()
	addr := c.R(w.Rb())

	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		if w.LBit() {
			val, err := c.Read32(addr)
			if err != nil {
				c.GenerateException(ExcDataAbort)
				return ResException
			}
			c.SetR(uint8(i), val)
		} else {
			if err := c.Write32(addr, c.R(uint8(i))); err != nil {
				c.GenerateException(ExcDataAbort)
				return ResException
			}
		}
		addr += 4
	}
	c.SetR(w.Rb(), addr)
	return RetireOk
}

func hThumbCondBranch(c *CPU, op uint32) DispatchRes {
	w := armbits.CondBranch(uint16(op))
	if !condPass(c.CPSR(), w.Cond()) {
		return CondFailed
	}
	offset := armbits.SignExtend(uint32(w.SOffset8())<<1, 9)
	c.WriteExecPC(uint32(int64(c.ExecPC()) + int64(offset)))
	return RetireBranch
}

func hThumbSoftwareInterrupt(c *CPU, op uint32) DispatchRes {
	w := armbits.SoftwareInterrupt16(uint16(op))
	if w.Value8() == semihostingImmed {
		return ResSemihosting
	}
	c.GenerateException(ExcSwi)
	return ResException
}

func hThumbUncondBranch(c *CPU, op uint32) DispatchRes {
	w := armbits.UncondBranch(uint16(op))
	offset := armbits.SignExtend(uint32(w.Offset11())<<1, 12)
	c.WriteExecPC(uint32(int64(c.ExecPC()) + int64(offset)))
	return RetireBranch
}

// hThumbBlPrefix is the high-offset halfword of a BL/BLX pair. It stashes
// pc + (sign_extend(offset11) << 12) in a CPU scratch register for the
// matching suffix halfword to consume; it never itself retires a branch.
func hThumbBlPrefix(c *CPU, op uint32) DispatchRes {
	w := armbits.LongBranchLink(uint16(op))
	offset := armbits.SignExtend(uint32(w.Offset11())<<12, 23)
	c.thumbBLScratch = uint32(int64(c.ExecPC()) + int64(offset))
	return RetireOk
}

func hThumbBlSuffix(c *CPU, op uint32) DispatchRes {
	w := armbits.LongBranchLink(uint16(op))
	target := c.thumbBLScratch + uint32(w.Offset11())*2
	c.regs.r[14] = c.fetchPC + 2 | 1
	c.WriteExecPC(target)
	return RetireBranch
}

func hThumbBlxSuffix(c *CPU, op uint32) DispatchRes {
	w := armbits.LongBranchLink(uint16(op))
	target := (c.thumbBLScratch + uint32(w.Offset11())*2) &^ 0x3
	c.regs.r[14] = c.fetchPC + 2 | 1
	c.cpsr = setBit(c.cpsr, cpsrThumb, false)
	c.WriteExecPC(target)
	return RetireBranch
}
