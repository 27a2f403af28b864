/*
 * Starlet - Single and multiple load/store instruction handlers
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

func offsetLoadStoreSingle(c *CPU, w armbits.LoadStoreSingle) uint32 {
	if !w.IBit() {
		return uint32(w.Imm12())
	}
	v, _ := applyShift(w.ShiftType(), c.R(w.Rm()), uint(w.ShiftAmount()), false, c.CPSR().C())
	return v
}

func hLoadStoreSingle(c *CPU, op uint32) DispatchRes {
	w := armbits.LoadStoreSingle(op)
	offset := offsetLoadStoreSingle(c, w)

	base := c.R(w.Rn())
	var effective uint32
	if w.UBit() {
		effective = base + offset
	} else {
		effective = base - offset
	}

	addr := base
	if w.PBit() {
		addr = effective
	}

	if w.LBit() {
		var val uint32
		var err error
		if w.BBit() {
			var b uint8
			b, err = c.Read8(addr)
			val = uint32(b)
		} else {
			val, err = c.readWordRotated(addr)
		}
		if err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		writeBack(c, w.Rn(), w.Rd(), w.PBit(), w.WBit(), effective)
		if w.Rd() == 15 {
			c.cpsr = setBit(c.cpsr, cpsrThumb, val&1 != 0)
			c.WriteExecPC(val &^ 1)
			return RetireBranch
		}
		c.SetR(w.Rd(), val)
	} else {
		val := c.R(w.Rd())
		var err error
		if w.BBit() {
			err = c.Write8(addr, uint8(val))
		} else {
			err = c.Write32(addr&^0x3, val)
		}
		if err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		writeBack(c, w.Rn(), w.Rd(), w.PBit(), w.WBit(), effective)
	}
	return RetireOk
}

// readWordRotated implements the classic ARM unaligned-LDR behavior:
// read the aligned word and rotate right by the misalignment in bytes.
func (c *CPU) readWordRotated(addr uint32) (uint32, error) {
	v, err := c.Read32(addr &^ 0x3)
	if err != nil {
		return 0, err
	}
	rot := (addr & 0x3) * 8
	return ror32(v, uint(rot)), nil
}

// writeBack commits the post-index or pre-index-with-writeback address
// into Rn, unless Rn==Rd (architecturally unpredictable). In that case
// the writeback is skipped for loads and stores alike: a load keeps the
// loaded value, matching the common hardware behavior, and a store
// leaves Rn unchanged.
func writeBack(c *CPU, rn, rd uint8, pBit, wBit bool, effective uint32) {
	if !pBit || wBit {
		if rn == rd {
			return
		}
		c.SetR(rn, effective)
	}
}

func hLoadStoreHalfword(c *CPU, op uint32) DispatchRes {
	w := armbits.LoadStoreHalfword(op)

	var offset uint32
	if w.IBit() {
		offset = uint32(w.ImmHi())<<4 | uint32(w.ImmLo())
	} else {
		offset = c.R(w.Rm())
	}

	base := c.R(w.Rn())
	var effective uint32
	if w.UBit() {
		effective = base + offset
	} else {
		effective = base - offset
	}
	addr := base
	if w.PBit() {
		addr = effective
	}

	sh := w.SH()
	if w.LBit() {
		var val uint32
		var err error
		switch sh {
		case 0x1: // unsigned halfword
			var h uint16
			h, err = c.Read16(addr)
			val = uint32(h)
		case 0x2: // signed byte
			var b uint8
			b, err = c.Read8(addr)
			val = uint32(int32(int8(b)))
		case 0x3: // signed halfword
			var h uint16
			h, err = c.Read16(addr)
			val = uint32(int32(int16(h)))
		default:
			return hSingleDataSwapEncoding(c, op)
		}
		if err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		writeBack(c, w.Rn(), w.Rd(), w.PBit(), w.WBit(), effective)
		c.SetR(w.Rd(), val)
	} else {
		if sh != 0x1 {
			return hSingleDataSwapEncoding(c, op)
		}
		if err := c.Write16(addr, uint16(c.R(w.Rd()))); err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		writeBack(c, w.Rn(), w.Rd(), w.PBit(), w.WBit(), effective)
	}
	return RetireOk
}

// hSingleDataSwapEncoding: SH==0 in this opcode family is SWP/SWPB, which
// the decoder classifies separately, but a defensive fallback keeps this
// handler total if the dispatch table ever routes an edge case here.
func hSingleDataSwapEncoding(c *CPU, op uint32) DispatchRes {
	return hSingleDataSwap(c, op)
}

func hSingleDataSwap(c *CPU, op uint32) DispatchRes {
	w := armbits.SingleDataSwap(op)
	addr := c.R(w.Rn())
	rm := c.R(w.Rm())

	if w.BBit() {
		old, err := c.Read8(addr)
		if err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		if err := c.Write8(addr, uint8(rm)); err != nil {
			c.GenerateException(ExcDataAbort)
			return ResException
		}
		c.SetR(w.Rd(), uint32(old))
		return RetireOk
	}

	old, err := c.readWordRotated(addr)
	if err != nil {
		c.GenerateException(ExcDataAbort)
		return ResException
	}
	if err := c.Write32(addr, rm); err != nil {
		c.GenerateException(ExcDataAbort)
		return ResException
	}
	c.SetR(w.Rd(), old)
	return RetireOk
}

func hLoadStoreMulti(c *CPU, op uint32) DispatchRes {
	w := armbits.LoadStoreMulti(op)
	list := w.RegisterList()

	count := 0
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) != 0 {
			count++
		}
	}

	base := c.R(w.Rn())
	start := base
	if !w.UBit() {
		start = base - uint32(count)*4
	}
	if (w.PBit() && w.UBit()) || (!w.PBit() && !w.UBit()) {
		start += 4
	}

	// forceUser selects the User-mode register bank for the transferred
	// registers when S is set and this isn't a PC-including LDM (which
	// instead performs an exception return).
	forceUser := w.SBit() && !(w.LBit() && list&(1<<15) != 0)
	// System mode shares the User bank but keeps privileged memory access.
	prevMode := c.regs.mode
	if forceUser {
		c.regs.switchMode(ModeSystem)
	}

	addr := start
	var loadedPC uint32
	pcLoaded := false
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		reg := uint8(i)
		if w.LBit() {
			val, err := c.Read32(addr)
			if err != nil {
				c.regs.switchMode(prevMode)
				c.GenerateException(ExcDataAbort)
				return ResException
			}
			if reg == 15 {
				loadedPC = val
				pcLoaded = true
			} else if forceUser {
				c.regs.r[reg] = val
			} else {
				c.SetR(reg, val)
			}
		} else {
			var val uint32
			switch {
			case reg == 15:
				// Classic ARM pipeline artifact: STM storing R15 stores
				// fetch PC + 12, not the architectural exec PC (+8).
				val = c.fetchPC + 12
			case forceUser:
				val = c.regs.r[reg]
			default:
				val = c.R(reg)
			}
			if err := c.Write32(addr, val); err != nil {
				c.regs.switchMode(prevMode)
				c.GenerateException(ExcDataAbort)
				return ResException
			}
		}
		addr += 4
	}
	c.regs.switchMode(prevMode)

	if w.WBit() {
		var newBase uint32
		if w.UBit() {
			newBase = base + uint32(count)*4
		} else {
			newBase = base - uint32(count)*4
		}
		c.regs.r[w.Rn()] = newBase
	}

	if pcLoaded {
		if w.SBit() {
			c.ExceptionReturn(loadedPC)
		} else {
			c.cpsr = setBit(c.cpsr, cpsrThumb, loadedPC&1 != 0)
			c.WriteExecPC(loadedPC &^ 1)
		}
		return RetireBranch
	}
	return RetireOk
}
