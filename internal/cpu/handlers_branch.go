/*
 * Starlet - B/BL/BX/BLX and exception-entry handlers
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

func hBranch(c *CPU, op uint32) DispatchRes {
	w := armbits.Branch(op)
	offset := armbits.SignExtend(w.Offset24()<<2, 26)
	target := uint32(int64(c.ExecPC()) + int64(offset))
	if w.LBit() {
		c.regs.r[14] = c.fetchPC + 4
	}
	c.WriteExecPC(target)
	return RetireBranch
}

func hBranchExchange(c *CPU, op uint32) DispatchRes {
	w := armbits.BranchExchange(op)
	target := c.R(w.Rm())
	if w.LBit() {
		c.regs.r[14] = c.fetchPC + 4
	}
	c.cpsr = setBit(c.cpsr, cpsrThumb, target&1 != 0)
	c.WriteExecPC(target &^ 1)
	return RetireBranch
}

// hBranchLinkExchangeImm handles the unconditional (cond==0xF) BLX
// immediate encoding: always switches to Thumb state.
func hBranchLinkExchangeImm(c *CPU, op uint32) DispatchRes {
	w := armbits.BranchLinkExchangeImm(op)
	offset := armbits.SignExtend(w.Offset24()<<2, 26)
	h := uint32(0)
	if w.HBit() {
		h = 2
	}
	target := uint32(int64(c.ExecPC())+int64(offset)) + h
	c.regs.r[14] = c.fetchPC + 4
	c.cpsr = setBit(c.cpsr, cpsrThumb, true)
	c.WriteExecPC(target)
	return RetireBranch
}
