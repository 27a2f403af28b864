/*
 * Starlet - CP15 MCR/MRC coprocessor instruction handlers
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

// hCoprocReg implements MRC/MCR against CP15 (the only coprocessor this
// core models). CRn selects the CP15 register; c1/c2/c3 map to
// control/ttbr/domain-access per the ARMv5 system control map. MRC of
// any other register (including c0, the ID register) reads 0.
func hCoprocReg(c *CPU, op uint32) DispatchRes {
	w := armbits.CoprocReg(op)
	if w.CPNum() != 15 {
		c.GenerateException(ExcUndef)
		return ResException
	}

	if w.LBit() { // MRC: coprocessor -> ARM register
		var v uint32
		switch w.CRn() {
		case 1:
			v = c.cp15.Control
		case 2:
			v = c.cp15.TTBR
		case 3:
			v = c.cp15.DomainAccess
		}
		if w.Rd() == 15 {
			c.cpsr = withNZCV(c.cpsr, v&(1<<31) != 0, v == 0, c.CPSR().C(), c.CPSR().V())
		} else {
			c.SetR(w.Rd(), v)
		}
		return RetireOk
	}

	// MCR: ARM register -> coprocessor
	v := c.R(w.Rd())
	switch w.CRn() {
	case 1:
		c.cp15.Control = v
	case 2:
		c.cp15.TTBR = v
	case 3:
		c.cp15.DomainAccess = v
	case 7, 8:
		// Cache/TLB maintenance ops through the register interface: this
		// core has no cache or TLB to flush, so these are no-ops.
	}
	return RetireOk
}

// hCoprocMaintenance covers CDP/LDC/STC and any other coprocessor opcode
// this core doesn't model; all are unimplemented in the Starlet's
// bus map, so they raise undefined instruction.
func hCoprocMaintenance(c *CPU, op uint32) DispatchRes {
	c.GenerateException(ExcUndef)
	return ResException
}
