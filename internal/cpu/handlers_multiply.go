/*
 * Starlet - Multiply and multiply-accumulate instruction handlers
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

func hMultiply(c *CPU, op uint32) DispatchRes {
	w := armbits.Multiply(op)
	result := c.R(w.Rm()) * c.R(w.Rs())
	if w.ABit() {
		result += c.R(w.Rn())
	}
	c.SetR(w.Rd(), result)
	if w.SBit() {
		c.cpsr = withNZCV(c.cpsr, result&(1<<31) != 0, result == 0, c.CPSR().C(), c.CPSR().V())
	}
	return RetireOk
}

func hMultiplyLong(c *CPU, op uint32) DispatchRes {
	w := armbits.MultiplyLong(op)
	rm, rs := c.R(w.Rm()), c.R(w.Rs())

	var acc uint64
	if w.ABit() {
		acc = uint64(c.R(w.RdHi()))<<32 | uint64(c.R(w.RdLo()))
	}

	var product uint64
	if w.UBit() {
		product = uint64(int64(int32(rm)) * int64(int32(rs)))
	} else {
		product = uint64(rm) * uint64(rs)
	}

	result := product + acc
	resHi, resLo := uint32(result>>32), uint32(result)
	c.SetR(w.RdHi(), resHi)
	c.SetR(w.RdLo(), resLo)

	if w.SBit() {
		c.cpsr = withNZCV(c.cpsr, resHi&(1<<31) != 0, result == 0, c.CPSR().C(), c.CPSR().V())
	}
	return RetireOk
}

// hHalfwordMultiply covers the DSP-extension SMLAxy/SMULxy/SMLAWy/SMULWy
// family. Op selects between the plain 16x16 multiplies (Op==0b00), the
// 16x32 "wide" variants (Op==0b01, X set for SMULWy) and SMLALxy
// (Op==0b10); Y/X pick the
// top or bottom halfword of Rs/Rm as SMULxy's inputs.
func hHalfwordMultiply(c *CPU, op uint32) DispatchRes {
	w := armbits.HalfwordMultiply(op)

	half := func(v uint32, top bool) int32 {
		if top {
			return int32(int16(v >> 16))
		}
		return int32(int16(v))
	}

	switch w.Op() {
	case 0x0: // SMLAxy / SMULxy
		rm := half(c.R(w.Rm()), w.X())
		rs := half(c.R(w.Rs()), w.Y())
		product := uint32(rm * rs)
		if w.Rn() != 0 {
			sum, carry, _ := addWithCarry(product, c.R(w.Rn()), false)
			_ = carry
			c.SetR(w.Rd(), sum)
		} else {
			c.SetR(w.Rd(), product)
		}
	case 0x1: // SMLAWy / SMULWy
		rs := half(c.R(w.Rs()), w.Y())
		product := (int64(int32(c.R(w.Rm()))) * int64(rs)) >> 16
		result := uint32(product)
		if !w.X() {
			result += c.R(w.Rn())
		}
		c.SetR(w.Rd(), result)
	case 0x2: // SMLALxy
		rm := int64(half(c.R(w.Rm()), w.X()))
		rs := int64(half(c.R(w.Rs()), w.Y()))
		acc := uint64(c.R(w.Rd()))<<32 | uint64(c.R(w.Rn()))
		sum := uint64(rm*rs) + acc
		c.SetR(w.Rn(), uint32(sum))
		c.SetR(w.Rd(), uint32(sum>>32))
	}
	return RetireOk
}
