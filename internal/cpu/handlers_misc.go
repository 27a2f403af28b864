/*
 * Starlet - PSR transfer, SWI, and other miscellaneous handlers
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

// semihostingImmed is the SVC immediate (low byte, either encoding)
// firmware uses to ask the host loop to print a debug buffer rather
// than entering the guest's own SWI handler.
const semihostingImmed = 0xAB

func hUndefined(c *CPU, op uint32) DispatchRes {
	c.GenerateException(ExcUndef)
	return ResException
}

func hSoftwareInterrupt(c *CPU, op uint32) DispatchRes {
	w := armbits.SoftwareInterrupt(op)
	if uint8(w.Comment()&0xFF) == semihostingImmed {
		return ResSemihosting
	}
	c.GenerateException(ExcSwi)
	return ResException
}

func hBreakpointARM(c *CPU, op uint32) DispatchRes {
	w := armbits.Breakpoint(op)
	c.bkptImmed = w.Imm16()
	return ResBreakpoint
}
