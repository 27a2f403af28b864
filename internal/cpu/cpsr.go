/*
 * Starlet - CPSR/SPSR flag and mode-bit accessors
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

// CPSR is a thin bitfield view over the raw 32-bit status word; N/Z/C/V
// flags, IRQ/FIQ disable, Thumb-state, and the 5-bit mode field.
type CPSR uint32

func (p CPSR) N() bool { return p&(1<<cpsrN) != 0 }
func (p CPSR) Z() bool { return p&(1<<cpsrZ) != 0 }
func (p CPSR) C() bool { return p&(1<<cpsrC) != 0 }
func (p CPSR) V() bool { return p&(1<<cpsrV) != 0 }
func (p CPSR) IRQDisabled() bool  { return p&(1<<cpsrIDis) != 0 }
func (p CPSR) FIQDisabled() bool  { return p&(1<<cpsrFDis) != 0 }
func (p CPSR) Thumb() bool        { return p&(1<<cpsrThumb) != 0 }
func (p CPSR) Mode() Mode         { return Mode(uint32(p) & cpsrModeMask) }

func setBit(v uint32, pos uint, set bool) uint32 {
	if set {
		return v | (1 << pos)
	}
	return v &^ (1 << pos)
}

func withNZCV(p uint32, n, z, c, v bool) uint32 {
	p = setBit(p, cpsrN, n)
	p = setBit(p, cpsrZ, z)
	p = setBit(p, cpsrC, c)
	p = setBit(p, cpsrV, v)
	return p
}
