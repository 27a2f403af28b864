/*
 * Starlet - ROM/SRAM alias slot used by the boot-time memory remap
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

package bus

// AliasSlot is a Device whose backing target can be swapped at runtime.
// It backs the mask-ROM/SRAM-mirror addresses spec §4.7 describes as
// toggled by deferred tasks rather than fixed at region-registration
// time.
type AliasSlot struct {
	target Device
}

func NewAliasSlot(initial Device) *AliasSlot { return &AliasSlot{target: initial} }

// Set repoints the slot at a new target device; takes effect on the
// very next access.
func (a *AliasSlot) Set(d Device) { a.target = d }

func (a *AliasSlot) Read8(off uint32) (uint8, error)   { return a.target.Read8(off) }
func (a *AliasSlot) Read16(off uint32) (uint16, error) { return a.target.Read16(off) }
func (a *AliasSlot) Read32(off uint32) (uint32, error) { return a.target.Read32(off) }
func (a *AliasSlot) Write8(off uint32, v uint8) error   { return a.target.Write8(off, v) }
func (a *AliasSlot) Write16(off uint32, v uint16) error { return a.target.Write16(off, v) }
func (a *AliasSlot) Write32(off uint32, v uint32) error { return a.target.Write32(off, v) }
