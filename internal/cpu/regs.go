/*
 * Starlet - Banked register file across the ARM privilege modes
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

// regFile is the banked register file. Modeled per the spec's design
// note as a single array of 16 "current" registers plus small per-mode
// bank arrays, swapped atomically on a mode transition -- no dynamic
// dispatch, mode is a plain tag.
type regFile struct {
	r [15]uint32 // current R0..R14 (R15/PC is tracked separately as fetchPC)

	// r8-r12: FIQ has a private bank, every other mode shares one.
	fiqHigh   [5]uint32
	otherHigh [5]uint32

	// r13/r14 per mode; User and System share a bank.
	bankUser [2]uint32
	bankFIQ  [2]uint32
	bankIRQ  [2]uint32
	bankSVC  [2]uint32
	bankABT  [2]uint32
	bankUND  [2]uint32

	mode Mode
}

func bankFor(m Mode) Mode {
	if m == ModeSystem {
		return ModeUser
	}
	return m
}

func (rf *regFile) bankSlot(m Mode) *[2]uint32 {
	switch bankFor(m) {
	case ModeUser:
		return &rf.bankUser
	case ModeFIQ:
		return &rf.bankFIQ
	case ModeIRQ:
		return &rf.bankIRQ
	case ModeSupervisor:
		return &rf.bankSVC
	case ModeAbort:
		return &rf.bankABT
	case ModeUndefined:
		return &rf.bankUND
	}
	return &rf.bankUser
}

// init sets the initial mode without running the swap-out half (there is
// nothing to swap out of yet).
func (rf *regFile) init(m Mode) {
	rf.mode = m
	slot := rf.bankSlot(m)
	rf.r[13], rf.r[14] = slot[0], slot[1]
	if m == ModeFIQ {
		rf.r[8], rf.r[9], rf.r[10], rf.r[11], rf.r[12] = rf.fiqHigh[0], rf.fiqHigh[1], rf.fiqHigh[2], rf.fiqHigh[3], rf.fiqHigh[4]
	} else {
		rf.r[8], rf.r[9], rf.r[10], rf.r[11], rf.r[12] = rf.otherHigh[0], rf.otherHigh[1], rf.otherHigh[2], rf.otherHigh[3], rf.otherHigh[4]
	}
}

// switchMode rebanks the register file for a transition from rf.mode to
// newMode. A no-op when the mode doesn't actually change banks (e.g.
// User <-> System).
func (rf *regFile) switchMode(newMode Mode) {
	old := rf.mode
	if bankFor(old) == bankFor(newMode) {
		rf.mode = newMode
		return
	}

	// Save r13/r14 of the outgoing mode.
	oldSlot := rf.bankSlot(old)
	oldSlot[0], oldSlot[1] = rf.r[13], rf.r[14]

	// Save/restore r8-r12 only across a FIQ boundary.
	oldIsFIQ := bankFor(old) == ModeFIQ
	newIsFIQ := bankFor(newMode) == ModeFIQ
	if oldIsFIQ != newIsFIQ {
		if oldIsFIQ {
			rf.fiqHigh = [5]uint32{rf.r[8], rf.r[9], rf.r[10], rf.r[11], rf.r[12]}
			rf.r[8], rf.r[9], rf.r[10], rf.r[11], rf.r[12] = rf.otherHigh[0], rf.otherHigh[1], rf.otherHigh[2], rf.otherHigh[3], rf.otherHigh[4]
		} else {
			rf.otherHigh = [5]uint32{rf.r[8], rf.r[9], rf.r[10], rf.r[11], rf.r[12]}
			rf.r[8], rf.r[9], rf.r[10], rf.r[11], rf.r[12] = rf.fiqHigh[0], rf.fiqHigh[1], rf.fiqHigh[2], rf.fiqHigh[3], rf.fiqHigh[4]
		}
	}

	newSlot := rf.bankSlot(newMode)
	rf.r[13], rf.r[14] = newSlot[0], newSlot[1]
	rf.mode = newMode
}
