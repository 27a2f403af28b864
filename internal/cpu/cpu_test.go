/*
 * Starlet - Tests for the CPU step loop and register file
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

import (
	"testing"

	"github.com/techflashYT/ironic/internal/armbits"
)

// flatMem is a trivial byte-addressable Bus used to drive whole
// instructions through CPU.Step without pulling in internal/bus.
type flatMem struct {
	data [0x10000]byte
}

func (m *flatMem) Read8(pa uint32) (uint8, error) { return m.data[pa], nil }
func (m *flatMem) Read16(pa uint32) (uint16, error) {
	return uint16(m.data[pa]) | uint16(m.data[pa+1])<<8, nil
}
func (m *flatMem) Read32(pa uint32) (uint32, error) {
	return uint32(m.data[pa]) | uint32(m.data[pa+1])<<8 | uint32(m.data[pa+2])<<16 | uint32(m.data[pa+3])<<24, nil
}
func (m *flatMem) Write8(pa uint32, v uint8) error { m.data[pa] = v; return nil }
func (m *flatMem) Write16(pa uint32, v uint16) error {
	m.data[pa] = byte(v)
	m.data[pa+1] = byte(v >> 8)
	return nil
}
func (m *flatMem) Write32(pa uint32, v uint32) error {
	m.data[pa] = byte(v)
	m.data[pa+1] = byte(v >> 8)
	m.data[pa+2] = byte(v >> 16)
	m.data[pa+3] = byte(v >> 24)
	return nil
}

func (m *flatMem) putWord(pa, v uint32) { _ = m.Write32(pa, v) }

type noIRQ struct{}

func (noIRQ) ARMIRQAsserted() bool { return false }

func newTestCPU() (*CPU, *flatMem) {
	mem := &flatMem{}
	c := New(mem, noIRQ{})
	return c, mem
}

func TestAddWithCarry(t *testing.T) {
	cases := []struct {
		name               string
		a, b               uint32
		cin                bool
		wantRes            uint32
		wantCarry, wantOvf bool
	}{
		{"simple", 1, 1, false, 2, false, false},
		{"carry out", 0xFFFFFFFF, 1, false, 0, true, false},
		{"signed overflow", 0x7FFFFFFF, 1, false, 0x80000000, false, true},
		{"sub via invert (5-3)", 5, ^uint32(3), true, 2, true, false},
		{"sub borrow (3-5)", 3, ^uint32(5), true, 0xFFFFFFFE, false, false},
		{"min int minus 1 overflows", 0x80000000, ^uint32(1), true, 0x7FFFFFFF, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, carry, ovf := addWithCarry(tc.a, tc.b, tc.cin)
			if res != tc.wantRes || carry != tc.wantCarry || ovf != tc.wantOvf {
				t.Errorf("addWithCarry(0x%x,0x%x,%v) = (0x%x,%v,%v), want (0x%x,%v,%v)",
					tc.a, tc.b, tc.cin, res, carry, ovf, tc.wantRes, tc.wantCarry, tc.wantOvf)
			}
		})
	}
}

func TestApplyShiftImmediateSpecialCases(t *testing.T) {
	cases := []struct {
		name      string
		kind      uint8
		v         uint32
		amount    uint
		fromReg   bool
		carryIn   bool
		wantV     uint32
		wantCarry bool
	}{
		{"LSL#0 passes through carry", 0, 0x1, 0, false, true, 0x1, true},
		{"LSR#0 means LSR#32", 1, 0x80000000, 0, false, false, 0, true},
		{"LSR reg by 0 passes through", 1, 0x80000000, 0, true, true, 0x80000000, true},
		{"ASR#0 means ASR#32 all-ones", 2, 0x80000000, 0, false, false, 0xFFFFFFFF, true},
		{"ASR#0 means ASR#32 all-zero for positive", 2, 0x1, 0, false, false, 0, false},
		{"ROR#0 is RRX", 3, 0x2, 0, false, true, 0x80000001, false},
		{"LSL#32 clears value, carry = bit0", 0, 0x3, 32, false, false, 0, true},
		{"LSR#32 clears value, carry = bit31", 1, 0x80000000, 32, false, false, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, carry := applyShift(tc.kind, tc.v, tc.amount, tc.fromReg, tc.carryIn)
			if v != tc.wantV || carry != tc.wantCarry {
				t.Errorf("applyShift(%d,0x%x,%d,fromReg=%v,%v) = (0x%x,%v), want (0x%x,%v)",
					tc.kind, tc.v, tc.amount, tc.fromReg, tc.carryIn, v, carry, tc.wantV, tc.wantCarry)
			}
		})
	}
}

func TestShifterOperandImmediateRotateZeroKeepsCarry(t *testing.T) {
	c, _ := newTestCPU()
	c.cpsr = withNZCV(c.cpsr, false, false, true, false) // C=1

	// MOV R0, #0xFF with rotate field 0: I=1, rotate=0, imm8=0xFF.
	op := uint32(0xE3A000FF)
	v, carry := shifterOperand(c, armbits.DataProc(op))
	if v != 0xFF || !carry {
		t.Errorf("shifterOperand = (0x%x,%v), want (0xff,true) carrying through CPSR.C", v, carry)
	}
}

func TestCondPass(t *testing.T) {
	allFlags := withNZCV(0, true, true, true, true)
	none := withNZCV(0, false, false, false, false)

	if !condPass(CPSR(allFlags), 0x0) { // EQ, Z set
		t.Error("EQ should pass when Z is set")
	}
	if condPass(CPSR(none), 0x0) {
		t.Error("EQ should not pass when Z is clear")
	}
	if !condPass(CPSR(none), 0x1) { // NE
		t.Error("NE should pass when Z is clear")
	}
	if !condPass(CPSR(allFlags), 0xE) { // AL always
		t.Error("AL must always pass")
	}
	if condPass(CPSR(none), 0xF) { // reserved, handled by caller as unconditional BLX, never via condPass
		t.Error("cond 0xF should report false from condPass itself")
	}
}

func TestExecPCDiffersByInstructionSet(t *testing.T) {
	c, _ := newTestCPU()
	c.fetchPC = 0x1000

	if got := c.ExecPC(); got != 0x1008 {
		t.Errorf("ARM exec PC = 0x%x, want 0x1008", got)
	}
	c.cpsr = setBit(c.cpsr, cpsrThumb, true)
	if got := c.ExecPC(); got != 0x1004 {
		t.Errorf("Thumb exec PC = 0x%x, want 0x1004", got)
	}
}

func TestIncrementPCWidth(t *testing.T) {
	c, _ := newTestCPU()
	c.fetchPC = 0x1000
	c.IncrementPC()
	if c.fetchPC != 0x1004 {
		t.Errorf("ARM fetch PC after increment = 0x%x, want 0x1004", c.fetchPC)
	}

	c.cpsr = setBit(c.cpsr, cpsrThumb, true)
	c.fetchPC = 0x1000
	c.IncrementPC()
	if c.fetchPC != 0x1002 {
		t.Errorf("Thumb fetch PC after increment = 0x%x, want 0x1002", c.fetchPC)
	}
}

func TestGenerateExceptionIRQLinkRegister(t *testing.T) {
	c, _ := newTestCPU()
	c.fetchPC = 0x8000
	c.cpsr = setBit(c.cpsr, cpsrIDis, false) // IRQs unmasked

	c.GenerateException(ExcIrq)

	if c.regs.mode != ModeIRQ {
		t.Fatalf("mode after IRQ = 0x%x, want ModeIRQ", c.regs.mode)
	}
	if c.regs.r[14] != 0x8004 {
		t.Errorf("LR_irq = 0x%x, want fetchPC+4 = 0x8004", c.regs.r[14])
	}
	if !c.CPSR().IRQDisabled() {
		t.Error("IRQ exception entry must set the I bit")
	}
	if c.fetchPC != 0x00000018 {
		t.Errorf("fetch PC after IRQ = 0x%x, want the low IRQ vector", c.fetchPC)
	}
}

func TestExceptionReturnRestoresModeAndThumb(t *testing.T) {
	c, _ := newTestCPU()
	c.fetchPC = 0x8000
	c.GenerateException(ExcIrq)

	// Simulate the handler's MOVS pc, lr with the Thumb bit set in LR.
	c.ExceptionReturn(0x9001)

	if c.regs.mode != ModeSupervisor {
		t.Errorf("mode after exception return = 0x%x, want restored ModeSupervisor", c.regs.mode)
	}
	if c.fetchPC != 0x9000 {
		t.Errorf("fetch PC after exception return = 0x%x, want 0x9000", c.fetchPC)
	}
	if !c.CPSR().Thumb() {
		t.Error("exception return should have taken the Thumb bit from bit 0 of the restored PC")
	}
}

// stmMultiOp encodes an ARM STMIA Rn!, {list} instruction word.
func stmMultiOp(rn uint8, list uint16, writeback bool) uint32 {
	op := uint32(0xE) << 28 // cond = AL
	op |= uint32(0x4) << 25 // load/store multiple family
	op |= 1 << 23           // U: increment
	if writeback {
		op |= 1 << 21
	}
	op |= uint32(rn) << 16
	op |= uint32(list)
	return op
}

func TestSTMStoresPCPlusTwelve(t *testing.T) {
	c, mem := newTestCPU()
	c.fetchPC = 0x1000
	c.regs.r[0] = 0x2000 // base register R0
	c.regs.r[1] = 0xAAAAAAAA

	op := stmMultiOp(0, (1<<1)|(1<<15), true) // {R1, PC}
	res := hLoadStoreMulti(c, op)
	if res != RetireOk {
		t.Fatalf("STM result = %v, want RetireOk", res)
	}

	storedPC, _ := mem.Read32(0x2004)
	if storedPC != 0x100C {
		t.Errorf("stored PC = 0x%x, want fetchPC+12 = 0x100c", storedPC)
	}
	if c.regs.r[0] != 0x2008 {
		t.Errorf("writeback base = 0x%x, want 0x2008 after storing 2 registers", c.regs.r[0])
	}
}

// ldrOp encodes an ARM LDR Rd, [Rn, #imm] pre-indexed instruction.
func ldrOp(rd, rn uint8, imm int32) uint32 {
	op := uint32(0xE) << 28
	op |= 1 << 26 // load/store single family
	op |= 1 << 24 // P: pre-indexed
	u := uint32(1)
	if imm < 0 {
		u = 0
		imm = -imm
	}
	op |= u << 23
	op |= 1 << 20 // L: load
	op |= uint32(rn) << 16
	op |= uint32(rd) << 12
	op |= uint32(imm) & 0xFFF
	return op
}

func TestLDRToR15Interworks(t *testing.T) {
	c, mem := newTestCPU()
	c.fetchPC = 0x0000FFF8 // ExecPC = fetchPC + 8 = 0x10000; the load's base is R0, not PC
	mem.putWord(0x1000, 0x00000001)
	c.regs.r[0] = 0x1008 // so that [R0, #-8] == 0x1000

	op := ldrOp(15, 0, -8)
	res := hLoadStoreSingle(c, op)
	if res != RetireBranch {
		t.Fatalf("LDR pc result = %v, want RetireBranch", res)
	}
	if c.fetchPC != 0x00000000 {
		t.Errorf("fetch PC after interworking LDR = 0x%x, want 0", c.fetchPC)
	}
	if !c.CPSR().Thumb() {
		t.Error("LDR loading an odd address into R15 must switch to Thumb state")
	}
}
