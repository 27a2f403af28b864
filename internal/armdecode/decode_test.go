/*
 * Starlet - Tests for the ARM/Thumb opcode decoders
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

package armdecode

import "testing"

func TestDecodeARM(t *testing.T) {
	cases := []struct {
		name string
		op   uint32
		want Kind
	}{
		{"MOV r0,#0", 0xE3A00000, DataProc},
		{"CMP r0,#0", 0xE3500000, DataProc},
		{"LDR r0,[r1]", 0xE5910000, LoadStoreSingle},
		{"STMIA r0!,{r1,r2}", 0xE8A00006, LoadStoreMulti},
		{"B #0", 0xEA000000, Branch},
		{"BL #0", 0xEB000000, Branch},
		{"BX lr", 0xE12FFF1E, BranchExchange},
		{"BLX r0 (cond)", 0xE12FFF30, BranchExchange},
		{"BLX imm (uncond)", 0xFB000000, BranchLinkExchangeImm},
		{"MUL r0,r1,r2", 0xE0000291, Multiply},
		{"UMULL r0,r1,r2,r3", 0xE0810392, MultiplyLong},
		{"MRC p15,0,r0,c1,c0,0", 0xEE110F10, CoprocReg},
		{"MCR p15,0,r0,c2,c0,0", 0xEE020F10, CoprocReg},
		{"SVC 0xAB", 0xEF0000AB, SoftwareInterrupt},
		{"BKPT #0", 0xE1200070, Breakpoint},
		{"SWP r0,r1,[r2]", 0xE1020091, SingleDataSwap},
		{"LDRH r0,[r1]", 0xE1D100B0, LoadStoreHalfword},
		{"MRS r0,cpsr", 0xE10F0000, MRS},
		{"MSR cpsr,r0", 0xE129F000, MSR},
		{"undefined", 0x06000010, Undefined},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DecodeARM(c.op)
			if got != c.want {
				t.Errorf("DecodeARM(0x%08x) = %s, want %s", c.op, got, c.want)
			}
		})
	}
}

func TestDecodeThumb(t *testing.T) {
	cases := []struct {
		name string
		op   uint16
		want Kind
	}{
		{"LSL r0,r1,#3", 0x00C8, ShiftImm},
		{"ADD r0,r1,r2", 0x1888, AddSub},
		{"MOV r0,#5", 0x2005, MovCmpAddSubImm},
		{"AND r0,r1", 0x4008, ALUOp},
		{"BX r0", 0x4700, HiRegOp},
		{"LDR r0,[pc,#4]", 0x4801, PCRelLoad},
		{"STR r0,[r1,r2]", 0x5088, LoadStoreReg},
		{"LDSB r0,[r1,r2]", 0x5688, LoadStoreSext},
		{"STR r0,[r1,#4]", 0x6040, LoadStoreImm},
		{"STRH r0,[r1,#2]", 0x8040, LoadStoreHalf},
		{"LDR r0,[sp,#4]", 0x9801, SPRelLoad},
		{"ADD r0,pc,#4", 0xA001, LoadAddress},
		{"ADD sp,#4", 0xB001, AddOffsetSP},
		{"PUSH {r0,lr}", 0xB501, PushPop},
		{"STMIA r0!,{r1}", 0xC002, MultipleLoadStore},
		{"BEQ #0", 0xD000, CondBranch},
		{"SWI 0xAB", 0xDFAB, SoftwareInterruptT},
		{"B #0", 0xE000, UncondBranch},
		{"BLX suffix", 0xE800, BlxImmSuffix},
		{"BL prefix", 0xF000, BlPrefix},
		{"BL suffix", 0xF800, BlImmSuffix},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DecodeThumb(c.op)
			if got != c.want {
				t.Errorf("DecodeThumb(0x%04x) = %s, want %s", c.op, got, c.want)
			}
		})
	}
}
