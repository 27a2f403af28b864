/*
 * Starlet - Typed field accessors over a raw 32-bit ARM opcode
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

package armbits

// ARMWord is a raw 32-bit ARM-encoding opcode. All family views below are
// defined types over uint32 and are interchangeable with it by a plain
// conversion; none of them copy the opcode into a struct.
type ARMWord uint32

// Cond returns the 4-bit condition field common to nearly all ARM
// encodings.
func (w ARMWord) Cond() uint8 { return uint8(field(uint32(w), 31, 28)) }

// Raw returns the underlying opcode.
func (w ARMWord) Raw() uint32 { return uint32(w) }

// DataProc is the view over data-processing (AND..MVN) encodings, both
// immediate and register-shifted forms.
type DataProc ARMWord

func (w DataProc) Cond() uint8    { return uint8(field(uint32(w), 31, 28)) }
func (w DataProc) IBit() bool     { return bit(uint32(w), 25) }
func (w DataProc) Opcode() uint8  { return uint8(field(uint32(w), 24, 21)) }
func (w DataProc) SBit() bool     { return bit(uint32(w), 20) }
func (w DataProc) Rn() uint8      { return uint8(field(uint32(w), 19, 16)) }
func (w DataProc) Rd() uint8      { return uint8(field(uint32(w), 15, 12)) }
func (w DataProc) Operand2() uint16 { return uint16(field(uint32(w), 11, 0)) }

// Immediate operand-2 sub-fields (IBit() == true).
func (w DataProc) RotateImm() uint8 { return uint8(field(uint32(w), 11, 8)) }
func (w DataProc) Imm8() uint8      { return uint8(field(uint32(w), 7, 0)) }

// Register operand-2 sub-fields (IBit() == false).
func (w DataProc) ShiftAmount() uint8 { return uint8(field(uint32(w), 11, 7)) }
func (w DataProc) ShiftType() uint8   { return uint8(field(uint32(w), 6, 5)) }
func (w DataProc) RegShift() bool     { return bit(uint32(w), 4) }
func (w DataProc) Rs() uint8          { return uint8(field(uint32(w), 11, 8)) }
func (w DataProc) Rm() uint8          { return uint8(field(uint32(w), 3, 0)) }

// StatusReg is the view over MRS/MSR encodings.
type StatusReg ARMWord

func (w StatusReg) Cond() uint8  { return uint8(field(uint32(w), 31, 28)) }
func (w StatusReg) RBit() bool   { return bit(uint32(w), 22) } // CPSR (0) vs SPSR (1)
func (w StatusReg) IsMSR() bool  { return bit(uint32(w), 21) }
func (w StatusReg) IBit() bool   { return bit(uint32(w), 25) }
func (w StatusReg) FieldMask() uint8 { return uint8(field(uint32(w), 19, 16)) }
func (w StatusReg) Rd() uint8    { return uint8(field(uint32(w), 15, 12)) }
func (w StatusReg) RotateImm() uint8 { return uint8(field(uint32(w), 11, 8)) }
func (w StatusReg) Imm8() uint8  { return uint8(field(uint32(w), 7, 0)) }
func (w StatusReg) Rm() uint8    { return uint8(field(uint32(w), 3, 0)) }

// LoadStoreSingle is the view over single-register LDR/STR, both
// immediate- and register-offset forms.
type LoadStoreSingle ARMWord

func (w LoadStoreSingle) Cond() uint8 { return uint8(field(uint32(w), 31, 28)) }
func (w LoadStoreSingle) IBit() bool  { return bit(uint32(w), 25) } // register offset when set
func (w LoadStoreSingle) PBit() bool  { return bit(uint32(w), 24) } // pre/post indexed
func (w LoadStoreSingle) UBit() bool  { return bit(uint32(w), 23) } // add/subtract offset
func (w LoadStoreSingle) BBit() bool  { return bit(uint32(w), 22) } // byte/word
func (w LoadStoreSingle) WBit() bool  { return bit(uint32(w), 21) } // writeback
func (w LoadStoreSingle) LBit() bool  { return bit(uint32(w), 20) } // load/store
func (w LoadStoreSingle) Rn() uint8   { return uint8(field(uint32(w), 19, 16)) }
func (w LoadStoreSingle) Rd() uint8   { return uint8(field(uint32(w), 15, 12)) }
func (w LoadStoreSingle) Imm12() uint16 { return uint16(field(uint32(w), 11, 0)) }
func (w LoadStoreSingle) ShiftAmount() uint8 { return uint8(field(uint32(w), 11, 7)) }
func (w LoadStoreSingle) ShiftType() uint8   { return uint8(field(uint32(w), 6, 5)) }
func (w LoadStoreSingle) Rm() uint8          { return uint8(field(uint32(w), 3, 0)) }

// LoadStoreHalfword is the view over halfword/signed-byte LDR/STR
// (LDRH, LDRSB, LDRSH, STRH) and SWP.
type LoadStoreHalfword ARMWord

func (w LoadStoreHalfword) Cond() uint8 { return uint8(field(uint32(w), 31, 28)) }
func (w LoadStoreHalfword) PBit() bool  { return bit(uint32(w), 24) }
func (w LoadStoreHalfword) UBit() bool  { return bit(uint32(w), 23) }
func (w LoadStoreHalfword) IBit() bool  { return bit(uint32(w), 22) } // immediate vs register offset
func (w LoadStoreHalfword) WBit() bool  { return bit(uint32(w), 21) }
func (w LoadStoreHalfword) LBit() bool  { return bit(uint32(w), 20) }
func (w LoadStoreHalfword) Rn() uint8   { return uint8(field(uint32(w), 19, 16)) }
func (w LoadStoreHalfword) Rd() uint8   { return uint8(field(uint32(w), 15, 12)) }
func (w LoadStoreHalfword) ImmHi() uint8 { return uint8(field(uint32(w), 11, 8)) }
func (w LoadStoreHalfword) SH() uint8   { return uint8(field(uint32(w), 6, 5)) }
func (w LoadStoreHalfword) ImmLo() uint8 { return uint8(field(uint32(w), 3, 0)) }
func (w LoadStoreHalfword) Rm() uint8   { return uint8(field(uint32(w), 3, 0)) }

// LoadStoreMulti is the view over LDM/STM.
type LoadStoreMulti ARMWord

func (w LoadStoreMulti) Cond() uint8        { return uint8(field(uint32(w), 31, 28)) }
func (w LoadStoreMulti) PBit() bool         { return bit(uint32(w), 24) }
func (w LoadStoreMulti) UBit() bool         { return bit(uint32(w), 23) }
func (w LoadStoreMulti) SBit() bool         { return bit(uint32(w), 22) } // user-bank / PSR&force-user
func (w LoadStoreMulti) WBit() bool         { return bit(uint32(w), 21) }
func (w LoadStoreMulti) LBit() bool         { return bit(uint32(w), 20) }
func (w LoadStoreMulti) Rn() uint8          { return uint8(field(uint32(w), 19, 16)) }
func (w LoadStoreMulti) RegisterList() uint16 { return uint16(field(uint32(w), 15, 0)) }

// Branch is the view over B/BL.
type Branch ARMWord

func (w Branch) Cond() uint8  { return uint8(field(uint32(w), 31, 28)) }
func (w Branch) LBit() bool   { return bit(uint32(w), 24) }
func (w Branch) Offset24() uint32 { return field(uint32(w), 23, 0) }

// BranchExchange is the view over BX/BLX(register).
type BranchExchange ARMWord

func (w BranchExchange) Cond() uint8 { return uint8(field(uint32(w), 31, 28)) }
func (w BranchExchange) LBit() bool  { return bit(uint32(w), 5) } // 1 => BLX, 0 => BX
func (w BranchExchange) Rm() uint8   { return uint8(field(uint32(w), 3, 0)) }

// BranchLinkExchangeImm is the view over BLX(immediate) (unconditional,
// top nibble is 1111 rather than a condition).
type BranchLinkExchangeImm ARMWord

func (w BranchLinkExchangeImm) HBit() bool     { return bit(uint32(w), 24) }
func (w BranchLinkExchangeImm) Offset24() uint32 { return field(uint32(w), 23, 0) }

// Multiply is the view over MUL/MLA.
type Multiply ARMWord

func (w Multiply) Cond() uint8 { return uint8(field(uint32(w), 31, 28)) }
func (w Multiply) ABit() bool  { return bit(uint32(w), 21) } // accumulate
func (w Multiply) SBit() bool  { return bit(uint32(w), 20) }
func (w Multiply) Rd() uint8   { return uint8(field(uint32(w), 19, 16)) }
func (w Multiply) Rn() uint8   { return uint8(field(uint32(w), 15, 12)) }
func (w Multiply) Rs() uint8   { return uint8(field(uint32(w), 11, 8)) }
func (w Multiply) Rm() uint8   { return uint8(field(uint32(w), 3, 0)) }

// MultiplyLong is the view over UMULL/SMULL/UMLAL/SMLAL.
type MultiplyLong ARMWord

func (w MultiplyLong) Cond() uint8 { return uint8(field(uint32(w), 31, 28)) }
func (w MultiplyLong) UBit() bool  { return bit(uint32(w), 22) } // signed (SMULL/SMLAL) when set
func (w MultiplyLong) ABit() bool  { return bit(uint32(w), 21) }
func (w MultiplyLong) SBit() bool  { return bit(uint32(w), 20) }
func (w MultiplyLong) RdHi() uint8 { return uint8(field(uint32(w), 19, 16)) }
func (w MultiplyLong) RdLo() uint8 { return uint8(field(uint32(w), 15, 12)) }
func (w MultiplyLong) Rs() uint8   { return uint8(field(uint32(w), 11, 8)) }
func (w MultiplyLong) Rm() uint8   { return uint8(field(uint32(w), 3, 0)) }

// HalfwordMultiply is the view over the DSP-extension half-word
// multiplies (SMLAxx, SMULxx, SMLAWx, SMULWx).
type HalfwordMultiply ARMWord

func (w HalfwordMultiply) Cond() uint8 { return uint8(field(uint32(w), 31, 28)) }
func (w HalfwordMultiply) Op() uint8   { return uint8(field(uint32(w), 22, 21)) }
func (w HalfwordMultiply) Rd() uint8   { return uint8(field(uint32(w), 19, 16)) }
func (w HalfwordMultiply) Rn() uint8   { return uint8(field(uint32(w), 15, 12)) }
func (w HalfwordMultiply) Rs() uint8   { return uint8(field(uint32(w), 11, 8)) }
func (w HalfwordMultiply) Y() bool     { return bit(uint32(w), 6) }
func (w HalfwordMultiply) X() bool     { return bit(uint32(w), 5) }
func (w HalfwordMultiply) Rm() uint8   { return uint8(field(uint32(w), 3, 0)) }

// CoprocReg is the view over MRC/MCR.
type CoprocReg ARMWord

func (w CoprocReg) Cond() uint8    { return uint8(field(uint32(w), 31, 28)) }
func (w CoprocReg) Opcode1() uint8 { return uint8(field(uint32(w), 23, 21)) }
func (w CoprocReg) LBit() bool     { return bit(uint32(w), 20) } // MRC=1, MCR=0
func (w CoprocReg) CRn() uint8     { return uint8(field(uint32(w), 19, 16)) }
func (w CoprocReg) Rd() uint8      { return uint8(field(uint32(w), 15, 12)) }
func (w CoprocReg) CPNum() uint8   { return uint8(field(uint32(w), 11, 8)) }
func (w CoprocReg) Opcode2() uint8 { return uint8(field(uint32(w), 7, 5)) }
func (w CoprocReg) CRm() uint8     { return uint8(field(uint32(w), 3, 0)) }

// SoftwareInterrupt is the view over SWI/SVC.
type SoftwareInterrupt ARMWord

func (w SoftwareInterrupt) Cond() uint8   { return uint8(field(uint32(w), 31, 28)) }
func (w SoftwareInterrupt) Comment() uint32 { return field(uint32(w), 23, 0) }

// Breakpoint is the view over BKPT (bits[27:20]==0x12 with
// bits[7:4]==0111; the decoder classes any cond==1111 word other than
// BLX(immediate) as Undefined, so BKPT is recognized with a normal cond).
type Breakpoint ARMWord

func (w Breakpoint) ImmHi() uint16 { return uint16(field(uint32(w), 19, 8)) }
func (w Breakpoint) ImmLo() uint16 { return uint16(field(uint32(w), 3, 0)) }
func (w Breakpoint) Imm16() uint16 { return w.ImmHi()<<4 | w.ImmLo() }

// SingleDataSwap is the view over SWP/SWPB.
type SingleDataSwap ARMWord

func (w SingleDataSwap) Cond() uint8 { return uint8(field(uint32(w), 31, 28)) }
func (w SingleDataSwap) BBit() bool  { return bit(uint32(w), 22) }
func (w SingleDataSwap) Rn() uint8   { return uint8(field(uint32(w), 19, 16)) }
func (w SingleDataSwap) Rd() uint8   { return uint8(field(uint32(w), 15, 12)) }
func (w SingleDataSwap) Rm() uint8   { return uint8(field(uint32(w), 3, 0)) }
