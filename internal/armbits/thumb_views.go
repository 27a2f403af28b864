/*
 * Starlet - Typed field accessors over a raw 16-bit Thumb opcode
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

// ThumbWord is a raw 16-bit Thumb-encoding opcode.
type ThumbWord uint16

func (w ThumbWord) Raw() uint16 { return uint16(w) }

// ShiftImm: LSL/LSR/ASR immediate (format 1).
type ShiftImm ThumbWord

func (w ShiftImm) Op() uint8    { return uint8(field16(uint16(w), 12, 11)) }
func (w ShiftImm) Offset5() uint8 { return uint8(field16(uint16(w), 10, 6)) }
func (w ShiftImm) Rs() uint8    { return uint8(field16(uint16(w), 5, 3)) }
func (w ShiftImm) Rd() uint8    { return uint8(field16(uint16(w), 2, 0)) }

// AddSub: add/subtract register or immediate (format 2).
type AddSub ThumbWord

func (w AddSub) IBit() bool  { return bit16(uint16(w), 10) }
func (w AddSub) SubBit() bool { return bit16(uint16(w), 9) }
func (w AddSub) RnImm() uint8 { return uint8(field16(uint16(w), 8, 6)) }
func (w AddSub) Rs() uint8   { return uint8(field16(uint16(w), 5, 3)) }
func (w AddSub) Rd() uint8   { return uint8(field16(uint16(w), 2, 0)) }

// MovCmpAddSubImm: MOV/CMP/ADD/SUB with an 8-bit immediate (format 3).
type MovCmpAddSubImm ThumbWord

func (w MovCmpAddSubImm) Op() uint8  { return uint8(field16(uint16(w), 12, 11)) }
func (w MovCmpAddSubImm) Rd() uint8  { return uint8(field16(uint16(w), 10, 8)) }
func (w MovCmpAddSubImm) Imm8() uint8 { return uint8(field16(uint16(w), 7, 0)) }

// ALUOp: two-register ALU operations (format 4).
type ALUOp ThumbWord

func (w ALUOp) Op() uint8 { return uint8(field16(uint16(w), 9, 6)) }
func (w ALUOp) Rs() uint8 { return uint8(field16(uint16(w), 5, 3)) }
func (w ALUOp) Rd() uint8 { return uint8(field16(uint16(w), 2, 0)) }

// HiRegOp: hi-register operations and BX/BLX (format 5).
type HiRegOp ThumbWord

func (w HiRegOp) Op() uint8   { return uint8(field16(uint16(w), 9, 8)) }
func (w HiRegOp) H1() bool    { return bit16(uint16(w), 7) }
func (w HiRegOp) H2() bool    { return bit16(uint16(w), 6) }
func (w HiRegOp) RsRm() uint8 { return uint8(field16(uint16(w), 5, 3)) }
func (w HiRegOp) RdRn() uint8 { return uint8(field16(uint16(w), 2, 0)) }

// PCRelLoad: LDR Rd, [PC, #imm] (format 6).
type PCRelLoad ThumbWord

func (w PCRelLoad) Rd() uint8   { return uint8(field16(uint16(w), 10, 8)) }
func (w PCRelLoad) Word8() uint8 { return uint8(field16(uint16(w), 7, 0)) }

// LoadStoreReg: load/store with register offset (format 7).
type LoadStoreReg ThumbWord

func (w LoadStoreReg) LBit() bool { return bit16(uint16(w), 11) }
func (w LoadStoreReg) BBit() bool { return bit16(uint16(w), 10) }
func (w LoadStoreReg) Ro() uint8  { return uint8(field16(uint16(w), 8, 6)) }
func (w LoadStoreReg) Rb() uint8  { return uint8(field16(uint16(w), 5, 3)) }
func (w LoadStoreReg) Rd() uint8  { return uint8(field16(uint16(w), 2, 0)) }

// LoadStoreSext: load/store sign-extended byte/halfword (format 8).
type LoadStoreSext ThumbWord

func (w LoadStoreSext) HBit() bool { return bit16(uint16(w), 11) }
func (w LoadStoreSext) SBit() bool { return bit16(uint16(w), 10) }
func (w LoadStoreSext) Ro() uint8  { return uint8(field16(uint16(w), 8, 6)) }
func (w LoadStoreSext) Rb() uint8  { return uint8(field16(uint16(w), 5, 3)) }
func (w LoadStoreSext) Rd() uint8  { return uint8(field16(uint16(w), 2, 0)) }

// LoadStoreImm: load/store with immediate offset (format 9).
type LoadStoreImm ThumbWord

func (w LoadStoreImm) BBit() bool  { return bit16(uint16(w), 12) }
func (w LoadStoreImm) LBit() bool  { return bit16(uint16(w), 11) }
func (w LoadStoreImm) Offset5() uint8 { return uint8(field16(uint16(w), 10, 6)) }
func (w LoadStoreImm) Rb() uint8   { return uint8(field16(uint16(w), 5, 3)) }
func (w LoadStoreImm) Rd() uint8   { return uint8(field16(uint16(w), 2, 0)) }

// LoadStoreHalf: load/store halfword (format 10).
type LoadStoreHalf ThumbWord

func (w LoadStoreHalf) LBit() bool  { return bit16(uint16(w), 11) }
func (w LoadStoreHalf) Offset5() uint8 { return uint8(field16(uint16(w), 10, 6)) }
func (w LoadStoreHalf) Rb() uint8   { return uint8(field16(uint16(w), 5, 3)) }
func (w LoadStoreHalf) Rd() uint8   { return uint8(field16(uint16(w), 2, 0)) }

// SPRelLoad: SP-relative load/store (format 11).
type SPRelLoad ThumbWord

func (w SPRelLoad) LBit() bool  { return bit16(uint16(w), 11) }
func (w SPRelLoad) Rd() uint8   { return uint8(field16(uint16(w), 10, 8)) }
func (w SPRelLoad) Word8() uint8 { return uint8(field16(uint16(w), 7, 0)) }

// LoadAddress: ADD Rd, PC/SP, #imm (format 12).
type LoadAddress ThumbWord

func (w LoadAddress) SPBit() bool { return bit16(uint16(w), 11) }
func (w LoadAddress) Rd() uint8   { return uint8(field16(uint16(w), 10, 8)) }
func (w LoadAddress) Word8() uint8 { return uint8(field16(uint16(w), 7, 0)) }

// AddOffsetSP: ADD/SUB SP, #imm (format 13).
type AddOffsetSP ThumbWord

func (w AddOffsetSP) SBit() bool  { return bit16(uint16(w), 7) }
func (w AddOffsetSP) Imm7() uint8 { return uint8(field16(uint16(w), 6, 0)) }

// PushPop: PUSH/POP register lists (format 14).
type PushPop ThumbWord

func (w PushPop) LBit() bool        { return bit16(uint16(w), 11) }
func (w PushPop) RBit() bool        { return bit16(uint16(w), 8) } // include LR/PC
func (w PushPop) RegisterList() uint8 { return uint8(field16(uint16(w), 7, 0)) }

// MultipleLoadStore: LDMIA/STMIA Rb! (format 15).
type MultipleLoadStore ThumbWord

func (w MultipleLoadStore) LBit() bool        { return bit16(uint16(w), 11) }
func (w MultipleLoadStore) Rb() uint8         { return uint8(field16(uint16(w), 10, 8)) }
func (w MultipleLoadStore) RegisterList() uint8 { return uint8(field16(uint16(w), 7, 0)) }

// CondBranch: conditional branch (format 16).
type CondBranch ThumbWord

func (w CondBranch) Cond() uint8   { return uint8(field16(uint16(w), 11, 8)) }
func (w CondBranch) SOffset8() uint8 { return uint8(field16(uint16(w), 7, 0)) }

// SoftwareInterrupt16: SWI (format 17).
type SoftwareInterrupt16 ThumbWord

func (w SoftwareInterrupt16) Value8() uint8 { return uint8(field16(uint16(w), 7, 0)) }

// UncondBranch: unconditional branch (format 18).
type UncondBranch ThumbWord

func (w UncondBranch) Offset11() uint16 { return field16(uint16(w), 10, 0) }

// LongBranchLink: the two halfwords of BL/BLX (format 19). HBits()
// (bits[12:11]) distinguishes the prefix (0b10) from the BL suffix
// (0b11) and the BLX suffix (0b01).
type LongBranchLink ThumbWord

func (w LongBranchLink) HBits() uint8  { return uint8(field16(uint16(w), 12, 11)) }
func (w LongBranchLink) Offset11() uint16 { return field16(uint16(w), 10, 0) }
