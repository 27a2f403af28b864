/*
 * Starlet - Opcode classification shared by the ARM and Thumb decoders
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

// Package armdecode maps a raw ARM or Thumb opcode to a tagged
// InstructionKind. Decoders are pure, total, side-effect-free functions:
// mask-tables are matched most-specific-first and Undefined is returned
// when nothing matches.
package armdecode

// Kind tags the instruction class an opcode decodes to. Both the ARM and
// Thumb decoders share this enumeration; Thumb additionally produces the
// BlPrefix/BlImmSuffix/BlxImmSuffix pseudo-kinds that cover the
// two-halfword BL/BLX sequence.
type Kind int

const (
	Undefined Kind = iota

	// Shared / ARM-only classes.
	DataProc
	MRS
	MSR
	LoadStoreSingle
	LoadStoreHalfword
	LoadStoreMulti
	Branch
	BranchExchange
	BranchLinkExchangeImm
	Multiply
	MultiplyLong
	HalfwordMultiply
	CoprocReg
	CoprocMaintenance
	SoftwareInterrupt
	Breakpoint
	SingleDataSwap

	// Thumb-only classes.
	ShiftImm
	AddSub
	MovCmpAddSubImm
	ALUOp
	HiRegOp
	PCRelLoad
	LoadStoreReg
	LoadStoreSext
	LoadStoreImm
	LoadStoreHalf
	SPRelLoad
	LoadAddress
	AddOffsetSP
	PushPop
	MultipleLoadStore
	CondBranch
	SoftwareInterruptT
	UncondBranch
	BlPrefix
	BlImmSuffix
	BlxImmSuffix
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "Undefined"
	case DataProc:
		return "DataProc"
	case MRS:
		return "MRS"
	case MSR:
		return "MSR"
	case LoadStoreSingle:
		return "LoadStoreSingle"
	case LoadStoreHalfword:
		return "LoadStoreHalfword"
	case LoadStoreMulti:
		return "LoadStoreMulti"
	case Branch:
		return "Branch"
	case BranchExchange:
		return "BranchExchange"
	case BranchLinkExchangeImm:
		return "BranchLinkExchangeImm"
	case Multiply:
		return "Multiply"
	case MultiplyLong:
		return "MultiplyLong"
	case HalfwordMultiply:
		return "HalfwordMultiply"
	case CoprocReg:
		return "CoprocReg"
	case CoprocMaintenance:
		return "CoprocMaintenance"
	case SoftwareInterrupt:
		return "SoftwareInterrupt"
	case Breakpoint:
		return "Breakpoint"
	case SingleDataSwap:
		return "SingleDataSwap"
	case ShiftImm:
		return "ShiftImm"
	case AddSub:
		return "AddSub"
	case MovCmpAddSubImm:
		return "MovCmpAddSubImm"
	case ALUOp:
		return "ALUOp"
	case HiRegOp:
		return "HiRegOp"
	case PCRelLoad:
		return "PCRelLoad"
	case LoadStoreReg:
		return "LoadStoreReg"
	case LoadStoreSext:
		return "LoadStoreSext"
	case LoadStoreImm:
		return "LoadStoreImm"
	case LoadStoreHalf:
		return "LoadStoreHalf"
	case SPRelLoad:
		return "SPRelLoad"
	case LoadAddress:
		return "LoadAddress"
	case AddOffsetSP:
		return "AddOffsetSP"
	case PushPop:
		return "PushPop"
	case MultipleLoadStore:
		return "MultipleLoadStore"
	case CondBranch:
		return "CondBranch"
	case SoftwareInterruptT:
		return "SoftwareInterruptT"
	case UncondBranch:
		return "UncondBranch"
	case BlPrefix:
		return "BlPrefix"
	case BlImmSuffix:
		return "BlImmSuffix"
	case BlxImmSuffix:
		return "BlxImmSuffix"
	default:
		return "?"
	}
}
