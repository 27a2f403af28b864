/*
 * Starlet - ARMv5 interpreter state: banked registers, CPSR/SPSR, and shared constants
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

// Package cpu implements the ARMv5-family interpreter: register file
// with banked modes, CPSR/SPSR, a two-level MMU, and the fetch/decode/
// dispatch loop for both ARM and Thumb encodings. Grounded on the
// teacher repo's emu/cpu package shape (cpudefs.go holding the state
// struct and constants, handlers split by instruction family) but
// generalized from the S/370 instruction set to ARMv5.
package cpu

import "github.com/techflashYT/ironic/internal/armdecode"

// Mode is the 5-bit CPSR mode field.
type Mode uint8

const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1B
	ModeSystem     Mode = 0x1F
)

func (m Mode) valid() bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeSystem:
		return true
	}
	return false
}

// CPSR bit positions.
const (
	cpsrN     = 31
	cpsrZ     = 30
	cpsrC     = 29
	cpsrV     = 28
	cpsrIDis  = 7 // IRQ disable
	cpsrFDis  = 6 // FIQ disable
	cpsrThumb = 5
	cpsrModeMask uint32 = 0x1F
)

// ExceptionKind tags the seven ARM exception entry points.
type ExceptionKind int

const (
	ExcReset ExceptionKind = iota
	ExcUndef
	ExcSwi
	ExcPrefetchAbort
	ExcDataAbort
	ExcIrq
	ExcFiq
)

type excInfo struct {
	mode     Mode
	vecLow   uint32
	vecHigh  uint32
	pcDelta  uint32 // added to the fetch PC at the point of the exception to form the return address
	setFIQDisable bool
}

var excTable = map[ExceptionKind]excInfo{
	ExcReset:         {ModeSupervisor, 0x00000000, 0xFFFF0000, 0, true},
	ExcUndef:         {ModeUndefined, 0x00000004, 0xFFFF0004, 4, false},
	ExcSwi:           {ModeSupervisor, 0x00000008, 0xFFFF0008, 4, false},
	ExcPrefetchAbort: {ModeAbort, 0x0000000C, 0xFFFF000C, 4, false},
	ExcDataAbort:     {ModeAbort, 0x00000010, 0xFFFF0010, 8, false},
	ExcIrq:           {ModeIRQ, 0x00000018, 0xFFFF0018, 4, false},
	ExcFiq:           {ModeFIQ, 0x0000001C, 0xFFFF001C, 4, true},
}

// DispatchRes is the outcome of running one instruction handler.
type DispatchRes int

const (
	RetireOk DispatchRes = iota
	RetireBranch
	CondFailed
	ResBreakpoint
	ResException
	ResSemihosting
	FatalErr
)

// StepKind tags the per-step outcome the main loop sees, per spec §2
// data flow step 4.
type StepKind int

const (
	StepOk StepKind = iota
	StepBranch
	StepException
	StepSemihosting
	StepHalt
	StepFatal
)

// StepResult is returned by CPU.Step.
type StepResult struct {
	Kind   StepKind
	Exc    ExceptionKind // valid when Kind == StepException
	Reason string        // valid when Kind == StepFatal
	Immed  uint16         // BKPT immediate; set only when the step retired a BKPT (Kind == StepOk)
}

// AccessKind distinguishes the three MMU request flavors.
type AccessKind int

const (
	AccessRead AccessKind = iota
	AccessWrite
	AccessDebug
)

// famHandler is the signature every instruction handler implements,
// whether decoded from ARM or Thumb: it receives the live CPU and the
// raw opcode and returns the dispatch outcome.
type famHandler func(c *CPU, op uint32) DispatchRes

// kindHandlers maps a decoded instruction Kind to its handler. Built
// once; shared by both the ARM and Thumb dispatch tables (each Kind
// belongs to exactly one of the two instruction sets).
var kindHandlers map[armdecode.Kind]famHandler

func init() {
	kindHandlers = map[armdecode.Kind]famHandler{
		armdecode.Undefined:             hUndefined,
		armdecode.DataProc:              hDataProc,
		armdecode.MRS:                   hMRS,
		armdecode.MSR:                   hMSR,
		armdecode.LoadStoreSingle:       hLoadStoreSingle,
		armdecode.LoadStoreHalfword:     hLoadStoreHalfword,
		armdecode.LoadStoreMulti:        hLoadStoreMulti,
		armdecode.Branch:                hBranch,
		armdecode.BranchExchange:        hBranchExchange,
		armdecode.BranchLinkExchangeImm: hBranchLinkExchangeImm,
		armdecode.Multiply:              hMultiply,
		armdecode.MultiplyLong:          hMultiplyLong,
		armdecode.HalfwordMultiply:      hHalfwordMultiply,
		armdecode.CoprocReg:             hCoprocReg,
		armdecode.CoprocMaintenance:     hCoprocMaintenance,
		armdecode.SoftwareInterrupt:     hSoftwareInterrupt,
		armdecode.Breakpoint:            hBreakpointARM,
		armdecode.SingleDataSwap:        hSingleDataSwap,

		armdecode.ShiftImm:           hThumbShiftImm,
		armdecode.AddSub:             hThumbAddSub,
		armdecode.MovCmpAddSubImm:    hThumbMovCmpAddSubImm,
		armdecode.ALUOp:              hThumbALUOp,
		armdecode.HiRegOp:            hThumbHiRegOp,
		armdecode.PCRelLoad:          hThumbPCRelLoad,
		armdecode.LoadStoreReg:       hThumbLoadStoreReg,
		armdecode.LoadStoreSext:      hThumbLoadStoreSext,
		armdecode.LoadStoreImm:       hThumbLoadStoreImm,
		armdecode.LoadStoreHalf:      hThumbLoadStoreHalf,
		armdecode.SPRelLoad:          hThumbSPRelLoad,
		armdecode.LoadAddress:        hThumbLoadAddress,
		armdecode.AddOffsetSP:        hThumbAddOffsetSP,
		armdecode.PushPop:            hThumbPushPop,
		armdecode.MultipleLoadStore:  hThumbMultipleLoadStore,
		armdecode.CondBranch:         hThumbCondBranch,
		armdecode.SoftwareInterruptT: hThumbSoftwareInterrupt,
		armdecode.UncondBranch:       hThumbUncondBranch,
		armdecode.BlPrefix:           hThumbBlPrefix,
		armdecode.BlImmSuffix:        hThumbBlSuffix,
		armdecode.BlxImmSuffix:       hThumbBlxSuffix,
	}
}

func handlerForKind(k armdecode.Kind) famHandler {
	if h, ok := kindHandlers[k]; ok {
		return h
	}
	return hUndefined
}
