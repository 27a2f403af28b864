/*
 * Starlet - Two-level ARM MMU section/page table walker
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

import "fmt"

// MmuFaultError is the cpu half of spec.md's MmuFault taxonomy entry:
// an L1/L2 descriptor fault, a reserved descriptor, or a permission
// failure during translate().
type MmuFaultError struct {
	VAddr uint32
	Kind  AccessKind
	Why   string
}

func (e *MmuFaultError) Error() string {
	return fmt.Sprintf("cpu: mmu fault at 0x%08x (%s)", e.VAddr, e.Why)
}

// CP15 is the system control coprocessor: control register, translation
// table base, and the 2-bit-per-domain access control register.
type CP15 struct {
	Control      uint32
	TTBR         uint32
	DomainAccess uint32
}

const (
	ctlMMUEnable  uint32 = 1 << 0
	ctlSysProtect uint32 = 1 << 8
	ctlROMProtect uint32 = 1 << 9
	ctlHighVector uint32 = 1 << 13
)

func (c *CP15) mmuEnabled() bool  { return c.Control&ctlMMUEnable != 0 }
func (c *CP15) sysProtect() bool  { return c.Control&ctlSysProtect != 0 }
func (c *CP15) romProtect() bool  { return c.Control&ctlROMProtect != 0 }
func (c *CP15) highVectors() bool { return c.Control&ctlHighVector != 0 }

// domainMode returns the 2-bit access mode for the given domain (0-15).
type domainMode uint8

const (
	domainNoAccess domainMode = 0
	domainClient   domainMode = 1
	domainReserved domainMode = 2
	domainManager  domainMode = 3
)

func (c *CP15) domainMode(domain uint8) domainMode {
	return domainMode((c.DomainAccess >> (uint(domain) * 2)) & 0x3)
}

// l1Kind tags the decoded L1 descriptor.
type l1Kind int

const (
	l1Fault l1Kind = iota
	l1Section
	l1Coarse
)

type l1Desc struct {
	kind   l1Kind
	base   uint32 // section: bits[31:20]; coarse: bits[31:10]
	ap     uint8  // section only
	domain uint8
}

func decodeL1(word uint32) l1Desc {
	switch word & 0x3 {
	case 0x2:
		return l1Desc{kind: l1Section, base: word & 0xFFF00000, ap: uint8((word >> 10) & 0x3), domain: uint8((word >> 5) & 0xF)}
	case 0x1:
		return l1Desc{kind: l1Coarse, base: word & 0xFFFFFC00, domain: uint8((word >> 5) & 0xF)}
	default:
		return l1Desc{kind: l1Fault}
	}
}

type l2Kind int

const (
	l2Fault l2Kind = iota
	l2Large
	l2Small
)

type l2Desc struct {
	kind l2Kind
	base uint32 // small page: bits[31:12]
	ap   [4]uint8
}

func decodeL2(word uint32) l2Desc {
	switch word & 0x3 {
	case 0x2:
		ap := [4]uint8{
			uint8((word >> 4) & 0x3),
			uint8((word >> 6) & 0x3),
			uint8((word >> 8) & 0x3),
			uint8((word >> 10) & 0x3),
		}
		return l2Desc{kind: l2Small, base: word & 0xFFFFF000, ap: ap}
	case 0x1:
		ap := [4]uint8{
			uint8((word >> 4) & 0x3),
			uint8((word >> 6) & 0x3),
			uint8((word >> 8) & 0x3),
			uint8((word >> 10) & 0x3),
		}
		return l2Desc{kind: l2Large, base: word & 0xFFFF0000, ap: ap}
	default:
		return l2Desc{kind: l2Fault}
	}
}

// permContext mirrors spec §3's Permission context.
type permContext struct {
	domainMode    domainMode
	isPrivileged  bool
	sysProtect    bool
	romProtect    bool
}

// permitted implements the AP/domain tie-break table: manager domains
// bypass AP checks entirely; client domains defer to AP; no-access and
// reserved always fail. Debug accesses bypass the check altogether (it
// is used for out-of-band DMA by host tooling).
func permitted(ctx permContext, ap uint8, kind AccessKind) bool {
	if kind == AccessDebug {
		return true
	}
	switch ctx.domainMode {
	case domainManager:
		return true
	case domainClient:
		// fall through to AP evaluation
	default:
		return false
	}
	switch ap {
	case 0: // no access, unless a protection bit downgrades the restriction
		if kind == AccessRead && ctx.sysProtect && ctx.isPrivileged {
			return true
		}
		if kind == AccessRead && ctx.romProtect {
			return true
		}
		return false
	case 1: // privileged read/write only
		return ctx.isPrivileged
	case 2: // privileged read/write, user read-only
		if ctx.isPrivileged {
			return true
		}
		return kind == AccessRead
	case 3: // read/write for everyone
		return true
	}
	return false
}

// TranslateRequest is a TLB request: a virtual address plus the kind of
// access being attempted.
type TranslateRequest struct {
	VAddr uint32
	Kind  AccessKind
}

// translate walks the page tables per spec §4.5. If the MMU is
// disabled, the virtual address passes through unchanged.
func (c *CPU) translate(req TranslateRequest) (uint32, error) {
	if !c.cp15.mmuEnabled() {
		return req.VAddr, nil
	}

	l1Addr := (c.cp15.TTBR &^ 0x3FFF) | ((req.VAddr >> 20) << 2)
	l1Word, err := c.bus.Read32(l1Addr)
	if err != nil {
		return 0, &MmuFaultError{VAddr: req.VAddr, Kind: req.Kind, Why: "l1 fetch: " + err.Error()}
	}
	l1 := decodeL1(l1Word)

	ctx := permContext{
		isPrivileged: c.regs.mode != ModeUser,
		sysProtect:   c.cp15.sysProtect(),
		romProtect:   c.cp15.romProtect(),
	}

	switch l1.kind {
	case l1Fault:
		return 0, &MmuFaultError{VAddr: req.VAddr, Kind: req.Kind, Why: "l1 fault"}

	case l1Section:
		ctx.domainMode = c.cp15.domainMode(l1.domain)
		if !permitted(ctx, l1.ap, req.Kind) {
			return 0, &MmuFaultError{VAddr: req.VAddr, Kind: req.Kind, Why: "section permission denied"}
		}
		return l1.base | (req.VAddr & 0x000FFFFF), nil

	case l1Coarse:
		ctx.domainMode = c.cp15.domainMode(l1.domain)
		l2Addr := l1.base | (((req.VAddr >> 12) & 0xFF) << 2)
		l2Word, err := c.bus.Read32(l2Addr)
		if err != nil {
			return 0, &MmuFaultError{VAddr: req.VAddr, Kind: req.Kind, Why: "l2 fetch: " + err.Error()}
		}
		l2 := decodeL2(l2Word)
		switch l2.kind {
		case l2Small:
			subpage := (req.VAddr >> 10) & 0x3
			ap := l2.ap[subpage]
			if !permitted(ctx, ap, req.Kind) {
				return 0, &MmuFaultError{VAddr: req.VAddr, Kind: req.Kind, Why: "small-page permission denied"}
			}
			return l2.base | (req.VAddr & 0x00000FFF), nil
		case l2Large:
			// Large pages are not required by the core; treat as a
			// simplified 64KiB mapping with uniform AP[0].
			ap := l2.ap[0]
			if !permitted(ctx, ap, req.Kind) {
				return 0, &MmuFaultError{VAddr: req.VAddr, Kind: req.Kind, Why: "large-page permission denied"}
			}
			return l2.base | (req.VAddr & 0x0000FFFF), nil
		default:
			return 0, &MmuFaultError{VAddr: req.VAddr, Kind: req.Kind, Why: "l2 fault"}
		}
	}
	return 0, &MmuFaultError{VAddr: req.VAddr, Kind: req.Kind, Why: "reserved l1 descriptor"}
}
