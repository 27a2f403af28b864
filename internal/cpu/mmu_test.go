/*
 * Starlet - Tests for the MMU's address translation and fault paths
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

import "testing"

func TestTranslatePassthroughWhenMMUDisabled(t *testing.T) {
	c, _ := newTestCPU()
	pa, err := c.translate(TranslateRequest{VAddr: 0xDEADBEEF, Kind: AccessRead})
	if err != nil || pa != 0xDEADBEEF {
		t.Fatalf("translate with MMU disabled = (0x%x,%v), want passthrough", pa, err)
	}
}

func TestTranslateSectionMapping(t *testing.T) {
	c, mem := newTestCPU()
	c.cp15.Control = ctlMMUEnable
	c.cp15.TTBR = 0x4000
	c.cp15.DomainAccess = 0x3 // domain 0 = manager

	// Section descriptor for VA 0x00100000: base=0x00200000, domain 0, AP irrelevant under manager.
	l1Addr := c.cp15.TTBR | ((0x00100000 >> 20) << 2)
	mem.putWord(l1Addr, 0x00200000|(0<<5)|(0x3<<10)|0x2)

	pa, err := c.translate(TranslateRequest{VAddr: 0x00100044, Kind: AccessWrite})
	if err != nil {
		t.Fatalf("section translate failed: %v", err)
	}
	if pa != 0x00200044 {
		t.Errorf("translated pa = 0x%x, want 0x00200044", pa)
	}
}

func TestTranslateSectionPermissionDenied(t *testing.T) {
	c, mem := newTestCPU()
	c.cp15.Control = ctlMMUEnable
	c.cp15.TTBR = 0x4000
	c.cp15.DomainAccess = 0x1 // domain 0 = client, defers to AP

	l1Addr := c.cp15.TTBR | ((0x00100000 >> 20) << 2)
	mem.putWord(l1Addr, 0x00200000|(0<<5)|(0x1<<10)|0x2) // AP=1: privileged only

	c.regs.mode = ModeUser
	_, err := c.translate(TranslateRequest{VAddr: 0x00100000, Kind: AccessRead})
	if err == nil {
		t.Fatal("expected a permission fault for a user-mode access under AP=1")
	}
	if _, ok := err.(*MmuFaultError); !ok {
		t.Errorf("error type = %T, want *MmuFaultError", err)
	}
}

func TestTranslateCoarseSmallPage(t *testing.T) {
	c, mem := newTestCPU()
	c.cp15.Control = ctlMMUEnable
	c.cp15.TTBR = 0x4000
	c.cp15.DomainAccess = 0x3 // domain 0 = manager

	l1Addr := c.cp15.TTBR | ((0x00300000 >> 20) << 2)
	l2Base := uint32(0x5000)
	mem.putWord(l1Addr, l2Base|(0<<5)|0x1) // coarse descriptor, domain 0

	l2Index := (uint32(0x00300000) >> 12) & 0xFF
	l2Addr := l2Base | (l2Index << 2)
	mem.putWord(l2Addr, 0x00400000|(0x3<<4)|(0x3<<6)|(0x3<<8)|(0x3<<10)|0x2) // small page, AP=3 all subpages

	pa, err := c.translate(TranslateRequest{VAddr: 0x00300018, Kind: AccessRead})
	if err != nil {
		t.Fatalf("small-page translate failed: %v", err)
	}
	if pa != 0x00400018 {
		t.Errorf("translated pa = 0x%x, want 0x00400018", pa)
	}
}

func TestTranslateL1Fault(t *testing.T) {
	c, _ := newTestCPU()
	c.cp15.Control = ctlMMUEnable
	c.cp15.TTBR = 0x4000
	// l1 word at this address defaults to zero => fault descriptor.

	_, err := c.translate(TranslateRequest{VAddr: 0x00500000, Kind: AccessRead})
	if err == nil {
		t.Fatal("expected an l1 fault for an unmapped section")
	}
}

func TestTranslateDebugAccessBypassesPermissions(t *testing.T) {
	c, mem := newTestCPU()
	c.cp15.Control = ctlMMUEnable
	c.cp15.TTBR = 0x4000
	c.cp15.DomainAccess = 0x1 // client

	l1Addr := c.cp15.TTBR | ((0x00100000 >> 20) << 2)
	mem.putWord(l1Addr, 0x00200000|(0<<5)|(0x0<<10)|0x2) // AP=0: no access

	if _, err := c.translate(TranslateRequest{VAddr: 0x00100000, Kind: AccessDebug}); err != nil {
		t.Errorf("debug access should bypass AP checks, got %v", err)
	}
}
