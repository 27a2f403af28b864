/*
 * Starlet - Tests for the Hollywood interrupt aggregator
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

package irq

import "testing"

func TestAssertGatedByEnable(t *testing.T) {
	c := New()
	c.Assert(SideARM, Sha)
	if c.ARMIRQAsserted() {
		t.Fatal("IRQ asserted without matching enable bit")
	}
	if c.ReadARMStatus()&Sha != 0 {
		t.Fatal("status bit must not latch while the source is masked off")
	}

	c.WriteARMEnable(Sha)
	c.Assert(SideARM, Sha)
	if !c.ARMIRQAsserted() {
		t.Fatal("IRQ should be asserted once Sha is enabled")
	}
	if c.ReadARMStatus()&Sha == 0 {
		t.Fatal("status bit should be set once Sha is enabled and asserted")
	}
}

func TestMaskedAssertDoesNotRetroactivelyFireOnLaterEnable(t *testing.T) {
	c := New()
	c.Assert(SideARM, Sha) // dropped: Sha not enabled yet

	c.WriteARMEnable(Sha)
	if c.ARMIRQAsserted() {
		t.Fatal("enabling a source after a masked assert must not resurrect it")
	}
	if c.ReadARMStatus()&Sha != 0 {
		t.Fatal("status bit must still be clear: the earlier assert was dropped, not queued")
	}
}

func TestWriteStatusClearsOnlySetBits(t *testing.T) {
	c := New()
	c.WriteARMEnable(Sha | Nand)
	c.Assert(SideARM, Sha)
	c.Assert(SideARM, Nand)

	c.WriteARMStatus(Sha) // write-1-to-clear only Sha
	if c.ReadARMStatus()&Sha != 0 {
		t.Error("Sha status bit should have cleared")
	}
	if c.ReadARMStatus()&Nand == 0 {
		t.Error("Nand status bit should still be set")
	}
	if !c.ARMIRQAsserted() {
		t.Error("IRQ output should stay asserted while Nand is still pending")
	}
}

func TestPPCSideIndependentOfARM(t *testing.T) {
	c := New()
	c.WritePPCEnable(Sdhc)
	c.Assert(SidePPC, Sdhc)

	if c.ARMIRQAsserted() {
		t.Error("asserting the PPC side must not affect the ARM output")
	}
	if !c.PPCIRQAsserted() {
		t.Error("PPC IRQ output should be asserted")
	}
}

func TestFIQEnableIsIndependentMask(t *testing.T) {
	c := New()
	c.WriteARMEnable(Sha)
	c.WriteARMFIQEnable(Nand)
	c.Assert(SideARM, Sha)

	if c.ARMFIQAsserted() {
		t.Error("FIQ should not assert: Sha isn't in the FIQ enable mask")
	}
	c.Assert(SideARM, Nand)
	if !c.ARMFIQAsserted() {
		t.Error("FIQ should assert once Nand (in the FIQ mask) is pending")
	}
}

func TestTimerAlarm(t *testing.T) {
	c := New()
	c.WriteARMEnable(Timer)
	c.SetAlarm(2)

	for i := 0; i < timerPeriodCycles*2-1; i++ {
		c.Step()
	}
	if c.ARMIRQAsserted() {
		t.Fatal("timer IRQ fired before reaching the alarm count")
	}
	c.Step()
	if !c.ARMIRQAsserted() {
		t.Fatal("timer IRQ should have fired at the alarm count")
	}
	if c.ReadTimer() != 2 {
		t.Errorf("timer count = %d, want 2", c.ReadTimer())
	}
}
