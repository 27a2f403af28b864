/*
 * Starlet - Tests for the Hollywood control block
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

package hwctl

import "testing"

type fakeRemap struct {
	romDisabled, mirrorEnabled   bool
	romDisableCalls, mirrorCalls int
}

func (f *fakeRemap) SetROMDisabled(v bool) {
	f.romDisabled = v
	f.romDisableCalls++
}
func (f *fakeRemap) SetMirrorEnabled(v bool) {
	f.mirrorEnabled = v
	f.mirrorCalls++
}

func TestRomDisableForwardsToRemapSink(t *testing.T) {
	r := &fakeRemap{}
	c := New(false, r, nil, nil)

	_ = c.Write32(regRomDisable, 1)
	if !r.romDisabled || r.romDisableCalls != 1 {
		t.Fatalf("romDisabled=%v calls=%d, want true/1", r.romDisabled, r.romDisableCalls)
	}
	_ = c.Write32(regRomDisable, 0)
	if r.romDisabled {
		t.Error("romDisabled should clear on a bit0=0 write")
	}
}

func TestMirrorEnableForwardsToRemapSink(t *testing.T) {
	r := &fakeRemap{}
	c := New(false, r, nil, nil)

	_ = c.Write32(regMirrorEnable, 1)
	if !r.mirrorEnabled || r.mirrorCalls != 1 {
		t.Fatalf("mirrorEnabled=%v calls=%d, want true/1", r.mirrorEnabled, r.mirrorCalls)
	}
}

func TestDBGINTENWriteIsIgnored(t *testing.T) {
	c := New(false, nil, nil, nil)
	_ = c.Write32(regDBGINTEN, 0xFFFFFFFF)

	got, _ := c.Read32(regDBGINTEN)
	if got != 0 {
		t.Errorf("HW_DBGINTEN = 0x%x, want 0 (write should be dropped)", got)
	}
}

type fakeScheduler struct{ pending []func() }

func (s *fakeScheduler) ScheduleNextStep(cb func()) { s.pending = append(s.pending, cb) }
func (s *fakeScheduler) drain() {
	pending := s.pending
	s.pending = nil
	for _, cb := range pending {
		cb()
	}
}

func TestRomDisableIsDeferredUntilSchedulerDrains(t *testing.T) {
	r := &fakeRemap{}
	sched := &fakeScheduler{}
	c := New(false, r, nil, sched)

	_ = c.Write32(regRomDisable, 1)
	if r.romDisableCalls != 0 {
		t.Fatal("ROM-disable remap should not apply inline: it's a deferred bus task")
	}

	sched.drain()
	if !r.romDisabled || r.romDisableCalls != 1 {
		t.Fatalf("romDisabled=%v calls=%d, want true/1 once the deferred task drains", r.romDisabled, r.romDisableCalls)
	}
}

func TestMirrorEnableIsDeferredUntilSchedulerDrains(t *testing.T) {
	r := &fakeRemap{}
	sched := &fakeScheduler{}
	c := New(false, r, nil, sched)

	_ = c.Write32(regMirrorEnable, 1)
	if r.mirrorCalls != 0 {
		t.Fatal("mirror-enable remap should not apply inline: it's a deferred bus task")
	}

	sched.drain()
	if !r.mirrorEnabled || r.mirrorCalls != 1 {
		t.Fatalf("mirrorEnabled=%v calls=%d, want true/1 once the deferred task drains", r.mirrorEnabled, r.mirrorCalls)
	}
}

func TestClockSequenceInOrderUpdatesState(t *testing.T) {
	c := New(true, nil, nil, nil)
	_ = c.Write32(regFX, 1)
	if c.seq != stepFX {
		t.Fatalf("seq = %v after FX write, want stepFX", c.seq)
	}
	_ = c.Write32(regDSPLLReset, 1)
	if c.seq != stepDSPLL {
		t.Fatalf("seq = %v after DSPLL write, want stepDSPLL", c.seq)
	}
	_ = c.Write32(regSpeed, 1)
	if c.seq != stepNone {
		t.Fatalf("seq = %v after SPEED write, want stepNone (sequence complete)", c.seq)
	}
}

func TestOutOfOrderClockWriteDoesNotFault(t *testing.T) {
	c := New(true, nil, nil, nil)
	// SPEED written with no prior FX/DSPLL: should log a warning, not error.
	if err := c.Write32(regSpeed, 1); err != nil {
		t.Fatalf("out-of-order clock write should never return an error, got %v", err)
	}
	got, _ := c.Read32(regSpeed)
	if got != 1 {
		t.Errorf("regSpeed = 0x%x, want 1 to still be stored despite the ordering warning", got)
	}
}
