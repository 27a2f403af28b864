/*
 * Starlet - Tests for the bus's region routing and deferred task queue
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

package bus

import "testing"

type fakeDevice struct {
	regs [8]byte
}

func (d *fakeDevice) Read8(off uint32) (uint8, error)  { return d.regs[off], nil }
func (d *fakeDevice) Read16(off uint32) (uint16, error) {
	return uint16(d.regs[off])<<8 | uint16(d.regs[off+1]), nil
}
func (d *fakeDevice) Read32(off uint32) (uint32, error) {
	return uint32(d.regs[off])<<24 | uint32(d.regs[off+1])<<16 | uint32(d.regs[off+2])<<8 | uint32(d.regs[off+3]), nil
}
func (d *fakeDevice) Write8(off uint32, v uint8) error { d.regs[off] = v; return nil }
func (d *fakeDevice) Write16(off uint32, v uint16) error {
	d.regs[off] = byte(v >> 8)
	d.regs[off+1] = byte(v)
	return nil
}
func (d *fakeDevice) Write32(off uint32, v uint32) error {
	d.regs[off] = byte(v >> 24)
	d.regs[off+1] = byte(v >> 16)
	d.regs[off+2] = byte(v >> 8)
	d.regs[off+3] = byte(v)
	return nil
}

func TestRegionRouting(t *testing.T) {
	b := New()
	devA := &fakeDevice{}
	devB := &fakeDevice{}
	b.AddRegion("A", 0x1000, 0x10, devA)
	b.AddRegion("B", 0x2000, 0x10, devB)

	if err := b.Write32(0x1000, 0xDEADBEEF); err != nil {
		t.Fatalf("write A: %v", err)
	}
	if err := b.Write32(0x2004, 0xCAFEF00D); err != nil {
		t.Fatalf("write B: %v", err)
	}

	v, err := b.Read32(0x1000)
	if err != nil || v != 0xDEADBEEF {
		t.Errorf("read A = 0x%x, %v; want 0xDEADBEEF", v, err)
	}
	v, err = b.Read32(0x2004)
	if err != nil || v != 0xCAFEF00D {
		t.Errorf("read B = 0x%x, %v; want 0xCAFEF00D", v, err)
	}
	if devA.regs != [8]byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0} {
		t.Errorf("write to B leaked into A's regs: %v", devA.regs)
	}
}

func TestOutOfRange(t *testing.T) {
	b := New()
	b.AddRegion("A", 0x1000, 0x10, &fakeDevice{})

	if _, err := b.Read8(0x5000); err == nil {
		t.Fatal("expected out-of-range error")
	} else if _, ok := err.(*OutOfRangeError); !ok {
		t.Errorf("error type = %T, want *OutOfRangeError", err)
	}
}

func TestDMARoundTrip(t *testing.T) {
	b := New()
	b.AddRegion("A", 0x1000, 0x10, &fakeDevice{})

	src := []byte{1, 2, 3, 4}
	if err := b.DMAWrite(0x1000, src); err != nil {
		t.Fatalf("dma write: %v", err)
	}
	dst := make([]byte, 4)
	if err := b.DMARead(0x1000, dst); err != nil {
		t.Fatalf("dma read: %v", err)
	}
	if string(dst) != string(src) {
		t.Errorf("dma round trip = %v, want %v", dst, src)
	}
}

type countingIRQSink struct{ steps int }

func (c *countingIRQSink) Step() { c.steps++ }

func TestStepDrivesIRQAndCycle(t *testing.T) {
	b := New()
	sink := &countingIRQSink{}
	b.SetIRQSink(sink)

	for i := 0; i < 5; i++ {
		b.Step()
	}
	if sink.steps != 5 {
		t.Errorf("irq sink stepped %d times, want 5", sink.steps)
	}
	if b.Cycle() != 5 {
		t.Errorf("cycle = %d, want 5", b.Cycle())
	}
}

func TestScheduleTask(t *testing.T) {
	b := New()

	var fired []int
	b.ScheduleTask(2, func() { fired = append(fired, 1) })
	b.ScheduleTask(0, func() { fired = append(fired, 2) }) // zero-delay runs inline
	b.ScheduleTask(4, func() { fired = append(fired, 3) })

	if len(fired) != 1 || fired[0] != 2 {
		t.Fatalf("zero-delay task should have fired immediately, got %v", fired)
	}

	b.Step() // cycle 1
	if len(fired) != 1 {
		t.Fatalf("task fired too early: %v", fired)
	}
	b.Step() // cycle 2: delay-2 task fires
	if len(fired) != 2 || fired[1] != 1 {
		t.Fatalf("after 2 steps, fired = %v, want [2 1]", fired)
	}
	b.Step()
	b.Step() // cycle 4: delay-4 task fires
	if len(fired) != 3 || fired[2] != 3 {
		t.Fatalf("after 4 steps, fired = %v, want [2 1 3]", fired)
	}
}

func TestScheduleNextStepSkipsTheInFlightStep(t *testing.T) {
	b := New()

	var fired bool
	b.ScheduleNextStep(func() { fired = true })

	b.Step() // the step in progress when it was scheduled must not drain it
	if fired {
		t.Fatal("ScheduleNextStep fired on the same step it was scheduled from")
	}
	b.Step() // the one after that must
	if !fired {
		t.Fatal("ScheduleNextStep should have fired on the following step")
	}
}

func TestAliasSlotRetarget(t *testing.T) {
	devA := &fakeDevice{}
	devB := &fakeDevice{}
	_ = devA.Write32(0, 0x11111111)
	_ = devB.Write32(0, 0x22222222)

	slot := NewAliasSlot(devA)
	v, _ := slot.Read32(0)
	if v != 0x11111111 {
		t.Fatalf("initial target = 0x%x, want devA's value", v)
	}
	slot.Set(devB)
	v, _ = slot.Read32(0)
	if v != 0x22222222 {
		t.Fatalf("after Set, target = 0x%x, want devB's value", v)
	}
}
