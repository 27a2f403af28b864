/*
 * Starlet - Tests for the SHA-1 engine
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

package sha

import (
	"crypto/sha1"
	"testing"

	"github.com/techflashYT/ironic/internal/irq"
)

type memSource struct{ buf []byte }

func (m *memSource) DMARead(pa uint32, dst []byte) error {
	copy(dst, m.buf[pa:int(pa)+len(dst)])
	return nil
}

// padBlock builds the single 64-byte FIPS 180-1 padded block for a
// message shorter than 56 bytes, matching what guest software would
// have assembled in memory before kicking the engine.
func padBlock(msg []byte) []byte {
	block := make([]byte, 64)
	copy(block, msg)
	block[len(msg)] = 0x80
	bitLen := uint64(len(msg)) * 8
	for i := 0; i < 8; i++ {
		block[63-i] = byte(bitLen >> (8 * i))
	}
	return block
}

func TestEngineMatchesKnownDigest(t *testing.T) {
	msg := []byte("abc")
	src := &memSource{buf: padBlock(msg)}
	ic := irq.New()
	e := New(src, ic, nil)

	if err := e.Write32(regSrc, 0); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := e.Write32(regCtrl, cmdExecute); err != nil { // 1 block
		t.Fatalf("write ctrl: %v", err)
	}

	want := sha1.Sum(msg)
	got := e.Digest()
	for i := 0; i < 5; i++ {
		wantWord := uint32(want[i*4])<<24 | uint32(want[i*4+1])<<16 | uint32(want[i*4+2])<<8 | uint32(want[i*4+3])
		if got[i] != wantWord {
			t.Errorf("digest word %d = 0x%08x, want 0x%08x", i, got[i], wantWord)
		}
	}
}

func TestExecuteClearsCommandBitAndAdvancesSrc(t *testing.T) {
	src := &memSource{buf: make([]byte, 128)}
	ic := irq.New()
	e := New(src, ic, nil)

	_ = e.Write32(regSrc, 0)
	_ = e.Write32(regCtrl, cmdExecute|1) // 2 blocks = 128 bytes

	ctrl, _ := e.Read32(regCtrl)
	if ctrl&cmdExecute != 0 {
		t.Error("command bit should clear once the engine finishes")
	}
	srcAfter, _ := e.Read32(regSrc)
	if srcAfter != 128 {
		t.Errorf("src pointer = %d, want 128 after a 2-block run", srcAfter)
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

func TestExecuteIsDeferredUntilSchedulerDrains(t *testing.T) {
	src := &memSource{buf: make([]byte, 64)}
	ic := irq.New()
	ic.WriteARMEnable(irq.Sha)
	sched := &fakeScheduler{}
	e := New(src, ic, sched)

	_ = e.Write32(regSrc, 0)
	_ = e.Write32(regCtrl, cmdExecute)

	ctrl, _ := e.Read32(regCtrl)
	if ctrl&cmdExecute == 0 {
		t.Error("command bit should still be set: the run is a deferred task, not an inline effect of the write")
	}
	if ic.ARMIRQAsserted() {
		t.Error("SHA IRQ must not assert before the deferred task drains")
	}

	sched.drain()

	ctrl, _ = e.Read32(regCtrl)
	if ctrl&cmdExecute != 0 {
		t.Error("command bit should clear once the deferred task runs")
	}
	if !ic.ARMIRQAsserted() {
		t.Error("SHA IRQ should assert once the deferred task runs")
	}
}

func TestExecuteRaisesShaIRQ(t *testing.T) {
	src := &memSource{buf: make([]byte, 64)}
	ic := irq.New()
	ic.WriteARMEnable(irq.Sha)
	e := New(src, ic, nil)

	_ = e.Write32(regSrc, 0)
	_ = e.Write32(regCtrl, cmdExecute)

	if !ic.ARMIRQAsserted() {
		t.Error("expected the SHA completion IRQ to be asserted")
	}
}
