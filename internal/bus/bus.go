/*
 * Starlet - Physical address space: routes accesses to owning regions and steps the bus once per cycle
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

// Package bus implements the Starlet physical address space: a static
// partition of regions, each owned by a memory object or an MMIO
// device, plus a deferred task queue and per-cycle stepping that
// drives the interrupt controller and timer. Grounded on the teacher
// repo's emu/sys_channel (device routing) and emu/event (delta-time
// task scheduler), generalized from a per-process global scheduler
// into an instance owned by one Bus.
package bus

import "fmt"

// Device is the MMIO contract every bus-attached peripheral implements.
// Offsets are relative to the region's base, already masked.
type Device interface {
	Read8(off uint32) (uint8, error)
	Read16(off uint32) (uint16, error)
	Read32(off uint32) (uint32, error)
	Write8(off uint32, v uint8) error
	Write16(off uint32, v uint16) error
	Write32(off uint32, v uint32) error
}

// OutOfRangeError is raised when a physical address resolves to no
// region at all.
type OutOfRangeError struct {
	PAddr uint32
	Width int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("bus: address 0x%08x (width %d) out of range", e.PAddr, e.Width)
}

type region struct {
	name string
	base uint32
	size uint32
	mask uint32
	dev  Device
}

func (r *region) contains(pa uint32) bool { return pa >= r.base && pa < r.base+r.size }

// Bus routes physical accesses to the region that owns them and runs
// the deferred task queue and IRQ/timer stepping described in spec §5.
type Bus struct {
	regions []region
	tasks   taskList
	cycle   uint64

	irq IRQSink
}

// IRQSink is implemented by the interrupt controller: Step lets the bus
// drive the timer/aggregation logic without importing internal/irq
// directly (avoids an import cycle with devices that also want irq).
type IRQSink interface {
	Step()
}

// New builds an empty bus. Regions are added with AddRegion before any
// access is attempted.
func New() *Bus {
	return &Bus{}
}

// SetIRQSink wires the interrupt controller so Step() can drive it.
func (b *Bus) SetIRQSink(s IRQSink) { b.irq = s }

// AddRegion registers a physical region [base, base+size) owned by dev.
// The device receives the full offset (pa - base), unmasked.
func (b *Bus) AddRegion(name string, base, size uint32, dev Device) {
	b.regions = append(b.regions, region{name: name, base: base, size: size, dev: dev})
}

func (b *Bus) find(pa uint32) (*region, uint32) {
	for i := range b.regions {
		r := &b.regions[i]
		if r.contains(pa) {
			return r, pa - r.base
		}
	}
	return nil, 0
}

func (b *Bus) Read8(pa uint32) (uint8, error) {
	r, off := b.find(pa)
	if r == nil {
		return 0, &OutOfRangeError{PAddr: pa, Width: 1}
	}
	return r.dev.Read8(off)
}

func (b *Bus) Read16(pa uint32) (uint16, error) {
	r, off := b.find(pa)
	if r == nil {
		return 0, &OutOfRangeError{PAddr: pa, Width: 2}
	}
	return r.dev.Read16(off)
}

func (b *Bus) Read32(pa uint32) (uint32, error) {
	r, off := b.find(pa)
	if r == nil {
		return 0, &OutOfRangeError{PAddr: pa, Width: 4}
	}
	return r.dev.Read32(off)
}

func (b *Bus) Write8(pa uint32, v uint8) error {
	r, off := b.find(pa)
	if r == nil {
		return &OutOfRangeError{PAddr: pa, Width: 1}
	}
	return r.dev.Write8(off, v)
}

func (b *Bus) Write16(pa uint32, v uint16) error {
	r, off := b.find(pa)
	if r == nil {
		return &OutOfRangeError{PAddr: pa, Width: 2}
	}
	return r.dev.Write16(off, v)
}

func (b *Bus) Write32(pa uint32, v uint32) error {
	r, off := b.find(pa)
	if r == nil {
		return &OutOfRangeError{PAddr: pa, Width: 4}
	}
	return r.dev.Write32(off, v)
}

// DMARead/DMAWrite let devices copy blocks directly against the bus
// (e.g. the SHA engine streaming a message, SDHC doing PIO), bypassing
// the CPU's MMU.
func (b *Bus) DMARead(pa uint32, dst []byte) error {
	for i := range dst {
		v, err := b.Read8(pa + uint32(i))
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func (b *Bus) DMAWrite(pa uint32, src []byte) error {
	for i, v := range src {
		if err := b.Write8(pa+uint32(i), v); err != nil {
			return err
		}
	}
	return nil
}

// Cycle returns the current bus cycle counter.
func (b *Bus) Cycle() uint64 { return b.cycle }

// Step advances one CPU cycle: drains any tasks whose delay has
// elapsed, steps the interrupt controller/timer, then increments the
// cycle counter. Tasks scheduled during this step's drain are only
// observed on the *next* Step call, per spec §5's ordering guarantee.
func (b *Bus) Step() {
	b.tasks.advance(1)
	if b.irq != nil {
		b.irq.Step()
	}
	b.cycle++
}

// ScheduleTask defers cb to run after `delay` further bus cycles (0
// runs it immediately, inline, matching the teacher's AddEvent
// convention for zero-delay events).
func (b *Bus) ScheduleTask(delay int, cb func()) {
	b.tasks.add(delay, cb)
}

// ScheduleNextStep defers cb so it is observed only in the drain phase
// of the Step call *after* the one in progress when it's scheduled,
// never the very next one — this is the ordering spec §5 promises a
// device write can rely on (SHA's block stream, hwctl's ROM-disable
// and mirror-enable latches). Step's drain always fires on the call
// whose delay reaches zero, and the call immediately following this
// one hasn't run its drain yet, so skipping it takes a delay of 2: the
// first Step consumes one decrement without firing, the second does.
func (b *Bus) ScheduleNextStep(cb func()) {
	b.tasks.add(2, cb)
}
