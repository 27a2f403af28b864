/*
 * Starlet - GDB remote-serial debug stub wired into the machine
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

package emu

import "fmt"

// Peek implements hostsock.Backend: a bus-locked bulk read for the
// debug socket's peek command.
func (m *Machine) Peek(addr uint32, length uint32) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]byte, length)
	if err := m.mem.bus.DMARead(addr, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Poke implements hostsock.Backend: a bus-locked bulk write for the
// debug socket's poke command.
func (m *Machine) Poke(addr uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mem.bus.DMAWrite(addr, data)
}

// RunLine implements hostsock.CommandSink: the interactive console's
// halt/dump/regs commands (any other line prints "unknown command"), a supplemented feature beyond the
// distilled spec's original_source behavior.
func (m *Machine) RunLine(line string) {
	switch line {
	case "halt":
		m.RequestHalt()
		fmt.Println("halt requested")
	case "dump":
		if err := m.DumpRAM("ironic-"); err != nil {
			fmt.Println("dump failed:", err)
		} else {
			fmt.Println("dumped RAM banks")
		}
	case "regs":
		m.mu.RLock()
		defer m.mu.RUnlock()
		for i := 0; i < 16; i++ {
			fmt.Printf("r%-2d=%08x ", i, m.cpu.R(uint8(i)))
			if i%4 == 3 {
				fmt.Println()
			}
		}
		fmt.Printf("cpsr=%08x\n", uint32(m.cpu.CPSR()))
	case "":
	default:
		fmt.Println("unknown command:", line)
	}
}
