/*
 * Starlet - PPC-side IPC bridge over a Unix-domain socket
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

import (
	"encoding/binary"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"
)

// RunPPCBridge implements spec §5's inter-processor-communication
// thread: it polls the IPC mailbox via the bus lock and, when the ARM
// side raises a request, forwards the message word to whatever is
// listening on ironic-ppc.sock (a stand-in PPC/IOS collaborator),
// reading back a reply word to post as the PPC ack. When PPCHLE is
// set, no socket peer is required: the bridge just ack's every request
// immediately, high-level-emulating the PPC side's presence.
func (m *Machine) RunPPCBridge(stop <-chan struct{}) {
	path := filepath.Join(os.TempDir(), "ironic-ppc.sock")
	_ = os.Remove(path)

	var ln net.Listener
	if !m.ppcHLE {
		var err error
		ln, err = net.Listen("unix", path)
		if err != nil {
			if m.log != nil {
				m.log.Error("ppc bridge: listen failed", "err", err)
			}
			return
		}
		defer ln.Close()
		defer os.Remove(path)
	}

	backoff := time.Millisecond
	for {
		select {
		case <-stop:
			return
		default:
		}

		m.mu.Lock()
		ctrl, _ := m.mem.ipc.Read32(0x04) // ARM control register
		requested := ctrl&0x1 != 0
		var msg uint32
		if requested {
			msg = m.mem.ipc.ReadARMMessage()
		}
		m.mu.Unlock()

		if !requested {
			time.Sleep(backoff)
			if backoff < 20*time.Millisecond {
				backoff *= 2
			}
			continue
		}
		backoff = time.Millisecond

		reply := m.forwardToPPC(ln, msg)

		m.mu.Lock()
		m.mem.ipc.WritePPCMessage(reply)
		_ = m.mem.ipc.Write32(0x0C, 0x2) // PPC control: ack
		m.mu.Unlock()
	}
}

// forwardToPPC sends msg to a connected ironic-ppc.sock peer and
// returns its reply, or, in high-level-emulation mode (ln == nil),
// just echoes the message back.
func (m *Machine) forwardToPPC(ln net.Listener, msg uint32) uint32 {
	if ln == nil {
		return msg
	}
	conn, err := ln.Accept()
	if err != nil {
		return 0
	}
	defer conn.Close()

	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], msg)
	if _, err := conn.Write(hdr[:]); err != nil {
		return 0
	}
	if _, err := io.ReadFull(conn, hdr[:]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(hdr[:])
}
