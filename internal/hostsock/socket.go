/*
 * Starlet - Unix-domain-socket collaborators: the PPC bridge and the debug backend
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

// Package hostsock implements a Unix-domain peek/poke socket server
// (used for the debug backend on ironic-debug.sock; the PPC bridge
// socket lives in internal/emu) plus a raw-mode console reader for the
// interactive command thread. Grounded on the
// teacher repo's telnet package (a line-oriented socket server driving
// a shared device) and IntuitionAmiga-IntuitionEngine's terminal host
// (golang.org/x/term raw mode), adapted from TCP/stdin framing to the
// spec's fixed 12-byte little-endian command header.
package hostsock

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
)

// Command codes carried in the wire header's first word.
const (
	CmdPeek uint32 = 0
	CmdPoke uint32 = 1
)

// Backend is whatever the debug/PPC socket server reads and writes
// against -- a synchronized view of the bus, per spec §5's debug
// thread design.
type Backend interface {
	Peek(addr uint32, length uint32) ([]byte, error)
	Poke(addr uint32, data []byte) error
}

// Server accepts connections on a Unix-domain socket in the system
// temp directory and services the 12-byte {command, addr, len} header
// protocol, one connection at a time (spec describes a single
// collaborator per socket, not a connection pool).
type Server struct {
	name    string
	path    string
	backend Backend
	log     *slog.Logger
}

// NewServer binds name (e.g. "ironic-debug.sock") under os.TempDir.
func NewServer(name string, backend Backend, log *slog.Logger) (*Server, error) {
	path := filepath.Join(os.TempDir(), name)
	_ = os.Remove(path) // stale socket from a prior unclean exit

	s := &Server{name: name, path: path, backend: backend, log: log}
	return s, nil
}

// Serve listens and handles connections until the listener errors
// (typically because Close was called). Intended to run in its own
// goroutine.
func (s *Server) Serve() error {
	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("hostsock: listen %s: %w", s.path, err)
	}
	defer ln.Close()
	defer os.Remove(s.path)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	var header [12]byte
	for {
		if _, err := io.ReadFull(conn, header[:]); err != nil {
			return
		}
		cmd := binary.LittleEndian.Uint32(header[0:4])
		addr := binary.LittleEndian.Uint32(header[4:8])
		length := binary.LittleEndian.Uint32(header[8:12])

		switch cmd {
		case CmdPeek:
			data, err := s.backend.Peek(addr, length)
			if err != nil {
				if s.log != nil {
					s.log.Warn("hostsock peek failed", "socket", s.name, "addr", addr, "err", err)
				}
				return
			}
			if _, err := conn.Write(data); err != nil {
				return
			}
		case CmdPoke:
			data := make([]byte, length)
			if _, err := io.ReadFull(conn, data); err != nil {
				return
			}
			if err := s.backend.Poke(addr, data); err != nil {
				if s.log != nil {
					s.log.Warn("hostsock poke failed", "socket", s.name, "addr", addr, "err", err)
				}
				return
			}
		default:
			if s.log != nil {
				s.log.Warn("hostsock unknown command", "socket", s.name, "cmd", cmd)
			}
			return
		}
	}
}
