/*
 * Starlet - Raw-mode terminal console bridged over a Unix socket
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

package hostsock

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// CommandSink is fed one raw byte at a time while the console is in
// line-editing mode, and one complete line at a time once a newline is
// seen; the interactive command thread (halt/dump/regs) reads lines.
type CommandSink interface {
	RunLine(line string)
}

// Console puts stdin into raw mode and runs a tiny line editor so the
// supplemented interactive command thread (halt/dump/regs, per
// SPEC_FULL's added features) works over a real terminal without
// fighting the OS's own line discipline.
type Console struct {
	sink CommandSink

	fd       int
	oldState *term.State

	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

func NewConsole(sink CommandSink) *Console {
	return &Console{sink: sink, stopCh: make(chan struct{}), done: make(chan struct{})}
}

// Start begins reading stdin in a background goroutine. Call Stop to
// restore the terminal.
func (c *Console) Start() error {
	c.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(c.fd)
	if err != nil {
		close(c.done)
		return fmt.Errorf("hostsock: console raw mode: %w", err)
	}
	c.oldState = oldState

	if err := unix.SetNonblock(c.fd, true); err != nil {
		_ = term.Restore(c.fd, c.oldState)
		close(c.done)
		return fmt.Errorf("hostsock: console nonblock: %w", err)
	}

	go c.run()
	return nil
}

func (c *Console) run() {
	defer close(c.done)
	buf := make([]byte, 1)
	var line []byte

	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		n, err := unix.Read(c.fd, buf)
		if n > 0 {
			b := buf[0]
			switch b {
			case '\r', '\n':
				fmt.Print("\r\n")
				c.sink.RunLine(string(line))
				line = line[:0]
			case 0x7F, 0x08:
				if len(line) > 0 {
					line = line[:len(line)-1]
					fmt.Print("\b \b")
				}
			default:
				line = append(line, b)
				fmt.Printf("%c", b)
			}
			continue
		}
		if err == unix.EAGAIN {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (c *Console) Stop() {
	c.once.Do(func() { close(c.stopCh) })
	<-c.done
	if c.oldState != nil {
		_ = term.Restore(c.fd, c.oldState)
	}
}
