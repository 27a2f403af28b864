/*
 * Starlet - One-time-programmable fuse bank behind a command/address/data register set
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

// Package otp models the one-time-programmable fuse bank: a 128-byte
// image indexed as 32 32-bit words through a command/address/data
// register trio. Grounded on the teacher repo's read-only device
// pattern (a fixed backing table addressed by a command register).
package otp

import (
	"crypto/sha1"
	"encoding/binary"
	"log/slog"

	"github.com/techflashYT/ironic/internal/devices/regio"
)

const (
	regCmd  = 0x00 // bit31 = read strobe, bits[4:0] = word index
	regData = 0x04

	cmdRead = 1 << 31

	wordCount = 32
)

// knownBoot1Hashes maps the SHA-1 of the first 5 fuse words (as logged
// by real hardware at boot1 verification time) to a human label. The
// table holds no entries, so no hash is recognized and nothing is
// logged; an unrecognized hash is never logged.
var knownBoot1Hashes = map[string]string{}

// Fuses is the OTP device's register file plus its 128-byte backing
// image.
type Fuses struct {
	regs  [0x08]byte
	image [128]byte
	log   *slog.Logger
}

func New(image []byte, log *slog.Logger) *Fuses {
	f := &Fuses{log: log}
	copy(f.image[:], image)
	f.logBoot1Hash()
	return f
}

func (f *Fuses) logBoot1Hash() {
	var buf [20]byte
	for i := 0; i < 5; i++ {
		binary.BigEndian.PutUint32(buf[i*4:], f.word(i))
	}
	sum := sha1.Sum(buf[:])
	hex := sha1HexString(sum[:])
	if label, ok := knownBoot1Hashes[hex]; ok && f.log != nil {
		f.log.Info("recognized boot1 fuse hash", "hash", hex, "label", label)
	}
}

func sha1HexString(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0xF]
	}
	return string(out)
}

func (f *Fuses) word(i int) uint32 {
	return binary.BigEndian.Uint32(f.image[i*4:])
}

func (f *Fuses) Read8(off uint32) (uint8, error)  { return regio.Get8(f.regs[:], off) }
func (f *Fuses) Read16(off uint32) (uint16, error) { return regio.Get16(f.regs[:], off) }
func (f *Fuses) Read32(off uint32) (uint32, error) { return regio.Get32(f.regs[:], off) }

func (f *Fuses) Write8(off uint32, v uint8) error { return regio.Put8(f.regs[:], off, v) }
func (f *Fuses) Write16(off uint32, v uint16) error { return regio.Put16(f.regs[:], off, v) }

func (f *Fuses) Write32(off uint32, v uint32) error {
	if off != regCmd {
		return regio.Put32(f.regs[:], off, v)
	}
	if v&cmdRead != 0 {
		idx := int(v & 0x1F)
		if idx < wordCount {
			_ = regio.Put32(f.regs[:], regData, f.word(idx))
		}
	}
	return regio.Put32(f.regs[:], regCmd, v&^cmdRead)
}
