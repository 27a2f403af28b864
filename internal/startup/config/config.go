/*
 * Starlet - Loads the line-oriented configuration file the CLI points at
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

// Package config loads the line-oriented configuration file the CLI
// points at, resolving the on-disk inputs and boot-time toggles of the
// emulator.
//
// Format, one directive per line:
//
//	# comment
//	boot0   = "boot0.bin"
//	nand    = "nand.bin"
//	otp     = "otp.bin"
//	seeprom = "seeprom.bin"
//	sd      = "sd.img"
//	kernel  = "kernel.elf"
//	ppc_hle = true
//	strict_clock_order = true
//	log = "debug"
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config holds every knob the emulator core needs at startup.
type Config struct {
	Boot0   string // mask ROM image, required
	Nand    string // NAND flash image, optional
	OTP     string // fuse image, optional
	SEEPROM string // serial EEPROM backing store, optional
	SD      string // SD card image, optional
	Kernel  string // replacement kernel ELF, optional

	PPCHLE bool // high-level-emulate the PPC bridge instead of requiring a socket peer

	// StrictClockOrder gates the Hollywood clock-register write-ordering
	// check (spec §9 note (c)): one hardware revision enforces
	// FX -> DSPLL reset -> SPEED ordering, another is silent about it.
	// Default false. Whatever its value, an out-of-order write is logged
	// as a warning and still applied; the flag only appears in that
	// warning.
	StrictClockOrder bool

	LogLevel string // "debug", "info", "warn", "error"
}

// Load parses the file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (*Config, error) {
	cfg := &Config{LogLevel: "info"}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, err := splitDirective(line)
		if err != nil {
			return nil, fmt.Errorf("config: line %d: %w", lineNo, err)
		}
		if err := cfg.apply(key, val); err != nil {
			return nil, fmt.Errorf("config: line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if cfg.Boot0 == "" {
		return nil, fmt.Errorf("config: boot0 is required")
	}
	return cfg, nil
}

func splitDirective(line string) (key, val string, err error) {
	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return "", "", fmt.Errorf("expected 'key = value', got %q", line)
	}
	key = strings.ToLower(strings.TrimSpace(line[:idx]))
	val = strings.TrimSpace(line[idx+1:])
	if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
		val = val[1 : len(val)-1]
	}
	return key, val, nil
}

func (c *Config) apply(key, val string) error {
	switch key {
	case "boot0":
		c.Boot0 = val
	case "nand":
		c.Nand = val
	case "otp":
		c.OTP = val
	case "seeprom":
		c.SEEPROM = val
	case "sd":
		c.SD = val
	case "kernel":
		c.Kernel = val
	case "ppc_hle":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("ppc_hle: %w", err)
		}
		c.PPCHLE = b
	case "strict_clock_order":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("strict_clock_order: %w", err)
		}
		c.StrictClockOrder = b
	case "log":
		c.LogLevel = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown directive %q", key)
	}
	return nil
}
