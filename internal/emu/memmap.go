/*
 * Starlet - Wires the bus, CPU, and device set into a complete Starlet machine
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

// Package emu wires together the bus, CPU, and device set into a
// complete Starlet machine: the physical memory map of spec §6, the
// three-thread concurrency model of spec §5, and the host-file loading
// spec §6 describes. Grounded on the teacher repo's emu package (the
// top-level construct-and-run type that owns the CPU and device set).
package emu

import (
	"log/slog"

	"github.com/techflashYT/ironic/internal/armmem"
	"github.com/techflashYT/ironic/internal/bus"
	"github.com/techflashYT/ironic/internal/devices/gpio"
	"github.com/techflashYT/ironic/internal/devices/hwctl"
	"github.com/techflashYT/ironic/internal/devices/ipc"
	"github.com/techflashYT/ironic/internal/devices/irqregs"
	"github.com/techflashYT/ironic/internal/devices/otp"
	"github.com/techflashYT/ironic/internal/devices/sdhc"
	"github.com/techflashYT/ironic/internal/devices/sha"
	"github.com/techflashYT/ironic/internal/devices/stub"
	"github.com/techflashYT/ironic/internal/irq"
)

// Base addresses from spec §6's "selected" physical memory map. Where
// the spec names a block but not a register-level address (GPIO, IPC,
// OTP, the IRQ controller's own registers), this assigns plausible,
// non-overlapping offsets inside the Hollywood control window, since
// the source material only commits to the block's existence.
const (
	baseMEM1 = 0x00000000
	sizeMEM1 = 24 * 1024 * 1024
	maskMEM1 = 0x017FFFFF

	baseFlipperLegacy = 0x0C000000
	sizeFlipperLegacy = 0x6000

	baseAI   = 0x0D006C00
	baseNand = 0x0D010000
	baseAes  = 0x0D020000
	baseSha  = 0x0D030000
	baseEhci = 0x0D040000
	baseOhci0 = 0x0D050000
	baseOhci1 = 0x0D060000
	baseSdhc0 = 0x0D070000
	baseSdhc1 = 0x0D080000

	baseHollywoodControl = 0x0D800000
	sizeHollywoodControl = 0x6000
	// Sub-offsets of the Hollywood control window; spec doesn't
	// enumerate these so this module owns the layout.
	offHWCtl    = 0x0000
	sizeHWCtl   = 0x30
	offIRQArm   = 0x0030
	sizeIRQArm  = 0x14
	offIRQPpc   = 0x0044
	sizeIRQPpc  = 0x08
	offIPC      = 0x0050
	sizeIPC     = 0x10
	offOTP      = 0x0060
	sizeOTP     = 0x08
	offGPIO     = 0x0070
	sizeGPIO    = 0x2C

	baseDI  = 0x0D806000
	baseSI  = 0x0D806400
	baseEXI = 0x0D806800
	baseAHB = 0x0D8B0000
	baseMI  = 0x0D8B4000
	baseDDR = 0x0D8B4200

	sramBankSize = 8 * 1024

	baseSRAMBankA = 0x0D400000
	baseSRAMBankB = 0x0D410000

	// Alias addresses spec §4.7 flips between ROM and SRAM-bank-A
	// visibility via rom_disabled/mirror_enabled.
	aliasFFF00000 = 0xFFF00000
	aliasFFF10000 = 0xFFF10000
	aliasFFFE0000 = 0xFFFE0000
	aliasFFFF0000 = 0xFFFF0000

	baseMEM2 = 0x10000000
	sizeMEM2 = 64 * 1024 * 1024
	maskMEM2 = 0x03FFFFFF

	sizeMaskROM = 8 * 1024

	stubRegSize = 0x200
)

// romRemap implements hwctl.RemapSink: it repoints the four high alias
// slots between the mask ROM and SRAM bank A per spec §4.7's two-flag
// rule, collapsing both flags to a single "what's visible here" choice
// since the source text doesn't distinguish which bank each alias
// prefers.
type romRemap struct {
	slots        []*bus.AliasSlot
	rom          *armmem.Memory
	sramA        *armmem.Memory
	openBus      bus.Device
	romDisabled  bool
	mirrorEnabled bool
}

func (r *romRemap) SetROMDisabled(b bool) {
	r.romDisabled = b
	r.apply()
}

func (r *romRemap) SetMirrorEnabled(b bool) {
	r.mirrorEnabled = b
	r.apply()
}

func (r *romRemap) apply() {
	var target bus.Device
	switch {
	case r.mirrorEnabled:
		target = r.sramA
	case r.romDisabled:
		target = r.openBus
	default:
		target = r.rom
	}
	for _, s := range r.slots {
		s.Set(target)
	}
}

// buildMemoryMap constructs the bus and every region named in spec §6,
// returning the pieces later startup code needs handles to (RAM banks
// for dumping on exit, the ROM memory for kernel-ELF loading, the
// device set for config-driven image loading).
func buildMemoryMap(ic *irq.Controller, cfg memMapConfig) *machineMemory {
	b := bus.New()
	b.SetIRQSink(ic)

	mem1 := armmem.New(sizeMEM1)
	mem2 := armmem.New(sizeMEM2)
	sramA := armmem.New(sramBankSize)
	sramB := armmem.New(sramBankSize)
	rom := armmem.NewFromBytes(cfg.boot0)
	if rom.Len() == 0 {
		rom = armmem.New(sizeMaskROM)
	}

	b.AddRegion("MEM1", baseMEM1, sizeMEM1, mem1)
	b.AddRegion("MEM2", baseMEM2, sizeMEM2, mem2)
	b.AddRegion("SRAM-A", baseSRAMBankA, sramBankSize, sramA)
	b.AddRegion("SRAM-B", baseSRAMBankB, sramBankSize, sramB)

	b.AddRegion("Flipper-legacy", baseFlipperLegacy, sizeFlipperLegacy, stub.New("Flipper-legacy", sizeFlipperLegacy, nil))
	b.AddRegion("AI", baseAI, stubRegSize, stub.New("AI", stubRegSize, nil))

	nand := stub.New("NAND", stubRegSize, nil)
	b.AddRegion("NAND", baseNand, stubRegSize, nand)
	b.AddRegion("AES", baseAes, stubRegSize, stub.New("AES", stubRegSize, nil))

	shaEngine := sha.New(b, ic, b)
	b.AddRegion("SHA", baseSha, 0x1C, shaEngine)

	b.AddRegion("EHCI", baseEhci, stubRegSize, stub.New("EHCI", stubRegSize, nil))
	b.AddRegion("OHCI0", baseOhci0, stubRegSize, stub.New("OHCI0", stubRegSize, nil))
	b.AddRegion("OHCI1", baseOhci1, stubRegSize, stub.New("OHCI1", stubRegSize, nil))

	card := sdhc.NewCard(cfg.sd)
	sdhc0 := sdhc.New(card, ic, irq.SideARM)
	b.AddRegion("SDHC0", baseSdhc0, 0x100, sdhc0)
	b.AddRegion("SDHC1", baseSdhc1, 0x100, stub.New("SDHC1", 0x100, nil))

	openBus := stub.New("open-bus", sramBankSize, nil)
	remap := &romRemap{rom: rom, sramA: sramA, openBus: openBus}
	for _, base := range []uint32{aliasFFF00000, aliasFFF10000, aliasFFFE0000, aliasFFFF0000} {
		slot := bus.NewAliasSlot(rom)
		remap.slots = append(remap.slots, slot)
		b.AddRegion("ROM/SRAM-alias", base, sramBankSize, slot)
	}

	hw := hwctl.New(cfg.strictClockOrder, remap, cfg.log, b)
	b.AddRegion("HWCtl", baseHollywoodControl+offHWCtl, sizeHWCtl, hw)

	b.AddRegion("IRQ-ARM", baseHollywoodControl+offIRQArm, sizeIRQArm, irqregs.NewARMBlock(ic))
	b.AddRegion("IRQ-PPC", baseHollywoodControl+offIRQPpc, sizeIRQPpc, irqregs.NewPPCBlock(ic))

	mailbox := ipc.New(ic)
	b.AddRegion("IPC", baseHollywoodControl+offIPC, sizeIPC, mailbox)

	fuses := otp.New(cfg.otp, cfg.log)
	b.AddRegion("OTP", baseHollywoodControl+offOTP, sizeOTP, fuses)

	gpioBlock := gpio.New(cfg.seeprom, cfg.log)
	b.AddRegion("GPIO", baseHollywoodControl+offGPIO, sizeGPIO, gpioBlock)

	b.AddRegion("DI", baseDI, stubRegSize, stub.New("DI", stubRegSize, nil))
	b.AddRegion("SI", baseSI, stubRegSize, stub.New("SI", stubRegSize, nil))
	b.AddRegion("EXI", baseEXI, stubRegSize, stub.New("EXI", stubRegSize, nil))
	b.AddRegion("AHB", baseAHB, stubRegSize, stub.New("AHB", stubRegSize, nil))
	b.AddRegion("MI", baseMI, stubRegSize, stub.New("MI", stubRegSize, nil))
	b.AddRegion("DDR", baseDDR, stubRegSize, stub.New("DDR", stubRegSize, nil))

	return &machineMemory{
		bus:     b,
		mem1:    mem1,
		mem2:    mem2,
		sramA:   sramA,
		sramB:   sramB,
		rom:     rom,
		sha:     shaEngine,
		otp:     fuses,
		gpio:    gpioBlock,
		ipc:     mailbox,
		sdhc0:   sdhc0,
		remap:   remap,
	}
}

type memMapConfig struct {
	boot0            []byte
	otp              []byte
	seeprom          []byte
	sd               []byte
	strictClockOrder bool
	log              *slog.Logger
}

// machineMemory bundles every handle startup code needs beyond the raw
// bus: the RAM banks for exit-time dumping, the ROM for kernel-ELF
// loading, and devices the command thread or PPC bridge drive directly.
type machineMemory struct {
	bus   *bus.Bus
	mem1  *armmem.Memory
	mem2  *armmem.Memory
	sramA *armmem.Memory
	sramB *armmem.Memory
	rom   *armmem.Memory

	sha   *sha.Engine
	otp   *otp.Fuses
	gpio  *gpio.Block
	ipc   *ipc.Mailbox
	sdhc0 *sdhc.Host

	remap *romRemap
}
