package cartridge

import (
	"gones/internal/memory"
)

const nromPrgRamSize = 2048

// NROM implements mapper 0: 16 KiB PRG-ROM (mirrored to fill the 32 KiB CPU
// window) or 32 KiB PRG-ROM (mapped directly), 8 KiB CHR-ROM (or CHR-RAM
// when the ROM ships no CHR data), an optional 2 KiB battery-backed PRG-RAM
// at $6000-$7FFF, and 2 KiB of VRAM addressed through nametable mirroring.
type NROM struct {
	prgRom *memory.Rom
	chrRom *memory.Rom
	chrRam *memory.Ram // non-nil when the cartridge has no CHR-ROM
	prgRam *memory.Ram // non-nil only when HasPersistentMemory; otherwise $6000-$7FFF reads 0 and ignores writes

	mirroring Mirroring
	vram      *memory.Ram
}

// NewNROM constructs an NROM cartridge from a parsed RomFile.
func NewNROM(rom *RomFile) (*NROM, error) {
	n := &NROM{
		prgRom:    memory.NewRomFromSlice(rom.PrgRom),
		mirroring: rom.Header.Mirroring(),
		vram:      memory.NewRam(2048),
	}

	if len(rom.ChrRom) == 0 {
		// CHR-RAM cartridge: no CHR-ROM bytes were shipped, so the PPU side
		// must be writable 8 KiB of pattern memory instead.
		n.chrRam = memory.NewRam(8192)
	} else {
		n.chrRom = memory.NewRomFromSlice(rom.ChrRom)
	}

	if rom.Header.HasPersistentMemory() {
		n.prgRam = memory.NewRam(nromPrgRamSize)
	}

	return n, nil
}

func (n *NROM) Mirroring() Mirroring {
	return n.mirroring
}

func (n *NROM) CpuPeek(address uint16) uint8 {
	switch {
	case address >= 0x6000 && address <= 0x7FFF:
		if n.prgRam != nil {
			return n.prgRam.Read(address - 0x6000)
		}
		return 0
	case address >= 0x8000:
		return n.prgRom.Read(address - 0x8000)
	default:
		return 0
	}
}

func (n *NROM) CpuRead(address uint16) uint8 {
	return n.CpuPeek(address)
}

func (n *NROM) CpuWrite(address uint16, value uint8) {
	if address >= 0x6000 && address <= 0x7FFF {
		if n.prgRam != nil {
			n.prgRam.Write(address-0x6000, value)
		}
	}
	// Writes to $8000-$FFFF are ignored: NROM has no bank-select registers.
}

func (n *NROM) PpuPeek(address uint16) uint8 {
	switch {
	case address <= 0x1FFF:
		if n.chrRam != nil {
			return n.chrRam.Read(address)
		}
		return n.chrRom.Read(address)
	case address >= 0x2000 && address <= 0x2FFF:
		return n.vram.Read(NametableIndex(n.mirroring, address))
	default:
		return 0
	}
}

func (n *NROM) PpuRead(address uint16) uint8 {
	return n.PpuPeek(address)
}

func (n *NROM) PpuWrite(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		if n.chrRam != nil {
			n.chrRam.Write(address, value)
		}
		// CHR-ROM writes are ignored.
	case address >= 0x2000 && address <= 0x2FFF:
		n.vram.Write(NametableIndex(n.mirroring, address), value)
	}
}
