// Package nes wires the CPU, PPU, cartridge, RAM, and controller ports
// together into the CPU-visible address space and drives the
// instruction-stepped emulation loop.
package nes

import (
	"gones/internal/cartridge"
	"gones/internal/controller"
	"gones/internal/memory"
	"gones/internal/ppu"
)

// ppuRegister identifies one of the eight $2000-$2007 registers, selected
// by address modulo 8 (the PPU's register block mirrors every 8 bytes
// through $3FFF).
type ppuRegister int

const (
	regPpuCtrl ppuRegister = iota
	regPpuMask
	regPpuStatus
	regOamAddr
	regOamData
	regPpuScroll
	regPpuAddr
	regPpuData
)

func mapPpuRegister(address uint16) ppuRegister {
	return ppuRegister(address % 8)
}

// CpuBus is the 16-bit address space the 6502 core sees: 2 KiB of
// internal RAM mirrored through $1FFF, the PPU register file mirrored
// through $3FFF, OAM DMA at $4014, the controller ports at $4016/$4017,
// and the cartridge from $4020 up. It is constructed fresh around the
// shared NES components each time the CPU needs to run, rather than held
// as a long-lived struct, avoiding any interior-mutability aliasing
// between the CPU and PPU.
type CpuBus struct {
	Ram         *memory.Ram
	Ppu         *ppu.PPU
	Cartridge   cartridge.Cartridge
	Controllers *controller.Pair
}

// NewCpuBus builds a CpuBus view over the given shared components.
func NewCpuBus(ram *memory.Ram, p *ppu.PPU, cart cartridge.Cartridge, pads *controller.Pair) *CpuBus {
	return &CpuBus{Ram: ram, Ppu: p, Cartridge: cart, Controllers: pads}
}

func (b *CpuBus) PeekByte(address uint16) uint8 {
	switch {
	case address <= 0x1FFF:
		return b.Ram.Read(address)
	case address <= 0x3FFF:
		return b.peekPpuRegister(mapPpuRegister(address))
	case address == 0x4014:
		return 0 // open bus
	case address == 0x4016:
		return b.Controllers.PeekOne()
	case address == 0x4017:
		return b.Controllers.PeekTwo()
	case address >= 0x4020:
		return b.Cartridge.CpuPeek(address)
	default:
		return 0
	}
}

func (b *CpuBus) ReadByte(address uint16) uint8 {
	switch {
	case address <= 0x1FFF:
		return b.Ram.Read(address)
	case address <= 0x3FFF:
		return b.readPpuRegister(mapPpuRegister(address))
	case address == 0x4014:
		return 0 // open bus; $4014 is write-only
	case address == 0x4016:
		return b.Controllers.ReadOne()
	case address == 0x4017:
		return b.Controllers.ReadTwo()
	case address >= 0x4020:
		return b.Cartridge.CpuRead(address)
	default:
		return 0
	}
}

func (b *CpuBus) WriteByte(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		b.Ram.Write(address, value)
	case address <= 0x3FFF:
		b.writePpuRegister(mapPpuRegister(address), value)
	case address == 0x4014:
		b.performOamDMA(value)
	case address == 0x4016:
		b.Controllers.Write(value)
	case address == 0x4017:
		// $4017 is the APU frame counter on real hardware; no APU is
		// implemented, so writes here are a no-op.
	case address >= 0x4020:
		b.Cartridge.CpuWrite(address, value)
	}
}

func (b *CpuBus) peekPpuRegister(reg ppuRegister) uint8 {
	if reg == regPpuStatus {
		return b.Ppu.PeekStatus()
	}
	// Every other PPU register is write-only or has read side effects that
	// a non-mutating peek cannot safely reproduce (OAMDATA/PPUDATA consume
	// buffered state); spec's Bus16.PeekByte contract allows 0 here.
	return 0
}

func (b *CpuBus) readPpuRegister(reg ppuRegister) uint8 {
	switch reg {
	case regPpuStatus:
		return b.Ppu.ReadStatus()
	case regOamData:
		return b.Ppu.ReadOamData()
	case regPpuData:
		return b.Ppu.ReadData(b.Cartridge)
	default:
		return 0
	}
}

func (b *CpuBus) writePpuRegister(reg ppuRegister, value uint8) {
	switch reg {
	case regPpuCtrl:
		b.Ppu.WriteCtrl(value)
	case regPpuMask:
		b.Ppu.WriteMask(value)
	case regOamAddr:
		b.Ppu.WriteOamAddr(value)
	case regOamData:
		b.Ppu.WriteOamData(value)
	case regPpuScroll:
		b.Ppu.WriteScroll(value)
	case regPpuAddr:
		b.Ppu.WriteAddr(value)
	case regPpuData:
		b.Ppu.WriteData(b.Cartridge, value)
	case regPpuStatus:
		// PPUSTATUS is read-only; writes are ignored.
	}
}

// performOamDMA reads the 256-byte page $XX00-$XXFF (where XX is the
// written value) from the CPU's own address space and hands it to the
// PPU in one shot, matching real hardware's $4014 behavior of suspending
// the CPU for 513-514 cycles while it copies the page. Cycle stalling is
// left to the caller (spec §4.6 treats the 513/514-cycle stall as an
// optional refinement, not a core requirement).
func (b *CpuBus) performOamDMA(page uint8) {
	var data [256]uint8
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		data[i] = b.ReadByte(base + uint16(i))
	}
	b.Ppu.WriteOamDMA(data)
}
