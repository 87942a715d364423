// Package ppu implements the NES Picture Processing Unit (2C02): a
// dot-granular background renderer, OAM/sprite state, and the CPU-visible
// $2000-$2007 register file.
package ppu

import (
	"gones/internal/cartridge"
	"gones/internal/memory"
)

const (
	scanlineLength      = 341
	totalScanlines      = 262
	vblankStartScanline = 240
	nmiScanline         = 241
)

// PPU is a MOS 2C02. It is driven one dot at a time by Tick and exposes the
// register file the CPU's bus multiplexer maps at $2000-$2007.
type PPU struct {
	ctrl    ctrl
	mask    mask
	status  status
	oamAddr oamAddr
	scroll  ppuScroll
	addr    ppuAddr

	oam        *memory.Ram
	paletteRam *memory.PaletteRam

	readBuffer uint8

	x, y int

	currentSlice backgroundSlice
	nmiInterrupt bool
}

// New returns a PPU with OAM and palette RAM freshly zeroed.
func New() *PPU {
	return &PPU{
		scroll:     newPPUScroll(),
		oam:        memory.NewRam(256),
		paletteRam: memory.NewPaletteRam(),
	}
}

// Tick advances the PPU by the given number of PPU dots (3 per CPU cycle on
// NTSC), rendering into frame and reading pattern/nametable data from
// cart.
func (p *PPU) Tick(cart cartridge.Cartridge, frame *Frame, dots uint64) {
	for i := uint64(0); i < dots; i++ {
		p.cycle(cart, frame)
	}
}

func (p *PPU) cycle(cart cartridge.Cartridge, frame *Frame) {
	if p.x == 0 && p.y == 0 {
		frame.ClearWith(0xFF00FF)
	}

	if p.x >= 257 && p.x <= 320 {
		p.oamAddr.resetLatch()
	}

	if p.x < 256 && p.y < 240 {
		if p.x%8 == 0 {
			p.fetchBackgroundSlice(cart)
		}
		if p.x == 0 {
			p.evaluateSpriteOverflow()
		}

		if p.mask.renderBackground() {
			colorIndex := p.currentSlice.color(uint16(p.x % 8))
			paletteIndex := p.paletteRam.Read(colorIndex)
			frame.Write(p.x, p.y, colorFor(paletteIndex))
		}

		if p.mask.renderSprites() {
			p.renderSpritePixel(cart, frame)
		}
	}

	p.x++
	if p.x >= scanlineLength {
		p.x = 0
		p.y++

		if p.y == nmiScanline {
			if p.ctrl.nmiEnabled() {
				p.nmiInterrupt = true
			}
			p.status.setVBlankStarted(true)
			p.status.setSpriteZeroHit(false)
		}

		if p.y >= totalScanlines {
			p.y = 0
			p.nmiInterrupt = false
			p.status.setVBlankStarted(false)
			p.status.setSpriteZeroHit(false)
		}
	}
}

// renderSpritePixel draws the frontmost opaque sprite pixel covering the
// current dot, if any, using the sprite's actual pattern-table data
// (honoring its tile, flip bits, and 8x16 bank selection) rather than a
// flat fill. Sprite-to-background priority and sprite-to-sprite
// transparency beyond "first OAM match with a non-zero pattern color
// wins" are not implemented.
func (p *PPU) renderSpritePixel(cart cartridge.Cartridge, frame *Frame) {
	size := p.ctrl.spriteSize()
	for i := 0; i+4 <= p.oam.Len(); i += 4 {
		sprite := p.readSprite(i)
		if !sprite.containsPoint(p.x, p.y, size) {
			continue
		}
		patternColor := p.spritePatternColor(cart, sprite, size)
		if patternColor == 0 {
			continue
		}
		colorIndex := uint16(sprite.paletteSection())<<2 | patternColor
		frame.Write(p.x, p.y, colorFor(p.paletteRam.Read(colorIndex)))
		return
	}
}

func (p *PPU) readSprite(oamOffset int) Sprite {
	bytes := make([]uint8, 4)
	for j := 0; j < 4; j++ {
		bytes[j] = p.oam.Read(uint16(oamOffset + j))
	}
	return newSprite(bytes)
}

// spritePatternColor looks up the 2-bit pattern color for the current dot
// within sprite's tile, honoring its flip bits and (for 8x16 sprites) its
// own pattern-table bank.
func (p *PPU) spritePatternColor(cart cartridge.Cartridge, sprite Sprite, size SpriteSize) uint16 {
	row := p.y - int(sprite.yPos())
	col := p.x - int(sprite.xPos())
	height := 8
	if size == SpriteSizeEightBySixteen {
		height = 16
	}
	if sprite.flippedVertically() {
		row = height - 1 - row
	}
	if sprite.flippedHorizontally() {
		col = 7 - col
	}

	tableAddress := p.ctrl.spritePatternTableAddress()
	tileIndex := uint16(sprite.tileIndex(size))
	if size == SpriteSizeEightBySixteen {
		tableAddress = sprite.bankForEightBySixteen()
		if row >= 8 {
			tileIndex++
			row -= 8
		}
	}

	sliceOffset := tileIndex<<4 | uint16(row)
	lowerBitPlane := cart.PpuRead(tableAddress + sliceOffset)
	upperBitPlane := cart.PpuRead(tableAddress + sliceOffset + 8)
	slice := tileSlice{lowerBitPlane: lowerBitPlane, upperBitPlane: upperBitPlane}
	return slice.patternColor(uint16(col))
}

// evaluateSpriteOverflow sets PPUSTATUS's sprite-overflow flag when more
// than 8 sprites intersect the current scanline, approximating real
// hardware's per-scanline secondary-OAM evaluation (dots 65-256) as a
// single check at the start of the scanline.
func (p *PPU) evaluateSpriteOverflow() {
	size := p.ctrl.spriteSize()
	count := 0
	for i := 0; i+4 <= p.oam.Len(); i += 4 {
		sprite := p.readSprite(i)
		height := 8
		if size == SpriteSizeEightBySixteen {
			height = 16
		}
		yPos := int(sprite.yPos())
		if p.y >= yPos && p.y < yPos+height {
			count++
		}
	}
	p.status.setSpriteOverflow(count > 8)
}

func (p *PPU) fetchBackgroundSlice(cart cartridge.Cartridge) {
	tileX := uint16(p.x / 8)
	tileY := uint16(p.y / 8)
	fineY := uint16(p.y % 8)

	nametableAddress := p.ctrl.nametableBaseAddress()
	nametableOffset := tileY*32 + tileX
	nametableEntry := cart.PpuRead(nametableAddress + nametableOffset)

	patternTableAddress := p.ctrl.backgroundPatternTableAddress()
	patternSliceOffset := uint16(nametableEntry)<<4 | fineY
	lowerBitPlane := cart.PpuRead(patternTableAddress + patternSliceOffset)
	upperBitPlane := cart.PpuRead(patternTableAddress + patternSliceOffset + 8)

	attributeTableAddress := nametableAddress + 0x3C0
	attributeTableOffset := (tileY/4)*8 + tileX/4
	attributeByte := cart.PpuRead(attributeTableAddress + attributeTableOffset)

	tileQuadrant := ((tileY/2)%2)<<1 | (tileX/2)%2
	paletteSection := (attributeByte >> (tileQuadrant * 2)) & 0x03

	p.currentSlice = newBackgroundSlice(lowerBitPlane, upperBitPlane, paletteSection)
}

// TakeInterrupt reports and clears the pending NMI request. It is edge
// consumed: a single true result per VBlank, even if Tick is called many
// times before the CPU polls again.
func (p *PPU) TakeInterrupt() bool {
	interrupt := p.nmiInterrupt
	p.nmiInterrupt = false
	return interrupt
}

// InVBlank reports whether the current scanline is within the VBlank
// region, which affects whether OAMDATA reads auto-increment OAMADDR.
func (p *PPU) InVBlank() bool {
	return p.y >= vblankStartScanline
}

func (p *PPU) WriteCtrl(value uint8) { p.ctrl.write(value) }
func (p *PPU) WriteMask(value uint8) { p.mask.write(value) }

// ReadStatus returns PPUSTATUS and, per hardware, resets the PPUADDR/
// PPUSCROLL write latch as a side effect of the $2002 read.
func (p *PPU) ReadStatus() uint8 {
	value := p.status.read()
	p.addr.resetLatch()
	p.scroll.resetLatch()
	return value
}

// PeekStatus returns PPUSTATUS without clearing VBlank or the write latch,
// for debugger/disassembly use.
func (p *PPU) PeekStatus() uint8 {
	return p.status.value
}

func (p *PPU) WriteScroll(value uint8) { p.scroll.write(value) }
func (p *PPU) WriteAddr(value uint8)   { p.addr.write(value) }

func (p *PPU) WriteData(cart cartridge.Cartridge, value uint8) {
	address := p.addr.value
	increment := p.ctrl.vramAddressIncrement()
	p.addr.increment(increment)

	switch {
	case address <= 0x3EFF:
		cart.PpuWrite(address, value)
	default:
		p.paletteRam.Write(address-0x3F00, value)
	}
}

func (p *PPU) ReadData(cart cartridge.Cartridge) uint8 {
	address := p.addr.value
	increment := p.ctrl.vramAddressIncrement()
	p.addr.increment(increment)

	switch {
	case address <= 0x3EFF:
		bufferedRead := cart.PpuRead(address)
		previous := p.readBuffer
		p.readBuffer = bufferedRead
		return previous
	default:
		return p.paletteRam.Read(address - 0x3F00)
	}
}

func (p *PPU) WriteOamAddr(value uint8) { p.oamAddr.write(value) }

func (p *PPU) WriteOamData(value uint8) {
	p.oam.Write(uint16(p.oamAddr.value), value)
	p.oamAddr.increment()
}

func (p *PPU) ReadOamData() uint8 {
	value := p.oam.Read(uint16(p.oamAddr.value))
	if !p.InVBlank() {
		p.oamAddr.increment()
	}
	return value
}

// WriteOamDMA copies 256 bytes into OAM starting at the current OAMADDR and
// wrapping, rather than always overwriting from index 0. Real hardware
// always starts from OAMADDR's current value; sourced from the CPU's
// $4014 write handler, which supplies a page read from $XX00-$XXFF.
func (p *PPU) WriteOamDMA(data [256]uint8) {
	p.oam.CopyFrom(data[:], int(p.oamAddr.value))
}
