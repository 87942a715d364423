// Package memory provides fixed-size, modulo-indexed byte containers used
// throughout the NES glue: system RAM, nametable VRAM, PRG/CHR ROM backing
// stores, and palette RAM with its mirror quirk.
package memory

// Ram is a fixed-size byte array indexed modulo its size, so any 16-bit
// address naturally mirrors. This is how system RAM's every-$0800 mirror
// falls out of plain indexing rather than a separate masking step
// (nametable VRAM is indexed through cartridge.NametableIndex instead).
type Ram struct {
	bytes []uint8
}

// NewRam allocates a Ram of the given size in bytes.
func NewRam(size int) *Ram {
	return &Ram{bytes: make([]uint8, size)}
}

func (r *Ram) Read(address uint16) uint8 {
	return r.bytes[int(address)%len(r.bytes)]
}

func (r *Ram) Write(address uint16, value uint8) {
	r.bytes[int(address)%len(r.bytes)] = value
}

// Len returns the size of the backing array.
func (r *Ram) Len() int {
	return len(r.bytes)
}

// CopyFrom overwrites the full contents of r from src, starting at the
// given offset and wrapping around r's length. This backs OAM DMA's
// wrap-from-OAMADDR semantics (spec testable property 10).
func (r *Ram) CopyFrom(src []uint8, offset int) {
	n := len(r.bytes)
	for i, v := range src {
		r.bytes[(offset+i)%n] = v
	}
}

// Rom is a fixed, read-only byte array indexed modulo its size — used to
// mirror a 16 KiB PRG-ROM bank across a 32 KiB CPU window, and to wrap CHR
// addressing.
type Rom struct {
	bytes []uint8
}

// NewRomFromSlice copies slice into a new Rom.
func NewRomFromSlice(slice []uint8) *Rom {
	bytes := make([]uint8, len(slice))
	copy(bytes, slice)
	return &Rom{bytes: bytes}
}

func (r *Rom) Read(address uint16) uint8 {
	return r.bytes[int(address)%len(r.bytes)]
}

func (r *Rom) Len() int {
	return len(r.bytes)
}

// PaletteRam is the PPU's 32-byte palette memory. Addresses $10/$14/$18/$1C
// mirror $00/$04/$08/$0C — the universal background-color mirror quirk.
type PaletteRam struct {
	bytes [32]uint8
}

func NewPaletteRam() *PaletteRam {
	return &PaletteRam{}
}

func paletteIndex(address uint16) uint16 {
	index := address % 32
	if index%4 == 0 {
		index &= 0x0F
	}
	return index
}

func (p *PaletteRam) Read(address uint16) uint8 {
	return p.bytes[paletteIndex(address)]
}

func (p *PaletteRam) Write(address uint16, value uint8) {
	p.bytes[paletteIndex(address)] = value
}
