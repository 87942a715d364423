package cartridge

import "github.com/pkg/errors"

// Cartridge is a mapper: independent CPU-side and PPU-side address
// spaces, each with a non-mutating peek and a (possibly side-effecting)
// read/write. CPU-side covers $4020-$FFFF; PPU-side covers $0000-$2FFF.
type Cartridge interface {
	CpuPeek(address uint16) uint8
	CpuRead(address uint16) uint8
	CpuWrite(address uint16, value uint8)

	PpuPeek(address uint16) uint8
	PpuRead(address uint16) uint8
	PpuWrite(address uint16, value uint8)

	Mirroring() Mirroring
}

// ErrUnsupportedMapperID is returned by New when the ROM declares a mapper
// number this core does not implement (only NROM/mapper 0 is in scope).
var ErrUnsupportedMapperID = ErrUnsupportedMapper

// New builds the Cartridge for a parsed RomFile. Only mapper 0 (NROM) is
// supported; additional mappers are an explicit non-goal, but the
// Cartridge interface above is shaped so adding one never touches the CPU
// or PPU packages.
func New(rom *RomFile) (Cartridge, error) {
	switch rom.Header.MapperNumber() {
	case 0:
		return NewNROM(rom)
	default:
		return nil, errors.Wrapf(ErrUnsupportedMapperID, "mapper %d", rom.Header.MapperNumber())
	}
}
