package cartridge

import (
	"github.com/pkg/errors"
)

const (
	iNESHeaderLength  = 16
	iNESTrainerLength = 512
	prgRomUnitSize    = 16384
	chrRomUnitSize    = 8192
)

// Sentinel errors for ROM loading failures (spec: "surfaced as a tagged
// variant from the loader; never panics").
var (
	ErrMalformedRom       = errors.New("malformed rom file")
	ErrUnsupportedFormat  = errors.New("unsupported rom format (not iNES v1)")
	ErrUnsupportedConsole = errors.New("unsupported console type")
	ErrUnsupportedMapper  = errors.New("unsupported mapper")
)

// ConsoleType is the low two bits of the iNES flags7 byte.
type ConsoleType int

const (
	ConsoleNES ConsoleType = iota
	ConsoleVsSystem
	ConsolePlaychoice10
	ConsoleExtended
)

// INesHeader is the 16-byte iNES v1 header.
type INesHeader struct {
	bytes [iNESHeaderLength]uint8
}

func (h *INesHeader) PrgRomSize() int {
	return int(h.bytes[4]) * prgRomUnitSize
}

func (h *INesHeader) ChrRomSize() int {
	return int(h.bytes[5]) * chrRomUnitSize
}

// Mirroring derives the nametable mirroring mode from flags6: bit 3
// overrides to four-screen; otherwise bit 0 selects vertical vs horizontal.
func (h *INesHeader) Mirroring() Mirroring {
	flags6 := h.bytes[6]
	switch {
	case flags6&(1<<3) != 0:
		return MirrorFourScreen
	case flags6&(1<<0) != 0:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}

func (h *INesHeader) HasPersistentMemory() bool {
	return h.bytes[6]&(1<<1) != 0
}

func (h *INesHeader) hasTrainer() bool {
	return h.bytes[6]&(1<<2) != 0
}

// MapperNumber combines the high nibble of flags7 with the high nibble of
// flags6 into the 8-bit mapper id.
func (h *INesHeader) MapperNumber() uint8 {
	return (h.bytes[7] & 0xF0) | (h.bytes[6] >> 4)
}

func (h *INesHeader) ConsoleType() ConsoleType {
	switch h.bytes[7] & 0x03 {
	case 0:
		return ConsoleNES
	case 1:
		return ConsoleVsSystem
	case 2:
		return ConsolePlaychoice10
	default:
		return ConsoleExtended
	}
}

// isINes2 reports the NES 2.0 signature (flags7 bits 2-3 == 0b10), which
// this core does not support.
func (h *INesHeader) isINes2() bool {
	return h.bytes[7]&0x0C == 0x08
}

// RomFile is a parsed iNES v1 ROM image: header plus carved PRG/CHR (and
// optional trainer) banks.
type RomFile struct {
	Header  INesHeader
	Trainer []uint8
	PrgRom  []uint8
	ChrRom  []uint8
}

// LoadRomFile parses raw iNES v1 bytes, rejecting malformed, NES-2.0,
// non-NES-console, or truncated images.
func LoadRomFile(data []uint8) (*RomFile, error) {
	if len(data) < iNESHeaderLength {
		return nil, errors.Wrap(ErrMalformedRom, "file shorter than iNES header")
	}
	if data[0] != 'N' || data[1] != 'E' || data[2] != 'S' || data[3] != 0x1A {
		return nil, errors.Wrap(ErrUnsupportedFormat, "missing NES<EOF> magic")
	}

	var header INesHeader
	copy(header.bytes[:], data[0:iNESHeaderLength])

	if header.isINes2() {
		return nil, errors.Wrap(ErrUnsupportedFormat, "NES 2.0 headers are not supported")
	}
	if header.ConsoleType() != ConsoleNES {
		return nil, errors.Wrap(ErrUnsupportedConsole, "only the NES console type is supported")
	}

	cursor := iNESHeaderLength
	consume := func(n int) ([]uint8, error) {
		if cursor+n > len(data) {
			return nil, errors.Wrapf(ErrMalformedRom, "file truncated: need %d more bytes at offset %d", n, cursor)
		}
		slice := data[cursor : cursor+n]
		cursor += n
		return slice, nil
	}

	var trainer []uint8
	var err error
	if header.hasTrainer() {
		trainer, err = consume(iNESTrainerLength)
		if err != nil {
			return nil, err
		}
	}

	prgRom, err := consume(header.PrgRomSize())
	if err != nil {
		return nil, err
	}
	chrRom, err := consume(header.ChrRomSize())
	if err != nil {
		return nil, err
	}

	return &RomFile{
		Header:  header,
		Trainer: trainer,
		PrgRom:  prgRom,
		ChrRom:  chrRom,
	}, nil
}
