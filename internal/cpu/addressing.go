package cpu

import "gones/internal/bus"

// AddressingMode identifies one of the 6502's 13 operand-addressing
// schemes.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// Length returns the instruction length in bytes (including the opcode)
// for a given addressing mode.
func (m AddressingMode) Length() uint16 {
	switch m {
	case Implied, Accumulator:
		return 1
	case Immediate, ZeroPage, ZeroPageX, ZeroPageY, Relative, IndexedIndirect, IndirectIndexed:
		return 2
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 3
	default:
		return 1
	}
}

// crossesPage reports whether two addresses fall in different 256-byte
// pages (differ in their high byte).
func crossesPage(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// readWordZeroPageWrap reads a little-endian word whose high byte wraps
// within the pointer's own 256-byte page rather than spilling into the
// next one (page 0 for zero-page pointers). This backs both
// (Indirect,X)/(Indirect),Y zero-page pointer reads and the classic
// JMP ($xxFF) indirect bug when address's low byte is 0xFF.
func readWordZeroPageWrap(b bus.Bus16, address uint16) uint16 {
	lo := b.ReadByte(address)
	hi := b.ReadByte((address & 0xFF00) | ((address + 1) & 0x00FF))
	return uint16(hi)<<8 | uint16(lo)
}

// resolution is the result of resolving an addressing mode: the effective
// address (meaningless for Implied/Accumulator/Relative-branch-target-less
// cases) and whether a page-cross penalty cycle was charged.
type resolution struct {
	address      uint16
	pageCrossed  bool
}

func resolveImmediate(pc uint16) resolution {
	return resolution{address: pc + 1}
}

func resolveZeroPage(b bus.Bus16, pc uint16) resolution {
	return resolution{address: uint16(b.ReadByte(pc + 1))}
}

func resolveZeroPageIndexed(b bus.Bus16, pc uint16, index uint8) resolution {
	base := b.ReadByte(pc + 1)
	return resolution{address: uint16(base + index)}
}

func resolveAbsolute(b bus.Bus16, pc uint16) resolution {
	return resolution{address: bus.ReadWord(b, pc+1)}
}

// resolveAbsoluteIndexed resolves Absolute,X / Absolute,Y. chargeOnCross
// distinguishes read-category addressing (charges +1 cycle on a page
// cross) from write-category addressing (never charges it), per spec
// §4.1/§4.2.
func resolveAbsoluteIndexed(b bus.Bus16, pc uint16, index uint8, chargeOnCross bool) resolution {
	base := bus.ReadWord(b, pc+1)
	effective := base + uint16(index)
	crossed := chargeOnCross && crossesPage(base, effective)
	return resolution{address: effective, pageCrossed: crossed}
}

func resolveIndexedIndirect(b bus.Bus16, pc uint16, x uint8) resolution {
	ptr := b.ReadByte(pc+1) + x
	return resolution{address: readWordZeroPageWrap(b, uint16(ptr))}
}

func resolveIndirectIndexed(b bus.Bus16, pc uint16, y uint8, chargeOnCross bool) resolution {
	ptr := uint16(b.ReadByte(pc + 1))
	base := readWordZeroPageWrap(b, ptr)
	effective := base + uint16(y)
	crossed := chargeOnCross && crossesPage(base, effective)
	return resolution{address: effective, pageCrossed: crossed}
}

// resolveAbsoluteIndirect implements JMP ($xxxx), including the famous
// page-wrap bug: if the pointer's low byte is 0xFF, the high byte of the
// target is read from $xx00, not $(xx+1)00.
func resolveAbsoluteIndirect(b bus.Bus16, pc uint16) resolution {
	ptr := bus.ReadWord(b, pc+1)
	return resolution{address: readWordZeroPageWrap(b, ptr)}
}

// resolveRelative reads the signed branch offset and returns the branch
// target, computed from pc as it stands *after* the instruction's length
// has already been added (per spec §4.1's Relative semantics).
func resolveRelative(b bus.Bus16, pcAfterInstruction uint16, offsetAddress uint16) uint16 {
	offset := int8(b.ReadByte(offsetAddress))
	return uint16(int32(pcAfterInstruction) + int32(offset))
}
