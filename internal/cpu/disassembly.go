package cpu

import "fmt"

// Disassembly is the decoded form of one instruction: enough to both
// execute it and render its canonical text form.
type Disassembly struct {
	Opcode   uint8
	Operand1 uint8
	Operand2 uint8
	Mnemonic string
	Mode     AddressingMode
	Illegal  bool
}

// Decode looks up opcode in the instruction table and pairs it with the
// operand bytes that follow it in memory. It performs no memory access
// itself, so it is as non-mutating as its caller's reads were.
func Decode(opcode, operand1, operand2 uint8) Disassembly {
	entry := instructionTable[opcode]
	return Disassembly{
		Opcode:   opcode,
		Operand1: operand1,
		Operand2: operand2,
		Mnemonic: entry.Mnemonic,
		Mode:     entry.Mode,
		Illegal:  entry.Illegal,
	}
}

// Length is the number of bytes (including the opcode) this instruction
// occupies.
func (d Disassembly) Length() uint16 {
	return d.Mode.Length()
}

func (d Disassembly) rawBytes() string {
	switch d.Length() {
	case 1:
		return fmt.Sprintf("%02X", d.Opcode)
	case 2:
		return fmt.Sprintf("%02X %02X", d.Opcode, d.Operand1)
	default:
		return fmt.Sprintf("%02X %02X %02X", d.Opcode, d.Operand1, d.Operand2)
	}
}

// operandText renders the mnemonic's operand per addressing mode, e.g.
// "#$02", "$0200", "$02,X", "($02,X)". Absolute-family modes print the
// little-endian word as high-byte-then-low-byte hex digits.
func (d Disassembly) operandText() string {
	switch d.Mode {
	case Implied:
		return ""
	case Accumulator:
		return " A"
	case Immediate:
		return fmt.Sprintf(" #$%02X", d.Operand1)
	case ZeroPage:
		return fmt.Sprintf(" $%02X", d.Operand1)
	case ZeroPageX:
		return fmt.Sprintf(" $%02X,X", d.Operand1)
	case ZeroPageY:
		return fmt.Sprintf(" $%02X,Y", d.Operand1)
	case Relative:
		return fmt.Sprintf(" $%02X", d.Operand1)
	case Absolute:
		return fmt.Sprintf(" $%02X%02X", d.Operand2, d.Operand1)
	case AbsoluteX:
		return fmt.Sprintf(" $%02X%02X,X", d.Operand2, d.Operand1)
	case AbsoluteY:
		return fmt.Sprintf(" $%02X%02X,Y", d.Operand2, d.Operand1)
	case Indirect:
		return fmt.Sprintf(" ($%02X%02X)", d.Operand2, d.Operand1)
	case IndexedIndirect:
		return fmt.Sprintf(" ($%02X,X)", d.Operand1)
	case IndirectIndexed:
		return fmt.Sprintf(" ($%02X),Y", d.Operand1)
	default:
		return ""
	}
}

// Text renders the canonical disassembly line fragment: a leading '*' for
// illegal opcodes (else a space), then the mnemonic and operand.
func (d Disassembly) Text() string {
	marker := " "
	if d.Illegal {
		marker = "*"
	}
	return fmt.Sprintf("%s%s%s", marker, d.Mnemonic, d.operandText())
}

// FormatLogLine renders the full golden-log-compatible disassembly line
// (spec §6): PC, raw bytes, marker+mnemonic+operand, then register state.
func FormatLogLine(pc uint16, d Disassembly, a, x, y, p, sp uint8, cycle uint64) string {
	return fmt.Sprintf("%04X  %-8s %-40s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		pc, d.rawBytes(), d.Text(), a, x, y, p, sp, cycle)
}
