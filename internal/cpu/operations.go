package cpu

import (
	"fmt"

	"gones/internal/bus"
)

// adder performs an 8-bit add-with-carry and reports the resulting carry
// and signed overflow. sbc calls this with rhs inverted (one's
// complement), which yields correct subtract-with-borrow where carry=1
// means "no borrow" — the standard 6502 trick.
func adder(lhs, rhs uint8, carryIn bool) (sum uint8, carryOut bool, overflow bool) {
	wide := uint16(lhs) + uint16(rhs)
	if carryIn {
		wide++
	}
	sum = uint8(wide)
	carryOut = wide > 0xFF
	overflow = (sum^lhs)&(sum^rhs)&0x80 != 0
	return
}

func (c *CPU) adc(value uint8) {
	sum, carry, overflow := adder(c.A, value, c.Carry)
	c.A = sum
	c.Carry = carry
	c.Overflow = overflow
	c.setNZ(c.A)
}

func (c *CPU) sbc(value uint8) {
	c.adc(^value)
}

func (c *CPU) compare(reg, value uint8) {
	result := reg - value
	c.Carry = reg >= value
	c.Zero = reg == value
	c.Negative = result&0x80 != 0
}

// readOperand returns the accumulator in Accumulator mode and the byte at
// address otherwise; asl/lsr/rol/ror pair it with writeOperand.
func (c *CPU) readOperand(b bus.Bus16, mode AddressingMode, address uint16) uint8 {
	if mode == Accumulator {
		return c.A
	}
	return b.ReadByte(address)
}

func (c *CPU) writeOperand(b bus.Bus16, mode AddressingMode, address uint16, value uint8) {
	if mode == Accumulator {
		c.A = value
		return
	}
	b.WriteByte(address, value)
}

func (c *CPU) asl(b bus.Bus16, mode AddressingMode, address uint16) {
	value := c.readOperand(b, mode, address)
	c.Carry = value&0x80 != 0
	result := value << 1
	c.setNZ(result)
	c.writeOperand(b, mode, address, result)
}

func (c *CPU) lsr(b bus.Bus16, mode AddressingMode, address uint16) {
	value := c.readOperand(b, mode, address)
	c.Carry = value&0x01 != 0
	result := value >> 1
	c.setNZ(result)
	c.writeOperand(b, mode, address, result)
}

func (c *CPU) rol(b bus.Bus16, mode AddressingMode, address uint16) {
	value := c.readOperand(b, mode, address)
	var carryIn uint8
	if c.Carry {
		carryIn = 1
	}
	c.Carry = value&0x80 != 0
	result := (value << 1) | carryIn
	c.setNZ(result)
	c.writeOperand(b, mode, address, result)
}

func (c *CPU) ror(b bus.Bus16, mode AddressingMode, address uint16) {
	value := c.readOperand(b, mode, address)
	var carryIn uint8
	if c.Carry {
		carryIn = 0x80
	}
	c.Carry = value&0x01 != 0
	result := (value >> 1) | carryIn
	c.setNZ(result)
	c.writeOperand(b, mode, address, result)
}

func (c *CPU) inc(b bus.Bus16, address uint16) uint8 {
	value := b.ReadByte(address) + 1
	c.setNZ(value)
	b.WriteByte(address, value)
	return value
}

func (c *CPU) dec(b bus.Bus16, address uint16) uint8 {
	value := b.ReadByte(address) - 1
	c.setNZ(value)
	b.WriteByte(address, value)
	return value
}

// branch adds the signed relative offset to PC (already advanced past the
// branch instruction) when taken, charging +1 cycle for a taken branch and
// +1 more if the target crosses a page boundary.
func (c *CPU) branch(b bus.Bus16, oldPC uint16, taken bool, cycles *uint64) {
	if !taken {
		return
	}
	target := resolveRelative(b, c.PC, oldPC+1)
	if crossesPage(c.PC, target) {
		*cycles += 2
	} else {
		*cycles++
	}
	c.PC = target
}

// execute performs the operation for instr given its resolved effective
// address (meaningless for Implied/Accumulator/Relative), adjusting PC and
// *cycles for control-flow and branch instructions.
func (c *CPU) execute(b bus.Bus16, instr Instruction, address uint16, oldPC uint16, length uint16, cycles *uint64) {
	mode := instr.Mode

	switch instr.Mnemonic {
	case "ADC":
		if c.Decimal && !c.DecimalModeEnabled {
			c.halt(fmt.Errorf("decimal mode unimplemented: ADC with D flag set at $%04X", oldPC))
			return
		}
		c.adc(b.ReadByte(address))
	case "SBC":
		if c.Decimal && !c.DecimalModeEnabled {
			c.halt(fmt.Errorf("decimal mode unimplemented: SBC with D flag set at $%04X", oldPC))
			return
		}
		c.sbc(b.ReadByte(address))
	case "AND":
		c.A &= b.ReadByte(address)
		c.setNZ(c.A)
	case "ORA":
		c.A |= b.ReadByte(address)
		c.setNZ(c.A)
	case "EOR":
		c.A ^= b.ReadByte(address)
		c.setNZ(c.A)
	case "ASL":
		c.asl(b, mode, address)
	case "LSR":
		c.lsr(b, mode, address)
	case "ROL":
		c.rol(b, mode, address)
	case "ROR":
		c.ror(b, mode, address)
	case "BIT":
		value := b.ReadByte(address)
		c.Zero = c.A&value == 0
		c.Negative = value&0x80 != 0
		c.Overflow = value&0x40 != 0
	case "INC":
		c.inc(b, address)
	case "DEC":
		c.dec(b, address)
	case "INX":
		c.X++
		c.setNZ(c.X)
	case "INY":
		c.Y++
		c.setNZ(c.Y)
	case "DEX":
		c.X--
		c.setNZ(c.X)
	case "DEY":
		c.Y--
		c.setNZ(c.Y)
	case "LDA":
		c.A = b.ReadByte(address)
		c.setNZ(c.A)
	case "LDX":
		c.X = b.ReadByte(address)
		c.setNZ(c.X)
	case "LDY":
		c.Y = b.ReadByte(address)
		c.setNZ(c.Y)
	case "STA":
		b.WriteByte(address, c.A)
	case "STX":
		b.WriteByte(address, c.X)
	case "STY":
		b.WriteByte(address, c.Y)
	case "TAX":
		c.X = c.A
		c.setNZ(c.X)
	case "TAY":
		c.Y = c.A
		c.setNZ(c.Y)
	case "TXA":
		c.A = c.X
		c.setNZ(c.A)
	case "TYA":
		c.A = c.Y
		c.setNZ(c.A)
	case "TSX":
		c.X = c.SP
		c.setNZ(c.X)
	case "TXS":
		c.SP = c.X // does NOT affect flags
	case "CMP":
		c.compare(c.A, b.ReadByte(address))
	case "CPX":
		c.compare(c.X, b.ReadByte(address))
	case "CPY":
		c.compare(c.Y, b.ReadByte(address))
	case "BCC":
		c.branch(b, oldPC, !c.Carry, cycles)
	case "BCS":
		c.branch(b, oldPC, c.Carry, cycles)
	case "BEQ":
		c.branch(b, oldPC, c.Zero, cycles)
	case "BNE":
		c.branch(b, oldPC, !c.Zero, cycles)
	case "BMI":
		c.branch(b, oldPC, c.Negative, cycles)
	case "BPL":
		c.branch(b, oldPC, !c.Negative, cycles)
	case "BVC":
		c.branch(b, oldPC, !c.Overflow, cycles)
	case "BVS":
		c.branch(b, oldPC, c.Overflow, cycles)
	case "JMP":
		c.PC = address
	case "JSR":
		c.pushWord(b, oldPC+length-1)
		c.PC = address
	case "RTS":
		c.PC = c.pullWord(b) + 1
	case "BRK":
		c.PC = oldPC + 2
		c.pushWord(b, c.PC)
		c.pushByte(b, c.encodeP(true))
		c.InterruptDisable = true
		c.PC = bus.ReadWord(b, irqVector)
	case "RTI":
		c.decodeP(c.pullByte(b))
		c.PC = c.pullWord(b)
	case "PHA":
		c.pushByte(b, c.A)
	case "PHP":
		c.pushByte(b, c.encodeP(true))
	case "PLA":
		c.A = c.pullByte(b)
		c.setNZ(c.A)
	case "PLP":
		c.decodeP(c.pullByte(b))
	case "SEC":
		c.Carry = true
	case "SED":
		c.Decimal = true
	case "SEI":
		c.InterruptDisable = true
	case "CLC":
		c.Carry = false
	case "CLD":
		c.Decimal = false
	case "CLI":
		c.InterruptDisable = false
	case "CLV":
		c.Overflow = false
	case "NOP":
		// advances PC/cycles only, handled generically by the caller.

	// --- Illegal opcodes ---

	case "LAX":
		value := b.ReadByte(address)
		c.A = value
		c.X = value
		c.setNZ(value)
	case "SAX":
		b.WriteByte(address, c.A&c.X)
	case "DCP":
		value := c.dec(b, address)
		c.compare(c.A, value)
	case "ISC":
		value := c.inc(b, address)
		c.sbc(value)
	case "SLO":
		c.asl(b, mode, address)
		c.A |= b.ReadByte(address)
		c.setNZ(c.A)
	case "RLA":
		c.rol(b, mode, address)
		c.A &= b.ReadByte(address)
		c.setNZ(c.A)
	case "SRE":
		c.lsr(b, mode, address)
		c.A ^= b.ReadByte(address)
		c.setNZ(c.A)
	case "RRA":
		c.ror(b, mode, address)
		c.adc(b.ReadByte(address))
	case "ANC":
		c.A &= b.ReadByte(address)
		c.setNZ(c.A)
		c.Carry = c.A&0x80 != 0
	case "ALR":
		c.A &= b.ReadByte(address)
		c.Carry = c.A&0x01 != 0
		c.A >>= 1
		c.setNZ(c.A)
	case "ARR":
		c.A &= b.ReadByte(address)
		var carryIn uint8
		if c.Carry {
			carryIn = 0x80
		}
		c.A = (c.A >> 1) | carryIn
		c.setNZ(c.A)
		bit6 := c.A&0x40 != 0
		bit5 := c.A&0x20 != 0
		c.Carry = bit6
		c.Overflow = bit6 != bit5
	case "XAA":
		// Unstable on real hardware; this core models the commonly emulated
		// deterministic approximation: A = X & operand.
		c.A = c.X & b.ReadByte(address)
		c.setNZ(c.A)
	case "LXA":
		// Unstable; modeled as A = X = operand (the common deterministic
		// approximation used by test suites that exercise it at all).
		value := b.ReadByte(address)
		c.A = value
		c.X = value
		c.setNZ(value)
	case "SBX":
		value := b.ReadByte(address)
		result := (c.A & c.X) - value
		c.Carry = (c.A & c.X) >= value
		c.X = result
		c.setNZ(c.X)
	case "SHA":
		high := uint8(address>>8) + 1
		b.WriteByte(address, c.A&c.X&high)
	case "SHX":
		high := uint8(address>>8) + 1
		b.WriteByte(address, c.X&high)
	case "SHY":
		high := uint8(address>>8) + 1
		b.WriteByte(address, c.Y&high)
	case "TAS":
		c.SP = c.A & c.X
		high := uint8(address>>8) + 1
		b.WriteByte(address, c.SP&high)
	case "LAS":
		value := b.ReadByte(address) & c.SP
		c.A = value
		c.X = value
		c.SP = value
		c.setNZ(value)
	case "JAM":
		c.Jammed = true
		c.PC = oldPC // JAM never advances; it halts forward progress in place.

	default:
		c.halt(fmt.Errorf("unrecognized opcode mnemonic %q at $%04X", instr.Mnemonic, oldPC))
	}
}
