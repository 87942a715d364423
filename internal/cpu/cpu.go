// Package cpu implements a cycle-accounted MOS 6502 interpreter: 256-entry
// opcode dispatch, 13 addressing modes, official and unofficial opcodes,
// and RESET/IRQ/NMI/BRK interrupt sequencing.
package cpu

import "gones/internal/bus"

const (
	stackBase = 0x0100

	flagCarry    = 0x01
	flagZero     = 0x02
	flagIRQ      = 0x04
	flagDecimal  = 0x08
	flagBreak    = 0x10
	flagUnused   = 0x20
	flagOverflow = 0x40
	flagNegative = 0x80

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Recorder is the push-only debugger hook execute_instruction reports to,
// avoiding the interior-mutability cycle the original source structures
// around (CPU<->Debugger<->NES). Any type with RecordState satisfies it
// structurally; debug.Debugger is the one this repo ships.
type Recorder interface {
	RecordState(ExecutionState)
}

// CPU is a MOS 6502 interpreter. It is polymorphic over any bus.Bus16, so
// the same interpreter drives both the CPU-only test harness (FlatMemory)
// and the full NES (CpuBus).
type CPU struct {
	A, X, Y uint8
	PC      uint16
	SP      uint8

	Carry, Zero, InterruptDisable, Decimal, Overflow, Negative bool

	Cycles uint64

	nmiLine bool
	lastNMI bool
	irqLine bool

	// Jammed is set by a JAM/KIL illegal opcode and never cleared except
	// by Reset. Once set, ExecuteInstruction is a no-op that still charges
	// a cycle, matching the sticky-halt behavior spec.md's Design Notes
	// explicitly retains.
	Jammed bool

	// DecimalModeEnabled gates ADC/SBC's decimal-mode check. The core does
	// not implement BCD arithmetic (explicit non-goal); when Decimal is
	// set and a ROM executes ADC/SBC anyway, the CPU halts (see Halted and
	// HaltError) rather than silently producing wrong results.
	DecimalModeEnabled bool

	halted    bool
	haltError error
}

// New returns a CPU with SP initialized to the documented post-reset
// value; callers still call Reset before running code so the program
// counter is loaded from the reset vector.
func New() *CPU {
	return &CPU{SP: 0xFD}
}

// Reset loads PC from the reset vector, sets SP to 0xFD, sets the
// interrupt-disable flag, and charges 7 cycles. It is idempotent and safe
// to call at any time.
func (c *CPU) Reset(b bus.Bus16) {
	c.PC = bus.ReadWord(b, resetVector)
	c.SP = 0xFD
	c.InterruptDisable = true
	c.Cycles += 7
	c.Jammed = false
	c.halted = false
	c.haltError = nil
}

// SetNMILine sets the current level of the NMI line. NMI is edge
// triggered: ExecuteInstruction only services it on a 0->1 transition
// relative to the level most recently observed.
func (c *CPU) SetNMILine(level bool) {
	c.nmiLine = level
}

// SetIRQLine sets the current level of the IRQ line. IRQ is level
// sensitive and masked by the interrupt-disable flag.
func (c *CPU) SetIRQLine(level bool) {
	c.irqLine = level
}

// Halted reports whether the CPU aborted due to an unsupported feature
// (decimal-mode arithmetic, or an unrecognized opcode slot). This is
// distinct from Jammed: a JAM opcode is normal 6502 behavior this core
// models faithfully, while Halted signals a host/config mistake. Once
// halted, ExecuteInstruction does nothing but charge one cycle until Reset.
func (c *CPU) Halted() bool {
	return c.halted
}

// HaltError is non-nil once Halted() is true.
func (c *CPU) HaltError() error {
	return c.haltError
}

func (c *CPU) halt(err error) {
	c.halted = true
	c.haltError = err
}

// encodeP packs the six flags plus the always-1 bit 5 and the
// push-time-only break flag into a status byte.
func (c *CPU) encodeP(brkCommand bool) uint8 {
	var p uint8
	if c.Carry {
		p |= flagCarry
	}
	if c.Zero {
		p |= flagZero
	}
	if c.InterruptDisable {
		p |= flagIRQ
	}
	if c.Decimal {
		p |= flagDecimal
	}
	if brkCommand {
		p |= flagBreak
	}
	p |= flagUnused
	if c.Overflow {
		p |= flagOverflow
	}
	if c.Negative {
		p |= flagNegative
	}
	return p
}

// decodeP unpacks a status byte into the six flags. Bit 4 (B) and bit 5
// (unused) are not stored anywhere — they exist only transiently in the
// pushed byte.
func (c *CPU) decodeP(p uint8) {
	c.Carry = p&flagCarry != 0
	c.Zero = p&flagZero != 0
	c.InterruptDisable = p&flagIRQ != 0
	c.Decimal = p&flagDecimal != 0
	c.Overflow = p&flagOverflow != 0
	c.Negative = p&flagNegative != 0
}

func (c *CPU) setNZ(value uint8) {
	c.Zero = value == 0
	c.Negative = value&0x80 != 0
}

func (c *CPU) pushByte(b bus.Bus16, value uint8) {
	b.WriteByte(stackBase+uint16(c.SP), value)
	c.SP--
}

func (c *CPU) pullByte(b bus.Bus16) uint8 {
	c.SP++
	return b.ReadByte(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(b bus.Bus16, value uint16) {
	c.pushByte(b, uint8(value>>8))
	c.pushByte(b, uint8(value&0xFF))
}

func (c *CPU) pullWord(b bus.Bus16) uint16 {
	lo := c.pullByte(b)
	hi := c.pullByte(b)
	return uint16(hi)<<8 | uint16(lo)
}

// serviceInterrupt pushes PC and P (with the break flag per brkCommand),
// sets the interrupt-disable flag, loads PC from vector, and charges the
// standard 7-cycle interrupt sequence.
func (c *CPU) serviceInterrupt(b bus.Bus16, vector uint16, brkCommand bool) {
	c.pushWord(b, c.PC)
	c.pushByte(b, c.encodeP(brkCommand))
	c.InterruptDisable = true
	c.PC = bus.ReadWord(b, vector)
	c.Cycles += 7
}

// chargesPageCrossPenalty reports whether mnemonic is a "read" category
// instruction that charges +1 cycle when its indexed addressing crosses a
// page boundary. Store and read-modify-write instructions do not (their
// base cycle counts in the instruction table already reflect the fixed
// cost), per spec §4.2.
func chargesPageCrossPenalty(mnemonic string) bool {
	switch mnemonic {
	case "LDA", "LDX", "LDY", "AND", "ORA", "EOR", "ADC", "SBC",
		"CMP", "CPX", "CPY", "BIT", "LAX", "NOP", "LAS":
		return true
	default:
		return false
	}
}

// ExecuteInstruction services at most one pending interrupt, or otherwise
// decodes and runs exactly one instruction at PC. It returns the number of
// cycles elapsed during this call.
func (c *CPU) ExecuteInstruction(b bus.Bus16, rec Recorder) uint64 {
	cyclesAtStart := c.Cycles

	if c.Jammed || c.halted {
		c.Cycles++
		return 1
	}

	nmiEdge := c.nmiLine && !c.lastNMI
	c.lastNMI = c.nmiLine
	if nmiEdge {
		c.serviceInterrupt(b, nmiVector, false)
		return c.Cycles - cyclesAtStart
	}
	if c.irqLine && !c.InterruptDisable {
		c.serviceInterrupt(b, irqVector, false)
		return c.Cycles - cyclesAtStart
	}

	if rec != nil {
		rec.RecordState(CurrentState(c, b))
	}

	opcode := b.ReadByte(c.PC)
	instr := instructionTable[opcode]
	oldPC := c.PC
	chargeOnCross := chargesPageCrossPenalty(instr.Mnemonic)

	var res resolution
	switch instr.Mode {
	case Immediate:
		res = resolveImmediate(oldPC)
	case ZeroPage:
		res = resolveZeroPage(b, oldPC)
	case ZeroPageX:
		res = resolveZeroPageIndexed(b, oldPC, c.X)
	case ZeroPageY:
		res = resolveZeroPageIndexed(b, oldPC, c.Y)
	case Absolute:
		res = resolveAbsolute(b, oldPC)
	case AbsoluteX:
		res = resolveAbsoluteIndexed(b, oldPC, c.X, chargeOnCross)
	case AbsoluteY:
		res = resolveAbsoluteIndexed(b, oldPC, c.Y, chargeOnCross)
	case Indirect:
		res = resolveAbsoluteIndirect(b, oldPC)
	case IndexedIndirect:
		res = resolveIndexedIndirect(b, oldPC, c.X)
	case IndirectIndexed:
		res = resolveIndirectIndexed(b, oldPC, c.Y, chargeOnCross)
	}

	length := instr.Mode.Length()
	cycles := uint64(instr.Cycles)
	if res.pageCrossed {
		cycles++
	}

	// Default PC advance; branches/JMP/JSR/RTS/RTI/BRK override below.
	c.PC = oldPC + length

	c.execute(b, instr, res.address, oldPC, length, &cycles)

	c.Cycles += cycles
	return c.Cycles - cyclesAtStart
}
