package cpu

import "gones/internal/bus"

// ExecutionState is a non-mutating snapshot of the CPU immediately before
// it executes the instruction at PC. It is what Debugger.RecordState
// stores and what the golden-log comparison in the nestest scenario
// checks line-for-line.
type ExecutionState struct {
	PC          uint16
	NextInstr   Disassembly
	A, X, Y, P  uint8
	SP          uint8
	CycleNumber uint64
}

// String renders the canonical disassembly/log line (spec §6).
func (s ExecutionState) String() string {
	return FormatLogLine(s.PC, s.NextInstr, s.A, s.X, s.Y, s.P, s.SP, s.CycleNumber)
}

// CurrentState builds an ExecutionState for cpu using only Bus16.Peek,
// never mutating bus or CPU state. This backs the public
// current_state(bus) contract from spec §4.2.
func CurrentState(c *CPU, b bus.Bus16) ExecutionState {
	opcode := b.PeekByte(c.PC)
	op1 := b.PeekByte(c.PC + 1)
	op2 := b.PeekByte(c.PC + 2)
	return ExecutionState{
		PC:          c.PC,
		NextInstr:   Decode(opcode, op1, op2),
		A:           c.A,
		X:           c.X,
		Y:           c.Y,
		P:           c.encodeP(false),
		SP:          c.SP,
		CycleNumber: c.Cycles,
	}
}
