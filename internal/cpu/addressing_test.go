package cpu

import (
	"testing"

	"gones/internal/bus"
)

func TestResolveZeroPageIndexedWraps(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.WriteByte(0x0001, 0xFF) // operand byte for pc+1
	res := resolveZeroPageIndexed(mem, 0x0000, 0x02)
	if res.address != 0x0001 {
		t.Fatalf("address = %#04x, want 0x0001 (0xFF+2 wraps within page zero)", res.address)
	}
}

func TestResolveAbsoluteIndexedChargesOnlyWhenAskedTo(t *testing.T) {
	mem := bus.NewFlatMemory()
	bus.WriteWord(mem, 0x0001, 0x02FF)

	res := resolveAbsoluteIndexed(mem, 0x0000, 0x01, true)
	if !res.pageCrossed {
		t.Fatalf("expected page cross charged when chargeOnCross=true and 0x02FF+1 crosses into 0x0300")
	}

	res2 := resolveAbsoluteIndexed(mem, 0x0000, 0x01, false)
	if res2.pageCrossed {
		t.Fatalf("expected no page cross charge when chargeOnCross=false")
	}
	if res.address != res2.address {
		t.Fatalf("effective address should not depend on chargeOnCross")
	}
}

func TestResolveIndexedIndirectZeroPageWrap(t *testing.T) {
	mem := bus.NewFlatMemory()
	// X=6 => pointer = (0xFE + 6) mod 256 = 0x04, wrapping within zero page
	mem.WriteByte(0x0001, 0xFE)
	mem.WriteByte(0x0004, 0x34) // low byte of target at (0xFE+6) mod 256
	mem.WriteByte(0x0005, 0x12) // high byte
	mem.WriteByte(0x0104, 0x99) // decoy: the pointer must not spill into page 1

	res := resolveIndexedIndirect(mem, 0x0000, 0x06)
	if res.address != 0x1234 {
		t.Fatalf("address = %#04x, want 0x1234", res.address)
	}
}

func TestResolveIndirectIndexedPageCross(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.WriteByte(0x0001, 0x10) // zero-page pointer location
	mem.WriteByte(0x0010, 0xFF)
	mem.WriteByte(0x0011, 0x02) // base = 0x02FF

	res := resolveIndirectIndexed(mem, 0x0000, 0x01, true)
	if res.address != 0x0300 {
		t.Fatalf("address = %#04x, want 0x0300", res.address)
	}
	if !res.pageCrossed {
		t.Fatalf("expected page cross from 0x02FF to 0x0300")
	}
}

func TestReadWordZeroPageWrapAtPageBoundary(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.WriteByte(0x00FF, 0x34)
	mem.WriteByte(0x0000, 0x12) // must wrap to $00, not spill to $0100
	mem.WriteByte(0x0100, 0x99) // decoy

	got := readWordZeroPageWrap(mem, 0x00FF)
	if got != 0x1234 {
		t.Fatalf("readWordZeroPageWrap = %#04x, want 0x1234", got)
	}
}

func TestAddressingModeLengths(t *testing.T) {
	cases := []struct {
		mode AddressingMode
		want uint16
	}{
		{Implied, 1},
		{Accumulator, 1},
		{Immediate, 2},
		{ZeroPage, 2},
		{ZeroPageX, 2},
		{ZeroPageY, 2},
		{Relative, 2},
		{IndexedIndirect, 2},
		{IndirectIndexed, 2},
		{Absolute, 3},
		{AbsoluteX, 3},
		{AbsoluteY, 3},
		{Indirect, 3},
	}
	for _, tc := range cases {
		if got := tc.mode.Length(); got != tc.want {
			t.Errorf("mode %v Length() = %d, want %d", tc.mode, got, tc.want)
		}
	}
}

func TestInstructionTableCoversAllOpcodes(t *testing.T) {
	for i := 0; i < 256; i++ {
		if instructionTable[i].Mnemonic == "" {
			t.Fatalf("opcode %#02x has no instruction table entry", i)
		}
	}
}

func TestOfficialOpcodesAreNotMarkedIllegal(t *testing.T) {
	official := map[uint8]string{
		0xA9: "LDA", 0x69: "ADC", 0xE9: "SBC", 0x4C: "JMP", 0xEA: "NOP",
		0x00: "BRK", 0x40: "RTI", 0x60: "RTS", 0x20: "JSR",
	}
	for opcode, mnemonic := range official {
		entry := instructionTable[opcode]
		if entry.Mnemonic != mnemonic {
			t.Errorf("opcode %#02x = %s, want %s", opcode, entry.Mnemonic, mnemonic)
		}
		if entry.Illegal {
			t.Errorf("opcode %#02x (%s) marked illegal, want official", opcode, mnemonic)
		}
	}
}
