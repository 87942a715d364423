package bus

import "testing"

func TestFlatMemoryReadWrite(t *testing.T) {
	m := NewFlatMemory()

	m.WriteByte(0x0000, 64)
	if got := m.ReadByte(0x0000); got != 64 {
		t.Fatalf("ReadByte(0x0000) = %d, want 64", got)
	}

	WriteWord(m, 0x0100, 0xAABB)
	if got := ReadWord(m, 0x0100); got != 0xAABB {
		t.Fatalf("ReadWord(0x0100) = %#04x, want 0xAABB", got)
	}
	if got := m.ReadByte(0x0100); got != 0xBB {
		t.Fatalf("low byte = %#02x, want 0xBB", got)
	}
	if got := m.ReadByte(0x0101); got != 0xAA {
		t.Fatalf("high byte = %#02x, want 0xAA", got)
	}
}

func TestFlatMemoryWordWrapsAtTopOfAddressSpace(t *testing.T) {
	m := NewFlatMemory()
	WriteWord(m, 0xFFFF, 0x1234)
	if got := m.ReadByte(0xFFFF); got != 0x34 {
		t.Fatalf("byte at 0xFFFF = %#02x, want 0x34", got)
	}
	if got := m.ReadByte(0x0000); got != 0x12 {
		t.Fatalf("byte at 0x0000 after wraparound write = %#02x, want 0x12", got)
	}
}

func TestLoadCodeSetsResetVector(t *testing.T) {
	m := NewFlatMemory()
	entry := uint16(0x0400)
	LoadCode(m, []uint8{0xA9, 0x02}, 0x0000, &entry)

	if got := m.ReadByte(0x0000); got != 0xA9 {
		t.Fatalf("code byte 0 = %#02x, want 0xA9", got)
	}
	if got := ReadWord(m, 0xFFFC); got != entry {
		t.Fatalf("reset vector = %#04x, want %#04x", got, entry)
	}
}

func TestPeekDoesNotMutate(t *testing.T) {
	m := NewFlatMemory()
	m.WriteByte(0x10, 0x42)
	if got := m.PeekByte(0x10); got != 0x42 {
		t.Fatalf("PeekByte = %#02x, want 0x42", got)
	}
	// Peeking twice must be idempotent for flat memory.
	if got := m.PeekByte(0x10); got != 0x42 {
		t.Fatalf("second PeekByte = %#02x, want 0x42", got)
	}
}
