package memory

import "testing"

func TestRamMirrors(t *testing.T) {
	ram := NewRam(0x0800)
	ram.Write(0x0000, 0x42)
	if got := ram.Read(0x0800); got != 0x42 {
		t.Fatalf("mirrored read at 0x0800 = %#02x, want 0x42", got)
	}
	if got := ram.Read(0x1800); got != 0x42 {
		t.Fatalf("mirrored read at 0x1800 = %#02x, want 0x42", got)
	}
}

func TestRamCopyFromWrapsAtOffset(t *testing.T) {
	ram := NewRam(256)
	src := make([]uint8, 256)
	for i := range src {
		src[i] = uint8(i)
	}
	ram.CopyFrom(src, 0x10)

	for i := 0; i < 256; i++ {
		want := uint8(i)
		got := ram.Read(uint16((0x10 + i) % 256))
		if got != want {
			t.Fatalf("OAM[(0x10+%d) mod 256] = %#02x, want %#02x", i, got, want)
		}
	}
}

func TestRomMirrorsSixteenKToThirtyTwoK(t *testing.T) {
	slice := make([]uint8, 16384)
	slice[0] = 0xAA
	slice[16383] = 0xBB
	rom := NewRomFromSlice(slice)

	if got := rom.Read(0x0000); got != 0xAA {
		t.Fatalf("rom[0] = %#02x, want 0xAA", got)
	}
	if got := rom.Read(0x4000); got != 0xAA {
		t.Fatalf("mirrored rom[0x4000] = %#02x, want 0xAA", got)
	}
	if got := rom.Read(0x3FFF); got != 0xBB {
		t.Fatalf("rom[0x3FFF] = %#02x, want 0xBB", got)
	}
}

func TestPaletteRamMirrorQuirk(t *testing.T) {
	p := NewPaletteRam()
	cases := []struct{ mirror, canonical uint16 }{
		{0x10, 0x00}, {0x14, 0x04}, {0x18, 0x08}, {0x1C, 0x0C},
	}
	for _, c := range cases {
		p.Write(c.mirror, 0x2A)
		if got := p.Read(c.canonical); got != 0x2A {
			t.Fatalf("write to $3F%02X not observed at $3F%02X: got %#02x", c.mirror, c.canonical, got)
		}
	}
}

func TestPaletteRamNonMirroredEntriesAreIndependent(t *testing.T) {
	p := NewPaletteRam()
	p.Write(0x01, 0x11)
	p.Write(0x05, 0x22)
	if got := p.Read(0x01); got != 0x11 {
		t.Fatalf("p[1] = %#02x, want 0x11", got)
	}
	if got := p.Read(0x05); got != 0x22 {
		t.Fatalf("p[5] = %#02x, want 0x22", got)
	}
}
