package nes

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gones/internal/cartridge"
	"gones/internal/debug"
)

// nestestStartPC is the automation entry point nestest.nes documents for
// running the suite without a real PPU/APU to drive rendering timing
// (headless mode starts execution at $C000 rather than the reset vector).
const nestestStartPC = 0xC000

// TestNestestGoldenLog replays nestest.nes against the CPU and compares
// every retired instruction's log line (PC, raw bytes, disassembly, and
// register state) against the reference log CPU implementations are
// traditionally validated against. Both fixtures are external binary
// assets not distributed with this repo; place them at
// testdata/nestest.nes and testdata/nestest.log to exercise this test.
func TestNestestGoldenLog(t *testing.T) {
	romPath := filepath.Join("..", "..", "testdata", "nestest.nes")
	logPath := filepath.Join("..", "..", "testdata", "nestest.log")

	romData, err := os.ReadFile(romPath)
	if err != nil {
		t.Skipf("skipping: %s not present (%v)", romPath, err)
	}
	logFile, err := os.Open(logPath)
	if err != nil {
		t.Skipf("skipping: %s not present (%v)", logPath, err)
	}
	defer logFile.Close()

	rom, err := cartridge.LoadRomFile(romData)
	if err != nil {
		t.Fatalf("LoadRomFile: %v", err)
	}
	cart, err := cartridge.New(rom)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}

	system := New(cart)
	system.CPU.PC = nestestStartPC
	dbg := debug.New(1)
	system.Recorder = dbg

	scanner := bufio.NewScanner(logFile)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		want := scanner.Text()

		system.Step()
		states := dbg.States()
		if len(states) == 0 {
			t.Fatalf("line %d: no execution state recorded", lineNumber)
		}
		got := states[len(states)-1].String()

		// The reference log carries PPU/APU timing columns this core's
		// log line doesn't emit; compare only the prefix both formats
		// share (PC through CYC, spec §6's required columns).
		if !strings.HasPrefix(want, got[:minInt(len(got), len(want))]) && !strings.HasPrefix(got, want) {
			t.Fatalf("line %d mismatch:\n got: %s\nwant: %s", lineNumber, got, want)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("reading %s: %v", logPath, err)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
