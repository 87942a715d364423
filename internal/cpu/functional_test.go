package cpu

import (
	"os"
	"path/filepath"
	"testing"

	"gones/internal/bus"
)

// functionalTestSuccessPC is the trap address Klaus Dormann's
// 6502_functional_test.bin jumps to (and loops on) when every test in the
// suite has passed. The binary is loaded at $000A and run starting at
// $0400, matching the test's own documented harness conventions.
const (
	functionalTestLoadAddress  = 0x000A
	functionalTestStartAddress = 0x0400
	functionalTestSuccessPC    = 0x3469
)

// TestKlausDormannFunctionalSuite runs the well-known 6502 functional test
// ROM to completion and asserts it reaches its documented success trap.
// The binary isn't distributed with this repo; place it at
// testdata/6502_functional_test.bin to exercise this test.
func TestKlausDormannFunctionalSuite(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "6502_functional_test.bin")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("skipping: %s not present (%v)", path, err)
	}

	mem := bus.NewFlatMemory()
	bus.LoadCode(mem, data, functionalTestLoadAddress, nil)

	c := New()
	c.PC = functionalTestStartAddress
	c.SP = 0xFD
	c.InterruptDisable = true

	var lastPC uint16 = 0xFFFF
	for steps := 0; steps < 100_000_000; steps++ {
		if c.PC == lastPC {
			break // trapped in a 1-instruction loop: either success or failure
		}
		lastPC = c.PC
		c.ExecuteInstruction(mem, nil)
	}

	if lastPC != functionalTestSuccessPC {
		t.Fatalf("functional test trapped at PC %#04x, want success trap %#04x", lastPC, functionalTestSuccessPC)
	}
}
