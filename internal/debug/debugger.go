// Package debug implements a bounded execution-trace ring buffer used to
// reconstruct a backtrace when the emulated CPU hits an unexpected state.
package debug

import (
	"fmt"
	"strings"

	"gones/internal/cpu"
)

// DefaultBacktraceLimit is the ring buffer's default capacity, matching
// the source this is grounded on.
const DefaultBacktraceLimit = 20

// Debugger is a ring buffer of the last N cpu.ExecutionState snapshots. It
// is push-only from the CPU's perspective (CPU.ExecuteInstruction takes a
// cpu.Recorder and calls RecordState before running each instruction),
// which keeps the CPU<->Debugger<->NES relationship free of shared
// interior mutability — the Design Notes' recommended alternative to the
// source's Rc<RefCell<...>> structure.
type Debugger struct {
	states []cpu.ExecutionState
	limit  int
}

// New returns a Debugger with the given backtrace limit, or
// DefaultBacktraceLimit if limit <= 0.
func New(limit int) *Debugger {
	if limit <= 0 {
		limit = DefaultBacktraceLimit
	}
	return &Debugger{limit: limit}
}

// RecordState appends state, evicting the oldest entry once at capacity.
func (d *Debugger) RecordState(state cpu.ExecutionState) {
	if len(d.states) >= d.limit {
		d.states = d.states[1:]
	}
	d.states = append(d.states, state)
}

// States returns the retained snapshots in chronological order (oldest
// first).
func (d *Debugger) States() []cpu.ExecutionState {
	return d.states
}

// DumpBacktrace renders all retained entries, oldest first, one per line,
// using the canonical disassembly/log line format.
func (d *Debugger) DumpBacktrace() string {
	var b strings.Builder
	for _, s := range d.states {
		fmt.Fprintln(&b, s.String())
	}
	return b.String()
}
