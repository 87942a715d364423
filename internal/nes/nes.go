package nes

import (
	"gones/internal/cartridge"
	"gones/internal/controller"
	"gones/internal/cpu"
	"gones/internal/memory"
	"gones/internal/ppu"
)

const ppuDotsPerCpuCycle = 3

// System owns the shared NES components (CPU, PPU, RAM, controllers, and
// the loaded cartridge) and drives them together one CPU instruction at a
// time. The CPU-visible address space (CpuBus) is rebuilt fresh on every
// step rather than stored, so nothing in this package holds two mutable
// views of the same state at once.
type System struct {
	CPU         *cpu.CPU
	PPU         *ppu.PPU
	Cartridge   cartridge.Cartridge
	Ram         *memory.Ram
	Controllers *controller.Pair
	Frame       *ppu.Frame

	Recorder cpu.Recorder
}

// New builds a System around a loaded cartridge and resets the CPU.
func New(cart cartridge.Cartridge) *System {
	s := &System{
		CPU:         cpu.New(),
		PPU:         ppu.New(),
		Cartridge:   cart,
		Ram:         memory.NewRam(2048),
		Controllers: controller.NewPair(),
		Frame:       ppu.NewFrame(),
	}
	s.CPU.Reset(s.bus())
	return s
}

func (s *System) bus() *CpuBus {
	return NewCpuBus(s.Ram, s.PPU, s.Cartridge, s.Controllers)
}

// SetControllerState stages the next input snapshot for both controller
// ports; it takes effect the next time the game polls $4016/$4017.
func (s *System) SetControllerState(one, two controller.State) {
	s.Controllers.SetState(one, two)
}

// Step runs exactly one CPU instruction (or interrupt service routine) and
// advances the PPU by three dots per CPU cycle consumed, wiring the PPU's
// edge-triggered NMI output into the CPU's NMI line before the CPU acts.
// It returns the number of CPU cycles the step took.
func (s *System) Step() uint64 {
	if s.PPU.TakeInterrupt() {
		s.CPU.SetNMILine(true)
	} else {
		s.CPU.SetNMILine(false)
	}

	cycles := s.CPU.ExecuteInstruction(s.bus(), s.Recorder)
	s.PPU.Tick(s.Cartridge, s.Frame, cycles*ppuDotsPerCpuCycle)
	return cycles
}

// AdvanceToNextFrame steps the system until the PPU next enters VBlank (a
// rising edge of InVBlank), returning the rendered frame buffer. It stops
// early if the CPU jams, per spec §4.8, rather than spinning forever on a
// halted CPU.
func (s *System) AdvanceToNextFrame() *ppu.Frame {
	startFrameParity := s.PPU.InVBlank()
	for {
		s.Step()
		if s.CPU.Jammed {
			break
		}
		if !startFrameParity && s.PPU.InVBlank() {
			break
		}
		startFrameParity = s.PPU.InVBlank()
	}
	return s.Frame
}
