// Package controller implements the NES's 8-bit shift-register-style
// controller ports.
package controller

// State is a single frame's button snapshot for a standard NES
// controller: A, B, Select, Start, Up, Down, Left, Right in wire order.
type State struct {
	A, B, Select, Start      bool
	Up, Down, Left, Right    bool
}

// readBuffer returns the bits in wire order as they are read out on
// successive $4016/$4017 reads.
func (s State) readBuffer() [8]uint8 {
	bit := func(b bool) uint8 {
		if b {
			return 1
		}
		return 0
	}
	return [8]uint8{
		bit(s.A), bit(s.B), bit(s.Select), bit(s.Start),
		bit(s.Up), bit(s.Down), bit(s.Left), bit(s.Right),
	}
}

// Port is a single controller port. It latches a button State on strobe
// and shifts bits out one at a time on each Read; reads past the 8th bit
// return the overrun default (1, per the standard NES controller).
//
// Button state changes mid-shift-out do not corrupt the in-progress read:
// State updates are staged and only swap into the live read buffer on the
// next Poll (a strobe write), mirroring the original
// ControllerPort/incoming-state design this is grounded on.
type Port struct {
	readBuffer     [8]uint8
	index          uint8
	overrunDefault uint8

	pending    [8]uint8
	hasPending bool
}

// NewPort returns a port with the overrun default used by a standard NES
// controller (reads past bit 8 return 1).
func NewPort() *Port {
	return &Port{overrunDefault: 1}
}

// Update stages a new button snapshot to take effect on the next Poll.
func (p *Port) Update(state State) {
	p.pending = state.readBuffer()
	p.hasPending = true
}

// Poll applies any pending snapshot and resets the read cursor to 0. Pair
// calls it on every strobe write with bit 0 set and on the strobe's
// high->low transition.
func (p *Port) Poll() {
	if p.hasPending {
		p.readBuffer = p.pending
		p.hasPending = false
	}
	p.index = 0
}

func (p *Port) currentByte() uint8 {
	if int(p.index) < len(p.readBuffer) {
		return p.readBuffer[p.index]
	}
	return p.overrunDefault
}

// Peek is the non-mutating counterpart of Read.
func (p *Port) Peek() uint8 {
	return p.currentByte()
}

// Read returns the next bit and advances the read cursor.
func (p *Port) Read() uint8 {
	b := p.currentByte()
	p.index++
	return b
}
