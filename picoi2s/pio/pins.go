package pio

// Pin identifies one line of the simulated GPIO bank.
type Pin uint8

// NoPin marks a program output as unconnected.
const NoPin Pin = 0xFF

const pinCount = 32

// TraceFunc observes pin level changes. It fires only on transitions, with
// the base-clock tick at which the new level took effect.
type TraceFunc func(tick uint64, pin Pin, level bool)

// PinState holds the levels of the simulated GPIO bank shared by every
// state machine on the block.
type PinState struct {
	levels [pinCount]bool
	trace  TraceFunc
}

// SetTrace installs the transition observer. A nil func disables tracing.
func (p *PinState) SetTrace(fn TraceFunc) {
	p.trace = fn
}

// Set drives a pin to the given level at the given tick. Driving a pin to
// its current level is not a transition and is not traced.
func (p *PinState) Set(pin Pin, level bool, tick uint64) {
	if pin == NoPin || pin >= pinCount {
		return
	}
	if p.levels[pin] == level {
		return
	}
	p.levels[pin] = level
	if p.trace != nil {
		p.trace(tick, pin, level)
	}
}

// Get returns the current level of a pin.
func (p *PinState) Get(pin Pin) bool {
	if pin == NoPin || pin >= pinCount {
		return false
	}
	return p.levels[pin]
}
