package pio

import (
	"fmt"
	"log/slog"
)

// NumStateMachines is how many machines one block carries.
const NumStateMachines = 4

// PIO is one sequencer block: a shared pin bank, a base-clock tick
// counter, and four state machines stepped in lockstep from that base
// clock.
type PIO struct {
	pins PinState
	sms  [NumStateMachines]*StateMachine
	tick uint64
}

// New returns an idle block with no programs installed.
func New() *PIO {
	p := &PIO{}
	for i := range p.sms {
		p.sms[i] = &StateMachine{id: i, pins: &p.pins}
	}
	return p
}

// StateMachine returns machine i of the block.
func (p *PIO) StateMachine(i int) *StateMachine {
	return p.sms[i]
}

// Pins returns the block's shared pin bank.
func (p *PIO) Pins() *PinState {
	return &p.pins
}

// Tick returns how many base-clock ticks the block has run.
func (p *PIO) Tick() uint64 {
	return p.tick
}

// StartGroup arms the given machines in one atomic operation: every one is
// restarted so its first instruction executes on the same upcoming base
// tick. This is the one hard ordering guarantee of the block. Starting
// the machines separately, even one tick apart, would skew the data and
// word clocks against each other and corrupt channel framing at the
// receiver, which is why no single-machine start is exposed.
func (p *PIO) StartGroup(ids ...int) error {
	if len(ids) == 0 {
		return fmt.Errorf("start group is empty")
	}
	for _, id := range ids {
		if id < 0 || id >= NumStateMachines {
			return fmt.Errorf("no state machine %d on this block", id)
		}
		m := p.sms[id]
		if m.started {
			return fmt.Errorf("state machine %d already started", id)
		}
		if !m.prog.installed() {
			return fmt.Errorf("state machine %d has no program installed", id)
		}
		if m.div.Whole < 1 {
			return fmt.Errorf("state machine %d has no clock divisor configured", id)
		}
	}

	for _, id := range ids {
		m := p.sms[id]
		m.restart()
		m.started = true
		slog.Debug("state machine armed",
			"sm", id,
			"program", m.prog.Name,
			"divisor", m.div.String())
	}
	return nil
}

// Step advances the whole block by n base-clock ticks. Every started
// machine sees every tick, so their relative phase depends only on their
// divisors and the joint start.
func (p *PIO) Step(n int) {
	for ; n > 0; n-- {
		p.tick++
		for _, m := range p.sms {
			m.step(p.tick)
		}
	}
}
