package pio

import "fmt"

// osrWidth is the output shift register width: one wire word.
const osrWidth = 32

// StateMachine executes one installed Program at the rate set by its
// fixed-point clock divider. Machines are configured once at startup and
// then run autonomously; the only interaction in steady state is the
// producer pushing words into the TX FIFO.
type StateMachine struct {
	id   int
	pins *PinState

	prog Program
	div  ClockDivisor

	fifo TxFIFO

	// osr is the output shift register, emptied LSB first; osrLeft counts
	// the bits remaining before the next refill.
	osr     uint32
	osrLeft int

	pc      int
	started bool

	// acc accumulates elapsed base ticks in 1/256 units; an instruction
	// executes every div.units() of them.
	acc uint32

	firstExecTick uint64
	execCount     uint64
}

// Install loads a program into the machine. Installing into a running
// machine is a configuration error.
func (m *StateMachine) Install(p Program) error {
	if m.started {
		return fmt.Errorf("state machine %d is running; programs install only at startup", m.id)
	}
	m.prog = p
	m.pc = 0
	return nil
}

// Configure sets the machine's clock divider. Reconfiguring a running
// machine is a configuration error.
func (m *StateMachine) Configure(d ClockDivisor) error {
	if m.started {
		return fmt.Errorf("state machine %d is running; divisors configure only at startup", m.id)
	}
	if d.Whole < 1 {
		return fmt.Errorf("state machine %d divisor %s below unity", m.id, d)
	}
	m.div = d
	return nil
}

// PushWord offers one encoded word to the machine's TX FIFO, reporting
// false when the FIFO is full.
func (m *StateMachine) PushWord(w uint32) bool {
	return m.fifo.Push(w)
}

// TxFull reports whether the TX FIFO would refuse a word.
func (m *StateMachine) TxFull() bool {
	return m.fifo.Full()
}

// Program returns the installed program description.
func (m *StateMachine) Program() Program {
	return m.prog
}

// Divisor returns the configured clock divider.
func (m *StateMachine) Divisor() ClockDivisor {
	return m.div
}

// FirstExecution returns the base tick of the machine's first instruction
// after the joint start, and whether it has executed at all yet.
func (m *StateMachine) FirstExecution() (uint64, bool) {
	return m.firstExecTick, m.execCount > 0
}

// restart rewinds the machine so its first instruction executes on the
// very next base tick. StartGroup restarts every machine in the group
// together, which is what phase-locks independently clocked programs.
func (m *StateMachine) restart() {
	m.pc = 0
	m.osr = 0
	m.osrLeft = 0
	m.acc = m.div.units() - fracResolution
	m.execCount = 0
	m.firstExecTick = 0
}

// step advances the machine by one base-clock tick.
func (m *StateMachine) step(tick uint64) {
	if !m.started {
		return
	}
	m.acc += fracResolution
	for m.acc >= m.div.units() {
		m.acc -= m.div.units()
		m.exec(tick)
	}
}

// exec runs one instruction of the program loop.
func (m *StateMachine) exec(tick uint64) {
	if m.execCount == 0 {
		m.firstExecTick = tick
	}
	m.execCount++

	in := m.prog.instrs[m.pc]

	switch in.op {
	case opPullIfEmptyNoblock:
		if m.osrLeft == 0 {
			if w, ok := m.fifo.Pull(); ok {
				m.osr = w
			}
			// With an empty FIFO the machine does not stall: it rearms the
			// counter and re-shifts whatever the register still holds.
			m.osrLeft = osrWidth
		}
	case opOut:
		// Present the bit before the side-set clock edge lands, so a
		// receiver sampling on that edge sees the new bit.
		m.pins.Set(m.prog.OutPin, m.osr&1 == 1, tick)
		m.osr >>= 1
		if m.osrLeft > 0 {
			m.osrLeft--
		}
	case opNop, opJmp:
	}

	m.pins.Set(m.prog.SidePin, in.side == 1, tick)

	if in.op == opJmp {
		m.pc = 0
	} else {
		m.pc++
	}
}
