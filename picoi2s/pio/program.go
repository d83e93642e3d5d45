package pio

// opcode identifies one instruction in a sequencer program loop.
type opcode uint8

const (
	// opPullIfEmptyNoblock refills the output shift register from the TX
	// FIFO, but only when the register is exhausted, and never stalls: with
	// an empty FIFO the machine keeps shifting whatever is buffered.
	opPullIfEmptyNoblock opcode = iota
	// opNop burns one cycle; only its side-set level matters.
	opNop
	// opOut shifts one bit from the output shift register onto the data
	// line, LSB first.
	opOut
	// opJmp wraps the loop back to its first instruction.
	opJmp
)

// instr is one program step: an operation plus the side-set level driven
// onto the program's clock line during that cycle.
type instr struct {
	op   opcode
	side uint8
}

// Program is the static description of one sequencer's cyclic behavior.
// Programs never branch except for the loop itself, and are installed into
// a state machine once at startup.
type Program struct {
	Name string

	// OutPin is the data line driven by opOut instructions; NoPin when the
	// program has no data output.
	OutPin Pin
	// SidePin is the clock line driven by every instruction's side-set.
	SidePin Pin

	instrs []instr
}

// CyclesPerTransition reports how many divided cycles the program's loop
// consumes per logical output transition, the constant fed to
// ComputeDivisor for this program.
func (p Program) CyclesPerTransition() float32 {
	return float32(len(p.instrs))
}

func (p Program) installed() bool {
	return len(p.instrs) > 0
}

// DataProgram describes the data plus bit-clock sequencer. Each loop
// iteration emits one data bit: refill the shift buffer if it is empty
// while holding the bit clock low, then shift a bit onto the data line
// while driving the bit clock high. Four cycles per output bit.
func DataProgram(dataPin, bitClockPin Pin) Program {
	return Program{
		Name:    "data+bck",
		OutPin:  dataPin,
		SidePin: bitClockPin,
		instrs: []instr{
			{op: opPullIfEmptyNoblock, side: 0},
			{op: opNop, side: 0},
			{op: opOut, side: 1},
			{op: opJmp, side: 1},
		},
	}
}

// WordClockProgram describes the word-clock sequencer: the line is held
// high for one cycle and low for one cycle, so with its own divisor one
// full high/low period spans exactly one stereo frame, independent of the
// data program's bit rate. Two cycles per frame.
func WordClockProgram(wordClockPin Pin) Program {
	return Program{
		Name:    "lrck",
		OutPin:  NoPin,
		SidePin: wordClockPin,
		instrs: []instr{
			{op: opNop, side: 1},
			{op: opJmp, side: 0},
		},
	}
}
