// Package pio models the two autonomous output sequencers that clock the
// serial audio link: static program descriptions, a cycle-stepped state
// machine with a fractional clock divider and TX FIFO, and a block that
// starts a group of machines in phase lock.
package pio

import "fmt"

// fracResolution is the denominator of the fractional divider component.
const fracResolution = 256

// ClockDivisor is a fixed-point clock divider with 1/256 resolution. A
// state machine executes one instruction every Whole + Frac/256 base-clock
// ticks.
type ClockDivisor struct {
	Whole uint16
	Frac  uint8
}

// Value returns the divisor as a real number, Whole + Frac/256.
func (d ClockDivisor) Value() float64 {
	return float64(d.Whole) + float64(d.Frac)/fracResolution
}

// units returns the divisor in 1/256-tick units, the granularity the
// stepping accumulator counts in.
func (d ClockDivisor) units() uint32 {
	return uint32(d.Whole)*fracResolution + uint32(d.Frac)
}

func (d ClockDivisor) String() string {
	return fmt.Sprintf("%d+%d/256", d.Whole, d.Frac)
}

// ComputeDivisor derives the fixed-point divider that makes a sequencer
// program hit targetFreq output transitions per second. cyclesPerTransition
// is how many base-clock ticks the program's instruction loop consumes per
// logical output transition (4 for the data program, 2 for the word-clock
// program).
//
// Both components truncate toward zero, matching the hardware register
// split. A divisor below unity cannot be represented by the sequencer
// clock and one past the 16-bit whole range cannot either; both are
// configuration errors, rejected here rather than silently truncated into
// a wrong, unflagged clock rate.
func ComputeDivisor(baseClock, cyclesPerTransition, targetFreq float32) (ClockDivisor, error) {
	if baseClock <= 0 || cyclesPerTransition <= 0 || targetFreq <= 0 {
		return ClockDivisor{}, fmt.Errorf("divisor inputs must be positive: base %v Hz, %v cycles/transition, target %v Hz",
			baseClock, cyclesPerTransition, targetFreq)
	}

	div := float64(baseClock) / float64(cyclesPerTransition) / float64(targetFreq)
	if div < 1 {
		return ClockDivisor{}, fmt.Errorf("divisor %.4f below unity: %v Hz is faster than the sequencer can run from a %v Hz base clock",
			div, targetFreq, baseClock)
	}
	if div >= 65536 {
		return ClockDivisor{}, fmt.Errorf("divisor %.4f exceeds the 16-bit whole range: %v Hz is too slow for a %v Hz base clock",
			div, targetFreq, baseClock)
	}

	whole := uint16(div)
	frac := uint8((div - float64(whole)) * fracResolution)
	return ClockDivisor{Whole: whole, Frac: frac}, nil
}
