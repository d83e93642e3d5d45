// Package dac models the receiving end of the serial link: a PCM510x-style
// stereo DAC watching the data, bit-clock and word-clock lines. It is the
// consumer the sequencers exist to feed, used by the observation backends
// and by end-to-end tests to prove the wire framing is right.
package dac

import (
	"github.com/ramenspazz/Pico-I2S/picoi2s/pio"
)

// Frame is one decoded stereo frame. Samples are left-justified in 32
// bits: a 16-bit channel slot occupies the top 16 bits, matching how the
// DAC scales short slots to its full converter range.
type Frame struct {
	Left  int32
	Right int32
}

// PCM510x reassembles frames from pin transitions. Data bits are latched
// on bit-clock rising edges, MSB first; the word-clock level frames them,
// high for the left slot and low for the right (left-justified format,
// which is what the sequencer programs emit: the first data bit lands at
// the frame boundary with no one-bit delay).
type PCM510x struct {
	dataPin pio.Pin
	bckPin  pio.Pin
	lrckPin pio.Pin

	data bool
	bck  bool
	lrck bool

	shift uint32
	nbits int

	left     int32
	haveLeft bool

	frames []Frame
}

// New returns a DAC model listening on the three given lines.
func New(dataPin, bckPin, lrckPin pio.Pin) *PCM510x {
	return &PCM510x{
		dataPin: dataPin,
		bckPin:  bckPin,
		lrckPin: lrckPin,
	}
}

// OnPinChange consumes one traced transition. Wire it to the sequencer
// block's pin trace.
func (d *PCM510x) OnPinChange(tick uint64, pin pio.Pin, level bool) {
	switch pin {
	case d.dataPin:
		d.data = level
	case d.bckPin:
		if level && !d.bck {
			d.latchBit()
		}
		d.bck = level
	case d.lrckPin:
		d.closeSlot(level)
		d.lrck = level
	}
}

func (d *PCM510x) latchBit() {
	if d.nbits >= 32 {
		// A slot longer than the converter width keeps only the first 32
		// bits, like the hardware shift register.
		return
	}
	d.shift <<= 1
	if d.data {
		d.shift |= 1
	}
	d.nbits++
}

// closeSlot ends the slot running up to a word-clock transition and, at
// each frame boundary (the rising edge), emits the completed frame.
func (d *PCM510x) closeSlot(newLevel bool) {
	value := d.slotValue()
	d.shift = 0
	d.nbits = 0

	if newLevel {
		// Rising edge: the right (low) slot just ended, the frame is done.
		// Partial slots seen before the first full frame are discarded.
		if d.haveLeft {
			d.frames = append(d.frames, Frame{Left: d.left, Right: value})
			d.haveLeft = false
		}
	} else {
		// Falling edge: the left (high) slot just ended.
		d.left = value
		d.haveLeft = true
	}
}

// slotValue left-justifies the collected bits into a signed 32-bit sample.
func (d *PCM510x) slotValue() int32 {
	if d.nbits == 0 {
		return 0
	}
	return int32(d.shift << (32 - d.nbits))
}

// Drain returns the frames decoded since the last call.
func (d *PCM510x) Drain() []Frame {
	out := d.frames
	d.frames = nil
	return out
}

// Pending returns how many decoded frames are waiting to be drained.
func (d *PCM510x) Pending() int {
	return len(d.frames)
}
