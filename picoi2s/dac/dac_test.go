package dac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ramenspazz/Pico-I2S/picoi2s/i2s"
	"github.com/ramenspazz/Pico-I2S/picoi2s/pio"
)

const (
	dataPin pio.Pin = 9
	bckPin  pio.Pin = 10
	lrckPin pio.Pin = 11
)

// feedSlot clocks the given bits (MSB first) into the model.
func feedSlot(d *PCM510x, tick *uint64, bits []bool) {
	for _, b := range bits {
		*tick++
		d.OnPinChange(*tick, dataPin, b)
		*tick++
		d.OnPinChange(*tick, bckPin, true)
		*tick++
		d.OnPinChange(*tick, bckPin, false)
	}
}

func bitsOf16(v uint16) []bool {
	bits := make([]bool, 16)
	for i := 0; i < 16; i++ {
		bits[i] = v&(1<<(15-i)) != 0
	}
	return bits
}

func TestDecodesLeftJustifiedFrames(t *testing.T) {
	d := New(dataPin, bckPin, lrckPin)
	var tick uint64

	// Frame boundary, then a left slot and a right slot of 16 bits each.
	d.OnPinChange(tick, lrckPin, true)
	feedSlot(d, &tick, bitsOf16(0x8123))
	d.OnPinChange(tick, lrckPin, false)
	feedSlot(d, &tick, bitsOf16(0x4567))
	d.OnPinChange(tick, lrckPin, true)

	frames := d.Drain()
	require.Len(t, frames, 1)
	assert.Equal(t, int32(-0x7EDD0000), frames[0].Left)
	assert.Equal(t, int32(0x45670000), frames[0].Right)
}

func TestDiscardsPartialPreamble(t *testing.T) {
	d := New(dataPin, bckPin, lrckPin)
	var tick uint64

	// Bits arriving before the first frame boundary must not surface.
	feedSlot(d, &tick, bitsOf16(0xFFFF))
	d.OnPinChange(tick, lrckPin, true)
	assert.Empty(t, d.Drain())

	// The first complete frame decodes normally afterwards.
	feedSlot(d, &tick, bitsOf16(0x0001))
	d.OnPinChange(tick, lrckPin, false)
	feedSlot(d, &tick, bitsOf16(0x0002))
	d.OnPinChange(tick, lrckPin, true)

	frames := d.Drain()
	require.Len(t, frames, 1)
	assert.Equal(t, int32(0x00010000), frames[0].Left)
	assert.Equal(t, int32(0x00020000), frames[0].Right)
}

func TestEmptySlotDecodesToZero(t *testing.T) {
	d := New(dataPin, bckPin, lrckPin)
	d.OnPinChange(1, lrckPin, true)
	d.OnPinChange(2, lrckPin, false)
	d.OnPinChange(3, lrckPin, true)

	frames := d.Drain()
	require.Len(t, frames, 1)
	assert.Equal(t, Frame{}, frames[0])
}

// TestDecodesSequencerOutput closes the loop: encoded words pushed into a
// real sequencer block come back out of the DAC model with the expected
// channel content. The base clock is chosen so both divisors are exact
// integers (98.304 MHz is the audio-friendly crystal choice): 16 bits per
// channel slot, one 32-bit word per frame.
func TestDecodesSequencerOutput(t *testing.T) {
	const baseClock = 98_304_000
	_, bitClock := i2s.Rate192kHz.Clocks()
	wordClock, _ := i2s.Rate192kHz.Clocks()

	p := pio.New()
	smData := p.StateMachine(0)
	require.NoError(t, smData.Install(pio.DataProgram(dataPin, bckPin)))
	bckDiv, err := pio.ComputeDivisor(baseClock, 4, bitClock)
	require.NoError(t, err)
	require.Equal(t, uint8(0), bckDiv.Frac, "test requires an exact divisor")
	require.NoError(t, smData.Configure(bckDiv))

	smWord := p.StateMachine(1)
	require.NoError(t, smWord.Install(pio.WordClockProgram(lrckPin)))
	lrckDiv, err := pio.ComputeDivisor(baseClock, 2, wordClock)
	require.NoError(t, err)
	require.Equal(t, uint8(0), lrckDiv.Frac, "test requires an exact divisor")
	require.NoError(t, smWord.Configure(lrckDiv))

	d := New(dataPin, bckPin, lrckPin)
	p.Pins().SetTrace(d.OnPinChange)

	samples := []int32{0x123456, -0x123456, 0x6FFFFF, -0x800000}
	for _, s := range samples {
		require.True(t, smData.PushWord(i2s.Encode(s, true)))
	}

	require.NoError(t, p.StartGroup(0, 1))
	// 512 base ticks per frame; run a little past the last frame boundary.
	p.Step(512*len(samples) + 16)

	frames := d.Drain()
	require.Len(t, frames, len(samples))
	for i, s := range samples {
		// The left slot carries the first 16 wire bits: the sign and top
		// 15 magnitude bits of the sample. The right slot carries the low
		// 16 bits of the same word.
		assert.Equal(t, int32(uint32(s)&0xFFFF0000), frames[i].Left, "frame %d left", i)
		assert.Equal(t, int32(uint32(s)<<16), frames[i].Right, "frame %d right", i)
	}
}
